package postgres

import (
	"strconv"
	"strings"

	"github.com/oksasatya/job-tracker-api/internal/domain/repository"
)

// jobOrderBy maps a sort key to an ORDER BY clause. id breaks ties so
// pages never overlap.
func jobOrderBy(s repository.JobSort) string {
	switch s {
	case repository.JobSortOldest:
		return "created_at ASC, id ASC"
	case repository.JobSortAscending:
		return "position ASC, id ASC"
	case repository.JobSortDescending:
		return "position DESC, id DESC"
	case repository.JobSortTypeAZ:
		return "job_type ASC, id ASC"
	case repository.JobSortTypeZA:
		return "job_type DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// escapeLike escapes LIKE metacharacters so search input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// buildJobWhere returns the WHERE clause (without keyword) and its args.
func buildJobWhere(f repository.JobFilter) (string, []any) {
	args := []any{f.OwnerID}
	conds := []string{"created_by = $1", "deleted_at IS NULL"}

	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if f.JobType != "" {
		args = append(args, string(f.JobType))
		conds = append(conds, "job_type = $"+strconv.Itoa(len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		p := "$" + strconv.Itoa(len(args))
		conds = append(conds, "(company ILIKE "+p+" OR position ILIKE "+p+" OR job_location ILIKE "+p+")")
	}
	return strings.Join(conds, " AND "), args
}

// buildJobListQuery returns the page query and the matching count query.
// Both share args; the page query appends LIMIT/OFFSET parameters.
func buildJobListQuery(f repository.JobFilter) (list string, count string, listArgs []any, countArgs []any) {
	where, args := buildJobWhere(f)
	count = "SELECT count(*) FROM jobs WHERE " + where

	listArgs = append(append([]any{}, args...), f.Limit, f.Offset)
	n := len(args)
	list = "SELECT " + jobColumns + " FROM jobs WHERE " + where +
		" ORDER BY " + jobOrderBy(f.Sort) +
		" LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	return list, count, listArgs, args
}
