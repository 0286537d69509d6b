package entity

import "time"

// JobStatus is a plain data field; no transition graph is enforced.
type JobStatus string

const (
	JobStatusPending   JobStatus = "Pending"
	JobStatusInterview JobStatus = "Interview"
	JobStatusTechnical JobStatus = "Technical-Test"
	JobStatusDeclined  JobStatus = "Declined"
	JobStatusAccepted  JobStatus = "Accepted"
)

// JobStatuses lists every status in display order.
var JobStatuses = []JobStatus{
	JobStatusPending,
	JobStatusInterview,
	JobStatusTechnical,
	JobStatusDeclined,
	JobStatusAccepted,
}

func (s JobStatus) Valid() bool {
	for _, v := range JobStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type JobType string

const (
	JobTypeFullTime         JobType = "Full-time"
	JobTypePartTime         JobType = "Part-time"
	JobTypeInternship       JobType = "Internship/Magang"
	JobTypeFreelance        JobType = "Freelance"
	JobTypeFullTimeWFO      JobType = "Full-time (WFO)"
	JobTypeFullTimeHybrid   JobType = "Full-time (Hybird)"
	JobTypeFullTimeWFH      JobType = "Full-time (WFH)"
	JobTypeInternshipWFO    JobType = "Internship/Magang (WFO)"
	JobTypeInternshipWFH    JobType = "Internship/Magang (WFH)"
	JobTypeInternshipHybrid JobType = "Internship/Magang (Hybird)"
	JobTypeUnpaid           JobType = "Unpaid Job"
)

var JobTypes = []JobType{
	JobTypeFullTime,
	JobTypePartTime,
	JobTypeInternship,
	JobTypeFreelance,
	JobTypeFullTimeWFO,
	JobTypeFullTimeHybrid,
	JobTypeFullTimeWFH,
	JobTypeInternshipWFO,
	JobTypeInternshipWFH,
	JobTypeInternshipHybrid,
	JobTypeUnpaid,
}

func (t JobType) Valid() bool {
	for _, v := range JobTypes {
		if v == t {
			return true
		}
	}
	return false
}

const (
	DefaultJobLocation = "Job Location"
	MaxPositionLength  = 100
)

// Job is a single application record owned by exactly one user.
type Job struct {
	ID          string     `json:"_id"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Status      JobStatus  `json:"status"`
	JobType     JobType    `json:"jobType"`
	JobLocation string     `json:"jobLocation"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   string     `json:"created_by"`
	UpdatedAt   *time.Time `json:"updated_at"`
	UpdatedBy   string     `json:"updated_by,omitempty"`
	DeletedAt   *time.Time `json:"-"`
	DeletedBy   string     `json:"-"`
}

func (j *Job) IsDeleted() bool { return j.DeletedAt != nil }
