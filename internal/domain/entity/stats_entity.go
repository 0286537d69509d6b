package entity

// StatusCount is one row of a group-by-status aggregation.
type StatusCount struct {
	Status JobStatus `json:"_id"`
	Count  int64     `json:"count"`
}

// MonthCount is one row of a group-by-(year, month) aggregation.
type MonthCount struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}
