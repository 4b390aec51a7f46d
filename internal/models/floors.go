package models

import "time"

// Floors is a 15-minute floors-climbed interval.
type Floors struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	FloorsAscended  int       `json:"floors_ascended"`
	FloorsDescended int       `json:"floors_descended"`
}

func (Floors) Table() string { return "floors" }

func (Floors) Columns() []string {
	return []string{"start_time", "end_time", "floors_ascended", "floors_descended"}
}

func (Floors) ConflictColumns() []string { return []string{"start_time"} }

func (r Floors) Values() []any {
	return []any{r.StartTime, r.EndTime, r.FloorsAscended, r.FloorsDescended}
}
