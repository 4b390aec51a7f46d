package models

import "time"

// Steps is a 15-minute activity interval from the daily steps chart.
// All fields are required; an interval without them is a shape mismatch.
type Steps struct {
	StartTime             time.Time `json:"start_time"`
	EndTime               time.Time `json:"end_time"`
	Steps                 int       `json:"steps"`
	Pushes                int       `json:"pushes"`
	PrimaryActivityLevel  string    `json:"primary_activity_level"`
	ActivityLevelConstant bool      `json:"activity_level_constant"`
}

func (Steps) Table() string { return "steps" }

func (Steps) Columns() []string {
	return []string{"start_time", "end_time", "steps", "pushes", "primary_activity_level", "activity_level_constant"}
}

func (Steps) ConflictColumns() []string { return []string{"start_time"} }

func (r Steps) Values() []any {
	return []any{r.StartTime, r.EndTime, r.Steps, r.Pushes, r.PrimaryActivityLevel, r.ActivityLevelConstant}
}

// StepsDaily is the per-day step total from the date-range stats endpoint.
type StepsDaily struct {
	CalendarDate  time.Time `json:"calendar_date"`
	TotalSteps    *int      `json:"total_steps"`
	TotalDistance *int      `json:"total_distance"`
	StepGoal      *int      `json:"step_goal"`
}

func (StepsDaily) Table() string { return "steps_daily" }

func (StepsDaily) Columns() []string {
	return []string{"calendar_date", "total_steps", "total_distance", "step_goal"}
}

func (StepsDaily) ConflictColumns() []string { return []string{"calendar_date"} }

func (r StepsDaily) Values() []any {
	return []any{r.CalendarDate, r.TotalSteps, r.TotalDistance, r.StepGoal}
}
