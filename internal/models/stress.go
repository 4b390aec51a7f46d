package models

import "time"

// Stress is a single stress reading. Negative levels are vendor markers for
// "unmeasurable" periods and are stored as-is.
type Stress struct {
	Tstamp      time.Time `json:"tstamp"`
	StressLevel int       `json:"stress_level"`
}

func (Stress) Table() string { return "stress" }

func (Stress) Columns() []string { return []string{"tstamp", "stress_level"} }

func (Stress) ConflictColumns() []string { return []string{"tstamp"} }

func (r Stress) Values() []any { return []any{r.Tstamp, r.StressLevel} }

// StressDaily is the per-day stress summary including the chart geometry the
// vendor dashboard uses to render the day.
type StressDaily struct {
	CalendarDate           time.Time `json:"calendar_date"`
	MaxStressLevel         *int      `json:"max_stress_level"`
	AvgStressLevel         *int      `json:"avg_stress_level"`
	StressChartValueOffset *int      `json:"stress_chart_value_offset"`
	StressChartYAxisOrigin *int      `json:"stress_chart_y_axis_origin"`
}

func (StressDaily) Table() string { return "stress_daily" }

func (StressDaily) Columns() []string {
	return []string{"calendar_date", "max_stress_level", "avg_stress_level", "stress_chart_value_offset", "stress_chart_y_axis_origin"}
}

func (StressDaily) ConflictColumns() []string { return []string{"calendar_date"} }

func (r StressDaily) Values() []any {
	return []any{r.CalendarDate, r.MaxStressLevel, r.AvgStressLevel, r.StressChartValueOffset, r.StressChartYAxisOrigin}
}
