package models

import (
	"encoding/json"
	"time"
)

// SleepDaily is the nightly sleep summary. Almost every field is nullable:
// the vendor omits score and SpO2 fields for nights without a confirmed
// sleep window or without a pulse-ox capable device. The sleep_scores blob
// has no stable schema and is stored opaquely.
type SleepDaily struct {
	CalendarDate                time.Time       `json:"calendar_date"`
	SleepTimeSeconds            *int            `json:"sleep_time_seconds"`
	NapTimeSeconds              *int            `json:"nap_time_seconds"`
	SleepWindowConfirmed        *bool           `json:"sleep_window_confirmed"`
	SleepWindowConfirmationType *string         `json:"sleep_window_confirmation_type"`
	SleepStart                  *time.Time      `json:"sleep_start"`
	SleepEnd                    *time.Time      `json:"sleep_end"`
	UnmeasurableSleepSeconds    *int            `json:"unmeasurable_sleep_seconds"`
	DeepSleepSeconds            *int            `json:"deep_sleep_seconds"`
	LightSleepSeconds           *int            `json:"light_sleep_seconds"`
	RemSleepSeconds             *int            `json:"rem_sleep_seconds"`
	AwakeSleepSeconds           *int            `json:"awake_sleep_seconds"`
	DeviceRemCapable            *bool           `json:"device_rem_capable"`
	Retro                       *bool           `json:"retro"`
	SleepFromDevice             *bool           `json:"sleep_from_device"`
	AverageSpO2Value            *float64        `json:"average_spo2_value"`
	LowestSpO2Value             *int            `json:"lowest_spo2_value"`
	HighestSpO2Value            *int            `json:"highest_spo2_value"`
	AverageSpO2HRSleep          *float64        `json:"average_spo2_hr_sleep"`
	AverageRespirationValue     *float64        `json:"average_respiration_value"`
	LowestRespirationValue      *float64        `json:"lowest_respiration_value"`
	HighestRespirationValue     *float64        `json:"highest_respiration_value"`
	AwakeCount                  *int            `json:"awake_count"`
	AvgSleepStress              *float64        `json:"avg_sleep_stress"`
	AgeGroup                    *string         `json:"age_group"`
	SleepScoreFeedback          *string         `json:"sleep_score_feedback"`
	SleepScoreInsight           *string         `json:"sleep_score_insight"`
	SleepScores                 json.RawMessage `json:"sleep_scores"`
	SleepVersion                *int            `json:"sleep_version"`
}

func (SleepDaily) Table() string { return "sleep_daily" }

func (SleepDaily) Columns() []string {
	return []string{
		"calendar_date", "sleep_time_seconds", "nap_time_seconds",
		"sleep_window_confirmed", "sleep_window_confirmation_type",
		"sleep_start", "sleep_end", "unmeasurable_sleep_seconds",
		"deep_sleep_seconds", "light_sleep_seconds", "rem_sleep_seconds",
		"awake_sleep_seconds", "device_rem_capable", "retro",
		"sleep_from_device", "average_spo2_value", "lowest_spo2_value",
		"highest_spo2_value", "average_spo2_hr_sleep",
		"average_respiration_value", "lowest_respiration_value",
		"highest_respiration_value", "awake_count", "avg_sleep_stress",
		"age_group", "sleep_score_feedback", "sleep_score_insight",
		"sleep_scores", "sleep_version",
	}
}

func (SleepDaily) ConflictColumns() []string { return []string{"calendar_date"} }

func (r SleepDaily) Values() []any {
	return []any{
		r.CalendarDate, r.SleepTimeSeconds, r.NapTimeSeconds,
		r.SleepWindowConfirmed, r.SleepWindowConfirmationType,
		r.SleepStart, r.SleepEnd, r.UnmeasurableSleepSeconds,
		r.DeepSleepSeconds, r.LightSleepSeconds, r.RemSleepSeconds,
		r.AwakeSleepSeconds, r.DeviceRemCapable, r.Retro,
		r.SleepFromDevice, r.AverageSpO2Value, r.LowestSpO2Value,
		r.HighestSpO2Value, r.AverageSpO2HRSleep,
		r.AverageRespirationValue, r.LowestRespirationValue,
		r.HighestRespirationValue, r.AwakeCount, r.AvgSleepStress,
		r.AgeGroup, r.SleepScoreFeedback, r.SleepScoreInsight,
		rawOrNil(r.SleepScores), r.SleepVersion,
	}
}

// SleepMovement is a movement intensity interval during the night.
type SleepMovement struct {
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	ActivityLevel float64   `json:"activity_level"`
}

func (SleepMovement) Table() string { return "sleep_movement" }

func (SleepMovement) Columns() []string {
	return []string{"start_time", "end_time", "activity_level"}
}

func (SleepMovement) ConflictColumns() []string { return []string{"start_time"} }

func (r SleepMovement) Values() []any { return []any{r.StartTime, r.EndTime, r.ActivityLevel} }

// SleepLevels is a sleep stage interval (deep/light/REM/awake encoded as a
// numeric level by the vendor).
type SleepLevels struct {
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	ActivityLevel float64   `json:"activity_level"`
}

func (SleepLevels) Table() string { return "sleep_levels" }

func (SleepLevels) Columns() []string {
	return []string{"start_time", "end_time", "activity_level"}
}

func (SleepLevels) ConflictColumns() []string { return []string{"start_time"} }

func (r SleepLevels) Values() []any { return []any{r.StartTime, r.EndTime, r.ActivityLevel} }

// SleepRestlessMoments is a point count of restless movements.
type SleepRestlessMoments struct {
	Tstamp time.Time `json:"tstamp"`
	Value  int       `json:"value"`
}

func (SleepRestlessMoments) Table() string { return "sleep_restless_moments" }

func (SleepRestlessMoments) Columns() []string { return []string{"tstamp", "value"} }

func (SleepRestlessMoments) ConflictColumns() []string { return []string{"tstamp"} }

func (r SleepRestlessMoments) Values() []any { return []any{r.Tstamp, r.Value} }

// SleepSPO2 is a pulse-ox reading during sleep.
type SleepSPO2 struct {
	Tstamp            time.Time `json:"tstamp"`
	SpO2Reading       *int      `json:"spo2_reading"`
	ReadingConfidence *int      `json:"reading_confidence"`
}

func (SleepSPO2) Table() string { return "sleep_spo2" }

func (SleepSPO2) Columns() []string {
	return []string{"tstamp", "spo2_reading", "reading_confidence"}
}

func (SleepSPO2) ConflictColumns() []string { return []string{"tstamp"} }

func (r SleepSPO2) Values() []any { return []any{r.Tstamp, r.SpO2Reading, r.ReadingConfidence} }

// SleepRespiration is a respiration-rate reading during sleep.
type SleepRespiration struct {
	Tstamp time.Time `json:"tstamp"`
	Value  float64   `json:"value"`
}

func (SleepRespiration) Table() string { return "sleep_respiration" }

func (SleepRespiration) Columns() []string { return []string{"tstamp", "value"} }

func (SleepRespiration) ConflictColumns() []string { return []string{"tstamp"} }

func (r SleepRespiration) Values() []any { return []any{r.Tstamp, r.Value} }

// SleepHeartRate is a heart rate reading during sleep. Value is nullable for
// measurement gaps, same as daytime heart rate.
type SleepHeartRate struct {
	Tstamp time.Time `json:"tstamp"`
	Value  *int      `json:"value"`
}

func (SleepHeartRate) Table() string { return "sleep_heart_rate" }

func (SleepHeartRate) Columns() []string { return []string{"tstamp", "value"} }

func (SleepHeartRate) ConflictColumns() []string { return []string{"tstamp"} }

func (r SleepHeartRate) Values() []any { return []any{r.Tstamp, r.Value} }

// SleepStress is a stress reading during sleep.
type SleepStress struct {
	Tstamp time.Time `json:"tstamp"`
	Value  int       `json:"value"`
}

func (SleepStress) Table() string { return "sleep_stress" }

func (SleepStress) Columns() []string { return []string{"tstamp", "value"} }

func (SleepStress) ConflictColumns() []string { return []string{"tstamp"} }

func (r SleepStress) Values() []any { return []any{r.Tstamp, r.Value} }

// SleepBodyBattery is a body battery reading during sleep.
type SleepBodyBattery struct {
	Tstamp time.Time `json:"tstamp"`
	Value  int       `json:"value"`
}

func (SleepBodyBattery) Table() string { return "sleep_body_battery" }

func (SleepBodyBattery) Columns() []string { return []string{"tstamp", "value"} }

func (SleepBodyBattery) ConflictColumns() []string { return []string{"tstamp"} }

func (r SleepBodyBattery) Values() []any { return []any{r.Tstamp, r.Value} }

// SleepHRV is a heart rate variability reading during sleep.
type SleepHRV struct {
	Tstamp time.Time `json:"tstamp"`
	Value  int       `json:"value"`
}

func (SleepHRV) Table() string { return "sleep_hrv" }

func (SleepHRV) Columns() []string { return []string{"tstamp", "value"} }

func (SleepHRV) ConflictColumns() []string { return []string{"tstamp"} }

func (r SleepHRV) Values() []any { return []any{r.Tstamp, r.Value} }
