package models

import (
	"encoding/json"
	"time"
)

// BodyBattery is a single body battery reading from the day's values array.
type BodyBattery struct {
	Tstamp  time.Time `json:"tstamp"`
	Status  *string   `json:"status"`
	Level   *int      `json:"level"`
	Version *float64  `json:"version"`
}

func (BodyBattery) Table() string { return "body_battery" }

func (BodyBattery) Columns() []string {
	return []string{"tstamp", "status", "level", "version"}
}

func (BodyBattery) ConflictColumns() []string { return []string{"tstamp"} }

func (r BodyBattery) Values() []any { return []any{r.Tstamp, r.Status, r.Level, r.Version} }

// BodyBatteryDaily is the per-day charged/drained summary. The feedback
// events are structured vendor blobs with no stable schema; they are stored
// opaquely as JSON.
type BodyBatteryDaily struct {
	CalendarDate          time.Time       `json:"calendar_date"`
	Charged               *int            `json:"charged"`
	Drained               *int            `json:"drained"`
	DynamicFeedbackEvent  json.RawMessage `json:"dynamic_feedback_event"`
	EndOfDayFeedbackEvent json.RawMessage `json:"end_of_day_feedback_event"`
}

func (BodyBatteryDaily) Table() string { return "body_battery_daily" }

func (BodyBatteryDaily) Columns() []string {
	return []string{"calendar_date", "charged", "drained", "dynamic_feedback_event", "end_of_day_feedback_event"}
}

func (BodyBatteryDaily) ConflictColumns() []string { return []string{"calendar_date"} }

func (r BodyBatteryDaily) Values() []any {
	return []any{r.CalendarDate, r.Charged, r.Drained, rawOrNil(r.DynamicFeedbackEvent), rawOrNil(r.EndOfDayFeedbackEvent)}
}

// BodyBatteryActivityEvent is an activity (sleep, nap, recorded exercise)
// that charged or drained the battery.
type BodyBatteryActivityEvent struct {
	EventStart        time.Time `json:"event_start"`
	EventType         string    `json:"event_type"`
	DurationMs        *int64    `json:"duration_ms"`
	BodyBatteryImpact *int      `json:"body_battery_impact"`
	FeedbackType      *string   `json:"feedback_type"`
	ShortFeedback     *string   `json:"short_feedback"`
}

func (BodyBatteryActivityEvent) Table() string { return "body_battery_activity_event" }

func (BodyBatteryActivityEvent) Columns() []string {
	return []string{"event_start", "event_type", "duration_ms", "body_battery_impact", "feedback_type", "short_feedback"}
}

func (BodyBatteryActivityEvent) ConflictColumns() []string { return []string{"event_start"} }

func (r BodyBatteryActivityEvent) Values() []any {
	return []any{r.EventStart, r.EventType, r.DurationMs, r.BodyBatteryImpact, r.FeedbackType, r.ShortFeedback}
}

// rawOrNil maps an absent JSON blob to SQL NULL instead of an empty string.
func rawOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
