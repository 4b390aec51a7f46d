package garmin

import (
	"encoding/json"
	"fmt"
	"time"
)

// Time handles the Garmin Connect datetime format "2006-01-02T15:04:05.0".
// The API reports these without an offset; they are GMT by contract, so the
// parsed value is a UTC instant.
type Time struct {
	time.Time
}

const (
	timeLayout     = "2006-01-02T15:04:05.0"
	timeLayoutBare = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"
)

func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.Parse(s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(timeLayout))
}

// Parse parses a Garmin GMT time string, trying the fractional layout first,
// then without the fraction.
func (t *Time) Parse(s string) error {
	parsed, err := time.Parse(timeLayout, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(timeLayoutBare, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse garmin time %q: %w", s, err)
}

// ParseDate parses a calendar date string ("2024-01-12") as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse garmin date %q: %w", s, err)
	}
	return t, nil
}

// HeartRatePayload is the daily heart rate response.
type HeartRatePayload struct {
	CalendarDate                     string           `json:"calendarDate"`
	RestingHeartRate                 *int             `json:"restingHeartRate"`
	MinHeartRate                     *int             `json:"minHeartRate"`
	MaxHeartRate                     *int             `json:"maxHeartRate"`
	LastSevenDaysAvgRestingHeartRate *int             `json:"lastSevenDaysAvgRestingHeartRate"`
	HeartRateValues                  []HeartRateValue `json:"heartRateValues"`
}

// HeartRateValue is one [epoch-ms, bpm] pair from heartRateValues.
// The bpm element is null for measurement gaps.
type HeartRateValue struct {
	TimestampMs *int64
	HeartRate   *int
}

func (v *HeartRateValue) UnmarshalJSON(data []byte) error {
	var pair []*float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("heart rate value: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("heart rate value: want 2 elements, got %d", len(pair))
	}
	if pair[0] != nil {
		ms := int64(*pair[0])
		v.TimestampMs = &ms
	}
	if pair[1] != nil {
		hr := int(*pair[1])
		v.HeartRate = &hr
	}
	return nil
}

// StepsInterval is one 15-minute entry from the daily summary chart.
type StepsInterval struct {
	StartGMT              Time    `json:"startGMT"`
	EndGMT                Time    `json:"endGMT"`
	Steps                 *int    `json:"steps"`
	Pushes                *int    `json:"pushes"`
	PrimaryActivityLevel  *string `json:"primaryActivityLevel"`
	ActivityLevelConstant *bool   `json:"activityLevelConstant"`
}

// DailySteps is one entry of the date-range step stats response.
type DailySteps struct {
	CalendarDate  string `json:"calendarDate"`
	TotalSteps    *int   `json:"totalSteps"`
	TotalDistance *int   `json:"totalDistance"`
	StepGoal      *int   `json:"stepGoal"`
}

// FloorsPayload is the daily floors chart response. The values array is
// positional; floorsValueDescriptorDTOList documents the element order but
// has been stable for years.
type FloorsPayload struct {
	StartTimestampGMT            Time                    `json:"startTimestampGMT"`
	EndTimestampGMT              Time                    `json:"endTimestampGMT"`
	FloorsValueDescriptorDTOList []FloorsValueDescriptor `json:"floorsValueDescriptorDTOList"`
	FloorValuesArray             []FloorsValue           `json:"floorValuesArray"`
}

// FloorsValueDescriptor names one positional element of FloorValuesArray.
type FloorsValueDescriptor struct {
	Key   string `json:"key"`
	Index int    `json:"index"`
}

// FloorsValue is one [startGMT, endGMT, ascended, descended] tuple.
type FloorsValue struct {
	StartGMT  Time
	EndGMT    Time
	Ascended  *int
	Descended *int
}

func (v *FloorsValue) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("floors value: %w", err)
	}
	if len(tuple) != 4 {
		return fmt.Errorf("floors value: want 4 elements, got %d", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &v.StartGMT); err != nil {
		return fmt.Errorf("floors value start: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &v.EndGMT); err != nil {
		return fmt.Errorf("floors value end: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &v.Ascended); err != nil {
		return fmt.Errorf("floors value ascended: %w", err)
	}
	if err := json.Unmarshal(tuple[3], &v.Descended); err != nil {
		return fmt.Errorf("floors value descended: %w", err)
	}
	return nil
}

// StressPayload is the daily stress response.
type StressPayload struct {
	CalendarDate           string        `json:"calendarDate"`
	MaxStressLevel         *int          `json:"maxStressLevel"`
	AvgStressLevel         *int          `json:"avgStressLevel"`
	StressChartValueOffset *int          `json:"stressChartValueOffset"`
	StressChartYAxisOrigin *int          `json:"stressChartYAxisOrigin"`
	StressValuesArray      []StressValue `json:"stressValuesArray"`
}

// StressValue is one [epoch-ms, level] pair from stressValuesArray.
type StressValue struct {
	TimestampMs *int64
	Level       *int
}

func (v *StressValue) UnmarshalJSON(data []byte) error {
	var pair []*float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("stress value: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("stress value: want 2 elements, got %d", len(pair))
	}
	if pair[0] != nil {
		ms := int64(*pair[0])
		v.TimestampMs = &ms
	}
	if pair[1] != nil {
		level := int(*pair[1])
		v.Level = &level
	}
	return nil
}

// BodyBatteryDay is one day of the body battery report.
type BodyBatteryDay struct {
	Date                         string                    `json:"date"`
	Charged                      *int                      `json:"charged"`
	Drained                      *int                      `json:"drained"`
	StartTimestampGMT            Time                      `json:"startTimestampGMT"`
	EndTimestampGMT              Time                      `json:"endTimestampGMT"`
	DynamicFeedbackEvent         json.RawMessage           `json:"bodyBatteryDynamicFeedbackEvent"`
	EndOfDayDynamicFeedbackEvent json.RawMessage           `json:"endOfDayBodyBatteryDynamicFeedbackEvent"`
	ActivityEvents               []BodyBatteryEventPayload `json:"bodyBatteryActivityEvent"`
	ValuesArray                  []BodyBatteryValue        `json:"bodyBatteryValuesArray"`
}

// BodyBatteryEventPayload is an activity event (sleep, nap, recorded
// exercise) attached to a body battery day.
type BodyBatteryEventPayload struct {
	EventType              string  `json:"eventType"`
	EventStartTimeGMT      Time    `json:"eventStartTimeGmt"`
	TimezoneOffset         *int64  `json:"timezoneOffset"`
	DurationInMilliseconds *int64  `json:"durationInMilliseconds"`
	BodyBatteryImpact      *int    `json:"bodyBatteryImpact"`
	FeedbackType           *string `json:"feedbackType"`
	ShortFeedback          *string `json:"shortFeedback"`
}

// BodyBatteryValue is one [epoch-ms, status, level, version] tuple.
type BodyBatteryValue struct {
	TimestampMs *int64
	Status      *string
	Level       *int
	Version     *float64
}

func (v *BodyBatteryValue) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("body battery value: %w", err)
	}
	if len(tuple) != 4 {
		return fmt.Errorf("body battery value: want 4 elements, got %d", len(tuple))
	}
	var ms *float64
	if err := json.Unmarshal(tuple[0], &ms); err != nil {
		return fmt.Errorf("body battery value timestamp: %w", err)
	}
	if ms != nil {
		t := int64(*ms)
		v.TimestampMs = &t
	}
	if err := json.Unmarshal(tuple[1], &v.Status); err != nil {
		return fmt.Errorf("body battery value status: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &v.Level); err != nil {
		return fmt.Errorf("body battery value level: %w", err)
	}
	if err := json.Unmarshal(tuple[3], &v.Version); err != nil {
		return fmt.Errorf("body battery value version: %w", err)
	}
	return nil
}

// SleepPayload is the daily sleep response: one summary DTO plus up to nine
// fine-grained streams, any of which may be absent or null.
type SleepPayload struct {
	DailySleepDTO                       *DailySleep          `json:"dailySleepDTO"`
	SleepMovement                       []SleepMovementEntry `json:"sleepMovement"`
	SleepLevels                         []SleepMovementEntry `json:"sleepLevels"`
	SleepRestlessMoments                []TimedValue         `json:"sleepRestlessMoments"`
	WellnessEpochSPO2DataDTOList        []SPO2Entry          `json:"wellnessEpochSPO2DataDTOList"`
	WellnessEpochRespirationDataDTOList []RespirationEntry   `json:"wellnessEpochRespirationDataDTOList"`
	SleepHeartRate                      []TimedValue         `json:"sleepHeartRate"`
	SleepStress                         []TimedValue         `json:"sleepStress"`
	SleepBodyBattery                    []TimedValue         `json:"sleepBodyBattery"`
	HRVData                             []TimedValue         `json:"hrvData"`
}

// DailySleep is the dailySleepDTO summary.
type DailySleep struct {
	CalendarDate                string          `json:"calendarDate"`
	SleepTimeSeconds            *int            `json:"sleepTimeSeconds"`
	NapTimeSeconds              *int            `json:"napTimeSeconds"`
	SleepWindowConfirmed        *bool           `json:"sleepWindowConfirmed"`
	SleepWindowConfirmationType *string         `json:"sleepWindowConfirmationType"`
	SleepStartTimestampGMT      *int64          `json:"sleepStartTimestampGMT"`
	SleepEndTimestampGMT        *int64          `json:"sleepEndTimestampGMT"`
	UnmeasurableSleepSeconds    *int            `json:"unmeasurableSleepSeconds"`
	DeepSleepSeconds            *int            `json:"deepSleepSeconds"`
	LightSleepSeconds           *int            `json:"lightSleepSeconds"`
	RemSleepSeconds             *int            `json:"remSleepSeconds"`
	AwakeSleepSeconds           *int            `json:"awakeSleepSeconds"`
	DeviceRemCapable            *bool           `json:"deviceRemCapable"`
	Retro                       *bool           `json:"retro"`
	SleepFromDevice             *bool           `json:"sleepFromDevice"`
	AverageSpO2Value            *float64        `json:"averageSpO2Value"`
	LowestSpO2Value             *int            `json:"lowestSpO2Value"`
	HighestSpO2Value            *int            `json:"highestSpO2Value"`
	AverageSpO2HRSleep          *float64        `json:"averageSpO2HRSleep"`
	AverageRespirationValue     *float64        `json:"averageRespirationValue"`
	LowestRespirationValue      *float64        `json:"lowestRespirationValue"`
	HighestRespirationValue     *float64        `json:"highestRespirationValue"`
	AwakeCount                  *int            `json:"awakeCount"`
	AvgSleepStress              *float64        `json:"avgSleepStress"`
	AgeGroup                    *string         `json:"ageGroup"`
	SleepScoreFeedback          *string         `json:"sleepScoreFeedback"`
	SleepScoreInsight           *string         `json:"sleepScoreInsight"`
	SleepScores                 json.RawMessage `json:"sleepScores"`
	SleepVersion                *int            `json:"sleepVersion"`
}

// SleepMovementEntry is a movement or stage-level interval during sleep.
type SleepMovementEntry struct {
	StartGMT      Time     `json:"startGMT"`
	EndGMT        Time     `json:"endGMT"`
	ActivityLevel *float64 `json:"activityLevel"`
}

// TimedValue is the {"value": N, "startGMT": epoch-ms} shape shared by the
// restless-moment, heart-rate, stress, body-battery and HRV sleep streams.
type TimedValue struct {
	Value    *float64 `json:"value"`
	StartGMT *int64   `json:"startGMT"`
}

// SPO2Entry is one pulse-ox epoch during sleep.
type SPO2Entry struct {
	EpochTimestamp    Time `json:"epochTimestamp"`
	SpO2Reading       *int `json:"spo2Reading"`
	ReadingConfidence *int `json:"readingConfidence"`
}

// RespirationEntry is one respiration epoch during sleep.
type RespirationEntry struct {
	StartTimeGMT     *int64   `json:"startTimeGMT"`
	RespirationValue *float64 `json:"respirationValue"`
}
