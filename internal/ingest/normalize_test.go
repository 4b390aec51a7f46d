package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/claude/homepulse/internal/garmin"
)

var berlin = mustLoadLocation("Europe/Berlin")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func gmt(s string) garmin.Time {
	var t garmin.Time
	if err := t.Parse(s); err != nil {
		panic(err)
	}
	return t
}

// TestNormalizeHeartRate verifies that every parsed point becomes a record
// and that epoch-ms timestamps keep their instant across the zone conversion.
func TestNormalizeHeartRate(t *testing.T) {
	p := &garmin.HeartRatePayload{
		RestingHeartRate: intPtr(52),
		MinHeartRate:     intPtr(48),
		MaxHeartRate:     intPtr(141),
		HeartRateValues: []garmin.HeartRateValue{
			{TimestampMs: int64Ptr(1705097400000), HeartRate: intPtr(62)},
			{TimestampMs: int64Ptr(1705097520000), HeartRate: nil},
		},
	}

	daily, points := NormalizeHeartRate(day(2024, 1, 12), p, berlin)

	if daily.RestingHeartRate == nil || *daily.RestingHeartRate != 52 {
		t.Errorf("resting = %v, want 52", daily.RestingHeartRate)
	}
	if !daily.MeasureDate.Equal(day(2024, 1, 12)) {
		t.Errorf("measure date = %v", daily.MeasureDate)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	// Same instant, local representation.
	if got := points[0].Tstamp.UnixMilli(); got != 1705097400000 {
		t.Errorf("instant = %d, want 1705097400000", got)
	}
	if points[0].Tstamp.Location() != berlin {
		t.Errorf("location = %v, want Europe/Berlin", points[0].Tstamp.Location())
	}
	// Measurement gap stays a row with a null value.
	if points[1].HeartRate != nil {
		t.Errorf("gap value = %v, want nil", *points[1].HeartRate)
	}
}

// TestNormalizeHeartRateNullValues verifies the watch-less day shape where
// heartRateValues is null: an empty point slice, not an error.
func TestNormalizeHeartRateNullValues(t *testing.T) {
	var p garmin.HeartRatePayload
	if err := json.Unmarshal([]byte(`{"calendarDate": "2024-01-12", "heartRateValues": null}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, points := NormalizeHeartRate(day(2024, 1, 12), &p, time.UTC)
	if len(points) != 0 {
		t.Errorf("points = %d, want 0", len(points))
	}
}

// TestNormalizeSteps verifies interval conversion and that entries missing
// required fields are skipped rather than stored with zero values.
func TestNormalizeSteps(t *testing.T) {
	intervals := []garmin.StepsInterval{
		{
			StartGMT: gmt("2024-01-12T08:00:00.0"), EndGMT: gmt("2024-01-12T08:15:00.0"),
			Steps: intPtr(312), Pushes: intPtr(0),
			PrimaryActivityLevel: strPtr("active"), ActivityLevelConstant: boolPtr(false),
		},
		{
			// steps missing: skipped
			StartGMT: gmt("2024-01-12T08:15:00.0"), EndGMT: gmt("2024-01-12T08:30:00.0"),
			Pushes: intPtr(0), PrimaryActivityLevel: strPtr("sedentary"), ActivityLevelConstant: boolPtr(true),
		},
	}

	rows := NormalizeSteps(intervals, berlin)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Steps != 312 || rows[0].PrimaryActivityLevel != "active" {
		t.Errorf("row = %+v", rows[0])
	}
	// GMT string parsed as UTC, shifted to Berlin (+1 in January).
	if rows[0].StartTime.Hour() != 9 {
		t.Errorf("local hour = %d, want 9", rows[0].StartTime.Hour())
	}
}

// TestNormalizeDailySteps verifies range conversion and that a malformed
// calendarDate fails the call instead of dropping the day.
func TestNormalizeDailySteps(t *testing.T) {
	rows, err := NormalizeDailySteps([]garmin.DailySteps{
		{CalendarDate: "2024-01-11", TotalSteps: intPtr(9640), TotalDistance: intPtr(7207), StepGoal: intPtr(8000)},
		{CalendarDate: "2024-01-12", TotalSteps: nil},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1].TotalSteps != nil {
		t.Errorf("nullable total kept: %v", *rows[1].TotalSteps)
	}

	if _, err := NormalizeDailySteps([]garmin.DailySteps{{CalendarDate: "Jan 12"}}); err == nil {
		t.Error("expected error for malformed calendarDate")
	}
}

// TestNormalizeStress verifies summary and point conversion, keeping the
// vendor's negative levels for unmeasurable periods.
func TestNormalizeStress(t *testing.T) {
	p := &garmin.StressPayload{
		MaxStressLevel: intPtr(87),
		AvgStressLevel: intPtr(31),
		StressValuesArray: []garmin.StressValue{
			{TimestampMs: int64Ptr(1705097400000), Level: intPtr(25)},
			{TimestampMs: int64Ptr(1705097580000), Level: intPtr(-1)},
			{TimestampMs: nil, Level: intPtr(30)},
		},
	}

	daily, points := NormalizeStress(day(2024, 1, 12), p, time.UTC)
	if *daily.MaxStressLevel != 87 {
		t.Errorf("max = %d", *daily.MaxStressLevel)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2 (nil timestamp skipped)", len(points))
	}
	if points[1].StressLevel != -1 {
		t.Errorf("unmeasurable level = %d, want -1", points[1].StressLevel)
	}
}

// TestNormalizeBodyBattery verifies that only the requested day is taken from
// the range-based report and that feedback blobs pass through opaquely.
func TestNormalizeBodyBattery(t *testing.T) {
	report := []garmin.BodyBatteryDay{
		{Date: "2024-01-11", Charged: intPtr(50)},
		{
			Date: "2024-01-12", Charged: intPtr(62), Drained: intPtr(58),
			DynamicFeedbackEvent: json.RawMessage(`{"eventTimestampGmt":"2024-01-12T10:00:00.0"}`),
			ValuesArray: []garmin.BodyBatteryValue{
				{TimestampMs: int64Ptr(1705097400000), Status: strPtr("MEASURED"), Level: intPtr(74), Version: floatPtr(2)},
			},
			ActivityEvents: []garmin.BodyBatteryEventPayload{
				{EventType: "sleep", EventStartTimeGMT: gmt("2024-01-11T22:30:00.0"), BodyBatteryImpact: intPtr(45)},
			},
		},
	}

	daily, points, events := NormalizeBodyBattery(day(2024, 1, 12), report, time.UTC)
	if daily == nil || *daily.Charged != 62 {
		t.Fatalf("daily = %+v, want charged 62", daily)
	}
	if len(points) != 1 || *points[0].Level != 74 {
		t.Errorf("points = %+v", points)
	}
	if len(events) != 1 || events[0].EventType != "sleep" {
		t.Errorf("events = %+v", events)
	}

	daily, points, events = NormalizeBodyBattery(day(2024, 1, 13), report, time.UTC)
	if daily != nil || points != nil || events != nil {
		t.Error("day absent from report should yield no records")
	}
}

// TestNormalizeSleep verifies the full decomposition of one night and the
// per-stream independence: a missing stream stays empty without affecting
// the others.
func TestNormalizeSleep(t *testing.T) {
	p := &garmin.SleepPayload{
		DailySleepDTO: &garmin.DailySleep{
			CalendarDate:           "2024-01-12",
			SleepTimeSeconds:       intPtr(25620),
			SleepStartTimestampGMT: int64Ptr(1705098600000),
			SleepEndTimestampGMT:   int64Ptr(1705125000000),
			DeepSleepSeconds:       intPtr(5400),
		},
		SleepMovement: []garmin.SleepMovementEntry{
			{StartGMT: gmt("2024-01-12T22:30:00.0"), EndGMT: gmt("2024-01-12T22:31:00.0"), ActivityLevel: floatPtr(1.5)},
		},
		SleepLevels: []garmin.SleepMovementEntry{
			{StartGMT: gmt("2024-01-12T22:30:00.0"), EndGMT: gmt("2024-01-12T23:45:00.0"), ActivityLevel: floatPtr(0)},
		},
		SleepStress: []garmin.TimedValue{
			{Value: floatPtr(12), StartGMT: int64Ptr(1705098600000)},
			{Value: floatPtr(14), StartGMT: int64Ptr(1705098780000)},
		},
		// sleepHeartRate absent: HeartRate stream stays empty.
		WellnessEpochRespirationDataDTOList: []garmin.RespirationEntry{
			{StartTimeGMT: int64Ptr(1705098600000), RespirationValue: floatPtr(14.2)},
		},
	}

	daily, recs := NormalizeSleep(day(2024, 1, 12), p, berlin)
	if daily == nil {
		t.Fatal("daily = nil, want summary")
	}
	if *daily.SleepTimeSeconds != 25620 {
		t.Errorf("sleep seconds = %d", *daily.SleepTimeSeconds)
	}
	if daily.SleepStart == nil || daily.SleepStart.UnixMilli() != 1705098600000 {
		t.Errorf("sleep start = %v", daily.SleepStart)
	}
	if len(recs.Movement) != 1 || len(recs.Levels) != 1 || len(recs.Stress) != 2 || len(recs.Respiration) != 1 {
		t.Errorf("stream counts = %d/%d/%d/%d", len(recs.Movement), len(recs.Levels), len(recs.Stress), len(recs.Respiration))
	}
	if len(recs.HeartRate) != 0 {
		t.Errorf("absent stream produced %d records", len(recs.HeartRate))
	}
	if got := recs.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
}

// TestNormalizeSleepNoSummary verifies the no-sleep-recorded shape: a null
// dailySleepDTO yields no summary but streams still normalize.
func TestNormalizeSleepNoSummary(t *testing.T) {
	p := &garmin.SleepPayload{
		SleepBodyBattery: []garmin.TimedValue{
			{Value: floatPtr(60), StartGMT: int64Ptr(1705098600000)},
		},
	}
	daily, recs := NormalizeSleep(day(2024, 1, 12), p, time.UTC)
	if daily != nil {
		t.Errorf("daily = %+v, want nil", daily)
	}
	if len(recs.BodyBattery) != 1 {
		t.Errorf("body battery stream = %d, want 1", len(recs.BodyBattery))
	}
}

// TestLocalMillisInstant verifies the core timestamp rule: zone conversion
// changes representation, never the instant.
func TestLocalMillisInstant(t *testing.T) {
	ms := int64(1705097400000)
	local := localMillis(ms, berlin)
	if local.UnixMilli() != ms {
		t.Errorf("instant changed: %d != %d", local.UnixMilli(), ms)
	}
	if utc := localMillis(ms, time.UTC); !local.Equal(utc) {
		t.Errorf("local %v != utc %v", local, utc)
	}
}
