package ingest

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/homepulse/internal/garmin"
	"github.com/claude/homepulse/internal/models"
	"github.com/claude/homepulse/internal/storage"
)

// fakeClient returns canned payloads per metric.
type fakeClient struct {
	heartRate   *garmin.HeartRatePayload
	steps       []garmin.StepsInterval
	dailySteps  []garmin.DailySteps
	floors      *garmin.FloorsPayload
	stress      *garmin.StressPayload
	bodyBattery []garmin.BodyBatteryDay
	sleep       *garmin.SleepPayload
	err         error
}

func (f *fakeClient) HeartRates(ctx context.Context, day time.Time) (*garmin.HeartRatePayload, error) {
	return f.heartRate, f.err
}

func (f *fakeClient) Steps(ctx context.Context, day time.Time) ([]garmin.StepsInterval, error) {
	return f.steps, f.err
}

func (f *fakeClient) DailySteps(ctx context.Context, start, end time.Time) ([]garmin.DailySteps, error) {
	return f.dailySteps, f.err
}

func (f *fakeClient) Floors(ctx context.Context, day time.Time) (*garmin.FloorsPayload, error) {
	return f.floors, f.err
}

func (f *fakeClient) Stress(ctx context.Context, day time.Time) (*garmin.StressPayload, error) {
	return f.stress, f.err
}

func (f *fakeClient) BodyBattery(ctx context.Context, day time.Time) ([]garmin.BodyBatteryDay, error) {
	return f.bodyBattery, f.err
}

func (f *fakeClient) Sleep(ctx context.Context, day time.Time) (*garmin.SleepPayload, error) {
	return f.sleep, f.err
}

// fakeStore captures saved records per table.
type fakeStore struct {
	mode    storage.WriteMode
	records []storage.Record
	err     error
}

func (f *fakeStore) Save(ctx context.Context, mode storage.WriteMode, records []storage.Record) error {
	f.mode = mode
	f.records = append(f.records, records...)
	return f.err
}

func (f *fakeStore) byTable(table string) []storage.Record {
	var out []storage.Record
	for _, r := range f.records {
		if r.Table() == table {
			out = append(out, r)
		}
	}
	return out
}

// TestSyncHeartRate verifies the fetch-normalize-persist path: the daily
// summary and every point are saved in one batch, and the returned count
// covers the fine-grained records only.
func TestSyncHeartRate(t *testing.T) {
	rhr := 52
	hr := 62
	ms := int64(1705097400000)
	client := &fakeClient{heartRate: &garmin.HeartRatePayload{
		RestingHeartRate: &rhr,
		HeartRateValues: []garmin.HeartRateValue{
			{TimestampMs: &ms, HeartRate: &hr},
		},
	}}
	store := &fakeStore{}
	p := NewProvider(client, store, time.UTC, slog.Default())

	n, err := p.SyncHeartRate(context.Background(), day(2024, 1, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1 (summary not counted)", n)
	}
	if store.mode != storage.Upsert {
		t.Errorf("mode = %v, want Upsert", store.mode)
	}
	if got := len(store.byTable("heart_rate_daily")); got != 1 {
		t.Errorf("daily rows = %d, want 1", got)
	}
	if got := len(store.byTable("heart_rate")); got != 1 {
		t.Errorf("point rows = %d, want 1", got)
	}
}

// TestSyncHeartRateFetchError verifies that a vendor failure aborts before
// touching the store.
func TestSyncHeartRateFetchError(t *testing.T) {
	client := &fakeClient{err: errors.New("status 401")}
	store := &fakeStore{}
	p := NewProvider(client, store, time.UTC, slog.Default())

	if _, err := p.SyncHeartRate(context.Background(), day(2024, 1, 12)); err == nil {
		t.Fatal("expected error")
	}
	if len(store.records) != 0 {
		t.Errorf("store received %d records on fetch failure", len(store.records))
	}
}

// TestSyncSleepPartial verifies that a night with only some streams present
// saves those streams and counts them, without erroring on absent ones.
func TestSyncSleepPartial(t *testing.T) {
	stress := 12.0
	ms := int64(1705098600000)
	secs := 25620
	client := &fakeClient{sleep: &garmin.SleepPayload{
		DailySleepDTO: &garmin.DailySleep{CalendarDate: "2024-01-12", SleepTimeSeconds: &secs},
		SleepStress: []garmin.TimedValue{
			{Value: &stress, StartGMT: &ms},
		},
	}}
	store := &fakeStore{}
	p := NewProvider(client, store, time.UTC, slog.Default())

	n, err := p.SyncSleep(context.Background(), day(2024, 1, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	if got := len(store.byTable("sleep_daily")); got != 1 {
		t.Errorf("summary rows = %d, want 1", got)
	}
	if got := len(store.byTable("sleep_stress")); got != 1 {
		t.Errorf("stress rows = %d, want 1", got)
	}
	if got := len(store.byTable("sleep_heart_rate")); got != 0 {
		t.Errorf("absent stream produced %d rows", got)
	}
}

// TestSyncBodyBatteryNoEntry verifies that a report without the requested day
// saves nothing and returns zero, not an error.
func TestSyncBodyBatteryNoEntry(t *testing.T) {
	client := &fakeClient{bodyBattery: []garmin.BodyBatteryDay{{Date: "2024-01-11"}}}
	store := &fakeStore{}
	p := NewProvider(client, store, time.UTC, slog.Default())

	n, err := p.SyncBodyBattery(context.Background(), day(2024, 1, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 || len(store.records) != 0 {
		t.Errorf("count = %d, records = %d, want 0/0", n, len(store.records))
	}
}

// TestSyncMetricDispatch verifies the name-based dispatch and the unknown
// metric error.
func TestSyncMetricDispatch(t *testing.T) {
	goal := 8000
	client := &fakeClient{dailySteps: []garmin.DailySteps{{CalendarDate: "2024-01-12", StepGoal: &goal}}}
	store := &fakeStore{}
	p := NewProvider(client, store, time.UTC, slog.Default())

	n, err := p.SyncMetric(context.Background(), MetricStepsDaily, day(2024, 1, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	saved := store.byTable("steps_daily")
	if len(saved) != 1 {
		t.Fatalf("rows = %d, want 1", len(saved))
	}
	if _, ok := saved[0].(models.StepsDaily); !ok {
		t.Errorf("record type = %T, want models.StepsDaily", saved[0])
	}

	if _, err := p.SyncMetric(context.Background(), "pulse_ox", day(2024, 1, 12)); err == nil {
		t.Error("expected error for unknown metric")
	}
}

// TestSyncStepsSaveError verifies that a persistence failure surfaces to the
// caller so the sync run is recorded as failed.
func TestSyncStepsSaveError(t *testing.T) {
	steps := 100
	pushes := 0
	level := "active"
	constant := false
	client := &fakeClient{steps: []garmin.StepsInterval{{
		StartGMT: gmt("2024-01-12T08:00:00.0"), EndGMT: gmt("2024-01-12T08:15:00.0"),
		Steps: &steps, Pushes: &pushes, PrimaryActivityLevel: &level, ActivityLevelConstant: &constant,
	}}}
	store := &fakeStore{err: errors.New("connection refused")}
	p := NewProvider(client, store, time.UTC, slog.Default())

	if _, err := p.SyncSteps(context.Background(), day(2024, 1, 12)); err == nil {
		t.Fatal("expected error")
	}
}
