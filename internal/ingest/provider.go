package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/homepulse/internal/garmin"
	"github.com/claude/homepulse/internal/storage"
)

// Metric names accepted by SyncMetric and exposed by the sync API.
const (
	MetricHeartRate   = "heart_rate"
	MetricSteps       = "steps"
	MetricStepsDaily  = "steps_daily"
	MetricFloors      = "floors"
	MetricStress      = "stress"
	MetricBodyBattery = "body_battery"
	MetricSleep       = "sleep"
)

// Metrics lists all metric names in a stable order.
func Metrics() []string {
	return []string{
		MetricHeartRate, MetricSteps, MetricStepsDaily, MetricFloors,
		MetricStress, MetricBodyBattery, MetricSleep,
	}
}

// VendorClient fetches raw payloads from the wellness vendor, one method per
// metric. *garmin.Client implements it.
type VendorClient interface {
	HeartRates(ctx context.Context, day time.Time) (*garmin.HeartRatePayload, error)
	Steps(ctx context.Context, day time.Time) ([]garmin.StepsInterval, error)
	DailySteps(ctx context.Context, start, end time.Time) ([]garmin.DailySteps, error)
	Floors(ctx context.Context, day time.Time) (*garmin.FloorsPayload, error)
	Stress(ctx context.Context, day time.Time) (*garmin.StressPayload, error)
	BodyBattery(ctx context.Context, day time.Time) ([]garmin.BodyBatteryDay, error)
	Sleep(ctx context.Context, day time.Time) (*garmin.SleepPayload, error)
}

// Store persists normalized record batches. *storage.DB implements it.
type Store interface {
	Save(ctx context.Context, mode storage.WriteMode, records []storage.Record) error
}

// Provider runs the fetch-normalize-persist pipeline for one vendor account.
// Each Sync method is independent and idempotent, so a scheduler can retry or
// backfill any metric and date without coordination.
type Provider struct {
	client VendorClient
	store  Store
	loc    *time.Location
	log    *slog.Logger
}

// NewProvider creates a Provider. loc is the zone stored timestamps are
// rendered in; nil means UTC.
func NewProvider(client VendorClient, store Store, loc *time.Location, log *slog.Logger) *Provider {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Provider{client: client, store: store, loc: loc, log: log}
}

// SyncMetric dispatches to the sync method for the named metric. Range-based
// metrics receive day as both ends of the range. Returns the number of
// fine-grained records written.
func (p *Provider) SyncMetric(ctx context.Context, metric string, day time.Time) (int, error) {
	switch metric {
	case MetricHeartRate:
		return p.SyncHeartRate(ctx, day)
	case MetricSteps:
		return p.SyncSteps(ctx, day)
	case MetricStepsDaily:
		return p.SyncDailySteps(ctx, day, day)
	case MetricFloors:
		return p.SyncFloors(ctx, day)
	case MetricStress:
		return p.SyncStress(ctx, day)
	case MetricBodyBattery:
		return p.SyncBodyBattery(ctx, day)
	case MetricSleep:
		return p.SyncSleep(ctx, day)
	default:
		return 0, fmt.Errorf("unknown metric %q", metric)
	}
}

// SyncHeartRate ingests the daily heart rate summary and point values for one
// day. Returns the number of point records.
func (p *Provider) SyncHeartRate(ctx context.Context, day time.Time) (int, error) {
	payload, err := p.client.HeartRates(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("fetching heart rate: %w", err)
	}

	daily, points := NormalizeHeartRate(day, payload, p.loc)
	records := make([]storage.Record, 0, len(points)+1)
	records = append(records, daily)
	for _, pt := range points {
		records = append(records, pt)
	}
	if err := p.store.Save(ctx, storage.Upsert, records); err != nil {
		return 0, fmt.Errorf("saving heart rate: %w", err)
	}

	p.log.Info("synced heart rate", "date", day.Format("2006-01-02"), "points", len(points))
	return len(points), nil
}

// SyncSteps ingests the 15-minute step intervals for one day.
func (p *Provider) SyncSteps(ctx context.Context, day time.Time) (int, error) {
	intervals, err := p.client.Steps(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("fetching steps: %w", err)
	}

	rows := NormalizeSteps(intervals, p.loc)
	records := make([]storage.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r)
	}
	if err := p.store.Save(ctx, storage.Upsert, records); err != nil {
		return 0, fmt.Errorf("saving steps: %w", err)
	}

	p.log.Info("synced steps", "date", day.Format("2006-01-02"), "intervals", len(rows))
	return len(rows), nil
}

// SyncDailySteps ingests per-day step totals for an inclusive date range.
func (p *Provider) SyncDailySteps(ctx context.Context, start, end time.Time) (int, error) {
	days, err := p.client.DailySteps(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetching daily steps: %w", err)
	}

	rows, err := NormalizeDailySteps(days)
	if err != nil {
		return 0, err
	}
	records := make([]storage.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r)
	}
	if err := p.store.Save(ctx, storage.Upsert, records); err != nil {
		return 0, fmt.Errorf("saving daily steps: %w", err)
	}

	p.log.Info("synced daily steps",
		"start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"), "days", len(rows))
	return len(rows), nil
}

// SyncFloors ingests the floors chart intervals for one day.
func (p *Provider) SyncFloors(ctx context.Context, day time.Time) (int, error) {
	payload, err := p.client.Floors(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("fetching floors: %w", err)
	}

	rows := NormalizeFloors(payload, p.loc)
	records := make([]storage.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r)
	}
	if err := p.store.Save(ctx, storage.Upsert, records); err != nil {
		return 0, fmt.Errorf("saving floors: %w", err)
	}

	p.log.Info("synced floors", "date", day.Format("2006-01-02"), "intervals", len(rows))
	return len(rows), nil
}

// SyncStress ingests the daily stress summary and point values for one day.
// Returns the number of point records.
func (p *Provider) SyncStress(ctx context.Context, day time.Time) (int, error) {
	payload, err := p.client.Stress(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("fetching stress: %w", err)
	}

	daily, points := NormalizeStress(day, payload, p.loc)
	records := make([]storage.Record, 0, len(points)+1)
	records = append(records, daily)
	for _, pt := range points {
		records = append(records, pt)
	}
	if err := p.store.Save(ctx, storage.Upsert, records); err != nil {
		return 0, fmt.Errorf("saving stress: %w", err)
	}

	p.log.Info("synced stress", "date", day.Format("2006-01-02"), "points", len(points))
	return len(points), nil
}

// SyncBodyBattery ingests the body battery report for one day: the daily
// summary, point values, and activity events. Returns points plus events.
func (p *Provider) SyncBodyBattery(ctx context.Context, day time.Time) (int, error) {
	report, err := p.client.BodyBattery(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("fetching body battery: %w", err)
	}

	daily, points, events := NormalizeBodyBattery(day, report, p.loc)
	records := make([]storage.Record, 0, len(points)+len(events)+1)
	if daily != nil {
		records = append(records, *daily)
	}
	for _, pt := range points {
		records = append(records, pt)
	}
	for _, ev := range events {
		records = append(records, ev)
	}
	if err := p.store.Save(ctx, storage.Upsert, records); err != nil {
		return 0, fmt.Errorf("saving body battery: %w", err)
	}

	count := len(points) + len(events)
	p.log.Info("synced body battery", "date", day.Format("2006-01-02"),
		"points", len(points), "events", len(events))
	return count, nil
}

// SyncSleep ingests one night of sleep: the summary plus up to nine
// fine-grained streams. Streams absent from the payload are skipped without
// failing the night. Returns the total record count across streams.
func (p *Provider) SyncSleep(ctx context.Context, day time.Time) (int, error) {
	payload, err := p.client.Sleep(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("fetching sleep: %w", err)
	}

	daily, recs := NormalizeSleep(day, payload, p.loc)
	records := make([]storage.Record, 0, recs.Count()+1)
	if daily != nil {
		records = append(records, *daily)
	}
	records = appendSleepRecords(records, recs)
	if err := p.store.Save(ctx, storage.Upsert, records); err != nil {
		return 0, fmt.Errorf("saving sleep: %w", err)
	}

	p.log.Info("synced sleep", "date", day.Format("2006-01-02"),
		"summary", daily != nil, "records", recs.Count())
	return recs.Count(), nil
}

func appendSleepRecords(records []storage.Record, recs SleepRecords) []storage.Record {
	for _, r := range recs.Movement {
		records = append(records, r)
	}
	for _, r := range recs.Levels {
		records = append(records, r)
	}
	for _, r := range recs.RestlessMoments {
		records = append(records, r)
	}
	for _, r := range recs.SPO2 {
		records = append(records, r)
	}
	for _, r := range recs.Respiration {
		records = append(records, r)
	}
	for _, r := range recs.HeartRate {
		records = append(records, r)
	}
	for _, r := range recs.Stress {
		records = append(records, r)
	}
	for _, r := range recs.BodyBattery {
		records = append(records, r)
	}
	for _, r := range recs.HRV {
		records = append(records, r)
	}
	return records
}

var _ VendorClient = (*garmin.Client)(nil)
var _ Store = (*storage.DB)(nil)
