// Package models defines the typed records produced by the Garmin
// normalizers, one Go type per database table. Every type carries its own
// column mapping so the storage layer can persist heterogeneous batches
// through a single upsert path (see storage.Record).
package models

import "time"

// HeartRateDaily is the per-day heart rate summary, one row per calendar date.
type HeartRateDaily struct {
	MeasureDate                      time.Time `json:"measure_date"`
	RestingHeartRate                 *int      `json:"resting_heart_rate"`
	MinHeartRate                     *int      `json:"min_heart_rate"`
	MaxHeartRate                     *int      `json:"max_heart_rate"`
	LastSevenDaysAvgRestingHeartRate *int      `json:"last_seven_days_avg_resting_heart_rate"`
}

func (HeartRateDaily) Table() string { return "heart_rate_daily" }

func (HeartRateDaily) Columns() []string {
	return []string{"measure_date", "resting_heart_rate", "min_heart_rate", "max_heart_rate", "last_seven_days_avg_resting_heart_rate"}
}

func (HeartRateDaily) ConflictColumns() []string { return []string{"measure_date"} }

func (r HeartRateDaily) Values() []any {
	return []any{r.MeasureDate, r.RestingHeartRate, r.MinHeartRate, r.MaxHeartRate, r.LastSevenDaysAvgRestingHeartRate}
}

// HeartRate is a single heart rate reading. The device reports no value for
// gaps (watch off wrist), so HeartRate is nullable while the timestamp is not.
type HeartRate struct {
	Tstamp    time.Time `json:"tstamp"`
	HeartRate *int      `json:"heart_rate"`
}

func (HeartRate) Table() string { return "heart_rate" }

func (HeartRate) Columns() []string { return []string{"tstamp", "heart_rate"} }

func (HeartRate) ConflictColumns() []string { return []string{"tstamp"} }

func (r HeartRate) Values() []any { return []any{r.Tstamp, r.HeartRate} }
