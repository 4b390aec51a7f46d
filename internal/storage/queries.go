package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/homepulse/internal/models"
)

// QueryHeartRateDaily retrieves daily heart rate summaries in a date range.
func (db *DB) QueryHeartRateDaily(ctx context.Context, start, end time.Time) ([]models.HeartRateDaily, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT measure_date, resting_heart_rate, min_heart_rate, max_heart_rate, last_seven_days_avg_resting_heart_rate
		 FROM heart_rate_daily
		 WHERE measure_date >= $1 AND measure_date < $2
		 ORDER BY measure_date ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying heart rate daily: %w", err)
	}
	defer rows.Close()

	var result []models.HeartRateDaily
	for rows.Next() {
		var r models.HeartRateDaily
		if err := rows.Scan(&r.MeasureDate, &r.RestingHeartRate, &r.MinHeartRate,
			&r.MaxHeartRate, &r.LastSevenDaysAvgRestingHeartRate); err != nil {
			return nil, fmt.Errorf("scanning heart rate daily: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// QueryHeartRate retrieves heart rate points in a time range.
func (db *DB) QueryHeartRate(ctx context.Context, start, end time.Time) ([]models.HeartRate, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT tstamp, heart_rate
		 FROM heart_rate
		 WHERE tstamp >= $1 AND tstamp < $2
		 ORDER BY tstamp ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying heart rate: %w", err)
	}
	defer rows.Close()

	var result []models.HeartRate
	for rows.Next() {
		var r models.HeartRate
		if err := rows.Scan(&r.Tstamp, &r.HeartRate); err != nil {
			return nil, fmt.Errorf("scanning heart rate: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// QueryStepsDaily retrieves daily step totals in a date range.
func (db *DB) QueryStepsDaily(ctx context.Context, start, end time.Time) ([]models.StepsDaily, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT calendar_date, total_steps, total_distance, step_goal
		 FROM steps_daily
		 WHERE calendar_date >= $1 AND calendar_date < $2
		 ORDER BY calendar_date ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying steps daily: %w", err)
	}
	defer rows.Close()

	var result []models.StepsDaily
	for rows.Next() {
		var r models.StepsDaily
		if err := rows.Scan(&r.CalendarDate, &r.TotalSteps, &r.TotalDistance, &r.StepGoal); err != nil {
			return nil, fmt.Errorf("scanning steps daily: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// QueryStressDaily retrieves daily stress summaries in a date range.
func (db *DB) QueryStressDaily(ctx context.Context, start, end time.Time) ([]models.StressDaily, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT calendar_date, max_stress_level, avg_stress_level, stress_chart_value_offset, stress_chart_y_axis_origin
		 FROM stress_daily
		 WHERE calendar_date >= $1 AND calendar_date < $2
		 ORDER BY calendar_date ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying stress daily: %w", err)
	}
	defer rows.Close()

	var result []models.StressDaily
	for rows.Next() {
		var r models.StressDaily
		if err := rows.Scan(&r.CalendarDate, &r.MaxStressLevel, &r.AvgStressLevel,
			&r.StressChartValueOffset, &r.StressChartYAxisOrigin); err != nil {
			return nil, fmt.Errorf("scanning stress daily: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// QueryBodyBatteryDaily retrieves daily body battery summaries in a date range.
func (db *DB) QueryBodyBatteryDaily(ctx context.Context, start, end time.Time) ([]models.BodyBatteryDaily, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT calendar_date, charged, drained, dynamic_feedback_event, end_of_day_feedback_event
		 FROM body_battery_daily
		 WHERE calendar_date >= $1 AND calendar_date < $2
		 ORDER BY calendar_date ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying body battery daily: %w", err)
	}
	defer rows.Close()

	var result []models.BodyBatteryDaily
	for rows.Next() {
		var r models.BodyBatteryDaily
		if err := rows.Scan(&r.CalendarDate, &r.Charged, &r.Drained,
			&r.DynamicFeedbackEvent, &r.EndOfDayFeedbackEvent); err != nil {
			return nil, fmt.Errorf("scanning body battery daily: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// QuerySleepDaily retrieves nightly sleep summaries in a date range.
func (db *DB) QuerySleepDaily(ctx context.Context, start, end time.Time) ([]models.SleepDaily, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT calendar_date, sleep_time_seconds, nap_time_seconds,
		        sleep_window_confirmed, sleep_window_confirmation_type,
		        sleep_start, sleep_end, unmeasurable_sleep_seconds,
		        deep_sleep_seconds, light_sleep_seconds, rem_sleep_seconds,
		        awake_sleep_seconds, device_rem_capable, retro,
		        sleep_from_device, average_spo2_value, lowest_spo2_value,
		        highest_spo2_value, average_spo2_hr_sleep,
		        average_respiration_value, lowest_respiration_value,
		        highest_respiration_value, awake_count, avg_sleep_stress,
		        age_group, sleep_score_feedback, sleep_score_insight,
		        sleep_scores, sleep_version
		 FROM sleep_daily
		 WHERE calendar_date >= $1 AND calendar_date < $2
		 ORDER BY calendar_date ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sleep daily: %w", err)
	}
	defer rows.Close()

	var result []models.SleepDaily
	for rows.Next() {
		var r models.SleepDaily
		if err := rows.Scan(&r.CalendarDate, &r.SleepTimeSeconds, &r.NapTimeSeconds,
			&r.SleepWindowConfirmed, &r.SleepWindowConfirmationType,
			&r.SleepStart, &r.SleepEnd, &r.UnmeasurableSleepSeconds,
			&r.DeepSleepSeconds, &r.LightSleepSeconds, &r.RemSleepSeconds,
			&r.AwakeSleepSeconds, &r.DeviceRemCapable, &r.Retro,
			&r.SleepFromDevice, &r.AverageSpO2Value, &r.LowestSpO2Value,
			&r.HighestSpO2Value, &r.AverageSpO2HRSleep,
			&r.AverageRespirationValue, &r.LowestRespirationValue,
			&r.HighestRespirationValue, &r.AwakeCount, &r.AvgSleepStress,
			&r.AgeGroup, &r.SleepScoreFeedback, &r.SleepScoreInsight,
			&r.SleepScores, &r.SleepVersion); err != nil {
			return nil, fmt.Errorf("scanning sleep daily: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
