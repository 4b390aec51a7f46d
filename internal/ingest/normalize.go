package ingest

import (
	"fmt"
	"time"

	"github.com/claude/homepulse/internal/garmin"
	"github.com/claude/homepulse/internal/models"
)

// Normalization rules, applied uniformly across metrics:
//
//   - an absent or null sub-section means "no data for this day" and yields
//     an empty collection, never an error;
//   - epoch-millisecond timestamps are UTC instants, converted to the
//     configured location;
//   - vendor GMT strings (no offset) are parsed as UTC, then converted;
//   - entries missing a required field are skipped, nullable fields pass
//     through as NULL;
//   - raw vendor strings are never stored, every timestamp is converted
//     before a record is constructed.

// localMillis converts a vendor epoch-millisecond value to the target zone.
// The instant is preserved exactly; only the representation moves.
func localMillis(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}

// dateOnly normalizes a day to UTC midnight so calendar-date keys compare
// equal regardless of how the caller constructed them.
func dateOnly(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeHeartRate converts a daily heart rate payload into one summary
// record and zero or more point records. A null heartRateValues section
// yields an empty point slice.
func NormalizeHeartRate(day time.Time, p *garmin.HeartRatePayload, loc *time.Location) (models.HeartRateDaily, []models.HeartRate) {
	daily := models.HeartRateDaily{
		MeasureDate:                      dateOnly(day),
		RestingHeartRate:                 p.RestingHeartRate,
		MinHeartRate:                     p.MinHeartRate,
		MaxHeartRate:                     p.MaxHeartRate,
		LastSevenDaysAvgRestingHeartRate: p.LastSevenDaysAvgRestingHeartRate,
	}

	points := make([]models.HeartRate, 0, len(p.HeartRateValues))
	for _, v := range p.HeartRateValues {
		if v.TimestampMs == nil {
			continue
		}
		points = append(points, models.HeartRate{
			Tstamp:    localMillis(*v.TimestampMs, loc),
			HeartRate: v.HeartRate,
		})
	}
	return daily, points
}

// NormalizeSteps converts 15-minute step chart intervals. Intervals missing
// any field are skipped; the steps table has no nullable columns.
func NormalizeSteps(intervals []garmin.StepsInterval, loc *time.Location) []models.Steps {
	records := make([]models.Steps, 0, len(intervals))
	for _, iv := range intervals {
		if iv.StartGMT.IsZero() || iv.EndGMT.IsZero() ||
			iv.Steps == nil || iv.Pushes == nil ||
			iv.PrimaryActivityLevel == nil || iv.ActivityLevelConstant == nil {
			continue
		}
		records = append(records, models.Steps{
			StartTime:             iv.StartGMT.In(loc),
			EndTime:               iv.EndGMT.In(loc),
			Steps:                 *iv.Steps,
			Pushes:                *iv.Pushes,
			PrimaryActivityLevel:  *iv.PrimaryActivityLevel,
			ActivityLevelConstant: *iv.ActivityLevelConstant,
		})
	}
	return records
}

// NormalizeDailySteps converts the date-range step stats. A malformed
// calendarDate is a shape mismatch and fails the whole call.
func NormalizeDailySteps(days []garmin.DailySteps) ([]models.StepsDaily, error) {
	records := make([]models.StepsDaily, 0, len(days))
	for _, d := range days {
		date, err := garmin.ParseDate(d.CalendarDate)
		if err != nil {
			return nil, fmt.Errorf("daily steps: %w", err)
		}
		records = append(records, models.StepsDaily{
			CalendarDate:  date,
			TotalSteps:    d.TotalSteps,
			TotalDistance: d.TotalDistance,
			StepGoal:      d.StepGoal,
		})
	}
	return records, nil
}

// NormalizeFloors converts the positional floors chart values.
func NormalizeFloors(p *garmin.FloorsPayload, loc *time.Location) []models.Floors {
	records := make([]models.Floors, 0, len(p.FloorValuesArray))
	for _, v := range p.FloorValuesArray {
		if v.StartGMT.IsZero() || v.EndGMT.IsZero() || v.Ascended == nil || v.Descended == nil {
			continue
		}
		records = append(records, models.Floors{
			StartTime:       v.StartGMT.In(loc),
			EndTime:         v.EndGMT.In(loc),
			FloorsAscended:  *v.Ascended,
			FloorsDescended: *v.Descended,
		})
	}
	return records
}

// NormalizeStress converts a daily stress payload into one summary record
// and zero or more point records. Points without a level are skipped; the
// vendor encodes unmeasurable periods as negative levels, which are kept.
func NormalizeStress(day time.Time, p *garmin.StressPayload, loc *time.Location) (models.StressDaily, []models.Stress) {
	daily := models.StressDaily{
		CalendarDate:           dateOnly(day),
		MaxStressLevel:         p.MaxStressLevel,
		AvgStressLevel:         p.AvgStressLevel,
		StressChartValueOffset: p.StressChartValueOffset,
		StressChartYAxisOrigin: p.StressChartYAxisOrigin,
	}

	points := make([]models.Stress, 0, len(p.StressValuesArray))
	for _, v := range p.StressValuesArray {
		if v.TimestampMs == nil || v.Level == nil {
			continue
		}
		points = append(points, models.Stress{
			Tstamp:      localMillis(*v.TimestampMs, loc),
			StressLevel: *v.Level,
		})
	}
	return daily, points
}

// NormalizeBodyBattery converts a body battery report. The report endpoint
// is range-based, so entries for other dates are ignored. Returns nil for
// the daily record when the report has no entry for the requested day.
func NormalizeBodyBattery(day time.Time, report []garmin.BodyBatteryDay, loc *time.Location) (*models.BodyBatteryDaily, []models.BodyBattery, []models.BodyBatteryActivityEvent) {
	want := day.Format("2006-01-02")

	var daily *models.BodyBatteryDaily
	var points []models.BodyBattery
	var events []models.BodyBatteryActivityEvent

	for _, d := range report {
		if d.Date != want {
			continue
		}
		daily = &models.BodyBatteryDaily{
			CalendarDate:          dateOnly(day),
			Charged:               d.Charged,
			Drained:               d.Drained,
			DynamicFeedbackEvent:  d.DynamicFeedbackEvent,
			EndOfDayFeedbackEvent: d.EndOfDayDynamicFeedbackEvent,
		}
		for _, v := range d.ValuesArray {
			if v.TimestampMs == nil {
				continue
			}
			points = append(points, models.BodyBattery{
				Tstamp:  localMillis(*v.TimestampMs, loc),
				Status:  v.Status,
				Level:   v.Level,
				Version: v.Version,
			})
		}
		for _, ev := range d.ActivityEvents {
			if ev.EventStartTimeGMT.IsZero() {
				continue
			}
			events = append(events, models.BodyBatteryActivityEvent{
				EventStart:        ev.EventStartTimeGMT.In(loc),
				EventType:         ev.EventType,
				DurationMs:        ev.DurationInMilliseconds,
				BodyBatteryImpact: ev.BodyBatteryImpact,
				FeedbackType:      ev.FeedbackType,
				ShortFeedback:     ev.ShortFeedback,
			})
		}
	}
	return daily, points, events
}

// SleepRecords bundles the nine fine-grained sleep streams of one night.
// Streams are independent: an absent sub-section leaves its slice empty
// without affecting the others.
type SleepRecords struct {
	Movement        []models.SleepMovement
	Levels          []models.SleepLevels
	RestlessMoments []models.SleepRestlessMoments
	SPO2            []models.SleepSPO2
	Respiration     []models.SleepRespiration
	HeartRate       []models.SleepHeartRate
	Stress          []models.SleepStress
	BodyBattery     []models.SleepBodyBattery
	HRV             []models.SleepHRV
}

// Count returns the total number of fine-grained records across all streams.
func (s SleepRecords) Count() int {
	return len(s.Movement) + len(s.Levels) + len(s.RestlessMoments) +
		len(s.SPO2) + len(s.Respiration) + len(s.HeartRate) +
		len(s.Stress) + len(s.BodyBattery) + len(s.HRV)
}

// NormalizeSleep decomposes a sleep payload into the nightly summary and the
// nine fine-grained streams. Returns a nil summary when the payload has no
// dailySleepDTO (no sleep recorded for that night).
func NormalizeSleep(day time.Time, p *garmin.SleepPayload, loc *time.Location) (*models.SleepDaily, SleepRecords) {
	var recs SleepRecords

	for _, m := range p.SleepMovement {
		if m.StartGMT.IsZero() || m.EndGMT.IsZero() || m.ActivityLevel == nil {
			continue
		}
		recs.Movement = append(recs.Movement, models.SleepMovement{
			StartTime:     m.StartGMT.In(loc),
			EndTime:       m.EndGMT.In(loc),
			ActivityLevel: *m.ActivityLevel,
		})
	}
	for _, m := range p.SleepLevels {
		if m.StartGMT.IsZero() || m.EndGMT.IsZero() || m.ActivityLevel == nil {
			continue
		}
		recs.Levels = append(recs.Levels, models.SleepLevels{
			StartTime:     m.StartGMT.In(loc),
			EndTime:       m.EndGMT.In(loc),
			ActivityLevel: *m.ActivityLevel,
		})
	}
	for _, v := range p.SleepRestlessMoments {
		if v.StartGMT == nil || v.Value == nil {
			continue
		}
		recs.RestlessMoments = append(recs.RestlessMoments, models.SleepRestlessMoments{
			Tstamp: localMillis(*v.StartGMT, loc),
			Value:  int(*v.Value),
		})
	}
	for _, e := range p.WellnessEpochSPO2DataDTOList {
		if e.EpochTimestamp.IsZero() {
			continue
		}
		recs.SPO2 = append(recs.SPO2, models.SleepSPO2{
			Tstamp:            e.EpochTimestamp.In(loc),
			SpO2Reading:       e.SpO2Reading,
			ReadingConfidence: e.ReadingConfidence,
		})
	}
	for _, e := range p.WellnessEpochRespirationDataDTOList {
		if e.StartTimeGMT == nil || e.RespirationValue == nil {
			continue
		}
		recs.Respiration = append(recs.Respiration, models.SleepRespiration{
			Tstamp: localMillis(*e.StartTimeGMT, loc),
			Value:  *e.RespirationValue,
		})
	}
	for _, v := range p.SleepHeartRate {
		if v.StartGMT == nil {
			continue
		}
		rec := models.SleepHeartRate{Tstamp: localMillis(*v.StartGMT, loc)}
		if v.Value != nil {
			hr := int(*v.Value)
			rec.Value = &hr
		}
		recs.HeartRate = append(recs.HeartRate, rec)
	}
	for _, v := range p.SleepStress {
		if v.StartGMT == nil || v.Value == nil {
			continue
		}
		recs.Stress = append(recs.Stress, models.SleepStress{
			Tstamp: localMillis(*v.StartGMT, loc),
			Value:  int(*v.Value),
		})
	}
	for _, v := range p.SleepBodyBattery {
		if v.StartGMT == nil || v.Value == nil {
			continue
		}
		recs.BodyBattery = append(recs.BodyBattery, models.SleepBodyBattery{
			Tstamp: localMillis(*v.StartGMT, loc),
			Value:  int(*v.Value),
		})
	}
	for _, v := range p.HRVData {
		if v.StartGMT == nil || v.Value == nil {
			continue
		}
		recs.HRV = append(recs.HRV, models.SleepHRV{
			Tstamp: localMillis(*v.StartGMT, loc),
			Value:  int(*v.Value),
		})
	}

	dto := p.DailySleepDTO
	if dto == nil {
		return nil, recs
	}

	daily := &models.SleepDaily{
		CalendarDate:                dateOnly(day),
		SleepTimeSeconds:            dto.SleepTimeSeconds,
		NapTimeSeconds:              dto.NapTimeSeconds,
		SleepWindowConfirmed:        dto.SleepWindowConfirmed,
		SleepWindowConfirmationType: dto.SleepWindowConfirmationType,
		UnmeasurableSleepSeconds:    dto.UnmeasurableSleepSeconds,
		DeepSleepSeconds:            dto.DeepSleepSeconds,
		LightSleepSeconds:           dto.LightSleepSeconds,
		RemSleepSeconds:             dto.RemSleepSeconds,
		AwakeSleepSeconds:           dto.AwakeSleepSeconds,
		DeviceRemCapable:            dto.DeviceRemCapable,
		Retro:                       dto.Retro,
		SleepFromDevice:             dto.SleepFromDevice,
		AverageSpO2Value:            dto.AverageSpO2Value,
		LowestSpO2Value:             dto.LowestSpO2Value,
		HighestSpO2Value:            dto.HighestSpO2Value,
		AverageSpO2HRSleep:          dto.AverageSpO2HRSleep,
		AverageRespirationValue:     dto.AverageRespirationValue,
		LowestRespirationValue:      dto.LowestRespirationValue,
		HighestRespirationValue:     dto.HighestRespirationValue,
		AwakeCount:                  dto.AwakeCount,
		AvgSleepStress:              dto.AvgSleepStress,
		AgeGroup:                    dto.AgeGroup,
		SleepScoreFeedback:          dto.SleepScoreFeedback,
		SleepScoreInsight:           dto.SleepScoreInsight,
		SleepScores:                 dto.SleepScores,
		SleepVersion:                dto.SleepVersion,
	}
	if dto.SleepStartTimestampGMT != nil {
		t := localMillis(*dto.SleepStartTimestampGMT, loc)
		daily.SleepStart = &t
	}
	if dto.SleepEndTimestampGMT != nil {
		t := localMillis(*dto.SleepEndTimestampGMT, loc)
		daily.SleepEnd = &t
	}
	return daily, recs
}
