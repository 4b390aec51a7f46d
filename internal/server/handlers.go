package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/claude/homepulse/internal/garmin"
	"github.com/claude/homepulse/internal/ingest"
	"github.com/claude/homepulse/internal/storage"
	"github.com/go-chi/chi/v5"
)

// handleSync runs one metric sync, recorded as a sync run. The date parameter
// defaults to yesterday, matching the nightly schedule. Daily step totals also
// accept start and end for a multi-day backfill in one request.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	metric := chi.URLParam(r, "metric")
	if !slices.Contains(ingest.Metrics(), metric) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown metric: " + metric})
		return
	}

	day := time.Now().UTC().AddDate(0, 0, -1)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := garmin.ParseDate(dateStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + dateStr})
			return
		}
		day = parsed
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	var endDay time.Time
	if startStr, endStr := r.URL.Query().Get("start"), r.URL.Query().Get("end"); startStr != "" || endStr != "" {
		if metric != ingest.MetricStepsDaily {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start/end are only supported for " + ingest.MetricStepsDaily})
			return
		}
		if startStr == "" || endStr == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start and end must be given together"})
			return
		}
		rangeStart, err := garmin.ParseDate(startStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start: " + startStr})
			return
		}
		rangeEnd, err := garmin.ParseDate(endStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end: " + endStr})
			return
		}
		if rangeEnd.Before(rangeStart) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end before start"})
			return
		}
		day, endDay = rangeStart, rangeEnd
	}

	ctx := r.Context()
	runID, err := s.store.BeginSyncRun(ctx, metric, day)
	if err != nil {
		s.log.Error("begin sync run", "metric", metric, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	start := time.Now()
	var records int
	if endDay.IsZero() {
		records, err = s.syncer.SyncMetric(ctx, metric, day)
	} else {
		records, err = s.syncer.SyncDailySteps(ctx, day, endDay)
	}
	if err != nil {
		s.log.Error("sync failed", "metric", metric, "date", day.Format("2006-01-02"), "error", err)
		msg := err.Error()
		if ferr := s.store.FinishSyncRun(ctx, runID, storage.SyncError, 0, time.Since(start), &msg); ferr != nil {
			s.log.Error("finish sync run", "error", ferr)
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": msg})
		return
	}

	if err := s.store.FinishSyncRun(ctx, runID, storage.SyncSuccess, records, time.Since(start), nil); err != nil {
		s.log.Error("finish sync run", "error", err)
	}

	result := ingest.Result{
		Metric:  metric,
		Date:    day.Format("2006-01-02"),
		Records: records,
	}
	if !endDay.IsZero() {
		result.EndDate = endDay.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHeartRateDaily(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := s.store.QueryHeartRateDaily(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleHeartRate(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := s.store.QueryHeartRate(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleStepsDaily(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := s.store.QueryStepsDaily(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleStressDaily(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := s.store.QueryStressDaily(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleBodyBatteryDaily(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := s.store.QueryBodyBatteryDaily(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSleepDaily(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := s.store.QuerySleepDaily(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSyncRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit: " + limitStr})
			return
		}
		limit = n
	}
	runs, err := s.store.QuerySyncRuns(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// Queries treat end as exclusive; widen a date-only end
			// to the next midnight so the named day is included.
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
