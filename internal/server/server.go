package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/homepulse/internal/models"
	"github.com/claude/homepulse/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Syncer triggers metric syncs. *ingest.Provider implements it. Daily step
// totals come from a range endpoint, so they get a dedicated range form.
type Syncer interface {
	SyncMetric(ctx context.Context, metric string, day time.Time) (int, error)
	SyncDailySteps(ctx context.Context, start, end time.Time) (int, error)
}

// Store is the slice of the storage layer the HTTP handlers need.
// *storage.DB implements it.
type Store interface {
	BeginSyncRun(ctx context.Context, metric string, measureDate time.Time) (uuid.UUID, error)
	FinishSyncRun(ctx context.Context, id uuid.UUID, status string, records int, duration time.Duration, errMsg *string) error
	QuerySyncRuns(ctx context.Context, limit int) ([]storage.SyncRun, error)
	QueryHeartRateDaily(ctx context.Context, start, end time.Time) ([]models.HeartRateDaily, error)
	QueryHeartRate(ctx context.Context, start, end time.Time) ([]models.HeartRate, error)
	QueryStepsDaily(ctx context.Context, start, end time.Time) ([]models.StepsDaily, error)
	QueryStressDaily(ctx context.Context, start, end time.Time) ([]models.StressDaily, error)
	QueryBodyBatteryDaily(ctx context.Context, start, end time.Time) ([]models.BodyBatteryDaily, error)
	QuerySleepDaily(ctx context.Context, start, end time.Time) ([]models.SleepDaily, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  Store
	syncer Syncer
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, syncer Syncer, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		syncer: syncer,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Sync trigger endpoints (API key required)
	s.router.Route("/api/v1/sync", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/{metric}", s.handleSync)
	})

	// Query endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/heart-rate/daily", s.handleHeartRateDaily)
	s.router.Get("/api/v1/heart-rate", s.handleHeartRate)
	s.router.Get("/api/v1/steps/daily", s.handleStepsDaily)
	s.router.Get("/api/v1/stress/daily", s.handleStressDaily)
	s.router.Get("/api/v1/body-battery/daily", s.handleBodyBatteryDaily)
	s.router.Get("/api/v1/sleep/daily", s.handleSleepDaily)
	s.router.Get("/api/v1/sync-runs", s.handleSyncRuns)
}
