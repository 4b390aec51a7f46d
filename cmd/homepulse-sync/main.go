package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/claude/homepulse/internal/config"
	"github.com/claude/homepulse/internal/garmin"
	"github.com/claude/homepulse/internal/ingest"
	"github.com/claude/homepulse/internal/storage"
	"github.com/claude/homepulse/internal/syncstate"
	"golang.org/x/sync/errgroup"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	startStr := flag.String("start", "", "first date to sync (YYYY-MM-DD), default yesterday")
	endStr := flag.String("end", "", "last date to sync (YYYY-MM-DD), default today")
	metricsFlag := flag.String("metrics", "", "comma-separated metrics, default all")
	force := flag.Bool("force", false, "re-sync days already recorded in the local state db")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("homepulse-sync", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	start, end, err := dateRange(*startStr, *endStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	metrics := ingest.Metrics()
	if *metricsFlag != "" {
		metrics = splitMetrics(*metricsFlag)
	} else if len(cfg.Sync.Metrics) > 0 {
		metrics = cfg.Sync.Metrics
	}
	for _, m := range metrics {
		if !slices.Contains(ingest.Metrics(), m) {
			fmt.Fprintf(os.Stderr, "Error: unknown metric %q (valid: %s)\n",
				m, strings.Join(ingest.Metrics(), ", "))
			os.Exit(1)
		}
	}

	concurrency := cfg.Sync.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	// Open state database
	stateDir := cfg.Sync.StateDir
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		stateDir = filepath.Join(homeDir, ".homepulse-sync")
	}
	state, err := syncstate.Open(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	client, err := garmin.New(cfg.Garmin.APIURL, cfg.Garmin.DisplayName, cfg.Garmin.TokenFile)
	if err != nil {
		log.Error("failed to create garmin client", "error", err)
		os.Exit(1)
	}
	provider := ingest.NewProvider(client, db, loc, log)

	log.Info("sync starting",
		"start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"),
		"metrics", strings.Join(metrics, ","), "concurrency", concurrency)

	var synced, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, metric := range metrics {
			day, metric := day, metric
			g.Go(func() error {
				if !*force {
					done, err := state.IsSynced(metric, day)
					if err != nil {
						return fmt.Errorf("checking state for %s %s: %w",
							metric, day.Format("2006-01-02"), err)
					}
					if done {
						skipped.Add(1)
						return nil
					}
				}

				runID, err := db.BeginSyncRun(gctx, metric, day)
				if err != nil {
					return err
				}
				started := time.Now()

				records, err := provider.SyncMetric(gctx, metric, day)
				if err != nil {
					failed.Add(1)
					log.Error("sync failed", "metric", metric,
						"date", day.Format("2006-01-02"), "error", err)
					msg := err.Error()
					if ferr := db.FinishSyncRun(gctx, runID, storage.SyncError, 0,
						time.Since(started), &msg); ferr != nil {
						log.Error("finish sync run", "error", ferr)
					}
					// One bad day should not abort the backfill.
					return nil
				}

				if err := db.FinishSyncRun(gctx, runID, storage.SyncSuccess, records,
					time.Since(started), nil); err != nil {
					log.Error("finish sync run", "error", err)
				}
				if err := state.MarkSynced(metric, day, records); err != nil {
					return fmt.Errorf("marking state for %s %s: %w",
						metric, day.Format("2006-01-02"), err)
				}
				synced.Add(1)
				return nil
			})
		}
	}

	err = g.Wait()

	fmt.Println()
	fmt.Println("=== Sync Summary ===")
	fmt.Printf("  Units synced:   %d\n", synced.Load())
	fmt.Printf("  Units skipped:  %d (already synced)\n", skipped.Load())
	fmt.Printf("  Units failed:   %d\n", failed.Load())
	fmt.Println()

	if err != nil {
		log.Error("sync aborted", "error", err)
		os.Exit(1)
	}
	if failed.Load() > 0 {
		os.Exit(1)
	}
	log.Info("sync complete")
}

// dateRange resolves the start/end flags. The default window is yesterday
// through today, matching the nightly schedule with one day of overlap.
func dateRange(startStr, endStr string) (time.Time, time.Time, error) {
	today := time.Now().UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	start := today.AddDate(0, 0, -1)
	end := today

	var err error
	if startStr != "" {
		start, err = garmin.ParseDate(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		end, err = garmin.ParseDate(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s is before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return start, end, nil
}

func splitMetrics(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
