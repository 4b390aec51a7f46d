// Package mcp exposes the wellness store to LLM clients over the Model
// Context Protocol. Tools are read-only; ingestion stays with the HTTP
// sync API and the sync CLI.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/claude/homepulse/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(db *storage.DB, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("HomePulse", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("HomePulse wellness data server. Query Garmin heart rate, sleep, steps, stress and body battery data, plus the ingestion sync history."),
	)

	h := &handlers{db: db, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetHeartRate, Handler: h.getHeartRate},
		server.ServerTool{Tool: toolGetSleep, Handler: h.getSleep},
		server.ServerTool{Tool: toolGetDailySummaries, Handler: h.getDailySummaries},
		server.ServerTool{Tool: toolListSyncRuns, Handler: h.listSyncRuns},
	)

	s.AddResources(
		server.ServerResource{Resource: resSyncStatus, Handler: h.syncStatus},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	db  *storage.DB
	log *slog.Logger
}

var resSyncStatus = mcp.NewResource(
	"homepulse://sync_status",
	"Sync Status",
	mcp.WithResourceDescription("The 20 most recent ingestion sync runs with status, record counts and durations"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) syncStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	runs, err := h.db.QuerySyncRuns(ctx, 20)
	if err != nil {
		h.log.Error("mcp sync_status", "error", err)
		return nil, err
	}
	data, err := json.Marshal(runs)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// defaultTimeRange returns start/end defaulting to the last 7 days. The end
// is an exclusive bound, matching the storage queries; a date-only end is
// widened to the following midnight so the named day is included.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		var dateOnly bool
		end, dateOnly, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if dateOnly {
			end = end.Add(24 * time.Hour)
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, _, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, bool, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, false, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}
