package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetHeartRate = mcp.NewTool("get_heart_rate",
	mcp.WithDescription("Retrieve heart rate data: daily summaries (resting/min/max) and optionally raw 2-minute point values."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithBoolean("points", mcp.Description("Include raw point values. Defaults to false; point volume is large.")),
)

var toolGetSleep = mcp.NewTool("get_sleep",
	mcp.WithDescription("Retrieve nightly sleep summaries: stage durations, SpO2, respiration, sleep scores and timing."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetDailySummaries = mcp.NewTool("get_daily_summaries",
	mcp.WithDescription("Retrieve combined daily summaries: steps, stress and body battery per day."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolListSyncRuns = mcp.NewTool("list_sync_runs",
	mcp.WithDescription("List recent ingestion sync runs with metric, date, status, record count and duration."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of runs. Defaults to 50.")),
)

// --- Tool handlers ---

func (h *handlers) getHeartRate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	daily, err := h.db.QueryHeartRateDaily(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_heart_rate daily", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out := map[string]any{"daily": daily}
	if req.GetBool("points", false) {
		points, err := h.db.QueryHeartRate(ctx, start, end)
		if err != nil {
			h.log.Error("mcp get_heart_rate points", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		out["points"] = points
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSleep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	nights, err := h.db.QuerySleepDaily(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_sleep", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(nights)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDailySummaries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	steps, err := h.db.QueryStepsDaily(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_daily_summaries steps", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	stress, err := h.db.QueryStressDaily(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_daily_summaries stress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	battery, err := h.db.QueryBodyBatteryDaily(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_daily_summaries body battery", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"steps":        steps,
		"stress":       stress,
		"body_battery": battery,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listSyncRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 50)

	runs, err := h.db.QuerySyncRuns(ctx, limit)
	if err != nil {
		h.log.Error("mcp list_sync_runs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(runs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
