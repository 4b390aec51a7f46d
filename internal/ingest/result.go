// Package ingest fetches raw Garmin payloads, normalizes them into typed
// records, and persists them idempotently. Each sync method is one
// independent, retryable unit of work for an external scheduler.
package ingest

// Result holds the outcome of one sync invocation.
type Result struct {
	Metric  string `json:"metric"`
	Date    string `json:"date"`
	EndDate string `json:"end_date,omitempty"`
	Records int    `json:"records"`
}
