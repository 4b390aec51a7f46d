// Package garmin is a thin client for the Garmin Connect wellness API.
// It expects a valid OAuth bearer token on disk; obtaining and refreshing
// that token is handled outside this program (garth or a browser session
// export). An expired token surfaces as a 401 error from every method.
package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const DefaultBaseURL = "https://connectapi.garmin.com"

// Client calls the Garmin Connect wellness endpoints, one method per metric.
// A Client is immutable after construction and safe for concurrent use.
type Client struct {
	baseURL     string
	displayName string
	token       string
	httpClient  *http.Client
}

// New creates a Client with the bearer token read from tokenPath.
// displayName is the profile UUID Garmin uses in per-user endpoint paths.
func New(baseURL, displayName, tokenPath string) (*Client, error) {
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("reading garmin token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return nil, fmt.Errorf("garmin token file %s is empty", tokenPath)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		displayName: displayName,
		token:       token,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("garmin: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("garmin: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("garmin: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("garmin: decode %s: %w", path, err)
	}
	return nil
}

func dateParam(day time.Time) url.Values {
	v := url.Values{}
	v.Set("date", day.Format(dateLayout))
	return v
}

// HeartRates fetches the daily heart rate summary and point values.
func (c *Client) HeartRates(ctx context.Context, day time.Time) (*HeartRatePayload, error) {
	var p HeartRatePayload
	path := "/wellness-service/wellness/dailyHeartRate/" + c.displayName
	if err := c.get(ctx, path, dateParam(day), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Steps fetches the 15-minute step intervals for a day.
func (c *Client) Steps(ctx context.Context, day time.Time) ([]StepsInterval, error) {
	var intervals []StepsInterval
	path := "/wellness-service/wellness/dailySummaryChart/" + c.displayName
	if err := c.get(ctx, path, dateParam(day), &intervals); err != nil {
		return nil, err
	}
	return intervals, nil
}

// DailySteps fetches per-day step totals for an inclusive date range.
func (c *Client) DailySteps(ctx context.Context, start, end time.Time) ([]DailySteps, error) {
	var days []DailySteps
	path := fmt.Sprintf("/usersummary-service/stats/steps/daily/%s/%s",
		start.Format(dateLayout), end.Format(dateLayout))
	if err := c.get(ctx, path, nil, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// Floors fetches the daily floors chart.
func (c *Client) Floors(ctx context.Context, day time.Time) (*FloorsPayload, error) {
	var p FloorsPayload
	path := "/wellness-service/wellness/floorsChartData/daily/" + day.Format(dateLayout)
	if err := c.get(ctx, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Stress fetches the daily stress summary and point values.
func (c *Client) Stress(ctx context.Context, day time.Time) (*StressPayload, error) {
	var p StressPayload
	path := "/wellness-service/wellness/dailyStress/" + day.Format(dateLayout)
	if err := c.get(ctx, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// BodyBattery fetches the body battery report for a single day. The endpoint
// is range-based; the response may still contain neighboring days, which the
// caller filters by date.
func (c *Client) BodyBattery(ctx context.Context, day time.Time) ([]BodyBatteryDay, error) {
	var days []BodyBatteryDay
	params := url.Values{}
	params.Set("startDate", day.Format(dateLayout))
	params.Set("endDate", day.Format(dateLayout))
	if err := c.get(ctx, "/wellness-service/wellness/bodyBattery/reports/daily", params, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// Sleep fetches the daily sleep payload with all sub-streams.
func (c *Client) Sleep(ctx context.Context, day time.Time) (*SleepPayload, error) {
	var p SleepPayload
	params := dateParam(day)
	params.Set("nonSleepBufferMinutes", "60")
	path := "/wellness-service/wellness/dailySleepData/" + c.displayName
	if err := c.get(ctx, path, params, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
