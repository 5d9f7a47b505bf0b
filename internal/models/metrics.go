// Package models defines data structures and domain types.
package models

import "time"

// MetricsWindow selects the dashboard aggregation window.
type MetricsWindow int

const (
	// Window24Hours aggregates the last 24 hours.
	Window24Hours MetricsWindow = iota
	// Window7Days aggregates the last 7 days.
	Window7Days
	// Window30Days aggregates the last 30 days.
	Window30Days
)

// String returns the display name for a metrics window.
func (w MetricsWindow) String() string {
	switch w {
	case Window24Hours:
		return "24 Hours"
	case Window7Days:
		return "7 Days"
	case Window30Days:
		return "30 Days"
	default:
		return "Unknown"
	}
}

// Hours returns the window length in hours.
func (w MetricsWindow) Hours() int {
	switch w {
	case Window24Hours:
		return 24
	case Window7Days:
		return 7 * 24
	case Window30Days:
		return 30 * 24
	default:
		return 24
	}
}

// Next cycles to the next window.
func (w MetricsWindow) Next() MetricsWindow {
	return (w + 1) % 3
}

// WindowFromHours maps an hour count onto the window covering it,
// defaulting to 24 hours.
func WindowFromHours(hours int) MetricsWindow {
	switch {
	case hours >= Window30Days.Hours():
		return Window30Days
	case hours >= Window7Days.Hours():
		return Window7Days
	default:
		return Window24Hours
	}
}

// MetricsBucket is one time bucket of the server-side aggregation series.
type MetricsBucket struct {
	Bucket   time.Time `json:"bucket"`
	Requests int64     `json:"requests"`
	Errors   int64     `json:"errors"`
	Tokens   int64     `json:"tokens"`
}

// Metrics is the server-side traffic aggregate consumed by the dashboard.
type Metrics struct {
	TotalRequests    int64           `json:"total_requests"`
	SuccessCount     int64           `json:"success_count"`
	ErrorCount       int64           `json:"error_count"`
	SuccessRate      float64         `json:"success_rate"`
	PromptTokens     int64           `json:"prompt_tokens"`
	CompletionTokens int64           `json:"completion_tokens"`
	TotalTokens      int64           `json:"total_tokens"`
	AvgTps           float64         `json:"avg_tps"`
	Series           []MetricsBucket `json:"series"`
}

// ErrorRate returns the failed fraction of all requests, 0 when idle.
func (m *Metrics) ErrorRate() float64 {
	if m.TotalRequests == 0 {
		return 0
	}
	return float64(m.ErrorCount) / float64(m.TotalRequests)
}

// MetricSnapshot is one locally captured metrics observation, persisted so
// the dashboard can draw a trend across console sessions.
type MetricSnapshot struct {
	ID            int64
	CapturedAt    time.Time
	TotalRequests int64
	SuccessCount  int64
	ErrorCount    int64
	TotalTokens   int64
	AvgTps        float64
}
