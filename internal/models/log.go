// Package models defines data structures and domain types.
package models

import "time"

// Log status values as reported by the gateway.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// LogRecord is one proxied request as stored by the gateway. The admin API
// marshals these with Go's default field names, so no tags are needed.
// Optional measurements are pointers: the gateway omits what it never
// recorded, and zero must stay distinguishable from absent.
type LogRecord struct {
	ID            int64
	CreatedAt     time.Time
	Name          string // model name as requested by the caller
	ProviderName  string
	ProviderModel string // provider-side model identifier
	Style         string // provider-protocol template tag
	Status        string
	Error         string
	UserAgent     string
	ClientIP      string
	Retry         int

	// Latency measurements in nanoseconds.
	ProxyTime      *int64
	FirstChunkTime *int64
	ChunkTime      *int64 // total completion time

	Tps              *float64
	PromptTokens     *int64
	CompletionTokens *int64
	TotalTokens      *int64
	CachedTokens     *int64

	// ChatIO reports whether full request/response content was retained.
	ChatIO          bool
	RequestHeaders  string
	RequestBody     string
	ResponseHeaders string
	ResponseBody    string
	// RawResponseBody holds the pre-transformation body when the proxy
	// rewrote the response; empty otherwise.
	RawResponseBody string
}

// IsError reports whether the request failed.
func (r *LogRecord) IsError() bool {
	return r.Status == StatusError
}

// HasRawResponse reports whether a pre-transformation body was retained.
func (r *LogRecord) HasRawResponse() bool {
	return r.RawResponseBody != ""
}

// LogPage is the paginated response envelope of the log listing endpoint.
type LogPage struct {
	Data  []LogRecord `json:"data"`
	Total int64       `json:"total"`
	Pages int         `json:"pages"`
}
