// Package format holds the pure display-formatting helpers shared by the
// tabs: latency units, token grouping, throughput, timestamps. No side
// effects, no styling.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Missing is the placeholder for measurements the gateway never recorded.
// Zero is a valid measured value and renders normally.
const Missing = "-"

const displayTimeLayout = "2006-01-02 15:04:05"

// Duration renders a nanosecond measurement using the largest unit that
// keeps the value below the next threshold, always with two decimals.
func Duration(ns int64) string {
	v := float64(ns)
	switch {
	case ns < 1_000:
		return fmt.Sprintf("%.2f ns", v)
	case ns < 1_000_000:
		return fmt.Sprintf("%.2f µs", v/1_000)
	case ns < 1_000_000_000:
		return fmt.Sprintf("%.2f ms", v/1_000_000)
	default:
		return fmt.Sprintf("%.2f s", v/1_000_000_000)
	}
}

// OptDuration renders an optional nanosecond measurement.
func OptDuration(ns *int64) string {
	if ns == nil {
		return Missing
	}
	return Duration(*ns)
}

// Tokens renders an optional token count with locale grouping.
func Tokens(n *int64) string {
	if n == nil {
		return Missing
	}
	return humanize.Comma(*n)
}

// Count renders a required counter with locale grouping.
func Count(n int64) string {
	return humanize.Comma(n)
}

// TPS renders an optional tokens-per-second measurement with two decimals.
func TPS(v *float64) string {
	if v == nil {
		return Missing
	}
	return fmt.Sprintf("%.2f", *v)
}

// Percent renders a 0..1 fraction as a percentage with one decimal.
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// Timestamp renders a time in the local display form, dash when zero.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return Missing
	}
	return t.Local().Format(displayTimeLayout)
}

// OptTimestamp renders an optional time, dash when absent.
func OptTimestamp(t *time.Time) string {
	if t == nil {
		return Missing
	}
	return Timestamp(*t)
}

// ByteSize renders the size of an opaque payload blob.
func ByteSize(payload string) string {
	return humanize.Bytes(uint64(len(payload)))
}
