// Package browse holds the state containers behind the log browser tabs:
// the versioned query window, the row selection set, and the
// confirmation-gated mutation flow. Pure state, no I/O and no rendering,
// so every transition is testable on its own.
package browse

// PageSizes is the fixed set of allowed page sizes.
var PageSizes = []int{10, 20, 50, 100}

// DefaultPageSize is the page size a fresh query starts with.
const DefaultPageSize = 20

// Dimension identifies one filter axis of the log query.
type Dimension int

const (
	// DimModel filters on the model name requested by the caller.
	DimModel Dimension = iota
	// DimProvider filters on the upstream provider name.
	DimProvider
	// DimStatus filters on success/error.
	DimStatus
	// DimStyle filters on the provider-protocol template tag.
	DimStyle
	// DimUserAgent filters on the caller user-agent.
	DimUserAgent

	// NumDimensions is the number of filter axes.
	NumDimensions
)

// String returns the display name for a dimension.
func (d Dimension) String() string {
	switch d {
	case DimModel:
		return "Model"
	case DimProvider:
		return "Provider"
	case DimStatus:
		return "Status"
	case DimStyle:
		return "Style"
	case DimUserAgent:
		return "User Agent"
	default:
		return "Unknown"
	}
}

// Filters holds the five optional exact-match predicates. The empty
// string means "all" (no constraint) and is omitted from requests.
type Filters struct {
	Model     string
	Provider  string
	Status    string
	Style     string
	UserAgent string
}

// Get returns the predicate for one dimension.
func (f Filters) Get(d Dimension) string {
	switch d {
	case DimModel:
		return f.Model
	case DimProvider:
		return f.Provider
	case DimStatus:
		return f.Status
	case DimStyle:
		return f.Style
	case DimUserAgent:
		return f.UserAgent
	default:
		return ""
	}
}

func (f Filters) with(d Dimension, value string) Filters {
	switch d {
	case DimModel:
		f.Model = value
	case DimProvider:
		f.Provider = value
	case DimStatus:
		f.Status = value
	case DimStyle:
		f.Style = value
	case DimUserAgent:
		f.UserAgent = value
	}
	return f
}

// ActiveCount returns how many predicates are constrained.
func (f Filters) ActiveCount() int {
	n := 0
	for d := Dimension(0); d < NumDimensions; d++ {
		if f.Get(d) != "" {
			n++
		}
	}
	return n
}

// Query is the versioned pagination and filter state feeding the log
// fetcher. Every accepted mutation bumps the version and owes exactly one
// fetch; a response is applied only while its version still matches, so a
// stale response can never overwrite a fresher page.
type Query struct {
	page     int
	pageSize int
	filters  Filters
	total    int64
	pages    int
	version  uint64
}

// NewQuery returns a query on page 1 with the default page size and no
// constraints.
func NewQuery() *Query {
	return &Query{page: 1, pageSize: DefaultPageSize}
}

// Page returns the current 1-based page.
func (q *Query) Page() int { return q.page }

// PageSize returns the current page size.
func (q *Query) PageSize() int { return q.pageSize }

// Filters returns the active predicates.
func (q *Query) Filters() Filters { return q.filters }

// Total returns the record count reported by the last applied fetch.
func (q *Query) Total() int64 { return q.total }

// Pages returns the page count reported by the last applied fetch.
func (q *Query) Pages() int { return q.pages }

// Version returns the current state version.
func (q *Query) Version() uint64 { return q.version }

// Matches reports whether a response tagged with version v is still
// current.
func (q *Query) Matches(v uint64) bool { return q.version == v }

// Bump advances the version without changing the window, for refreshes
// of the same query (manual reload, post-delete re-fetch). The returned
// version tags the fetch it owes.
func (q *Query) Bump() uint64 {
	q.version++
	return q.version
}

// SetFilter sets one predicate and resets the page to 1. Returns the
// version tagging the single fetch this mutation owes.
func (q *Query) SetFilter(d Dimension, value string) uint64 {
	q.filters = q.filters.with(d, value)
	q.page = 1
	return q.Bump()
}

// ResetFilters clears every predicate in one mutation and resets the
// page to 1.
func (q *Query) ResetFilters() uint64 {
	q.filters = Filters{}
	q.page = 1
	return q.Bump()
}

// ResetPage returns to page 1 under a new version, for query mutations
// tracked outside the filter set (visibility toggles and the like).
func (q *Query) ResetPage() uint64 {
	q.page = 1
	return q.Bump()
}

// SetPageSize adopts a new page size and resets the page to 1. Sizes
// equal to the current one or outside the allowed set change nothing and
// trigger no fetch.
func (q *Query) SetPageSize(size int) (uint64, bool) {
	if size == q.pageSize || !allowedPageSize(size) {
		return q.version, false
	}
	q.pageSize = size
	q.page = 1
	return q.Bump(), true
}

// NextPageSize returns the allowed size after the current one, wrapping.
func (q *Query) NextPageSize() int {
	for i, size := range PageSizes {
		if size == q.pageSize {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return DefaultPageSize
}

// SetPage moves to page n. Out-of-range requests are rejected with no
// state change.
func (q *Query) SetPage(n int) (uint64, bool) {
	if n < 1 || n > q.pages || n == q.page {
		return q.version, false
	}
	q.page = n
	return q.Bump(), true
}

// Apply records the metadata of a completed fetch. When the reported page
// count shrank beneath the current page (rows deleted, clear-all), the
// page clamps back into range; Apply reports whether the clamped page
// still exists and therefore needs one follow-up fetch.
func (q *Query) Apply(total int64, pages int) bool {
	q.total = total
	q.pages = pages
	if pages <= 0 {
		q.page = 1
		return false
	}
	if q.page > pages {
		q.page = pages
		return true
	}
	return false
}

func allowedPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}
