package browse

import "testing"

func TestNewQuery(t *testing.T) {
	q := NewQuery()
	if q.Page() != 1 {
		t.Errorf("Page() = %d, want 1", q.Page())
	}
	if q.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d, want %d", q.PageSize(), DefaultPageSize)
	}
	if q.Filters().ActiveCount() != 0 {
		t.Error("fresh query should have no active filters")
	}
	if q.Version() != 0 {
		t.Errorf("Version() = %d, want 0", q.Version())
	}
}

func TestQuery_SetFilter_ResetsPage(t *testing.T) {
	q := NewQuery()
	q.Apply(100, 5)
	if _, ok := q.SetPage(4); !ok {
		t.Fatal("SetPage(4) should succeed with 5 pages")
	}

	before := q.Version()
	v := q.SetFilter(DimProvider, "openai-main")

	if q.Page() != 1 {
		t.Errorf("Page() = %d after filter change, want 1", q.Page())
	}
	if q.Filters().Provider != "openai-main" {
		t.Errorf("Provider filter = %q", q.Filters().Provider)
	}
	if v != before+1 {
		t.Errorf("version = %d, want %d", v, before+1)
	}
}

func TestQuery_SetFilter_EveryDimensionResetsPage(t *testing.T) {
	for d := Dimension(0); d < NumDimensions; d++ {
		q := NewQuery()
		q.Apply(100, 5)
		q.SetPage(3)

		q.SetFilter(d, "value")
		if q.Page() != 1 {
			t.Errorf("dimension %v: page = %d after filter change, want 1", d, q.Page())
		}
	}
}

func TestQuery_ClearFilterValue(t *testing.T) {
	q := NewQuery()
	q.SetFilter(DimStatus, "error")
	q.SetFilter(DimStatus, "")
	if q.Filters().Status != "" {
		t.Errorf("Status filter = %q, want cleared", q.Filters().Status)
	}
	if q.Filters().ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", q.Filters().ActiveCount())
	}
}

func TestQuery_ResetFilters_SingleMutation(t *testing.T) {
	q := NewQuery()
	q.SetFilter(DimModel, "gpt-4o")
	q.SetFilter(DimStatus, "error")
	before := q.Version()

	v := q.ResetFilters()

	if v != before+1 {
		t.Errorf("ResetFilters bumped version by %d, want 1", v-before)
	}
	if q.Filters().ActiveCount() != 0 {
		t.Error("filters should all be cleared")
	}
	if q.Page() != 1 {
		t.Errorf("Page() = %d, want 1", q.Page())
	}
}

func TestQuery_SetPageSize(t *testing.T) {
	q := NewQuery()
	q.Apply(100, 5)
	q.SetPage(3)
	before := q.Version()

	// Same size: nothing changes, no fetch owed.
	if _, changed := q.SetPageSize(DefaultPageSize); changed {
		t.Error("SetPageSize(same) should report no change")
	}
	if q.Version() != before {
		t.Error("SetPageSize(same) must not bump the version")
	}
	if q.Page() != 3 {
		t.Errorf("Page() = %d, want 3 (unchanged)", q.Page())
	}

	// Disallowed size: rejected.
	if _, changed := q.SetPageSize(33); changed {
		t.Error("SetPageSize(33) should be rejected")
	}

	// New allowed size: adopted, page resets.
	v, changed := q.SetPageSize(50)
	if !changed {
		t.Fatal("SetPageSize(50) should succeed")
	}
	if q.PageSize() != 50 {
		t.Errorf("PageSize() = %d, want 50", q.PageSize())
	}
	if q.Page() != 1 {
		t.Errorf("Page() = %d, want 1", q.Page())
	}
	if v != before+1 {
		t.Errorf("version = %d, want %d", v, before+1)
	}
}

func TestQuery_NextPageSize(t *testing.T) {
	q := NewQuery()
	if got := q.NextPageSize(); got != 50 {
		t.Errorf("NextPageSize() from 20 = %d, want 50", got)
	}
	q.SetPageSize(100)
	if got := q.NextPageSize(); got != 10 {
		t.Errorf("NextPageSize() from 100 = %d, want 10 (wrap)", got)
	}
}

func TestQuery_SetPage_Bounds(t *testing.T) {
	q := NewQuery()
	q.Apply(45, 3)

	if _, ok := q.SetPage(2); !ok {
		t.Fatal("SetPage(2) should succeed with 3 pages")
	}
	before := q.Version()

	// Out of range: state after the call equals state before the call.
	if _, ok := q.SetPage(4); ok {
		t.Error("SetPage(4) should be rejected with 3 pages")
	}
	if q.Page() != 2 {
		t.Errorf("Page() = %d after rejected SetPage, want 2", q.Page())
	}
	if q.Version() != before {
		t.Error("rejected SetPage must not bump the version")
	}

	if _, ok := q.SetPage(0); ok {
		t.Error("SetPage(0) should be rejected")
	}
	if _, ok := q.SetPage(-1); ok {
		t.Error("SetPage(-1) should be rejected")
	}
}

func TestQuery_SetPage_BeforeFirstFetch(t *testing.T) {
	q := NewQuery()
	// No metadata yet: pages is 0, so every jump is rejected.
	if _, ok := q.SetPage(2); ok {
		t.Error("SetPage should be rejected before any fetch applied")
	}
	if q.Page() != 1 {
		t.Errorf("Page() = %d, want 1", q.Page())
	}
}

func TestQuery_Apply_Clamp(t *testing.T) {
	q := NewQuery()
	q.Apply(60, 3)
	q.SetPage(3)

	// Deletions shrank the result to 2 pages: clamp and ask for a re-fetch.
	if refetch := q.Apply(40, 2); !refetch {
		t.Error("Apply should request a follow-up fetch after clamping onto page 2")
	}
	if q.Page() != 2 {
		t.Errorf("Page() = %d after clamp, want 2", q.Page())
	}

	// Clear-all empties the store: land on page 1, nothing left to fetch.
	if refetch := q.Apply(0, 0); refetch {
		t.Error("Apply(0,0) should not request a follow-up fetch")
	}
	if q.Page() != 1 {
		t.Errorf("Page() = %d after empty result, want 1", q.Page())
	}
	if q.Total() != 0 || q.Pages() != 0 {
		t.Errorf("metadata = (%d, %d), want (0, 0)", q.Total(), q.Pages())
	}
}

func TestQuery_Apply_InRange(t *testing.T) {
	q := NewQuery()
	q.Apply(45, 3)
	q.SetPage(2)

	if refetch := q.Apply(45, 3); refetch {
		t.Error("Apply with unchanged metadata should not request a re-fetch")
	}
	if q.Page() != 2 {
		t.Errorf("Page() = %d, want 2", q.Page())
	}
}

func TestQuery_Matches(t *testing.T) {
	q := NewQuery()
	v := q.SetFilter(DimModel, "gpt-4o")
	if !q.Matches(v) {
		t.Error("current version should match")
	}

	// A newer mutation makes the older tag stale.
	q.SetFilter(DimModel, "claude-x")
	if q.Matches(v) {
		t.Error("stale version should no longer match")
	}
}

func TestQuery_Bump(t *testing.T) {
	q := NewQuery()
	before := q.Version()
	v := q.Bump()
	if v != before+1 || q.Version() != v {
		t.Errorf("Bump() = %d, version = %d, want %d", v, q.Version(), before+1)
	}
	if q.Page() != 1 || q.PageSize() != DefaultPageSize {
		t.Error("Bump must not change the window")
	}
}

func TestQuery_ResetPage(t *testing.T) {
	q := NewQuery()
	q.Apply(45, 3)
	q.SetPage(3)
	before := q.Version()

	v := q.ResetPage()
	if q.Page() != 1 {
		t.Errorf("Page() = %d, want 1", q.Page())
	}
	if v != before+1 {
		t.Errorf("ResetPage() = %d, want %d", v, before+1)
	}
	if q.PageSize() != DefaultPageSize {
		t.Error("ResetPage must not change the page size")
	}
}

func TestDimension_String(t *testing.T) {
	tests := []struct {
		dim  Dimension
		want string
	}{
		{DimModel, "Model"},
		{DimProvider, "Provider"},
		{DimStatus, "Status"},
		{DimStyle, "Style"},
		{DimUserAgent, "User Agent"},
		{Dimension(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.dim.String(); got != tt.want {
			t.Errorf("Dimension(%d).String() = %q, want %q", tt.dim, got, tt.want)
		}
	}
}
