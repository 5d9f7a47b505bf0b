package browse

import (
	"reflect"
	"testing"
)

func TestSelection_ToggleOne(t *testing.T) {
	s := NewSelection()
	s.ToggleOne(10, true)
	s.ToggleOne(20, true)

	if !s.Has(10) || !s.Has(20) {
		t.Error("ids 10 and 20 should be selected")
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}

	s.ToggleOne(10, false)
	if s.Has(10) {
		t.Error("id 10 should be deselected")
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestSelection_ToggleAll_RoundTrip(t *testing.T) {
	visible := []int64{1, 2, 3}
	s := NewSelection()

	s.ToggleAll(true, visible)
	if !s.AllSelected(visible) {
		t.Error("all visible ids should be selected")
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}

	s.ToggleAll(false, visible)
	if s.Count() != 0 {
		t.Errorf("Count() = %d after unchecking, want 0 (pre-toggle contents)", s.Count())
	}
}

func TestSelection_AllSelected_EmptyPage(t *testing.T) {
	s := NewSelection()
	if s.AllSelected(nil) {
		t.Error("AllSelected must be false for an empty page")
	}
}

func TestSelection_PartiallySelected(t *testing.T) {
	visible := []int64{1, 2, 3}
	s := NewSelection()

	if s.PartiallySelected(visible) {
		t.Error("empty selection is not partial")
	}

	s.ToggleOne(1, true)
	if !s.PartiallySelected(visible) {
		t.Error("one of three selected should be partial")
	}
	if s.AllSelected(visible) {
		t.Error("one of three selected is not all")
	}

	s.ToggleAll(true, visible)
	if s.PartiallySelected(visible) {
		t.Error("full selection is not partial")
	}
}

func TestSelection_Remove_KeepsOthers(t *testing.T) {
	// Selecting 3 rows then deleting 1 individually leaves 2 selected.
	s := NewSelection()
	s.ToggleOne(1, true)
	s.ToggleOne(2, true)
	s.ToggleOne(3, true)

	s.Remove(2)

	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}
	if s.Has(2) {
		t.Error("removed id should be gone")
	}
	if !s.Has(1) || !s.Has(3) {
		t.Error("remaining ids should stay selected")
	}
}

func TestSelection_Retain(t *testing.T) {
	s := NewSelection()
	s.ToggleOne(1, true)
	s.ToggleOne(2, true)
	s.ToggleOne(3, true)

	s.Retain([]int64{2, 3, 4})

	if s.Has(1) {
		t.Error("id 1 is no longer visible and should be pruned")
	}
	if !s.Has(2) || !s.Has(3) {
		t.Error("visible ids should survive Retain")
	}
	if s.Has(4) {
		t.Error("Retain must not add ids")
	}
}

func TestSelection_IDs_Sorted(t *testing.T) {
	s := NewSelection()
	s.ToggleOne(30, true)
	s.ToggleOne(10, true)
	s.ToggleOne(20, true)

	got := s.IDs()
	want := []int64{10, 20, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestSelection_Clear(t *testing.T) {
	s := NewSelection()
	s.ToggleOne(1, true)
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count() = %d after Clear, want 0", s.Count())
	}
}
