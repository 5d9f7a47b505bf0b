// Package browse holds the state containers behind the log browser tabs.
package browse

import "sort"

// Selection tracks which rows of the visible page are selected. It is
// cleared on every query-state change and pruned against the visible ids
// after each fetch, so it never refers to a row the user cannot see.
type Selection struct {
	ids map[int64]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int64]struct{})}
}

// ToggleOne adds or removes a single id.
func (s *Selection) ToggleOne(id int64, checked bool) {
	if checked {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
}

// ToggleAll selects every visible id when checked, clears otherwise.
func (s *Selection) ToggleAll(checked bool, visible []int64) {
	if !checked {
		s.Clear()
		return
	}
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[int64]struct{})
}

// Remove drops one id, keeping the rest selected. Used after a single
// record is deleted.
func (s *Selection) Remove(id int64) {
	delete(s.ids, id)
}

// Retain drops every id not present in the visible page.
func (s *Selection) Retain(visible []int64) {
	keep := make(map[int64]struct{}, len(visible))
	for _, id := range visible {
		if _, ok := s.ids[id]; ok {
			keep[id] = struct{}{}
		}
	}
	s.ids = keep
}

// Has reports whether an id is selected.
func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids.
func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in ascending order, for stable request
// payloads.
func (s *Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AllSelected reports whether the page is non-empty and every visible id
// is selected.
func (s *Selection) AllSelected(visible []int64) bool {
	if len(visible) == 0 {
		return false
	}
	for _, id := range visible {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// PartiallySelected reports whether the selection is non-empty but not
// complete.
func (s *Selection) PartiallySelected(visible []int64) bool {
	return s.Count() > 0 && !s.AllSelected(visible)
}
