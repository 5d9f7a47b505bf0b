// Package browse holds the state containers behind the log browser tabs.
package browse

import "slices"

// Kind identifies which destructive operation a flow is carrying.
type Kind int

const (
	// KindNone is the zero value; a flow at rest carries no operation.
	KindNone Kind = iota
	// KindDeleteOne deletes a single record.
	KindDeleteOne
	// KindDeleteBatch deletes the current selection.
	KindDeleteBatch
	// KindClearAll deletes every record, ignoring filters and pagination.
	KindClearAll
)

// String returns the display name for an operation kind.
func (k Kind) String() string {
	switch k {
	case KindDeleteOne:
		return "delete"
	case KindDeleteBatch:
		return "batch delete"
	case KindClearAll:
		return "clear all"
	default:
		return "none"
	}
}

// Phase is the lifecycle position of a mutation flow.
type Phase int

const (
	// PhaseIdle means no destructive operation is pending.
	PhaseIdle Phase = iota
	// PhaseConfirming means the confirmation gate is armed.
	PhaseConfirming
	// PhaseExecuting means the operation is running remotely.
	PhaseExecuting
)

// Flow serializes the destructive operations of one resource class
// through an explicit confirmation gate: idle → confirming → executing →
// idle. Only one operation can hold the flow at a time, which is what
// prevents double-submission races against overlapping id sets.
type Flow struct {
	phase Phase
	kind  Kind
	ids   []int64
}

// NewFlow returns an idle flow.
func NewFlow() *Flow {
	return &Flow{}
}

// Phase returns the current lifecycle position.
func (f *Flow) Phase() Phase { return f.phase }

// Kind returns the pending operation kind, KindNone when idle.
func (f *Flow) Kind() Kind { return f.kind }

// IDs returns the target ids of the pending operation.
func (f *Flow) IDs() []int64 { return f.ids }

// Idle reports whether no operation is pending.
func (f *Flow) Idle() bool { return f.phase == PhaseIdle }

// Confirming reports whether the confirmation gate is armed.
func (f *Flow) Confirming() bool { return f.phase == PhaseConfirming }

// Executing reports whether an operation is in flight.
func (f *Flow) Executing() bool { return f.phase == PhaseExecuting }

// Request arms the confirmation gate for an operation. It is refused
// while the flow is busy, for a batch with no ids (the confirmation must
// not open on an empty selection), and for a single delete without
// exactly one id.
func (f *Flow) Request(kind Kind, ids ...int64) bool {
	if f.phase != PhaseIdle || kind == KindNone {
		return false
	}
	if kind == KindDeleteBatch && len(ids) == 0 {
		return false
	}
	if kind == KindDeleteOne && len(ids) != 1 {
		return false
	}
	f.phase = PhaseConfirming
	f.kind = kind
	f.ids = slices.Clone(ids)
	return true
}

// Confirm moves an armed flow to executing and yields the operation.
func (f *Flow) Confirm() (Kind, []int64, bool) {
	if f.phase != PhaseConfirming {
		return KindNone, nil, false
	}
	f.phase = PhaseExecuting
	return f.kind, f.ids, true
}

// Cancel disarms the confirmation gate.
func (f *Flow) Cancel() bool {
	if f.phase != PhaseConfirming {
		return false
	}
	f.reset()
	return true
}

// Finish returns an executing flow to idle. Success and failure both end
// here; the caller decides what else changes.
func (f *Flow) Finish() bool {
	if f.phase != PhaseExecuting {
		return false
	}
	f.reset()
	return true
}

func (f *Flow) reset() {
	f.phase = PhaseIdle
	f.kind = KindNone
	f.ids = nil
}
