package packagekit

import "time"

// DefaultWaitGrace is how long after transaction start a reported wait
// status is suppressed. The service routinely passes through a brief wait
// state while setting up; surfacing that as "waiting" would flash a bogus
// lock warning at the start of every operation.
const DefaultWaitGrace = 1000 * time.Millisecond

// ProgressSnapshot is the externally visible progress of one running
// transaction. Snapshots are immutable; every property update from the
// service produces a fresh one.
type ProgressSnapshot struct {
	// Waiting is true while the transaction is queued behind another
	// privileged client, once the startup grace period has passed.
	Waiting bool

	// Percentage is the last accepted completion value, 0-100.
	Percentage uint32

	// Cancel requests cancellation of the transaction. It is nil whenever
	// the service reports the transaction as not currently cancellable.
	Cancel func()
}

// ProgressFunc receives every recomputed snapshot, in update order.
type ProgressFunc func(ProgressSnapshot)

// progressState is the reduced property state of one transaction.
type progressState struct {
	status      Status
	percentage  uint32
	allowCancel bool
}

// progressPatch is one property-change notification. Only the fields present
// in the update are non-nil; absent fields leave prior state untouched.
type progressPatch struct {
	status      *Status
	percentage  *uint32
	allowCancel *bool
}

// applyProgressPatch folds one patch into the previous state, producing a
// new state. Percentage values above 100 are dropped and the last accepted
// value is retained.
func applyProgressPatch(prev progressState, patch progressPatch) progressState {
	next := prev
	if patch.status != nil {
		next.status = *patch.status
	}
	if patch.percentage != nil && *patch.percentage <= 100 {
		next.percentage = *patch.percentage
	}
	if patch.allowCancel != nil {
		next.allowCancel = *patch.allowCancel
	}
	return next
}

// snapshot renders the state for consumers. The waiting flag is reported
// only when the wait status has outlived the startup grace period; the
// grace applies to reporting only, never to completion or cancellation.
func (s progressState) snapshot(started, now time.Time, grace time.Duration, cancel func()) ProgressSnapshot {
	snap := ProgressSnapshot{Percentage: s.percentage}
	if (s.status == StatusWait || s.status == StatusWaitingForLock) && now.Sub(started) >= grace {
		snap.Waiting = true
	}
	if s.allowCancel {
		snap.Cancel = cancel
	}
	return snap
}

// parseProgressPatch extracts the tracked properties from a changed-property
// map. Unknown properties and values of unexpected type are ignored.
func parseProgressPatch(props map[string]any) progressPatch {
	var patch progressPatch
	if v, ok := asUint32(props["Status"]); ok {
		status := Status(v)
		patch.status = &status
	}
	if v, ok := asUint32(props["Percentage"]); ok {
		pct := v
		patch.percentage = &pct
	}
	if v, ok := props["AllowCancel"].(bool); ok {
		allow := v
		patch.allowCancel = &allow
	}
	return patch
}
