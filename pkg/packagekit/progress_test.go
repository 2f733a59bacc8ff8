package packagekit

import (
	"testing"
	"time"
)

func uint32p(v uint32) *uint32 { return &v }
func statusp(s Status) *Status { return &s }
func boolp(v bool) *bool       { return &v }

func TestApplyProgressPatch(t *testing.T) {
	tests := []struct {
		name  string
		prev  progressState
		patch progressPatch
		want  progressState
	}{
		{
			name:  "empty patch keeps state",
			prev:  progressState{status: StatusRunning, percentage: 40, allowCancel: true},
			patch: progressPatch{},
			want:  progressState{status: StatusRunning, percentage: 40, allowCancel: true},
		},
		{
			name:  "percentage update accepted",
			prev:  progressState{percentage: 40},
			patch: progressPatch{percentage: uint32p(55)},
			want:  progressState{percentage: 55},
		},
		{
			name:  "out of range percentage keeps last value",
			prev:  progressState{percentage: 55},
			patch: progressPatch{percentage: uint32p(101)},
			want:  progressState{percentage: 55},
		},
		{
			name:  "status and cancellability",
			prev:  progressState{percentage: 10},
			patch: progressPatch{status: statusp(StatusWaitingForLock), allowCancel: boolp(true)},
			want:  progressState{status: StatusWaitingForLock, percentage: 10, allowCancel: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applyProgressPatch(tt.prev, tt.patch); got != tt.want {
				t.Errorf("applyProgressPatch() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSnapshotWaitingGrace(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	state := progressState{status: StatusWait, percentage: 0}

	// Inside the grace period the wait status is suppressed.
	snap := state.snapshot(started, started.Add(200*time.Millisecond), DefaultWaitGrace, nil)
	if snap.Waiting {
		t.Error("Waiting should be suppressed during the grace period")
	}

	// After the grace period it is reported.
	snap = state.snapshot(started, started.Add(1500*time.Millisecond), DefaultWaitGrace, nil)
	if !snap.Waiting {
		t.Error("Waiting should be reported after the grace period")
	}

	// A non-wait status never reports waiting, grace or not.
	running := progressState{status: StatusRunning}
	snap = running.snapshot(started, started.Add(time.Hour), DefaultWaitGrace, nil)
	if snap.Waiting {
		t.Error("Waiting should be false for a running transaction")
	}
}

func TestSnapshotCancelAvailability(t *testing.T) {
	started := time.Now()
	cancel := func() {}

	state := progressState{allowCancel: true}
	if snap := state.snapshot(started, started, 0, cancel); snap.Cancel == nil {
		t.Error("Cancel should be set while the transaction is cancellable")
	}

	state = progressState{allowCancel: false}
	if snap := state.snapshot(started, started, 0, cancel); snap.Cancel != nil {
		t.Error("Cancel should be nil while the transaction is not cancellable")
	}
}

func TestParseProgressPatch(t *testing.T) {
	patch := parseProgressPatch(map[string]any{
		"Status":      uint32(StatusWaitingForLock),
		"Percentage":  uint32(42),
		"AllowCancel": true,
		"Role":        uint32(7), // untracked, ignored
	})

	if patch.status == nil || *patch.status != StatusWaitingForLock {
		t.Errorf("status = %v, want waiting-for-lock", patch.status)
	}
	if patch.percentage == nil || *patch.percentage != 42 {
		t.Errorf("percentage = %v, want 42", patch.percentage)
	}
	if patch.allowCancel == nil || !*patch.allowCancel {
		t.Errorf("allowCancel = %v, want true", patch.allowCancel)
	}

	empty := parseProgressPatch(map[string]any{"Percentage": "not-a-number"})
	if empty.percentage != nil {
		t.Error("mistyped percentage should be ignored")
	}
}
