package model

import "testing"

func TestCanTransition_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{PhaseUpload, PhaseProcessing},
		{PhaseUpload, PhaseError},
		{PhaseProcessing, PhaseComplete},
		{PhaseProcessing, PhaseError},
		{PhaseProcessing, PhaseUpload},
		{PhaseComplete, PhaseUpload},
		{PhaseError, PhaseUpload},
	}

	for _, tc := range cases {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransition_RejectsInvalidPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{PhaseUpload, PhaseComplete},
		{PhaseComplete, PhaseProcessing},
		{PhaseComplete, PhaseError},
		{PhaseError, PhaseProcessing},
		{PhaseError, PhaseComplete},
		{"not_a_phase", PhaseUpload},
	}

	for _, tc := range cases {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be rejected", tc.from, tc.to)
		}
	}
}

func TestTransition_BlocksIllegalTransition(t *testing.T) {
	phase, err := Transition(PhaseUpload, PhaseComplete)
	if err == nil {
		t.Fatalf("expected illegal transition error")
	}
	if phase != PhaseUpload {
		t.Fatalf("failed transition must not move the phase, got %q", phase)
	}
}

func TestSnapshotConsistency(t *testing.T) {
	snap := ProgressSnapshot{Completed: 7, Found: 3, Partial: 2, Cached: 1, NotFound: 1}
	if !snap.Consistent() {
		t.Fatalf("expected snapshot to be consistent, category sum %d vs completed %d", snap.CategorySum(), snap.Completed)
	}

	snap.NotFound++
	if snap.Consistent() {
		t.Fatalf("expected inconsistent snapshot after extra category count")
	}
}

func TestJobSummaryIsRunning(t *testing.T) {
	for _, status := range []string{"processing", "running"} {
		if !(JobSummary{Status: status}).IsRunning() {
			t.Fatalf("expected status %q to count as running", status)
		}
	}
	for _, status := range []string{"complete", "completed", "error", ""} {
		if (JobSummary{Status: status}).IsRunning() {
			t.Fatalf("expected status %q to count as not running", status)
		}
	}
}
