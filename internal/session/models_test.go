package session

import (
	"testing"
	"time"
)

func TestPhaseTransitionsAreLazy(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	s := Session{StartedAt: start, TimerMinutes: 30}
	grace := 5 * time.Minute
	expiry := start.Add(30 * time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want Phase
	}{
		{name: "mid exam", now: start.Add(10 * time.Minute), want: PhaseActive},
		{name: "exactly at expiry", now: expiry, want: PhaseActive},
		{name: "just past expiry", now: expiry.Add(time.Second), want: PhaseGrace},
		{name: "inside grace", now: expiry.Add(4 * time.Minute), want: PhaseGrace},
		{name: "exactly at grace deadline", now: expiry.Add(grace), want: PhaseGrace},
		{name: "past grace deadline", now: expiry.Add(grace + time.Second), want: PhaseCompleted},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.PhaseAt(tc.now, grace); got != tc.want {
				t.Fatalf("phase at %v: got %s, want %s", tc.now, got, tc.want)
			}
		})
	}
}

func TestCanAcceptAnswersIgnoresCompletedAt(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	grace := 5 * time.Minute
	completed := start.Add(31 * time.Minute)
	s := Session{StartedAt: start, TimerMinutes: 30, CompletedAt: &completed}

	// completedAt is already set, but the grace window is still open: the
	// late answer racing the force-complete must not be dropped.
	inGrace := start.Add(33 * time.Minute)
	if !s.CanAcceptAnswers(inGrace, grace) {
		t.Fatal("answer inside grace window rejected because completedAt was set")
	}
	if s.PhaseAt(inGrace, grace) != PhaseCompleted {
		t.Fatal("completed session should report completed phase")
	}

	past := start.Add(36 * time.Minute)
	if s.CanAcceptAnswers(past, grace) {
		t.Fatal("answer past grace deadline accepted")
	}
}
