package session

import (
	"errors"
	"testing"
	"time"

	"github.com/justinabrahms/squarechess/internal/chess"
)

func TestClockCorrespondence(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewClock(TimeControl{Type: "correspondence", DaysPerMove: 3}, start)

	// Should have no violation initially
	if violation := clock.CheckTimeViolation(chess.White, start); violation != nil {
		t.Error("Expected no violation initially")
	}

	// Record a move
	moveTime := start.Add(24 * time.Hour)
	clock.RecordMove(moveTime)

	// Two days later there is one day left
	now := moveTime.Add(2 * 24 * time.Hour)
	remaining, err := clock.Remaining(now)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if remaining != 24*time.Hour {
		t.Errorf("Expected 24 hours remaining, got %v", remaining)
	}
	if violation := clock.CheckTimeViolation(chess.Black, now); violation != nil {
		t.Error("Expected no violation after 2 days")
	}

	// Four days after the move the side to move has timed out
	violation := clock.CheckTimeViolation(chess.Black, moveTime.Add(4*24*time.Hour))
	if violation == nil {
		t.Fatal("Expected violation after 4 days")
	}
	if violation.Color != "black" {
		t.Errorf("Expected violation for black, got %s", violation.Color)
	}
	if violation.ViolationType != "timeout" {
		t.Errorf("Expected timeout violation, got %s", violation.ViolationType)
	}
	if !violation.DeadlineAt.Equal(moveTime.Add(3 * 24 * time.Hour)) {
		t.Errorf("Unexpected deadline %v", violation.DeadlineAt)
	}

	remaining, err = clock.Remaining(moveTime.Add(4 * 24 * time.Hour))
	if err != nil || remaining != 0 {
		t.Errorf("Expected 0 remaining after deadline, got %v (%v)", remaining, err)
	}
}

func TestClockAbandonment(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewClock(TimeControl{Type: "correspondence", DaysPerMove: 1}, start)

	violation := clock.CheckTimeViolation(chess.White, start.Add(4*24*time.Hour))
	if violation == nil {
		t.Fatal("Expected a violation")
	}
	if violation.ViolationType != "abandoned" {
		t.Errorf("Expected abandoned violation, got %s", violation.ViolationType)
	}
}

func TestClockWithoutTimeControl(t *testing.T) {
	now := time.Now()
	clock := NewClock(TimeControl{Type: "none"}, now)

	if violation := clock.CheckTimeViolation(chess.White, now.Add(1000*time.Hour)); violation != nil {
		t.Error("Expected no violation without time control")
	}
	if _, err := clock.Remaining(now); !errors.Is(err, ErrNoTimeControl) {
		t.Errorf("Expected ErrNoTimeControl, got %v", err)
	}
}

func TestFormatTimeRemaining(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "Time expired"},
		{-1 * time.Hour, "Time expired"},
		{30 * time.Minute, "30 minutes"},
		{1 * time.Hour, "1 hours"},
		{90 * time.Minute, "1 hours, 30 minutes"},
		{24 * time.Hour, "1 days"},
		{25 * time.Hour, "1 days, 1 hours"},
		{72 * time.Hour, "3 days"},
	}

	for _, test := range tests {
		result := FormatTimeRemaining(test.duration)
		if result != test.expected {
			t.Errorf("FormatTimeRemaining(%v) = %s, expected %s", test.duration, result, test.expected)
		}
	}
}
