package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/justinabrahms/squarechess/internal/chess"
)

var ErrNoTimeControl = errors.New("time control not applicable")

// TimeControl represents the time control settings for a game
type TimeControl struct {
	Type        string `json:"type" mapstructure:"type"`                 // "correspondence" or "none"
	DaysPerMove int    `json:"daysPerMove" mapstructure:"days_per_move"` // For correspondence games
}

func (tc TimeControl) enabled() bool {
	return tc.Type == "correspondence" && tc.DaysPerMove > 0
}

func (tc TimeControl) perMove() time.Duration {
	return time.Duration(tc.DaysPerMove) * 24 * time.Hour
}

// TimeViolation represents a time control violation
type TimeViolation struct {
	Color         string    `json:"color"`
	LastMoveAt    time.Time `json:"lastMoveAt"`
	DeadlineAt    time.Time `json:"deadlineAt"`
	ViolationType string    `json:"violationType"` // "timeout", "abandoned"
}

// Clock tracks when each side's turn started.
type Clock struct {
	control   TimeControl
	turnStart time.Time
	lastMove  time.Time
}

func NewClock(tc TimeControl, start time.Time) *Clock {
	return &Clock{
		control:   tc,
		turnStart: start,
	}
}

// RecordMove starts the next side's turn.
func (c *Clock) RecordMove(at time.Time) {
	c.turnStart = at
	c.lastMove = at
}

// CheckTimeViolation checks whether the side to move has run out of time.
func (c *Clock) CheckTimeViolation(toMove chess.Color, now time.Time) *TimeViolation {
	if !c.control.enabled() {
		return nil
	}

	// Three full periods without any move at all
	if c.lastMove.IsZero() && now.Sub(c.turnStart) > 3*c.control.perMove() {
		return &TimeViolation{
			Color:         toMove.String(),
			LastMoveAt:    c.turnStart,
			DeadlineAt:    c.turnStart.Add(3 * c.control.perMove()),
			ViolationType: "abandoned",
		}
	}

	deadline := c.turnStart.Add(c.control.perMove())
	if now.After(deadline) {
		return &TimeViolation{
			Color:         toMove.String(),
			LastMoveAt:    c.turnStart,
			DeadlineAt:    deadline,
			ViolationType: "timeout",
		}
	}

	return nil
}

// Remaining returns the time left for the side to move.
func (c *Clock) Remaining(now time.Time) (time.Duration, error) {
	if !c.control.enabled() {
		return 0, fmt.Errorf("%w: type %q", ErrNoTimeControl, c.control.Type)
	}

	remaining := c.turnStart.Add(c.control.perMove()).Sub(now)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// FormatTimeRemaining formats time remaining in a human-readable way
func FormatTimeRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return "Time expired"
	}

	days := int(remaining.Hours() / 24)
	hours := int(remaining.Hours()) % 24
	minutes := int(remaining.Minutes()) % 60

	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%d days, %d hours", days, hours)
		}
		return fmt.Sprintf("%d days", days)
	}

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%d hours, %d minutes", hours, minutes)
		}
		return fmt.Sprintf("%d hours", hours)
	}

	return fmt.Sprintf("%d minutes", minutes)
}
