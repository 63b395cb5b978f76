// Package clock implements the pausable stopwatch used for a single round
// (game clock) and for a whole tournament (tournament clock).
//
// The clock never runs in the background: every command and query takes the
// caller's notion of "now" and derives elapsed time from stored timestamps.
package clock

import "time"

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// SessionClock is owned by exactly one round or tournament. The zero value is
// an idle clock.
type SessionClock struct {
	DurationMinutes  int           `json:"duration_minutes"`
	StartTime        *time.Time    `json:"start_time,omitempty"`
	PauseTime        *time.Time    `json:"pause_time,omitempty"`
	AccumulatedPause time.Duration `json:"accumulated_pause"`
	State            State         `json:"state"`
}

func New(durationMinutes int) *SessionClock {
	return &SessionClock{DurationMinutes: durationMinutes, State: StateIdle}
}

func (c *SessionClock) Duration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}

func (c *SessionClock) state() State {
	if c.State == "" {
		return StateIdle
	}
	return c.State
}

// Start (re)starts the clock from zero regardless of its current state.
func (c *SessionClock) Start(durationMinutes int, now time.Time) {
	start := now
	c.DurationMinutes = durationMinutes
	c.StartTime = &start
	c.PauseTime = nil
	c.AccumulatedPause = 0
	c.State = StateRunning
}

// Pause reports whether the clock was running and is now paused.
func (c *SessionClock) Pause(now time.Time) bool {
	if c.state() != StateRunning {
		return false
	}
	paused := now
	c.PauseTime = &paused
	c.State = StatePaused
	return true
}

// Resume reports whether the clock was paused and is now running again.
func (c *SessionClock) Resume(now time.Time) bool {
	if c.state() != StatePaused {
		return false
	}
	if c.PauseTime != nil {
		if d := now.Sub(*c.PauseTime); d > 0 {
			c.AccumulatedPause += d
		}
	}
	c.PauseTime = nil
	c.State = StateRunning
	return true
}

// Reset returns to idle and forgets all timestamps. The configured duration
// is kept.
func (c *SessionClock) Reset() {
	c.StartTime = nil
	c.PauseTime = nil
	c.AccumulatedPause = 0
	c.State = StateIdle
}

// ElapsedAndRemaining has no side effects. Elapsed never goes below zero and
// remaining never below zero or above the duration.
func (c *SessionClock) ElapsedAndRemaining(now time.Time) (elapsed, remaining time.Duration) {
	total := c.Duration()
	if c.StartTime == nil {
		return 0, total
	}

	switch c.state() {
	case StateRunning:
		elapsed = now.Sub(*c.StartTime) - c.AccumulatedPause
	case StatePaused:
		pausedAt := now
		if c.PauseTime != nil {
			pausedAt = *c.PauseTime
		}
		elapsed = pausedAt.Sub(*c.StartTime) - c.AccumulatedPause
	default:
		return 0, total
	}

	elapsed = max(elapsed, 0)
	remaining = max(total-elapsed, 0)
	return elapsed, remaining
}

// Expired reports a running clock with nothing left on it. The driver is
// expected to Reset the clock and trigger whatever follows.
func (c *SessionClock) Expired(now time.Time) bool {
	if c.state() != StateRunning {
		return false
	}
	_, remaining := c.ElapsedAndRemaining(now)
	return remaining == 0
}

type Snapshot struct {
	State            State   `json:"state"`
	DurationMinutes  int     `json:"duration_minutes"`
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
	RemainingSeconds float64 `json:"remaining_seconds"`
	Expired          bool    `json:"expired"`
}

func (c *SessionClock) Snapshot(now time.Time) Snapshot {
	elapsed, remaining := c.ElapsedAndRemaining(now)
	return Snapshot{
		State:            c.state(),
		DurationMinutes:  c.DurationMinutes,
		ElapsedSeconds:   elapsed.Seconds(),
		RemainingSeconds: remaining.Seconds(),
		Expired:          c.Expired(now),
	}
}
