package task

import (
	"fmt"
	"time"
)

// DefaultTimerCap is the elapsed time after which a slot timer stops counting.
const DefaultTimerCap = 20 * time.Minute

// TimerState is the state of a slot's elapsed-time indicator.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerStopped
	TimerCapped
)

// String returns the timer state name.
func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerStopped:
		return "stopped"
	case TimerCapped:
		return "capped"
	case TimerIdle:
	}
	return "idle"
}

// Stopwatch measures the time since a slot's last successful translation.
type Stopwatch struct {
	state   TimerState
	started time.Time
	limit   time.Duration
}

// NewStopwatch creates a stopwatch that caps at limit, or DefaultTimerCap when limit is not positive.
func NewStopwatch(limit time.Duration) Stopwatch {
	if limit <= 0 {
		limit = DefaultTimerCap
	}
	return Stopwatch{limit: limit}
}

// Start restarts counting from now.
func (s *Stopwatch) Start(now time.Time) {
	s.state = TimerRunning
	s.started = now
}

// Stop halts counting and hides the display.
func (s *Stopwatch) Stop() {
	if s.state != TimerIdle {
		s.state = TimerStopped
	}
}

// Reset returns the stopwatch to its initial state.
func (s *Stopwatch) Reset() {
	s.state = TimerIdle
	s.started = time.Time{}
}

// State returns the current timer state.
func (s *Stopwatch) State() TimerState {
	return s.state
}

// Tick advances a running stopwatch and reports whether the display changed.
// A stopwatch that reaches its limit becomes capped and stops ticking.
func (s *Stopwatch) Tick(now time.Time) bool {
	if s.state != TimerRunning {
		return false
	}
	if now.Sub(s.started) >= s.limit {
		s.state = TimerCapped
	}
	return true
}

// Display renders the elapsed time as MM:SS, the capped marker, or nothing.
func (s *Stopwatch) Display(now time.Time) string {
	switch s.state {
	case TimerRunning:
		return FormatElapsed(now.Sub(s.started), s.limit)
	case TimerCapped:
		return FormatElapsed(s.limit, s.limit)
	case TimerIdle, TimerStopped:
	}
	return ""
}

// Progress returns the elapsed share of the limit in [0, 1].
func (s *Stopwatch) Progress(now time.Time) float64 {
	switch s.state {
	case TimerRunning:
		return min(float64(now.Sub(s.started))/float64(s.limit), 1)
	case TimerCapped:
		return 1
	case TimerIdle, TimerStopped:
	}
	return 0
}

// FormatElapsed formats d as MM:SS, or the limit followed by "+" once d reaches it.
func FormatElapsed(d, limit time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d >= limit {
		return formatMinutes(limit) + "+"
	}
	return formatMinutes(d)
}

func formatMinutes(d time.Duration) string {
	seconds := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
