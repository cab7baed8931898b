package smartcube

import (
	"fmt"
	"time"
)

// TimerState is the phase of a solve timer.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerReady
	TimerRunning
	TimerStopped
)

func (s TimerState) String() string {
	switch s {
	case TimerIdle:
		return "IDLE"
	case TimerReady:
		return "READY"
	case TimerRunning:
		return "RUNNING"
	case TimerStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Timer measures a single solve. It is armed before the solve, started by
// the first move and stopped when the cube is solved.
type Timer struct {
	state   TimerState
	start   time.Time
	elapsed time.Duration
	now     func() time.Time
}

// NewTimer creates an idle timer.
func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

// State returns the current timer state.
func (t *Timer) State() TimerState {
	return t.state
}

// Arm readies the timer for a new solve, clearing any previous time.
// Returns false if a solve is running.
func (t *Timer) Arm() bool {
	if t.state == TimerRunning {
		return false
	}
	t.state = TimerReady
	t.elapsed = 0
	return true
}

// Start starts timing. Returns false if already running.
func (t *Timer) Start() bool {
	if t.state == TimerRunning {
		return false
	}
	t.state = TimerRunning
	t.start = t.now()
	t.elapsed = 0
	return true
}

// Stop freezes the elapsed time. Returns false if not running.
func (t *Timer) Stop() bool {
	if t.state != TimerRunning {
		return false
	}
	t.elapsed = t.now().Sub(t.start)
	t.state = TimerStopped
	return true
}

// Reset returns the timer to idle with zero elapsed time.
func (t *Timer) Reset() {
	t.state = TimerIdle
	t.elapsed = 0
}

// Elapsed returns the running time of the current solve, or the final time
// once stopped.
func (t *Timer) Elapsed() time.Duration {
	if t.state == TimerRunning {
		return t.now().Sub(t.start)
	}
	return t.elapsed
}

// FormatDuration renders d as m:ss.mmm, e.g. 1:05.042.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms%60000)/1000, ms%1000)
}
