// ABOUTME: Start/stop workout timer with an injectable clock.
// ABOUTME: Elapsed time is always recomputed from the recorded start.
package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrAlreadyRunning = errors.New("timer already running")
	ErrNotRunning     = errors.New("timer not running")
)

// Clock returns the current time.
type Clock func() time.Time

// Timer is a two-state (Idle, Running) stopwatch. It is safe for concurrent use.
type Timer struct {
	mu      sync.Mutex
	now     Clock
	started time.Time
	running bool
}

// New returns an idle timer. A nil clock uses time.Now.
func New(clock Clock) *Timer {
	if clock == nil {
		clock = time.Now
	}
	return &Timer{now: clock}
}

// Start moves the timer from Idle to Running.
func (t *Timer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return ErrAlreadyRunning
	}
	t.started = t.now()
	t.running = true
	return nil
}

// Stop moves the timer back to Idle and returns the elapsed whole seconds.
func (t *Timer) Stop() (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return 0, ErrNotRunning
	}
	elapsed := t.elapsedLocked()
	t.running = false
	t.started = time.Time{}
	return elapsed, nil
}

// Reset discards a running session without reporting it.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.started = time.Time{}
}

// Running reports whether the timer is running.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Elapsed returns whole seconds since Start, or 0 when idle.
func (t *Timer) Elapsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return 0
	}
	return t.elapsedLocked()
}

// StartedAt returns the start time of the running session.
func (t *Timer) StartedAt() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started, t.running
}

func (t *Timer) elapsedLocked() int64 {
	secs := int64(t.now().Sub(t.started) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// EstimateCalories returns met * weightKg * hours.
func EstimateCalories(met, weightKg float64, elapsedSeconds int64) float64 {
	return met * weightKg * (float64(elapsedSeconds) / 3600.0)
}

// FormatDuration renders seconds as HH:MM:SS.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
