// Package breaker implements a three-state circuit breaker guarding calls to
// remote dependencies.
package breaker

import (
	"errors"
	"sync"
	"time"
)

// State of the breaker.
type State int

const (
	// StateClosed lets calls pass through while counting failures.
	StateClosed State = iota
	// StateOpen short-circuits calls without contacting the dependency.
	StateOpen
	// StateHalfOpen admits a single probe call after the reset timeout.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned when a call is short-circuited.
var ErrOpen = errors.New("circuit breaker is open")

// Settings parameterize the guarded call.
type Settings struct {
	// FailureRatio trips the breaker when failures/total within the window
	// reaches this fraction. Defaults to 0.5.
	FailureRatio float64
	// MinSamples is the minimum number of calls in the window before the
	// ratio is evaluated. Defaults to 5.
	MinSamples int
	// Window is the rolling sampling window. Defaults to 10s.
	Window time.Duration
	// ResetTimeout is the cooldown in the open state before a probe is
	// admitted. Defaults to 30s.
	ResetTimeout time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.FailureRatio <= 0 || s.FailureRatio > 1 {
		s.FailureRatio = 0.5
	}
	if s.MinSamples <= 0 {
		s.MinSamples = 5
	}
	if s.Window <= 0 {
		s.Window = 10 * time.Second
	}
	if s.ResetTimeout <= 0 {
		s.ResetTimeout = 30 * time.Second
	}
	return s
}

type sample struct {
	at      time.Time
	failure bool
}

// Breaker is a guarded-call wrapper. The zero value is not usable; construct
// with New.
type Breaker struct {
	mu       sync.Mutex
	settings Settings
	state    State
	samples  []sample
	openedAt time.Time
	probing  bool

	now func() time.Time
}

// New constructs a breaker in the closed state.
func New(settings Settings) *Breaker {
	return &Breaker{
		settings: settings.withDefaults(),
		state:    StateClosed,
		now:      time.Now,
	}
}

// State reports the current state, advancing open to half-open when the
// reset timeout has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentLocked()
}

func (b *Breaker) currentLocked() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.settings.ResetTimeout {
		b.state = StateHalfOpen
		b.probing = false
	}
	return b.state
}

// Do runs fn under the breaker. When the breaker is open (or a half-open
// probe is already in flight) it returns ErrOpen without invoking fn.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	switch b.currentLocked() {
	case StateOpen:
		b.mu.Unlock()
		return ErrOpen
	case StateHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return ErrOpen
		}
		b.probing = true
		b.mu.Unlock()
		err := fn()
		b.settleProbe(err)
		return err
	}
	b.mu.Unlock()

	err := fn()
	b.record(err)
	return err
}

// settleProbe resolves a half-open probe: success closes the breaker,
// failure reopens it.
func (b *Breaker) settleProbe(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false
	if err != nil {
		b.state = StateOpen
		b.openedAt = b.now()
		return
	}
	b.state = StateClosed
	b.samples = b.samples[:0]
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateClosed {
		return
	}
	now := b.now()
	b.samples = append(b.samples, sample{at: now, failure: err != nil})
	b.pruneLocked(now)

	total := len(b.samples)
	if total < b.settings.MinSamples {
		return
	}
	failures := 0
	for _, s := range b.samples {
		if s.failure {
			failures++
		}
	}
	if float64(failures)/float64(total) >= b.settings.FailureRatio {
		b.state = StateOpen
		b.openedAt = now
		b.samples = b.samples[:0]
	}
}

func (b *Breaker) pruneLocked(now time.Time) {
	cutoff := now.Add(-b.settings.Window)
	kept := b.samples[:0]
	for _, s := range b.samples {
		if s.at.After(cutoff) {
			kept = append(kept, s)
		}
	}
	b.samples = kept
}
