package timectrl

import (
	"context"
	"sync"
	"time"
)

// Clock is an interface for sampling wall-clock time. Animation components
// depend on this abstraction rather than calling time.Now directly, enabling
// deterministic tests with scripted clocks.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
}

// SystemClock is the real wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Mode describes how the FrameController paces frames.
type Mode int

const (
	// RealTime paces frames with a ticker at the configured interval.
	RealTime Mode = iota
	// Accelerated runs frames back to back without sleeping, as fast as the
	// loop can go. Used by tests and headless soak runs.
	Accelerated
)

// MaxFrameDelta is the upper bound applied to a raw frame delta before it
// reaches any animation code. A tab left in the background or a suspended
// laptop can produce multi-second gaps between frames; integrating such a gap
// in one step would teleport every orbiting body.
const MaxFrameDelta = 100 * time.Millisecond

// ClampDelta bounds a raw frame delta to [0, MaxFrameDelta]. The second
// return reports whether the upper cap was applied, so callers can count
// stalls. Negative deltas (clock stepped backwards) collapse to zero without
// counting as a clamp.
func ClampDelta(d time.Duration) (time.Duration, bool) {
	if d > MaxFrameDelta {
		return MaxFrameDelta, true
	}
	if d < 0 {
		return 0, false
	}
	return d, false
}

// FrameFunc is a per-frame callback. now is the clock sample taken for this
// frame; delta is the raw elapsed time since the previous frame, unclamped.
// The first frame of a run observes a zero delta.
type FrameFunc func(now time.Time, delta time.Duration)

// FrameController invokes registered listeners once per frame, sampling its
// Clock for the frame time and measuring the inter-frame delta.
type FrameController struct {
	clock    Clock
	interval time.Duration
	mode     Mode

	mu        sync.Mutex
	last      time.Time
	listeners []FrameFunc
}

// NewFrameController constructs a controller. interval is only consulted in
// RealTime mode.
func NewFrameController(clock Clock, interval time.Duration, mode Mode) *FrameController {
	return &FrameController{
		clock:    clock,
		interval: interval,
		mode:     mode,
	}
}

// AddListener registers a callback invoked on every frame, in registration
// order. Listeners must be registered before Run.
func (fc *FrameController) AddListener(fn FrameFunc) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.listeners = append(fc.listeners, fn)
}

// Run drives frames until ctx is cancelled. It blocks; use Start for the
// goroutine-and-done-channel form.
func (fc *FrameController) Run(ctx context.Context) {
	var ticker *time.Ticker
	if fc.mode == RealTime {
		ticker = time.NewTicker(fc.interval)
		defer ticker.Stop()
	}

	fc.mu.Lock()
	fc.last = time.Time{}
	fc.mu.Unlock()

	for {
		if fc.mode == RealTime {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return
		}

		now := fc.clock.Now()

		fc.mu.Lock()
		var delta time.Duration
		if !fc.last.IsZero() {
			delta = now.Sub(fc.last)
		}
		fc.last = now
		listeners := fc.listeners
		fc.mu.Unlock()

		for _, fn := range listeners {
			fn(now, delta)
		}
	}
}

// Start runs the controller in a separate goroutine. It returns a channel
// that is closed when the controller stops.
func (fc *FrameController) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fc.Run(ctx)
	}()
	return done
}
