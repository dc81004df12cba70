// Package render drives the frame loop. Each frame it drains finished
// texture loads, clamps the measured frame delta, advances the scene and
// camera, hands the world to a draw surface, and publishes the UTC clock
// readout and a scene snapshot for status surfaces.
package render

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/stellarfoundry/orrery/assets"
	"github.com/stellarfoundry/orrery/internal/logging"
	"github.com/stellarfoundry/orrery/scene"
	"github.com/stellarfoundry/orrery/timectrl"
)

// DefaultInterval paces the loop at 60 frames per second.
const DefaultInterval = time.Second / 60

// FrameMetrics receives per-frame observations. Satisfied by
// observability.FrameCollector; nil disables recording.
type FrameMetrics interface {
	ObserveFrame(d time.Duration)
	IncDeltaClamped()
}

// TextureMetrics tracks how many textures are bound to materials.
// Satisfied by observability.LoaderCollector.
type TextureMetrics interface {
	SetTexturesResident(n int)
}

// ReadoutSink receives the formatted UTC clock string once per frame.
type ReadoutSink interface {
	SetClock(text string)
}

// ReadoutFunc adapts a function to ReadoutSink.
type ReadoutFunc func(text string)

func (f ReadoutFunc) SetClock(text string) { f(text) }

// FormatClock renders the zero-padded HH:MM:SS UTC readout.
func FormatClock(t time.Time) string {
	return t.UTC().Format("15:04:05")
}

// Option configures a Loop.
type Option func(*Loop)

func WithSurface(s Surface) Option {
	return func(l *Loop) {
		if s != nil {
			l.surface = s
		}
	}
}

func WithCameraRig(r CameraRig) Option {
	return func(l *Loop) {
		if r != nil {
			l.rig = r
		}
	}
}

func WithReadout(sink ReadoutSink) Option {
	return func(l *Loop) { l.readout = sink }
}

func WithClock(c timectrl.Clock) Option {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

func WithMode(m timectrl.Mode) Option {
	return func(l *Loop) { l.mode = m }
}

func WithLogger(log logging.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

func WithFrameMetrics(m FrameMetrics) Option {
	return func(l *Loop) { l.metrics = m }
}

func WithTextureMetrics(m TextureMetrics) Option {
	return func(l *Loop) { l.texMetrics = m }
}

// WithAssetResults feeds the loop a texture result channel to drain at
// frame boundaries.
func WithAssetResults(ch <-chan assets.Result) Option {
	return func(l *Loop) { l.pending = ch }
}

// Loop owns the frame cadence for one World.
type Loop struct {
	world    *scene.World
	surface  Surface
	rig      CameraRig
	readout  ReadoutSink
	clock    timectrl.Clock
	interval time.Duration
	mode     timectrl.Mode
	pending  <-chan assets.Result

	log        logging.Logger
	metrics    FrameMetrics
	texMetrics TextureMetrics

	frames   atomic.Uint64
	snapshot atomic.Pointer[scene.Snapshot]
}

// NewLoop wires a loop around world with headless defaults.
func NewLoop(world *scene.World, opts ...Option) *Loop {
	l := &Loop{
		world:    world,
		surface:  NewHeadlessSurface(1280, 720),
		rig:      NopRig{},
		clock:    timectrl.SystemClock{},
		interval: DefaultInterval,
		mode:     timectrl.RealTime,
		log:      logging.Noop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run drives frames until ctx is cancelled. It blocks.
func (l *Loop) Run(ctx context.Context) {
	ctrl := timectrl.NewFrameController(l.clock, l.interval, l.mode)
	ctrl.AddListener(func(now time.Time, delta time.Duration) {
		l.frame(ctx, now, delta)
	})

	l.log.Info(ctx, "frame loop starting",
		logging.Duration("interval", l.interval),
		logging.Int("bodies", l.world.BodyCount()),
	)
	ctrl.Run(ctx)
	l.log.Info(ctx, "frame loop stopped", logging.Any("frames", l.frames.Load()))
}

func (l *Loop) frame(ctx context.Context, now time.Time, rawDelta time.Duration) {
	start := time.Now()

	l.drainAssets(ctx)

	delta, clamped := timectrl.ClampDelta(rawDelta)
	if clamped {
		if l.metrics != nil {
			l.metrics.IncDeltaClamped()
		}
		l.log.Debug(ctx, "frame delta clamped",
			logging.Duration("raw", rawDelta),
			logging.Duration("clamped", delta),
		)
	}

	l.world.Tick(now, delta)
	l.rig.Advance(now, delta)

	if err := l.surface.Draw(l.world); err != nil {
		l.log.Error(ctx, "draw failed", logging.Err(err))
	}
	if l.readout != nil {
		l.readout.SetClock(FormatClock(now))
	}

	snap := l.world.Snapshot(now)
	l.snapshot.Store(&snap)
	l.frames.Add(1)

	if l.metrics != nil {
		l.metrics.ObserveFrame(time.Since(start))
	}
}

// drainAssets applies every texture result already finished, without
// blocking on loads still in flight.
func (l *Loop) drainAssets(ctx context.Context) {
	if l.pending == nil {
		return
	}
	for {
		select {
		case res, ok := <-l.pending:
			if !ok {
				l.pending = nil
				return
			}
			if res.Err != nil {
				// The loader already logged the failure.
				continue
			}
			if err := l.world.ApplyTexture(res.Role, res.Image); err != nil {
				l.log.Warn(ctx, "texture has no home", logging.String("role", res.Role.String()), logging.Err(err))
				continue
			}
			if l.texMetrics != nil {
				l.texMetrics.SetTexturesResident(l.world.TexturesResident())
			}
		default:
			return
		}
	}
}

// Snapshot returns the most recently published scene snapshot, nil before
// the first frame. Safe from any goroutine.
func (l *Loop) Snapshot() *scene.Snapshot {
	return l.snapshot.Load()
}

// Frames returns how many frames have run.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Resize propagates a viewport change to the surface and camera.
func (l *Loop) Resize(width, height int) {
	l.surface.Resize(width, height)
	if width > 0 && height > 0 {
		l.rig.SetAspect(float32(width) / float32(height))
	}
}

// StatusHandler serves the latest snapshot as JSON.
func (l *Loop) StatusHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		snap := l.Snapshot()
		if snap == nil {
			http.Error(rw, "no frame rendered yet", http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(rw).Encode(snap); err != nil {
			l.log.Warn(req.Context(), "status encode failed", logging.Err(err))
		}
	})
}
