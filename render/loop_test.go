// render/loop_test.go
package render

import (
	"context"
	"encoding/json"
	"image"
	"math/rand"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stellarfoundry/orrery/assets"
	"github.com/stellarfoundry/orrery/model"
	"github.com/stellarfoundry/orrery/scene"
	"github.com/stellarfoundry/orrery/timectrl"
)

// stepClock advances a fixed amount per sample, letting Accelerated runs
// cover simulated time quickly and deterministically.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

type clockRecorder struct {
	mu    sync.Mutex
	last  string
	calls int
}

func (r *clockRecorder) SetClock(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = text
	r.calls++
}

func (r *clockRecorder) snapshot() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.calls
}

type frameMetricsRecorder struct {
	mu      sync.Mutex
	frames  int
	clamped int
}

func (r *frameMetricsRecorder) ObserveFrame(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
}

func (r *frameMetricsRecorder) IncDeltaClamped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clamped++
}

func (r *frameMetricsRecorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames, r.clamped
}

func newLoopWorld(t *testing.T) *scene.World {
	t.Helper()
	w, err := scene.Assemble(context.Background(), scene.DefaultConfig(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return w
}

// runUntil drives the loop in a goroutine until cond holds, then cancels.
func runUntil(t *testing.T, loop *Loop, cond func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			cancel()
			<-done
			t.Fatal("condition not reached before deadline")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestLoopRendersFramesAndPublishesSnapshots(t *testing.T) {
	world := newLoopWorld(t)
	surface := NewHeadlessSurface(640, 360)
	readout := &clockRecorder{}
	clock := &stepClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), step: 16 * time.Millisecond}

	loop := NewLoop(world,
		WithSurface(surface),
		WithClock(clock),
		WithMode(timectrl.Accelerated),
		WithReadout(readout),
	)
	runUntil(t, loop, func() bool { return loop.Frames() >= 5 })

	if surface.Frames() < 5 {
		t.Errorf("surface drew %d frames, want >= 5", surface.Frames())
	}

	snap := loop.Snapshot()
	if snap == nil {
		t.Fatal("no snapshot published")
	}
	if snap.NightAngle != snap.PlanetAngle {
		t.Errorf("night angle %v != planet angle %v", snap.NightAngle, snap.PlanetAngle)
	}
	if snap.Stars == 0 || snap.Bodies == 0 {
		t.Errorf("snapshot counts empty: %+v", snap)
	}

	last, calls := readout.snapshot()
	if calls == 0 {
		t.Fatal("readout never updated")
	}
	if ok, _ := regexp.MatchString(`^\d{2}:\d{2}:\d{2}$`, last); !ok {
		t.Errorf("readout %q not HH:MM:SS", last)
	}
}

func TestLoopClampsStalledFrames(t *testing.T) {
	world := newLoopWorld(t)
	metrics := &frameMetricsRecorder{}
	// Every sampled delta is a 5 second stall.
	clock := &stepClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), step: 5 * time.Second}

	loop := NewLoop(world,
		WithClock(clock),
		WithMode(timectrl.Accelerated),
		WithFrameMetrics(metrics),
	)
	runUntil(t, loop, func() bool {
		frames, clamped := metrics.counts()
		return frames >= 3 && clamped >= 2
	})

	frames, clamped := metrics.counts()
	// The first frame observes a zero delta; every later one clamps.
	if clamped < frames-1 {
		t.Errorf("clamped %d of %d frames, want all but the first", clamped, frames)
	}
}

func TestLoopStallAdvancesOrbitsByCapOnly(t *testing.T) {
	world := newLoopWorld(t)
	ctx := context.Background()
	loop := NewLoop(world)

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	loop.frame(ctx, base, 0)
	loop.frame(ctx, base.Add(16*time.Millisecond), 16*time.Millisecond)
	before := world.Moon.Element.Angle

	// A 5 second stall integrates as the 100ms cap, not 5 s.
	loop.frame(ctx, base.Add(5*time.Second), 5*time.Second)
	got := world.Moon.Element.Angle - before
	want := float64(world.Config.Moon.OrbitSpeed) * timectrl.MaxFrameDelta.Seconds()
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("stall advanced moon by %v rad, want %v", got, want)
	}
}

func TestLoopAppliesTexturesBetweenFrames(t *testing.T) {
	world := newLoopWorld(t)
	ch := make(chan assets.Result, 2)
	ch <- assets.Result{Role: model.AssetRoleSurfaceAlbedo, Image: image.NewRGBA(image.Rect(0, 0, 2, 2))}
	close(ch)

	gauge := &textureGauge{}
	loop := NewLoop(world, WithAssetResults(ch), WithTextureMetrics(gauge))
	loop.frame(context.Background(), time.Now(), 0)

	if got := world.Surface.Mat.TextureCount(); got != 1 {
		t.Fatalf("surface textures = %d, want 1", got)
	}
	if gauge.value() != 1 {
		t.Errorf("resident gauge = %d, want 1", gauge.value())
	}

	// The channel is spent; later frames must not block or re-apply.
	loop.frame(context.Background(), time.Now().Add(16*time.Millisecond), 16*time.Millisecond)
	if got := world.Surface.Mat.TextureCount(); got != 1 {
		t.Errorf("surface textures changed to %d", got)
	}
}

type textureGauge struct {
	mu sync.Mutex
	n  int
}

func (g *textureGauge) SetTexturesResident(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = n
}

func (g *textureGauge) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2024, 6, 1, 9, 5, 3, 0, time.UTC), "09:05:03"},
		{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "00:00:00"},
		{time.Date(2024, 6, 1, 23, 59, 59, 999e6, time.UTC), "23:59:59"},
		{time.Date(2024, 6, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600)), "12:00:00"},
	}
	for _, tc := range cases {
		if got := FormatClock(tc.t); got != tc.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tc.t, got, tc.want)
		}
	}
}

func TestLoopResizePropagates(t *testing.T) {
	world := newLoopWorld(t)
	surface := NewHeadlessSurface(100, 100)
	rig := NewOrbitRig(45, 12, 0.02)

	loop := NewLoop(world, WithSurface(surface), WithCameraRig(rig))
	loop.Resize(1920, 1080)

	if w, h := surface.Size(); w != 1920 || h != 1080 {
		t.Errorf("surface size = %dx%d", w, h)
	}
	if got, want := rig.Aspect(), float32(1920)/float32(1080); got != want {
		t.Errorf("aspect = %v, want %v", got, want)
	}
}

func TestStatusHandler(t *testing.T) {
	world := newLoopWorld(t)
	loop := NewLoop(world)
	handler := loop.StatusHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))
	if rec.Code != 503 {
		t.Fatalf("pre-frame status = %d, want 503", rec.Code)
	}

	loop.frame(context.Background(), time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), 16*time.Millisecond)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var snap scene.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if len(snap.Satellites) != len(world.Satellites) {
		t.Errorf("status satellites = %d, want %d", len(snap.Satellites), len(world.Satellites))
	}
	if snap.PlanetAngle == 0 {
		t.Error("status planet angle still zero after a noon frame")
	}
}
