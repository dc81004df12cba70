// scene/animate_test.go
package scene

import (
	"math"
	"testing"
	"time"

	"cogentcore.org/core/math32"

	"github.com/stellarfoundry/orrery/shader"
)

// angularDiff returns the minimal absolute difference between two angles.
func angularDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

func TestPlanetRotationAngleDerivesFromClock(t *testing.T) {
	cases := []struct {
		name string
		t    time.Time
		want float64
	}{
		{"midnight", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 0},
		{"six am", time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC), math.Pi / 2},
		{"noon", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), math.Pi},
		{"six pm", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC), 3 * math.Pi / 2},
		{"noon local", time.Date(2024, 6, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600)), math.Pi},
	}
	for _, tc := range cases {
		got := PlanetRotationAngle(tc.t)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("%s: PlanetRotationAngle = %v, want %v", tc.name, got, tc.want)
		}
		// Pure in t: a second evaluation is bit-identical.
		if again := PlanetRotationAngle(tc.t); again != got {
			t.Errorf("%s: angle not stable across calls: %v then %v", tc.name, got, again)
		}
	}
}

func TestUTCHoursMillisecondResolution(t *testing.T) {
	at := time.Date(2024, 6, 1, 13, 30, 15, 500*int(time.Millisecond), time.UTC)
	want := 13 + 30.0/60 + 15.0/3600 + 500.0/3600000
	if got := UTCHours(at); math.Abs(got-want) > 1e-12 {
		t.Fatalf("UTCHours = %v, want %v", got, want)
	}

	// Sub-millisecond detail is deliberately quantized away.
	coarse := time.Date(2024, 6, 1, 13, 30, 15, 500*int(time.Millisecond)+987, time.UTC)
	if got := UTCHours(coarse); got != UTCHours(at) {
		t.Errorf("UTCHours should quantize to milliseconds: %v != %v", got, UTCHours(at))
	}
}

func TestNormalizeAngleRange(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{5 * math.Pi, math.Pi},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{-7 * math.Pi, math.Pi},
	}
	for _, tc := range cases {
		got := normalizeAngle(tc.in)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tc.in, got, tc.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("normalizeAngle(%v) = %v, outside [0, 2pi)", tc.in, got)
		}
	}
}

func TestTickNightAngleTracksPlanetExactly(t *testing.T) {
	w := newTestWorld(t, DefaultConfig())

	now := time.Date(2024, 6, 1, 9, 14, 3, 0, time.UTC)
	deltas := []time.Duration{0, 16 * time.Millisecond, 33 * time.Millisecond, 97 * time.Millisecond, time.Second}
	for _, d := range deltas {
		now = now.Add(d)
		w.Tick(now, d)
		if w.NightAngle() != w.PlanetAngle() {
			t.Fatalf("after delta %v: night angle %v != planet angle %v", d, w.NightAngle(), w.PlanetAngle())
		}
	}
}

func TestTickPosesShellNodes(t *testing.T) {
	w := newTestWorld(t, DefaultConfig())

	now := time.Date(2024, 6, 1, 15, 45, 30, 0, time.UTC)
	w.Tick(now, 16*time.Millisecond)

	wantSurface := math32.NewQuatAxisAngle(yAxis, float32(w.PlanetAngle()))
	if got := w.Surface.Node().Rotation(); got != wantSurface {
		t.Errorf("surface rotation = %+v, want %+v", got, wantSurface)
	}
	if got := w.NightShell.Node().Rotation(); got != wantSurface {
		t.Errorf("night shell rotation = %+v, want %+v", got, wantSurface)
	}
	wantClouds := math32.NewQuatAxisAngle(yAxis, float32(w.CloudAngle()))
	if got := w.CloudShell.Node().Rotation(); got != wantClouds {
		t.Errorf("cloud shell rotation = %+v, want %+v", got, wantClouds)
	}
	wantStars := math32.NewQuatAxisAngle(yAxis, float32(w.StarfieldAngle()))
	if got := w.Stars.Node().Rotation(); got != wantStars {
		t.Errorf("starfield rotation = %+v, want %+v", got, wantStars)
	}
}

func TestTickStarfieldAccumulatesDelta(t *testing.T) {
	cfg := DefaultConfig()
	w := newTestWorld(t, cfg)

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	split := []time.Duration{300 * time.Millisecond, 700 * time.Millisecond, 2 * time.Second}
	var total float64
	for _, d := range split {
		now = now.Add(d)
		w.Tick(now, d)
		total += d.Seconds()
	}

	want := normalizeAngle(total * float64(cfg.Starfield.SpinRate))
	if got := w.StarfieldAngle(); math.Abs(got-want) > 1e-12 {
		t.Fatalf("starfield angle = %v, want %v after %vs", got, want, total)
	}
}

func TestTickZeroDeltaFreezesIntegratedState(t *testing.T) {
	w := newTestWorld(t, DefaultConfig())

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	w.Tick(now, 500*time.Millisecond)

	moonAngle := w.Moon.Element.Angle
	starAngle := w.StarfieldAngle()
	satAngles := make([]float64, len(w.Satellites))
	for i, sat := range w.Satellites {
		satAngles[i] = sat.Element.Angle
	}
	if moonAngle == 0 {
		t.Fatal("moon did not advance on the positive-delta frame")
	}
	if starAngle == 0 {
		t.Fatal("starfield did not advance on the positive-delta frame")
	}

	later := now.Add(3 * time.Second)
	w.Tick(later, 0)
	w.Tick(later, -50*time.Millisecond)

	if w.Moon.Element.Angle != moonAngle {
		t.Errorf("moon angle moved on non-positive delta: %v -> %v", moonAngle, w.Moon.Element.Angle)
	}
	if w.StarfieldAngle() != starAngle {
		t.Errorf("starfield angle moved on non-positive delta: %v -> %v", starAngle, w.StarfieldAngle())
	}
	for i, sat := range w.Satellites {
		if sat.Element.Angle != satAngles[i] {
			t.Errorf("satellite %q angle moved on non-positive delta", sat.Spec.ID)
		}
	}

	// Wall-clock poses still follow now even on frozen frames.
	if got, want := w.PlanetAngle(), PlanetRotationAngle(later); got != want {
		t.Errorf("planet angle = %v, want %v", got, want)
	}
}

func TestTickCloudDriftContinuousAcrossMidnight(t *testing.T) {
	cfg := DefaultConfig()
	w := newTestWorld(t, cfg)

	before := time.Date(2024, 6, 1, 23, 59, 59, 900*int(time.Millisecond), time.UTC)
	after := before.Add(200 * time.Millisecond)

	w.Tick(before, 16*time.Millisecond)
	cloudBefore := w.CloudAngle()
	w.Tick(after, 200*time.Millisecond)
	cloudAfter := w.CloudAngle()

	// 200ms of planet rotation plus 200ms of drift, no midnight jump.
	want := 0.2*(2*math.Pi/86400) + 0.2*float64(cfg.Clouds.DriftRate)
	if got := angularDiff(cloudAfter, cloudBefore); math.Abs(got-want) > 1e-6 {
		t.Fatalf("cloud angle stepped %v across midnight, want %v", got, want)
	}
}

func TestTickRepublishesSunUniform(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sun.Mode = SunModeEphemeris
	w := newTestWorld(t, cfg)

	now := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	w.Tick(now, 16*time.Millisecond)

	raw, ok := w.NightShell.Mat.Uniform(shader.UniformSunDirection)
	if !ok {
		t.Fatal("sun direction uniform missing after Tick")
	}
	dir, ok := raw.(math32.Vector3)
	if !ok {
		t.Fatalf("sun direction uniform has type %T", raw)
	}
	if dir != w.SunDirection() {
		t.Errorf("uniform %+v != world sun direction %+v", dir, w.SunDirection())
	}
	if math.Abs(float64(dir.Length())-1) > 1e-5 {
		t.Errorf("sun direction not unit length: %v", dir.Length())
	}
}
