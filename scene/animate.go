// scene/animate.go
package scene

import (
	"math"
	"time"

	"cogentcore.org/core/math32"

	"github.com/stellarfoundry/orrery/shader"
)

var yAxis = math32.Vec3(0, 1, 0)

// normalizeAngle reduces a to [0, 2pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// UTCHours returns the fractional hour of day for t in UTC, at millisecond
// resolution.
func UTCHours(t time.Time) float64 {
	t = t.UTC()
	h, m, s := t.Clock()
	ms := t.Nanosecond() / int(time.Millisecond)
	return float64(h) + float64(m)/60 + float64(s)/3600 + float64(ms)/3600000
}

// PlanetRotationAngle maps wall-clock UTC onto one full revolution per day.
// A pure function of t: the planet's pose is always derived, never
// integrated, so it cannot drift and reconverges instantly after a stall.
func PlanetRotationAngle(t time.Time) float64 {
	return UTCHours(t) / 24 * (2 * math.Pi)
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

// Tick advances the scene to the given wall-clock instant.
//
// Poses that are pure functions of time (planet, night shell, clouds, sun
// direction) are recomputed every call, whatever the delta. Integrated
// state (moon and satellite orbits, craft spin, starfield drift) only
// advances when delta is positive, so a zero or negative delta leaves it
// untouched. The night shell always receives exactly the planet's angle;
// city lights must stay pinned to the continents beneath them.
func (w *World) Tick(now time.Time, delta time.Duration) {
	w.planetAngle = PlanetRotationAngle(now)
	w.nightAngle = w.planetAngle
	w.cloudAngle = normalizeAngle(w.planetAngle + epochSeconds(now)*float64(w.Config.Clouds.DriftRate))

	if dt := delta.Seconds(); dt > 0 {
		w.starfieldAngle = normalizeAngle(w.starfieldAngle + dt*float64(w.Config.Starfield.SpinRate))
		w.Moon.Advance(dt)
		for _, sat := range w.Satellites {
			sat.Advance(now, dt)
		}
	}

	w.Surface.Node().SetAxisRotation(yAxis, float32(w.planetAngle))
	w.NightShell.Node().SetAxisRotation(yAxis, float32(w.nightAngle))
	w.CloudShell.Node().SetAxisRotation(yAxis, float32(w.cloudAngle))
	w.Stars.Node().SetAxisRotation(yAxis, float32(w.starfieldAngle))

	w.sunDir = w.Sun.Direction(now)
	w.NightShell.Mat.SetUniform(shader.UniformSunDirection, w.sunDir)

	w.Root.UpdateWorldMatrix(nil)
}
