package scene

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
)

// SunModel supplies the world-space sun direction for a frame: a unit vector
// pointing from the scene origin toward the sun. The night shader keys off
// its dot product with surface normals, and the animator republishes it as a
// uniform every frame.
type SunModel interface {
	Direction(now time.Time) math32.Vector3
}

// FixedSun pins the sun to the scene's directional light position. This is
// the stock model: the terminator still sweeps the globe because the planet
// itself rotates with the wall clock.
type FixedSun struct {
	Pos math32.Vector3
}

// Direction implements SunModel.
func (s FixedSun) Direction(time.Time) math32.Vector3 {
	if s.Pos == (math32.Vector3{}) {
		return math32.Vec3(1, 0, 0)
	}
	return s.Pos.Normal()
}

// EphemerisSun derives the direction from the solar ephemeris at the frame's
// UTC time: apparent right ascension and declination reduced to a unit
// vector in equatorial coordinates, then remapped to the scene's Y-up axes.
// The scene frame is inertial and diurnal rotation lives on the planet node,
// so no sidereal rotation is applied here.
type EphemerisSun struct{}

// Direction implements SunModel.
func (EphemerisSun) Direction(now time.Time) math32.Vector3 {
	jd := julian.TimeToJD(now.UTC())
	ra, dec := solar.ApparentEquatorial(jd)

	x := dec.Cos() * ra.Cos()
	y := dec.Cos() * ra.Sin()
	z := dec.Sin()

	// Equatorial axes to scene axes: scene +Y is the celestial pole.
	return math32.Vec3(float32(y), float32(z), float32(x)).Normal()
}
