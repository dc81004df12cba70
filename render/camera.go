// render/camera.go
package render

import (
	"math"
	"time"

	"cogentcore.org/core/math32"
)

// CameraRig poses the viewpoint each frame.
type CameraRig interface {
	Advance(now time.Time, delta time.Duration)
	SetAspect(aspect float32)
}

// NopRig holds the camera still.
type NopRig struct{}

func (NopRig) Advance(time.Time, time.Duration) {}
func (NopRig) SetAspect(float32)                {}

// OrbitRig circles the camera slowly around the scene origin, the idle
// presentation drift. The look target stays pinned to the origin.
type OrbitRig struct {
	Distance float32
	Height   float32
	Rate     float32 // rad/s, negative reverses direction

	angle  float64
	aspect float32
	pos    math32.Vector3
}

// NewOrbitRig starts the camera on the +Z side of the planet.
func NewOrbitRig(distance, height, rate float32) *OrbitRig {
	r := &OrbitRig{Distance: distance, Height: height, Rate: rate, aspect: 16.0 / 9.0}
	r.angle = math.Pi / 2
	r.place()
	return r
}

// Advance implements CameraRig. Zero and negative deltas hold position.
func (r *OrbitRig) Advance(_ time.Time, delta time.Duration) {
	dt := delta.Seconds()
	if dt <= 0 {
		return
	}
	r.angle = math.Mod(r.angle+float64(r.Rate)*dt, 2*math.Pi)
	r.place()
}

func (r *OrbitRig) place() {
	r.pos = math32.Vec3(
		r.Distance*math32.Cos(float32(r.angle)),
		r.Height,
		r.Distance*math32.Sin(float32(r.angle)),
	)
}

// SetAspect implements CameraRig.
func (r *OrbitRig) SetAspect(aspect float32) {
	if aspect > 0 {
		r.aspect = aspect
	}
}

// Position returns the camera's current world position.
func (r *OrbitRig) Position() math32.Vector3 { return r.pos }

// Aspect returns the current aspect ratio.
func (r *OrbitRig) Aspect() float32 { return r.aspect }
