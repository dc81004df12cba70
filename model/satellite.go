package model

// MotionSource indicates how a satellite's position is determined each frame.
type MotionSource int

const (
	MotionSourceUnknown  MotionSource = iota
	MotionSourceCircular              // stylized circular orbit, angle integrated per frame
	MotionSourceTLE                   // SGP4 propagation from a two-line element set
)

func (s MotionSource) String() string {
	switch s {
	case MotionSourceCircular:
		return "circular"
	case MotionSourceTLE:
		return "tle"
	default:
		return "unknown"
	}
}

// SatelliteSpec describes one spacecraft to place in the scene.
//
// For MotionSourceCircular the orbit is a circle of OrbitRadius scene units
// traversed at AngularSpeed rad/s in a randomly tilted plane. For
// MotionSourceTLE the position comes from propagating TLE1/TLE2 at the
// current wall-clock time and OrbitRadius/AngularSpeed are ignored.
type SatelliteSpec struct {
	ID           string
	OrbitRadius  float32
	AngularSpeed float32 // rad/s
	SpinRate     float32 // rad/s about the craft's own axis
	BusSize      float32 // edge length of the central bus cube
	Color        string  // hex RGB, e.g. "#c0c8d0"; empty means default

	MotionSource MotionSource
	TLE1, TLE2   string // required when MotionSourceTLE
}
