package scene

import (
	"cogentcore.org/core/math32"
)

// OrbitalElement animates one body around the planet. It is a two-node rig:
// an orbit-plane group that the animator spins about +Y, with the craft node
// offset to the orbit radius inside it. Tilting the group tilts the whole
// orbit plane.
type OrbitalElement struct {
	Orbit *Node // orbit-plane group, carries the plane tilt
	Craft *Node // child of Orbit, offset to the orbit radius

	Radius float32
	Speed  float32 // rad/s
	Angle  float64 // current orbit angle, radians, [0, 2pi)
}

// NewOrbitalElement builds the orbit rig under parent. name becomes the
// craft node's name, with "-orbit" appended for the group node.
func NewOrbitalElement(parent *Node, name string, radius, speed float32, tilt math32.Quat) (*OrbitalElement, error) {
	orbit := NewNode(name + "-orbit")
	orbit.SetTiltQuat(tilt)

	craft := NewNode(name)
	craft.SetPos(radius, 0, 0)

	if err := orbit.AddChild(craft); err != nil {
		return nil, err
	}
	if err := parent.AddChild(orbit); err != nil {
		return nil, err
	}
	return &OrbitalElement{Orbit: orbit, Craft: craft, Radius: radius, Speed: speed}, nil
}

// Advance integrates the orbit angle by deltaSeconds and rotates the plane.
// The angle accumulates in float64 and wraps to [0, 2pi), so hours-long
// sessions neither drift nor overflow float32 precision.
func (oe *OrbitalElement) Advance(deltaSeconds float64) {
	if deltaSeconds <= 0 {
		return
	}
	oe.Angle = normalizeAngle(oe.Angle + float64(oe.Speed)*deltaSeconds)
	oe.Orbit.SetAxisRotation(math32.Vec3(0, 1, 0), float32(oe.Angle))
}

// Moon is the planet's companion: an orbit rig plus the moon body. Its
// self-rotation advances at the orbit rate, the usual approximation of tidal
// locking.
type Moon struct {
	Element *OrbitalElement
	Body    *Body

	SpinAngle float64 // radians, tracks Element.Angle
}

// Advance drives the moon one frame.
func (m *Moon) Advance(deltaSeconds float64) {
	if deltaSeconds <= 0 {
		return
	}
	m.Element.Advance(deltaSeconds)
	m.SpinAngle = m.Element.Angle
	m.Element.Craft.SetAxisRotation(math32.Vec3(0, 1, 0), float32(m.SpinAngle))
}
