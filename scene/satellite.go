package scene

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"cogentcore.org/core/math32"
	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/stellarfoundry/orrery/model"
)

// Satellite plane tilt ranges, degrees. Each craft draws its own plane so
// the fleet doesn't bunch into a single ring.
const (
	minInclinationDeg   = 20
	maxInclinationDeg   = 80
	maxSecondaryTiltDeg = 30
)

// Default craft colors.
var (
	defaultBusColor   = math32.Vec3(0.75, 0.78, 0.82)
	defaultPanelColor = math32.Vec3(0.15, 0.22, 0.35)
)

// SatelliteMotion positions a satellite's craft for a frame.
type SatelliteMotion interface {
	Advance(now time.Time, deltaSeconds float64, sat *Satellite)
}

// CircularMotion integrates a stylized circular orbit through the craft's
// orbit rig.
type CircularMotion struct{}

// Advance implements SatelliteMotion.
func (CircularMotion) Advance(_ time.Time, deltaSeconds float64, sat *Satellite) {
	sat.Element.Advance(deltaSeconds)
}

// SGP4Motion propagates a real two-line element set at the frame's UTC time
// and scales the kilometre-range position into scene units. The orbit rig
// stays untilted and unrotated; the craft node is positioned directly.
type SGP4Motion struct {
	sat     satellite.Satellite
	kmScale float32 // scene units per kilometre
}

// NewSGP4Motion parses the TLE and prepares a propagator.
func NewSGP4Motion(line1, line2 string, kmScale float32) *SGP4Motion {
	return &SGP4Motion{
		sat:     satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
		kmScale: kmScale,
	}
}

// Advance implements SatelliteMotion. Decayed elements can propagate to NaN;
// those frames keep the previous position.
func (m *SGP4Motion) Advance(now time.Time, _ float64, sat *Satellite) {
	utc := now.UTC()
	year, month, day := utc.Date()
	hour, min, sec := utc.Clock()

	posECI, _ := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)
	if math.IsNaN(posECI.X) || math.IsNaN(posECI.Y) || math.IsNaN(posECI.Z) {
		return
	}

	// ECI axes to the planet frame: the pole lands on the rig's local +Y,
	// which the planet group tilts with the rest of the scene.
	x := float32(posECI.Y) * m.kmScale
	y := float32(posECI.Z) * m.kmScale
	z := float32(posECI.X) * m.kmScale
	sat.Element.Craft.SetPos(x, y, z)
}

// Satellite is one spacecraft in the fleet: a box bus with two solar panels
// extending along the craft's local X axis, riding an orbit rig.
type Satellite struct {
	Spec    model.SatelliteSpec
	Element *OrbitalElement

	Bus    *Body
	Panels [2]*Body

	// Drawn orbit plane tilts, radians. Zero in TLE mode.
	PlaneInclination float32
	PlaneSecondary   float32

	SpinAngle float64 // self-rotation about the craft's +Y, radians

	motion SatelliteMotion
}

// NewSatellite builds the craft geometry and orbit rig under parent. For
// circular motion the orbit plane draws a random inclination in [20, 80]
// degrees about Z and a secondary tilt in [-30, 30] degrees about X from
// rng. kmScale converts SGP4 kilometres to scene units and is ignored for
// circular craft.
func NewSatellite(parent *Node, spec model.SatelliteSpec, rng *rand.Rand, kmScale float32) (*Satellite, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("satellite spec has no id")
	}
	if spec.BusSize <= 0 {
		spec.BusSize = 0.5
	}

	busColor := defaultBusColor
	if spec.Color != "" {
		parsed, err := ParseHexColor(spec.Color)
		if err != nil {
			return nil, fmt.Errorf("satellite %s: %w", spec.ID, err)
		}
		busColor = parsed
	}

	sat := &Satellite{Spec: spec}

	var tilt math32.Quat
	tilt.SetIdentity()
	switch spec.MotionSource {
	case model.MotionSourceTLE:
		sat.motion = NewSGP4Motion(spec.TLE1, spec.TLE2, kmScale)
	default:
		sat.PlaneInclination = math32.DegToRad(minInclinationDeg + rng.Float32()*(maxInclinationDeg-minInclinationDeg))
		sat.PlaneSecondary = math32.DegToRad((rng.Float32()*2 - 1) * maxSecondaryTiltDeg)
		tilt = math32.NewQuatAxisAngle(math32.Vec3(0, 0, 1), sat.PlaneInclination)
		tilt.SetMul(math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), sat.PlaneSecondary))
		sat.motion = CircularMotion{}
	}

	element, err := NewOrbitalElement(parent, spec.ID, spec.OrbitRadius, spec.AngularSpeed, tilt)
	if err != nil {
		return nil, err
	}
	sat.Element = element

	s := spec.BusSize
	busMat := NewMaterial(busColor)
	busMat.Metalness = 0.8
	busMat.Roughness = 0.35
	sat.Bus = NewMeshBody(spec.ID+"-bus", NewBoxMesh(spec.ID+"-bus", s, s, s), busMat)
	if err := element.Craft.SetBody(sat.Bus); err != nil {
		return nil, err
	}

	panelMat := NewMaterial(defaultPanelColor)
	panelMat.Metalness = 0.4
	panelMat.Roughness = 0.3
	panelMesh := NewBoxMesh(spec.ID+"-panel", 1.8*s, 0.06*s, 0.9*s)
	offsets := [2]float32{1.5 * s, -1.5 * s}
	names := [2]string{spec.ID + "-panel-l", spec.ID + "-panel-r"}
	for i := range sat.Panels {
		node := NewNode(names[i])
		node.SetPos(offsets[i], 0, 0)
		body := NewMeshBody(names[i], panelMesh, panelMat)
		if err := node.SetBody(body); err != nil {
			return nil, err
		}
		if err := element.Craft.AddChild(node); err != nil {
			return nil, err
		}
		sat.Panels[i] = body
	}

	return sat, nil
}

// Advance drives the satellite one frame: orbital motion plus self-spin.
func (s *Satellite) Advance(now time.Time, deltaSeconds float64) {
	if deltaSeconds <= 0 {
		return
	}
	s.motion.Advance(now, deltaSeconds, s)
	if s.Spec.SpinRate != 0 {
		s.SpinAngle = normalizeAngle(s.SpinAngle + float64(s.Spec.SpinRate)*deltaSeconds)
		s.Element.Craft.SetAxisRotation(math32.Vec3(0, 1, 0), float32(s.SpinAngle))
	}
}
