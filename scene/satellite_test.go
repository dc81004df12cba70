// scene/satellite_test.go
package scene

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"cogentcore.org/core/math32"

	"github.com/stellarfoundry/orrery/model"
)

// Well-worn SGP4 reference elements for the ISS, epoch 2008-09-20.
const (
	issTLE1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issTLE2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

func circularSpec(id string) model.SatelliteSpec {
	return model.SatelliteSpec{
		ID:           id,
		MotionSource: model.MotionSourceCircular,
		OrbitRadius:  14,
		AngularSpeed: 0.32,
		SpinRate:     0.8,
	}
}

func TestNewSatelliteRequiresID(t *testing.T) {
	_, err := NewSatellite(NewNode("root"), model.SatelliteSpec{}, rand.New(rand.NewSource(1)), 1)
	if err == nil {
		t.Fatal("NewSatellite accepted a spec without an id")
	}
}

func TestNewSatelliteRejectsBadColor(t *testing.T) {
	spec := circularSpec("x")
	spec.Color = "magenta"
	_, err := NewSatellite(NewNode("root"), spec, rand.New(rand.NewSource(1)), 1)
	if err == nil {
		t.Fatal("NewSatellite accepted a malformed color")
	}
}

func TestNewSatelliteGeometry(t *testing.T) {
	spec := circularSpec("relay-1")
	spec.BusSize = 0.6
	sat, err := NewSatellite(NewNode("root"), spec, rand.New(rand.NewSource(1)), 1)
	if err != nil {
		t.Fatalf("NewSatellite failed: %v", err)
	}

	if sat.Bus == nil || sat.Panels[0] == nil || sat.Panels[1] == nil {
		t.Fatal("craft geometry incomplete")
	}
	if sat.Bus.Node() != sat.Element.Craft {
		t.Error("bus not bound to the craft node")
	}

	// Panels sit at +/-1.5 bus sizes along the craft's X.
	left, right := sat.Panels[0].Node().Pos(), sat.Panels[1].Node().Pos()
	if left.X != 1.5*spec.BusSize || right.X != -1.5*spec.BusSize {
		t.Errorf("panel offsets = %v, %v, want +/-%v", left.X, right.X, 1.5*spec.BusSize)
	}
	if sat.Panels[0].Mesh != sat.Panels[1].Mesh {
		t.Error("panels should share one mesh")
	}
}

func TestNewSatelliteDefaultsBusSize(t *testing.T) {
	spec := circularSpec("relay-1")
	spec.BusSize = 0
	sat, err := NewSatellite(NewNode("root"), spec, rand.New(rand.NewSource(1)), 1)
	if err != nil {
		t.Fatalf("NewSatellite failed: %v", err)
	}
	if sat.Spec.BusSize != 0.5 {
		t.Fatalf("BusSize = %v, want default 0.5", sat.Spec.BusSize)
	}
}

func TestNewSatelliteDrawsPlaneTiltsInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	root := NewNode("root")

	minIncl := float32(math32.DegToRad(minInclinationDeg))
	maxIncl := float32(math32.DegToRad(maxInclinationDeg))
	maxSec := float32(math32.DegToRad(maxSecondaryTiltDeg))

	var loIncl, hiIncl float32 = math.MaxFloat32, -math.MaxFloat32
	for i := 0; i < 50; i++ {
		sat, err := NewSatellite(root, circularSpec(fmt.Sprintf("craft-%d", i)), rng, 1)
		if err != nil {
			t.Fatalf("NewSatellite failed: %v", err)
		}
		if sat.PlaneInclination < minIncl || sat.PlaneInclination > maxIncl {
			t.Fatalf("inclination %v outside [%v, %v]", sat.PlaneInclination, minIncl, maxIncl)
		}
		if sat.PlaneSecondary < -maxSec || sat.PlaneSecondary > maxSec {
			t.Fatalf("secondary tilt %v outside +/-%v", sat.PlaneSecondary, maxSec)
		}
		if sat.PlaneInclination < loIncl {
			loIncl = sat.PlaneInclination
		}
		if sat.PlaneInclination > hiIncl {
			hiIncl = sat.PlaneInclination
		}
	}

	// 50 draws should cover a decent share of the range.
	if hiIncl-loIncl < (maxIncl-minIncl)/4 {
		t.Errorf("inclination draws clustered: [%v, %v]", loIncl, hiIncl)
	}
}

func TestSatelliteSpinAccumulates(t *testing.T) {
	sat, err := NewSatellite(NewNode("root"), circularSpec("relay-1"), rand.New(rand.NewSource(1)), 1)
	if err != nil {
		t.Fatalf("NewSatellite failed: %v", err)
	}

	now := time.Now()
	sat.Advance(now, 0.25)
	sat.Advance(now, 0.75)

	want := normalizeAngle(float64(sat.Spec.SpinRate) * 1.0)
	if math.Abs(sat.SpinAngle-want) > 1e-9 {
		t.Fatalf("SpinAngle = %v, want %v", sat.SpinAngle, want)
	}

	before := sat.SpinAngle
	sat.Advance(now, 0)
	sat.Advance(now, -1)
	if sat.SpinAngle != before {
		t.Fatal("spin moved on non-positive delta")
	}
}

func TestNewSatelliteTLEPropagates(t *testing.T) {
	const kmScale = float32(10.0 / 6371.0)
	spec := model.SatelliteSpec{
		ID:           "iss",
		MotionSource: model.MotionSourceTLE,
		TLE1:         issTLE1,
		TLE2:         issTLE2,
	}
	root := NewNode("root")
	sat, err := NewSatellite(root, spec, rand.New(rand.NewSource(1)), kmScale)
	if err != nil {
		t.Fatalf("NewSatellite failed: %v", err)
	}

	if sat.PlaneInclination != 0 || sat.PlaneSecondary != 0 {
		t.Errorf("TLE craft drew plane tilts: %v, %v", sat.PlaneInclination, sat.PlaneSecondary)
	}

	// Near the element epoch the ISS sits a few hundred kilometres up,
	// which scales to just above the planet's surface.
	at := time.Date(2008, 9, 20, 12, 25, 40, 0, time.UTC)
	sat.Advance(at, 0.016)
	root.UpdateWorldMatrix(nil)

	r := float64(sat.Element.Craft.WorldPos().Length())
	if r < 10.2 || r > 11.5 {
		t.Fatalf("ISS at radius %v scene units, want roughly 10.5", r)
	}

	// A quarter orbit later the craft has moved a planet radius or more.
	first := sat.Element.Craft.WorldPos()
	sat.Advance(at.Add(23*time.Minute), 0.016)
	root.UpdateWorldMatrix(nil)
	if moved := sat.Element.Craft.WorldPos().Sub(first).Length(); moved < 10 {
		t.Errorf("craft moved only %v scene units in a quarter orbit", moved)
	}
}
