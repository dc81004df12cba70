// scene/world.go
package scene

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"cogentcore.org/core/math32"

	"github.com/stellarfoundry/orrery/internal/logging"
	"github.com/stellarfoundry/orrery/model"
)

var (
	ErrBodyExists  = errors.New("body already registered")
	ErrRoleUnbound = errors.New("no body bound to texture role")
)

// MetricsRecorder receives scene population counts once assembly settles.
// observability.FrameCollector satisfies it; nil means no recording.
type MetricsRecorder interface {
	SetSceneCounts(bodies, satellites, stars int)
}

// Option configures a World during Assemble.
type Option func(*World)

func WithLogger(log logging.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(w *World) { w.metrics = rec }
}

// World owns the scene graph and all per-frame rotation state. Graph
// mutation happens on the frame goroutine only; the body registry is
// guarded so status surfaces can read it from elsewhere.
type World struct {
	Config Config

	Root        *Node
	PlanetGroup *Node // carries the axial tilt; shells and orbit rigs hang off it

	Surface    *Body
	NightShell *Body
	CloudShell *Body
	Atmosphere *Body
	Moon       *Moon
	Satellites []*Satellite
	Stars      *Body

	Sun    SunModel
	sunDir math32.Vector3

	// Rotation state in radians. Accumulated in float64 and reduced to
	// [0, 2pi) each step so precision holds over long uptimes; float32
	// conversion happens only when a node is posed.
	planetAngle    float64
	nightAngle     float64
	cloudAngle     float64
	starfieldAngle float64

	mu     sync.RWMutex
	bodies map[string]*Body
	order  []string

	log     logging.Logger
	metrics MetricsRecorder
}

func newWorld(cfg Config, opts ...Option) *World {
	w := &World{
		Config: cfg,
		Root:   NewNode("root"),
		bodies: make(map[string]*Body),
		log:    logging.Noop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

//
// ---------- Body registry ----------
//

// register adds b to the name registry. Names are unique across the scene.
func (w *World) register(b *Body) error {
	if b == nil || b.Name == "" {
		return fmt.Errorf("nil or unnamed body")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.bodies[b.Name]; exists {
		return fmt.Errorf("%w: %q", ErrBodyExists, b.Name)
	}
	w.bodies[b.Name] = b
	w.order = append(w.order, b.Name)
	return nil
}

// Body returns the named body, or nil if not found.
func (w *World) Body(name string) *Body {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.bodies[name]
}

// Bodies returns all registered bodies in registration order.
func (w *World) Bodies() []*Body {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Body, 0, len(w.order))
	for _, name := range w.order {
		out = append(out, w.bodies[name])
	}
	return out
}

func (w *World) BodyCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

//
// ---------- Textures ----------
//

// ApplyTexture binds a decoded image to the body that renders the given
// role. Call between frames, never mid-draw.
func (w *World) ApplyTexture(role model.AssetRole, img image.Image) error {
	target := w.bodyForRole(role)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrRoleUnbound, role)
	}
	target.Mat.SetTexture(role, img)
	return nil
}

func (w *World) bodyForRole(role model.AssetRole) *Body {
	switch role {
	case model.AssetRoleSurfaceAlbedo, model.AssetRoleSurfaceNormal, model.AssetRoleSurfaceRoughness:
		return w.Surface
	case model.AssetRoleCloudAlbedo:
		return w.CloudShell
	case model.AssetRoleNightAlbedo:
		return w.NightShell
	case model.AssetRoleMoonAlbedo, model.AssetRoleMoonNormal:
		if w.Moon != nil {
			return w.Moon.Body
		}
	}
	return nil
}

// TexturesResident counts texture images currently bound across all bodies.
func (w *World) TexturesResident() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	n := 0
	for _, b := range w.bodies {
		n += b.Mat.TextureCount()
	}
	return n
}

//
// ---------- Frame state accessors ----------
//

func (w *World) PlanetAngle() float64    { return w.planetAngle }
func (w *World) NightAngle() float64     { return w.nightAngle }
func (w *World) CloudAngle() float64     { return w.cloudAngle }
func (w *World) StarfieldAngle() float64 { return w.starfieldAngle }

// SunDirection returns the unit sun direction from the last Tick.
func (w *World) SunDirection() math32.Vector3 { return w.sunDir }

// StarCount returns the number of points in the starfield body.
func (w *World) StarCount() int {
	if w.Stars == nil || w.Stars.Points == nil {
		return 0
	}
	return w.Stars.Points.Count()
}

func (w *World) publishCounts() {
	if w.metrics == nil {
		return
	}
	w.metrics.SetSceneCounts(w.BodyCount(), len(w.Satellites), w.StarCount())
}

//
// ---------- Snapshots ----------
//

// SatelliteStatus is one craft's entry in a Snapshot.
type SatelliteStatus struct {
	ID   string         `json:"id"`
	Mode string         `json:"mode"`
	Pos  math32.Vector3 `json:"pos"`
}

// Snapshot is a read-only view of the scene for status surfaces. Build it
// on the frame goroutine after world matrices are current; the result is a
// plain value safe to hand to other goroutines.
type Snapshot struct {
	Time         time.Time         `json:"time"`
	UTCHours     float64           `json:"utc_hours"`
	PlanetAngle  float64           `json:"planet_angle"`
	NightAngle   float64           `json:"night_angle"`
	CloudAngle   float64           `json:"cloud_angle"`
	MoonAngle    float64           `json:"moon_angle"`
	SunDirection math32.Vector3    `json:"sun_direction"`
	Bodies       int               `json:"bodies"`
	Stars        int               `json:"stars"`
	Satellites   []SatelliteStatus `json:"satellites"`
}

func (w *World) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Time:         now,
		UTCHours:     UTCHours(now),
		PlanetAngle:  w.planetAngle,
		NightAngle:   w.nightAngle,
		CloudAngle:   w.cloudAngle,
		SunDirection: w.sunDir,
		Bodies:       w.BodyCount(),
		Stars:        w.StarCount(),
	}
	if w.Moon != nil {
		snap.MoonAngle = w.Moon.Element.Angle
	}
	snap.Satellites = make([]SatelliteStatus, 0, len(w.Satellites))
	for _, sat := range w.Satellites {
		snap.Satellites = append(snap.Satellites, SatelliteStatus{
			ID:   sat.Spec.ID,
			Mode: sat.Spec.MotionSource.String(),
			Pos:  sat.Element.Craft.WorldPos(),
		})
	}
	return snap
}
