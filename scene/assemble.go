// scene/assemble.go
package scene

import (
	"context"
	"math/rand"
	"time"

	"cogentcore.org/core/math32"

	"github.com/stellarfoundry/orrery/internal/logging"
	"github.com/stellarfoundry/orrery/shader"
	"github.com/stellarfoundry/orrery/starfield"
)

// Sphere tessellation. The planet and its shells share one resolution so
// their silhouettes stay co-registered; the moon gets by with less.
const (
	planetWidthSegs  = 64
	planetHeightSegs = 48
	moonWidthSegs    = 48
	moonHeightSegs   = 32
)

// Assemble builds the scene graph described by cfg: tilted planet with
// night, cloud and atmosphere shells, the moon rig, the satellite fleet
// and the starfield. The rng seeds satellite plane tilts and star
// placement; nil means seed from cfg.Starfield.Seed or the clock.
func Assemble(ctx context.Context, cfg Config, rng *rand.Rand, opts ...Option) (*World, error) {
	w := newWorld(cfg, opts...)

	if rng == nil {
		seed := cfg.Starfield.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	if err := w.assemblePlanet(); err != nil {
		return nil, err
	}
	if err := w.assembleMoon(); err != nil {
		return nil, err
	}
	if err := w.assembleSatellites(ctx, rng); err != nil {
		return nil, err
	}
	if err := w.assembleStarfield(rng); err != nil {
		return nil, err
	}
	w.assembleSun()

	w.Root.UpdateWorldMatrix(nil)
	w.publishCounts()

	w.log.Info(ctx, "scene assembled",
		logging.Int("bodies", w.BodyCount()),
		logging.Int("satellites", len(w.Satellites)),
		logging.Int("stars", w.StarCount()),
		logging.String("sun_mode", cfg.Sun.Mode),
	)
	return w, nil
}

// attach parents a fresh node under parent, binds body to it and registers
// the body by name.
func (w *World) attach(parent *Node, b *Body) (*Node, error) {
	n := NewNode(b.Name)
	if err := n.SetBody(b); err != nil {
		return nil, err
	}
	if err := parent.AddChild(n); err != nil {
		return nil, err
	}
	if err := w.register(b); err != nil {
		return nil, err
	}
	return n, nil
}

func (w *World) assemblePlanet() error {
	cfg := w.Config

	// The group carries the axial tilt; the shells hang off it and spin
	// about the group's local Y so tilt and rotation compose correctly.
	w.PlanetGroup = NewNode("planet-group")
	w.PlanetGroup.SetTilt(math32.Vec3(0, 0, 1), math32.DegToRad(cfg.Planet.AxialTiltDeg))
	if err := w.Root.AddChild(w.PlanetGroup); err != nil {
		return err
	}

	surfMat := NewMaterial(math32.Vec3(1, 1, 1))
	surfMat.Roughness = 0.85
	surface := NewMeshBody("planet",
		NewSphereMesh("planet", cfg.Planet.Radius, planetWidthSegs, planetHeightSegs), surfMat)
	if _, err := w.attach(w.PlanetGroup, surface); err != nil {
		return err
	}
	w.Surface = surface

	// Night lights ride a shell just above the surface and below the
	// clouds. Additive and depth-read-only so they brighten the dark
	// side without occluding anything.
	nightMat := NewMaterial(math32.Vec3(1, 1, 1))
	nightMat.Blend = BlendAdditive
	nightMat.NoDepthWrite = true
	nightMat.ShaderProgram = shader.ProgramNight
	nightMat.SetUniform(shader.UniformNightBoost, cfg.Night.Boost)
	night := NewMeshBody("night-shell",
		NewSphereMesh("night-shell", cfg.Planet.Radius+cfg.Night.Offset, planetWidthSegs, planetHeightSegs), nightMat)
	if _, err := w.attach(w.PlanetGroup, night); err != nil {
		return err
	}
	w.NightShell = night

	cloudMat := NewMaterial(math32.Vec3(1, 1, 1))
	cloudMat.Blend = BlendAlpha
	cloudMat.Opacity = 0.8
	clouds := NewMeshBody("cloud-shell",
		NewSphereMesh("cloud-shell", cfg.Planet.Radius+cfg.Clouds.Offset, planetWidthSegs, planetHeightSegs), cloudMat)
	if _, err := w.attach(w.PlanetGroup, clouds); err != nil {
		return err
	}
	w.CloudShell = clouds

	// Atmosphere renders back faces only, so the rim glow appears around
	// the limb instead of washing over the disc.
	atmoMat := NewMaterial(cfg.Atmosphere.GlowColor)
	atmoMat.Blend = BlendAdditive
	atmoMat.NoDepthWrite = true
	atmoMat.Side = BackSide
	atmoMat.ShaderProgram = shader.ProgramAtmosphere
	atmoMat.SetUniform(shader.UniformGlowColor, cfg.Atmosphere.GlowColor)
	atmo := NewMeshBody("atmosphere",
		NewSphereMesh("atmosphere", cfg.Planet.Radius*cfg.Atmosphere.Scale, planetWidthSegs, planetHeightSegs), atmoMat)
	if _, err := w.attach(w.PlanetGroup, atmo); err != nil {
		return err
	}
	w.Atmosphere = atmo

	return nil
}

// assembleMoon hangs the moon rig off the planet group. The group carries
// only the fixed axial tilt, never the diurnal spin, so the orbit plane
// shares the planet's tilted axis and the moon's own tilt composes on top.
func (w *World) assembleMoon() error {
	cfg := w.Config.Moon

	tilt := math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), math32.DegToRad(cfg.OrbitTiltDeg))
	elem, err := NewOrbitalElement(w.PlanetGroup, "moon", cfg.OrbitRadius, cfg.OrbitSpeed, tilt)
	if err != nil {
		return err
	}

	mat := NewMaterial(math32.Vec3(0.75, 0.74, 0.72))
	mat.Roughness = 0.95
	body := NewMeshBody("moon", NewSphereMesh("moon", cfg.Radius, moonWidthSegs, moonHeightSegs), mat)
	if err := elem.Craft.SetBody(body); err != nil {
		return err
	}
	if err := w.register(body); err != nil {
		return err
	}

	w.Moon = &Moon{Element: elem, Body: body}
	return nil
}

func (w *World) assembleSatellites(ctx context.Context, rng *rand.Rand) error {
	kmScale := w.Config.KmScale()
	seen := make(map[string]bool, len(w.Config.Satellites))

	for _, spec := range w.Config.Satellites {
		if seen[spec.ID] {
			w.log.Warn(ctx, "skipping satellite with duplicate id", logging.String("id", spec.ID))
			continue
		}
		sat, err := NewSatellite(w.PlanetGroup, spec, rng, kmScale)
		if err != nil {
			w.log.Warn(ctx, "skipping satellite", logging.String("id", spec.ID), logging.Err(err))
			continue
		}
		seen[spec.ID] = true

		if err := w.register(sat.Bus); err != nil {
			return err
		}
		for _, panel := range sat.Panels {
			if err := w.register(panel); err != nil {
				return err
			}
		}
		w.Satellites = append(w.Satellites, sat)
	}
	return nil
}

func (w *World) assembleStarfield(rng *rand.Rand) error {
	sfCfg := starfield.DefaultConfig()
	sfCfg.Count = w.Config.Starfield.Count

	stars, err := starfield.Generate(rng, sfCfg)
	if err != nil {
		return err
	}

	// Screen-space point sizes keep faint stars visible at any distance.
	mat := NewMaterial(math32.Vec3(1, 1, 1))
	mat.VertexColors = true
	mat.SizeAttenuation = false
	body := NewPointsBody("starfield", NewStarCloud("starfield", stars), mat)
	if _, err := w.attach(w.Root, body); err != nil {
		return err
	}
	w.Stars = body
	return nil
}

func (w *World) assembleSun() {
	switch w.Config.Sun.Mode {
	case SunModeEphemeris:
		w.Sun = EphemerisSun{}
	default:
		w.Sun = FixedSun{Pos: w.Config.Sun.Position}
	}

	// Seed the uniform so the night shader never sees a zero vector;
	// Tick refreshes it every frame after this.
	w.sunDir = w.Sun.Direction(time.Now())
	w.NightShell.Mat.SetUniform(shader.UniformSunDirection, w.sunDir)
}
