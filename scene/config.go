// scene/config.go
package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/stellarfoundry/orrery/model"
	"github.com/stellarfoundry/orrery/shader"
	"github.com/stellarfoundry/orrery/starfield"
)

// Sun model selection.
const (
	SunModeFixed     = "fixed"
	SunModeEphemeris = "ephemeris"
)

// earthRadiusKm converts SGP4 kilometre positions into scene units via
// PlanetRadius / earthRadiusKm.
const earthRadiusKm = 6371.0

// Config describes a complete scene. Zero values are not meaningful; start
// from DefaultConfig or LoadConfig.
type Config struct {
	AssetDir string

	Planet     PlanetConfig
	Clouds     CloudsConfig
	Night      NightConfig
	Atmosphere AtmosphereConfig
	Moon       MoonConfig
	Starfield  StarfieldConfig
	Sun        SunConfig
	Satellites []model.SatelliteSpec
}

type PlanetConfig struct {
	Radius       float32
	AxialTiltDeg float32
}

type CloudsConfig struct {
	Offset    float32 // shell radius = planet radius + offset
	DriftRate float32 // rad/s added on top of the planet angle
}

type NightConfig struct {
	Offset float32 // shell radius = planet radius + offset, below the clouds
	Boost  float32 // brightness multiplier for the lights texture
}

type AtmosphereConfig struct {
	Scale     float32 // shell radius = planet radius * scale
	GlowColor math32.Vector3
}

type MoonConfig struct {
	Radius       float32
	OrbitRadius  float32
	OrbitSpeed   float32 // rad/s
	OrbitTiltDeg float32
}

type StarfieldConfig struct {
	Count    int
	SpinRate float32 // rad/s, slow whole-field rotation
	Seed     int64   // 0 means seed from the clock
}

type SunConfig struct {
	Mode     string // SunModeFixed | SunModeEphemeris
	Position math32.Vector3
}

// DefaultConfig returns the stock scene.
func DefaultConfig() Config {
	return Config{
		AssetDir: "assets",
		Planet:   PlanetConfig{Radius: 10, AxialTiltDeg: 23.44},
		Clouds:   CloudsConfig{Offset: 0.15, DriftRate: 0.0018},
		Night:    NightConfig{Offset: 0.05, Boost: shader.NightBoost},
		Atmosphere: AtmosphereConfig{
			Scale:     1.15,
			GlowColor: math32.Vec3(0.3, 0.58, 1),
		},
		Moon: MoonConfig{Radius: 2.7, OrbitRadius: 30, OrbitSpeed: 0.0085, OrbitTiltDeg: 5.1},
		Starfield: StarfieldConfig{
			Count:    starfield.DefaultCount,
			SpinRate: 0.00035,
		},
		Sun:        SunConfig{Mode: SunModeFixed, Position: math32.Vec3(50, 20, 30)},
		Satellites: DefaultSatellites(),
	}
}

// DefaultSatellites returns the stock three-craft fleet.
func DefaultSatellites() []model.SatelliteSpec {
	return []model.SatelliteSpec{
		{ID: "relay-1", MotionSource: model.MotionSourceCircular, OrbitRadius: 14, AngularSpeed: 0.32, SpinRate: 0.8, BusSize: 0.5},
		{ID: "relay-2", MotionSource: model.MotionSourceCircular, OrbitRadius: 17, AngularSpeed: 0.24, SpinRate: 0.6, BusSize: 0.5, Color: "#c8a46a"},
		{ID: "survey-3", MotionSource: model.MotionSourceCircular, OrbitRadius: 21, AngularSpeed: 0.18, SpinRate: 0.45, BusSize: 0.6, Color: "#7fa8c9"},
	}
}

// KmScale returns the scene-units-per-kilometre factor for SGP4 craft.
func (c Config) KmScale() float32 {
	return c.Planet.Radius / earthRadiusKm
}

// internal JSON shapes - kept unexported so the file format can evolve
// independently of the Config API. Pointer fields distinguish "absent" from
// a meaningful zero.
type sceneConfigJSON struct {
	AssetDir   string          `json:"asset_dir"`
	Planet     *planetJSON     `json:"planet"`
	Clouds     *cloudsJSON     `json:"clouds"`
	Night      *nightJSON      `json:"night"`
	Atmosphere *atmosphereJSON `json:"atmosphere"`
	Moon       *moonJSON       `json:"moon"`
	Starfield  *starfieldJSON  `json:"starfield"`
	Sun        *sunJSON        `json:"sun"`
	Satellites []satelliteJSON `json:"satellites"`
}

type planetJSON struct {
	Radius       float32  `json:"radius"`
	AxialTiltDeg *float32 `json:"axial_tilt_deg"`
}

type cloudsJSON struct {
	Offset    float32  `json:"offset"`
	DriftRate *float32 `json:"drift_rate"`
}

type nightJSON struct {
	Offset float32  `json:"offset"`
	Boost  *float32 `json:"boost"`
}

type atmosphereJSON struct {
	Scale     float32 `json:"scale"`
	GlowColor string  `json:"glow_color"`
}

type moonJSON struct {
	Radius       float32  `json:"radius"`
	OrbitRadius  float32  `json:"orbit_radius"`
	OrbitSpeed   float32  `json:"orbit_speed"`
	OrbitTiltDeg *float32 `json:"orbit_tilt_deg"`
}

type starfieldJSON struct {
	Count    int      `json:"count"`
	SpinRate *float32 `json:"spin_rate"`
	Seed     int64    `json:"seed"`
}

type sunJSON struct {
	Mode     string      `json:"mode"`
	Position *[3]float32 `json:"position"`
}

type satelliteJSON struct {
	ID           string  `json:"id"`
	Motion       string  `json:"motion"` // "circular" (default) | "tle"
	OrbitRadius  float32 `json:"orbit_radius"`
	AngularSpeed float32 `json:"angular_speed"`
	SpinRate     float32 `json:"spin_rate"`
	BusSize      float32 `json:"bus_size"`
	Color        string  `json:"color"`
	TLE1         string  `json:"tle1"`
	TLE2         string  `json:"tle2"`
}

// LoadConfig reads a JSON scene description from r and merges it over
// DefaultConfig. It fails on JSON and structural errors (malformed colors,
// satellites without ids, TLE craft without element lines); fields left out
// of the file keep their defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	var payload sceneConfigJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return Config{}, fmt.Errorf("LoadConfig: decode failed: %w", err)
	}

	if payload.AssetDir != "" {
		cfg.AssetDir = payload.AssetDir
	}
	if p := payload.Planet; p != nil {
		if p.Radius > 0 {
			cfg.Planet.Radius = p.Radius
		}
		if p.AxialTiltDeg != nil {
			cfg.Planet.AxialTiltDeg = *p.AxialTiltDeg
		}
	}
	if c := payload.Clouds; c != nil {
		if c.Offset > 0 {
			cfg.Clouds.Offset = c.Offset
		}
		if c.DriftRate != nil {
			cfg.Clouds.DriftRate = *c.DriftRate
		}
	}
	if n := payload.Night; n != nil {
		if n.Offset > 0 {
			cfg.Night.Offset = n.Offset
		}
		if n.Boost != nil {
			cfg.Night.Boost = *n.Boost
		}
	}
	if a := payload.Atmosphere; a != nil {
		if a.Scale > 1 {
			cfg.Atmosphere.Scale = a.Scale
		}
		if a.GlowColor != "" {
			color, err := ParseHexColor(a.GlowColor)
			if err != nil {
				return Config{}, fmt.Errorf("LoadConfig: atmosphere: %w", err)
			}
			cfg.Atmosphere.GlowColor = color
		}
	}
	if m := payload.Moon; m != nil {
		if m.Radius > 0 {
			cfg.Moon.Radius = m.Radius
		}
		if m.OrbitRadius > 0 {
			cfg.Moon.OrbitRadius = m.OrbitRadius
		}
		if m.OrbitSpeed > 0 {
			cfg.Moon.OrbitSpeed = m.OrbitSpeed
		}
		if m.OrbitTiltDeg != nil {
			cfg.Moon.OrbitTiltDeg = *m.OrbitTiltDeg
		}
	}
	if s := payload.Starfield; s != nil {
		if s.Count > 0 {
			cfg.Starfield.Count = s.Count
		}
		if s.SpinRate != nil {
			cfg.Starfield.SpinRate = *s.SpinRate
		}
		cfg.Starfield.Seed = s.Seed
	}
	if s := payload.Sun; s != nil {
		mode, err := sunModeFromString(s.Mode)
		if err != nil {
			return Config{}, fmt.Errorf("LoadConfig: %w", err)
		}
		cfg.Sun.Mode = mode
		if s.Position != nil {
			cfg.Sun.Position = math32.Vec3(s.Position[0], s.Position[1], s.Position[2])
		}
	}

	if payload.Satellites != nil {
		specs := make([]model.SatelliteSpec, 0, len(payload.Satellites))
		for i, js := range payload.Satellites {
			spec, err := satelliteSpecFromJSON(js)
			if err != nil {
				return Config{}, fmt.Errorf("LoadConfig: satellite %d: %w", i, err)
			}
			specs = append(specs, spec)
		}
		cfg.Satellites = specs
	}

	return cfg, nil
}

func satelliteSpecFromJSON(js satelliteJSON) (model.SatelliteSpec, error) {
	if js.ID == "" {
		return model.SatelliteSpec{}, fmt.Errorf("empty id")
	}

	spec := model.SatelliteSpec{
		ID:           js.ID,
		OrbitRadius:  js.OrbitRadius,
		AngularSpeed: js.AngularSpeed,
		SpinRate:     js.SpinRate,
		BusSize:      js.BusSize,
		Color:        js.Color,
		MotionSource: motionFromString(js.Motion),
		TLE1:         strings.TrimSpace(js.TLE1),
		TLE2:         strings.TrimSpace(js.TLE2),
	}

	switch spec.MotionSource {
	case model.MotionSourceTLE:
		if !strings.HasPrefix(spec.TLE1, "1 ") || !strings.HasPrefix(spec.TLE2, "2 ") {
			return model.SatelliteSpec{}, fmt.Errorf("%s: tle craft needs element lines starting \"1 \" and \"2 \"", js.ID)
		}
	default:
		if spec.OrbitRadius <= 0 {
			return model.SatelliteSpec{}, fmt.Errorf("%s: orbit_radius must be positive", js.ID)
		}
	}
	return spec, nil
}

// motionFromString maps the JSON "motion" string to a MotionSource. Kept
// tolerant: unknown and empty values mean circular, the stylized default.
func motionFromString(s string) model.MotionSource {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tle", "sgp4":
		return model.MotionSourceTLE
	default:
		return model.MotionSourceCircular
	}
}

func sunModeFromString(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", SunModeFixed:
		return SunModeFixed, nil
	case SunModeEphemeris:
		return SunModeEphemeris, nil
	default:
		return "", fmt.Errorf("unknown sun mode %q", s)
	}
}
