// Package starfield generates the procedural star catalog that backs the
// scene. Stars live on a thick spherical shell far outside every orbit, so
// the camera can swing freely without parallax artifacts.
package starfield

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"cogentcore.org/core/math32"

	"github.com/stellarfoundry/orrery/model"
)

const (
	DefaultCount          = 6000
	DefaultInnerRadius    = 200
	DefaultShellThickness = 100

	// Point sprite diameters in pixels.
	MinPointSize = 0.3
	MaxPointSize = 1.0

	warmThreshold = 0.15
	coolThreshold = 0.30
)

// Star tint palette. Warm and cool tints break up the white field without
// reading as colored noise.
var (
	WarmColor  = math32.Vec3(1, 0.85, 0.7)
	CoolColor  = math32.Vec3(0.7, 0.85, 1)
	WhiteColor = math32.Vec3(1, 1, 1)
)

var (
	ErrInvalidCount = errors.New("starfield: star count must be positive")
	ErrInvalidShell = errors.New("starfield: shell radii must be positive")
)

// Config bounds the generated shell.
type Config struct {
	Count          int
	InnerRadius    float32
	ShellThickness float32
}

// DefaultConfig returns the stock shell: 6000 stars between radius 200 and
// 300.
func DefaultConfig() Config {
	return Config{
		Count:          DefaultCount,
		InnerRadius:    DefaultInnerRadius,
		ShellThickness: DefaultShellThickness,
	}
}

func (c Config) validate() error {
	if c.Count <= 0 {
		return ErrInvalidCount
	}
	if c.InnerRadius <= 0 || c.ShellThickness <= 0 {
		return ErrInvalidShell
	}
	return nil
}

// Generate produces the star catalog. Positions are uniform over direction
// (inverse-transform sampling of the polar angle, so the poles are not
// overdense) and uniform in radius across the shell. A nil rng falls back to
// a time-seeded source; pass a seeded rng for reproducible fields.
func Generate(rng *rand.Rand, cfg Config) ([]model.Star, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	stars := make([]model.Star, cfg.Count)
	for i := range stars {
		stars[i] = generateOne(rng, cfg)
	}
	return stars, nil
}

func generateOne(rng *rand.Rand, cfg Config) model.Star {
	u := rng.Float64()
	v := rng.Float64()
	theta := math.Acos(2*u - 1) // polar angle from +Y, uniform over the sphere
	phi := 2 * math.Pi * v
	r := float64(cfg.InnerRadius) + rng.Float64()*float64(cfg.ShellThickness)

	sinTheta := math.Sin(theta)
	pos := math32.Vec3(
		float32(r*sinTheta*math.Cos(phi)),
		float32(r*math.Cos(theta)),
		float32(r*sinTheta*math.Sin(phi)),
	)

	size := MinPointSize + rng.Float32()*(MaxPointSize-MinPointSize)

	// Both thresholds test the same draw, so cool stars occupy [0.15, 0.3)
	// and the split is 15% warm, 15% cool, 70% white.
	tint := rng.Float64()
	var color math32.Vector3
	switch {
	case tint < warmThreshold:
		color = WarmColor
	case tint < coolThreshold:
		color = CoolColor
	default:
		color = WhiteColor
	}

	return model.Star{Pos: pos, Size: size, Color: color}
}
