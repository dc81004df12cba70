// Package shader holds the GLSL sources for the scene's custom materials and
// the uniform contracts a renderer must satisfy to run them. The package also
// provides CPU reference implementations of the shading curves so the visual
// behaviour is testable without a GPU.
package shader

import (
	"embed"
	"errors"
	"fmt"
)

//go:embed glsl/*.vert glsl/*.frag
var sources embed.FS

// Program names understood by Load.
const (
	ProgramAtmosphere = "atmosphere"
	ProgramNight      = "night"
)

// Uniform names shared between scene materials and the GLSL sources.
// Matrix uniforms are bound by the renderer from node world matrices and are
// not listed here.
const (
	UniformSunDirection = "sunDirection"
	UniformNightBoost   = "nightBoost"
	UniformNightTexture = "nightTexture"
	UniformGlowColor    = "glowColor"
)

// ErrUnknownProgram is returned by Load for names outside the embedded set.
var ErrUnknownProgram = errors.New("shader: unknown program")

// Uniform describes one uniform a renderer must bind before drawing with a
// program.
type Uniform struct {
	Name string
	Type string // GLSL type, e.g. "vec3", "float", "sampler2D"
}

// Program pairs vertex and fragment sources with the program's uniform
// contract.
type Program struct {
	Name     string
	Vertex   string
	Fragment string
	Uniforms []Uniform
}

var contracts = map[string][]Uniform{
	ProgramAtmosphere: {
		{Name: "projectionMatrix", Type: "mat4"},
		{Name: "modelViewMatrix", Type: "mat4"},
		{Name: "normalMatrix", Type: "mat3"},
		{Name: "glowColor", Type: "vec3"},
	},
	ProgramNight: {
		{Name: "projectionMatrix", Type: "mat4"},
		{Name: "modelViewMatrix", Type: "mat4"},
		{Name: "modelMatrix", Type: "mat4"},
		{Name: "nightTexture", Type: "sampler2D"},
		{Name: "sunDirection", Type: "vec3"},
		{Name: "nightBoost", Type: "float"},
	},
}

// Names lists the available programs in a stable order.
func Names() []string {
	return []string{ProgramAtmosphere, ProgramNight}
}

// Load returns the named program with sources read from the embedded set.
func Load(name string) (Program, error) {
	contract, ok := contracts[name]
	if !ok {
		return Program{}, fmt.Errorf("%w: %s", ErrUnknownProgram, name)
	}

	vert, err := sources.ReadFile("glsl/" + name + ".vert")
	if err != nil {
		return Program{}, fmt.Errorf("read vertex source for %s: %w", name, err)
	}
	frag, err := sources.ReadFile("glsl/" + name + ".frag")
	if err != nil {
		return Program{}, fmt.Errorf("read fragment source for %s: %w", name, err)
	}

	return Program{
		Name:     name,
		Vertex:   string(vert),
		Fragment: string(frag),
		Uniforms: contract,
	}, nil
}
