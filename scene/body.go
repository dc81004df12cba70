package scene

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/stellarfoundry/orrery/model"
)

// BlendMode selects how a body composites over what is already drawn.
type BlendMode int

const (
	BlendOpaque BlendMode = iota
	BlendAlpha
	BlendAdditive
)

// Side selects which triangle faces the renderer draws.
type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// Material carries everything a renderer needs to shade a body. The zero
// value is an opaque, depth-writing, front-side material; glow layers opt in
// to additive blending with NoDepthWrite so they stack without sorting
// artifacts.
type Material struct {
	Color     math32.Vector3 // base RGB, 0..1
	Opacity   float32
	Metalness float32
	Roughness float32

	Blend        BlendMode
	Side         Side
	NoDepthWrite bool

	// VertexColors and SizeAttenuation apply to point bodies only.
	VertexColors    bool
	SizeAttenuation bool

	// ShaderProgram names a custom program from the shader package. Empty
	// means the renderer's standard lit material.
	ShaderProgram string

	textures map[model.AssetRole]image.Image
	uniforms map[string]any
}

// NewMaterial returns an opaque front-side material in the given color.
func NewMaterial(color math32.Vector3) Material {
	return Material{Color: color, Opacity: 1, Roughness: 0.9}
}

// SetTexture fills the material's slot for role. The asset pipeline calls
// this at frame boundaries as loads complete.
func (m *Material) SetTexture(role model.AssetRole, img image.Image) {
	if m.textures == nil {
		m.textures = make(map[model.AssetRole]image.Image)
	}
	m.textures[role] = img
}

// Texture returns the image in the slot for role, if filled.
func (m *Material) Texture(role model.AssetRole) (image.Image, bool) {
	img, ok := m.textures[role]
	return img, ok
}

// TextureCount returns the number of filled texture slots.
func (m *Material) TextureCount() int { return len(m.textures) }

// SetUniform sets a custom shader uniform value by name.
func (m *Material) SetUniform(name string, value any) {
	if m.uniforms == nil {
		m.uniforms = make(map[string]any)
	}
	m.uniforms[name] = value
}

// Uniform returns a custom shader uniform value by name.
func (m *Material) Uniform(name string) (any, bool) {
	v, ok := m.uniforms[name]
	return v, ok
}

// Body is one renderable: a mesh or a point cloud plus its material. Bodies
// attach to exactly one node, which supplies the world transform.
type Body struct {
	Name   string
	Mesh   *Mesh       // nil for point bodies
	Points *PointCloud // nil for mesh bodies
	Mat    Material

	node *Node
}

// NewMeshBody wraps mesh geometry and a material into a body.
func NewMeshBody(name string, mesh *Mesh, mat Material) *Body {
	return &Body{Name: name, Mesh: mesh, Mat: mat}
}

// NewPointsBody wraps point sprite geometry and a material into a body.
func NewPointsBody(name string, points *PointCloud, mat Material) *Body {
	return &Body{Name: name, Points: points, Mat: mat}
}

// Node returns the node the body is attached to, or nil while detached.
func (b *Body) Node() *Node { return b.node }

// ParseHexColor converts "#rrggbb" to an RGB triple in 0..1.
func ParseHexColor(s string) (math32.Vector3, error) {
	hexPart, ok := strings.CutPrefix(s, "#")
	if !ok || len(hexPart) != 6 {
		return math32.Vector3{}, fmt.Errorf("malformed hex color %q", s)
	}
	var rgb [3]float32
	for i := range rgb {
		v, err := strconv.ParseUint(hexPart[i*2:i*2+2], 16, 8)
		if err != nil {
			return math32.Vector3{}, fmt.Errorf("malformed hex color %q: %w", s, err)
		}
		rgb[i] = float32(v) / 255
	}
	return math32.Vec3(rgb[0], rgb[1], rgb[2]), nil
}
