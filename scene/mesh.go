package scene

import (
	"cogentcore.org/core/math32"

	"github.com/stellarfoundry/orrery/model"
)

// Mesh is indexed triangle geometry in the conventional vertex layout:
// positions, unit normals, and UV texture coordinates. Buffers are flat
// float arrays ready for upload by a renderer.
type Mesh struct {
	Name      string
	Vertices  math32.ArrayF32 // xyz triples
	Normals   math32.ArrayF32 // xyz triples, unit length
	TexCoords math32.ArrayF32 // uv pairs
	Indices   math32.ArrayU32
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// NewSphereMesh builds an indexed UV sphere with widthSegs longitudinal and
// heightSegs latitudinal divisions. Rings run pole to pole from +Y, so the
// texture's v=1 row lands on the north pole. Triangles wind counterclockwise
// seen from outside.
func NewSphereMesh(name string, radius float32, widthSegs, heightSegs int) *Mesh {
	if widthSegs < 3 {
		widthSegs = 3
	}
	if heightSegs < 2 {
		heightSegs = 2
	}

	vertCount := (widthSegs + 1) * (heightSegs + 1)
	m := &Mesh{
		Name:      name,
		Vertices:  make(math32.ArrayF32, 0, vertCount*3),
		Normals:   make(math32.ArrayF32, 0, vertCount*3),
		TexCoords: make(math32.ArrayF32, 0, vertCount*2),
		Indices:   make(math32.ArrayU32, 0, widthSegs*heightSegs*6),
	}

	for ring := 0; ring <= heightSegs; ring++ {
		v := float32(ring) / float32(heightSegs)
		theta := v * math32.Pi
		sinTheta := math32.Sin(theta)
		cosTheta := math32.Cos(theta)
		for seg := 0; seg <= widthSegs; seg++ {
			u := float32(seg) / float32(widthSegs)
			phi := u * 2 * math32.Pi
			nx := sinTheta * math32.Cos(phi)
			ny := cosTheta
			nz := sinTheta * math32.Sin(phi)
			m.Vertices = append(m.Vertices, nx*radius, ny*radius, nz*radius)
			m.Normals = append(m.Normals, nx, ny, nz)
			m.TexCoords = append(m.TexCoords, u, 1-v)
		}
	}

	stride := uint32(widthSegs + 1)
	for ring := 0; ring < heightSegs; ring++ {
		for seg := 0; seg < widthSegs; seg++ {
			a := uint32(ring)*stride + uint32(seg)
			b := a + stride
			m.Indices = append(m.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return m
}

// NewBoxMesh builds an axis-aligned cuboid centered on the origin with
// per-face normals, 4 vertices per face.
func NewBoxMesh(name string, width, height, depth float32) *Mesh {
	half := math32.Vec3(width/2, height/2, depth/2)
	extent := func(axis math32.Vector3) math32.Vector3 {
		return math32.Vec3(axis.X*half.X, axis.Y*half.Y, axis.Z*half.Z)
	}

	// tangent cross bitangent equals the outward normal, which keeps the
	// (0,1,2)(0,2,3) triangulation front-facing.
	faces := []struct {
		normal, tangent, bitangent math32.Vector3
	}{
		{math32.Vec3(1, 0, 0), math32.Vec3(0, 0, -1), math32.Vec3(0, 1, 0)},
		{math32.Vec3(-1, 0, 0), math32.Vec3(0, 0, 1), math32.Vec3(0, 1, 0)},
		{math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 0, -1)},
		{math32.Vec3(0, -1, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 0, 1)},
		{math32.Vec3(0, 0, 1), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0)},
		{math32.Vec3(0, 0, -1), math32.Vec3(-1, 0, 0), math32.Vec3(0, 1, 0)},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	m := &Mesh{
		Name:      name,
		Vertices:  make(math32.ArrayF32, 0, 24*3),
		Normals:   make(math32.ArrayF32, 0, 24*3),
		TexCoords: make(math32.ArrayF32, 0, 24*2),
		Indices:   make(math32.ArrayU32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(m.Vertices) / 3)
		for ci, signs := range corners {
			corner := extent(f.normal).
				Add(extent(f.tangent).MulScalar(signs[0])).
				Add(extent(f.bitangent).MulScalar(signs[1]))
			m.Vertices = append(m.Vertices, corner.X, corner.Y, corner.Z)
			m.Normals = append(m.Normals, f.normal.X, f.normal.Y, f.normal.Z)
			m.TexCoords = append(m.TexCoords, uvs[ci][0], uvs[ci][1])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// PointCloud is unindexed point sprite geometry, used for the starfield.
type PointCloud struct {
	Name      string
	Positions math32.ArrayF32 // xyz triples
	Sizes     math32.ArrayF32 // per-point sprite diameter, pixels
	Colors    math32.ArrayF32 // rgb triples
}

// Count returns the number of points.
func (pc *PointCloud) Count() int { return len(pc.Sizes) }

// NewStarCloud packs a star catalog into flat arrays.
func NewStarCloud(name string, stars []model.Star) *PointCloud {
	pc := &PointCloud{
		Name:      name,
		Positions: make(math32.ArrayF32, 0, len(stars)*3),
		Sizes:     make(math32.ArrayF32, 0, len(stars)),
		Colors:    make(math32.ArrayF32, 0, len(stars)*3),
	}
	for _, s := range stars {
		pc.Positions = append(pc.Positions, s.Pos.X, s.Pos.Y, s.Pos.Z)
		pc.Sizes = append(pc.Sizes, s.Size)
		pc.Colors = append(pc.Colors, s.Color.X, s.Color.Y, s.Color.Z)
	}
	return pc
}
