package model

import "cogentcore.org/core/math32"

// Star is one point in the background starfield. Positions are scene units
// relative to the world origin; Size is a point sprite diameter in pixels.
type Star struct {
	Pos   math32.Vector3
	Size  float32
	Color math32.Vector3 // linear RGB, 0..1
}
