package shader

import "cogentcore.org/core/math32"

// Tunables mirrored by the GLSL sources. The tests in this package keep the
// Go reference curves and the shader text in agreement.
const (
	// FresnelPower shapes how quickly the atmosphere glow falls off away
	// from the limb.
	FresnelPower = 3.5
	// FresnelAlphaScale is the peak atmosphere alpha, reached at a grazing
	// view angle.
	FresnelAlphaScale = 0.65

	// NightBoost brightens the city lights texture on the dark hemisphere.
	NightBoost = 1.5
	// TerminatorStart is the dot(normal, sunDirection) value at which night
	// lights begin to appear.
	TerminatorStart = -0.1
	// TerminatorEnd is the dot(normal, sunDirection) value at which night
	// lights reach full strength.
	TerminatorEnd = -0.3
)

// Smoothstep is the GLSL smoothstep: a clamped cubic Hermite ramp from 0 at
// edge0 to 1 at edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// FresnelAlpha returns the atmosphere alpha for a given dot(normal, viewDir),
// matching the atmosphere fragment shader. The input is clamped to [0, 1].
func FresnelAlpha(ndotv float32) float32 {
	if ndotv < 0 {
		ndotv = 0
	}
	if ndotv > 1 {
		ndotv = 1
	}
	return math32.Pow(1-ndotv, FresnelPower) * FresnelAlphaScale
}

// NightFactor returns the night-lights blend factor for a given
// dot(normal, sunDirection), matching the night fragment shader: 0 on the
// day side and across the near terminator, ramping to 1 deep in the night
// hemisphere.
func NightFactor(sunFacing float32) float32 {
	return 1 - Smoothstep(TerminatorEnd, TerminatorStart, sunFacing)
}
