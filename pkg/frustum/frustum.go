// Package frustum provides closed-form weight and center-of-mass formulas for
// hollow conical frustum segments, the building block of tapered tubular
// structures (monopiles, transition pieces, turbine towers).
//
// All functions are pure and operate on scalar SI inputs: elevations and
// diameters in meters, wall thickness in meters, densities in kg/m³. Callers
// working on segment tables loop over the rows; there is no array form.
package frustum

import (
	"errors"
	"math"
)

// ErrDegenerate is returned by [Centroid] when the shell volume vanishes
// (zero wall thickness or zero height), leaving the center of mass undefined.
var ErrDegenerate = errors.New("degenerate frustum: shell volume is zero")

// Volume returns the shell volume in m³ of a hollow conical frustum with
// outer diameters dTop and dBot, elevations zTop and zBot, and constant wall
// thickness t. The shell is the outer frustum minus the coaxial inner frustum
// with diameters reduced by 2t:
//
//	V(D1, D2, h) = π·h/12 · (D1² + D1·D2 + D2²)
//
// The height is |zTop − zBot|, so argument order of the elevations does not
// matter. Negative results are possible for nonsensical inputs (t larger than
// the radius); callers validate geometry before integrating.
func Volume(dTop, dBot, zTop, zBot, t float64) float64 {
	h := math.Abs(zTop - zBot)
	return solidVolume(dTop, dBot, h) - solidVolume(dTop-2*t, dBot-2*t, h)
}

// Weight returns the mass in kg of a hollow frustum shell of density rho
// (kg/m³). The remaining arguments match [Volume].
func Weight(rho, t, zTop, zBot, dTop, dBot float64) float64 {
	return rho * Volume(dTop, dBot, zTop, zBot, t)
}

// Centroid returns the absolute z-position of the center of mass of a hollow
// conical frustum with constant wall thickness t, obtained by subtracting a
// solid inner frustum (base diameters dBot, dTop) from a solid outer frustum
// (radii enlarged by t).
//
// For a solid frustum of bottom/top radii r1, r2 and height h, measured from
// the bottom face:
//
//	V     = π·h/3 · (r1² + r1·r2 + r2²)
//	z_rel = h · (r1² + 2·r1·r2 + 3·r2²) / (4 · (r1² + r1·r2 + r2²))
//
// The composite centroid weighs the outer and inner centroids by their
// volumes. Returns ErrDegenerate when the two volumes coincide (zero wall
// volume), which would otherwise divide by zero.
func Centroid(dBot, dTop, zBot, zTop, t float64) (float64, error) {
	h := zTop - zBot
	r1 := dBot / 2
	r2 := dTop / 2
	R1 := r1 + t
	R2 := r2 + t

	vOuter := coneVolume(R1, R2, h)
	vInner := coneVolume(r1, r2, h)
	if vOuter == vInner {
		return 0, ErrDegenerate
	}

	zOuter := relCentroid(R1, R2, h)
	zInner := relCentroid(r1, r2, h)

	zRel := (zOuter*vOuter - zInner*vInner) / (vOuter - vInner)
	return zBot + zRel, nil
}

// solidVolume is the frustum volume in diameter form, π·h/12·(D1²+D1·D2+D2²).
func solidVolume(d1, d2, h float64) float64 {
	return math.Pi * h / 12 * (d1*d1 + d1*d2 + d2*d2)
}

// coneVolume is the frustum volume in radius form, π·h/3·(r1²+r1·r2+r2²).
func coneVolume(r1, r2, h float64) float64 {
	return math.Pi * h / 3 * (r1*r1 + r1*r2 + r2*r2)
}

// relCentroid is the solid-frustum centroid height above the bottom face.
func relCentroid(r1, r2, h float64) float64 {
	num := r1*r1 + 2*r1*r2 + 3*r2*r2
	den := r1*r1 + r1*r2 + r2*r2
	return h * num / (4 * den)
}
