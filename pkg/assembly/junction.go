package assembly

import (
	"fmt"

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
	"github.com/AaronLge/GeometrieConverter/pkg/frustum"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// JunctionKind classifies the vertical MP/TP relationship.
type JunctionKind string

const (
	// JunctionGap means the TP bottom floats above the MP top. Fatal.
	JunctionGap JunctionKind = "gap"
	// JunctionFlush means the TP sits exactly on the MP.
	JunctionFlush JunctionKind = "flush"
	// JunctionOverlap means the TP reaches down past the MP top.
	JunctionOverlap JunctionKind = "overlap"
)

// Junction is the measured MP/TP fit.
type Junction struct {
	Kind JunctionKind `json:"kind"`
	// Distance is the gap or overlap depth in meters, zero for flush.
	Distance float64 `json:"distance_m"`
}

// Fit classifies the MP/TP junction from the MP top and TP bottom
// elevations.
func Fit(mpTop, tpBottom float64) Junction {
	switch {
	case mpTop < tpBottom:
		return Junction{Kind: JunctionGap, Distance: tpBottom - mpTop}
	case mpTop > tpBottom:
		return Junction{Kind: JunctionOverlap, Distance: mpTop - tpBottom}
	}
	return Junction{Kind: JunctionFlush}
}

// SkirtResult is the outcome of resolving an MP/TP overlap in skirt mode.
type SkirtResult struct {
	// Skirt is the TP portion below the MP top, re-tagged SKIRT.
	Skirt structure.Structure
	// PointMass aggregates the skirt: total mass at the mass-weighted
	// centroid, commented "Skirt".
	PointMass structure.AddedMass
	// TP is the remaining transition piece, truncated to bottom ≥ MP top.
	// Empty when the TP lies entirely below the MP top.
	TP structure.Structure
}

// ExtractSkirt resolves an MP/TP overlap by splitting the TP at the MP top
// elevation: everything below becomes the SKIRT group, integrated into a
// single point mass (steel density rho in kg/m³, result in tonnes); the TP
// keeps only segments resting on or above the MP top.
//
// The TP table must be validated and must actually overlap (TP bottom below
// mpTop).
func ExtractSkirt(tp structure.Structure, mpTop, rho float64) (SkirtResult, error) {
	split := tp
	if mpTop < tp.Top() {
		var err error
		split, err = structure.InsertNode(tp, mpTop)
		if err != nil {
			return SkirtResult{}, fmt.Errorf("split TP at MP top: %w", err)
		}
	}

	var res SkirtResult
	var total, moment float64
	for _, seg := range split {
		if seg.Top <= mpTop {
			res.Skirt = append(res.Skirt, seg)

			tm := seg.Thickness / 1000 // mm → m
			mass := frustum.Weight(rho, tm, seg.Top, seg.Bottom, seg.DTop, seg.DBottom) / 1000
			z, err := frustum.Centroid(seg.DBottom, seg.DTop, seg.Bottom, seg.Top, tm)
			if err != nil {
				return SkirtResult{}, fmt.Errorf("skirt section %d: %w", seg.Section, err)
			}
			total += mass
			moment += mass * z
		}
		if seg.Bottom >= mpTop {
			res.TP = append(res.TP, seg)
		}
	}

	if total <= 0 {
		return SkirtResult{}, errs.New(errs.ErrCodeInvalidData, "skirt below %g m has no mass", mpTop)
	}

	res.Skirt = res.Skirt.Tag(structure.AffiliationSkirt)
	res.PointMass = structure.AddedMass{
		Affiliation: structure.AffiliationSkirt,
		Top:         moment / total,
		Mass:        total,
		Comment:     "Skirt",
	}
	return res, nil
}
