package assembly

import (
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// Datum is the reconciled vertical reference of an assembled structure.
type Datum struct {
	// HeightReference is the agreed reference, or empty when the inputs
	// conflict (and the caller chose to proceed) or none is set.
	HeightReference string `json:"height_reference,omitempty"`

	// Consistent reports whether the non-empty references agreed.
	Consistent bool `json:"consistent"`

	// References holds the raw per-structure values keyed by MP, TP and
	// TOWER, for diagnostics and prompts.
	References map[string]string `json:"references,omitempty"`

	// Seabed is −water depth from the MP metadata, nil when unknown.
	Seabed *float64 `json:"seabed_level_m,omitempty"`
}

// ReconcileDatum resolves the shared height reference across the three
// structures. Empty references are ignored; the remaining ones must agree.
// On agreement the first non-empty value becomes the resolved reference
// (empty when none is set anywhere). On disagreement Consistent is false and
// the resolved reference stays empty; deciding whether to assemble anyway is
// the caller's business.
//
// The seabed level is taken from the MP only: −water depth when present.
func ReconcileDatum(mp, tp, tower structure.Meta) Datum {
	d := Datum{
		References: map[string]string{
			"MP":    mp.HeightReference,
			"TP":    tp.HeightReference,
			"TOWER": tower.HeightReference,
		},
	}

	var nonEmpty []string
	for _, ref := range []string{mp.HeightReference, tp.HeightReference, tower.HeightReference} {
		if ref != "" {
			nonEmpty = append(nonEmpty, ref)
		}
	}

	d.Consistent = true
	for _, ref := range nonEmpty {
		if ref != nonEmpty[0] {
			d.Consistent = false
			break
		}
	}
	if d.Consistent && len(nonEmpty) > 0 {
		d.HeightReference = nonEmpty[0]
	}

	if mp.WaterDepth != nil {
		seabed := -*mp.WaterDepth
		d.Seabed = &seabed
	}
	return d
}
