package assembly

import (
	"sort"

	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// BuildStack concatenates the aligned tower, the resolved TP and the MP top
// to bottom into the assembled section list. Each row keeps its source
// section number as Local and receives a fresh global Section 1..N in
// top-to-bottom order. Empty inputs contribute nothing.
func BuildStack(tower, tp, mp structure.Structure) []Row {
	rows := make([]Row, 0, len(tower)+len(tp)+len(mp))
	add := func(s structure.Structure, aff structure.Affiliation) {
		for _, seg := range s {
			rows = append(rows, Row{
				Section:     len(rows) + 1,
				Local:       seg.Section,
				Affiliation: aff,
				Top:         seg.Top,
				Bottom:      seg.Bottom,
				DTop:        seg.DTop,
				DBottom:     seg.DBottom,
				Thickness:   seg.Thickness,
			})
		}
	}
	add(tower, structure.AffiliationTower)
	add(tp, structure.AffiliationTP)
	add(mp, structure.AffiliationMP)
	return rows
}

// AggregateMasses tags the three added-mass tables with their affiliation,
// concatenates them and sorts by top elevation descending. The sort is
// stable, so rows at the same elevation keep MP before TP before TOWER
// order; nothing is deduplicated.
func AggregateMasses(mp, tp, tower []structure.AddedMass) []structure.AddedMass {
	out := make([]structure.AddedMass, 0, len(mp)+len(tp)+len(tower))
	out = append(out, structure.TagMasses(mp, structure.AffiliationMP)...)
	out = append(out, structure.TagMasses(tp, structure.AffiliationTP)...)
	out = append(out, structure.TagMasses(tower, structure.AffiliationTower)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Top > out[j].Top
	})
	return out
}
