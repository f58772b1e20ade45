package structure

import (
	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
)

// InsertNode splits the segment spanning elevation z into two segments
// meeting at z, interpolating the outer diameter linearly over the segment
// height. Both halves keep the original section number, thickness and
// affiliation; the table is never renumbered.
//
// When z already coincides with a segment boundary the table is returned
// unchanged. When no segment strictly contains z the call fails with
// OUT_OF_BOUNDS; when more than one does (overlapping rows in an unvalidated
// table) it fails with AMBIGUOUS_NODE.
func InsertNode(s Structure, z float64) (Structure, error) {
	for _, seg := range s {
		if seg.Top == z || seg.Bottom == z {
			return s, nil
		}
	}

	match := -1
	for i, seg := range s {
		if seg.Top > z && seg.Bottom < z {
			if match >= 0 {
				return nil, errs.New(errs.ErrCodeAmbiguousNode,
					"elevation %g m lies inside sections %d and %d", z, match+1, i+1)
			}
			match = i
		}
	}
	if match < 0 {
		return nil, errs.New(errs.ErrCodeOutOfBounds, "no segment spans elevation %g m", z)
	}

	seg := s[match]
	frac := (z - seg.Bottom) / (seg.Top - seg.Bottom)
	dMid := seg.DBottom + (seg.DTop-seg.DBottom)*frac

	upper := seg
	upper.Bottom = z
	upper.DBottom = dMid

	lower := seg
	lower.Top = z
	lower.DTop = dMid

	out := make(Structure, 0, len(s)+1)
	out = append(out, s[:match]...)
	out = append(out, upper, lower)
	out = append(out, s[match+1:]...)
	return out, nil
}
