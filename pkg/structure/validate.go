package structure

import (
	"fmt"
	"math"
	"strings"

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
)

// Validate checks that the segment table is usable for assembly: every
// numeric field finite, diameters and wall thickness positive, each segment's
// top above its bottom, and adjacent segments meeting exactly (the bottom
// elevation of one row equals the top elevation of the next, no tolerance).
//
// Continuity violations are collected across the whole table and reported
// together with 1-based section numbers. The table is never repaired.
func (s Structure) Validate() error {
	if len(s) == 0 {
		return errs.New(errs.ErrCodeInvalidData, "segment table is empty")
	}

	for i, seg := range s {
		n := i + 1
		fields := []struct {
			name string
			val  float64
		}{
			{"top elevation", seg.Top},
			{"bottom elevation", seg.Bottom},
			{"top diameter", seg.DTop},
			{"bottom diameter", seg.DBottom},
			{"wall thickness", seg.Thickness},
		}
		for _, f := range fields {
			if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
				return errs.New(errs.ErrCodeInvalidData,
					"section %d: %s is not a finite number", n, f.name)
			}
		}
		if seg.DTop <= 0 || seg.DBottom <= 0 {
			return errs.New(errs.ErrCodeInvalidData,
				"section %d: diameters must be positive, got top %g m and bottom %g m", n, seg.DTop, seg.DBottom)
		}
		if seg.Thickness <= 0 {
			return errs.New(errs.ErrCodeInvalidData,
				"section %d: wall thickness must be positive, got %g mm", n, seg.Thickness)
		}
		if seg.Top <= seg.Bottom {
			return errs.New(errs.ErrCodeInvalidData,
				"section %d: top elevation %g m must lie above bottom elevation %g m", n, seg.Top, seg.Bottom)
		}
	}

	var breaks []string
	for i := 0; i < len(s)-1; i++ {
		if s[i].Bottom != s[i+1].Top {
			breaks = append(breaks, fmt.Sprintf(
				"section %d ends at %g m but section %d starts at %g m",
				i+1, s[i].Bottom, i+2, s[i+1].Top))
		}
	}
	if len(breaks) > 0 {
		return errs.New(errs.ErrCodeDiscontinuity,
			"segment table is not continuous: %s", strings.Join(breaks, "; "))
	}
	return nil
}
