// Package table reads and writes the CSV tables GeometrieConverter works
// with: per-structure segment, added-mass and metadata tables on the way in,
// and the assembled structure, skirt and merged-mass tables on the way out.
//
// Column names mirror the engineering workbooks the data comes from
// ("Top [m]", "D, bottom [m]", "t [mm]", ...). Numeric cells that fail to
// parse surface as INVALID_DATA errors naming the table, row and column;
// they are never coerced to NaN. The one deliberate exception is the added
// masses' bottom elevation, where a blank or non-numeric cell marks a point
// mass.
package table

import (
	"math"
	"strconv"
	"strings"

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
)

// Column names shared by the input and output tables.
const (
	ColSection      = "Section"
	ColLocalSection = "local Section"
	ColAffiliation  = "Affiliation"
	ColTop          = "Top [m]"
	ColBottom       = "Bottom [m]"
	ColDTop         = "D, top [m]"
	ColDBottom      = "D, bottom [m]"
	ColThickness    = "t [mm]"
	ColMass         = "Mass [t]"
	ColComment      = "comment"
	ColElevation    = "Elevation [m]"
	ColIdentifier   = "Identifier"
	ColHeightRef    = "Height Reference"
	ColWaterDepth   = "Water Depth [m]"
	ColCogZ         = "CoG z [m]"
	ColParameter    = "Parameter"
	ColValue        = "Value"
)

// columnIndex maps trimmed header names to their positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

// requireColumns checks that every wanted column exists in the header.
func requireColumns(idx map[string]int, name string, cols ...string) error {
	for _, col := range cols {
		if _, ok := idx[col]; !ok {
			return errs.New(errs.ErrCodeInvalidData, "%s: missing column %q", name, col)
		}
	}
	return nil
}

// parseFloat converts a required numeric cell. Empty, non-numeric and
// non-finite cells are INVALID_DATA.
func parseFloat(cell, name string, row int, col string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidData,
			"%s row %d: column %q: cannot read %q as a number", name, row, col, cell)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errs.New(errs.ErrCodeInvalidData,
			"%s row %d: column %q: %q is not a finite number", name, row, col, cell)
	}
	return v, nil
}

// parseInt converts a required integer cell.
func parseInt(cell, name string, row int, col string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidData,
			"%s row %d: column %q: cannot read %q as an integer", name, row, col, cell)
	}
	return v, nil
}

// formatFloat renders a float the way the output tables expect: shortest
// round-trip representation, no exponent padding.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
