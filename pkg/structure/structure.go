// Package structure defines the segment-table model for offshore support
// structures: monopile (MP), transition piece (TP) and tower, each described
// as a stack of hollow conical frustum segments ordered top to bottom.
//
// Elevations and diameters are in meters, wall thickness in millimeters and
// masses in tonnes, matching the engineering tables the package reads and
// writes. Operations return new values; segment tables are never mutated in
// place.
package structure

import (
	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
)

// Affiliation labels which part of the assembled structure a segment or
// added mass belongs to.
type Affiliation string

const (
	// AffiliationUnknown marks rows that have not been tagged yet.
	AffiliationUnknown Affiliation = ""
	// AffiliationMP is the monopile.
	AffiliationMP Affiliation = "MP"
	// AffiliationTP is the transition piece.
	AffiliationTP Affiliation = "TP"
	// AffiliationTower is the turbine tower.
	AffiliationTower Affiliation = "TOWER"
	// AffiliationSkirt is the TP portion that overlaps the monopile.
	AffiliationSkirt Affiliation = "SKIRT"
)

// ParseAffiliation converts a table cell into an Affiliation.
func ParseAffiliation(s string) (Affiliation, error) {
	switch Affiliation(s) {
	case AffiliationMP, AffiliationTP, AffiliationTower, AffiliationSkirt:
		return Affiliation(s), nil
	case AffiliationUnknown:
		return AffiliationUnknown, nil
	}
	return AffiliationUnknown, errs.New(errs.ErrCodeInvalidData, "unknown affiliation %q", s)
}

// Segment is one hollow conical frustum of a structure. Top and Bottom are
// absolute elevations in meters with Top above Bottom, DTop and DBottom the
// outer diameters in meters, and Thickness the wall thickness in millimeters.
// Section is the 1-based row number within the segment table the row came
// from; renumbering across assembled structures happens downstream.
type Segment struct {
	Section     int         `json:"section"`
	Top         float64     `json:"top_m"`
	Bottom      float64     `json:"bottom_m"`
	DTop        float64     `json:"d_top_m"`
	DBottom     float64     `json:"d_bottom_m"`
	Thickness   float64     `json:"t_mm"`
	Affiliation Affiliation `json:"affiliation,omitempty"`
}

// Height returns the segment height in meters.
func (s Segment) Height() float64 {
	return s.Top - s.Bottom
}

// Structure is an ordered segment table, first row topmost.
type Structure []Segment

// Len returns the number of segments.
func (s Structure) Len() int { return len(s) }

// Top returns the top elevation of the first segment. The structure must be
// non-empty; validate before calling.
func (s Structure) Top() float64 { return s[0].Top }

// Bottom returns the bottom elevation of the last segment. The structure must
// be non-empty; validate before calling.
func (s Structure) Bottom() float64 { return s[len(s)-1].Bottom }

// Clone returns an independent copy of the segment table.
func (s Structure) Clone() Structure {
	if s == nil {
		return nil
	}
	out := make(Structure, len(s))
	copy(out, s)
	return out
}

// Shift returns a copy of the table with all elevations displaced by dz.
// Diameters, thicknesses and section numbers are untouched.
func (s Structure) Shift(dz float64) Structure {
	out := s.Clone()
	for i := range out {
		out[i].Top += dz
		out[i].Bottom += dz
	}
	return out
}

// Tag returns a copy of the table with every segment assigned to aff.
func (s Structure) Tag(aff Affiliation) Structure {
	out := s.Clone()
	for i := range out {
		out[i].Affiliation = aff
	}
	return out
}

// Meta carries the identifying fields of a stored or loaded structure. An
// empty HeightReference and a nil WaterDepth mean the value is not set.
type Meta struct {
	Identifier      string   `json:"identifier"`
	HeightReference string   `json:"height_reference,omitempty"`
	WaterDepth      *float64 `json:"water_depth_m,omitempty"`
}

// Bundle is one structure's complete input: its metadata, its segment table
// and its added masses.
type Bundle struct {
	Meta     Meta        `json:"meta"`
	Segments Structure   `json:"segments"`
	Masses   []AddedMass `json:"masses,omitempty"`
}

// Clone returns an independent copy of the bundle.
func (b Bundle) Clone() Bundle {
	out := Bundle{
		Meta:     b.Meta,
		Segments: b.Segments.Clone(),
		Masses:   CloneMasses(b.Masses),
	}
	if b.Meta.WaterDepth != nil {
		wd := *b.Meta.WaterDepth
		out.Meta.WaterDepth = &wd
	}
	return out
}
