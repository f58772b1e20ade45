package structure

import (
	"reflect"
	"testing"

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
)

func seg(sec int, top, bot, dTop, dBot, t float64) Segment {
	return Segment{Section: sec, Top: top, Bottom: bot, DTop: dTop, DBottom: dBot, Thickness: t}
}

func ptr(v float64) *float64 { return &v }

func TestStructure_TopBottom(t *testing.T) {
	s := Structure{
		seg(1, 10, 5, 6, 5, 60),
		seg(2, 5, -20, 5, 5, 60),
	}

	if got := s.Top(); got != 10 {
		t.Errorf("Top() = %v, want 10", got)
	}
	if got := s.Bottom(); got != -20 {
		t.Errorf("Bottom() = %v, want -20", got)
	}
	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %v, want 2", got)
	}
}

func TestStructure_Shift(t *testing.T) {
	orig := Structure{seg(1, 10, 0, 6, 4, 60)}
	got := orig.Shift(-2.5)

	want := Structure{seg(1, 7.5, -2.5, 6, 4, 60)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shift() = %+v, want %+v", got, want)
	}
	if orig[0].Top != 10 {
		t.Errorf("Shift() mutated the receiver: top = %v", orig[0].Top)
	}
}

func TestStructure_Tag(t *testing.T) {
	orig := Structure{seg(1, 10, 0, 6, 4, 60)}
	got := orig.Tag(AffiliationMP)

	if got[0].Affiliation != AffiliationMP {
		t.Errorf("Tag() affiliation = %q, want MP", got[0].Affiliation)
	}
	if orig[0].Affiliation != AffiliationUnknown {
		t.Errorf("Tag() mutated the receiver: %q", orig[0].Affiliation)
	}
}

func TestBundle_Clone(t *testing.T) {
	b := Bundle{
		Meta:     Meta{Identifier: "MP_A", HeightReference: "LAT", WaterDepth: ptr(30)},
		Segments: Structure{seg(1, 10, 0, 6, 4, 60)},
		Masses:   []AddedMass{{Top: 5, Bottom: ptr(3), Mass: 1.5, Comment: "platform"}},
	}

	c := b.Clone()
	c.Segments[0].Top = 99
	*c.Masses[0].Bottom = 99
	*c.Meta.WaterDepth = 99

	if b.Segments[0].Top != 10 {
		t.Errorf("Clone() shares segments with the original")
	}
	if *b.Masses[0].Bottom != 3 {
		t.Errorf("Clone() shares mass bottom pointers with the original")
	}
	if *b.Meta.WaterDepth != 30 {
		t.Errorf("Clone() shares the water depth pointer with the original")
	}
}

func TestShiftMasses(t *testing.T) {
	orig := []AddedMass{
		{Top: 12, Bottom: ptr(10), Mass: 2},
		{Top: 8, Mass: 1, Comment: "flange"},
	}

	got := ShiftMasses(orig, -3)

	if got[0].Top != 9 || *got[0].Bottom != 7 {
		t.Errorf("ShiftMasses() distributed = top %v bottom %v, want 9 and 7", got[0].Top, *got[0].Bottom)
	}
	if got[1].Top != 5 || got[1].Bottom != nil {
		t.Errorf("ShiftMasses() point mass = top %v bottom %v, want 5 and nil", got[1].Top, got[1].Bottom)
	}
	if orig[0].Top != 12 || *orig[0].Bottom != 10 {
		t.Errorf("ShiftMasses() mutated the input")
	}
}

func TestTagMasses(t *testing.T) {
	got := TagMasses([]AddedMass{{Top: 1, Mass: 1}}, AffiliationSkirt)

	if got[0].Affiliation != AffiliationSkirt {
		t.Errorf("TagMasses() affiliation = %q, want SKIRT", got[0].Affiliation)
	}
}

func TestParseAffiliation(t *testing.T) {
	tests := []struct {
		in      string
		want    Affiliation
		wantErr bool
	}{
		{"MP", AffiliationMP, false},
		{"TP", AffiliationTP, false},
		{"TOWER", AffiliationTower, false},
		{"SKIRT", AffiliationSkirt, false},
		{"", AffiliationUnknown, false},
		{"JACKET", AffiliationUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAffiliation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAffiliation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && errs.GetCode(err) != errs.ErrCodeInvalidData {
				t.Errorf("ParseAffiliation(%q) code = %v, want INVALID_DATA", tt.in, errs.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseAffiliation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSegment_Height(t *testing.T) {
	if got := seg(1, 10, -5, 6, 6, 60).Height(); got != 15 {
		t.Errorf("Height() = %v, want 15", got)
	}
}
