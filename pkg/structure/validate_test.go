package structure

import (
	"math"
	"strings"
	"testing"

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
)

func TestValidate_OK(t *testing.T) {
	s := Structure{
		seg(1, 10, 5, 6, 5, 60),
		seg(2, 5, 0, 5, 4, 55),
		seg(3, 0, -25, 4, 4, 55),
	}

	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate_Empty(t *testing.T) {
	err := Structure{}.Validate()
	if errs.GetCode(err) != errs.ErrCodeInvalidData {
		t.Errorf("Validate() code = %v, want INVALID_DATA", errs.GetCode(err))
	}
}

func TestValidate_BadSegments(t *testing.T) {
	tests := []struct {
		name string
		s    Structure
		frag string
	}{
		{"nan elevation", Structure{seg(1, math.NaN(), 0, 6, 4, 60)}, "finite"},
		{"infinite diameter", Structure{seg(1, 10, 0, math.Inf(1), 4, 60)}, "finite"},
		{"zero diameter", Structure{seg(1, 10, 0, 0, 4, 60)}, "diameters"},
		{"negative thickness", Structure{seg(1, 10, 0, 6, 4, -5)}, "thickness"},
		{"inverted elevations", Structure{seg(1, 0, 10, 6, 4, 60)}, "above"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if errs.GetCode(err) != errs.ErrCodeInvalidData {
				t.Fatalf("Validate() code = %v, want INVALID_DATA", errs.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.frag) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.frag)
			}
		})
	}
}

func TestValidate_Discontinuity(t *testing.T) {
	s := Structure{
		seg(1, 10, 8, 6, 6, 60),
		seg(2, 7.9, 5, 6, 5, 60),
		seg(3, 4.9, 0, 5, 4, 60),
	}

	err := s.Validate()
	if errs.GetCode(err) != errs.ErrCodeDiscontinuity {
		t.Fatalf("Validate() code = %v, want DISCONTINUITY", errs.GetCode(err))
	}

	// Both broken boundaries must be reported, by section number.
	msg := err.Error()
	for _, frag := range []string{"section 1", "section 2", "section 3"} {
		if !strings.Contains(msg, frag) {
			t.Errorf("Validate() = %q, want mention of %q", msg, frag)
		}
	}
}

func TestValidate_NoToleranceOnContinuity(t *testing.T) {
	// A hairline mismatch is still a discontinuity; nothing is repaired.
	s := Structure{
		seg(1, 10, 5.0000001, 6, 5, 60),
		seg(2, 5, 0, 5, 4, 60),
	}

	if err := s.Validate(); errs.GetCode(err) != errs.ErrCodeDiscontinuity {
		t.Errorf("Validate() code = %v, want DISCONTINUITY", errs.GetCode(err))
	}
}
