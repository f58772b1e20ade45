package structure

// AddedMass is a non-structural mass attached to a structure: a flange, an
// internal platform, bolted equipment. A nil Bottom marks a point mass at
// Top; otherwise the mass is distributed between Top and Bottom. Mass is in
// tonnes, elevations in meters.
type AddedMass struct {
	Affiliation Affiliation `json:"affiliation,omitempty"`
	Top         float64     `json:"top_m"`
	Bottom      *float64    `json:"bottom_m,omitempty"`
	Mass        float64     `json:"mass_t"`
	Comment     string      `json:"comment,omitempty"`
}

// IsPoint reports whether the mass acts at a single elevation.
func (m AddedMass) IsPoint() bool { return m.Bottom == nil }

// CloneMasses returns an independent copy of the mass list, including the
// Bottom pointers.
func CloneMasses(masses []AddedMass) []AddedMass {
	if masses == nil {
		return nil
	}
	out := make([]AddedMass, len(masses))
	for i, m := range masses {
		out[i] = m
		if m.Bottom != nil {
			b := *m.Bottom
			out[i].Bottom = &b
		}
	}
	return out
}

// ShiftMasses returns a copy of the mass list with all elevations displaced
// by dz. Point masses keep their nil Bottom.
func ShiftMasses(masses []AddedMass, dz float64) []AddedMass {
	out := CloneMasses(masses)
	for i := range out {
		out[i].Top += dz
		if out[i].Bottom != nil {
			*out[i].Bottom += dz
		}
	}
	return out
}

// TagMasses returns a copy of the mass list with every entry assigned to aff.
func TagMasses(masses []AddedMass, aff Affiliation) []AddedMass {
	out := CloneMasses(masses)
	for i := range out {
		out[i].Affiliation = aff
	}
	return out
}
