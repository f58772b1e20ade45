package structure

// RNA describes one rotor-nacelle-assembly option from the RNA catalog. The
// assembled overview echoes the selected entry for downstream load
// calculations; the geometry pipeline itself never integrates it.
type RNA struct {
	Identifier string  `json:"identifier"`
	Mass       float64 `json:"mass_t"`
	CogZ       float64 `json:"cog_z_m"`
	Comment    string  `json:"comment,omitempty"`
}
