// Package assembly provides the core assembly pipeline for GeometrieConverter.
//
// This package implements the complete validate → reconcile → junction →
// align → assemble pipeline that can be used by CLI and API components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Validate: check each segment table for numeric validity and continuity
//  2. Reconcile: resolve the shared height reference and seabed level
//  3. Junction: classify the MP/TP fit and extract a skirt on overlap
//  4. Align: shift the tower onto the top of the MP+TP stack
//  5. Assemble: concatenate, renumber sections and merge the added masses
//
// Each stage is a pure function over segment and mass tables; the Runner
// composes them and carries logging and timings.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := assembly.NewRunner(logger)
//	opts := assembly.Options{
//	    Rho:         7850,
//	    OverlapMode: assembly.OverlapSkirt,
//	}
//	result, err := runner.Execute(ctx, inputs, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rows := result.Assembled
//
// Decision points (conflicting height references, overlap resolution) are
// surfaced as [ConfirmRequest] values through Options.Confirm; the core never
// talks to a user itself. Non-interactive callers preset the answers via
// Options.OnConflict and Options.OverlapMode instead.
package assembly

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// DefaultRho is the steel density in kg/m³ used when Options.Rho is unset.
const DefaultRho = 7850.0

// OverlapMode selects how an MP/TP overlap is resolved.
type OverlapMode string

const (
	// OverlapAsk defers the choice to the confirmation channel.
	OverlapAsk OverlapMode = "ask"
	// OverlapSkirt extracts the overlapping TP portion as a skirt.
	OverlapSkirt OverlapMode = "skirt"
	// OverlapGrouted merges the overlap as a grouted connection. Not
	// implemented; selecting it aborts the run with UNSUPPORTED.
	OverlapGrouted OverlapMode = "grouted"
)

// ConflictPolicy selects how conflicting height references are handled.
type ConflictPolicy string

const (
	// ConflictAsk defers the decision to the confirmation channel.
	ConflictAsk ConflictPolicy = "ask"
	// ConflictProceed assembles anyway, leaving the reference unset.
	ConflictProceed ConflictPolicy = "proceed"
	// ConflictAbort fails the run.
	ConflictAbort ConflictPolicy = "abort"
)

// ValidOverlapModes is the set of accepted overlap modes.
var ValidOverlapModes = map[OverlapMode]bool{
	OverlapAsk:     true,
	OverlapSkirt:   true,
	OverlapGrouted: true,
}

// ValidConflictPolicies is the set of accepted conflict policies.
var ValidConflictPolicies = map[ConflictPolicy]bool{
	ConflictAsk:     true,
	ConflictProceed: true,
	ConflictAbort:   true,
}

// ConfirmKind identifies which decision a ConfirmRequest asks for.
type ConfirmKind string

const (
	// ConfirmReferenceConflict asks whether to assemble despite differing
	// height references. Response: Proceed.
	ConfirmReferenceConflict ConfirmKind = "reference-conflict"
	// ConfirmOverlapMode asks how to resolve an MP/TP overlap.
	// Response: Mode (skirt or grouted).
	ConfirmOverlapMode ConfirmKind = "overlap-mode"
)

// ConfirmRequest is a decision the pipeline cannot make on its own. The
// caller answers it (terminal prompt, API preset, test stub); the pipeline
// blocks on the callback, never on a UI.
type ConfirmRequest struct {
	Kind    ConfirmKind
	Message string

	// References holds the raw height references keyed by MP, TP and TOWER.
	// Set for reference-conflict requests.
	References map[string]string

	// Overlap is the MP/TP overlap depth in meters. Set for overlap-mode
	// requests.
	Overlap float64
}

// ConfirmResponse answers a ConfirmRequest. Proceed is read for
// reference-conflict requests, Mode for overlap-mode requests.
type ConfirmResponse struct {
	Proceed bool
	Mode    OverlapMode
}

// ConfirmFunc answers decision requests during a pipeline run.
type ConfirmFunc func(ctx context.Context, req ConfirmRequest) (ConfirmResponse, error)

// Options contains all configuration for one assembly run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Rho is the steel density in kg/m³ for skirt mass integration.
	Rho float64 `json:"rho,omitempty"`

	// RNA selects an entry from the RNA catalog by identifier. Empty means
	// no RNA, which is allowed but logged as a warning.
	RNA string `json:"rna,omitempty"`

	// OverlapMode presets the MP/TP overlap resolution.
	OverlapMode OverlapMode `json:"overlap_mode,omitempty"`

	// OnConflict presets the height-reference conflict decision.
	OnConflict ConflictPolicy `json:"on_conflict,omitempty"`

	// Runtime options (not serialized)
	Confirm ConfirmFunc `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Rho == 0 {
		o.Rho = DefaultRho
	}
	if o.Rho < 0 {
		return fmt.Errorf("rho must be positive, got %g", o.Rho)
	}
	if o.OverlapMode == "" {
		o.OverlapMode = OverlapAsk
	}
	if !ValidOverlapModes[o.OverlapMode] {
		return fmt.Errorf("invalid overlap mode %q (must be one of: ask, skirt, grouted)", o.OverlapMode)
	}
	if o.OnConflict == "" {
		o.OnConflict = ConflictAsk
	}
	if !ValidConflictPolicies[o.OnConflict] {
		return fmt.Errorf("invalid conflict policy %q (must be one of: ask, proceed, abort)", o.OnConflict)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Inputs carries the three structure bundles and the optional RNA catalog
// for one run.
type Inputs struct {
	MP    structure.Bundle `json:"mp"`
	TP    structure.Bundle `json:"tp"`
	Tower structure.Bundle `json:"tower"`

	// RNACatalog lists the selectable rotor-nacelle assemblies.
	RNACatalog []structure.RNA `json:"rna_catalog,omitempty"`
}

// Row is one section of the assembled structure. Section numbers run 1..N
// top to bottom over the whole stack; Local preserves the section number the
// row had in its source table.
type Row struct {
	Section     int                   `json:"section"`
	Local       int                   `json:"local_section"`
	Affiliation structure.Affiliation `json:"affiliation"`
	Top         float64               `json:"top_m"`
	Bottom      float64               `json:"bottom_m"`
	DTop        float64               `json:"d_top_m"`
	DBottom     float64               `json:"d_bottom_m"`
	Thickness   float64               `json:"t_mm"`
}

// Result contains the outputs of one assembly run.
type Result struct {
	// Assembled is the full stack, tower top first, sections numbered 1..N.
	Assembled []Row `json:"assembled"`

	// Skirt and SkirtMass are set when an overlap was resolved in skirt
	// mode: the extracted TP segments and their aggregated point mass.
	Skirt     structure.Structure  `json:"skirt,omitempty"`
	SkirtMass *structure.AddedMass `json:"skirt_mass,omitempty"`

	// Masses is the merged added-mass table, sorted by top elevation
	// descending.
	Masses []structure.AddedMass `json:"masses,omitempty"`

	// Datum is the reconciled height reference and seabed level.
	Datum Datum `json:"datum"`

	// Junction describes the MP/TP fit that was resolved.
	Junction Junction `json:"junction"`

	// RNA echoes the selected catalog entry, if any.
	RNA *structure.RNA `json:"rna,omitempty"`

	// TowerOffset is the vertical displacement applied to the tower.
	TowerOffset float64 `json:"tower_offset_m"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SectionCount int           `json:"section_count"`
	MassCount    int           `json:"mass_count"`
	ValidateTime time.Duration `json:"validate_time"`
	JunctionTime time.Duration `json:"junction_time"`
	AssembleTime time.Duration `json:"assemble_time"`
}
