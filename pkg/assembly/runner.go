package assembly

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// Runner executes the assembly pipeline.
//
// The Runner is stateless except for the logger - it doesn't store run
// results. Multiple goroutines can safely use the same Runner with different
// inputs and options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete validate → reconcile → junction → align →
// assemble pipeline.
//
// Interactive decisions go through opts.Confirm; without a callback the
// preset policies in opts decide, and a decision that cannot be made
// non-interactively fails the run. On any error no partial result is
// returned.
func (r *Runner) Execute(ctx context.Context, in Inputs, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid options")
	}
	logger := opts.Logger

	result := &Result{}

	// Stage 1: Validate
	validateStart := time.Now()
	if err := validateInputs(in); err != nil {
		return nil, err
	}
	result.Stats.ValidateTime = time.Since(validateStart)

	logger.Info("validated segment tables",
		"mp", in.MP.Segments.Len(),
		"tp", in.TP.Segments.Len(),
		"tower", in.Tower.Segments.Len(),
		"duration", result.Stats.ValidateTime)

	rna, err := selectRNA(in.RNACatalog, opts.RNA, logger)
	if err != nil {
		return nil, err
	}
	result.RNA = rna

	// Stage 2: Reconcile datum
	datum := ReconcileDatum(in.MP.Meta, in.TP.Meta, in.Tower.Meta)
	result.Datum = datum
	if datum.Consistent {
		logger.Info("height references agree",
			"mp", datum.References["MP"],
			"tp", datum.References["TP"],
			"tower", datum.References["TOWER"])
	} else if err := r.resolveConflict(ctx, datum, opts); err != nil {
		return nil, err
	}

	// Stage 3: Junction
	junctionStart := time.Now()
	mpTop := in.MP.Segments.Top()
	tpBottom := in.TP.Segments.Bottom()
	junction := Fit(mpTop, tpBottom)
	result.Junction = junction

	tp := in.TP.Segments
	switch junction.Kind {
	case JunctionGap:
		return nil, errs.New(errs.ErrCodeJunctionGap,
			"the TP bottom at %g m hovers %g m above the MP top at %g m",
			tpBottom, junction.Distance, mpTop)

	case JunctionFlush:
		logger.Info("MP and TP fit together perfectly", "elevation", mpTop)

	case JunctionOverlap:
		mode, err := r.resolveOverlap(ctx, junction, opts)
		if err != nil {
			return nil, err
		}
		if mode == OverlapGrouted {
			return nil, errs.New(errs.ErrCodeUnsupported,
				"grouted MP/TP connection is not implemented")
		}
		skirt, err := ExtractSkirt(tp, mpTop, opts.Rho)
		if err != nil {
			return nil, err
		}
		tp = skirt.TP
		result.Skirt = skirt.Skirt
		result.SkirtMass = &skirt.PointMass
		logger.Info("extracted skirt",
			"overlap", junction.Distance,
			"sections", skirt.Skirt.Len(),
			"mass", skirt.PointMass.Mass,
			"centroid", skirt.PointMass.Top)
	}
	result.Stats.JunctionTime = time.Since(junctionStart)

	// Stages 4+5: Align, assemble, aggregate
	assembleStart := time.Now()
	stackTop := mpTop
	if tp.Len() > 0 {
		stackTop = tp.Top()
	}
	tower, towerMasses, offset := AlignTower(in.Tower.Segments, in.Tower.Masses, stackTop)
	result.TowerOffset = offset

	result.Assembled = BuildStack(tower, tp, in.MP.Segments)
	result.Masses = AggregateMasses(in.MP.Masses, in.TP.Masses, towerMasses)
	result.Stats.AssembleTime = time.Since(assembleStart)
	result.Stats.SectionCount = len(result.Assembled)
	result.Stats.MassCount = len(result.Masses)

	logger.Info("assembled structure",
		"sections", result.Stats.SectionCount,
		"masses", result.Stats.MassCount,
		"top", result.Assembled[0].Top,
		"bottom", result.Assembled[len(result.Assembled)-1].Bottom,
		"tower_offset", offset,
		"duration", result.Stats.AssembleTime)

	return result, nil
}

// validateInputs runs the segment validator over the three tables. The first
// failure aborts; its message names the table.
func validateInputs(in Inputs) error {
	tables := []struct {
		name string
		segs structure.Structure
	}{
		{"MP", in.MP.Segments},
		{"TP", in.TP.Segments},
		{"TOWER", in.Tower.Segments},
	}
	for _, t := range tables {
		if err := t.segs.Validate(); err != nil {
			return errs.Wrap(errs.GetCode(err), err, "%s segment table", t.name)
		}
	}
	return nil
}

// selectRNA resolves the chosen RNA identifier against the catalog. No
// selection is allowed but worth a warning; an identifier missing from the
// catalog fails the run.
func selectRNA(catalog []structure.RNA, id string, logger *log.Logger) (*structure.RNA, error) {
	if id == "" {
		logger.Warn("no RNA selected")
		return nil, nil
	}
	for _, rna := range catalog {
		if rna.Identifier == id {
			logger.Info("selected RNA", "identifier", rna.Identifier, "mass", rna.Mass)
			return &rna, nil
		}
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "RNA %q is not in the catalog", id)
}

// resolveConflict decides whether to assemble despite differing height
// references, per the preset policy or the confirmation channel.
func (r *Runner) resolveConflict(ctx context.Context, datum Datum, opts Options) error {
	conflict := errs.New(errs.ErrCodeReferenceConflict,
		"height references differ (MP: %q, TP: %q, TOWER: %q)",
		datum.References["MP"], datum.References["TP"], datum.References["TOWER"])

	switch opts.OnConflict {
	case ConflictProceed:
		opts.Logger.Warn("height references differ, assembling anyway",
			"mp", datum.References["MP"],
			"tp", datum.References["TP"],
			"tower", datum.References["TOWER"])
		return nil
	case ConflictAbort:
		return conflict
	}

	if opts.Confirm == nil {
		return errs.Wrap(errs.ErrCodeReferenceConflict, conflict,
			"no confirmation channel; preset on_conflict to proceed or abort")
	}
	resp, err := opts.Confirm(ctx, ConfirmRequest{
		Kind: ConfirmReferenceConflict,
		Message: fmt.Sprintf(
			"Not all height references are the same (MP: %q, TP: %q, TOWER: %q). Assemble anyway?",
			datum.References["MP"], datum.References["TP"], datum.References["TOWER"]),
		References: datum.References,
	})
	if err != nil {
		return fmt.Errorf("confirm height references: %w", err)
	}
	if !resp.Proceed {
		return conflict
	}
	opts.Logger.Warn("height references differ, assembling on user confirmation")
	return nil
}

// resolveOverlap picks the overlap resolution mode, asking through the
// confirmation channel when no mode is preset.
func (r *Runner) resolveOverlap(ctx context.Context, junction Junction, opts Options) (OverlapMode, error) {
	if opts.OverlapMode != OverlapAsk {
		return opts.OverlapMode, nil
	}
	if opts.Confirm == nil {
		return "", errs.New(errs.ErrCodeInvalidInput,
			"MP and TP overlap by %g m and no overlap_mode is preset; set skirt or grouted", junction.Distance)
	}
	resp, err := opts.Confirm(ctx, ConfirmRequest{
		Kind: ConfirmOverlapMode,
		Message: fmt.Sprintf(
			"The MP and the TP are overlapping by %g m. Merge as grouted connection or add as skirt?",
			junction.Distance),
		Overlap: junction.Distance,
	})
	if err != nil {
		return "", fmt.Errorf("confirm overlap mode: %w", err)
	}
	switch resp.Mode {
	case OverlapSkirt, OverlapGrouted:
		return resp.Mode, nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "invalid overlap mode %q from confirmation", resp.Mode)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
