package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/storage"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
	"github.com/AaronLge/GeometrieConverter/pkg/table"
)

// =============================================================================
// Input Sources
// =============================================================================

// roleFlags names the input source for one structure role: a segment CSV
// (with optional masses and meta files) or a database identifier.
type roleFlags struct {
	segments string
	masses   string
	meta     string
	id       string
}

// register adds the per-role flags, e.g. --mp, --mp-masses, --mp-meta and
// --mp-id for the MP role.
func (r *roleFlags) register(cmd *cobra.Command, role string) {
	cmd.Flags().StringVar(&r.segments, role, "", role+" segment CSV file")
	cmd.Flags().StringVar(&r.masses, role+"-masses", "", role+" added-mass CSV file")
	cmd.Flags().StringVar(&r.meta, role+"-meta", "", role+" metadata CSV file")
	cmd.Flags().StringVar(&r.id, role+"-id", "", role+" structure identifier in the database")
}

// set reports whether any source was named on the command line.
func (r roleFlags) set() bool {
	return r.segments != "" || r.id != ""
}

// merge fills the role from a project file entry unless flags already named
// a source.
func (r *roleFlags) merge(src projectSource) {
	if r.set() {
		return
	}
	r.segments = src.Segments
	r.masses = src.Masses
	r.meta = src.Meta
	r.id = src.ID
}

// inputFlags collects the input sources shared by assemble and render.
type inputFlags struct {
	project     string
	interactive bool
	dbPath      string
	rnaCatalog  string

	mp    roleFlags
	tp    roleFlags
	tower roleFlags
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "TOML project file with input sources and options")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "pick unspecified structures from the database")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "named-structure database path")
	cmd.Flags().StringVar(&f.rnaCatalog, "rna-catalog", "", "RNA catalog CSV file")
	f.mp.register(cmd, "mp")
	f.tp.register(cmd, "tp")
	f.tower.register(cmd, "tower")
}

// resolveInputs gathers the three structure bundles and the RNA catalog.
// Flags win over the project file; roles without a named source fall back to
// the interactive picker when enabled. The database is opened at most once
// and closed before returning.
func (c *CLI) resolveInputs(ctx context.Context, f inputFlags, proj projectFile, cfg Config) (assembly.Inputs, error) {
	f.mp.merge(proj.MP)
	f.tp.merge(proj.TP)
	f.tower.merge(proj.Tower)
	if f.rnaCatalog == "" {
		f.rnaCatalog = proj.RNACatalog
	}

	var in assembly.Inputs
	var store storage.Store
	defer func() {
		if store != nil {
			store.Close()
		}
	}()
	open := func() error {
		if store != nil {
			return nil
		}
		var err error
		store, err = openStore(f.dbPath, cfg)
		return err
	}

	roles := []struct {
		kind   storage.Kind
		flags  roleFlags
		bundle *structure.Bundle
	}{
		{storage.KindMP, f.mp, &in.MP},
		{storage.KindTP, f.tp, &in.TP},
		{storage.KindTower, f.tower, &in.Tower},
	}
	for _, role := range roles {
		switch {
		case role.flags.segments != "":
			b, err := table.LoadBundle(role.flags.segments, role.flags.masses, role.flags.meta)
			if err != nil {
				return assembly.Inputs{}, err
			}
			*role.bundle = b
		case role.flags.id != "":
			if err := open(); err != nil {
				return assembly.Inputs{}, err
			}
			b, err := store.Get(ctx, role.kind, role.flags.id)
			if err != nil {
				return assembly.Inputs{}, err
			}
			*role.bundle = b
		case f.interactive:
			if err := open(); err != nil {
				return assembly.Inputs{}, err
			}
			b, err := c.pickStructure(ctx, store, role.kind)
			if err != nil {
				return assembly.Inputs{}, err
			}
			*role.bundle = b
		default:
			flag := strings.ToLower(string(role.kind))
			return assembly.Inputs{}, fmt.Errorf("no %s input: pass --%s, --%s-id, a project file or --interactive", role.kind, flag, flag)
		}
	}

	if f.rnaCatalog != "" {
		catalog, err := table.LoadRNACatalog(f.rnaCatalog)
		if err != nil {
			return assembly.Inputs{}, err
		}
		in.RNACatalog = catalog
	}
	return in, nil
}

// =============================================================================
// Run Options
// =============================================================================

// optionFlags collects the assembly option flags shared by assemble and
// render.
type optionFlags struct {
	rho        float64
	rna        string
	overlap    string
	onConflict string
	yes        bool
}

func (o *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.rho, "rho", 0, "steel density in kg/m³ for the skirt mass (default 7850)")
	cmd.Flags().StringVar(&o.rna, "rna", "", "RNA identifier from the catalog")
	cmd.Flags().StringVar(&o.overlap, "overlap", "", "MP/TP overlap resolution: ask, skirt or grouted")
	cmd.Flags().StringVar(&o.onConflict, "on-conflict", "", "height-reference conflict policy: ask, proceed or abort")
	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "never prompt; unset decisions resolve to skirt and proceed")
}

// options builds assembly options from flags, project file and config, in
// that order of precedence. Unless --yes was given, undecided questions are
// answered through a terminal prompt.
func (o optionFlags) options(c *CLI, proj projectFile, cfg Config) assembly.Options {
	opts := assembly.Options{
		Rho:         o.rho,
		RNA:         o.rna,
		OverlapMode: assembly.OverlapMode(o.overlap),
		OnConflict:  assembly.ConflictPolicy(o.onConflict),
		Logger:      c.Logger,
	}
	if opts.Rho == 0 {
		opts.Rho = proj.Rho
	}
	if opts.Rho == 0 {
		opts.Rho = cfg.Rho
	}
	if opts.RNA == "" {
		opts.RNA = proj.RNA
	}
	if opts.OverlapMode == "" {
		opts.OverlapMode = assembly.OverlapMode(proj.Overlap)
	}
	if opts.OnConflict == "" {
		opts.OnConflict = assembly.ConflictPolicy(proj.OnConflict)
	}

	if o.yes {
		if opts.OverlapMode == "" || opts.OverlapMode == assembly.OverlapAsk {
			opts.OverlapMode = assembly.OverlapSkirt
		}
		if opts.OnConflict == "" || opts.OnConflict == assembly.ConflictAsk {
			opts.OnConflict = assembly.ConflictProceed
		}
	} else {
		opts.Confirm = confirmViaTerminal(os.Stdin, os.Stdout)
	}
	return opts
}
