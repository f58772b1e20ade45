package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/table"
)

// assembleCommand creates the assemble command, the main entry point of the
// tool.
func (c *CLI) assembleCommand() *cobra.Command {
	var (
		in     inputFlags
		op     optionFlags
		out    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Join MP, TP and tower tables into one support structure",
		Long: `Join monopile, transition-piece and tower geometry tables into one
continuous support structure.

Each structure comes from CSV files (--mp, --mp-masses, --mp-meta), from the
named-structure database (--mp-id, or --interactive for a picker), or from a
TOML project file (--project). Height references are reconciled across the
inputs, the MP/TP junction is classified, and an overlap is either extracted
as a skirt or rejected as an unsupported grouted connection.

The assembled tables are written as CSV files to the output directory: the
renumbered section table, the merged added masses, the skirt and its point
mass, the datum overview and the selected RNA.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAssemble(cmd.Context(), in, op, out, asJSON)
		},
	}

	in.register(cmd)
	op.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory for the assembled tables")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON instead of writing tables")

	return cmd
}

// runAssemble resolves the inputs, executes the pipeline and writes the
// output tables.
func (c *CLI) runAssemble(ctx context.Context, f inputFlags, o optionFlags, out string, asJSON bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	proj, err := loadProjectIfSet(f.project)
	if err != nil {
		return err
	}
	inputs, err := c.resolveInputs(ctx, f, proj, cfg)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	res, err := assembly.NewRunner(c.Logger).Execute(ctx, inputs, o.options(c, proj, cfg))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Assembled %d sections", len(res.Assembled)))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if out == "" {
		out = proj.Out
	}
	if out == "" {
		out = cfg.OutputDir
	}
	if out == "" {
		out = "."
	}
	if err := table.WriteResult(out, res); err != nil {
		return err
	}

	printAssembleSummary(res, out)
	return nil
}

// printAssembleSummary reports the run outcome and the files written.
func printAssembleSummary(res *assembly.Result, dir string) {
	printSuccess("Assembled %d sections (%s junction)", len(res.Assembled), res.Junction.Kind)
	if res.Junction.Distance != 0 {
		printDetail("MP/TP %s: %.3f m", res.Junction.Kind, res.Junction.Distance)
	}
	if res.TowerOffset != 0 {
		printDetail("Tower shifted by %+.3f m", res.TowerOffset)
	}
	if res.Datum.HeightReference != "" {
		printDetail("Height reference: %s", res.Datum.HeightReference)
	}
	if res.Datum.Seabed != nil {
		printDetail("Seabed level: %.2f m", *res.Datum.Seabed)
	}
	if res.SkirtMass != nil {
		printDetail("Skirt mass: %.3f t at %.2f m", res.SkirtMass.Mass, res.SkirtMass.Top)
	}
	if res.RNA != nil {
		printDetail("RNA: %s (%.1f t)", res.RNA.Identifier, res.RNA.Mass)
	}

	for _, name := range writtenFiles(res) {
		printFile(filepath.Join(dir, name))
	}

	printNewline()
	printNextStep("Draw the elevation profile", "geoconv render")
}

// writtenFiles lists the table files WriteResult produced for this result.
func writtenFiles(res *assembly.Result) []string {
	names := []string{table.FileAssembled, table.FileOverview, table.FileMasses}
	if res.Skirt.Len() > 0 {
		names = append(names, table.FileSkirt)
	}
	if res.SkirtMass != nil {
		names = append(names, table.FileSkirtMass)
	}
	if res.RNA != nil {
		names = append(names, table.FileRNA)
	}
	return names
}
