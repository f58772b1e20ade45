package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AaronLge/GeometrieConverter/pkg/storage"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "move <kind> <identifier> <dz>",
		Short: "Displace a stored structure vertically",
		Long: `Displace a stored structure vertically by dz meters.

All segment and added-mass elevations are shifted; diameters, wall
thicknesses and section numbers are untouched. The height reference is
cleared because the recorded datum no longer describes the shifted
elevations.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := storage.ParseKind(args[0])
			if err != nil {
				return err
			}
			dz, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("parse displacement %q: %w", args[2], err)
			}

			store, err := c.openDB(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			b, err := store.Get(ctx, kind, args[1])
			if err != nil {
				return err
			}
			moved := moveBundle(b, dz)
			if err := store.Replace(ctx, kind, args[1], moved); err != nil {
				return err
			}

			printSuccess("Moved %s structure %q by %+g m", kind, args[1], dz)
			if b.Meta.HeightReference != "" {
				printWarning("Height reference %q cleared", b.Meta.HeightReference)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "named-structure database path")

	return cmd
}

// moveBundle shifts all elevations by dz and clears the height reference,
// which no longer describes the shifted structure.
func moveBundle(b structure.Bundle, dz float64) structure.Bundle {
	out := b.Clone()
	out.Segments = out.Segments.Shift(dz)
	out.Masses = structure.ShiftMasses(out.Masses, dz)
	out.Meta.HeightReference = ""
	return out
}
