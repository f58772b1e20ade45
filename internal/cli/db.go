package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/AaronLge/GeometrieConverter/pkg/storage"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
	"github.com/AaronLge/GeometrieConverter/pkg/table"
)

// dbCommand creates the named-structure database management command.
func (c *CLI) dbCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the named-structure database",
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "named-structure database path")

	cmd.AddCommand(c.dbListCommand(&dbPath))
	cmd.AddCommand(c.dbShowCommand(&dbPath))
	cmd.AddCommand(c.dbSaveCommand(&dbPath))
	cmd.AddCommand(c.dbDeleteCommand(&dbPath))
	cmd.AddCommand(c.dbExportCommand(&dbPath))
	cmd.AddCommand(c.dbPathCommand(&dbPath))

	return cmd
}

// dbListCommand creates the "db list" subcommand.
func (c *CLI) dbListCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list [MP|TP|TOWER]",
		Short: "List stored structures",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := storage.Kinds
			if len(args) == 1 {
				kind, err := storage.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []storage.Kind{kind}
			}

			store, err := c.openDB(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			total := 0
			for _, kind := range kinds {
				entries, err := store.List(cmd.Context(), kind)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					continue
				}
				total += len(entries)
				printEntryTable(kind, entries)
			}
			if total == 0 {
				printInfo("No structures stored")
			}
			return nil
		},
	}
}

// dbShowCommand creates the "db show" subcommand.
func (c *CLI) dbShowCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <kind> <identifier>",
		Short: "Show one stored structure",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := storage.ParseKind(args[0])
			if err != nil {
				return err
			}

			store, err := c.openDB(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := store.Get(cmd.Context(), kind, args[1])
			if err != nil {
				return err
			}
			printBundle(kind, b)
			return nil
		},
	}
}

// dbSaveCommand creates the "db save" subcommand.
func (c *CLI) dbSaveCommand(dbPath *string) *cobra.Command {
	var segments, masses, meta string

	cmd := &cobra.Command{
		Use:   "save <kind> <identifier>",
		Short: "Save a structure from CSV files",
		Long: `Save a structure to the database under a new identifier.

The segment table is validated before insert; saving under an identifier
that already exists for the kind is refused.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := storage.ParseKind(args[0])
			if err != nil {
				return err
			}
			b, err := table.LoadBundle(segments, masses, meta)
			if err != nil {
				return err
			}
			b.Meta.Identifier = args[1]
			if err := b.Segments.Validate(); err != nil {
				return err
			}

			store, err := c.openDB(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(cmd.Context(), kind, b); err != nil {
				return err
			}
			printSuccess("Saved %s structure %q (%d sections, %d masses)", kind, args[1], b.Segments.Len(), len(b.Masses))
			return nil
		},
	}

	cmd.Flags().StringVar(&segments, "segments", "", "segment CSV file (required)")
	cmd.Flags().StringVar(&masses, "masses", "", "added-mass CSV file")
	cmd.Flags().StringVar(&meta, "meta", "", "metadata CSV file")
	_ = cmd.MarkFlagRequired("segments")

	return cmd
}

// dbDeleteCommand creates the "db delete" subcommand.
func (c *CLI) dbDeleteCommand(dbPath *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <kind> <identifier>",
		Short: "Delete a stored structure",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := storage.ParseKind(args[0])
			if err != nil {
				return err
			}

			if !yes {
				question := fmt.Sprintf("Delete %s structure %q?", kind, args[1])
				ok, err := promptYesNo(bufio.NewReader(os.Stdin), os.Stdout, question)
				if err != nil {
					return err
				}
				if !ok {
					printInfo("Aborted")
					return nil
				}
			}

			store, err := c.openDB(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), kind, args[1]); err != nil {
				return err
			}
			printSuccess("Deleted %s structure %q", kind, args[1])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without confirmation")

	return cmd
}

// dbExportCommand creates the "db export" subcommand.
func (c *CLI) dbExportCommand(dbPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <kind> <identifier>",
		Short: "Export a stored structure back to CSV files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := storage.ParseKind(args[0])
			if err != nil {
				return err
			}

			store, err := c.openDB(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := store.Get(cmd.Context(), kind, args[1])
			if err != nil {
				return err
			}

			written, err := exportBundle(out, b)
			if err != nil {
				return err
			}
			printSuccess("Exported %s structure %q", kind, args[1])
			for _, path := range written {
				printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")

	return cmd
}

// dbPathCommand creates the "db path" subcommand.
func (c *CLI) dbPathCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the database path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path := *dbPath
			if path == "" {
				path = cfg.Database
			}
			if path == "" {
				path, err = storage.DefaultPath()
				if err != nil {
					return fmt.Errorf("resolve database path: %w", err)
				}
			}
			fmt.Println(path)
			return nil
		},
	}
}

// =============================================================================
// Export
// =============================================================================

// exportBundle writes a bundle back to CSV files named after its identifier.
// The added-mass file is only written when the bundle has masses.
func exportBundle(dir string, b structure.Bundle) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
		skip  bool
	}{
		{b.Meta.Identifier + ".csv", func(w io.Writer) error { return table.WriteSegments(w, b.Segments) }, false},
		{b.Meta.Identifier + "_masses.csv", func(w io.Writer) error { return table.WriteMasses(w, b.Masses) }, len(b.Masses) == 0},
		{b.Meta.Identifier + "_meta.csv", func(w io.Writer) error { return table.WriteMeta(w, b.Meta) }, false},
	}

	var written []string
	for _, f := range files {
		if f.skip {
			continue
		}
		path := filepath.Join(dir, f.name)
		if err := writeFileTo(path, f.write); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFileTo(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// =============================================================================
// Display
// =============================================================================

// printEntryTable renders one kind's entries as a bordered table.
func printEntryTable(kind storage.Kind, entries []storage.Entry) {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = entryRow(e)
	}

	fmt.Println(StyleTitle.Render(string(kind)))
	fmt.Println(newDisplayTable("Identifier", "Sections", "Masses", "Reference", "Depth", "Updated").Rows(rows...).Render())
}

// printBundle renders one structure's metadata, segments and masses.
func printBundle(kind storage.Kind, b structure.Bundle) {
	printKeyValue("Kind", string(kind))
	printKeyValue("Identifier", b.Meta.Identifier)
	printKeyValue("Height reference", orDash(b.Meta.HeightReference))
	printKeyValue("Water depth", formatDepth(b.Meta.WaterDepth))
	printNewline()

	segRows := make([][]string, b.Segments.Len())
	for i, s := range b.Segments {
		segRows[i] = []string{
			strconv.Itoa(s.Section),
			fnum(s.Top), fnum(s.Bottom),
			fnum(s.DTop), fnum(s.DBottom),
			fnum(s.Thickness),
		}
	}
	fmt.Println(newDisplayTable("Section", "Top [m]", "Bottom [m]", "D top [m]", "D bottom [m]", "t [mm]").Rows(segRows...).Render())

	if len(b.Masses) == 0 {
		return
	}
	printNewline()
	massRows := make([][]string, len(b.Masses))
	for i, m := range b.Masses {
		bottom := "—"
		if m.Bottom != nil {
			bottom = fnum(*m.Bottom)
		}
		massRows[i] = []string{fnum(m.Top), bottom, fnum(m.Mass), m.Comment}
	}
	fmt.Println(newDisplayTable("Top [m]", "Bottom [m]", "Mass [t]", "Comment").Rows(massRows...).Render())
}

// newDisplayTable builds a bordered lipgloss table with the shared styling.
func newDisplayTable(headers ...string) *ltable.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
}

// fnum formats a float the way the CSV tables do.
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
