package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/render/profile"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		in     inputFlags
		op     optionFlags
		out    string
		title  string
		width  float64
		height float64
		masses bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw an SVG elevation profile of the assembled structure",
		Long: `Assemble the structure and draw its elevation profile as an SVG file.

Segments are drawn as trapezoids colored by affiliation, with the waterline,
the seabed and an elevation scale. Added-mass markers are optional. Inputs
are resolved exactly like for assemble.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var renderOpts []profile.Option
			if width > 0 && height > 0 {
				renderOpts = append(renderOpts, profile.WithSize(width, height))
			}
			if title != "" {
				renderOpts = append(renderOpts, profile.WithTitle(title))
			}
			if masses {
				renderOpts = append(renderOpts, profile.WithMasses())
			}
			return c.runRender(cmd.Context(), in, op, out, renderOpts)
		},
	}

	in.register(cmd)
	op.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "structure.svg", "output SVG file")
	cmd.Flags().StringVar(&title, "title", "", "profile title")
	cmd.Flags().Float64Var(&width, "width", 0, "image width in pixels")
	cmd.Flags().Float64Var(&height, "height", 0, "image height in pixels")
	cmd.Flags().BoolVar(&masses, "masses", false, "draw added-mass markers")

	return cmd
}

// runRender assembles the structure and writes the SVG profile.
func (c *CLI) runRender(ctx context.Context, f inputFlags, o optionFlags, out string, renderOpts []profile.Option) error {
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

	res, err := assembly.NewRunner(c.Logger).Execute(ctx, inputs, o.options(c, proj, cfg))
	if err != nil {
		return err
	}

	svg := profile.Render(res, renderOpts...)
	if err := os.WriteFile(out, svg, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Rendered elevation profile (%d sections)", len(res.Assembled))
	printFile(out)
	return nil
}
