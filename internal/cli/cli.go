// Package cli implements the geoconv command-line interface.
//
// This package provides commands for assembling monopile, transition-piece
// and tower geometry tables into one support structure, managing the
// named-structure database, rendering elevation profiles and serving the
// HTTP API. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - assemble: Join MP, TP and tower tables into one structure
//   - render: Draw an SVG elevation profile of the assembled structure
//   - db: Manage the named-structure database
//   - move: Displace a stored structure vertically
//   - serve: Start the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Decision
// prompts (height-reference conflicts, overlap handling) can be preset with
// flags so every command also works non-interactively.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/AaronLge/GeometrieConverter/pkg/buildinfo"
	"github.com/AaronLge/GeometrieConverter/pkg/storage"
)

// appName is the application name used for directories and display.
const appName = "geoconv"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "geoconv",
		Short:         "Geoconv assembles offshore support-structure geometries",
		Long:          `Geoconv joins monopile, transition-piece and tower geometry tables into one continuous support structure, reconciling height references, classifying the MP/TP junction and merging added masses along the way.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.assembleCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dbCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// openStore opens the named-structure database, preferring the explicit path
// over the configured one. An empty path falls back to the default location
// under the user data directory.
func openStore(path string, cfg Config) (storage.Store, error) {
	if path == "" {
		path = cfg.Database
	}
	return storage.Open(path)
}

// openDB loads the user config and opens the database in one step, for
// commands that need nothing else from the config.
func (c *CLI) openDB(path string) (storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openStore(path, cfg)
}
