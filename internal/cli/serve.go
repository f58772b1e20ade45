package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/AaronLge/GeometrieConverter/internal/api"
)

// defaultListenAddr is used when neither the flag nor the config set one.
const defaultListenAddr = ":8080"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API for assembly runs and structure management.

The service exposes POST /api/v1/assemble plus CRUD endpoints for the
named-structure database, and GET /healthz for liveness checks. Interactive
decisions are not available over HTTP; requests must preset the overlap mode
and the conflict policy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), listen, dbPath)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default \":8080\")")
	cmd.Flags().StringVar(&dbPath, "db", "", "named-structure database path")

	return cmd
}

// runServe blocks until the context is cancelled or the server fails.
func (c *CLI) runServe(ctx context.Context, listen, dbPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listen == "" {
		listen = cfg.Listen
	}
	if listen == "" {
		listen = defaultListenAddr
	}

	store, err := openStore(dbPath, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              listen,
		Handler:           api.NewServer(store, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	c.Logger.Info("listening", "addr", listen)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
