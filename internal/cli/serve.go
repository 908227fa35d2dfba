package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/roster-api/internal/http/router"
	"github.com/aanand-mishra/roster-api/internal/storage/schema"
	"github.com/aanand-mishra/roster-api/internal/storage/sqlite"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

STARTUP SEQUENCE:
  1. Create the database if it does not exist yet
  2. Open the configured storage backend (orm or sql)
  3. Register all HTTP routes
  4. Start the HTTP server in a separate goroutine
  5. Block until an OS signal (Ctrl+C / kill) arrives
  6. Gracefully shut down: finish in-flight requests, then exit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}
}

func (c *CLI) serve(ctx context.Context) error {
	log := c.log
	cfg := c.cfg

	log.Info().
		Str("env", cfg.Env).
		Str("backend", cfg.Backend).
		Str("version", Version).
		Msg("starting roster api")

	// ── 1. Make sure the database exists ──────────────────────────────────
	res, err := schema.Init(ctx, schema.Options{StoragePath: cfg.StoragePath, ScriptPath: cfg.SchemaPath})
	if err != nil {
		return fmt.Errorf("initialise database: %w", err)
	}
	if res.Created {
		log.Info().Str("path", res.Path).Msg("database initialized")
	}

	// ── 2. Initialise Storage ─────────────────────────────────────────────
	// Handlers only see the storage.Storage interface, so the backend is
	// decided here and nowhere else.
	store, err := c.openStorage(ctx)
	if err != nil {
		return fmt.Errorf("initialise storage: %w", err)
	}
	defer store.Close()

	log.Info().Str("path", cfg.StoragePath).Msg("storage initialised")

	// ── 3. Register HTTP Routes ───────────────────────────────────────────
	handler := router.New(router.Deps{
		Storage: store,
		Querier: sqlite.NewQuerier(c.sqliteOptions()),
		Logger:  log,
	})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,

		// Timeouts keep slow clients from holding connections open.
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// ── 4. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks until Shutdown, so it runs beside the signal
	// wait below. A listen failure is reported through errCh.
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Addr).Msg("server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// ── 5. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case <-done:
		log.Info().Msg("shutdown signal received, stopping server...")
	case <-ctx.Done():
		log.Info().Msg("context cancelled, stopping server...")
	case err := <-errCh:
		return fmt.Errorf("server encountered an error: %w", err)
	}

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	log.Info().Msg("server stopped gracefully")
	return nil
}
