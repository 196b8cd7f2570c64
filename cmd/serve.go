package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/archlens/archlens/internal/enrich"
	"github.com/archlens/archlens/internal/scanner"
	"github.com/archlens/archlens/internal/server"
	"github.com/archlens/archlens/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis HTTP server",
	Long: `Starts an HTTP server that accepts project archive uploads, runs the
analysis pipeline on them, stores run history, and pushes completion
events to websocket subscribers.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.Server.Port
	}
	allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

	st, err := store.Open(filepath.Join(cfg.Server.DataDir, "runs.db"))
	if err != nil {
		return fmt.Errorf("opening run store: %w", err)
	}
	defer st.Close()

	enricher, err := enrich.New(cfg.Enrichment.Provider, cfg.Enrichment.Model)
	if err != nil {
		return fmt.Errorf("creating enrichment provider: %w", err)
	}

	srv := server.New(server.Config{
		Port:     port,
		WorkDir:  filepath.Join(cfg.Server.DataDir, "uploads"),
		AllowAll: allowAll || cfg.Server.AllowAll,
		Scan: scanner.Config{
			Include:     cfg.Include,
			Exclude:     cfg.Exclude,
			MaxFileSize: cfg.MaxFileSize,
			MaxFiles:    cfg.MaxFiles,
		},
	}, st, enricher)

	// Shut down cleanly on SIGINT/SIGTERM.
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
