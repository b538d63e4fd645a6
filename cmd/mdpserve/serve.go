package main

import (
	"context"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/creamcroissant/mdpserve/internal/api"
	"github.com/creamcroissant/mdpserve/internal/api/middleware"
	"github.com/creamcroissant/mdpserve/internal/bootstrap"
	"github.com/creamcroissant/mdpserve/internal/config"
	"github.com/creamcroissant/mdpserve/internal/support/logging"
	"github.com/creamcroissant/mdpserve/internal/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the static file server (default command)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Writer:    cmd.ErrOrStderr(),
	})

	return serve(ctx, cfg, logger, cmd.OutOrStdout())
}

// serve binds, prints the banner and blocks until ctx is done. Errors before
// the banner (bad root, port in use) are returned unchanged.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	root, err := api.ResolveRoot(cfg.Static.Dir)
	if err != nil {
		return err
	}

	isolation := middleware.DefaultIsolationConfig()
	isolation.Extra = cfg.Headers.Extra

	opts := []api.RouterOption{api.WithIsolation(isolation)}
	if cfg.Metrics.Enabled {
		opts = append(opts, api.WithMetrics(cfg.Metrics, nil))
	}
	router, err := api.NewRouter(logger, root, opts...)
	if err != nil {
		return err
	}

	server, err := bootstrap.Listen(cfg.HTTP, router, logger)
	if err != nil {
		return err
	}

	logger.Info("http server starting", "addr", server.Addr().String(), "root", root)
	if err := tui.Banner(out, tui.DefaultTitle, server.URL()); err != nil {
		_ = server.Close()
		return err
	}

	if err := server.Run(ctx); err != nil {
		return err
	}

	_ = tui.Stopped(out)
	logger.Info("server exited cleanly")
	return nil
}
