package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-editor/internal/config"
	"github.com/ironsheep/photo-editor/internal/imaging"
	"github.com/ironsheep/photo-editor/internal/remote"
	"github.com/ironsheep/photo-editor/internal/render"
	"github.com/ironsheep/photo-editor/internal/server"
	"github.com/ironsheep/photo-editor/internal/session"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		output       string
		processorURL string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an editing session as an MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if processorURL != "" {
				cfg.Processor.Mode = config.ModeRemote
				cfg.Processor.URL = processorURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			proc := newProcessor(ctx, cfg, logger)
			opts := []server.Option{
				server.WithLogger(logger),
				server.WithVersion(Version),
				server.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
				server.WithSessionOptions(
					session.WithDebounce(cfg.Debounce),
					session.WithHistoryCap(cfg.HistoryCap),
				),
			}
			if cfg.Output != "" {
				opts = append(opts, server.WithSurface(render.NewFileSurface(cfg.Output, logger)))
			}

			srv := server.New(proc, opts...)
			logger.Info("serve: starting",
				"version", Version,
				"session", srv.ID(),
				"processor", cfg.Processor.Mode,
				"debounce", cfg.Debounce,
				"history_cap", cfg.HistoryCap,
				"output", cfg.Output,
			)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file rewritten with every displayed image")
	cmd.Flags().StringVar(&processorURL, "processor-url", "", "delegate image processing to a process-server at this URL")
	return cmd
}

// newProcessor returns the in-process processor or, in remote mode, a
// client for a process-server. An unreachable server is logged, not fatal;
// every call reports its own failure.
func newProcessor(ctx context.Context, cfg *config.Config, logger *slog.Logger) session.Processor {
	if cfg.Processor.Mode != config.ModeRemote {
		return imaging.NewProcessor(
			imaging.WithLogger(logger),
			imaging.WithMaxPixels(cfg.Processor.MaxPixels),
		)
	}

	client := remote.NewClient(cfg.Processor.URL,
		remote.WithTimeout(cfg.Processor.Timeout),
		remote.WithClientLogger(logger),
	)
	hctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Health(hctx); err != nil {
		logger.Warn("serve: processing service is not reachable", "url", cfg.Processor.URL, "error", err)
	}
	return client
}
