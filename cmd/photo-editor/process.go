package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-editor/internal/imaging"
	"github.com/ironsheep/photo-editor/internal/remote"
)

func newProcessServerCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "process-server",
		Short: "Run the HTTP image processing service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Service.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			proc := imaging.NewProcessor(
				imaging.WithLogger(logger),
				imaging.WithMaxPixels(cfg.Processor.MaxPixels),
			)
			svc := remote.NewService(proc,
				remote.WithServiceLogger(logger),
				remote.WithMaxUploadSize(cfg.Service.MaxUploadSize),
			)
			return svc.ListenAndServe(ctx, cfg.Service.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8000)")
	return cmd
}
