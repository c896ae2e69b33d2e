package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/promomark/website/app/website"
	"github.com/promomark/website/core/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "website",
		Short:         "Promomark website",
		Long:          "Serves the Promomark website pages and delivers contact form messages by email.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newPreviewCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := website.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := website.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			if err := app.Run(ctx); err != nil {
				app.Logger().ErrorContext(ctx, "server stopped", logger.Error(err))
				return err
			}
			app.Logger().InfoContext(context.WithoutCancel(ctx), "server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override SERVER_ADDR (e.g. --addr :8080)")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Render the contact email with sample data to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return website.PreviewEmail(cmd.Context(), cmd.OutOrStdout(), time.Now())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "website %s\n", cmd.Root().Version)
		},
	}
}
