package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Haleralex/emicalc/internal/container"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *options) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запуск HTTP API",
		Long: `Запускает HTTP API (то же, что cmd/api).

Остановка по SIGINT/SIGTERM с graceful shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if opts.verbose {
				cfg.Log.Level = "debug"
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := container.NewBuilder(cfg).Build(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}

			return app.RunWithContext(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Адрес (перекрывает server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "Порт (перекрывает server.port)")

	return cmd
}
