package skycast

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skycast-ai/skycast/api"
	"github.com/skycast-ai/skycast/pkg/app"
	"github.com/skycast-ai/skycast/pkg/tracing"
)

var (
	port     int
	host     string
	enableUI bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API service",
	Long:  `Start the HTTP server exposing the query and index endpoints, Prometheus metrics, and the web UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = port
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = host
		}
		if cmd.Flags().Changed("ui") {
			cfg.Server.EnableUI = enableUI
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := tracing.Setup(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				fmt.Printf("Warning: failed to shut down tracing: %v\n", err)
			}
		}()

		application, err := app.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer func() {
			if err := application.Close(); err != nil {
				fmt.Printf("Warning: failed to close vector store: %v\n", err)
			}
		}()

		fmt.Printf("Starting Skycast server on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		if cfg.Server.EnableUI {
			fmt.Printf("Web UI: http://localhost:%d\n", cfg.Server.Port)
		}
		fmt.Printf("API: http://localhost:%d/api\n", cfg.Server.Port)
		fmt.Println("Press Ctrl+C to stop the server")

		server := api.NewServer(cfg, application)
		return server.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "server port")
	serveCmd.Flags().StringVar(&host, "host", "", "server host address")
	serveCmd.Flags().BoolVar(&enableUI, "ui", false, "enable web UI")
}
