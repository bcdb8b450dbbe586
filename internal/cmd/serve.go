package cmd

import (
	"os/signal"
	"syscall"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fmoraes/pdfshelf/internal/config"
	"github.com/fmoraes/pdfshelf/internal/observability"
	"github.com/fmoraes/pdfshelf/internal/server"
	"github.com/fmoraes/pdfshelf/internal/server/handlers"
	"github.com/fmoraes/pdfshelf/pkg/catalog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the shelf HTTP server",
	Long: `Run the HTTP server: browse and upload pages, the JSON shelf API,
and health endpoints.

The server holds no document state. Every listing request re-derives the
catalog from storage; only the session upload log lives in memory.

Example:
  pdfshelf serve
  pdfshelf serve --port 9000
  pdfshelf serve --profile shelf.yaml`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	rt, err := openShelf(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	host := cfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	handlers.InitHealthManager("pdfshelf")
	handlers.RegisterReadyCheck(handlers.ReadyCheck{
		Name:  "storage",
		Check: rt.store.Verify,
	})

	shelf := &handlers.Shelf{
		Store:          rt.store,
		Session:        catalog.NewSessionLog(),
		Extension:      rt.extension,
		Prefix:         rt.prefix,
		PageSize:       rt.pageSize,
		MaxPages:       rt.maxPages,
		LinkTTL:        rt.ttl,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         observability.ServerLogger,
	}

	srv := server.New(host, port,
		server.WithShelf(shelf),
		server.WithTimeouts(
			cfg.Server.ReadTimeout,
			cfg.Server.WriteTimeout,
			cfg.Server.IdleTimeout,
			cfg.Server.ShutdownTimeout,
		),
		server.WithLogger(observability.ServerLogger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	observability.ServerLogger.Info("Server listening",
		zap.String("addr", srv.Addr()),
		zap.String("bucket", cfg.Storage.Bucket))

	if err := srv.Run(ctx); err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Server failed", err)
	}

	observability.ServerLogger.Info("Server stopped")
	return nil
}
