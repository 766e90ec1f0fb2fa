package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/depositwatch/internal/depositwatch"
	httphandler "github.com/gabapcia/depositwatch/internal/handlers/http"
	"github.com/gabapcia/depositwatch/internal/infra/indexer/tonapi"
	"github.com/gabapcia/depositwatch/internal/infra/storage/postgres"
	"github.com/gabapcia/depositwatch/internal/infra/ton"
	"github.com/gabapcia/depositwatch/internal/pkg/logger"
	"github.com/gabapcia/depositwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/depositwatch/internal/pkg/telemetry"
	"github.com/gabapcia/depositwatch/internal/pointsledger"

	"github.com/urfave/cli/v3"
)

// serviceName identifies this application in telemetry exports.
const serviceName = "depositwatch"

// shutdownTimeout bounds how long a graceful stop may take before the
// process exits anyway.
const shutdownTimeout = 10 * time.Second

// serveCommand returns a CLI command that starts the HTTP server exposing
// the deposit watch websocket endpoint and the points ledger REST API.
//
// Usage example:
//
//	depositwatch serve
//
// The process runs until it receives an interrupt (SIGINT or SIGTERM).
func serveCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Description: "Starts the HTTP server with the deposit watch stream and the points ledger API.",
		Usage:       "Runs the server until Ctrl+C or a termination signal, then shuts down gracefully.",
		Action: func(ctx context.Context, c *cli.Command) error {
			var cfg serveConfig
			if err := loadConfig(&cfg); err != nil {
				return err
			}

			if cfg.OtelEnabled {
				shutdown, err := telemetry.Init(ctx, serviceName)
				if err != nil {
					return err
				}
				defer shutdown(context.Background())
			}

			if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
				return err
			}
			defer logger.Sync()

			storage, err := postgres.NewClient(ctx, cfg.DatabaseURI)
			if err != nil {
				return err
			}
			defer storage.Close()

			var (
				ledger = pointsledger.New(storage)
				watch  = depositwatch.New(tonapi.NewClient(cfg.IndexerBaseURI),
					depositwatch.WithAddressNormalizer(ton.NewNormalizer()),
					depositwatch.WithPollInterval(cfg.PollInterval),
					depositwatch.WithPrimingRetry(retry.New()),
				)
			)

			server := httphandler.New(watch, ledger)

			failure := make(chan error, 1)
			go func() {
				failure <- server.Listen(cfg.ServerAddress)
			}()

			logger.Info(ctx, "server started", "server.address", cfg.ServerAddress)

			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-failure:
				return err
			case <-quit:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		},
	}
}
