package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/gabapcia/depositwatch/internal/depositcredit"
	"github.com/gabapcia/depositwatch/internal/infra/depositfeed"
	"github.com/gabapcia/depositwatch/internal/infra/ledgerapi"
	"github.com/gabapcia/depositwatch/internal/infra/storage/redis"
	"github.com/gabapcia/depositwatch/internal/pkg/logger"
	"github.com/gabapcia/depositwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/depositwatch/internal/pkg/telemetry"

	"github.com/urfave/cli/v3"
)

// creditCommand returns a CLI command that starts the worker consuming the
// deposit stream and crediting ledger users for each deposit.
//
// Usage example:
//
//	depositwatch credit --account 0QDtRL1V...
//
// The worker runs until it receives an interrupt (SIGINT or SIGTERM).
func creditCommand() *cli.Command {
	return &cli.Command{
		Name:        "credit",
		Description: "Consumes the deposit stream and credits points to the depositing users.",
		Usage:       "Runs the crediting worker for a watched account. Terminates gracefully on Ctrl+C.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "account",
				Usage:    "Blockchain account whose deposits are credited",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var cfg creditConfig
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

			opts := []depositcredit.Option{
				depositcredit.WithPointsPerCoin(cfg.PointsPerCoin),
				depositcredit.WithLedgerRetry(retry.New()),
			}

			if cfg.RedisAddress != "" {
				cache, err := redis.NewClient(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
				if err != nil {
					return err
				}
				defer cache.Close()

				opts = append(opts, depositcredit.WithWalletCache(cache))
			}

			creditor := depositcredit.New(
				depositfeed.NewClient(cfg.FeedBaseURI),
				ledgerapi.NewClient(cfg.LedgerBaseURI),
				opts...,
			)

			runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := creditor.Run(runCtx, c.String("account")); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
