package depositcredit

import (
	"context"
	"errors"
	"math"

	"github.com/gabapcia/depositwatch/internal/pkg/logger"
	"github.com/gabapcia/depositwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/depositwatch/internal/pkg/x/chflow"
)

// ErrEmptyAccountID is returned by Run when no account id is provided.
var ErrEmptyAccountID = errors.New("account id must not be empty")

// defaultPointsPerCoin is the number of points credited per deposited coin.
const defaultPointsPerCoin = 100

// Service drains a deposit stream and credits ledger users for each deposit.
type Service interface {
	// Run consumes deposits for the given account until ctx is canceled or
	// the stream ends. It blocks for the lifetime of the subscription.
	Run(ctx context.Context, accountID string) error
}

type config struct {
	pointsPerCoin int64
	cache         WalletCache
	ledgerRetry   retry.Retry
}

// Option customizes the crediting service.
type Option func(*config)

// WithPointsPerCoin overrides the points credited per deposited coin.
// Default: 100.
func WithPointsPerCoin(points int64) Option {
	return func(c *config) {
		c.pointsPerCoin = points
	}
}

// WithWalletCache installs a cache for wallet-to-user resolutions. Without
// it every deposit resolves through the ledger.
func WithWalletCache(cache WalletCache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// WithLedgerRetry retries ledger calls with the given policy before giving
// up on a deposit.
func WithLedgerRetry(r retry.Retry) Option {
	return func(c *config) {
		c.ledgerRetry = r
	}
}

type service struct {
	stream DepositStream
	ledger Ledger

	pointsPerCoin int64
	cache         WalletCache
	ledgerRetry   retry.Retry
}

var _ Service = (*service)(nil)

// nopWalletCache misses every lookup and forgets every store.
type nopWalletCache struct{}

func (nopWalletCache) GetUserID(context.Context, string) (int64, error) {
	return 0, ErrWalletNotCached
}

func (nopWalletCache) SetUserID(context.Context, string, int64) error {
	return nil
}

// New creates a crediting service consuming from stream and crediting through
// ledger.
func New(stream DepositStream, ledger Ledger, opts ...Option) *service {
	cfg := config{
		pointsPerCoin: defaultPointsPerCoin,
		cache:         nopWalletCache{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		stream:        stream,
		ledger:        ledger,
		pointsPerCoin: cfg.pointsPerCoin,
		cache:         cfg.cache,
		ledgerRetry:   cfg.ledgerRetry,
	}
}

func (s *service) Run(ctx context.Context, accountID string) error {
	if accountID == "" {
		return ErrEmptyAccountID
	}

	deposits, err := s.stream.Subscribe(ctx, accountID)
	if err != nil {
		return err
	}

	logger.Info(ctx, "deposit crediting started",
		"account.id", accountID,
		"points.per_coin", s.pointsPerCoin,
	)

	for {
		deposit, ok := chflow.Receive(ctx, deposits)
		if !ok {
			return ctx.Err()
		}

		s.credit(ctx, deposit)
	}
}

// credit resolves the sender wallet and applies the points. Failures are
// logged and the deposit is dropped; one bad deposit never stops the stream.
func (s *service) credit(ctx context.Context, deposit Deposit) {
	userID, err := s.resolveUser(ctx, deposit.FromAddress)
	if err != nil {
		if errors.Is(err, ErrWalletNotRegistered) {
			logger.Warn(ctx, "deposit from unregistered wallet skipped",
				"wallet.address", deposit.FromAddress,
				"deposit.amount", deposit.Amount,
			)
		} else {
			logger.Error(ctx, "failed to resolve deposit wallet",
				"wallet.address", deposit.FromAddress,
				"error", err,
			)
		}
		return
	}

	points := int64(math.Round(deposit.Amount * float64(s.pointsPerCoin)))
	if points <= 0 {
		return
	}

	if err := s.execute(ctx, func() error {
		return s.ledger.AddPoints(ctx, userID, points)
	}); err != nil {
		logger.Error(ctx, "failed to credit deposit",
			"user.id", userID,
			"points.amount", points,
			"error", err,
		)
		return
	}

	logger.Info(ctx, "deposit credited",
		"user.id", userID,
		"wallet.address", deposit.FromAddress,
		"deposit.amount", deposit.Amount,
		"points.amount", points,
	)
}

// resolveUser maps a wallet address to its owner, consulting the cache first
// and falling back to the ledger. Fresh resolutions are written back to the
// cache; a write-back failure is logged but does not fail the deposit.
func (s *service) resolveUser(ctx context.Context, wallet string) (int64, error) {
	userID, err := s.cache.GetUserID(ctx, wallet)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, ErrWalletNotCached) {
		logger.Warn(ctx, "wallet cache lookup failed",
			"wallet.address", wallet,
			"error", err,
		)
	}

	if err := s.execute(ctx, func() error {
		userID, err = s.ledger.GetUserIDByWallet(ctx, wallet)
		if errors.Is(err, ErrWalletNotRegistered) {
			return nil
		}
		return err
	}); err != nil {
		return 0, err
	}
	if err != nil {
		return 0, err
	}

	if cacheErr := s.cache.SetUserID(ctx, wallet, userID); cacheErr != nil {
		logger.Warn(ctx, "wallet cache store failed",
			"wallet.address", wallet,
			"error", cacheErr,
		)
	}

	return userID, nil
}

// execute runs fn through the configured retry policy, or directly when none
// is set.
func (s *service) execute(ctx context.Context, fn func() error) error {
	if s.ledgerRetry == nil {
		return fn()
	}
	return s.ledgerRetry.Execute(ctx, fn)
}
