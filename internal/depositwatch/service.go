package depositwatch

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/depositwatch/internal/pkg/logger"
	"github.com/gabapcia/depositwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/depositwatch/internal/pkg/x/chflow"

	"github.com/google/uuid"
)

// ErrEmptyAccountID is returned by Watch when no account identifier is provided.
var ErrEmptyAccountID = errors.New("account id must not be empty")

const (
	// defaultPollInterval is the pause between polling cycles when no
	// explicit interval is configured.
	defaultPollInterval = 10 * time.Second

	// depositEventChannelBufferSize bounds how many undelivered events a
	// watcher may hold before its polling goroutine blocks on the subscriber.
	depositEventChannelBufferSize = 10
)

// Service starts independent deposit watchers.
type Service interface {
	// Watch begins monitoring accountID for new incoming deposits and
	// returns the channel on which DepositEvents are delivered.
	//
	// The first fetch only establishes the novelty baseline: the existing
	// history is never delivered, so subscribers see exclusively deposits
	// that land after Watch was called. Events within one polling batch are
	// delivered newest first, matching the indexer's ordering.
	//
	// The watcher runs until ctx is canceled; the returned channel is then
	// closed. Cancellation takes effect within one polling interval.
	Watch(ctx context.Context, accountID string) (<-chan DepositEvent, error)
}

type service struct {
	indexer    TransactionIndexer
	normalizer AddressNormalizer

	pollInterval time.Duration
	primingRetry retry.Retry
}

var _ Service = (*service)(nil)

// config holds the optional settings applied by New.
type config struct {
	normalizer   AddressNormalizer
	pollInterval time.Duration
	primingRetry retry.Retry
}

// Option configures the watch service.
type Option func(*config)

// WithAddressNormalizer sets the normalizer applied to the sender address of
// every emitted deposit. Without it, raw addresses are passed through.
func WithAddressNormalizer(n AddressNormalizer) Option {
	return func(c *config) {
		c.normalizer = n
	}
}

// WithPollInterval overrides the pause between polling cycles.
// Default: 10 seconds.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// WithPrimingRetry wraps the baseline-establishing fetch in the given retry
// policy. Without it, a failed priming fetch is attempted only once and the
// watcher starts without a baseline, which makes the next successful poll
// deliver the account's entire visible history.
func WithPrimingRetry(r retry.Retry) Option {
	return func(c *config) {
		c.primingRetry = r
	}
}

// New creates a deposit watch service backed by the given indexer.
func New(indexer TransactionIndexer, opts ...Option) *service {
	cfg := config{
		normalizer:   nopNormalizer{},
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		indexer:      indexer,
		normalizer:   cfg.normalizer,
		pollInterval: cfg.pollInterval,
		primingRetry: cfg.primingRetry,
	}
}

func (s *service) Watch(ctx context.Context, accountID string) (<-chan DepositEvent, error) {
	if accountID == "" {
		return nil, ErrEmptyAccountID
	}

	watcherID := uuid.Must(uuid.NewV7()).String()
	logger.Info(ctx, "deposit watcher starting",
		"watcher.id", watcherID,
		"account.id", accountID,
	)

	lastSeenHash := s.prime(ctx, watcherID, accountID)

	events := make(chan DepositEvent, depositEventChannelBufferSize)
	go s.poll(ctx, watcherID, accountID, lastSeenHash, events)

	return events, nil
}

// prime performs the initial fetch whose only purpose is establishing the
// watermark; nothing is emitted for the pre-existing history. On persistent
// failure the watcher starts without a baseline instead of aborting.
func (s *service) prime(ctx context.Context, watcherID, accountID string) string {
	var txs []Transaction

	fetch := func() error {
		var err error
		txs, err = s.indexer.FetchTransactions(ctx, accountID)
		return err
	}

	var err error
	if s.primingRetry != nil {
		err = s.primingRetry.Execute(ctx, fetch)
	} else {
		err = fetch()
	}

	if err != nil {
		logger.Warn(ctx, "priming fetch failed, watcher starts without a baseline",
			"watcher.id", watcherID,
			"account.id", accountID,
			"error", err,
		)
		return ""
	}

	if len(txs) == 0 {
		return ""
	}

	return txs[0].Hash
}

// poll runs the steady-state fetch/filter/emit cycle until ctx is canceled.
// It owns the watermark and the events channel.
func (s *service) poll(ctx context.Context, watcherID, accountID, lastSeenHash string, events chan<- DepositEvent) {
	defer close(events)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "deposit watcher stopped",
				"watcher.id", watcherID,
				"account.id", accountID,
			)
			return
		case <-ticker.C:
		}

		txs, err := s.indexer.FetchTransactions(ctx, accountID)
		if err != nil {
			// Recoverable: skip this cycle, keep the watermark, poll again.
			logger.Error(ctx, "deposit poll fetch failed",
				"watcher.id", watcherID,
				"account.id", accountID,
				"error", err,
			)
			continue
		}

		fresh := newTransactionsSince(txs, lastSeenHash)
		if len(fresh) == 0 {
			continue
		}

		for _, tx := range fresh {
			if !tx.Success {
				continue
			}

			fromAddress, err := s.normalizer.NormalizeAddress(tx.Sender)
			if err != nil {
				// Isolated to this transaction; the rest of the batch is
				// still delivered.
				logger.Warn(ctx, "skipping deposit with malformed source address",
					"watcher.id", watcherID,
					"account.id", accountID,
					"tx.hash", tx.Hash,
					"error", err,
				)
				continue
			}

			event := DepositEvent{
				FromAddress: fromAddress,
				Amount:      float64(tx.Value) / nanotonsPerCoin,
			}
			if ok := chflow.Send(ctx, events, event); !ok {
				return
			}
		}

		// The batch head is the newest transaction observed this cycle,
		// regardless of whether every element produced an emission.
		lastSeenHash = fresh[0].Hash
	}
}
