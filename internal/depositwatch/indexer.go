package depositwatch

import (
	"context"
	"errors"
)

// ErrFetchFailed is wrapped by TransactionIndexer implementations whenever a
// history fetch cannot be completed, whether because of a transport failure
// or a non-success HTTP status from the indexer.
//
// The watch loop treats any fetch error as recoverable: the cycle is logged
// and skipped, the watermark stays untouched, and polling continues.
var ErrFetchFailed = errors.New("transaction history fetch failed")

// TransactionIndexer defines a source of account transaction histories.
type TransactionIndexer interface {
	// FetchTransactions retrieves the recent transaction history for the
	// given account, newest first, exactly as ordered by the indexer.
	//
	// Implementations must not reorder or retry beyond whatever their
	// underlying transport already does; retry policy belongs to the caller.
	// Failures are reported as errors wrapping ErrFetchFailed.
	FetchTransactions(ctx context.Context, accountID string) ([]Transaction, error)
}
