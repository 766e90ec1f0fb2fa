package depositcredit

import (
	"context"
	"errors"
)

// ErrWalletNotCached is returned by WalletCache.GetUserID when the wallet has
// no cached resolution yet.
var ErrWalletNotCached = errors.New("wallet resolution not cached")

// WalletCache remembers wallet-to-user resolutions so that repeated deposits
// from the same wallet skip the ledger lookup. Implementations may expire
// entries at will; a miss only costs one extra ledger round trip.
type WalletCache interface {
	// GetUserID returns the cached user id for wallet, or ErrWalletNotCached.
	GetUserID(ctx context.Context, wallet string) (int64, error)

	// SetUserID stores the resolution of wallet to userID.
	SetUserID(ctx context.Context, wallet string, userID int64) error
}
