package depositcredit

import (
	"context"
	"errors"
)

// ErrWalletNotRegistered is returned by Ledger.GetUserIDByWallet when no
// ledger user owns the given wallet address. Deposits from unregistered
// wallets are logged and skipped.
var ErrWalletNotRegistered = errors.New("wallet is not registered to any user")

// Ledger is the points ledger as seen by the crediting workflow.
type Ledger interface {
	// GetUserIDByWallet resolves a wallet address to the owning user's id,
	// or returns ErrWalletNotRegistered.
	GetUserIDByWallet(ctx context.Context, wallet string) (int64, error)

	// AddPoints credits amount points to the user's balance.
	AddPoints(ctx context.Context, userID, amount int64) error
}
