package depositcredit

import "context"

// DepositStream delivers confirmed deposits for a watched account.
type DepositStream interface {
	// Subscribe starts streaming deposits observed on the given account. The
	// returned channel is closed when ctx is canceled or the stream ends.
	Subscribe(ctx context.Context, accountID string) (<-chan Deposit, error)
}
