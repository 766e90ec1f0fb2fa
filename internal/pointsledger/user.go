// Package pointsledger implements the point-balance bookkeeping workflow:
// users identified by a unique id and a unique wallet address hold
// non-negative point balances that can be credited, debited (floored at
// zero) and transferred between users atomically.
package pointsledger

// User is a ledger participant. UserID and Wallet are both unique across the
// ledger; Points never goes negative.
type User struct {
	UserID   int64  `json:"user_id" validate:"gte=0"`
	Username string `json:"username" validate:"required"`
	Wallet   string `json:"wallet" validate:"required"`
	Points   int64  `json:"points" validate:"gte=0"`
}

// TransferResult carries both parties of a completed transfer, already
// reflecting the moved points.
type TransferResult struct {
	FromUser User `json:"from_user"`
	ToUser   User `json:"to_user"`
}
