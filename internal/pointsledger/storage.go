package pointsledger

import (
	"context"
	"errors"
)

var (
	// ErrUserNotFound is returned when no user matches the given id or wallet.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned by CreateUser when the user id is taken.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrWalletAlreadyBound is returned when a wallet address is already
	// attached to a different user.
	ErrWalletAlreadyBound = errors.New("wallet already bound to another user")

	// ErrInsufficientPoints is returned by transfers whose sender balance
	// does not cover the requested amount. Transfers are all-or-nothing.
	ErrInsufficientPoints = errors.New("insufficient points balance")
)

// UserStorage persists ledger users and implements the balance mutations.
//
// Implementations own atomicity: a transfer either moves the full amount and
// returns both updated parties, or fails without touching either balance.
type UserStorage interface {
	// CreateUser inserts a new user. It returns ErrUserAlreadyExists when the
	// user id is taken and ErrWalletAlreadyBound when the wallet is.
	CreateUser(ctx context.Context, user User) (User, error)

	// GetUser returns the user with the given id, or ErrUserNotFound.
	GetUser(ctx context.Context, userID int64) (User, error)

	// GetUserByWallet returns the user owning the given wallet address, or
	// ErrUserNotFound.
	GetUserByWallet(ctx context.Context, wallet string) (User, error)

	// UpdateUser overwrites the stored record identified by user.UserID and
	// returns the updated user, or ErrUserNotFound.
	UpdateUser(ctx context.Context, user User) (User, error)

	// UpdateWallet rebinds the user's wallet address. It returns
	// ErrWalletAlreadyBound when another user already owns wallet, and
	// ErrUserNotFound when the user does not exist.
	UpdateWallet(ctx context.Context, userID int64, wallet string) (User, error)

	// AddPoints credits amount to the user's balance and returns the updated
	// user, or ErrUserNotFound.
	AddPoints(ctx context.Context, userID, amount int64) (User, error)

	// SubtractPoints debits amount from the user's balance, flooring the
	// result at zero, and returns the updated user, or ErrUserNotFound.
	SubtractPoints(ctx context.Context, userID, amount int64) (User, error)

	// DeleteUser removes the user, or returns ErrUserNotFound.
	DeleteUser(ctx context.Context, userID int64) error

	// TransferPoints atomically moves amount from one user to another,
	// identified by id. It returns ErrUserNotFound when either party is
	// missing and ErrInsufficientPoints when the sender balance does not
	// cover amount; no balance changes in either case.
	TransferPoints(ctx context.Context, fromUserID, toUserID, amount int64) (TransferResult, error)

	// TransferPointsByWallet behaves like TransferPoints with both parties
	// identified by wallet address.
	TransferPointsByWallet(ctx context.Context, fromWallet, toWallet string, amount int64) (TransferResult, error)
}
