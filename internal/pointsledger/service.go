package pointsledger

import (
	"context"
	"errors"

	"github.com/gabapcia/depositwatch/internal/pkg/logger"
	"github.com/gabapcia/depositwatch/internal/pkg/validator"
)

var (
	// ErrSelfTransfer is returned when source and destination of a transfer
	// are the same user. The check happens before storage is touched.
	ErrSelfTransfer = errors.New("cannot transfer points to the same user")

	// ErrNegativeAmount is returned for point operations with a negative amount.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// Service exposes the ledger operations backed by a UserStorage.
type Service interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, userID int64) (User, error)
	GetUserByWallet(ctx context.Context, wallet string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	UpdateWallet(ctx context.Context, userID int64, wallet string) (User, error)
	AddPoints(ctx context.Context, userID, amount int64) (User, error)
	SubtractPoints(ctx context.Context, userID, amount int64) (User, error)
	DeleteUser(ctx context.Context, userID int64) error
	TransferPoints(ctx context.Context, fromUserID, toUserID, amount int64) (TransferResult, error)
	TransferPointsByWallet(ctx context.Context, fromWallet, toWallet string, amount int64) (TransferResult, error)
}

type service struct {
	storage UserStorage
}

var _ Service = (*service)(nil)

// New creates a ledger service backed by the given storage.
func New(storage UserStorage) *service {
	return &service{
		storage: storage,
	}
}

func (s *service) CreateUser(ctx context.Context, user User) (User, error) {
	if err := validator.Validate(user); err != nil {
		return User{}, err
	}

	created, err := s.storage.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}

	logger.Info(ctx, "user created",
		"user.id", created.UserID,
		"user.wallet", created.Wallet,
	)
	return created, nil
}

func (s *service) GetUser(ctx context.Context, userID int64) (User, error) {
	return s.storage.GetUser(ctx, userID)
}

func (s *service) GetUserByWallet(ctx context.Context, wallet string) (User, error) {
	return s.storage.GetUserByWallet(ctx, wallet)
}

func (s *service) UpdateUser(ctx context.Context, user User) (User, error) {
	if err := validator.Validate(user); err != nil {
		return User{}, err
	}

	return s.storage.UpdateUser(ctx, user)
}

func (s *service) UpdateWallet(ctx context.Context, userID int64, wallet string) (User, error) {
	if wallet == "" {
		return User{}, errors.Join(validator.ErrValidationFailed, errors.New("wallet must not be empty"))
	}

	return s.storage.UpdateWallet(ctx, userID, wallet)
}

func (s *service) AddPoints(ctx context.Context, userID, amount int64) (User, error) {
	if amount < 0 {
		return User{}, ErrNegativeAmount
	}

	user, err := s.storage.AddPoints(ctx, userID, amount)
	if err != nil {
		return User{}, err
	}

	logger.Info(ctx, "points credited",
		"user.id", userID,
		"points.amount", amount,
		"points.balance", user.Points,
	)
	return user, nil
}

func (s *service) SubtractPoints(ctx context.Context, userID, amount int64) (User, error) {
	if amount < 0 {
		return User{}, ErrNegativeAmount
	}

	user, err := s.storage.SubtractPoints(ctx, userID, amount)
	if err != nil {
		return User{}, err
	}

	logger.Info(ctx, "points debited",
		"user.id", userID,
		"points.amount", amount,
		"points.balance", user.Points,
	)
	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.storage.DeleteUser(ctx, userID); err != nil {
		return err
	}

	logger.Info(ctx, "user deleted", "user.id", userID)
	return nil
}

func (s *service) TransferPoints(ctx context.Context, fromUserID, toUserID, amount int64) (TransferResult, error) {
	if fromUserID == toUserID {
		return TransferResult{}, ErrSelfTransfer
	}
	if amount < 0 {
		return TransferResult{}, ErrNegativeAmount
	}

	result, err := s.storage.TransferPoints(ctx, fromUserID, toUserID, amount)
	if err != nil {
		return TransferResult{}, err
	}

	logger.Info(ctx, "points transferred",
		"transfer.from", fromUserID,
		"transfer.to", toUserID,
		"transfer.amount", amount,
	)
	return result, nil
}

func (s *service) TransferPointsByWallet(ctx context.Context, fromWallet, toWallet string, amount int64) (TransferResult, error) {
	if fromWallet == toWallet {
		return TransferResult{}, ErrSelfTransfer
	}
	if amount < 0 {
		return TransferResult{}, ErrNegativeAmount
	}

	result, err := s.storage.TransferPointsByWallet(ctx, fromWallet, toWallet, amount)
	if err != nil {
		return TransferResult{}, err
	}

	logger.Info(ctx, "points transferred",
		"transfer.from_wallet", fromWallet,
		"transfer.to_wallet", toWallet,
		"transfer.amount", amount,
	)
	return result, nil
}
