package postgres

import (
	"cmp"
	"context"
	"errors"

	"github.com/gabapcia/depositwatch/internal/pointsledger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolationCode = "23505"

// walletUniqueConstraint is the name PostgreSQL assigns to the UNIQUE
// constraint on users.wallet.
const walletUniqueConstraint = "users_wallet_key"

// Ensure client implements the pointsledger.UserStorage interface at compile time.
var _ pointsledger.UserStorage = (*client)(nil)

// translateUniqueViolation maps a unique constraint violation to the ledger
// sentinel matching the offended constraint. Any other error passes through
// unchanged.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}

	if pgErr.ConstraintName == walletUniqueConstraint {
		return pointsledger.ErrWalletAlreadyBound
	}
	return pointsledger.ErrUserAlreadyExists
}

// scanUser reads a full user record from a row returning
// (user_id, username, wallet, points).
func scanUser(row pgx.Row) (pointsledger.User, error) {
	var user pointsledger.User
	if err := row.Scan(&user.UserID, &user.Username, &user.Wallet, &user.Points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pointsledger.User{}, pointsledger.ErrUserNotFound
		}
		return pointsledger.User{}, err
	}

	return user, nil
}

// CreateUser implements the pointsledger.UserStorage interface.
func (c *client) CreateUser(ctx context.Context, user pointsledger.User) (pointsledger.User, error) {
	row := c.conn.QueryRow(ctx, `
		INSERT INTO users (user_id, username, wallet, points)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, username, wallet, points`,
		user.UserID, user.Username, user.Wallet, user.Points,
	)

	created, err := scanUser(row)
	if err != nil {
		return pointsledger.User{}, translateUniqueViolation(err)
	}
	return created, nil
}

// GetUser implements the pointsledger.UserStorage interface.
func (c *client) GetUser(ctx context.Context, userID int64) (pointsledger.User, error) {
	row := c.conn.QueryRow(ctx, `
		SELECT user_id, username, wallet, points
		FROM users
		WHERE user_id = $1`,
		userID,
	)

	return scanUser(row)
}

// GetUserByWallet implements the pointsledger.UserStorage interface.
func (c *client) GetUserByWallet(ctx context.Context, wallet string) (pointsledger.User, error) {
	row := c.conn.QueryRow(ctx, `
		SELECT user_id, username, wallet, points
		FROM users
		WHERE wallet = $1`,
		wallet,
	)

	return scanUser(row)
}

// UpdateUser implements the pointsledger.UserStorage interface.
func (c *client) UpdateUser(ctx context.Context, user pointsledger.User) (pointsledger.User, error) {
	row := c.conn.QueryRow(ctx, `
		UPDATE users
		SET username = $2, wallet = $3, points = $4
		WHERE user_id = $1
		RETURNING user_id, username, wallet, points`,
		user.UserID, user.Username, user.Wallet, user.Points,
	)

	updated, err := scanUser(row)
	if err != nil {
		return pointsledger.User{}, translateUniqueViolation(err)
	}
	return updated, nil
}

// UpdateWallet implements the pointsledger.UserStorage interface.
func (c *client) UpdateWallet(ctx context.Context, userID int64, wallet string) (pointsledger.User, error) {
	row := c.conn.QueryRow(ctx, `
		UPDATE users
		SET wallet = $2
		WHERE user_id = $1
		RETURNING user_id, username, wallet, points`,
		userID, wallet,
	)

	updated, err := scanUser(row)
	if err != nil {
		return pointsledger.User{}, translateUniqueViolation(err)
	}
	return updated, nil
}

// AddPoints implements the pointsledger.UserStorage interface.
func (c *client) AddPoints(ctx context.Context, userID, amount int64) (pointsledger.User, error) {
	row := c.conn.QueryRow(ctx, `
		UPDATE users
		SET points = points + $2
		WHERE user_id = $1
		RETURNING user_id, username, wallet, points`,
		userID, amount,
	)

	return scanUser(row)
}

// SubtractPoints implements the pointsledger.UserStorage interface. The
// balance floors at zero instead of failing when amount exceeds it.
func (c *client) SubtractPoints(ctx context.Context, userID, amount int64) (pointsledger.User, error) {
	row := c.conn.QueryRow(ctx, `
		UPDATE users
		SET points = GREATEST(points - $2, 0)
		WHERE user_id = $1
		RETURNING user_id, username, wallet, points`,
		userID, amount,
	)

	return scanUser(row)
}

// DeleteUser implements the pointsledger.UserStorage interface.
func (c *client) DeleteUser(ctx context.Context, userID int64) error {
	tag, err := c.conn.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return pointsledger.ErrUserNotFound
	}
	return nil
}

// TransferPoints implements the pointsledger.UserStorage interface.
//
// Both rows are locked FOR UPDATE in ascending user_id order so that two
// concurrent transfers between the same pair cannot deadlock. The whole
// movement happens in a single transaction: any failure rolls back with no
// balance changed.
func (c *client) TransferPoints(ctx context.Context, fromUserID, toUserID, amount int64) (pointsledger.TransferResult, error) {
	return transfer(ctx, c, fromUserID, toUserID, amount, `
		SELECT user_id, username, wallet, points
		FROM users
		WHERE user_id = $1
		FOR UPDATE`,
		func(u pointsledger.User) int64 { return u.UserID },
	)
}

// TransferPointsByWallet implements the pointsledger.UserStorage interface.
// Rows are locked in lexicographic wallet order, same deadlock rationale as
// TransferPoints.
func (c *client) TransferPointsByWallet(ctx context.Context, fromWallet, toWallet string, amount int64) (pointsledger.TransferResult, error) {
	return transfer(ctx, c, fromWallet, toWallet, amount, `
		SELECT user_id, username, wallet, points
		FROM users
		WHERE wallet = $1
		FOR UPDATE`,
		func(u pointsledger.User) string { return u.Wallet },
	)
}

// transfer moves amount between the two users selected by lockQuery, locking
// them in ascending key order. fromKey and toKey identify the parties in
// whatever keyspace lockQuery uses (user id or wallet address); keyOf
// extracts that same key from a loaded user.
func transfer[K cmp.Ordered](ctx context.Context, c *client, fromKey, toKey K, amount int64, lockQuery string, keyOf func(pointsledger.User) K) (pointsledger.TransferResult, error) {
	tx, err := c.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return pointsledger.TransferResult{}, err
	}
	defer tx.Rollback(ctx)

	firstKey, secondKey := fromKey, toKey
	if firstKey > secondKey {
		firstKey, secondKey = secondKey, firstKey
	}

	firstUser, err := scanUser(tx.QueryRow(ctx, lockQuery, firstKey))
	if err != nil {
		return pointsledger.TransferResult{}, err
	}
	secondUser, err := scanUser(tx.QueryRow(ctx, lockQuery, secondKey))
	if err != nil {
		return pointsledger.TransferResult{}, err
	}

	fromUser, toUser := firstUser, secondUser
	if keyOf(firstUser) != fromKey {
		fromUser, toUser = secondUser, firstUser
	}

	if fromUser.Points < amount {
		return pointsledger.TransferResult{}, pointsledger.ErrInsufficientPoints
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET points = points - $2 WHERE user_id = $1`, fromUser.UserID, amount); err != nil {
		return pointsledger.TransferResult{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET points = points + $2 WHERE user_id = $1`, toUser.UserID, amount); err != nil {
		return pointsledger.TransferResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return pointsledger.TransferResult{}, err
	}

	fromUser.Points -= amount
	toUser.Points += amount
	return pointsledger.TransferResult{
		FromUser: fromUser,
		ToUser:   toUser,
	}, nil
}
