// Package postgres implements the pointsledger.UserStorage port on top of a
// PostgreSQL database accessed through a pgx connection pool.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// usersTableDDL creates the ledger table on startup. user_id and wallet are
// both unique; the CHECK keeps balances non-negative even if a bug slips past
// the service layer.
const usersTableDDL = `
	CREATE TABLE IF NOT EXISTS users (
		user_id  BIGINT PRIMARY KEY,
		username TEXT   NOT NULL,
		wallet   TEXT   NOT NULL UNIQUE,
		points   BIGINT NOT NULL DEFAULT 0 CHECK (points >= 0)
	)`

type client struct {
	conn *pgxpool.Pool
}

func (c *client) Close() {
	c.conn.Close()
}

// NewClient opens a connection pool against connString, verifies connectivity
// and ensures the ledger schema exists.
func NewClient(ctx context.Context, connString string) (*client, error) {
	conn, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := conn.Exec(ctx, usersTableDDL); err != nil {
		conn.Close()
		return nil, err
	}

	return &client{
		conn: conn,
	}, nil
}
