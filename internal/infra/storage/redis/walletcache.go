package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/depositwatch/internal/depositcredit"

	redis "github.com/redis/go-redis/v9"
)

// walletCachePrefix defines the base key prefix used for cached
// wallet-to-user resolutions in Redis.
const walletCachePrefix = "wallet"

// walletResolutionTTL bounds how long a cached resolution is trusted. A
// rebound wallet is therefore picked up within this window at worst.
const walletResolutionTTL = 30 * time.Minute

// Ensure client implements the depositcredit.WalletCache interface at compile time.
var _ depositcredit.WalletCache = (*client)(nil)

// walletCacheKey returns the Redis key under which the user id owning the
// given wallet address is cached.
//
// Format: "wallet:user:{wallet}"
func walletCacheKey(wallet string) string {
	return fmt.Sprintf("%s:user:%s", walletCachePrefix, wallet)
}

// GetUserID implements the depositcredit.WalletCache interface. A key that
// is absent or expired reports depositcredit.ErrWalletNotCached.
func (c *client) GetUserID(ctx context.Context, wallet string) (int64, error) {
	userID, err := c.conn.Get(ctx, walletCacheKey(wallet)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, depositcredit.ErrWalletNotCached
		}
		return 0, err
	}

	return userID, nil
}

// SetUserID implements the depositcredit.WalletCache interface. The entry
// expires after walletResolutionTTL.
func (c *client) SetUserID(ctx context.Context, wallet string, userID int64) error {
	return c.conn.Set(ctx, walletCacheKey(wallet), userID, walletResolutionTTL).Err()
}
