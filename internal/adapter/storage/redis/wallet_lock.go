package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only while it still holds the caller's
// owner token. Get-then-del without the script would race: the caller's TTL
// may expire and another holder acquire between the two commands.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// WalletLock implements ports.WalletLocker with a per-wallet Redis key.
// Acquire is a single conditional SET NX with TTL: the shared store is the
// one point of truth serializing acquire attempts across every engine
// instance. Expiry does not cancel a holder's in-progress work; it only
// lets a new acquire succeed, which is why the engine re-reads wallet state
// after acquiring instead of trusting any earlier read.
type WalletLock struct {
	client *goredis.Client
	prefix string
}

// NewWalletLock creates a Redis-backed wallet lock store.
func NewWalletLock(client *goredis.Client) *WalletLock {
	return &WalletLock{
		client: client,
		prefix: "wallet_lock:",
	}
}

func (l *WalletLock) key(walletID uuid.UUID) string {
	return l.prefix + walletID.String()
}

// Acquire attempts to take the wallet's lock for ownerToken. It returns
// false without blocking or retrying when the lock is already held by
// anyone; retry policy belongs to the caller.
func (l *WalletLock) Acquire(ctx context.Context, walletID uuid.UUID, ownerToken string, ttl time.Duration) (bool, error) {
	result, err := l.client.SetArgs(ctx, l.key(walletID), ownerToken, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — lock held by another request.
			return false, nil
		}
		return false, fmt.Errorf("redis lock acquire: %w", err)
	}
	return result == "OK", nil
}

// Release clears the lock only if ownerToken still owns it. Releasing a
// lock owned by someone else is a silent no-op, not an error.
func (l *WalletLock) Release(ctx context.Context, walletID uuid.UUID, ownerToken string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key(walletID)}, ownerToken).Err(); err != nil && err != goredis.Nil {
		return fmt.Errorf("redis lock release: %w", err)
	}
	return nil
}
