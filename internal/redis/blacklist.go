package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "auth:blacklist:"

// TokenBlacklist keeps revoked token ids in Redis. Each key expires together
// with the token it revokes, so the set never needs pruning.
type TokenBlacklist struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewTokenBlacklist(client redis.Cmdable) *TokenBlacklist {
	return &TokenBlacklist{client: client, now: time.Now}
}

func blacklistKey(jti string) string {
	return blacklistKeyPrefix + jti
}

func (b *TokenBlacklist) Add(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistKey(jti), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b *TokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return n > 0, nil
}
