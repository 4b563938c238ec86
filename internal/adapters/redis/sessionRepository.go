package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const revokedKeyPrefix = "revoked:"

// SessionRepositoryRedis keeps logged-out token ids until they expire.
type SessionRepositoryRedis struct {
	Client *redis.Client
	logger *zap.Logger
}

func NewSessionRepositoryRedis(client *redis.Client, logger *zap.Logger) *SessionRepositoryRedis {
	return &SessionRepositoryRedis{
		Client: client,
		logger: logger,
	}
}

// Revoke marks jti as revoked for ttl.
func (r *SessionRepositoryRedis) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	key := revokedKeyPrefix + jti
	if err := r.Client.Set(ctx, key, 1, ttl).Err(); err != nil {
		return err
	}
	r.logger.Debug("Token revoked", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *SessionRepositoryRedis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.Client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
