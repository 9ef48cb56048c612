package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"silent-auction/internal/domain"

	"github.com/go-redis/redis/v8"
)

// RedisStatusCache is a read-side accelerator for item status. It is
// never authoritative: a miss or a stale "active" entry just means the
// caller falls through to the live deadline check.
type RedisStatusCache struct {
	client *redis.Client
}

func NewStatusCache(client *redis.Client) *RedisStatusCache {
	return &RedisStatusCache{client: client}
}

func (r *RedisStatusCache) SetItemStatus(ctx context.Context, itemID string, status domain.ItemStatus) error {
	key := fmt.Sprintf("item:%s:status", itemID)
	return r.client.Set(ctx, key, int(status), 0).Err()
}

func (r *RedisStatusCache) GetItemStatus(ctx context.Context, itemID string) (domain.ItemStatus, bool, error) {
	key := fmt.Sprintf("item:%s:status", itemID)

	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ItemActive, false, nil
		}
		return domain.ItemActive, false, err
	}

	status, err := strconv.Atoi(result)
	if err != nil {
		return domain.ItemActive, false, err
	}
	return domain.ItemStatus(status), true, nil
}
