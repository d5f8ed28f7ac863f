package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda resultados liquidados no Redis. Resultado é imutável, então
// o TTL só existe pra não acumular chave pra sempre.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyResult(eventID string) string { return "predictions:result:" + eventID }

func (c *Cache) GetResult(ctx context.Context, eventID string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyResult(eventID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetResult(ctx context.Context, eventID string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyResult(eventID), b, ttl).Err()
}
