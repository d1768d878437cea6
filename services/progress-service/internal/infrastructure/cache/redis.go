package cache

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TitleSource - откуда берём названия, которых нет в кеше (обычно БД).
type TitleSource interface {
	ResolveMicrocredentialTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type TitleCache struct {
	client *redis.Client
	source TitleSource
	ttl    time.Duration
}

func NewTitleCache(client *redis.Client, source TitleSource, ttl time.Duration) *TitleCache {
	return &TitleCache{client: client, source: source, ttl: ttl}
}

func titleKey(id uuid.UUID) string {
	return "microcredential:title:" + id.String()
}

// ResolveMicrocredentialTitles читает названия одним MGET, недостающие добирает
// из источника и кладёт в кеш. Если Redis недоступен, идём сразу в источник.
func (c *TitleCache) ResolveMicrocredentialTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	missing := ids
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = titleKey(id)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		log.Printf("title cache: mget failed: %v", err)
	} else {
		missing = make([]uuid.UUID, 0, len(ids))
		for i, v := range vals {
			if s, ok := v.(string); ok && s != "" {
				out[ids[i]] = s
				continue
			}
			missing = append(missing, ids[i])
		}
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.source.ResolveMicrocredentialTitles(ctx, missing)
	if err != nil {
		return out, err
	}

	pipe := c.client.Pipeline()
	for id, title := range fetched {
		out[id] = title
		if title != "" {
			pipe.Set(ctx, titleKey(id), title, c.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("title cache: write failed: %v", err)
	}

	return out, nil
}

func (c *TitleCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, titleKey(id)).Err()
}
