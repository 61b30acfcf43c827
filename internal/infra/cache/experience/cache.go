package experience

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

const keyPrefix = "experience:availability:"

// CachedSource кэширует настройки доступности впечатлений в Redis
// Ошибки Redis не пробрасываются: при недоступности кэша запрос идет напрямую в источник.
// Снимки емкости здесь не кэшируются никогда
type CachedSource struct {
	source Source
	rdb    RedisClient
	ttl    time.Duration
	log    Logger
}

// NewCachedSource создает кэширующую обертку над источником
// Если rdb == nil, все запросы идут напрямую в источник
func NewCachedSource(source Source, rdb RedisClient, ttl time.Duration, log Logger) *CachedSource {
	return &CachedSource{source: source, rdb: rdb, ttl: ttl, log: log}
}

// GetAvailability возвращает настройки из кэша, при промахе читает источник и кладет результат в кэш
func (c *CachedSource) GetAvailability(ctx context.Context, experienceID int64) (*domain.ExperienceAvailability, error) {
	if c.rdb == nil {
		return c.source.GetAvailability(ctx, experienceID)
	}

	key := Key(experienceID)

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var meta domain.ExperienceAvailability
		if jsonErr := json.Unmarshal([]byte(raw), &meta); jsonErr == nil {
			return &meta, nil
		}
		c.log.Warn("GetAvailability: dropping undecodable cache entry key=%s", key)
	case !errors.Is(err, redis.Nil):
		c.log.Warn("GetAvailability: redis get failed key=%s: %v", key, err)
	}

	meta, err := c.source.GetAvailability(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("GetAvailability - encode cache entry: %w", err)
	}
	if err := c.rdb.Set(ctx, key, string(payload), c.ttl).Err(); err != nil {
		c.log.Warn("GetAvailability: redis set failed key=%s: %v", key, err)
	}

	return meta, nil
}

// Invalidate удаляет настройки впечатления из кэша
func (c *CachedSource) Invalidate(ctx context.Context, experienceID int64) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, Key(experienceID)).Err(); err != nil {
		return fmt.Errorf("Invalidate - redis del experience_id=%d: %w", experienceID, err)
	}
	return nil
}

// Key ключ кэша для впечатления
func Key(experienceID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, experienceID)
}
