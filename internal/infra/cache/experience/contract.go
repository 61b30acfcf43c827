package experience

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

// Source источник настроек доступности (клиент каталога)
type Source interface {
	GetAvailability(ctx context.Context, experienceID int64) (*domain.ExperienceAvailability, error)
}

// RedisClient подмножество команд Redis, используемых кэшем
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
