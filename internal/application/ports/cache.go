package ports

import (
	"context"
	"time"
)

// ResultCache - кэш готовых результатов расчёта.
//
// Расчёты детерминированы, поэтому кэш - чистая мемоизация:
// ошибка кэша никогда не должна ломать расчёт (use case только логирует её).
//
// Реализации:
// - cache.MemoryCache (по умолчанию, тесты)
// - cache.RedisCache (несколько инстансов API)
type ResultCache interface {
	// Get возвращает значение и true, если ключ найден и не истёк.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set сохраняет значение с TTL. ttl <= 0 означает "без срока".
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
