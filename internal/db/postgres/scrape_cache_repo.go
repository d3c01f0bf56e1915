package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Curio/internal/scrape"
)

type postgresScrapeCacheRepo struct {
	db *sql.DB
}

// NewScrapeCacheRepository creates the PostgreSQL-backed response cache
// shared by all scrape client instances.
func NewScrapeCacheRepository(db *sql.DB) scrape.CacheRepository {
	if db == nil {
		panic("postgres: db cannot be nil")
	}
	return &postgresScrapeCacheRepo{db: db}
}

// Get retrieves a cached upstream payload. A row past its expires_at is
// a miss; expired rows are left for Set to overwrite.
func (r *postgresScrapeCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT payload
		FROM scrape_cache
		WHERE cache_key = $1 AND expires_at > NOW()`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, scrape.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return payload, nil
}

// Set stores an upstream payload under the key with a fresh TTL,
// replacing any existing entry.
func (r *postgresScrapeCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO scrape_cache (cache_key, payload, expires_at)
		VALUES ($1, $2, NOW() + $3::interval)
		ON CONFLICT (cache_key) DO UPDATE
		SET payload    = EXCLUDED.payload,
		    expires_at = EXCLUDED.expires_at,
		    fetched_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, key, value, formatInterval(ttl))
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	return nil
}

// formatInterval converts a Go duration to a PostgreSQL interval string
func formatInterval(d time.Duration) string {
	seconds := int64(d.Seconds())

	switch {
	case seconds%86400 == 0 && seconds >= 86400:
		return fmt.Sprintf("%d days", seconds/86400)
	case seconds%3600 == 0 && seconds >= 3600:
		return fmt.Sprintf("%d hours", seconds/3600)
	case seconds%60 == 0 && seconds >= 60:
		return fmt.Sprintf("%d minutes", seconds/60)
	default:
		return fmt.Sprintf("%d seconds", seconds)
	}
}
