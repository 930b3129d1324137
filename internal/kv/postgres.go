package kv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps every key in a single kv_entries table. It exists for
// deployments that already run Postgres and do not want a second datastore.
// Expired rows are filtered on read and reaped by the sweeper.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_kv_entries_expires_at
	ON kv_entries (expires_at) WHERE expires_at IS NOT NULL;
`

// NewPostgresStore connects with bounded retries, verifies the connection,
// and ensures the kv_entries schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				break
			} else {
				pool.Close()
				pool = nil
				err = pingErr
			}
		}

		log.Printf("database connection attempt %d/%d failed: %v", attempt, maxConnectAttempts, err)
		if attempt < maxConnectAttempts {
			select {
			case <-time.After(connectRetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if pool == nil {
		return nil, fmt.Errorf("database connection failed after %d attempts: %w", maxConnectAttempts, err)
	}

	if _, err := pool.Exec(ctx, kvSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure kv schema: %w", err)
	}

	log.Println("database connected")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM kv_entries
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`,
		key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *PostgresStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv_entries (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, value, rowExpiry(ttl))
	return err
}

// SetNX relies on the upsert taking the update arm only for expired rows,
// so a dead key can be reclaimed without an explicit delete.
func (s *PostgresStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO kv_entries (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
			WHERE kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= NOW()`,
		key, value, rowExpiry(ttl))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	var value string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO kv_entries (key, value, expires_at) VALUES ($1, $2::text, NULL)
		ON CONFLICT (key) DO UPDATE SET
			value = CASE
				WHEN kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= NOW()
					THEN $2::text
				ELSE (kv_entries.value::bigint + $2)::text
			END,
			expires_at = CASE
				WHEN kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= NOW()
					THEN NULL
				ELSE kv_entries.expires_at
			END
		RETURNING value`,
		key, delta).Scan(&value)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *PostgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	pattern := likeEscaper.Replace(prefix) + "%"
	rows, err := s.pool.Query(ctx, `
		SELECT key FROM kv_entries
		WHERE key LIKE $1 ESCAPE '\' AND (expires_at IS NULL OR expires_at > NOW())`,
		pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Sweep deletes expired rows and returns how many were removed.
func (s *PostgresStore) Sweep(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func rowExpiry(ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := time.Now().Add(ttl)
	return &t
}
