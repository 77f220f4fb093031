package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRecords persists serialized sessions in Postgres for deployments
// without Redis.
type SessionRecords struct {
	pool *pgxpool.Pool
}

func NewSessionRecords(pool *pgxpool.Pool) *SessionRecords {
	return &SessionRecords{pool: pool}
}

func (s *SessionRecords) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM session_records
		 WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`, key,
	).Scan(&data)
	if err != nil {
		return nil, pgErr(err)
	}
	return data, nil
}

// Set replaces the record under key. ttl <= 0 stores it without expiry.
func (s *SessionRecords) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expires = &t
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_records (key, data, expires_at) VALUES ($1,$2,$3)
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`,
		key, data, expires,
	)
	return err
}

func (s *SessionRecords) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM session_records WHERE key = $1`, key)
	return err
}

// PurgeExpired drops records past their expiry and reports how many went.
func (s *SessionRecords) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM session_records WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
