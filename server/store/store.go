// Package store mirrors voice session attributes server-side, keyed by
// session id, for as long as the voice session lives.
package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

type DB struct {
	*pgxpool.Pool
	ttl time.Duration
}

// Open connects to Postgres. Rows older than ttl are treated as gone.
func Open(ctx context.Context, dsn string, ttl time.Duration) (*DB, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &DB{Pool: p, ttl: ttl}, nil
}

func (db *DB) Close()                         { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// Load returns the stored attributes, or nil when there are none.
func (db *DB) Load(ctx context.Context, sessionID string) (json.RawMessage, error) {
	var attrs string
	err := db.QueryRow(ctx, `
		SELECT attributes
		  FROM session_attributes
		 WHERE session_id = $1 AND expires_at > now()
	`, sessionID).Scan(&attrs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(attrs), nil
}

// Save upserts the attributes verbatim and pushes the expiry out.
func (db *DB) Save(ctx context.Context, sessionID string, attrs json.RawMessage) error {
	_, err := db.Exec(ctx, `
		INSERT INTO session_attributes(session_id, attributes, expires_at)
		VALUES ($1, $2, now() + $3::bigint * interval '1 second')
		ON CONFLICT (session_id) DO UPDATE
		   SET attributes = EXCLUDED.attributes,
		       expires_at = EXCLUDED.expires_at,
		       updated_at = now()
	`, sessionID, string(attrs), int64(db.ttl/time.Second))
	return err
}

func (db *DB) Delete(ctx context.Context, sessionID string) error {
	_, err := db.Exec(ctx, `DELETE FROM session_attributes WHERE session_id = $1`, sessionID)
	return err
}

// Sweep removes expired rows and reports how many went.
func (db *DB) Sweep(ctx context.Context) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM session_attributes WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
