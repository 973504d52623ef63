package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/amarastelive/amaraste-agent/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS pdf_assets (
	page_key   TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL
);`

// Store is the durable asset cache backed by a local SQLite file.
// Each Put runs inside one write transaction, so a record is replaced
// whole or not at all; writes to different keys do not block each other
// beyond the database's own write serialization.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: database path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	for _, pragma := range []string{`PRAGMA journal_mode=WAL`, `PRAGMA busy_timeout=5000`} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Put(ctx context.Context, asset *domain.Asset) error {
	if asset == nil || asset.Key == "" {
		return fmt.Errorf("sqlite: asset key is required")
	}
	if len(asset.Data) == 0 {
		return fmt.Errorf("sqlite: asset data must not be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pdf_assets (page_key, filename, data, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(page_key) DO UPDATE SET
			filename   = excluded.filename,
			data       = excluded.data,
			created_at = excluded.created_at`,
		string(asset.Key), asset.Filename, asset.Data, asset.CreatedAt.Unix(),
	)
	if err != nil {
		return storageErr("put", asset.Key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key domain.AssetKey) (*domain.Asset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT filename, data, created_at FROM pdf_assets WHERE page_key = ?`,
		string(key),
	)

	var (
		filename  string
		data      []byte
		createdAt int64
	)
	if err := row.Scan(&filename, &data, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, storageErr("get", key, err)
	}

	return &domain.Asset{
		Key:       key,
		Filename:  filename,
		Data:      data,
		CreatedAt: time.Unix(createdAt, 0),
	}, nil
}

func (s *Store) Delete(ctx context.Context, key domain.AssetKey) error {
	// Deleting a key that does not exist is not an error.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pdf_assets WHERE page_key = ?`, string(key)); err != nil {
		return storageErr("delete", key, err)
	}
	return nil
}

func storageErr(op string, key domain.AssetKey, err error) error {
	return fmt.Errorf("sqlite: %s %q: %w: %v", op, key, domain.ErrStorageUnavailable, err)
}
