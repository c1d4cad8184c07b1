package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores namespaced ledger blobs in a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements ledger.Medium
func (r *SQLiteRepository) Get(ctx context.Context, namespace string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM ledger_blobs WHERE namespace = ?`, namespace).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get ledger blob %s: %w", namespace, err)
	}
	return value, true, nil
}

// Put implements ledger.Medium. The upsert runs in its own transaction so a
// reader never observes a partially written blob.
func (r *SQLiteRepository) Put(ctx context.Context, namespace string, value []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_blobs (namespace, value, version, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace) DO UPDATE SET
			value = excluded.value,
			version = ledger_blobs.version + 1,
			updated_at = CURRENT_TIMESTAMP`,
		namespace, value)
	if err != nil {
		return fmt.Errorf("upsert ledger blob %s: %w", namespace, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger blob %s: %w", namespace, err)
	}

	slog.DebugContext(ctx, "Ledger blob saved to SQLite", "namespace", namespace, "bytes", len(value))
	return nil
}

// Version returns how many times the namespace has been written, 0 if never.
func (r *SQLiteRepository) Version(ctx context.Context, namespace string) (int64, error) {
	var v int64
	err := r.db.QueryRowContext(ctx,
		`SELECT version FROM ledger_blobs WHERE namespace = ?`, namespace).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get ledger blob version: %w", err)
	}
	return v, nil
}
