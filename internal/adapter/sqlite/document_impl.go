package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
)

// DocumentRepoImpl stores documents in an embedded SQLite database.
// It backs the CLI and single-node deployments that run without PostgreSQL.
type DocumentRepoImpl struct {
	db *sql.DB
}

// Open opens or creates the database file at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*DocumentRepoImpl, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports one writer; concurrent crawl jobs serialize here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	r := &DocumentRepoImpl{db: db}
	if err := r.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return r, nil
}

// Close closes the database connection.
func (r *DocumentRepoImpl) Close() error {
	return r.db.Close()
}

func (r *DocumentRepoImpl) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source);
	`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Upsert inserts the document or updates the row with the same URL.
func (r *DocumentRepoImpl) Upsert(ctx context.Context, doc *entity.Document) error {
	query := `
	INSERT INTO documents (url, source, title, content, created_at)
	VALUES (?1, ?2, COALESCE(NULLIF(?3, ''), ?1), ?4, ?5)
	ON CONFLICT(url) DO UPDATE SET
		content = excluded.content,
		created_at = excluded.created_at,
		title = CASE WHEN ?3 <> '' THEN excluded.title ELSE documents.title END
	`
	_, err := r.db.ExecContext(ctx, query,
		doc.URL,
		doc.Source,
		doc.Title,
		doc.Content,
		doc.CreatedAt.UTC(),
	)
	return err
}

// FindByURL retrieves the document stored for a URL.
func (r *DocumentRepoImpl) FindByURL(ctx context.Context, url string) (*entity.Document, error) {
	query := `SELECT id, url, source, title, content, created_at FROM documents WHERE url = ?`

	var doc entity.Document
	err := r.db.QueryRowContext(ctx, query, url).Scan(
		&doc.ID,
		&doc.URL,
		&doc.Source,
		&doc.Title,
		&doc.Content,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepoImpl) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
