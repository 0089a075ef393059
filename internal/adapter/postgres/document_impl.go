package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
)

// DB is the subset of *pgxpool.Pool used by the repositories.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		id         BIGSERIAL PRIMARY KEY,
		url        TEXT NOT NULL UNIQUE,
		source     TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS documents_source_idx ON documents (source);
`

// DocumentRepoImpl provides a concrete implementation for the DocumentRepository interface using PostgreSQL.
type DocumentRepoImpl struct {
	db DB
}

// NewDocumentRepo creates a new instance of DocumentRepoImpl.
func NewDocumentRepo(db DB) *DocumentRepoImpl {
	return &DocumentRepoImpl{db: db}
}

// EnsureSchema creates the documents table and its indexes when missing.
func (r *DocumentRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create documents schema: %w", err)
	}
	return nil
}

// Upsert stores or updates the document for a URL in a single statement.
// An empty title keeps the stored one, or defaults to the URL for new rows.
// The source is only written on insert.
func (r *DocumentRepoImpl) Upsert(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (url, source, title, content, created_at)
		VALUES ($1, $2, COALESCE(NULLIF($3::text, ''), $1), $4, $5)
		ON CONFLICT (url) DO UPDATE SET
			content = EXCLUDED.content,
			created_at = EXCLUDED.created_at,
			title = CASE WHEN $3::text <> '' THEN EXCLUDED.title ELSE documents.title END;
	`
	_, err := r.db.Exec(ctx, query,
		doc.URL,
		doc.Source,
		doc.Title,
		doc.Content,
		doc.CreatedAt,
	)
	return err
}

// FindByURL retrieves the document stored for a URL.
func (r *DocumentRepoImpl) FindByURL(ctx context.Context, url string) (*entity.Document, error) {
	query := `
		SELECT id, url, source, title, content, created_at
		FROM documents
		WHERE url = $1;
	`
	var doc entity.Document
	err := r.db.QueryRow(ctx, query, url).Scan(
		&doc.ID,
		&doc.URL,
		&doc.Source,
		&doc.Title,
		&doc.Content,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepoImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
