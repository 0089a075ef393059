package repository

import (
	"context"
	"errors"

	"github.com/user/docs-crawler/internal/entity"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository defines the interface for storing and retrieving scraped documents.
type DocumentRepository interface {
	// Upsert stores the document keyed by URL. An existing record is updated in place.
	Upsert(ctx context.Context, doc *entity.Document) error
	// FindByURL retrieves the document for a URL, or ErrDocumentNotFound.
	FindByURL(ctx context.Context, url string) (*entity.Document, error)
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
