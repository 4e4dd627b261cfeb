package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/linkpreview-service/internal/entity"
)

// ErrNotFound is returned by repositories when nothing is stored for a key.
var ErrNotFound = errors.New("not found")

// PreviewCache defines the interface for caching resolved previews.
type PreviewCache interface {
	// Get returns the cached record for url, or ErrNotFound. The record keeps
	// the time the page was originally fetched.
	Get(ctx context.Context, url string) (*entity.PreviewRecord, error)
	// Set stores record for url with the given expiry.
	Set(ctx context.Context, url string, record *entity.PreviewRecord, expiry time.Duration) error
}

// PreviewStore defines the interface for the preview history.
type PreviewStore interface {
	// Save appends a record and fills in its ID.
	Save(ctx context.Context, record *entity.PreviewRecord) error
	// FindByURL returns the most recent records for url, newest first.
	FindByURL(ctx context.Context, url string, limit int) ([]*entity.PreviewRecord, error)
}
