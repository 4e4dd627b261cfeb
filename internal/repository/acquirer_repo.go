package repository

import (
	"context"

	"github.com/user/linkpreview-service/internal/entity"
)

// DocumentAcquirer defines the contract for fetching raw page content.
type DocumentAcquirer interface {
	// Acquire fetches the page at url. Transport failures and non-success
	// statuses are reported as *preview.FetchError.
	Acquire(ctx context.Context, url string) (*entity.RawContent, error)
}
