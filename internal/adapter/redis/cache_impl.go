package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/linkpreview-service/internal/entity"
	"github.com/user/linkpreview-service/internal/repository"
	"github.com/user/linkpreview-service/pkg/utils"
)

const previewKeyPrefix = "preview:"

// CacheRepoImpl provides a concrete implementation for the PreviewCache interface using Redis.
type CacheRepoImpl struct {
	client redis.Cmdable
}

// NewCacheRepo creates a new instance of CacheRepoImpl.
func NewCacheRepo(client redis.Cmdable) *CacheRepoImpl {
	return &CacheRepoImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
func (r *CacheRepoImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", previewKeyPrefix, utils.HashURL(url))
}

// Get returns the cached record for url.
func (r *CacheRepoImpl) Get(ctx context.Context, url string) (*entity.PreviewRecord, error) {
	val, err := r.client.Get(ctx, r.generateKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var record entity.PreviewRecord
	if err := json.Unmarshal(val, &record); err != nil {
		return nil, fmt.Errorf("decode cached preview: %w", err)
	}
	return &record, nil
}

// Set stores record with an expiry; SET with EX is atomic.
func (r *CacheRepoImpl) Set(ctx context.Context, url string, record *entity.PreviewRecord, expiry time.Duration) error {
	val, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.generateKey(url), val, expiry).Err()
}
