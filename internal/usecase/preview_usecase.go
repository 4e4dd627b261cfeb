package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/linkpreview-service/internal/entity"
	"github.com/user/linkpreview-service/internal/preview"
	"github.com/user/linkpreview-service/internal/repository"
	"github.com/user/linkpreview-service/pkg/metrics"
	"github.com/user/linkpreview-service/pkg/utils"
	"go.uber.org/zap"
)

var (
	ErrInvalidURL      = errors.New("invalid URL")
	ErrHistoryDisabled = errors.New("preview history is not configured")
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Previewer defines the interface for building and looking up link previews.
type Previewer interface {
	// Preview resolves the preview for rawURL. Unless force is set, a cached
	// result is returned when one exists.
	Preview(ctx context.Context, rawURL string, force bool) (*entity.PreviewRecord, error)
	// History returns previously stored previews for rawURL, newest first.
	History(ctx context.Context, rawURL string, limit int) ([]*entity.PreviewRecord, error)
}

type previewUseCase struct {
	acquirer repository.DocumentAcquirer
	cache    repository.PreviewCache
	store    repository.PreviewStore
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewPreviewUseCase creates a new Previewer. cache and store may be nil, which
// disables caching and history respectively.
func NewPreviewUseCase(
	acquirer repository.DocumentAcquirer,
	cache repository.PreviewCache,
	store repository.PreviewStore,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	l *zap.Logger,
) Previewer {
	return &previewUseCase{
		acquirer: acquirer,
		cache:    cache,
		store:    store,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   l,
		now:      time.Now,
	}
}

func (uc *previewUseCase) Preview(ctx context.Context, rawURL string, force bool) (*entity.PreviewRecord, error) {
	if _, err := utils.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if !force && uc.cache != nil {
		cached, err := uc.cache.Get(ctx, rawURL)
		switch {
		case err == nil:
			uc.metrics.CacheHitsTotal.Inc()
			uc.logger.Debug("serving cached preview", zap.String("url", rawURL), zap.Time("fetched_at", cached.FetchedAt))
			return &entity.PreviewRecord{SourceURL: rawURL, Result: cached.Result, Cached: true, FetchedAt: cached.FetchedAt}, nil
		case !errors.Is(err, repository.ErrNotFound):
			// A broken cache should not take previews down with it.
			uc.logger.Warn("failed to read preview cache", zap.String("url", rawURL), zap.Error(err))
		}
	}

	start := time.Now()
	p, err := preview.New(ctx, rawURL, uc.acquirer)
	uc.metrics.FetchDuration.WithLabelValues(utils.Domain(rawURL)).Observe(time.Since(start).Seconds())
	if err != nil {
		uc.metrics.PreviewsTotal.WithLabelValues(errorStatus(err)).Inc()
		uc.logger.Warn("failed to build preview", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}

	if p.FinalURL() != rawURL {
		uc.logger.Info("page was redirected", zap.String("url", rawURL), zap.String("final_url", p.FinalURL()))
	}

	result := p.FetchPreview()
	uc.metrics.PreviewsTotal.WithLabelValues("success").Inc()
	uc.recordMissing(result)

	record := &entity.PreviewRecord{SourceURL: rawURL, Result: result, FetchedAt: uc.now()}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, rawURL, record, uc.cacheTTL); err != nil {
			uc.logger.Warn("failed to cache preview", zap.String("url", rawURL), zap.Error(err))
		}
	}
	if uc.store != nil {
		if err := uc.store.Save(ctx, record); err != nil {
			uc.logger.Error("failed to save preview", zap.String("url", rawURL), zap.Error(err))
		}
	}

	uc.logger.Info("preview resolved",
		zap.String("url", rawURL),
		zap.Int("status", p.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return record, nil
}

func (uc *previewUseCase) History(ctx context.Context, rawURL string, limit int) ([]*entity.PreviewRecord, error) {
	if uc.store == nil {
		return nil, ErrHistoryDisabled
	}
	if _, err := utils.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := uc.store.FindByURL(ctx, rawURL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load preview history for %s: %w", rawURL, err)
	}
	return records, nil
}

func (uc *previewUseCase) recordMissing(r entity.PreviewResult) {
	fields := map[string]*string{
		"description": r.Description,
		"title":       r.Title,
		"name":        r.Name,
		"image":       r.Image,
	}
	for name, v := range fields {
		if v == nil {
			uc.metrics.FieldsMissingTotal.WithLabelValues(name).Inc()
		}
	}
}

func errorStatus(err error) string {
	var fetchErr *preview.FetchError
	var decodeErr *preview.DecodeError
	switch {
	case errors.As(err, &fetchErr):
		return "fetch_error"
	case errors.As(err, &decodeErr):
		return "decode_error"
	default:
		return "error"
	}
}
