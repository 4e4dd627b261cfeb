package httpfetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/user/linkpreview-service/internal/entity"
	"github.com/user/linkpreview-service/internal/preview"
	"github.com/user/linkpreview-service/internal/proxy"
	"go.uber.org/zap"
)

// Fetcher acquires pages with a plain net/http client.
type Fetcher struct {
	client       *http.Client
	proxies      *proxy.Manager
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewFetcher creates a Fetcher whose requests are bounded by timeout and whose
// bodies are truncated after maxBodyBytes.
func NewFetcher(pm *proxy.Manager, timeout time.Duration, maxBodyBytes int64, l *zap.Logger) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = pm.ProxyFunc
	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		proxies:      pm,
		maxBodyBytes: maxBodyBytes,
		logger:       l,
	}
}

// Acquire fetches url and returns its body.
func (f *Fetcher) Acquire(ctx context.Context, url string) (*entity.RawContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &preview.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.proxies.GetUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &preview.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &preview.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, &preview.FetchError{URL: url, Err: err}
	}

	f.logger.Debug("fetched page",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &entity.RawContent{
		URL:         url,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
