package chromedp_fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/linkpreview-service/internal/entity"
	"github.com/user/linkpreview-service/internal/preview"
	"github.com/user/linkpreview-service/internal/proxy"
	"go.uber.org/zap"
)

// ChromedpFetcher acquires pages by rendering them in headless Chrome, for
// sites that only emit their meta tags from JavaScript.
type ChromedpFetcher struct {
	allocatorPool *sync.Pool
	cancels       []context.CancelFunc
	mu            sync.Mutex
	timeout       time.Duration
	logger        *zap.Logger
}

// NewChromedpFetcher creates a fetcher backed by a pool of browser allocators.
func NewChromedpFetcher(pm *proxy.Manager, pageLoadTimeout time.Duration, l *zap.Logger) *ChromedpFetcher {
	f := &ChromedpFetcher{
		timeout: pageLoadTimeout,
		logger:  l,
	}
	f.allocatorPool = &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(pm.GetUserAgent()),
			)
			if p := pm.GetProxy(); p != nil {
				opts = append(opts, chromedp.ProxyServer(p.String()))
			}
			allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
			f.mu.Lock()
			f.cancels = append(f.cancels, cancel)
			f.mu.Unlock()
			return allocCtx
		},
	}
	return f
}

// Acquire navigates to url and returns the rendered document.
func (f *ChromedpFetcher) Acquire(ctx context.Context, url string) (*entity.RawContent, error) {
	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(f.logger.Sugar().Debugf))
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, f.timeout)
	defer cancel()

	// Stop the browser task when the caller gives up.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	doc := &documentResponse{}
	chromedp.ListenTarget(taskCtx, doc.listen)

	var htmlContent, location string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("head", chromedp.ByQuery),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return nil, &preview.FetchError{URL: url, Err: err}
	}

	status, mimeType := doc.get()
	if status != 0 && (status < 200 || status > 299) {
		return nil, &preview.FetchError{URL: url, StatusCode: status}
	}

	f.logger.Debug("rendered page",
		zap.String("url", url),
		zap.Int("status", status),
		zap.String("mime_type", mimeType),
		zap.Int("bytes", len(htmlContent)),
	)

	// The rendered DOM is already text; only the media type is carried over.
	contentType := "text/html; charset=utf-8"
	if mimeType != "" {
		contentType = mimeType + "; charset=utf-8"
	}

	return &entity.RawContent{
		URL:         url,
		FinalURL:    location,
		StatusCode:  status,
		ContentType: contentType,
		Body:        []byte(htmlContent),
	}, nil
}

// documentResponse records the status of the first top-level document
// response seen on a tab. Redirect hops do not emit responseReceived.
type documentResponse struct {
	mu       sync.Mutex
	seen     bool
	status   int
	mimeType string
}

func (d *documentResponse) listen(ev interface{}) {
	e, ok := ev.(*network.EventResponseReceived)
	if !ok || e.Type != network.ResourceTypeDocument || e.Response == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen {
		return
	}
	d.seen = true
	d.status = int(e.Response.Status)
	d.mimeType = e.Response.MimeType
}

func (d *documentResponse) get() (int, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status, d.mimeType
}

// Close shuts down every browser the pool started.
func (f *ChromedpFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cancel := range f.cancels {
		cancel()
	}
	f.cancels = nil
}
