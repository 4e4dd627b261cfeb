// Package preview resolves link preview metadata from a parsed HTML page.
//
// Each field is resolved through a fixed fallback chain: Open Graph tags
// first, then standard meta or link tags, then plain HTML elements.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/linkpreview-service/internal/entity"
	"github.com/user/linkpreview-service/internal/repository"
	"golang.org/x/net/html/charset"
)

// Preview bundles a source URL with its parsed document.
type Preview struct {
	url        string
	finalURL   string
	statusCode int
	doc        *goquery.Document
}

// New fetches url through acquirer and parses the page. Any acquisition error
// is returned as is; no partial Preview is produced.
func New(ctx context.Context, url string, acquirer repository.DocumentAcquirer) (*Preview, error) {
	content, err := acquirer.Acquire(ctx, url)
	if err != nil {
		return nil, err
	}
	return FromContent(url, content)
}

// FromContent decodes and parses already fetched content.
func FromContent(url string, content *entity.RawContent) (*Preview, error) {
	if err := checkContentType(content.ContentType); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}

	// charset.NewReader fails on an empty body; an empty page is still a page.
	var r io.Reader = bytes.NewReader(content.Body)
	if len(content.Body) > 0 {
		var err error
		r, err = charset.NewReader(r, content.ContentType)
		if err != nil {
			return nil, &DecodeError{URL: url, Err: err}
		}
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}

	finalURL := content.FinalURL
	if finalURL == "" {
		finalURL = url
	}
	return &Preview{url: url, finalURL: finalURL, statusCode: content.StatusCode, doc: doc}, nil
}

// checkContentType rejects bodies that are clearly not markup. An empty
// content type is accepted.
func checkContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("invalid content type %q: %w", contentType, err)
	}
	if strings.HasPrefix(mediaType, "text/") || strings.HasSuffix(mediaType, "xml") {
		return nil
	}
	return fmt.Errorf("unsupported content type %q", mediaType)
}

// FinalURL returns the address the page was served from after redirects.
func (p *Preview) FinalURL() string {
	return p.finalURL
}

// StatusCode returns the HTTP status the page was served with, or 0 when the
// acquirer did not report one.
func (p *Preview) StatusCode() int {
	return p.statusCode
}

// FetchPreview resolves all supported fields from the document.
func (p *Preview) FetchPreview() entity.PreviewResult {
	return entity.PreviewResult{
		Description: resolveDescription(p.doc),
		Title:       resolveTitle(p.doc),
		URL:         resolveURL(p.doc, p.url),
		Name:        resolveSiteName(p.doc),
		Image:       resolveImage(p.doc),
	}
}
