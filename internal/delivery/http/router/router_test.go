package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/linkpreview-service/internal/delivery/http/handler"
	"github.com/user/linkpreview-service/internal/delivery/http/response"
	"github.com/user/linkpreview-service/internal/entity"
	"github.com/user/linkpreview-service/internal/preview"
	"github.com/user/linkpreview-service/internal/usecase"
	"github.com/user/linkpreview-service/pkg/metrics"
	"go.uber.org/zap"
)

type fakePreviewer struct {
	rec      *entity.PreviewRecord
	records  []*entity.PreviewRecord
	err      error
	gotURL   string
	gotForce bool
	gotLimit int
}

func (f *fakePreviewer) Preview(_ context.Context, url string, force bool) (*entity.PreviewRecord, error) {
	f.gotURL, f.gotForce = url, force
	return f.rec, f.err
}

func (f *fakePreviewer) History(_ context.Context, url string, limit int) ([]*entity.PreviewRecord, error) {
	f.gotURL, f.gotLimit = url, limit
	return f.records, f.err
}

func newTestServer(t *testing.T, p usecase.Previewer) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := httptest.NewServer(New(handler.NewHandler(p, zap.NewNop()), m, reg, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestGetPreview(t *testing.T) {
	title := "Example"
	src := "http://x.test/"
	fetched := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &fakePreviewer{rec: &entity.PreviewRecord{
		SourceURL: src,
		Result:    entity.PreviewResult{Title: &title, URL: &src},
		FetchedAt: fetched,
	}}
	srv := newTestServer(t, p)

	resp, body := get(t, srv.URL+"/api/preview?url=http%3A%2F%2Fx.test%2F&force=true")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "http://x.test/", p.gotURL)
	assert.True(t, p.gotForce)

	var got response.PreviewResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Example", *got.Preview.Title)
	assert.Nil(t, got.Preview.Description)
	assert.Equal(t, fetched, got.FetchedAt)
}

func TestGetPreview_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"missing url", "", nil, http.StatusBadRequest, `{"error":"URL query parameter is required"}`},
		{"invalid url", "?url=nope", fmt.Errorf("%w: bad", usecase.ErrInvalidURL), http.StatusBadRequest, `{"error":"Invalid URL format"}`},
		{"upstream status", "?url=http://x.test/", &preview.FetchError{URL: "http://x.test/", StatusCode: 404}, http.StatusBadGateway, `{"error":"Could not fetch page","upstream_status":404}`},
		{"transport failure", "?url=http://x.test/", &preview.FetchError{URL: "http://x.test/", Err: errors.New("dial")}, http.StatusBadGateway, `{"error":"Could not fetch page"}`},
		{"decode failure", "?url=http://x.test/", &preview.DecodeError{URL: "http://x.test/", Err: errors.New("binary")}, http.StatusUnprocessableEntity, `{"error":"Could not decode page"}`},
		{"unexpected", "?url=http://x.test/", errors.New("boom"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakePreviewer{err: tt.err})
			resp, body := get(t, srv.URL+"/api/preview"+tt.query)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, string(body))
		})
	}
}

func TestGetHistory(t *testing.T) {
	title := "Old"
	p := &fakePreviewer{records: []*entity.PreviewRecord{
		{ID: 7, SourceURL: "http://x.test/", Result: entity.PreviewResult{Title: &title}},
	}}
	srv := newTestServer(t, p)

	resp, body := get(t, srv.URL+"/api/previews?url=http://x.test/&limit=5")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, p.gotLimit)
	var got response.HistoryResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Previews, 1)
	assert.Equal(t, int64(7), got.Previews[0].ID)
}

func TestGetHistory_Disabled(t *testing.T) {
	srv := newTestServer(t, &fakePreviewer{err: usecase.ErrHistoryDisabled})
	resp, _ := get(t, srv.URL+"/api/previews?url=http://x.test/")
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, &fakePreviewer{})

	resp, body := get(t, srv.URL+"/api/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/api/health",status="200"} 1`)
}
