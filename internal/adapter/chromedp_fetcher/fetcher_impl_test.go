package chromedp_fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/linkpreview-service/internal/preview"
	"github.com/user/linkpreview-service/internal/proxy"
	"go.uber.org/zap"
)

func requireBrowser(t *testing.T) {
	t.Helper()
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome binary found")
}

func TestChromedpFetcher_RendersScriptedMeta(t *testing.T) {
	requireBrowser(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Static</title><script>
var m = document.createElement('meta');
m.setAttribute('property', 'og:title');
m.setAttribute('content', 'Scripted');
document.head.appendChild(m);
</script></head><body></body></html>`))
	}))
	defer ts.Close()

	pm, err := proxy.NewManager(nil, nil)
	require.NoError(t, err)
	f := NewChromedpFetcher(pm, 30*time.Second, zap.NewNop())
	defer f.Close()

	p, err := preview.New(context.Background(), ts.URL, f)
	require.NoError(t, err)
	assert.Equal(t, "Scripted", *p.FetchPreview().Title)
}

func TestChromedpFetcher_NonSuccessStatus(t *testing.T) {
	requireBrowser(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<html><head><title>Not Found</title></head></html>`))
	}))
	defer ts.Close()

	pm, err := proxy.NewManager(nil, nil)
	require.NoError(t, err)
	f := NewChromedpFetcher(pm, 30*time.Second, zap.NewNop())
	defer f.Close()

	p, err := preview.New(context.Background(), ts.URL, f)

	assert.Nil(t, p)
	var fetchErr *preview.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestDocumentResponse_KeepsFirstDocument(t *testing.T) {
	d := &documentResponse{}

	d.listen(&network.EventResponseReceived{
		Type:     network.ResourceTypeScript,
		Response: &network.Response{Status: 500, MimeType: "text/javascript"},
	})
	d.listen(&network.EventResponseReceived{
		Type:     network.ResourceTypeDocument,
		Response: &network.Response{Status: 404, MimeType: "text/html"},
	})
	d.listen(&network.EventResponseReceived{
		Type:     network.ResourceTypeDocument,
		Response: &network.Response{Status: 200, MimeType: "text/html"},
	})
	d.listen("not an event")

	status, mimeType := d.get()
	assert.Equal(t, 404, status)
	assert.Equal(t, "text/html", mimeType)
}
