package request

import (
	"net/http"
	"strconv"
)

// PreviewRequest holds the query parameters of GET /api/preview.
type PreviewRequest struct {
	URL   string
	Force bool
}

// ParsePreview reads a PreviewRequest from the query string. An unparsable
// force flag counts as false.
func ParsePreview(r *http.Request) PreviewRequest {
	q := r.URL.Query()
	force, _ := strconv.ParseBool(q.Get("force"))
	return PreviewRequest{URL: q.Get("url"), Force: force}
}

// HistoryRequest holds the query parameters of GET /api/previews.
type HistoryRequest struct {
	URL   string
	Limit int
}

// ParseHistory reads a HistoryRequest; a missing or invalid limit is zero.
func ParseHistory(r *http.Request) HistoryRequest {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	return HistoryRequest{URL: q.Get("url"), Limit: limit}
}
