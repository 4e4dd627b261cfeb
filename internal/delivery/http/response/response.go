package response

import (
	"time"

	"github.com/user/linkpreview-service/internal/entity"
)

// PreviewResponse is the DTO for a single resolved preview.
type PreviewResponse struct {
	ID        int64                `json:"id,omitempty"`
	SourceURL string               `json:"source_url"`
	Preview   entity.PreviewResult `json:"preview"`
	Cached    bool                 `json:"cached"`
	FetchedAt time.Time            `json:"fetched_at"`
}

// HistoryResponse lists stored previews for a URL.
type HistoryResponse struct {
	URL      string            `json:"url"`
	Previews []PreviewResponse `json:"previews"`
}

// ErrorResponse is returned for every non-2xx status.
type ErrorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// FromRecord converts a stored or freshly resolved record.
func FromRecord(r *entity.PreviewRecord) PreviewResponse {
	return PreviewResponse{
		ID:        r.ID,
		SourceURL: r.SourceURL,
		Preview:   r.Result,
		Cached:    r.Cached,
		FetchedAt: r.FetchedAt,
	}
}
