package entity

import (
	"fmt"
	"strings"
	"time"
)

// PreviewResult holds the five link preview fields. A nil field means the page
// did not provide a value for it.
type PreviewResult struct {
	Description *string `json:"description"`
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Name        *string `json:"name"`
	Image       *string `json:"image"`
}

// String renders the result the way the CLI prints it.
func (r PreviewResult) String() string {
	var b strings.Builder
	b.WriteString("\n")
	writeField(&b, "Url", r.URL)
	writeField(&b, "Name", r.Name)
	writeField(&b, "Title", r.Title)
	writeField(&b, "Description", r.Description)
	writeField(&b, "Image", r.Image)
	return b.String()
}

func writeField(b *strings.Builder, label string, value *string) {
	v := label + " not available"
	if value != nil {
		v = *value
	}
	fmt.Fprintf(b, "%s >> %s\n", label, v)
}

// PreviewRecord mirrors the `previews` PostgreSQL table schema.
type PreviewRecord struct {
	ID        int64         `json:"id,omitempty"`
	SourceURL string        `json:"source_url"`
	Result    PreviewResult `json:"result"`
	Cached    bool          `json:"cached"`
	FetchedAt time.Time     `json:"fetched_at"`
}
