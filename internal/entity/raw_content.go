package entity

// RawContent is what a document acquirer hands back before decoding.
type RawContent struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}
