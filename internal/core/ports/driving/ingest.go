package driving

import "context"

// IngestRequest carries the up-to-three optional inputs of one ingestion.
type IngestRequest struct {
	// Text is pasted inline text. Blank means not provided.
	Text string

	// PDFPath is the filesystem path of the uploaded PDF, already saved to
	// a temporary file by the transport layer. Empty means no upload.
	PDFPath string

	// PDFName is the original filename of the upload, used as provenance.
	PDFName string

	// VideoURL is a YouTube video URL. Blank means not provided.
	VideoURL string
}

// SourceReport describes what happened to one input during ingestion.
type SourceReport struct {
	Source     string `json:"source"`
	Note       string `json:"note,omitempty"`
	HasContent bool   `json:"has_content"`
}

// IngestResult is returned on successful ingestion.
type IngestResult struct {
	// SessionID is the opaque handle for later questions.
	SessionID string `json:"session_id"`

	// Chunks is the number of chunks produced by splitting.
	Chunks int `json:"chunks"`

	// Added is the number of chunks written to the vector database.
	Added int `json:"added"`

	// Sources reports the outcome of each provided input, in input order.
	Sources []SourceReport `json:"sources"`
}

// IngestService normalises, chunks and indexes a batch of inputs, and binds
// the result to a fresh session.
type IngestService interface {
	// Ingest processes one request. When no input yields any content it
	// fails with *domain.NoContentError carrying the collected diagnostics.
	Ingest(ctx context.Context, req IngestRequest) (IngestResult, error)
}
