package driven

import "context"

// PDFExtractor extracts plain text from a PDF file on disk.
type PDFExtractor interface {
	// Extract returns the text content of the PDF at path.
	Extract(ctx context.Context, path string) (string, error)
}

// TranscriptService fetches caption text for a video URL.
type TranscriptService interface {
	// Fetch returns the joined caption text for the video. lang is a
	// preferred-language hint; when empty, any available caption track may
	// be used. An error means no usable text was obtained.
	Fetch(ctx context.Context, videoURL, lang string) (string, error)
}
