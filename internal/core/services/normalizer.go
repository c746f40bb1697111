// Package services contains the application core: source normalisation,
// indexing and retrieval-augmented answering.
package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driven"
	"ragserver/internal/core/ports/driving"
	"ragserver/internal/logger"
)

// DefaultPDFName labels an upload whose original filename is unknown.
const DefaultPDFName = "upload.pdf"

// NormalizerService converts the raw inputs of one ingestion request into a
// flat list of source outcomes. The three input kinds are processed
// concurrently; the output order is always inline, PDF, video.
type NormalizerService struct {
	pdf         driven.PDFExtractor
	transcripts driven.TranscriptService
	captionLang string
}

// NewNormalizerService creates a normalizer. captionLang is the
// preferred-language hint for the first caption-fetch attempt.
func NewNormalizerService(pdf driven.PDFExtractor, transcripts driven.TranscriptService, captionLang string) *NormalizerService {
	return &NormalizerService{
		pdf:         pdf,
		transcripts: transcripts,
		captionLang: captionLang,
	}
}

// Normalize fans out over the provided inputs and waits for all of them.
// Per-source extraction failures become soft outcomes with a diagnostic
// note; only an unreadable upload file is fatal.
func (s *NormalizerService) Normalize(ctx context.Context, req driving.IngestRequest) ([]domain.SourceOutcome, error) {
	var (
		wg     sync.WaitGroup
		inline []domain.SourceOutcome
		pdf    []domain.SourceOutcome
		video  []domain.SourceOutcome
		pdfErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		inline = normalizeInline(req.Text)
	}()
	go func() {
		defer wg.Done()
		pdf, pdfErr = s.normalizePDF(ctx, req.PDFPath, req.PDFName)
	}()
	go func() {
		defer wg.Done()
		video = s.normalizeVideo(ctx, req.VideoURL)
	}()
	wg.Wait()

	if pdfErr != nil {
		return nil, pdfErr
	}

	out := make([]domain.SourceOutcome, 0, len(inline)+len(pdf)+len(video))
	out = append(out, inline...)
	out = append(out, pdf...)
	out = append(out, video...)
	return out, nil
}

// normalizeInline yields one verbatim document for non-blank pasted text.
func normalizeInline(text string) []domain.SourceOutcome {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []domain.SourceOutcome{{
		Document: domain.Document{Content: text, Source: domain.SourceInline},
	}}
}

// normalizePDF extracts text from the uploaded file. An unreadable file is
// fatal; a failed or empty extraction degrades to a soft outcome.
func (s *NormalizerService) normalizePDF(ctx context.Context, path, name string) ([]domain.SourceOutcome, error) {
	if path == "" {
		return nil, nil
	}
	if name == "" {
		name = DefaultPDFName
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	text, err := s.pdf.Extract(ctx, path)
	if err != nil {
		logger.Warn("PDF extraction failed for %s: %v", name, err)
		return []domain.SourceOutcome{{
			Document: domain.Document{Source: name},
			Note:     fmt.Sprintf("could not extract text from %s: %v", name, err),
		}}, nil
	}

	if strings.TrimSpace(text) == "" {
		return []domain.SourceOutcome{{
			Document: domain.Document{Source: name},
			Note:     fmt.Sprintf("%s has no text layer (scanned image?); try an OCR'd copy", name),
		}}, nil
	}

	return []domain.SourceOutcome{{
		Document: domain.Document{Content: text, Source: name},
	}}, nil
}

// normalizeVideo fetches captions in two passes: first with the preferred
// language hint, then with no hint. Provider failures are logged and treated
// as "no text", never propagated.
func (s *NormalizerService) normalizeVideo(ctx context.Context, videoURL string) []domain.SourceOutcome {
	if strings.TrimSpace(videoURL) == "" {
		return nil
	}

	text := s.fetchCaptions(ctx, videoURL, s.captionLang)
	if strings.TrimSpace(text) == "" {
		text = s.fetchCaptions(ctx, videoURL, "")
	}

	if strings.TrimSpace(text) == "" {
		return []domain.SourceOutcome{{
			Document: domain.Document{Source: videoURL},
			Note:     "no captions available for this video; enable subtitles on the video or paste a transcript instead",
		}}
	}

	return []domain.SourceOutcome{{
		Document: domain.Document{Content: text, Source: videoURL},
	}}
}

func (s *NormalizerService) fetchCaptions(ctx context.Context, videoURL, lang string) string {
	text, err := s.transcripts.Fetch(ctx, videoURL, lang)
	if err != nil {
		logger.Warn("caption fetch (lang=%q) failed for %s: %v", lang, videoURL, err)
		return ""
	}
	return text
}
