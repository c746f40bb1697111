package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driving"
)

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0600))
	return path
}

func TestNormalize_InlineOnly(t *testing.T) {
	n := NewNormalizerService(&mockPDFExtractor{}, &mockTranscripts{}, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{Text: "hello world"})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.True(t, outcomes[0].OK())
	assert.Equal(t, "hello world", outcomes[0].Document.Content)
	assert.Equal(t, domain.SourceInline, outcomes[0].Document.Source)
	assert.Empty(t, outcomes[0].Note)
}

func TestNormalize_BlankInlineSkipped(t *testing.T) {
	n := NewNormalizerService(&mockPDFExtractor{}, &mockTranscripts{}, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{Text: "  \n "})
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestNormalize_PDFSuccess(t *testing.T) {
	n := NewNormalizerService(&mockPDFExtractor{text: "extracted text"}, &mockTranscripts{}, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{
		PDFPath: writeTempPDF(t),
		PDFName: "report.pdf",
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.True(t, outcomes[0].OK())
	assert.Equal(t, "extracted text", outcomes[0].Document.Content)
	assert.Equal(t, "report.pdf", outcomes[0].Document.Source)
}

func TestNormalize_PDFExtractionFailureIsSoft(t *testing.T) {
	n := NewNormalizerService(&mockPDFExtractor{err: errors.New("broken xref")}, &mockTranscripts{}, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{
		PDFPath: writeTempPDF(t),
		PDFName: "broken.pdf",
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.False(t, outcomes[0].OK())
	assert.Equal(t, "broken.pdf", outcomes[0].Document.Source)
	assert.Contains(t, outcomes[0].Note, "broken.pdf")
}

func TestNormalize_PDFEmptyTextLayerIsSoft(t *testing.T) {
	n := NewNormalizerService(&mockPDFExtractor{text: "  \n "}, &mockTranscripts{}, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{
		PDFPath: writeTempPDF(t),
		PDFName: "scan.pdf",
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.False(t, outcomes[0].OK())
	assert.Contains(t, outcomes[0].Note, "no text layer")
}

func TestNormalize_PDFMissingFileIsFatal(t *testing.T) {
	n := NewNormalizerService(&mockPDFExtractor{text: "irrelevant"}, &mockTranscripts{}, "en")

	_, err := n.Normalize(context.Background(), driving.IngestRequest{
		PDFPath: filepath.Join(t.TempDir(), "missing.pdf"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestNormalize_PDFDefaultName(t *testing.T) {
	n := NewNormalizerService(&mockPDFExtractor{text: "content"}, &mockTranscripts{}, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{PDFPath: writeTempPDF(t)})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, DefaultPDFName, outcomes[0].Document.Source)
}

func TestNormalize_VideoPreferredLanguage(t *testing.T) {
	transcripts := &mockTranscripts{byLang: map[string]string{"en": "english captions"}}
	n := NewNormalizerService(&mockPDFExtractor{}, transcripts, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{
		VideoURL: "https://youtu.be/abc123",
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.True(t, outcomes[0].OK())
	assert.Equal(t, "english captions", outcomes[0].Document.Content)
	assert.Equal(t, "https://youtu.be/abc123", outcomes[0].Document.Source)
	assert.Equal(t, []string{"en"}, transcripts.langs)
}

func TestNormalize_VideoFallsBackToAnyLanguage(t *testing.T) {
	transcripts := &mockTranscripts{byLang: map[string]string{"": "fallback captions"}}
	n := NewNormalizerService(&mockPDFExtractor{}, transcripts, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{
		VideoURL: "https://youtu.be/abc123",
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.True(t, outcomes[0].OK())
	assert.Equal(t, "fallback captions", outcomes[0].Document.Content)
	assert.Equal(t, []string{"en", ""}, transcripts.langs)
}

func TestNormalize_VideoNoCaptionsIsSoft(t *testing.T) {
	n := NewNormalizerService(&mockPDFExtractor{}, &mockTranscripts{}, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{
		VideoURL: "https://youtu.be/abc123",
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.False(t, outcomes[0].OK())
	assert.Contains(t, outcomes[0].Note, "no captions")
}

func TestNormalize_OutputOrderIsStable(t *testing.T) {
	transcripts := &mockTranscripts{byLang: map[string]string{"en": "captions"}}
	n := NewNormalizerService(&mockPDFExtractor{text: "pdf text"}, transcripts, "en")

	outcomes, err := n.Normalize(context.Background(), driving.IngestRequest{
		Text:     "pasted",
		PDFPath:  writeTempPDF(t),
		PDFName:  "slides.pdf",
		VideoURL: "https://youtu.be/abc123",
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, domain.SourceInline, outcomes[0].Document.Source)
	assert.Equal(t, "slides.pdf", outcomes[1].Document.Source)
	assert.Equal(t, "https://youtu.be/abc123", outcomes[2].Document.Source)
}
