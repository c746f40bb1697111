// Package pdftotext extracts text from PDF files by shelling out to
// poppler's pdftotext. Keeping the extraction behind a CommandRunner makes
// the adapter testable without the binary installed.
package pdftotext

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"ragserver/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PDFExtractor = (*Extractor)(nil)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner is the production CommandRunner using os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor converts PDF files to plain text via pdftotext.
type Extractor struct {
	runner CommandRunner
}

// New creates an extractor using the system pdftotext binary.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom runner. Used in tests.
func NewWithRunner(r CommandRunner) *Extractor {
	return &Extractor{runner: r}
}

// Extract returns the text content of the PDF at path. -layout keeps
// columns readable and -nopgbrk drops form-feed page breaks.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", "-nopgbrk", "-q", path, "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("pdftotext is not installed: %w\n%s", err, InstallInstructions())
		}
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return "Install poppler to enable PDF ingestion:\n" +
		"  macOS:         brew install poppler\n" +
		"  Debian/Ubuntu: apt install poppler-utils\n" +
		"  Fedora:        dnf install poppler-utils"
}
