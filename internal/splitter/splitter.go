// Package splitter provides recursive character splitting of documents into
// overlapping chunks sized for embedding and retrieval.
package splitter

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"ragserver/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 160

// defaultSeparators lists split points in priority order: paragraph breaks,
// line breaks, sentence boundaries, word boundaries, then raw characters.
var defaultSeparators = []string{"\n\n", "\n", ". ", " "}

// Splitter splits document content into bounded, overlapping chunks. It
// prefers semantic boundaries but always terminates: content with no usable
// separator is cut at raw character positions.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the target overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split breaks one document into chunks. Each chunk copies the document's
// provenance. Documents with blank content yield no chunks.
func (s *Splitter) Split(doc domain.Document) []domain.Chunk {
	if strings.TrimSpace(doc.Content) == "" {
		return nil
	}

	fragments := s.split(doc.Content, s.separators)
	windows := s.merge(fragments)

	chunks := make([]domain.Chunk, 0, len(windows))
	for i, w := range windows {
		if strings.TrimSpace(w) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Content:  w,
			Source:   doc.Source,
			Position: i,
		})
	}
	return chunks
}

// SplitAll splits a batch of documents, preserving document order.
func (s *Splitter) SplitAll(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, d := range docs {
		chunks = append(chunks, s.Split(d)...)
	}
	return chunks
}

// split recursively breaks text into non-overlapping fragments no longer
// than chunkSize, trying earlier separators first.
func (s *Splitter) split(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return s.hardSplit(text)
	}

	sep := seps[0]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		// Separator absent; fall through to the next one.
		return s.split(text, seps[1:])
	}

	var fragments []string
	for i, p := range parts {
		if i < len(parts)-1 {
			// Keep the separator so merged chunks reconstruct the text.
			p += sep
		}
		if p == "" {
			continue
		}
		fragments = append(fragments, s.split(p, seps[1:])...)
	}
	return fragments
}

// hardSplit cuts text at raw character positions. Last resort when no
// separator produces a unit within the size limit.
func (s *Splitter) hardSplit(text string) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// merge packs fragments into windows of at most chunkSize characters,
// carrying up to overlap trailing characters into the next window. The
// realised overlap is fragment-granular: non-negative and bounded by the
// configured overlap.
func (s *Splitter) merge(fragments []string) []string {
	var (
		out    []string
		cur    []string
		curLen int
	)

	flush := func() {
		if curLen == 0 {
			return
		}
		out = append(out, strings.Join(cur, ""))
		// Retain a tail of fragments as the next window's overlap.
		for curLen > s.overlap && len(cur) > 0 {
			curLen -= utf8.RuneCountInString(cur[0])
			cur = cur[1:]
		}
	}

	for _, f := range fragments {
		fl := utf8.RuneCountInString(f)
		if curLen > 0 && curLen+fl > s.chunkSize {
			flush()
			// A retained tail alone may still not leave room.
			for curLen > 0 && curLen+fl > s.chunkSize {
				curLen -= utf8.RuneCountInString(cur[0])
				cur = cur[1:]
			}
		}
		cur = append(cur, f)
		curLen += fl
	}
	if curLen > 0 {
		out = append(out, strings.Join(cur, ""))
	}
	return out
}
