package domain

import "strings"

// SourceInline is the provenance label for pasted text.
const SourceInline = "inline"

// Document is the canonical representation of one ingested input after
// normalisation: the full extracted text plus its provenance.
type Document struct {
	// Content is the complete text before chunking.
	Content string

	// Source identifies where the content came from: "inline" for pasted
	// text, the original filename for uploads, or the video URL.
	Source string
}

// Chunk is the unit of embedding and retrieval: a bounded slice of a
// Document's content with the parent's provenance copied over.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text of this chunk.
	Content string

	// Source is inherited from the parent Document.
	Source string

	// Position is the ordinal position within the parent Document.
	Position int
}

// SourceOutcome tags the result of normalising a single input. A soft
// extraction failure (unreadable PDF, missing captions) produces an outcome
// with empty content and a diagnostic Note, so an ingestion batch can still
// succeed on its other inputs.
type SourceOutcome struct {
	Document Document

	// Note carries the failure diagnostic for soft failures, or extra
	// context for partially successful extractions. Empty on clean success.
	Note string
}

// OK reports whether the outcome carries usable content.
func (o SourceOutcome) OK() bool {
	return strings.TrimSpace(o.Document.Content) != ""
}

// Citation points a reader back at the retrieved chunk an answer drew on.
type Citation struct {
	// Source is the chunk's provenance label.
	Source string `json:"source"`

	// Snippet is the leading portion of the chunk's content.
	Snippet string `json:"snippet"`
}

// Answer is the result of one retrieval-augmented question. It is returned
// per query and never stored.
type Answer struct {
	// Text is the model's grounded answer.
	Text string `json:"text"`

	// Sources lists one citation per retrieved chunk, in retrieval order.
	// Duplicate sources are kept as-is.
	Sources []Citation `json:"sources"`
}
