package extract

import (
	"context"

	"github.com/poiesic/studykit/blob"
	"github.com/poiesic/studykit/core"
)

// Extractor dispatches extraction by source kind.
type Extractor struct {
	documents   *DocumentExtractor
	transcripts *TranscriptExtractor
}

// NewExtractor creates an extractor over the given blob store.
func NewExtractor(store blob.Store, opts ...TranscriptOption) *Extractor {
	return &Extractor{
		documents:   NewDocumentExtractor(store),
		transcripts: NewTranscriptExtractor(opts...),
	}
}

// Extract produces the raw text for a material source.
func (e *Extractor) Extract(ctx context.Context, kind core.SourceKind, sourceRef string) (string, error) {
	switch kind {
	case core.SourceKindDocument:
		return e.documents.Extract(ctx, sourceRef)
	case core.SourceKindTranscript:
		return e.transcripts.Extract(ctx, sourceRef)
	default:
		return "", ErrUnknownSourceKind
	}
}
