package extract

import "errors"

var (
	// ErrNoVideoID indicates no video ID could be parsed from the source URL.
	ErrNoVideoID = errors.New("no video id in source url")

	// ErrEmptyDocument indicates the document yielded no text.
	ErrEmptyDocument = errors.New("document contains no text")

	// ErrUnknownSourceKind indicates a material with a source kind the
	// extractor does not handle.
	ErrUnknownSourceKind = errors.New("unknown source kind")
)
