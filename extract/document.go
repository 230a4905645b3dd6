// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/poiesic/studykit/blob"
)

// DocumentExtractor converts stored document blobs into text.
type DocumentExtractor struct {
	store  blob.Store
	logger *slog.Logger
}

// NewDocumentExtractor creates an extractor reading from the given store.
func NewDocumentExtractor(store blob.Store) *DocumentExtractor {
	return &DocumentExtractor{
		store:  store,
		logger: slog.Default().With("component", "document-extractor"),
	}
}

// Extract fetches the blob the reference points at and converts it to text.
// The format is chosen by the reference's file extension; anything without a
// recognized extension is treated as plain text.
func (e *DocumentExtractor) Extract(ctx context.Context, ref string) (string, error) {
	data, err := e.store.Get(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("fetching document %q: %w", ref, err)
	}

	var text string
	switch strings.ToLower(path.Ext(ref)) {
	case ".html", ".htm", ".xhtml":
		text, err = htmlToText(data)
		if err != nil {
			return "", fmt.Errorf("parsing html document %q: %w", ref, err)
		}
	case ".md", ".markdown":
		text = markdownToText(data)
	default:
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}

	e.logger.Debug("extracted document text", "ref", ref, "length", len(text))
	return text, nil
}
