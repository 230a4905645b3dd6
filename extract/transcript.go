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
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TranscriptPlaceholder is substituted when no caption track can be fetched
// at all, so a material can still finish processing.
const TranscriptPlaceholder = "No transcript could be retrieved for this video. " +
	"Neither a published caption track nor an auto-generated one was available."

// defaultCaptionBaseURL is the caption service endpoint.
const defaultCaptionBaseURL = "https://video.google.com/timedtext"

// minTranscriptLength guards against caption tracks that exist but are
// effectively empty.
const minTranscriptLength = 10

// transcriptLanguages is the preference order for caption tracks.
var transcriptLanguages = []string{"ru", "en"}

// TranscriptExtractor fetches video transcripts from the caption service.
type TranscriptExtractor struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// TranscriptOption configures a TranscriptExtractor.
type TranscriptOption func(*TranscriptExtractor)

// WithCaptionBaseURL overrides the caption service endpoint. Used in tests.
func WithCaptionBaseURL(baseURL string) TranscriptOption {
	return func(e *TranscriptExtractor) {
		e.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) TranscriptOption {
	return func(e *TranscriptExtractor) {
		e.client = client
	}
}

// NewTranscriptExtractor creates an extractor with a 30 second request
// timeout unless a custom client is supplied.
func NewTranscriptExtractor(opts ...TranscriptOption) *TranscriptExtractor {
	extractor := &TranscriptExtractor{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultCaptionBaseURL,
		logger:  slog.Default().With("component", "transcript-extractor"),
	}
	for _, opt := range opts {
		opt(extractor)
	}
	return extractor
}

// Extract fetches the transcript for the video the source URL points at.
//
// Published caption tracks are tried first across the preferred languages,
// then auto-generated tracks. If no track yields usable text the placeholder
// is returned instead of an error; only a missing video ID is fatal.
func (e *TranscriptExtractor) Extract(ctx context.Context, sourceURL string) (string, error) {
	videoID, err := ExtractVideoID(sourceURL)
	if err != nil {
		return "", fmt.Errorf("parsing source url %q: %w", sourceURL, err)
	}

	logger := e.logger.With("video_id", videoID)

	for _, auto := range []bool{false, true} {
		for _, lang := range transcriptLanguages {
			text, err := e.fetchTrack(ctx, videoID, lang, auto)
			if err != nil {
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				logger.Debug("caption track fetch failed",
					"lang", lang, "auto", auto, "err", err)
				continue
			}
			if len(text) < minTranscriptLength {
				logger.Debug("caption track too short to use",
					"lang", lang, "auto", auto, "length", len(text))
				continue
			}
			logger.Info("fetched transcript",
				"lang", lang, "auto", auto, "length", len(text))
			return text, nil
		}
	}

	logger.Warn("no caption track available, substituting placeholder text")
	return TranscriptPlaceholder, nil
}

// captionTrack mirrors the caption service's XML response.
type captionTrack struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

func (e *TranscriptExtractor) fetchTrack(ctx context.Context, videoID, lang string, auto bool) (string, error) {
	query := url.Values{}
	query.Set("v", videoID)
	query.Set("lang", lang)
	if auto {
		query.Set("kind", "asr")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	response, err := e.client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption service returned status %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	var track captionTrack
	if err := xml.Unmarshal(body, &track); err != nil {
		return "", fmt.Errorf("parsing caption track: %w", err)
	}

	parts := make([]string, 0, len(track.Lines))
	for _, line := range track.Lines {
		if text := strings.TrimSpace(html.UnescapeString(line.Text)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
