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


package textproc

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// RecoveryStatus reports how the recovery engine handled the input.
type RecoveryStatus int

const (
	// RecoveryUnchanged means the input showed no corruption signal (or was
	// already Cyrillic) and was returned as-is.
	RecoveryUnchanged RecoveryStatus = iota + 1
	// RecoveryApplied means a reconstruction cleared the accept threshold.
	RecoveryApplied
	// RecoveryLowConfidence means the best reconstruction produced some
	// Cyrillic but stayed below the threshold; it is returned anyway.
	RecoveryLowConfidence
	// RecoveryFailed means no reconstruction produced any Cyrillic; the
	// input is returned unchanged.
	RecoveryFailed
)

func (s RecoveryStatus) String() string {
	switch s {
	case RecoveryUnchanged:
		return "unchanged"
	case RecoveryApplied:
		return "applied"
	case RecoveryLowConfidence:
		return "low_confidence"
	case RecoveryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Candidate legacy code pages for Cyrillic text, most common first.
var candidatePages = []*charmap.Charmap{
	charmap.Windows1251,
	charmap.KOI8R,
	charmap.CodePage866,
	charmap.ISO8859_5,
}

// Recover repairs text whose Cyrillic content was decoded under a wrong
// single-byte code page. It reconstructs candidate byte buffers from the
// rune codes, decodes each under every candidate code page, and keeps the
// result with the most characters in the Cyrillic block.
//
// Text that already contains Cyrillic, text in another non-Latin script,
// and text with no runes a single-byte misdecode could produce are all
// returned unchanged: correct input is never mangled.
func Recover(text string) (string, RecoveryStatus) {
	if text == "" {
		return text, RecoveryUnchanged
	}
	if !looksCorrupted(text) {
		return text, RecoveryUnchanged
	}

	var best string
	bestScore := 0
	bestLower := 0

	for _, reconstruct := range byteStrategies {
		raw, ok := reconstruct(text)
		if !ok {
			continue
		}
		for _, page := range candidatePages {
			decoded, err := page.NewDecoder().Bytes(raw)
			if err != nil {
				continue
			}
			score, lower := cyrillicCount(string(decoded))
			// Ties between code pages are common because several place
			// Cyrillic across the same byte range. A wrong page flips the
			// case profile, so prefer the decode with more lowercase.
			if score > bestScore || (score == bestScore && lower > bestLower) {
				bestScore = score
				bestLower = lower
				best = string(decoded)
			}
		}
	}

	if bestScore == 0 {
		return text, RecoveryFailed
	}

	// Accept outright when at least 30% of the runes came back Cyrillic and
	// the absolute count is non-trivial; otherwise flag low confidence.
	runes := len([]rune(best))
	if bestScore >= 4 && runes > 0 && bestScore*10 >= runes*3 {
		return best, RecoveryApplied
	}
	return best, RecoveryLowConfidence
}

// byteStrategies are the rules for re-interpreting each rune's numeric code
// as a raw byte. Low-byte truncation covers text misread as Latin-1 (rune
// code == original byte); the Windows-1252 round trip covers the common case
// where the bytes were misread under cp1252 and some codes landed above 0xFF.
var byteStrategies = []func(string) ([]byte, bool){
	lowByteTruncation,
	windows1252RoundTrip,
}

func lowByteTruncation(text string) ([]byte, bool) {
	runes := []rune(text)
	raw := make([]byte, len(runes))
	for i, r := range runes {
		raw[i] = byte(r & 0xFF)
	}
	return raw, true
}

func windows1252RoundTrip(text string) ([]byte, bool) {
	enc := charmap.Windows1252.NewEncoder()
	enc = encoding.ReplaceUnsupported(enc)
	raw, err := enc.Bytes([]byte(text))
	if err != nil {
		return nil, false
	}
	return raw, true
}

// looksCorrupted reports whether the text carries a corruption signal:
// no Cyrillic characters, but runes a misread single-byte encoding could
// have produced. Any other non-ASCII rune (Greek, CJK, and so on) means
// the text decoded correctly and must not be touched.
func looksCorrupted(text string) bool {
	signal := false
	for _, r := range text {
		if r <= 0x7F {
			continue
		}
		if isCyrillic(r) {
			return false
		}
		if !isMojibakeRune(r) {
			return false
		}
		signal = true
	}
	return signal
}

// isMojibakeRune reports whether a rune can come out of a wrong single-byte
// decode: the 0x80-0xFF band (Latin-1 misread) or the characters Windows-1252
// assigns to the 0x80-0x9F byte range.
func isMojibakeRune(r rune) bool {
	if r >= 0x80 && r <= 0xFF {
		return true
	}
	switch r {
	case '\u20AC', '\u201A', '\u0192', '\u201E', '\u2026', '\u2020', '\u2021',
		'\u02C6', '\u2030', '\u0160', '\u2039', '\u0152', '\u017D',
		'\u2018', '\u2019', '\u201C', '\u201D', '\u2022', '\u2013', '\u2014',
		'\u02DC', '\u2122', '\u0161', '\u203A', '\u0153', '\u017E', '\u0178':
		return true
	}
	return false
}

func isCyrillic(r rune) bool {
	return r >= 0x0400 && r <= 0x04FF
}

func cyrillicCount(text string) (count, lower int) {
	for _, r := range text {
		if !isCyrillic(r) {
			continue
		}
		count++
		if (r >= 0x0430 && r <= 0x044F) || r == 0x0451 {
			lower++
		}
	}
	return count, lower
}
