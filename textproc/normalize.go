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
	"regexp"
	"strings"
	"unicode"
)

var (
	pageNumberLine = regexp.MustCompile(`^\d{1,4}$`)
	pageLabelLine  = regexp.MustCompile(`(?i)^(page|стр\.?|страница)\s*\d+(\s*(of|из)\s*\d+)?$`)
	separatorLine  = regexp.MustCompile(`^[-_=*•.\s]{3,}$`)
)

// Normalize cleans extracted text for downstream chunking and generation.
// It trims per-line whitespace, collapses runs of blank lines, collapses
// horizontal whitespace runs inside lines, and drops pagination artifacts
// such as bare page numbers and "Page N" labels.
//
// Normalize is idempotent. If cleaning would remove more than 90% of a
// non-trivial input, the input is assumed to be unusual rather than noisy
// and is returned with only outer whitespace trimmed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			blanks++
			// At most one blank line survives between paragraphs.
			if blanks > 1 || len(out) == 0 {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0
		if isPaginationLine(line) {
			continue
		}
		out = append(out, collapseSpaces(line))
	}
	// Drop a trailing blank left by the paragraph logic.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	result := strings.Join(out, "\n")

	// Safety valve: pagination stripping should never gut real content.
	if len(text) > 100 && len(result)*10 < len(text) {
		return strings.TrimSpace(text)
	}
	return result
}

// isPaginationLine reports whether a trimmed line is a pagination artifact.
func isPaginationLine(line string) bool {
	if pageNumberLine.MatchString(line) {
		return true
	}
	if pageLabelLine.MatchString(line) {
		return true
	}
	if separatorLine.MatchString(line) && !hasLetterOrDigit(line) {
		return true
	}
	return false
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// collapseSpaces replaces runs of horizontal whitespace with a single space.
func collapseSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	inSpace := false
	for _, r := range line {
		if r == ' ' || r == '\t' || r == ' ' {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
