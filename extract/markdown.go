package extract

import (
	"regexp"
	"strings"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	// Backreferences are not supported by Go's regexp engine, so each
	// delimiter pair is spelled out explicitly (longest first, matching
	// the greedy behavior of the original `(\*{1,3}|_{1,3})(...)\1`).
	emphasisRe    = regexp.MustCompile(`\*{3}(\S(?:.*?\S)?)\*{3}|\*{2}(\S(?:.*?\S)?)\*{2}|\*(\S(?:.*?\S)?)\*|_{3}(\S(?:.*?\S)?)_{3}|_{2}(\S(?:.*?\S)?)_{2}|_(\S(?:.*?\S)?)_`)
	blockquoteRe  = regexp.MustCompile(`(?m)^>\s?`)
	listMarkerRe  = regexp.MustCompile(`(?m)^\s*([-*+]|\d+\.)\s+`)
	horizontalRe  = regexp.MustCompile(`(?m)^([-*_]\s*){3,}$`)
	tablePipeRe   = regexp.MustCompile(`(?m)^\|`)
	trailingPipes = regexp.MustCompile(`(?m)\|$`)
)

// markdownToText strips markdown syntax, leaving the plain text content.
// Fenced code blocks are removed entirely, the rest keeps its wording.
func markdownToText(source []byte) string {
	text := string(source)

	text = fencedCodeRe.ReplaceAllString(text, "")
	text = imageRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	for i := 0; i < 3; i++ { // nested emphasis
		text = emphasisRe.ReplaceAllString(text, "$1$2$3$4$5$6")
	}
	text = blockquoteRe.ReplaceAllString(text, "")
	text = listMarkerRe.ReplaceAllString(text, "")
	text = horizontalRe.ReplaceAllString(text, "")
	text = tablePipeRe.ReplaceAllString(text, "")
	text = trailingPipes.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, " | ", " ")

	return strings.TrimSpace(text)
}
