package speech

import (
	"regexp"
	"strings"
)

var (
	// [display text](url) -> display text
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	// leading bullet markers on a line
	bulletPrefix = regexp.MustCompile(`(?m)^\s*[-•]\s+`)
	// emphasis, heading, code and strikethrough markers
	markupChars = regexp.MustCompile("[*_#`~]+")
	// runs of sentence punctuation collapse to the first character
	repeatedPunct = regexp.MustCompile(`([.!?,;:])[.!?,;:]+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// CleanText prepares markdown-flavoured chat output for audio synthesis:
// links collapse to their display text, newlines become sentence breaks,
// markup characters are dropped and punctuation/whitespace runs collapse.
func CleanText(text string) string {
	text = markdownLink.ReplaceAllString(text, "$1")
	text = bulletPrefix.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", ". ")
	text = markupChars.ReplaceAllString(text, "")
	text = repeatedPunct.ReplaceAllString(text, "$1")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
