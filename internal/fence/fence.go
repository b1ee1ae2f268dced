// Package fence removes Markdown code-fence wrapping from raw input.
package fence

import (
	"regexp"
	"strings"
)

var (
	// First fenced block, optional language tag on the opening fence.
	blockRegex  = regexp.MustCompile("(?is)```(?:[a-zA-Z0-9_+\\-]+)?\\s*(.*?)\\s*```")
	inlineRegex = regexp.MustCompile("`([^`]*)`")
)

// Strip returns the trimmed body of the first fenced block in input. Without a
// fenced block, inline backtick spans lose their backticks and the rest of the
// text is left as is. Invalid UTF-8 is replaced before matching.
func Strip(input []byte) []byte {
	text := strings.ToValidUTF8(string(input), "�")

	if match := blockRegex.FindStringSubmatch(text); match != nil {
		return []byte(match[1])
	}
	return []byte(inlineRegex.ReplaceAllString(text, "${1}"))
}

// StripString is Strip for text that is already decoded.
func StripString(text string) string {
	return string(Strip([]byte(text)))
}
