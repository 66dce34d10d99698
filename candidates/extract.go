package candidates

import (
	"strings"
)

// ExtractProgram returns the first fenced code block in text. The fence
// may carry a language tag. A completion with no fenced block is not a
// program at all, so ok is false.
func ExtractProgram(text string) (program string, ok bool) {
	const fence = "```"

	start := strings.Index(text, fence)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(fence):]

	// skip the language tag line
	newline := strings.IndexByte(rest, '\n')
	if newline < 0 {
		return "", false
	}
	rest = rest[newline+1:]

	end := strings.Index(rest, fence)
	if end < 0 {
		return "", false
	}

	return strings.TrimRight(rest[:end], "\n"), true
}
