// Package util holds small formatting helpers shared by command
// implementations.
package util

import (
	"strings"
	"unicode/utf8"
)

const codeblockOverhead = len("```\n") + len("```")

// Codeblock wraps text in a Discord code block. Backtick fences inside
// the text are broken up so they cannot terminate the block early.
func Codeblock(text string) string {
	return "```\n" + strings.ReplaceAll(text, "```", "`​`​`") + "```"
}

// CodeblockTruncated is Codeblock bounded to limit runes, cutting the
// text with an ellipsis marker when it does not fit. Discord rejects
// messages over 2000 characters.
func CodeblockTruncated(text string, limit int) string {
	const marker = "\n<...>"
	budget := limit - codeblockOverhead
	if utf8.RuneCountInString(text) > budget {
		runes := []rune(text)
		text = string(runes[:budget-len(marker)]) + marker
	}
	return Codeblock(text)
}
