package syntax

import (
	"strings"
	"unicode"
)

// ParseRule splits rule text into its optional token class and its pattern.
//
// A rule that starts with %Name declares the named token class Name; the
// pattern follows after whitespace:
//
//	%Keyword 'if'        -> ("Keyword", "'if'")
//	[0-9]+               -> ("", "[0-9]+")
//
// A lone '%' is an ordinary pattern character.
func ParseRule(text string) (class, pattern string) {
	if !strings.HasPrefix(text, "%") {
		return "", text
	}
	end := strings.IndexFunc(text, unicode.IsSpace)
	if end < 0 {
		end = len(text)
	}
	if end == 1 {
		return "", text
	}
	return text[1:end], strings.TrimLeftFunc(text[end:], unicode.IsSpace)
}
