package corpus

import "strings"

// Detokenize joins tokens with spaces and repairs two tokenizer artifacts:
// split hyphenated compounds ("Engels - Nederlandse") and detached ordinal
// suffixes ("19 e eeuw"). The replacements run in this order.
func Detokenize(tokens []string) string {
	s := strings.Join(tokens, " ")
	s = strings.ReplaceAll(s, " - ", "-")
	s = strings.ReplaceAll(s, " e ", "e ")
	return s
}
