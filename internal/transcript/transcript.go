// Package transcript normalizes recognized text before delivery.
package transcript

import "strings"

// Options controls transcript normalization behavior.
type Options struct {
	// TrailingSpace appends one space so consecutive dictations concatenate
	// cleanly at the paste target.
	TrailingSpace bool
	// CapitalizeSentences fixes casing for providers that return lowercase
	// text.
	CapitalizeSentences bool
}

// Normalize collapses whitespace and applies configured casing fixes. Empty
// or whitespace-only input normalizes to the empty string regardless of
// options.
func Normalize(text string, opts Options) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}

	if opts.CapitalizeSentences {
		normalized = capitalizeSentences(normalized)
	}

	if opts.TrailingSpace {
		return normalized + " "
	}
	return normalized
}
