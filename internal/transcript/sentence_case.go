package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	pronounIContractionPattern = regexp.MustCompile(`\bi['’](?:m|d|ll|ve|re|s)\b`)

	// Whitespace-delimited so dotted tokens such as "i.e." stay lowercase.
	pronounIWordPattern = regexp.MustCompile(`(^|\s)i($|[\s,;:!?])`)

	// nonTerminalAbbreviations are tokens whose trailing period does not end a
	// sentence in typical dictation.
	nonTerminalAbbreviations = map[string]struct{}{
		"dr":   {},
		"e.g":  {},
		"etc":  {},
		"fig":  {},
		"i.e":  {},
		"jr":   {},
		"mr":   {},
		"mrs":  {},
		"ms":   {},
		"prof": {},
		"sr":   {},
		"vs":   {},
	}
)

// capitalizeSentences uppercases sentence-leading letters and the standalone
// pronoun I. Periods inside decimals, dotted tokens (e.g. hostnames), and
// common abbreviations are not treated as sentence boundaries.
func capitalizeSentences(text string) string {
	runes := []rune(text)

	var out strings.Builder
	out.Grow(len(text))

	capitalizeNext := true
	for i, r := range runes {
		if capitalizeNext && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
			capitalizeNext = false
		} else if capitalizeNext && unicode.IsDigit(r) {
			capitalizeNext = false
		}

		out.WriteRune(r)

		switch r {
		case '.':
			if isSentenceBoundaryPeriod(runes, i) {
				capitalizeNext = true
			}
		case '!', '?':
			capitalizeNext = true
		}
	}

	result := pronounIContractionPattern.ReplaceAllStringFunc(out.String(), func(match string) string {
		return "I" + match[1:]
	})
	return pronounIWordPattern.ReplaceAllString(result, "${1}I${2}")
}

// isSentenceBoundaryPeriod decides whether the period at idx ends a sentence.
func isSentenceBoundaryPeriod(runes []rune, idx int) bool {
	// A period glued to the next token (decimals, hostnames, e.g./i.e.) is not
	// a boundary.
	if idx+1 < len(runes) && !unicode.IsSpace(runes[idx+1]) {
		return false
	}

	token := strings.ToLower(strings.Trim(tokenBeforePeriod(runes, idx), "."))
	if token == "" {
		return false
	}
	if _, ok := nonTerminalAbbreviations[token]; ok {
		return false
	}
	// Single letters read as initialisms ("j. smith"), except the pronoun I.
	if len(token) == 1 && token != "i" {
		return false
	}
	return true
}

// tokenBeforePeriod walks back from the period to the preceding word,
// including interior periods so dotted abbreviations survive intact.
func tokenBeforePeriod(runes []rune, idx int) string {
	end := idx
	start := idx
	for start > 0 {
		prev := runes[start-1]
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) || prev == '.' || prev == '\'' || prev == '’' {
			start--
			continue
		}
		break
	}
	return string(runes[start:end])
}
