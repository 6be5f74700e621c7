package analyzer

import "unicode"

// sentence is a raw segment with rune offsets into the passage.
type sentence struct {
	text  string
	start int
	end   int
}

// segment splits the passage into sentence-like units, tracking rune
// offsets. Terminators are . ! ? … followed by whitespace, a closing quote,
// or end of text; a newline always ends the current unit. A period between
// digits ("3.5") does not terminate.
func segment(passage string) []sentence {
	runes := []rune(passage)
	var out []sentence
	start := 0

	flush := func(end int) {
		s, a, b := trimSpan(runes, start, end)
		if s != "" {
			out = append(out, sentence{text: s, start: a, end: b})
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			flush(i + 1)
			continue
		}
		if !isTerminator(r) {
			continue
		}
		if r == '.' && i > 0 && i+1 < len(runes) &&
			unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		// Keep trailing quotes with the sentence.
		end := i + 1
		for end < len(runes) && isClosingQuote(runes[end]) {
			end++
		}
		if end >= len(runes) || unicode.IsSpace(runes[end]) {
			flush(end)
			i = end - 1
		}
	}
	flush(len(runes))
	return out
}

// trimSpan trims whitespace from both ends, adjusting offsets.
func trimSpan(runes []rune, start, end int) (string, int, int) {
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	return string(runes[start:end]), start, end
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

func isClosingQuote(r rune) bool {
	switch r {
	case '"', '\'', '’', '”', '」', '』':
		return true
	}
	return false
}
