package questgen

import (
	"regexp"
	"strings"
)

// Slot defaults used when a text yields nothing extractable.
const (
	defaultSnippet = "해당 내용"
	defaultEntity  = "주요 대상"
)

// snippetStrategy selection weights. Middle is deliberately rare: cutting
// into the middle of a sentence destroys more context than truncating
// either end.
const (
	snippetStartWeight  = 70
	snippetMiddleWeight = 10
	// end takes the remaining 20.
)

// extractSnippet returns a sub-span of at most maxRunes runes, chosen by
// the start/middle/end strategy mix.
func (g *Generator) extractSnippet(text string, maxRunes int) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return defaultSnippet
	}
	runes := []rune(cleaned)
	if len(runes) <= maxRunes {
		return cleaned
	}

	switch p := g.rng.IntN(100); {
	case p < snippetStartWeight:
		return string(runes[:maxRunes]) + "..."
	case p < snippetStartWeight+snippetMiddleWeight:
		start := g.rng.IntN(len(runes) - maxRunes + 1)
		return "..." + string(runes[start:start+maxRunes]) + "..."
	default:
		return "..." + string(runes[len(runes)-maxRunes:])
	}
}

// entityStopwords are pronouns, bound nouns and demonstratives that make
// useless question subjects. Applied at every cascade stage.
var entityStopwords = map[string]bool{
	"그것": true, "이것": true, "저것": true, "그거": true, "이거": true,
	"무엇": true, "누구": true, "여기": true, "저기": true, "거기": true,
	"우리": true, "당신": true, "자신": true, "여러분": true,
	"때문": true, "경우": true, "정도": true, "자체": true,
	"하는": true, "있는": true, "어떤": true, "할수": true,
	"이런": true, "저런": true, "그런": true,
}

// particles stripped from the tail of a candidate noun, longest first so
// "에서는" wins over "는".
var particles = []string{
	"이라는", "라는", "에서는", "에게는", "으로써", "으로서",
	"에서", "에게", "께서", "부터", "까지", "마저", "조차", "처럼", "보다", "으로",
	"은", "는", "이", "가", "을", "를", "에", "의", "와", "과", "도", "만", "로",
}

var hangulWord = regexp.MustCompile(`^[가-힣]{2,}$`)

// stripParticle removes one trailing grammatical particle, if any.
func stripParticle(token string) string {
	for _, p := range particles {
		if strings.HasSuffix(token, p) {
			stripped := strings.TrimSuffix(token, p)
			if len([]rune(stripped)) >= 2 {
				return stripped
			}
		}
	}
	return token
}

// cleanToken strips non-Hangul characters from both ends of a token.
func cleanToken(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return r < '가' || r > '힣'
	})
}

// entityCandidates builds the ranked candidate list for a text:
// a 2-3 word compact noun phrase first, then single content words with
// particles stripped, then the bare first token as last resort.
func entityCandidates(text string) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	var out []string

	// Stage 1: compact noun phrase. A bare noun followed by a
	// particle-marked noun ("기후 변화는") is a strong phrase signal;
	// two bare nouns before the marked one extend it to three words.
	if phrase, ok := nounPhrase(tokens); ok {
		out = append(out, phrase)
	}

	// Stage 2: single content words, particle-stripped.
	for _, tok := range tokens {
		w := stripParticle(cleanToken(tok))
		if !hangulWord.MatchString(w) || entityStopwords[w] {
			continue
		}
		out = append(out, w)
	}

	// Stage 3: raw first token.
	out = append(out, tokens[0])
	return dedupe(out)
}

func nounPhrase(tokens []string) (string, bool) {
	if len(tokens) < 2 {
		return "", false
	}
	isBareNoun := func(tok string) bool {
		w := cleanToken(tok)
		return hangulWord.MatchString(w) && w == stripParticle(w) && !entityStopwords[w]
	}
	isMarkedNoun := func(tok string) (string, bool) {
		w := cleanToken(tok)
		stripped := stripParticle(w)
		if stripped == w || !hangulWord.MatchString(stripped) || entityStopwords[stripped] {
			return "", false
		}
		return stripped, true
	}

	if !isBareNoun(tokens[0]) {
		return "", false
	}
	if head, ok := isMarkedNoun(tokens[1]); ok {
		return cleanToken(tokens[0]) + " " + head, true
	}
	if len(tokens) >= 3 && isBareNoun(tokens[1]) {
		if head, ok := isMarkedNoun(tokens[2]); ok {
			return cleanToken(tokens[0]) + " " + cleanToken(tokens[1]) + " " + head, true
		}
	}
	return "", false
}

// extractEntity picks the best candidate not already used in this session.
// All candidates used → the strongest one repeats.
func extractEntity(text string, used map[string]bool) string {
	candidates := entityCandidates(text)
	if len(candidates) == 0 {
		return defaultEntity
	}
	for _, c := range candidates {
		if !used[c] {
			return c
		}
	}
	return candidates[0]
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
