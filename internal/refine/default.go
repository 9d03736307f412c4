package refine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yoonbae81/ytcapt/internal/caption"
)

// Default is the English-oriented refiner and the fallback for languages
// without a dedicated variant.
var Default LanguageRefiner = defaultRefiner{}

type defaultRefiner struct{}

// Refine joins cue texts with single spaces. A sentence closes at terminal
// punctuation followed by a capitalized token or the end of the track; no
// further lexical rewriting is applied.
func (defaultRefiner) Refine(cues []caption.Cue) []string {
	var b paragraphBuilder

	for i, cue := range cues {
		if i > 0 && cue.Start-cues[i-1].End > paragraphGap {
			b.pushSentence(b.takeSentence())
			b.breakParagraph()
		}

		tokens := strings.Fields(cue.Text)
		for j, token := range tokens {
			b.add(token)
			if !endsWithTerminal(token) {
				continue
			}
			next, ok := nextToken(cues, i, j)
			if !ok || startsUpper(next) {
				b.pushSentence(b.takeSentence())
			}
		}
	}

	return b.flush()
}

func endsWithTerminal(token string) bool {
	return strings.HasSuffix(token, ".") ||
		strings.HasSuffix(token, "!") ||
		strings.HasSuffix(token, "?")
}

func startsUpper(token string) bool {
	r, _ := utf8.DecodeRuneInString(token)
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}

// nextToken returns the token following position j of cue i, looking into
// subsequent cues when the current one is exhausted.
func nextToken(cues []caption.Cue, i, j int) (string, bool) {
	tokens := strings.Fields(cues[i].Text)
	if j+1 < len(tokens) {
		return tokens[j+1], true
	}
	for k := i + 1; k < len(cues); k++ {
		rest := strings.Fields(cues[k].Text)
		if len(rest) > 0 {
			return rest[0], true
		}
	}
	return "", false
}
