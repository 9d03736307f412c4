package refine

import (
	"sort"
	"strings"

	"github.com/yoonbae81/ytcapt/internal/caption"
)

// Korean refines tracks using heuristic sentence-final endings. Korean
// auto-captions frequently omit terminal punctuation, so a closed set of
// verb/adjective terminal suffixes acts as additional boundary markers.
var Korean LanguageRefiner = koreanRefiner{}

// questionEndings are sentence-final suffixes that close an interrogative
// sentence.
var questionEndings = []string{
	"까", "입니까", "합니까", "있습니까", "없습니까", "아닙니까",

	"나요", "가요", "신가요", "인가요", "아닌가요", "뭔가요", "어떤가요",
	"건가요", "는 건가요", "은 건가요", "신 건가요",
	"까요", "을까요", "그럴까요", "할까요", "볼까요",

	"있나요", "없나요",

	"냐", "는가", "은가", "인가", "을까",
}

// punctuatedQuestionEndings are general conjugations that read as statements
// when bare; only an explicit question mark makes them interrogative.
var punctuatedQuestionEndings = []string{
	"아요?", "어요?", "워요?",
	"았어요?", "었어요?", "였어요?", "웠어요?",
	"겠어요?",
}

// statementEndings are sentence-final suffixes that close a declarative,
// imperative or propositive sentence.
var statementEndings = []string{
	"습니다", "합니다", "입니다", "있습니다", "됩니다", "않습니다",
	"겁니다", "것입니다", "봅니다", "생각합니다", "말입니다", "것이죠", "랍니다",

	"고요", "죠", "해요", "에요", "예요", "이에요", "이죠", "그렇죠", "지요", "거예요", "게요",
	"거든요", "잖아요", "더라고요", "인데요", "니까요", "이거든요", "하거든요",
	"걸요", "텐데요", "뿐이에요", "네요", "군요", "있네요", "그렇네요",

	"있어요", "없어요", "하세요", "않아요", "못해요",
	"있었죠", "했죠",

	"아요", "어요", "워요",
	"았어요", "었어요", "였어요", "웠어요",
	"겠어요",

	"이다", "했다", "있다", "없다", "된다", "한다", "않는다",
	"었다", "았다", "단다", "란다",
	"거든", "잖아", "더라고", "구나",

	"있음", "없음", "것임", "필요함", "중요함", "같음",
}

// particles are bound postpositions that must never be preceded by a space.
// A particle standing alone as a token is reattached to the preceding word.
var particles = map[string]bool{
	"은": true, "는": true, "이": true, "가": true,
	"을": true, "를": true, "의": true, "에": true,
	"에서": true, "으로": true, "로": true,
	"와": true, "과": true, "도": true, "만": true,
	"까지": true, "부터": true, "처럼": true, "보다": true,
	"조차": true, "마저": true,
}

type koreanEnding struct {
	suffix   string
	question bool
}

// allEndings holds every ending with its punctuation variants, ordered
// longest first so "입니다" matches before "다".
var allEndings = buildEndings()

func buildEndings() []koreanEnding {
	seen := make(map[string]bool)
	var ret []koreanEnding

	push := func(suffix string, question bool) {
		if !seen[suffix] {
			seen[suffix] = true
			ret = append(ret, koreanEnding{suffix: suffix, question: question})
		}
	}

	for _, e := range questionEndings {
		push(e, true)
		push(e+".", true)
		push(e+"?", true)
	}
	for _, e := range punctuatedQuestionEndings {
		push(e, true)
	}
	for _, e := range statementEndings {
		push(e, false)
		push(e+".", false)
	}

	sort.SliceStable(ret, func(i, j int) bool {
		return len(ret[i].suffix) > len(ret[j].suffix)
	})
	return ret
}

type koreanRefiner struct{}

func (koreanRefiner) Refine(cues []caption.Cue) []string {
	var b paragraphBuilder
	lastSentence := ""

	for i, cue := range cues {
		if i > 0 && cue.Start-cues[i-1].End > paragraphGap {
			if s := b.takeSentence(); s != lastSentence {
				b.pushSentence(s)
				lastSentence = s
			}
			b.breakParagraph()
		}

		line := fixParticleSpacing(collapseEchoes(cue.Text))
		if line == "" {
			continue
		}
		b.add(strings.Fields(line)...)

		ending, ok := matchEnding(line)
		if !ok {
			continue
		}

		sentence := b.takeSentence()
		if !hasTerminalPunct(sentence) {
			if ending.question {
				sentence += "?"
			} else {
				sentence += "."
			}
		}
		// Auto-captions occasionally emit the same finished sentence twice.
		if sentence == lastSentence {
			continue
		}
		b.pushSentence(sentence)
		lastSentence = sentence
	}

	return b.flush()
}

// matchEnding reports whether the line ends with a recognized sentence-final
// ending, punctuated or not.
func matchEnding(line string) (koreanEnding, bool) {
	for _, e := range allEndings {
		if strings.HasSuffix(line, e.suffix) {
			return e, true
		}
	}
	return koreanEnding{}, false
}

func hasTerminalPunct(s string) bool {
	return strings.HasSuffix(s, ".") ||
		strings.HasSuffix(s, "?") ||
		strings.HasSuffix(s, "!")
}

// fixParticleSpacing reattaches postpositions that rolling captions split
// off as standalone tokens.
func fixParticleSpacing(line string) string {
	tokens := strings.Fields(line)
	fixed := make([]string, 0, len(tokens))

	for _, token := range tokens {
		if particles[token] && len(fixed) > 0 {
			fixed[len(fixed)-1] += token
			continue
		}
		fixed = append(fixed, token)
	}
	return strings.Join(fixed, " ")
}

// collapseEchoes removes word-level echoes that survive cue-level
// de-duplication, e.g. "정말 정말 좋아요" from a rolling-caption artifact.
func collapseEchoes(line string) string {
	tokens := strings.Fields(line)
	collapsed := make([]string, 0, len(tokens))

	for _, token := range tokens {
		if len(collapsed) > 0 && collapsed[len(collapsed)-1] == token {
			continue
		}
		collapsed = append(collapsed, token)
	}
	return strings.Join(collapsed, " ")
}
