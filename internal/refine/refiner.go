package refine

import (
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"github.com/yoonbae81/ytcapt/internal/caption"
)

// LanguageRefiner merges a cleaned cue sequence into an ordered sequence of
// paragraph strings using language-specific boundary rules. Refinement never
// fails on well-formed input: when no boundary rule matches, the remaining
// cues become a single paragraph.
type LanguageRefiner interface {
	Refine(cues []caption.Cue) []string
}

const (
	// paragraphGap is the silence between consecutive cues that implies a
	// topic break.
	paragraphGap = 2 * time.Second

	// paragraphMaxSentences flushes the current paragraph once this many
	// completed sentences have accumulated.
	paragraphMaxSentences = 4
)

// Refiner strategy registry, keyed by ISO 639-1 base language code.
// Explicit mapping, no reflection; Default is the fallback for codes that
// have no dedicated entry.
var refiners = map[string]LanguageRefiner{
	"en": Default,
	"ko": Korean,
}

// lookup resolves the registered refiner for a language code. Region subtags
// are ignored ("ko-KR" matches "ko").
func lookup(code string) (LanguageRefiner, bool) {
	if tag, err := language.Parse(code); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			if r, ok := refiners[base.String()]; ok {
				return r, true
			}
		}
	}
	return nil, false
}

// ForLanguage returns the refiner registered for the given language code.
// Unrecognized or empty codes fall back to Default.
func ForLanguage(code string) LanguageRefiner {
	if r, ok := lookup(code); ok {
		return r
	}
	return Default
}

// ForTrack resolves a refiner for the track. A recognized language code wins;
// otherwise the language is detected from the cue text itself, which covers
// callers that pass no code at all.
func ForTrack(code string, cues []caption.Cue) LanguageRefiner {
	if r, ok := lookup(code); ok {
		return r
	}

	var sample strings.Builder
	for _, cue := range cues {
		sample.WriteString(cue.Text)
		sample.WriteString(" ")
		if sample.Len() > 2048 {
			break
		}
	}
	detected := whatlanggo.DetectLang(sample.String()).Iso6391()
	if r, ok := refiners[detected]; ok {
		return r
	}
	return Default
}

// paragraphBuilder drives the shared accumulation state machine. Tokens
// collect into a pending sentence, completed sentences collect into the
// current paragraph, and the paragraph flushes on a sentence-count or
// time-gap break.
type paragraphBuilder struct {
	paragraphs []string
	sentences  []string
	pending    []string
}

func (b *paragraphBuilder) add(tokens ...string) {
	b.pending = append(b.pending, tokens...)
}

// takeSentence drains the pending tokens as a single-spaced sentence.
func (b *paragraphBuilder) takeSentence() string {
	if len(b.pending) == 0 {
		return ""
	}
	sentence := strings.Join(b.pending, " ")
	b.pending = nil
	return sentence
}

func (b *paragraphBuilder) pushSentence(sentence string) {
	if sentence == "" {
		return
	}
	b.sentences = append(b.sentences, sentence)
	if len(b.sentences) >= paragraphMaxSentences {
		b.breakParagraph()
	}
}

func (b *paragraphBuilder) breakParagraph() {
	if len(b.sentences) == 0 {
		return
	}
	b.paragraphs = append(b.paragraphs, strings.Join(b.sentences, " "))
	b.sentences = nil
}

// flush terminates the sequence: any in-progress sentence and paragraph are
// emitted regardless of state.
func (b *paragraphBuilder) flush() []string {
	b.pushSentence(b.takeSentence())
	b.breakParagraph()
	return b.paragraphs
}
