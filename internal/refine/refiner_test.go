package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want LanguageRefiner
	}{
		{name: "korean", code: "ko", want: Korean},
		{name: "korean with region", code: "ko-KR", want: Korean},
		{name: "english", code: "en", want: Default},
		{name: "english with region", code: "en-US", want: Default},
		{name: "unregistered language", code: "fr", want: Default},
		{name: "empty", code: "", want: Default},
		{name: "garbage", code: "not-a-tag!!", want: Default},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ForLanguage(tt.code))
		})
	}
}

func TestForTrack_CodeWins(t *testing.T) {
	t.Parallel()

	// An explicit code takes priority over whatever the text looks like.
	cues := cueSeq("this text is plainly english")
	assert.Equal(t, Korean, ForTrack("ko", cues))
}

func TestForTrack_DetectsFromText(t *testing.T) {
	t.Parallel()

	cues := cueSeq("오늘은 날씨가 정말 좋습니다 내일도 맑을 것 같습니다")
	assert.Equal(t, Korean, ForTrack("", cues))

	cues = cueSeq("the weather is quite nice today and tomorrow looks clear as well")
	assert.Equal(t, Default, ForTrack("", cues))
}

func TestParagraphBuilder_FlushEmitsPending(t *testing.T) {
	t.Parallel()

	var b paragraphBuilder
	b.add("left", "over", "words")

	paragraphs := b.flush()
	assert.Equal(t, []string{"left over words"}, paragraphs)
}

func TestParagraphBuilder_EmptySentenceIgnored(t *testing.T) {
	t.Parallel()

	var b paragraphBuilder
	b.pushSentence("")
	b.breakParagraph()
	assert.Empty(t, b.flush())
}
