package file

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain title", input: "A Simple Title", want: "A Simple Title"},
		{name: "path separators", input: "dir/sub\\file", want: "dir sub file"},
		{name: "windows reserved chars", input: `What? "Quoted" <Title>: Part 1`, want: "What Quoted Title Part 1"},
		{name: "special symbols", input: "100% Legit!!! #1", want: "100 Legit 1"},
		{name: "korean preserved", input: "한국어 제목입니다", want: "한국어 제목입니다"},
		{name: "multiple spaces collapsed", input: "too    many   spaces", want: "too many spaces"},
		{name: "trailing dots trimmed", input: "ending...", want: "ending"},
		{name: "dots inside kept", input: "v1.2 release notes", want: "v1.2 release notes"},
		{name: "empty", input: "", want: "Untitled"},
		{name: "only symbols", input: "???***", want: "Untitled"},
		{name: "control characters", input: "tab\there", want: "tab here"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_LongNameCapped(t *testing.T) {
	t.Parallel()

	got := SanitizeFilename(strings.Repeat("a", 300))
	assert.Len(t, got, 200)
}

func TestSanitizeFilename_CapDoesNotSplitRune(t *testing.T) {
	t.Parallel()

	// 한 is three bytes; 100 of them exceed the byte cap at a rune boundary.
	got := SanitizeFilename(strings.Repeat("한", 100))
	assert.True(t, len(got) <= 200)
	for _, r := range got {
		assert.Equal(t, '한', r)
	}
}

func TestSafeToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dQw4w9WgXcQ", SafeToken("dQw4w9WgXcQ"))
	assert.Equal(t, "a_b_c", SafeToken("a/b:c"))
	assert.Equal(t, "under_score-dash", SafeToken("under_score-dash"))
}
