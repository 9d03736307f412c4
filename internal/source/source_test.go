package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "watch url", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch url with extra params", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ"},
		{name: "short url", url: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "embed url", url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "no video id", url: "https://www.youtube.com/", wantErr: true},
		{name: "id too short", url: "https://www.youtube.com/watch?v=short", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVideoID(tt.url)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectableEntries(t *testing.T) {
	t.Parallel()

	entries := []PlaylistEntry{
		{Title: "A", URL: "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
		{Title: "B", URL: UnresolvedURL},
		{Title: "C", URL: "https://www.youtube.com/watch?v=ccccccccccc"},
		{Title: "D", URL: ""},
	}

	selectable := SelectableEntries(entries)
	require.Len(t, selectable, 2)
	assert.Equal(t, "A", selectable[0].Title)
	assert.Equal(t, "C", selectable[1].Title)
}

// fakeExecutor replays a canned stdout or error for every invocation and
// records the arguments it was called with.
type fakeExecutor struct {
	out  string
	err  error
	args []string
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.args = append([]string{name}, args...)
	return f.out, f.err
}

func TestYTDLP_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "1\n00:00:01,000 --> 00:00:03,000\nhello world\n")
	}))
	t.Cleanup(srv.Close)

	exec := &fakeExecutor{out: fmt.Sprintf(`{
		"id": "dQw4w9WgXcQ",
		"title": "Never Gonna",
		"automatic_captions": {
			"ko": [
				{"ext": "vtt", "url": "%s/vtt"},
				{"ext": "srt", "url": "%s/srt"}
			]
		}
	}`, srv.URL, srv.URL)}

	track, err := NewYTDLP("", exec).Fetch(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "ko")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna", track.Title)
	require.Len(t, track.Cues, 1)
	assert.Equal(t, "hello world", track.Cues[0].Text)
	assert.Equal(t, []string{"yt-dlp", "--dump-single-json", "--skip-download", "--no-warnings", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}, exec.args)
}

func TestYTDLP_Fetch_NoCaptionsForLanguage(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{out: `{"id": "dQw4w9WgXcQ", "title": "T", "automatic_captions": {}}`}

	_, err := NewYTDLP("", exec).Fetch(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "ko")
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, fe.Kind)
}

func TestYTDLP_Fetch_NoSRTFormat(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{out: `{
		"id": "dQw4w9WgXcQ",
		"title": "T",
		"automatic_captions": {"ko": [{"ext": "vtt", "url": "http://example.invalid/vtt"}]}
	}`}

	_, err := NewYTDLP("", exec).Fetch(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "ko")
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, fe.Kind)
}

func TestYTDLP_Fetch_DownloadRateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	exec := &fakeExecutor{out: fmt.Sprintf(`{
		"id": "dQw4w9WgXcQ",
		"title": "T",
		"automatic_captions": {"ko": [{"ext": "srt", "url": "%s"}]}
	}`, srv.URL)}

	_, err := NewYTDLP("", exec).Fetch(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "ko")
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindRateLimited, fe.Kind)
}

func TestYTDLP_Fetch_UntitledFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "1\n00:00:01,000 --> 00:00:03,000\nhi\n")
	}))
	t.Cleanup(srv.Close)

	exec := &fakeExecutor{out: fmt.Sprintf(`{
		"id": "dQw4w9WgXcQ",
		"automatic_captions": {"ko": [{"ext": "srt", "url": "%s"}]}
	}`, srv.URL)}

	track, err := NewYTDLP("", exec).Fetch(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "ko")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", track.Title)
}

func TestYTDLP_Resolve_Playlist(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{out: `{
		"_type": "playlist",
		"title": "My Playlist",
		"entries": [
			{"title": "First", "url": "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
			{"title": "", "url": ""}
		]
	}`}

	entries, ok, err := NewYTDLP("", exec).Resolve(context.Background(), "https://www.youtube.com/playlist?list=PL123")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, PlaylistEntry{Title: "First", URL: "https://www.youtube.com/watch?v=aaaaaaaaaaa"}, entries[0])
	assert.Equal(t, PlaylistEntry{Title: "Unknown Title", URL: UnresolvedURL}, entries[1])
	assert.Contains(t, exec.args, "--flat-playlist")
}

func TestYTDLP_Resolve_SingleVideo(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{out: `{"id": "dQw4w9WgXcQ", "title": "Just a Video"}`}

	entries, ok, err := NewYTDLP("", exec).Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, entries)
}

func TestClassifyExecError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "http 429", err: errors.New("yt-dlp: HTTP Error 429: Too Many Requests"), want: KindRateLimited},
		{name: "video unavailable", err: errors.New("ERROR: Video unavailable"), want: KindNotFound},
		{name: "private video", err: errors.New("ERROR: Private video"), want: KindNotFound},
		{name: "sign in required", err: errors.New("Sign in to confirm you're not a bot"), want: KindNetwork},
		{name: "timeout", err: fmt.Errorf("run: %w", context.DeadlineExceeded), want: KindTimeout},
		{name: "anything else", err: errors.New("boom"), want: KindNetwork},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fe, ok := AsFetchError(classifyExecError(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.want, fe.Kind)
		})
	}
}

func TestFetchError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	err := &FetchError{Kind: KindNetwork, Message: "wrapped", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "wrapped")
}
