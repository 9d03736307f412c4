package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yoonbae81/ytcapt/internal/caption"
	"github.com/yoonbae81/ytcapt/pkg/executor"
	"github.com/yoonbae81/ytcapt/pkg/log"
)

// YTDLP fetches caption tracks and playlist metadata by driving the yt-dlp
// binary, the same extractor the upstream platform tooling uses.
type YTDLP struct {
	bin    string
	exec   executor.Executor
	client *http.Client
}

func NewYTDLP(bin string, exec executor.Executor) *YTDLP {
	if bin == "" {
		bin = "yt-dlp"
	}
	return &YTDLP{
		bin:  bin,
		exec: exec,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type ytdlpInfo struct {
	Type              string                          `json:"_type"`
	ID                string                          `json:"id"`
	Title             string                          `json:"title"`
	Entries           []ytdlpEntry                    `json:"entries"`
	AutomaticCaptions map[string][]ytdlpCaptionFormat `json:"automatic_captions"`
}

type ytdlpEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type ytdlpCaptionFormat struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// Fetch retrieves the video title and the raw auto-generated cue track for
// the requested language.
func (y *YTDLP) Fetch(ctx context.Context, url, lang string) (*caption.Track, error) {
	info, err := y.extractInfo(ctx, url, false)
	if err != nil {
		return nil, err
	}

	formats, ok := info.AutomaticCaptions[lang]
	if !ok || len(formats) == 0 {
		return nil, &FetchError{
			Kind:    KindNotFound,
			Message: fmt.Sprintf("no auto-captions found for language %q", lang),
		}
	}

	var trackURL string
	for _, format := range formats {
		if format.Ext == "srt" {
			trackURL = format.URL
			break
		}
	}
	if trackURL == "" {
		return nil, &FetchError{
			Kind:    KindNotFound,
			Message: fmt.Sprintf("no SRT caption format available for language %q", lang),
		}
	}

	content, err := y.download(ctx, trackURL)
	if err != nil {
		return nil, err
	}

	title := info.Title
	if title == "" {
		title = "Untitled"
	}
	return &caption.Track{
		Title: title,
		Cues:  caption.ParseSRT(content),
	}, nil
}

// Resolve expands a playlist URL into its ordered entries without touching
// individual videos. ok is false for single-video URLs.
func (y *YTDLP) Resolve(ctx context.Context, url string) ([]PlaylistEntry, bool, error) {
	info, err := y.extractInfo(ctx, url, true)
	if err != nil {
		return nil, false, err
	}
	if info.Type != "playlist" {
		return nil, false, nil
	}

	entries := make([]PlaylistEntry, 0, len(info.Entries))
	for _, entry := range info.Entries {
		title := entry.Title
		if title == "" {
			title = "Unknown Title"
		}
		entryURL := entry.URL
		if entryURL == "" {
			entryURL = UnresolvedURL
		}
		entries = append(entries, PlaylistEntry{Title: title, URL: entryURL})
	}
	return entries, true, nil
}

func (y *YTDLP) extractInfo(ctx context.Context, url string, flat bool) (*ytdlpInfo, error) {
	args := []string{"--dump-single-json", "--skip-download", "--no-warnings"}
	if flat {
		args = append(args, "--flat-playlist")
	}
	args = append(args, url)

	out, err := y.exec.Execute(ctx, y.bin, args...)
	if err != nil {
		return nil, classifyExecError(err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		return nil, &FetchError{
			Kind:    KindNetwork,
			Message: "video information extraction returned unreadable output",
			Cause:   err,
		}
	}
	return &info, nil
}

func (y *YTDLP) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{Kind: KindNetwork, Message: "build caption request", Cause: err}
	}

	resp, err := y.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &FetchError{Kind: KindTimeout, Message: "caption download timed out", Cause: err}
		}
		return "", &FetchError{Kind: KindNetwork, Message: "caption download failed", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &FetchError{Kind: KindRateLimited, Message: "caption download was rate-limited"}
	case resp.StatusCode == http.StatusNotFound:
		return "", &FetchError{Kind: KindNotFound, Message: "caption track URL returned 404"}
	case resp.StatusCode != http.StatusOK:
		return "", &FetchError{Kind: KindNetwork, Message: fmt.Sprintf("caption download returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Kind: KindNetwork, Message: "read caption body", Cause: err}
	}
	log.Debug("Downloaded %d bytes of caption data", len(body))
	return string(body), nil
}

// classifyExecError maps a yt-dlp invocation failure onto the typed error
// kinds. The stderr text carried in the error is matched the same way the
// platform surfaces these conditions.
func classifyExecError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: KindTimeout, Message: "video information extraction timed out", Cause: err}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "Too Many Requests"):
		return &FetchError{Kind: KindRateLimited, Message: "the platform rejected the request with a 429-class response", Cause: err}
	case strings.Contains(msg, "Video unavailable") || strings.Contains(msg, "Private video") || strings.Contains(msg, "not exist"):
		return &FetchError{Kind: KindNotFound, Message: "the video is unavailable", Cause: err}
	case strings.Contains(msg, "confirm you") || strings.Contains(msg, "Sign in"):
		return &FetchError{Kind: KindNetwork, Message: "access denied: the platform requires sign-in to confirm the request is not automated", Cause: err}
	default:
		return &FetchError{Kind: KindNetwork, Message: "video information extraction failed", Cause: err}
	}
}
