package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/yoonbae81/ytcapt/internal/caption"
)

// ErrInvalidURL reports that no video identifier could be derived from a URL.
var ErrInvalidURL = errors.New("could not parse a valid video ID from the URL")

// ErrorKind classifies caption source failures so callers can react to each
// kind explicitly instead of catching generically.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindRateLimited
	KindNetwork
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindRateLimited:
		return "RateLimited"
	case KindNetwork:
		return "NetworkError"
	case KindTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// FetchError is the typed failure returned from the caption source boundary.
// KindRateLimited corresponds to an HTTP 429-class condition and is kept
// distinct from generic network failures.
type FetchError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// AsFetchError unwraps err into a FetchError when possible.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Fetcher retrieves the title and raw auto-generated cue track for a video.
type Fetcher interface {
	Fetch(ctx context.Context, url, lang string) (*caption.Track, error)
}

// UnresolvedURL marks a playlist entry the platform could not resolve.
const UnresolvedURL = "#"

// PlaylistEntry is one item of an expanded playlist.
type PlaylistEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PlaylistResolver expands a playlist reference into its ordered entries.
// ok is false when the URL refers to a single video rather than a playlist.
type PlaylistResolver interface {
	Resolve(ctx context.Context, url string) (entries []PlaylistEntry, ok bool, err error)
}

// SelectableEntries filters out unresolved entries, which must never appear
// in a user-selectable list.
func SelectableEntries(entries []PlaylistEntry) []PlaylistEntry {
	ret := make([]PlaylistEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.URL != UnresolvedURL && entry.URL != "" {
			ret = append(ret, entry)
		}
	}
	return ret
}
