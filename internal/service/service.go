package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yoonbae81/ytcapt/internal/cache"
	"github.com/yoonbae81/ytcapt/internal/caption"
	"github.com/yoonbae81/ytcapt/internal/refine"
	"github.com/yoonbae81/ytcapt/internal/source"
	"github.com/yoonbae81/ytcapt/pkg/log"
)

// Config carries the orchestrator's tunables.
type Config struct {
	DefaultLanguage string
	FetchTimeout    time.Duration
}

// Service coordinates cache lookup, caption fetching, parsing, refinement
// and cache write-back. It holds no cached state of its own; every call
// re-queries the store.
type Service struct {
	store     *cache.Store
	fetcher   source.Fetcher
	playlists source.PlaylistResolver
	cfg       Config

	group singleflight.Group
	now   func() time.Time
}

func New(store *cache.Store, fetcher source.Fetcher, playlists source.PlaylistResolver, cfg Config) *Service {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "ko"
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 60 * time.Second
	}
	return &Service{
		store:     store,
		fetcher:   fetcher,
		playlists: playlists,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Result is either a refined document or, for playlist URLs, the filtered
// list of selectable entries the caller must re-invoke per entry.
type Result struct {
	Document *refine.Document       `json:"document,omitempty"`
	Playlist []source.PlaylistEntry `json:"playlist,omitempty"`
}

// Process turns a video URL into a refined document. A playlist URL yields
// the selectable entry list instead. force bypasses a cache hit but still
// serializes with other in-flight work for the same key.
func (s *Service) Process(ctx context.Context, url, lang string, force bool) (*Result, error) {
	if lang == "" {
		lang = s.cfg.DefaultLanguage
	}

	if s.playlists != nil {
		entries, isPlaylist, err := s.playlists.Resolve(ctx, url)
		if err != nil {
			return nil, fromFetchError(err)
		}
		if isPlaylist {
			return &Result{Playlist: source.SelectableEntries(entries)}, nil
		}
	}

	videoID, err := source.ParseVideoID(url)
	if err != nil {
		return nil, NewErrorWithCause(ErrInvalidURL, "unsupported video URL", err)
	}

	if !force {
		entry, ok, err := s.store.Get(ctx, videoID, lang, s.now())
		if err != nil {
			// Cache is best-effort: a read failure is a miss.
			log.Warn("Cache read failed for %s/%s, fetching fresh: %v", videoID, lang, err)
		} else if ok {
			log.Debug("Cache hit for %s/%s", videoID, lang)
			doc := entry.Document
			return &Result{Document: &doc}, nil
		}
	}

	// Serialize in-flight fetches per key so concurrent requests for the
	// same video do not hammer the rate-limited caption source. The force
	// path skips the cache read above but still joins this group.
	key := cache.Key(videoID) + "|" + lang
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.fetchAndRefine(ctx, url, videoID, lang)
	})
	if err != nil {
		return nil, err
	}

	doc := v.(*refine.Document)
	return &Result{Document: doc}, nil
}

func (s *Service) fetchAndRefine(ctx context.Context, url, videoID, lang string) (*refine.Document, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	track, err := s.fetcher.Fetch(fetchCtx, url, lang)
	if err != nil {
		return nil, fromFetchError(err)
	}

	cues, err := caption.Clean(track.Cues)
	if err != nil {
		if errors.Is(err, caption.ErrEmptyTrack) {
			return nil, NewErrorWithCause(ErrEmptyTrack, "caption track is empty after cleaning", err)
		}
		return nil, NewErrorWithCause(ErrInternal, "cue cleaning failed", err)
	}

	refiner := refine.ForTrack(lang, cues)
	doc := &refine.Document{
		VideoID:    videoID,
		Language:   lang,
		Title:      track.Title,
		SourceURL:  url,
		Paragraphs: refiner.Refine(cues),
		ProducedAt: s.now(),
	}

	// Write-back resets the TTL, also on forced refresh. A write failure is
	// logged and the fresh document still returned.
	if err := s.store.Put(ctx, *doc, s.now()); err != nil {
		log.Error("Cache write failed for %s/%s: %v", videoID, lang, err)
	}

	return doc, nil
}

// Invalidate drops the cache entry for a URL, if any.
func (s *Service) Invalidate(ctx context.Context, url, lang string) error {
	if lang == "" {
		lang = s.cfg.DefaultLanguage
	}
	videoID, err := source.ParseVideoID(url)
	if err != nil {
		return NewErrorWithCause(ErrInvalidURL, "unsupported video URL", err)
	}
	if err := s.store.Invalidate(ctx, videoID, lang); err != nil {
		return NewErrorWithCause(ErrCache, "cache invalidation failed", err)
	}
	return nil
}

// Artifact assembles the downloadable text: title on the first line, source
// URL on the second, then the paragraphs separated by blank lines.
func Artifact(doc *refine.Document) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString("\n")
	b.WriteString(doc.SourceURL)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(doc.Paragraphs, "\n\n"))
	b.WriteString("\n")
	return b.String()
}
