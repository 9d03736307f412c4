package cache

import (
	"time"

	"github.com/yoonbae81/ytcapt/internal/refine"
)

// DefaultTTL is the lifetime of a cache entry unless overridden.
const DefaultTTL = 7 * 24 * time.Hour

// Entry is one persisted refinement result, keyed by (video_id, language).
type Entry struct {
	VideoID   string
	Language  string
	Document  refine.Document
	CreatedAt time.Time
	ExpiresAt time.Time
}
