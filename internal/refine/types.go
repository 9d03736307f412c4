package refine

import "time"

// Document is the refined form of a caption track: the fragmented cue text
// merged into ordered, readable paragraphs.
type Document struct {
	VideoID    string    `json:"video_id"`
	Language   string    `json:"language"`
	Title      string    `json:"title"`
	SourceURL  string    `json:"source_url"`
	Paragraphs []string  `json:"paragraphs"`
	ProducedAt time.Time `json:"produced_at"`
}
