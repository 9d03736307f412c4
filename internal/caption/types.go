package caption

import "time"

// Cue represents a single time-stamped caption fragment.
type Cue struct {
	Start time.Duration // start time
	End   time.Duration // end time
	Text  string        // caption text
}

// Track is a single caption track as delivered by a caption source.
type Track struct {
	Title string
	Cues  []Cue
}
