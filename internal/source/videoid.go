package source

import "regexp"

// Standard watch?v=, youtu.be/ and embed/ URL forms carry an 11-character ID.
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/|embed/)([a-zA-Z0-9_-]{11})`)

// ParseVideoID extracts the video identifier from a URL.
func ParseVideoID(url string) (string, error) {
	match := videoIDPattern.FindStringSubmatch(url)
	if match == nil {
		return "", ErrInvalidURL
	}
	return match[1], nil
}
