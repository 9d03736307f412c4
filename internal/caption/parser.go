package caption

import (
	"bufio"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yoonbae81/ytcapt/pkg/log"
)

// ErrEmptyTrack reports that a track contains no usable cues after cleaning.
// This is a content-unavailable condition, not a parser failure.
var ErrEmptyTrack = errors.New("caption track contains no usable cues")

var (
	timeLinePattern = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})[,.](\d{3}) --> (\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)
	noisePattern    = regexp.MustCompile(`\[.*?\]|\(.*?\)|>>`)
)

// ParseSRT parses SRT-format caption content into an ordered cue sequence.
// Blocks with a missing or malformed timestamp are dropped with a warning.
func ParseSRT(content string) []Cue {
	var cues []Cue

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	current := Cue{}
	state := "index" // possible values: "index", "time", "text"
	var textLines []string

	flush := func() {
		if len(textLines) > 0 {
			current.Text = strings.Join(textLines, " ")
			cues = append(cues, current)
		}
		current = Cue{}
		textLines = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch state {
		case "index":
			if line == "" {
				continue
			}
			if _, err := strconv.Atoi(line); err != nil {
				continue // skip non-index lines
			}
			state = "time"

		case "time":
			if line == "" {
				continue
			}
			start, end, err := parseTimeLine(line)
			if err != nil {
				log.Warn("Dropping cue with malformed timestamp: %v", err)
				state = "index"
				continue
			}
			current.Start = start
			current.End = end
			state = "text"
			textLines = nil

		case "text":
			if line == "" {
				flush()
				state = "index"
			} else {
				textLines = append(textLines, line)
			}
		}
	}

	// handle last cue group
	if state == "text" {
		flush()
	}

	return cues
}

// parseTimeLine parses an SRT time line such as
// "00:02:16,612 --> 00:02:19,376".
func parseTimeLine(line string) (time.Duration, time.Duration, error) {
	matches := timeLinePattern.FindStringSubmatch(line)
	if len(matches) != 9 {
		return 0, 0, errors.New("invalid time format: " + line)
	}

	parse := func(hours, minutes, seconds, millis string) time.Duration {
		h, _ := strconv.Atoi(hours)
		m, _ := strconv.Atoi(minutes)
		s, _ := strconv.Atoi(seconds)
		ms, _ := strconv.Atoi(millis)

		return time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second +
			time.Duration(ms)*time.Millisecond
	}

	return parse(matches[1], matches[2], matches[3], matches[4]),
		parse(matches[5], matches[6], matches[7], matches[8]),
		nil
}

// Clean normalizes a raw cue sequence: caption noise and empty cues are
// removed, malformed cues dropped, consecutive duplicates collapsed, and
// rolling-caption overlap between neighboring cues stripped.
func Clean(raw []Cue) ([]Cue, error) {
	cues := make([]Cue, 0, len(raw))

	lastText := ""
	for _, cue := range raw {
		if cue.End < cue.Start {
			log.Warn("Dropping cue with end time %v before start time %v", cue.End, cue.Start)
			continue
		}

		text := noisePattern.ReplaceAllString(cue.Text, "")
		text = strings.Join(strings.Fields(text), " ")
		if text == "" || text == lastText {
			continue
		}

		cue.Text = text
		cues = append(cues, cue)
		lastText = text
	}

	// Rolling captions re-display trailing words of the prior cue as leading
	// context for the next one. Strip the repeated run from the follower so
	// concatenation does not duplicate words.
	cleaned := cues[:0]
	for _, cue := range cues {
		if len(cleaned) > 0 {
			prev := &cleaned[len(cleaned)-1]
			cue.Text = stripOverlap(prev.Text, cue.Text)
			trimPartialTail(prev, cue.Text)
			if cue.Text == "" {
				prev.End = cue.End
				continue
			}
		}
		cleaned = append(cleaned, cue)
	}

	// A partial-tail trim can empty a single-token cue entirely.
	final := cleaned[:0]
	for _, cue := range cleaned {
		if cue.Text != "" {
			final = append(final, cue)
		}
	}

	if len(final) == 0 {
		return nil, ErrEmptyTrack
	}
	return final, nil
}

// stripOverlap removes the longest token run that is both a suffix of prev
// and a prefix of next from the beginning of next.
func stripOverlap(prev, next string) string {
	prevTokens := strings.Fields(prev)
	nextTokens := strings.Fields(next)

	longest := len(prevTokens)
	if len(nextTokens) < longest {
		longest = len(nextTokens)
	}

	for n := longest; n > 0; n-- {
		if tokenRunsEqual(prevTokens[len(prevTokens)-n:], nextTokens[:n]) {
			return strings.Join(nextTokens[n:], " ")
		}
	}
	return strings.Join(nextTokens, " ")
}

func tokenRunsEqual(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// trimPartialTail drops a truncated final token from prev when the next cue
// re-displays the complete word, e.g. "hello wor" followed by "world how".
func trimPartialTail(prev *Cue, next string) {
	prevTokens := strings.Fields(prev.Text)
	nextTokens := strings.Fields(next)
	if len(prevTokens) == 0 || len(nextTokens) == 0 {
		return
	}

	tail := prevTokens[len(prevTokens)-1]
	head := nextTokens[0]
	if len(tail) >= 3 && len(tail) < len(head) && strings.HasPrefix(head, tail) {
		prev.Text = strings.Join(prevTokens[:len(prevTokens)-1], " ")
	}
}
