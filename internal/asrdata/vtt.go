package asrdata

import (
	"regexp"
	"strings"
)

var (
	// stricter than SRT: two-digit seconds, period separator only
	vttTimingRegex = regexp.MustCompile(
		`^(\d{2}):(\d{2}):(\d{2})\.(\d{3})\s-->\s(\d{2}):(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttCueIDRegex = regexp.MustCompile(`^\d+$`)
	vttTagRegex   = regexp.MustCompile(`<[^>]+>`)
	spaceRunRegex = regexp.MustCompile(`\s+`)
)

// ParseVTT builds a Track from WebVTT text. Header, NOTE and other non-cue
// blocks are skipped rather than reported, and inline tags are removed from
// cue text. Only a TimingPolicy violation fails the parse.
func ParseVTT(text string, opts ...Option) (*Track, error) {
	o := buildOptions(opts)
	track := NewTrack()

	for i, block := range splitBlocks(text) {
		lines := splitLines(block)
		if strings.HasPrefix(lines[0], "WEBVTT") || strings.HasPrefix(lines[0], "NOTE") {
			continue
		}
		if vttCueIDRegex.MatchString(lines[0]) {
			lines = lines[1:]
		}
		if len(lines) < 2 {
			continue
		}

		m := vttTimingRegex.FindStringSubmatch(lines[0])
		if m == nil {
			continue
		}
		start, end, err := timingFromMatch(m)
		if err != nil {
			continue
		}

		seg := NewSegment(cleanCueText(lines[1:]), start, end)
		if err := o.timing.Check(seg); err != nil {
			return nil, &ParseError{Kind: ErrInvalidTiming, Block: i + 1, Content: lines[0]}
		}
		track.Append(seg)
	}

	return track, nil
}

func cleanCueText(lines []string) string {
	text := strings.TrimSpace(strings.Join(lines, " "))
	text = vttTagRegex.ReplaceAllString(text, "")
	text = spaceRunRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
