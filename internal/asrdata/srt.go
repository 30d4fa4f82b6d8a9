package asrdata

import (
	"regexp"
	"strings"
)

var (
	blockSeparatorRegex = regexp.MustCompile(`\n\s*\n`)

	// HH:MM:SS[,.]mmm --> HH:MM:SS[,.]mmm, seconds may be a single digit
	srtTimingRegex = regexp.MustCompile(
		`^(\d{2}):(\d{2}):(\d{1,2})[.,](\d{3})\s-->\s(\d{2}):(\d{2}):(\d{1,2})[.,](\d{3})`,
	)
)

// ParseSRT builds a Track from SubRip text. Any malformed block aborts the
// parse with a *ParseError and no Track.
func ParseSRT(text string, opts ...Option) (*Track, error) {
	o := buildOptions(opts)
	track := NewTrack()

	for i, block := range splitBlocks(text) {
		lines := splitLines(block)
		if len(lines) < 3 {
			return nil, &ParseError{Kind: ErrMalformedBlock, Block: i + 1, Content: block}
		}

		m := srtTimingRegex.FindStringSubmatch(lines[1])
		if m == nil {
			return nil, &ParseError{Kind: ErrMalformedTimestamp, Block: i + 1, Content: lines[1]}
		}

		start, end, err := timingFromMatch(m)
		if err != nil {
			return nil, &ParseError{Kind: ErrMalformedTimestamp, Block: i + 1, Content: lines[1]}
		}

		seg := NewSegment(strings.TrimSpace(strings.Join(lines[2:], "\n")), start, end)
		if err := o.timing.Check(seg); err != nil {
			return nil, &ParseError{Kind: ErrInvalidTiming, Block: i + 1, Content: lines[1]}
		}
		track.Append(seg)
	}

	return track, nil
}

func timingFromMatch(m []string) (int64, int64, error) {
	start, err := timestampFromParts(m[1], m[2], m[3], m[4])
	if err != nil {
		return 0, 0, err
	}
	end, err := timestampFromParts(m[5], m[6], m[7], m[8])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// splitBlocks normalizes line endings, drops a byte order mark and splits on
// blank lines. Whitespace-only input yields no blocks.
func splitBlocks(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return blockSeparatorRegex.Split(text, -1)
}

func splitLines(block string) []string {
	return strings.Split(block, "\n")
}
