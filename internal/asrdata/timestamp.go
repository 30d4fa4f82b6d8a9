package asrdata

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	msPerHour   = 3600000
	msPerMinute = 60000
	msPerSecond = 1000
)

var srtTimestampRegex = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{1,2})[.,](\d{3})$`)

// FormatSRTTimestamp renders ms as HH:MM:SS,mmm. Hours are not clamped, so
// media longer than 99 hours prints three or more hour digits.
func FormatSRTTimestamp(ms int64) string {
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	millis := ms % msPerSecond

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// FormatVTTTimestamp renders ms as HH:MM:SS.mmm.
func FormatVTTTimestamp(ms int64) string {
	ts := FormatSRTTimestamp(ms)
	i := strings.LastIndexByte(ts, ',')
	return ts[:i] + "." + ts[i+1:]
}

// FormatLRCTimestamp renders ms as MM:SS.ss using floating point seconds.
// Values within 5ms of a minute boundary round up to SS = 60.00.
func FormatLRCTimestamp(ms int64) string {
	total := float64(ms) / 1000
	minutes := math.Floor(total / 60)
	seconds := total - minutes*60

	return fmt.Sprintf("%02d:%05.2f", int64(minutes), seconds)
}

// ParseSRTTimestamp is the inverse of FormatSRTTimestamp. It also accepts a
// period before the milliseconds, as WebVTT writes it.
func ParseSRTTimestamp(s string) (int64, error) {
	m := srtTimestampRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return timestampFromParts(m[1], m[2], m[3], m[4])
}

func timestampFromParts(hours, minutes, seconds, millis string) (int64, error) {
	h, err := strconv.ParseInt(hours, 10, 64)
	if err != nil {
		return 0, err
	}
	m, err := strconv.ParseInt(minutes, 10, 64)
	if err != nil {
		return 0, err
	}
	s, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return 0, err
	}

	return h*msPerHour + m*msPerMinute + s*msPerSecond + ms, nil
}
