package asrdata

import "fmt"

// Segment is one timed utterance. Times are milliseconds from the start of
// the media. Text may hold an original line and a translated line separated
// by a newline.
type Segment struct {
	Text      string `json:"text"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
}

func NewSegment(text string, startTime, endTime int64) Segment {
	return Segment{Text: text, StartTime: startTime, EndTime: endTime}
}

// SRTTimeRange returns "HH:MM:SS,mmm --> HH:MM:SS,mmm".
func (s Segment) SRTTimeRange() string {
	return FormatSRTTimestamp(s.StartTime) + " --> " + FormatSRTTimestamp(s.EndTime)
}

// LRCPrefix returns "[MM:SS.ss]" for the segment start.
func (s Segment) LRCPrefix() string {
	return "[" + FormatLRCTimestamp(s.StartTime) + "]"
}

func (s Segment) Transcript() string {
	return s.Text
}

func (s Segment) Duration() int64 {
	return s.EndTime - s.StartTime
}

func (s Segment) String() string {
	return fmt.Sprintf("Segment(%q, %d, %d)", s.Text, s.StartTime, s.EndTime)
}
