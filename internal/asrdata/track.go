package asrdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Track is an ordered sequence of segments in presentation order. Nothing
// re-sorts it. A Track is not safe for concurrent mutation.
type Track struct {
	segments []Segment
}

// Record is the JSON export form of one segment.
type Record struct {
	StartTime          int64  `json:"start_time"`
	EndTime            int64  `json:"end_time"`
	OriginalSubtitle   string `json:"original_subtitle"`
	TranslatedSubtitle string `json:"translated_subtitle"`
}

func NewTrack(segments ...Segment) *Track {
	t := &Track{segments: make([]Segment, len(segments))}
	copy(t.segments, segments)
	return t
}

func (t *Track) HasData() bool {
	return len(t.segments) > 0
}

func (t *Track) Len() int {
	return len(t.segments)
}

// At returns the segment at index i. It panics if i is out of range, like a
// slice index.
func (t *Track) At(i int) Segment {
	return t.segments[i]
}

// Segments returns a copy of the segment sequence.
func (t *Track) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

func (t *Track) Append(seg Segment) {
	t.segments = append(t.segments, seg)
}

// SetText replaces the text of the segment at index.
func (t *Track) SetText(index int, text string) error {
	if index < 0 || index >= len(t.segments) {
		return fmt.Errorf(
			"%w: index %d (0-%d)",
			ErrIndexOutOfRange,
			index,
			len(t.segments)-1,
		)
	}
	t.segments[index].Text = text
	return nil
}

// Validate checks every segment against policy and reports the first
// offending 1-based ordinal.
func (t *Track) Validate(policy TimingPolicy) error {
	for i, seg := range t.segments {
		if err := policy.Check(seg); err != nil {
			return fmt.Errorf("segment %d: %w", i+1, err)
		}
	}
	return nil
}

// ToTXT returns every transcript on its own line.
func (t *Track) ToTXT() string {
	lines := make([]string, len(t.segments))
	for i, seg := range t.segments {
		lines[i] = seg.Transcript()
	}
	return strings.Join(lines, "\n")
}

// ToSRT renumbers segments from 1 and separates blocks with a blank line.
func (t *Track) ToSRT() string {
	blocks := make([]string, len(t.segments))
	for i, seg := range t.segments {
		blocks[i] = fmt.Sprintf("%d\n%s\n%s\n", i+1, seg.SRTTimeRange(), seg.Transcript())
	}
	return strings.Join(blocks, "\n")
}

// SaveSRT writes ToSRT to path as UTF-8 and returns the text written.
func (t *Track) SaveSRT(path string) (string, error) {
	srt := t.ToSRT()
	if err := writeFile(path, srt); err != nil {
		return "", err
	}
	return srt, nil
}

// ToVTT writes a WEBVTT header followed by numbered cues.
func (t *Track) ToVTT() string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n")
	for i, seg := range t.segments {
		fmt.Fprintf(&sb, "\n%d\n%s --> %s\n%s\n",
			i+1,
			FormatVTTTimestamp(seg.StartTime),
			FormatVTTTimestamp(seg.EndTime),
			seg.Transcript())
	}
	return sb.String()
}

func (t *Track) ToLRC() string {
	lines := make([]string, len(t.segments))
	for i, seg := range t.segments {
		lines[i] = seg.LRCPrefix() + seg.Transcript()
	}
	return strings.Join(lines, "\n")
}

// ToASS is not implemented and always fails.
func (t *Track) ToASS() (string, error) {
	return "", fmt.Errorf("%w: ass conversion is not implemented", ErrUnsupportedFormat)
}

// Records keys each segment by its 1-based ordinal. A newline in the text
// splits it, at the first occurrence, into original and translated lines.
func (t *Track) Records() map[string]Record {
	records := make(map[string]Record, len(t.segments))
	for i, seg := range t.segments {
		original, translated, _ := strings.Cut(seg.Text, "\n")
		records[strconv.Itoa(i+1)] = Record{
			StartTime:          seg.StartTime,
			EndTime:            seg.EndTime,
			OriginalSubtitle:   original,
			TranslatedSubtitle: translated,
		}
	}
	return records
}

func (t *Track) ToJSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.Records()); err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// MergeRange previews merging segments start..end inclusive. The texts are
// concatenated without a separator. The track is not modified.
func (t *Track) MergeRange(start, end int) (Segment, error) {
	if err := t.checkRange(start, end); err != nil {
		return Segment{}, err
	}

	var sb strings.Builder
	for _, seg := range t.segments[start : end+1] {
		sb.WriteString(seg.Text)
	}
	return t.MergeRangeText(start, end, sb.String())
}

// MergeRangeText is MergeRange with caller supplied text.
func (t *Track) MergeRangeText(start, end int, text string) (Segment, error) {
	if err := t.checkRange(start, end); err != nil {
		return Segment{}, err
	}
	return NewSegment(text, t.segments[start].StartTime, t.segments[end].EndTime), nil
}

// ReplaceRange swaps segments start..end inclusive for seg.
func (t *Track) ReplaceRange(start, end int, seg Segment) error {
	if err := t.checkRange(start, end); err != nil {
		return err
	}

	merged := make([]Segment, 0, len(t.segments)-(end-start))
	merged = append(merged, t.segments[:start]...)
	merged = append(merged, seg)
	merged = append(merged, t.segments[end+1:]...)
	t.segments = merged
	return nil
}

// MergeWithNext joins the segment at index with its successor, separating
// the texts with a single space. The track shrinks by one.
func (t *Track) MergeWithNext(index int) error {
	if index < 0 || index >= len(t.segments)-1 {
		return fmt.Errorf(
			"%w: index %d has no following segment (len %d)",
			ErrIndexOutOfRange,
			index,
			len(t.segments),
		)
	}

	cur, next := t.segments[index], t.segments[index+1]
	merged := NewSegment(cur.Text+" "+next.Text, cur.StartTime, next.EndTime)
	return t.ReplaceRange(index, index+1, merged)
}

func (t *Track) checkRange(start, end int) error {
	if start < 0 || end >= len(t.segments) || start > end {
		return fmt.Errorf(
			"%w: %d..%d (len %d)",
			ErrInvalidRange,
			start,
			end,
			len(t.segments),
		)
	}
	return nil
}

func (t *Track) String() string {
	return t.ToTXT()
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
