package asrdata

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrack() *Track {
	return NewTrack(
		NewSegment("alpha", 0, 1000),
		NewSegment("beta", 1000, 2500),
		NewSegment("gamma", 2600, 4000),
	)
}

func TestNewTrackCopiesInput(t *testing.T) {
	segs := []Segment{NewSegment("a", 0, 1)}
	track := NewTrack(segs...)
	segs[0].Text = "changed"

	assert.Equal(t, "a", track.At(0).Text)

	out := track.Segments()
	out[0].Text = "changed"
	assert.Equal(t, "a", track.At(0).Text)
}

func TestHasData(t *testing.T) {
	assert.False(t, NewTrack().HasData())
	assert.True(t, sampleTrack().HasData())
}

func TestSetText(t *testing.T) {
	track := sampleTrack()
	require.NoError(t, track.SetText(1, "BETA"))
	assert.Equal(t, "BETA", track.At(1).Text)

	err := track.SetText(3, "nope")
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestToTXTAndLRC(t *testing.T) {
	track := sampleTrack()
	assert.Equal(t, "alpha\nbeta\ngamma", track.ToTXT())
	assert.Equal(t, "[00:00.00]alpha\n[00:01.00]beta\n[00:02.60]gamma", track.ToLRC())
	assert.Equal(t, "", NewTrack().ToTXT())
	assert.Equal(t, "", NewTrack().ToSRT())
}

func TestToASSUnsupported(t *testing.T) {
	out, err := sampleTrack().ToASS()
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestRecords(t *testing.T) {
	track := NewTrack(
		NewSegment("原文\n译文", 0, 1000),
		NewSegment("no newline", 1000, 2000),
		NewSegment("a\nb\nc", 2000, 3000),
	)

	records := track.Records()
	require.Len(t, records, 3)
	assert.Equal(t, Record{
		StartTime:          0,
		EndTime:            1000,
		OriginalSubtitle:   "原文",
		TranslatedSubtitle: "译文",
	}, records["1"])
	assert.Equal(t, "no newline", records["2"].OriginalSubtitle)
	assert.Equal(t, "", records["2"].TranslatedSubtitle)
	assert.Equal(t, "a", records["3"].OriginalSubtitle)
	assert.Equal(t, "b\nc", records["3"].TranslatedSubtitle)
}

func TestToJSON(t *testing.T) {
	track := NewTrack(NewSegment("<i>原文</i>\n译文 & more", 1000, 2000))

	out, err := track.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"original_subtitle": "<i>原文</i>"`)
	assert.Contains(t, out, `"translated_subtitle": "译文 & more"`)

	var decoded map[string]Record
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, track.Records(), decoded)
}

func TestMergeRange(t *testing.T) {
	track := sampleTrack()
	before := track.Segments()

	merged, err := track.MergeRange(0, 2)
	require.NoError(t, err)
	assert.Equal(t, NewSegment("alphabetagamma", 0, 4000), merged)
	assert.Equal(t, before, track.Segments(), "preview must not modify the track")

	single, err := track.MergeRange(1, 1)
	require.NoError(t, err)
	assert.Equal(t, track.At(1), single)

	custom, err := track.MergeRangeText(1, 2, "beta gamma")
	require.NoError(t, err)
	assert.Equal(t, NewSegment("beta gamma", 1000, 4000), custom)
}

func TestMergeRangeInvalid(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 0},
		{"start after end", 2, 1},
		{"end past last", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := sampleTrack()
			_, err := track.MergeRange(tt.start, tt.end)
			assert.True(t, errors.Is(err, ErrInvalidRange))

			err = track.ReplaceRange(tt.start, tt.end, Segment{})
			assert.True(t, errors.Is(err, ErrInvalidRange))
			assert.Equal(t, 3, track.Len())
		})
	}

	_, err := NewTrack().MergeRange(0, 0)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestReplaceRangeAppliesPreview(t *testing.T) {
	track := sampleTrack()

	merged, err := track.MergeRange(0, 1)
	require.NoError(t, err)
	require.NoError(t, track.ReplaceRange(0, 1, merged))

	assert.Equal(t, []Segment{
		{Text: "alphabeta", StartTime: 0, EndTime: 2500},
		{Text: "gamma", StartTime: 2600, EndTime: 4000},
	}, track.Segments())
}

func TestMergeWithNext(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []Segment
	}{
		{
			name:  "first pair",
			index: 0,
			want: []Segment{
				{Text: "alpha beta", StartTime: 0, EndTime: 2500},
				{Text: "gamma", StartTime: 2600, EndTime: 4000},
			},
		},
		{
			name:  "last pair",
			index: 1,
			want: []Segment{
				{Text: "alpha", StartTime: 0, EndTime: 1000},
				{Text: "beta gamma", StartTime: 1000, EndTime: 4000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := sampleTrack()
			require.NoError(t, track.MergeWithNext(tt.index))
			assert.Equal(t, tt.want, track.Segments())
		})
	}
}

func TestMergeWithNextOutOfRange(t *testing.T) {
	for _, index := range []int{-1, 2, 3} {
		track := sampleTrack()
		err := track.MergeWithNext(index)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange), "index %d", index)
		assert.Equal(t, 3, track.Len())
	}

	single := NewTrack(NewSegment("only", 0, 1))
	assert.True(t, errors.Is(single.MergeWithNext(0), ErrIndexOutOfRange))
	assert.True(t, errors.Is(NewTrack().MergeWithNext(0), ErrIndexOutOfRange))
}

func TestValidate(t *testing.T) {
	track := NewTrack(NewSegment("ok", 0, 1000), NewSegment("bad", 2000, 1500))

	assert.NoError(t, track.Validate(TimingLenient))
	err := track.Validate(TimingRejectInverted)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTiming))
	assert.Contains(t, err.Error(), "segment 2")
}

func TestSaveSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.srt")

	written, err := sampleTrack().SaveSRT(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, written, string(data))
	assert.Equal(t, sampleTrack().ToSRT(), written)
}

func TestParseTimingPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want TimingPolicy
	}{
		{"", TimingLenient},
		{"lenient", TimingLenient},
		{"Inverted", TimingRejectInverted},
		{" empty ", TimingRejectEmpty},
	}
	for _, tt := range tests {
		got, err := ParseTimingPolicy(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseTimingPolicy("strict")
	assert.Error(t, err)
}
