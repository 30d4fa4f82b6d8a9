package asrdata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVTT(t *testing.T) {
	content := `WEBVTT
Kind: captions

NOTE this comment
spans two lines

1
00:00:01.000 --> 00:00:04.000
Hello, world!

2
00:00:05.500 --> 00:00:08.200 align:start position:10%
This is a test.
With multiple lines.

00:00:10.000 --> 00:00:12.500
<v Speaker>Final</v> subtitle.
`
	track, err := ParseVTT(content)
	require.NoError(t, err)

	assert.Equal(t, []Segment{
		{Text: "Hello, world!", StartTime: 1000, EndTime: 4000},
		{Text: "This is a test. With multiple lines.", StartTime: 5500, EndTime: 8200},
		{Text: "Final subtitle.", StartTime: 10000, EndTime: 12500},
	}, track.Segments())
}

func TestParseVTTStripsTags(t *testing.T) {
	input := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\n<b>Hello</b> <00:00:01.000>world"

	track, err := ParseVTT(input)
	require.NoError(t, err)
	require.Equal(t, 1, track.Len())
	assert.Equal(t, "Hello world", track.At(0).Text)
	assert.Equal(t, int64(0), track.At(0).StartTime)
	assert.Equal(t, int64(2000), track.At(0).EndTime)
}

func TestParseVTTSkipsUnusableBlocks(t *testing.T) {
	tests := []struct {
		name  string
		block string
	}{
		{"style block", "STYLE\n::cue { color: red }"},
		{"comma separator", "00:00:01,000 --> 00:00:02,000\ncomma"},
		{"short timestamp", "00:01.000 --> 00:02.000\nshort"},
		{"one digit seconds", "00:00:1.000 --> 00:00:02.000\nloose"},
		{"id and timing only", "3\n00:00:05.000 --> 00:00:06.000"},
		{"lone line", "dangling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "WEBVTT\n\n" + tt.block + "\n\n00:00:07.000 --> 00:00:08.000\nkept"
			track, err := ParseVTT(input)
			require.NoError(t, err)
			assert.Equal(t, []Segment{{Text: "kept", StartTime: 7000, EndTime: 8000}}, track.Segments())
		})
	}
}

func TestParseVTTEmpty(t *testing.T) {
	for _, input := range []string{"", "WEBVTT", "WEBVTT\n\nNOTE nothing here"} {
		track, err := ParseVTT(input)
		require.NoError(t, err)
		assert.False(t, track.HasData())
	}
}

func TestParseVTTTimingPolicy(t *testing.T) {
	input := "WEBVTT\n\n00:00:05.000 --> 00:00:01.000\nbackwards"

	track, err := ParseVTT(input)
	require.NoError(t, err)
	assert.Equal(t, 1, track.Len())

	_, err = ParseVTT(input, WithTimingPolicy(TimingRejectInverted))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTiming))

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Block)
}

func TestVTTRoundTrip(t *testing.T) {
	original := NewTrack(
		NewSegment("first", 0, 1200),
		NewSegment("second", 1200, 3723004),
	)

	out := original.ToVTT()
	assert.Equal(t,
		"WEBVTT\n\n1\n00:00:00.000 --> 00:00:01.200\nfirst\n\n2\n00:00:01.200 --> 01:02:03.004\nsecond\n",
		out,
	)

	parsed, err := ParseVTT(out)
	require.NoError(t, err)
	assert.Equal(t, original.Segments(), parsed.Segments())
}
