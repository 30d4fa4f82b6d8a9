package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/bozoyan/asrtools/internal/asrdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrack() *asrdata.Track {
	return asrdata.NewTrack(
		asrdata.NewSegment("hello", 0, 1000),
		asrdata.NewSegment("world", 1000, 2000),
	)
}

func TestItemsFromTrack(t *testing.T) {
	assert.Equal(t, []TranslationItem{
		{Index: 0, Text: "hello"},
		{Index: 1, Text: "world"},
	}, ItemsFromTrack(sampleTrack()))
}

func TestApply(t *testing.T) {
	results := []TranslationResult{{Index: 1, Text: "Welt"}, {Index: 0, Text: "hallo"}}

	replaced := sampleTrack()
	require.NoError(t, Apply(replaced, results, ModeReplace))
	assert.Equal(t, "hallo\nWelt", replaced.ToTXT())

	bilingual := sampleTrack()
	require.NoError(t, Apply(bilingual, results, ModeBilingual))
	records := bilingual.Records()
	assert.Equal(t, "hello", records["1"].OriginalSubtitle)
	assert.Equal(t, "hallo", records["1"].TranslatedSubtitle)
	assert.Equal(t, "world", records["2"].OriginalSubtitle)
	assert.Equal(t, "Welt", records["2"].TranslatedSubtitle)
	assert.Equal(t, int64(1000), bilingual.At(1).StartTime)
}

func TestApplyBilingualMultiLine(t *testing.T) {
	track, err := asrdata.ParseSRT("1\n00:00:01,000 --> 00:00:02,000\nline one\nline two\n")
	require.NoError(t, err)

	results := []TranslationResult{{Index: 0, Text: "ligne un\r\n ligne deux "}}
	require.NoError(t, Apply(track, results, ModeBilingual))

	assert.Equal(t, "line one line two\nligne un ligne deux", track.At(0).Text)
	record := track.Records()["1"]
	assert.Equal(t, "line one line two", record.OriginalSubtitle)
	assert.Equal(t, "ligne un ligne deux", record.TranslatedSubtitle)
}

func TestApplyReplaceKeepsLineBreaks(t *testing.T) {
	track := sampleTrack()
	require.NoError(t, Apply(track, []TranslationResult{{Index: 0, Text: "hal\nlo"}}, ModeReplace))
	assert.Equal(t, "hal\nlo", track.At(0).Text)
}

func TestApplyRejectsUnknownIndex(t *testing.T) {
	track := sampleTrack()
	err := Apply(track, []TranslationResult{{Index: 0, Text: "hallo"}, {Index: 2, Text: "?"}}, ModeReplace)
	assert.True(t, errors.Is(err, asrdata.ErrIndexOutOfRange))
	assert.Equal(t, "hello", track.At(0).Text, "nothing is written when an index is invalid")
}

func TestTrack(t *testing.T) {
	tr := newBatchTranslator(&echoCompleter{}, Options{TargetLanguage: "Shouting"})

	track := sampleTrack()
	require.NoError(t, Track(context.Background(), tr, track, ModeBilingual))
	assert.Equal(t, "hello\nHELLO", track.At(0).Text)
	assert.Equal(t, "world\nWORLD", track.At(1).Text)
}

func TestTrackFailureLeavesTrackUnchanged(t *testing.T) {
	tr := newBatchTranslator(&echoCompleter{
		failWhen: func([]TranslationItem) bool { return true },
	}, Options{TargetLanguage: "Shouting"})

	track := sampleTrack()
	err := Track(context.Background(), tr, track, ModeReplace)
	require.Error(t, err)
	assert.Equal(t, sampleTrack().Segments(), track.Segments())
}

func TestTrackEmpty(t *testing.T) {
	tr := newBatchTranslator(&echoCompleter{}, Options{TargetLanguage: "Shouting"})
	assert.Error(t, Track(context.Background(), tr, asrdata.NewTrack(), ModeReplace))
}
