package asrdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentHelpers(t *testing.T) {
	seg := NewSegment("原文\n译文", 61230, 3723004)

	assert.Equal(t, "00:01:01,230 --> 01:02:03,004", seg.SRTTimeRange())
	assert.Equal(t, "[01:01.23]", seg.LRCPrefix())
	assert.Equal(t, "原文\n译文", seg.Transcript())
	assert.Equal(t, int64(3661774), seg.Duration())
	assert.Equal(t, `Segment("原文\n译文", 61230, 3723004)`, seg.String())

	inverted := NewSegment("", 2000, 1500)
	assert.Equal(t, int64(-500), inverted.Duration())
}
