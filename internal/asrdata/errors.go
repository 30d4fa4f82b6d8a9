package asrdata

import (
	"errors"
	"fmt"
)

var (
	// SRT block with fewer than three lines
	ErrMalformedBlock = errors.New("malformed subtitle block")
	// timing line or timestamp that does not match the grammar
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// MergeRange / ReplaceRange bounds violation
	ErrInvalidRange = errors.New("invalid segment index range")
	// MergeWithNext bounds violation
	ErrIndexOutOfRange = errors.New("segment index out of range")
	// format with no decoder/encoder, including ASS
	ErrUnsupportedFormat = errors.New("unsupported subtitle format")
	// segment rejected by a TimingPolicy
	ErrInvalidTiming = errors.New("invalid segment timing")
)

// ParseError reports the block or line a parser rejected. Kind is one of the
// sentinel errors above and is what errors.Is matches against.
type ParseError struct {
	Kind    error
	Block   int // 1-based block number within the input
	Content string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v in block %d: %q", e.Kind, e.Block, e.Content)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}
