package asrdata

import (
	"fmt"
	"strings"
)

// TimingPolicy decides which start/end relationships a segment may have.
// The zero value accepts everything.
type TimingPolicy int

const (
	TimingLenient TimingPolicy = iota
	TimingRejectInverted
	TimingRejectEmpty
)

func ParseTimingPolicy(s string) (TimingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return TimingLenient, nil
	case "inverted":
		return TimingRejectInverted, nil
	case "empty":
		return TimingRejectEmpty, nil
	default:
		return TimingLenient, fmt.Errorf(
			"unknown timing policy %q: use lenient, inverted, or empty",
			s,
		)
	}
}

func (p TimingPolicy) String() string {
	switch p {
	case TimingRejectInverted:
		return "inverted"
	case TimingRejectEmpty:
		return "empty"
	default:
		return "lenient"
	}
}

// Check returns ErrInvalidTiming when seg violates the policy.
func (p TimingPolicy) Check(seg Segment) error {
	switch p {
	case TimingRejectInverted:
		if seg.StartTime > seg.EndTime {
			return fmt.Errorf("%w: start %d after end %d",
				ErrInvalidTiming, seg.StartTime, seg.EndTime)
		}
	case TimingRejectEmpty:
		if seg.StartTime >= seg.EndTime {
			return fmt.Errorf("%w: start %d not before end %d",
				ErrInvalidTiming, seg.StartTime, seg.EndTime)
		}
	}
	return nil
}

type parseOptions struct {
	timing TimingPolicy
}

// Option configures ParseSRT, ParseVTT and Decode.
type Option func(*parseOptions)

func WithTimingPolicy(p TimingPolicy) Option {
	return func(o *parseOptions) {
		o.timing = p
	}
}

func buildOptions(opts []Option) parseOptions {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
