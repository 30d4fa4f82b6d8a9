package transcribe

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/bozoyan/asrtools/internal/asrdata"
	"github.com/bozoyan/asrtools/internal/media"
)

// transcription result
type Result struct {
	Track    *asrdata.Track
	Language string
	Duration time.Duration
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language           string // Source language of audio
	TranscriptLanguage string // Output language for transcript (default: "native")
	Model              string
	Prompt             string

	// FFprobe, when set, is used to measure the audio for single segment
	// fallbacks.
	FFprobe string
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// File runs the whole recognition flow for a media file: inputs other than
// mp3 or wav are first converted to an mp3 next to the source, then handed
// to t.
func File(
	ctx context.Context,
	t Transcriber,
	bins media.Binaries,
	mediaPath string,
) (*Result, error) {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", mediaPath)
	}

	audioPath, _, err := media.PrepareForTranscription(ctx, bins, mediaPath)
	if err != nil {
		return nil, err
	}

	result, err := t.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func secondsToMillis(s float64) int64 {
	return int64(math.Round(s * 1000))
}

func probeDuration(ctx context.Context, ffprobe, path string) time.Duration {
	if ffprobe == "" {
		return 0
	}
	d, err := media.GetDuration(ctx, media.Binaries{FFprobe: ffprobe}, path)
	if err != nil {
		return 0
	}
	return d
}
