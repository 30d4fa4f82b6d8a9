package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// AudioFormat is an output container for ExtractAudio.
type AudioFormat string

const (
	AudioMP3  AudioFormat = "mp3"
	AudioWAV  AudioFormat = "wav"
	AudioAAC  AudioFormat = "aac"
	AudioFLAC AudioFormat = "flac"
)

func ParseAudioFormat(s string) (AudioFormat, error) {
	switch f := AudioFormat(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case AudioMP3, AudioWAV, AudioAAC, AudioFLAC:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported audio format %q: use mp3, wav, aac, or flac", s)
	}
}

func (f AudioFormat) codec() string {
	switch f {
	case AudioMP3:
		return "libmp3lame"
	case AudioAAC:
		return "aac"
	case AudioFLAC:
		return "flac"
	default:
		return "pcm_s16le"
	}
}

// holds options for audio extraction
type ExtractOptions struct {
	Format     AudioFormat
	Quality    int    // mp3 VBR quality, 0 (best) to 9
	Bitrate    string // aac bitrate, e.g. "192k"
	SampleRate int    // Hz, 0 keeps the source rate
	Channels   int    // 0 keeps the source layout
}

// DefaultExtractOptions mirrors the "medium quality" mp3 preset.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Format:  AudioMP3,
		Quality: 2,
		Bitrate: "192k",
	}
}

// TranscriptionOptions produces a mono mp3 suitable for upload to a speech
// recognition API.
func TranscriptionOptions() ExtractOptions {
	return ExtractOptions{
		Format:   AudioMP3,
		Quality:  2,
		Channels: 1,
	}
}

func (o ExtractOptions) Validate() error {
	if _, err := ParseAudioFormat(string(o.Format)); err != nil {
		return err
	}
	if o.Format == AudioMP3 && (o.Quality < 0 || o.Quality > 9) {
		return fmt.Errorf("mp3 quality must be between 0 and 9, got %d", o.Quality)
	}
	if o.SampleRate < 0 || o.Channels < 0 {
		return fmt.Errorf("sample rate and channels must not be negative")
	}
	return nil
}

func (o ExtractOptions) kwargs() ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vn":     "",
		"acodec": o.Format.codec(),
	}

	switch o.Format {
	case AudioMP3:
		kwargs["q:a"] = o.Quality
		kwargs["af"] = "aresample=async=1"
	case AudioAAC:
		if o.Bitrate != "" {
			kwargs["b:a"] = o.Bitrate
		}
	}

	if o.SampleRate > 0 {
		kwargs["ar"] = o.SampleRate
	}
	if o.Channels > 0 {
		kwargs["ac"] = o.Channels
	}
	return kwargs
}

// ExtractAudio writes the audio track of inputPath to outputPath.
func ExtractAudio(
	ctx context.Context,
	bins Binaries,
	inputPath, outputPath string,
	opts ExtractOptions,
) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var stderr bytes.Buffer
	err := ffmpeg.Input(inputPath).
		Output(outputPath, opts.kwargs()).
		OverWriteOutput().
		SetFfmpegPath(bins.FFmpeg).
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w: %s", err, lastLine(stderr.String()))
	}
	return nil
}

// AudioOutputPath places the extracted file in outputDir, or next to the
// input when outputDir is empty.
func AudioOutputPath(inputPath, outputDir string, format AudioFormat) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}
	return filepath.Join(outputDir, base+"."+string(format))
}

// PrepareForTranscription returns a path a recognizer can accept. mp3 and wav
// inputs are returned unchanged; anything else is converted to an mp3 next to
// the input. converted reports whether a new file was written.
func PrepareForTranscription(
	ctx context.Context,
	bins Binaries,
	inputPath string,
) (audioPath string, converted bool, err error) {
	if !NeedsConversion(inputPath) {
		return inputPath, false, nil
	}

	audioPath = AudioOutputPath(inputPath, "", AudioMP3)
	if err := ExtractAudio(ctx, bins, inputPath, audioPath, TranscriptionOptions()); err != nil {
		return "", false, fmt.Errorf("audio conversion failed, make sure ffmpeg is installed: %w", err)
	}
	return audioPath, true, nil
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of an audio/video file
func GetDuration(ctx context.Context, bins Binaries, filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	cmd := exec.CommandContext(ctx, bins.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeDuration(out.Bytes())
}

func parseProbeDuration(data []byte) (time.Duration, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
