package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bozoyan/asrtools/internal/asrdata"
	"github.com/bozoyan/asrtools/internal/config"
	"github.com/bozoyan/asrtools/internal/media"
	"github.com/bozoyan/asrtools/internal/transcribe"
	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [media_file]",
	Short: "Generate subtitles for an audio or video file",
	Long: `Generate subtitles for an audio or video file with a speech recognition API.

mp3 and wav files are sent as they are. Other audio and all video files are
first converted to an mp3 next to the input, which requires ffmpeg.

The subtitle file is written next to the input unless -o is given.

Examples:
  asrtools transcribe interview.mp3
  asrtools transcribe lecture.mp4 -f vtt -l en
  asrtools transcribe podcast.m4a --provider gemini --transcript-language english`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt, txt, lrc, json)")
	transcribeCmd.Flags().
		String("provider", "openai", "Transcription provider (openai, gemini)")
	transcribeCmd.Flags().
		String("model", "", "Model to use for transcription (provider-specific, uses sensible defaults)")
	transcribeCmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	transcribeCmd.Flags().
		String("transcript-language", "native", "Output language for transcript (e.g., 'english', or 'native' for original language)")
	transcribeCmd.Flags().
		String("prompt", "", "Extra instructions passed to the recognizer")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()

	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", mediaPath)
	}

	format, err := subtitleFormat(cmd)
	if err != nil {
		return err
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	transcriptLang, _ := cmd.Flags().GetString("transcript-language")
	prompt, _ := cmd.Flags().GetString("prompt")
	language, _ := cmd.Flags().GetString("language")

	provider := transcribe.Provider(strings.ToLower(providerStr))
	if provider == transcribe.ProviderOpenAI {
		if !isValidOpenAITranscriptLanguage(transcriptLang) {
			return fmt.Errorf(
				"OpenAI can only transcribe to the native language or english, got %q",
				transcriptLang,
			)
		}
		if model == "" {
			model = cfg.Transcribe.Model
		}
	}
	if language == "" {
		language = cfg.Transcribe.Language
	}
	if prompt == "" {
		prompt = cfg.Transcribe.Prompt
	}

	if apiKey == "" {
		apiKey = config.APIKey(string(provider))
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			config.APIKeyEnv(string(provider)),
		)
	}

	bins, err := media.ResolveBinaries(cfg.FFmpegPath, cfg.FFprobePath)
	if err != nil {
		if media.NeedsConversion(mediaPath) || !errors.Is(err, media.ErrBinaryNotFound) {
			return err
		}
		logger.Debugw("ffmpeg not available, durations will not be probed", "error", err)
	}

	out := outputPath(cmd, mediaPath, format)

	logger.Infow("Starting transcription",
		"input", mediaPath,
		"output", out,
		"provider", provider,
		"model", model,
		"language", language,
	)

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{
		Language:           language,
		TranscriptLanguage: transcriptLang,
		Model:              model,
		Prompt:             prompt,
		FFprobe:            bins.FFprobe,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	started := time.Now()
	result, err := transcribe.File(ctx, transcriber, bins, mediaPath)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete",
		"segments", result.Track.Len(),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	if !result.Track.HasData() {
		printWarning(cmd.ErrOrStderr(), "No speech was recognized in %s", mediaPath)
	}
	if err := asrdata.Save(result.Track, format, out); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Subtitles generated successfully: %s", absPath(out))
	printDetail(w, "Segments", result.Track.Len())
	if result.Duration > 0 {
		printDetail(w, "Duration", result.Duration.Round(time.Millisecond))
	}
	if result.Language != "" {
		printDetail(w, "Language", result.Language)
	}
	return nil
}

// OpenAI only offers transcription in the spoken language or translation
// into English.
func isValidOpenAITranscriptLanguage(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "native", "english", "en":
		return true
	default:
		return false
	}
}
