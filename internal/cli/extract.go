package cli

import (
	"fmt"

	"github.com/bozoyan/asrtools/internal/media"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract audio from a video file",
	Long: `Extract the audio track from a video file and save it as a separate audio file.

Supports multiple output formats: mp3, wav, aac, flac.

Examples:
  asrtools extract video.mp4
  asrtools extract video.mp4 -o audio.wav -f wav
  asrtools extract video.mp4 --format mp3 -q 0 --sample-rate 44100 --channels 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	defaults := media.DefaultExtractOptions()
	extractCmd.Flags().
		StringP("format", "f", string(defaults.Format), "Output audio format (mp3, wav, aac, flac)")
	extractCmd.Flags().
		IntP("quality", "q", defaults.Quality, "mp3 VBR quality, 0 (best) to 9")
	extractCmd.Flags().
		StringP("bitrate", "b", defaults.Bitrate, "Bitrate for aac (e.g., 128k, 320k)")
	extractCmd.Flags().
		IntP("sample-rate", "r", 0, "Sample rate in Hz, 0 keeps the source rate")
	extractCmd.Flags().
		IntP("channels", "c", 0, "Number of audio channels, 0 keeps the source layout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	formatStr, _ := cmd.Flags().GetString("format")
	quality, _ := cmd.Flags().GetInt("quality")
	bitrate, _ := cmd.Flags().GetString("bitrate")
	sampleRate, _ := cmd.Flags().GetInt("sample-rate")
	channels, _ := cmd.Flags().GetInt("channels")
	out, _ := cmd.Flags().GetString("output")

	if !media.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected a video file)", videoPath)
	}

	format, err := media.ParseAudioFormat(formatStr)
	if err != nil {
		return err
	}
	opts := media.ExtractOptions{
		Format:     format,
		Quality:    quality,
		Bitrate:    bitrate,
		SampleRate: sampleRate,
		Channels:   channels,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	if out == "" {
		out = media.AudioOutputPath(videoPath, "", format)
	}

	bins, err := media.ResolveBinaries(cfg.FFmpegPath, cfg.FFprobePath)
	if err != nil {
		return err
	}

	logger.Infow("Extracting audio",
		"input", videoPath,
		"output", out,
		"format", format,
	)

	if err := media.ExtractAudio(cmd.Context(), bins, videoPath, out, opts); err != nil {
		return fmt.Errorf("failed to extract audio: %w", err)
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Audio extracted successfully: %s", absPath(out))
	if d, err := media.GetDuration(cmd.Context(), bins, out); err == nil {
		printDetail(w, "Duration", d)
	}
	return nil
}
