package cli

import (
	"fmt"

	"github.com/bozoyan/asrtools/internal/watcher"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert a subtitle file to another format",
	Long: `Convert an SRT or VTT file to SRT, VTT, TXT, LRC, or JSON.

JSON output maps 1-based segment numbers to records whose text is split on
the first newline into original and translated subtitle.

Examples:
  asrtools convert talk.vtt
  asrtools convert talk.srt -f lrc
  asrtools convert talk.srt -f json -o records.json --timing-policy inverted`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("format", "f", "", "Output format (srt, vtt, txt, lrc, json, ass)")
	convertCmd.Flags().
		String("timing-policy", "", "Reject segments by timing: lenient, inverted, or empty")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	format, err := subtitleFormat(cmd)
	if err != nil {
		return err
	}
	policy, err := timingPolicy(cmd)
	if err != nil {
		return err
	}

	out := outputPath(cmd, inputPath, format)
	if absPath(out) == absPath(inputPath) {
		return fmt.Errorf("output %s would overwrite the input", out)
	}

	conv := &watcher.Converter{Format: format, Policy: policy, Logger: logger}
	n, err := conv.Convert(inputPath, out)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Subtitles converted successfully: %s", absPath(out))
	printDetail(w, "Segments", n)
	printDetail(w, "Format", format)
	return nil
}
