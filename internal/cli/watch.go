package cli

import (
	"github.com/bozoyan/asrtools/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Convert subtitle files as they appear in a folder",
	Long: `Watch a folder and convert every subtitle file written into it to the
output format. A file is converted once it has stopped changing for the
debounce interval. Files already in the output format are left alone.

-o names a directory for the converted files; by default they are written
next to their source.

Examples:
  asrtools watch ./incoming
  asrtools watch ./incoming -f lrc --debounce 500ms -o ./lyrics`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().
		StringP("format", "f", "", "Output format (srt, vtt, txt, lrc, json)")
	watchCmd.Flags().
		Duration("debounce", 0, "How long a file must stay unchanged before conversion")
	watchCmd.Flags().
		String("timing-policy", "", "Reject segments by timing: lenient, inverted, or empty")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	format, err := subtitleFormat(cmd)
	if err != nil {
		return err
	}
	policy, err := timingPolicy(cmd)
	if err != nil {
		return err
	}

	debounce, _ := cmd.Flags().GetDuration("debounce")
	if debounce <= 0 {
		debounce = cfg.Debounce()
	}
	outDir, _ := cmd.Flags().GetString("output")

	conv := &watcher.Converter{
		Format:    format,
		Policy:    policy,
		OutputDir: outDir,
		Logger:    logger,
	}

	w, err := watcher.New(dir, cfg.Watch.Extensions, conv, debounce, logger)
	if err != nil {
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Watching %s, converting to %s (Ctrl+C to stop)", absPath(dir), format)
	return w.Run(cmd.Context())
}

