package cli

import (
	"fmt"

	"github.com/bozoyan/asrtools/internal/asrdata"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [subtitle_file]",
	Short: "Merge subtitle segments",
	Long: `Merge adjacent subtitle segments. Segment numbers are 1-based, as shown
in SRT files.

--next N joins segment N with the one after it, separating their texts with
a space, and writes the result.

--start A --end B previews the merge of segments A through B: texts are
concatenated without a separator (or replaced by --text) and the result is
printed. Add --apply to write it.

The output defaults to the input file.

Examples:
  asrtools merge talk.srt --next 3
  asrtools merge talk.srt --start 2 --end 4
  asrtools merge talk.srt --start 2 --end 4 --text "Hello there" --apply -o fixed.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().Int("next", 0, "Merge segment N with the following segment")
	mergeCmd.Flags().Int("start", 0, "First segment of the range to merge")
	mergeCmd.Flags().Int("end", 0, "Last segment of the range to merge")
	mergeCmd.Flags().String("text", "", "Text for the merged segment (range merge only)")
	mergeCmd.Flags().Bool("apply", false, "Write the range merge instead of printing it")

	mergeCmd.MarkFlagsMutuallyExclusive("next", "start")
	mergeCmd.MarkFlagsMutuallyExclusive("next", "end")
	mergeCmd.MarkFlagsRequiredTogether("start", "end")
	mergeCmd.MarkFlagsOneRequired("next", "start")
}

func runMerge(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	policy, err := timingPolicy(cmd)
	if err != nil {
		return err
	}
	track, format, err := asrdata.Load(inputPath, asrdata.WithTimingPolicy(policy))
	if err != nil {
		return err
	}

	out := inputPath
	if o, _ := cmd.Flags().GetString("output"); o != "" {
		out = o
	}
	w := cmd.OutOrStdout()

	if cmd.Flags().Changed("next") {
		next, _ := cmd.Flags().GetInt("next")
		if err := track.MergeWithNext(next - 1); err != nil {
			return fmt.Errorf("cannot merge segment %d: %w", next, err)
		}
		if err := asrdata.Save(track, format, out); err != nil {
			return err
		}

		logger.Infow("Merged segment with next", "segment", next, "segments", track.Len())
		printSuccess(w, "Merged segment %d with %d: %s", next, next+1, absPath(out))
		printDetail(w, "Segments", track.Len())
		return nil
	}

	start, _ := cmd.Flags().GetInt("start")
	end, _ := cmd.Flags().GetInt("end")

	var merged asrdata.Segment
	if cmd.Flags().Changed("text") {
		text, _ := cmd.Flags().GetString("text")
		merged, err = track.MergeRangeText(start-1, end-1, text)
	} else {
		merged, err = track.MergeRange(start-1, end-1)
	}
	if err != nil {
		return fmt.Errorf("cannot merge segments %d-%d: %w", start, end, err)
	}

	if apply, _ := cmd.Flags().GetBool("apply"); !apply {
		fmt.Fprintln(w, merged.SRTTimeRange())
		fmt.Fprintln(w, merged.Transcript())
		return nil
	}

	if err := track.ReplaceRange(start-1, end-1, merged); err != nil {
		return err
	}
	if err := asrdata.Save(track, format, out); err != nil {
		return err
	}

	logger.Infow("Merged segment range", "start", start, "end", end, "segments", track.Len())
	printSuccess(w, "Merged segments %d-%d: %s", start, end, absPath(out))
	printDetail(w, "Segments", track.Len())
	return nil
}
