package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bozoyan/asrtools/internal/asrdata"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen)
	detailColor  = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
)

// subtitleFormat reads the -f flag, falling back to the configured format.
func subtitleFormat(cmd *cobra.Command) (asrdata.Format, error) {
	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		return cfg.Format(), nil
	}
	f, err := asrdata.ParseFormat(name)
	if err != nil {
		return "", err
	}
	if !f.CanEncode() {
		return "", fmt.Errorf("%w: cannot write %s", asrdata.ErrUnsupportedFormat, f)
	}
	return f, nil
}

// timingPolicy reads --timing-policy when the command has one, falling back
// to the configured policy.
func timingPolicy(cmd *cobra.Command) (asrdata.TimingPolicy, error) {
	flag := cmd.Flags().Lookup("timing-policy")
	if flag == nil || !flag.Changed {
		return cfg.Policy(), nil
	}
	return asrdata.ParseTimingPolicy(flag.Value.String())
}

// outputPath returns -o when given, otherwise input with its extension
// replaced by format's.
func outputPath(cmd *cobra.Command, input string, format asrdata.Format) string {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return out
	}
	return asrdata.OutputPath(input, format)
}

// translatedPath names the output of a translation run, e.g.
// talk.srt -> talk.ja.srt or talk.ja.bilingual.srt.
func translatedPath(input, target string, format asrdata.Format, bilingual bool) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	tag := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(target), " ", "-"))
	if bilingual {
		tag += ".bilingual"
	}
	return base + "." + tag + format.Extension()
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	successColor.Fprintf(w, format+"\n", args...)
}

func printDetail(w io.Writer, label string, value interface{}) {
	detailColor.Fprintf(w, "  %s: ", label)
	fmt.Fprintln(w, value)
}

func printWarning(w io.Writer, format string, args ...interface{}) {
	warnColor.Fprintf(w, format+"\n", args...)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
