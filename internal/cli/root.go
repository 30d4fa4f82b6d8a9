package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bozoyan/asrtools/internal/config"
	"github.com/bozoyan/asrtools/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

// commands carrying this annotation run before a config file exists
const skipConfigAnnotation = "skip-config"

var rootCmd = &cobra.Command{
	Use:   "asrtools",
	Short: "Subtitle toolkit for speech recognition output",
	Long: `asrtools converts, merges, and translates subtitle tracks, and produces
them from audio or video through a speech recognition API.

It reads SRT and VTT, and writes SRT, VTT, TXT, LRC, and JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		config.LoadDotEnv()
		if cmd.Annotations[skipConfigAnnotation] != "" {
			cfg = config.Default()
			return nil
		}

		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		c.ApplyEnv()
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		logger.Debugw("Loaded configuration",
			"output_format", cfg.OutputFormat,
			"timing_policy", cfg.TimingPolicy,
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ./"+config.DefaultFileName+" when present)")
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
