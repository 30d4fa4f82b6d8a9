package cli

import (
	"fmt"
	"strings"

	"github.com/bozoyan/asrtools/internal/asrdata"
	"github.com/bozoyan/asrtools/internal/config"
	"github.com/bozoyan/asrtools/internal/translate"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate an SRT or VTT file to another language using AI.

The --bilingual flag keeps the original text and puts the translation on the
line below it. Exported as JSON, such a track splits each segment into
original_subtitle and translated_subtitle.

Examples:
  asrtools translate talk.srt -t japanese
  asrtools translate talk.srt -t zh --bilingual -f json
  asrtools translate talk.vtt -l english -t spanish --provider anthropic -o talk.es.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation")
	translateCmd.Flags().
		Bool("bilingual", false, "Keep the original text above the translation")
	translateCmd.Flags().
		StringP("format", "f", "", "Output format (srt, vtt, txt, lrc, json), defaults to the input format")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", 0, "Number of subtitle entries per API request")
	translateCmd.Flags().
		String("timing-policy", "", "Reject segments by timing: lenient, inverted, or empty")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()

	targetLang, _ := cmd.Flags().GetString("target-language")
	bilingual, _ := cmd.Flags().GetBool("bilingual")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	providerStr, _ := cmd.Flags().GetString("provider")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	inputLang, _ := cmd.Flags().GetString("language")

	if targetLang == "" {
		targetLang = cfg.Translate.TargetLanguage
	}
	if targetLang == "" {
		return fmt.Errorf("target language is required: use --target-language or set translate.target_language")
	}
	if providerStr == "" {
		providerStr = cfg.Translate.Provider
	}
	if model == "" && strings.EqualFold(providerStr, cfg.Translate.Provider) {
		model = cfg.Translate.Model
	}
	if concurrency == 0 {
		concurrency = cfg.Translate.Concurrency
	}
	if batchSize == 0 {
		batchSize = cfg.Translate.BatchSize
	}
	if concurrency < 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize < 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	provider := translate.Provider(strings.ToLower(providerStr))
	if apiKey == "" {
		apiKey = config.APIKey(string(provider))
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			config.APIKeyEnv(string(provider)),
		)
	}

	policy, err := timingPolicy(cmd)
	if err != nil {
		return err
	}
	track, inputFormat, err := asrdata.Load(subtitlePath, asrdata.WithTimingPolicy(policy))
	if err != nil {
		return err
	}
	if !track.HasData() {
		return fmt.Errorf("subtitle file contains no entries")
	}

	format := inputFormat
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		if format, err = subtitleFormat(cmd); err != nil {
			return err
		}
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = translatedPath(subtitlePath, targetLang, format, bilingual)
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", out,
		"target_language", targetLang,
		"input_language", inputLang,
		"provider", provider,
		"bilingual", bilingual,
		"entries", track.Len(),
	)

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		Prompt:         cfg.Translate.Prompt,
		BatchSize:      batchSize,
		Concurrency:    concurrency,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	mode := translate.ModeReplace
	if bilingual {
		mode = translate.ModeBilingual
	}
	if err := translate.Track(ctx, translator, track, mode); err != nil {
		return err
	}

	logger.Infow("Writing output file", "format", format)
	if err := asrdata.Save(track, format, out); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Subtitles translated successfully: %s", absPath(out))
	printDetail(w, "Entries", track.Len())
	printDetail(w, "Target language", targetLang)
	if bilingual {
		printDetail(w, "Mode", "bilingual")
	}
	return nil
}
