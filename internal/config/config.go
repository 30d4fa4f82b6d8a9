package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bozoyan/asrtools/internal/asrdata"
	"github.com/joho/godotenv"
)

const (
	EnvFFmpegPath    = "ASRTOOLS_FFMPEG_PATH"
	EnvFFprobePath   = "ASRTOOLS_FFPROBE_PATH"
	EnvOutputFormat  = "ASRTOOLS_OUTPUT_FORMAT"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	DefaultFileName  = "asrtools.json"
	defaultDebounce  = "2s"
	defaultBatchSize = 50
)

// Config holds every tunable the commands read. Flags override it.
type Config struct {
	OutputFormat string           `json:"output_format"`
	TimingPolicy string           `json:"timing_policy"`
	FFmpegPath   string           `json:"ffmpeg_path"`
	FFprobePath  string           `json:"ffprobe_path"`
	Transcribe   TranscribeConfig `json:"transcribe"`
	Translate    TranslateConfig  `json:"translate"`
	Watch        WatchConfig      `json:"watch"`
}

type TranscribeConfig struct {
	Model    string `json:"model"`
	Language string `json:"language"`
	Prompt   string `json:"prompt"`
}

type TranslateConfig struct {
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	TargetLanguage string `json:"target_language"`
	BatchSize      int    `json:"batch_size"`
	Concurrency    int    `json:"concurrency"`
	Prompt         string `json:"prompt"`
}

type WatchConfig struct {
	Debounce   string   `json:"debounce"`
	Extensions []string `json:"extensions"`
}

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Message)
}

func Default() *Config {
	return &Config{
		OutputFormat: string(asrdata.FormatSRT),
		TimingPolicy: asrdata.TimingLenient.String(),
		Transcribe: TranscribeConfig{
			Model: "whisper-1",
		},
		Translate: TranslateConfig{
			Provider:    "gemini",
			BatchSize:   defaultBatchSize,
			Concurrency: 3,
		},
		Watch: WatchConfig{
			Debounce:   defaultDebounce,
			Extensions: []string{".srt", ".vtt"},
		},
	}
}

// Load reads path over the defaults. An empty path, or a missing file at
// the default location, yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides file values with ASRTOOLS_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvFFmpegPath); v != "" {
		c.FFmpegPath = v
	}
	if v := os.Getenv(EnvFFprobePath); v != "" {
		c.FFprobePath = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.OutputFormat = v
	}
}

func (c *Config) Validate() error {
	format, err := asrdata.ParseFormat(c.OutputFormat)
	if err != nil {
		return &ValidationError{"output_format", err.Error()}
	}
	if !format.CanEncode() {
		return &ValidationError{"output_format", "format cannot be written"}
	}

	if _, err := asrdata.ParseTimingPolicy(c.TimingPolicy); err != nil {
		return &ValidationError{"timing_policy", err.Error()}
	}

	switch c.Translate.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return &ValidationError{
			"translate.provider",
			fmt.Sprintf("unknown provider %q: use gemini, openai, or anthropic", c.Translate.Provider),
		}
	}
	if c.Translate.BatchSize < 1 {
		return &ValidationError{"translate.batch_size", "must be positive"}
	}
	if c.Translate.Concurrency < 1 || c.Translate.Concurrency > 16 {
		return &ValidationError{"translate.concurrency", "must be between 1 and 16"}
	}

	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return &ValidationError{"watch.debounce", err.Error()}
	}
	if d < 0 {
		return &ValidationError{"watch.debounce", "must not be negative"}
	}
	for _, ext := range c.Watch.Extensions {
		f, err := asrdata.FormatFromPath("x" + ext)
		if err != nil || !f.CanDecode() {
			return &ValidationError{"watch.extensions", fmt.Sprintf("cannot read %q files", ext)}
		}
	}

	return nil
}

// Format returns the validated output format.
func (c *Config) Format() asrdata.Format {
	f, err := asrdata.ParseFormat(c.OutputFormat)
	if err != nil {
		return asrdata.FormatSRT
	}
	return f
}

func (c *Config) Policy() asrdata.TimingPolicy {
	p, _ := asrdata.ParseTimingPolicy(c.TimingPolicy)
	return p
}

func (c *Config) Debounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		d, _ = time.ParseDuration(defaultDebounce)
	}
	return d
}

// APIKey returns the key for provider from the environment.
func APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv(EnvOpenAIKey)
	case "gemini":
		return os.Getenv(EnvGeminiKey)
	case "anthropic":
		return os.Getenv(EnvAnthropicKey)
	default:
		return ""
	}
}

// APIKeyEnv names the variable APIKey reads for provider.
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return EnvOpenAIKey
	case "gemini":
		return EnvGeminiKey
	case "anthropic":
		return EnvAnthropicKey
	default:
		return "API_KEY"
	}
}

// Save writes c as indented JSON, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
