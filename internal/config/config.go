// Package config defines the immutable settings passed into the parser, the
// statistics calculator and the sentiment analyzer, plus the viper-backed
// loader that fills them from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

const (
	EnvPrefix         = "CRUMBS"
	DefaultConfigName = ".crumbs"

	DefaultSessionGap   = 2 * time.Hour
	DefaultBatchSize    = 5
	DefaultModel        = "anthropic/claude-3-haiku"
	DefaultBaseURL      = "https://openrouter.ai/api/v1"
	DefaultLLMTimeout   = 60 * time.Second
	DefaultGitHubRPS    = 10.0
	DefaultGitHubWorker = 8
)

// Config is the full application configuration
type Config struct {
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Sentiment SentimentConfig `mapstructure:"sentiment"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Log       LogConfig       `mapstructure:"log"`
}

// AnalysisConfig holds the fixed thresholds used by the parser and calculator
type AnalysisConfig struct {
	// Gaps strictly longer than this start a new work session
	SessionGap time.Duration `mapstructure:"session_gap"`

	SizeThresholds model.SizeThresholds `mapstructure:"size_thresholds"`

	// Types recognized as conventional by the message parser
	ConventionalTypes []model.CommitType `mapstructure:"conventional_types"`
}

// SentimentConfig configures the optional LLM tone classification
type SentimentConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	BatchSize int           `mapstructure:"batch_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// GitHubConfig configures the GitHub commit source
type GitHubConfig struct {
	Token             string  `mapstructure:"token"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	MaxWorkers        int     `mapstructure:"max_workers"`
}

// LogConfig configures the logrus logger built by the CLI
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Default returns the reference configuration
func Default() Config {
	return Config{
		Analysis:  DefaultAnalysis(),
		Sentiment: DefaultSentiment(),
		GitHub: GitHubConfig{
			RequestsPerSecond: DefaultGitHubRPS,
			MaxWorkers:        DefaultGitHubWorker,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultAnalysis returns the 2h session gap, 10/50/200 size thresholds and
// the eleven conventional types.
func DefaultAnalysis() AnalysisConfig {
	return AnalysisConfig{
		SessionGap:        DefaultSessionGap,
		SizeThresholds:    model.DefaultSizeThresholds(),
		ConventionalTypes: model.ConventionalTypes(),
	}
}

// DefaultSentiment returns a disabled sentiment configuration (no API key)
func DefaultSentiment() SentimentConfig {
	return SentimentConfig{
		Model:     DefaultModel,
		BaseURL:   DefaultBaseURL,
		BatchSize: DefaultBatchSize,
		Timeout:   DefaultLLMTimeout,
	}
}

// SentimentEnabled reports whether a sentiment credential is configured
func (c Config) SentimentEnabled() bool {
	return c.Sentiment.APIKey != ""
}

// Validate checks the invariants the calculator and analyzer rely on
func (c Config) Validate() error {
	a := c.Analysis
	if a.SessionGap <= 0 {
		return fmt.Errorf("%w: session gap must be positive, got %s", ErrInvalidConfig, a.SessionGap)
	}
	th := a.SizeThresholds
	if th.Small < 0 || th.Small >= th.Medium || th.Medium >= th.Large {
		return fmt.Errorf("%w: size thresholds must increase, got %d/%d/%d", ErrInvalidConfig, th.Small, th.Medium, th.Large)
	}
	if len(a.ConventionalTypes) == 0 {
		return fmt.Errorf("%w: at least one conventional type is required", ErrInvalidConfig)
	}
	for _, ct := range a.ConventionalTypes {
		if _, ok := model.ParseCommitType(string(ct)); !ok {
			return fmt.Errorf("%w: unknown conventional type %q", ErrInvalidConfig, ct)
		}
	}
	if c.Sentiment.BatchSize <= 0 {
		return fmt.Errorf("%w: sentiment batch size must be positive, got %d", ErrInvalidConfig, c.Sentiment.BatchSize)
	}
	return nil
}

// Load reads configuration from an optional YAML file and the environment.
// A missing config file is not an error; defaults apply.
func Load(path string) (Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "crumbs"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	types := make([]string, len(d.Analysis.ConventionalTypes))
	for i, ct := range d.Analysis.ConventionalTypes {
		types[i] = string(ct)
	}

	v.SetDefault("analysis.session_gap", d.Analysis.SessionGap)
	v.SetDefault("analysis.size_thresholds.small", d.Analysis.SizeThresholds.Small)
	v.SetDefault("analysis.size_thresholds.medium", d.Analysis.SizeThresholds.Medium)
	v.SetDefault("analysis.size_thresholds.large", d.Analysis.SizeThresholds.Large)
	v.SetDefault("analysis.conventional_types", types)

	v.SetDefault("sentiment.api_key", "")
	v.SetDefault("sentiment.model", d.Sentiment.Model)
	v.SetDefault("sentiment.base_url", d.Sentiment.BaseURL)
	v.SetDefault("sentiment.batch_size", d.Sentiment.BatchSize)
	v.SetDefault("sentiment.timeout", d.Sentiment.Timeout)

	v.SetDefault("github.token", "")
	v.SetDefault("github.requests_per_second", d.GitHub.RequestsPerSecond)
	v.SetDefault("github.max_workers", d.GitHub.MaxWorkers)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
}

// loadEnvFiles loads .env files from the working directory, most specific first.
// godotenv never overrides variables that are already set.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// applyEnvOverrides honors the unprefixed variables other tools already use
func applyEnvOverrides(cfg *Config) {
	if cfg.Sentiment.APIKey == "" {
		cfg.Sentiment.APIKey = firstEnv("OPENROUTER_API_KEY", "OPENAI_API_KEY")
	}
	if model := os.Getenv("OPENROUTER_MODEL"); model != "" && os.Getenv(EnvPrefix+"_SENTIMENT_MODEL") == "" {
		cfg.Sentiment.Model = model
	}
	if raw := os.Getenv("SENTIMENT_BATCH_SIZE"); raw != "" && os.Getenv(EnvPrefix+"_SENTIMENT_BATCH_SIZE") == "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.Sentiment.BatchSize = n
		}
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
