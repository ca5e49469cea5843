package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/sentparse/internal/model"
	"github.com/joho/godotenv"
)

// Parser back ends.
const (
	BackendTreebank = "treebank"
	BackendCoreNLP  = "corenlp"
)

// Output formats understood by the renderers.
var OutputFormats = []string{"text", "json", "yaml", "conll"}

type Config struct {
	// Parser model
	Backend     string
	ModelPath   string
	ParserFlags []string

	// CoreNLP server
	CoreNLPURL     string
	CoreNLPRPS     float64
	CoreNLPTimeout time.Duration

	// Segmentation and filtering
	Segmenter        string
	PunktTraining    string
	MaxSentenceWords int

	// Parse pool
	WorkerCount     int
	SentenceTimeout time.Duration

	// Output
	OutputFormat string
	InputFile    string
	LogLevel     string

	// HTTP server
	Port           string
	APIKey         string
	JobWorkers     int
	MaxQueueSize   int
	MaxUploadBytes int64
	JobTTL         time.Duration
	StatsWindow    time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists. Variables already set win over
// the file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Backend:     envOr("PARSER_BACKEND", BackendTreebank),
		ModelPath:   os.Getenv("MODEL_PATH"),
		ParserFlags: model.DefaultFlags,

		CoreNLPURL:     envOr("CORENLP_URL", "http://localhost:9000"),
		CoreNLPRPS:     envFloat("CORENLP_RPS", 0),
		CoreNLPTimeout: envDuration("CORENLP_TIMEOUT", 2*time.Minute),

		Segmenter:        envOr("SEGMENTER", "ptb"),
		PunktTraining:    os.Getenv("PUNKT_TRAINING"),
		MaxSentenceWords: envInt("MAX_SENTENCE_WORDS", 30),

		WorkerCount:     envInt("WORKER_COUNT", runtime.NumCPU()),
		SentenceTimeout: envDuration("SENTENCE_TIMEOUT", 30*time.Second),

		OutputFormat: envOr("OUTPUT_FORMAT", "text"),
		InputFile:    os.Getenv("INPUT_FILE"),
		LogLevel:     envOr("LOG_LEVEL", "info"),

		Port:           envOr("PORT", "8091"),
		APIKey:         os.Getenv("SENTPARSE_API_KEY"),
		JobWorkers:     envInt("JOB_WORKERS", 2),
		MaxQueueSize:   envInt("MAX_QUEUE_SIZE", 100),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB
		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow:    envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}
	if v := os.Getenv("PARSER_FLAGS"); v != "" {
		cfg.ParserFlags = strings.Fields(v)
	}

	if cfg.MaxSentenceWords <= 0 {
		cfg.MaxSentenceWords = 30
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = runtime.NumCPU()
	}
	if cfg.SentenceTimeout <= 0 {
		cfg.SentenceTimeout = 30 * time.Second
	}
	if cfg.JobWorkers <= 0 {
		cfg.JobWorkers = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

// Validate checks the settings shared by the CLI and the server.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendTreebank:
	case BackendCoreNLP:
		if c.CoreNLPURL == "" {
			return fmt.Errorf("CORENLP_URL is required for the corenlp backend")
		}
	default:
		return fmt.Errorf("PARSER_BACKEND must be %q or %q, got %q", BackendTreebank, BackendCoreNLP, c.Backend)
	}
	if c.Segmenter != "ptb" && c.Segmenter != "punkt" {
		return fmt.Errorf("SEGMENTER must be \"ptb\" or \"punkt\", got %q", c.Segmenter)
	}
	if !validFormat(c.OutputFormat) {
		return fmt.Errorf("OUTPUT_FORMAT must be one of %s, got %q", strings.Join(OutputFormats, ", "), c.OutputFormat)
	}
	if _, err := c.ParserOptions(); err != nil {
		return fmt.Errorf("PARSER_FLAGS: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// ValidateServer additionally checks the HTTP server settings.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("SENTPARSE_API_KEY is required")
	}
	return nil
}

// ParserOptions parses ParserFlags.
func (c Config) ParserOptions() (model.Options, error) {
	return model.ParseFlags(c.ParserFlags)
}

// SlogLevel maps LogLevel onto a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

func validFormat(f string) bool {
	for _, o := range OutputFormats {
		if o == f {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
