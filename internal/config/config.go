// Package config reads the bill-splitter settings from flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
)

// EnvVarPrefix is prepended to every flag name to form its environment variable
const EnvVarPrefix = "BILL_SPLITTER"

var (
	// ErrMissingCredential is returned when the Gemini scanner has no API key
	ErrMissingCredential = errors.New("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
	// ErrInvalidScanner is returned for a scanner name other than gemini or ollama
	ErrInvalidScanner = errors.New("scanner must be 'gemini' or 'ollama'")
)

// Scanner backends
const (
	ScannerGemini = "gemini"
	ScannerOllama = "ollama"
)

// Config holds the resolved settings
type Config struct {
	Port          int
	Scanner       string
	GeminiKey     string
	GeminiModel   string
	OllamaURL     string
	OllamaModel   string
	MaxModelCalls int
	ModelTimeout  time.Duration
	LogLevel      string
	ShowVersion   bool
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LoadEnvFile copies the variables in path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load parses args and the BILL_SPLITTER_ environment. The flag set is
// returned for help output even when parsing fails.
func Load(args []string) (*Config, *ff.FlagSet, error) {
	fs := ff.NewFlagSet("bill-splitter")
	var (
		port          = fs.IntLong("port", 8000, "HTTP server port")
		scannerType   = fs.StringLong("scanner", ScannerGemini, "Scanner type: 'gemini' or 'ollama'")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, bakllava, qwen2-vl)")
		maxModelCalls = fs.IntLong("max-model-calls", 4, "Maximum concurrent model calls")
		modelTimeout  = fs.DurationLong("model-timeout", 0, "Timeout for a single model call (0 means none)")
		logLevel      = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix(EnvVarPrefix),
	); err != nil {
		return nil, fs, err
	}

	cfg := &Config{
		Port:          *port,
		Scanner:       *scannerType,
		GeminiKey:     *geminiKey,
		GeminiModel:   *geminiModel,
		OllamaURL:     *ollamaURL,
		OllamaModel:   *ollamaModel,
		MaxModelCalls: *maxModelCalls,
		ModelTimeout:  *modelTimeout,
		LogLevel:      *logLevel,
		ShowVersion:   *showVersion,
	}
	if cfg.ShowVersion {
		return cfg, fs, nil
	}

	// Get Gemini API key from flag or environment
	if cfg.GeminiKey == "" {
		cfg.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, fs, err
	}
	return cfg, fs, nil
}

func (c *Config) validate() error {
	switch c.Scanner {
	case ScannerGemini:
		if c.GeminiKey == "" {
			return ErrMissingCredential
		}
	case ScannerOllama:
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidScanner, c.Scanner)
	}
	if c.MaxModelCalls < 1 {
		return fmt.Errorf("max-model-calls must be at least 1, got %d", c.MaxModelCalls)
	}
	if c.ModelTimeout < 0 {
		return fmt.Errorf("model-timeout must not be negative, got %s", c.ModelTimeout)
	}
	return nil
}
