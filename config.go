package domtrack

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Model identifiers known to work well for action translation.
const (
	ModelGeminiFlash = "gemini-2.5-flash"
	ModelGeminiPro   = "gemini-2.5-pro"
)

// Config configures an Agent.
type Config struct {
	// APIKey authenticates against the Gemini API. Leave empty to run
	// without a translator (capture and manual actions still work).
	APIKey string `yaml:"api_key"`

	// Model selects the translation model. Defaults to ModelGeminiFlash.
	Model string `yaml:"model"`

	// ControlURL connects to an existing browser instead of launching one.
	ControlURL string `yaml:"control_url"`

	Headless bool `yaml:"headless"`
	Stealth  bool `yaml:"stealth"`

	// HistorySize is how many captures the rolling history retains.
	// Defaults to 10.
	HistorySize int `yaml:"history_size"`

	// MaxSteps bounds a Run loop. Defaults to 20.
	MaxSteps int `yaml:"max_steps"`

	// MaxChangeElements truncates each list in the change summary.
	// Defaults to 20.
	MaxChangeElements int `yaml:"max_change_elements"`

	NavigationTimeout time.Duration `yaml:"navigation_timeout"`

	// TracePath enables SQLite trace recording when set.
	TracePath string `yaml:"trace_path"`

	Debug bool `yaml:"debug"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = ModelGeminiFlash
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 10
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = 20
	}
	if c.MaxChangeElements <= 0 {
		c.MaxChangeElements = 20
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		level := slog.LevelInfo
		if c.Debug {
			level = slog.LevelDebug
		}
		c.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
}

// LoadConfig reads a YAML config file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}
