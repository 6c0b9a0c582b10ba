package domtrack

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
api_key: test-key
model: gemini-2.5-pro
headless: true
stealth: true
history_size: 5
max_steps: 7
trace_path: /tmp/trace.db
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIKey != "test-key" || cfg.Model != ModelGeminiPro {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Headless || !cfg.Stealth {
		t.Error("bool fields not parsed")
	}
	if cfg.HistorySize != 5 || cfg.MaxSteps != 7 {
		t.Errorf("sizes = %d, %d", cfg.HistorySize, cfg.MaxSteps)
	}
	if cfg.NavigationTimeout != 30*time.Second {
		t.Errorf("NavigationTimeout = %v, want default", cfg.NavigationTimeout)
	}
	if cfg.TracePath != "/tmp/trace.db" {
		t.Errorf("TracePath = %q", cfg.TracePath)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_key: k\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Model != ModelGeminiFlash {
		t.Errorf("Model = %q, want default", cfg.Model)
	}
	if cfg.HistorySize != 10 || cfg.MaxSteps != 20 || cfg.MaxChangeElements != 20 {
		t.Errorf("defaults = %d, %d, %d", cfg.HistorySize, cfg.MaxSteps, cfg.MaxChangeElements)
	}
	if cfg.NavigationTimeout != 30*time.Second {
		t.Errorf("NavigationTimeout = %v", cfg.NavigationTimeout)
	}
	if cfg.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
