package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 0 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if !cfg.Audit.Enabled || cfg.Audit.Path != "spexgen_audit.db" {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spexgen.yaml")
	content := "server:\n  port: 9090\nllm:\n  provider: gemini\n  model: gemini-2.0-flash\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("Provider = %q", cfg.LLM.Provider)
	}
	// Unset keys keep their defaults.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q", cfg.Server.Host)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spexgen.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded with malformed YAML")
	}
}

func TestLoad_EnvAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env override", cfg.LLM.APIKey)
	}
}

func TestLoad_FileAPIKeyWinsOverEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "spexgen.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  api_key: file-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want file value", cfg.LLM.APIKey)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spexgen.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 8123
	cfg.Templates.Dir = "/opt/templates"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.Port != 8123 || loaded.Templates.Dir != "/opt/templates" {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestTimeoutDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"2m", 2 * time.Minute},
		{"", 2 * time.Minute},
		{"garbage", 2 * time.Minute},
		{"-5s", 2 * time.Minute},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.LLM.Timeout = tt.raw
		if got := cfg.TimeoutDuration(); got != tt.want {
			t.Errorf("TimeoutDuration(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
