package config

import (
	"os"
	"testing"
)

const sampleConfig = `
llm:
  provider: openai
  base_url: https://api.example.com
  api_key: dummy
  model: gpt-4o
  system_prompt: "You are the exchange concierge."
server:
  host: 0.0.0.0
  port: "9090"
history:
  db_path: /tmp/clerk-transcript.db
log:
  level: debug
`

// TestLoad verifies that Load reads the file named by CONFIG_PATH and
// unmarshals every section.
func TestLoad(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %s", cfg.LLM.Model)
	}
	if cfg.LLM.SystemPrompt != "You are the exchange concierge." {
		t.Fatalf("unexpected system prompt: %s", cfg.LLM.SystemPrompt)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.History.DBPath != "/tmp/clerk-transcript.db" {
		t.Fatalf("unexpected history path: %s", cfg.History.DBPath)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
}

// TestLoad_Defaults verifies the defaults applied when a section is absent.
func TestLoad_Defaults(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString("llm:\n  model: gpt-4o\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.LLM.MaxRounds != 8 {
		t.Fatalf("unexpected max_rounds default: %d", cfg.LLM.MaxRounds)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level default: %s", cfg.Log.Level)
	}
}
