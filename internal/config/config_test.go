package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MUNDAP_CONFIG", "MUNDAP_DB", "MUNDAP_LOG",
		"MUNDAP_LLM_PROVIDER",
		"MUNDAP_ANTHROPIC_API_KEY", "MUNDAP_ANTHROPIC_MODEL",
		"MUNDAP_OPENAI_API_KEY", "MUNDAP_OPENAI_MODEL", "MUNDAP_OPENAI_BASE_URL",
		"MUNDAP_GEMINI_API_KEY", "MUNDAP_GEMINI_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Evaluate.QAOnTopic != 0.05 {
		t.Errorf("QAOnTopic = %v, want default 0.05", cfg.Evaluate.QAOnTopic)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", cfg.LLM.Provider)
	}
	if cfg.Analyzer.MaxNodes != 8 {
		t.Errorf("MaxNodes = %d, want 8", cfg.Analyzer.MaxNodes)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db_path: /tmp/other.db
evaluate:
  qa_on_topic: 0.12
analyzer:
  max_nodes: 5
llm:
  provider: openai
  openai:
    api_key: sk-file
  timeout: 45s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Evaluate.QAOnTopic != 0.12 {
		t.Errorf("QAOnTopic = %v", cfg.Evaluate.QAOnTopic)
	}
	// Untouched keys keep their defaults.
	if cfg.Evaluate.LinkGrounding != 0.30 {
		t.Errorf("LinkGrounding = %v, want default 0.30", cfg.Evaluate.LinkGrounding)
	}
	if cfg.Analyzer.MaxNodes != 5 {
		t.Errorf("MaxNodes = %d", cfg.Analyzer.MaxNodes)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.OpenAI.APIKey != "sk-file" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", cfg.LLM.Timeout)
	}
	if cfg.LLM.Retry.MaxAttempts != 3 {
		t.Errorf("Retry.MaxAttempts = %d, want default 3", cfg.LLM.Retry.MaxAttempts)
	}
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  provider: openai
  openai:
    api_key: sk-file
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MUNDAP_LLM_PROVIDER", "gemini")
	t.Setenv("MUNDAP_GEMINI_API_KEY", "gk-env")
	t.Setenv("MUNDAP_DB", "/tmp/env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini", cfg.LLM.Provider)
	}
	if cfg.LLM.Gemini.APIKey != "gk-env" {
		t.Errorf("Gemini.APIKey = %q", cfg.LLM.Gemini.APIKey)
	}
	// File values not shadowed by env survive.
	if cfg.LLM.OpenAI.APIKey != "sk-file" {
		t.Errorf("OpenAI.APIKey = %q", cfg.LLM.OpenAI.APIKey)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("::not yaml::"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPackageConfigConversions(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Analyzer.MaxNodes = 6
	cfg.Questgen.Seed = 99
	cfg.Evaluate.QAOnTopic = 0.2

	an := cfg.AnalyzerPackageConfig()
	if an.MaxNodes != 6 {
		t.Errorf("MaxNodes = %d", an.MaxNodes)
	}
	if len(an.Rules) == 0 {
		t.Error("rule cascade dropped in conversion")
	}
	qg := cfg.QuestgenPackageConfig()
	if qg.Seed != 99 {
		t.Errorf("Seed = %d", qg.Seed)
	}
	ev := cfg.EvaluatePackageConfig()
	if ev.Thresholds.QAOnTopic != 0.2 {
		t.Errorf("QAOnTopic = %v", ev.Thresholds.QAOnTopic)
	}
	if ev.Thresholds.MinAnswerRunes != 20 {
		t.Errorf("MinAnswerRunes = %d, want default 20", ev.Thresholds.MinAnswerRunes)
	}
}

func TestDefaultConfigPathEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("MUNDAP_CONFIG", "/tmp/mundap.yaml")
	p, err := DefaultConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != "/tmp/mundap.yaml" {
		t.Errorf("path = %q", p)
	}
}
