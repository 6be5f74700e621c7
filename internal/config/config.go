// Package config loads the application configuration: built-in defaults,
// overlaid by an optional YAML file, overlaid by MUNDAP_* environment
// variables. Zero values in the file mean "keep the default".
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/haneol/mundap/internal/analyzer"
	"github.com/haneol/mundap/internal/evaluate"
	"github.com/haneol/mundap/internal/llm"
	"github.com/haneol/mundap/internal/questgen"
)

// Config is the file-backed application configuration.
type Config struct {
	DBPath  string `yaml:"db_path"`
	LogPath string `yaml:"log_path"`
	Verbose bool   `yaml:"verbose"`

	Analyzer AnalyzerConfig      `yaml:"analyzer"`
	Questgen QuestgenConfig      `yaml:"questgen"`
	Evaluate evaluate.Thresholds `yaml:"evaluate"`
	LLM      llm.Config          `yaml:"llm"`
}

// AnalyzerConfig exposes the tunable extraction knobs. The rule cascade
// itself is code, not configuration.
type AnalyzerConfig struct {
	MinNodes           int `yaml:"min_nodes"`
	MaxNodes           int `yaml:"max_nodes"`
	ShortSentenceRunes int `yaml:"short_sentence_runes"`
}

// QuestgenConfig exposes the question generator knobs.
type QuestgenConfig struct {
	Seed            uint64 `yaml:"seed"`
	SnippetMaxRunes int    `yaml:"snippet_max_runes"`
}

// Default returns the configuration assembled from each package's defaults.
func Default() Config {
	an := analyzer.DefaultConfig()
	qg := questgen.DefaultConfig()
	return Config{
		Analyzer: AnalyzerConfig{
			MinNodes:           an.MinNodes,
			MaxNodes:           an.MaxNodes,
			ShortSentenceRunes: an.ShortSentenceRunes,
		},
		Questgen: QuestgenConfig{
			Seed:            qg.Seed,
			SnippetMaxRunes: qg.SnippetMaxRunes,
		},
		Evaluate: evaluate.DefaultConfig().Thresholds,
		LLM:      llm.DefaultConfig(),
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path uses DefaultConfigPath; a missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file, defaults stand.
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets MUNDAP_* variables win over the file.
func (c *Config) applyEnv() {
	if p := os.Getenv("MUNDAP_DB"); p != "" {
		c.DBPath = p
	}
	if p := os.Getenv("MUNDAP_LOG"); p != "" {
		c.LogPath = p
	}
	fileLLM := c.LLM
	envLLM := llm.ConfigFromEnv()

	if os.Getenv("MUNDAP_LLM_PROVIDER") != "" {
		fileLLM.Provider = envLLM.Provider
	}
	if os.Getenv("MUNDAP_ANTHROPIC_API_KEY") != "" {
		fileLLM.Anthropic.APIKey = envLLM.Anthropic.APIKey
	}
	if os.Getenv("MUNDAP_ANTHROPIC_MODEL") != "" {
		fileLLM.Anthropic.Model = envLLM.Anthropic.Model
	}
	if os.Getenv("MUNDAP_OPENAI_API_KEY") != "" {
		fileLLM.OpenAI.APIKey = envLLM.OpenAI.APIKey
	}
	if os.Getenv("MUNDAP_OPENAI_MODEL") != "" {
		fileLLM.OpenAI.Model = envLLM.OpenAI.Model
	}
	if os.Getenv("MUNDAP_OPENAI_BASE_URL") != "" {
		fileLLM.OpenAI.BaseURL = envLLM.OpenAI.BaseURL
	}
	if os.Getenv("MUNDAP_GEMINI_API_KEY") != "" {
		fileLLM.Gemini.APIKey = envLLM.Gemini.APIKey
	}
	if os.Getenv("MUNDAP_GEMINI_MODEL") != "" {
		fileLLM.Gemini.Model = envLLM.Gemini.Model
	}
	c.LLM = fileLLM
}

// AnalyzerPackageConfig converts to the analyzer package's config, keeping
// the built-in rule cascade.
func (c Config) AnalyzerPackageConfig() analyzer.Config {
	cfg := analyzer.DefaultConfig()
	if c.Analyzer.MinNodes > 0 {
		cfg.MinNodes = c.Analyzer.MinNodes
	}
	if c.Analyzer.MaxNodes > 0 {
		cfg.MaxNodes = c.Analyzer.MaxNodes
	}
	if c.Analyzer.ShortSentenceRunes > 0 {
		cfg.ShortSentenceRunes = c.Analyzer.ShortSentenceRunes
	}
	return cfg
}

// QuestgenPackageConfig converts to the questgen package's config.
func (c Config) QuestgenPackageConfig() questgen.Config {
	cfg := questgen.DefaultConfig()
	if c.Questgen.Seed != 0 {
		cfg.Seed = c.Questgen.Seed
	}
	if c.Questgen.SnippetMaxRunes > 0 {
		cfg.SnippetMaxRunes = c.Questgen.SnippetMaxRunes
	}
	return cfg
}

// EvaluatePackageConfig converts to the evaluate package's config.
func (c Config) EvaluatePackageConfig() evaluate.Config {
	cfg := evaluate.DefaultConfig()
	th := c.Evaluate
	if th.QAOnTopic > 0 {
		cfg.Thresholds.QAOnTopic = th.QAOnTopic
	}
	if th.LinkGrounding > 0 {
		cfg.Thresholds.LinkGrounding = th.LinkGrounding
	}
	if th.MinAnswerRunes > 0 {
		cfg.Thresholds.MinAnswerRunes = th.MinAnswerRunes
	}
	if th.MinAnswerTokens > 0 {
		cfg.Thresholds.MinAnswerTokens = th.MinAnswerTokens
	}
	return cfg
}

// DefaultConfigPath resolves the config file path in priority order:
// 1. MUNDAP_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/mundap/config.yaml
// 3. ~/.config/mundap/config.yaml
func DefaultConfigPath() (string, error) {
	if p := os.Getenv("MUNDAP_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mundap", "config.yaml"), nil
}
