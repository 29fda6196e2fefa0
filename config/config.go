package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	StrategyModel   = "model"
	StrategyKeyword = "keyword"

	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Config struct {
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Model       ModelConfig       `yaml:"model"`
	Demo        DemoConfig        `yaml:"demo"`
	Console     ConsoleConfig     `yaml:"console"`
	Log         LogConfig         `yaml:"log"`
}

type InterpreterConfig struct {
	Strategy string `yaml:"strategy"`
}

// ModelConfig selects the model-backed interpreter. Fallback names the
// strategy used when the model cannot be reached at startup; empty means the
// program refuses to start.
type ModelConfig struct {
	Provider  string `yaml:"provider"`
	Name      string `yaml:"name"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	Timeout   string `yaml:"timeout"`
	MaxTokens int    `yaml:"max_tokens"`
	Fallback  string `yaml:"fallback"`
}

type DemoConfig struct {
	Delay string `yaml:"delay"`
}

type ConsoleConfig struct {
	Prompt string `yaml:"prompt"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Interpreter.Strategy == "" {
		c.Interpreter.Strategy = StrategyModel
	}
	if c.Model.Provider == "" {
		c.Model.Provider = ProviderOllama
	}
	if c.Model.Timeout == "" {
		c.Model.Timeout = "2m"
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = 128
	}
	if c.Demo.Delay == "" {
		c.Demo.Delay = "1s"
	}
	if c.Console.Prompt == "" {
		c.Console.Prompt = "Enter command: "
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) Validate() error {
	switch c.Interpreter.Strategy {
	case StrategyModel, StrategyKeyword:
	default:
		return fmt.Errorf("invalid interpreter.strategy %q (want %s or %s)", c.Interpreter.Strategy, StrategyModel, StrategyKeyword)
	}

	switch c.Model.Provider {
	case ProviderOllama, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("invalid model.provider %q", c.Model.Provider)
	}

	switch c.Model.Fallback {
	case "", StrategyKeyword:
	default:
		return fmt.Errorf("invalid model.fallback %q (want empty or %s)", c.Model.Fallback, StrategyKeyword)
	}

	return nil
}
