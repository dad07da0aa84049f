package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI     AIConfig     `yaml:"ai" validate:"required"`
	Limits Limits       `yaml:"limits" validate:"required"`
	Output OutputConfig `yaml:"output"`
}

type AIConfig struct {
	APIKey      string `yaml:"api_key" validate:"required,min=20"`
	BaseURL     string `yaml:"base_url" validate:"required,url"`
	BeastModel  string `yaml:"beast_model" validate:"required"`
	StableModel string `yaml:"stable_model" validate:"required"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when no config file exists.
// The API key still has to come from the environment.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			BaseURL:     "https://api.anthropic.com/v1",
			BeastModel:  "claude-3-opus-20240229",
			StableModel: "claude-3-5-sonnet-20241022",
		},
		Limits: DefaultLimits(),
		Output: OutputConfig{Dir: defaultOutputDir()},
	}
}

// Load reads the YAML config (if present), layers in environment
// variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	configPath := getConfigPath()
	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if cfg.AI.APIKey == "" || cfg.AI.APIKey == "${SHOWRUNNER_API_KEY}" {
		cfg.AI.APIKey = apiKeyFromEnv()
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir()
	}
	if cfg.Limits.MaxConcurrentEngines == 0 {
		cfg.Limits = DefaultLimits()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration with structured validation rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func apiKeyFromEnv() string {
	for _, name := range []string{"SHOWRUNNER_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

func getConfigPath() string {
	if path := os.Getenv("SHOWRUNNER_CONFIG"); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "showrunner", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "showrunner", "config.yaml")
}

func defaultOutputDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "showrunner", "runs")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "showrunner", "runs")
}
