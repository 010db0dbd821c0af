package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Modes the assistant can run in. Simple mode is a one-shot rewrite;
// agent mode keeps history and may open a clarification dialog.
const (
	ModeSimple = "simple"
	ModeAgent  = "agent"
)

// TemperatureSteps are the sampling temperatures selectable in settings.
var TemperatureSteps = []float64{0.3, 0.4, 0.5, 0.6, 0.7}

const DefaultTemperature = 0.4

type Config struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url,omitempty"`

	Mode        string  `yaml:"mode"`
	Temperature float64 `yaml:"temperature"`

	Preferences Preferences `yaml:"preferences,omitempty"`
}

// Preferences shape the refined prompts toward how the user works.
type Preferences struct {
	Style  string   `yaml:"style,omitempty"`
	Goals  []string `yaml:"goals,omitempty"`
	Format string   `yaml:"format,omitempty"`
}

func (p Preferences) Empty() bool {
	return p.Style == "" && len(p.Goals) == 0 && p.Format == ""
}

func DefaultConfig() *Config {
	return &Config{
		Provider:    "ollama",
		Model:       "llama3.1:8b",
		Mode:        ModeAgent,
		Temperature: DefaultTemperature,
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "forge"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeAgent
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
}

// applyEnv lets an environment variable (possibly from a .env file next to
// the working directory) override the stored API key, so keys can stay out
// of the config file entirely.
func (c *Config) applyEnv() {
	_ = godotenv.Load()
	if p := GetProvider(c.Provider); p != nil && p.EnvKey != "" {
		if key := os.Getenv(p.EnvKey); key != "" {
			c.APIKey = key
		}
	}
}

func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
