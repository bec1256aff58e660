package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file.
const FileName = "dcmtrack.yaml"

// Config represents the top-level dcmtrack.yaml configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Ledger LedgerConfig `yaml:"ledger"`
	Report ReportConfig `yaml:"report"`
	Log    LogConfig    `yaml:"log"`
}

// SourceConfig locates the CVM snapshot.
type SourceConfig struct {
	URL        string `yaml:"url"`
	FilterYear int    `yaml:"filter_year"` // 0 = no filter
}

// LedgerConfig locates the persisted ledger.
type LedgerConfig struct {
	Dir string `yaml:"dir"`
}

// ReportConfig controls the closed-offerings summary.
type ReportConfig struct {
	WindowDays int `yaml:"window_days"`
}

// LogConfig sets logging defaults; flags override.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a dcmtrack.yaml file, then applies environment
// overrides. A .env file in the working directory is honored when
// present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	_ = godotenv.Load() // missing .env is fine
	cfg.applyEnv()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DCMTRACK_SOURCE_URL"); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv("DCMTRACK_LEDGER_DIR"); v != "" {
		c.Ledger.Dir = v
	}
	if v := os.Getenv("DCMTRACK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL: "https://dados.cvm.gov.br/dados/OFERTA/DISTRIB/DADOS/oferta_resolucao_160.csv",
		},
		Ledger: LedgerConfig{
			Dir: "data",
		},
		Report: ReportConfig{
			WindowDays: 7,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
