// Package config loads the service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"neowatch/analysis"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "NEOWATCH_CONFIG"

type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Model   ModelConfig   `yaml:"model"`
	Dataset DatasetConfig `yaml:"dataset"`
	Charts  ChartsConfig  `yaml:"charts"`
	Pages   struct {
		IndexPath string `yaml:"index_path"`
		Watch     bool   `yaml:"watch"`
	} `yaml:"pages"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type ModelConfig struct {
	Type             string `yaml:"type"`
	Path             string `yaml:"path"`
	CacheSize        int    `yaml:"cache_size"`
	FailureThreshold int64  `yaml:"failure_threshold"`
	ONNXLibrary      string `yaml:"onnx_library"`
}

type DatasetConfig struct {
	Source string `yaml:"source"` // sample, csv or sqlite
	Path   string `yaml:"path"`
}

type ChartsConfig struct {
	BinEdges   []float64 `yaml:"bin_edges"`
	BinLabels  []string  `yaml:"bin_labels"`
	TimeBucket string    `yaml:"time_bucket"`
}

const (
	SourceSample = "sample"
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Default returns a configuration that serves the built-in sample dataset
// with the bundled decision tree.
func Default() *Config {
	cfg := &Config{}
	cfg.Http.Port = 5000
	cfg.Http.Timeout = 30 * time.Second
	cfg.Http.AllowedOrigins = []string{"*"}
	cfg.Log = LogConfig{Level: "info", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28}
	cfg.Model = ModelConfig{
		Type:             "decision_tree",
		Path:             "models/asteroid_tree.json",
		CacheSize:        1024,
		FailureThreshold: 5,
	}
	cfg.Dataset = DatasetConfig{Source: SourceSample}
	cfg.Charts = ChartsConfig{
		BinEdges:   append([]float64(nil), analysis.DefaultBinEdges...),
		BinLabels:  append([]string(nil), analysis.DefaultBinLabels...),
		TimeBucket: string(analysis.GranularityMonth),
	}
	cfg.Pages.IndexPath = "index.html"
	cfg.Pages.Watch = true
	return cfg
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Locate finds the config file: $NEOWATCH_CONFIG, then config.yaml, then
// ../config.yaml so the binary also works when run from cmd/.
func Locate() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	path := "config.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return filepath.Join("..", "config.yaml")
	}
	return path
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	if c.Http.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if c.Model.Path == "" {
		return errors.New("model.path is required")
	}
	switch c.Dataset.Source {
	case SourceSample:
	case SourceCSV, SourceSQLite:
		if c.Dataset.Path == "" {
			return fmt.Errorf("dataset.path is required for source %q", c.Dataset.Source)
		}
	default:
		return fmt.Errorf("unknown dataset.source %q", c.Dataset.Source)
	}
	if _, err := c.Bins(); err != nil {
		return err
	}
	if _, err := c.Granularity(); err != nil {
		return err
	}
	return nil
}

// Bins builds the configured size partition.
func (c *Config) Bins() (analysis.Bins, error) {
	return analysis.NewBins(c.Charts.BinEdges, c.Charts.BinLabels)
}

// Granularity returns the configured time bucket.
func (c *Config) Granularity() (analysis.Granularity, error) {
	return analysis.ParseGranularity(c.Charts.TimeBucket)
}
