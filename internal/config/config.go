package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file name.
const FileName = "revlens.yaml"

// Config represents the top-level revlens.yaml configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Catalog CatalogConfig `yaml:"catalog"`
	Report  ReportConfig  `yaml:"report"`
}

// InputConfig locates the raw sales feed.
type InputConfig struct {
	SalesFile string `yaml:"sales_file"`
}

// OutputConfig locates the generated artifacts.
type OutputConfig struct {
	EnrichedFile string `yaml:"enriched_file"`
	ReportFile   string `yaml:"report_file"`
}

// CatalogConfig points at the remote product catalog service.
type CatalogConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the catalog request timeout as a duration.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReportConfig controls the report rankings. The "TOP N" section
// titles in the report follow these counts.
type ReportConfig struct {
	TopProducts          int `yaml:"top_products"`
	TopCustomers         int `yaml:"top_customers"`
	LowQuantityThreshold int `yaml:"low_quantity_threshold"`
}

// Load reads a revlens.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
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
		Input: InputConfig{
			SalesFile: "data/sales_data.txt",
		},
		Output: OutputConfig{
			EnrichedFile: "data/enriched_sales_data.txt",
			ReportFile:   "output/sales_report.txt",
		},
		Catalog: CatalogConfig{
			URL:            "https://dummyjson.com/products?limit=100",
			TimeoutSeconds: 10,
		},
		Report: ReportConfig{
			TopProducts:          5,
			TopCustomers:         5,
			LowQuantityThreshold: 10,
		},
	}
}
