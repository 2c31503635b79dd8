package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Data struct {
		Dir              string   `yaml:"dir"`
		ShipmentsFile    string   `yaml:"shipments_file"`
		PharmaciesFile   string   `yaml:"pharmacies_file"`
		DemographicsFile string   `yaml:"demographics_file"`
		States           []string `yaml:"states"`
		Years            []int    `yaml:"years"`
	} `yaml:"data"`
	Report struct {
		TopCounties int `yaml:"top_counties"`
	} `yaml:"report"`
	Watch struct {
		Cron     string `yaml:"cron"`
		Scenario string `yaml:"scenario"`
	} `yaml:"watch"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("DATA_STATES"); v != "" {
		cfg.Data.States = splitList(v)
	}
	if v := os.Getenv("DATA_YEARS"); v != "" {
		years, err := parseYears(v)
		if err != nil {
			return nil, fmt.Errorf("DATA_YEARS: %w", err)
		}
		cfg.Data.Years = years
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("WATCH_SCENARIO"); v != "" {
		cfg.Watch.Scenario = v
	}

	// Defaults
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/econlab.db"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Data.ShipmentsFile == "" {
		cfg.Data.ShipmentsFile = "shipments.csv"
	}
	if cfg.Data.PharmaciesFile == "" {
		cfg.Data.PharmaciesFile = "pharmacies.csv"
	}
	if cfg.Data.DemographicsFile == "" {
		cfg.Data.DemographicsFile = "county_demographics.csv"
	}
	if len(cfg.Data.States) == 0 {
		// Central Appalachian states covered by the shipment study.
		cfg.Data.States = []string{"VA", "WV", "KY", "TN", "NC"}
	}
	if len(cfg.Data.Years) == 0 {
		cfg.Data.Years = []int{2009, 2010, 2011}
	}
	if cfg.Report.TopCounties == 0 {
		cfg.Report.TopCounties = 15
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 0 6 * * 1"
	}
	if cfg.Watch.Scenario == "" {
		cfg.Watch.Scenario = "scenarios/baseline.yaml"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if len(c.Data.States) == 0 {
		return fmt.Errorf("data.states must not be empty")
	}
	if c.Report.TopCounties < 0 {
		return fmt.Errorf("report.top_counties must be non-negative")
	}
	for _, y := range c.Data.Years {
		if y < 1990 || y > 2100 {
			return fmt.Errorf("data.years contains implausible year %d", y)
		}
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseYears(v string) ([]int, error) {
	var years []int
	for _, p := range splitList(v) {
		y, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", p)
		}
		years = append(years, y)
	}
	return years, nil
}
