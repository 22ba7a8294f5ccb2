// Package config loads the service configuration: built-in defaults,
// optionally overlaid by a YAML file, then by environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Kritansh-Tank/AgroInsight/internal/weather"
)

// Server holds the HTTP listener settings.
type Server struct {
	Port int `yaml:"port"`
}

// Database holds the sqlite settings.
type Database struct {
	Path string `yaml:"path"`
}

// Simulation holds the weather simulator settings. A zero Seed means
// non-deterministic entropy.
type Simulation struct {
	Seed    int64                            `yaml:"seed"`
	Regions map[string]weather.RegionParams `yaml:"regions"`
}

// LLM holds the optional Ollama enrichment settings. An empty BaseURL
// disables enrichment.
type LLM struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Config is the full service configuration.
type Config struct {
	Server     Server     `yaml:"server"`
	Database   Database   `yaml:"database"`
	Simulation Simulation `yaml:"simulation"`
	LLM        LLM        `yaml:"llm"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Server:   Server{Port: 8080},
		Database: Database{Path: "data/agroinsight.db"},
		Simulation: Simulation{
			Regions: weather.DefaultRegions(),
		},
		LLM: LLM{Model: "mistral"},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply. A named file that does not
// exist is an error; a present file overrides defaults field by field.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if len(cfg.Simulation.Regions) == 0 {
		cfg.Simulation.Regions = weather.DefaultRegions()
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	return cfg, nil
}

// Environment variables win over file values so deployments can override a
// baked-in config.
func (c *Config) applyEnv() {
	if v := os.Getenv("AGROINSIGHT_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("AGROINSIGHT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("AGROINSIGHT_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Simulation.Seed = seed
		}
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		c.LLM.Model = v
	}
}
