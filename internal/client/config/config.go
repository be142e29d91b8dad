package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the notekeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, including the /api prefix.
//   - Timeout: per-request deadline.
type Config struct {
	ServerURL string
	Timeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.Timeout = 10 * time.Second
}

// Load applies defaults, then the JSON file given by -c/-config, then
// NOTEKEEPER_URL, then flags. Later sources take precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args. It panics on invalid configuration.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
