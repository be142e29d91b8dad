// Package config handles configuration for the server component:
// defaults, then a JSON or TOML file, then the environment (and .env), then
// command-line flags.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/ducks"
)

// Config holds runtime settings for the notekeeper server.
//
// Storage selects the repository backend: memory, file, s3, postgres or
// mongo. SweepSchedule is a cron spec; empty disables the orphan sweep.
type Config struct {
	HTTPAddr      string
	GRPCAddr      string
	Storage       string
	DataDir       string
	DatabaseDSN   string
	MongoURL      string
	MongoDatabase string

	SecretKey     string
	TokenValidity time.Duration
	Hasher        string
	BcryptCost    int

	DuckAPIURL     string
	DuckAPITimeout time.Duration

	SweepSchedule string
	LogLevel      string

	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3Prefix       string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.Storage = "memory"
	c.DataDir = "data"
	c.MongoDatabase = "notekeeper"
	c.SecretKey = "secretKey"
	c.TokenValidity = time.Hour
	c.Hasher = "bcrypt"
	c.BcryptCost = 10
	c.DuckAPIURL = ducks.DefaultBaseURL
	c.DuckAPITimeout = 10 * time.Second
	c.SweepSchedule = "@every 1h"
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// Load builds a Config from args (without the program name) and lookup,
// which resolves environment variables.
func Load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg, lookup)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads the process arguments, the environment and ./.env.
// It panics when the configuration cannot be loaded.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:], DotEnvLookup(".env"))
	if err != nil {
		panic(err)
	}
	return cfg
}
