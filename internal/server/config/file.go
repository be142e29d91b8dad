package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/timex"
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// "1h" strings (and integer nanoseconds in JSON). Unset fields keep the
// value from the previous layer.
type FileConfig struct {
	HTTPAddr       string         `json:"http_addr" toml:"http_addr"`
	GRPCAddr       string         `json:"grpc_addr" toml:"grpc_addr"`
	Storage        string         `json:"storage" toml:"storage"`
	DataDir        string         `json:"data_dir" toml:"data_dir"`
	DatabaseDSN    string         `json:"database_dsn" toml:"database_dsn"`
	MongoURL       string         `json:"mongo_url" toml:"mongo_url"`
	MongoDatabase  string         `json:"mongo_database" toml:"mongo_database"`
	SecretKey      string         `json:"secret_key" toml:"secret_key"`
	TokenValidity  timex.Duration `json:"token_validity" toml:"token_validity"`
	Hasher         string         `json:"hasher" toml:"hasher"`
	BcryptCost     int            `json:"bcrypt_cost" toml:"bcrypt_cost"`
	DuckAPIURL     string         `json:"duck_api_url" toml:"duck_api_url"`
	DuckAPITimeout timex.Duration `json:"duck_api_timeout" toml:"duck_api_timeout"`
	SweepSchedule  *string        `json:"sweep_schedule" toml:"sweep_schedule"`
	LogLevel       string         `json:"log_level" toml:"log_level"`
	S3AccessKey    string         `json:"s3_access_key" toml:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key" toml:"s3_secret_key"`
	S3Bucket       string         `json:"s3_bucket" toml:"s3_bucket"`
	S3Region       string         `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
	S3Prefix       string         `json:"s3_prefix" toml:"s3_prefix"`
}

// parseFile overlays the file named by -c/-config. Files ending in .toml are
// read as TOML, everything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	fc := &FileConfig{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, fc)
	} else {
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func set[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

func (fc *FileConfig) apply(cfg *Config) {
	set(&cfg.HTTPAddr, fc.HTTPAddr)
	set(&cfg.GRPCAddr, fc.GRPCAddr)
	set(&cfg.Storage, fc.Storage)
	set(&cfg.DataDir, fc.DataDir)
	set(&cfg.DatabaseDSN, fc.DatabaseDSN)
	set(&cfg.MongoURL, fc.MongoURL)
	set(&cfg.MongoDatabase, fc.MongoDatabase)
	set(&cfg.SecretKey, fc.SecretKey)
	set(&cfg.TokenValidity, fc.TokenValidity.Duration)
	set(&cfg.Hasher, fc.Hasher)
	set(&cfg.BcryptCost, fc.BcryptCost)
	set(&cfg.DuckAPIURL, fc.DuckAPIURL)
	set(&cfg.DuckAPITimeout, fc.DuckAPITimeout.Duration)
	if fc.SweepSchedule != nil {
		cfg.SweepSchedule = *fc.SweepSchedule
	}
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.S3AccessKey, fc.S3AccessKey)
	set(&cfg.S3SecretKey, fc.S3SecretKey)
	set(&cfg.S3Bucket, fc.S3Bucket)
	set(&cfg.S3Region, fc.S3Region)
	set(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	set(&cfg.S3Prefix, fc.S3Prefix)
}
