package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvLookup resolves variables from the process environment first and
// then from the dotenv file at path. A missing file is ignored.
func DotEnvLookup(path string) func(string) (string, bool) {
	file, err := godotenv.Read(path)
	if err != nil {
		file = map[string]string{}
	}
	return func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		v, ok := file[name]
		return v, ok
	}
}

func firstEnv(lookup func(string) (string, bool), names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := lookup(n); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// parseEnv overlays environment variables. PORT sets the HTTP port only.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}

	str := func(dst *string, names ...string) {
		if v, ok := firstEnv(lookup, names...); ok {
			*dst = v
		}
	}

	if port, ok := firstEnv(lookup, "PORT"); ok {
		cfg.HTTPAddr = ":" + port
	}
	str(&cfg.GRPCAddr, "GRPC_ADDR")
	str(&cfg.Storage, "STORAGE")
	str(&cfg.DataDir, "DATA_DIR")
	str(&cfg.DatabaseDSN, "DATABASE_DSN")
	str(&cfg.MongoURL, "MONGO_URL", "MONGODB_URL")
	str(&cfg.MongoDatabase, "MONGO_DATABASE")
	str(&cfg.SecretKey, "JWT_SECRET")
	str(&cfg.Hasher, "PASSWORD_HASHER")
	str(&cfg.DuckAPIURL, "DUCK_API_URL")
	str(&cfg.LogLevel, "LOG_LEVEL")
	str(&cfg.S3AccessKey, "AWS_ACCESS_KEY_ID")
	str(&cfg.S3SecretKey, "AWS_SECRET_ACCESS_KEY")
	str(&cfg.S3Bucket, "S3_BUCKET")
	str(&cfg.S3Region, "AWS_REGION")
	str(&cfg.S3BaseEndpoint, "S3_ENDPOINT")

	if v, ok := lookup("SWEEP_SCHEDULE"); ok {
		cfg.SweepSchedule = v
	}
	if v, ok := firstEnv(lookup, "TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenValidity = d
		}
	}
	if v, ok := firstEnv(lookup, "BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BcryptCost = n
		}
	}
}
