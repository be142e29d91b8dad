package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-t string   storage: memory, file, s3, postgres, mongo
//	-f string   data directory of the file storage
//	-d string   PostgreSQL DSN
//	-m string   MongoDB URL
//	-s string   JWT HMAC secret key
//	-v duration token validity (e.g., "1h")
//	-u string   duck API base URL
//	-l string   log level
//
// Other arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-t", "-f", "-d", "-m", "-s", "-v", "-u", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP address and port")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC address and port")
	fs.StringVar(&cfg.Storage, "t", cfg.Storage, "storage backend")
	fs.StringVar(&cfg.DataDir, "f", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.MongoURL, "m", cfg.MongoURL, "MongoDB URL")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.DurationVar(&cfg.TokenValidity, "v", cfg.TokenValidity, "token validity")
	fs.StringVar(&cfg.DuckAPIURL, "u", cfg.DuckAPIURL, "duck API base URL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
