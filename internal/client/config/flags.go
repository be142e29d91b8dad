package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     base URL of the server API
//	-t duration   request timeout (e.g., "5s")
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server API URL")
	fs.DurationVar(&cfg.Timeout, "t", cfg.Timeout, "request timeout")

	return fs.Parse(args)
}
