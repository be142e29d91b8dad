// Package config loads runtime configuration for the notekeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. NOTEKEEPER_URL environment variable.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the server API
//	-t duration   request timeout
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so the timeout can be either a string
// like "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080/api",
//	  "timeout": "10s"
//	}
package config
