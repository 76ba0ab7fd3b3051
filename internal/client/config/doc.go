// Package config loads runtime configuration for the resumeai CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string       backend base URL
//	-g string       host:port of the gRPC health service
//	-m string       sign-in method: link or code
//	-l int          free-tier analysis limit
//	-t int          request timeout (seconds)
//	-i int          online status check interval (seconds)
//	-d string       directory for the local database
//	-dev-echo       accept a secret echoed by a development backend
//	-log-format     text, json or zap
//	-log-level      debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "health_addr": "127.0.0.1:50051",
//	  "challenge_variant": "code",
//	  "request_timeout": "90s",
//	  "online_check_interval": "5s"
//	}
package config
