// Package config loads runtime configuration for the PinVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   data directory (default "vaultdata")
//	-b string   state backend: sqlite or file
//	-p string   PIN verifier: argon2 or plain
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Every key is optional:
//
//	{
//	  "data_dir": "/home/me/.pinvault",
//	  "state_backend": "sqlite",
//	  "verifier": "argon2",
//	  "log_level": "info",
//	  "resume_unlocked": false
//	}
//
// resume_unlocked has no flag. When true, a session that was unlocked when
// the process stopped comes back unlocked; by default every start is locked.
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
