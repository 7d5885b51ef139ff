package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/pinvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory
//	-b string   state backend: sqlite or file
//	-p string   PIN verifier: argon2 or plain
//	-l string   log level
//
// Only the flags listed above are taken from args (see flagx.FilterArgs), so
// -c/-config and anything else are left to other parsers.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-b", "-p", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.StateBackend, "b", cfg.StateBackend, "state backend (sqlite|file)")
	fs.StringVar(&cfg.Verifier, "p", cfg.Verifier, "PIN verifier (argon2|plain)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
