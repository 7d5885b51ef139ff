package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/pinvault/internal/common"
	"github.com/dmitrijs2005/pinvault/internal/cryptox"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds runtime settings for the PinVault CLI.
//
// Fields:
//   - DataDir: base directory for the state store and the vault directory.
//   - StateBackend: "sqlite" or "file".
//   - Verifier: how the PIN is stored, "argon2" or "plain".
//   - LogLevel: debug, info, warn or error.
//   - ResumeUnlocked: restore a persisted unlocked session on start-up.
type Config struct {
	DataDir        string
	StateBackend   string
	Verifier       string
	LogLevel       string
	ResumeUnlocked bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "vaultdata"
	c.StateBackend = BackendSQLite
	c.Verifier = cryptox.NameArgon2
	c.LogLevel = "warn"
	c.ResumeUnlocked = false
}

// Validate rejects values the application cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: empty data directory", common.ErrInvalidArgument)
	}
	switch c.StateBackend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("%w: unknown state backend %q", common.ErrInvalidArgument, c.StateBackend)
	}
	if _, err := cryptox.ByName(c.Verifier); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	return nil
}

// StatePath is where the state store lives: a database file for the sqlite
// backend, a directory for the file backend.
func (c *Config) StatePath() string {
	if c.StateBackend == BackendFile {
		return filepath.Join(c.DataDir, "state")
	}
	return filepath.Join(c.DataDir, "state.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
