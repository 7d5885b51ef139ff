package config

import (
	"testing"

	"github.com/dmitrijs2005/pinvault/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{DataDir: "vaultdata", StateBackend: "sqlite", Verifier: "argon2", LogLevel: "warn"}
	assert.Empty(t, cmp.Diff(want, c))
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"data_dir":        "/from/json",
		"state_backend":   "file",
		"resume_unlocked": true,
	})

	cfg, err := LoadConfig([]string{"-c", path, "-d", "/from/flag", "-p", "plain"})
	require.NoError(t, err)

	want := &Config{
		DataDir:        "/from/flag",
		StateBackend:   "file",
		Verifier:       "plain",
		LogLevel:       "warn",
		ResumeUnlocked: true,
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig([]string{"-b", "postgres"})
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = LoadConfig([]string{"-p", "md5"})
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = LoadConfig([]string{"-d", " "})
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = LoadConfig([]string{"-c", "/does/not/exist.json"})
	require.Error(t, err)
}

func TestStatePath(t *testing.T) {
	c := Config{DataDir: "/data", StateBackend: BackendSQLite}
	assert.Equal(t, "/data/state.db", c.StatePath())

	c.StateBackend = BackendFile
	assert.Equal(t, "/data/state", c.StatePath())
}
