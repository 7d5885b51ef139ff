package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/pinvault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key from a zero value, so only the keys present in
// the file override earlier values.
type JsonConfig struct {
	DataDir        *string `json:"data_dir"`
	StateBackend   *string `json:"state_backend"`
	Verifier       *string `json:"verifier"`
	LogLevel       *string `json:"log_level"`
	ResumeUnlocked *bool   `json:"resume_unlocked"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.StateBackend != nil {
		cfg.StateBackend = *jc.StateBackend
	}
	if jc.Verifier != nil {
		cfg.Verifier = *jc.Verifier
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.ResumeUnlocked != nil {
		cfg.ResumeUnlocked = *jc.ResumeUnlocked
	}
	return nil
}
