package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-d", "/tmp/vault", "-x", "1"},
			allowed: []string{"-d"},
			want:    []string{"-d", "/tmp/vault"},
		},
		{
			name:    "equals form",
			args:    []string{"-b=file", "-x", "1"},
			allowed: []string{"-b"},
			want:    []string{"-b=file"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-d"},
			want:    []string{},
		},
		{
			name:    "dangling flag kept without value",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-d", "-l", "debug"},
			allowed: []string{"-d", "-l"},
			want:    []string{"-d", "-l", "debug"},
		},
		{
			name:    "order preserved",
			args:    []string{"-l", "info", "-c", "conf.json", "-d", "dir"},
			allowed: []string{"-d", "-l"},
			want:    []string{"-l", "info", "-d", "dir"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-d"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "a.json", ConfigPath([]string{"-c", "a.json", "-d", "x"}))
	assert.Equal(t, "b.json", ConfigPath([]string{"-config=b.json"}))
	assert.Equal(t, "", ConfigPath([]string{"-d", "x"}))
	assert.Equal(t, "", ConfigPath(nil))
}
