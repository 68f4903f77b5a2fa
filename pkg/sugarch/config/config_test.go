package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v4ner/sugarch-utilities/pkg/sugarch/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.NotNil(t, cfg.Raw())
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal string
		want       string
	}{
		{"key exists", map[string]any{"version": "R114"}, "version", "default", "R114"},
		{"key missing", map[string]any{"other": "x"}, "version", "default", "default"},
		{"empty string", map[string]any{"version": ""}, "version", "default", ""},
		{"wrong type", map[string]any{"version": 114}, "version", "default", "default"},
		{"nil map", nil, "version", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.String(tt.key, tt.defaultVal))
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal int
		want       int
	}{
		{"int", map[string]any{"n": 5}, "n", 1, 5},
		{"int64", map[string]any{"n": int64(7)}, "n", 1, 7},
		{"json float", map[string]any{"n": float64(9)}, "n", 1, 9},
		{"fractional float", map[string]any{"n": 9.5}, "n", 1, 1},
		{"missing", map[string]any{}, "n", 1, 1},
		{"wrong type", map[string]any{"n": "five"}, "n", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.Int(tt.key, tt.defaultVal))
		})
	}
}

func TestUint32(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal uint32
		want       uint32
	}{
		{"int", map[string]any{"member": 1001}, "member", 0, 1001},
		{"json float", map[string]any{"member": float64(1001)}, "member", 0, 1001},
		{"negative", map[string]any{"member": -1}, "member", 7, 7},
		{"missing", map[string]any{}, "member", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.Uint32(tt.key, tt.defaultVal))
		})
	}
}

func TestBool(t *testing.T) {
	cfg := config.New(map[string]any{"enabled": true, "str": "true"})
	assert.True(t, cfg.Bool("enabled", false))
	assert.False(t, cfg.Bool("missing", false))
	assert.False(t, cfg.Bool("str", false), "string value must not convert")
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"duration string", map[string]any{"d": "250ms"}, "d", time.Second, 250 * time.Millisecond},
		{"bad string", map[string]any{"d": "soon"}, "d", time.Second, time.Second},
		{"int seconds", map[string]any{"d": 3}, "d", time.Second, 3 * time.Second},
		{"float seconds", map[string]any{"d": 1.5}, "d", time.Second, 1500 * time.Millisecond},
		{"missing", map[string]any{}, "d", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.Duration(tt.key, tt.defaultVal))
		})
	}
}

func TestHas(t *testing.T) {
	cfg := config.New(map[string]any{"key": nil})
	assert.True(t, cfg.Has("key"), "nil value still counts as present")
	assert.False(t, cfg.Has("missing"))
}

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte("version: R114\npoll_interval: 250ms\nobserver: 1001\n"))
	require.NoError(t, err)
	assert.Equal(t, "R114", cfg.String("version", ""))
	assert.Equal(t, 250*time.Millisecond, cfg.Duration("poll_interval", 0))
	assert.Equal(t, uint32(1001), cfg.Uint32("observer", 0))
}

func TestFromYAMLInvalid(t *testing.T) {
	_, err := config.FromYAML([]byte("{{not yaml"))
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"version": "R114", "observer": 1001}`))
	require.NoError(t, err)
	assert.Equal(t, "R114", cfg.String("version", ""))
	assert.Equal(t, uint32(1001), cfg.Uint32("observer", 0))
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := config.FromJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("version: R114\n"), 0o644))

	jsonPath := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"version": "R115"}`), 0o644))

	txtPath := filepath.Join(dir, "cfg.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("whatever"), 0o644))

	cfg, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "R114", cfg.String("version", ""))

	cfg, err = config.FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "R115", cfg.String("version", ""))

	_, err = config.FromFile(txtPath)
	assert.ErrorContains(t, err, "unsupported config file extension")

	_, err = config.FromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	type settings struct {
		PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"100ms"`
		Version      string        `env:"VERSION" envDefault:"R114"`
	}

	t.Setenv("SUGARCH_POLL_INTERVAL", "2s")

	var s settings
	require.NoError(t, config.FromEnv("SUGARCH_", &s))
	assert.Equal(t, 2*time.Second, s.PollInterval)
	assert.Equal(t, "R114", s.Version, "unset variable falls back to envDefault")
}

func TestFromEnvInvalid(t *testing.T) {
	type settings struct {
		PollInterval time.Duration `env:"POLL_INTERVAL"`
	}

	t.Setenv("SUGARCH_POLL_INTERVAL", "not-a-duration")

	var s settings
	assert.Error(t, config.FromEnv("SUGARCH_", &s))
}
