package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/randalmurphal/oncekit/pkg/oncekit/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
		defaultVal string
		want       string
	}{
		{"key exists", map[string]any{"name": "ids"}, "default", "ids"},
		{"key missing", map[string]any{"other": "value"}, "default", "default"},
		{"empty string", map[string]any{"name": ""}, "default", ""},
		{"wrong type", map[string]any{"name": 123}, "default", "default"},
		{"nil map", nil, "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.New(tt.data).String("name", tt.defaultVal))
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want time.Duration
	}{
		{"string", "250ms", 250 * time.Millisecond},
		{"int seconds", 3, 3 * time.Second},
		{"int64 seconds", int64(4), 4 * time.Second},
		{"float seconds", 1.5, 1500 * time.Millisecond},
		{"duration", 2 * time.Minute, 2 * time.Minute},
		{"invalid string", "soon", 10 * time.Second},
		{"wrong type", true, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"timeout": tt.val})
			assert.Equal(t, tt.want, cfg.Duration("timeout", 10*time.Second))
		})
	}

	t.Run("missing", func(t *testing.T) {
		assert.Equal(t, time.Second, config.New(nil).Duration("timeout", time.Second))
	})
}

func TestBool(t *testing.T) {
	cfg := config.New(map[string]any{"on": true, "off": false, "text": "true"})
	assert.True(t, cfg.Bool("on", false))
	assert.False(t, cfg.Bool("off", true))
	assert.False(t, cfg.Bool("text", false))
	assert.True(t, cfg.Bool("missing", true))
}

func TestInt(t *testing.T) {
	tests := []struct {
		name       string
		val        any
		defaultVal int
		want       int
	}{
		{"int", 42, 0, 42},
		{"int64", int64(100), 0, 100},
		{"float64 whole", 50.0, 0, 50},
		{"float64 fractional", 50.5, 99, 99},
		{"string", "42", 99, 99},
		{"negative", -5, 0, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"count": tt.val})
			assert.Equal(t, tt.want, cfg.Int("count", tt.defaultVal))
		})
	}
}

func TestFloat(t *testing.T) {
	cfg := config.New(map[string]any{"f": 0.25, "i": 2, "i64": int64(3), "s": "1.0"})
	assert.InDelta(t, 0.25, cfg.Float("f", 0), 1e-9)
	assert.InDelta(t, 2.0, cfg.Float("i", 0), 1e-9)
	assert.InDelta(t, 3.0, cfg.Float("i64", 0), 1e-9)
	assert.InDelta(t, 9.0, cfg.Float("s", 9), 1e-9)
}

func TestStringSlice(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want []string
	}{
		{"string slice", []string{"a", "b"}, []string{"a", "b"}},
		{"any slice", []any{"x", "y"}, []string{"x", "y"}},
		{"mixed slice", []any{"x", 1}, []string{"default"}},
		{"not a slice", "x", []string{"default"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"tags": tt.val})
			assert.Equal(t, tt.want, cfg.StringSlice("tags", []string{"default"}))
		})
	}
}

func TestStringMap(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want map[string]string
	}{
		{
			"string map",
			map[string]string{"1": "a"},
			map[string]string{"1": "a"},
		},
		{
			"any values",
			map[string]any{"primary": "192.168.1.1:9200", "weight": 3},
			map[string]string{"primary": "192.168.1.1:9200", "weight": "3"},
		},
		{
			"any keys",
			map[any]any{1: "192.168.1.1:9200", 2: "192.168.1.2:9200"},
			map[string]string{"1": "192.168.1.1:9200", "2": "192.168.1.2:9200"},
		},
		{
			"not a map",
			[]string{"x"},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"servers": tt.val})
			assert.Equal(t, tt.want, cfg.StringMap("servers", nil))
		})
	}
}

func TestSub(t *testing.T) {
	cfg := config.New(map[string]any{
		"retry":  map[string]any{"max_attempts": 5},
		"legacy": map[any]any{"max_attempts": 2},
		"flat":   "value",
	})

	assert.Equal(t, 5, cfg.Sub("retry").Int("max_attempts", 0))
	assert.Equal(t, 2, cfg.Sub("legacy").Int("max_attempts", 0))
	assert.False(t, cfg.Sub("flat").Has("max_attempts"))
	assert.Empty(t, cfg.Sub("missing").Raw())
}

func TestHas(t *testing.T) {
	cfg := config.New(map[string]any{"name": nil})
	assert.True(t, cfg.Has("name"))
	assert.False(t, cfg.Has("other"))
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
name: backends
servers:
  1: 192.168.1.1:9200
  2: 192.168.1.2:9200
  3: 192.168.1.3:9200
retry:
  max_attempts: 4
  initial_backoff: 50ms
`)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, "backends", cfg.String("name", ""))
	assert.Equal(t, map[string]string{
		"1": "192.168.1.1:9200",
		"2": "192.168.1.2:9200",
		"3": "192.168.1.3:9200",
	}, cfg.StringMap("servers", nil))

	retry := cfg.Sub("retry")
	assert.Equal(t, 4, retry.Int("max_attempts", 0))
	assert.Equal(t, 50*time.Millisecond, retry.Duration("initial_backoff", 0))

	_, err = config.FromYAML([]byte("key: [unclosed"))
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"name": "ids", "count": 100, "scope": {"kind": "request"}}`))
	require.NoError(t, err)
	assert.Equal(t, "ids", cfg.String("name", ""))
	assert.Equal(t, 100, cfg.Int("count", 0))
	assert.Equal(t, "request", cfg.Sub("scope").String("kind", ""))

	_, err = config.FromJSON([]byte(`{bad`))
	assert.Error(t, err)
}

func TestFromTOML(t *testing.T) {
	cfg, err := config.FromTOML([]byte(`
name = "backends"

[servers]
1 = "192.168.1.1:9200"
2 = "192.168.1.2:9200"

[retry]
max_attempts = 4
backoff_factor = 1.5
`))
	require.NoError(t, err)

	assert.Equal(t, "backends", cfg.String("name", ""))
	assert.Equal(t, map[string]string{
		"1": "192.168.1.1:9200",
		"2": "192.168.1.2:9200",
	}, cfg.StringMap("servers", nil))
	assert.Equal(t, 4, cfg.Sub("retry").Int("max_attempts", 0))
	assert.InDelta(t, 1.5, cfg.Sub("retry").Float("backoff_factor", 0), 1e-9)

	_, err = config.FromTOML([]byte("name = "))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
	}{
		{"yaml", "c.yaml", "name: ids\n", false},
		{"yml upper", "c.YML", "name: ids\n", false},
		{"json", "c.json", `{"name": "ids"}`, false},
		{"toml", "c.toml", `name = "ids"`, false},
		{"unsupported", "c.ini", `name=ids`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg, err := config.FromFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ids", cfg.String("name", ""))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := config.FromFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
