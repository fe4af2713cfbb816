// FILE: lixenwraith/grouplog/config_test.go
package grouplog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "./logs", cfg.Directory)
	assert.Equal(t, int64(30000), cfg.LoggerSaveIntervalMs)
	assert.Equal(t, int64(100000), cfg.GroupSaveIntervalMs)
	assert.Equal(t, "02-01-2006 15:04:05.000", cfg.TimestampFormat)
	assert.Equal(t, int64(8), cfg.GroupWidth)
	assert.Zero(t, cfg.NameWidth)
	assert.Equal(t, "auto", cfg.ColorMode)
	assert.Equal(t, "stdout", cfg.EchoTarget)
	assert.True(t, cfg.SelfLog)
	assert.Equal(t, 30*time.Second, cfg.loggerSaveInterval())
	assert.Equal(t, 100*time.Second, cfg.groupSaveInterval())
	assert.NoError(t, cfg.validate())
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.GroupWidth = 15
	cfg1.Directory = "/custom/path"

	cfg2 := cfg1.Clone()

	// Verify deep copy
	assert.Equal(t, cfg1.GroupWidth, cfg2.GroupWidth)
	assert.Equal(t, cfg1.Directory, cfg2.Directory)

	// Modify original
	cfg1.GroupWidth = 4

	// Verify clone unchanged
	assert.Equal(t, int64(15), cfg2.GroupWidth)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{
			name:      "valid config",
			modify:    func(c *Config) {},
			wantError: "",
		},
		{
			name:      "empty directory",
			modify:    func(c *Config) { c.Directory = " " },
			wantError: "directory cannot be empty",
		},
		{
			name:      "file timestamp with separator",
			modify:    func(c *Config) { c.FileTimestampFormat = "2006/01/02" },
			wantError: "cannot contain path separators",
		},
		{
			name:      "invalid color mode",
			modify:    func(c *Config) { c.ColorMode = "sometimes" },
			wantError: "invalid color_mode",
		},
		{
			name:      "invalid echo target",
			modify:    func(c *Config) { c.EchoTarget = "syslog" },
			wantError: "invalid echo_target",
		},
		{
			name:      "invalid name color",
			modify:    func(c *Config) { c.NameColor = "chartreuse" },
			wantError: "invalid name_color",
		},
		{
			name:      "save interval too short",
			modify:    func(c *Config) { c.GroupSaveIntervalMs = 1 },
			wantError: "save intervals must be at least",
		},
		{
			name:      "negative width",
			modify:    func(c *Config) { c.NameWidth = -1 },
			wantError: "group_width and name_width",
		},
		{
			name:      "indent too large",
			modify:    func(c *Config) { c.JSONIndent = 9 },
			wantError: "json_indent must be between 0 and 8",
		},
		{
			name:      "negative heartbeat",
			modify:    func(c *Config) { c.HeartbeatIntervalS = -5 },
			wantError: "heartbeat_interval_s cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.validate()

			if tt.wantError == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
			}
		})
	}
}

func TestNewConfigFromDefaults(t *testing.T) {
	cfg, err := NewConfigFromDefaults(map[string]any{
		"directory":               "/var/log/app",
		"logger_save_interval_ms": 5 * time.Second,
		"group_width":             15,
		"self_log":                false,
	})
	require.NoError(t, err)
	assert.Equal(t, "/var/log/app", cfg.Directory)
	assert.Equal(t, int64(5000), cfg.LoggerSaveIntervalMs)
	assert.Equal(t, int64(15), cfg.GroupWidth)
	assert.False(t, cfg.SelfLog)

	t.Run("unknown key", func(t *testing.T) {
		_, err := NewConfigFromDefaults(map[string]any{"level": "debug"})
		assert.ErrorContains(t, err, "unknown config key: level")
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := NewConfigFromDefaults(map[string]any{"self_log": "yes"})
		assert.ErrorContains(t, err, "expected bool")
	})

	t.Run("validated", func(t *testing.T) {
		_, err := NewConfigFromDefaults(map[string]any{"color_mode": "sometimes"})
		assert.ErrorContains(t, err, "invalid color_mode")
	})
}

func TestNewConfigFromFile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("section values applied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "grouplog.toml")
		content := `
[grouplog]
directory = "/srv/snapshots"
color_mode = "never"
name_color = "green"
self_log = false
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "/srv/snapshots", cfg.Directory)
		assert.Equal(t, "never", cfg.ColorMode)
		assert.Equal(t, "green", cfg.NameColor)
		assert.False(t, cfg.SelfLog)
		assert.Equal(t, "stdout", cfg.EchoTarget, "unset keys keep defaults")
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "grouplog.toml")
		require.NoError(t, os.WriteFile(path, []byte("[grouplog]\necho_target = \"syslog\"\n"), 0644))

		_, err := NewConfigFromFile(path)
		assert.ErrorContains(t, err, "invalid echo_target")
	})
}

func TestApplyOverride(t *testing.T) {
	t.Run("all key kinds", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride(
			"directory=/var/log/app",
			"group_width=15",
			"color_mode=NEVER",
			"self_log=false",
			"json_indent=0",
		)
		require.NoError(t, err)
		assert.Equal(t, "/var/log/app", cfg.Directory)
		assert.Equal(t, int64(15), cfg.GroupWidth)
		assert.Equal(t, "never", cfg.ColorMode)
		assert.False(t, cfg.SelfLog)
		assert.Zero(t, cfg.JSONIndent)
	})

	t.Run("multiple errors collected", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("group_width=wide", "noequals", "bogus=1", "directory=/ok")
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "multiple configuration errors")
		assert.Contains(t, msg, "1. invalid integer value for group_width")
		assert.Contains(t, msg, "2. invalid format in override string")
		assert.Contains(t, msg, "3. unknown configuration key 'bogus'")
		assert.Equal(t, "./logs", cfg.Directory, "config unchanged on error")
	})

	t.Run("validation failure leaves config unchanged", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("json_indent=20")
		assert.ErrorContains(t, err, "json_indent must be between 0 and 8")
		assert.Equal(t, int64(2), cfg.JSONIndent)
	})

	t.Run("single error not wrapped", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("self_log=maybe")
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "multiple")
	})
}
