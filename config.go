// FILE: config.go
package grouplog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"
)

// Config holds all runtime configuration values
type Config struct {
	// Persistence
	Directory            string `toml:"directory"`               // Snapshot directory, resolved to absolute form
	LoggerSaveIntervalMs int64  `toml:"logger_save_interval_ms"` // Default periodic interval for loggers
	GroupSaveIntervalMs  int64  `toml:"group_save_interval_ms"`  // Default periodic interval for groups
	FileTimestampFormat  string `toml:"file_timestamp_format"`   // Timestamp part of snapshot file names
	JSONIndent           int64  `toml:"json_indent"`             // Spaces per indent level in snapshots, 0 for compact

	// Formatting
	TimestampFormat string `toml:"timestamp_format"` // Entry timestamp layout
	GroupWidth      int64  `toml:"group_width"`      // Right-aligned width of the group name inside brackets
	NameWidth       int64  `toml:"name_width"`       // Right-aligned width of the logger name, 0 for none
	ColorMode       string `toml:"color_mode"`       // "auto", "always" or "never"
	NameColor       string `toml:"name_color"`       // Default logger name color
	SystemColor     string `toml:"system_color"`     // Color of the System group and its main logger

	// Console echo
	EchoTarget string `toml:"echo_target"` // "stdout", "stderr" or "none"

	// Self diagnostics
	SelfLog                bool  `toml:"self_log"`                  // Report saves and rotations on the Logger Manager logger
	HeartbeatIntervalS     int64 `toml:"heartbeat_interval_s"`      // Stats heartbeat interval, 0 disables
	InternalErrorsToStderr bool  `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Persistence
	Directory:            "./logs",
	LoggerSaveIntervalMs: DefaultLoggerSaveInterval.Milliseconds(),
	GroupSaveIntervalMs:  DefaultGroupSaveInterval.Milliseconds(),
	FileTimestampFormat:  fileTimestampLayout,
	JSONIndent:           2,

	// Formatting
	TimestampFormat: entryTimestampLayout,
	GroupWidth:      8,
	NameWidth:       0,
	ColorMode:       "auto",
	NameColor:       "bright_blue",
	SystemColor:     "red",

	// Console echo
	EchoTarget: "stdout",

	// Self diagnostics
	SelfLog:                true,
	HeartbeatIntervalS:     0,
	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from the [grouplog] section of a TOML file
// and returns a validated Config. A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct("grouplog.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "grouplog.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by toml tag
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// tomlFields maps toml tags to the settable fields of cfg
func tomlFields(cfg *Config) map[string]reflect.Value {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fields := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("toml"); tag != "" {
			fields[tag] = v.Field(i)
		}
	}
	return fields
}

// extractConfig copies every registered key found by the loader into cfg
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	for tag, field := range tomlFields(cfg) {
		val, found := loader.Get(prefix + tag)
		if !found {
			continue
		}
		if err := setFieldValue(field, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", tag, err)
		}
	}
	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	fields := tomlFields(cfg)

	for key, value := range overrides {
		field, exists := fields[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := setFieldValue(field, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case time.Duration:
			field.SetInt(v.Milliseconds())
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if strings.TrimSpace(c.FileTimestampFormat) == "" {
		return fmtErrorf("file_timestamp_format cannot be empty")
	}

	if strings.ContainsAny(c.FileTimestampFormat, `/\`) {
		return fmtErrorf("file_timestamp_format cannot contain path separators: '%s'", c.FileTimestampFormat)
	}

	switch c.ColorMode {
	case "auto", "always", "never":
	default:
		return fmtErrorf("invalid color_mode: '%s' (use auto, always, or never)", c.ColorMode)
	}

	switch c.EchoTarget {
	case "stdout", "stderr", "none":
	default:
		return fmtErrorf("invalid echo_target: '%s' (use stdout, stderr, or none)", c.EchoTarget)
	}

	if _, err := ParseColor(c.NameColor); err != nil {
		return fmtErrorf("invalid name_color: %w", err)
	}

	if _, err := ParseColor(c.SystemColor); err != nil {
		return fmtErrorf("invalid system_color: %w", err)
	}

	minMs := minWaitTime.Milliseconds()
	if c.LoggerSaveIntervalMs < minMs || c.GroupSaveIntervalMs < minMs {
		return fmtErrorf("save intervals must be at least %dms", minMs)
	}

	if c.GroupWidth < 0 || c.GroupWidth > 64 || c.NameWidth < 0 || c.NameWidth > 64 {
		return fmtErrorf("group_width and name_width must be between 0 and 64")
	}

	if c.JSONIndent < 0 || c.JSONIndent > 8 {
		return fmtErrorf("json_indent must be between 0 and 8: %d", c.JSONIndent)
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// loggerSaveInterval returns the configured default logger interval
func (c *Config) loggerSaveInterval() time.Duration {
	return time.Duration(c.LoggerSaveIntervalMs) * time.Millisecond
}

// groupSaveInterval returns the configured default group interval
func (c *Config) groupSaveInterval() time.Duration {
	return time.Duration(c.GroupSaveIntervalMs) * time.Millisecond
}

// nameColor returns the parsed default name color, validated at construction
func (c *Config) nameColor() Color {
	color, _ := ParseColor(c.NameColor)
	return color
}

// systemColor returns the parsed System color, validated at construction
func (c *Config) systemColor() Color {
	color, _ := ParseColor(c.SystemColor)
	return color
}

// indent returns the JSON indent string
func (c *Config) indent() string {
	return strings.Repeat(" ", int(c.JSONIndent))
}
