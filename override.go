// FILE: override.go
package grouplog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies "key=value" overrides to the configuration.
// All overrides are attempted; failures are collected and returned together,
// in which case c is left unchanged.
//
// Example:
//
//	cfg := grouplog.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "directory=/var/log/app",
//	    "group_width=15",
//	    "color_mode=never",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	next := c.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(next, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	if err := next.validate(); err != nil {
		return err
	}

	*c = *next
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("grouplog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "grouplog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Persistence
	case "directory":
		cfg.Directory = value
	case "logger_save_interval_ms":
		return setInt(&cfg.LoggerSaveIntervalMs, key, value)
	case "group_save_interval_ms":
		return setInt(&cfg.GroupSaveIntervalMs, key, value)
	case "file_timestamp_format":
		cfg.FileTimestampFormat = value
	case "json_indent":
		return setInt(&cfg.JSONIndent, key, value)

	// Formatting
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "group_width":
		return setInt(&cfg.GroupWidth, key, value)
	case "name_width":
		return setInt(&cfg.NameWidth, key, value)
	case "color_mode":
		cfg.ColorMode = strings.ToLower(value)
	case "name_color":
		cfg.NameColor = value
	case "system_color":
		cfg.SystemColor = value

	// Console echo
	case "echo_target":
		cfg.EchoTarget = strings.ToLower(value)

	// Self diagnostics
	case "self_log":
		return setBool(&cfg.SelfLog, key, value)
	case "heartbeat_interval_s":
		return setInt(&cfg.HeartbeatIntervalS, key, value)
	case "internal_errors_to_stderr":
		return setBool(&cfg.InternalErrorsToStderr, key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

// setInt parses an integer override into dst
func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}

// setBool parses a boolean override into dst
func setBool(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}
