// FILE: utility.go
package grouplog

import (
	"fmt"
	"strings"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "grouplog: ") {
		format = "grouplog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// String returns the upper-case level name used in rendered and serialized entries.
func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int64(lv))
	}
}

// MarshalText encodes the level by name, so JSON documents carry "INFO" rather than 0.
func (lv Level) MarshalText() ([]byte, error) {
	return []byte(lv.String()), nil
}

// UnmarshalText decodes a level name.
func (lv *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*lv = parsed
	return nil
}

// ParseLevel converts level string to a Level.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warn, error)", levelStr)
	}
}

// padRight left-aligns s in a column of the given width.
func padRight(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}

// padLeft right-aligns s in a column of the given width, a width of 0 leaves s untouched.
func padLeft(s string, width int) string {
	if width <= 0 {
		return s
	}
	return fmt.Sprintf("%*s", width, s)
}
