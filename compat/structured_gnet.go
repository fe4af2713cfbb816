// FILE: lixenwraith/grouplog/compat/structured_gnet.go
package compat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lixenwraith/grouplog"
)

// keyValuePattern detects structured verbs like "key=%v" or "key: %v"
var keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGpbcU]`)

// parseFormat extracts structured fields from a printf-style format string.
// The result always has a "msg" key; matched keys carry their raw argument.
func parseFormat(format string, args []any) map[string]any {
	matches := keyValuePattern.FindAllStringSubmatchIndex(format, -1)
	if len(matches) == 0 || len(matches) > len(args) {
		return map[string]any{"msg": fmt.Sprintf(format, args...)}
	}

	fields := make(map[string]any, len(matches)+1)
	var msgParts []string
	lastEnd := 0

	for i, match := range matches {
		if prefix := strings.TrimSpace(format[lastEnd:match[0]]); prefix != "" {
			msgParts = append(msgParts, prefix)
		}
		fields[format[match[2]:match[3]]] = args[i]
		lastEnd = match[1]
	}

	// Remaining format text consumes the remaining args
	if lastEnd < len(format) {
		remaining := format[lastEnd:]
		if rest := args[len(matches):]; len(rest) > 0 {
			remaining = fmt.Sprintf(remaining, rest...)
		}
		if remaining = strings.TrimSpace(remaining); remaining != "" {
			msgParts = append(msgParts, remaining)
		}
	}

	fields["msg"] = strings.Join(msgParts, " ")
	return fields
}

// StructuredGnetAdapter provides structured logging for gnet: key/value verbs
// in the format string become a structured payload
type StructuredGnetAdapter struct {
	*GnetAdapter
	extractFields bool
}

// NewStructuredGnetAdapter creates a gnet adapter with structured field extraction
func NewStructuredGnetAdapter(logger *grouplog.Logger, opts ...GnetOption) *StructuredGnetAdapter {
	return &StructuredGnetAdapter{
		GnetAdapter:   NewGnetAdapter(logger, opts...),
		extractFields: true,
	}
}

// Debugf logs with structured field extraction
func (a *StructuredGnetAdapter) Debugf(format string, args ...any) {
	if !a.extractFields {
		a.GnetAdapter.Debugf(format, args...)
		return
	}
	a.logger.Debug(sourceTag, parseFormat(format, args))
}

// Infof logs with structured field extraction
func (a *StructuredGnetAdapter) Infof(format string, args ...any) {
	if !a.extractFields {
		a.GnetAdapter.Infof(format, args...)
		return
	}
	a.logger.Info(sourceTag, parseFormat(format, args))
}

// Warnf logs with structured field extraction
func (a *StructuredGnetAdapter) Warnf(format string, args ...any) {
	if !a.extractFields {
		a.GnetAdapter.Warnf(format, args...)
		return
	}
	a.logger.Warn(sourceTag, parseFormat(format, args))
}

// Errorf logs with structured field extraction
func (a *StructuredGnetAdapter) Errorf(format string, args ...any) {
	if !a.extractFields {
		a.GnetAdapter.Errorf(format, args...)
		return
	}
	a.logger.Error(sourceTag, parseFormat(format, args))
}
