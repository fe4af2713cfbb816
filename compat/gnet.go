// FILE: lixenwraith/grouplog/compat/gnet.go
package compat

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/grouplog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps a grouplog.Logger to implement the gnet logging.Logger interface
type GnetAdapter struct {
	logger       *grouplog.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *grouplog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(sourceTag, fmt.Sprintf(format, args...))
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Info(sourceTag, fmt.Sprintf(format, args...))
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Warn(sourceTag, fmt.Sprintf(format, args...))
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Error(sourceTag, fmt.Sprintf(format, args...))
}

// Fatalf logs at error level, runs the runtime shutdown so exit hooks persist
// their snapshots, then triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Error(sourceTag, "fatal:", msg)

	_ = a.logger.Runtime().Shutdown()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

// sourceTag marks entries written through the gnet adapters
const sourceTag = "[gnet]"
