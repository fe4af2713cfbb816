// FILE: lixenwraith/grouplog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/grouplog"
)

// Builder resolves the logger behind gnet and fasthttp adapters. It can use an
// existing *grouplog.Logger or a named member of a *grouplog.Group, fetched
// with get-or-create semantics.
type Builder struct {
	logger *grouplog.Logger
	group  *grouplog.Group
	name   string
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithGroup is ignored
func (b *Builder) WithLogger(l *grouplog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("grouplog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithGroup makes the adapters log through the group member called name
func (b *Builder) WithGroup(g *grouplog.Group, name string) *Builder {
	if g == nil {
		b.err = fmt.Errorf("grouplog/compat: provided group cannot be nil")
		return b
	}
	b.group = g
	b.name = name
	return b
}

// getLogger resolves the logger to be used. Without a logger or group the
// default runtime's System group is used with the member name "adapter".
func (b *Builder) getLogger() (*grouplog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	g, name := b.group, b.name
	if g == nil {
		g = grouplog.System()
	}
	if name == "" {
		name = "adapter"
	}

	// Cache the resolved logger for subsequent builds with this builder
	b.logger = g.GetOrCreateLogger(name)
	return b.logger, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildStructuredGnet creates a gnet adapter that extracts structured fields
// from format strings
func (b *Builder) BuildStructuredGnet(opts ...GnetOption) (*StructuredGnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewStructuredGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the resolved *grouplog.Logger
func (b *Builder) GetLogger() (*grouplog.Logger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
//	rt, _ := grouplog.NewBuilder().Directory("./logs").Build()
//	defer rt.Shutdown()
//	net := rt.NewGroup("Network", &grouplog.GroupOptions{SaveOnExit: true, Color: grouplog.ColorCyan})
//
//	builder := compat.NewBuilder().WithGroup(net, "gnet")
//	gnetLogger, _ := builder.BuildGnet()
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	httpLogger, _ := compat.NewBuilder().WithGroup(net, "http").BuildFastHTTP()
//	server := &fasthttp.Server{Handler: handler, Logger: httpLogger}
