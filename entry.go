// FILE: lixenwraith/grouplog/entry.go
package grouplog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lixenwraith/grouplog/sanitizer"
)

// Entry is a single immutable log record. All renderings are computed at
// construction and never recomputed.
type Entry struct {
	timestamp time.Time
	level     Level
	prefix    string
	payload   []Value
	sequence  bool

	rendered string // styled payload only
	styled   string
	plain    string
}

// newEntry captures message and renders it with the runtime's formatter
func newEntry(f *formatter, now time.Time, level Level, prefix string, message any) *Entry {
	payload, sequence := capturePayload(message)

	parts := make([]string, len(payload))
	for i, v := range payload {
		parts[i] = v.render(f)
	}
	rendered := strings.Join(parts, " ")

	var sb strings.Builder
	sb.WriteString(f.formatTimestamp(now))
	sb.WriteByte(' ')
	sb.WriteString(f.formatLevel(level))
	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(": ")
	sb.WriteString(rendered)
	styled := sb.String()

	return &Entry{
		timestamp: now,
		level:     level,
		prefix:    prefix,
		payload:   payload,
		sequence:  sequence,
		rendered:  rendered,
		styled:    styled,
		plain:     sanitizer.Plain(styled),
	}
}

// Timestamp returns the creation time
func (e *Entry) Timestamp() time.Time { return e.timestamp }

// Level returns the entry level
func (e *Entry) Level() Level { return e.level }

// Prefix returns the owning logger's display prefix at creation time
func (e *Entry) Prefix() string { return e.prefix }

// Payload returns the captured values. A single-value payload has length 1.
func (e *Entry) Payload() []Value {
	out := make([]Value, len(e.payload))
	copy(out, e.payload)
	return out
}

// IsSequence reports whether the payload was logged as a sequence
func (e *Entry) IsSequence() bool { return e.sequence }

// Styled returns the full line with terminal styling
func (e *Entry) Styled() string { return e.styled }

// Plain returns Styled with every styling sequence removed
func (e *Entry) Plain() string { return e.plain }

// String implements fmt.Stringer with the plain rendering
func (e *Entry) String() string { return e.plain }

// SerializedEntry is the persisted form of an Entry.
type SerializedEntry struct {
	Timestamp int64             `json:"timestamp"`
	LogLevel  Level             `json:"logLevel"`
	Message   SerializedMessage `json:"message"`
}

// SerializedMessage carries the raw payload and both full-line renderings.
type SerializedMessage struct {
	Raw           RawMessage `json:"raw"`
	Formatted     string     `json:"formatted"`
	ColorStripped string     `json:"colorStripped"`
}

// RawMessage carries the original payload and its renderings without the line header.
type RawMessage struct {
	Original      json.RawMessage `json:"original"`
	Colored       string          `json:"colored"`
	ColorStripped string          `json:"colorStripped"`
}

// Serialize produces the persisted form. It never fails.
func (e *Entry) Serialize() SerializedEntry {
	return SerializedEntry{
		Timestamp: e.timestamp.UnixMilli(),
		LogLevel:  e.level,
		Message: SerializedMessage{
			Raw: RawMessage{
				Original:      e.originalJSON(),
				Colored:       e.rendered,
				ColorStripped: sanitizer.Plain(e.rendered),
			},
			Formatted:     e.styled,
			ColorStripped: e.plain,
		},
	}
}

// originalJSON encodes the payload: a single value as itself, a sequence as an array
func (e *Entry) originalJSON() json.RawMessage {
	var (
		b   []byte
		err error
	)
	if e.sequence {
		b, err = json.Marshal(e.payload)
	} else {
		b, err = e.payload[0].MarshalJSON()
	}
	if err != nil {
		// Value.MarshalJSON falls back to text, so this is only reachable on encoder bugs
		b, _ = json.Marshal(e.rendered)
	}
	return b
}
