// FILE: lixenwraith/grouplog/payload.go
package grouplog

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Kind classifies a payload value at capture time.
type Kind uint8

const (
	// KindText covers strings, errors, Stringers, booleans and nil
	KindText Kind = iota
	// KindNumber covers every integer and float type
	KindNumber
	// KindStructured is everything else, rendered as a deep structural dump
	KindStructured
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// nilText is the rendering of a nil pointer whose method cannot run
const nilText = "<nil>"

// dumper renders structured values. Depth is unbounded, cycles are detected by spew.
var dumper = &spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Value is one element of an entry payload: its kind, its unstyled text
// rendering, and the original Go value it was captured from.
type Value struct {
	kind Kind
	text string
	orig any
}

// NewValue classifies v and captures its text rendering.
func NewValue(v any) Value {
	switch val := v.(type) {
	case nil:
		return Value{kind: KindText, text: "null"}
	case string:
		return Value{kind: KindText, text: val, orig: v}
	case error:
		if text, ok := callText(v, val.Error); ok {
			return Value{kind: KindText, text: text, orig: v}
		}
		return structured(v)
	case fmt.Stringer:
		if text, ok := callText(v, val.String); ok {
			return Value{kind: KindText, text: text, orig: v}
		}
		return structured(v)
	case bool:
		return Value{kind: KindText, text: strconv.FormatBool(val), orig: v}
	case int:
		return Value{kind: KindNumber, text: strconv.FormatInt(int64(val), 10), orig: v}
	case int8:
		return Value{kind: KindNumber, text: strconv.FormatInt(int64(val), 10), orig: v}
	case int16:
		return Value{kind: KindNumber, text: strconv.FormatInt(int64(val), 10), orig: v}
	case int32:
		return Value{kind: KindNumber, text: strconv.FormatInt(int64(val), 10), orig: v}
	case int64:
		return Value{kind: KindNumber, text: strconv.FormatInt(val, 10), orig: v}
	case uint:
		return Value{kind: KindNumber, text: strconv.FormatUint(uint64(val), 10), orig: v}
	case uint8:
		return Value{kind: KindNumber, text: strconv.FormatUint(uint64(val), 10), orig: v}
	case uint16:
		return Value{kind: KindNumber, text: strconv.FormatUint(uint64(val), 10), orig: v}
	case uint32:
		return Value{kind: KindNumber, text: strconv.FormatUint(uint64(val), 10), orig: v}
	case uint64:
		return Value{kind: KindNumber, text: strconv.FormatUint(val, 10), orig: v}
	case float32:
		return Value{kind: KindNumber, text: strconv.FormatFloat(float64(val), 'g', -1, 32), orig: v}
	case float64:
		return Value{kind: KindNumber, text: strconv.FormatFloat(val, 'g', -1, 64), orig: v}
	default:
		return structured(v)
	}
}

// structured captures v as a structural dump
func structured(v any) Value {
	return Value{kind: KindStructured, text: strings.TrimSpace(dumper.Sdump(v)), orig: v}
}

// callText runs an Error or String method. A nil pointer receiver renders as
// "<nil>" like fmt does; any other panic reports !ok.
func callText(v any, method func() string) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
				text, ok = nilText, true
				return
			}
			text, ok = "", false
		}
	}()
	return method(), true
}

// Kind returns the classification
func (v Value) Kind() Kind { return v.kind }

// Text returns the unstyled rendering
func (v Value) Text() string { return v.text }

// Original returns the value as captured
func (v Value) Original() any { return v.orig }

// render returns the styled rendering: numbers are colored, text and dumps pass through.
func (v Value) render(f *formatter) string {
	if v.kind == KindNumber {
		return f.formatNumber(v.text)
	}
	return v.text
}

// MarshalJSON emits the original value. Values that cannot be encoded
// (channels, funcs, cycles, NaN) fall back to their text rendering.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		switch v.orig.(type) {
		case nil:
			return []byte("null"), nil
		case bool:
			return json.Marshal(v.orig)
		default:
			return json.Marshal(v.text)
		}
	default:
		if b, err := json.Marshal(v.orig); err == nil {
			return b, nil
		}
		return json.Marshal(v.text)
	}
}

// capturePayload turns a log call's message into values. A []any message is a sequence.
func capturePayload(message any) ([]Value, bool) {
	if seq, ok := message.([]any); ok {
		values := make([]Value, len(seq))
		for i, m := range seq {
			values[i] = NewValue(m)
		}
		return values, true
	}
	return []Value{NewValue(message)}, false
}
