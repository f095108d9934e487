package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidValue is returned when a raw value cannot be decoded as the
// declared kind of its setting.
var ErrInvalidValue = errors.New("invalid value")

// Decode converts the raw text of an update into a value of the given kind.
// KindAny and KindObject never fail: text that is not a JSON literal is kept
// as a plain string.
func Decode(kind Kind, raw string) (any, error) {
	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a bool", ErrInvalidValue, raw)
		}
		return b, nil
	case KindInt:
		n, ok := parseInt(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw)
		}
		return n, nil
	case KindString:
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, `"`) {
			var s string
			if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
				return s, nil
			}
		}
		return raw, nil
	default:
		if v, ok := decodeLiteral(raw); ok {
			return v, nil
		}
		return raw, nil
	}
}

func parseInt(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return floatToInt64(f)
}

// floatToInt64 converts an integral float that fits in an int64.
// 2^63 is the first float64 above math.MaxInt64.
func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f >= 1<<63 || f < -(1<<63) {
		return 0, false
	}
	return int64(f), true
}

// decodeLiteral parses raw as exactly one JSON value. Integral numbers
// become int64 so they compare equal to declared integer settings.
func decodeLiteral(raw string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return normalizeNumber(v), true
}

func normalizeNumber(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeNumber(val)
		}
	case []any:
		for i, val := range t {
			t[i] = normalizeNumber(val)
		}
	}
	return v
}

// normalizeDefault converts configuration-supplied values (YAML decodes
// integers as int) to the representation used by the store.
func normalizeDefault(kind Kind, v any) (any, error) {
	switch n := v.(type) {
	case int:
		v = int64(n)
	case float64:
		if kind == KindInt {
			if i, ok := floatToInt64(n); ok {
				v = i
			}
		}
	}

	switch kind {
	case KindBool:
		if _, ok := v.(bool); !ok {
			return nil, fmt.Errorf("%w: %v is not a bool", ErrInvalidValue, v)
		}
	case KindInt:
		if _, ok := v.(int64); !ok {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, v)
		}
	case KindString:
		if _, ok := v.(string); !ok {
			return nil, fmt.Errorf("%w: %v is not a string", ErrInvalidValue, v)
		}
	}
	return v, nil
}

// cloneValue deep-copies JSON-shaped values so snapshots never alias the store.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case json.RawMessage:
		return json.RawMessage(bytes.Clone(t))
	default:
		return v
	}
}
