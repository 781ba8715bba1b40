package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Loose is a raw JSON value whose type the client may get wrong. Accessors
// coerce it the forgiving way the web client relies on: anything missing or
// unusable reads as the zero value.
type Loose struct {
	raw json.RawMessage
}

// LooseOf encodes v as a Loose value. Unencodable values read as absent.
func LooseOf(v any) Loose {
	b, err := json.Marshal(v)
	if err != nil {
		return Loose{}
	}
	return Loose{raw: b}
}

// UnmarshalJSON keeps the raw bytes; it never fails.
func (l *Loose) UnmarshalJSON(b []byte) error {
	l.raw = append(l.raw[:0], b...)
	return nil
}

// MarshalJSON writes the raw value back, or null when absent.
func (l Loose) MarshalJSON() ([]byte, error) {
	if len(l.raw) == 0 {
		return []byte("null"), nil
	}
	return l.raw, nil
}

// Present reports whether a non-null value was supplied.
func (l Loose) Present() bool {
	return l.kind() != 0 && l.kind() != 'n'
}

// Raw returns the value as JSON, or nil when absent or null.
func (l Loose) Raw() json.RawMessage {
	if !l.Present() {
		return nil
	}
	return l.raw
}

// kind returns the first significant byte: '"', '{', '[', 't', 'f', 'n', a
// digit or '-', or 0 when empty.
func (l Loose) kind() byte {
	b := bytes.TrimSpace(l.raw)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func (l Loose) str() (string, bool) {
	if l.kind() != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(l.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Text renders the value as text: strings as-is, other scalars by their JSON
// literal, containers as compact JSON. Absent and null read as "".
func (l Loose) Text() string {
	switch l.kind() {
	case 0, 'n':
		return ""
	case '"':
		s, _ := l.str()
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, l.raw); err != nil {
		return strings.TrimSpace(string(l.raw))
	}
	return buf.String()
}

// Float reads a number or numeric string. Booleans count as 1 and 0.
// Anything else, including non-finite values, reads as 0.
func (l Loose) Float() float64 {
	var f float64
	switch k := l.kind(); {
	case k == 't':
		return 1
	case k == '"':
		s, _ := l.str()
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		f = v
	case k == '-' || (k >= '0' && k <= '9'):
		if err := json.Unmarshal(l.raw, &f); err != nil {
			return 0
		}
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Int reads an integer. JSON numbers truncate toward zero; strings must hold
// a plain integer. Booleans count as 1 and 0. Anything else reads as 0.
func (l Loose) Int() int64 {
	switch k := l.kind(); {
	case k == 't':
		return 1
	case k == '"':
		s, _ := l.str()
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0
		}
		return v
	case k == '-' || (k >= '0' && k <= '9'):
		if v, err := strconv.ParseInt(string(bytes.TrimSpace(l.raw)), 10, 64); err == nil {
			return v
		}
		var f float64
		if err := json.Unmarshal(l.raw, &f); err != nil {
			return 0
		}
		if f >= math.MaxInt64 || f <= math.MinInt64 {
			return 0
		}
		return int64(f)
	default:
		return 0
	}
}

// ID reads a row identifier: a positive integer given as a number or a
// numeric string. Everything else reads as 0, which no row ever has.
func (l Loose) ID() int64 {
	if k := l.kind(); k == 't' || k == 'f' {
		return 0
	}
	if k := l.kind(); k == '-' || (k >= '0' && k <= '9') {
		var f float64
		if err := json.Unmarshal(l.raw, &f); err != nil || f != math.Trunc(f) {
			return 0
		}
	}
	if v := l.Int(); v > 0 {
		return v
	}
	return 0
}
