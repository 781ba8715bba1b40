package types

import (
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout renders UTC instants as 2026-10-15T09:30:00.123456+00:00.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// Timestamp is a UTC instant with microsecond precision that renders in
// TimestampLayout, both in storage and on the wire.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts t to UTC and drops sub-microsecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Microsecond)}
}

// Now returns the current instant as a Timestamp.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// ParseTimestamp parses any RFC 3339 string, including the stored layout.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return NewTimestamp(t), nil
}

func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON renders the timestamp as a quoted TimestampLayout string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON accepts any quoted RFC 3339 string.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
