//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LocalTimeLayout is the wire format of backend timestamps. They carry no zone.
const LocalTimeLayout = "2006-01-02T15:04:05"

// InputTimeLayout is the format produced by a datetime-local form input.
const InputTimeLayout = "2006-01-02T15:04"

var localTimeLayouts = []string{
	LocalTimeLayout,
	InputTimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
}

// LocalTime is a zone-less date-time as exchanged with the backend.
type LocalTime struct {
	time.Time
}

// ParseLocalTime parses the formats the backend and browser inputs produce.
func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range localTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("parse local time %q: unsupported format", s)
}

// UnmarshalJSON accepts a string timestamp or null.
func (t *LocalTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = LocalTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("local time: %w", err)
	}
	if s == "" {
		*t = LocalTime{}
		return nil
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes the backend wire format.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(LocalTimeLayout))
}

// InputValue formats t for a datetime-local input; zero yields "".
func (t LocalTime) InputValue() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(InputTimeLayout)
}
