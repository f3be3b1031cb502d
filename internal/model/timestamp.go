package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a point in time on the wire. The API emits naive ISO-8601
// values without a zone; those are read as UTC. Values are written as RFC 3339
// and keep any fractional seconds they were read with.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NewTimestamp truncates t to whole seconds, the precision of user input.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second)}
}

// ParseTimestamp reads user input. Fractional seconds are dropped.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := parseTime(s)
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestamp(t), nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected RFC 3339 or YYYY-MM-DDTHH:MM[:SS]", s)
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := parseTime(s)
	if err != nil {
		return err
	}
	*t = Timestamp{Time: parsed}
	return nil
}

func (t Timestamp) MarshalYAML() (any, error) {
	return t.String(), nil
}
