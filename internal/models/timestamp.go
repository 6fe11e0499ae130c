package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalDateTimeLayout is the zone-less layout the backend services emit.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var localLayouts = []string{
	LocalDateTimeLayout + ".999999999",
	LocalDateTimeLayout,
	"2006-01-02T15:04",
}

// zoneless marks values that were sent without an offset so they are written
// back the same way. It is UTC-equivalent.
var zoneless = time.FixedZone("", 0)

// Timestamp accepts both RFC 3339 values and the zone-less local date-times
// produced by the backend services.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses any of the accepted layouts.
func ParseTimestamp(v string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return Timestamp{Time: t}, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, zoneless); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", v)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes values that arrived without an offset in the backend's
// local layout and everything else in RFC 3339. Fractional seconds are kept.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	if t.Location() == zoneless {
		return json.Marshal(t.Format(LocalDateTimeLayout + ".999999999"))
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
