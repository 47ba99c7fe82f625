package persistence

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date serializes as the tagged object the original front-end wrote to
// browser local storage: {"__type":"Date","value":"<ISO-8601>"}. Snapshot
// blobs therefore round-trip with blobs produced by that code.
type Date struct {
	time.Time
}

type taggedDate struct {
	Type  string `json:"__type"`
	Value string `json:"value"`
}

// NewDate wraps a time for snapshot serialization.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(taggedDate{
		Type:  "Date",
		Value: d.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var tagged taggedDate
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if tagged.Type != "Date" {
		return fmt.Errorf("expected __type Date, got %q", tagged.Type)
	}
	parsed, err := time.Parse(time.RFC3339Nano, tagged.Value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, tagged.Value)
		if err != nil {
			return fmt.Errorf("invalid Date value %q: %w", tagged.Value, err)
		}
	}
	d.Time = parsed
	return nil
}
