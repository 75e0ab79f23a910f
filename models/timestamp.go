// ABOUTME: Timestamp value type with an explicit invalid state
// ABOUTME: Invalid timestamps render as the literal "Invalid Date"
package models

import (
	"encoding/json"
	"time"
)

// InvalidDate is how an unparseable date is displayed and bucketed.
const InvalidDate = "Invalid Date"

// DayLayout is the calendar-date bucket format.
const DayLayout = "2006-01-02"

type Timestamp struct {
	Time  time.Time
	Valid bool
}

func At(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

func Now() Timestamp {
	return At(time.Now().UTC())
}

func (t Timestamp) String() string {
	if !t.Valid {
		return InvalidDate
	}
	return t.Time.Format(time.RFC3339)
}

// Day returns the calendar date in loc, ignoring time of day.
func (t Timestamp) Day(loc *time.Location) string {
	if !t.Valid {
		return InvalidDate
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.Time.In(loc).Format(DayLayout)
}

// SortValue is epoch milliseconds for valid timestamps and the
// InvalidDate marker otherwise.
func (t Timestamp) SortValue() any {
	if !t.Valid {
		return InvalidDate
	}
	return t.Time.UnixMilli()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		*t = Timestamp{}
		return nil //nolint:nilerr // unparseable dates become Invalid Date
	}
	*t = At(parsed)
	return nil
}
