// ABOUTME: Lenient normalization of raw backend records into canonical models
// ABOUTME: Maps inconsistent field names, money and date formats and reports malformed fields
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/salesdesk/models"
)

// Raw is a record as decoded from the backend, before normalization.
type Raw = map[string]interface{}

// Issue describes a malformed field that was defaulted instead of rejected.
type Issue struct {
	Record string      `json:"record"`
	Field  string      `json:"field"`
	Value  interface{} `json:"value,omitempty"`
	Reason string      `json:"reason"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s.%s: %s (%v)", i.Record, i.Field, i.Reason, i.Value)
}

// AmountFields is the lookup order for money; the first defined, parseable value wins.
var AmountFields = []string{"amount_paid", "amountPaid", "amount"}

// epochSecondsLimit separates epoch seconds from epoch milliseconds.
const epochSecondsLimit = 1e10

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	models.DayLayout,
}

// Amount returns the record's money value. Missing, unparseable and negative
// amounts become zero and are reported.
func Amount(raw Raw) (models.Money, *Issue) {
	var rejected *Issue
	for _, field := range AmountFields {
		v, ok := raw[field]
		if !ok || v == nil {
			continue
		}
		m, ok := parseMoney(v)
		if !ok {
			if rejected == nil {
				rejected = &Issue{Field: field, Value: v, Reason: "unparseable amount"}
			}
			continue
		}
		if m < 0 {
			return 0, &Issue{Field: field, Value: v, Reason: "negative amount"}
		}
		return m, nil
	}
	if rejected != nil {
		return 0, rejected
	}
	return 0, &Issue{Field: "amount", Reason: "missing amount"}
}

func parseMoney(v interface{}) (models.Money, bool) {
	switch x := v.(type) {
	case json.Number:
		return models.ParseMoney(x.String())
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return models.MoneyFromFloat(x), true
	case int:
		return models.Money(x * 100), true
	case int64:
		return models.Money(x * 100), true
	case string:
		return models.ParseMoney(x)
	}
	return 0, false
}

// ParseDate accepts ISO 8601 strings, YYYY-MM-DD, and epoch seconds or
// milliseconds (values below 1e10 are seconds). Anything else is an
// invalid timestamp, displayed as "Invalid Date".
func ParseDate(v interface{}) models.Timestamp {
	switch x := v.(type) {
	case nil:
		return models.Timestamp{}
	case time.Time:
		return models.At(x)
	case models.Timestamp:
		return x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return models.Timestamp{}
		}
		return fromEpoch(f)
	case float64:
		return fromEpoch(x)
	case int:
		return fromEpoch(float64(x))
	case int64:
		return fromEpoch(float64(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return models.Timestamp{}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(f)
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return models.At(t)
			}
		}
	}
	return models.Timestamp{}
}

func fromEpoch(f float64) models.Timestamp {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return models.Timestamp{}
	}
	if math.Abs(f) < epochSecondsLimit {
		sec, frac := math.Modf(f)
		return models.At(time.Unix(int64(sec), int64(frac*1e9)).UTC())
	}
	return models.At(time.UnixMilli(int64(f)).UTC())
}

// str returns the first non-empty value among keys, rendered as a string.
func str(raw Raw, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

func integer(raw Raw, keys ...string) (int, bool) {
	s := str(raw, keys...)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// enum lower-cases value and reports values outside valid.
func enum(value, fallback string, valid func(string) bool) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, "-", "_")
	v = strings.ReplaceAll(v, " ", "_")
	if v == "" {
		return fallback, true
	}
	return v, valid(v)
}

// date reads a timestamp and reports an issue when the field is present
// but unparseable or absent altogether.
func date(raw Raw, record string, keys ...string) (models.Timestamp, *Issue) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		ts := ParseDate(v)
		if !ts.Valid {
			return ts, &Issue{Record: record, Field: key, Value: v, Reason: "unparseable date"}
		}
		return ts, nil
	}
	return models.Timestamp{}, &Issue{Record: record, Field: keys[0], Reason: "missing date"}
}
