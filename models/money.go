// ABOUTME: Money value type stored as integer cents
// ABOUTME: Parses lenient decimal input and encodes as a JSON decimal number
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents. Sums of Money are exact.
type Money int64

// MoneyFromFloat converts currency units to cents, rounding half away from zero.
func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

func (m Money) Float() float64 {
	return float64(m) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Float())
}

// ParseMoney parses a decimal amount such as "1250.5", "$1,250.50" or " 99 ".
// It reports false for empty, non-numeric, NaN or infinite input.
func ParseMoney(s string) (Money, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return MoneyFromFloat(f), true
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = 0
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*m = MoneyFromFloat(v)
	case string:
		parsed, ok := ParseMoney(v)
		if !ok {
			return fmt.Errorf("invalid amount: %q", v)
		}
		*m = parsed
	default:
		return fmt.Errorf("invalid amount: %s", data)
	}
	return nil
}
