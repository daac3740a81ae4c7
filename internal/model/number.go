package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a quantity typed in on a free-text form. It decodes from either a
// JSON number or a JSON string; anything that does not parse becomes 0.
type Number float64

func (n Number) Float() float64 {
	return float64(n)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = 0
		return nil
	}
	*n = Number(ParseOrZero(raw))
	return nil
}

// ParseOrZero coerces form input to a float. Numbers are used as-is, text is
// parsed as a float, and every other value (including unparseable text) is 0.
func ParseOrZero(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(x)
	case float32:
		return finiteOrZero(float64(x))
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case Number:
		return finiteOrZero(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return finiteOrZero(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return finiteOrZero(f)
	default:
		return 0
	}
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NumberOf returns a pointer for optional numeric input fields.
func NumberOf(v float64) *Number {
	n := Number(v)
	return &n
}
