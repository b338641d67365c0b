package transport

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric is a request field that accepts a JSON number or a string holding
// one, e.g. 12.5 or "12.5". Parsing is left to the service so a malformed value
// becomes a field validation error rather than a bind error.
type Numeric struct {
	Raw string
	Set bool
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Numeric{}
		return nil
	}
	n.Set = true
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.Raw = strings.TrimSpace(s)
		return nil
	}
	n.Raw = string(b)
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}

// Decimal parses the value. ok is false when the field is missing or not a number.
func (n Numeric) Decimal() (decimal.Decimal, bool) {
	if !n.Set || n.Raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(n.Raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var (
	minInt = decimal.NewFromInt(math.MinInt)
	maxInt = decimal.NewFromInt(math.MaxInt)
)

// Int parses the value as a whole number; "3.0" is accepted, "3.5" is not.
// Values that do not fit an int are rejected.
func (n Numeric) Int() (int, bool) {
	d, ok := n.Decimal()
	if !ok || !d.IsInteger() {
		return 0, false
	}
	if d.LessThan(minInt) || d.GreaterThan(maxInt) {
		return 0, false
	}
	return int(d.IntPart()), true
}

func Num(v string) Numeric {
	return Numeric{Raw: v, Set: true}
}
