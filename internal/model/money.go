package model

import (
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in Rappen (1/100 CHF). It encodes to JSON as a CHF
// decimal number, e.g. 12900 -> 129.00.
type Money int64

// CHF builds a Money value from whole francs and rappen.
func CHF(francs, rappen int64) Money {
	return Money(francs*100 + rappen)
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if uq, err := strconv.Unquote(s); err == nil {
		s = uq
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid CHF amount %q", s)
	}
	*m = Money(math.Round(f * 100))
	return nil
}
