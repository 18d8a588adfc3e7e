// Package pricing holds the monetary types and the rate-selection rules
// shared by the quotation and booking workflows.
package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// Money is a fixed-point monetary amount in cents. Fixed point keeps
// repeated edits free of floating rounding drift.
type Money int64

// ErrBadAmount reports an unparsable or over-precise amount.
var ErrBadAmount = errors.New("invalid monetary amount")

// ParseMoney parses a decimal string with at most two fraction digits.
// Negative amounts are accepted; rate fields reject them at validation.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadAmount)
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: more than two decimal places in %q", ErrBadAmount, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	var cents int64
	for _, part := range []string{whole, frac} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
			}
			cents = cents*10 + int64(c-'0')
		}
	}
	if neg {
		cents = -cents
	}
	return Money(cents), nil
}

// Cents returns an amount from a raw cent count.
func Cents(n int64) Money {
	return Money(n)
}

// String renders the amount with two decimal places.
func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return m - o
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// MarshalJSON encodes the amount as a bare decimal number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both numeric and quoted decimal forms.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ProfitAndLoss derives sell − buy. Undefined operands contribute zero,
// matching the workflows' coerce-at-finalize behavior.
func ProfitAndLoss(sell, buy *Money) Money {
	var s, b Money
	if sell != nil {
		s = *sell
	}
	if buy != nil {
		b = *buy
	}
	return s.Sub(b)
}

// Ptr returns a pointer to the amount, for optional fields.
func Ptr(m Money) *Money {
	return &m
}
