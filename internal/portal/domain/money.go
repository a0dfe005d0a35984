package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a currency amount in minor units (cents). The portal never mixes
// currencies, so no currency code is carried.
type Money int64

var ErrInvalidMoney = errors.New("invalid money amount")

// Cents builds a Money from a minor-unit count.
func Cents(c int64) Money { return Money(c) }

// Units builds a Money from whole major units.
func Units(u int64) Money { return Money(u * 100) }

// ParseMoney reads a decimal string such as "500", "500.5" or "500.50".
// Signs, exponents and more than two fractional digits are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMoney
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" || (hasDot && frac == "") || len(frac) > 2 {
		return 0, ErrInvalidMoney
	}
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, ErrInvalidMoney
			}
		}
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100-1 {
		return 0, ErrInvalidMoney
	}
	var cents int64
	if frac != "" {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}
	return Money(units*100 + cents), nil
}

// IsPositive reports whether m is strictly greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// Cents returns the minor-unit count.
func (m Money) Cents() int64 { return int64(m) }

// String formats m with exactly two fractional digits.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
