package finctrl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// whitespace characters trimmed around a monetary text, besides the symbol.
const whitespace = " \t\n\v\f\r"

// Decode converts user-facing decimal text into the scaled integer
// representation of the currency (the value times 10^DecPlaces).
//
// The surrounding whitespace and currency symbol are stripped; anything else
// outside digits, a single leading sign and at most one decimal separator is
// rejected. The fractional part is truncated or right-padded to exactly
// DecPlaces digits before parsing, so the conversion is purely textual and
// never rounds.
func (c Currency) Decode(text string) (int64, error) {
	value := strings.Trim(text, c.Symbol+whitespace)
	if value == "" {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, text)
	}

	body := value
	if body[0] == '+' || body[0] == '-' {
		body = body[1:]
	}
	for _, r := range body {
		if r >= '0' && r <= '9' || string(r) == c.DecSep {
			continue
		}
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, text)
	}
	if strings.Count(value, c.DecSep) > 1 {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, text)
	}
	if !strings.ContainsAny(body, "0123456789") {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, text)
	}

	ip, fp, _ := strings.Cut(value, c.DecSep)
	if len(fp) > c.DecPlaces {
		fp = fp[:c.DecPlaces]
	}
	for len(fp) < c.DecPlaces {
		fp += "0"
	}

	n, err := strconv.ParseInt(ip+fp, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, text)
	}
	return n, nil
}

// Encode formats a scaled integer as user-facing text: the fraction is
// zero-padded to DecPlaces, joined with the decimal separator, and the
// currency symbol placed on the configured side.
//
// For every representable value v, c.Decode(c.Encode(v)) == v.
func (c Currency) Encode(v int64) string {
	// decimal keeps the scaled value exact and StringFixed zero-pads the
	// fraction, so the sign is applied once and nothing is rounded.
	s := decimal.New(v, -int32(c.DecPlaces)).StringFixed(int32(c.DecPlaces))
	if c.DecSep != "." {
		s = strings.Replace(s, ".", c.DecSep, 1)
	}
	switch {
	case c.Symbol == "":
		return s
	case c.SymbolPos == SymbolRight:
		return s + " " + c.Symbol
	default:
		return c.Symbol + " " + s
	}
}
