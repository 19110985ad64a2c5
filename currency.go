package finctrl

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
)

// Symbol positions accepted by Currency.SymbolPos.
const (
	SymbolLeft  = "left"
	SymbolRight = "right"
)

// DefaultCurrencyName is the name of the currency every new ledger is seeded
// with. Accounts created without an explicit currency use it.
const DefaultCurrencyName = "default"

// Currency is a fixed-point formatting profile. Name is its permanent
// identity: currencies are created once and edited in place, never renamed.
type Currency struct {
	Name      string // unique identifier, immutable once created
	ShortName string // short display name, e.g. an ISO-4217 code
	Symbol    string // display symbol, e.g. "€"
	SymbolPos string // SymbolLeft or SymbolRight
	DecPlaces int    // number of implied fractional digits
	DecSep    string // single display character separating the fraction
}

// DefaultCurrency returns the currency a new ledger is seeded with:
// two decimal places, '.' separator, no symbol.
func DefaultCurrency() Currency {
	return Currency{Name: DefaultCurrencyName, SymbolPos: SymbolLeft, DecPlaces: 2, DecSep: "."}
}

// Validate checks the currency profile for correctness.
func (c Currency) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: currency must have a name", ErrValidation)
	}
	if c.SymbolPos != SymbolLeft && c.SymbolPos != SymbolRight {
		return fmt.Errorf("%w: currency symbol position must be %q or %q, got %q",
			ErrValidation, SymbolLeft, SymbolRight, c.SymbolPos)
	}
	if c.DecPlaces < 0 {
		return fmt.Errorf("%w: currency decimal places must not be negative, got %d",
			ErrValidation, c.DecPlaces)
	}
	if utf8.RuneCountInString(c.DecSep) != 1 {
		return fmt.Errorf("%w: currency decimal separator must be a single character, got %q",
			ErrValidation, c.DecSep)
	}
	if strings.ContainsAny(c.DecSep, "+-0123456789") {
		return fmt.Errorf("%w: currency decimal separator %q conflicts with number syntax",
			ErrValidation, c.DecSep)
	}
	return nil
}

// FillFromISO completes empty profile fields from the ISO-4217 table and
// reports whether the short name is a known code. An unknown code leaves the
// profile untouched.
func (c *Currency) FillFromISO() bool {
	iso := money.GetCurrency(strings.ToUpper(c.ShortName))
	if iso == nil {
		return false
	}
	if c.Symbol == "" {
		c.Symbol = iso.Grapheme
	}
	if c.SymbolPos == "" {
		// Template is "$1" for left-positioned symbols and "1 $" otherwise.
		if strings.HasPrefix(iso.Template, "$") {
			c.SymbolPos = SymbolLeft
		} else {
			c.SymbolPos = SymbolRight
		}
	}
	if c.DecPlaces == 0 {
		c.DecPlaces = iso.Fraction
	}
	if c.DecSep == "" {
		c.DecSep = iso.Decimal
	}
	return true
}
