package finctrl

import (
	"database/sql"
	"fmt"
)

// AddCurrency inserts a new currency. Empty profile fields are first
// completed from the ISO-4217 table when the short name is a known code.
func (s *Store) AddCurrency(c Currency) error {
	c.FillFromISO()
	if c.SymbolPos == "" {
		c.SymbolPos = SymbolLeft
	}
	if c.DecSep == "" {
		c.DecSep = "."
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return s.write(func(tx *sql.Tx) error {
		ok, err := exists(tx, "currencies", "name", c.Name)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: currency %q already exists", ErrValidation, c.Name)
		}
		if _, err := tx.Exec(`insert into currencies values(?,?,?,?,?,?)`,
			c.Name, c.ShortName, c.Symbol, c.SymbolPos, c.DecPlaces, c.DecSep); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		s.log.Debug().Str("currency", c.Name).Msg("currency added")
		return nil
	})
}

// EditCurrency changes every field of the named currency except its name.
func (s *Store) EditCurrency(c Currency) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.write(func(tx *sql.Tx) error {
		ok, err := exists(tx, "currencies", "name", c.Name)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: currency %q", ErrNotFound, c.Name)
		}
		if _, err := tx.Exec(`update currencies set short_name=?, symbol=?, symbol_pos=?,
			dec_places=?, dec_sep=? where name=?`,
			c.ShortName, c.Symbol, c.SymbolPos, c.DecPlaces, c.DecSep, c.Name); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

// Currency returns the single currency matching the name pattern.
// Patterns follow SQL LIKE syntax; a pattern matching several currencies is
// an ambiguous reference.
func (s *Store) Currency(name string) (Currency, error) {
	list, err := s.Currencies(name)
	if err != nil {
		return Currency{}, err
	}
	switch len(list) {
	case 0:
		return Currency{}, fmt.Errorf("%w: currency %q", ErrNotFound, name)
	case 1:
		return list[0], nil
	default:
		return Currency{}, fmt.Errorf("%w: %d currencies match %q", ErrAmbiguous, len(list), name)
	}
}

// Currencies returns the currencies matching the name pattern, or all of
// them for an empty pattern.
func (s *Store) Currencies(name string) ([]Currency, error) {
	stmt, args := `select name, short_name, symbol, symbol_pos, dec_places, dec_sep from currencies`, []any{}
	if name != "" {
		stmt += ` where name like ?`
		args = append(args, name)
	}
	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var list []Currency
	for rows.Next() {
		var c Currency
		if err := rows.Scan(&c.Name, &c.ShortName, &c.Symbol, &c.SymbolPos, &c.DecPlaces, &c.DecSep); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return list, nil
}

// currencyTx reads a currency by exact name inside a transaction scope.
func currencyTx(q queryer, name string) (Currency, error) {
	var c Currency
	err := q.QueryRow(`select name, short_name, symbol, symbol_pos, dec_places, dec_sep
		from currencies where name=?`, name).
		Scan(&c.Name, &c.ShortName, &c.Symbol, &c.SymbolPos, &c.DecPlaces, &c.DecSep)
	if err == sql.ErrNoRows {
		return Currency{}, fmt.Errorf("%w: currency %q", ErrNotFound, name)
	}
	if err != nil {
		return Currency{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return c, nil
}
