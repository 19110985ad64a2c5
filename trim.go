package finctrl

import (
	"database/sql"
	"fmt"

	"github.com/etnz/finctrl/date"
)

// carryOverDescr labels the synthetic transaction inserted when a trim
// empties an account.
const carryOverDescr = "Trim carry-over"

// Trim deletes every transaction dated on or before the given date, for
// every account. Accounts left without transactions receive a synthetic
// carry-over entry dated exactly on, holding the account's pre-trim balance,
// so their running-balance sequence survives the purge. Trim is not
// reversible.
func (s *Store) Trim(on date.Date) error {
	if on.IsZero() {
		return fmt.Errorf("%w: trim requires a date", ErrValidation)
	}
	return s.write(func(tx *sql.Tx) error {
		rows, err := tx.Query(`select key from accounts`)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		var keys []int64
		for rows.Next() {
			var k int64
			if err := rows.Scan(&k); err != nil {
				rows.Close()
				return fmt.Errorf("%w: %v", ErrStorage, err)
			}
			keys = append(keys, k)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		rows.Close()

		for _, k := range keys {
			if err := s.trimAccount(tx, k, on); err != nil {
				return err
			}
		}
		return nil
	})
}

// TrimAccount is Trim restricted to a single account.
func (s *Store) TrimAccount(key int64, on date.Date) error {
	if on.IsZero() {
		return fmt.Errorf("%w: trim requires a date", ErrValidation)
	}
	return s.write(func(tx *sql.Tx) error {
		ok, err := exists(tx, "accounts", "key", key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: account %d", ErrNotFound, key)
		}
		return s.trimAccount(tx, key, on)
	})
}

// trimAccount deletes the account's transactions up to a date without any
// balance cascade: the surviving rows already include the purged history in
// their accbalance, and accounts.balance stays valid. The cached balance is
// read after the delete and before the carry-over insert; nothing else may
// touch it in between.
func (s *Store) trimAccount(tx *sql.Tx, key int64, on date.Date) error {
	sel := `select key from transactions where account=? and date<=?`
	if _, err := tx.Exec(`delete from parceltags where parcel in
		(select key from parcels where trans in (`+sel+`))`, key, on.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if _, err := tx.Exec(`delete from parcels where trans in (`+sel+`)`, key, on.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	res, err := tx.Exec(`delete from transactions where account=? and date<=?`, key, on.String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	purged, _ := res.RowsAffected()

	var left int
	if err := tx.QueryRow(`select count() from transactions where account=?`, key).
		Scan(&left); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if left > 0 {
		s.log.Debug().Int64("account", key).Int64("purged", purged).Msg("account trimmed")
		return nil
	}

	var balance int64
	if err := tx.QueryRow(`select balance from accounts where key=?`, key).
		Scan(&balance); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	t := Transaction{
		Account: key,
		Date:    on,
		Descr:   carryOverDescr,
		Parcels: []Parcel{{Descr: carryOverDescr, Amount: balance}},
	}
	if err := s.addTransaction(tx, &t); err != nil {
		return err
	}
	s.log.Debug().Int64("account", key).Int64("purged", purged).
		Int64("carryover", t.Key).Msg("account trimmed to carry-over")
	return nil
}
