package finctrl

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/etnz/finctrl/date"
)

// Account holds money in a single currency, fixed at creation.
// Balance is a cached copy of the running balance of the account's last
// transaction; the store recomputes it on every mutation and it is never an
// independent source of truth.
type Account struct {
	Key      int64  // store-assigned, immutable
	Name     string // human-facing, used for lookup
	Balance  int64  // scaled integer, derived state
	Descr    string
	Currency string // currency name, fixed at creation
}

// AddAccount inserts a new account and assigns its key. The balance starts
// at 0 and an empty currency means the ledger default.
func (s *Store) AddAccount(a *Account) error {
	if a.Name == "" {
		return fmt.Errorf("%w: account must have a name", ErrValidation)
	}
	if a.Currency == "" {
		a.Currency = DefaultCurrencyName
	}
	return s.write(func(tx *sql.Tx) error {
		if _, err := currencyTx(tx, a.Currency); err != nil {
			return err
		}
		res, err := tx.Exec(`insert into accounts values(null,?,?,?,?)`,
			a.Name, 0, a.Descr, a.Currency)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		a.Key, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		a.Balance = 0
		s.log.Debug().Int64("account", a.Key).Str("name", a.Name).Msg("account added")
		return nil
	})
}

// EditAccount changes the account name and description. Key, currency and
// balance are immutable through this operation.
func (s *Store) EditAccount(key int64, name, descr string) error {
	if name == "" {
		return fmt.Errorf("%w: account must have a name", ErrValidation)
	}
	return s.write(func(tx *sql.Tx) error {
		ok, err := exists(tx, "accounts", "key", key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: account %d", ErrNotFound, key)
		}
		if _, err := tx.Exec(`update accounts set name=?, descr=? where key=?`, name, descr, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

// DeleteAccount removes an account and cascades the deletion to its
// transactions, their parcels and their tag associations.
func (s *Store) DeleteAccount(key int64) error {
	return s.write(func(tx *sql.Tx) error {
		ok, err := exists(tx, "accounts", "key", key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: account %d", ErrNotFound, key)
		}
		stmts := []string{
			`delete from parceltags where parcel in
			   (select P.key from parcels as P, transactions as T
			    where P.trans=T.key and T.account=?)`,
			`delete from parcels where trans in
			   (select key from transactions where account=?)`,
			`delete from transactions where account=?`,
			`delete from accounts where key=?`,
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt, key); err != nil {
				return fmt.Errorf("%w: %v", ErrStorage, err)
			}
		}
		s.log.Debug().Int64("account", key).Msg("account deleted")
		return nil
	})
}

// Account returns the account with the given key.
func (s *Store) Account(key int64) (Account, error) {
	return accountTx(s.db, key)
}

func accountTx(q queryer, key int64) (Account, error) {
	var a Account
	err := q.QueryRow(`select key, name, balance, descr, currency from accounts where key=?`, key).
		Scan(&a.Key, &a.Name, &a.Balance, &a.Descr, &a.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("%w: account %d", ErrNotFound, key)
	}
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return a, nil
}

// Accounts returns the accounts matching the name pattern (SQL LIKE), or all
// of them for an empty pattern.
func (s *Store) Accounts(name string) ([]Account, error) {
	stmt, args := `select key, name, balance, descr, currency from accounts`, []any{}
	if name != "" {
		stmt += ` where name like ?`
		args = append(args, name)
	}
	stmt += ` order by key`
	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var list []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.Key, &a.Name, &a.Balance, &a.Descr, &a.Currency); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return list, nil
}

// AccountKey resolves a key or name reference to an account key. A numeric
// reference is taken as a key when such an account exists; otherwise the
// reference is matched as a name pattern, and matching more than one account
// is an ambiguous reference.
func (s *Store) AccountKey(ref string) (int64, error) {
	if key, err := strconv.ParseInt(ref, 10, 64); err == nil {
		ok, err := exists(s.db, "accounts", "key", key)
		if err != nil {
			return 0, err
		}
		if ok {
			return key, nil
		}
	}
	rows, err := s.db.Query(`select key from accounts where name like ?`, ref)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var keys []int64
	for rows.Next() {
		var k int64
		if err := rows.Scan(&k); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	switch len(keys) {
	case 0:
		return 0, fmt.Errorf("%w: account %q", ErrNotFound, ref)
	case 1:
		return keys[0], nil
	default:
		return 0, fmt.Errorf("%w: %d accounts match %q", ErrAmbiguous, len(keys), ref)
	}
}

// AccountCurrency returns the currency profile of an account.
func (s *Store) AccountCurrency(key int64) (Currency, error) {
	a, err := s.Account(key)
	if err != nil {
		return Currency{}, err
	}
	return currencyTx(s.db, a.Currency)
}

// AccountBalance returns the account running balance as of the given date:
// the accbalance of the account's latest transaction dated on or before it.
// ok is false when the account has no transaction up to that date.
func (s *Store) AccountBalance(key int64, on date.Date) (balance int64, ok bool, err error) {
	if _, err := s.Account(key); err != nil {
		return 0, false, err
	}
	err = s.db.QueryRow(`select accbalance from transactions
		where account=? and date<=?
		order by date desc, key desc limit 1`, key, on.String()).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return balance, true, nil
}
