package finctrl

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnz/finctrl/date"
)

// Transaction is one dated entry of an account, owning one or more parcels.
// Amount and AccBalance are derived state: Amount is the sum of the parcel
// amounts and AccBalance the account running balance as of this transaction,
// under the (date, key) ordering of the account's transactions. The store
// re-establishes both on every mutation; they are never set directly.
type Transaction struct {
	Key        int64 // store-assigned, globally monotonic; tie-breaker within a date
	Account    int64 // owning account key
	Date       date.Date
	Descr      string
	Amount     int64 // sum of the parcel amounts
	AccBalance int64 // account running balance as of this transaction
	Parcels    []Parcel
}

// AddTransaction inserts a transaction with its parcels, assigns their keys,
// and re-establishes the running balances: the transaction's accbalance is
// its predecessor's plus its own amount, and every later transaction of the
// account shifts by the amount.
func (s *Store) AddTransaction(t *Transaction) error {
	return s.write(func(tx *sql.Tx) error {
		return s.addTransaction(tx, t)
	})
}

func (s *Store) addTransaction(tx *sql.Tx, t *Transaction) error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction must have a date", ErrValidation)
	}
	if len(t.Parcels) == 0 {
		return fmt.Errorf("%w: transaction must have at least one parcel", ErrValidation)
	}
	ok, err := exists(tx, "accounts", "key", t.Account)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: account %d", ErrNotFound, t.Account)
	}

	accbal, err := precedingBalance(tx, t.Account, t.Date, 0)
	if err != nil {
		return err
	}
	res, err := tx.Exec(`insert into transactions values(null,?,?,?,0,?)`,
		t.Account, t.Date.String(), t.Descr, accbal)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if t.Key, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	for i := range t.Parcels {
		p := &t.Parcels[i]
		p.Trans = t.Key
		res, err := tx.Exec(`insert into parcels values(null,?,?,?)`, p.Trans, p.Descr, p.Amount)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if p.Key, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		for _, tag := range p.Tags {
			if _, err := tx.Exec(`insert into parceltags values(?,?)`, p.Key, tag); err != nil {
				return fmt.Errorf("%w: %v", ErrStorage, err)
			}
		}
	}

	var total int64
	if err := tx.QueryRow(`select sum(amount) from parcels where trans=?`, t.Key).Scan(&total); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if _, err := tx.Exec(`update transactions set amount=? where key=?`, total, t.Key); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	t.Amount = total
	t.AccBalance = accbal + total

	// The cascade range (same date, key >= t.Key) includes the new row
	// itself, lifting its accbalance from the baseline to baseline+amount.
	if err := cascade(tx, t.Account, t.Date, t.Key, total); err != nil {
		return err
	}
	s.log.Debug().Int64("transaction", t.Key).Int64("account", t.Account).
		Int64("amount", total).Msg("transaction added")
	return nil
}

// DeleteTransaction removes a transaction and its parcels, then shifts every
// later transaction of the account back by the removed amount.
func (s *Store) DeleteTransaction(key int64) error {
	return s.write(func(tx *sql.Tx) error {
		return s.deleteTransaction(tx, key)
	})
}

func (s *Store) deleteTransaction(tx *sql.Tx, key int64) error {
	var account, amount int64
	var on string
	err := tx.QueryRow(`select account, amount, date from transactions where key=?`, key).
		Scan(&account, &amount, &on)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: transaction %d", ErrNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	day, err := date.Parse(on)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	stmts := []string{
		`delete from parceltags where parcel in (select key from parcels where trans=?)`,
		`delete from parcels where trans=?`,
		`delete from transactions where key=?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	if err := cascade(tx, account, day, key, -amount); err != nil {
		return err
	}
	s.log.Debug().Int64("transaction", key).Int64("account", account).Msg("transaction deleted")
	return nil
}

// EditTransactionDescr changes the transaction description.
func (s *Store) EditTransactionDescr(key int64, descr string) error {
	return s.write(func(tx *sql.Tx) error {
		ok, err := exists(tx, "transactions", "key", key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: transaction %d", ErrNotFound, key)
		}
		if _, err := tx.Exec(`update transactions set descr=? where key=?`, descr, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

// EditTransactionDate moves a transaction to another date: its contribution
// is removed at the old position, its balance recomputed from its
// predecessor at the new position, and every transaction after the new
// position shifted forward by its amount.
func (s *Store) EditTransactionDate(key int64, on date.Date) error {
	if on.IsZero() {
		return fmt.Errorf("%w: transaction must have a date", ErrValidation)
	}
	return s.write(func(tx *sql.Tx) error {
		var account, amount int64
		var old string
		err := tx.QueryRow(`select account, amount, date from transactions where key=?`, key).
			Scan(&account, &amount, &old)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: transaction %d", ErrNotFound, key)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		oldDay, err := date.Parse(old)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}

		if err := cascade(tx, account, oldDay, key, -amount); err != nil {
			return err
		}
		accbal, err := precedingBalance(tx, account, on, key)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`update transactions set date=?, accbalance=? where key=?`,
			on.String(), accbal, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := cascade(tx, account, on, key, amount); err != nil {
			return err
		}
		s.log.Debug().Int64("transaction", key).Str("date", on.String()).Msg("transaction moved")
		return nil
	})
}

// EditTransactionAccount moves a transaction to another account. It is a
// delete and re-add preserving date, description, parcels and tags, so the
// transaction and its parcels get fresh keys; the new transaction key is
// returned.
func (s *Store) EditTransactionAccount(key int64, account int64) (int64, error) {
	var newKey int64
	err := s.write(func(tx *sql.Tx) error {
		t, err := transactionTx(tx, key)
		if err != nil {
			return err
		}
		ok, err := exists(tx, "accounts", "key", account)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: account %d", ErrNotFound, account)
		}
		if err := s.deleteTransaction(tx, key); err != nil {
			return err
		}
		t.Key, t.Account, t.AccBalance = 0, account, 0
		for i := range t.Parcels {
			t.Parcels[i].Key, t.Parcels[i].Trans = 0, 0
		}
		if err := s.addTransaction(tx, &t); err != nil {
			return err
		}
		newKey = t.Key
		return nil
	})
	return newKey, err
}

// Transaction returns the transaction with the given key, parcels and tags
// included.
func (s *Store) Transaction(key int64) (Transaction, error) {
	return transactionTx(s.db, key)
}

func transactionTx(q queryer, key int64) (Transaction, error) {
	var t Transaction
	var on string
	err := q.QueryRow(`select key, account, date, descr, amount, accbalance
		from transactions where key=?`, key).
		Scan(&t.Key, &t.Account, &on, &t.Descr, &t.Amount, &t.AccBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, fmt.Errorf("%w: transaction %d", ErrNotFound, key)
	}
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if t.Date, err = date.Parse(on); err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if t.Parcels, err = parcelsByTransaction(q, key); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// TransactionFilter restricts a Transactions listing. The zero value selects
// everything.
type TransactionFilter struct {
	Account int64     // only this account, when non-zero
	DateMin date.Date // only transactions on or after, when set
	DateMax date.Date // only transactions on or before, when set
	Limit   int       // at most this many rows, when positive
}

// Transactions returns transactions matching the filter, most recent first
// within each account. Parcels are not filled; use Transaction for that.
func (s *Store) Transactions(f TransactionFilter) ([]Transaction, error) {
	stmt := `select key, account, date, descr, amount, accbalance from transactions`
	var conds []string
	var args []any
	if f.Account != 0 {
		conds = append(conds, `account=?`)
		args = append(args, f.Account)
	}
	if !f.DateMin.IsZero() {
		conds = append(conds, `date>=?`)
		args = append(args, f.DateMin.String())
	}
	if !f.DateMax.IsZero() {
		conds = append(conds, `date<=?`)
		args = append(args, f.DateMax.String())
	}
	for i, cond := range conds {
		if i == 0 {
			stmt += ` where ` + cond
		} else {
			stmt += ` and ` + cond
		}
	}
	stmt += ` order by account, date desc, key desc`
	if f.Limit > 0 {
		stmt += fmt.Sprintf(` limit %d`, f.Limit)
	}

	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var list []Transaction
	for rows.Next() {
		var t Transaction
		var on string
		if err := rows.Scan(&t.Key, &t.Account, &on, &t.Descr, &t.Amount, &t.AccBalance); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if t.Date, err = date.Parse(on); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return list, nil
}

// precedingBalance returns the accbalance baseline for a transaction of the
// account positioned at the given date: the accbalance of the closest
// transaction strictly before that position under the (date, key) order, or
// 0 when there is none. self (when non-zero) is the key of a transaction
// being repositioned, excluded from the search; a new transaction gets the
// highest key so every same-date row precedes it.
func precedingBalance(tx *sql.Tx, account int64, on date.Date, self int64) (int64, error) {
	var row *sql.Row
	if self == 0 {
		row = tx.QueryRow(`select accbalance from transactions
			where account=? and date<=?
			order by date desc, key desc limit 1`, account, on.String())
	} else {
		row = tx.QueryRow(`select accbalance from transactions
			where account=? and key<>? and (date<? or (date=? and key<?))
			order by date desc, key desc limit 1`,
			account, self, on.String(), on.String(), self)
	}
	var accbal int64
	err := row.Scan(&accbal)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return accbal, nil
}

// cascade adds delta to the accbalance of every transaction of the account
// at or after the (date, key) position: same date with key >= key, or any
// later date. It then refreshes the cached account balance. It is a pure
// additive shift, so its correctness relies on the running balances being
// consistent before the mutation.
func cascade(tx *sql.Tx, account int64, on date.Date, key int64, delta int64) error {
	if _, err := tx.Exec(`update transactions set accbalance=accbalance+?
		where date=? and key>=? and account=?`, delta, on.String(), key, account); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if _, err := tx.Exec(`update transactions set accbalance=accbalance+?
		where date>? and account=?`, delta, on.String(), account); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return refreshBalance(tx, account)
}

// refreshBalance sets the cached account balance to the accbalance of the
// account's last transaction, or 0 when it has none.
func refreshBalance(tx *sql.Tx, account int64) error {
	if _, err := tx.Exec(`update accounts
		set balance=coalesce((select accbalance from transactions
		                      where account=?
		                      order by date desc, key desc limit 1), 0)
		where key=?`, account, account); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
