package finctrl

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/finctrl/date"
)

// Parcel is a single line item of a transaction. Its amount is a scaled
// integer in the currency of the owning account.
type Parcel struct {
	Key    int64 // store-assigned, globally monotonic
	Trans  int64 // owning transaction key
	Descr  string
	Amount int64
	Tags   []string
}

// AddParcel inserts a parcel into an existing transaction, adjusts the
// transaction amount and cascades the delta through the account's later
// running balances.
func (s *Store) AddParcel(p *Parcel) error {
	return s.write(func(tx *sql.Tx) error {
		var account int64
		var on string
		err := tx.QueryRow(`select account, date from transactions where key=?`, p.Trans).
			Scan(&account, &on)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: transaction %d", ErrNotFound, p.Trans)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		day, err := date.Parse(on)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}

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
		if _, err := tx.Exec(`update transactions set amount=amount+? where key=?`, p.Amount, p.Trans); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := cascade(tx, account, day, p.Trans, p.Amount); err != nil {
			return err
		}
		s.log.Debug().Int64("parcel", p.Key).Int64("transaction", p.Trans).
			Int64("amount", p.Amount).Msg("parcel added")
		return nil
	})
}

// EditParcelDescr changes the parcel description.
func (s *Store) EditParcelDescr(key int64, descr string) error {
	return s.write(func(tx *sql.Tx) error {
		ok, err := exists(tx, "parcels", "key", key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: parcel %d", ErrNotFound, key)
		}
		if _, err := tx.Exec(`update parcels set descr=? where key=?`, descr, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

// EditParcelAmount changes the parcel amount and cascades the difference
// through the owning transaction and the account's later running balances.
func (s *Store) EditParcelAmount(key int64, amount int64) error {
	return s.write(func(tx *sql.Tx) error {
		trans, account, day, old, err := parcelPosition(tx, key)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`update parcels set amount=? where key=?`, amount, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if _, err := tx.Exec(`update transactions set amount=amount+? where key=?`, amount-old, trans); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return cascade(tx, account, day, trans, amount-old)
	})
}

// DeleteParcel removes a parcel and its tag associations, and cascades the
// removed amount like a transaction-level change would.
func (s *Store) DeleteParcel(key int64) error {
	return s.write(func(tx *sql.Tx) error {
		trans, account, day, amount, err := parcelPosition(tx, key)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`delete from parceltags where parcel=?`, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if _, err := tx.Exec(`delete from parcels where key=?`, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if _, err := tx.Exec(`update transactions set amount=amount-? where key=?`, amount, trans); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return cascade(tx, account, day, trans, -amount)
	})
}

// parcelPosition locates a parcel's owning transaction, account, date and
// current amount, the context every balance-affecting parcel mutation needs.
func parcelPosition(tx *sql.Tx, key int64) (trans, account int64, day date.Date, amount int64, err error) {
	err = tx.QueryRow(`select trans, amount from parcels where key=?`, key).Scan(&trans, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: parcel %d", ErrNotFound, key)
		return
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrStorage, err)
		return
	}
	var on string
	if err = tx.QueryRow(`select account, date from transactions where key=?`, trans).
		Scan(&account, &on); err != nil {
		err = fmt.Errorf("%w: %v", ErrStorage, err)
		return
	}
	if day, err = date.Parse(on); err != nil {
		err = fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return
}

// Parcel returns the parcel with the given key, tags included.
func (s *Store) Parcel(key int64) (Parcel, error) {
	var p Parcel
	err := s.db.QueryRow(`select key, trans, descr, amount from parcels where key=?`, key).
		Scan(&p.Key, &p.Trans, &p.Descr, &p.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return Parcel{}, fmt.Errorf("%w: parcel %d", ErrNotFound, key)
	}
	if err != nil {
		return Parcel{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if p.Tags, err = tagsByParcel(s.db, p.Key); err != nil {
		return Parcel{}, err
	}
	return p, nil
}

// ParcelsByTransaction returns the parcels of a transaction, tags included.
func (s *Store) ParcelsByTransaction(trans int64) ([]Parcel, error) {
	return parcelsByTransaction(s.db, trans)
}

func parcelsByTransaction(q queryer, trans int64) ([]Parcel, error) {
	rows, err := q.Query(`select key, trans, descr, amount from parcels where trans=?`, trans)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var list []Parcel
	for rows.Next() {
		var p Parcel
		if err := rows.Scan(&p.Key, &p.Trans, &p.Descr, &p.Amount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	for i := range list {
		if list[i].Tags, err = tagsByParcel(q, list[i].Key); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// TaggedParcel is one row of a by-tag listing: a parcel located by the date
// and key of its owning transaction.
type TaggedParcel struct {
	Parcel int64
	Date   date.Date
	Trans  int64
	Descr  string
	Amount int64
}

// Parcels returns all parcels, most recent first, optionally bounded by
// dates and row count.
func (s *Store) Parcels(min, max date.Date, limit int) ([]TaggedParcel, error) {
	var args []any
	stmt := `select P.key, T.date, T.key, P.descr, P.amount
		from transactions as T, parcels as P
		where P.trans=T.key`
	if !min.IsZero() {
		stmt += ` and T.date>=?`
		args = append(args, min.String())
	}
	if !max.IsZero() {
		stmt += ` and T.date<=?`
		args = append(args, max.String())
	}
	stmt += ` order by T.date desc, T.key desc, P.key`
	if limit > 0 {
		stmt += fmt.Sprintf(` limit %d`, limit)
	}
	return s.taggedParcels(stmt, args...)
}

// ParcelsByTag returns the parcels carrying at least one tag matching one of
// the patterns (SQL LIKE), most recent first, optionally bounded by dates
// and row count.
func (s *Store) ParcelsByTag(patterns []string, min, max date.Date, limit int) ([]TaggedParcel, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: at least one tag pattern is required", ErrValidation)
	}
	var args []any
	likes := make([]string, len(patterns))
	for i, p := range patterns {
		likes[i] = `PT.tag like ?`
		args = append(args, p)
	}
	stmt := `select distinct P.key, T.date, T.key, P.descr, P.amount
		from transactions as T, parcels as P, parceltags as PT
		where PT.parcel=P.key and P.trans=T.key and (` + strings.Join(likes, ` or `) + `)`
	if !min.IsZero() {
		stmt += ` and T.date>=?`
		args = append(args, min.String())
	}
	if !max.IsZero() {
		stmt += ` and T.date<=?`
		args = append(args, max.String())
	}
	stmt += ` order by T.date desc, T.key desc, P.key`
	if limit > 0 {
		stmt += fmt.Sprintf(` limit %d`, limit)
	}
	return s.taggedParcels(stmt, args...)
}

func (s *Store) taggedParcels(stmt string, args ...any) ([]TaggedParcel, error) {
	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var list []TaggedParcel
	for rows.Next() {
		var tp TaggedParcel
		var on string
		if err := rows.Scan(&tp.Parcel, &on, &tp.Trans, &tp.Descr, &tp.Amount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if tp.Date, err = date.Parse(on); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		list = append(list, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return list, nil
}

// ParcelAccount returns the account a parcel transitively belongs to.
func (s *Store) ParcelAccount(key int64) (Account, error) {
	var a Account
	err := s.db.QueryRow(`select A.key, A.name, A.balance, A.descr, A.currency
		from accounts as A, transactions as T, parcels as P
		where P.key=? and T.key=P.trans and A.key=T.account`, key).
		Scan(&a.Key, &a.Name, &a.Balance, &a.Descr, &a.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("%w: parcel %d", ErrNotFound, key)
	}
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return a, nil
}

// ParcelCurrency returns the currency a parcel's amount is scaled in.
func (s *Store) ParcelCurrency(key int64) (Currency, error) {
	a, err := s.ParcelAccount(key)
	if err != nil {
		return Currency{}, err
	}
	return currencyTx(s.db, a.Currency)
}

// AddParcelTag associates a tag with a parcel. Tagging never affects
// balances.
func (s *Store) AddParcelTag(key int64, tag string) error {
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("%w: tag must not be empty", ErrValidation)
	}
	return s.write(func(tx *sql.Tx) error {
		ok, err := exists(tx, "parcels", "key", key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: parcel %d", ErrNotFound, key)
		}
		if _, err := tx.Exec(`insert into parceltags values(?,?)`, key, tag); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

// DelParcelTag removes a tag from a parcel.
func (s *Store) DelParcelTag(key int64, tag string) error {
	return s.write(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`delete from parceltags where parcel=? and tag=?`, key, tag); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

// RenameTag renames a tag on every parcel carrying it.
func (s *Store) RenameTag(from, to string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("%w: tag must not be empty", ErrValidation)
	}
	return s.write(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`update parceltags set tag=? where tag=?`, to, from); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

// DeleteTag removes a tag from every parcel carrying it.
func (s *Store) DeleteTag(tag string) error {
	return s.write(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`delete from parceltags where tag=?`, tag); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

// TagCount is one row of the tag listing: a tag and how many parcels use it.
type TagCount struct {
	Tag   string
	Count int
}

// Tags returns every distinct tag with its use count.
func (s *Store) Tags() ([]TagCount, error) {
	rows, err := s.db.Query(`select T, (select count() from parceltags where tag=T)
		from (select distinct tag as T from parceltags) order by T`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var list []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		list = append(list, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return list, nil
}

// TagsByParcel returns the tags of one parcel.
func (s *Store) TagsByParcel(key int64) ([]string, error) {
	return tagsByParcel(s.db, key)
}

func tagsByParcel(q queryer, key int64) ([]string, error) {
	rows, err := q.Query(`select tag from parceltags where parcel=? order by tag`, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return tags, nil
}
