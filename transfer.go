package finctrl

import (
	"errors"
	"fmt"

	"github.com/etnz/finctrl/date"
)

// AddTransfer records a movement between two accounts as a pair of
// transactions: a debit on the source and a credit on the destination, both
// dated the same day and carrying the same description and tags.
//
// The two legs are committed independently. When the credit leg fails the
// debit leg is deleted again so the store never keeps half a transfer; if
// that compensation itself fails the store is left inconsistent and the
// returned error says so.
func (s *Store) AddTransfer(on date.Date, descr string, from, to int64, amount int64, tags []string) (debit, credit int64, err error) {
	if amount <= 0 {
		return 0, 0, fmt.Errorf("%w: transfer amount must be positive", ErrValidation)
	}
	if from == to {
		return 0, 0, fmt.Errorf("%w: transfer requires two distinct accounts", ErrValidation)
	}

	out := Transaction{
		Account: from,
		Date:    on,
		Descr:   descr,
		Parcels: []Parcel{{Descr: descr, Amount: -amount, Tags: tags}},
	}
	if err := s.AddTransaction(&out); err != nil {
		return 0, 0, err
	}

	in := Transaction{
		Account: to,
		Date:    on,
		Descr:   descr,
		Parcels: []Parcel{{Descr: descr, Amount: amount, Tags: tags}},
	}
	if err := s.AddTransaction(&in); err != nil {
		if derr := s.DeleteTransaction(out.Key); derr != nil {
			return 0, 0, errors.Join(
				fmt.Errorf("%w: transfer left a dangling debit %d", ErrInvariant, out.Key),
				err, derr)
		}
		return 0, 0, err
	}
	s.log.Debug().Int64("debit", out.Key).Int64("credit", in.Key).
		Int64("amount", amount).Msg("transfer recorded")
	return out.Key, in.Key, nil
}
