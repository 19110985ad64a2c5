package finctrl

import "errors"

// Error kinds returned by the store. Operations wrap these with context, so
// callers match them with errors.Is.
var (
	// ErrValidation reports malformed input: empty names, bad decimal text,
	// an unparseable date, a symbol position that is neither left nor right.
	ErrValidation = errors.New("validation error")

	// ErrNotFound reports a reference to a non-existent account, transaction,
	// parcel or currency.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous reports a name or pattern that resolves to more than one record.
	ErrAmbiguous = errors.New("ambiguous reference")

	// ErrStorage reports an underlying persistence failure.
	ErrStorage = errors.New("storage failure")

	// ErrInvariant reports that a multi-step mutation could not complete
	// atomically and the ledger may need manual reconciliation.
	ErrInvariant = errors.New("invariant violation")
)
