// Package finctrl implements a personal-ledger storage engine.
//
// A ledger is a single SQLite file holding currencies, accounts,
// transactions, parcels (transaction line items) and tags. Every amount is a
// scaled integer (value times 10^dec_places of the account currency), so no
// floating point ever touches money.
//
// The Store maintains, for every transaction, the account running balance as
// of that transaction (accbalance) and, for every account, the balance of its
// last transaction. Both are derived state: every mutation re-establishes
// them inside one storage transaction before returning.
package finctrl
