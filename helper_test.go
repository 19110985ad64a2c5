package finctrl

import (
	"path/filepath"
	"testing"

	"github.com/etnz/finctrl/date"
)

// testStore creates a fresh ledger file in a temporary directory.
func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Create(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testAccount opens an account in the default currency.
func testAccount(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	a := Account{Name: name}
	if err := s.AddAccount(&a); err != nil {
		t.Fatalf("AddAccount(%q) error: %v", name, err)
	}
	return a.Key
}

// addExpense records a single-parcel transaction and returns its key.
func addExpense(t *testing.T, s *Store, account int64, on date.Date, descr string, amount int64, tags ...string) int64 {
	t.Helper()
	tr := Transaction{
		Account: account,
		Date:    on,
		Descr:   descr,
		Parcels: []Parcel{{Descr: descr, Amount: amount, Tags: tags}},
	}
	if err := s.AddTransaction(&tr); err != nil {
		t.Fatalf("AddTransaction(%q) error: %v", descr, err)
	}
	return tr.Key
}

// balance reads the cached account balance.
func balance(t *testing.T, s *Store, account int64) int64 {
	t.Helper()
	a, err := s.Account(account)
	if err != nil {
		t.Fatalf("Account(%d) error: %v", account, err)
	}
	return a.Balance
}

// accBalance reads the running balance of one transaction.
func accBalance(t *testing.T, s *Store, trans int64) int64 {
	t.Helper()
	tr, err := s.Transaction(trans)
	if err != nil {
		t.Fatalf("Transaction(%d) error: %v", trans, err)
	}
	return tr.AccBalance
}
