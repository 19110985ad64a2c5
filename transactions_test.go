package finctrl

import (
	"errors"
	"testing"

	"github.com/etnz/finctrl/date"
)

func TestAddTransactionRunningBalance(t *testing.T) {
	s := testStore(t)
	key := testAccount(t, s, "bank")

	salary := addExpense(t, s, key, date.New(2024, 1, 5), "Salary", 100000)
	if got := accBalance(t, s, salary); got != 100000 {
		t.Errorf("salary accbalance = %d, want 100000", got)
	}
	if got := balance(t, s, key); got != 100000 {
		t.Errorf("account balance = %d, want 100000", got)
	}

	// A backdated transaction shifts every later one by its amount.
	rent := addExpense(t, s, key, date.New(2024, 1, 1), "Rent", -30000)
	if got := accBalance(t, s, rent); got != -30000 {
		t.Errorf("rent accbalance = %d, want -30000", got)
	}
	if got := accBalance(t, s, salary); got != 70000 {
		t.Errorf("salary accbalance after backdate = %d, want 70000", got)
	}
	if got := balance(t, s, key); got != 70000 {
		t.Errorf("account balance = %d, want 70000", got)
	}
}

func TestAddTransactionSameDateOrdering(t *testing.T) {
	s := testStore(t)
	key := testAccount(t, s, "bank")

	first := addExpense(t, s, key, date.New(2024, 3, 1), "first", 1000)
	second := addExpense(t, s, key, date.New(2024, 3, 1), "second", 200)
	third := addExpense(t, s, key, date.New(2024, 3, 1), "third", 30)

	// Same date orders by key: each balance builds on the previous one.
	for i, tc := range []struct {
		trans int64
		want  int64
	}{{first, 1000}, {second, 1200}, {third, 1230}} {
		if got := accBalance(t, s, tc.trans); got != tc.want {
			t.Errorf("transaction #%d accbalance = %d, want %d", i+1, got, tc.want)
		}
	}
}

func TestAddTransactionValidation(t *testing.T) {
	s := testStore(t)
	key := testAccount(t, s, "bank")

	err := s.AddTransaction(&Transaction{Account: key, Parcels: []Parcel{{Amount: 1}}})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("no date error = %v, want ErrValidation", err)
	}
	err = s.AddTransaction(&Transaction{Account: key, Date: date.Today()})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("no parcels error = %v, want ErrValidation", err)
	}
	err = s.AddTransaction(&Transaction{Account: 99, Date: date.Today(), Parcels: []Parcel{{Amount: 1}}})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown account error = %v, want ErrNotFound", err)
	}
}

func TestAddTransactionMultiParcel(t *testing.T) {
	s := testStore(t)
	key := testAccount(t, s, "bank")

	tr := Transaction{
		Account: key,
		Date:    date.New(2024, 2, 1),
		Descr:   "groceries",
		Parcels: []Parcel{
			{Descr: "food", Amount: -4000, Tags: []string{"food"}},
			{Descr: "soap", Amount: -250},
		},
	}
	if err := s.AddTransaction(&tr); err != nil {
		t.Fatalf("AddTransaction() error: %v", err)
	}
	if tr.Amount != -4250 {
		t.Errorf("Amount = %d, want the parcel sum -4250", tr.Amount)
	}
	if tr.Parcels[0].Key == 0 || tr.Parcels[1].Key == 0 {
		t.Error("parcels did not get keys")
	}

	got, err := s.Transaction(tr.Key)
	if err != nil {
		t.Fatalf("Transaction() error: %v", err)
	}
	if len(got.Parcels) != 2 || got.Amount != -4250 || got.AccBalance != -4250 {
		t.Errorf("stored transaction = %+v", got)
	}
	if len(got.Parcels[0].Tags) != 1 || got.Parcels[0].Tags[0] != "food" {
		t.Errorf("stored tags = %v", got.Parcels[0].Tags)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := testStore(t)
	key := testAccount(t, s, "bank")
	salary := addExpense(t, s, key, date.New(2024, 1, 5), "Salary", 100000)
	rent := addExpense(t, s, key, date.New(2024, 1, 1), "Rent", -30000)

	if err := s.DeleteTransaction(rent); err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	if got := accBalance(t, s, salary); got != 100000 {
		t.Errorf("salary accbalance after delete = %d, want 100000", got)
	}
	if got := balance(t, s, key); got != 100000 {
		t.Errorf("account balance after delete = %d, want 100000", got)
	}

	if err := s.DeleteTransaction(rent); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}

	// Deleting the last transaction resets the cached balance to 0.
	if err := s.DeleteTransaction(salary); err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	if got := balance(t, s, key); got != 0 {
		t.Errorf("account balance after last delete = %d, want 0", got)
	}
}

func TestEditTransactionDescr(t *testing.T) {
	s := testStore(t)
	key := testAccount(t, s, "bank")
	trans := addExpense(t, s, key, date.New(2024, 1, 5), "Salry", 100000)

	if err := s.EditTransactionDescr(trans, "Salary"); err != nil {
		t.Fatalf("EditTransactionDescr() error: %v", err)
	}
	got, err := s.Transaction(trans)
	if err != nil {
		t.Fatalf("Transaction() error: %v", err)
	}
	if got.Descr != "Salary" || got.AccBalance != 100000 {
		t.Errorf("transaction after edit = %+v", got)
	}
}

func TestEditTransactionDate(t *testing.T) {
	s := testStore(t)
	key := testAccount(t, s, "bank")
	salary := addExpense(t, s, key, date.New(2024, 1, 5), "Salary", 100000)
	rent := addExpense(t, s, key, date.New(2024, 1, 10), "Rent", -30000)

	// Moving the rent before the salary reorders the running balances.
	if err := s.EditTransactionDate(rent, date.New(2024, 1, 1)); err != nil {
		t.Fatalf("EditTransactionDate() error: %v", err)
	}
	if got := accBalance(t, s, rent); got != -30000 {
		t.Errorf("rent accbalance = %d, want -30000", got)
	}
	if got := accBalance(t, s, salary); got != 70000 {
		t.Errorf("salary accbalance = %d, want 70000", got)
	}
	if got := balance(t, s, key); got != 70000 {
		t.Errorf("account balance = %d, want 70000", got)
	}

	// Moving it back restores the original sequence.
	if err := s.EditTransactionDate(rent, date.New(2024, 1, 10)); err != nil {
		t.Fatalf("EditTransactionDate() error: %v", err)
	}
	if got := accBalance(t, s, salary); got != 100000 {
		t.Errorf("salary accbalance = %d, want 100000", got)
	}
	if got := accBalance(t, s, rent); got != 70000 {
		t.Errorf("rent accbalance = %d, want 70000", got)
	}
}

func TestEditTransactionAccount(t *testing.T) {
	s := testStore(t)
	bank := testAccount(t, s, "bank")
	wallet := testAccount(t, s, "wallet")
	trans := addExpense(t, s, bank, date.New(2024, 1, 5), "cash", -5000, "atm")

	moved, err := s.EditTransactionAccount(trans, wallet)
	if err != nil {
		t.Fatalf("EditTransactionAccount() error: %v", err)
	}
	if moved == trans {
		t.Error("moved transaction kept its key")
	}
	if _, err := s.Transaction(trans); !errors.Is(err, ErrNotFound) {
		t.Errorf("old key error = %v, want ErrNotFound", err)
	}

	got, err := s.Transaction(moved)
	if err != nil {
		t.Fatalf("Transaction(moved) error: %v", err)
	}
	if got.Account != wallet || got.Amount != -5000 {
		t.Errorf("moved transaction = %+v", got)
	}
	if len(got.Parcels) != 1 || got.Parcels[0].Tags[0] != "atm" {
		t.Errorf("moved parcels = %+v", got.Parcels)
	}
	if got := balance(t, s, bank); got != 0 {
		t.Errorf("source balance = %d, want 0", got)
	}
	if got := balance(t, s, wallet); got != -5000 {
		t.Errorf("destination balance = %d, want -5000", got)
	}
}

func TestTransactionsFilter(t *testing.T) {
	s := testStore(t)
	key := testAccount(t, s, "bank")
	addExpense(t, s, key, date.New(2024, 1, 1), "a", 100)
	addExpense(t, s, key, date.New(2024, 2, 1), "b", 200)
	addExpense(t, s, key, date.New(2024, 3, 1), "c", 300)

	list, err := s.Transactions(TransactionFilter{Account: key})
	if err != nil {
		t.Fatalf("Transactions() error: %v", err)
	}
	if len(list) != 3 || list[0].Descr != "c" || list[2].Descr != "a" {
		t.Errorf("unfiltered listing = %+v", list)
	}

	list, err = s.Transactions(TransactionFilter{
		Account: key,
		DateMin: date.New(2024, 1, 15),
		DateMax: date.New(2024, 2, 15),
	})
	if err != nil {
		t.Fatalf("Transactions() error: %v", err)
	}
	if len(list) != 1 || list[0].Descr != "b" {
		t.Errorf("date filtered listing = %+v", list)
	}

	list, err = s.Transactions(TransactionFilter{Account: key, Limit: 2})
	if err != nil {
		t.Fatalf("Transactions() error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("limited listing has %d rows, want 2", len(list))
	}
}
