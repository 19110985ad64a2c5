package cmd

import (
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"

	"github.com/etnz/finctrl"
)

// testLedger points the -f flag at a fresh ledger file and returns its path.
func testLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	old := *storeFile
	*storeFile = path
	t.Cleanup(func() { *storeFile = old })
	return path
}

// prepare runs fn on the test ledger, creating it if needed.
func prepare(t *testing.T, path string, fn func(s *finctrl.Store)) {
	t.Helper()
	s, err := finctrl.Create(path)
	if err != nil {
		t.Fatalf("Create(%q) error: %v", path, err)
	}
	fn(s)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

// run executes a command the way the commander would, without flag parsing.
func run(t *testing.T, c subcommands.Command) {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	if got := c.Execute(context.Background(), f); got != subcommands.ExitSuccess {
		t.Fatalf("%s returned %v, want success", c.Name(), got)
	}
}

func soleTransaction(t *testing.T, path string, account int64) finctrl.Transaction {
	t.Helper()
	s, err := finctrl.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	list, err := s.Transactions(finctrl.TransactionFilter{Account: account})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("account %d has %d transactions, want 1", account, len(list))
	}
	full, err := s.Transaction(list[0].Key)
	if err != nil {
		t.Fatal(err)
	}
	return full
}

func TestExpenseRecordsNegated(t *testing.T) {
	path := testLedger(t)
	var bank int64
	prepare(t, path, func(s *finctrl.Store) {
		a := finctrl.Account{Name: "bank"}
		if err := s.AddAccount(&a); err != nil {
			t.Fatal(err)
		}
		bank = a.Key
	})

	run(t, &expenseCmd{account: "bank", descr: "coffee", amount: "12.50"})

	got := soleTransaction(t, path, bank)
	if got.Amount != -1250 || got.Descr != "coffee" {
		t.Errorf("expense recorded %+v, want amount -1250", got)
	}
}

func TestAddTransactionParcels(t *testing.T) {
	path := testLedger(t)
	var bank int64
	prepare(t, path, func(s *finctrl.Store) {
		a := finctrl.Account{Name: "bank"}
		if err := s.AddAccount(&a); err != nil {
			t.Fatal(err)
		}
		bank = a.Key
	})

	run(t, &addTransactionCmd{
		account: "bank",
		descr:   "shopping",
		parcels: parcelList{"food|-12.50|food,home", "wine|-8.00"},
	})

	got := soleTransaction(t, path, bank)
	if got.Amount != -2050 {
		t.Errorf("transaction amount = %d, want -2050", got.Amount)
	}
	if len(got.Parcels) != 2 {
		t.Fatalf("transaction has %d parcels, want 2", len(got.Parcels))
	}
	if got.Parcels[0].Descr != "food" || got.Parcels[0].Amount != -1250 {
		t.Errorf("first parcel = %+v", got.Parcels[0])
	}
	if len(got.Parcels[0].Tags) != 2 {
		t.Errorf("first parcel tags = %v, want food and home", got.Parcels[0].Tags)
	}
	if got.Parcels[1].Descr != "wine" || got.Parcels[1].Amount != -800 {
		t.Errorf("second parcel = %+v", got.Parcels[1])
	}
}

func TestAddTransactionRequiresAmountOrParcels(t *testing.T) {
	testLedger(t)
	c := &addTransactionCmd{account: "bank"}
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	if got := c.Execute(context.Background(), f); got != subcommands.ExitUsageError {
		t.Errorf("add-transaction without -amount or -parcel returned %v, want usage error", got)
	}
}

func TestDepositAndWithdrawalDefaults(t *testing.T) {
	path := testLedger(t)
	var bank int64
	prepare(t, path, func(s *finctrl.Store) {
		a := finctrl.Account{Name: "bank"}
		if err := s.AddAccount(&a); err != nil {
			t.Fatal(err)
		}
		bank = a.Key
	})

	run(t, &depositCmd{account: "bank", amount: "100.00"})
	run(t, &withdrawalCmd{account: "bank", amount: "30.00"})

	s, err := finctrl.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	list, err := s.Transactions(finctrl.TransactionFilter{Account: bank})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("account has %d transactions, want 2", len(list))
	}
	byDescr := map[string]int64{}
	for _, tr := range list {
		byDescr[tr.Descr] = tr.Amount
	}
	if byDescr["Deposit"] != 10000 {
		t.Errorf("deposit = %+v, want descr Deposit amount 10000", list)
	}
	if byDescr["Withdrawal"] != -3000 {
		t.Errorf("withdrawal = %+v, want descr Withdrawal amount -3000", list)
	}
}

func TestTransferDefaultDescription(t *testing.T) {
	path := testLedger(t)
	var bank, wallet int64
	prepare(t, path, func(s *finctrl.Store) {
		a := finctrl.Account{Name: "bank"}
		b := finctrl.Account{Name: "wallet"}
		if err := s.AddAccount(&a); err != nil {
			t.Fatal(err)
		}
		if err := s.AddAccount(&b); err != nil {
			t.Fatal(err)
		}
		bank, wallet = a.Key, b.Key
		if err := s.SetMetadata(finctrl.MetaTransfer, "Virement"); err != nil {
			t.Fatal(err)
		}
	})

	run(t, &transferCmd{from: "bank", to: "wallet", amount: "10.00"})

	debit := soleTransaction(t, path, bank)
	credit := soleTransaction(t, path, wallet)
	if debit.Descr != "Virement" || credit.Descr != "Virement" {
		t.Errorf("transfer legs = %q, %q, want the metadata description", debit.Descr, credit.Descr)
	}
	if debit.Amount != -1000 || credit.Amount != 1000 {
		t.Errorf("transfer amounts = %d, %d", debit.Amount, credit.Amount)
	}
}

func TestAddAccountCurrencyFromMetadata(t *testing.T) {
	path := testLedger(t)
	prepare(t, path, func(s *finctrl.Store) {
		if err := s.AddCurrency(finctrl.Currency{Name: "eur", ShortName: "EUR"}); err != nil {
			t.Fatal(err)
		}
		if err := s.SetMetadata(finctrl.MetaCurrency, "eur"); err != nil {
			t.Fatal(err)
		}
	})

	run(t, &addAccountCmd{name: "bank"})

	s, err := finctrl.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	key, err := s.AccountKey("bank")
	if err != nil {
		t.Fatal(err)
	}
	cur, err := s.AccountCurrency(key)
	if err != nil {
		t.Fatal(err)
	}
	if cur.Name != "eur" {
		t.Errorf("account currency = %q, want eur from metadata", cur.Name)
	}
}

func TestAddCurrencyISODefaults(t *testing.T) {
	path := testLedger(t)

	// places is the flag's unset sentinel, -1 when not given.
	run(t, &addCurrencyCmd{name: "yen", short: "JPY", places: -1})
	run(t, &addCurrencyCmd{name: "points", places: -1})

	s, err := finctrl.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	yen, err := s.Currency("yen")
	if err != nil {
		t.Fatal(err)
	}
	if yen.DecPlaces != 0 || yen.Symbol != "¥" {
		t.Errorf("yen = %+v, want 0 decimal places and the yen sign from ISO", yen)
	}

	points, err := s.Currency("points")
	if err != nil {
		t.Fatal(err)
	}
	if points.DecPlaces != 2 || points.DecSep != "." {
		t.Errorf("points = %+v, want the default currency profile", points)
	}
}
