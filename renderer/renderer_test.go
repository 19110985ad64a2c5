package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/finctrl"
	"github.com/etnz/finctrl/date"
)

func TestAccountsMarkdown(t *testing.T) {
	eur := finctrl.Currency{Name: "euro", Symbol: "€", SymbolPos: finctrl.SymbolRight, DecPlaces: 2, DecSep: ","}
	accounts := []finctrl.Account{
		{Key: 1, Name: "bank", Descr: "checking", Balance: 123456, Currency: "euro"},
		{Key: 2, Name: "wallet", Balance: -500, Currency: "euro"},
	}
	got := AccountsMarkdown(accounts, map[string]finctrl.Currency{"euro": eur})

	for _, want := range []string{"# Accounts", "bank", "checking", "1234,56 €", "-5,00 €"} {
		if !strings.Contains(got, want) {
			t.Errorf("AccountsMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestTransactionsMarkdown(t *testing.T) {
	usd := finctrl.DefaultCurrency()
	usd.Symbol = "$"
	account := finctrl.Account{Key: 1, Name: "bank", Currency: "default"}
	list := []finctrl.Transaction{
		{Key: 3, Date: date.New(2024, 1, 5), Descr: "Salary", Amount: 100000, AccBalance: 70000},
	}
	got := TransactionsMarkdown(account, usd, list)

	for _, want := range []string{"Transactions of bank", "2024-01-05", "Salary", "$ 1000.00", "$ 700.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("TransactionsMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestParcelsMarkdownTotalRow(t *testing.T) {
	cur := finctrl.DefaultCurrency()
	tr := finctrl.Transaction{
		Key: 7, Date: date.New(2024, 2, 1), Descr: "groceries", Amount: -4250,
		Parcels: []finctrl.Parcel{
			{Key: 11, Descr: "food", Amount: -4000, Tags: []string{"home", "food"}},
			{Key: 12, Descr: "soap", Amount: -250},
		},
	}
	got := ParcelsMarkdown(tr, cur)

	for _, want := range []string{"Transaction 7", "home, food", "-42.50", "Total"} {
		if !strings.Contains(got, want) {
			t.Errorf("ParcelsMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestParcelsByTagMarkdownAndCSV(t *testing.T) {
	rows := []TagRow{
		{Parcel: 4, Date: "2024-03-01", Trans: 2, Descr: "fuel", Amount: "-30.00"},
	}
	got := ParcelsByTagMarkdown("Parcels tagged car", rows)
	if !strings.Contains(got, "Parcels tagged car") || !strings.Contains(got, "fuel") {
		t.Errorf("ParcelsByTagMarkdown() = %q", got)
	}

	csv := CSVRows(rows)
	if len(csv) != 1 || csv[0][0] != "4" || csv[0][4] != "-30.00" {
		t.Errorf("CSVRows() = %v", csv)
	}
}

func TestTagsMarkdown(t *testing.T) {
	got := TagsMarkdown([]finctrl.TagCount{{Tag: "car", Count: 3}, {Tag: "home", Count: 1}})
	if !strings.Contains(got, "car") || !strings.Contains(got, "3") {
		t.Errorf("TagsMarkdown() = %q", got)
	}
}
