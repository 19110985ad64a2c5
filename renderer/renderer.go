// Package renderer turns store listings into markdown, ready to be printed
// through glamour or exported as plain text.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/etnz/finctrl"
)

// AccountsMarkdown renders an account listing. Balances are encoded with each
// account's own currency, looked up in curs by name.
func AccountsMarkdown(accounts []finctrl.Account, curs map[string]finctrl.Currency) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Accounts")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft,
		},
		Header: []string{"Key", "Name", "Description", "Balance", "Currency"},
	}
	for _, a := range accounts {
		balance := fmt.Sprintf("%d", a.Balance)
		if c, ok := curs[a.Currency]; ok {
			balance = c.Encode(a.Balance)
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", a.Key), a.Name, a.Descr, balance, a.Currency,
		})
	}
	doc.Table(table)
	return doc.String()
}

// CurrenciesMarkdown renders the currency registry.
func CurrenciesMarkdown(currencies []finctrl.Currency) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Currencies")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft,
		},
		Header: []string{"Name", "Short", "Symbol", "Position", "Places", "Separator"},
	}
	for _, c := range currencies {
		table.Rows = append(table.Rows, []string{
			c.Name, c.ShortName, c.Symbol, c.SymbolPos,
			fmt.Sprintf("%d", c.DecPlaces), c.DecSep,
		})
	}
	doc.Table(table)
	return doc.String()
}

// TransactionsMarkdown renders the transactions of one account, amounts and
// running balances encoded in the account's currency.
func TransactionsMarkdown(account finctrl.Account, cur finctrl.Currency, list []finctrl.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Transactions of %s", account.Name))
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Key", "Date", "Description", "Amount", "Balance"},
	}
	for _, t := range list {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", t.Key), t.Date.String(), t.Descr,
			cur.Encode(t.Amount), cur.Encode(t.AccBalance),
		})
	}
	doc.Table(table)
	return doc.String()
}

// ParcelsMarkdown renders the parcels of one transaction.
func ParcelsMarkdown(t finctrl.Transaction, cur finctrl.Currency) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Transaction %d: %s (%s)", t.Key, t.Descr, t.Date))
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight, md.AlignLeft, md.AlignRight, md.AlignLeft,
		},
		Header: []string{"Key", "Description", "Amount", "Tags"},
	}
	for _, p := range t.Parcels {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", p.Key), p.Descr, cur.Encode(p.Amount), joinTags(p.Tags),
		})
	}
	table.Rows = append(table.Rows, []string{"", "Total", cur.Encode(t.Amount), ""})
	doc.Table(table)
	return doc.String()
}

// TagRow is one line of a by-tag listing. Amounts arrive already encoded
// because rows may span accounts with different currencies.
type TagRow struct {
	Parcel int64
	Date   string
	Trans  int64
	Descr  string
	Amount string
}

// ParcelsByTagMarkdown renders a by-tag parcel listing.
func ParcelsByTagMarkdown(title string, rows []TagRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight, md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignRight,
		},
		Header: []string{"Parcel", "Date", "Trans", "Description", "Amount"},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", r.Parcel), r.Date, fmt.Sprintf("%d", r.Trans), r.Descr, r.Amount,
		})
	}
	doc.Table(table)
	return doc.String()
}

// TagsMarkdown renders the tag list with use counts.
func TagsMarkdown(tags []finctrl.TagCount) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Tags")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Tag", "Parcels"},
	}
	for _, tc := range tags {
		table.Rows = append(table.Rows, []string{tc.Tag, fmt.Sprintf("%d", tc.Count)})
	}
	doc.Table(table)
	return doc.String()
}
