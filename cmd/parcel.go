package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/finctrl"
	"github.com/etnz/finctrl/date"
	"github.com/etnz/finctrl/renderer"
)

type addParcelCmd struct {
	trans  int64
	descr  string
	amount string
	tags   string
}

func (*addParcelCmd) Name() string     { return "add-parcel" }
func (*addParcelCmd) Synopsis() string { return "add a parcel to a transaction" }
func (*addParcelCmd) Usage() string {
	return `fct add-parcel -trans <key> -descr <text> -amount <text> [-tags <t1,t2>]

  Adds a line item to an existing transaction and re-propagates running
  balances.
`
}

func (c *addParcelCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.trans, "trans", 0, "Transaction key.")
	f.StringVar(&c.descr, "descr", "", "Parcel description.")
	f.StringVar(&c.amount, "amount", "", "Amount in the account's currency.")
	f.StringVar(&c.tags, "tags", "", "Comma separated tags.")
}

func (c *addParcelCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	t, err := s.Transaction(c.trans)
	if err != nil {
		return fail(err)
	}
	cur, err := s.AccountCurrency(t.Account)
	if err != nil {
		return fail(err)
	}
	amount, err := cur.Decode(c.amount)
	if err != nil {
		return fail(err)
	}

	p := finctrl.Parcel{Trans: c.trans, Descr: c.descr, Amount: amount, Tags: splitTags(c.tags)}
	if err := s.AddParcel(&p); err != nil {
		return fail(err)
	}
	fmt.Printf("Parcel %d added\n", p.Key)
	return subcommands.ExitSuccess
}

type editParcelCmd struct {
	parcel int64
	descr  string
	amount string
}

func (*editParcelCmd) Name() string     { return "edit-parcel" }
func (*editParcelCmd) Synopsis() string { return "edit a parcel" }
func (*editParcelCmd) Usage() string {
	return `fct edit-parcel -parcel <key> [-descr <text>] [-amount <text>]

  Changes a parcel's description or amount; amount changes re-propagate
  running balances.
`
}

func (c *editParcelCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.parcel, "parcel", 0, "Parcel key.")
	f.StringVar(&c.descr, "descr", "", "New description.")
	f.StringVar(&c.amount, "amount", "", "New amount in the account's currency.")
}

func (c *editParcelCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if c.descr != "" {
		if err := s.EditParcelDescr(c.parcel, c.descr); err != nil {
			return fail(err)
		}
	}
	if c.amount != "" {
		cur, err := s.ParcelCurrency(c.parcel)
		if err != nil {
			return fail(err)
		}
		amount, err := cur.Decode(c.amount)
		if err != nil {
			return fail(err)
		}
		if err := s.EditParcelAmount(c.parcel, amount); err != nil {
			return fail(err)
		}
	}
	return subcommands.ExitSuccess
}

type deleteParcelCmd struct {
	parcel int64
}

func (*deleteParcelCmd) Name() string     { return "delete-parcel" }
func (*deleteParcelCmd) Synopsis() string { return "delete a parcel" }
func (*deleteParcelCmd) Usage() string {
	return `fct delete-parcel -parcel <key>

  Removes a line item from its transaction and re-propagates running
  balances.
`
}

func (c *deleteParcelCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.parcel, "parcel", 0, "Parcel key.")
}

func (c *deleteParcelCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.DeleteParcel(c.parcel); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type parcelsCmd struct {
	trans   int64
	tags    string
	from    string
	to      string
	limit   int
	csvFile string
	csvSep  string
}

func (*parcelsCmd) Name() string     { return "parcels" }
func (*parcelsCmd) Synopsis() string { return "list parcels of a transaction, by tag, or by date" }
func (*parcelsCmd) Usage() string {
	return `fct parcels -trans <key>
fct parcels [-tags <patterns>] [-from <date>] [-to <date>] [-limit <n>] [-csv <file> [-sep <c>]]

  Lists the parcels of one transaction, every parcel in a date range, or
  every parcel carrying a tag matching one of the comma separated patterns
  (SQL LIKE). Range and by-tag listings can be exported to a CSV file.
`
}

func (c *parcelsCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.trans, "trans", 0, "Transaction key to list parcels of.")
	f.StringVar(&c.tags, "tags", "", "Comma separated tag patterns to search for.")
	f.StringVar(&c.from, "from", "", "Earliest date to list.")
	f.StringVar(&c.to, "to", "", "Latest date to list.")
	f.IntVar(&c.limit, "limit", 0, "Show at most N parcels.")
	f.StringVar(&c.csvFile, "csv", "", "Export the listing to this CSV file.")
	f.StringVar(&c.csvSep, "sep", ",", "CSV field separator.")
}

func (c *parcelsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if c.trans != 0 {
		t, err := s.Transaction(c.trans)
		if err != nil {
			return fail(err)
		}
		cur, err := s.AccountCurrency(t.Account)
		if err != nil {
			return fail(err)
		}
		printMarkdown(renderer.ParcelsMarkdown(t, cur))
		return subcommands.ExitSuccess
	}

	patterns := splitTags(c.tags)
	var min, max date.Date
	if c.from != "" {
		if min, err = date.Parse(c.from); err != nil {
			return fail(err)
		}
	}
	if c.to != "" {
		if max, err = date.Parse(c.to); err != nil {
			return fail(err)
		}
	}
	var list []finctrl.TaggedParcel
	if len(patterns) == 0 {
		list, err = s.Parcels(min, max, c.limit)
	} else {
		list, err = s.ParcelsByTag(patterns, min, max, c.limit)
	}
	if err != nil {
		return fail(err)
	}

	rows := make([]renderer.TagRow, 0, len(list))
	for _, tp := range list {
		cur, err := s.ParcelCurrency(tp.Parcel)
		if err != nil {
			return fail(err)
		}
		rows = append(rows, renderer.TagRow{
			Parcel: tp.Parcel,
			Date:   tp.Date.String(),
			Trans:  tp.Trans,
			Descr:  tp.Descr,
			Amount: cur.Encode(tp.Amount),
		})
	}

	if c.csvFile != "" {
		return c.export(rows)
	}
	title := "Parcels"
	if c.tags != "" {
		title = "Parcels tagged " + c.tags
	}
	printMarkdown(renderer.ParcelsByTagMarkdown(title, rows))
	return subcommands.ExitSuccess
}

func (c *parcelsCmd) export(rows []renderer.TagRow) subcommands.ExitStatus {
	sep := []rune(c.csvSep)
	if len(sep) != 1 {
		return fail(fmt.Errorf("%w: CSV separator must be a single character", finctrl.ErrValidation))
	}
	out, err := os.Create(c.csvFile)
	if err != nil {
		return fail(err)
	}
	defer out.Close()

	headers := []string{"parcel", "date", "trans", "descr", "amount"}
	if err := finctrl.ExportCSV(out, sep[0], headers, renderer.CSVRows(rows)); err != nil {
		return fail(err)
	}
	fmt.Printf("Exported %d parcels to %s\n", len(rows), c.csvFile)
	return subcommands.ExitSuccess
}
