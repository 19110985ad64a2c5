package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/finctrl"
)

type transferCmd struct {
	from   string
	to     string
	amount string
	descr  string
	date   string
	tags   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `fct transfer -from <key|name> -to <key|name> -amount <text> [-descr <text>] [-date <date>] [-tags <t1,t2>]

  Records a debit on the source account and a credit on the destination, as
  one all-or-nothing operation. Both accounts must share a currency.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source account key or name pattern.")
	f.StringVar(&c.to, "to", "", "Destination account key or name pattern.")
	f.StringVar(&c.amount, "amount", "", "Positive amount to move.")
	f.StringVar(&c.descr, "descr", "", "Description for both legs (defaults from ledger metadata).")
	f.StringVar(&c.date, "date", "", "Transfer date (defaults to today).")
	f.StringVar(&c.tags, "tags", "", "Comma separated tags for both legs.")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	from, err := resolveAccount(s, c.from)
	if err != nil {
		return fail(err)
	}
	to, err := s.AccountKey(c.to)
	if err != nil {
		return fail(err)
	}
	fromCur, err := s.AccountCurrency(from)
	if err != nil {
		return fail(err)
	}
	toCur, err := s.AccountCurrency(to)
	if err != nil {
		return fail(err)
	}
	if fromCur.Name != toCur.Name {
		return fail(fmt.Errorf("%w: accounts use different currencies (%s, %s)",
			finctrl.ErrValidation, fromCur.Name, toCur.Name))
	}
	amount, err := fromCur.Decode(c.amount)
	if err != nil {
		return fail(err)
	}
	on, err := parseDate(c.date)
	if err != nil {
		return fail(err)
	}
	descr := c.descr
	if descr == "" {
		if descr, err = s.Metadata(finctrl.MetaTransfer); err != nil {
			return fail(err)
		}
	}

	debit, credit, err := s.AddTransfer(on, descr, from, to, amount, splitTags(c.tags))
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Transfer recorded: debit %d, credit %d\n", debit, credit)
	return subcommands.ExitSuccess
}
