package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/finctrl/date"
)

type trimCmd struct {
	account string
	upto    string
}

func (*trimCmd) Name() string     { return "trim" }
func (*trimCmd) Synopsis() string { return "archive transactions up to a date" }
func (*trimCmd) Usage() string {
	return `fct trim -upto <date> [-account <key|name>]

  Deletes every transaction dated on or before the given date, for one
  account or all of them. Accounts left empty get a carry-over transaction
  so future balances stay continuous. This is irreversible; back up first.
`
}

func (c *trimCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Restrict the trim to one account.")
	f.StringVar(&c.upto, "upto", "", "Trim transactions dated on or before this date.")
}

func (c *trimCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	on, err := date.Parse(c.upto)
	if err != nil {
		return fail(err)
	}
	if c.account != "" {
		key, err := resolveAccount(s, c.account)
		if err != nil {
			return fail(err)
		}
		if err := s.TrimAccount(key, on); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}
	if err := s.Trim(on); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
