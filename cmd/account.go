package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/finctrl"
	"github.com/etnz/finctrl/renderer"
)

type addAccountCmd struct {
	name     string
	descr    string
	currency string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "open a new account" }
func (*addAccountCmd) Usage() string {
	return `fct add-account -name <name> [-descr <text>] [-currency <name>]

  Opens an account bound to a currency. Without -currency the account uses
  the currency named by the ledger's currency metadata.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name.")
	f.StringVar(&c.descr, "descr", "", "Account description.")
	f.StringVar(&c.currency, "currency", "", "Currency name.")
}

func (c *addAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	currency := c.currency
	if currency == "" {
		if currency, err = s.Metadata(finctrl.MetaCurrency); err != nil {
			return fail(err)
		}
	}
	a := finctrl.Account{Name: c.name, Descr: c.descr, Currency: currency}
	if err := s.AddAccount(&a); err != nil {
		return fail(err)
	}
	fmt.Printf("Account %q created with key %d\n", a.Name, a.Key)
	return subcommands.ExitSuccess
}

type editAccountCmd struct {
	account string
	name    string
	descr   string
}

func (*editAccountCmd) Name() string     { return "edit-account" }
func (*editAccountCmd) Synopsis() string { return "edit an account's name or description" }
func (*editAccountCmd) Usage() string {
	return `fct edit-account -account <key|name> [-name <name>] [-descr <text>]

  Renames or re-describes an account. Its currency and history are untouched.
`
}

func (c *editAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account key or name pattern.")
	f.StringVar(&c.name, "name", "", "New account name.")
	f.StringVar(&c.descr, "descr", "", "New account description.")
}

func (c *editAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	key, err := resolveAccount(s, c.account)
	if err != nil {
		return fail(err)
	}
	a, err := s.Account(key)
	if err != nil {
		return fail(err)
	}
	if c.name != "" {
		a.Name = c.name
	}
	if c.descr != "" {
		a.Descr = c.descr
	}
	if err := s.EditAccount(key, a.Name, a.Descr); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type deleteAccountCmd struct {
	account string
}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete an account and its history" }
func (*deleteAccountCmd) Usage() string {
	return `fct delete-account -account <key|name>

  Deletes an account with all its transactions, parcels and tags.
`
}

func (c *deleteAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account key or name pattern.")
}

func (c *deleteAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	key, err := resolveAccount(s, c.account)
	if err != nil {
		return fail(err)
	}
	if err := s.DeleteAccount(key); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type accountsCmd struct {
	pattern string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts" }
func (*accountsCmd) Usage() string {
	return `fct accounts [-n <pattern>]

  Lists accounts with their cached balances, optionally filtered by a name
  pattern (SQL LIKE).
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pattern, "n", "%", "Name pattern to filter on.")
}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	accounts, err := s.Accounts(c.pattern)
	if err != nil {
		return fail(err)
	}
	currencies, err := s.Currencies("")
	if err != nil {
		return fail(err)
	}
	curs := make(map[string]finctrl.Currency, len(currencies))
	for _, cur := range currencies {
		curs[cur.Name] = cur
	}
	printMarkdown(renderer.AccountsMarkdown(accounts, curs))
	return subcommands.ExitSuccess
}

type balanceCmd struct {
	account string
	on      string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show an account balance" }
func (*balanceCmd) Usage() string {
	return `fct balance -account <key|name> [-on <date>]

  Prints the account balance. With -on, the running balance as of that date
  is computed from the transaction history instead of the cache.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account key or name pattern.")
	f.StringVar(&c.on, "on", "", "Date to report the balance at (YYYY-MM-DD).")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	key, err := resolveAccount(s, c.account)
	if err != nil {
		return fail(err)
	}
	a, err := s.Account(key)
	if err != nil {
		return fail(err)
	}
	cur, err := s.AccountCurrency(key)
	if err != nil {
		return fail(err)
	}

	balance := a.Balance
	if c.on != "" {
		on, err := parseDate(c.on)
		if err != nil {
			return fail(err)
		}
		v, ok, err := s.AccountBalance(key, on)
		if err != nil {
			return fail(err)
		}
		if !ok {
			fmt.Printf("%s: no transactions on or before %s\n", a.Name, on)
			return subcommands.ExitSuccess
		}
		balance = v
	}
	fmt.Printf("%s: %s\n", a.Name, cur.Encode(balance))
	return subcommands.ExitSuccess
}
