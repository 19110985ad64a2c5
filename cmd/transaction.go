package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/finctrl"
	"github.com/etnz/finctrl/date"
	"github.com/etnz/finctrl/renderer"
)

// parcelList collects repeatable -parcel flag values.
type parcelList []string

func (p *parcelList) String() string     { return strings.Join(*p, " ") }
func (p *parcelList) Set(v string) error { *p = append(*p, v); return nil }

// parseParcel parses a -parcel flag value of the form "descr|amount" with
// optional comma separated tags as a third field.
func parseParcel(cur finctrl.Currency, value string) (finctrl.Parcel, error) {
	parts := strings.Split(value, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return finctrl.Parcel{}, fmt.Errorf("%w: parcel %q is not of the form \"descr|amount[|tags]\"",
			finctrl.ErrValidation, value)
	}
	amount, err := cur.Decode(strings.TrimSpace(parts[1]))
	if err != nil {
		return finctrl.Parcel{}, err
	}
	p := finctrl.Parcel{Descr: strings.TrimSpace(parts[0]), Amount: amount}
	if len(parts) == 3 {
		p.Tags = splitTags(parts[2])
	}
	return p, nil
}

type addTransactionCmd struct {
	account string
	date    string
	descr   string
	amount  string
	tags    string
	parcels parcelList
}

func (*addTransactionCmd) Name() string { return "add-transaction" }
func (*addTransactionCmd) Synopsis() string {
	return "record a transaction with one or more parcels"
}
func (*addTransactionCmd) Usage() string {
	return `fct add-transaction -account <key|name> -amount <text> [-descr <text>] [-date <date>] [-tags <t1,t2>]
fct add-transaction -account <key|name> -parcel "<descr>|<amount>[|<t1,t2>]" ... [-descr <text>] [-date <date>]

  Records a transaction. With -amount it holds a single parcel; -parcel may
  be repeated to record several line items in one transaction. Amounts are
  recorded verbatim, negative for spending.
`
}

func (c *addTransactionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account key or name pattern.")
	f.StringVar(&c.date, "date", "", "Transaction date (defaults to today).")
	f.StringVar(&c.descr, "descr", "", "Transaction description.")
	f.StringVar(&c.amount, "amount", "", "Amount of a single-parcel transaction.")
	f.StringVar(&c.tags, "tags", "", "Comma separated tags for a single-parcel transaction.")
	f.Var(&c.parcels, "parcel", "Line item as \"descr|amount[|tags]\"; repeatable.")
}

func (c *addTransactionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.amount == "") == (len(c.parcels) == 0) {
		return fail(fmt.Errorf("%w: exactly one of -amount or -parcel is required", finctrl.ErrValidation))
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	key, err := resolveAccount(s, c.account)
	if err != nil {
		return fail(err)
	}
	cur, err := s.AccountCurrency(key)
	if err != nil {
		return fail(err)
	}
	on, err := parseDate(c.date)
	if err != nil {
		return fail(err)
	}

	var parcels []finctrl.Parcel
	if c.amount != "" {
		amount, err := cur.Decode(c.amount)
		if err != nil {
			return fail(err)
		}
		parcels = []finctrl.Parcel{{Descr: c.descr, Amount: amount, Tags: splitTags(c.tags)}}
	} else {
		for _, v := range c.parcels {
			p, err := parseParcel(cur, v)
			if err != nil {
				return fail(err)
			}
			parcels = append(parcels, p)
		}
	}

	t := finctrl.Transaction{Account: key, Date: on, Descr: c.descr, Parcels: parcels}
	if err := s.AddTransaction(&t); err != nil {
		return fail(err)
	}
	fmt.Printf("Transaction %d recorded, balance %s\n", t.Key, cur.Encode(t.AccBalance))
	return subcommands.ExitSuccess
}

// simpleTransaction records a single-parcel transaction for the expense,
// deposit and withdrawal shorthands. An empty description falls back to the
// ledger metadata value under metaKey, when given. A negating shorthand
// books positive input as spending.
func simpleTransaction(account, dateText, descr, metaKey, amountText, tags string, negate bool) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	key, err := resolveAccount(s, account)
	if err != nil {
		return fail(err)
	}
	cur, err := s.AccountCurrency(key)
	if err != nil {
		return fail(err)
	}
	if descr == "" && metaKey != "" {
		if descr, err = s.Metadata(metaKey); err != nil {
			return fail(err)
		}
	}
	amount, err := cur.Decode(amountText)
	if err != nil {
		return fail(err)
	}
	if negate {
		amount = -amount
	}
	on, err := parseDate(dateText)
	if err != nil {
		return fail(err)
	}

	t := finctrl.Transaction{
		Account: key,
		Date:    on,
		Descr:   descr,
		Parcels: []finctrl.Parcel{{Descr: descr, Amount: amount, Tags: splitTags(tags)}},
	}
	if err := s.AddTransaction(&t); err != nil {
		return fail(err)
	}
	fmt.Printf("Transaction %d recorded, balance %s\n", t.Key, cur.Encode(t.AccBalance))
	return subcommands.ExitSuccess
}

type expenseCmd struct {
	account string
	date    string
	descr   string
	amount  string
	tags    string
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record a spending transaction" }
func (*expenseCmd) Usage() string {
	return `fct expense -account <key|name> -descr <text> -amount <text> [-date <date>] [-tags <t1,t2>]

  Records a single-parcel transaction with the amount negated: an amount of
  12.50 books a 12.50 spending.
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account key or name pattern.")
	f.StringVar(&c.date, "date", "", "Transaction date (defaults to today).")
	f.StringVar(&c.descr, "descr", "", "Transaction description.")
	f.StringVar(&c.amount, "amount", "", "Spent amount in the account's currency.")
	f.StringVar(&c.tags, "tags", "", "Comma separated tags for the parcel.")
}

func (c *expenseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return simpleTransaction(c.account, c.date, c.descr, "", c.amount, c.tags, true)
}

type depositCmd struct {
	account string
	date    string
	descr   string
	amount  string
	tags    string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record an incoming transaction" }
func (*depositCmd) Usage() string {
	return `fct deposit -account <key|name> -amount <text> [-descr <text>] [-date <date>] [-tags <t1,t2>]

  Records a single-parcel incoming transaction. Without -descr the ledger's
  deposit metadata text is used.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account key or name pattern.")
	f.StringVar(&c.date, "date", "", "Transaction date (defaults to today).")
	f.StringVar(&c.descr, "descr", "", "Description (defaults from ledger metadata).")
	f.StringVar(&c.amount, "amount", "", "Deposited amount in the account's currency.")
	f.StringVar(&c.tags, "tags", "", "Comma separated tags for the parcel.")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return simpleTransaction(c.account, c.date, c.descr, finctrl.MetaDeposit, c.amount, c.tags, false)
}

type withdrawalCmd struct {
	account string
	date    string
	descr   string
	amount  string
	tags    string
}

func (*withdrawalCmd) Name() string     { return "withdrawal" }
func (*withdrawalCmd) Synopsis() string { return "record an outgoing transaction" }
func (*withdrawalCmd) Usage() string {
	return `fct withdrawal -account <key|name> -amount <text> [-descr <text>] [-date <date>] [-tags <t1,t2>]

  Records a single-parcel transaction with the amount negated. Without -descr
  the ledger's withdrawal metadata text is used.
`
}

func (c *withdrawalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account key or name pattern.")
	f.StringVar(&c.date, "date", "", "Transaction date (defaults to today).")
	f.StringVar(&c.descr, "descr", "", "Description (defaults from ledger metadata).")
	f.StringVar(&c.amount, "amount", "", "Withdrawn amount in the account's currency.")
	f.StringVar(&c.tags, "tags", "", "Comma separated tags for the parcel.")
}

func (c *withdrawalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return simpleTransaction(c.account, c.date, c.descr, finctrl.MetaWithdrawal, c.amount, c.tags, true)
}

type transactionsCmd struct {
	account string
	from    string
	to      string
	limit   int
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list transactions of an account" }
func (*transactionsCmd) Usage() string {
	return `fct transactions -account <key|name> [-from <date>] [-to <date>] [-limit <n>]

  Lists transactions of an account, most recent first, with running balances.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account key or name pattern.")
	f.StringVar(&c.from, "from", "", "Earliest date to list.")
	f.StringVar(&c.to, "to", "", "Latest date to list.")
	f.IntVar(&c.limit, "limit", 0, "Show at most N transactions.")
}

func (c *transactionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	filter := finctrl.TransactionFilter{Account: key, Limit: c.limit}
	if c.from != "" {
		if filter.DateMin, err = date.Parse(c.from); err != nil {
			return fail(err)
		}
	}
	if c.to != "" {
		if filter.DateMax, err = date.Parse(c.to); err != nil {
			return fail(err)
		}
	}
	list, err := s.Transactions(filter)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.TransactionsMarkdown(a, cur, list))
	return subcommands.ExitSuccess
}

type editTransactionCmd struct {
	trans   int64
	descr   string
	date    string
	account string
}

func (*editTransactionCmd) Name() string     { return "edit-transaction" }
func (*editTransactionCmd) Synopsis() string { return "edit a transaction" }
func (*editTransactionCmd) Usage() string {
	return `fct edit-transaction -trans <key> [-descr <text>] [-date <date>] [-account <key|name>]

  Changes a transaction's description, date or account. Date and account
  changes re-propagate running balances; moving to another account assigns
  fresh keys to the transaction and its parcels.
`
}

func (c *editTransactionCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.trans, "trans", 0, "Transaction key.")
	f.StringVar(&c.descr, "descr", "", "New description.")
	f.StringVar(&c.date, "date", "", "New date.")
	f.StringVar(&c.account, "account", "", "New account key or name pattern.")
}

func (c *editTransactionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if c.descr != "" {
		if err := s.EditTransactionDescr(c.trans, c.descr); err != nil {
			return fail(err)
		}
	}
	if c.date != "" {
		on, err := date.Parse(c.date)
		if err != nil {
			return fail(err)
		}
		if err := s.EditTransactionDate(c.trans, on); err != nil {
			return fail(err)
		}
	}
	if c.account != "" {
		key, err := resolveAccount(s, c.account)
		if err != nil {
			return fail(err)
		}
		moved, err := s.EditTransactionAccount(c.trans, key)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Transaction moved, new key %d\n", moved)
	}
	return subcommands.ExitSuccess
}

type deleteTransactionCmd struct {
	trans int64
}

func (*deleteTransactionCmd) Name() string     { return "delete-transaction" }
func (*deleteTransactionCmd) Synopsis() string { return "delete a transaction" }
func (*deleteTransactionCmd) Usage() string {
	return `fct delete-transaction -trans <key>

  Deletes a transaction with its parcels and tags, and re-propagates the
  account's running balances.
`
}

func (c *deleteTransactionCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.trans, "trans", 0, "Transaction key.")
}

func (c *deleteTransactionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.DeleteTransaction(c.trans); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
