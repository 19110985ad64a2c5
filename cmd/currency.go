package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/finctrl"
	"github.com/etnz/finctrl/renderer"
)

type addCurrencyCmd struct {
	name   string
	short  string
	symbol string
	pos    string
	places int
	sep    string
}

func (*addCurrencyCmd) Name() string     { return "add-currency" }
func (*addCurrencyCmd) Synopsis() string { return "define a new currency" }
func (*addCurrencyCmd) Usage() string {
	return `fct add-currency -name <name> [-short <code>] [-symbol <s>] [-pos left|right] [-places <n>] [-sep <c>]

  Defines a fixed-point formatting profile accounts can be bound to. When
  -short is an ISO 4217 code, symbol and decimal places default from it.
`
}

func (c *addCurrencyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Unique currency name.")
	f.StringVar(&c.short, "short", "", "Short name, ideally an ISO 4217 code.")
	f.StringVar(&c.symbol, "symbol", "", "Display symbol.")
	f.StringVar(&c.pos, "pos", "", "Symbol position: left or right.")
	f.IntVar(&c.places, "places", -1, "Number of decimal places.")
	f.StringVar(&c.sep, "sep", "", "Decimal separator character.")
}

func (c *addCurrencyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	// Fields left empty default from the ISO table when -short is a known
	// code, then from the default currency profile.
	cur := finctrl.Currency{Name: c.name, ShortName: c.short, Symbol: c.symbol, SymbolPos: c.pos, DecSep: c.sep}
	known := cur.FillFromISO()
	if c.places >= 0 {
		cur.DecPlaces = c.places
	}
	if !known && c.places < 0 {
		def, err := s.Currency(finctrl.DefaultCurrencyName)
		if err != nil {
			return fail(err)
		}
		cur.DecPlaces = def.DecPlaces
		if cur.DecSep == "" {
			cur.DecSep = def.DecSep
		}
		if cur.SymbolPos == "" {
			cur.SymbolPos = def.SymbolPos
		}
	}
	if err := s.AddCurrency(cur); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type editCurrencyCmd struct {
	name   string
	short  string
	symbol string
	pos    string
	places int
	sep    string
}

func (*editCurrencyCmd) Name() string     { return "edit-currency" }
func (*editCurrencyCmd) Synopsis() string { return "edit an existing currency" }
func (*editCurrencyCmd) Usage() string {
	return `fct edit-currency -name <name> [-short <code>] [-symbol <s>] [-pos left|right] [-places <n>] [-sep <c>]

  Changes the formatting profile of a currency. The name itself is immutable.
`
}

func (c *editCurrencyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Currency name.")
	f.StringVar(&c.short, "short", "", "New short name.")
	f.StringVar(&c.symbol, "symbol", "", "New display symbol.")
	f.StringVar(&c.pos, "pos", "", "New symbol position: left or right.")
	f.IntVar(&c.places, "places", -1, "New number of decimal places.")
	f.StringVar(&c.sep, "sep", "", "New decimal separator character.")
}

func (c *editCurrencyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	cur, err := s.Currency(c.name)
	if err != nil {
		return fail(err)
	}
	if c.short != "" {
		cur.ShortName = c.short
	}
	if c.symbol != "" {
		cur.Symbol = c.symbol
	}
	if c.pos != "" {
		cur.SymbolPos = c.pos
	}
	if c.places >= 0 {
		cur.DecPlaces = c.places
	}
	if c.sep != "" {
		cur.DecSep = c.sep
	}
	if err := s.EditCurrency(cur); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type currenciesCmd struct {
	pattern string
}

func (*currenciesCmd) Name() string     { return "currencies" }
func (*currenciesCmd) Synopsis() string { return "list currencies" }
func (*currenciesCmd) Usage() string {
	return `fct currencies [-n <pattern>]

  Lists the currency registry, optionally filtered by a name pattern (SQL LIKE).
`
}

func (c *currenciesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pattern, "n", "%", "Name pattern to filter on.")
}

func (c *currenciesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	list, err := s.Currencies(c.pattern)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.CurrenciesMarkdown(list))
	return subcommands.ExitSuccess
}
