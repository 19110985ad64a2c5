// Package cmd implements the CLI application to manage a personal ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/etnz/finctrl"
	"github.com/etnz/finctrl/date"
)

// Commands is the list of subcommands a main package registers.
var Commands = []subcommands.Command{
	&addCurrencyCmd{},
	&editCurrencyCmd{},
	&currenciesCmd{},
	&addAccountCmd{},
	&editAccountCmd{},
	&deleteAccountCmd{},
	&accountsCmd{},
	&balanceCmd{},
	&addTransactionCmd{},
	&expenseCmd{},
	&depositCmd{},
	&withdrawalCmd{},
	&transactionsCmd{},
	&editTransactionCmd{},
	&deleteTransactionCmd{},
	&addParcelCmd{},
	&editParcelCmd{},
	&deleteParcelCmd{},
	&parcelsCmd{},
	&tagCmd{},
	&untagCmd{},
	&renameTagCmd{},
	&deleteTagCmd{},
	&tagsCmd{},
	&transferCmd{},
	&trimCmd{},
	&backupCmd{},
	&metaCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storeFile = flag.String("f", defaultStoreFile(), "Path to the ledger file (also $FINCTRL_FILE)")
var verbose = flag.Bool("v", false, "Enable debug logging")

func defaultStoreFile() string {
	if f := os.Getenv("FINCTRL_FILE"); f != "" {
		return f
	}
	return "finctrl.db"
}

// openStore opens the ledger file named by -f, creating it on first use.
func openStore() (*finctrl.Store, error) {
	s, err := finctrl.Create(*storeFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", *storeFile, err)
	}
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	s.SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger())
	return s, nil
}

// resolveAccount turns a user reference (numeric key or name pattern) into an
// account key.
func resolveAccount(s *finctrl.Store, ref string) (int64, error) {
	if ref == "" {
		return 0, fmt.Errorf("an account is required (-account)")
	}
	return s.AccountKey(ref)
}

// parseDate parses a -date style flag, defaulting to today when empty.
func parseDate(text string) (date.Date, error) {
	if text == "" {
		return date.Today(), nil
	}
	return date.Parse(text)
}

// splitTags turns a comma separated -tags flag into a tag list.
func splitTags(text string) []string {
	if text == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(text, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail reports an error on stderr and picks the exit status for it.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, finctrl.ErrValidation) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
