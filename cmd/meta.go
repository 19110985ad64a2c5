package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type metaCmd struct {
	del bool
}

func (*metaCmd) Name() string     { return "meta" }
func (*metaCmd) Synopsis() string { return "read or write ledger metadata" }
func (*metaCmd) Usage() string {
	return `fct meta <key> [<value>]
fct meta -del <key>

  Reads, sets or deletes a free-form metadata entry of the ledger file.
`
}

func (c *metaCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.del, "del", false, "Delete the entry instead of reading it.")
}

func (c *metaCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) == 0 || len(args) > 2 {
		fmt.Print(c.Usage())
		return subcommands.ExitUsageError
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	key := args[0]
	switch {
	case c.del:
		if err := s.RemoveMetadata(key); err != nil {
			return fail(err)
		}
	case len(args) == 2:
		if err := s.SetMetadata(key, args[1]); err != nil {
			return fail(err)
		}
	default:
		value, err := s.Metadata(key)
		if err != nil {
			return fail(err)
		}
		fmt.Println(value)
	}
	return subcommands.ExitSuccess
}
