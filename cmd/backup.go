package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type backupCmd struct {
	to string
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "back up the ledger file" }
func (*backupCmd) Usage() string {
	return `fct backup -to <file>

  Writes a consistent copy of the ledger to a new file.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", "", "Destination file.")
}

func (c *backupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.Backup(c.to); err != nil {
		return fail(err)
	}
	fmt.Printf("Ledger backed up to %s\n", c.to)
	return subcommands.ExitSuccess
}
