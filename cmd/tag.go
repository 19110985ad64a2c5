package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/finctrl/renderer"
)

type tagCmd struct {
	parcel int64
	tag    string
}

func (*tagCmd) Name() string     { return "tag" }
func (*tagCmd) Synopsis() string { return "tag a parcel" }
func (*tagCmd) Usage() string {
	return `fct tag -parcel <key> -tag <name>

  Labels a parcel with a tag. Tagging never changes any balance.
`
}

func (c *tagCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.parcel, "parcel", 0, "Parcel key.")
	f.StringVar(&c.tag, "tag", "", "Tag to add.")
}

func (c *tagCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.AddParcelTag(c.parcel, c.tag); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type untagCmd struct {
	parcel int64
	tag    string
}

func (*untagCmd) Name() string     { return "untag" }
func (*untagCmd) Synopsis() string { return "remove a tag from a parcel" }
func (*untagCmd) Usage() string {
	return `fct untag -parcel <key> -tag <name>

  Removes one tag from one parcel.
`
}

func (c *untagCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.parcel, "parcel", 0, "Parcel key.")
	f.StringVar(&c.tag, "tag", "", "Tag to remove.")
}

func (c *untagCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.DelParcelTag(c.parcel, c.tag); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type renameTagCmd struct {
	from string
	to   string
}

func (*renameTagCmd) Name() string     { return "rename-tag" }
func (*renameTagCmd) Synopsis() string { return "rename a tag everywhere" }
func (*renameTagCmd) Usage() string {
	return `fct rename-tag -from <name> -to <name>

  Renames a tag on every parcel carrying it.
`
}

func (c *renameTagCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Current tag name.")
	f.StringVar(&c.to, "to", "", "New tag name.")
}

func (c *renameTagCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.RenameTag(c.from, c.to); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type deleteTagCmd struct {
	tag string
}

func (*deleteTagCmd) Name() string     { return "delete-tag" }
func (*deleteTagCmd) Synopsis() string { return "remove a tag everywhere" }
func (*deleteTagCmd) Usage() string {
	return `fct delete-tag -tag <name>

  Removes a tag from every parcel carrying it.
`
}

func (c *deleteTagCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tag, "tag", "", "Tag to remove.")
}

func (c *deleteTagCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.DeleteTag(c.tag); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type tagsCmd struct{}

func (*tagsCmd) Name() string     { return "tags" }
func (*tagsCmd) Synopsis() string { return "list tags with use counts" }
func (*tagsCmd) Usage() string {
	return `fct tags

  Lists every tag in use with the number of parcels carrying it.
`
}

func (c *tagsCmd) SetFlags(f *flag.FlagSet) {}

func (c *tagsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	tags, err := s.Tags()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.TagsMarkdown(tags))
	return subcommands.ExitSuccess
}
