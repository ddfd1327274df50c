package main

import (
	"os"

	"github.com/bptreedb/bptreedb/table"
)

type MetaCommandResult int

const (
	MetaCommandSuccess MetaCommandResult = iota
	MetaCommandUnrecognizedCommand
)

// handleMetaCommand dispatches a leading-dot line. ".exit" flushes and
// closes the table and terminates the process directly, matching the
// source's single-shutdown-path behavior; it never returns to the caller.
func handleMetaCommand(line string, t *table.Table) MetaCommandResult {
	switch line {
	case ".exit":
		if err := t.Close(); err != nil {
			fatal("close database file", err)
		}
		os.Exit(0)
	case ".btree":
		if err := table.PrintTree(t, os.Stdout); err != nil {
			fatal("print tree", err)
		}
		return MetaCommandSuccess
	case ".constants":
		table.PrintConstants(os.Stdout)
		return MetaCommandSuccess
	}
	return MetaCommandUnrecognizedCommand
}
