package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bptreedb/bptreedb/table"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func printRow(r table.Row) {
	fmt.Printf("(%d, %s, %s)\n", r.ID, r.Username, r.Email)
}

// fatal logs a structured diagnostic for an unrecoverable engine error and
// terminates the process, per the fatal/recoverable split in spec §7: a
// fatal condition is a data-loss event, never retried or swallowed.
func fatal(msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Must supply a database filename.")
		os.Exit(1)
	}

	t, err := table.Open(os.Args[1])
	if err != nil {
		fatal("open database file", err)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		printPrompt()
		line, err := readInput(reader)
		if err != nil {
			if err == io.EOF {
				os.Exit(1)
			}
			fatal("read input", err)
		}

		if len(line) > 0 && line[0] == '.' {
			if handleMetaCommand(line, t) == MetaCommandUnrecognizedCommand {
				fmt.Printf("Unrecognized command '%s'\n", line)
			}
			continue
		}

		var stmt Statement
		switch prepareStatement(line, &stmt) {
		case PrepareSuccess:
			// fall through to execution below
		case PrepareNegativeId:
			fmt.Println("ID must be positive.")
			continue
		case PrepareStringTooLong:
			fmt.Println("String is too long.")
			continue
		case PrepareSyntaxError:
			fmt.Println("Syntax error. Could not parse statement.")
			continue
		case PrepareUnrecognizedStatement:
			fmt.Printf("Unrecognized keyword at start of '%s'.\n", line)
			continue
		}

		result, err := executeStatement(&stmt, t)
		if err != nil {
			fatal("execute statement", err)
		}
		switch result {
		case ExecuteDuplicateKey:
			fmt.Println("Error: Duplicate key.")
		case ExecuteTableFull:
			fmt.Println("Error: Table full.")
		case ExecuteSuccess:
			fmt.Println("Executed.")
		}
	}
}
