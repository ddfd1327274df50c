package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/bptreedb/bptreedb/table"
)

type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

type Statement struct {
	Type        StatementType
	RowToInsert table.Row
}

type PrepareResult int

const (
	PrepareSuccess PrepareResult = iota
	PrepareNegativeId
	PrepareStringTooLong
	PrepareSyntaxError
	PrepareUnrecognizedStatement
)

type ExecuteResult int

const (
	ExecuteSuccess ExecuteResult = iota
	ExecuteDuplicateKey
	ExecuteTableFull
)

// prepareStatement parses one input line into stmt. An "insert" line is
// fully validated here (id range, field lengths) so that execute never has
// to reject a row it already has in hand.
func prepareStatement(line string, stmt *Statement) PrepareResult {
	if strings.HasPrefix(line, "insert") {
		return prepareInsert(line, stmt)
	}
	if line == "select" {
		stmt.Type = StatementSelect
		return PrepareSuccess
	}
	return PrepareUnrecognizedStatement
}

func prepareInsert(line string, stmt *Statement) PrepareResult {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return PrepareSyntaxError
	}

	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return PrepareSyntaxError
	}
	if id < 0 {
		return PrepareNegativeId
	}
	if id > math.MaxUint32 {
		return PrepareSyntaxError
	}

	username, email := fields[2], fields[3]
	if len(username) > table.ColumnUsernameSize || len(email) > table.ColumnEmailSize {
		return PrepareStringTooLong
	}

	stmt.Type = StatementInsert
	stmt.RowToInsert = table.Row{ID: uint32(id), Username: username, Email: email}
	return PrepareSuccess
}

// executeStatement runs a validated statement against t.
func executeStatement(stmt *Statement, t *table.Table) (ExecuteResult, error) {
	switch stmt.Type {
	case StatementInsert:
		return executeInsert(stmt, t)
	case StatementSelect:
		return executeSelect(t)
	}
	return ExecuteSuccess, nil
}

func executeInsert(stmt *Statement, t *table.Table) (ExecuteResult, error) {
	row := stmt.RowToInsert
	cursor, err := table.Find(t, row.ID)
	if err != nil {
		return 0, err
	}

	result, err := table.Insert(cursor, row.ID, row)
	if err != nil {
		return 0, err
	}
	switch result {
	case table.InsertDuplicateKey:
		return ExecuteDuplicateKey, nil
	case table.InsertTableFull:
		return ExecuteTableFull, nil
	}
	return ExecuteSuccess, nil
}

func executeSelect(t *table.Table) (ExecuteResult, error) {
	cursor, err := table.Start(t)
	if err != nil {
		return 0, err
	}

	for !cursor.EndOfTable {
		value, err := cursor.Value()
		if err != nil {
			return 0, err
		}
		row, err := table.DeserializeRow(value)
		if err != nil {
			return 0, err
		}
		printRow(row)
		if err := cursor.Advance(); err != nil {
			return 0, err
		}
	}
	return ExecuteSuccess, nil
}
