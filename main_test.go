package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bptreedb/bptreedb/table"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func openTempTable(t *testing.T) *table.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repl.db")
	tbl, err := table.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { tbl.Close() })
	return tbl
}

// S1: basic insert-select.
func TestScenarioBasicInsertSelect(t *testing.T) {
	tbl := openTempTable(t)

	var stmt Statement
	require.Equal(t, PrepareSuccess, prepareStatement("insert 1 user1 person1@example.com", &stmt))
	result, err := executeStatement(&stmt, tbl)
	require.NoError(t, err)
	require.Equal(t, ExecuteSuccess, result)

	var selectStmt Statement
	require.Equal(t, PrepareSuccess, prepareStatement("select", &selectStmt))
	out := captureStdout(t, func() {
		result, err = executeStatement(&selectStmt, tbl)
		require.NoError(t, err)
	})
	require.Equal(t, ExecuteSuccess, result)
	require.Equal(t, "(1, user1, person1@example.com)\n", out)
}

// S2: duplicate key.
func TestScenarioDuplicateKey(t *testing.T) {
	tbl := openTempTable(t)

	var first Statement
	prepareStatement("insert 1 a a@b", &first)
	result, err := executeStatement(&first, tbl)
	require.NoError(t, err)
	require.Equal(t, ExecuteSuccess, result)

	var second Statement
	prepareStatement("insert 1 c c@d", &second)
	result, err = executeStatement(&second, tbl)
	require.NoError(t, err)
	require.Equal(t, ExecuteDuplicateKey, result)
}

// S3: negative id.
func TestScenarioNegativeId(t *testing.T) {
	var stmt Statement
	require.Equal(t, PrepareNegativeId, prepareStatement("insert -1 foo foo@bar", &stmt))
}

// S4: max-length strings.
func TestScenarioMaxLengthStrings(t *testing.T) {
	okUsername := make([]byte, table.ColumnUsernameSize)
	for i := range okUsername {
		okUsername[i] = 'u'
	}
	okEmail := make([]byte, table.ColumnEmailSize)
	for i := range okEmail {
		okEmail[i] = 'e'
	}

	var stmt Statement
	line := "insert 1 " + string(okUsername) + " " + string(okEmail)
	require.Equal(t, PrepareSuccess, prepareStatement(line, &stmt))

	tooLongUsername := append(okUsername, 'x')
	var stmt2 Statement
	line2 := "insert 1 " + string(tooLongUsername) + " " + string(okEmail)
	require.Equal(t, PrepareStringTooLong, prepareStatement(line2, &stmt2))
}

// S5: leaf split at 14 rows.
func TestScenarioLeafSplitAt14(t *testing.T) {
	tbl := openTempTable(t)
	for id := 1; id <= 14; id++ {
		var stmt Statement
		prepareStatement("insert "+strconv.Itoa(id)+" user user@example.com", &stmt)
		result, err := executeStatement(&stmt, tbl)
		require.NoError(t, err)
		require.Equal(t, ExecuteSuccess, result)
	}

	out := captureStdout(t, func() {
		require.NoError(t, table.PrintTree(tbl, os.Stdout))
	})

	want := "" +
		"- internal (size 1)\n" +
		"  - leaf (size 7)\n" +
		"    - 1\n" +
		"    - 2\n" +
		"    - 3\n" +
		"    - 4\n" +
		"    - 5\n" +
		"    - 6\n" +
		"    - 7\n" +
		"  - key 7\n" +
		"  - leaf (size 7)\n" +
		"    - 8\n" +
		"    - 9\n" +
		"    - 10\n" +
		"    - 11\n" +
		"    - 12\n" +
		"    - 13\n" +
		"    - 14\n"
	require.Equal(t, want, out)
}

// S6: persistence across open/close.
func TestScenarioPersistenceAcrossOpenClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist_repl.db")
	tbl, err := table.Open(path)
	require.NoError(t, err)

	for _, id := range []string{"1", "2", "3"} {
		var stmt Statement
		prepareStatement("insert "+id+" user user@example.com", &stmt)
		result, execErr := executeStatement(&stmt, tbl)
		require.NoError(t, execErr)
		require.Equal(t, ExecuteSuccess, result)
	}
	require.NoError(t, tbl.Close())

	reopened, err := table.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var selectStmt Statement
	prepareStatement("select", &selectStmt)
	out := captureStdout(t, func() {
		result, execErr := executeStatement(&selectStmt, reopened)
		require.NoError(t, execErr)
		require.Equal(t, ExecuteSuccess, result)
	})
	require.Equal(t, "(1, user, user@example.com)\n(2, user, user@example.com)\n(3, user, user@example.com)\n", out)
}

func TestPrepareStatementUnrecognized(t *testing.T) {
	var stmt Statement
	require.Equal(t, PrepareUnrecognizedStatement, prepareStatement("bogus", &stmt))
}

func TestPrepareInsertSyntaxError(t *testing.T) {
	var stmt Statement
	require.Equal(t, PrepareSyntaxError, prepareStatement("insert 1 onlyusername", &stmt))
}

func TestHandleMetaCommandUnrecognized(t *testing.T) {
	tbl := openTempTable(t)
	require.Equal(t, MetaCommandUnrecognizedCommand, handleMetaCommand(".frobnicate", tbl))
}

func TestHandleMetaCommandConstants(t *testing.T) {
	tbl := openTempTable(t)
	out := captureStdout(t, func() {
		require.Equal(t, MetaCommandSuccess, handleMetaCommand(".constants", tbl))
	})
	require.Contains(t, out, "ROW_SIZE: 293")
	require.Contains(t, out, "LEAF_NODE_MAX_CELLS: 13")
}
