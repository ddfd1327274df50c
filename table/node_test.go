package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bptreedb/bptreedb/pager"
)

func TestLeafNodeAccessors(t *testing.T) {
	page := &pager.Page{}
	initLeaf(page)

	require.Equal(t, NodeTypeLeaf, nodeType(page))
	require.False(t, isRoot(page))
	require.EqualValues(t, 0, numCells(page))
	require.EqualValues(t, 0, nextLeaf(page))

	setIsRoot(page, true)
	require.True(t, isRoot(page))

	setParent(page, 7)
	require.EqualValues(t, 7, parent(page))

	setNumCells(page, 3)
	setLeafKey(page, 0, 10)
	setLeafKey(page, 1, 20)
	setLeafKey(page, 2, 30)
	require.EqualValues(t, 10, leafKey(page, 0))
	require.EqualValues(t, 20, leafKey(page, 1))
	require.EqualValues(t, 30, leafKey(page, 2))
	require.EqualValues(t, 30, maxKey(page))

	row := Row{ID: 20, Username: "bob", Email: "bob@example.com"}
	require.NoError(t, row.Serialize(leafValue(page, 1)))
	got, err := DeserializeRow(leafValue(page, 2))
	require.NoError(t, err)
	require.Equal(t, Row{}, got)

	copyLeafCell(page, 2, page, 1)
	require.EqualValues(t, 20, leafKey(page, 2))
}

func TestInternalNodeAccessors(t *testing.T) {
	page := &pager.Page{}
	initInternal(page)

	require.Equal(t, NodeTypeInternal, nodeType(page))
	require.EqualValues(t, 0, internalNumKeys(page))

	setInternalNumKeys(page, 2)
	setInternalCellChild(page, 0, 1)
	setInternalKey(page, 0, 100)
	setInternalCellChild(page, 1, 2)
	setInternalKey(page, 1, 200)
	setInternalRightChild(page, 3)

	require.EqualValues(t, 1, internalChild(page, 0))
	require.EqualValues(t, 2, internalChild(page, 1))
	require.EqualValues(t, 3, internalChild(page, 2))
	require.EqualValues(t, 200, maxKey(page))

	copyInternalCell(page, 0, page, 1)
	require.EqualValues(t, 2, internalCellChild(page, 0))
	require.EqualValues(t, 200, internalKey(page, 0))
}

func TestLeafCellOffsetsPackWithoutGaps(t *testing.T) {
	off0 := leafCellOffset(0)
	off1 := leafCellOffset(1)
	require.Equal(t, LeafNodeCellSize, off1-off0)
}

func TestInternalCellOffsetsPackWithoutGaps(t *testing.T) {
	off0 := internalCellOffset(0)
	off1 := internalCellOffset(1)
	require.Equal(t, InternalNodeCellSize, off1-off0)
}
