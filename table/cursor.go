package table

import (
	"github.com/pkg/errors"

	"github.com/bptreedb/bptreedb/pager"
)

// Cursor marks a position in the table: a page number plus a cell number
// within that page's leaf. EndOfTable is set once the cursor has walked
// past the last cell of the last leaf.
type Cursor struct {
	table      *Table
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// Find descends from the root to the leaf that contains key, or where key
// would be inserted if absent. Internal nodes use "smallest child whose
// key is >= target" descent; a leaf node uses an insertion-point binary
// search over its own cells.
func Find(t *Table, key uint32) (*Cursor, error) {
	pageNum := t.RootPageNum
	page, err := t.Pager.Get(pageNum)
	if err != nil {
		return nil, err
	}

	for nodeType(page) == NodeTypeInternal {
		childIndex, err := internalFindChildIndex(page, key)
		if err != nil {
			return nil, err
		}
		pageNum = internalChild(page, childIndex)
		page, err = t.Pager.Get(pageNum)
		if err != nil {
			return nil, err
		}
	}

	cellNum := leafFindCellIndex(page, key)
	return &Cursor{table: t, PageNum: pageNum, CellNum: cellNum}, nil
}

// leafFindCellIndex returns the smallest cell index whose key is >= key,
// or numCells(page) if every stored key is smaller.
func leafFindCellIndex(page *pager.Page, key uint32) uint32 {
	lo, hi := uint32(0), numCells(page)
	for lo != hi {
		mid := lo + (hi-lo)/2
		midKey := leafKey(page, mid)
		if key == midKey {
			return mid
		}
		if key < midKey {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// internalFindChildIndex returns the index i (0 <= i <= num_keys) of the
// child to descend into: the smallest i whose key(i) >= key, or num_keys
// (the right child) if key exceeds every stored key.
func internalFindChildIndex(page *pager.Page, key uint32) (uint32, error) {
	numKeys := internalNumKeys(page)
	if numKeys == 0 {
		return 0, errors.New("table: internal node has no keys")
	}

	lo, hi := uint32(0), numKeys
	for lo != hi {
		mid := lo + (hi-lo)/2
		if key <= internalKey(page, mid) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, nil
}

// Start returns a cursor at the first cell of the table's leftmost leaf.
func Start(t *Table) (*Cursor, error) {
	cursor, err := Find(t, 0)
	if err != nil {
		return nil, err
	}

	page, err := t.Pager.Get(cursor.PageNum)
	if err != nil {
		return nil, err
	}
	cursor.CellNum = 0
	cursor.EndOfTable = numCells(page) == 0
	return cursor, nil
}

// Advance moves the cursor to the next cell, following the next_leaf
// sibling chain when the current leaf is exhausted.
func (c *Cursor) Advance() error {
	page, err := c.table.Pager.Get(c.PageNum)
	if err != nil {
		return err
	}

	c.CellNum++
	if c.CellNum >= numCells(page) {
		next := nextLeaf(page)
		if next == 0 {
			c.EndOfTable = true
			return nil
		}
		c.PageNum = next
		c.CellNum = 0
	}
	return nil
}

// Value returns the raw row bytes the cursor currently points at.
func (c *Cursor) Value() ([]byte, error) {
	page, err := c.table.Pager.Get(c.PageNum)
	if err != nil {
		return nil, err
	}
	return leafValue(page, c.CellNum), nil
}
