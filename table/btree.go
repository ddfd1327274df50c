package table

import (
	"github.com/pkg/errors"

	"github.com/bptreedb/bptreedb/pager"
)

// Table is the B+-tree handle. The root always lives at page 0; growth
// never reassigns that page number, it only rewrites page 0's contents.
type Table struct {
	Pager       *pager.Pager
	RootPageNum uint32
}

// InsertResult reports what Insert did, mirroring the three outcomes the
// REPL needs to print a result line for.
type InsertResult int

const (
	InsertSuccess InsertResult = iota
	InsertDuplicateKey
	InsertTableFull
)

// errTableFull is raised internally when growing the tree would need a page
// number at or beyond pager.MaxPages. Insert turns it into InsertTableFull
// rather than letting it surface as a Go error.
var errTableFull = errors.New("table: no more page slots available")

// allocatePage is the one call site that turns page exhaustion into a
// recoverable condition instead of letting the pager fail fatally.
func allocatePage(t *Table) (uint32, error) {
	pageNum := t.Pager.AllocateNewPageNumber()
	if pageNum >= pager.MaxPages {
		return 0, errTableFull
	}
	return pageNum, nil
}

// Open opens filename as a table, initializing a fresh root leaf if the
// file is empty.
func Open(filename string) (*Table, error) {
	p, err := pager.Open(filename)
	if err != nil {
		return nil, err
	}

	t := &Table{Pager: p, RootPageNum: 0}
	if p.NumPages() == 0 {
		root, err := p.Get(0)
		if err != nil {
			return nil, err
		}
		initLeaf(root)
		setIsRoot(root, true)
	}
	return t, nil
}

// Close flushes every page and closes the underlying file.
func (t *Table) Close() error {
	return t.Pager.Close()
}

// Insert places (key, row) into the tree rooted at cursor's position,
// which must have come from Find(t, key). A duplicate key is reported,
// never overwritten.
func Insert(cursor *Cursor, key uint32, row Row) (InsertResult, error) {
	t := cursor.table
	page, err := t.Pager.Get(cursor.PageNum)
	if err != nil {
		return 0, err
	}

	if cursor.CellNum < numCells(page) && leafKey(page, cursor.CellNum) == key {
		return InsertDuplicateKey, nil
	}

	if int(numCells(page)) >= LeafNodeMaxCells {
		if err := leafSplitAndInsert(t, cursor, key, row); err != nil {
			if errors.Is(err, errTableFull) {
				return InsertTableFull, nil
			}
			return 0, err
		}
		return InsertSuccess, nil
	}

	if err := leafInsertSimple(page, cursor.CellNum, key, row); err != nil {
		return 0, err
	}
	return InsertSuccess, nil
}

func leafInsertSimple(page *pager.Page, cellNum uint32, key uint32, row Row) error {
	n := numCells(page)
	for i := n; i > cellNum; i-- {
		copyLeafCell(page, i, page, i-1)
	}
	setNumCells(page, n+1)
	setLeafKey(page, cellNum, key)
	return row.Serialize(leafValue(page, cellNum))
}

// leafSplitAndInsert splits a full leaf into itself (kept in place, so the
// page number and any parent pointer to it stay valid) and a freshly
// allocated right sibling, redistributing cells back-to-front so no cell
// is overwritten before it has been read.
func leafSplitAndInsert(t *Table, cursor *Cursor, key uint32, row Row) error {
	oldPageNum := cursor.PageNum
	oldPage, err := t.Pager.Get(oldPageNum)
	if err != nil {
		return err
	}
	oldMax := maxKey(oldPage)

	newPageNum, err := allocatePage(t)
	if err != nil {
		return err
	}
	newPage, err := t.Pager.Get(newPageNum)
	if err != nil {
		return err
	}
	initLeaf(newPage)
	setParent(newPage, parent(oldPage))
	setNextLeaf(newPage, nextLeaf(oldPage))
	setNextLeaf(oldPage, newPageNum)

	const totalCells = uint32(LeafNodeMaxCells) + 1
	leftCount := (uint32(LeafNodeMaxCells) + 2) / 2
	rightCount := totalCells - leftCount

	for i := int(totalCells) - 1; i >= 0; i-- {
		idx := uint32(i)
		var dest *pager.Page
		var destIndex uint32
		if idx >= leftCount {
			dest = newPage
			destIndex = idx - leftCount
		} else {
			dest = oldPage
			destIndex = idx
		}

		switch {
		case idx == cursor.CellNum:
			setLeafKey(dest, destIndex, key)
			if err := row.Serialize(leafValue(dest, destIndex)); err != nil {
				return err
			}
		case idx > cursor.CellNum:
			copyLeafCell(dest, destIndex, oldPage, idx-1)
		default:
			copyLeafCell(dest, destIndex, oldPage, idx)
		}
	}

	setNumCells(oldPage, leftCount)
	setNumCells(newPage, rightCount)

	if isRoot(oldPage) {
		return createNewRoot(t, newPageNum)
	}

	parentPageNum := parent(oldPage)
	parentPage, err := t.Pager.Get(parentPageNum)
	if err != nil {
		return err
	}
	updateInternalNodeKey(parentPage, oldMax, maxKey(oldPage))
	return internalNodeInsert(t, parentPageNum, newPageNum)
}

// createNewRoot grows the tree by one level. The page currently sitting at
// the root page number holds the left subtree's content; it is moved,
// verbatim, into a freshly allocated page, and the root page is rewritten
// in place as an internal node pointing at that moved page and at
// rightChildPageNum.
func createNewRoot(t *Table, rightChildPageNum uint32) error {
	rootPageNum := t.RootPageNum
	rootPage, err := t.Pager.Get(rootPageNum)
	if err != nil {
		return err
	}
	rightChild, err := t.Pager.Get(rightChildPageNum)
	if err != nil {
		return err
	}

	leftPageNum, err := allocatePage(t)
	if err != nil {
		return err
	}
	leftPage, err := t.Pager.Get(leftPageNum)
	if err != nil {
		return err
	}
	leftPage.Data = rootPage.Data
	setIsRoot(leftPage, false)
	if err := reparentChildren(t, leftPage, leftPageNum); err != nil {
		return err
	}

	initInternal(rootPage)
	setIsRoot(rootPage, true)
	setInternalNumKeys(rootPage, 1)
	setInternalCellChild(rootPage, 0, leftPageNum)
	setInternalKey(rootPage, 0, maxKey(leftPage))
	setInternalRightChild(rootPage, rightChildPageNum)

	setParent(leftPage, rootPageNum)
	setParent(rightChild, rootPageNum)
	return nil
}

// reparentChildren fixes up the parent pointers of a node's own children
// after that node's page content has been moved to newPageNum. Leaves have
// no children and are a no-op.
func reparentChildren(t *Table, page *pager.Page, newPageNum uint32) error {
	if nodeType(page) == NodeTypeLeaf {
		return nil
	}
	numKeys := internalNumKeys(page)
	for i := uint32(0); i < numKeys; i++ {
		child, err := t.Pager.Get(internalCellChild(page, i))
		if err != nil {
			return err
		}
		setParent(child, newPageNum)
	}
	rightChild, err := t.Pager.Get(internalRightChild(page))
	if err != nil {
		return err
	}
	setParent(rightChild, newPageNum)
	return nil
}

// updateInternalNodeKey rewrites the stored key for whichever cell
// currently carries oldKey. A node whose child moved out from under an
// otherwise-unrelated key (never matched) is left untouched; that can only
// happen for a key belonging to the rightmost child, which has no cell of
// its own to update.
func updateInternalNodeKey(page *pager.Page, oldKey, newKey uint32) {
	numKeys := internalNumKeys(page)
	for i := uint32(0); i < numKeys; i++ {
		if internalKey(page, i) == oldKey {
			setInternalKey(page, i, newKey)
			return
		}
	}
}

// internalNodeInsert adds childPageNum as a new child of the node at
// parentPageNum, splitting that node first if it is already full.
func internalNodeInsert(t *Table, parentPageNum uint32, childPageNum uint32) error {
	parentPage, err := t.Pager.Get(parentPageNum)
	if err != nil {
		return err
	}

	if int(internalNumKeys(parentPage)) >= InternalNodeMaxCells {
		return internalSplitAndInsert(t, parentPageNum, childPageNum)
	}

	child, err := t.Pager.Get(childPageNum)
	if err != nil {
		return err
	}
	setParent(child, parentPageNum)
	return internalInsertSimple(t, parentPage, childPageNum, maxKey(child))
}

// internalInsertSimple inserts a single new child into a non-full internal
// node. A new child whose max key exceeds the current right_child's max
// key becomes the new right_child, demoting the old one to an ordinary
// cell; otherwise the child is inserted in sorted position.
func internalInsertSimple(t *Table, parentPage *pager.Page, childPageNum uint32, childMaxKey uint32) error {
	numKeys := internalNumKeys(parentPage)

	rightChildPageNum := internalRightChild(parentPage)
	rightChild, err := t.Pager.Get(rightChildPageNum)
	if err != nil {
		return err
	}
	rightChildMaxKey := maxKey(rightChild)

	if childMaxKey > rightChildMaxKey {
		setInternalCellChild(parentPage, numKeys, rightChildPageNum)
		setInternalKey(parentPage, numKeys, rightChildMaxKey)
		setInternalRightChild(parentPage, childPageNum)
		setInternalNumKeys(parentPage, numKeys+1)
		return nil
	}

	index, err := internalFindChildIndex(parentPage, childMaxKey)
	if err != nil {
		return err
	}
	for i := numKeys; i > index; i-- {
		copyInternalCell(parentPage, i, parentPage, i-1)
	}
	setInternalCellChild(parentPage, index, childPageNum)
	setInternalKey(parentPage, index, childMaxKey)
	setInternalNumKeys(parentPage, numKeys+1)
	return nil
}

// internalSplitAndInsert splits a full internal node: the node keeps the
// lower half of its cells, a freshly allocated sibling takes the upper
// half, and the key between the two halves is stored in neither. The
// sibling is then inserted into the parent under its own max key
// (recursively splitting that parent in turn if needed), or the tree grows
// by one level if the node being split is the root.
func internalSplitAndInsert(t *Table, oldPageNum uint32, newChildPageNum uint32) error {
	oldPage, err := t.Pager.Get(oldPageNum)
	if err != nil {
		return err
	}
	newChild, err := t.Pager.Get(newChildPageNum)
	if err != nil {
		return err
	}
	newChildMaxKey := maxKey(newChild)
	oldMaxBeforeSplit := maxKey(oldPage)
	oldNumKeys := internalNumKeys(oldPage)

	keys := make([]uint32, 0, oldNumKeys+1)
	children := make([]uint32, 0, oldNumKeys+2)

	inserted := false
	for i := uint32(0); i < oldNumKeys; i++ {
		if !inserted && newChildMaxKey < internalKey(oldPage, i) {
			children = append(children, newChildPageNum)
			keys = append(keys, newChildMaxKey)
			inserted = true
		}
		children = append(children, internalCellChild(oldPage, i))
		keys = append(keys, internalKey(oldPage, i))
	}
	if !inserted {
		children = append(children, newChildPageNum)
		keys = append(keys, newChildMaxKey)
	}
	children = append(children, internalRightChild(oldPage))

	totalKeys := uint32(len(keys))
	splitIndex := totalKeys / 2

	newPageNum, err := allocatePage(t)
	if err != nil {
		return err
	}
	newPage, err := t.Pager.Get(newPageNum)
	if err != nil {
		return err
	}
	initInternal(newPage)
	setParent(newPage, parent(oldPage))

	for i := uint32(0); i < splitIndex; i++ {
		setInternalCellChild(oldPage, i, children[i])
		setInternalKey(oldPage, i, keys[i])
	}
	setInternalNumKeys(oldPage, splitIndex)
	setInternalRightChild(oldPage, children[splitIndex])

	rightCount := totalKeys - splitIndex - 1
	for i := uint32(0); i < rightCount; i++ {
		setInternalCellChild(newPage, i, children[splitIndex+1+i])
		setInternalKey(newPage, i, keys[splitIndex+1+i])
	}
	setInternalNumKeys(newPage, rightCount)
	setInternalRightChild(newPage, children[totalKeys])

	for i := uint32(0); i <= splitIndex; i++ {
		c, err := t.Pager.Get(children[i])
		if err != nil {
			return err
		}
		setParent(c, oldPageNum)
	}
	for i := splitIndex + 1; i <= totalKeys; i++ {
		c, err := t.Pager.Get(children[i])
		if err != nil {
			return err
		}
		setParent(c, newPageNum)
	}

	if isRoot(oldPage) {
		return createNewRoot(t, newPageNum)
	}

	parentPageNum := parent(oldPage)
	parentPage, err := t.Pager.Get(parentPageNum)
	if err != nil {
		return err
	}
	updateInternalNodeKey(parentPage, oldMaxBeforeSplit, maxKey(oldPage))
	return internalNodeInsert(t, parentPageNum, newPageNum)
}
