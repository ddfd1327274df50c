package table

import (
	"fmt"
	"io"
	"strings"
)

// PrintTree writes an indented outline of the whole tree to w, starting
// from the root. Each level of descent adds one more level of indent.
func PrintTree(t *Table, w io.Writer) error {
	return printNode(t, w, t.RootPageNum, 0)
}

func printNode(t *Table, w io.Writer, pageNum uint32, indent int) error {
	page, err := t.Pager.Get(pageNum)
	if err != nil {
		return err
	}

	pad := strings.Repeat("  ", indent)
	if nodeType(page) == NodeTypeLeaf {
		n := numCells(page)
		fmt.Fprintf(w, "%s- leaf (size %d)\n", pad, n)
		for i := uint32(0); i < n; i++ {
			fmt.Fprintf(w, "%s  - %d\n", pad, leafKey(page, i))
		}
		return nil
	}

	numKeys := internalNumKeys(page)
	fmt.Fprintf(w, "%s- internal (size %d)\n", pad, numKeys)
	for i := uint32(0); i < numKeys; i++ {
		if err := printNode(t, w, internalChild(page, i), indent+1); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  - key %d\n", pad, internalKey(page, i))
	}
	return printNode(t, w, internalRightChild(page), indent+1)
}

// PrintConstants writes the tree's compile-time layout constants, one per
// line, in NAME: VALUE form.
func PrintConstants(w io.Writer) {
	fmt.Fprintf(w, "ROW_SIZE: %d\n", RowSize)
	fmt.Fprintf(w, "COMMON_NODE_HEADER_SIZE: %d\n", CommonNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_HEADER_SIZE: %d\n", LeafNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_CELL_SIZE: %d\n", LeafNodeCellSize)
	fmt.Fprintf(w, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", LeafNodeSpaceForCells)
	fmt.Fprintf(w, "LEAF_NODE_MAX_CELLS: %d\n", LeafNodeMaxCells)
}
