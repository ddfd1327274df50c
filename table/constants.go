package table

import (
	"unsafe"

	"github.com/bptreedb/bptreedb/pager"
)

// Common node header layout: every page starts with these three fields
// regardless of whether it is a leaf or an internal node.
const (
	NodeTypeSize   = unsafe.Sizeof(uint8(0))
	NodeTypeOffset = 0

	IsRootSize   = unsafe.Sizeof(uint8(0))
	IsRootOffset = NodeTypeOffset + NodeTypeSize

	ParentPointerSize   = unsafe.Sizeof(uint32(0))
	ParentPointerOffset = IsRootOffset + IsRootSize

	CommonNodeHeaderSize = NodeTypeSize + IsRootSize + ParentPointerSize
)

// Leaf node header and body layout.
const (
	LeafNodeNumCellsSize   = unsafe.Sizeof(uint32(0))
	LeafNodeNumCellsOffset = CommonNodeHeaderSize

	LeafNodeNextLeafSize   = unsafe.Sizeof(uint32(0))
	LeafNodeNextLeafOffset = LeafNodeNumCellsOffset + LeafNodeNumCellsSize

	LeafNodeHeaderSize = CommonNodeHeaderSize + LeafNodeNumCellsSize + LeafNodeNextLeafSize

	LeafNodeKeySize   = unsafe.Sizeof(uint32(0))
	LeafNodeKeyOffset = 0
)

// LeafNodeValueSize is the row width; LeafNodeCellSize and friends are
// derived from it once RowSize is known (it is fixed by the Row layout).
const (
	LeafNodeValueSize  = uintptr(RowSize)
	LeafNodeValueOffset = LeafNodeKeyOffset + LeafNodeKeySize
	LeafNodeCellSize    = LeafNodeKeySize + LeafNodeValueSize

	LeafNodeSpaceForCells = uintptr(pager.PageSize) - LeafNodeHeaderSize
	LeafNodeMaxCells      = int(LeafNodeSpaceForCells / LeafNodeCellSize)
)

// Internal node header and body layout.
const (
	InternalNodeNumKeysSize   = unsafe.Sizeof(uint32(0))
	InternalNodeNumKeysOffset = CommonNodeHeaderSize

	InternalNodeRightChildSize   = unsafe.Sizeof(uint32(0))
	InternalNodeRightChildOffset = InternalNodeNumKeysOffset + InternalNodeNumKeysSize

	InternalNodeHeaderSize = CommonNodeHeaderSize + InternalNodeNumKeysSize + InternalNodeRightChildSize

	InternalNodeChildSize = unsafe.Sizeof(uint32(0))
	InternalNodeKeySize   = unsafe.Sizeof(uint32(0))
	InternalNodeCellSize  = InternalNodeChildSize + InternalNodeKeySize

	InternalNodeSpaceForCells = uintptr(pager.PageSize) - InternalNodeHeaderSize
	InternalNodeMaxCells      = int(InternalNodeSpaceForCells / InternalNodeCellSize)
)

// Node type tags stored in the first header byte.
const (
	NodeTypeInternal uint8 = 0
	NodeTypeLeaf     uint8 = 1
)
