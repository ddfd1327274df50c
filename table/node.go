package table

import (
	"encoding/binary"

	"github.com/bptreedb/bptreedb/pager"
)

// This file is the node codec: pure accessors that interpret a page's byte
// slice as either a leaf or an internal B+-tree node. Nothing here touches
// the pager beyond the single page buffer it is handed — splits and root
// growth (btree.go) own the job of fetching additional pages.

func nodeType(p *pager.Page) uint8 { return p.Data[NodeTypeOffset] }

func setNodeType(p *pager.Page, t uint8) { p.Data[NodeTypeOffset] = t }

func isRoot(p *pager.Page) bool { return p.Data[IsRootOffset] != 0 }

func setIsRoot(p *pager.Page, b bool) {
	if b {
		p.Data[IsRootOffset] = 1
	} else {
		p.Data[IsRootOffset] = 0
	}
}

func parent(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[ParentPointerOffset : ParentPointerOffset+ParentPointerSize])
}

func setParent(p *pager.Page, pageNum uint32) {
	binary.LittleEndian.PutUint32(p.Data[ParentPointerOffset:ParentPointerOffset+ParentPointerSize], pageNum)
}

// --- leaf node ---

func numCells(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[LeafNodeNumCellsOffset : LeafNodeNumCellsOffset+LeafNodeNumCellsSize])
}

func setNumCells(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[LeafNodeNumCellsOffset:LeafNodeNumCellsOffset+LeafNodeNumCellsSize], n)
}

func nextLeaf(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[LeafNodeNextLeafOffset : LeafNodeNextLeafOffset+LeafNodeNextLeafSize])
}

func setNextLeaf(p *pager.Page, pageNum uint32) {
	binary.LittleEndian.PutUint32(p.Data[LeafNodeNextLeafOffset:LeafNodeNextLeafOffset+LeafNodeNextLeafSize], pageNum)
}

func leafCellOffset(cellNum uint32) uintptr {
	return LeafNodeHeaderSize + uintptr(cellNum)*LeafNodeCellSize
}

func leafCellKeyOffset(cellNum uint32) uintptr {
	return leafCellOffset(cellNum) + LeafNodeKeyOffset
}

func leafCellValueOffset(cellNum uint32) uintptr {
	return leafCellOffset(cellNum) + LeafNodeValueOffset
}

func leafKey(p *pager.Page, cellNum uint32) uint32 {
	off := leafCellKeyOffset(cellNum)
	return binary.LittleEndian.Uint32(p.Data[off : off+uintptr(LeafNodeKeySize)])
}

func setLeafKey(p *pager.Page, cellNum uint32, key uint32) {
	off := leafCellKeyOffset(cellNum)
	binary.LittleEndian.PutUint32(p.Data[off:off+uintptr(LeafNodeKeySize)], key)
}

// leafValue returns a mutable slice into the page covering the cell's row.
func leafValue(p *pager.Page, cellNum uint32) []byte {
	off := leafCellValueOffset(cellNum)
	return p.Data[off : off+LeafNodeValueSize]
}

// copyLeafCell copies one whole (key, value) cell from src cell index to
// dst cell index, possibly within the same page.
func copyLeafCell(dst *pager.Page, dstCell uint32, src *pager.Page, srcCell uint32) {
	dstOff := leafCellOffset(dstCell)
	srcOff := leafCellOffset(srcCell)
	copy(dst.Data[dstOff:dstOff+LeafNodeCellSize], src.Data[srcOff:srcOff+LeafNodeCellSize])
}

func initLeaf(p *pager.Page) {
	setNodeType(p, NodeTypeLeaf)
	setIsRoot(p, false)
	setNumCells(p, 0)
	setNextLeaf(p, 0)
}

// --- internal node ---

func internalNumKeys(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[InternalNodeNumKeysOffset : InternalNodeNumKeysOffset+InternalNodeNumKeysSize])
}

func setInternalNumKeys(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[InternalNodeNumKeysOffset:InternalNodeNumKeysOffset+InternalNodeNumKeysSize], n)
}

func internalRightChild(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[InternalNodeRightChildOffset : InternalNodeRightChildOffset+InternalNodeRightChildSize])
}

func setInternalRightChild(p *pager.Page, pageNum uint32) {
	binary.LittleEndian.PutUint32(p.Data[InternalNodeRightChildOffset:InternalNodeRightChildOffset+InternalNodeRightChildSize], pageNum)
}

func internalCellOffset(cellNum uint32) uintptr {
	return InternalNodeHeaderSize + uintptr(cellNum)*InternalNodeCellSize
}

// internalCellChild/internalCellKey are raw accessors into the cell array
// only (index must be < num_keys). They never consult right_child — used
// while shifting or redistributing the cell array itself.
func internalCellChild(p *pager.Page, i uint32) uint32 {
	off := internalCellOffset(i)
	return binary.LittleEndian.Uint32(p.Data[off : off+uintptr(InternalNodeChildSize)])
}

func setInternalCellChild(p *pager.Page, i uint32, pageNum uint32) {
	off := internalCellOffset(i)
	binary.LittleEndian.PutUint32(p.Data[off:off+uintptr(InternalNodeChildSize)], pageNum)
}

func internalKey(p *pager.Page, i uint32) uint32 {
	off := internalCellOffset(i) + InternalNodeChildSize
	return binary.LittleEndian.Uint32(p.Data[off : off+uintptr(InternalNodeKeySize)])
}

func setInternalKey(p *pager.Page, i uint32, key uint32) {
	off := internalCellOffset(i) + InternalNodeChildSize
	binary.LittleEndian.PutUint32(p.Data[off:off+uintptr(InternalNodeKeySize)], key)
}

// internalChild is the spec's child(i) accessor: for 0 <= i < num_keys it
// reads the cell array, and for i == num_keys it returns right_child.
func internalChild(p *pager.Page, i uint32) uint32 {
	if i == internalNumKeys(p) {
		return internalRightChild(p)
	}
	return internalCellChild(p, i)
}

func copyInternalCell(dst *pager.Page, dstCell uint32, src *pager.Page, srcCell uint32) {
	dstOff := internalCellOffset(dstCell)
	srcOff := internalCellOffset(srcCell)
	copy(dst.Data[dstOff:dstOff+InternalNodeCellSize], src.Data[srcOff:srcOff+InternalNodeCellSize])
}

func initInternal(p *pager.Page) {
	setNodeType(p, NodeTypeInternal)
	setIsRoot(p, false)
	setInternalNumKeys(p, 0)
	setInternalRightChild(p, 0)
}

// maxKey is the largest key stored directly in p. For a leaf this is its
// last cell's key; for an internal node it is its last stored key. It is
// not recursive: keys under an internal node's right_child are larger and
// are not consulted.
func maxKey(p *pager.Page) uint32 {
	if nodeType(p) == NodeTypeLeaf {
		return leafKey(p, numCells(p)-1)
	}
	return internalKey(p, internalNumKeys(p)-1)
}
