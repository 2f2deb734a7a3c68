package bvh

import (
	"github.com/gekko3d/spatial/geom"
	"github.com/gekko3d/spatial/morton"
)

// NodeId addresses a node inside the tree's arena. Ids are plain indices,
// never pointers, so restructuring can free and reuse slots without leaving
// dangling references behind.
type NodeId int32

// NilNode is the "no node" sentinel, used for the empty tree's root and for
// the root's missing parent.
const NilNode NodeId = -1

// NodeKind tags the arena variant. Freed slots keep the kindFree tag until
// reuse so stale ids are at least detectable in debug dumps.
type NodeKind uint8

const (
	kindFree NodeKind = iota
	NodeInternal
	NodeLeaf
)

func (k NodeKind) String() string {
	switch k {
	case NodeInternal:
		return "internal"
	case NodeLeaf:
		return "leaf"
	}
	return "free"
}

type node struct {
	kind   NodeKind
	bounds geom.AABB
	parent NodeId

	// Internal nodes always have exactly two children.
	left  NodeId
	right NodeId

	// Leaves reference exactly one object.
	object ObjectId

	// Morton key of the subtree's first leaf in sorted order. Leaves carry
	// their own code; internals the minimum of their children. The
	// incremental insert descends by whichever child's code is closer.
	code morton.Code
}

func (t *Tree[P]) alloc() NodeId {
	if n := len(t.freeList); n > 0 {
		id := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.nodes[id] = node{parent: NilNode, left: NilNode, right: NilNode}
		return id
	}
	t.nodes = append(t.nodes, node{parent: NilNode, left: NilNode, right: NilNode})
	return NodeId(len(t.nodes) - 1)
}

func (t *Tree[P]) release(id NodeId) {
	t.nodes[id] = node{kind: kindFree, parent: NilNode, left: NilNode, right: NilNode}
	t.freeList = append(t.freeList, id)
}

// resetArena drops every node. Full rebuilds start from a clean slate rather
// than walking the free list.
func (t *Tree[P]) resetArena() {
	t.nodes = t.nodes[:0]
	t.freeList = t.freeList[:0]
	t.root = NilNode
}
