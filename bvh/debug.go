package bvh

import (
	"fmt"
	"strings"

	"github.com/gekko3d/spatial/geom"
)

// NodeRef is a read-only view of one tree node, for debug drawing and
// balance diagnostics. Never consumed by gameplay logic.
type NodeRef struct {
	Id     NodeId
	Depth  int
	Kind   NodeKind
	Bounds geom.AABB

	// Object is set for leaves only.
	Object ObjectId
}

// FlatNodes collects the subtree under from in depth-first order (pass
// Root() or NilNode for the whole tree). Editor debug-draw feeds these boxes
// straight to a gizmo pass.
func (t *Tree[P]) FlatNodes(from NodeId) []NodeRef {
	if from == NilNode {
		from = t.root
	}
	var out []NodeRef
	t.flatten(from, 0, &out)
	return out
}

func (t *Tree[P]) flatten(n NodeId, depth int, out *[]NodeRef) {
	if n == NilNode {
		return
	}
	nd := &t.nodes[n]
	ref := NodeRef{Id: n, Depth: depth, Kind: nd.kind, Bounds: nd.bounds}
	if nd.kind == NodeLeaf {
		ref.Object = nd.object
	}
	*out = append(*out, ref)
	if nd.kind == NodeInternal {
		t.flatten(nd.left, depth+1, out)
		t.flatten(nd.right, depth+1, out)
	}
}

// DebugString renders the structure as an indented dump, one node per line,
// for eyeballing balance quality.
func (t *Tree[P]) DebugString() string {
	if t.root == NilNode {
		return "(empty tree)\n"
	}
	var sb strings.Builder
	for _, ref := range t.FlatNodes(t.root) {
		sb.WriteString(strings.Repeat("  ", ref.Depth))
		if ref.Kind == NodeLeaf {
			fmt.Fprintf(&sb, "leaf #%d obj=%d min=%v max=%v\n", ref.Id, ref.Object, ref.Bounds.Min, ref.Bounds.Max)
		} else {
			fmt.Fprintf(&sb, "node #%d min=%v max=%v\n", ref.Id, ref.Bounds.Min, ref.Bounds.Max)
		}
	}
	return sb.String()
}

// Stats summarizes tree shape and cost.
type Stats struct {
	Nodes        int
	Leaves       int
	MaxDepth     int
	AvgLeafDepth float64

	// SAHCost is the surface-area-weighted traversal cost estimate: the sum
	// over internal nodes of their surface area relative to the root's.
	// Lower is better balanced.
	SAHCost float64

	PendingInserts       int
	DirtyLeaves          int
	InsertedSinceRebuild int
}

func (t *Tree[P]) Stats() Stats {
	s := Stats{
		PendingInserts:       len(t.pendingInserts),
		DirtyLeaves:          len(t.dirtyLeaves),
		InsertedSinceRebuild: t.insertedSinceRebuild,
	}
	if t.root == NilNode {
		return s
	}

	rootArea := float64(t.nodes[t.root].bounds.SurfaceArea())
	var leafDepthSum int
	for _, ref := range t.FlatNodes(t.root) {
		s.Nodes++
		if ref.Depth > s.MaxDepth {
			s.MaxDepth = ref.Depth
		}
		switch ref.Kind {
		case NodeLeaf:
			s.Leaves++
			leafDepthSum += ref.Depth
		case NodeInternal:
			if rootArea > 0 {
				s.SAHCost += float64(ref.Bounds.SurfaceArea()) / rootArea
			}
		}
	}
	if s.Leaves > 0 {
		s.AvgLeafDepth = float64(leafDepthSum) / float64(s.Leaves)
	}
	return s
}
