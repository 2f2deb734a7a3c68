package bvh

import "github.com/gekko3d/spatial/geom"

// Cull returns the payloads of every object whose bounds touch the frustum.
// Subtrees fully outside any plane are pruned; subtrees fully inside skip
// all further plane tests. Traversal is left-before-right, so the result
// order is stable for an unchanged tree and frustum.
//
// An empty tree yields an empty result. Read-only: safe to call from many
// goroutines between commits.
func (t *Tree[P]) Cull(f geom.Frustum) []P {
	var out []P
	t.cullNode(t.root, f, false, &out)
	return out
}

func (t *Tree[P]) cullNode(n NodeId, f geom.Frustum, inside bool, out *[]P) {
	if n == NilNode {
		return
	}
	nd := &t.nodes[n]

	if !inside {
		switch f.ClassifyAABB(nd.bounds) {
		case geom.Outside:
			return
		case geom.Inside:
			// Everything below is visible, no more plane tests needed.
			inside = true
		}
	}

	if nd.kind == NodeLeaf {
		*out = append(*out, t.objects[nd.object].payload)
		return
	}
	t.cullNode(nd.left, f, inside, out)
	t.cullNode(nd.right, f, inside, out)
}
