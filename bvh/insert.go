package bvh

import "github.com/gekko3d/spatial/morton"

// insertLeaf grafts a single queued object into the committed tree without a
// rebuild: descend toward the leaf whose Morton code is numerically closest,
// then split that leaf under a fresh internal node.
func (t *Tree[P]) insertLeaf(id ObjectId) {
	obj := t.objects[id]

	leaf := t.alloc()
	{
		nd := &t.nodes[leaf]
		nd.kind = NodeLeaf
		nd.object = id
		nd.code = obj.code
		nd.bounds = obj.bounds
	}
	t.objectToLeaf[id] = leaf

	if t.root == NilNode {
		t.root = leaf
		t.insertedSinceRebuild++
		return
	}

	// Descend by representative code distance.
	target := t.root
	for t.nodes[target].kind == NodeInternal {
		nd := &t.nodes[target]
		if codeDistance(obj.code, t.nodes[nd.left].code) <= codeDistance(obj.code, t.nodes[nd.right].code) {
			target = nd.left
		} else {
			target = nd.right
		}
	}

	// Splice a new internal node into the target leaf's old slot, with the
	// two leaves ordered by code to keep in-order traversal roughly sorted.
	parent := t.nodes[target].parent
	mid := t.alloc()
	nd := &t.nodes[mid]
	nd.kind = NodeInternal
	nd.parent = parent
	if obj.code < t.nodes[target].code {
		nd.left, nd.right = leaf, target
	} else {
		nd.left, nd.right = target, leaf
	}
	nd.bounds = t.nodes[leaf].bounds.Union(t.nodes[target].bounds)
	nd.code = min(t.nodes[leaf].code, t.nodes[target].code)
	t.nodes[leaf].parent = mid
	t.nodes[target].parent = mid

	if parent == NilNode {
		t.root = mid
	} else {
		p := &t.nodes[parent]
		if p.left == target {
			p.left = mid
		} else {
			p.right = mid
		}
		t.refitUpward(parent)
	}

	t.insertedSinceRebuild++
}

func codeDistance(a, b morton.Code) morton.Code {
	if a > b {
		return a - b
	}
	return b - a
}
