package bvh

import (
	"math"
	"sort"

	"github.com/gekko3d/spatial/geom"
)

// QueryMode selects what Intersect collects.
type QueryMode int

const (
	// First returns only the nearest hit, pruning subtrees that cannot beat
	// the best distance found so far.
	First QueryMode = iota
	// All returns every hit, sorted ascending by distance.
	All
)

// Hit pairs a payload with its hit distance along the ray.
type Hit[P any] struct {
	Payload  P
	Distance float32
}

// Intersect walks the tree front to back along the ray. Leaf candidates are
// resolved through the narrow-phase callback when one is installed
// (WithNarrowPhase); otherwise the distance to the leaf's bounds stands in.
// A degenerate ray returns an empty result. Read-only, like Cull.
func (t *Tree[P]) Intersect(r geom.Ray, mode QueryMode) []Hit[P] {
	if t.root == NilNode || r.IsDegenerate() {
		return nil
	}

	q := rayQuery[P]{tree: t, ray: r, mode: mode, bestT: float32(math.MaxFloat32)}
	tMin, tMax := r.IntersectAABB(t.nodes[t.root].bounds)
	if tMin > tMax || tMax < 0 {
		return nil
	}
	q.walk(t.root)

	if mode == All {
		sort.SliceStable(q.hits, func(i, j int) bool {
			return q.hits[i].Distance < q.hits[j].Distance
		})
	}
	return q.hits
}

type rayQuery[P any] struct {
	tree  *Tree[P]
	ray   geom.Ray
	mode  QueryMode
	bestT float32
	hits  []Hit[P]
}

// walk assumes n's bounds already passed the slab test.
func (q *rayQuery[P]) walk(n NodeId) {
	t := q.tree
	nd := &t.nodes[n]

	if nd.kind == NodeLeaf {
		q.visitLeaf(nd)
		return
	}

	leftT, leftOk := q.enter(nd.left)
	rightT, rightOk := q.enter(nd.right)

	// Nearer child first so First mode can prune the far one.
	near, nearT, nearOk := nd.left, leftT, leftOk
	far, farT, farOk := nd.right, rightT, rightOk
	if rightT < leftT {
		near, nearT, nearOk = nd.right, rightT, rightOk
		far, farT, farOk = nd.left, leftT, leftOk
	}

	if nearOk && !(q.mode == First && nearT >= q.bestT) {
		q.walk(near)
	}
	if farOk && !(q.mode == First && farT >= q.bestT) {
		q.walk(far)
	}
}

// enter returns the ray's entry parameter into the node's bounds and whether
// the slab test passed at all.
func (q *rayQuery[P]) enter(n NodeId) (float32, bool) {
	tMin, tMax := q.ray.IntersectAABB(q.tree.nodes[n].bounds)
	if tMin > tMax || tMax < 0 {
		return float32(math.MaxFloat32), false
	}
	return tMin, true
}

func (q *rayQuery[P]) visitLeaf(nd *node) {
	obj := q.tree.objects[nd.object]

	var dist float32
	if q.tree.narrowPhase != nil {
		d, ok := q.tree.narrowPhase(obj.payload, q.ray)
		if !ok {
			return
		}
		dist = d
	} else {
		tMin, tMax := q.ray.IntersectAABB(nd.bounds)
		if tMin > tMax || tMax < 0 {
			return
		}
		dist = tMin
	}

	switch q.mode {
	case First:
		if dist < q.bestT {
			q.bestT = dist
			if len(q.hits) == 0 {
				q.hits = append(q.hits, Hit[P]{Payload: obj.payload, Distance: dist})
			} else {
				q.hits[0] = Hit[P]{Payload: obj.payload, Distance: dist}
			}
		}
	case All:
		q.hits = append(q.hits, Hit[P]{Payload: obj.payload, Distance: dist})
	}
}
