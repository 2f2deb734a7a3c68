package bvh

import (
	"math/bits"
	"sort"

	"github.com/gekko3d/spatial/morton"
)

type buildPair struct {
	code morton.Code
	id   ObjectId
}

// build runs the full top-down LBVH construction over every live object:
// Morton-sort, then recursive common-prefix splits. It is deterministic for
// an unchanged object set (ties sort by ObjectId, which is allocation order),
// so rebuilding twice yields an identical tree.
func (t *Tree[P]) build() {
	t.resetArena()
	clear(t.objectToLeaf)
	clear(t.pendingInserts)
	clear(t.dirtyLeaves)
	t.insertedSinceRebuild = 0

	if len(t.objects) == 0 {
		return
	}

	pairs := make([]buildPair, 0, len(t.objects))
	for id, obj := range t.objects {
		pairs = append(pairs, buildPair{code: obj.code, id: id})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].code != pairs[j].code {
			return pairs[i].code < pairs[j].code
		}
		return pairs[i].id < pairs[j].id
	})

	t.root = t.buildRange(pairs, 0, len(pairs)-1)
	t.log.Debugf("bvh: full rebuild, %d objects, %d nodes", len(pairs), len(t.nodes)-len(t.freeList))
}

// buildRange builds the subtree over the sorted slice [first, last] and
// returns its root. Bounds are fitted bottom-up as the recursion unwinds.
func (t *Tree[P]) buildRange(pairs []buildPair, first, last int) NodeId {
	if first == last {
		p := pairs[first]
		leaf := t.alloc()
		nd := &t.nodes[leaf]
		nd.kind = NodeLeaf
		nd.object = p.id
		nd.code = p.code
		nd.bounds = t.objects[p.id].bounds
		t.objectToLeaf[p.id] = leaf
		return leaf
	}

	split := findSplit(pairs, first, last)
	left := t.buildRange(pairs, first, split)
	right := t.buildRange(pairs, split+1, last)

	n := t.alloc()
	nd := &t.nodes[n]
	nd.kind = NodeInternal
	nd.left = left
	nd.right = right
	t.nodes[left].parent = n
	t.nodes[right].parent = n
	nd.bounds = t.nodes[left].bounds.Union(t.nodes[right].bounds)
	nd.code = min(t.nodes[left].code, t.nodes[right].code)
	return n
}

// findSplit locates the Karras split: the last index in [first, last] whose
// code shares more leading bits with pairs[first] than first and last share
// with each other. Ranges with one identical code split in the middle.
func findSplit(pairs []buildPair, first, last int) int {
	firstCode := pairs[first].code
	lastCode := pairs[last].code
	if firstCode == lastCode {
		return (first + last) >> 1
	}

	commonPrefix := bits.LeadingZeros64(uint64(firstCode ^ lastCode))

	// Binary search for the highest index still sharing commonPrefix+ bits
	// with firstCode.
	split := first
	step := last - first
	for step > 1 {
		step = (step + 1) >> 1
		if mid := split + step; mid < last {
			if bits.LeadingZeros64(uint64(firstCode^pairs[mid].code)) > commonPrefix {
				split = mid
			}
		}
	}
	return split
}
