// Package bvh maintains a dynamic bounding volume hierarchy over a changing
// set of axis-aligned boxes. Mutations are queued through Add/Update/Remove
// and committed once per frame by Restructure, which picks between patching
// the existing tree and a full Morton-ordered rebuild. Committed trees serve
// read-only frustum culling and ray queries.
//
// The writer side is single-threaded: none of Add, Update, Remove or
// Restructure may run concurrently with each other or with a query. After a
// commit, any number of Cull/Intersect calls may run in parallel.
package bvh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gekko3d/spatial"
	"github.com/gekko3d/spatial/geom"
	"github.com/gekko3d/spatial/morton"
)

// ObjectId is the tree's handle for one tracked box. Ids are never reused.
type ObjectId uint32

var (
	// ErrInvalidHandle flags Update/Remove with an ObjectId that is not
	// currently tracked, typically a handle used after Remove.
	ErrInvalidHandle = errors.New("bvh: unknown object id")

	// ErrInvalidBounds flags NaN/Inf or inverted boxes at the mutation
	// boundary, before they can poison any union upstream.
	ErrInvalidBounds = errors.New("bvh: bounds must be finite with min <= max")

	// ErrDegenerateWorld flags zero or negative volume world bounds at
	// construction.
	ErrDegenerateWorld = errors.New("bvh: degenerate world bounds")
)

const (
	defaultRebuildRatio = 0.25
	defaultRebuildFloor = 8
)

type object[P any] struct {
	bounds  geom.AABB
	payload P
	code    morton.Code
}

// Tree is the dynamic BVH. P is the caller's opaque payload handle; the tree
// stores it and hands it back from queries but never owns or inspects it.
// Callers must Remove an object before destroying its payload.
type Tree[P any] struct {
	log          spatial.Logger
	grid         *morton.Grid
	rebuildRatio float32
	rebuildFloor int
	narrowPhase  func(payload P, r geom.Ray) (float32, bool)

	nodes    []node
	freeList []NodeId
	root     NodeId

	objects        map[ObjectId]*object[P]
	objectToLeaf   map[ObjectId]NodeId
	pendingInserts map[ObjectId]struct{}
	dirtyLeaves    map[NodeId]struct{}

	insertedSinceRebuild int
	nextObject           ObjectId
}

type Option[P any] func(*Tree[P])

func WithLogger[P any](log spatial.Logger) Option[P] {
	return func(t *Tree[P]) { t.log = log }
}

// WithRebuildRatio overrides the incremental-insert fraction past which
// Restructure prefers a full rebuild.
func WithRebuildRatio[P any](ratio float32) Option[P] {
	return func(t *Tree[P]) { t.rebuildRatio = ratio }
}

// WithNarrowPhase installs the payload's precise ray test, consumed by
// Intersect to turn box-level candidates into exact distances. Without it,
// hits report the distance to the bounding box.
func WithNarrowPhase[P any](test func(payload P, r geom.Ray) (float32, bool)) Option[P] {
	return func(t *Tree[P]) { t.narrowPhase = test }
}

// New creates an empty tree whose Morton grid spans the given world bounds.
func New[P any](world geom.AABB, opts ...Option[P]) (*Tree[P], error) {
	grid, err := morton.NewGrid(world)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateWorld, err)
	}
	t := &Tree[P]{
		log:            spatial.NewNopLogger(),
		grid:           grid,
		rebuildRatio:   defaultRebuildRatio,
		rebuildFloor:   defaultRebuildFloor,
		root:           NilNode,
		objects:        make(map[ObjectId]*object[P]),
		objectToLeaf:   make(map[ObjectId]NodeId),
		pendingInserts: make(map[ObjectId]struct{}),
		dirtyLeaves:    make(map[NodeId]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Count returns the number of live objects, committed or pending.
func (t *Tree[P]) Count() int {
	return len(t.objects)
}

// Root returns the current root id, NilNode for an empty tree.
func (t *Tree[P]) Root() NodeId {
	return t.root
}

// Add queues a new object. It becomes a real leaf at the next Restructure.
func (t *Tree[P]) Add(bounds geom.AABB, payload P) (ObjectId, error) {
	if !bounds.IsValid() {
		return 0, fmt.Errorf("%w: got %v..%v", ErrInvalidBounds, bounds.Min, bounds.Max)
	}
	id := t.nextObject
	t.nextObject++
	t.objects[id] = &object[P]{
		bounds:  bounds,
		payload: payload,
		code:    t.grid.CodeAt(bounds.Center()),
	}
	t.pendingInserts[id] = struct{}{}
	return id, nil
}

// Update overwrites an object's bounds. Committed leaves are marked dirty and
// refit at the next Restructure; pending objects just pick up the new box.
func (t *Tree[P]) Update(id ObjectId, bounds geom.AABB) error {
	if !bounds.IsValid() {
		return fmt.Errorf("%w: got %v..%v", ErrInvalidBounds, bounds.Min, bounds.Max)
	}
	obj, ok := t.objects[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, id)
	}
	obj.bounds = bounds
	obj.code = t.grid.CodeAt(bounds.Center())

	if leaf, committed := t.objectToLeaf[id]; committed {
		t.nodes[leaf].bounds = bounds
		t.nodes[leaf].code = obj.code
		t.dirtyLeaves[leaf] = struct{}{}
	}
	return nil
}

// Remove detaches an object. Committed leaves are spliced out immediately;
// pending objects are simply dropped from the queue.
func (t *Tree[P]) Remove(id ObjectId) error {
	if _, ok := t.objects[id]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, id)
	}
	delete(t.objects, id)

	if _, pending := t.pendingInserts[id]; pending {
		delete(t.pendingInserts, id)
		return nil
	}

	leaf := t.objectToLeaf[id]
	delete(t.objectToLeaf, id)
	delete(t.dirtyLeaves, leaf)
	t.removeLeaf(leaf)
	return nil
}

// Restructure commits all queued work. It either patches the existing tree
// (incremental inserts plus dirty-leaf refits) or, when enough incremental
// edits have accumulated to degrade balance, rebuilds from scratch.
// Call it once per frame after the frame's mutations; queries observe the
// committed tree only.
func (t *Tree[P]) Restructure() {
	if t.root == NilNode || t.rebuildNeeded() {
		t.build()
		return
	}

	if len(t.pendingInserts) > 0 {
		// Ascending id order keeps repeated runs deterministic.
		ids := make([]ObjectId, 0, len(t.pendingInserts))
		for id := range t.pendingInserts {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			t.insertLeaf(id)
		}
		clear(t.pendingInserts)
	}

	t.updateDirtyNodes()
}

// rebuildNeeded reports whether incremental insertions since the last full
// build have likely degraded balance past the point where a rebuild is
// cheaper than living with deep leaves. The floor keeps tiny trees from
// rebuilding constantly.
func (t *Tree[P]) rebuildNeeded() bool {
	projected := t.insertedSinceRebuild + len(t.pendingInserts)
	if projected < t.rebuildFloor {
		return false
	}
	return float32(projected) > t.rebuildRatio*float32(len(t.objects))
}

// Clear drops every object and node, keeping configuration.
func (t *Tree[P]) Clear() {
	t.resetArena()
	clear(t.objects)
	clear(t.objectToLeaf)
	clear(t.pendingInserts)
	clear(t.dirtyLeaves)
	t.insertedSinceRebuild = 0
}

// updateDirtyNodes propagates moved-leaf bounds up the parent chains,
// stopping as soon as an ancestor's box is unchanged.
func (t *Tree[P]) updateDirtyNodes() {
	for leaf := range t.dirtyLeaves {
		t.refitUpward(t.nodes[leaf].parent)
	}
	clear(t.dirtyLeaves)
}

// refitUpward recomputes bounds (and representative codes) from n to the
// root, with an early out once nothing changes.
func (t *Tree[P]) refitUpward(n NodeId) {
	for n != NilNode {
		nd := &t.nodes[n]
		left, right := &t.nodes[nd.left], &t.nodes[nd.right]
		bounds := left.bounds.Union(right.bounds)
		code := min(left.code, right.code)
		if bounds == nd.bounds && code == nd.code {
			return
		}
		nd.bounds = bounds
		nd.code = code
		n = nd.parent
	}
}

// removeLeaf splices the leaf's parent out of the tree: the sibling takes the
// parent's place and both freed slots go back to the arena.
func (t *Tree[P]) removeLeaf(leaf NodeId) {
	parent := t.nodes[leaf].parent
	if parent == NilNode {
		// Last object in the tree.
		t.root = NilNode
		t.release(leaf)
		return
	}

	p := &t.nodes[parent]
	sibling := p.left
	if sibling == leaf {
		sibling = p.right
	}

	grand := p.parent
	t.nodes[sibling].parent = grand
	if grand == NilNode {
		t.root = sibling
	} else {
		g := &t.nodes[grand]
		if g.left == parent {
			g.left = sibling
		} else {
			g.right = sibling
		}
	}

	t.release(parent)
	t.release(leaf)
	t.refitUpward(grand)
}
