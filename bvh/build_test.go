package bvh

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestBuildTwoObjectsSplit(t *testing.T) {
	tr := newTestTree(t)
	_, err := tr.Add(boxAt(mgl32.Vec3{-99, 0, 0}, 1), 0)
	require.NoError(t, err)
	_, err = tr.Add(boxAt(mgl32.Vec3{101, 0, 0}, 1), 1)
	require.NoError(t, err)
	tr.Restructure()
	checkInvariants(t, tr)

	root := tr.nodes[tr.root]
	require.Equal(t, NodeInternal, root.kind)
	require.Equal(t, NodeLeaf, tr.nodes[root.left].kind)
	require.Equal(t, NodeLeaf, tr.nodes[root.right].kind)

	// Root box spans both objects.
	require.LessOrEqual(t, root.bounds.Min.X(), float32(-100))
	require.GreaterOrEqual(t, root.bounds.Max.X(), float32(102))
}

func TestBuildDeterministic(t *testing.T) {
	mk := func() *Tree[int] {
		tr := newTestTree(t)
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 256; i++ {
			c := mgl32.Vec3{
				rng.Float32()*1800 - 900,
				rng.Float32()*1800 - 900,
				rng.Float32()*1800 - 900,
			}
			_, err := tr.Add(boxAt(c, 1+rng.Float32()), i)
			require.NoError(t, err)
		}
		tr.Restructure()
		return tr
	}

	a, b := mk(), mk()
	checkInvariants(t, a)
	require.Equal(t, a.DebugString(), b.DebugString(), "same input set must build the same tree")
}

func TestBuildCoincidentCentroids(t *testing.T) {
	// Identical Morton codes fall back to the stable middle split; the tree
	// must stay a proper binary tree rather than degenerating.
	tr := newTestTree(t)
	for i := 0; i < 9; i++ {
		_, err := tr.Add(boxAt(mgl32.Vec3{5, 5, 5}, float32(i+1)*0.1), i)
		require.NoError(t, err)
	}
	tr.Restructure()
	checkInvariants(t, tr)

	s := tr.Stats()
	require.Equal(t, 9, s.Leaves)
	// Middle splits keep the depth logarithmic even for one shared code.
	require.LessOrEqual(t, s.MaxDepth, 4)
}

func TestFindSplit(t *testing.T) {
	pairs := []buildPair{
		{code: 0b000_000, id: 0},
		{code: 0b000_001, id: 1},
		{code: 0b000_011, id: 2},
		{code: 0b100_000, id: 3},
		{code: 0b100_110, id: 4},
	}
	// Highest differing bit between first and last separates indexes 0-2
	// from 3-4.
	require.Equal(t, 2, findSplit(pairs, 0, 4))

	// All-equal range splits in the middle.
	same := []buildPair{{code: 7}, {code: 7}, {code: 7}, {code: 7}}
	require.Equal(t, 1, findSplit(same, 0, 3))
}

func TestRebuildResetsIncrementalDebt(t *testing.T) {
	tr := newTestTree(t)
	for i := 0; i < 64; i++ {
		_, err := tr.Add(boxAt(mgl32.Vec3{float32(i), 0, 0}, 0.4), i)
		require.NoError(t, err)
	}
	tr.Restructure()
	require.Equal(t, 0, tr.Stats().InsertedSinceRebuild)
	require.Equal(t, 0, tr.Stats().PendingInserts)
}
