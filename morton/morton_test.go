package morton

import (
	"testing"

	"github.com/gekko3d/spatial/geom"
	"github.com/go-gl/mathgl/mgl32"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][3]uint32{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{123, 456, 789},
		{axisMask, axisMask, axisMask},
		{axisMask, 0, axisMask},
	}
	for _, c := range cases {
		x, y, z := Decode(Encode(c[0], c[1], c[2]))
		if x != c[0] || y != c[1] || z != c[2] {
			t.Errorf("round trip %v: got (%d,%d,%d)", c, x, y, z)
		}
	}
}

func TestEncodeBitLayout(t *testing.T) {
	// Bit i of x lands at 3i, y at 3i+1, z at 3i+2.
	if Encode(1, 0, 0) != 0b001 {
		t.Errorf("x bit misplaced: %b", Encode(1, 0, 0))
	}
	if Encode(0, 1, 0) != 0b010 {
		t.Errorf("y bit misplaced: %b", Encode(0, 1, 0))
	}
	if Encode(0, 0, 1) != 0b100 {
		t.Errorf("z bit misplaced: %b", Encode(0, 0, 1))
	}
	if Encode(2, 0, 0) != 0b1000 {
		t.Errorf("x bit 1 misplaced: %b", Encode(2, 0, 0))
	}
}

func TestCodesPreserveLocality(t *testing.T) {
	// Points in the same octant of the grid must sort before points in a
	// higher octant along the curve's major axis.
	lowHalf := Encode(10, 10, 10)
	highHalf := Encode(10, 10, 1<<20)
	if lowHalf >= highHalf {
		t.Error("code ordering should follow the high bits of z")
	}
}

func TestGridQuantization(t *testing.T) {
	world := geom.AABB{Min: mgl32.Vec3{-100, -100, -100}, Max: mgl32.Vec3{100, 100, 100}}
	g, err := NewGrid(world)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	// Same cell, same code.
	a := g.CodeAt(mgl32.Vec3{0, 0, 0})
	b := g.CodeAt(mgl32.Vec3{1e-5, 1e-5, 1e-5})
	if a != b {
		t.Error("points in the same cell should share a code")
	}

	// Out-of-world points clamp to the boundary cells instead of wrapping.
	low := g.CodeAt(mgl32.Vec3{-500, -500, -500})
	if low != g.CodeAt(world.Min) {
		t.Error("below-world point should clamp to the min corner cell")
	}
	high := g.CodeAt(mgl32.Vec3{500, 500, 500})
	if x, y, z := Decode(high); x != axisMask || y != axisMask || z != axisMask {
		t.Errorf("above-world point should clamp to the max cell, got (%d,%d,%d)", x, y, z)
	}

	// Monotone along each axis.
	if g.CodeAt(mgl32.Vec3{-90, 0, 0}) >= g.CodeAt(mgl32.Vec3{90, 0, 0}) {
		t.Error("codes should grow along +x for fixed y/z")
	}
}

func TestGridRejectsDegenerateWorld(t *testing.T) {
	flat := geom.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{10, 0, 10}}
	if _, err := NewGrid(flat); err == nil {
		t.Error("zero-extent world should be rejected")
	}

	inverted := geom.AABB{Min: mgl32.Vec3{10, 10, 10}, Max: mgl32.Vec3{-10, -10, -10}}
	if _, err := NewGrid(inverted); err == nil {
		t.Error("inverted world should be rejected")
	}
}
