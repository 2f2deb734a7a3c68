package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRaySlabTest(t *testing.T) {
	unit := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	// Head-on hit from -Z: entry at the near face z=-1, 9 units away.
	r := Ray{Origin: mgl32.Vec3{0, 0, -10}, Direction: mgl32.Vec3{0, 0, 1}}
	tMin, tMax := r.IntersectAABB(unit)
	if tMin > tMax {
		t.Fatal("head-on ray should hit")
	}
	if tMin < 8.99 || tMin > 9.01 {
		t.Errorf("entry distance: got %f, want 9", tMin)
	}

	// Origin inside the box clamps entry to 0.
	inside := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	tMin, tMax = inside.IntersectAABB(unit)
	if tMin != 0 || tMin > tMax {
		t.Errorf("inside origin: got tMin=%f tMax=%f", tMin, tMax)
	}

	// Parallel miss above the box.
	miss := Ray{Origin: mgl32.Vec3{0, 5, -10}, Direction: mgl32.Vec3{0, 0, 1}}
	if miss.HitsAABB(unit, 1000) {
		t.Error("offset parallel ray should miss")
	}

	// Box entirely behind the origin.
	behind := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, 1}}
	if behind.HitsAABB(unit, 1000) {
		t.Error("box behind the ray should miss")
	}

	// Beyond maxT.
	if r.HitsAABB(unit, 5) {
		t.Error("hit at 9 should be rejected with maxT=5")
	}
}

func TestRayDegenerate(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{1, 2, 3}}
	if !r.IsDegenerate() {
		t.Error("zero direction should be degenerate")
	}
	r.Direction = mgl32.Vec3{0, 0, 1e-7}
	if !r.IsDegenerate() {
		t.Error("near-zero direction should be degenerate")
	}
	r.Direction = mgl32.Vec3{0, 0, 1}
	if r.IsDegenerate() {
		t.Error("unit direction is not degenerate")
	}
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{1, 0, 0}, Direction: mgl32.Vec3{0, 2, 0}}
	if p := r.At(2); p != (mgl32.Vec3{1, 4, 0}) {
		t.Errorf("At(2): got %v", p)
	}
}
