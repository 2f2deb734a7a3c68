package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrustumClassify(t *testing.T) {
	// Camera at origin looking down -Z, 90 deg FOV, near 1, far 100.
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1.0, 1.0, 100.0)
	view := mgl32.LookAtV(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 0, -1},
		mgl32.Vec3{0, 1, 0},
	)
	f := FrustumFromMatrix(proj.Mul4(view))

	tests := []struct {
		name     string
		min, max mgl32.Vec3
		want     Containment
	}{
		{"inside center", mgl32.Vec3{-1, -1, -10}, mgl32.Vec3{1, 1, -5}, Inside},
		{"outside left", mgl32.Vec3{-20, -1, -10}, mgl32.Vec3{-15, 1, -5}, Outside},
		{"outside right", mgl32.Vec3{15, -1, -10}, mgl32.Vec3{20, 1, -5}, Outside},
		{"outside behind near", mgl32.Vec3{-1, -1, 2}, mgl32.Vec3{1, 1, 5}, Outside},
		{"outside far", mgl32.Vec3{-1, -1, -200}, mgl32.Vec3{1, 1, -150}, Outside},
		{"straddling left plane", mgl32.Vec3{-15, -1, -10}, mgl32.Vec3{-5, 1, -5}, Intersecting},
		{"encompassing huge box", mgl32.Vec3{-1000, -1000, -1000}, mgl32.Vec3{1000, 1000, 1000}, Intersecting},
	}

	for _, tc := range tests {
		box := AABB{Min: tc.min, Max: tc.max}
		got := f.ClassifyAABB(box)
		if got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		if visible := f.ContainsAABB(box); visible != (tc.want != Outside) {
			t.Errorf("%s: ContainsAABB=%v disagrees with classification %v", tc.name, visible, got)
		}
	}
}

func TestFrustumOrtho(t *testing.T) {
	proj := mgl32.Ortho(-10, 10, -10, 10, 0, 20)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := FrustumFromMatrix(proj.Mul4(view))

	inside := AABB{Min: mgl32.Vec3{-1, -1, -6}, Max: mgl32.Vec3{1, 1, -4}}
	if f.ClassifyAABB(inside) != Inside {
		t.Error("box at z=-5 should be fully inside the ortho volume")
	}

	// Far plane sits at z=-20, so -25 is out.
	far := AABB{Min: mgl32.Vec3{-1, -1, -26}, Max: mgl32.Vec3{1, 1, -24}}
	if f.ClassifyAABB(far) != Outside {
		t.Error("box at z=-25 should be outside (far=20)")
	}
}

func TestContainmentString(t *testing.T) {
	if Outside.String() != "outside" || Intersecting.String() != "intersecting" || Inside.String() != "inside" {
		t.Error("Containment strings changed")
	}
}
