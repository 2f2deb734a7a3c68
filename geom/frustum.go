package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane is Ax + By + Cz + D = 0 with the normal pointing INSIDE the volume
// it bounds.
type Plane = mgl32.Vec4

// Containment classifies an AABB against a convex volume.
type Containment int

const (
	Outside Containment = iota
	Intersecting
	Inside
)

func (c Containment) String() string {
	switch c {
	case Outside:
		return "outside"
	case Intersecting:
		return "intersecting"
	case Inside:
		return "inside"
	}
	return "unknown"
}

// Frustum is a camera view volume as 6 inward-facing planes, in order:
// Left, Right, Bottom, Top, Near, Far.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the 6 frustum planes from a view-projection
// matrix (Gribb/Hartmann rows method, OpenGL-style -1..1 depth).
func FrustumFromMatrix(vp mgl32.Mat4) Frustum {
	var f Frustum

	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(i, 0), vp.At(i, 1), vp.At(i, 2), vp.At(i, 3)}
	}
	w := row(3)

	f.Planes[0] = w.Add(row(0)) // Left
	f.Planes[1] = w.Sub(row(0)) // Right
	f.Planes[2] = w.Add(row(1)) // Bottom
	f.Planes[3] = w.Sub(row(1)) // Top
	f.Planes[4] = w.Add(row(2)) // Near
	f.Planes[5] = w.Sub(row(2)) // Far

	for i := range f.Planes {
		p := f.Planes[i]
		length := float32(math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])))
		if length > 0 {
			f.Planes[i] = p.Mul(1.0 / length)
		}
	}
	return f
}

// ClassifyAABB tests b against every plane using the positive/negative
// vertex test: per plane, the box corner farthest along the normal decides
// fully-outside, and the opposite corner decides whether the plane cuts
// the box.
func (f Frustum) ClassifyAABB(b AABB) Containment {
	result := Inside
	for i := 0; i < 6; i++ {
		plane := f.Planes[i]

		var pv, nv mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if plane[axis] > 0 {
				pv[axis] = b.Max[axis]
				nv[axis] = b.Min[axis]
			} else {
				pv[axis] = b.Min[axis]
				nv[axis] = b.Max[axis]
			}
		}

		if plane[0]*pv[0]+plane[1]*pv[1]+plane[2]*pv[2]+plane[3] < 0 {
			return Outside
		}
		if plane[0]*nv[0]+plane[1]*nv[1]+plane[2]*nv[2]+plane[3] < 0 {
			result = Intersecting
		}
	}
	return result
}

// ContainsAABB reports whether b is at least partially inside the frustum.
func (f Frustum) ContainsAABB(b AABB) bool {
	return f.ClassifyAABB(b) != Outside
}
