package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// IsDegenerate reports whether the ray has a (near) zero-length direction.
func (r Ray) IsDegenerate() bool {
	return r.Direction.LenSqr() < 1e-12
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB runs the slab test against b and returns the entry/exit
// parameters. The ray misses when tMin > tMax or tMax < 0. Entry is clamped
// to 0 so origins inside the box report distance 0.
func (r Ray) IntersectAABB(b AABB) (tMin, tMax float32) {
	// Biased reciprocal keeps axis-parallel rays finite, same trick as the
	// voxel editor picker.
	invDir := mgl32.Vec3{
		1.0 / (r.Direction.X() + 1e-8),
		1.0 / (r.Direction.Y() + 1e-8),
		1.0 / (r.Direction.Z() + 1e-8),
	}

	t1 := b.Min.Sub(r.Origin)
	t1 = mgl32.Vec3{t1.X() * invDir.X(), t1.Y() * invDir.Y(), t1.Z() * invDir.Z()}
	t2 := b.Max.Sub(r.Origin)
	t2 = mgl32.Vec3{t2.X() * invDir.X(), t2.Y() * invDir.Y(), t2.Z() * invDir.Z()}

	lo := mgl32.Vec3{min(t1.X(), t2.X()), min(t1.Y(), t2.Y()), min(t1.Z(), t2.Z())}
	hi := mgl32.Vec3{max(t1.X(), t2.X()), max(t1.Y(), t2.Y()), max(t1.Z(), t2.Z())}

	tMin = max(0, max(lo.X(), max(lo.Y(), lo.Z())))
	tMax = min(float32(math.MaxFloat32), min(hi.X(), min(hi.Y(), hi.Z())))
	return tMin, tMax
}

// HitsAABB reports whether the ray enters b within maxT.
func (r Ray) HitsAABB(b AABB, maxT float32) bool {
	tMin, tMax := r.IntersectAABB(b)
	return tMin <= tMax && tMax >= 0 && tMin <= maxT
}
