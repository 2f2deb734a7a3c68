package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box in world space.
// A valid box satisfies Min <= Max componentwise; Empty() returns the
// inverted sentinel used as the identity element for Union.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Empty returns the union identity: an inverted box that any valid box absorbs.
func Empty() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func FromCenterExtents(center, halfExtents mgl32.Vec3) AABB {
	return AABB{
		Min: center.Sub(halfExtents),
		Max: center.Add(halfExtents),
	}
}

// IsEmpty reports whether the box is inverted on any axis.
func (b AABB) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

// IsValid reports whether the box is non-inverted and all components are finite.
// NaN comparisons are false, so NaN mins/maxes fail the <= checks below.
func (b AABB) IsValid() bool {
	for i := 0; i < 3; i++ {
		lo, hi := b.Min[i], b.Max[i]
		if math.IsInf(float64(lo), 0) || math.IsInf(float64(hi), 0) {
			return false
		}
		if !(lo <= hi) {
			return false
		}
	}
	return true
}

func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{
			min(b.Min.X(), o.Min.X()),
			min(b.Min.Y(), o.Min.Y()),
			min(b.Min.Z(), o.Min.Z()),
		},
		Max: mgl32.Vec3{
			max(b.Max.X(), o.Max.X()),
			max(b.Max.Y(), o.Max.Y()),
			max(b.Max.Z(), o.Max.Z()),
		},
	}
}

// Contains reports whether o lies entirely inside b.
func (b AABB) Contains(o AABB) bool {
	return b.Min.X() <= o.Min.X() && b.Min.Y() <= o.Min.Y() && b.Min.Z() <= o.Min.Z() &&
		b.Max.X() >= o.Max.X() && b.Max.Y() >= o.Max.Y() && b.Max.Z() >= o.Max.Z()
}

// ContainsPoint reports whether p lies inside b (boundary inclusive).
func (b AABB) ContainsPoint(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Overlaps reports whether b and o share any volume.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

// SurfaceArea of the box; 0 for empty boxes. Used for balance diagnostics.
func (b AABB) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	return 2 * (s.X()*s.Y() + s.Y()*s.Z() + s.Z()*s.X())
}

// Volume of the box; 0 for empty boxes.
func (b AABB) Volume() float32 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	return s.X() * s.Y() * s.Z()
}
