// Package morton maps 3D positions to 64-bit Z-order curve keys. Nearby
// points get numerically close codes, which is what the BVH builder sorts by.
package morton

import (
	"fmt"

	"github.com/gekko3d/spatial/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// Code is a 63-bit interleaved Morton key (21 bits per axis).
type Code uint64

// BitsPerAxis is the grid resolution of the encoding.
const BitsPerAxis = 21

const axisMask = (1 << BitsPerAxis) - 1

// Encode interleaves the low 21 bits of each axis: bit i of x lands at
// bit 3i, y at 3i+1, z at 3i+2.
func Encode(x, y, z uint32) Code {
	return Code(spreadBy3(x) | spreadBy3(y)<<1 | spreadBy3(z)<<2)
}

// Decode recovers the per-axis grid coordinates of a code.
func Decode(c Code) (x, y, z uint32) {
	return uint32(compactBy3(uint64(c))),
		uint32(compactBy3(uint64(c) >> 1)),
		uint32(compactBy3(uint64(c) >> 2))
}

// spreadBy3 inserts two zero bits after each of the low 21 bits.
func spreadBy3(v uint32) uint64 {
	x := uint64(v) & axisMask
	x = (x | x<<32) & 0x1f00000000ffff
	x = (x | x<<16) & 0x1f0000ff0000ff
	x = (x | x<<8) & 0x100f00f00f00f00f
	x = (x | x<<4) & 0x10c30c30c30c30c3
	x = (x | x<<2) & 0x1249249249249249
	return x
}

func compactBy3(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ x>>2) & 0x10c30c30c30c30c3
	x = (x ^ x>>4) & 0x100f00f00f00f00f
	x = (x ^ x>>8) & 0x1f0000ff0000ff
	x = (x ^ x>>16) & 0x1f00000000ffff
	x = (x ^ x>>32) & axisMask
	return x
}

// Grid quantizes world-space points against a fixed world AABB into the
// integer lattice the encoder consumes. Points outside the world bounds are
// clamped to the boundary cells.
type Grid struct {
	origin  mgl32.Vec3
	invSize mgl32.Vec3
}

// NewGrid builds a quantizer for the given world bounds. The bounds must be
// valid and have positive extent on every axis.
func NewGrid(world geom.AABB) (*Grid, error) {
	if !world.IsValid() {
		return nil, fmt.Errorf("morton: world bounds %v..%v are not a valid box", world.Min, world.Max)
	}
	size := world.Size()
	for i := 0; i < 3; i++ {
		if size[i] <= 0 {
			return nil, fmt.Errorf("morton: world bounds have zero extent on axis %d", i)
		}
	}
	return &Grid{
		origin:  world.Min,
		invSize: mgl32.Vec3{1 / size.X(), 1 / size.Y(), 1 / size.Z()},
	}, nil
}

// CodeAt returns the Morton code of the cell containing p.
func (g *Grid) CodeAt(p mgl32.Vec3) Code {
	return Encode(g.cell(p, 0), g.cell(p, 1), g.cell(p, 2))
}

func (g *Grid) cell(p mgl32.Vec3, axis int) uint32 {
	n := (p[axis] - g.origin[axis]) * g.invSize[axis]
	if n <= 0 {
		return 0
	}
	if n >= 1 {
		return axisMask
	}
	c := uint32(n * float32(1<<BitsPerAxis))
	if c > axisMask {
		c = axisMask
	}
	return c
}
