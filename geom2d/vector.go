// Package geom2d holds the planar vector operations used by boundary
// conditioning: everything works on XY with z ignored.
package geom2d

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type Vec struct {
	X, Y float64
}

func Sub(a, b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y} }

func Add(a, b Vec) Vec { return Vec{a.X + b.X, a.Y + b.Y} }

func Scale(s float64, a Vec) Vec { return Vec{s * a.X, s * a.Y} }

func (a Vec) Norm() float64 { return math.Hypot(a.X, a.Y) }

// Normalize returns the unit vector of a, or the zero vector when a has no
// length.
func Normalize(a Vec) Vec {
	n := a.Norm()
	if n == 0 {
		return Vec{}
	}
	return Vec{a.X / n, a.Y / n}
}

// CrossZ returns the z component of the cross product of a and b, the signed
// test used to classify boundary corner handedness.
func CrossZ(a, b Vec) float64 { return a.X*b.Y - a.Y*b.X }

// PerpCCW returns a rotated a quarter turn counterclockwise, i.e. the cross
// product of the vertical axis with a.
func PerpCCW(a Vec) Vec { return Vec{-a.Y, a.X} }

// Rotate rotates a by angle radians counterclockwise.
func Rotate(a Vec, angle float64) Vec {
	s, c := math.Sincos(angle)
	return Vec{c*a.X - s*a.Y, s*a.X + c*a.Y}
}

// SignedArea returns the signed area of a polygon; counterclockwise polygons
// are positive.
func SignedArea(pts []Vec) (area float64) {
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		area += CrossZ(a, b)
	}
	return area / 2
}

// Centroid returns the arithmetic mean of the points.
func Centroid(pts []Vec) (c Vec) {
	for _, p := range pts {
		c = Add(c, p)
	}
	return Scale(1/float64(len(pts)), c)
}

// BBox returns the bounding box of the points.
func BBox(pts []Vec) (min, max Vec) {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Y
	}
	min = Vec{floats.Min(xs), floats.Min(ys)}
	max = Vec{floats.Max(xs), floats.Max(ys)}
	return
}
