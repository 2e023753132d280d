// Package generate builds example form diagrams for tests and the command
// line demo: structured orthogonal grids and Delaunay-triangulated point
// sets.
package generate

import (
	"fmt"
	"math/rand"

	"github.com/pradeep-pyro/triangle"

	"github.com/structarch/tna/diagrams"
)

// OrthoGrid returns a form diagram over an nx by ny grid of quads with
// spacing dx, dy, corner vertices anchored.
func OrthoGrid(nx, ny int, dx, dy float64) (form *diagrams.FormDiagram, err error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("grid needs at least one cell per direction, have %dx%d", nx, ny)
	}
	form = NewGridForm(nx, ny, dx, dy)
	for _, key := range form.Corners() {
		form.Vertex(key).IsAnchor = true
	}
	return
}

// NewGridForm builds the grid without anchoring anything.
func NewGridForm(nx, ny int, dx, dy float64) (form *diagrams.FormDiagram) {
	form = diagrams.NewFormDiagram()
	keyAt := func(i, j int) int { return j*(nx+1) + i }
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			v := form.NewVertex()
			v.X, v.Y = float64(i)*dx, float64(j)*dy
			form.AddVertexWithKey(keyAt(i, j), v)
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			_, err := form.AddFace([]int{
				keyAt(i, j), keyAt(i+1, j), keyAt(i+1, j+1), keyAt(i, j+1),
			})
			if err != nil {
				panic(err)
			}
		}
	}
	return
}

// Delaunay triangulates a planar point set and returns it as a form diagram.
// Triangle orientation from the triangulator is normalized to
// counterclockwise so the faces share a consistent winding.
func Delaunay(pts [][2]float64) (form *diagrams.FormDiagram, err error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("triangulation needs at least 3 points, have %d", len(pts))
	}
	tris := triangle.Delaunay(pts)
	form = diagrams.NewFormDiagram()
	for key, p := range pts {
		v := form.NewVertex()
		v.X, v.Y = p[0], p[1]
		form.AddVertexWithKey(key, v)
	}
	for _, tri := range tris {
		a, b, c := int(tri[0]), int(tri[1]), int(tri[2])
		pa, pb, pc := pts[a], pts[b], pts[c]
		if (pb[0]-pa[0])*(pc[1]-pa[1])-(pc[0]-pa[0])*(pb[1]-pa[1]) < 0 {
			b, c = c, b
		}
		if _, err = form.AddFace([]int{a, b, c}); err != nil {
			return nil, err
		}
	}
	return
}

// RandomPoints scatters n points uniformly over a w by h rectangle using the
// given source, for Delaunay example diagrams.
func RandomPoints(n int, w, h float64, rng *rand.Rand) (pts [][2]float64) {
	pts = make([][2]float64, n)
	for i := range pts {
		pts[i] = [2]float64{w * rng.Float64(), h * rng.Float64()}
	}
	return
}
