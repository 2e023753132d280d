// Package diagrams implements the form diagram used in thrust network
// analysis: an attributed planar mesh carrying loads and force densities,
// the boundary conditioning that closes it at its supports, and the force
// diagram built as its dual.
package diagrams

import (
	"fmt"
	"math"

	"github.com/structarch/tna/mesh"
)

// FormDiagram is a planar form diagram. It embeds the half-edge mesh and adds
// the foot-generation parameters.
type FormDiagram struct {
	*mesh.Mesh
	Name string

	FeetScale float64 // distance from anchor to foot
	FeetAlpha float64 // half opening angle between double feet, degrees
	FeetTol   float64 // collinearity tolerance for the corner sign test
}

func NewFormDiagram() (f *FormDiagram) {
	f = &FormDiagram{
		Mesh:      mesh.NewMesh(),
		Name:      "FormDiagram",
		FeetScale: 0.1,
		FeetAlpha: 45,
		FeetTol:   0.1,
	}
	return
}

// FromLines builds a form diagram from a list of 3D line segments, welding
// endpoints at the given decimal precision and finding faces in the planar
// embedding. The unbounded outer face is deleted when deleteBoundaryFace is
// set.
func FromLines(lines [][2][3]float64, precision int, deleteBoundaryFace bool) (f *FormDiagram, err error) {
	f = NewFormDiagram()
	if err = mesh.BuildFromLines(f.Mesh, lines, precision, deleteBoundaryFace); err != nil {
		f = nil
	}
	return
}

func (f *FormDiagram) String() string {
	var dmin, dmax int
	for i, key := range f.VertexKeys() {
		d := f.VertexDegree(key)
		if i == 0 || d < dmin {
			dmin = d
		}
		if d > dmax {
			dmax = d
		}
	}
	return fmt.Sprintf("%s: %d vertices, %d edges, %d faces, vertex degree %d..%d",
		f.Name, f.NumVertices(), len(f.Edges()), f.NumFaces(), dmin, dmax)
}

// Edges returns the undirected edges that participate in the force-density
// system, in packed-key order.
func (f *FormDiagram) Edges() []mesh.EdgeKey {
	return f.EdgesWhere(func(u, v int, e *mesh.Edge) bool { return e.IsEdge })
}

// UVIndex maps each force-density edge to its index in IndexUV.
func (f *FormDiagram) UVIndex() map[mesh.EdgeKey]int {
	uv := make(map[mesh.EdgeKey]int)
	for i, ek := range f.Edges() {
		uv[ek] = i
	}
	return uv
}

// IndexUV lists the force-density edges; the slice position is the edge
// index used by the equilibrium solver.
func (f *FormDiagram) IndexUV() []mesh.EdgeKey {
	return f.Edges()
}

// Anchors returns the keys of the support vertices.
func (f *FormDiagram) Anchors() []int {
	return f.VerticesWhere(func(key int, v *mesh.Vertex) bool { return v.IsAnchor })
}

// Fixed returns the keys of the fixed vertices.
func (f *FormDiagram) Fixed() []int {
	return f.VerticesWhere(func(key int, v *mesh.Vertex) bool { return v.IsFixed })
}

// Leaves returns the vertices of degree 1.
func (f *FormDiagram) Leaves() []int {
	return f.VerticesWhere(func(key int, v *mesh.Vertex) bool { return f.VertexDegree(key) == 1 })
}

// Corners returns the vertices of degree 2.
func (f *FormDiagram) Corners() []int {
	return f.VerticesWhere(func(key int, v *mesh.Vertex) bool { return f.VertexDegree(key) == 2 })
}

// Residual sums the Euclidean norm of the reaction vector over all vertices
// that are neither anchor nor fixed. At equilibrium every free vertex has a
// zero reaction, so a nonzero value indicates solver non-convergence. The
// equilibrium solver reports its own internal residual metric; the two are
// computed independently and known not to agree.
func (f *FormDiagram) Residual() (r float64) {
	for _, key := range f.VerticesWhere(func(key int, v *mesh.Vertex) bool {
		return !v.IsAnchor && !v.IsFixed
	}) {
		v := f.Vertex(key)
		r += math.Sqrt(v.Rx*v.Rx + v.Ry*v.Ry + v.Rz*v.Rz)
	}
	return
}

// CollapseSmallEdges collapses boundary edges shorter than tol into their
// second endpoint at the midpoint. Cleanup for near-degenerate boundaries
// produced by welding or foot generation.
func (f *FormDiagram) CollapseSmallEdges(tol float64) error {
	loops, err := f.VerticesOnBoundaries()
	if err != nil {
		return err
	}
	for _, loop := range loops {
		for i := 0; i+1 < len(loop); i++ {
			u, v := loop[i], loop[i+1]
			if !f.HasVertex(u) || !f.HasVertex(v) || !f.HasEdge(u, v) {
				continue
			}
			if f.EdgeLength(u, v) < tol {
				if err := f.CollapseEdge(v, u, 0.5, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Dual populates target with the geometric dual of the form diagram,
// restricted to interior vertices: one dual vertex per primal face touched by
// an interior vertex, placed at the face centroid and keyed by the primal
// face key, and one dual face per interior primal vertex whose cycle is the
// ordered list of incident faces. A diagram with no interior vertices yields
// an empty dual.
func (f *FormDiagram) Dual(target *mesh.Mesh) error {
	if target.NumVertices() != 0 || target.NumFaces() != 0 {
		return fmt.Errorf("dual target mesh is not empty")
	}
	onBoundary := make(map[int]bool)
	for _, key := range f.VerticesOnBoundary() {
		onBoundary[key] = true
	}
	for _, key := range f.VertexKeys() {
		if onBoundary[key] {
			continue
		}
		fkeys := f.VertexFaces(key, true)
		for _, fkey := range fkeys {
			if target.HasVertex(fkey) {
				continue
			}
			x, y, z := f.FaceCentroid(fkey)
			v := target.NewVertex()
			v.X, v.Y, v.Z = x, y, z
			target.AddVertexWithKey(fkey, v)
		}
		if err := target.AddFaceWithKey(key, fkeys); err != nil {
			return err
		}
	}
	return nil
}
