// Package equilibrium implements the force-density solvers that consume a
// conditioned form diagram and write force, length and reaction attributes
// back through the attribute schema of the mesh package. The diagram owns
// its elements; the solver only ever holds keys.
package equilibrium

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/structarch/tna/diagrams"
	"github.com/structarch/tna/mesh"
)

// system is the indexed view of a form diagram used for assembly: all
// vertices in key order, partitioned into free and fixed (anchor or fixed)
// index sets, and the force-density edges.
type system struct {
	form  *diagrams.FormDiagram
	keys  []int       // column index -> vertex key
	index map[int]int // vertex key -> column index
	edges []mesh.EdgeKey
	free  []int // column indices of free vertices
	fixed []int // column indices of anchored or fixed vertices
}

func newSystem(form *diagrams.FormDiagram) (s *system, err error) {
	s = &system{
		form:  form,
		keys:  form.VertexKeys(),
		index: make(map[int]int),
		edges: form.Edges(),
	}
	if len(s.edges) == 0 {
		return nil, fmt.Errorf("form diagram has no force-density edges")
	}
	degree := make(map[int]int)
	for _, ek := range s.edges {
		u, v := ek.Vertices()
		degree[u]++
		degree[v]++
	}
	for i, key := range s.keys {
		s.index[key] = i
		v := form.Vertex(key)
		if v.IsAnchor || v.IsFixed {
			s.fixed = append(s.fixed, i)
		} else {
			if degree[key] == 0 {
				return nil, fmt.Errorf(
					"free vertex %d has no force-density edges; condition the boundaries first", key)
			}
			s.free = append(s.free, i)
		}
	}
	if len(s.free) == 0 {
		return nil, fmt.Errorf("form diagram has no free vertices")
	}
	return
}

// laplacian assembles D = Ct Q C over the force-density edges with the given
// densities, one density per edge in system edge order.
func (s *system) laplacian(q []float64) *sparse.CSR {
	n := len(s.keys)
	D := sparse.NewDOK(n, n)
	for i, ek := range s.edges {
		u, v := ek.Vertices()
		iu, iv := s.index[u], s.index[v]
		D.Set(iu, iu, D.At(iu, iu)+q[i])
		D.Set(iv, iv, D.At(iv, iv)+q[i])
		D.Set(iu, iv, D.At(iu, iv)-q[i])
		D.Set(iv, iu, D.At(iv, iu)-q[i])
	}
	return D.ToCSR()
}

// solveVertical solves Dff zf = pz_f - Dfc zc for the free vertical
// coordinates and returns the full z vector in column-index order.
func (s *system) solveVertical(D *sparse.CSR) (z []float64, err error) {
	var (
		nf    = len(s.free)
		n     = len(s.keys)
		isCol = make([]int, n) // column index -> free sub-index, -1 when fixed
	)
	for i := range isCol {
		isCol[i] = -1
	}
	for fi, i := range s.free {
		isCol[i] = fi
	}
	z = make([]float64, n)
	rhs := make([]float64, nf)
	for fi, i := range s.free {
		rhs[fi] = s.form.Vertex(s.keys[i]).Pz
	}
	for _, i := range s.fixed {
		z[i] = s.form.Vertex(s.keys[i]).Z
	}
	Dff := mat.NewDense(nf, nf, nil)
	D.DoNonZero(func(i, j int, v float64) {
		fi := isCol[i]
		if fi < 0 {
			return
		}
		if fj := isCol[j]; fj >= 0 {
			Dff.Set(fi, fj, v)
		} else {
			rhs[fi] -= v * z[j]
		}
	})
	var zf mat.Dense
	if err = zf.Solve(Dff, mat.NewDense(nf, 1, rhs)); err != nil {
		return nil, fmt.Errorf("vertical system is singular: %w", err)
	}
	for fi, i := range s.free {
		z[i] = zf.At(fi, 0)
	}
	return
}

// writeBack stores the solved state on the diagram: z per vertex, reactions
// r = p - D xyz per vertex and axis, and q, length, force and area per edge.
func (s *system) writeBack(D *sparse.CSR, q, z []float64) {
	form := s.form
	for i, key := range s.keys {
		form.Vertex(key).Z = z[i]
	}
	n := len(s.keys)
	rx := make([]float64, n)
	ry := make([]float64, n)
	rz := make([]float64, n)
	for i, key := range s.keys {
		v := form.Vertex(key)
		rx[i], ry[i], rz[i] = v.Px, v.Py, v.Pz
	}
	D.DoNonZero(func(i, j int, d float64) {
		v := form.Vertex(s.keys[j])
		rx[i] -= d * v.X
		ry[i] -= d * v.Y
		rz[i] -= d * v.Z
	})
	for i, key := range s.keys {
		v := form.Vertex(key)
		v.Rx, v.Ry, v.Rz = rx[i], ry[i], rz[i]
	}
	for i, ek := range s.edges {
		u, v := ek.Vertices()
		e := form.Edge(u, v)
		e.Q = q[i]
		e.L = form.EdgeLength(u, v)
		e.F = e.Q * e.L
		// Cross-section area under unit allowable stress.
		e.A = math.Abs(e.F)
	}
}

// densities returns the current force densities clamped to their per-edge
// bounds, scaled by scale.
func (s *system) densities(scale float64) []float64 {
	q := make([]float64, len(s.edges))
	for i, ek := range s.edges {
		u, v := ek.Vertices()
		e := s.form.Edge(u, v)
		qi := scale * e.Q
		if qi < e.QMin {
			qi = e.QMin
		}
		if qi > e.QMax {
			qi = e.QMax
		}
		q[i] = qi
	}
	return q
}

// maxVerticalResidual is the solver's internal convergence metric: the
// largest |rz| over the free vertices. It deliberately differs from
// diagrams.Residual, which sums full reaction norms; both are kept.
func (s *system) maxVerticalResidual() (res float64) {
	for _, i := range s.free {
		if r := math.Abs(s.form.Vertex(s.keys[i]).Rz); r > res {
			res = r
		}
	}
	return
}

// Vertical solves vertical equilibrium once with the force densities stored
// on the diagram and writes the solution back. It returns the solver's
// internal residual metric.
func Vertical(form *diagrams.FormDiagram) (residual float64, err error) {
	s, err := newSystem(form)
	if err != nil {
		return 0, err
	}
	q := s.densities(1)
	D := s.laplacian(q)
	z, err := s.solveVertical(D)
	if err != nil {
		return 0, err
	}
	s.writeBack(D, q, z)
	return s.maxVerticalResidual(), nil
}

// VerticalFromZmax scales the force densities of the diagram uniformly until
// the highest free vertex reaches zmax, then writes the converged state
// back. xtol bounds the relative height error, kmax the number of
// scale-and-resolve iterations. The applied scale is returned.
func VerticalFromZmax(form *diagrams.FormDiagram, zmax float64, kmax int, xtol float64) (scale float64, err error) {
	if zmax <= 0 {
		return 0, fmt.Errorf("zmax must be positive, have %g", zmax)
	}
	if kmax <= 0 {
		kmax = 100
	}
	s, err := newSystem(form)
	if err != nil {
		return 0, err
	}
	scale = 1.0
	var (
		q []float64
		D *sparse.CSR
		z []float64
	)
	for k := 0; k < kmax; k++ {
		q = s.densities(scale)
		D = s.laplacian(q)
		if z, err = s.solveVertical(D); err != nil {
			return 0, err
		}
		zcur := 0.0
		for _, i := range s.free {
			if z[i] > zcur {
				zcur = z[i]
			}
		}
		if zcur <= 0 {
			return 0, fmt.Errorf("no free vertex rises above the supports; check loads and densities")
		}
		factor := zcur / zmax
		if math.Abs(1-factor) < xtol {
			break
		}
		scale *= factor
	}
	s.writeBack(D, q, z)
	return scale, nil
}
