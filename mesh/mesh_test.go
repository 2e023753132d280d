package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addVertexAt(m *Mesh, x, y float64) int {
	v := m.NewVertex()
	v.X, v.Y = x, y
	return m.AddVertex(v)
}

// unitSquare builds a single CCW quad face over vertices 0..3.
func unitSquare(t *testing.T) *Mesh {
	m := NewMesh()
	addVertexAt(m, 0, 0)
	addVertexAt(m, 1, 0)
	addVertexAt(m, 1, 1)
	addVertexAt(m, 0, 1)
	_, err := m.AddFace([]int{0, 1, 2, 3})
	require.NoError(t, err)
	return m
}

// grid2x2 builds a 3x3-vertex, 4-quad grid with key = j*3 + i.
func grid2x2(t *testing.T) *Mesh {
	m := NewMesh()
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			addVertexAt(m, float64(i), float64(j))
		}
	}
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			k := j*3 + i
			_, err := m.AddFace([]int{k, k + 1, k + 4, k + 3})
			require.NoError(t, err)
		}
	}
	return m
}

func TestEdgeKey(t *testing.T) {
	ek := NewEdgeKey(1, 0)
	assert.Equal(t, EdgeKey(1<<32), ek)
	u, v := ek.Vertices()
	assert.Equal(t, [2]int{0, 1}, [2]int{u, v})

	ek = NewEdgeKey(100, 100001)
	assert.Equal(t, EdgeKey(100001*(1<<32)+100), ek)
	u, v = ek.Vertices()
	assert.Equal(t, [2]int{100, 100001}, [2]int{u, v})

	assert.Equal(t, NewEdgeKey(7, 3), NewEdgeKey(3, 7))
}

func TestAddVertexKeyAllocation(t *testing.T) {
	m := NewMesh()
	assert.Equal(t, 0, m.AddVertex(m.NewVertex()))
	assert.Equal(t, 1, m.AddVertex(m.NewVertex()))
	m.AddVertexWithKey(10, m.NewVertex())
	// allocation never reuses a live key
	assert.Equal(t, 11, m.AddVertex(m.NewVertex()))
	assert.Equal(t, 4, m.NumVertices())
}

func TestVertexDefaults(t *testing.T) {
	m := NewMesh()
	key := m.AddVertex(m.NewVertex())
	v := m.Vertex(key)
	assert.Equal(t, 1.0, v.T)
	assert.False(t, v.IsAnchor)

	m.DefaultVertex.T = 2.5
	key = m.AddVertex(m.NewVertex())
	assert.Equal(t, 2.5, m.Vertex(key).T)
}

func TestEdgeDefaults(t *testing.T) {
	m := unitSquare(t)
	e := m.Edge(0, 1)
	assert.Equal(t, 1.0, e.Q)
	assert.Equal(t, 1e-7, e.QMin)
	assert.Equal(t, 1e+7, e.QMax)
	assert.True(t, e.IsEdge)
	assert.False(t, e.IsExternal)
}

func TestVertexLookupPanics(t *testing.T) {
	m := NewMesh()
	assert.PanicsWithError(t, "no vertex with key 42", func() { m.Vertex(42) })
}

func TestAddFaceRejectsNonManifold(t *testing.T) {
	m := NewMesh()
	for i := 0; i < 4; i++ {
		addVertexAt(m, float64(i), float64(i%2))
	}
	_, err := m.AddFace([]int{0, 1, 2})
	require.NoError(t, err)

	// same orientation of edge 0-1 again
	_, err = m.AddFace([]int{0, 1, 3})
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)

	// failed insertion must leave the mesh unmodified
	assert.Equal(t, 1, m.NumFaces())
	assert.Equal(t, 3, m.NumEdges())
	assert.False(t, m.HasEdge(1, 3))

	// opposite orientation is fine
	_, err = m.AddFace([]int{1, 0, 3})
	assert.NoError(t, err)
}

func TestAddFaceRejectsDegenerate(t *testing.T) {
	m := NewMesh()
	addVertexAt(m, 0, 0)
	addVertexAt(m, 1, 0)
	addVertexAt(m, 1, 1)
	_, err := m.AddFace([]int{0, 1})
	assert.Error(t, err)
	_, err = m.AddFace([]int{0, 1, 1})
	assert.Error(t, err)
	// explicit closing vertex is trimmed, not rejected
	_, err = m.AddFace([]int{0, 1, 2, 0})
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, m.Face(0).Vertices)
}

func TestDeleteFace(t *testing.T) {
	m := grid2x2(t)
	assert.Equal(t, 12, m.NumEdges())
	m.DeleteFace(0)
	assert.Equal(t, 3, m.NumFaces())
	// edges owned only by face 0 are gone, shared edges survive as boundary
	assert.False(t, m.HasEdge(0, 1))
	assert.False(t, m.HasEdge(0, 3))
	assert.True(t, m.HasEdge(1, 4))
	assert.True(t, m.HasEdge(3, 4))
	assert.True(t, m.IsVertexOnBoundary(4))
	// vertices are never deleted implicitly
	assert.Equal(t, 9, m.NumVertices())
}

func TestVertexNeighborsOrdered(t *testing.T) {
	m := grid2x2(t)
	// interior vertex: full fan in face-cyclic order
	assert.Equal(t, []int{1, 3, 7, 5}, m.VertexNeighbors(4, true))
	assert.Equal(t, []int{1, 3, 5, 7}, m.VertexNeighbors(4, false))
	// boundary vertex: fan starts at a boundary edge and covers all neighbors
	assert.Equal(t, []int{0, 4, 2}, m.VertexNeighbors(1, true))
	assert.Equal(t, 3, m.VertexDegree(1))
}

func TestVertexFacesOrdered(t *testing.T) {
	m := grid2x2(t)
	assert.Equal(t, []int{1, 0, 2, 3}, m.VertexFaces(4, true))
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, m.VertexFaces(4, false))
	assert.Equal(t, []int{0, 1}, m.VertexFaces(1, true))
}

func TestFaceCentroid(t *testing.T) {
	m := unitSquare(t)
	x, y, z := m.FaceCentroid(0)
	assert.InDelta(t, 0.5, x, 1e-12)
	assert.InDelta(t, 0.5, y, 1e-12)
	assert.Equal(t, 0.0, z)
}

func TestPredicateQueries(t *testing.T) {
	m := grid2x2(t)
	m.Vertex(0).IsAnchor = true
	m.Vertex(8).IsAnchor = true
	anchors := m.VerticesWhere(func(key int, v *Vertex) bool { return v.IsAnchor })
	assert.Equal(t, []int{0, 8}, anchors)

	m.Edge(0, 1).IsEdge = false
	active := m.EdgesWhere(func(u, v int, e *Edge) bool { return e.IsEdge })
	assert.Equal(t, 11, len(active))

	m.Face(2).IsLoaded = false
	loaded := m.FacesWhere(func(key int, f *Face) bool { return f.IsLoaded })
	assert.Equal(t, []int{0, 1, 3}, loaded)
}

func TestBBox(t *testing.T) {
	m := grid2x2(t)
	min, max := m.BBox()
	assert.Equal(t, [3]float64{0, 0, 0}, min)
	assert.Equal(t, [3]float64{2, 2, 0}, max)
}

func TestEdgeFaces(t *testing.T) {
	m := grid2x2(t)
	// interior edge between faces 0 and 1
	fu, fv := m.EdgeFaces(1, 4)
	assert.ElementsMatch(t, []int{0, 1}, []int{fu, fv})
	// boundary edge is open on one side
	fu, fv = m.EdgeFaces(0, 1)
	assert.ElementsMatch(t, []int{0, NoFace}, []int{fu, fv})
	assert.PanicsWithError(t, "no edge with key [0 4]", func() { m.EdgeFaces(0, 4) })
}
