package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseEdgeBoundary(t *testing.T) {
	m := unitSquare(t)
	err := m.CollapseEdge(0, 1, 0.5, false)
	var topoErr *TopologyError
	require.ErrorAs(t, err, &topoErr)

	require.NoError(t, m.CollapseEdge(0, 1, 0.5, true))
	assert.Equal(t, 3, m.NumVertices())
	assert.False(t, m.HasVertex(0))
	assert.Equal(t, []int{1, 2, 3}, m.Face(0).Vertices)
	// survivor sits at the interpolated point
	v := m.Vertex(1)
	assert.InDelta(t, 0.5, v.X, 1e-12)
	assert.InDelta(t, 0.0, v.Y, 1e-12)
}

func TestCollapseEdgeInterior(t *testing.T) {
	m := grid2x2(t)
	m.Edge(1, 4).Q = 3.5
	require.NoError(t, m.CollapseEdge(4, 1, 0.5, true))
	assert.False(t, m.HasVertex(4))
	// quads sharing the collapsed edge degenerate into triangles
	assert.Equal(t, []int{0, 1, 3}, m.Face(0).Vertices)
	assert.Equal(t, []int{1, 2, 5}, m.Face(1).Vertices)
	// the other incident faces are re-routed through the survivor
	assert.Equal(t, []int{3, 1, 7, 6}, m.Face(2).Vertices)
	assert.Equal(t, []int{1, 5, 8, 7}, m.Face(3).Vertices)
	assert.Equal(t, 4, m.NumFaces())
	assert.True(t, m.HasEdge(1, 7))
}

func TestCollapseEdgeKeepsAttributes(t *testing.T) {
	m := grid2x2(t)
	m.Edge(4, 7).Q = 9.0
	require.NoError(t, m.CollapseEdge(4, 1, 0.5, true))
	// the 4-7 edge became 1-7 and keeps its density
	assert.Equal(t, 9.0, m.Edge(1, 7).Q)
}
