package diagrams

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structarch/tna/mesh"
)

func addVertexAt(f *FormDiagram, x, y float64) int {
	v := f.NewVertex()
	v.X, v.Y = x, y
	return f.AddVertex(v)
}

// squareForm is a single quad with vertices 0..3 counterclockwise from the
// origin.
func squareForm(t *testing.T) *FormDiagram {
	f := NewFormDiagram()
	addVertexAt(f, 0, 0)
	addVertexAt(f, 1, 0)
	addVertexAt(f, 1, 1)
	addVertexAt(f, 0, 1)
	_, err := f.AddFace([]int{0, 1, 2, 3})
	require.NoError(t, err)
	return f
}

func triangleForm(t *testing.T) *FormDiagram {
	f := NewFormDiagram()
	addVertexAt(f, 0, 0)
	addVertexAt(f, 1, 0)
	addVertexAt(f, 0, 1)
	_, err := f.AddFace([]int{0, 1, 2})
	require.NoError(t, err)
	return f
}

func TestSplitBoundaryTwoAnchors(t *testing.T) {
	f := squareForm(t)
	f.Vertex(0).IsAnchor = true
	f.Vertex(2).IsAnchor = true
	loops, err := f.VerticesOnBoundaries()
	require.NoError(t, err)
	require.Equal(t, []int{0, 3, 2, 1}, loops[0])

	segments, err := f.SplitBoundary(loops[0])
	require.NoError(t, err)
	require.Equal(t, 2, len(segments))
	assert.Equal(t, []int{0, 3, 2}, segments[0])
	// the run before the first anchor wraps onto the final segment
	assert.Equal(t, []int{2, 1, 0}, segments[1])
}

func TestSplitBoundarySingleAnchor(t *testing.T) {
	f := triangleForm(t)
	f.Vertex(0).IsAnchor = true
	loops, err := f.VerticesOnBoundaries()
	require.NoError(t, err)

	segments, err := f.SplitBoundary(loops[0])
	require.NoError(t, err)
	require.Equal(t, 1, len(segments))
	// one segment covering the whole loop, anchored at both ends
	assert.Equal(t, []int{0, 2, 1, 0}, segments[0])
}

func TestSplitBoundaryNoAnchors(t *testing.T) {
	f := squareForm(t)
	loops, err := f.VerticesOnBoundaries()
	require.NoError(t, err)
	_, err = f.SplitBoundary(loops[0])
	var degErr *mesh.DegenerateBoundaryError
	assert.ErrorAs(t, err, &degErr)
}

func TestSplitBoundaryTooShort(t *testing.T) {
	f := squareForm(t)
	_, err := f.SplitBoundary([]int{0, 1})
	var degErr *mesh.DegenerateBoundaryError
	assert.ErrorAs(t, err, &degErr)
}

func TestUpdateBoundariesInvalidMode(t *testing.T) {
	f := squareForm(t)
	f.Vertex(0).IsAnchor = true
	err := f.UpdateBoundaries(FootMode(3))
	var cfgErr *mesh.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	err = f.UpdateExterior([]int{0, 3, 2, 1}, FootMode(-1))
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSingleFootSquare(t *testing.T) {
	f := squareForm(t)
	f.Vertex(0).IsAnchor = true
	f.Vertex(2).IsAnchor = true
	require.NoError(t, f.UpdateBoundaries(FeetSingle))

	// exactly two new foot vertices, fixed and external
	assert.Equal(t, 6, f.NumVertices())
	for _, key := range []int{4, 5} {
		v := f.Vertex(key)
		assert.True(t, v.IsFixed)
		assert.True(t, v.IsExternal)
		assert.Equal(t, 0.0, v.Z)
	}
	// feet sit on the corner bisectors, FeetScale away from the anchors
	v4 := f.Vertex(4)
	assert.InDelta(t, -0.1/math.Sqrt2, v4.X, 1e-9)
	assert.InDelta(t, -0.1/math.Sqrt2, v4.Y, 1e-9)
	v5 := f.Vertex(5)
	assert.InDelta(t, 1+0.1/math.Sqrt2, v5.X, 1e-9)
	assert.InDelta(t, 1+0.1/math.Sqrt2, v5.Y, 1e-9)

	// exactly two new unloaded closure faces
	unloaded := f.FacesWhere(func(key int, fc *mesh.Face) bool { return !fc.IsLoaded })
	assert.Equal(t, 2, len(unloaded))

	// anchor-to-foot connectors are external, the foot-to-foot edge is
	// excluded from the force-density system
	assert.True(t, f.Edge(0, 4).IsExternal)
	assert.True(t, f.Edge(2, 5).IsExternal)
	assert.False(t, f.Edge(4, 5).IsEdge)
	// original boundary edges keep participating
	for _, uv := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}} {
		assert.True(t, f.Edge(uv[0], uv[1]).IsEdge, "edge %v", uv)
	}

	// the conditioned mesh is closed
	assert.Empty(t, f.VerticesOnBoundary())
}

func TestDoubleFootSquare(t *testing.T) {
	f := squareForm(t)
	f.Vertex(0).IsAnchor = true
	f.Vertex(2).IsAnchor = true
	require.NoError(t, f.UpdateBoundaries(FeetDouble))

	// two feet per anchor
	assert.Equal(t, 8, f.NumVertices())
	// two segment closure faces plus one triangular face per anchor
	unloaded := f.FacesWhere(func(key int, fc *mesh.Face) bool { return !fc.IsLoaded })
	assert.Equal(t, 4, len(unloaded))
	// anchor-to-foot edges are external, foot-to-foot closers are not edges
	assert.True(t, f.Edge(0, 4).IsExternal)
	assert.True(t, f.Edge(0, 5).IsExternal)
	assert.False(t, f.Edge(4, 5).IsEdge)
	// the feet themselves form the one remaining open ring
	assert.ElementsMatch(t, []int{4, 5, 6, 7}, f.VerticesOnBoundary())
}

func TestZeroFootSquare(t *testing.T) {
	f := squareForm(t)
	f.Vertex(0).IsAnchor = true
	f.Vertex(2).IsAnchor = true
	require.NoError(t, f.UpdateBoundaries(FeetNone))

	// no new geometry
	assert.Equal(t, 4, f.NumVertices())
	// segments become unloaded faces with non-load-bearing closing edges
	unloaded := f.FacesWhere(func(key int, fc *mesh.Face) bool { return !fc.IsLoaded })
	assert.Equal(t, 2, len(unloaded))
	assert.False(t, f.Edge(2, 0).IsEdge)
	assert.True(t, f.Edge(0, 3).IsEdge)
	assert.Empty(t, f.VerticesOnBoundary())
}

func TestCollinearAnchorFallback(t *testing.T) {
	// anchor 1 sits on a straight boundary run, so the bisector degenerates
	// and the foot is offset perpendicular to the boundary
	f := NewFormDiagram()
	addVertexAt(f, 0, 0)
	addVertexAt(f, 1, 0)
	addVertexAt(f, 2, 0)
	addVertexAt(f, 2, 1)
	addVertexAt(f, 0, 1)
	_, err := f.AddFace([]int{0, 1, 2, 3, 4})
	require.NoError(t, err)
	f.Vertex(1).IsAnchor = true
	f.Vertex(3).IsAnchor = true
	f.Vertex(4).IsAnchor = true
	require.NoError(t, f.UpdateBoundaries(FeetSingle))

	// boundary at anchor 1 runs 2 -> 1 -> 0, the foot points outward (-y)
	foot := f.VertexNeighbors(1, false)
	var footKey = -1
	for _, key := range foot {
		if f.Vertex(key).IsExternal {
			footKey = key
		}
	}
	require.GreaterOrEqual(t, footKey, 0)
	v := f.Vertex(footKey)
	assert.InDelta(t, 1.0, v.X, 1e-9)
	assert.InDelta(t, -0.1, v.Y, 1e-9)
}

func TestUpdateInteriorClosesHoles(t *testing.T) {
	f := NewFormDiagram()
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			addVertexAt(f, float64(i), float64(j))
		}
	}
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			if i == 1 && j == 1 {
				continue
			}
			k := j*4 + i
			_, err := f.AddFace([]int{k, k + 1, k + 5, k + 4})
			require.NoError(t, err)
		}
	}
	f.Vertex(0).IsAnchor = true
	f.Vertex(3).IsAnchor = true
	f.Vertex(12).IsAnchor = true
	f.Vertex(15).IsAnchor = true
	require.NoError(t, f.UpdateBoundaries(FeetSingle))
	// the hole is closed by one unloaded face over its loop; only the
	// ring through the four exterior feet stays open
	boundary := f.VerticesOnBoundary()
	require.Equal(t, 4, len(boundary))
	for _, key := range boundary {
		assert.True(t, f.Vertex(key).IsExternal)
	}
	unloaded := f.FacesWhere(func(key int, fc *mesh.Face) bool { return !fc.IsLoaded })
	assert.Equal(t, 5, len(unloaded))
}
