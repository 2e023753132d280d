package mesh

import (
	"fmt"
	"math"
	"sort"
)

// DefaultPrecision is the number of decimals used by the geometric map that
// welds line endpoints into shared vertices.
const DefaultPrecision = 3

// BuildFromLines populates an empty mesh from a list of 3D line segments.
// Endpoints are welded through a fixed-precision geometric map, faces are
// found by walking the planar embedding of the resulting edge network in the
// XY plane, and the unbounded outer face is deleted when deleteBoundaryFace
// is set. Lines not enclosed by any face (leaf edges) survive as boundary
// edges with no incident face.
func BuildFromLines(m *Mesh, lines [][2][3]float64, precision int, deleteBoundaryFace bool) error {
	if m.NumVertices() != 0 || m.NumFaces() != 0 {
		return topoErrf("BuildFromLines", "target mesh is not empty")
	}
	if precision <= 0 {
		precision = DefaultPrecision
	}
	gkey := func(p [3]float64) string {
		return fmt.Sprintf("%.*f,%.*f,%.*f", precision, p[0], precision, p[1], precision, p[2])
	}
	keyOf := make(map[string]int)
	adj := make(map[int]map[int]bool)
	weld := func(p [3]float64) int {
		gk := gkey(p)
		if key, ok := keyOf[gk]; ok {
			return key
		}
		v := m.NewVertex()
		v.X, v.Y, v.Z = p[0], p[1], p[2]
		key := m.AddVertex(v)
		keyOf[gk] = key
		adj[key] = make(map[int]bool)
		return key
	}
	for _, line := range lines {
		u := weld(line[0])
		v := weld(line[1])
		if u == v {
			continue
		}
		adj[u][v] = true
		adj[v][u] = true
	}

	cycles := findClosedWalks(m, adj)
	outer := -1
	outerArea := 0.0
	for _, cycle := range cycles {
		if hasRepeats(cycle) {
			// Walks through leaf edges or pinched regions are not faces.
			continue
		}
		fkey, err := m.AddFace(cycle)
		if err != nil {
			return err
		}
		if area := signedAreaXY(m, cycle); area < outerArea {
			outerArea = area
			outer = fkey
		}
	}
	// Edges outside every face still belong to the network.
	for u, nbrs := range adj {
		for v := range nbrs {
			if u < v && !m.HasEdge(u, v) {
				m.addHalfedgePair(u, v)
			}
		}
	}
	if deleteBoundaryFace && outer >= 0 {
		m.DeleteFace(outer)
	}
	return nil
}

// findClosedWalks traces every directed edge of the planar network exactly
// once. At each vertex the walk continues along the clockwise-next neighbor,
// so interior faces come out counterclockwise and the unbounded face
// clockwise.
func findClosedWalks(m *Mesh, adj map[int]map[int]bool) (cycles [][]int) {
	sorted := make(map[int][]int, len(adj))
	index := make(map[[2]int]int)
	for u, nbrs := range adj {
		keys := make([]int, 0, len(nbrs))
		for v := range nbrs {
			keys = append(keys, v)
		}
		o := m.Vertex(u)
		sort.Slice(keys, func(i, j int) bool {
			a, b := m.Vertex(keys[i]), m.Vertex(keys[j])
			return math.Atan2(a.Y-o.Y, a.X-o.X) < math.Atan2(b.Y-o.Y, b.X-o.X)
		})
		sorted[u] = keys
		for i, v := range keys {
			index[[2]int{u, v}] = i
		}
	}
	var starts [][2]int
	for u, nbrs := range adj {
		for v := range nbrs {
			starts = append(starts, [2]int{u, v})
		}
	}
	sort.Slice(starts, func(i, j int) bool {
		if starts[i][0] != starts[j][0] {
			return starts[i][0] < starts[j][0]
		}
		return starts[i][1] < starts[j][1]
	})
	visited := make(map[[2]int]bool, len(starts))
	for _, start := range starts {
		if visited[start] {
			continue
		}
		walk := []int{start[0]}
		he := start
		for {
			visited[he] = true
			u, v := he[0], he[1]
			nbrs := sorted[v]
			w := nbrs[(index[[2]int{v, u}]-1+len(nbrs))%len(nbrs)]
			he = [2]int{v, w}
			if he == start {
				break
			}
			walk = append(walk, v)
		}
		cycles = append(cycles, walk)
	}
	return
}

func hasRepeats(cycle []int) bool {
	seen := make(map[int]bool, len(cycle))
	for _, key := range cycle {
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func signedAreaXY(m *Mesh, cycle []int) float64 {
	var area float64
	for i, u := range cycle {
		v := cycle[(i+1)%len(cycle)]
		a, b := m.Vertex(u), m.Vertex(v)
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}
