package mesh

import "sort"

// IsVertexOnBoundary reports whether any half-edge leaving the vertex has no
// incident face.
func (m *Mesh) IsVertexOnBoundary(key int) bool {
	m.Vertex(key)
	for _, fkey := range m.halfedge[key] {
		if fkey == NoFace {
			return true
		}
	}
	return false
}

// VerticesOnBoundary returns all boundary vertex keys in ascending order.
// Loop ordering is VerticesOnBoundaries' job.
func (m *Mesh) VerticesOnBoundary() (keys []int) {
	seen := make(map[int]bool)
	for u, nbrs := range m.halfedge {
		for v, fkey := range nbrs {
			if fkey == NoFace {
				seen[u] = true
				seen[v] = true
			}
		}
	}
	keys = make([]int, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return
}

// EdgesOnBoundary returns the undirected edges with at most one incident
// face, in packed-key order.
func (m *Mesh) EdgesOnBoundary() (keys []EdgeKey) {
	return m.EdgesWhere(func(u, v int, e *Edge) bool {
		return m.halfedge[u][v] == NoFace || m.halfedge[v][u] == NoFace
	})
}

// VerticesOnBoundaries traces the boundary of the mesh into closed loops of
// vertex keys. The exterior loop comes first; by convention it is the loop
// with the largest absolute signed area in the XY plane, the remaining loops
// are interior holes in order of their smallest vertex key. A vertex with
// more than one outgoing open half-edge, or a walk that dead-ends, is a
// non-manifold boundary and yields a *TopologyError.
func (m *Mesh) VerticesOnBoundaries() (loops [][]int, err error) {
	next := make(map[int]int)
	for u, nbrs := range m.halfedge {
		for v, fkey := range nbrs {
			if fkey != NoFace {
				continue
			}
			if _, ok := next[u]; ok {
				return nil, topoErrf("VerticesOnBoundaries",
					"vertex %d has more than two boundary half-edges", u)
			}
			next[u] = v
		}
	}
	starts := make([]int, 0, len(next))
	for u := range next {
		starts = append(starts, u)
	}
	sort.Ints(starts)
	visited := make(map[int]bool, len(next))
	for _, start := range starts {
		if visited[start] {
			continue
		}
		loop := []int{start}
		visited[start] = true
		for key := next[start]; key != start; {
			if visited[key] {
				return nil, topoErrf("VerticesOnBoundaries",
					"boundary walk from %d re-enters vertex %d before closing", start, key)
			}
			loop = append(loop, key)
			visited[key] = true
			nkey, ok := next[key]
			if !ok {
				return nil, topoErrf("VerticesOnBoundaries",
					"boundary walk dead-ends at vertex %d", key)
			}
			key = nkey
		}
		loops = append(loops, loop)
	}
	if len(loops) > 1 {
		exterior := 0
		best := 0.0
		for i, loop := range loops {
			if a := absLoopAreaXY(m, loop); a > best {
				best = a
				exterior = i
			}
		}
		loops[0], loops[exterior] = loops[exterior], loops[0]
	}
	return
}

func absLoopAreaXY(m *Mesh, loop []int) float64 {
	var area float64
	for i, u := range loop {
		v := loop[(i+1)%len(loop)]
		a, b := m.Vertex(u), m.Vertex(v)
		area += a.X*b.Y - b.X*a.Y
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}
