package mesh

// CollapseEdge merges vertex u into vertex v. The surviving vertex v is moved
// to the point interpolated at parameter t along u->v (t=0 keeps u's
// position, t=1 keeps v's). All half-edges incident to u are re-routed to v;
// faces reduced below three vertices are removed. Collapsing a boundary edge
// requires allowBoundary. Used for post-process cleanup of near-degenerate
// boundary edges.
func (m *Mesh) CollapseEdge(u, v int, t float64, allowBoundary bool) error {
	m.Edge(u, v)
	uv, vv := m.Vertex(u), m.Vertex(v)
	if !allowBoundary && (m.halfedge[u][v] == NoFace || m.halfedge[v][u] == NoFace) {
		return topoErrf("CollapseEdge", "edge %d-%d is on the boundary", u, v)
	}

	sub := func(key int) int {
		if key == u {
			return v
		}
		return key
	}

	// Validate the rewritten cycles before touching the mesh.
	affected := m.VertexFaces(u, false)
	rewritten := make(map[int][]int, len(affected))
	for _, fkey := range affected {
		var cycle []int
		for _, key := range m.Face(fkey).Vertices {
			key = sub(key)
			if n := len(cycle); n > 0 && cycle[n-1] == key {
				continue
			}
			cycle = append(cycle, key)
		}
		if n := len(cycle); n > 1 && cycle[0] == cycle[n-1] {
			cycle = cycle[:n-1]
		}
		if len(cycle) >= 3 {
			seen := make(map[int]bool, len(cycle))
			for _, key := range cycle {
				if seen[key] {
					return topoErrf("CollapseEdge",
						"collapsing %d into %d pinches face %d", u, v, fkey)
				}
				seen[key] = true
			}
			rewritten[fkey] = cycle
		}
	}

	// Snapshot attributes of every edge that will be rebuilt, keyed by the
	// post-collapse edge.
	saved := make(map[EdgeKey]Edge)
	for x := range m.halfedge[u] {
		if x == v {
			continue
		}
		if e, ok := m.edges[NewEdgeKey(u, x)]; ok {
			saved[NewEdgeKey(v, x)] = *e
		}
	}
	for _, fkey := range affected {
		cycle := m.Face(fkey).Vertices
		for i, a := range cycle {
			b := cycle[(i+1)%len(cycle)]
			if e, ok := m.edges[NewEdgeKey(a, b)]; ok {
				if ek := NewEdgeKey(sub(a), sub(b)); sub(a) != sub(b) {
					if _, dup := saved[ek]; !dup {
						saved[ek] = *e
					}
				}
			}
		}
	}

	wasLoaded := make(map[int]bool, len(affected))
	for _, fkey := range affected {
		wasLoaded[fkey] = m.Face(fkey).IsLoaded
	}
	for _, fkey := range affected {
		m.DeleteFace(fkey)
	}
	// Leaf edges of u are dropped with the vertex.
	for x := range m.halfedge[u] {
		delete(m.halfedge[x], u)
		delete(m.edges, NewEdgeKey(u, x))
	}
	delete(m.halfedge, u)
	delete(m.verts, u)

	vv.X = uv.X + t*(vv.X-uv.X)
	vv.Y = uv.Y + t*(vv.Y-uv.Y)
	vv.Z = uv.Z + t*(vv.Z-uv.Z)

	for fkey, cycle := range rewritten {
		if err := m.AddFaceWithKey(fkey, cycle); err != nil {
			return err
		}
		m.Face(fkey).IsLoaded = wasLoaded[fkey]
	}
	for ek, attrs := range saved {
		if e, ok := m.edges[ek]; ok {
			*e = attrs
		}
	}
	return nil
}
