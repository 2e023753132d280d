package mesh

import (
	"fmt"
	"math"
	"sort"
)

// NoFace marks the open side of a boundary half-edge.
const NoFace = -1

// EdgeKey packs an undirected edge's vertex keys into a single comparable
// number so edges can be used as map keys and sorted.
type EdgeKey uint64

func NewEdgeKey(u, v int) (packed EdgeKey) {
	var (
		limit = math.MaxUint32
	)
	if u < 0 || u > limit || v < 0 || v > limit {
		panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs", u, v))
	}
	if u > v {
		u, v = v, u
	}
	packed = EdgeKey(u + v<<32)
	return
}

func (ek EdgeKey) Vertices() (u, v int) {
	v = int(ek >> 32)
	u = int(ek) - v<<32
	return
}

// Vertex carries position, load and support attributes. The zero value is not
// meaningful; new vertices inherit the mesh's DefaultVertex.
type Vertex struct {
	X, Y, Z    float64
	Px, Py, Pz float64 // applied load
	SW         float64 // self weight
	T          float64 // thickness
	Rx, Ry, Rz float64 // reaction / residual, written by the solver
	IsAnchor   bool
	IsFixed    bool
	IsExternal bool
}

// Edge carries the force-density attributes of an undirected edge. IsEdge
// selects participation in the force-density system; IsExternal marks foot
// connectors excluded from load-bearing calculations.
type Edge struct {
	Q, L, F    float64
	QMin, QMax float64
	LMin, LMax float64
	FMin, FMax float64
	A          float64
	IsEdge     bool
	IsExternal bool
}

// Face is an ordered cyclic sequence of vertex keys. Unloaded faces are the
// auxiliary closure faces added during boundary conditioning.
type Face struct {
	Vertices []int
	IsLoaded bool
}

// Mesh is a half-edge polygonal mesh with typed per-element attributes.
// Topology lives in the halfedge map: halfedge[u][v] is the key of the face
// with the directed edge u->v on its cycle, or NoFace on the open side of a
// boundary edge. Mutators must not be called concurrently; callers serialize
// access per analysis run.
type Mesh struct {
	verts    map[int]*Vertex
	faces    map[int]*Face
	edges    map[EdgeKey]*Edge
	halfedge map[int]map[int]int

	DefaultVertex Vertex
	DefaultEdge   Edge
	DefaultFace   Face

	nextVertexKey int
	nextFaceKey   int
}

func NewMesh() (m *Mesh) {
	m = &Mesh{
		verts:    make(map[int]*Vertex),
		faces:    make(map[int]*Face),
		edges:    make(map[EdgeKey]*Edge),
		halfedge: make(map[int]map[int]int),
		DefaultVertex: Vertex{
			T: 1.0,
		},
		DefaultEdge: Edge{
			Q:      1.0,
			QMin:   1e-7,
			QMax:   1e+7,
			LMin:   1e-7,
			LMax:   1e+7,
			FMin:   1e-7,
			FMax:   1e+7,
			IsEdge: true,
		},
		DefaultFace: Face{
			IsLoaded: true,
		},
	}
	return
}

// NewVertex returns a copy of the mesh's vertex defaults for the caller to
// fill in before AddVertex.
func (m *Mesh) NewVertex() Vertex { return m.DefaultVertex }

// NewEdge returns a copy of the mesh's edge defaults.
func (m *Mesh) NewEdge() Edge { return m.DefaultEdge }

// AddVertex inserts v under the next unused key and returns the key. Keys are
// allocated monotonically and never reuse a live key.
func (m *Mesh) AddVertex(v Vertex) (key int) {
	key = m.nextVertexKey
	m.AddVertexWithKey(key, v)
	return
}

// AddVertexWithKey inserts v under an explicit key, replacing the attributes
// of an existing vertex with that key.
func (m *Mesh) AddVertexWithKey(key int, v Vertex) {
	if key < 0 {
		panic(fmt.Errorf("negative vertex key %d", key))
	}
	vc := v
	m.verts[key] = &vc
	if _, ok := m.halfedge[key]; !ok {
		m.halfedge[key] = make(map[int]int)
	}
	if key >= m.nextVertexKey {
		m.nextVertexKey = key + 1
	}
}

// Vertex returns the vertex stored under key. It panics with a *KeyError when
// the key is not present.
func (m *Mesh) Vertex(key int) *Vertex {
	v, ok := m.verts[key]
	if !ok {
		panic(&KeyError{Kind: "vertex", Key: key})
	}
	return v
}

func (m *Mesh) HasVertex(key int) bool {
	_, ok := m.verts[key]
	return ok
}

// VertexKeys returns all vertex keys in ascending order.
func (m *Mesh) VertexKeys() (keys []int) {
	keys = make([]int, 0, len(m.verts))
	for key := range m.verts {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return
}

func (m *Mesh) NumVertices() int { return len(m.verts) }

// Face returns the face stored under key, panicking with a *KeyError when
// absent. The returned cycle must not be modified by the caller.
func (m *Mesh) Face(key int) *Face {
	f, ok := m.faces[key]
	if !ok {
		panic(&KeyError{Kind: "face", Key: key})
	}
	return f
}

func (m *Mesh) HasFace(key int) bool {
	_, ok := m.faces[key]
	return ok
}

func (m *Mesh) FaceKeys() (keys []int) {
	keys = make([]int, 0, len(m.faces))
	for key := range m.faces {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return
}

func (m *Mesh) NumFaces() int { return len(m.faces) }

// Edge returns the attributes of the undirected edge u-v, panicking with a
// *KeyError when no such edge exists.
func (m *Mesh) Edge(u, v int) *Edge {
	e, ok := m.edges[NewEdgeKey(u, v)]
	if !ok {
		panic(&KeyError{Kind: "edge", Key: [2]int{u, v}})
	}
	return e
}

func (m *Mesh) HasEdge(u, v int) bool {
	_, ok := m.edges[NewEdgeKey(u, v)]
	return ok
}

// EdgeKeys returns all undirected edges in ascending packed-key order.
func (m *Mesh) EdgeKeys() (keys []EdgeKey) {
	keys = make([]EdgeKey, 0, len(m.edges))
	for key := range m.edges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return
}

func (m *Mesh) NumEdges() int { return len(m.edges) }

// EdgeFaces returns the faces on either side of edge u-v, NoFace for an open
// side. It panics with a *KeyError when no such edge exists.
func (m *Mesh) EdgeFaces(u, v int) (int, int) {
	if !m.HasEdge(u, v) {
		panic(&KeyError{Kind: "edge", Key: [2]int{u, v}})
	}
	return m.halfedge[u][v], m.halfedge[v][u]
}

// EdgeLength returns the 3D length of edge u-v.
func (m *Mesh) EdgeLength(u, v int) float64 {
	a, b := m.Vertex(u), m.Vertex(v)
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// AddFace creates a face over an ordered cycle of at least three existing
// vertex keys and returns the face key. Validation is transactional: when a
// *TopologyError is returned the mesh is unmodified.
func (m *Mesh) AddFace(vertices []int) (fkey int, err error) {
	fkey = m.nextFaceKey
	if err = m.AddFaceWithKey(fkey, vertices); err != nil {
		fkey = 0
	}
	return
}

// AddFaceWithKey creates a face under an explicit key.
func (m *Mesh) AddFaceWithKey(fkey int, vertices []int) (err error) {
	if m.HasFace(fkey) {
		return topoErrf("AddFace", "face key %d already in use", fkey)
	}
	cycle := append([]int(nil), vertices...)
	if n := len(cycle); n > 1 && cycle[0] == cycle[n-1] {
		cycle = cycle[:n-1]
	}
	if len(cycle) < 3 {
		return topoErrf("AddFace", "face needs at least 3 vertices, have %d", len(cycle))
	}
	seen := make(map[int]bool, len(cycle))
	for _, key := range cycle {
		if !m.HasVertex(key) {
			panic(&KeyError{Kind: "vertex", Key: key})
		}
		if seen[key] {
			return topoErrf("AddFace", "vertex %d repeated in face cycle", key)
		}
		seen[key] = true
	}
	// Validate before mutating: a directed half-edge may carry at most one
	// face per orientation.
	for i, u := range cycle {
		v := cycle[(i+1)%len(cycle)]
		if f, ok := m.halfedge[u][v]; ok && f != NoFace {
			return topoErrf("AddFace", "edge %d-%d already has a face in this orientation", u, v)
		}
	}
	m.faces[fkey] = &Face{Vertices: cycle, IsLoaded: m.DefaultFace.IsLoaded}
	if fkey >= m.nextFaceKey {
		m.nextFaceKey = fkey + 1
	}
	for i, u := range cycle {
		v := cycle[(i+1)%len(cycle)]
		m.halfedge[u][v] = fkey
		if _, ok := m.halfedge[v][u]; !ok {
			m.halfedge[v][u] = NoFace
		}
		ek := NewEdgeKey(u, v)
		if _, ok := m.edges[ek]; !ok {
			ec := m.DefaultEdge
			m.edges[ek] = &ec
		}
	}
	return
}

// DeleteFace removes a face. Half-edges exclusively owned by the face are
// removed together with their edge attributes; shared edges become boundary
// edges. Vertices are never deleted implicitly.
func (m *Mesh) DeleteFace(fkey int) {
	f := m.Face(fkey)
	cycle := f.Vertices
	for i, u := range cycle {
		v := cycle[(i+1)%len(cycle)]
		m.halfedge[u][v] = NoFace
		if m.halfedge[v][u] == NoFace {
			delete(m.halfedge[u], v)
			delete(m.halfedge[v], u)
			delete(m.edges, NewEdgeKey(u, v))
		}
	}
	delete(m.faces, fkey)
}

// addHalfedgePair registers an undirected edge with no incident face on
// either side, e.g. a leaf edge of a line network.
func (m *Mesh) addHalfedgePair(u, v int) {
	if !m.HasVertex(u) {
		panic(&KeyError{Kind: "vertex", Key: u})
	}
	if !m.HasVertex(v) {
		panic(&KeyError{Kind: "vertex", Key: v})
	}
	if _, ok := m.halfedge[u][v]; !ok {
		m.halfedge[u][v] = NoFace
	}
	if _, ok := m.halfedge[v][u]; !ok {
		m.halfedge[v][u] = NoFace
	}
	ek := NewEdgeKey(u, v)
	if _, ok := m.edges[ek]; !ok {
		ec := m.DefaultEdge
		m.edges[ek] = &ec
	}
}

// FaceVertexDescendant returns the vertex following key in the face cycle.
func (m *Mesh) FaceVertexDescendant(fkey, key int) int {
	cycle := m.Face(fkey).Vertices
	for i, u := range cycle {
		if u == key {
			return cycle[(i+1)%len(cycle)]
		}
	}
	panic(&KeyError{Kind: "face vertex", Key: [2]int{fkey, key}})
}

// FaceVertexAncestor returns the vertex preceding key in the face cycle.
func (m *Mesh) FaceVertexAncestor(fkey, key int) int {
	cycle := m.Face(fkey).Vertices
	for i, u := range cycle {
		if u == key {
			return cycle[(i-1+len(cycle))%len(cycle)]
		}
	}
	panic(&KeyError{Kind: "face vertex", Key: [2]int{fkey, key}})
}

// VertexDegree returns the number of neighbors of a vertex.
func (m *Mesh) VertexDegree(key int) int {
	m.Vertex(key)
	return len(m.halfedge[key])
}

// VertexNeighbors returns the neighbors of a vertex. With ordered false the
// neighbors come back sorted by key; with ordered true they follow the face
// fan around the vertex, starting from a boundary edge when the vertex is on
// the boundary so the fan covers every neighbor.
func (m *Mesh) VertexNeighbors(key int, ordered bool) (nbrs []int) {
	m.Vertex(key)
	all := make([]int, 0, len(m.halfedge[key]))
	for nbr := range m.halfedge[key] {
		all = append(all, nbr)
	}
	sort.Ints(all)
	if !ordered || len(all) <= 1 {
		return all
	}
	start := all[0]
	for _, nbr := range all {
		if m.halfedge[key][nbr] == NoFace {
			start = nbr
			break
		}
	}
	nbrs = []int{start}
	fkey := m.halfedge[start][key]
	for count := len(all); count > 0 && fkey != NoFace; count-- {
		nbr := m.FaceVertexDescendant(fkey, key)
		if nbr == start {
			break
		}
		nbrs = append(nbrs, nbr)
		fkey = m.halfedge[nbr][key]
	}
	return
}

// VertexFaces returns the faces incident to a vertex. With ordered true the
// faces follow the ordered neighbor fan, which is the cycle used for dual
// face construction.
func (m *Mesh) VertexFaces(key int, ordered bool) (fkeys []int) {
	if !ordered {
		seen := make(map[int]bool)
		for _, fkey := range m.halfedge[key] {
			if fkey != NoFace && !seen[fkey] {
				seen[fkey] = true
				fkeys = append(fkeys, fkey)
			}
		}
		m.Vertex(key)
		sort.Ints(fkeys)
		return
	}
	for _, nbr := range m.VertexNeighbors(key, true) {
		if fkey := m.halfedge[key][nbr]; fkey != NoFace {
			fkeys = append(fkeys, fkey)
		}
	}
	return
}

// FaceCentroid returns the arithmetic mean of the face's vertex positions.
func (m *Mesh) FaceCentroid(fkey int) (x, y, z float64) {
	cycle := m.Face(fkey).Vertices
	for _, key := range cycle {
		v := m.Vertex(key)
		x += v.X
		y += v.Y
		z += v.Z
	}
	n := float64(len(cycle))
	x, y, z = x/n, y/n, z/n
	return
}

// VerticesWhere returns the keys, in ascending order, of all vertices
// matching pred. This predicate-filtered iteration is the dominant query
// idiom of the conditioning components and of external visualization.
func (m *Mesh) VerticesWhere(pred func(key int, v *Vertex) bool) (keys []int) {
	for _, key := range m.VertexKeys() {
		if pred(key, m.verts[key]) {
			keys = append(keys, key)
		}
	}
	return
}

// EdgesWhere returns the undirected edges matching pred in packed-key order.
func (m *Mesh) EdgesWhere(pred func(u, v int, e *Edge) bool) (keys []EdgeKey) {
	for _, ek := range m.EdgeKeys() {
		u, v := ek.Vertices()
		if pred(u, v, m.edges[ek]) {
			keys = append(keys, ek)
		}
	}
	return
}

// FacesWhere returns the face keys matching pred in ascending order.
func (m *Mesh) FacesWhere(pred func(key int, f *Face) bool) (keys []int) {
	for _, key := range m.FaceKeys() {
		if pred(key, m.faces[key]) {
			keys = append(keys, key)
		}
	}
	return
}

// BBox returns the axis-aligned bounding box over all vertices.
func (m *Mesh) BBox() (min, max [3]float64) {
	first := true
	for _, v := range m.verts {
		if first {
			min = [3]float64{v.X, v.Y, v.Z}
			max = min
			first = false
			continue
		}
		min[0] = math.Min(min[0], v.X)
		min[1] = math.Min(min[1], v.Y)
		min[2] = math.Min(min[2], v.Z)
		max[0] = math.Max(max[0], v.X)
		max[1] = math.Max(max[1], v.Y)
		max[2] = math.Max(max[2], v.Z)
	}
	return
}
