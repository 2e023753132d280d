// Package readfiles handles the OBJ-style geometry exchange used to build
// form diagrams from external geometry and to persist conditioned diagrams.
package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/structarch/tna/diagrams"
	"github.com/structarch/tna/mesh"
)

// ReadOBJ reads vertex, line and face records from an OBJ file. Indices are
// returned zero-based; polylines are split into segments; face vertex
// references of the form v/vt/vn are reduced to the vertex index.
func ReadOBJ(filename string, verbose bool) (V [][3]float64, lines [][2]int, faces [][]int) {
	var (
		file *os.File
		err  error
	)
	if verbose {
		fmt.Printf("Reading OBJ file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		panic(fmt.Errorf("unable to open file %s\n %s", filename, err))
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				panic(fmt.Errorf("line %d: vertex record needs 3 coordinates", lineNo))
			}
			var p [3]float64
			for i := 0; i < 3; i++ {
				if p[i], err = strconv.ParseFloat(fields[i+1], 64); err != nil {
					panic(fmt.Errorf("line %d: %s", lineNo, err))
				}
			}
			V = append(V, p)
		case "l":
			idx := parseIndices(fields[1:], len(V), lineNo)
			for i := 0; i+1 < len(idx); i++ {
				lines = append(lines, [2]int{idx[i], idx[i+1]})
			}
		case "f":
			idx := parseIndices(fields[1:], len(V), lineNo)
			if len(idx) < 3 {
				panic(fmt.Errorf("line %d: face record needs at least 3 vertices", lineNo))
			}
			faces = append(faces, idx)
		}
	}
	if err = scanner.Err(); err != nil {
		panic(fmt.Errorf("reading %s: %s", filename, err))
	}
	if verbose {
		fmt.Printf("Nv = %d, Nlines = %d, Nfaces = %d\n", len(V), len(lines), len(faces))
	}
	return
}

func parseIndices(fields []string, nv, lineNo int) (idx []int) {
	for _, field := range fields {
		if i := strings.IndexByte(field, '/'); i >= 0 {
			field = field[:i]
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			panic(fmt.Errorf("line %d: %s", lineNo, err))
		}
		if n < 0 {
			n = nv + n + 1 // OBJ negative indices count from the end
		}
		if n < 1 || n > nv {
			panic(fmt.Errorf("line %d: vertex index %d out of range", lineNo, n))
		}
		idx = append(idx, n-1)
	}
	return
}

// ReadOBJLines reads an OBJ file into the endpoint-pair form consumed by
// diagrams.FromLines. Both line records and the perimeter edges of face
// records contribute segments; shared face edges are emitted once.
func ReadOBJLines(filename string, verbose bool) (segments [][2][3]float64) {
	V, lines, faces := ReadOBJ(filename, verbose)
	seen := make(map[[2]int]bool)
	add := func(u, v int) {
		if u > v {
			u, v = v, u
		}
		if u == v || seen[[2]int{u, v}] {
			return
		}
		seen[[2]int{u, v}] = true
		segments = append(segments, [2][3]float64{V[u], V[v]})
	}
	for _, uv := range lines {
		add(uv[0], uv[1])
	}
	for _, face := range faces {
		for i, u := range face {
			add(u, face[(i+1)%len(face)])
		}
	}
	return
}

// WriteOBJ writes a form diagram to OBJ: the vertex coordinate list in key
// order, one face record per face, and one line record per edge with no
// incident face, indices one-based.
func WriteOBJ(filename string, form *diagrams.FormDiagram, verbose bool) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("unable to create file %s: %w", filename, err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	index := make(map[int]int)
	for i, key := range form.VertexKeys() {
		v := form.Vertex(key)
		fmt.Fprintf(w, "v %g %g %g\n", v.X, v.Y, v.Z)
		index[key] = i + 1
	}
	for _, fkey := range form.FaceKeys() {
		fmt.Fprint(w, "f")
		for _, key := range form.Face(fkey).Vertices {
			fmt.Fprintf(w, " %d", index[key])
		}
		fmt.Fprintln(w)
	}
	for _, ek := range form.EdgeKeys() {
		u, v := ek.Vertices()
		if fu, fv := form.EdgeFaces(u, v); fu == mesh.NoFace && fv == mesh.NoFace {
			fmt.Fprintf(w, "l %d %d\n", index[u], index[v])
		}
	}
	if verbose {
		fmt.Printf("Wrote %d vertices and %d faces to %s\n",
			form.NumVertices(), form.NumFaces(), filename)
	}
	return w.Flush()
}
