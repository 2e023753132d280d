package diagrams

import (
	"fmt"

	"github.com/structarch/tna/mesh"
)

// ForceDiagram is the reciprocal diagram of a form diagram: its vertices are
// the centroids of the form faces and its faces correspond to the interior
// form vertices.
type ForceDiagram struct {
	*mesh.Mesh
	Name string
}

func NewForceDiagram() (f *ForceDiagram) {
	f = &ForceDiagram{
		Mesh: mesh.NewMesh(),
		Name: "ForceDiagram",
	}
	return
}

// ForceDiagramFromFormDiagram builds the force diagram as the dual of the
// form diagram.
func ForceDiagramFromFormDiagram(form *FormDiagram) (*ForceDiagram, error) {
	force := NewForceDiagram()
	if err := form.Dual(force.Mesh); err != nil {
		return nil, err
	}
	return force, nil
}

func (f *ForceDiagram) String() string {
	return fmt.Sprintf("%s: %d vertices, %d edges, %d faces",
		f.Name, f.NumVertices(), f.NumEdges(), f.NumFaces())
}
