package diagrams

import (
	"math"

	"github.com/structarch/tna/geom2d"
	"github.com/structarch/tna/mesh"
)

// FootMode selects how many foot vertices each anchor receives during
// boundary conditioning.
type FootMode int

const (
	FeetNone FootMode = iota
	FeetSingle
	FeetDouble
)

func (fm FootMode) String() string {
	switch fm {
	case FeetNone:
		return "None"
	case FeetSingle:
		return "Single"
	case FeetDouble:
		return "Double"
	}
	return "Invalid"
}

func (fm FootMode) valid() bool {
	return fm == FeetNone || fm == FeetSingle || fm == FeetDouble
}

// UpdateBoundaries conditions all boundaries of the diagram: the exterior
// loop is segmented at its anchors and closed with feet per mode, interior
// loops (holes) are closed with unloaded faces. A diagram without any
// boundary is already closed and left untouched.
func (f *FormDiagram) UpdateBoundaries(mode FootMode) error {
	if !mode.valid() {
		return &mesh.ConfigurationError{Param: "feet", Value: int(mode)}
	}
	loops, err := f.VerticesOnBoundaries()
	if err != nil {
		return err
	}
	if len(loops) == 0 {
		return nil
	}
	if err := f.UpdateExterior(loops[0], mode); err != nil {
		return err
	}
	return f.UpdateInterior(loops[1:])
}

// UpdateExterior closes the exterior boundary loop. With FeetNone no geometry
// is added: multi-vertex segments become unloaded faces and their closing
// anchor-to-anchor edges are excluded from the force-density system. With
// FeetSingle or FeetDouble new foot vertices and closure faces are generated
// by AddFeet.
func (f *FormDiagram) UpdateExterior(loop []int, mode FootMode) error {
	if !mode.valid() {
		return &mesh.ConfigurationError{Param: "feet", Value: int(mode)}
	}
	segments, err := f.SplitBoundary(loop)
	if err != nil {
		return err
	}
	if mode != FeetNone {
		return f.AddFeet(segments, mode)
	}
	for _, seg := range segments {
		if len(seg) > 2 {
			fkey, err := f.AddFace(seg)
			if err != nil {
				return err
			}
			f.Face(fkey).IsLoaded = false
			f.Edge(seg[len(seg)-1], seg[0]).IsEdge = false
		} else {
			f.Edge(seg[0], seg[1]).IsEdge = false
		}
	}
	return nil
}

// UpdateInterior closes each interior boundary loop (hole) with one unloaded
// face.
func (f *FormDiagram) UpdateInterior(loops [][]int) error {
	for _, loop := range loops {
		fkey, err := f.AddFace(loop)
		if err != nil {
			return err
		}
		f.Face(fkey).IsLoaded = false
	}
	return nil
}

// SplitBoundary partitions a cyclic boundary loop into maximal contiguous
// runs between anchors. Each anchor is the last vertex of one segment and the
// first of the next; the partial run before the first anchor wraps around
// onto the final segment. A loop with a single anchor yields one segment
// covering the whole loop, starting and ending at that anchor. A loop with
// no anchors cannot be segmented.
func (f *FormDiagram) SplitBoundary(loop []int) ([][]int, error) {
	if len(loop) < 3 {
		return nil, &mesh.DegenerateBoundaryError{
			Detail: "boundary loop has fewer than 3 vertices"}
	}
	segments := [][]int{nil}
	for _, key := range loop {
		last := len(segments) - 1
		segments[last] = append(segments[last], key)
		if f.Vertex(key).IsAnchor {
			segments = append(segments, []int{key})
		}
	}
	if len(segments) == 1 {
		return nil, &mesh.DegenerateBoundaryError{
			Detail: "boundary loop has no anchor vertices"}
	}
	// The loop is cyclic: the run before the first anchor belongs at the end
	// of the final segment.
	last := len(segments) - 1
	segments[last] = append(segments[last], segments[0]...)
	return segments[1:], nil
}

type footPair struct {
	b, a int // feet on the before and after side of the anchor
}

// AddFeet synthesizes the supporting geometry for a segmented exterior
// boundary. Every anchor gains one (FeetSingle) or two (FeetDouble) fixed
// external foot vertices offset by FeetScale; the foot direction is the
// reversed angle bisector of the boundary corner, falling back to the
// perpendicular of before->after when the corner is collinear within
// FeetTol. Each segment is then closed with an unloaded face through its
// feet; anchor-to-foot edges are marked external and foot-to-foot closing
// edges are excluded from the force-density system.
func (f *FormDiagram) AddFeet(segments [][]int, mode FootMode) error {
	if mode != FeetSingle && mode != FeetDouble {
		return &mesh.ConfigurationError{Param: "feet", Value: int(mode)}
	}
	var (
		scale = f.FeetScale
		alpha = f.FeetAlpha * math.Pi / 180
		tol   = f.FeetTol
		feet  = make(map[int]footPair)
	)
	xy := func(key int) geom2d.Vec {
		v := f.Vertex(key)
		return geom2d.Vec{X: v.X, Y: v.Y}
	}
	for i, seg := range segments {
		key := seg[0]
		after := seg[1]
		prev := segments[(i-1+len(segments))%len(segments)]
		before := prev[len(prev)-2]

		b, o, a := xy(before), xy(key), xy(after)
		ob := geom2d.Normalize(geom2d.Sub(b, o))
		oa := geom2d.Normalize(geom2d.Sub(a, o))

		var r geom2d.Vec
		switch z := geom2d.CrossZ(ob, oa); {
		case z > +tol:
			r = geom2d.Scale(-scale, geom2d.Normalize(geom2d.Add(oa, ob)))
		case z < -tol:
			r = geom2d.Scale(+scale, geom2d.Normalize(geom2d.Add(oa, ob)))
		default:
			// Collinear corner: the bisector has no length, offset
			// perpendicular to the boundary instead.
			ba := geom2d.Normalize(geom2d.Sub(a, b))
			r = geom2d.Scale(+scale, geom2d.PerpCCW(ba))
		}

		if mode == FeetSingle {
			m := f.addFoot(geom2d.Add(o, r))
			feet[key] = footPair{b: m, a: m}
		} else {
			fb := f.addFoot(geom2d.Add(o, geom2d.Rotate(r, +alpha)))
			fa := f.addFoot(geom2d.Add(o, geom2d.Rotate(r, -alpha)))
			feet[key] = footPair{b: fb, a: fa}
		}
	}
	for _, seg := range segments {
		l := seg[0]
		r := seg[len(seg)-1]
		if mode == FeetSingle {
			lm := feet[l].a
			rm := feet[r].a
			face := append([]int{lm}, seg...)
			face = append(face, rm)
			fkey, err := f.AddFace(face)
			if err != nil {
				return err
			}
			f.Face(fkey).IsLoaded = false
			f.Edge(l, lm).IsExternal = true
			f.Edge(rm, lm).IsEdge = false
		} else {
			lb := feet[l].b
			la := feet[l].a
			rb := feet[r].b
			fkey, err := f.AddFace([]int{lb, l, la})
			if err != nil {
				return err
			}
			f.Face(fkey).IsLoaded = false
			face := append([]int{la}, seg...)
			face = append(face, rb)
			if fkey, err = f.AddFace(face); err != nil {
				return err
			}
			f.Face(fkey).IsLoaded = false
			f.Edge(l, lb).IsExternal = true
			f.Edge(l, la).IsExternal = true
			f.Edge(lb, la).IsEdge = false
			f.Edge(la, rb).IsEdge = false
		}
	}
	return nil
}

func (f *FormDiagram) addFoot(p geom2d.Vec) int {
	v := f.NewVertex()
	v.X, v.Y, v.Z = p.X, p.Y, 0
	v.IsFixed = true
	v.IsExternal = true
	return f.AddVertex(v)
}
