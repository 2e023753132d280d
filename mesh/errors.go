package mesh

import "fmt"

// TopologyError reports an operation that would break the 2-manifold-with-
// boundary invariant, or a traversal that found the invariant already broken.
// The mesh is left unmodified when an operation returns it.
type TopologyError struct {
	Op     string
	Detail string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("topology error in %s: %s", e.Op, e.Detail)
}

func topoErrf(op, format string, args ...interface{}) *TopologyError {
	return &TopologyError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// DegenerateBoundaryError reports a boundary loop that cannot be conditioned:
// fewer than three vertices, or no anchors to segment at.
type DegenerateBoundaryError struct {
	Detail string
}

func (e *DegenerateBoundaryError) Error() string {
	return fmt.Sprintf("degenerate boundary: %s", e.Detail)
}

// ConfigurationError reports an unsupported configuration value, e.g. a foot
// mode outside None/Single/Double.
type ConfigurationError struct {
	Param string
	Value interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unsupported configuration %s = %v", e.Param, e.Value)
}

// KeyError reports a lookup of a vertex, edge or face key that is not present
// in the mesh. Accessors panic with it rather than silently defaulting.
type KeyError struct {
	Kind string
	Key  interface{}
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("no %s with key %v", e.Kind, e.Key)
}
