// Package node models the object graph served as a filesystem.
//
// A graph is built from five kinds of node. Mappings, sequences and objects
// are directories; scalars are files; lazy nodes are evaluated at resolution
// time and replaced by their result.
package node

// Kind tags the variant held by a Node.
type Kind int

const (
	KindScalar Kind = iota
	KindMapping
	KindSequence
	KindObject
	KindLazy
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindObject:
		return "object"
	case KindLazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// Node is a value in the served graph.
type Node interface {
	Kind() Kind
}
