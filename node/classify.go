package node

import (
	"strconv"

	"github.com/mwantia/sftptest/data"
)

// IsDir reports whether n is a directory: every non-scalar is one, empty
// containers included. Lazy nodes must be evaluated first.
func IsDir(n Node) bool {
	switch n.Kind() {
	case KindMapping, KindSequence, KindObject:
		return true
	default:
		return false
	}
}

// Children lists the child names of a directory. Scalars have none.
func Children(n Node) []string {
	switch v := n.(type) {
	case *Mapping:
		return v.Keys()
	case *Sequence:
		names := make([]string, v.Len())
		for i := range names {
			names[i] = strconv.Itoa(i)
		}
		return names
	case *Object:
		return v.Attributes()
	default:
		return nil
	}
}

// Child performs one resolution step: attribute access on objects, keyed
// access on mappings and integer indexing on sequences for all-digit names.
func Child(n Node, name string) (Node, bool) {
	switch v := n.(type) {
	case *Object:
		return v.Get(name)
	case *Mapping:
		return v.Get(name)
	case *Sequence:
		if !data.IsIndex(name) {
			return nil, false
		}
		i, err := strconv.Atoi(name)
		if err != nil {
			return nil, false
		}
		return v.Index(i)
	default:
		return nil, false
	}
}

// Size returns the reported size of n: the byte length of a scalar's
// textual form, or the number of children of a directory.
func Size(n Node) int64 {
	switch v := n.(type) {
	case Scalar:
		return int64(v.Len())
	case *Mapping:
		return int64(v.Len())
	case *Sequence:
		return int64(v.Len())
	case *Object:
		return int64(len(v.Attributes()))
	default:
		return 0
	}
}

// Text returns the file content of a scalar.
func Text(n Node) (string, bool) {
	s, ok := n.(Scalar)
	if !ok {
		return "", false
	}
	return s.Text(), true
}
