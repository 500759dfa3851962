package data

import (
	"path"
	"strings"
)

// Separator divides the segments of every served path.
const Separator = "/"

// Normalize converts any client supplied path into its absolute clean form.
// Relative paths are anchored at the root and "" becomes "/".
func Normalize(p string) string {
	return path.Clean(Separator + p)
}

// Split partitions a normalized path on its last separator.
// It never touches the graph:
//
//	Split("/a/b") == ("/a", "b")
//	Split("/a")   == ("", "a")
//	Split("/")    == ("", "")
func Split(p string) (parent, leaf string) {
	i := strings.LastIndex(p, Separator)
	if i < 0 {
		return "", p
	}

	return p[:i], p[i+1:]
}

// Join is the inverse of Split.
func Join(parent, leaf string) string {
	if parent == "" && leaf == "" {
		return Separator
	}

	return parent + Separator + leaf
}

// Parent returns the normalized path of the node holding p.
func Parent(p string) string {
	parent, _ := Split(p)
	if parent == "" {
		return Separator
	}

	return parent
}

// Base returns the leaf name of p, or "/" for the root.
func Base(p string) string {
	if _, leaf := Split(p); leaf != "" {
		return leaf
	}

	return Separator
}

// Segments returns the non-empty segments of p in walk order.
func Segments(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r == '/'
	})
}

// HasPrefix reports whether p lies strictly below prefix.
// Both paths must be normalized.
func HasPrefix(p, prefix string) bool {
	if prefix == Separator {
		return p != Separator
	}

	return strings.HasPrefix(p, prefix+Separator)
}

// IsIndex reports whether name consists only of ASCII digits.
func IsIndex(name string) bool {
	if name == "" {
		return false
	}

	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}

	return true
}
