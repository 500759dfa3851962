package node

import (
	"github.com/mwantia/sftptest/data"
)

// WalkFunc receives each node with the parent path and leaf name under
// which it was reached. The root is reported as ("", "").
// Returning false stops the descent into n, not the whole walk.
type WalkFunc func(parent, leaf string, n Node) bool

// Walk visits every node reachable from root exactly once, parents before
// children and siblings in listing order. Lazy nodes are evaluated; those
// failing to evaluate are reported with a nil node and not descended. A
// container reached again below itself is reported with a nil node too.
func Walk(root Node, fn WalkFunc) {
	walk("", "", root, make(ancestors), fn)
}

// WalkFrom is Walk for a subtree reached as (parent, leaf).
func WalkFrom(parent, leaf string, n Node, fn WalkFunc) {
	walk(parent, leaf, n, make(ancestors), fn)
}

// ancestors holds the containers on the current descent path.
type ancestors map[Node]struct{}

// enter records n and reports false when n is already an ancestor.
// Scalars are values and never recorded.
func (a ancestors) enter(n Node) bool {
	if !IsDir(n) {
		return true
	}
	if _, found := a[n]; found {
		return false
	}
	a[n] = struct{}{}
	return true
}

func (a ancestors) leave(n Node) {
	if IsDir(n) {
		delete(a, n)
	}
}

func walk(parent, leaf string, n Node, seen ancestors, fn WalkFunc) {
	n, err := Evaluate(n)
	if err != nil || n == nil || !seen.enter(n) {
		fn(parent, leaf, nil)
		return
	}
	defer seen.leave(n)

	if !fn(parent, leaf, n) || !IsDir(n) {
		return
	}

	path := data.Join(parent, leaf)
	if path == data.Separator {
		path = ""
	}

	for _, name := range Children(n) {
		child, ok := Child(n, name)
		if !ok {
			continue
		}
		walk(path, name, child, seen, fn)
	}
}

// Reaches reports whether one of the targets is n itself or a container
// reachable from n. Storing n below such a target would create a cycle.
func Reaches(n Node, targets ...Node) bool {
	containers := make(ancestors)
	for _, target := range targets {
		if target != nil && IsDir(target) {
			containers[target] = struct{}{}
		}
	}
	if len(containers) == 0 {
		return false
	}

	found := false
	Walk(n, func(_, _ string, child Node) bool {
		if child != nil && IsDir(child) {
			if _, ok := containers[child]; ok {
				found = true
			}
		}
		return !found
	})
	return found
}
