package content

import (
	"fmt"

	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/data/errors"
	"github.com/mwantia/sftptest/node"
)

// resolve follows the segments of a normalized path from root. Lazy nodes
// met on the way, the root and the final node included, are evaluated and
// replaced by their result for the rest of the walk.
func resolve(root node.Node, path string) (node.Node, error) {
	lineage, err := resolveLineage(root, path)
	if err != nil {
		return nil, err
	}
	return lineage[len(lineage)-1], nil
}

// resolveLineage is resolve returning every node passed on the way, from
// the root down to the node at path.
func resolveLineage(root node.Node, path string) ([]node.Node, error) {
	current, err := node.Evaluate(root)
	if err != nil {
		return nil, fmt.Errorf("resolve '%s': %w", data.Separator, err)
	}

	lineage := []node.Node{current}
	walked := ""
	for _, segment := range data.Segments(path) {
		walked = data.Join(walked, segment)

		child, ok := node.Child(current, segment)
		if !ok {
			return nil, errors.NotExist(path)
		}

		current, err = node.Evaluate(child)
		if err != nil {
			return nil, fmt.Errorf("resolve '%s': %w", walked, err)
		}
		lineage = append(lineage, current)
	}

	return lineage, nil
}

// split returns the parent path and leaf name of a normalized path, with
// the root reported as "/".
func split(path string) (parent, leaf string) {
	_, leaf = data.Split(path)
	return data.Parent(path), leaf
}
