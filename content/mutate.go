package content

import (
	"fmt"
	"strconv"

	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/data/errors"
	"github.com/mwantia/sftptest/node"
)

// The methods below assume p.mu is held and every path is normalized.

func (p *Provider) lookupUnsafe(path string) (node.Node, error) {
	return resolve(p.root, path)
}

func (p *Provider) getUnsafe(path string) (node.Node, error) {
	n, err := resolve(p.root, path)
	if err != nil {
		return nil, err
	}

	p.times.TouchAccess(path, p.clock())
	return n, nil
}

// putUnsafe assigns n at path. The leaf's descendants lose their records
// and the new subtree is seeded; the leaf itself gets a fresh modify time
// unless times overrides it. Creating a new child also updates the
// parent's modify time.
func (p *Provider) putUnsafe(path string, n node.Node, times *data.Times) error {
	if n == nil {
		return errors.InvalidTarget(path, "cannot store a nil node")
	}
	if path == data.Separator {
		return errors.InvalidTarget(path, "the root can only be swapped")
	}

	parentPath, leaf := split(path)
	lineage, err := resolveLineage(p.root, parentPath)
	if err != nil {
		return err
	}
	parent := lineage[len(lineage)-1]

	if node.Reaches(n, lineage...) {
		return errors.InvalidTarget(path, "node contains its own parent")
	}

	created, err := node.Assign(parent, leaf, n)
	if err != nil {
		return mutationError("put", path, parent, leaf, err)
	}

	now := p.clock()

	p.times.DeleteDescendants(path)
	var seeded []string
	first := true
	parentName, leafName := data.Split(path)
	node.WalkFrom(parentName, leafName, n, func(dir, name string, child node.Node) bool {
		if !first {
			seeded = append(seeded, data.Join(dir, name))
		}
		first = false
		return child != nil
	})
	p.times.Seed(seeded, now)

	record, ok := p.times.Get(path)
	if !ok || created {
		record = data.NewTimes(now)
	}
	record.Modify = now
	if times != nil {
		if !times.Access.IsZero() {
			record.Access = times.Access
		}
		if !times.Modify.IsZero() {
			record.Modify = times.Modify
		}
	}
	p.times.Set(path, record)

	if created {
		p.times.TouchModify(parentPath, now)
	}

	p.log.Debug("Put: stored %s node at %s (created=%t)", n.Kind(), path, created)
	return nil
}

// removeUnsafe deletes the node at path with all records below it. When
// the parent is a sequence the records of later elements move down by one.
func (p *Provider) removeUnsafe(path string) error {
	if path == data.Separator {
		return errors.InvalidTarget(path, "the root cannot be removed")
	}

	parentPath, leaf := split(path)
	parent, err := resolve(p.root, parentPath)
	if err != nil {
		return err
	}

	if err := node.Unassign(parent, leaf); err != nil {
		return mutationError("remove", path, parent, leaf, err)
	}

	p.times.Delete(path)
	if parent.Kind() == node.KindSequence {
		index, _ := strconv.Atoi(leaf)
		p.times.Shift(parentPath, index)
	}
	p.times.TouchModify(parentPath, p.clock())

	p.log.Debug("Remove: deleted node at %s", path)
	return nil
}

// mutationError adds the path to a failed Assign or Unassign, and the index
// and length to out of range sequence accesses.
func mutationError(op, path string, parent node.Node, leaf string, err error) error {
	if seq, ok := parent.(*node.Sequence); ok && errors.Is(err, data.ErrOutOfRange) {
		index, _ := strconv.Atoi(leaf)
		return fmt.Errorf("%s: %w", op, errors.OutOfRange(path, index, seq.Len()))
	}
	return fmt.Errorf("%s '%s': %w", op, path, err)
}

func (p *Provider) listUnsafe(path string) ([]string, error) {
	n, err := resolve(p.root, path)
	if err != nil {
		return nil, err
	}
	if !node.IsDir(n) {
		return nil, errors.NotDirectory(path)
	}

	return node.Children(n), nil
}

func (p *Provider) walkUnsafe(path string) ([]Entry, error) {
	n, err := resolve(p.root, path)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	parent, leaf := data.Split(path)
	node.WalkFrom(parent, leaf, n, func(dir, name string, _ node.Node) bool {
		entries = append(entries, Entry{Parent: dir, Leaf: name})
		return true
	})

	return entries, nil
}

// timesUnsafe returns the record of path, creating it with the current
// time when missing.
func (p *Provider) timesUnsafe(path string) data.Times {
	if times, ok := p.times.Get(path); ok {
		return times
	}

	times := data.NewTimes(p.clock())
	p.times.Set(path, times)
	return times
}

func (p *Provider) statUnsafe(path string) (*data.Attributes, error) {
	n, err := resolve(p.root, path)
	if err != nil {
		return nil, err
	}

	return Project(path, n, p.timesUnsafe(path)), nil
}

func (p *Provider) readDirUnsafe(path string) ([]*data.Attributes, error) {
	n, err := resolve(p.root, path)
	if err != nil {
		return nil, err
	}
	if !node.IsDir(n) {
		return nil, errors.NotDirectory(path)
	}

	names := node.Children(n)
	attrs := make([]*data.Attributes, 0, len(names))
	for _, name := range names {
		childPath := data.Join(pathPrefix(path), name)

		child, ok := node.Child(n, name)
		if !ok {
			continue
		}

		child, err := node.Evaluate(child)
		if err != nil {
			p.log.Warn("ReadDir: %s failed to evaluate: %v", childPath, err)
			child = node.String("")
		}

		attrs = append(attrs, Project(childPath, child, p.timesUnsafe(childPath)))
	}

	return attrs, nil
}

// pathPrefix maps the root to "" so Join produces "/name".
func pathPrefix(path string) string {
	if path == data.Separator {
		return ""
	}
	return path
}
