package node

import (
	"strconv"

	"github.com/mwantia/sftptest/data"
)

// Assign stores child under name inside parent, following the addressing
// model of the parent:
//
//   - mappings set the key
//   - sequences append when the index equals the length and replace below it
//   - objects assign the attribute, subject to sealing
//
// It reports whether name did not exist before.
func Assign(parent Node, name string, child Node) (created bool, err error) {
	switch p := parent.(type) {
	case *Mapping:
		return !p.Set(name, child), nil

	case *Sequence:
		if !data.IsIndex(name) {
			return false, data.ErrInvalidTarget
		}
		i, err := strconv.Atoi(name)
		if err != nil {
			return false, data.ErrOutOfRange
		}
		switch {
		case i < p.Len():
			p.Replace(i, child)
			return false, nil
		case i == p.Len():
			p.Append(child)
			return true, nil
		default:
			return false, data.ErrOutOfRange
		}

	case *Object:
		existed, ok := p.Assign(name, child)
		if !ok {
			return false, data.ErrInvalidTarget
		}
		return !existed, nil

	default:
		return false, data.ErrInvalidTarget
	}
}

// Unassign deletes name from parent. Removing a sequence element shifts the
// later elements down by one.
func Unassign(parent Node, name string) error {
	switch p := parent.(type) {
	case *Mapping:
		if !p.Delete(name) {
			return data.ErrNotExist
		}
		return nil

	case *Sequence:
		if !data.IsIndex(name) {
			return data.ErrNotExist
		}
		i, err := strconv.Atoi(name)
		if err != nil || !p.Remove(i) {
			return data.ErrOutOfRange
		}
		return nil

	case *Object:
		if _, found := p.Get(name); !found {
			return data.ErrNotExist
		}
		if !p.Delete(name) {
			return data.ErrInvalidTarget
		}
		return nil

	default:
		return data.ErrInvalidTarget
	}
}
