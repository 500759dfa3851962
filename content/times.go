package content

import (
	"strconv"
	"strings"
	"time"

	"github.com/mwantia/sftptest/data"
	"github.com/tidwall/btree"
)

// Tracker keeps one timestamp record per addressable node, keyed by the
// normalized path. Records are ordered so a subtree is a contiguous range.
//
// Tracker is not safe for concurrent use; the Provider lock covers it.
type Tracker struct {
	records *btree.Map[string, data.Times]
}

func NewTracker() *Tracker {
	return &Tracker{
		records: btree.NewMap[string, data.Times](0),
	}
}

func (t *Tracker) Get(path string) (data.Times, bool) {
	return t.records.Get(path)
}

func (t *Tracker) Set(path string, times data.Times) {
	t.records.Set(path, times)
}

// TouchAccess updates only the access time, creating a record seeded with
// at when none exists.
func (t *Tracker) TouchAccess(path string, at time.Time) {
	times, ok := t.records.Get(path)
	if !ok {
		times = data.NewTimes(at)
	}
	times.Access = at
	t.records.Set(path, times)
}

// TouchModify updates only the modify time, creating a record seeded with
// at when none exists.
func (t *Tracker) TouchModify(path string, at time.Time) {
	times, ok := t.records.Get(path)
	if !ok {
		times = data.NewTimes(at)
	}
	times.Modify = at
	t.records.Set(path, times)
}

// Seed writes one identical record for every path.
func (t *Tracker) Seed(paths []string, at time.Time) {
	for _, path := range paths {
		t.records.Set(path, data.NewTimes(at))
	}
}

// Delete removes the record of path and of everything below it.
func (t *Tracker) Delete(path string) {
	t.records.Delete(path)
	t.DeleteDescendants(path)
}

// DeleteDescendants removes the records strictly below path.
func (t *Tracker) DeleteDescendants(path string) {
	for _, key := range t.descendants(path) {
		t.records.Delete(key)
	}
}

// Copy duplicates the records strictly below src onto dst, keeping the
// relative layout. Records already below dst are replaced.
func (t *Tracker) Copy(src, dst string) {
	moved := make(map[string]data.Times)
	for _, key := range t.descendants(src) {
		times, _ := t.records.Get(key)
		moved[rebase(key, src, dst)] = times
	}

	for key, times := range moved {
		t.records.Set(key, times)
	}
}

// Shift renames the records of the sequence elements of parent that follow
// index one position down, subtrees included. The records of index itself
// must have been deleted before.
func (t *Tracker) Shift(parent string, index int) {
	prefix := childPrefix(parent)
	shifted := make(map[string]data.Times)

	for _, key := range t.descendants(parent) {
		rest := strings.TrimPrefix(key, prefix)
		segment, tail, _ := strings.Cut(rest, data.Separator)
		if !data.IsIndex(segment) {
			continue
		}

		i, err := strconv.Atoi(segment)
		if err != nil || i <= index {
			continue
		}

		times, _ := t.records.Get(key)
		t.records.Delete(key)

		target := prefix + strconv.Itoa(i-1)
		if tail != "" {
			target += data.Separator + tail
		}
		shifted[target] = times
	}

	for key, times := range shifted {
		t.records.Set(key, times)
	}
}

func (t *Tracker) Len() int {
	return t.records.Len()
}

func (t *Tracker) descendants(path string) []string {
	prefix := childPrefix(path)
	var keys []string

	t.records.Ascend(prefix, func(key string, _ data.Times) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		if key != path {
			keys = append(keys, key)
		}
		return true
	})

	return keys
}

// childPrefix returns the common prefix of every path below path.
func childPrefix(path string) string {
	if path == "" || path == data.Separator {
		return data.Separator
	}
	return path + data.Separator
}

func rebase(key, src, dst string) string {
	return childPrefix(dst) + strings.TrimPrefix(key, childPrefix(src))
}
