package node

import "github.com/tidwall/btree"

// Mapping is a directory keyed by name. Keys are kept sorted.
type Mapping struct {
	entries *btree.Map[string, Node]
}

func NewMapping() *Mapping {
	return &Mapping{
		entries: btree.NewMap[string, Node](0),
	}
}

// MappingOf builds a mapping from already converted children.
func MappingOf(entries map[string]Node) *Mapping {
	m := NewMapping()
	for key, child := range entries {
		m.Set(key, child)
	}
	return m
}

func (m *Mapping) Kind() Kind {
	return KindMapping
}

func (m *Mapping) Get(key string) (Node, bool) {
	return m.entries.Get(key)
}

// Set stores child under key and reports whether the key already existed.
func (m *Mapping) Set(key string, child Node) bool {
	_, replaced := m.entries.Set(key, child)
	return replaced
}

func (m *Mapping) Delete(key string) bool {
	_, deleted := m.entries.Delete(key)
	return deleted
}

func (m *Mapping) Keys() []string {
	return m.entries.Keys()
}

func (m *Mapping) Len() int {
	return m.entries.Len()
}

// Range calls fn for every entry in key order until fn returns false.
func (m *Mapping) Range(fn func(key string, child Node) bool) {
	m.entries.Scan(fn)
}
