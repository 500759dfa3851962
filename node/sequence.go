package node

// Sequence is a directory whose children are addressed by their index.
type Sequence struct {
	items []Node
}

func NewSequence(items ...Node) *Sequence {
	return &Sequence{
		items: append([]Node(nil), items...),
	}
}

func (s *Sequence) Kind() Kind {
	return KindSequence
}

func (s *Sequence) Len() int {
	return len(s.items)
}

func (s *Sequence) Index(i int) (Node, bool) {
	if i < 0 || i >= len(s.items) {
		return nil, false
	}
	return s.items[i], true
}

func (s *Sequence) Append(child Node) {
	s.items = append(s.items, child)
}

// Replace overwrites the element at i, which must exist.
func (s *Sequence) Replace(i int, child Node) bool {
	if i < 0 || i >= len(s.items) {
		return false
	}
	s.items[i] = child
	return true
}

// Remove deletes the element at i and shifts later elements down by one.
func (s *Sequence) Remove(i int) bool {
	if i < 0 || i >= len(s.items) {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}
