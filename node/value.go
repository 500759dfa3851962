package node

// ToValue converts a graph back into plain Go values: map[string]any,
// []any and the scalar's original value. Lazy nodes are evaluated, failing
// ones become nil, as do containers reached again below themselves.
// Private object attributes are omitted.
func ToValue(n Node) any {
	return toValue(n, make(ancestors))
}

func toValue(n Node, seen ancestors) any {
	n, err := Evaluate(n)
	if err != nil || n == nil || !seen.enter(n) {
		return nil
	}
	defer seen.leave(n)

	switch v := n.(type) {
	case Scalar:
		return v.Value()
	case *Sequence:
		items := make([]any, v.Len())
		for i, child := range v.items {
			items[i] = toValue(child, seen)
		}
		return items
	case *Mapping, *Object:
		out := make(map[string]any)
		for _, name := range Children(v) {
			child, _ := Child(v, name)
			out[name] = toValue(child, seen)
		}
		return out
	default:
		return nil
	}
}

// Clone deep copies the containers of a graph. Scalars are values and lazy
// nodes are shared. A container reached again below itself is cloned into
// the matching copy, so cycles are kept rather than unrolled.
func Clone(n Node) Node {
	return clone(n, make(map[Node]Node))
}

func clone(n Node, copies map[Node]Node) Node {
	if !isContainer(n) {
		return n
	}
	if c, found := copies[n]; found {
		return c
	}

	switch v := n.(type) {
	case *Mapping:
		m := NewMapping()
		copies[n] = m
		v.Range(func(key string, child Node) bool {
			m.Set(key, clone(child, copies))
			return true
		})
		return m
	case *Sequence:
		s := NewSequence()
		copies[n] = s
		for _, child := range v.items {
			s.Append(clone(child, copies))
		}
		return s
	case *Object:
		o := NewObject(v.name)
		copies[n] = o
		v.attrs.Scan(func(name string, child Node) bool {
			o.attrs.Set(name, clone(child, copies))
			return true
		})
		o.sealed = v.sealed
		return o
	default:
		return n
	}
}

func isContainer(n Node) bool {
	switch n.(type) {
	case *Mapping, *Sequence, *Object:
		return true
	default:
		return false
	}
}
