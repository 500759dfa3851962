package node

import (
	"fmt"
	"reflect"
	"strings"
)

// TagName is the struct tag that renames or hides fields converted into
// object attributes, e.g. `sftp:"name"` or `sftp:"-"`.
const TagName = "sftp"

// From converts a Go value into a node graph:
//
//   - Node values are used as they are
//   - strings, []byte, integers, floats and bools become scalars
//   - maps become mappings, keys formatted with fmt.Sprint
//   - slices and arrays become sequences
//   - structs become sealed objects of their exported fields
//   - func() T and func() (T, error) become lazy nodes
//
// The graph is a snapshot: later changes to v are not observed, and
// mutations of the graph do not flow back into v.
func From(v any) (Node, error) {
	if n, ok := v.(Node); ok {
		return n, nil
	}
	if v == nil {
		return nil, fmt.Errorf("cannot convert nil into a node")
	}

	return fromValue(reflect.ValueOf(v), make(visits))
}

// MustFrom is From for fixtures known to be convertible.
func MustFrom(v any) Node {
	n, err := From(v)
	if err != nil {
		panic(err)
	}
	return n
}

var (
	nodeType  = reflect.TypeFor[Node]()
	errorType = reflect.TypeFor[error]()
)

// visits holds the maps, slices and pointers on the current conversion path.
type visits map[uintptr]struct{}

func fromValue(rv reflect.Value, seen visits) (Node, error) {
	if !rv.IsValid() {
		return nil, fmt.Errorf("cannot convert invalid value into a node")
	}
	if (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) && rv.IsNil() {
		return nil, fmt.Errorf("cannot convert nil %s into a node", rv.Type())
	}
	if rv.Type().Implements(nodeType) && rv.CanInterface() {
		return rv.Interface().(Node), nil
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice:
		if rv.Kind() == reflect.Slice && rv.Len() == 0 {
			break
		}
		ptr := rv.Pointer()
		if _, found := seen[ptr]; found {
			return nil, fmt.Errorf("cannot convert %s into a node: value contains itself", rv.Type())
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		return fromValue(rv.Elem(), seen)

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes()), nil
		}
		return fromSequence(rv, seen)

	case reflect.Array:
		return fromSequence(rv, seen)

	case reflect.Map:
		return fromMapping(rv, seen)

	case reflect.Struct:
		return fromStruct(rv, seen)

	case reflect.Func:
		return fromFunc(rv)

	default:
		return nil, fmt.Errorf("cannot convert %s into a node", rv.Type())
	}
}

func fromSequence(rv reflect.Value, seen visits) (Node, error) {
	s := NewSequence()
	for i := 0; i < rv.Len(); i++ {
		child, err := fromValue(rv.Index(i), seen)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		s.Append(child)
	}
	return s, nil
}

func fromMapping(rv reflect.Value, seen visits) (Node, error) {
	m := NewMapping()
	iter := rv.MapRange()
	for iter.Next() {
		key := fmt.Sprint(iter.Key().Interface())
		child, err := fromValue(iter.Value(), seen)
		if err != nil {
			return nil, fmt.Errorf("key '%s': %w", key, err)
		}
		m.Set(key, child)
	}
	return m, nil
}

func fromStruct(rv reflect.Value, seen visits) (Node, error) {
	rt := rv.Type()
	attrs := make(map[string]Node, rt.NumField())

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup(TagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}

		child, err := fromValue(rv.Field(i), seen)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", field.Name, err)
		}
		attrs[name] = child
	}

	return NewSealedObject(rt.Name(), attrs), nil
}

func fromFunc(rv reflect.Value) (Node, error) {
	if rv.IsNil() {
		return nil, fmt.Errorf("cannot convert nil %s into a node", rv.Type())
	}

	ft := rv.Type()
	if ft.NumIn() != 0 || ft.NumOut() == 0 || ft.NumOut() > 2 {
		return nil, fmt.Errorf("cannot convert %s into a lazy node", ft)
	}
	if ft.NumOut() == 2 && ft.Out(1) != errorType {
		return nil, fmt.Errorf("cannot convert %s into a lazy node", ft)
	}

	return Lazy(func() (Node, error) {
		out := rv.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return fromValue(out[0], make(visits))
	}), nil
}
