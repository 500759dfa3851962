package node

import (
	"strings"

	"github.com/tidwall/btree"
)

// Object is a directory whose children are named attributes. Names starting
// with "__" are private: reachable by path, but never listed.
//
// A sealed object has a fixed attribute set. Existing attributes may be
// replaced, but none can be added or removed.
type Object struct {
	name   string
	sealed bool
	attrs  *btree.Map[string, Node]
}

func NewObject(name string) *Object {
	return &Object{
		name:  name,
		attrs: btree.NewMap[string, Node](0),
	}
}

// NewSealedObject returns an object whose attribute set is fixed once
// attrs have been assigned.
func NewSealedObject(name string, attrs map[string]Node) *Object {
	o := NewObject(name)
	for key, child := range attrs {
		o.attrs.Set(key, child)
	}
	o.sealed = true
	return o
}

func (o *Object) Kind() Kind {
	return KindObject
}

// Name returns the type name the object was created with.
func (o *Object) Name() string {
	return o.name
}

func (o *Object) Sealed() bool {
	return o.sealed
}

func (o *Object) Get(attr string) (Node, bool) {
	return o.attrs.Get(attr)
}

// Assign sets attr and reports whether it existed. It fails for new names
// on a sealed object.
func (o *Object) Assign(attr string, child Node) (existed bool, ok bool) {
	if _, found := o.attrs.Get(attr); !found && o.sealed {
		return false, false
	}
	_, existed = o.attrs.Set(attr, child)
	return existed, true
}

// Delete removes attr. Sealed objects refuse every deletion.
func (o *Object) Delete(attr string) bool {
	if o.sealed {
		return false
	}
	_, deleted := o.attrs.Delete(attr)
	return deleted
}

// Attributes returns the public attribute names in order.
func (o *Object) Attributes() []string {
	names := make([]string, 0, o.attrs.Len())
	o.attrs.Scan(func(name string, _ Node) bool {
		if !IsPrivate(name) {
			names = append(names, name)
		}
		return true
	})
	return names
}

// IsPrivate reports whether an attribute name is hidden from listings.
func IsPrivate(name string) bool {
	return strings.HasPrefix(name, "__")
}
