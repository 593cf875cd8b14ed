package render

import (
	"slices"
	"strings"

	"github.com/vango-dev/vtree/pkg/vtree"
)

// ContainerClass is the class of objects created by NewContainer.
const ContainerClass = "Container"

// Object is an in-memory platform object.
type Object struct {
	// ID is unique per Renderer. Containers have ID 0.
	ID uint64

	// Class is the host class name (e.g. "Frame", "TextLabel").
	Class string

	// Name is the key the object was mounted under.
	Name string

	// Props are the currently applied properties.
	Props vtree.Props

	// Parent is the object this one is attached to, nil for a container.
	Parent *Object

	children  map[string]*Object
	destroyed bool
}

// NewContainer creates a root object for trees to mount into.
func NewContainer(name string) *Object {
	return &Object{
		Class:    ContainerClass,
		Name:     name,
		Props:    vtree.Props{},
		children: make(map[string]*Object),
	}
}

// Children returns the attached children ordered by name.
func (o *Object) Children() []*Object {
	names := make([]string, 0, len(o.children))
	for name := range o.children {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]*Object, 0, len(names))
	for _, name := range names {
		out = append(out, o.children[name])
	}
	return out
}

// Child returns the attached child with the given name, or nil.
func (o *Object) Child(name string) *Object {
	return o.children[name]
}

// Find follows names down from o and returns the object found, or nil.
func (o *Object) Find(names ...string) *Object {
	cur := o
	for _, name := range names {
		if cur == nil {
			return nil
		}
		cur = cur.children[name]
	}
	return cur
}

// Destroyed reports whether the object has been destroyed.
func (o *Object) Destroyed() bool { return o.destroyed }

// Path returns the dot-separated names from the root container to o.
func (o *Object) Path() string {
	var parts []string
	for cur := o; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

// Count returns the number of objects attached below o, o excluded.
func (o *Object) Count() int {
	n := 0
	for _, child := range o.children {
		n += 1 + child.Count()
	}
	return n
}
