package vtree

import "fmt"

// Props holds the properties passed to an element.
// Treat props as read-only once they are attached to an Element.
type Props map[string]any

// Get returns the value for key, or nil.
func (p Props) Get(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// String returns the value for key formatted as a string, or "".
func (p Props) String(key string) string {
	v := p.Get(key)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// RenderFunc renders props into a render result.
type RenderFunc func(props Props) Result

// Function is a stateless component. Identity is the *Function pointer, so
// declare components once (package-level vars) and reuse them across renders.
type Function struct {
	Name   string
	Render RenderFunc
}

// NewFunction creates a stateless component.
func NewFunction(name string, render RenderFunc) *Function {
	return &Function{Name: name, Render: render}
}

// Element is an immutable description of what should exist at a position.
//
// A nil *Element means "render nothing here". Elements are built with Host,
// Func, Stateful and Portal; the zero Element is invalid.
type Element struct {
	kind     Kind
	class    string    // KindHost: platform class name
	fn       *Function // KindFunction
	comp     Class     // KindStateful
	target   any       // KindPortal
	props    Props
	children Result // KindHost and KindPortal: declared children
}

// Host creates an element backed by a platform object of the given class.
// children are reconciled by the Renderer under the new platform object.
func Host(class string, props Props, children Result) *Element {
	return &Element{kind: KindHost, class: class, props: props, children: children}
}

// Func creates an element rendered by a stateless component.
func Func(fn *Function, props Props) *Element {
	return &Element{kind: KindFunction, fn: fn, props: props}
}

// Stateful creates an element rendered by a stateful component class.
// The class must be comparable (typically a pointer).
func Stateful(class Class, props Props) *Element {
	return &Element{kind: KindStateful, comp: class, props: props}
}

// Portal creates an element that would render children into target.
// Portals are not supported yet; reconciling one fails with
// ErrNotYetImplemented.
func Portal(target any, children Result) *Element {
	return &Element{kind: KindPortal, target: target, children: children}
}

// Kind returns the element kind.
func (e *Element) Kind() Kind { return e.kind }

// Class returns the platform class name of a host element.
func (e *Element) Class() string { return e.class }

// Function returns the stateless component of a function element.
func (e *Element) Function() *Function { return e.fn }

// Component returns the class of a stateful element.
func (e *Element) Component() Class { return e.comp }

// Target returns the host parent of a portal element.
func (e *Element) Target() any { return e.target }

// Props returns the element props. Callers must not mutate the map.
func (e *Element) Props() Props { return e.props }

// Children returns the children declared on a host or portal element.
func (e *Element) Children() Result { return e.children }

// Name returns a human-readable name for the element's component, used in
// diagnostics and metrics labels.
func (e *Element) Name() string {
	if e == nil {
		return "<nil>"
	}
	switch e.kind {
	case KindHost:
		return e.class
	case KindFunction:
		if e.fn != nil && e.fn.Name != "" {
			return e.fn.Name
		}
		return "Function"
	case KindStateful:
		if e.comp != nil {
			return e.comp.Name()
		}
		return "Stateful"
	case KindPortal:
		return "Portal"
	default:
		return "Unknown"
	}
}

// String implements fmt.Stringer.
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", e.kind, e.Name())
}

// SameComponent reports whether two elements describe the same component:
// same kind and same tag. Reconciling b over a node built from a updates in
// place; otherwise the node is replaced.
func SameComponent(a, b *Element) bool {
	if a == nil || b == nil {
		return false
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindHost:
		return a.class == b.class
	case KindFunction:
		return a.fn == b.fn
	case KindStateful:
		return a.comp == b.comp
	case KindPortal:
		return true
	default:
		return false
	}
}
