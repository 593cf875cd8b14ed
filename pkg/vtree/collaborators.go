package vtree

// Dispatcher is the reconciler's dispatch table. It is handed to Renderers
// and component classes so they can manage their own children with the same
// engine. All methods are re-entrant for disjoint subtrees.
type Dispatcher interface {
	// CreateNode builds an unmounted node record without any side effects.
	CreateNode(el *Element, hostParent any, key Key) *Node

	// MountNode mounts el at key under hostParent. A nil element mounts
	// nothing and returns a nil node.
	MountNode(el *Element, hostParent any, key Key) (*Node, error)

	// UpdateNode reconciles node against next. It returns the node now at
	// that position: the same node, a replacement, or nil when next is nil.
	UpdateNode(node *Node, next *Element) (*Node, error)

	// UnmountNode releases node and everything below it.
	UnmountNode(node *Node) error

	// UpdateNodeChildren reconciles node's children against a render result.
	UpdateNodeChildren(node *Node, result Result) error
}

// Renderer creates, updates and destroys the platform objects behind host
// nodes. It is the sole authority on platform object lifetime.
type Renderer interface {
	// MountHost creates the platform object for node, attaches it to
	// node.HostParent and mounts the element's declared children through d.
	MountHost(d Dispatcher, node *Node) error

	// UpdateHost applies next to the node's existing platform object and
	// reconciles its children. node.Element still holds the previous element
	// when UpdateHost is called.
	UpdateHost(d Dispatcher, node *Node, next *Element) (*Node, error)

	// UnmountHost unmounts the node's children through d and destroys the
	// platform object.
	UnmountHost(d Dispatcher, node *Node) error
}

// State is the local state of a stateful component instance.
type State map[string]any

// Class is a stateful component type. Element identity compares classes
// with ==, so implementations should be pointers.
type Class interface {
	// Name identifies the class in diagnostics.
	Name() string

	// Mount constructs an instance for node, stores it in node.Instance and
	// performs the initial render through d.
	Mount(d Dispatcher, node *Node) error
}

// Instance is a live stateful component.
type Instance interface {
	// Update re-renders the instance. next is the new element, or nil when
	// the update is driven by pending state alone.
	Update(next *Element, pending State) error

	// Unmount unmounts the instance's children and releases its resources.
	Unmount() error
}
