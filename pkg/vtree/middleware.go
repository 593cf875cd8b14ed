package vtree

import "context"

// OpType identifies a Tree API operation.
type OpType uint8

const (
	OpMountTree OpType = iota + 1
	OpUpdateTree
	OpUnmountTree
)

// String returns the operation name used in logs, metrics and spans.
func (o OpType) String() string {
	switch o {
	case OpMountTree:
		return "mount_tree"
	case OpUpdateTree:
		return "update_tree"
	case OpUnmountTree:
		return "unmount_tree"
	default:
		return "unknown"
	}
}

// Operation describes one Tree API call as seen by middleware.
type Operation struct {
	// Type is the operation being performed.
	Type OpType

	// Key is the tree's root key.
	Key Key

	// Element is the new root element (nil for unmount).
	Element *Element

	// Tree is the tree being operated on. It is nil while a mount is in
	// flight and set once it succeeds.
	Tree *Tree

	ctx context.Context
}

// Context returns the operation's context. It is never nil.
func (o *Operation) Context() context.Context {
	if o.ctx == nil {
		return context.Background()
	}
	return o.ctx
}

// WithContext replaces the operation's context, e.g. with one carrying a
// trace span for middleware further down the chain.
func (o *Operation) WithContext(ctx context.Context) {
	o.ctx = ctx
}

// Middleware wraps Tree API operations.
type Middleware interface {
	Handle(op *Operation, next func() error) error
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(op *Operation, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(op *Operation, next func() error) error {
	return f(op, next)
}

// Observer receives node lifecycle notifications. Callbacks run
// synchronously on the reconciling goroutine and must not call back into
// the reconciler.
type Observer interface {
	NodeMounted(node *Node)
	NodeUpdated(node *Node)
	NodeUnmounted(node *Node)
	// NodeReplaced fires before the old node is unmounted.
	NodeReplaced(old *Node, next *Element)
}

// run executes fn through the middleware chain, first middleware outermost.
func (r *Reconciler) run(op *Operation, fn func() error) error {
	next := fn
	for i := len(r.middleware) - 1; i >= 0; i-- {
		mw := r.middleware[i]
		inner := next
		next = func() error {
			return mw.Handle(op, inner)
		}
	}
	return next()
}

func (r *Reconciler) notifyMounted(node *Node) {
	for _, o := range r.observers {
		o.NodeMounted(node)
	}
}

func (r *Reconciler) notifyUpdated(node *Node) {
	for _, o := range r.observers {
		o.NodeUpdated(node)
	}
}

func (r *Reconciler) notifyUnmounted(node *Node) {
	for _, o := range r.observers {
		o.NodeUnmounted(node)
	}
}

func (r *Reconciler) notifyReplaced(old *Node, next *Element) {
	for _, o := range r.observers {
		o.NodeReplaced(old, next)
	}
}
