// Package vtree provides a declarative tree reconciler.
//
// Given a description of a desired tree (an Element tree) and the node tree
// mounted from the previous description, the reconciler applies the minimal
// set of mount, update and unmount operations that makes the live tree match,
// preserving component identity and state wherever the description allows.
//
// # Core Types
//
// Element is an immutable description of one position. Its Kind is one of
// Host (a platform object owned by the Renderer), Function (a stateless
// render function), Stateful (a Class with a live Instance) or Portal (not
// supported yet). A nil *Element renders nothing.
//
// Node is the live record of a mounted position. Tree wraps a root node and
// refuses every operation after it has been unmounted.
//
// # Element API
//
//	var Greeting = vtree.NewFunction("Greeting", func(p vtree.Props) vtree.Result {
//	    return vtree.Host("TextLabel", vtree.Props{"Text": "Hello " + p.String("name")}, nil)
//	})
//
//	root := vtree.Host("Frame", nil, vtree.Children{
//	    "greeting": vtree.Func(Greeting, vtree.Props{"name": "Ada"}),
//	    "footer":   nil, // conditionally omitted
//	})
//
// # Reconciling
//
//	r := vtree.New(renderer, vtree.WithLogger(logger))
//	tree, err := r.MountTree(root, container, "app")
//	tree, err = r.UpdateTree(tree, nextRoot)
//	err = r.UnmountTree(tree)
//
// Children are matched by key. On update, existing keys are updated in place
// (or unmounted when gone) before new keys are mounted. When the element at a
// key names a different component, the old node is unmounted and a new one is
// mounted in its place; a structured warning is logged since this discards
// all state below that position.
//
// # Collaborators
//
// The Renderer creates and destroys host platform objects, and a Class
// constructs stateful instances. Both receive the reconciler as a Dispatcher
// and call back into it to manage their own children. The reconciler is
// synchronous and re-entrant but not safe for concurrent use.
package vtree
