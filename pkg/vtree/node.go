package vtree

import "fmt"

type nodeState uint8

const (
	nodeCreated nodeState = iota
	nodeMounted
	nodeUnmounted
)

// Node is the live record of one mounted position in the tree.
//
// Nodes are created by the Mount Engine, mutated in place by updates and
// released by UnmountNode, which is the last operation ever performed on
// them. Only the reconciler writes Children; collaborators read it and call
// Dispatcher.UnmountNode on entries when tearing a node down.
type Node struct {
	// Element is the element last used to produce this node's state.
	Element *Element

	// Children maps child keys (as produced by Iterate) to child nodes.
	Children map[Key]*Node

	// HostParent is the platform object this node's host objects attach to.
	// It is a non-owning reference and nil at the root of a tree mounted
	// without a container.
	HostParent any

	// HostObject is the platform object a Renderer created for a host node.
	// When set, it is the host parent of the node's children.
	HostObject any

	// Key is the concrete key of this node within its host parent.
	Key Key

	// Instance is the live component instance of a stateful node.
	Instance Instance

	state nodeState
}

// Kind returns the kind of the node's element. It never changes over the
// node's lifetime.
func (n *Node) Kind() Kind {
	if n.Element == nil {
		return 0
	}
	return n.Element.kind
}

// IsMounted reports whether the node is live.
func (n *Node) IsMounted() bool {
	return n.state == nodeMounted
}

// ChildHostParent returns the host parent the node's children mount into.
func (n *Node) ChildHostParent() any {
	if n.HostObject != nil {
		return n.HostObject
	}
	return n.HostParent
}

// ChildKeys returns the node's child keys in sorted order.
func (n *Node) ChildKeys() []Key {
	return sortedKeys(n.Children)
}

// Child returns the child stored under key, or nil.
func (n *Node) Child(key Key) *Node {
	return n.Children[key]
}

// Walk visits n and its descendants depth-first in key order. Returning
// false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, key := range n.ChildKeys() {
		n.Children[key].Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Node(%s key=%q)", n.Element, string(n.Key))
}
