package vtree

import (
	verrors "github.com/vango-dev/vtree/internal/errors"
)

// UpdateNodeChildren reconciles node's children against a render result.
//
// The first pass visits every existing child (in key order): the child is
// updated against the element the result holds under its key, or unmounted
// when the key is gone. Removed keys are deleted once the pass completes.
// The second pass mounts every key of the result that has no child yet.
// Because removals finish before additions start, a slot is never claimed
// by two live platform objects at once.
//
// A child that was released before an error (a replacement whose new mount
// failed) is dropped from node, so later updates and unmounts skip it.
func (r *Reconciler) UpdateNodeChildren(node *Node, result Result) error {
	if node == nil {
		return invalidNode("UpdateNodeChildren")
	}
	if !node.IsMounted() {
		return verrors.New(verrors.CodeNodeUnmounted).WithDetailf("children update of key %q", string(node.Key))
	}
	if err := ValidateKeys(result); err != nil {
		return err
	}

	var removed []Key
	for _, key := range node.ChildKeys() {
		child := node.Children[key]
		updated, err := r.UpdateNode(child, Lookup(result, key))
		if err != nil {
			if !child.IsMounted() {
				delete(node.Children, key)
			}
			for _, k := range removed {
				delete(node.Children, k)
			}
			return err
		}
		if updated == nil {
			removed = append(removed, key)
			continue
		}
		node.Children[key] = updated
	}
	for _, key := range removed {
		delete(node.Children, key)
	}

	return r.addChildren(node, result)
}

// addChildren mounts every entry of result that has no child yet. A single
// element keyed UseParentKey mounts with the node's own key but is stored
// under the sentinel, so the next render finds it again with Lookup.
func (r *Reconciler) addChildren(node *Node, result Result) error {
	hostParent := node.ChildHostParent()
	for key, el := range Iterate(result) {
		if _, exists := node.Children[key]; exists {
			continue
		}
		concrete := key
		if key == UseParentKey {
			concrete = node.Key
		}
		child, err := r.MountNode(el, hostParent, concrete)
		if err != nil {
			return err
		}
		if child != nil {
			node.Children[key] = child
		}
	}
	return nil
}
