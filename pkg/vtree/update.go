package vtree

import (
	verrors "github.com/vango-dev/vtree/internal/errors"
)

// UpdateNode reconciles node against next and returns the node that now
// occupies the position:
//
//   - next == nil: node is unmounted and nil is returned.
//   - next names a different component: node is unmounted and a new node is
//     mounted at the same host parent and key. All state below the old node
//     is discarded.
//   - otherwise node is updated in place and returned.
//
// Node identity survives in-place updates and never survives replacement.
func (r *Reconciler) UpdateNode(node *Node, next *Element) (*Node, error) {
	if node == nil {
		return nil, invalidNode("UpdateNode")
	}
	if !node.IsMounted() {
		return nil, verrors.New(verrors.CodeNodeUnmounted).WithDetailf("update of key %q", string(node.Key))
	}

	if next == nil {
		return nil, r.UnmountNode(node)
	}

	if !SameComponent(node.Element, next) {
		return r.replaceNode(node, next)
	}

	var (
		updated = node
		err     error
	)
	switch node.Kind() {
	case KindHost:
		updated, err = r.renderer.UpdateHost(r, node, next)
		if updated == nil {
			updated = node
		}
	case KindFunction:
		err = r.updateFunction(node, next)
	case KindStateful:
		err = r.updateStateful(node, next)
	case KindPortal:
		err = notYetImplemented("update", node)
	default:
		err = unknownKind(node.Kind())
	}
	if err != nil {
		return nil, err
	}

	updated.Element = next
	r.notifyUpdated(updated)
	return updated, nil
}

// replaceNode unmounts node and mounts next in its place. The old subtree is
// fully released before any mount side effect of the new one happens.
func (r *Reconciler) replaceNode(node *Node, next *Element) (*Node, error) {
	warning := verrors.New(verrors.CodeTypeChanged).
		WithDetailf("%s -> %s at key %q", node.Element.Name(), next.Name(), string(node.Key))
	r.logger.Warn("component changed type",
		"code", warning.Code,
		"key", string(node.Key),
		"from", node.Element.Name(),
		"from_kind", node.Kind().String(),
		"to", next.Name(),
		"to_kind", next.Kind().String(),
	)
	r.notifyReplaced(node, next)

	hostParent, key := node.HostParent, node.Key
	if err := r.UnmountNode(node); err != nil {
		return nil, err
	}
	return r.MountNode(next, hostParent, key)
}

func (r *Reconciler) updateFunction(node *Node, next *Element) error {
	fn := next.fn
	if fn == nil || fn.Render == nil {
		return verrors.New(verrors.CodeUnknownKind).WithDetail("function element without a render function")
	}
	return r.UpdateNodeChildren(node, fn.Render(next.props))
}

func (r *Reconciler) updateStateful(node *Node, next *Element) error {
	if node.Instance == nil {
		return verrors.New(verrors.CodeInstanceNotSet).WithDetailf("class %s", next.Name())
	}
	return node.Instance.Update(next, nil)
}
