package vtree

import (
	verrors "github.com/vango-dev/vtree/internal/errors"
)

// UnmountNode releases node and, recursively, everything it owns. A node can
// be unmounted once; a second call fails with ErrNodeUnmounted instead of
// releasing resources twice.
func (r *Reconciler) UnmountNode(node *Node) error {
	if node == nil {
		return invalidNode("UnmountNode")
	}
	if node.state == nodeUnmounted {
		return verrors.New(verrors.CodeNodeUnmounted).WithDetailf("unmount of key %q", string(node.Key))
	}
	node.state = nodeUnmounted

	var err error
	switch node.Kind() {
	case KindHost:
		err = r.renderer.UnmountHost(r, node)
	case KindFunction:
		err = r.unmountChildren(node)
	case KindStateful:
		if node.Instance == nil {
			err = verrors.New(verrors.CodeInstanceNotSet).WithDetailf("class %s", node.Element.Name())
			break
		}
		err = node.Instance.Unmount()
	case KindPortal:
		err = notYetImplemented("unmount", node)
	default:
		err = unknownKind(node.Kind())
	}
	if err != nil {
		return err
	}

	node.Children = nil
	node.Instance = nil
	r.notifyUnmounted(node)
	return nil
}

func (r *Reconciler) unmountChildren(node *Node) error {
	for _, key := range node.ChildKeys() {
		if err := r.UnmountNode(node.Children[key]); err != nil {
			return err
		}
	}
	return nil
}
