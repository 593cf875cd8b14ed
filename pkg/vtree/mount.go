package vtree

import (
	verrors "github.com/vango-dev/vtree/internal/errors"
)

// CreateNode builds a node record for el without mounting it.
func (r *Reconciler) CreateNode(el *Element, hostParent any, key Key) *Node {
	return &Node{
		Element:    el,
		Children:   make(map[Key]*Node),
		HostParent: hostParent,
		Key:        key,
	}
}

// MountNode constructs and activates a node for el. A nil element mounts
// nothing: no node is created and nil is returned, which is how conditional
// rendering omits a subtree.
func (r *Reconciler) MountNode(el *Element, hostParent any, key Key) (*Node, error) {
	if el == nil {
		return nil, nil
	}
	kind, err := KindOf(el)
	if err != nil {
		return nil, err
	}

	node := r.CreateNode(el, hostParent, key)
	node.state = nodeMounted

	switch kind {
	case KindHost:
		err = r.renderer.MountHost(r, node)
	case KindFunction:
		err = r.mountFunction(node)
	case KindStateful:
		err = r.mountStateful(node)
	case KindPortal:
		err = notYetImplemented("mount", node)
	default:
		err = unknownKind(kind)
	}
	if err != nil {
		r.abortMount(node, kind)
		return nil, err
	}

	r.notifyMounted(node)
	return node, nil
}

// abortMount releases whatever a failed mount had already attached below
// node. The node itself was never reported as mounted.
func (r *Reconciler) abortMount(node *Node, kind Kind) {
	var err error
	switch {
	case kind == KindHost && node.HostObject != nil:
		err = r.renderer.UnmountHost(r, node)
	case kind == KindFunction, kind == KindStateful:
		err = r.unmountChildren(node)
	}
	node.state = nodeUnmounted
	node.Children = nil
	node.Instance = nil
	if err != nil {
		r.logger.Warn("release of failed mount", "key", string(node.Key), "error", err)
	}
}

func (r *Reconciler) mountFunction(node *Node) error {
	fn := node.Element.fn
	if fn == nil || fn.Render == nil {
		return verrors.New(verrors.CodeUnknownKind).WithDetail("function element without a render function")
	}
	result := fn.Render(node.Element.props)
	if err := ValidateKeys(result); err != nil {
		return err
	}
	return r.addChildren(node, result)
}

func (r *Reconciler) mountStateful(node *Node) error {
	class := node.Element.comp
	if class == nil {
		return verrors.New(verrors.CodeUnknownKind).WithDetail("stateful element without a class")
	}
	if err := class.Mount(r, node); err != nil {
		return err
	}
	if node.Instance == nil {
		return verrors.New(verrors.CodeInstanceNotSet).WithDetailf("class %s", class.Name())
	}
	return nil
}
