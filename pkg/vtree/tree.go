package vtree

import (
	"context"

	verrors "github.com/vango-dev/vtree/internal/errors"
)

// Tree is the handle for a mounted hierarchy. It owns at most one root node.
// Once unmounted, every further operation on the tree fails.
type Tree struct {
	root       *Node
	hostParent any
	key        Key
	mounted    bool
}

// Root returns the root node, or nil.
func (t *Tree) Root() *Node { return t.root }

// Key returns the root key.
func (t *Tree) Key() Key { return t.key }

// HostParent returns the host parent the tree was mounted into.
func (t *Tree) HostParent() any { return t.hostParent }

// IsMounted reports whether the tree is still mounted.
func (t *Tree) IsMounted() bool { return t.mounted }

// MountTree mounts el into hostParent and returns the new tree. An empty
// key selects the reconciler's default root key.
func (r *Reconciler) MountTree(el *Element, hostParent any, key Key) (*Tree, error) {
	return r.MountTreeContext(context.Background(), el, hostParent, key)
}

// MountTreeContext is MountTree with a context for middleware.
func (r *Reconciler) MountTreeContext(ctx context.Context, el *Element, hostParent any, key Key) (*Tree, error) {
	key = r.rootKey(key)
	op := &Operation{Type: OpMountTree, Key: key, Element: el, ctx: ctx}

	var tree *Tree
	err := r.run(op, func() error {
		if el == nil {
			return verrors.New(verrors.CodeInvalidRoot).WithDetail("MountTree")
		}
		root, err := r.MountNode(el, hostParent, key)
		if err != nil {
			return err
		}
		tree = &Tree{root: root, hostParent: hostParent, key: key, mounted: true}
		op.Tree = tree
		r.logger.Debug("tree mounted", "key", string(key), "root", el.Name())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// UpdateTree reconciles the tree's root against el. Passing nil is rejected;
// use UnmountTree to remove the whole tree.
func (r *Reconciler) UpdateTree(tree *Tree, el *Element) (*Tree, error) {
	return r.UpdateTreeContext(context.Background(), tree, el)
}

// UpdateTreeContext is UpdateTree with a context for middleware.
func (r *Reconciler) UpdateTreeContext(ctx context.Context, tree *Tree, el *Element) (*Tree, error) {
	if tree == nil {
		return nil, verrors.New(verrors.CodeTreeUnmounted).WithDetail("nil tree")
	}
	op := &Operation{Type: OpUpdateTree, Key: tree.key, Element: el, Tree: tree, ctx: ctx}

	err := r.run(op, func() error {
		if !tree.mounted {
			return verrors.New(verrors.CodeTreeUnmounted).WithDetailf("UpdateTree on tree %q", string(tree.key))
		}
		if el == nil {
			return verrors.New(verrors.CodeInvalidRoot).WithDetail("UpdateTree")
		}
		var (
			root *Node
			err  error
		)
		if tree.root == nil {
			root, err = r.MountNode(el, tree.hostParent, tree.key)
		} else {
			root, err = r.UpdateNode(tree.root, el)
			if err != nil && !tree.root.IsMounted() {
				tree.root = nil
			}
		}
		if err != nil {
			return err
		}
		tree.root = root
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// UnmountTree unmounts the tree. The tree is marked unmounted before its
// root is released; calling UnmountTree twice fails with ErrTreeUnmounted.
func (r *Reconciler) UnmountTree(tree *Tree) error {
	return r.UnmountTreeContext(context.Background(), tree)
}

// UnmountTreeContext is UnmountTree with a context for middleware.
func (r *Reconciler) UnmountTreeContext(ctx context.Context, tree *Tree) error {
	if tree == nil {
		return verrors.New(verrors.CodeTreeUnmounted).WithDetail("nil tree")
	}
	op := &Operation{Type: OpUnmountTree, Key: tree.key, Tree: tree, ctx: ctx}

	return r.run(op, func() error {
		if !tree.mounted {
			return verrors.New(verrors.CodeTreeUnmounted).WithDetailf("UnmountTree on tree %q", string(tree.key))
		}
		tree.mounted = false

		root := tree.root
		tree.root = nil
		if root == nil {
			return nil
		}
		if err := r.UnmountNode(root); err != nil {
			return err
		}
		r.logger.Debug("tree unmounted", "key", string(tree.key))
		return nil
	})
}
