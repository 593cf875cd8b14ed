package scene

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/vtree"
)

// ErrDone is returned by Player.Step once every step has been applied.
var ErrDone = stderrors.New("scene: no more steps")

// Player applies a scene's steps to one tree.
type Player struct {
	scene  *Scene
	r      *vtree.Reconciler
	parent any
	key    vtree.Key
	logger *slog.Logger

	tree *vtree.Tree
	next int
}

// NewPlayer creates a player that mounts the scene's tree under hostParent
// with the given root key. An empty key uses the reconciler's default.
func NewPlayer(s *Scene, r *vtree.Reconciler, hostParent any, key vtree.Key) *Player {
	return &Player{
		scene:  s,
		r:      r,
		parent: hostParent,
		key:    key,
		logger: r.Logger(),
	}
}

// Scene returns the scene being played.
func (p *Player) Scene() *Scene { return p.scene }

// Tree returns the current tree, or nil when none is mounted.
func (p *Player) Tree() *vtree.Tree { return p.tree }

// Position returns the index of the next step.
func (p *Player) Position() int { return p.next }

// Done reports whether every step has been applied.
func (p *Player) Done() bool { return p.next >= len(p.scene.Steps) }

// Step applies the next step and returns its index. A failed step is not
// retried: the player moves past it.
func (p *Player) Step(ctx context.Context) (int, error) {
	if p.Done() {
		return p.next, ErrDone
	}
	i := p.next
	p.next++
	step := &p.scene.Steps[i]

	var err error
	switch step.Kind() {
	case StepRoot:
		err = p.applyRoot(ctx, i)
	case StepSetState:
		err = p.applySetState(step.SetState)
	case StepUnmount:
		err = p.r.UnmountTreeContext(ctx, p.tree)
		p.tree = nil
	}
	if err != nil {
		p.logger.Error("scene step failed", "scene", p.scene.Name, "step", step.Label(i), "error", err)
		return i, err
	}
	p.logger.Debug("scene step applied", "scene", p.scene.Name, "step", step.Label(i))
	return i, nil
}

// Run applies every remaining step, stopping at the first error.
func (p *Player) Run(ctx context.Context) error {
	for !p.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := p.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) applyRoot(ctx context.Context, i int) error {
	el, err := p.scene.Build(i)
	if err != nil {
		return err
	}
	if p.tree == nil {
		tree, err := p.r.MountTreeContext(ctx, el, p.parent, p.key)
		if err != nil {
			return err
		}
		p.tree = tree
		return nil
	}
	_, err = p.r.UpdateTreeContext(ctx, p.tree, el)
	return err
}

func (p *Player) applySetState(spec *SetStateSpec) error {
	if p.tree == nil {
		return errors.New(errors.CodeTreeUnmounted).WithDetail("setState with no mounted tree")
	}
	inst, err := FindInstance(p.tree.Root(), spec.Path)
	if err != nil {
		return err
	}
	partial := make(vtree.State, len(spec.State))
	for k, v := range spec.State {
		if v == nil {
			partial[k] = component.Remove
			continue
		}
		partial[k] = v
	}
	return inst.SetState(partial)
}

// FindInstance follows path from root and returns the stateful component
// instance there. Single-element render results are stepped through
// transparently, so a path names only keyed children.
func FindInstance(root *vtree.Node, path []string) (*component.Instance, error) {
	node := root
	for _, seg := range path {
		node = descend(node, vtree.Key(seg))
		if node == nil {
			return nil, errors.New(errors.CodeSceneReference).WithDetailf("no node at path %v", path)
		}
	}
	for node != nil && node.Kind() != vtree.KindStateful {
		node = node.Child(vtree.UseParentKey)
	}
	if node == nil {
		return nil, errors.New(errors.CodeSceneReference).WithDetailf("no stateful component at path %v", path)
	}
	inst, ok := node.Instance.(*component.Instance)
	if !ok {
		return nil, errors.New(errors.CodeSceneReference).WithDetailf("component at path %v is not a scene class", path)
	}
	return inst, nil
}

func descend(node *vtree.Node, key vtree.Key) *vtree.Node {
	for node != nil {
		if child := node.Child(key); child != nil {
			return child
		}
		node = node.Child(vtree.UseParentKey)
	}
	return nil
}
