package component

import (
	"fmt"
	"maps"
	"sync/atomic"

	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vtree"
)

// Behavior renders a stateful component from its props and state.
type Behavior interface {
	Render(props vtree.Props, state vtree.State) vtree.Result
}

// Initializer supplies the initial state before the first render.
type Initializer interface {
	Init(props vtree.Props) vtree.State
}

// DidMounter is notified once the first render has been reconciled.
// SetState is allowed from DidMount.
type DidMounter interface {
	DidMount(inst *Instance)
}

// ShouldUpdater can veto a re-render. Props and state are still committed.
type ShouldUpdater interface {
	ShouldUpdate(nextProps vtree.Props, nextState vtree.State) bool
}

// WillUpdater runs before props and state are committed for a re-render.
type WillUpdater interface {
	WillUpdate(nextProps vtree.Props, nextState vtree.State)
}

// DidUpdater runs after a re-render has been reconciled.
type DidUpdater interface {
	DidUpdate(prevProps vtree.Props, prevState vtree.State)
}

// WillUnmounter runs before the component's children are released.
type WillUnmounter interface {
	WillUnmount()
}

// Factory creates the Behavior for a new instance.
type Factory func() Behavior

// Class is a stateful component class. It implements vtree.Class; use the
// same *Class value across renders so the reconciler recognises it.
type Class struct {
	name    string
	factory Factory
}

var _ vtree.Class = (*Class)(nil)

// New creates a Class named name whose instances are built by factory.
func New(name string, factory Factory) *Class {
	return &Class{name: name, factory: factory}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Element returns a stateful element for this class.
func (c *Class) Element(props vtree.Props) *vtree.Element {
	return vtree.Stateful(c, props)
}

// Mount constructs an instance, attaches it to node and renders it.
func (c *Class) Mount(d vtree.Dispatcher, node *vtree.Node) error {
	var behavior Behavior
	if c.factory != nil {
		behavior = c.factory()
	}
	if behavior == nil {
		return verrors.New(verrors.CodeNilBehavior).WithDetailf("class %s", c.name)
	}

	inst := &Instance{
		id:       generateInstanceID(),
		class:    c,
		behavior: behavior,
		d:        d,
		node:     node,
		props:    node.Element.Props(),
		state:    vtree.State{},
	}
	if init, ok := behavior.(Initializer); ok {
		inst.state = merge(nil, init.Init(inst.props))
	}
	node.Instance = inst

	if err := inst.render(); err != nil {
		return err
	}
	if dm, ok := behavior.(DidMounter); ok {
		dm.DidMount(inst)
	}
	return nil
}

// instanceIDCounter is used to generate unique instance IDs.
var instanceIDCounter atomic.Uint64

func generateInstanceID() string {
	return fmt.Sprintf("c%d", instanceIDCounter.Add(1))
}

type removeMarker struct{}

// Remove deletes a key when used as a value in SetState.
var Remove any = removeMarker{}

// merge returns a copy of base with partial applied on top.
func merge(base, partial vtree.State) vtree.State {
	out := maps.Clone(base)
	if out == nil {
		out = make(vtree.State, len(partial))
	}
	for k, v := range partial {
		if _, ok := v.(removeMarker); ok {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
