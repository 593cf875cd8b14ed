package component

import (
	"maps"

	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vtree"
)

// Phase is an instance's lifecycle phase.
type Phase uint8

const (
	PhaseInit Phase = iota
	PhaseRender
	PhaseIdle
	PhaseUnmounting
	PhaseUnmounted
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "Init"
	case PhaseRender:
		return "Render"
	case PhaseIdle:
		return "Idle"
	case PhaseUnmounting:
		return "Unmounting"
	case PhaseUnmounted:
		return "Unmounted"
	default:
		return "Unknown"
	}
}

// Sentinel errors for errors.Is.
var (
	ErrStateDuringRender error = verrors.New(verrors.CodeStateDuringRender)
	ErrStateAfterUnmount error = verrors.New(verrors.CodeStateAfterUnmount)
	ErrNilBehavior       error = verrors.New(verrors.CodeNilBehavior)
)

// Instance is the live state of a mounted stateful component. It implements
// vtree.Instance.
type Instance struct {
	id       string
	class    *Class
	behavior Behavior
	d        vtree.Dispatcher
	node     *vtree.Node
	props    vtree.Props
	state    vtree.State
	phase    Phase

	// reconciling is set while the rendered result is being applied. State
	// set meanwhile is queued in pending and flushed afterwards.
	reconciling bool
	pending     vtree.State
}

var _ vtree.Instance = (*Instance)(nil)

// ID returns the instance's unique identifier.
func (i *Instance) ID() string { return i.id }

// Class returns the instance's class.
func (i *Instance) Class() *Class { return i.class }

// Behavior returns the instance's behavior.
func (i *Instance) Behavior() Behavior { return i.behavior }

// Node returns the node the instance is attached to.
func (i *Instance) Node() *vtree.Node { return i.node }

// Props returns the current props.
func (i *Instance) Props() vtree.Props { return i.props }

// State returns a copy of the current state.
func (i *Instance) State() vtree.State { return maps.Clone(i.state) }

// Phase returns the lifecycle phase.
func (i *Instance) Phase() Phase { return i.phase }

// SetState merges partial into the state and re-renders synchronously.
// Use Remove as a value to delete a key. Calls made while the instance's
// children are being reconciled are applied once that finishes.
func (i *Instance) SetState(partial vtree.State) error {
	switch i.phase {
	case PhaseRender:
		return verrors.New(verrors.CodeStateDuringRender).WithDetailf("class %s", i.class.name)
	case PhaseUnmounting, PhaseUnmounted:
		return verrors.New(verrors.CodeStateAfterUnmount).WithDetailf("class %s", i.class.name)
	}
	if len(partial) == 0 {
		return nil
	}
	if i.reconciling {
		i.pending = merge(i.pending, partial)
		return nil
	}
	return i.Update(nil, partial)
}

// Update re-renders the instance with next's props (current props when next
// is nil) and pending merged into its state.
func (i *Instance) Update(next *vtree.Element, pending vtree.State) error {
	switch i.phase {
	case PhaseUnmounting, PhaseUnmounted:
		return verrors.New(verrors.CodeStateAfterUnmount).WithDetailf("update of class %s", i.class.name)
	case PhaseRender:
		return verrors.New(verrors.CodeStateDuringRender).WithDetailf("update of class %s", i.class.name)
	}

	nextProps := i.props
	if next != nil {
		nextProps = next.Props()
	}
	nextState := merge(i.state, pending)

	if su, ok := i.behavior.(ShouldUpdater); ok && !su.ShouldUpdate(nextProps, nextState) {
		i.props, i.state = nextProps, nextState
		return nil
	}
	if wu, ok := i.behavior.(WillUpdater); ok {
		wu.WillUpdate(nextProps, nextState)
	}

	prevProps, prevState := i.props, i.state
	i.props, i.state = nextProps, nextState
	if err := i.render(); err != nil {
		return err
	}
	if du, ok := i.behavior.(DidUpdater); ok {
		du.DidUpdate(prevProps, prevState)
	}
	return nil
}

// Unmount releases the instance's children. The instance cannot be used
// afterwards.
func (i *Instance) Unmount() error {
	if i.phase == PhaseUnmounting || i.phase == PhaseUnmounted {
		return verrors.New(verrors.CodeStateAfterUnmount).WithDetailf("unmount of class %s", i.class.name)
	}
	i.phase = PhaseUnmounting
	if wu, ok := i.behavior.(WillUnmounter); ok {
		wu.WillUnmount()
	}

	for _, key := range i.node.ChildKeys() {
		if err := i.d.UnmountNode(i.node.Children[key]); err != nil {
			return err
		}
	}
	i.phase = PhaseUnmounted
	i.pending = nil
	return nil
}

// render calls the behavior and reconciles the result into the node's
// children, then flushes state queued while reconciling.
func (i *Instance) render() error {
	i.phase = PhaseRender
	result := i.behavior.Render(i.props, i.state)
	i.phase = PhaseIdle

	i.reconciling = true
	err := i.d.UpdateNodeChildren(i.node, result)
	i.reconciling = false
	if err != nil {
		return err
	}

	if len(i.pending) > 0 {
		pending := i.pending
		i.pending = nil
		return i.Update(nil, pending)
	}
	return nil
}
