package vtree

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"
)

// hostObject is the platform object created by fakeRenderer.
type hostObject struct {
	class     string
	key       Key
	parent    any
	props     Props
	destroyed bool
}

type slot struct {
	parent any
	key    Key
}

// fakeRenderer records every host operation and enforces that a slot is
// never claimed by two live objects.
type fakeRenderer struct {
	events  []string
	live    map[slot]*hostObject
	mounts  int
	updates int
	unmount int
	failOn  string
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{live: make(map[slot]*hostObject)}
}

func (f *fakeRenderer) record(op string, node *Node) {
	f.events = append(f.events, fmt.Sprintf("%s %s %s", op, node.Element.Class(), node.Key))
}

func (f *fakeRenderer) MountHost(d Dispatcher, node *Node) error {
	if f.failOn != "" && node.Element.Class() == f.failOn {
		return fmt.Errorf("cannot create %s", f.failOn)
	}
	s := slot{parent: node.HostParent, key: node.Key}
	if _, taken := f.live[s]; taken {
		return fmt.Errorf("slot %q already holds a live object", node.Key)
	}
	obj := &hostObject{
		class:  node.Element.Class(),
		key:    node.Key,
		parent: node.HostParent,
		props:  maps.Clone(node.Element.Props()),
	}
	f.live[s] = obj
	f.mounts++
	f.record("mount", node)
	node.HostObject = obj
	return d.UpdateNodeChildren(node, node.Element.Children())
}

func (f *fakeRenderer) UpdateHost(d Dispatcher, node *Node, next *Element) (*Node, error) {
	obj := node.HostObject.(*hostObject)
	obj.props = maps.Clone(next.Props())
	f.updates++
	f.record("update", node)
	return node, d.UpdateNodeChildren(node, next.Children())
}

func (f *fakeRenderer) UnmountHost(d Dispatcher, node *Node) error {
	for _, key := range node.ChildKeys() {
		if err := d.UnmountNode(node.Children[key]); err != nil {
			return err
		}
	}
	obj := node.HostObject.(*hostObject)
	obj.destroyed = true
	delete(f.live, slot{parent: node.HostParent, key: node.Key})
	f.unmount++
	f.record("unmount", node)
	return nil
}

// fakeClass is a stateful class whose instances render with render.
type fakeClass struct {
	name      string
	render    func(props Props, state State) Result
	instances []*fakeInstance
	noAttach  bool
}

func (c *fakeClass) Name() string { return c.name }

func (c *fakeClass) Mount(d Dispatcher, node *Node) error {
	if c.noAttach {
		return nil
	}
	inst := &fakeInstance{class: c, d: d, node: node, state: State{}}
	node.Instance = inst
	c.instances = append(c.instances, inst)
	return d.UpdateNodeChildren(node, c.render(node.Element.Props(), inst.state))
}

type fakeInstance struct {
	class     *fakeClass
	d         Dispatcher
	node      *Node
	state     State
	updates   int
	unmounted int
}

func (i *fakeInstance) Update(next *Element, pending State) error {
	i.updates++
	props := i.node.Element.Props()
	if next != nil {
		props = next.Props()
	}
	for k, v := range pending {
		i.state[k] = v
	}
	return i.d.UpdateNodeChildren(i.node, i.class.render(props, i.state))
}

func (i *fakeInstance) Unmount() error {
	i.unmounted++
	for _, key := range i.node.ChildKeys() {
		if err := i.d.UnmountNode(i.node.Children[key]); err != nil {
			return err
		}
	}
	return nil
}

// countingObserver counts lifecycle notifications per node.
type countingObserver struct {
	mounted   map[*Node]int
	updated   map[*Node]int
	unmounted map[*Node]int
	replaced  []string
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		mounted:   make(map[*Node]int),
		updated:   make(map[*Node]int),
		unmounted: make(map[*Node]int),
	}
}

func (o *countingObserver) NodeMounted(n *Node)   { o.mounted[n]++ }
func (o *countingObserver) NodeUpdated(n *Node)   { o.updated[n]++ }
func (o *countingObserver) NodeUnmounted(n *Node) { o.unmounted[n]++ }
func (o *countingObserver) NodeReplaced(old *Node, next *Element) {
	o.replaced = append(o.replaced, old.Element.Name()+"->"+next.Name())
}

// newTestReconciler returns a reconciler wired to a fake renderer, a
// counting observer and a buffered text logger.
func newTestReconciler(opts ...Option) (*Reconciler, *fakeRenderer, *countingObserver, *bytes.Buffer) {
	renderer := newFakeRenderer()
	obs := newCountingObserver()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	all := append([]Option{WithLogger(logger), WithObserver(obs)}, opts...)
	return New(renderer, all...), renderer, obs, &logs
}

// container is an opaque host parent for test trees.
type container struct{ name string }

// snapshot maps each node's key path to the node pointer.
func snapshot(root *Node) map[string]*Node {
	out := make(map[string]*Node)
	var visit func(prefix string, n *Node)
	visit = func(prefix string, n *Node) {
		out[prefix] = n
		for _, key := range n.ChildKeys() {
			name := string(key)
			if key == UseParentKey {
				name = "^"
			}
			visit(prefix+"/"+name, n.Children[key])
		}
	}
	if root != nil {
		visit("", root)
	}
	return out
}
