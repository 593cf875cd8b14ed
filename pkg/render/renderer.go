package render

import (
	"bytes"
	"io"
	"log/slog"

	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vtree"
)

// RendererConfig configures the in-memory host renderer.
type RendererConfig struct {
	// Pretty enables indented markup output.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// OnOp, if set, is called for every platform mutation as it happens.
	OnOp func(Op)

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Renderer owns a tree of in-memory platform objects. It implements
// vtree.Renderer and records every mutation as an Op.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	config RendererConfig
	logger *slog.Logger
	nextID uint64
	ops    []Op
}

var _ vtree.Renderer = (*Renderer)(nil)

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{config: config, logger: logger}
}

// Ops returns the mutations recorded since the last Reset.
func (r *Renderer) Ops() []Op {
	return r.ops
}

// Reset clears the recorded ops. Object IDs keep increasing.
func (r *Renderer) Reset() {
	r.ops = nil
}

// MountHost creates the platform object for node, attaches it to the host
// parent under the node's key and mounts the element's declared children
// into it.
func (r *Renderer) MountHost(d vtree.Dispatcher, node *vtree.Node) error {
	parent, ok := node.HostParent.(*Object)
	if !ok || parent == nil {
		return verrors.New(verrors.CodeBadHostParent).WithDetailf("%T at key %q", node.HostParent, string(node.Key))
	}
	if parent.destroyed {
		return verrors.New(verrors.CodeDestroyedObject).WithDetailf("parent %s", parent.Path())
	}
	name := string(node.Key)
	if err := validateProps(parent.Path()+"."+name, node.Element.Props()); err != nil {
		return err
	}
	if _, taken := parent.children[name]; taken {
		return verrors.New(verrors.CodeBadHostParent).WithDetailf("%s already has a child named %q", parent.Path(), name)
	}

	r.nextID++
	obj := &Object{
		ID:       r.nextID,
		Class:    node.Element.Class(),
		Name:     name,
		Props:    vtree.Props{},
		Parent:   parent,
		children: make(map[string]*Object),
	}
	parent.children[name] = obj
	node.HostObject = obj
	r.emit(Op{Kind: OpCreate, Object: obj.ID, Path: obj.Path(), Class: obj.Class})

	if err := r.applyProps(obj, node.Element.Props()); err != nil {
		return err
	}
	r.logger.Debug("host object created",
		"path", obj.Path(),
		"class", obj.Class,
		"id", obj.ID,
		"children", vtree.Len(node.Element.Children()),
	)

	return d.UpdateNodeChildren(node, node.Element.Children())
}

// UpdateHost applies next's props to the node's object and reconciles its
// declared children.
func (r *Renderer) UpdateHost(d vtree.Dispatcher, node *vtree.Node, next *vtree.Element) (*vtree.Node, error) {
	obj, err := objectOf(node)
	if err != nil {
		return nil, err
	}
	if err := r.applyProps(obj, next.Props()); err != nil {
		return nil, err
	}
	if err := d.UpdateNodeChildren(node, next.Children()); err != nil {
		return nil, err
	}
	return node, nil
}

// UnmountHost releases the node's children, then detaches and destroys its
// object.
func (r *Renderer) UnmountHost(d vtree.Dispatcher, node *vtree.Node) error {
	obj, err := objectOf(node)
	if err != nil {
		return err
	}
	for _, key := range node.ChildKeys() {
		if err := d.UnmountNode(node.Children[key]); err != nil {
			return err
		}
	}

	path := obj.Path()
	if obj.Parent != nil && obj.Parent.children[obj.Name] == obj {
		delete(obj.Parent.children, obj.Name)
	}
	obj.destroyed = true
	r.emit(Op{Kind: OpDestroy, Object: obj.ID, Path: path})
	r.logger.Debug("host object destroyed", "path", path, "id", obj.ID)
	return nil
}

// RenderToString renders an object tree as markup.
func (r *Renderer) RenderToString(obj *Object) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, obj); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams an object tree as markup to w.
func (r *Renderer) RenderToWriter(w io.Writer, obj *Object) error {
	if obj == nil {
		return nil
	}
	return r.renderObject(w, obj, 0)
}

func (r *Renderer) emit(op Op) {
	r.ops = append(r.ops, op)
	if r.config.OnOp != nil {
		r.config.OnOp(op)
	}
}

func objectOf(node *vtree.Node) (*Object, error) {
	obj, ok := node.HostObject.(*Object)
	if !ok || obj == nil {
		return nil, verrors.New(verrors.CodeUnknownObject).WithDetailf("%T at key %q", node.HostObject, string(node.Key))
	}
	if obj.destroyed {
		return nil, verrors.New(verrors.CodeDestroyedObject).WithDetail(obj.Path())
	}
	return obj, nil
}
