package scene

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/vtree"
	"gopkg.in/yaml.v3"
)

// Scene is a parsed scene file: reusable components plus the ordered steps
// a Player applies to a tree.
type Scene struct {
	// Name is a human-readable scene name.
	Name string `yaml:"name,omitempty"`

	// Functions maps function component names to their render templates.
	Functions map[string]*ElementSpec `yaml:"functions,omitempty"`

	// Classes maps stateful class names to their definitions.
	Classes map[string]*ClassSpec `yaml:"classes,omitempty"`

	// Steps is applied in order by a Player.
	Steps []Step `yaml:"steps"`

	source  string
	fns     map[string]*vtree.Function
	classes map[string]*component.Class
}

// ClassSpec defines a stateful class.
type ClassSpec struct {
	// State is the initial state. String values may reference props.
	State map[string]any `yaml:"state,omitempty"`

	// Render is the template rendered from props and state.
	Render *ElementSpec `yaml:"render"`
}

// ElementSpec describes one element. Exactly one of Host, Function and
// Class is set.
type ElementSpec struct {
	Host     string                  `yaml:"host,omitempty"`
	Function string                  `yaml:"function,omitempty"`
	Class    string                  `yaml:"class,omitempty"`
	Props    map[string]any          `yaml:"props,omitempty"`
	Children map[string]*ElementSpec `yaml:"children,omitempty"`

	// When drops the element unless it evaluates truthy.
	When string `yaml:"when,omitempty"`
}

// Step is one scene step. Exactly one of Root, SetState and Unmount is set.
type Step struct {
	Name     string        `yaml:"name,omitempty"`
	Root     *ElementSpec  `yaml:"root,omitempty"`
	SetState *SetStateSpec `yaml:"setState,omitempty"`
	Unmount  bool          `yaml:"unmount,omitempty"`
}

// SetStateSpec sets state on a mounted stateful component.
type SetStateSpec struct {
	// Path is the child key path from the tree root to the component.
	Path []string `yaml:"path,omitempty"`

	// State is the partial state. A null value removes the key.
	State map[string]any `yaml:"state"`
}

// StepKind identifies what a step does.
type StepKind uint8

const (
	StepRoot StepKind = iota + 1
	StepSetState
	StepUnmount
)

func (k StepKind) String() string {
	switch k {
	case StepRoot:
		return "root"
	case StepSetState:
		return "setState"
	case StepUnmount:
		return "unmount"
	default:
		return "unknown"
	}
}

// Kind returns the step kind, or 0 when the step is malformed.
func (s *Step) Kind() StepKind {
	n := 0
	var kind StepKind
	if s.Root != nil {
		n++
		kind = StepRoot
	}
	if s.SetState != nil {
		n++
		kind = StepSetState
	}
	if s.Unmount {
		n++
		kind = StepUnmount
	}
	if n != 1 {
		return 0
	}
	return kind
}

// Label returns the step name, or a description built from its position.
func (s *Step) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step %d (%s)", index+1, s.Kind())
}

// Parse decodes and validates a scene. source names the scene in errors.
func Parse(data []byte, source string) (*Scene, error) {
	s := &Scene{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.New(errors.CodeSceneParse).
			WithDetailf("%s: %v", source, err).
			WithSuggestion("Check that the scene is valid YAML")
	}
	s.source = source
	if err := s.compile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Source returns where the scene was loaded from.
func (s *Scene) Source() string { return s.source }

// Len returns the number of steps.
func (s *Scene) Len() int { return len(s.Steps) }

// Function returns the compiled function component named name, or nil.
func (s *Scene) Function(name string) *vtree.Function { return s.fns[name] }

// Class returns the compiled class named name, or nil.
func (s *Scene) Class(name string) *component.Class { return s.classes[name] }

// Build returns the root element of step i. Only root steps have one.
func (s *Scene) Build(i int) (*vtree.Element, error) {
	if i < 0 || i >= len(s.Steps) {
		return nil, errors.New(errors.CodeSceneReference).
			WithDetailf("%s: step %d out of range (%d steps)", s.source, i, len(s.Steps))
	}
	step := &s.Steps[i]
	if step.Kind() != StepRoot {
		return nil, errors.New(errors.CodeSceneReference).
			WithDetailf("%s: %s has no root element", s.source, step.Label(i))
	}
	return s.build(step.Root, scope{}), nil
}

// compile checks every reference and creates one vtree.Function and one
// component.Class per definition, so element identity holds across steps.
func (s *Scene) compile() error {
	s.fns = make(map[string]*vtree.Function, len(s.Functions))
	s.classes = make(map[string]*component.Class, len(s.Classes))

	for _, name := range sortedNames(s.Functions) {
		spec := s.Functions[name]
		if spec == nil {
			return s.refError("function %q has no template", name)
		}
		if err := s.check(spec, "function "+name); err != nil {
			return err
		}
		s.fns[name] = vtree.NewFunction(name, func(props vtree.Props) vtree.Result {
			return s.render(spec, scope{props: props})
		})
	}

	for _, name := range sortedNames(s.Classes) {
		spec := s.Classes[name]
		if spec == nil || spec.Render == nil {
			return s.refError("class %q has no render template", name)
		}
		if err := s.check(spec.Render, "class "+name); err != nil {
			return err
		}
		s.classes[name] = component.New(name, func() component.Behavior {
			return &templateBehavior{scene: s, spec: spec}
		})
	}

	for i := range s.Steps {
		step := &s.Steps[i]
		switch step.Kind() {
		case StepRoot:
			if step.Root.When != "" {
				return s.refError("%s: the root element cannot be conditional", step.Label(i))
			}
			if err := s.check(step.Root, step.Label(i)); err != nil {
				return err
			}
		case StepSetState:
			if len(step.SetState.State) == 0 {
				return s.refError("%s: setState needs a state", step.Label(i))
			}
		case StepUnmount:
		default:
			return s.refError("step %d must set exactly one of root, setState and unmount", i+1)
		}
	}
	return nil
}

// check validates spec and its children. where describes the position.
func (s *Scene) check(spec *ElementSpec, where string) error {
	set := 0
	for _, v := range []string{spec.Host, spec.Function, spec.Class} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return s.refError("%s: element must set exactly one of host, function and class", where)
	}
	if spec.Function != "" {
		if _, ok := s.Functions[spec.Function]; !ok {
			return s.refError("%s: unknown function %q", where, spec.Function)
		}
	}
	if spec.Class != "" {
		if _, ok := s.Classes[spec.Class]; !ok {
			return s.refError("%s: unknown class %q", where, spec.Class)
		}
	}
	if len(spec.Children) > 0 && spec.Host == "" {
		return s.refError("%s: only host elements take children", where)
	}
	for _, key := range sortedNames(spec.Children) {
		child := spec.Children[key]
		if key == "" || strings.ContainsRune(key, 0) {
			return s.refError("%s: invalid child key %q", where, key)
		}
		if child == nil {
			continue
		}
		if err := s.check(child, where+"."+key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) refError(format string, args ...any) error {
	return errors.New(errors.CodeSceneReference).
		WithDetailf("%s: %s", s.source, fmt.Sprintf(format, args...))
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
