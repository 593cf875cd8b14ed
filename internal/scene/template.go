package scene

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vango-dev/vtree/pkg/vtree"
)

// placeholder matches {{props.name}} and {{state.name}}.
var placeholder = regexp.MustCompile(`\{\{\s*(props|state)\.([A-Za-z0-9_\-]+)\s*\}\}`)

// scope holds the values placeholders resolve against.
type scope struct {
	props vtree.Props
	state vtree.State
}

func (sc scope) lookup(ns, name string) any {
	if ns == "state" {
		return sc.state[name]
	}
	return sc.props.Get(name)
}

// resolve substitutes placeholders in s. A string that is exactly one
// placeholder yields the raw value, so numbers and booleans keep their type.
// Missing values resolve to nil, or the empty string inside text.
func (sc scope) resolve(s string) any {
	if m := placeholder.FindStringSubmatchIndex(s); m != nil && m[0] == 0 && m[1] == len(s) {
		return sc.lookup(s[m[2]:m[3]], s[m[4]:m[5]])
	}
	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		sub := placeholder.FindStringSubmatch(match)
		v := sc.lookup(sub[1], sub[2])
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

// resolveProps substitutes every string value of in.
func (sc scope) resolveProps(in map[string]any) vtree.Props {
	if len(in) == 0 {
		return nil
	}
	out := make(vtree.Props, len(in))
	for k, v := range in {
		if s, ok := v.(string); ok {
			out[k] = sc.resolve(s)
			continue
		}
		out[k] = v
	}
	return out
}

// when evaluates a condition such as "state.open", "!props.hidden" or
// "{{state.count}}".
func (sc scope) when(cond string) bool {
	cond = strings.TrimSpace(cond)
	negate := strings.HasPrefix(cond, "!")
	if negate {
		cond = strings.TrimSpace(cond[1:])
	}
	if !strings.Contains(cond, "{{") {
		cond = "{{" + cond + "}}"
	}
	return truthy(sc.resolve(cond)) != negate
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

// build turns spec into an element. It returns nil when the element's
// condition does not hold.
func (s *Scene) build(spec *ElementSpec, sc scope) *vtree.Element {
	if spec == nil {
		return nil
	}
	if spec.When != "" && !sc.when(spec.When) {
		return nil
	}
	props := sc.resolveProps(spec.Props)

	switch {
	case spec.Function != "":
		return vtree.Func(s.fns[spec.Function], props)
	case spec.Class != "":
		return vtree.Stateful(s.classes[spec.Class], props)
	}

	var children vtree.Result
	if len(spec.Children) > 0 {
		c := make(vtree.Children, len(spec.Children))
		for key, child := range spec.Children {
			c[vtree.Key(key)] = s.build(child, sc)
		}
		children = c
	}
	return vtree.Host(spec.Host, props, children)
}

// render is build for component render functions: an absent element
// renders nothing.
func (s *Scene) render(spec *ElementSpec, sc scope) vtree.Result {
	el := s.build(spec, sc)
	if el == nil {
		return vtree.None
	}
	return el
}

// templateBehavior renders a scene class.
type templateBehavior struct {
	scene *Scene
	spec  *ClassSpec
}

func (b *templateBehavior) Init(props vtree.Props) vtree.State {
	sc := scope{props: props}
	state := make(vtree.State, len(b.spec.State))
	for k, v := range b.spec.State {
		if s, ok := v.(string); ok {
			state[k] = sc.resolve(s)
			continue
		}
		state[k] = v
	}
	return state
}

func (b *templateBehavior) Render(props vtree.Props, state vtree.State) vtree.Result {
	return b.scene.render(b.spec.Render, scope{props: props, state: state})
}
