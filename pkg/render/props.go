package render

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"

	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vtree"
)

// applyProps brings obj.Props in line with next, emitting ops for removed
// keys first and then for changed or added keys, each in key order.
func (r *Renderer) applyProps(obj *Object, next vtree.Props) error {
	if err := validateProps(obj.Path(), next); err != nil {
		return err
	}

	var removed []string
	for key := range obj.Props {
		if _, exists := next[key]; !exists {
			removed = append(removed, key)
		}
	}
	slices.Sort(removed)
	for _, key := range removed {
		delete(obj.Props, key)
		r.emit(Op{Kind: OpRemoveProp, Object: obj.ID, Path: obj.Path(), Key: key})
	}

	keys := make([]string, 0, len(next))
	for key := range next {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		nextVal := next[key]
		prevVal, exists := obj.Props[key]
		if exists && isHandler(prevVal) && isHandler(nextVal) {
			// Handlers cannot be compared; install the new one without an op.
			obj.Props[key] = nextVal
			continue
		}
		if exists && propsEqual(prevVal, nextVal) {
			continue
		}
		obj.Props[key] = nextVal
		r.emit(Op{Kind: OpSetProp, Object: obj.ID, Path: obj.Path(), Key: key, Value: propToString(nextVal)})
	}
	return nil
}

func validateProps(path string, props vtree.Props) error {
	for key := range props {
		if key == "" {
			return verrors.New(verrors.CodeBadProp).WithDetailf("empty property name on %s", path)
		}
	}
	return nil
}

// propsEqual checks if two prop values are equal. Handlers never compare
// equal.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// isHandler reports whether v is a function value, such as an event
// callback. Handlers are applied but never rendered as attributes.
func isHandler(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// propToString converts a prop value to its attribute form.
func propToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	}
	if isHandler(v) {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
