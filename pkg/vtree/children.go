package vtree

import (
	"iter"
	"slices"
	"strings"

	verrors "github.com/vango-dev/vtree/internal/errors"
)

// Key identifies a child among its siblings.
type Key string

// UseParentKey is the key reported for a render result that is a single
// element. The child node is stored under this key but mounted with its
// parent's key, so a component rendering one element keeps the same host
// name as the component itself. No valid user key can equal it.
const UseParentKey Key = "\x00parent"

// Result is what a component renders: nil (nothing), a single *Element,
// a Children map or an ordered List.
type Result interface {
	isResult()
}

// None is the empty render result.
var None Result

func (*Element) isResult() {}

// Children is a keyed collection of elements. Iteration visits keys in
// sorted order. A nil entry renders nothing under that key.
type Children map[Key]*Element

func (Children) isResult() {}

// Child is one entry of a List.
type Child struct {
	Key     Key
	Element *Element
}

// Keyed returns a List entry.
func Keyed(key Key, el *Element) Child {
	return Child{Key: key, Element: el}
}

// List is a keyed collection that iterates in declaration order. When a key
// appears more than once the first entry wins.
type List []Child

func (List) isResult() {}

// Iterate returns the (key, element) pairs of a render result. The sequence
// is lazy, finite and restartable; ranging over it has no side effects.
// A single element yields one pair keyed UseParentKey.
func Iterate(r Result) iter.Seq2[Key, *Element] {
	return func(yield func(Key, *Element) bool) {
		switch v := r.(type) {
		case nil:
			return
		case *Element:
			if v == nil {
				return
			}
			yield(UseParentKey, v)
		case Children:
			for _, key := range sortedKeys(v) {
				if !yield(key, v[key]) {
					return
				}
			}
		case List:
			seen := make(map[Key]struct{}, len(v))
			for _, c := range v {
				if _, dup := seen[c.Key]; dup {
					continue
				}
				seen[c.Key] = struct{}{}
				if !yield(c.Key, c.Element) {
					return
				}
			}
		}
	}
}

// Lookup returns the element a render result holds under key, or nil when
// the key is absent.
func Lookup(r Result, key Key) *Element {
	switch v := r.(type) {
	case nil:
		return nil
	case *Element:
		if key == UseParentKey {
			return v
		}
		return nil
	case Children:
		return v[key]
	case List:
		for _, c := range v {
			if c.Key == key {
				return c.Element
			}
		}
	}
	return nil
}

// Len returns the number of entries Iterate would yield, nil entries
// included.
func Len(r Result) int {
	n := 0
	for range Iterate(r) {
		n++
	}
	return n
}

// ValidateKeys checks that every key in a keyed collection is non-empty and
// cannot collide with UseParentKey. It does not descend into children.
func ValidateKeys(r Result) error {
	check := func(key Key) error {
		if key == "" {
			return verrors.New(verrors.CodeInvalidKey).WithDetail("empty key")
		}
		if strings.ContainsRune(string(key), 0) {
			return verrors.New(verrors.CodeInvalidKey).WithDetailf("key %q contains a NUL byte", string(key))
		}
		return nil
	}
	switch v := r.(type) {
	case Children:
		for key := range v {
			if err := check(key); err != nil {
				return err
			}
		}
	case List:
		for _, c := range v {
			if err := check(c.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[Key]V) []Key {
	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
