package vtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(r Result) ([]Key, []*Element) {
	var keys []Key
	var els []*Element
	for k, el := range Iterate(r) {
		keys = append(keys, k)
		els = append(els, el)
	}
	return keys, els
}

func TestIterate(t *testing.T) {
	a, b, c := item("a"), item("b"), item("c")

	tests := []struct {
		name string
		in   Result
		keys []Key
		els  []*Element
	}{
		{name: "none", in: None},
		{name: "nil element", in: (*Element)(nil)},
		{name: "single", in: a, keys: []Key{UseParentKey}, els: []*Element{a}},
		{name: "map sorted", in: Children{"c": c, "a": a, "b": b}, keys: []Key{"a", "b", "c"}, els: []*Element{a, b, c}},
		{name: "map with nil entry", in: Children{"a": a, "gone": nil}, keys: []Key{"a", "gone"}, els: []*Element{a, nil}},
		{name: "list order", in: List{Keyed("z", c), Keyed("a", a)}, keys: []Key{"z", "a"}, els: []*Element{c, a}},
		{name: "list duplicate first wins", in: List{Keyed("x", a), Keyed("x", b)}, keys: []Key{"x"}, els: []*Element{a}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, els := collect(tt.in)
			assert.Equal(t, tt.keys, keys)
			assert.Equal(t, tt.els, els)
			assert.Equal(t, len(tt.keys), Len(tt.in))
		})
	}
}

func TestIterate_Restartable(t *testing.T) {
	r := Children{"a": item("a"), "b": item("b")}
	seq := Iterate(r)

	var first, second []Key
	for k := range seq {
		first = append(first, k)
	}
	for k := range seq {
		second = append(second, k)
	}
	assert.Equal(t, first, second)
}

func TestIterate_EarlyBreak(t *testing.T) {
	r := List{Keyed("a", item("a")), Keyed("b", item("b")), Keyed("c", item("c"))}

	var seen []Key
	for k := range Iterate(r) {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	assert.Equal(t, []Key{"a", "b"}, seen)
}

func TestLookup(t *testing.T) {
	a, b := item("a"), item("b")

	assert.Nil(t, Lookup(None, "a"))
	assert.Same(t, a, Lookup(a, UseParentKey))
	assert.Nil(t, Lookup(a, "a"))
	assert.Same(t, b, Lookup(Children{"a": a, "b": b}, "b"))
	assert.Nil(t, Lookup(Children{"a": a}, "missing"))
	assert.Same(t, a, Lookup(List{Keyed("k", a), Keyed("k", b)}, "k"))
}

func TestValidateKeys(t *testing.T) {
	require.NoError(t, ValidateKeys(Children{"a": item("a")}))
	require.NoError(t, ValidateKeys(item("a")))
	require.NoError(t, ValidateKeys(None))

	err := ValidateKeys(Children{"": item("a")})
	require.ErrorIs(t, err, ErrInvalidKey)

	err = ValidateKeys(List{Keyed(UseParentKey, item("a"))})
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestKindOf(t *testing.T) {
	fn := NewFunction("Fn", func(Props) Result { return nil })
	class := &fakeClass{name: "Class"}

	tests := []struct {
		el   *Element
		want Kind
	}{
		{Host("Frame", nil, nil), KindHost},
		{Func(fn, nil), KindFunction},
		{Stateful(class, nil), KindStateful},
		{Portal(nil, nil), KindPortal},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got, err := KindOf(tt.el)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}

	_, err := KindOf(nil)
	require.ErrorIs(t, err, ErrUnknownKind)
	_, err = KindOf(&Element{kind: Kind(42)})
	require.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "Unknown", Kind(42).String())
}

func TestSameComponent(t *testing.T) {
	fnA := NewFunction("A", func(Props) Result { return nil })
	fnB := NewFunction("A", func(Props) Result { return nil })
	classA := &fakeClass{name: "Same"}
	classB := &fakeClass{name: "Same"}

	tests := []struct {
		name string
		a, b *Element
		want bool
	}{
		{"same host class", Host("Frame", Props{"x": 1}, nil), Host("Frame", nil, nil), true},
		{"different host class", Host("Frame", nil, nil), Host("TextLabel", nil, nil), false},
		{"same function", Func(fnA, nil), Func(fnA, Props{"y": 2}), true},
		{"functions with equal names", Func(fnA, nil), Func(fnB, nil), false},
		{"same class", Stateful(classA, nil), Stateful(classA, nil), true},
		{"classes with equal names", Stateful(classA, nil), Stateful(classB, nil), false},
		{"kind change", Host("A", nil, nil), Func(fnA, nil), false},
		{"nil", nil, Host("A", nil, nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameComponent(tt.a, tt.b))
		})
	}
}

func TestElement_Name(t *testing.T) {
	assert.Equal(t, "Frame", Host("Frame", nil, nil).Name())
	assert.Equal(t, "Greeting", Func(NewFunction("Greeting", nil), nil).Name())
	assert.Equal(t, "Function", Func(NewFunction("", nil), nil).Name())
	assert.Equal(t, "Counter", Stateful(&fakeClass{name: "Counter"}, nil).Name())
	assert.Equal(t, "Portal", Portal(nil, nil).Name())
	assert.Equal(t, "Host(Frame)", Host("Frame", nil, nil).String())
	assert.Equal(t, "<nil>", (*Element)(nil).String())
}

func TestProps(t *testing.T) {
	var empty Props
	assert.Nil(t, empty.Get("x"))
	assert.Equal(t, "", empty.String("x"))

	p := Props{"name": "Ada", "n": 3}
	assert.Equal(t, "Ada", p.String("name"))
	assert.Equal(t, "3", p.String("n"))
}
