package vtree

import (
	verrors "github.com/vango-dev/vtree/internal/errors"
)

// Kind is the element kind discriminator.
type Kind uint8

const (
	KindHost     Kind = iota + 1 // Platform object managed by the Renderer
	KindFunction                 // Stateless render function
	KindStateful                 // Class with a live Instance
	KindPortal                   // Render into another host parent (unsupported)
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindHost:
		return "Host"
	case KindFunction:
		return "Function"
	case KindStateful:
		return "Stateful"
	case KindPortal:
		return "Portal"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindHost, KindFunction, KindStateful, KindPortal:
		return true
	}
	return false
}

// KindOf classifies an element. It fails with ErrUnknownKind for a nil
// element or one whose kind is outside the closed set, which only happens
// when an Element was built without the package constructors.
func KindOf(el *Element) (Kind, error) {
	if el == nil {
		return 0, verrors.New(verrors.CodeUnknownKind).WithDetail("nil element")
	}
	if !el.kind.Valid() {
		return 0, unknownKind(el.kind)
	}
	return el.kind, nil
}

func unknownKind(k Kind) error {
	return verrors.New(verrors.CodeUnknownKind).WithDetailf("kind %d", uint8(k))
}
