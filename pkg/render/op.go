package render

import "fmt"

// OpKind is the type of platform mutation.
type OpKind uint8

const (
	OpCreate     OpKind = 0x01 // Create object and attach to parent
	OpSetProp    OpKind = 0x02 // Set/update property
	OpRemoveProp OpKind = 0x03 // Remove property
	OpDestroy    OpKind = 0x04 // Detach and destroy object
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "Create"
	case OpSetProp:
		return "SetProp"
	case OpRemoveProp:
		return "RemoveProp"
	case OpDestroy:
		return "Destroy"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so ops encode as names.
func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Op records a single platform mutation.
type Op struct {
	Kind   OpKind `json:"op"`
	Object uint64 `json:"object"`          // Target object ID
	Path   string `json:"path"`            // Target object path
	Class  string `json:"class,omitempty"` // For Create
	Key    string `json:"key,omitempty"`   // Property name (for SetProp/RemoveProp)
	Value  string `json:"value,omitempty"` // New value (for SetProp)
}

// String formats the op for logs and CLI output.
func (op Op) String() string {
	switch op.Kind {
	case OpCreate:
		return fmt.Sprintf("%s %s %s", op.Kind, op.Class, op.Path)
	case OpSetProp:
		return fmt.Sprintf("%s %s.%s=%q", op.Kind, op.Path, op.Key, op.Value)
	case OpRemoveProp:
		return fmt.Sprintf("%s %s.%s", op.Kind, op.Path, op.Key)
	default:
		return fmt.Sprintf("%s %s", op.Kind, op.Path)
	}
}
