package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
	Fatal      bool
}

// Registered error codes.
const (
	CodeUnknownKind       = "V001"
	CodeNotYetImplemented = "V002"
	CodeTreeUnmounted     = "V003"
	CodeTypeChanged       = "V004"
	CodeNodeUnmounted     = "V005"
	CodeInvalidRoot       = "V006"
	CodeInvalidKey        = "V007"
	CodeInvalidNode       = "V008"

	CodeStateDuringRender = "V020"
	CodeStateAfterUnmount = "V021"
	CodeNilBehavior       = "V022"
	CodeInstanceNotSet    = "V023"

	CodeBadHostParent   = "V040"
	CodeUnknownObject   = "V041"
	CodeDestroyedObject = "V042"
	CodeBadProp         = "V043"

	CodeConfigInvalid  = "V060"
	CodeConfigNotFound = "V061"
	CodeSceneRead      = "V062"
	CodeSceneParse     = "V063"
	CodeSceneReference = "V064"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconcile Errors (V001-V019)
	// ============================================

	CodeUnknownKind: {
		Category:   CategoryReconcile,
		Message:    "Unknown element kind",
		Suggestion: "Build elements with vtree.Host, vtree.Func, vtree.Stateful or vtree.Portal",
		Fatal:      true,
	},
	CodeNotYetImplemented: {
		Category: CategoryReconcile,
		Message:  "Portals are not yet supported",
		Fatal:    true,
	},
	CodeTreeUnmounted: {
		Category:   CategoryTree,
		Message:    "Invalid operation on unmounted tree",
		Suggestion: "Mount a new tree instead of reusing one that was unmounted",
		Fatal:      true,
	},
	CodeTypeChanged: {
		Category: CategoryReconcile,
		Message:  "Component changed type",
		Suggestion: "Keep the component at a position stable, or give the new " +
			"component a different key if a remount is intended",
		Fatal: false,
	},
	CodeNodeUnmounted: {
		Category: CategoryReconcile,
		Message:  "Node already unmounted",
		Fatal:    true,
	},
	CodeInvalidRoot: {
		Category:   CategoryTree,
		Message:    "Root element must not be nil",
		Suggestion: "Use UnmountTree to remove everything instead of rendering nothing at the root",
		Fatal:      true,
	},
	CodeInvalidKey: {
		Category: CategoryElement,
		Message:  "Invalid child key",
		Fatal:    true,
	},
	CodeInvalidNode: {
		Category: CategoryReconcile,
		Message:  "Invalid node",
		Fatal:    true,
	},

	// ============================================
	// Component Errors (V020-V039)
	// ============================================

	CodeStateDuringRender: {
		Category:   CategoryComponent,
		Message:    "State set during render",
		Suggestion: "Call SetState from DidMount, DidUpdate or an external event instead",
		Fatal:      true,
	},
	CodeStateAfterUnmount: {
		Category: CategoryComponent,
		Message:  "State set on unmounted component",
		Fatal:    true,
	},
	CodeNilBehavior: {
		Category: CategoryComponent,
		Message:  "Component factory returned nil",
		Fatal:    true,
	},
	CodeInstanceNotSet: {
		Category:   CategoryComponent,
		Message:    "Stateful component did not attach an instance to its node",
		Suggestion: "Class.Mount must assign node.Instance before returning",
		Fatal:      true,
	},

	// ============================================
	// Renderer Errors (V040-V059)
	// ============================================

	CodeBadHostParent: {
		Category: CategoryRenderer,
		Message:  "Host parent is not a platform object",
		Fatal:    true,
	},
	CodeUnknownObject: {
		Category: CategoryRenderer,
		Message:  "Host node has no platform object",
		Fatal:    true,
	},
	CodeDestroyedObject: {
		Category: CategoryRenderer,
		Message:  "Platform object already destroyed",
		Fatal:    true,
	},
	CodeBadProp: {
		Category: CategoryRenderer,
		Message:  "Invalid host property",
		Fatal:    true,
	},

	// ============================================
	// Configuration and Scene Errors (V060-V079)
	// ============================================

	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Fatal:    true,
	},
	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Run 'vtree config init' to write a default vtree.yaml",
		Fatal:      true,
	},
	CodeSceneRead: {
		Category: CategoryScene,
		Message:  "Failed to read scene",
		Fatal:    true,
	},
	CodeSceneParse: {
		Category:   CategoryScene,
		Message:    "Failed to parse scene",
		Suggestion: "Check that the scene file is valid YAML",
		Fatal:      true,
	},
	CodeSceneReference: {
		Category: CategoryScene,
		Message:  "Scene references an undefined component",
		Fatal:    true,
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
