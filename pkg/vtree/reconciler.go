package vtree

import (
	"log/slog"

	"github.com/google/uuid"
	verrors "github.com/vango-dev/vtree/internal/errors"
)

// DefaultKey is the root key used when none is given and no key generator
// is configured.
const DefaultKey Key = "vtree-root"

// Sentinel errors for errors.Is. They match any error carrying the same code.
var (
	ErrUnknownKind       error = verrors.New(verrors.CodeUnknownKind)
	ErrNotYetImplemented error = verrors.New(verrors.CodeNotYetImplemented)
	ErrTreeUnmounted     error = verrors.New(verrors.CodeTreeUnmounted)
	ErrTypeChanged       error = verrors.New(verrors.CodeTypeChanged)
	ErrNodeUnmounted     error = verrors.New(verrors.CodeNodeUnmounted)
	ErrInvalidRoot       error = verrors.New(verrors.CodeInvalidRoot)
	ErrInvalidKey        error = verrors.New(verrors.CodeInvalidKey)
	ErrInvalidNode       error = verrors.New(verrors.CodeInvalidNode)
	ErrInstanceNotSet    error = verrors.New(verrors.CodeInstanceNotSet)
)

// Reconciler applies element trees to node trees. It implements Dispatcher
// and is passed to the Renderer and to component classes.
//
// A Reconciler performs no locking: callers must serialise top-level Tree
// operations. Collaborators may re-enter it while a call is in progress.
type Reconciler struct {
	renderer   Renderer
	logger     *slog.Logger
	middleware []Middleware
	observers  []Observer
	defaultKey Key
	newKey     func() Key
}

var _ Dispatcher = (*Reconciler)(nil)

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger for diagnostics. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMiddleware adds Tree API middleware. The first middleware added is the
// outermost. Middleware that also implements Observer is registered as one.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Reconciler) {
		for _, m := range mw {
			if m == nil {
				continue
			}
			r.middleware = append(r.middleware, m)
			if o, ok := m.(Observer); ok {
				r.observers = append(r.observers, o)
			}
		}
	}
}

// WithObserver adds node lifecycle observers.
func WithObserver(obs ...Observer) Option {
	return func(r *Reconciler) {
		for _, o := range obs {
			if o != nil {
				r.observers = append(r.observers, o)
			}
		}
	}
}

// WithDefaultKey sets the root key used when MountTree is given none.
func WithDefaultKey(key Key) Option {
	return func(r *Reconciler) {
		if key != "" {
			r.defaultKey = key
		}
	}
}

// WithKeyGenerator makes MountTree call gen for a fresh root key whenever
// none is given. It takes precedence over WithDefaultKey.
func WithKeyGenerator(gen func() Key) Option {
	return func(r *Reconciler) {
		r.newKey = gen
	}
}

// WithUUIDKeys gives every tree mounted without a key a random UUID key.
func WithUUIDKeys() Option {
	return WithKeyGenerator(func() Key {
		return Key(uuid.NewString())
	})
}

// New creates a Reconciler that delegates host nodes to renderer.
func New(renderer Renderer, opts ...Option) *Reconciler {
	r := &Reconciler{
		renderer:   renderer,
		logger:     slog.Default(),
		defaultKey: DefaultKey,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Renderer returns the reconciler's host renderer.
func (r *Reconciler) Renderer() Renderer {
	return r.renderer
}

// Logger returns the reconciler's logger.
func (r *Reconciler) Logger() *slog.Logger {
	return r.logger
}

func (r *Reconciler) rootKey(key Key) Key {
	if key != "" {
		return key
	}
	if r.newKey != nil {
		if k := r.newKey(); k != "" {
			return k
		}
	}
	return r.defaultKey
}

func notYetImplemented(op string, node *Node) error {
	return verrors.New(verrors.CodeNotYetImplemented).WithDetailf("%s of portal at key %q", op, string(node.Key))
}

func invalidNode(op string) error {
	return verrors.New(verrors.CodeInvalidNode).WithDetailf("%s called with a nil node", op)
}
