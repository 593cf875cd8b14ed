package inspector

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/internal/scene"
	"github.com/vango-dev/vtree/pkg/middleware"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vtree"
)

// Options configures a Server.
type Options struct {
	// Scene is the scene to play. Required.
	Scene *scene.Scene

	// Key is the root key of the scene's tree.
	Key vtree.Key

	// Container names the root host object. Default: "screen".
	Container string

	// TreeOptions are passed to the reconciler.
	TreeOptions []vtree.Option

	// MetricsHandler serves /metrics. Default: promhttp.Handler().
	MetricsHandler http.Handler

	// Logger receives request and step logs. Default: slog.Default().
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown. Default: 5s.
	ShutdownTimeout time.Duration
}

// Server exposes a playing scene over HTTP.
type Server struct {
	opts     Options
	logger   *slog.Logger
	hub      *Hub
	router   chi.Router
	renderer *render.Renderer
	screen   *render.Object

	// mu serialises steps and tree reads.
	mu      sync.Mutex
	player  *scene.Player
	pending []render.Op

	// sendMu keeps step broadcasts in step order. It is taken before mu is
	// released, so broadcasting never holds mu.
	sendMu sync.Mutex

	httpServer *http.Server
}

// New creates a Server for opts.Scene.
func New(opts Options) *Server {
	if opts.Container == "" {
		opts.Container = "screen"
	}
	if opts.MetricsHandler == nil {
		opts.MetricsHandler = promhttp.Handler()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger.With("component", "inspector"),
		hub:    NewHub(),
		screen: render.NewContainer(opts.Container),
	}
	s.renderer = render.NewRenderer(render.RendererConfig{
		Pretty: true,
		OnOp:   s.recordOp,
		Logger: opts.Logger,
	})

	treeOpts := append([]vtree.Option{vtree.WithLogger(opts.Logger)}, opts.TreeOptions...)
	r := vtree.New(s.renderer, treeOpts...)
	s.player = scene.NewPlayer(opts.Scene, r, s.screen, opts.Key)

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Method(http.MethodGet, "/metrics", s.opts.MetricsHandler)
	r.Post("/step", s.handleStep)
	r.Method(http.MethodGet, "/ops", s.hub)
	return r
}

// recordOp runs inside a step, with mu held.
func (s *Server) recordOp(op render.Op) {
	s.pending = append(s.pending, op)
	middleware.RecordHostOp(op.Kind.String())
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the op stream hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// StepResult describes one applied step.
type StepResult struct {
	Step int         `json:"step"`
	Name string      `json:"name"`
	Ops  []render.Op `json:"ops"`
	Done bool        `json:"done"`
}

// Step applies the next scene step and broadcasts its ops.
func (s *Server) Step(ctx context.Context) (StepResult, error) {
	res, msg, err := s.applyStep(ctx)
	defer s.sendMu.Unlock()
	s.hub.Broadcast(msg)
	return res, err
}

// applyStep runs the next step under mu and returns with sendMu held.
func (s *Server) applyStep(ctx context.Context) (StepResult, Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	i, err := s.player.Step(ctx)
	res := StepResult{Step: i, Ops: s.pending, Done: s.player.Done()}
	if res.Ops == nil {
		res.Ops = []render.Op{}
	}
	if i < s.opts.Scene.Len() {
		res.Name = s.opts.Scene.Steps[i].Label(i)
	}
	s.pending = nil

	var msg Message
	switch {
	case stderrors.Is(err, scene.ErrDone):
		msg = Message{Type: MessageDone, Step: i}
	case err != nil:
		msg = Message{Type: MessageError, Step: i, Name: res.Name, Error: err.Error(), Code: verrors.CodeOf(err)}
	default:
		msg = Message{Type: MessageStep, Step: i, Name: res.Name, Ops: res.Ops}
	}

	s.sendMu.Lock()
	return res, msg, err
}

// Tree renders the current host tree as markup.
func (s *Server) Tree() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.RenderToString(s.screen)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	out, err := s.Tree()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	res, err := s.Step(r.Context())
	switch {
	case stderrors.Is(err, scene.ErrDone):
		writeError(w, http.StatusConflict, err)
		return
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error(), Code: verrors.CodeOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector starting", "address", addr, "scene", s.opts.Scene.Name)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes websocket clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()

	s.hub.Close()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("inspector shutdown complete")
	return nil
}
