package host

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	clientdist "github.com/strand-dev/strand/client/dist"
	"github.com/strand-dev/strand/pkg/engine"
	"github.com/strand-dev/strand/pkg/render"
)

// Defaults for connection handling.
const (
	DefaultReadTimeout  = 60 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultPingInterval = 25 * time.Second
	DefaultResumeWindow = 30 * time.Second
)

// Host serves one component definition to any number of sessions.
type Host struct {
	def   engine.Def
	props any

	logger   *slog.Logger
	renderer *render.Renderer
	metrics  *Metrics
	tracer   trace.Tracer

	title        string
	styleSheets  []string
	metricsPath  string
	staticPrefix string
	staticDir    string

	readTimeout  time.Duration
	writeTimeout time.Duration
	pingInterval time.Duration
	resumeWindow time.Duration

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTitle sets the page title for first paints.
func WithTitle(title string) Option {
	return func(h *Host) {
		h.title = title
	}
}

// WithStyleSheets adds stylesheet links to first paints.
func WithStyleSheets(hrefs ...string) Option {
	return func(h *Host) {
		h.styleSheets = append(h.styleSheets, hrefs...)
	}
}

// WithMetrics attaches Prometheus instruments. Without it no metrics are
// recorded and the metrics endpoint is not mounted.
func WithMetrics(m *Metrics) Option {
	return func(h *Host) {
		h.metrics = m
	}
}

// WithMetricsEndpoint sets the path the Prometheus handler is mounted at
// (default "/metrics"; only mounted when WithMetrics is also given).
func WithMetricsEndpoint(path string) Option {
	return func(h *Host) {
		if path != "" {
			h.metricsPath = path
		}
	}
}

// WithTracing enables span creation around units of work. The tracer
// comes from the global OpenTelemetry provider; configure that provider
// in main() before starting the host.
func WithTracing(tracerName string) Option {
	return func(h *Host) {
		if tracerName == "" {
			tracerName = "strand"
		}
		h.tracer = otel.Tracer(tracerName)
	}
}

// WithResumeWindow sets how long a disconnected session stays resumable.
func WithResumeWindow(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.resumeWindow = d
		}
	}
}

// WithCheckOrigin overrides the websocket origin check.
// The default accepts all origins, which suits development only.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Host) {
		if fn != nil {
			h.upgrader.CheckOrigin = fn
		}
	}
}

// WithStaticDir serves the files in dir under the given URL prefix.
func WithStaticDir(prefix, dir string) Option {
	return func(h *Host) {
		h.staticPrefix = prefix
		h.staticDir = dir
	}
}

// New creates a Host serving the given root component definition.
func New(def engine.Def, props any, opts ...Option) *Host {
	h := &Host{
		def:          def,
		props:        props,
		logger:       slog.Default(),
		renderer:     render.NewRenderer(render.Config{}),
		title:        "Strand App",
		metricsPath:  "/metrics",
		readTimeout:  DefaultReadTimeout,
		writeTimeout: DefaultWriteTimeout,
		pingInterval: DefaultPingInterval,
		resumeWindow: DefaultResumeWindow,
		sessions:     make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "host")
	return h
}

// Router builds the HTTP routes: the page itself, the thin client script,
// the websocket endpoint, and optionally static files and metrics.
func (h *Host) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", h.handlePage)
	r.Get("/strand/client.js", h.handleClientScript)
	r.Get("/strand/ws", h.handleWebSocket)

	if h.metrics != nil {
		r.Handle(h.metricsPath, promhttp.Handler())
	}
	if h.staticDir != "" {
		fs := http.StripPrefix(h.staticPrefix, http.FileServer(http.Dir(h.staticDir)))
		r.Handle(h.staticPrefix+"/*", fs)
	}

	return r
}

// handlePage creates a fresh session and delivers its first paint.
func (h *Host) handlePage(w http.ResponseWriter, r *http.Request) {
	s, err := h.startSession()
	if err != nil {
		h.logger.Error("session start failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := render.PageData{
		Body:        s.app.RootNode(),
		Title:       h.title,
		SessionID:   s.ID,
		StyleSheets: h.styleSheets,
	}
	if err := h.renderer.RenderPage(w, page); err != nil {
		h.logger.Error("page render failed", "error", err, "session", s.ID)
	}
}

// startSession mounts a new engine instance, converting a mount panic
// (duplicate ids, nil views) into an error.
func (h *Host) startSession() (s *Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = &mountError{detail: r}
			}
		}
	}()

	s = newSession(h)

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
	h.metrics.sessionStarted()

	return s, nil
}

type mountError struct {
	detail any
}

func (e *mountError) Error() string {
	return "strand: mount failed"
}

// handleWebSocket attaches a client connection to its session.
func (h *Host) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")

	h.mu.Lock()
	s, ok := h.sessions[id]
	h.mu.Unlock()
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		h.metrics.recordWSError("upgrade")
		return
	}

	s.attach(conn)
	s.readLoop(conn)
}

// handleClientScript serves the embedded thin client.
func (h *Host) handleClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(clientdist.StrandJS)
}

// Session returns the live session with the given id.
func (h *Host) Session(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// SessionCount returns the number of live sessions.
func (h *Host) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Host) removeSession(s *Session) {
	h.mu.Lock()
	_, present := h.sessions[s.ID]
	delete(h.sessions, s.ID)
	h.mu.Unlock()
	if present {
		h.metrics.sessionEnded()
	}
}

// Run serves the host at addr until ctx is cancelled, then shuts down
// gracefully and closes all sessions.
func (h *Host) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go h.reapIdleSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	h.mu.Lock()
	open := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		open = append(open, s)
	}
	h.mu.Unlock()
	for _, s := range open {
		s.Close()
	}

	return err
}

// reapIdleSessions evicts sessions whose client never connected or went
// away longer than the resume window.
func (h *Host) reapIdleSessions(ctx context.Context) {
	ticker := time.NewTicker(h.resumeWindow / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.Lock()
			var stale []*Session
			for _, s := range h.sessions {
				if s.idle() > h.resumeWindow && !s.attached.Load() {
					stale = append(stale, s)
				}
			}
			h.mu.Unlock()
			for _, s := range stale {
				s.logger.Info("evicting idle session")
				s.Close()
			}
		}
	}
}
