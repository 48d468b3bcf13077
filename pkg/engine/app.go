package engine

import (
	"log/slog"
	"sync"

	"github.com/strand-dev/strand/pkg/vdom"
)

// DefaultRootID is the id of the root instance unless WithRootID overrides it.
const DefaultRootID = "root"

// Patcher is the collaborator contract the engine consumes: an opaque
// patch function applying the difference between two rendered nodes to the
// host document. prev is nil on the very first render.
type Patcher interface {
	Patch(prev, next *vdom.VNode)
}

// noopPatcher keeps an App usable without a document, e.g. in tests that
// only exercise dispatch semantics.
type noopPatcher struct{}

func (noopPatcher) Patch(prev, next *vdom.VNode) {}

// RunAction triggers a root action from outside the component tree. It is
// the only externally callable dispatch path and is handed to Mount's init
// callback; routers and global listeners hold onto it.
type RunAction func(name string, payload ...any)

// App is one engine instance: the component registry, the thunk caches,
// the batching scheduler state, and the notification bus, all owned
// explicitly by the App rather than living in package globals. Mount
// resets them, which is what keeps independent apps (and tests) isolated.
type App struct {
	mu      sync.Mutex
	patcher Patcher
	logger  *slog.Logger
	bus     *Bus
	reg     *registry
	thunks  *thunkCache
	guard   *guard

	rootID  string
	mounted bool

	// Scheduler state, guarded by mu and only touched inside a unit of work.
	depth       int
	flushing    bool
	pass        *renderPass
	dirty       []string
	dirtySet    map[string]struct{}
	rootChanged bool
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRootID overrides the root instance id.
func WithRootID(id string) Option {
	return func(a *App) {
		if id != "" {
			a.rootID = id
		}
	}
}

// WithBus substitutes a shared notification bus.
func WithBus(bus *Bus) Option {
	return func(a *App) {
		if bus != nil {
			a.bus = bus
		}
	}
}

// New creates an App that patches the host document through p.
// A nil p is replaced by a no-op patcher.
func New(p Patcher, opts ...Option) *App {
	a := &App{
		patcher:  p,
		logger:   slog.Default(),
		bus:      NewBus(),
		reg:      newRegistry(),
		thunks:   newThunkCache(),
		rootID:   DefaultRootID,
		dirtySet: make(map[string]struct{}),
	}
	if a.patcher == nil {
		a.patcher = noopPatcher{}
	}
	for _, opt := range opts {
		opt(a)
	}
	a.guard = &guard{logger: a.logger}
	return a
}

// Mount resets the registry and thunk caches, creates the root instance
// from def and props, and performs the very first render and patch. If
// init is non-nil it then receives the root-action runner; that runner is
// how externally-owned event sources trigger root actions without
// violating the manual-invocation rule.
func (a *App) Mount(def Def, props any, init func(run RunAction)) {
	func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.reset()
		a.enter()
		defer a.leave()

		root := a.createInstance(a.rootID, def, props, true)
		a.mounted = true
		a.rootChanged = true
		if !root.Config.Init.IsZero() {
			a.resolve(root.Config.Init)
		}
	}()

	if init != nil {
		init(a.runRootAction)
	}
}

// Reset clears the registry, the thunk caches, and all scheduler state.
// Mount calls it implicitly; tests use it for isolation. Bus subscriptions
// survive a reset so host plumbing attached before Mount stays attached.
func (a *App) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

func (a *App) reset() {
	a.reg.reset()
	a.thunks.reset()
	a.dirty = nil
	a.dirtySet = make(map[string]struct{})
	a.rootChanged = false
	a.mounted = false
}

// runRootAction is the guarded runner handed to Mount's init callback.
func (a *App) runRootAction(name string, payload ...any) {
	p, has := optionalPayload(payload)
	t := a.thunks.action(a, a.rootID, name, p, has)
	t.Call(token{})
}

// Bus returns the app's notification bus.
func (a *App) Bus() *Bus {
	return a.bus
}

// RootID returns the designated root instance id.
func (a *App) RootID() string {
	return a.rootID
}

// Mounted reports whether Mount has completed.
func (a *App) Mounted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mounted
}

// RootNode returns the root instance's last rendered node, or nil before
// the first render.
func (a *App) RootNode() *vdom.VNode {
	a.mu.Lock()
	defer a.mu.Unlock()
	if root, ok := a.reg.get(a.rootID); ok {
		return root.Node
	}
	return nil
}

// StateOf returns the current state snapshot of the given instance.
func (a *App) StateOf(id string) (any, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	inst, ok := a.reg.get(id)
	if !ok {
		return nil, false
	}
	return inst.State, true
}
