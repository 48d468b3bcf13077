package engine

import (
	"github.com/strand-dev/strand/pkg/vdom"
)

// Def is a component definition: a stateless factory that, given dispatch
// helpers bound to one instance, returns that instance's Configuration.
// A Def may be invoked many times, once per distinct instance id.
type Def func(h Helpers) Config

// Config is the configuration returned by a component definition.
type Config struct {
	// State initializes instance state from props. Called once per
	// instance creation. Nil means the instance has no local state.
	State func(props any) any

	// Init is work to run immediately after creation, before the
	// instance's first paint. The zero value means none.
	Init Next

	// Actions maps action names to pure state-transition handlers.
	Actions map[string]ActionFunc

	// Tasks maps task names to side-effect containers.
	Tasks map[string]TaskFunc

	// View renders the instance. Required.
	View ViewFunc
}

// ActionFunc is a pure state-transition handler. It receives the dispatch
// payload and a read-only context, and returns the new state (the same
// reference if unchanged) plus an optional continuation.
type ActionFunc func(payload any, ctx Context) (state any, next Next)

// TaskFunc builds a Task from the dispatch payload.
type TaskFunc func(payload any) Task

// Task is an isolated side-effect container. Perform runs the effect;
// Success and Failure translate its outcome back into continuations.
//
// Perform has three outcomes: a plain value is an immediate success,
// handled synchronously within the current batch; a *Future suspends the
// task until the future settles, after which Success or Failure runs in a
// new batch with its own patch; a non-nil error (or a panic) routes to
// Failure immediately. Errors never propagate to the caller of the thunk.
type Task struct {
	Perform func() (any, error)
	Success func(value any, ctx Context) Next
	Failure func(err error, ctx Context) Next
}

// ViewFunc renders one instance to a node.
type ViewFunc func(id string, ctx Context) *vdom.VNode

// Context is the read-only view handed to every handler and view.
type Context struct {
	// Props is the instance's current props snapshot.
	Props any

	// State is the instance's current state snapshot.
	State any

	// RootState is the root instance's state. All instances may read it;
	// only the root's own action handlers may replace it.
	RootState any

	// Event is the triggering document event. It is set only when the
	// dispatch originated from the host document, never when the handler
	// was reached through a continuation chain or a task settlement.
	Event *vdom.DOMEvent
}

// Next is a continuation: deferred, not-yet-executed work declared by a
// handler. The zero value means none. Use One for a single thunk and Seq
// for an ordered list; a list is resolved depth-first, in order, under a
// single patch boundary.
type Next struct {
	one *Thunk
	seq []*Thunk
}

// One declares a single follow-up thunk.
func One(t *Thunk) Next {
	return Next{one: t}
}

// Seq declares an ordered list of follow-up thunks. Each element fully
// resolves, including its own nested continuations, before the next
// element starts.
func Seq(thunks ...*Thunk) Next {
	return Next{seq: thunks}
}

// IsZero reports whether the continuation declares no work.
func (n Next) IsZero() bool {
	return n.one == nil && len(n.seq) == 0
}

// Helpers are the dispatch helpers handed to a component definition.
// They are bound to the instance id the definition was invoked for.
type Helpers struct {
	app *App
	id  string
}

// ID returns the instance id these helpers are bound to.
func (h Helpers) ID() string {
	return h.id
}

// Action returns the memoized action thunk for (instance, name, payload).
// At most one payload may be given; omitting it yields a payload-less
// thunk, which is a distinct thunk from one carrying an empty map.
func (h Helpers) Action(name string, payload ...any) *Thunk {
	p, has := optionalPayload(payload)
	return h.app.thunks.action(h.app, h.id, name, p, has)
}

// Task returns the memoized task thunk for (instance, name, payload).
func (h Helpers) Task(name string, payload ...any) *Thunk {
	p, has := optionalPayload(payload)
	return h.app.thunks.task(h.app, h.id, name, p, has)
}

// Component renders a child component with the given id and props from
// within a view, creating its instance on first sight of the id. It may
// only be called during a render pass; the id must be unique within the
// pass.
func (h Helpers) Component(id string, def Def, props any) *vdom.VNode {
	return h.app.component(id, def, props)
}

func optionalPayload(payload []any) (any, bool) {
	if len(payload) == 0 {
		return nil, false
	}
	return payload[0], true
}
