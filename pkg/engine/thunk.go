package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/strand-dev/strand/pkg/vdom"
)

// Kind discriminates action thunks from task thunks.
type Kind uint8

const (
	KindAction Kind = iota + 1
	KindTask
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindAction:
		return "Action"
	case KindTask:
		return "Task"
	default:
		return "Unknown"
	}
}

// token is the engine's private invocation proof. The type is unexported,
// so code outside this package cannot construct one; a thunk called with a
// token is known to have been reached through the engine's own dispatch
// path (continuation resolution or the root-action runner).
type token struct{}

// Thunk is a memoized, deferred-invocation handle for one action or task
// of one instance. Two Thunk lookups with the same (instance, name,
// payload) triple return the same pointer, so handles compare stably
// across renders and can back identity-based render skipping downstream.
type Thunk struct {
	app        *App
	kind       Kind
	instanceID string
	name       string
	payload    any
	hasPayload bool
	key        string
}

// Kind returns whether this is an action or a task thunk.
func (t *Thunk) Kind() Kind { return t.kind }

// Name returns the action or task name the thunk dispatches.
func (t *Thunk) Name() string { return t.name }

// InstanceID returns the id of the instance that owns the thunk.
func (t *Thunk) InstanceID() string { return t.instanceID }

// Payload returns the bound payload and whether one is bound.
func (t *Thunk) Payload() (any, bool) { return t.payload, t.hasPayload }

// Call invokes the thunk. The argument decides what happens:
//
//   - a *vdom.DOMEvent executes the thunk as a new externally-triggered
//     unit of work, with the event visible in the handler's context;
//   - the engine's private token executes it the same way, without an
//     event (this is how the root-action runner and task settlements
//     re-enter the engine);
//   - any other non-nil value is treated as a currying payload for action
//     thunks: Call returns a new, more specific thunk instead of
//     executing, so a partially-applied action can be passed down to
//     children;
//   - anything else panics with ErrManualInvocation.
//
// Call returns nil on the executing paths.
func (t *Thunk) Call(arg any) *Thunk {
	switch v := arg.(type) {
	case *vdom.DOMEvent:
		t.app.runUnit(func() {
			t.app.invoke(t, v)
		})
		return nil
	case token:
		t.app.runUnit(func() {
			t.app.invoke(t, nil)
		})
		return nil
	case nil:
		panic(fmt.Errorf("%w: %s thunk %q called with nil", ErrManualInvocation, t.kind, t.name))
	default:
		if t.kind == KindAction {
			return t.With(arg)
		}
		panic(fmt.Errorf("%w: task thunk %q cannot be curried", ErrManualInvocation, t.name))
	}
}

// With returns the memoized thunk for the same action bound to payload.
// When the receiver already carries a map payload and payload is also a
// map, the two are merged with the new entries winning; otherwise payload
// replaces the bound value. Task thunks cannot be curried.
func (t *Thunk) With(payload any) *Thunk {
	if t.kind != KindAction {
		panic(fmt.Errorf("%w: task thunk %q cannot be curried", ErrManualInvocation, t.name))
	}
	merged := payload
	if base, ok := t.payload.(map[string]any); ok && t.hasPayload {
		if over, ok := payload.(map[string]any); ok {
			m := make(map[string]any, len(base)+len(over))
			for k, v := range base {
				m[k] = v
			}
			for k, v := range over {
				m[k] = v
			}
			merged = m
		}
	}
	return t.app.thunks.action(t.app, t.instanceID, t.name, merged, true)
}

// thunkCache memoizes thunks per (instance, name, payload) triple.
// Entries for an instance are purged en masse at teardown, so a stale
// thunk from a previous incarnation of an id is never reused.
type thunkCache struct {
	actions map[string]*Thunk
	tasks   map[string]*Thunk
}

func newThunkCache() *thunkCache {
	return &thunkCache{
		actions: make(map[string]*Thunk),
		tasks:   make(map[string]*Thunk),
	}
}

func (c *thunkCache) action(app *App, instanceID, name string, payload any, hasPayload bool) *Thunk {
	key := thunkKey(instanceID, name, payload, hasPayload)
	if t, ok := c.actions[key]; ok {
		return t
	}
	t := &Thunk{
		app:        app,
		kind:       KindAction,
		instanceID: instanceID,
		name:       name,
		payload:    payload,
		hasPayload: hasPayload,
		key:        key,
	}
	c.actions[key] = t
	return t
}

func (c *thunkCache) task(app *App, instanceID, name string, payload any, hasPayload bool) *Thunk {
	key := thunkKey(instanceID, name, payload, hasPayload)
	if t, ok := c.tasks[key]; ok {
		return t
	}
	t := &Thunk{
		app:        app,
		kind:       KindTask,
		instanceID: instanceID,
		name:       name,
		payload:    payload,
		hasPayload: hasPayload,
		key:        key,
	}
	c.tasks[key] = t
	return t
}

// purge drops every cached thunk belonging to instanceID.
func (c *thunkCache) purge(instanceID string) {
	prefix := instanceID + ":"
	for key := range c.actions {
		if strings.HasPrefix(key, prefix) {
			delete(c.actions, key)
		}
	}
	for key := range c.tasks {
		if strings.HasPrefix(key, prefix) {
			delete(c.tasks, key)
		}
	}
}

// reset drops every cached thunk.
func (c *thunkCache) reset() {
	c.actions = make(map[string]*Thunk)
	c.tasks = make(map[string]*Thunk)
}

// thunkKey builds the cache key "id:name" or "id:name:<canonical payload>".
// A payload-less thunk keys differently from one bound to an empty map.
func thunkKey(instanceID, name string, payload any, hasPayload bool) string {
	if !hasPayload {
		return instanceID + ":" + name
	}
	return instanceID + ":" + name + ":" + canonicalPayload(payload)
}

// canonicalPayload serializes a payload deterministically. encoding/json
// writes map keys in sorted order and struct fields in declaration order,
// which is stable for any given payload type. Unserializable payloads
// fall back to their verbose Go representation.
func canonicalPayload(payload any) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%#v", payload)
	}
	return string(b)
}
