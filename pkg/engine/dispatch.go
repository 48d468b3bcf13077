package engine

import (
	"fmt"
	"reflect"

	"github.com/strand-dev/strand/pkg/vdom"
)

// invoke applies one thunk: an action handler or a task's perform, exactly
// once. The instance may have been torn down between the thunk's creation
// and its invocation (a task settling late, for example); dispatch on a
// missing instance is a deliberate no-op.
func (a *App) invoke(t *Thunk, ev *vdom.DOMEvent) {
	inst, ok := a.reg.get(t.instanceID)
	if !ok {
		a.logger.Debug("dispatch on missing instance",
			"instance", t.instanceID, "kind", t.kind.String(), "name", t.name)
		return
	}
	switch t.kind {
	case KindAction:
		a.runAction(inst, t, ev)
	case KindTask:
		a.runTask(inst, t, ev)
	}
}

// runAction executes one action handler and hands its continuation back to
// the scheduler. The previous state snapshot is observed by the guard for
// the duration of the call; the handler signals change by returning a new
// value, compared by identity.
func (a *App) runAction(inst *Instance, t *Thunk, ev *vdom.DOMEvent) {
	fn := inst.Config.Actions[t.name]
	if fn == nil {
		a.logger.Warn("no handler for action", "instance", inst.ID, "action", t.name)
		return
	}

	ctx := a.contextFor(inst, ev)
	prev := inst.State
	verify := a.observeContext(inst, ctx)

	state, next := fn(t.payload, ctx)
	verify()

	inst.State = state
	if !sameRef(prev, state) {
		a.markDirty(inst)
	}

	a.resolve(next)
}

// runTask builds and runs one task. Perform's outcome decides the path:
// an immediate value or error stays within the current batch; a *Future
// closes the current patch boundary and suspends, settling later as a new
// unit of work.
func (a *App) runTask(inst *Instance, t *Thunk, _ *vdom.DOMEvent) {
	tf := inst.Config.Tasks[t.name]
	if tf == nil {
		a.logger.Warn("no handler for task", "instance", inst.ID, "task", t.name)
		return
	}

	task := tf(t.payload)
	if task.Perform == nil {
		return
	}

	value, err := performSafely(t.name, task.Perform)
	if err != nil {
		a.settleTask(inst.ID, t.name, task, nil, err)
		return
	}

	if f, ok := value.(*Future); ok && f != nil {
		// The document must reflect pre-task state before we suspend.
		a.flushPending()
		instID, name := inst.ID, t.name
		f.onSettle(func(v any, err error) {
			a.runUnit(func() {
				a.settleTask(instID, name, task, v, err)
			})
		})
		return
	}

	a.settleTask(inst.ID, t.name, task, value, nil)
}

// performSafely runs a task's perform, converting a panic into an error so
// no exception ever escapes to the caller of the thunk.
func performSafely(name string, perform func() (any, error)) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strand: task %q panicked: %v", name, r)
		}
	}()
	return perform()
}

// settleTask routes a task's outcome to its success or failure
// continuation. The context handed to either never contains an event.
// A task settling after its owning instance was torn down is a no-op.
func (a *App) settleTask(instanceID, name string, task Task, value any, err error) {
	inst, ok := a.reg.get(instanceID)
	if !ok {
		a.logger.Debug("task settled after instance teardown",
			"instance", instanceID, "task", name)
		return
	}

	ctx := a.contextFor(inst, nil)

	if err != nil {
		if task.Failure == nil {
			a.logger.Error("task failed with no failure handler",
				"instance", instanceID, "task", name, "error", err)
			return
		}
		verify := a.observeContext(inst, ctx)
		next := task.Failure(err, ctx)
		verify()
		a.resolve(next)
		return
	}

	if task.Success == nil {
		return
	}
	verify := a.observeContext(inst, ctx)
	next := task.Success(value, ctx)
	verify()
	a.resolve(next)
}

// contextFor assembles the read-only context for one instance.
func (a *App) contextFor(inst *Instance, ev *vdom.DOMEvent) Context {
	var rootState any
	if root, ok := a.reg.get(a.rootID); ok {
		rootState = root.State
	}
	return Context{
		Props:     inst.Props,
		State:     inst.State,
		RootState: rootState,
		Event:     ev,
	}
}

// observeContext puts the snapshots reachable from ctx under the guard.
// For the root instance, state and root state are the same object and are
// fingerprinted once.
func (a *App) observeContext(inst *Instance, ctx Context) func() {
	if inst.Root {
		return a.guard.observe(ctx.State, ctx.Props)
	}
	return a.guard.observe(ctx.State, ctx.Props, ctx.RootState)
}

// sameRef compares two state values by identity: same map, slice, or
// pointer, or equal comparable scalar. Handlers return the identical
// reference to signal "unchanged".
func sameRef(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != vb.Kind() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Slice, reflect.Ptr, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	default:
		if va.Comparable() && vb.Comparable() {
			return a == b
		}
		return false
	}
}
