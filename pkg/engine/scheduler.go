package engine

import (
	"fmt"

	"github.com/strand-dev/strand/pkg/vdom"
)

// maxFlushIterations bounds the render loop inside one flush. Work queued
// while a pass renders (init continuations changing other instances' state)
// triggers another iteration; a cycle that never settles is a bug in the
// application's components.
const maxFlushIterations = 64

// runUnit opens a new externally-triggered unit of work: thunk calls from
// document events, the root-action runner, mount, and task settlements all
// enter here. Work triggered recursively inside the unit goes through
// resolve/invoke directly and shares the unit's patch boundary.
func (a *App) runUnit(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enter()
	defer a.leave()
	fn()
}

func (a *App) enter() {
	a.depth++
}

func (a *App) leave() {
	a.depth--
	if a.depth == 0 {
		a.flushPending()
	}
}

// resolve expands a continuation. A single thunk is invoked directly; an
// ordered list is expanded depth-first under the nesting counter, so render
// requests raised anywhere inside it are suppressed until the whole list
// (and therefore the whole enclosing unit) completes.
func (a *App) resolve(next Next) {
	if next.one != nil {
		a.invoke(next.one, nil)
		return
	}
	if len(next.seq) == 0 {
		return
	}

	a.enter()
	defer a.leave()
	for _, t := range next.seq {
		if t != nil {
			a.invoke(t, nil)
		}
	}
}

// markDirty records that an instance's state identity changed.
func (a *App) markDirty(inst *Instance) {
	if inst.Root {
		a.rootChanged = true
		return
	}
	if _, ok := a.dirtySet[inst.ID]; !ok {
		a.dirtySet[inst.ID] = struct{}{}
		a.dirty = append(a.dirty, inst.ID)
	}
}

// flushPending renders everything marked dirty and performs the patches.
// If root state changed, the render starts at the root and cascades through
// every instance (any of them might read root state); otherwise only the
// instances whose local state changed re-render. Re-entry during an active
// flush or render pass is a no-op: the enclosing flush picks the work up.
func (a *App) flushPending() {
	if a.flushing || a.pass != nil {
		return
	}
	a.flushing = true
	defer func() { a.flushing = false }()

	// One notification per flush, no matter how many loop iterations the
	// queued work takes: observers see a unit of work as a single patch.
	rendered := false
	defer func() {
		if rendered {
			a.bus.Publish(EventPatch, nil)
		}
	}()

	for iter := 0; iter < maxFlushIterations; iter++ {
		if !a.rootChanged && len(a.dirty) == 0 {
			return
		}
		rendered = true

		rootChanged := a.rootChanged
		dirty := a.dirty
		a.rootChanged = false
		a.dirty = nil
		a.dirtySet = make(map[string]struct{})

		if rootChanged {
			if root, ok := a.reg.get(a.rootID); ok {
				touched := a.renderInstance(root)
				a.dropDirty(touched)
			}
		} else {
			for _, id := range dirty {
				inst, ok := a.reg.get(id)
				if !ok {
					continue
				}
				touched := a.renderInstance(inst)
				a.dropDirty(touched)
			}
		}
	}

	a.logger.Error("render flush did not settle", "iterations", maxFlushIterations)
}

// dropDirty clears dirty marks for instances that a completed pass just
// painted with their final state.
func (a *App) dropDirty(rendered map[string]struct{}) {
	if len(a.dirty) == 0 {
		return
	}
	kept := a.dirty[:0]
	for _, id := range a.dirty {
		if _, ok := rendered[id]; ok {
			delete(a.dirtySet, id)
			continue
		}
		kept = append(kept, id)
	}
	a.dirty = kept
}

// renderPass tracks one view-building pass: the set of instance ids
// requested so far (for duplicate detection and teardown diffing) and the
// stack of instances currently rendering (for parent/child adjacency).
type renderPass struct {
	touched map[string]struct{}
	stack   []*Instance
}

func newRenderPass() *renderPass {
	return &renderPass{
		touched: make(map[string]struct{}),
	}
}

func (p *renderPass) current() *Instance {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

// renderInstance re-renders one instance's subtree, patches it against the
// instance's previous node, and tears down every instance that fell out of
// the subtree. Teardown is synchronous with patch completion. Returns the
// set of ids the pass touched.
func (a *App) renderInstance(inst *Instance) map[string]struct{} {
	oldReach := a.reg.reach(inst.ID)
	prevNode := inst.Node

	pass := newRenderPass()
	a.pass = pass
	defer func() { a.pass = nil }()
	node := a.buildView(inst)

	inst.Node = node
	a.patcher.Patch(prevNode, node)

	newReach := a.reg.reach(inst.ID)
	for id := range oldReach {
		if _, live := newReach[id]; !live {
			a.teardown(id)
		}
	}
	return pass.touched
}

// buildView invokes one instance's view function within the current pass.
func (a *App) buildView(inst *Instance) *vdom.VNode {
	if _, dup := a.pass.touched[inst.ID]; dup {
		panic(fmt.Errorf("%w: %q", ErrDuplicateID, inst.ID))
	}
	a.pass.touched[inst.ID] = struct{}{}

	inst.children = inst.children[:0]
	a.pass.stack = append(a.pass.stack, inst)
	defer func() {
		a.pass.stack = a.pass.stack[:len(a.pass.stack)-1]
	}()

	return inst.Config.View(inst.ID, a.contextFor(inst, nil))
}

// component creates or reuses the instance for id and renders it inline.
// Called through Helpers.Component from inside a view.
func (a *App) component(id string, def Def, props any) *vdom.VNode {
	if a.pass == nil {
		panic(fmt.Errorf("strand: Component(%q) called outside a render pass", id))
	}

	inst, ok := a.reg.get(id)
	created := false
	if !ok {
		inst = a.createInstance(id, def, props, false)
		created = true
	} else if !sameRef(props, inst.Props) {
		inst.PrevProps = inst.Props
		inst.Props = props
	}

	if parent := a.pass.current(); parent != nil {
		parent.children = append(parent.children, id)
	}

	if created && !inst.Config.Init.IsZero() {
		// Creation work runs before the instance's first paint; renders
		// stay suppressed until the enclosing pass completes.
		a.resolve(inst.Config.Init)
	}

	return a.buildView(inst)
}

// createInstance builds a fresh instance for id: the definition is invoked
// with helpers bound to the id, and the state initializer runs once with
// the props snapshot under the guard.
func (a *App) createInstance(id string, def Def, props any, root bool) *Instance {
	cfg := def(Helpers{app: a, id: id})
	if cfg.View == nil {
		panic(fmt.Errorf("strand: component %q has no view", id))
	}

	inst := &Instance{
		ID:     id,
		Config: cfg,
		Props:  props,
		Root:   root,
	}
	if cfg.State != nil {
		verify := a.guard.observe(props)
		inst.State = cfg.State(props)
		verify()
	}

	a.reg.set(id, inst)
	return inst
}

// teardown removes an instance and purges its cached thunks. A later
// reappearance of the id starts from its state initializer; no thunk from
// a previous incarnation survives.
func (a *App) teardown(id string) {
	if id == a.rootID {
		return
	}
	a.reg.delete(id)
	a.thunks.purge(id)
	if _, ok := a.dirtySet[id]; ok {
		delete(a.dirtySet, id)
		kept := a.dirty[:0]
		for _, d := range a.dirty {
			if d != id {
				kept = append(kept, d)
			}
		}
		a.dirty = kept
	}
	a.logger.Debug("instance torn down", "instance", id)
}
