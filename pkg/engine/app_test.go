package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/strand-dev/strand/pkg/vdom"
)

// countingPatcher records every patch the engine performs.
type countingPatcher struct {
	calls int
	prev  *vdom.VNode
	next  *vdom.VNode
}

func (p *countingPatcher) Patch(prev, next *vdom.VNode) {
	p.calls++
	p.prev = prev
	p.next = next
}

func click() *vdom.DOMEvent {
	return &vdom.DOMEvent{Type: "click"}
}

func count(t *testing.T, app *App, id string) int {
	t.Helper()
	state, ok := app.StateOf(id)
	if !ok {
		t.Fatalf("instance %q not in registry", id)
	}
	n, ok := state.(map[string]any)["count"].(int)
	if !ok {
		t.Fatalf("state %#v has no int count", state)
	}
	return n
}

// counterDef is the canonical example: Increment adds step and chains into
// a no-op Validate.
func counterDef(captured *Helpers) Def {
	return func(h Helpers) Config {
		*captured = h
		return Config{
			State: func(props any) any {
				return map[string]any{"count": 0}
			},
			Actions: map[string]ActionFunc{
				"Increment": func(p any, ctx Context) (any, Next) {
					step := p.(map[string]any)["step"].(int)
					n := ctx.State.(map[string]any)["count"].(int)
					return map[string]any{"count": n + step}, One(h.Action("Validate"))
				},
				"Validate": func(p any, ctx Context) (any, Next) {
					return ctx.State, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode {
				return vdom.Text("counter")
			},
		}
	}
}

func TestMountRendersOnce(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	var h Helpers
	app.Mount(counterDef(&h), nil, nil)

	if patcher.calls != 1 {
		t.Fatalf("expected 1 patch for mount, got %d", patcher.calls)
	}
	if patcher.prev != nil {
		t.Errorf("first patch should have nil prev node")
	}
	if !app.Mounted() {
		t.Errorf("app should report mounted")
	}
}

func TestCounterClickSinglePatch(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	var h Helpers
	app.Mount(counterDef(&h), nil, nil)
	mountPatches := patcher.calls

	h.Action("Increment", map[string]any{"step": 1}).Call(click())

	if got := count(t, app, app.RootID()); got != 1 {
		t.Errorf("expected count 1, got %d", got)
	}
	if got := patcher.calls - mountPatches; got != 1 {
		t.Errorf("expected exactly 1 patch for the click, got %d", got)
	}
}

func TestSinglePatchPerChain(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	var h Helpers
	def := func(hh Helpers) Config {
		h = hh
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Actions: map[string]ActionFunc{
				"Step": func(p any, ctx Context) (any, Next) {
					n := ctx.State.(map[string]any)["count"].(int)
					var next Next
					if n < 4 {
						next = One(h.Action("Step"))
					}
					return map[string]any{"count": n + 1}, next
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("x") },
		}
	}
	app.Mount(def, nil, nil)
	before := patcher.calls

	h.Action("Step").Call(click())

	if got := count(t, app, app.RootID()); got != 5 {
		t.Errorf("expected 5 chained updates, got %d", got)
	}
	if got := patcher.calls - before; got != 1 {
		t.Errorf("chain of 5 actions should patch once, got %d", got)
	}
}

func TestSinglePatchPerArray(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	var h Helpers
	def := func(hh Helpers) Config {
		h = hh
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Actions: map[string]ActionFunc{
				"Bump": func(p any, ctx Context) (any, Next) {
					n := ctx.State.(map[string]any)["count"].(int)
					return map[string]any{"count": n + 1}, Next{}
				},
				"Fan": func(p any, ctx Context) (any, Next) {
					return ctx.State, Seq(
						h.Action("Bump"),
						h.Action("Bump"),
						h.Action("Bump"),
					)
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("x") },
		}
	}
	app.Mount(def, nil, nil)
	before := patcher.calls

	h.Action("Fan").Call(click())

	if got := count(t, app, app.RootID()); got != 3 {
		t.Errorf("expected 3 fanned updates, got %d", got)
	}
	if got := patcher.calls - before; got != 1 {
		t.Errorf("array of 3 actions should patch once, got %d", got)
	}
}

func TestSkipRenderOnSameStateReference(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	views := 0
	var h Helpers
	def := func(hh Helpers) Config {
		h = hh
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Actions: map[string]ActionFunc{
				"Noop": func(p any, ctx Context) (any, Next) {
					return ctx.State, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode {
				views++
				return vdom.Text("x")
			},
		}
	}
	app.Mount(def, nil, nil)
	beforePatches, beforeViews := patcher.calls, views

	h.Action("Noop").Call(click())

	if patcher.calls != beforePatches {
		t.Errorf("same-reference state should not patch, got %d extra", patcher.calls-beforePatches)
	}
	if views != beforeViews {
		t.Errorf("same-reference state should not re-invoke the view, got %d extra", views-beforeViews)
	}
}

func TestTwoPhaseAsyncTask(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	future := NewFuture()
	var h Helpers
	def := func(hh Helpers) Config {
		h = hh
		return Config{
			State: func(any) any { return map[string]any{"count": 0, "loaded": false} },
			Actions: map[string]ActionFunc{
				"Start": func(p any, ctx Context) (any, Next) {
					return map[string]any{"count": 1, "loaded": false}, One(h.Task("Load"))
				},
				"Done": func(p any, ctx Context) (any, Next) {
					n := ctx.State.(map[string]any)["count"].(int)
					return map[string]any{"count": n, "loaded": true}, Next{}
				},
			},
			Tasks: map[string]TaskFunc{
				"Load": func(p any) Task {
					return Task{
						Perform: func() (any, error) { return future, nil },
						Success: func(v any, ctx Context) Next {
							return One(h.Action("Done"))
						},
					}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("x") },
		}
	}
	app.Mount(def, nil, nil)
	before := patcher.calls

	patched := make(chan struct{}, 8)
	app.Bus().Subscribe(EventPatch, func(any) { patched <- struct{}{} })

	h.Action("Start").Call(click())

	// The pre-task state change patches once before the future settles.
	if got := patcher.calls - before; got != 1 {
		t.Fatalf("expected 1 patch before the task settles, got %d", got)
	}
	drain(patched)

	future.Resolve("payload")

	select {
	case <-patched:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the post-settlement patch")
	}

	if got := patcher.calls - before; got != 2 {
		t.Errorf("expected exactly 1 more patch after settlement, got %d total", got)
	}
	state, _ := app.StateOf(app.RootID())
	if loaded := state.(map[string]any)["loaded"].(bool); !loaded {
		t.Errorf("success continuation did not run")
	}
}

func drain(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func TestImmediateTaskValueStaysInBatch(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	var h Helpers
	def := func(hh Helpers) Config {
		h = hh
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Actions: map[string]ActionFunc{
				"Apply": func(p any, ctx Context) (any, Next) {
					return map[string]any{"count": p.(int)}, Next{}
				},
			},
			Tasks: map[string]TaskFunc{
				"Compute": func(p any) Task {
					return Task{
						Perform: func() (any, error) { return 42, nil },
						Success: func(v any, ctx Context) Next {
							return One(h.Action("Apply").With(v.(int)))
						},
					}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("x") },
		}
	}
	app.Mount(def, nil, nil)
	before := patcher.calls

	h.Task("Compute").Call(click())

	if got := count(t, app, app.RootID()); got != 42 {
		t.Errorf("synchronous task value not applied, count = %d", got)
	}
	if got := patcher.calls - before; got != 1 {
		t.Errorf("immediate task success should share the batch, got %d patches", got)
	}
}

func TestTaskFailureRoutedToFailure(t *testing.T) {
	app := New(nil)

	var h Helpers
	var failed error
	def := func(hh Helpers) Config {
		h = hh
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Tasks: map[string]TaskFunc{
				"Boom": func(p any) Task {
					return Task{
						Perform: func() (any, error) { panic("kaboom") },
						Failure: func(err error, ctx Context) Next {
							failed = err
							return Next{}
						},
					}
				},
				"Quiet": func(p any) Task {
					return Task{
						Perform: func() (any, error) { return nil, errors.New("ignored") },
					}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("x") },
		}
	}
	app.Mount(def, nil, nil)

	h.Task("Boom").Call(click())
	if failed == nil {
		t.Fatal("panicking perform should route to Failure")
	}

	// No failure handler: the error is reported and swallowed, never thrown.
	h.Task("Quiet").Call(click())
}

func TestRootCascadeAndLocalRender(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	views := map[string]int{}
	child := func(name string) Def {
		return func(h Helpers) Config {
			return Config{
				State: func(any) any { return map[string]any{"count": 0} },
				Actions: map[string]ActionFunc{
					"Bump": func(p any, ctx Context) (any, Next) {
						n := ctx.State.(map[string]any)["count"].(int)
						return map[string]any{"count": n + 1}, Next{}
					},
				},
				View: func(id string, ctx Context) *vdom.VNode {
					views[id]++
					return vdom.Text(name)
				},
			}
		}
	}

	var rootH, leftH Helpers
	root := func(h Helpers) Config {
		rootH = h
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Actions: map[string]ActionFunc{
				"Bump": func(p any, ctx Context) (any, Next) {
					n := ctx.State.(map[string]any)["count"].(int)
					return map[string]any{"count": n + 1}, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode {
				views[id]++
				left := child("left")
				right := child("right")
				return &vdom.VNode{
					Kind: vdom.KindElement,
					Tag:  "div",
					Children: []*vdom.VNode{
						h.Component("left", func(hh Helpers) Config {
							leftH = hh
							return left(hh)
						}, nil),
						h.Component("right", right, nil),
					},
				}
			},
		}
	}
	app.Mount(root, nil, nil)

	for k := range views {
		views[k] = 0
	}
	rootH.Action("Bump").Call(click())
	if views[app.RootID()] < 1 || views["left"] < 1 || views["right"] < 1 {
		t.Errorf("root state change must cascade through every view, got %v", views)
	}

	for k := range views {
		views[k] = 0
	}
	before := patcher.calls
	leftH.Action("Bump").Call(click())
	if views["left"] != 1 {
		t.Errorf("expected exactly 1 left view invocation, got %d", views["left"])
	}
	if views[app.RootID()] != 0 || views["right"] != 0 {
		t.Errorf("local change must not re-render root or siblings, got %v", views)
	}
	if patcher.calls-before != 1 {
		t.Errorf("local change should patch once, got %d", patcher.calls-before)
	}
}

func TestTeardownPurgesThunksAndState(t *testing.T) {
	app := New(nil)

	var rootH Helpers
	var childThunk *Thunk
	childDef := func(h Helpers) Config {
		childThunk = h.Action("Bump")
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Actions: map[string]ActionFunc{
				"Bump": func(p any, ctx Context) (any, Next) {
					n := ctx.State.(map[string]any)["count"].(int)
					return map[string]any{"count": n + 1}, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("child") },
		}
	}
	root := func(h Helpers) Config {
		rootH = h
		return Config{
			State: func(any) any { return map[string]any{"show": true} },
			Actions: map[string]ActionFunc{
				"Toggle": func(p any, ctx Context) (any, Next) {
					show := ctx.State.(map[string]any)["show"].(bool)
					return map[string]any{"show": !show}, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode {
				node := &vdom.VNode{Kind: vdom.KindElement, Tag: "div"}
				if ctx.State.(map[string]any)["show"].(bool) {
					node.Children = append(node.Children, h.Component("child", childDef, nil))
				}
				return node
			},
		}
	}
	app.Mount(root, nil, nil)

	childThunk.Call(click())
	if got := count(t, app, "child"); got != 1 {
		t.Fatalf("expected child count 1, got %d", got)
	}
	firstThunk := childThunk

	// Hide: the child must leave the registry and its thunks the caches.
	rootH.Action("Toggle").Call(click())
	if _, ok := app.StateOf("child"); ok {
		t.Fatal("child should be torn down after leaving the render pass")
	}
	for key := range app.thunks.actions {
		if len(key) >= 6 && key[:6] == "child:" {
			t.Errorf("stale cached thunk survived teardown: %s", key)
		}
	}

	// Reappearance starts from the initializer with fresh thunks.
	rootH.Action("Toggle").Call(click())
	if got := count(t, app, "child"); got != 0 {
		t.Errorf("reborn child should start from initial state, got %d", got)
	}
	if childThunk == firstThunk {
		t.Errorf("reborn child must not reuse a pre-teardown thunk reference")
	}
}

func TestDuplicateIDPanics(t *testing.T) {
	app := New(nil)

	child := func(h Helpers) Config {
		return Config{
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("c") },
		}
	}
	root := func(h Helpers) Config {
		return Config{
			View: func(id string, ctx Context) *vdom.VNode {
				return &vdom.VNode{
					Kind: vdom.KindElement,
					Tag:  "div",
					Children: []*vdom.VNode{
						h.Component("twin", child, nil),
						h.Component("twin", child, nil),
					},
				}
			},
		}
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("duplicate id in one pass must panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrDuplicateID) {
			t.Fatalf("expected ErrDuplicateID, got %v", r)
		}
	}()
	app.Mount(root, nil, nil)
}

func TestInitRunsBeforeFirstPaint(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	def := func(h Helpers) Config {
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Init:  One(h.Action("Bump")),
			Actions: map[string]ActionFunc{
				"Bump": func(p any, ctx Context) (any, Next) {
					n := ctx.State.(map[string]any)["count"].(int)
					return map[string]any{"count": n + 1}, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("x") },
		}
	}
	app.Mount(def, nil, nil)

	if got := count(t, app, app.RootID()); got != 1 {
		t.Errorf("init continuation should run before first paint, count = %d", got)
	}
	if patcher.calls != 1 {
		t.Errorf("mount with init should still patch once, got %d", patcher.calls)
	}
}

func TestRunRootActionFromInit(t *testing.T) {
	app := New(nil)

	var h Helpers
	var runner RunAction
	app.Mount(counterDef(&h), nil, func(run RunAction) {
		runner = run
		run("Increment", map[string]any{"step": 7})
	})

	if got := count(t, app, app.RootID()); got != 7 {
		t.Errorf("root-action runner should dispatch, count = %d", got)
	}

	runner("Increment", map[string]any{"step": 3})
	if got := count(t, app, app.RootID()); got != 10 {
		t.Errorf("retained runner should keep working, count = %d", got)
	}
}

func TestMissingHandlerIsNoOp(t *testing.T) {
	app := New(nil)

	var h Helpers
	app.Mount(counterDef(&h), nil, nil)

	// Must not panic, must not change state.
	h.Action("DoesNotExist").Call(click())
	h.Task("DoesNotExist").Call(click())
	if got := count(t, app, app.RootID()); got != 0 {
		t.Errorf("missing handlers must not change state, count = %d", got)
	}
}

func TestPropsUpdateOnRender(t *testing.T) {
	app := New(nil)

	var rootH Helpers
	var seenProps []any
	child := func(h Helpers) Config {
		return Config{
			View: func(id string, ctx Context) *vdom.VNode {
				seenProps = append(seenProps, ctx.Props)
				return vdom.Text("c")
			},
		}
	}
	root := func(h Helpers) Config {
		rootH = h
		return Config{
			State: func(any) any { return map[string]any{"label": "a"} },
			Actions: map[string]ActionFunc{
				"Relabel": func(p any, ctx Context) (any, Next) {
					return map[string]any{"label": "b"}, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode {
				label := ctx.State.(map[string]any)["label"].(string)
				return &vdom.VNode{
					Kind:     vdom.KindElement,
					Tag:      "div",
					Children: []*vdom.VNode{h.Component("child", child, map[string]any{"label": label})},
				}
			},
		}
	}
	app.Mount(root, nil, nil)
	rootH.Action("Relabel").Call(click())

	if len(seenProps) != 2 {
		t.Fatalf("expected 2 child renders, got %d", len(seenProps))
	}
	if got := seenProps[1].(map[string]any)["label"]; got != "b" {
		t.Errorf("child should see updated props, got %v", got)
	}
}

func TestActionResolvingPendingFutureDoesNotBlock(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	gate := NewFuture()
	var h Helpers
	def := func(hh Helpers) Config {
		h = hh
		return Config{
			State: func(any) any { return map[string]any{"done": false} },
			Actions: map[string]ActionFunc{
				"Open": func(p any, ctx Context) (any, Next) {
					gate.Resolve("go")
					return ctx.State, Next{}
				},
				"Done": func(p any, ctx Context) (any, Next) {
					return map[string]any{"done": true}, Next{}
				},
			},
			Tasks: map[string]TaskFunc{
				"Wait": func(p any) Task {
					return Task{
						Perform: func() (any, error) { return gate, nil },
						Success: func(v any, ctx Context) Next {
							return One(h.Action("Done"))
						},
					}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("x") },
		}
	}
	app.Mount(def, nil, nil)

	patched := make(chan struct{}, 8)
	app.Bus().Subscribe(EventPatch, func(any) { patched <- struct{}{} })

	h.Task("Wait").Call(click())

	// Open opens the gate from inside a handler, while the app lock is
	// held. The suspended task's settlement must not run inline there.
	opened := make(chan struct{})
	go func() {
		h.Action("Open").Call(click())
		close(opened)
	}()
	select {
	case <-opened:
	case <-time.After(2 * time.Second):
		t.Fatal("resolving a pending future inside an action handler blocked the engine")
	}

	deadline := time.After(2 * time.Second)
	for {
		state, _ := app.StateOf(app.RootID())
		if state.(map[string]any)["done"].(bool) {
			return
		}
		select {
		case <-patched:
		case <-deadline:
			t.Fatal("suspended task never settled")
		}
	}
}

func TestPerformResolvingAnotherTasksGate(t *testing.T) {
	app := New(nil)

	gate := NewFuture()
	var h Helpers
	def := func(hh Helpers) Config {
		h = hh
		return Config{
			State: func(any) any { return map[string]any{"done": false} },
			Actions: map[string]ActionFunc{
				"Done": func(p any, ctx Context) (any, Next) {
					return map[string]any{"done": true}, Next{}
				},
			},
			Tasks: map[string]TaskFunc{
				"Wait": func(p any) Task {
					return Task{
						Perform: func() (any, error) { return gate, nil },
						Success: func(v any, ctx Context) Next {
							return One(h.Action("Done"))
						},
					}
				},
				"Kick": func(p any) Task {
					return Task{
						Perform: func() (any, error) {
							gate.Resolve("go")
							return nil, nil
						},
					}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("x") },
		}
	}
	app.Mount(def, nil, nil)

	h.Task("Wait").Call(click())

	kicked := make(chan struct{})
	go func() {
		h.Task("Kick").Call(click())
		close(kicked)
	}()
	select {
	case <-kicked:
	case <-time.After(2 * time.Second):
		t.Fatal("a task Perform resolving another task's gate blocked the engine")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		state, _ := app.StateOf(app.RootID())
		if state.(map[string]any)["done"].(bool) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("gated task never settled")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTaskSettlingAfterTeardownIsNoOp(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	gate := NewFuture()
	var rootH Helpers
	var childThunk *Thunk
	childDef := func(h Helpers) Config {
		childThunk = h.Task("Load")
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Actions: map[string]ActionFunc{
				"Done": func(p any, ctx Context) (any, Next) {
					return map[string]any{"count": 99}, Next{}
				},
			},
			Tasks: map[string]TaskFunc{
				"Load": func(p any) Task {
					return Task{
						Perform: func() (any, error) { return gate, nil },
						Success: func(v any, ctx Context) Next {
							return One(h.Action("Done"))
						},
					}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("child") },
		}
	}
	root := func(h Helpers) Config {
		rootH = h
		return Config{
			State: func(any) any { return map[string]any{"show": true} },
			Actions: map[string]ActionFunc{
				"Hide": func(p any, ctx Context) (any, Next) {
					return map[string]any{"show": false}, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode {
				node := &vdom.VNode{Kind: vdom.KindElement, Tag: "div"}
				if ctx.State.(map[string]any)["show"].(bool) {
					node.Children = append(node.Children, h.Component("child", childDef, nil))
				}
				return node
			},
		}
	}
	app.Mount(root, nil, nil)

	childThunk.Call(click())
	rootH.Action("Hide").Call(click())
	if _, ok := app.StateOf("child"); ok {
		t.Fatal("child should be torn down before the gate settles")
	}
	before := patcher.calls

	patched := make(chan struct{}, 8)
	app.Bus().Subscribe(EventPatch, func(any) { patched <- struct{}{} })

	gate.Resolve("late")

	// The orphaned settlement must neither resurrect the instance nor
	// produce a patch.
	select {
	case <-patched:
		t.Fatal("late settlement of a torn-down instance produced a patch")
	case <-time.After(300 * time.Millisecond):
	}
	if _, ok := app.StateOf("child"); ok {
		t.Error("late settlement resurrected the torn-down instance")
	}
	if patcher.calls != before {
		t.Errorf("expected no patches after teardown, got %d", patcher.calls-before)
	}
}

func TestInitDirtyingSiblingPublishesOnce(t *testing.T) {
	patcher := &countingPatcher{}
	app := New(patcher)

	var aH, bH Helpers
	bDef := func(h Helpers) Config {
		bH = h
		return Config{
			State: func(any) any { return map[string]any{"count": 0} },
			Actions: map[string]ActionFunc{
				"Bump": func(p any, ctx Context) (any, Next) {
					n := ctx.State.(map[string]any)["count"].(int)
					return map[string]any{"count": n + 1}, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("b") },
		}
	}
	kidDef := func(h Helpers) Config {
		return Config{
			Init: One(bH.Action("Bump")),
			View: func(id string, ctx Context) *vdom.VNode { return vdom.Text("kid") },
		}
	}
	aDef := func(h Helpers) Config {
		aH = h
		return Config{
			State: func(any) any { return map[string]any{"show": false} },
			Actions: map[string]ActionFunc{
				"Show": func(p any, ctx Context) (any, Next) {
					return map[string]any{"show": true}, Next{}
				},
			},
			View: func(id string, ctx Context) *vdom.VNode {
				node := &vdom.VNode{Kind: vdom.KindElement, Tag: "div"}
				if ctx.State.(map[string]any)["show"].(bool) {
					node.Children = append(node.Children, h.Component("a-kid", kidDef, nil))
				}
				return node
			},
		}
	}
	root := func(h Helpers) Config {
		return Config{
			View: func(id string, ctx Context) *vdom.VNode {
				return &vdom.VNode{
					Kind: vdom.KindElement,
					Tag:  "div",
					Children: []*vdom.VNode{
						h.Component("a", aDef, nil),
						h.Component("b", bDef, nil),
					},
				}
			},
		}
	}
	app.Mount(root, nil, nil)

	publishes := 0
	app.Bus().Subscribe(EventPatch, func(any) { publishes++ })
	before := patcher.calls

	// Showing the kid creates it mid-pass; its Init bumps b, which lies
	// outside a's subtree and so renders on a second loop turn.
	aH.Action("Show").Call(click())

	if publishes != 1 {
		t.Errorf("one unit of work must publish exactly once, got %d", publishes)
	}
	if got := patcher.calls - before; got != 2 {
		t.Errorf("expected a's pass and b's pass, got %d patches", got)
	}
	if got := count(t, app, "b"); got != 1 {
		t.Errorf("init continuation did not reach the sibling, count = %d", got)
	}
}
