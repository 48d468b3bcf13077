// Package engine implements the strand reactive runtime: a registry of
// uniquely-identified component instances, memoized action/task thunks, a
// dispatch executor, and a batching scheduler that collapses an arbitrary
// cascade of triggered work into the minimum number of document patches.
//
// # Components
//
// A component is declared as a Def: a factory that receives dispatch
// helpers and returns a Config holding a state initializer, pure action
// handlers, isolated task containers, and a view function:
//
//	counter := func(h engine.Helpers) engine.Config {
//	    return engine.Config{
//	        State: func(props any) any { return map[string]any{"count": 0} },
//	        Actions: map[string]engine.ActionFunc{
//	            "Increment": func(p any, ctx engine.Context) (any, engine.Next) {
//	                n := ctx.State.(map[string]any)["count"].(int)
//	                return map[string]any{"count": n + 1}, engine.Next{}
//	            },
//	        },
//	        View: func(id string, ctx engine.Context) *vdom.VNode {
//	            return el.Button(el.OnClick(h.Action("Increment")),
//	                el.Textf("%d", ctx.State.(map[string]any)["count"]))
//	        },
//	    }
//	}
//
// Handlers never perform effects directly; they declare follow-up work by
// returning a Next continuation (one thunk or an ordered list). The
// scheduler resolves continuations depth-first and renders affected
// instances exactly once per externally triggered unit of work.
//
// # Batching
//
// An external event (a document interaction, mount, or a settled task
// future) opens a unit of work. However many actions and tasks fire
// synchronously inside it, the engine performs at most one patch when the
// unit completes, then publishes the reserved "patch" bus notification.
//
// # Immutability
//
// State and props handed to user code are contractually read-only. The
// engine fingerprints each snapshot at the dispatch boundary and panics
// with ErrFrozenMutation if a handler wrote into it; handlers signal
// change by returning a new value (identity comparison, not structural).
package engine
