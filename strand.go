// Package strand provides the public API for the Strand component engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/strand-dev/strand"
//
// Usage:
//
//	func Counter(h strand.Helpers) strand.Config {
//		return strand.Config{
//			State: func(props any) any { return 0 },
//			Actions: map[string]strand.ActionFunc{
//				"inc": func(p any, ctx strand.Context) (any, strand.Next) {
//					return ctx.State.(int) + 1, strand.Next{}
//				},
//			},
//			View: func(id string, ctx strand.Context) *strand.VNode {
//				return el.Button(el.OnClick(h.Action("inc")),
//					el.Textf("count: %d", ctx.State.(int)))
//			},
//		}
//	}
//
//	app := strand.NewApp(nil)
//	app.Mount(Counter, nil, nil)
package strand

import (
	"github.com/strand-dev/strand/pkg/engine"
	"github.com/strand-dev/strand/pkg/host"
	"github.com/strand-dev/strand/pkg/vdom"
)

// Component model (re-export from pkg/engine)

// Def is a component definition.
type Def = engine.Def

// Config is the configuration returned by a component definition.
type Config = engine.Config

// Helpers are the dispatch helpers bound to one instance.
type Helpers = engine.Helpers

// Context is the read-only view handed to handlers and views.
type Context = engine.Context

// ActionFunc is a pure state-transition handler.
type ActionFunc = engine.ActionFunc

// TaskFunc builds a Task from a dispatch payload.
type TaskFunc = engine.TaskFunc

// Task is an isolated side-effect container.
type Task = engine.Task

// Next is a continuation of deferred dispatch work.
type Next = engine.Next

// Thunk is a memoized deferred-invocation handle.
type Thunk = engine.Thunk

// One wraps a single thunk as a continuation.
var One = engine.One

// Seq wraps an ordered thunk list as a continuation.
var Seq = engine.Seq

// Engine (re-export from pkg/engine)

// App is one engine instance.
type App = engine.App

// Option configures an App.
type Option = engine.Option

// Patcher applies rendered differences to a host document.
type Patcher = engine.Patcher

// RunAction triggers root actions from outside the component tree.
type RunAction = engine.RunAction

// NewApp creates an engine instance that patches through p.
var NewApp = engine.New

// WithLogger sets an App's logger.
var WithLogger = engine.WithLogger

// WithRootID overrides an App's root instance id.
var WithRootID = engine.WithRootID

// Futures

// Future is a deferred task outcome.
type Future = engine.Future

// NewFuture creates an unsettled Future.
var NewFuture = engine.NewFuture

// Go runs fn on a new goroutine and returns the Future of its outcome.
var Go = engine.Go

// Sentinel errors

var (
	ErrDuplicateID      = engine.ErrDuplicateID
	ErrManualInvocation = engine.ErrManualInvocation
	ErrFrozenMutation   = engine.ErrFrozenMutation
)

// Rendering (re-export from pkg/vdom)

// VNode is the virtual render-tree node.
type VNode = vdom.VNode

// DOMEvent is the decoded form of a host-document event.
type DOMEvent = vdom.DOMEvent

// Hosting (re-export from pkg/host)

// Host serves component trees over HTTP and WebSocket.
type Host = host.Host

// NewHost creates a Host serving the given root definition.
var NewHost = host.New
