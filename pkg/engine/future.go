package engine

import "sync"

// Future is the engine's promise analogue: a value that settles exactly
// once, either resolved or rejected. A task's Perform returns a Future to
// suspend the task; when the future settles, the task's Success or
// Failure continuation runs as a new unit of work with its own patch.
type Future struct {
	mu      sync.Mutex
	settled bool
	value   any
	err     error
	subs    []func(any, error)
}

// NewFuture creates an unsettled future.
func NewFuture() *Future {
	return &Future{}
}

// Go runs fn on its own goroutine and returns a future that settles with
// fn's result. This is the usual way a task wraps blocking work:
//
//	Perform: func() (any, error) {
//	    return engine.Go(func() (any, error) {
//	        return client.Fetch(url)
//	    }), nil
//	}
func Go(fn func() (any, error)) *Future {
	f := NewFuture()
	go func() {
		v, err := fn()
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

// Resolved returns a future already settled with value.
func Resolved(value any) *Future {
	f := NewFuture()
	f.Resolve(value)
	return f
}

// Rejected returns a future already settled with err.
func Rejected(err error) *Future {
	f := NewFuture()
	f.Reject(err)
	return f
}

// Resolve settles the future with a value. Settling twice is a no-op.
func (f *Future) Resolve(value any) {
	f.settle(value, nil)
}

// Reject settles the future with an error. Settling twice is a no-op.
func (f *Future) Reject(err error) {
	f.settle(nil, err)
}

// Settled reports whether the future has settled.
func (f *Future) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

func (f *Future) settle(value any, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value = value
	f.err = err
	subs := f.subs
	f.subs = nil
	f.mu.Unlock()

	// Callbacks run off the resolving goroutine. Resolve is often called
	// from inside a unit of work (a task's Perform, an action handler),
	// and each callback re-enters the engine; running it inline there
	// would self-deadlock on the app lock.
	if len(subs) > 0 {
		go func() {
			for _, fn := range subs {
				fn(value, err)
			}
		}()
	}
}

// onSettle registers fn to run once the future settles. Settlement
// callbacks are always asynchronous, both with respect to the registering
// call and to the settling call, so a future resolved inside Perform or
// an action handler cannot re-enter the engine while the current unit of
// work still holds it.
func (f *Future) onSettle(fn func(any, error)) {
	f.mu.Lock()
	if !f.settled {
		f.subs = append(f.subs, fn)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()
	go fn(value, err)
}
