package engine

import "errors"

// ErrDuplicateID is the panic value raised when two live instances are
// requested with the same id within a single render pass. Instance ids
// must be unique per pass; reusing one is a programming error, not a
// runtime condition to recover from.
var ErrDuplicateID = errors.New("strand: duplicate component id in render pass")

// ErrManualInvocation is the panic value raised when a thunk is called
// with an argument that is neither a document event, the engine's private
// dispatch token, nor a curry-able payload. Direct programmatic invocation
// would bypass the batching guarantees and is disallowed; external code
// triggers root actions through the runner handed to Mount's init callback.
var ErrManualInvocation = errors.New("strand: thunk invoked outside the document event or engine dispatch path")

// ErrFrozenMutation is the panic value raised when a handler mutates the
// state, props, or root-state snapshot it was handed. Handlers must treat
// their context as frozen and return new values to signal change.
var ErrFrozenMutation = errors.New("strand: state or props mutated by handler")
