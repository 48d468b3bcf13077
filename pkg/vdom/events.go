package vdom

// DOMEvent is the decoded form of a host-document event.
//
// The engine recognizes a *DOMEvent argument as proof that a thunk
// invocation originated from the document rather than from user code,
// and it is the only event shape handlers ever observe via their context.
type DOMEvent struct {
	// Type is the event name without the "on" prefix ("click", "input", ...).
	Type string

	// HID is the host ID of the element the event fired on.
	HID string

	// Value carries the target's value for input/change/submit events.
	Value string

	// Checked carries the target's checked state for checkbox inputs.
	Checked bool

	// Key is the key value for keyboard events (e.g., "Enter").
	Key string

	// Position relative to viewport, for mouse events.
	ClientX int
	ClientY int

	// Modifier keys.
	CtrlKey  bool
	ShiftKey bool
	AltKey   bool
	MetaKey  bool
}
