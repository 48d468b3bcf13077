package engine

import (
	"reflect"
	"sync"
)

// EventPatch is the reserved bus notification type published after every
// completed patch.
const EventPatch = "patch"

// BusFunc is a bus listener. Listener identity for Unsubscribe is the
// function's code pointer, so subscribe and unsubscribe must be given the
// same function value.
type BusFunc func(detail any)

// Bus is a generic notification bus. The engine publishes the reserved
// "patch" type itself; applications are free to publish their own types.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]busEntry
}

type busEntry struct {
	id uintptr
	fn BusFunc
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]busEntry),
	}
}

// Subscribe registers fn for notifications of the given type.
// Subscribing the same function twice for one type is a no-op.
func (b *Bus) Subscribe(typ string, fn BusFunc) {
	if fn == nil {
		return
	}
	id := reflect.ValueOf(fn).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, entry := range b.subs[typ] {
		if entry.id == id {
			return
		}
	}
	b.subs[typ] = append(b.subs[typ], busEntry{id: id, fn: fn})
}

// Unsubscribe removes fn from the given type's listeners.
func (b *Bus) Unsubscribe(typ string, fn BusFunc) {
	if fn == nil {
		return
	}
	id := reflect.ValueOf(fn).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.subs[typ]
	for i, entry := range entries {
		if entry.id == id {
			b.subs[typ] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Publish notifies every listener of typ with detail.
// Listeners are copied before notification so a listener may subscribe or
// unsubscribe without deadlocking.
func (b *Bus) Publish(typ string, detail any) {
	b.mu.RLock()
	entries := make([]busEntry, len(b.subs[typ]))
	copy(entries, b.subs[typ])
	b.mu.RUnlock()

	for _, entry := range entries {
		entry.fn(detail)
	}
}
