// Package host serves engine-driven component trees over HTTP and
// WebSocket.
//
// Each page load creates a session with its own engine instance. The
// first paint is delivered as server-rendered HTML; after the thin
// client connects its websocket, document events flow up as event
// frames and unit-of-work results flow down as patch frames.
package host
