package host

import (
	"encoding/json"
	"fmt"

	"github.com/strand-dev/strand/pkg/vdom"
)

// Frame types on the wire. Every websocket message is one JSON frame.
const (
	// FramePatch carries document operations, server to client.
	FramePatch = "patch"

	// FrameEvent carries a document event, client to server.
	FrameEvent = "event"

	// FramePing and FramePong keep the connection alive.
	FramePing = "ping"
	FramePong = "pong"

	// FrameError reports a server-side problem to the client.
	FrameError = "error"
)

// Frame is the wire envelope for all websocket traffic.
type Frame struct {
	Type string `json:"type"`

	// Seq numbers patch frames per session so the client can detect gaps.
	Seq uint64 `json:"seq,omitempty"`

	// Ops are the document operations of a patch frame.
	Ops []vdom.Patch `json:"ops,omitempty"`

	// Event is the payload of an event frame.
	Event *EventPayload `json:"event,omitempty"`

	// Message is the human-readable text of an error frame.
	Message string `json:"message,omitempty"`
}

// EventPayload is the client's encoding of a document event.
type EventPayload struct {
	// HID is the host ID of the element the event fired on.
	HID string `json:"hid"`

	// Name is the event name without the "on" prefix ("click", "input").
	Name string `json:"name"`

	Value   string `json:"value,omitempty"`
	Checked bool   `json:"checked,omitempty"`
	Key     string `json:"key,omitempty"`

	ClientX int `json:"clientX,omitempty"`
	ClientY int `json:"clientY,omitempty"`

	CtrlKey  bool `json:"ctrlKey,omitempty"`
	ShiftKey bool `json:"shiftKey,omitempty"`
	AltKey   bool `json:"altKey,omitempty"`
	MetaKey  bool `json:"metaKey,omitempty"`
}

// DOMEvent converts the wire payload to the engine's event shape.
func (p *EventPayload) DOMEvent() *vdom.DOMEvent {
	return &vdom.DOMEvent{
		Type:     p.Name,
		HID:      p.HID,
		Value:    p.Value,
		Checked:  p.Checked,
		Key:      p.Key,
		ClientX:  p.ClientX,
		ClientY:  p.ClientY,
		CtrlKey:  p.CtrlKey,
		ShiftKey: p.ShiftKey,
		AltKey:   p.AltKey,
		MetaKey:  p.MetaKey,
	}
}

// EncodeFrame serializes a frame for the wire.
func EncodeFrame(f Frame) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("strand: encoding %s frame: %w", f.Type, err)
	}
	return data, nil
}

// DecodeFrame parses a wire message into a frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("strand: decoding frame: %w", err)
	}
	if f.Type == "" {
		return Frame{}, fmt.Errorf("strand: frame missing type")
	}
	if f.Type == FrameEvent && f.Event == nil {
		return Frame{}, fmt.Errorf("strand: event frame missing event payload")
	}
	return f, nil
}
