package vdom

import (
	"fmt"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
	KindRaw                  // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual render-tree node.
type VNode struct {
	Kind     VKind           // Node type
	Tag      string          // Element tag name (e.g., "div")
	Props    Props           // Attributes and event handlers
	Children []*VNode        // Child nodes
	Key      string          // Reconciliation key
	Text     string          // For KindText and KindRaw
	HID      string          // Host ID (assigned by the applier/renderer)
	hooks    map[string]func()
}

// Props holds attributes and event handlers.
// Event handler keys start with "on" (e.g., "onclick"); their values are
// opaque to this package and are interpreted by the host.
type Props map[string]any

// IsInteractive returns true if this node has event handlers attached.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler binding.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Opaque handler (a thunk, for engine-driven trees)
}

// WithKey attaches a reconciliation key to node and returns the same node.
func WithKey(key string, node *VNode) *VNode {
	if node != nil {
		node.Key = key
	}
	return node
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a text node with fmt.Sprintf formatting.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Walk visits node and all of its descendants in depth-first order.
// The visit function may not modify the tree structure.
func Walk(node *VNode, visit func(*VNode)) {
	if node == nil {
		return
	}
	visit(node)
	for _, child := range node.Children {
		Walk(child, visit)
	}
}
