package vdom

import "strconv"

// HIDGenerator hands out monotonically increasing host IDs.
// IDs are never reused within one generator, so a node inserted by a later
// patch can never collide with a node already in the document.
type HIDGenerator struct {
	counter uint64
}

// NewHIDGenerator creates a fresh generator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next host ID.
func (g *HIDGenerator) Next() string {
	g.counter++
	return "h" + strconv.FormatUint(g.counter, 10)
}

// Assign walks the tree and gives every element node without a host ID a
// fresh one. Nodes that already carry an HID (inherited from a previous
// tree during Diff) keep it.
func (g *HIDGenerator) Assign(node *VNode) {
	Walk(node, func(n *VNode) {
		if n.Kind == KindElement && n.HID == "" {
			n.HID = g.Next()
		}
	})
}
