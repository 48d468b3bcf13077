package vdom

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText     PatchOp = 0x01 // Update text content
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchInsertNode  PatchOp = 0x04 // Insert new node
	PatchRemoveNode  PatchOp = 0x05 // Remove node
	PatchReplaceNode PatchOp = 0x06 // Replace node entirely
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	default:
		return "Unknown"
	}
}

// Patch represents a single host-document operation to apply.
type Patch struct {
	Op       PatchOp `json:"op"`
	HID      string  `json:"hid"`                // Target element's host ID
	Key      string  `json:"key,omitempty"`      // Attribute key (SetAttr/RemoveAttr)
	Value    string  `json:"value,omitempty"`    // New value
	Node     *VNode  `json:"-"`                  // For InsertNode/ReplaceNode
	Prev     *VNode  `json:"-"`                  // Outgoing node for RemoveNode/ReplaceNode
	HTML     string  `json:"html,omitempty"`     // Rendered form of Node, filled by the host
	Index    int     `json:"index,omitempty"`    // Insert position
	ParentID string  `json:"parentId,omitempty"` // Parent for InsertNode
}
