package vdom

import (
	"fmt"
	"strings"
)

// Diff compares two trees and returns the patches needed to transform prev
// into next. Matched next nodes inherit the HID of their prev counterpart so
// that host IDs stay stable across renders.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diff(prev, next, "", &patches)
	return patches
}

// diff recursively compares nodes and appends patches.
// parentHID is the HID of the enclosing element, used for text patches and
// as the insertion parent for added children.
func diff(prev, next *VNode, parentHID string, patches *[]Patch) {
	if prev == nil && next == nil {
		return
	}

	// Node added (emitted by the parent via InsertNode).
	if prev == nil {
		return
	}

	// Node removed.
	if next == nil {
		*patches = append(*patches, Patch{
			Op:   PatchRemoveNode,
			HID:  prev.HID,
			Prev: prev,
		})
		return
	}

	if prev.Kind != next.Kind {
		*patches = append(*patches, Patch{
			Op:   PatchReplaceNode,
			HID:  prev.HID,
			Node: next,
			Prev: prev,
		})
		return
	}

	switch prev.Kind {
	case KindText, KindRaw:
		diffText(prev, next, parentHID, patches)
	case KindElement:
		diffElement(prev, next, patches)
	}
}

// diffText compares text and raw nodes.
func diffText(prev, next *VNode, parentHID string, patches *[]Patch) {
	next.HID = prev.HID

	if prev.Text != next.Text {
		// Text nodes usually have no HID of their own; the client updates
		// the parent's textContent instead.
		targetHID := prev.HID
		if targetHID == "" {
			targetHID = parentHID
		}
		if targetHID != "" {
			*patches = append(*patches, Patch{
				Op:    PatchSetText,
				HID:   targetHID,
				Value: next.Text,
			})
		}
	}
}

// diffElement compares element nodes.
func diffElement(prev, next *VNode, patches *[]Patch) {
	// Different tag or different key: replace the whole node.
	if prev.Tag != next.Tag || prev.Key != next.Key {
		*patches = append(*patches, Patch{
			Op:   PatchReplaceNode,
			HID:  prev.HID,
			Node: next,
			Prev: prev,
		})
		return
	}

	next.HID = prev.HID

	diffAttrs(prev, next, patches)
	diffChildren(prev, next, patches)
}

// diffAttrs compares the non-handler props of two elements.
// Event handler props ("on"-prefixed) never produce patches; the host
// rebuilds its handler registry from the new tree after every patch.
func diffAttrs(prev, next *VNode, patches *[]Patch) {
	for key, nextVal := range next.Props {
		if strings.HasPrefix(key, "on") {
			continue
		}
		prevVal, existed := prev.Props[key]
		if !existed || attrString(prevVal) != attrString(nextVal) {
			*patches = append(*patches, Patch{
				Op:    PatchSetAttr,
				HID:   next.HID,
				Key:   key,
				Value: attrString(nextVal),
			})
		}
	}

	for key := range prev.Props {
		if strings.HasPrefix(key, "on") {
			continue
		}
		if _, kept := next.Props[key]; !kept {
			*patches = append(*patches, Patch{
				Op:  PatchRemoveAttr,
				HID: next.HID,
				Key: key,
			})
		}
	}
}

// diffChildren compares child lists. Children with keys are matched by key;
// the rest are matched by position among the unkeyed children.
func diffChildren(prev, next *VNode, patches *[]Patch) {
	prevKeyed := keyedChildren(prev)

	// Pair each next child with a prev child, by key when present.
	matched := make(map[*VNode]bool, len(prev.Children))
	pairs := make([]*VNode, len(next.Children)) // prev counterpart per next child

	pi := 0
	for i, child := range next.Children {
		if child == nil {
			continue
		}
		if child.Key != "" {
			if p, ok := prevKeyed[child.Key]; ok {
				pairs[i] = p
				matched[p] = true
			}
			continue
		}
		// Positional match against the next unmatched unkeyed prev child.
		for pi < len(prev.Children) {
			cand := prev.Children[pi]
			pi++
			if cand == nil || cand.Key != "" || matched[cand] {
				continue
			}
			pairs[i] = cand
			matched[cand] = true
			break
		}
	}

	// Removals first so the client frees slots before inserts.
	for _, child := range prev.Children {
		if child != nil && !matched[child] {
			diff(child, nil, next.HID, patches)
		}
	}

	for i, child := range next.Children {
		if child == nil {
			continue
		}
		if pairs[i] == nil {
			*patches = append(*patches, Patch{
				Op:       PatchInsertNode,
				ParentID: next.HID,
				Index:    i,
				Node:     child,
			})
			continue
		}
		diff(pairs[i], child, next.HID, patches)
	}
}

// keyedChildren indexes the keyed children of a node by key.
func keyedChildren(node *VNode) map[string]*VNode {
	var keyed map[string]*VNode
	for _, child := range node.Children {
		if child == nil || child.Key == "" {
			continue
		}
		if keyed == nil {
			keyed = make(map[string]*VNode)
		}
		keyed[child.Key] = child
	}
	return keyed
}

// attrString normalizes an attribute value for comparison and transport.
func attrString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(val)
	}
}
