package vdom

import "testing"

// elem builds an element node for tests.
func elem(tag string, props Props, children ...*VNode) *VNode {
	return &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    props,
		Children: children,
	}
}

func TestDiffIdenticalTreesProduceNoPatches(t *testing.T) {
	build := func() *VNode {
		return elem("div", Props{"class": "box"}, Text("hello"))
	}
	prev := build()
	NewHIDGenerator().Assign(prev)

	patches := Diff(prev, build())
	if len(patches) != 0 {
		t.Errorf("expected no patches, got %v", patches)
	}
}

func TestDiffTextChange(t *testing.T) {
	prev := elem("span", nil, Text("before"))
	NewHIDGenerator().Assign(prev)
	next := elem("span", nil, Text("after"))

	patches := Diff(prev, next)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(patches))
	}
	p := patches[0]
	if p.Op != PatchSetText || p.Value != "after" {
		t.Errorf("unexpected patch %+v", p)
	}
	if p.HID != prev.HID {
		t.Errorf("text patch should target parent %q, got %q", prev.HID, p.HID)
	}
}

func TestDiffHIDInheritance(t *testing.T) {
	prev := elem("div", nil, elem("span", nil))
	NewHIDGenerator().Assign(prev)
	next := elem("div", nil, elem("span", nil))

	Diff(prev, next)

	if next.HID != prev.HID {
		t.Errorf("root HID not inherited: %q vs %q", next.HID, prev.HID)
	}
	if next.Children[0].HID != prev.Children[0].HID {
		t.Errorf("child HID not inherited: %q vs %q",
			next.Children[0].HID, prev.Children[0].HID)
	}
}

func TestDiffAttrSetAndRemove(t *testing.T) {
	prev := elem("input", Props{"type": "text", "disabled": true})
	NewHIDGenerator().Assign(prev)
	next := elem("input", Props{"type": "text", "placeholder": "name"})

	patches := Diff(prev, next)
	if len(patches) != 2 {
		t.Fatalf("expected 2 patches, got %d: %v", len(patches), patches)
	}

	var sawSet, sawRemove bool
	for _, p := range patches {
		switch p.Op {
		case PatchSetAttr:
			sawSet = true
			if p.Key != "placeholder" || p.Value != "name" {
				t.Errorf("unexpected SetAttr %+v", p)
			}
		case PatchRemoveAttr:
			sawRemove = true
			if p.Key != "disabled" {
				t.Errorf("unexpected RemoveAttr %+v", p)
			}
		}
	}
	if !sawSet || !sawRemove {
		t.Errorf("missing ops in %v", patches)
	}
}

func TestDiffIgnoresHandlerProps(t *testing.T) {
	prev := elem("button", Props{"onclick": "a"})
	NewHIDGenerator().Assign(prev)
	next := elem("button", Props{"onclick": "b"})

	if patches := Diff(prev, next); len(patches) != 0 {
		t.Errorf("handler props must not produce patches, got %v", patches)
	}
}

func TestDiffChildInsert(t *testing.T) {
	prev := elem("ul", nil, elem("li", nil))
	NewHIDGenerator().Assign(prev)
	next := elem("ul", nil, elem("li", nil), elem("li", nil))

	patches := Diff(prev, next)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d: %v", len(patches), patches)
	}
	p := patches[0]
	if p.Op != PatchInsertNode || p.ParentID != prev.HID || p.Index != 1 {
		t.Errorf("unexpected insert patch %+v", p)
	}
	if p.Node != next.Children[1] {
		t.Error("insert patch should carry the new node")
	}
}

func TestDiffChildRemove(t *testing.T) {
	prev := elem("ul", nil, elem("li", nil), elem("li", nil))
	NewHIDGenerator().Assign(prev)
	next := elem("ul", nil, elem("li", nil))

	patches := Diff(prev, next)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d: %v", len(patches), patches)
	}
	p := patches[0]
	if p.Op != PatchRemoveNode || p.HID != prev.Children[1].HID {
		t.Errorf("unexpected remove patch %+v", p)
	}
	if p.Prev != prev.Children[1] {
		t.Error("remove patch should carry the outgoing node")
	}
}

func TestDiffTagChangeReplaces(t *testing.T) {
	prev := elem("div", nil)
	NewHIDGenerator().Assign(prev)
	next := elem("section", nil)

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != PatchReplaceNode {
		t.Fatalf("expected one ReplaceNode, got %v", patches)
	}
	if patches[0].HID != prev.HID || patches[0].Node != next {
		t.Errorf("unexpected replace patch %+v", patches[0])
	}
}

func TestDiffKeyedReorder(t *testing.T) {
	item := func(key string) *VNode {
		return WithKey(key, elem("li", Props{"data-k": key}))
	}
	prev := elem("ul", nil, item("a"), item("b"), item("c"))
	NewHIDGenerator().Assign(prev)
	next := elem("ul", nil, item("c"), item("a"), item("b"))

	Diff(prev, next)

	// Keyed children keep their identity across reorders.
	if next.Children[0].HID != prev.Children[2].HID {
		t.Errorf("key c lost its HID: %q vs %q",
			next.Children[0].HID, prev.Children[2].HID)
	}
	if next.Children[1].HID != prev.Children[0].HID {
		t.Errorf("key a lost its HID: %q vs %q",
			next.Children[1].HID, prev.Children[0].HID)
	}
}

func TestDiffKeyedRemoval(t *testing.T) {
	item := func(key string) *VNode {
		return WithKey(key, elem("li", nil))
	}
	prev := elem("ul", nil, item("a"), item("b"), item("c"))
	NewHIDGenerator().Assign(prev)
	next := elem("ul", nil, item("a"), item("c"))

	patches := Diff(prev, next)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d: %v", len(patches), patches)
	}
	if patches[0].Op != PatchRemoveNode || patches[0].HID != prev.Children[1].HID {
		t.Errorf("unexpected patch %+v", patches[0])
	}
}

func TestAttrStringNormalization(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
	}
	for _, c := range cases {
		if got := attrString(c.in); got != c.want {
			t.Errorf("attrString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
