package vdom

import "testing"

func TestIsInteractive(t *testing.T) {
	if !elem("button", Props{"onclick": "x"}).IsInteractive() {
		t.Error("element with onclick should be interactive")
	}
	if elem("div", Props{"class": "x"}).IsInteractive() {
		t.Error("element without handlers should not be interactive")
	}
	if Text("hi").IsInteractive() {
		t.Error("text nodes are never interactive")
	}
	var nilNode *VNode
	if nilNode.IsInteractive() {
		t.Error("nil node should not be interactive")
	}
}

func TestWithKey(t *testing.T) {
	n := WithKey("row-3", elem("tr", nil))
	if n.Key != "row-3" {
		t.Errorf("key not set: %q", n.Key)
	}
	if WithKey("x", nil) != nil {
		t.Error("WithKey(nil) should return nil")
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("br") || !IsVoidElement("input") {
		t.Error("br and input are void elements")
	}
	if IsVoidElement("div") {
		t.Error("div is not a void element")
	}
}

func TestWalkOrder(t *testing.T) {
	tree := elem("a", nil,
		elem("b", nil, elem("c", nil)),
		elem("d", nil),
	)

	var tags []string
	Walk(tree, func(n *VNode) { tags = append(tags, n.Tag) })

	want := []string{"a", "b", "c", "d"}
	if len(tags) != len(want) {
		t.Fatalf("visited %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("visited %v, want %v", tags, want)
		}
	}
}
