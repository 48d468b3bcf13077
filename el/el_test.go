package el

import (
	"testing"

	"github.com/strand-dev/strand/pkg/vdom"
)

func TestBuilderArgHandling(t *testing.T) {
	child := Span("inner")
	node := Div(
		ID("root"),
		Class("one", "two"),
		nil,
		"hello",
		child,
		OnClick("handler"),
	)

	if node.Tag != "div" || node.Kind != vdom.KindElement {
		t.Fatalf("unexpected node %+v", node)
	}
	if node.Props["id"] != "root" {
		t.Errorf("id = %v", node.Props["id"])
	}
	if node.Props["class"] != "one two" {
		t.Errorf("class = %v", node.Props["class"])
	}
	if node.Props["onclick"] != "handler" {
		t.Errorf("onclick = %v", node.Props["onclick"])
	}
	if len(node.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(node.Children))
	}
	if node.Children[0].Kind != vdom.KindText || node.Children[0].Text != "hello" {
		t.Errorf("string arg should become a text child, got %+v", node.Children[0])
	}
	if node.Children[1] != child {
		t.Error("VNode arg should be appended as child")
	}
}

func TestBuilderAttrSlicesAndChildSlices(t *testing.T) {
	attrs := []Attr{Type("text"), Placeholder("name")}
	kids := []*VNode{Li("a"), nil, Li("b")}

	input := Input(attrs)
	if input.Props["type"] != "text" || input.Props["placeholder"] != "name" {
		t.Errorf("attr slice not applied: %v", input.Props)
	}

	list := Ul(kids)
	if len(list.Children) != 2 {
		t.Errorf("nil children should be dropped, got %d", len(list.Children))
	}
}

func TestKeyAttrSetsReconciliationKey(t *testing.T) {
	node := Li(Key("row-7"), "item")
	if node.Key != "row-7" {
		t.Errorf("Key = %q", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key must not leak into props")
	}
}

func TestBooleanAttrsOmittedWhenFalse(t *testing.T) {
	on := Input(Disabled(true))
	if on.Props["disabled"] != true {
		t.Errorf("disabled = %v", on.Props["disabled"])
	}

	off := Input(Disabled(false))
	if _, ok := off.Props["disabled"]; ok {
		t.Error("Disabled(false) should produce no attribute")
	}
}

func TestConditionalHelpers(t *testing.T) {
	if If(false, Div()) != nil {
		t.Error("If(false) should be nil")
	}
	if If(true, nil) != nil {
		t.Error("If(true, nil) should be nil")
	}

	a, b := Span("a"), Span("b")
	if IfElse(true, a, b) != a || IfElse(false, a, b) != b {
		t.Error("IfElse picked the wrong branch")
	}

	called := false
	if When(false, func() *VNode { called = true; return Div() }) != nil || called {
		t.Error("When(false) must not call the builder")
	}
}

func TestRange(t *testing.T) {
	items := []string{"x", "y", "z"}
	nodes := Range(items, func(item string, i int) *VNode {
		return Li(Key(item), Textf("%d:%s", i, item))
	})
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if nodes[1].Key != "y" {
		t.Errorf("key = %q", nodes[1].Key)
	}
	if nodes[2].Children[0].Text != "2:z" {
		t.Errorf("text = %q", nodes[2].Children[0].Text)
	}
}

func TestEventHelpersPrefix(t *testing.T) {
	if OnInput("h").Event != "oninput" {
		t.Errorf("OnInput event = %q", OnInput("h").Event)
	}
	if OnSubmit("h").Event != "onsubmit" {
		t.Errorf("OnSubmit event = %q", OnSubmit("h").Event)
	}
	if !Button(OnClick("h")).IsInteractive() {
		t.Error("node with handler should be interactive")
	}
}
