package el

import "github.com/strand-dev/strand/pkg/vdom"

// Text creates a text node.
func Text(content string) *VNode { return vdom.Text(content) }

// Textf creates a text node with fmt.Sprintf formatting.
func Textf(format string, args ...any) *VNode { return vdom.Textf(format, args...) }

// Raw creates an unescaped HTML node. Use with caution.
func Raw(html string) *VNode { return vdom.Raw(html) }

// If returns node when condition is true, nil otherwise.
// Nil children are dropped by element constructors.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns ifTrue when condition is true, ifFalse otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When lazily builds node only when condition is true. Useful when the
// builder dereferences state that is absent in the false branch.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps items to child nodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	nodes := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Repeat builds n child nodes.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	nodes := make([]*VNode, 0, n)
	for i := 0; i < n; i++ {
		if node := fn(i); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}
