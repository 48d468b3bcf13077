package vdom

// Lifecycle hook names understood by the Applier.
const (
	// HookDestroy fires after a patch removes the node from the tree.
	HookDestroy = "destroy"

	// HookInsert fires after a patch inserts the node into the tree.
	HookInsert = "insert"
)

// SetHook attaches a lifecycle callback to node under the given hook name
// and returns the same node. A second SetHook with the same name replaces
// the previous callback.
func SetHook(node *VNode, name string, fn func()) *VNode {
	if node == nil || fn == nil {
		return node
	}
	if node.hooks == nil {
		node.hooks = make(map[string]func(), 1)
	}
	node.hooks[name] = fn
	return node
}

// Hook returns the callback registered under name, or nil.
func Hook(node *VNode, name string) func() {
	if node == nil {
		return nil
	}
	return node.hooks[name]
}

// fireHook invokes the named hook on node, if registered.
func fireHook(node *VNode, name string) {
	if fn := Hook(node, name); fn != nil {
		fn()
	}
}

// fireHookDeep invokes the named hook on node and all descendants.
func fireHookDeep(node *VNode, name string) {
	Walk(node, func(n *VNode) {
		fireHook(n, name)
	})
}
