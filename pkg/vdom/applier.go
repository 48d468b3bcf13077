package vdom

// Applier is the default patch collaborator. It diffs the previous and next
// trees, assigns host IDs to newly inserted elements, fires destroy hooks
// for removed nodes, and hands the resulting operations to a sink.
//
// The sink typically belongs to a host session that encodes the operations
// for a thin client. A nil sink is allowed; the Applier then only maintains
// HIDs and hooks, which is enough for in-process use.
type Applier struct {
	gen  *HIDGenerator
	sink func([]Patch)
}

// NewApplier creates an Applier feeding ops to sink. sink may be nil.
func NewApplier(sink func([]Patch)) *Applier {
	return &Applier{
		gen:  NewHIDGenerator(),
		sink: sink,
	}
}

// Patch implements the collaborator contract consumed by the engine.
// prev is nil on the very first render; the whole tree is treated as new
// and no operations are emitted, since the host delivers the first paint
// as rendered HTML rather than as patches.
func (ap *Applier) Patch(prev, next *VNode) {
	if prev == nil {
		ap.gen.Assign(next)
		return
	}

	ops := Diff(prev, next)

	// Matched nodes inherited their HIDs during Diff; everything still
	// blank was inserted by this patch.
	ap.gen.Assign(next)
	for i := range ops {
		if ops[i].Node != nil {
			ap.gen.Assign(ops[i].Node)
		}
	}

	for i := range ops {
		switch ops[i].Op {
		case PatchRemoveNode, PatchReplaceNode:
			fireHookDeep(ops[i].Prev, HookDestroy)
		case PatchInsertNode:
			fireHookDeep(ops[i].Node, HookInsert)
		}
	}

	if ap.sink != nil && len(ops) > 0 {
		ap.sink(ops)
	}
}
