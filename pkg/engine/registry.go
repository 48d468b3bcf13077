package engine

import (
	"github.com/strand-dev/strand/pkg/vdom"
)

// Instance is one live, uniquely-ided occurrence of a component definition
// in the current tree. Instances are owned exclusively by the registry and
// mutated only by the dispatch executor and the scheduler.
type Instance struct {
	// ID is the instance's tree-unique id.
	ID string

	// Config is the configuration the definition produced for this id.
	Config Config

	// State is the current state snapshot. Replaced, never mutated.
	State any

	// Props is the props snapshot from the latest render pass.
	Props any

	// PrevProps is the props snapshot the previous pass rendered with.
	PrevProps any

	// Node is the instance's last rendered node.
	Node *vdom.VNode

	// Root marks the designated root instance.
	Root bool

	// children are the ids of the component instances this instance
	// requested during its most recent render, in render order. They form
	// the adjacency used for synchronous post-patch teardown detection.
	children []string
}

// registry is the single source of truth for which instances currently
// exist. It is owned by one App and never shared.
type registry struct {
	instances map[string]*Instance
}

func newRegistry() *registry {
	return &registry{
		instances: make(map[string]*Instance),
	}
}

func (r *registry) get(id string) (*Instance, bool) {
	inst, ok := r.instances[id]
	return inst, ok
}

func (r *registry) set(id string, inst *Instance) {
	r.instances[id] = inst
}

func (r *registry) delete(id string) {
	delete(r.instances, id)
}

func (r *registry) reset() {
	r.instances = make(map[string]*Instance)
}

// reach returns the set of instance ids reachable from id through the
// recorded parent/child adjacency, including id itself.
func (r *registry) reach(id string) map[string]struct{} {
	out := make(map[string]struct{})
	var visit func(string)
	visit = func(cur string) {
		if _, seen := out[cur]; seen {
			return
		}
		inst, ok := r.instances[cur]
		if !ok {
			return
		}
		out[cur] = struct{}{}
		for _, child := range inst.children {
			visit(child)
		}
	}
	visit(id)
	return out
}
