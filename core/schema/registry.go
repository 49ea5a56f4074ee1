package schema

import (
	"github.com/tristendillon/capnp-stubgen/core/errors"
)

// Registry holds every module of a generation run, keyed by the global
// identity of its root node. It is populated once before any generation
// begins and is read-only afterward; writers only ever consult it.
type Registry struct {
	modules map[uint64]*Module
	order   []uint64
}

// NewRegistry returns an empty module registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[uint64]*Module)}
}

// Add registers a module under its root node identity.
func (r *Registry) Add(module *Module) error {
	id := module.Root.ID
	if existing, ok := r.modules[id]; ok {
		return errors.Newf("module %s and %s share the root node id %d", existing.Path, module.Path, id)
	}

	r.modules[id] = module
	r.order = append(r.order, id)
	return nil
}

// Modules returns all registered modules in registration order.
func (r *Registry) Modules() []*Module {
	modules := make([]*Module, 0, len(r.order))
	for _, id := range r.order {
		modules = append(modules, r.modules[id])
	}
	return modules
}

// Len is the number of registered modules.
func (r *Registry) Len() int {
	return len(r.order)
}

// FindNode scans all modules for a node with the given identity and returns
// the node together with its owning module.
func (r *Registry) FindNode(id uint64) (*Node, *Module, bool) {
	for _, moduleID := range r.order {
		module := r.modules[moduleID]
		if node, ok := module.Node(id); ok {
			return node, module, true
		}
	}
	return nil, nil, false
}

// DeclaringModules returns every module whose root lists the given identity
// among its direct nested children. Import resolution requires exactly one.
func (r *Registry) DeclaringModules(id uint64) []*Module {
	var matches []*Module
	for _, moduleID := range r.order {
		module := r.modules[moduleID]
		for _, nested := range module.Root.NestedNodes {
			if nested.ID == id {
				matches = append(matches, module)
				break
			}
		}
	}
	return matches
}
