package actions

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// Registry is an immutable name → action mapping for one flow.
type Registry struct {
	order  []Name
	byName map[Name]Action
}

// NewRegistry indexes the given actions. A duplicate name is a programming
// error and panics.
func NewRegistry(list ...Action) *Registry {
	r := &Registry{
		order:  make([]Name, 0, len(list)),
		byName: make(map[Name]Action, len(list)),
	}
	for _, a := range list {
		if _, dup := r.byName[a.Name()]; dup {
			panic(fmt.Sprintf("actions: duplicate action %q", a.Name()))
		}
		r.order = append(r.order, a.Name())
		r.byName[a.Name()] = a
	}
	return r
}

// Lookup resolves a model-supplied function name.
func (r *Registry) Lookup(name string) (Action, bool) {
	a, ok := r.byName[Name(name)]
	return a, ok
}

// Infos returns the schemas to advertise to the model, in registration order.
func (r *Registry) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, n := range r.order {
		infos = append(infos, r.byName[n].Info())
	}
	return infos
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []Name {
	out := make([]Name, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int { return len(r.order) }
