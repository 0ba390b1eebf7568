package systems

import (
	"fmt"

	"github.com/yohamta/donburi"
)

// DescriptorKind names one kind of short-lived descriptor component.
type DescriptorKind uint8

const (
	MeshKind DescriptorKind = iota
	MaterialKind
	RigidBodyKind
	ColliderKind
	CollectionKind
)

func (k DescriptorKind) String() string {
	switch k {
	case MeshKind:
		return "mesh"
	case MaterialKind:
		return "material"
	case RigidBodyKind:
		return "rigid_body"
	case ColliderKind:
		return "collider"
	case CollectionKind:
		return "collection"
	default:
		return fmt.Sprintf("DescriptorKind(%d)", uint8(k))
	}
}

// Report is what one resolver did during a read phase.
type Report struct {
	Resolved int
	Errs     []error
}

// Resolver turns every pending descriptor of its kind into runtime
// components. Resolve must only read the world; all changes go through the
// command buffer.
type Resolver interface {
	Kind() DescriptorKind
	Resolve(w donburi.World, cb *CommandBuffer) Report
}

// EntityError is a resolution failure confined to one entity.
type EntityError struct {
	Entity donburi.Entity
	Kind   DescriptorKind
	Err    error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("resolve %s on entity %v: %v", e.Kind, e.Entity, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// Registry maps each descriptor kind to its resolver. It is built once and
// only read afterwards.
type Registry struct {
	resolvers map[DescriptorKind]Resolver
	order     []DescriptorKind
}

func NewRegistry(resolvers ...Resolver) (*Registry, error) {
	r := &Registry{
		resolvers: make(map[DescriptorKind]Resolver, len(resolvers)),
	}
	for _, res := range resolvers {
		kind := res.Kind()
		if _, exists := r.resolvers[kind]; exists {
			return nil, fmt.Errorf("resolver for %s already registered", kind)
		}
		r.resolvers[kind] = res
		r.order = append(r.order, kind)
	}
	return r, nil
}

func (r *Registry) Resolver(kind DescriptorKind) (Resolver, bool) {
	res, ok := r.resolvers[kind]
	return res, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []DescriptorKind {
	return append([]DescriptorKind(nil), r.order...)
}
