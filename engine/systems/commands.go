package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/component"
)

type pendingCommands struct {
	entity  donburi.Entity
	removes []component.IComponentType
	inserts []func(*donburi.Entry)
}

// CommandBuffer records structural changes while queries iterate and
// applies them afterwards. Changes are grouped per entity in the order the
// entities were first touched; removals run before insertions.
type CommandBuffer struct {
	order    []donburi.Entity
	commands map[donburi.Entity]*pendingCommands
}

func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{
		commands: make(map[donburi.Entity]*pendingCommands),
	}
}

func (cb *CommandBuffer) forEntity(e donburi.Entity) *pendingCommands {
	pc, ok := cb.commands[e]
	if !ok {
		pc = &pendingCommands{entity: e}
		cb.commands[e] = pc
		cb.order = append(cb.order, e)
	}
	return pc
}

// Remove schedules ctype to be removed from e. Removing a component the
// entity does not have is a no-op.
func (cb *CommandBuffer) Remove(e donburi.Entity, ctype component.IComponentType) {
	pc := cb.forEntity(e)
	pc.removes = append(pc.removes, ctype)
}

// Insert schedules value to be attached to e, overwriting an existing
// component of the same type.
func Insert[T any](cb *CommandBuffer, e donburi.Entity, ctype *donburi.ComponentType[T], value T) {
	pc := cb.forEntity(e)
	pc.inserts = append(pc.inserts, func(entry *donburi.Entry) {
		if entry.HasComponent(ctype) {
			ctype.SetValue(entry, value)
			return
		}
		donburi.Add(entry, ctype, &value)
	})
}

// Len returns the number of entities with pending commands.
func (cb *CommandBuffer) Len() int {
	return len(cb.order)
}

// Commit applies and clears every recorded command. Entities destroyed
// since recording are skipped. It returns the number of entities changed.
func (cb *CommandBuffer) Commit(w donburi.World) int {
	applied := 0
	for _, e := range cb.order {
		pc := cb.commands[e]
		if !w.Valid(e) {
			continue
		}
		entry := w.Entry(e)
		for _, ctype := range pc.removes {
			if entry.HasComponent(ctype) {
				entry.RemoveComponent(ctype)
			}
		}
		for _, insert := range pc.inserts {
			insert(entry)
		}
		applied++
	}
	cb.order = cb.order[:0]
	clear(cb.commands)
	return applied
}
