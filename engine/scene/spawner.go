package scene

import (
	"sync"

	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/component"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/assets"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/components"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
)

// InstanceID identifies one spawn request and the entities it produced.
type InstanceID = uuid.UUID

type spawnKey struct {
	parent    donburi.Entity
	hasParent bool
	path      string
}

type spawnRequest struct {
	id        InstanceID
	handle    assets.Handle[*Document]
	parent    donburi.Entity
	hasParent bool
}

// Spawner instantiates scene documents once they have loaded. Requests are
// queued from any goroutine; Update must run on the goroutine that owns the
// world.
type Spawner struct {
	server *assets.Server

	mu        sync.Mutex
	pending   []spawnRequest
	byKey     map[spawnKey]InstanceID
	instances map[InstanceID][]donburi.Entity
}

func NewSpawner(server *assets.Server) *Spawner {
	return &Spawner{
		server:    server,
		byKey:     make(map[spawnKey]InstanceID),
		instances: make(map[InstanceID][]donburi.Entity),
	}
}

// Spawn queues h to be instantiated as children of parent. Asking again for
// the same document under the same parent returns the first instance.
func (s *Spawner) Spawn(h assets.Handle[*Document], parent donburi.Entity) InstanceID {
	return s.spawn(h, parent, true)
}

// SpawnRoot queues h to be instantiated without a parent.
func (s *Spawner) SpawnRoot(h assets.Handle[*Document]) InstanceID {
	return s.spawn(h, 0, false)
}

func (s *Spawner) spawn(h assets.Handle[*Document], parent donburi.Entity, hasParent bool) InstanceID {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := spawnKey{parent: parent, hasParent: hasParent, path: h.Path}
	if id, ok := s.byKey[key]; ok {
		return id
	}
	id := uuid.New()
	s.byKey[key] = id
	s.pending = append(s.pending, spawnRequest{id: id, handle: h, parent: parent, hasParent: hasParent})
	return id
}

// Pending returns the number of requests still waiting on their document.
func (s *Spawner) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Entities returns the entities spawned for id, nil while still pending.
func (s *Spawner) Entities(id InstanceID) []donburi.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]donburi.Entity(nil), s.instances[id]...)
}

// Update instantiates every request whose document is ready and returns how
// many instances were spawned. Failed documents are dropped.
func (s *Spawner) Update(w donburi.World) int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	var keep []spawnRequest
	spawned := 0
	for _, req := range pending {
		if req.hasParent && !w.Valid(req.parent) {
			core.LogWarn("dropping scene '%s': parent entity no longer exists", req.handle.Path)
			continue
		}
		switch s.server.State(req.handle.ID) {
		case assets.Loaded:
			doc, ok := assets.Get(s.server, req.handle)
			if !ok {
				core.LogError("scene '%s' is not a scene document", req.handle.Path)
				continue
			}
			entities := instantiate(w, doc, req)
			s.mu.Lock()
			s.instances[req.id] = entities
			s.mu.Unlock()
			spawned++
			core.LogDebug("spawned scene '%s' (%d entities)", req.handle.Path, len(entities))
		case assets.Failed:
			core.LogError("failed to spawn scene '%s': %s", req.handle.Path, s.server.Err(req.handle.ID))
		default:
			keep = append(keep, req)
		}
	}

	if len(keep) > 0 {
		s.mu.Lock()
		s.pending = append(keep, s.pending...)
		s.mu.Unlock()
	}
	return spawned
}

func instantiate(w donburi.World, doc *Document, req spawnRequest) []donburi.Entity {
	entities := make([]donburi.Entity, len(doc.Entities))
	for i, rec := range doc.Entities {
		ctypes := []component.IComponentType{components.TransformComponent}
		if rec.Label != "" {
			ctypes = append(ctypes, components.LabelComponent)
		}
		if rec.Mesh != nil {
			ctypes = append(ctypes, components.MeshLoaderComponent)
		}
		if rec.Material != nil {
			ctypes = append(ctypes, components.MaterialLoaderComponent)
		}
		if rec.Collection != nil {
			ctypes = append(ctypes, components.CollectionLoaderComponent)
		}
		if rec.RigidBody != nil {
			ctypes = append(ctypes, components.RigidBodyDescriptionComponent)
		}
		if rec.Collider != nil {
			ctypes = append(ctypes, components.ColliderDescriptionComponent)
		}

		e := w.Create(ctypes...)
		entry := w.Entry(e)
		components.TransformComponent.SetValue(entry, rec.Transform.Transform())
		if rec.Label != "" {
			components.LabelComponent.SetValue(entry, components.Label{Name: rec.Label})
		}
		if rec.Mesh != nil {
			components.MeshLoaderComponent.SetValue(entry, *rec.Mesh)
		}
		if rec.Material != nil {
			components.MaterialLoaderComponent.SetValue(entry, *rec.Material)
		}
		if rec.Collection != nil {
			components.CollectionLoaderComponent.SetValue(entry, *rec.Collection)
		}
		if rec.RigidBody != nil {
			components.RigidBodyDescriptionComponent.SetValue(entry, *rec.RigidBody)
		}
		if rec.Collider != nil {
			components.ColliderDescriptionComponent.SetValue(entry, *rec.Collider)
		}
		entities[i] = e

		switch {
		case rec.Parent != nil:
			link(w, entities[*rec.Parent], e)
		case req.hasParent:
			link(w, req.parent, e)
		}
	}
	return entities
}

// link records the hierarchy on both ends.
func link(w donburi.World, parent, child donburi.Entity) {
	childEntry := w.Entry(child)
	donburi.Add(childEntry, components.ParentComponent, &components.Parent{Entity: parent})

	parentEntry := w.Entry(parent)
	if !parentEntry.HasComponent(components.ChildrenComponent) {
		donburi.Add(parentEntry, components.ChildrenComponent, &components.Children{})
	}
	children := components.ChildrenComponent.Get(parentEntry)
	children.Entities = append(children.Entities, child)
}
