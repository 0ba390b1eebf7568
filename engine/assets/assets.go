package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/containers"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/jobs"
)

type LoadState uint8

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", uint8(s))
	}
}

// Event reports that a load finished, successfully or not. Events are
// queued by the loading goroutines and drained on the tick goroutine.
type Event struct {
	ID    uuid.UUID
	Path  string
	State LoadState
	Err   error
}

type AssetInfo struct {
	Path       string
	State      LoadState
	Generation uint32
	LastLoaded time.Time
	Err        error
}

// Dispatcher runs load jobs off the calling goroutine.
type Dispatcher interface {
	AddWorkNonBlocking(jobs.JobTask)
}

type ServerConfig struct {
	// Root is the asset directory on disk. It is required for Watch and is
	// used as the file system when FS is nil.
	Root string
	FS   fs.FS
	// Dispatcher runs loads asynchronously. When nil, loads complete inside
	// the Load call.
	Dispatcher     Dispatcher
	EventQueueSize int
}

type assetEntry struct {
	path         string
	state        LoadState
	value        interface{}
	err          error
	generation   uint32
	lastLoaded   time.Time
	dependencies []uuid.UUID
	inMemory     bool
}

// Server owns every loaded asset. It is safe for concurrent use.
type Server struct {
	root       string
	fsys       fs.FS
	dispatcher Dispatcher

	mutex      sync.RWMutex
	assets     map[uuid.UUID]*assetEntry
	dependents map[uuid.UUID]map[uuid.UUID]struct{}
	loaders    map[string]Loader

	inflight sync.WaitGroup

	eventsMu sync.Mutex
	events   *containers.RingQueue[Event]

	watchMu  sync.Mutex
	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewServer(cfg ServerConfig) (*Server, error) {
	fsys := cfg.FS
	if fsys == nil {
		if cfg.Root == "" {
			return nil, errors.New("assets: either Root or FS is required")
		}
		fsys = os.DirFS(cfg.Root)
	}
	size := cfg.EventQueueSize
	if size <= 0 {
		size = 64
	}
	return &Server{
		root:       cfg.Root,
		fsys:       fsys,
		dispatcher: cfg.Dispatcher,
		assets:     make(map[uuid.UUID]*assetEntry),
		dependents: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		loaders:    make(map[string]Loader),
		events:     containers.NewRingQueue[Event](size),
	}, nil
}

// RegisterLoader routes the loader's extensions to it. An extension can only
// be claimed once.
func (s *Server) RegisterLoader(loader Loader) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, ext := range loader.Extensions() {
		ext = strings.ToLower(ext)
		if _, exists := s.loaders[ext]; exists {
			return fmt.Errorf("assets: loader for extension '%s' already registered", ext)
		}
	}
	for _, ext := range loader.Extensions() {
		s.loaders[strings.ToLower(ext)] = loader
	}
	return nil
}

func (s *Server) loaderFor(p string) (Loader, error) {
	ext := strings.ToLower(path.Ext(p))
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	loader, ok := s.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w for extension '%s'", core.ErrNoLoader, ext)
	}
	return loader, nil
}

// Load requests the asset at p and returns its handle without waiting.
// Loading an asset that is already loading, loaded or failed is a no-op.
func Load[T any](s *Server, p string) Handle[T] {
	p = CleanPath(p)
	return Handle[T]{ID: s.load(p), Path: p}
}

// Add stores an in-memory asset under p, replacing whatever was there.
func Add[T any](s *Server, p string, value T) Handle[T] {
	p = CleanPath(p)
	id := IDFromPath(p)
	s.mutex.Lock()
	e, ok := s.assets[id]
	if !ok {
		e = &assetEntry{path: p}
		s.assets[id] = e
	}
	e.generation++
	e.state = Loaded
	e.value = value
	e.err = nil
	e.inMemory = true
	e.lastLoaded = time.Now()
	s.mutex.Unlock()

	s.pushEvent(Event{ID: id, Path: p, State: Loaded})
	return Handle[T]{ID: id, Path: p}
}

// Get returns the asset behind h once it has loaded.
func Get[T any](s *Server, h Handle[T]) (T, bool) {
	var zero T
	v, ok := s.get(h.ID)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

func (s *Server) get(id uuid.UUID) (interface{}, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	e, ok := s.assets[id]
	if !ok || e.state != Loaded {
		return nil, false
	}
	return e.value, true
}

func (s *Server) State(id uuid.UUID) LoadState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if e, ok := s.assets[id]; ok {
		return e.state
	}
	return NotLoaded
}

// Err returns the error of a failed load.
func (s *Server) Err(id uuid.UUID) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if e, ok := s.assets[id]; ok {
		return e.err
	}
	return nil
}

func (s *Server) Info(id uuid.UUID) (AssetInfo, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	e, ok := s.assets[id]
	if !ok {
		return AssetInfo{}, false
	}
	return AssetInfo{
		Path:       e.path,
		State:      e.state,
		Generation: e.generation,
		LastLoaded: e.lastLoaded,
		Err:        e.err,
	}, true
}

// Dependencies returns the assets id depended on when it last loaded.
func (s *Server) Dependencies(id uuid.UUID) []uuid.UUID {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	e, ok := s.assets[id]
	if !ok {
		return nil
	}
	return append([]uuid.UUID(nil), e.dependencies...)
}

// Dependents returns the assets that declared id as a dependency.
func (s *Server) Dependents(id uuid.UUID) []uuid.UUID {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]uuid.UUID, 0, len(s.dependents[id]))
	for d := range s.dependents[id] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Len returns the number of known assets in any state.
func (s *Server) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.assets)
}

// WaitIdle blocks until every load issued so far, including dependency
// loads, has finished.
func (s *Server) WaitIdle() {
	s.inflight.Wait()
}

// Reload invalidates p and everything that depends on it, then loads them
// again.
func (s *Server) Reload(p string) {
	for _, dp := range s.invalidate(IDFromPath(p)) {
		s.load(dp)
	}
}

func (s *Server) invalidate(id uuid.UUID) []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var paths []string
	visited := make(map[uuid.UUID]bool)
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		e, ok := s.assets[cur]
		if !ok || e.inMemory {
			continue
		}
		e.state = NotLoaded
		paths = append(paths, e.path)
		for d := range s.dependents[cur] {
			queue = append(queue, d)
		}
	}
	return paths
}

func (s *Server) load(p string) uuid.UUID {
	id := IDFromPath(p)

	s.mutex.Lock()
	e, ok := s.assets[id]
	if ok && e.state != NotLoaded {
		s.mutex.Unlock()
		return id
	}
	if !ok {
		e = &assetEntry{path: p}
		s.assets[id] = e
	}
	e.state = Loading
	e.generation++
	gen := e.generation
	s.inflight.Add(1)
	s.mutex.Unlock()

	s.dispatch(id, p, gen)
	return id
}

func (s *Server) dispatch(id uuid.UUID, p string, gen uint32) {
	if s.dispatcher == nil {
		value, deps, err := s.read(p)
		s.finish(id, gen, value, deps, err)
		return
	}

	var value interface{}
	var deps []UntypedHandle
	s.dispatcher.AddWorkNonBlocking(jobs.JobTask{
		Name: "load " + p,
		OnStart: func() (err error) {
			value, deps, err = s.read(p)
			return err
		},
		OnComplete: func() {
			s.finish(id, gen, value, deps, nil)
		},
		OnFailure: func(err error) {
			s.finish(id, gen, nil, nil, err)
		},
	})
}

func (s *Server) read(p string) (interface{}, []UntypedHandle, error) {
	loader, err := s.loaderFor(p)
	if err != nil {
		return nil, nil, err
	}
	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", core.ErrNotFound, p)
		}
		return nil, nil, err
	}
	lc := &LoadContext{path: p, server: s}
	value, err := loader.Load(lc, data)
	if err != nil {
		return nil, nil, fmt.Errorf("load '%s': %w", p, err)
	}
	return value, lc.dependencies, nil
}

func (s *Server) finish(id uuid.UUID, gen uint32, value interface{}, deps []UntypedHandle, err error) {
	defer s.inflight.Done()

	s.mutex.Lock()
	e, ok := s.assets[id]
	if !ok || e.generation != gen {
		// A newer load superseded this one.
		s.mutex.Unlock()
		return
	}
	for _, d := range e.dependencies {
		delete(s.dependents[d], id)
	}
	e.dependencies = nil
	if err != nil {
		e.state = Failed
		e.value = nil
		e.err = err
	} else {
		e.state = Loaded
		e.value = value
		e.err = nil
		e.lastLoaded = time.Now()
		for _, d := range deps {
			e.dependencies = append(e.dependencies, d.ID)
			if s.dependents[d.ID] == nil {
				s.dependents[d.ID] = make(map[uuid.UUID]struct{})
			}
			s.dependents[d.ID][id] = struct{}{}
		}
	}
	p, state := e.path, e.state
	s.mutex.Unlock()

	if err != nil {
		core.LogError("failed to load asset '%s': %s", p, err)
	} else {
		core.LogDebug("asset '%s' loaded (%d dependencies)", p, len(deps))
	}
	s.pushEvent(Event{ID: id, Path: p, State: state, Err: err})
}

func (s *Server) pushEvent(ev Event) {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	if s.events.IsFull() {
		s.events.Grow()
	}
	// Cannot fail after Grow.
	_ = s.events.Enqueue(ev)
}

// DrainEvents returns and clears the queued load events in completion order.
func (s *Server) DrainEvents() []Event {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	out := make([]Event, 0, s.events.Len())
	for !s.events.IsEmpty() {
		ev, _ := s.events.Dequeue()
		out = append(out, ev)
	}
	return out
}

// Watch reloads assets, and the assets depending on them, when their files
// change below Root.
func (s *Server) Watch() error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.root == "" {
		return errors.New("assets: cannot watch without a root directory")
	}
	if s.isClosed {
		return core.ErrClosed
	}
	if s.fsnotify != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.fsnotify = w
	s.done = make(chan struct{})
	if err := s.watchRecursive(s.root, false); err != nil {
		w.Close()
		s.fsnotify = nil
		return err
	}
	go s.start(w, s.done)
	return nil
}

// Shutdown stops the watcher. Loads already queued still complete.
func (s *Server) Shutdown() error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.isClosed {
		return core.ErrClosed
	}
	s.isClosed = true
	if s.done != nil {
		close(s.done)
	}
	return nil
}

func (s *Server) start(w *fsnotify.Watcher, done chan struct{}) {
	for {
		select {

		case e, ok := <-w.Events:
			if !ok {
				return
			}
			st, err := os.Stat(e.Name)
			if err == nil && st != nil && st.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := s.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("failed to watch '%s': %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				s.handleFileEvent(e.Name)
			}
			if e.Op&fsnotify.Remove != 0 {
				// The name may have been a directory; removing an unknown
				// watch is harmless.
				_ = w.Remove(e.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-done:
			w.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (s *Server) watchRecursive(dir string, unWatch bool) error {
	return filepath.WalkDir(dir, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if unWatch {
			return s.fsnotify.Remove(walkPath)
		}
		return s.fsnotify.Add(walkPath)
	})
}

// handleFileEvent reloads a changed file if it is a known asset.
func (s *Server) handleFileEvent(name string) {
	rel, err := filepath.Rel(s.root, name)
	if err != nil {
		return
	}
	p := CleanPath(filepath.ToSlash(rel))
	id := IDFromPath(p)

	s.mutex.RLock()
	_, known := s.assets[id]
	s.mutex.RUnlock()
	if !known {
		return
	}
	core.LogInfo("asset '%s' changed, reloading", p)
	s.Reload(p)
}
