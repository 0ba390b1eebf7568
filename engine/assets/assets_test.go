package assets

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/jobs"
)

func init() {
	core.SetLogOutput(io.Discard)
}

// textLoader returns file contents as a string.
type textLoader struct {
	calls atomic.Int32
}

func (l *textLoader) Load(_ *LoadContext, data []byte) (interface{}, error) {
	l.calls.Add(1)
	return string(data), nil
}

func (l *textLoader) Extensions() []string { return []string{".txt"} }

// refLoader reads a list of paths and depends on each of them.
type refLoader struct{}

type refs struct {
	Targets []Handle[string]
}

func (refLoader) Load(ctx *LoadContext, data []byte) (interface{}, error) {
	var r refs
	for _, line := range strings.Fields(string(data)) {
		r.Targets = append(r.Targets, LoadDependency[string](ctx, line))
	}
	return &r, nil
}

func (refLoader) Extensions() []string { return []string{".ref"} }

func newTestServer(t *testing.T, fsys fstest.MapFS, d Dispatcher) *Server {
	t.Helper()
	s, err := NewServer(ServerConfig{FS: fsys, Dispatcher: d})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := s.RegisterLoader(&textLoader{}); err != nil {
		t.Fatalf("RegisterLoader: %v", err)
	}
	if err := s.RegisterLoader(refLoader{}); err != nil {
		t.Fatalf("RegisterLoader: %v", err)
	}
	return s
}

func TestHandleID(t *testing.T) {
	a := IDFromPath("meshes/cube.mesh")
	b := IDFromPath("./meshes//cube.mesh")
	c := IDFromPath(`meshes\cube.mesh`)
	if a != b || a != c {
		t.Fatalf("IDFromPath: equivalent paths gave different ids\n%v\n%v\n%v", a, b, c)
	}
	if a == IDFromPath("meshes/sphere.mesh") {
		t.Fatal("IDFromPath: different paths gave the same id")
	}
	if p := CleanPath("/a/../b/c.txt"); p != "b/c.txt" {
		t.Fatalf("CleanPath:\nhave %q\nwant %q", p, "b/c.txt")
	}
}

func TestLoadInline(t *testing.T) {
	s := newTestServer(t, fstest.MapFS{
		"hello.txt": {Data: []byte("hello")},
	}, nil)

	h := Load[string](s, "hello.txt")
	if h.IsZero() {
		t.Fatal("Load: zero handle")
	}
	if st := s.State(h.ID); st != Loaded {
		t.Fatalf("State:\nhave %v\nwant %v", st, Loaded)
	}
	v, ok := Get(s, h)
	if !ok || v != "hello" {
		t.Fatalf("Get:\nhave %q, %t\nwant %q, true", v, ok, "hello")
	}

	// A second load of the same path is a no-op.
	h2 := Load[string](s, "./hello.txt")
	if h2 != h {
		t.Fatalf("Load twice:\nhave %v\nwant %v", h2, h)
	}
	if info, _ := s.Info(h.ID); info.Generation != 1 {
		t.Fatalf("Info.Generation:\nhave %d\nwant 1", info.Generation)
	}

	// Wrong type parameter reports not-ready instead of panicking.
	if _, ok := Get(s, Handle[int]{ID: h.ID}); ok {
		t.Fatal("Get with wrong type: have ok")
	}
}

func TestLoadFailures(t *testing.T) {
	s := newTestServer(t, fstest.MapFS{
		"model.obj": {Data: []byte("v 0 0 0")},
	}, nil)

	missing := Load[string](s, "missing.txt")
	if st := s.State(missing.ID); st != Failed {
		t.Fatalf("State(missing):\nhave %v\nwant %v", st, Failed)
	}
	if err := s.Err(missing.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Err(missing):\nhave %v\nwant %v", err, core.ErrNotFound)
	}

	unknown := Load[string](s, "model.obj")
	if err := s.Err(unknown.ID); !errors.Is(err, core.ErrNoLoader) {
		t.Fatalf("Err(unknown):\nhave %v\nwant %v", err, core.ErrNoLoader)
	}
	if _, ok := Get(s, unknown); ok {
		t.Fatal("Get(unknown): have ok")
	}
}

func TestRegisterLoaderTwice(t *testing.T) {
	s := newTestServer(t, fstest.MapFS{}, nil)
	if err := s.RegisterLoader(&textLoader{}); err == nil {
		t.Fatal("RegisterLoader: duplicate extension accepted")
	}
}

func TestLoadAsync(t *testing.T) {
	js, err := jobs.NewJobSystem(2, 1)
	if err != nil {
		t.Fatalf("NewJobSystem: %v", err)
	}
	defer js.Shutdown()

	fsys := fstest.MapFS{
		"scene.ref": {Data: []byte("a.txt b.txt c.txt")},
		"a.txt":     {Data: []byte("a")},
		"b.txt":     {Data: []byte("b")},
		"c.txt":     {Data: []byte("c")},
	}
	s := newTestServer(t, fsys, js)

	h := Load[*refs](s, "scene.ref")
	s.WaitIdle()

	r, ok := Get(s, h)
	if !ok {
		t.Fatalf("Get(scene.ref): not loaded, err %v", s.Err(h.ID))
	}
	want := []string{"a", "b", "c"}
	for i, th := range r.Targets {
		v, ok := Get(s, th)
		if !ok || v != want[i] {
			t.Fatalf("Get(%s):\nhave %q, %t\nwant %q, true", th.Path, v, ok, want[i])
		}
	}
	if deps := s.Dependencies(h.ID); len(deps) != 3 {
		t.Fatalf("Dependencies:\nhave %d\nwant 3", len(deps))
	}

	events := s.DrainEvents()
	if len(events) != 4 {
		t.Fatalf("DrainEvents:\nhave %d events\nwant 4", len(events))
	}
	if n := len(s.DrainEvents()); n != 0 {
		t.Fatalf("DrainEvents after drain:\nhave %d\nwant 0", n)
	}
}

func TestReloadDependents(t *testing.T) {
	fsys := fstest.MapFS{
		"scene.ref": {Data: []byte("a.txt")},
		"a.txt":     {Data: []byte("one")},
		"other.txt": {Data: []byte("other")},
	}
	s := newTestServer(t, fsys, nil)

	scene := Load[*refs](s, "scene.ref")
	other := Load[string](s, "other.txt")
	a := Handle[string]{ID: IDFromPath("a.txt"), Path: "a.txt"}

	if d := s.Dependents(a.ID); len(d) != 1 || d[0] != scene.ID {
		t.Fatalf("Dependents(a.txt):\nhave %v\nwant [%v]", d, scene.ID)
	}

	fsys["a.txt"] = &fstest.MapFile{Data: []byte("two")}
	s.Reload("a.txt")

	if v, _ := Get(s, a); v != "two" {
		t.Fatalf("Get(a.txt) after reload:\nhave %q\nwant %q", v, "two")
	}
	if info, _ := s.Info(scene.ID); info.Generation != 2 {
		t.Fatalf("scene.ref generation:\nhave %d\nwant 2", info.Generation)
	}
	if info, _ := s.Info(other.ID); info.Generation != 1 {
		t.Fatalf("other.txt generation:\nhave %d\nwant 1", info.Generation)
	}
}

func TestAddInMemory(t *testing.T) {
	s := newTestServer(t, fstest.MapFS{}, nil)
	h := Add(s, "generated/value.txt", "value")
	if v, ok := Get(s, h); !ok || v != "value" {
		t.Fatalf("Get:\nhave %q, %t\nwant %q, true", v, ok, "value")
	}
	// In-memory assets have no file to reload from.
	s.Reload("generated/value.txt")
	if st := s.State(h.ID); st != Loaded {
		t.Fatalf("State after Reload:\nhave %v\nwant %v", st, Loaded)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "watched.txt")
	if err := os.WriteFile(file, []byte("before"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewServer(ServerConfig{Root: dir})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := s.RegisterLoader(&textLoader{}); err != nil {
		t.Fatal(err)
	}
	h := Load[string](s, "watched.txt")
	if err := s.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer s.Shutdown()

	if err := os.WriteFile(file, []byte("after"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if v, _ := Get(s, h); v == "after" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	v, _ := Get(s, h)
	t.Fatalf("watched asset not reloaded:\nhave %q\nwant %q", v, "after")
}

func TestShutdownTwice(t *testing.T) {
	s := newTestServer(t, fstest.MapFS{}, nil)
	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := s.Shutdown(); !errors.Is(err, core.ErrClosed) {
		t.Fatalf("Shutdown twice:\nhave %v\nwant %v", err, core.ErrClosed)
	}
}
