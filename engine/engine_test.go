package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/components"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/config"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/math"
	"github.com/sdfgeoff/blender-bevy-toolkit/engine/physics"
)

func init() {
	core.SetLogOutput(io.Discard)
}

func shapeBytes(fs ...float32) string {
	var parts []string
	for _, f := range fs {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], gomath.Float32bits(f))
		for _, v := range b {
			parts = append(parts, strconv.Itoa(int(v)))
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func level(shapeTag int) []byte {
	return []byte(fmt.Sprintf(`
[[entity]]
label = "Floor"
[entity.transform]
translation = [1, 2, 3]
[entity.rigid_body]
body_status = 1
[entity.collider]
collider_shape = %d
collider_shape_data = %s
`, shapeTag, shapeBytes(5, 0.1, 5)))
}

func newEngine(t *testing.T, data []byte, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Engine.TickRate = 1000
	cfg.Engine.MaxTicks = 3
	cfg.Assets.Workers = 0
	cfg.Scene.Root = "level.scn"
	if mutate != nil {
		mutate(cfg)
	}
	e, err := New(&ApplicationConfig{
		Name:    "test",
		Config:  cfg,
		AssetFS: fstest.MapFS{"level.scn": {Data: data}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return e
}

func TestRun(t *testing.T) {
	e := newEngine(t, level(2), nil)
	var ticks int
	e.app.FnOnTick = func(w donburi.World, _ time.Duration) error {
		ticks++
		return nil
	}
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ticks != 3 || e.Ticks() != 3 {
		t.Fatalf("ticks:\nhave %d (%d)\nwant 3", ticks, e.Ticks())
	}

	entry, ok := donburi.NewQuery(filter.Contains(components.LabelComponent)).First(e.World())
	if !ok {
		t.Fatal("scene not spawned")
	}
	c := components.ColliderComponent.GetValue(entry)
	if c.Shape != (physics.Cuboid{HalfExtents: math.NewVec3(5, 0.1, 5)}) {
		t.Fatalf("collider:\nhave %#v", c.Shape)
	}
	if rb := components.RigidBodyComponent.GetValue(entry); rb.Kind != physics.Fixed {
		t.Fatalf("body kind:\nhave %v\nwant %v", rb.Kind, physics.Fixed)
	}

	if err := e.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := e.Shutdown(); !errors.Is(err, core.ErrClosed) {
		t.Fatalf("Shutdown twice:\nhave %v\nwant %v", err, core.ErrClosed)
	}
}

func TestRunStrictIntegrity(t *testing.T) {
	e := newEngine(t, level(9), nil)
	defer e.Shutdown()
	err := e.Run()
	if !errors.Is(err, core.ErrIntegrity) {
		t.Fatalf("Run:\nhave %v\nwant %v", err, core.ErrIntegrity)
	}
	if e.Ticks() != 1 {
		t.Fatalf("Ticks:\nhave %d\nwant 1", e.Ticks())
	}
}

func TestRunLenient(t *testing.T) {
	e := newEngine(t, level(9), func(c *config.Config) { c.Engine.Strict = false })
	defer e.Shutdown()
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.Ticks() != 3 {
		t.Fatalf("Ticks:\nhave %d\nwant 3", e.Ticks())
	}
}

func TestStop(t *testing.T) {
	e := newEngine(t, level(2), func(c *config.Config) { c.Engine.MaxTicks = 0 })
	defer e.Shutdown()
	e.app.FnOnTick = func(w donburi.World, _ time.Duration) error {
		if e.Ticks() == 5 {
			e.Stop()
		}
		return nil
	}
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.Ticks() != 5 {
		t.Fatalf("Ticks:\nhave %d\nwant 5", e.Ticks())
	}
}

func TestRunBeforeInitialize(t *testing.T) {
	e, err := New(&ApplicationConfig{Name: "test", AssetFS: fstest.MapFS{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Shutdown()
	if err := e.Run(); err == nil {
		t.Fatal("Run before Initialize: have nil error")
	}
}
