package core

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.Resolved("collider", 3)
	m.Resolved("collider", 2)
	m.Resolved("mesh", 0)
	m.Failed("collider", 1)

	if n := m.ResolvedCount("collider"); n != 5 {
		t.Fatalf("ResolvedCount:\nhave %d\nwant 5", n)
	}
	if n := m.FailedCount("collider"); n != 1 {
		t.Fatalf("FailedCount:\nhave %d\nwant 1", n)
	}
	if n := m.ResolvedCount("mesh"); n != 0 {
		t.Fatalf("ResolvedCount(mesh):\nhave %d\nwant 0", n)
	}

	for i := 0; i < int(AVG_COUNT)-1; i++ {
		m.TickUpdate(2 * time.Millisecond)
	}
	if d := m.TickTime(); d != 0 {
		t.Fatalf("TickTime before a full window:\nhave %v\nwant 0", d)
	}
	m.TickUpdate(2 * time.Millisecond)
	if d := m.TickTime(); d != 2*time.Millisecond {
		t.Fatalf("TickTime:\nhave %v\nwant %v", d, 2*time.Millisecond)
	}
	if n := m.Ticks(); n != uint64(AVG_COUNT) {
		t.Fatalf("Ticks:\nhave %d\nwant %d", n, AVG_COUNT)
	}
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	if c.Elapsed() != 0 {
		t.Fatalf("Elapsed of a stopped clock:\nhave %v\nwant 0", c.Elapsed())
	}
	c.Start()
	time.Sleep(time.Millisecond)
	c.Update()
	e := c.Elapsed()
	if e <= 0 {
		t.Fatalf("Elapsed:\nhave %v\nwant > 0", e)
	}
	c.Stop()
	c.Update()
	if c.Elapsed() != e {
		t.Fatalf("Elapsed after Stop:\nhave %v\nwant %v", c.Elapsed(), e)
	}
}

func TestLogLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogLevel("info")

	if err := SetLogLevel("warn"); err != nil {
		t.Fatalf("SetLogLevel: %v", err)
	}
	LogInfo("hidden %d", 1)
	LogWarn("shown %d", 2)
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown 2") {
		t.Fatalf("log output:\n%s", out)
	}
	if err := SetLogLevel("chatty"); err == nil {
		t.Fatal("SetLogLevel(chatty): have nil error")
	}
}
