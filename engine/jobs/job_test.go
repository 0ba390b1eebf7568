package jobs

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
)

func TestNewJobSystem(t *testing.T) {
	if _, err := NewJobSystem(0, 1); !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("NewJobSystem(0, 1)\nhave %v\nwant %v", err, ErrNoWorkers)
	}
	if _, err := NewJobSystem(1, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Fatalf("NewJobSystem(1, -1)\nhave %v\nwant %v", err, ErrNegativeChannelSize)
	}
}

func TestJobSystemCallbacks(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	if err != nil {
		t.Fatalf("NewJobSystem: %v", err)
	}
	var ok, failed, done atomic.Int32
	var wg sync.WaitGroup
	const n = 64
	wg.Add(n)
	for i := 0; i < n; i++ {
		fail := i%4 == 0
		task := JobTask{
			Name: "test",
			OnStart: func() error {
				if fail {
					return errors.New("boom")
				}
				return nil
			},
			OnComplete:           func() { ok.Add(1) },
			OnFailure:            func(error) { failed.Add(1) },
			OnCompletionCallback: func() { done.Add(1); wg.Done() },
		}
		if i%2 == 0 {
			js.AddWorkNonBlocking(task)
		} else if err := js.Submit(task); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	wg.Wait()
	if ok.Load() != 48 || failed.Load() != 16 || done.Load() != n {
		t.Fatalf("callbacks\nhave ok %d failed %d done %d\nwant ok 48 failed 16 done %d", ok.Load(), failed.Load(), done.Load(), n)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := js.Shutdown(); !errors.Is(err, core.ErrClosed) {
		t.Fatalf("second Shutdown\nhave %v\nwant %v", err, core.ErrClosed)
	}
	if err := js.Submit(JobTask{OnStart: func() error { return nil }}); !errors.Is(err, core.ErrClosed) {
		t.Fatalf("Submit after Shutdown\nhave %v\nwant %v", err, core.ErrClosed)
	}
}

func TestAddWorkNonBlockingAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	if err != nil {
		t.Fatalf("NewJobSystem: %v", err)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	got := make(chan error, 1)
	js.AddWorkNonBlocking(JobTask{
		Name:      "late",
		OnStart:   func() error { return nil },
		OnFailure: func(err error) { got <- err },
	})
	if err := <-got; !errors.Is(err, core.ErrClosed) {
		t.Fatalf("late job failure\nhave %v\nwant %v", err, core.ErrClosed)
	}
}
