package jobs

import (
	"fmt"
	"sync"

	"github.com/sdfgeoff/blender-bevy-toolkit/engine/core"
)

// JobTask describes a unit of work run on a worker goroutine.
type JobTask struct {
	// Name is used in log lines only.
	Name string
	// OnStart does the work. Required.
	OnStart func() error
	// OnComplete runs after OnStart succeeded. Optional.
	OnComplete func()
	// OnFailure runs with the error returned by OnStart. Optional.
	OnFailure func(err error)
	// OnCompletionCallback always runs last. Optional.
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := make(chan JobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job JobTask) {
	if err := job.OnStart(); err != nil {
		core.LogDebug("job '%s' failed: %s", job.Name, err)
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
	} else if job.OnComplete != nil {
		job.OnComplete()
	}

	if job.OnCompletionCallback != nil {
		job.OnCompletionCallback()
	}
}

// Shutdown stops accepting work, lets the workers drain the queue and waits
// for them to exit.
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return core.ErrClosed
	}
	js.closed = true
	close(js.jobQueue)
	js.mu.Unlock()

	js.wg.Wait()
	return nil
}

// AddWorkNonBlocking queues the job from a separate goroutine and returns
// immediately. Jobs may call it to queue follow-up work without
// deadlocking on a full queue.
func (js *JobSystem) AddWorkNonBlocking(jt JobTask) {
	go func() {
		if err := js.Submit(jt); err != nil {
			js.reject(jt, err)
		}
	}()
}

// Submit queues the job, blocking while the queue is full.
func (js *JobSystem) Submit(jt JobTask) error {
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.closed {
		return core.ErrClosed
	}
	js.jobQueue <- jt
	return nil
}

func (js *JobSystem) reject(jt JobTask, err error) {
	core.LogWarn("job '%s' rejected: %s", jt.Name, err)
	if jt.OnFailure != nil {
		jt.OnFailure(err)
	}
	if jt.OnCompletionCallback != nil {
		jt.OnCompletionCallback()
	}
}
