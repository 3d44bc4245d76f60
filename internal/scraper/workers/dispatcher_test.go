package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherAssignsJobRoundRobin(t *testing.T) {
	jobQueue := make(chan ReviewJob, 1)
	worker := &Worker{ID: 1, JobChan: make(chan ReviewJob, 1)}

	d := NewDispatcher(jobQueue, []*Worker{worker})
	d.Start()
	defer d.Stop()

	jobQueue <- ReviewJob{ID: "job-1"}

	select {
	case got := <-worker.JobChan:
		assert.Equal(t, "job-1", got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("job was never dispatched")
	}
}

func TestDispatcherParksUntilWorkerFrees(t *testing.T) {
	jobQueue := make(chan ReviewJob, 1)
	// Unbuffered channels with no receivers model workers mid-job
	first := &Worker{ID: 1, JobChan: make(chan ReviewJob)}
	second := &Worker{ID: 2, JobChan: make(chan ReviewJob)}

	d := NewDispatcher(jobQueue, []*Worker{first, second})
	d.Start()
	defer d.Stop()

	jobQueue <- ReviewJob{ID: "job-1"}

	// Let the dispatcher make several full rotations with every worker busy
	time.Sleep(50 * time.Millisecond)

	received := make(chan ReviewJob, 1)
	go func() {
		received <- <-second.JobChan
	}()

	select {
	case got := <-received:
		assert.Equal(t, "job-1", got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("job was never handed to the freed worker")
	}
}

func TestDispatcherStartIsIdempotent(t *testing.T) {
	jobQueue := make(chan ReviewJob, 1)
	worker := &Worker{ID: 1, JobChan: make(chan ReviewJob, 1)}

	d := NewDispatcher(jobQueue, []*Worker{worker})
	d.Start()
	d.Start()
	assert.True(t, d.IsRunning())

	d.Stop()
	assert.False(t, d.IsRunning())
}
