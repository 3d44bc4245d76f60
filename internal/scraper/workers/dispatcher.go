package workers

import (
	"sync"
	"time"

	"wordlewatch/internal/logging"
	"wordlewatch/internal/logging/types"
)

// allBusyRetryDelay is how long the dispatcher parks after probing every
// worker without finding a free one. Jobs can sit through a full
// verification budget, so spinning here would peg a core for minutes.
const allBusyRetryDelay = 10 * time.Millisecond

// Dispatcher manages job distribution to workers
type Dispatcher struct {
	jobQueue    chan ReviewJob
	workers     []*Worker
	workerQueue chan chan ReviewJob
	quit        chan bool
	logger      types.Logger
	mu          sync.RWMutex
	running     bool
}

// NewDispatcher creates a new job dispatcher
func NewDispatcher(jobQueue chan ReviewJob, workers []*Worker) *Dispatcher {
	workerQueue := make(chan chan ReviewJob, len(workers))

	return &Dispatcher{
		jobQueue:    jobQueue,
		workers:     workers,
		workerQueue: workerQueue,
		quit:        make(chan bool),
		logger:      logging.GetGlobalLogger(),
	}
}

// Start starts the dispatcher
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}

	go d.dispatch()

	d.running = true
	d.logger.Info("Job dispatcher started", map[string]interface{}{
		"workers": len(d.workers),
	})
}

// Stop stops the dispatcher
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}

	d.quit <- true

	d.running = false
	d.logger.Info("Job dispatcher stopped")
}

// dispatch handles the main job dispatching logic
func (d *Dispatcher) dispatch() {
	workerIndex := 0

	for {
		select {
		case job := <-d.jobQueue:
			// Round-robin assignment; each job lands on exactly one worker
		assignLoop:
			for attempts := 0; ; {
				worker := d.workers[workerIndex]
				workerIndex = (workerIndex + 1) % len(d.workers)
				select {
				case worker.JobChan <- job:
					break assignLoop
				default:
					// Worker is busy, try the next one; after a full
					// rotation with no taker, park instead of spinning
					attempts++
					if attempts%len(d.workers) == 0 {
						time.Sleep(allBusyRetryDelay)
					}
				}
			}

		case <-d.quit:
			return
		}
	}
}

// IsRunning returns true if dispatcher is running
func (d *Dispatcher) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}
