// Package outbox runs non-critical side effects (counter bumps,
// notification mail) off the request path. Tasks are retried once, logged
// on failure, and never block or fail the primary operation.
package outbox

import (
	"sync"
	"time"

	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
)

// Task a named unit of best-effort work
type Task struct {
	Name string
	Run  func() error
}

// Outbox a single-worker queue for fire-and-forget tasks
type Outbox struct {
	tasks      chan Task
	done       chan struct{}
	retryDelay time.Duration
	wg         sync.WaitGroup
}

// New creates an Outbox with the given queue depth
func New(depth int) *Outbox {
	if depth <= 0 {
		depth = 256
	}
	return &Outbox{
		tasks:      make(chan Task, depth),
		done:       make(chan struct{}),
		retryDelay: time.Second,
	}
}

// Start launches the worker goroutine
func (o *Outbox) Start() {
	o.wg.Add(1)
	go o.run()
}

// Stop drains queued tasks and waits for the worker to exit
func (o *Outbox) Stop() {
	close(o.done)
	o.wg.Wait()
}

// Enqueue hands a task to the worker. A full queue drops the task with a
// warning rather than blocking the caller.
func (o *Outbox) Enqueue(name string, run func() error) {
	select {
	case o.tasks <- Task{Name: name, Run: run}:
	default:
		pkglogger.GetLogger().Warn().Str("task", name).Msg("outbox full, task dropped")
	}
}

func (o *Outbox) run() {
	defer o.wg.Done()
	for {
		select {
		case task := <-o.tasks:
			o.execute(task)
		case <-o.done:
			// Drain what is already queued before exiting
			for {
				select {
				case task := <-o.tasks:
					o.execute(task)
				default:
					return
				}
			}
		}
	}
}

func (o *Outbox) execute(task Task) {
	err := task.Run()
	if err == nil {
		return
	}

	time.Sleep(o.retryDelay)
	if err = task.Run(); err == nil {
		return
	}

	pkglogger.GetLogger().Error().
		Err(err).
		Str("task", task.Name).
		Msg("outbox task failed after retry")
}
