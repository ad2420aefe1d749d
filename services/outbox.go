package services

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/soluxsolar/solux-store/utils"
)

var outboxFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "solux_outbox_task_failures_total",
		Help: "Total number of failed background side-effect tasks",
	},
	[]string{"task"},
)

// Task is one deferred side effect: invoice mail, ledger append, and so on.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Outbox runs side-effect tasks on a background worker so the request path
// never waits for them. Failures are logged and counted, never propagated;
// the caller has already responded by the time a task runs.
type Outbox struct {
	tasks   chan Task
	timeout time.Duration
	pending sync.WaitGroup
	done    chan struct{}
}

func NewOutbox(buffer int, timeout time.Duration) *Outbox {
	return &Outbox{
		tasks:   make(chan Task, buffer),
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (ob *Outbox) Start() {
	go ob.loop()
	utils.InfoLogger.Println("Outbox worker started")
}

// Enqueue schedules a task without blocking. When the queue is full the
// task is dropped and counted as a failure.
func (ob *Outbox) Enqueue(name string, run func(ctx context.Context) error) {
	ob.pending.Add(1)
	select {
	case ob.tasks <- Task{Name: name, Run: run}:
	default:
		ob.pending.Done()
		utils.ErrorLogger.Printf("Outbox queue full, dropping task %s", name)
		outboxFailures.WithLabelValues(name).Inc()
	}
}

// Flush blocks until every enqueued task has finished. Used by tests and
// shutdown.
func (ob *Outbox) Flush() {
	ob.pending.Wait()
}

// Stop drains the queue and stops the worker.
func (ob *Outbox) Stop() {
	ob.pending.Wait()
	close(ob.tasks)
	<-ob.done
}

func (ob *Outbox) loop() {
	defer close(ob.done)
	for task := range ob.tasks {
		ob.runTask(task)
	}
}

func (ob *Outbox) runTask(task Task) {
	defer ob.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.Printf("Outbox task %s panicked: %v", task.Name, r)
			outboxFailures.WithLabelValues(task.Name).Inc()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), ob.timeout)
	defer cancel()

	if err := task.Run(ctx); err != nil {
		utils.ErrorLogger.Printf("Outbox task %s failed: %v", task.Name, err)
		outboxFailures.WithLabelValues(task.Name).Inc()
	}
}
