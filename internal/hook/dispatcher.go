package hook

import (
	"context"
	"log"
	"sync"
	"time"
)

// Dispatcher fans game events out to subscribed hooks without blocking the
// caller.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher over m using e.
func NewDispatcher(m *Manager, e *Executor) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		manager:  m,
		executor: e,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Fire runs every hook subscribed to ev.Type in its own goroutine and
// returns how many were started. Failures are logged.
func (d *Dispatcher) Fire(ev Event) int {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	hooks := d.manager.For(ev.Type)
	for _, h := range hooks {
		d.wg.Add(1)
		go func(h *Hook) {
			defer d.wg.Done()

			resp, err := d.executor.Execute(d.ctx, h, ev)
			if err != nil {
				log.Printf("hook %s (%s): %v", h.Manifest.Name, ev.Type, err)
				return
			}
			if !resp.Success {
				log.Printf("hook %s (%s) reported failure: %s", h.Manifest.Name, ev.Type, resp.Error)
			}
		}(h)
	}
	return len(hooks)
}

// Wait blocks until every started hook has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels running hooks and waits for them to exit.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}
