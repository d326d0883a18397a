// Package uiloop provides the single execution context that owns UI state.
//
// Store completions run on arbitrary goroutines. They must not touch UI state
// directly; they Post a task and the loop runs tasks one at a time, in order.
package uiloop

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned by Post and Do after Stop.
var ErrStopped = errors.New("ui loop stopped")

// Loop runs posted tasks sequentially on a single goroutine.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
	log   *slog.Logger
}

// New creates a loop whose queue holds up to buffer pending tasks.
func New(buffer int, log *slog.Logger) *Loop {
	return &Loop{
		tasks: make(chan func(), buffer),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Run drains the task queue until Stop. Should be called as a goroutine.
func (l *Loop) Run() {
	defer close(l.done)
	for {
		select {
		case task := <-l.tasks:
			l.exec(task)
		case <-l.quit:
			return
		}
	}
}

// Stop signals the loop to exit and waits for the running task to finish.
// Tasks still queued are dropped.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.quit) })
	<-l.done
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues a task. It blocks while the queue is full.
func (l *Loop) Post(task func()) error {
	select {
	case <-l.quit:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- task:
		return nil
	case <-l.quit:
		return ErrStopped
	}
}

// Do posts a task and waits until it has run. It must not be called from the loop itself.
func (l *Loop) Do(task func()) error {
	ran := make(chan struct{})
	if err := l.Post(func() {
		defer close(ran)
		task()
	}); err != nil {
		return err
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

func (l *Loop) exec(task func()) {
	defer func() {
		if v := recover(); v != nil {
			l.log.Error("UI task panicked", "panic", v)
		}
	}()
	task()
}
