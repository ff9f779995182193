package lifecycle

import (
	"errors"
	"runtime/debug"
	"sync"

	"github.com/ugparu/wlshm/utils/logger"
)

type asyncLifecycleManager[T AsyncInstance] struct {
	instance             T
	stopChan, doneChan   chan struct{}
	startOnce, closeOnce sync.Once
}

// NewAsyncManager returns a manager that loops instance.Step on its own
// goroutine after a successful start. A panic inside Step ends the loop.
func NewAsyncManager[T AsyncInstance](instance T) AsyncManager[T] {
	return &asyncLifecycleManager[T]{
		instance: instance,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

func (m *asyncLifecycleManager[T]) Start(startFunc func(T) error) error {
	err := startGate(m.stopChan)
	if _, closed := err.(*StartedAfterCloseError); closed {
		return err
	}
	m.startOnce.Do(func() {
		logger.Debug(m.instance, "starting loop")
		if err = startFunc(m.instance); err != nil {
			close(m.doneChan)
			return
		}
		go m.process()
	})
	return err
}

func (m *asyncLifecycleManager[T]) process() {
	defer close(m.doneChan)
	for m.step() {
	}
	logger.Debug(m.instance, "loop finished")
}

// step runs one Step and reports whether the loop should continue.
func (m *asyncLifecycleManager[T]) step() (running bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(m.instance, "panic in step: %v", r)
			logger.Errorf(m.instance, "%s", debug.Stack())
			running = false
		}
	}()

	err := m.instance.Step(m.stopChan)
	if err == nil {
		return true
	}
	var brk *BreakError
	if !errors.As(err, &brk) {
		logger.Warningf(m.instance, "step failed: %s", err.Error())
	}
	return false
}

func (m *asyncLifecycleManager[T]) Close() {
	m.closeOnce.Do(func() {
		close(m.stopChan)
		m.startOnce.Do(func() {
			close(m.doneChan)
		})
		<-m.doneChan
		m.instance.Close_()
	})
}

func (m *asyncLifecycleManager[T]) Done() <-chan struct{} {
	return m.doneChan
}
