package lifecycle

import (
	"sync"

	"github.com/ugparu/wlshm/utils/logger"
)

type defaultLifecycleManager[T Instance] struct {
	instance             T
	startOnce, closeOnce sync.Once
	closeChan            chan struct{}
}

// NewDefaultManager returns a manager that runs start and close once each, with no loop.
func NewDefaultManager[T Instance](instance T) Manager[T] {
	return &defaultLifecycleManager[T]{
		instance:  instance,
		closeChan: make(chan struct{}),
	}
}

func (m *defaultLifecycleManager[T]) Start(startFunc func(T) error) error {
	err := startGate(m.closeChan)
	if _, closed := err.(*StartedAfterCloseError); closed {
		return err
	}
	m.startOnce.Do(func() {
		logger.Debug(m.instance, "starting")
		err = startFunc(m.instance)
	})
	return err
}

func (m *defaultLifecycleManager[T]) Close() {
	m.closeOnce.Do(func() {
		m.instance.Close_()
		close(m.closeChan)
	})
}
