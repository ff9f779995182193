// Package lifecycle runs start/close sequences exactly once, optionally
// driving a step loop on its own goroutine until close or failure.
package lifecycle

// Instance is anything with a one-shot teardown and a log identity.
type Instance interface {
	Close_()
	String() string
}

// AsyncInstance advances one unit of work per Step. Step returns BreakError
// to leave the loop quietly; any other error is logged and ends the loop too.
type AsyncInstance interface {
	Instance
	Step(stopChan <-chan struct{}) error
}

type Manager[T Instance] interface {
	Start(func(T) error) error
	Close()
}

type AsyncManager[T AsyncInstance] interface {
	Manager[T]
	Done() <-chan struct{}
}

type BreakError struct{}

func (*BreakError) Error() string {
	return "break"
}

type StartedAlreadyError struct{}

func (*StartedAlreadyError) Error() string {
	return "started already"
}

type StartedAfterCloseError struct{}

func (*StartedAfterCloseError) Error() string {
	return "start after close"
}

// startGate reports StartedAfterCloseError once closed, StartedAlreadyError otherwise.
func startGate(closed <-chan struct{}) error {
	select {
	case <-closed:
		return &StartedAfterCloseError{}
	default:
		return &StartedAlreadyError{}
	}
}
