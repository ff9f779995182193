package resource

import (
	"fmt"
	"sync"

	"github.com/ugparu/wlshm"
	"github.com/ugparu/wlshm/utils/logger"
)

type object struct {
	client  *Client
	id      uint32
	kind    wlshm.ObjectKind
	version uint32

	mu        sync.Mutex
	impl      wlshm.Implementation
	onDestroy func(wlshm.Object)
	destroyed bool
}

func (o *object) String() string {
	return fmt.Sprintf("%s#%d", o.kind, o.id)
}

func (o *object) Client() wlshm.Client   { return o.client }
func (o *object) ID() uint32             { return o.id }
func (o *object) Kind() wlshm.ObjectKind { return o.kind }
func (o *object) Version() uint32        { return o.version }

func (o *object) SetImplementation(impl wlshm.Implementation, onDestroy func(wlshm.Object)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if impl != nil && impl.Kind() != o.kind {
		logger.Errorf(o, "implementation for %s installed on %s", impl.Kind(), o.kind)
		return
	}
	o.impl = impl
	o.onDestroy = onDestroy
}

func (o *object) Implementation() wlshm.Implementation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.impl
}

// Destroy unregisters the id first, then runs the destroy hook once.
func (o *object) Destroy() {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return
	}
	o.destroyed = true
	hook := o.onDestroy
	o.mu.Unlock()

	o.client.remove(o)
	if hook != nil {
		hook(o)
	}
}

func (o *object) PostError(code wlshm.ErrorCode, msg string) {
	logger.Debugf(o, "protocol error %s: %s", code, msg)
	o.client.postError(o, code, msg)
}

func (o *object) PostEvent(ev wlshm.Event) {
	o.client.postEvent(ev)
}
