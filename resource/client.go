package resource

import (
	"fmt"
	"sync"

	"github.com/eapache/queue"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/ugparu/wlshm"
	"github.com/ugparu/wlshm/utils/logger"
)

// Client is one connection: its objects keyed by id, its pending events and
// the first protocol error posted against it.
type Client struct {
	display *Display
	id      uuid.UUID

	mu        sync.Mutex
	objects   *treemap.Map
	events    *queue.Queue
	err       *ProtocolError
	noMemory  int
	destroyed bool
}

func newClient(d *Display, id uuid.UUID) *Client {
	return &Client{
		display: d,
		id:      id,
		objects: treemap.NewWith(utils.UInt32Comparator),
		events:  queue.New(),
	}
}

// ID returns the client identity.
func (c *Client) ID() uuid.UUID {
	return c.id
}

func (c *Client) String() string {
	return "client " + c.id.String()[:8]
}

// NewObject registers an object under id. A zero, taken or over-limit id
// fails with wlshm.ErrNoMemory, as does any call on a destroyed client.
func (c *Client) NewObject(kind wlshm.ObjectKind, version, id uint32) (wlshm.Object, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return nil, fmt.Errorf("%w: %w", ErrClientDestroyed, wlshm.ErrNoMemory)
	}
	if id == 0 {
		return nil, fmt.Errorf("null object id: %w", wlshm.ErrNoMemory)
	}
	if _, found := c.objects.Get(id); found {
		return nil, fmt.Errorf("object id %d in use: %w", id, wlshm.ErrNoMemory)
	}
	if limit := c.display.objectLimit; limit > 0 && c.objects.Size() >= limit {
		return nil, fmt.Errorf("object limit %d reached: %w", limit, wlshm.ErrNoMemory)
	}

	obj := &object{
		client:  c,
		id:      id,
		kind:    kind,
		version: version,
	}
	c.objects.Put(id, obj)
	return obj, nil
}

// PostNoMemory queues an out-of-memory event.
func (c *Client) PostNoMemory() {
	c.mu.Lock()
	c.noMemory++
	c.events.Add(wlshm.NoMemoryEvent{})
	c.mu.Unlock()
	logger.Warning(c, "out of memory")
}

// NoMemoryCount returns how many out-of-memory events were posted.
func (c *Client) NoMemoryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.noMemory
}

// Bind binds the global advertising kind as object id.
func (c *Client) Bind(kind wlshm.ObjectKind, id uint32) error {
	if c.isDestroyed() {
		return ErrClientDestroyed
	}
	g, ok := c.display.global(kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGlobal, kind)
	}
	g.bind(c, g.version, id)
	return nil
}

// Dispatch delivers req to object id. Handler failures are posted to the
// client; the returned error only covers routing. A descriptor carried by a
// request that cannot be routed is closed.
func (c *Client) Dispatch(id uint32, req wlshm.Request) error {
	err := c.route(id, req)
	if err != nil {
		if cp, ok := req.(wlshm.CreatePool); ok {
			_ = unix.Close(cp.Fd)
		}
		logger.Debugf(c, "dropped %T for %d: %v", req, id, err)
	}
	return err
}

func (c *Client) route(id uint32, req wlshm.Request) error {
	if c.isDestroyed() {
		return ErrClientDestroyed
	}
	obj, ok := c.lookup(id)
	if !ok {
		return fmt.Errorf("%w %d", ErrUnknownObject, id)
	}
	impl := obj.Implementation()
	if impl == nil || !obj.kind.Accepts(req) {
		return fmt.Errorf("%w: %T on %s", ErrBadRequest, req, obj.kind)
	}
	impl.Dispatch(obj, req)
	return nil
}

func (c *Client) lookup(id uint32) (*object, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, found := c.objects.Get(id)
	if !found {
		return nil, false
	}
	obj, ok := v.(*object)
	return obj, ok
}

// Object returns the live object registered under id.
func (c *Client) Object(id uint32) (wlshm.Object, bool) {
	obj, ok := c.lookup(id)
	if !ok {
		return nil, false
	}
	return obj, true
}

// Objects returns the live objects in ascending id order.
func (c *Client) Objects() []wlshm.Object {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]wlshm.Object, 0, c.objects.Size())
	for _, v := range c.objects.Values() {
		out = append(out, v.(*object))
	}
	return out
}

// Events drains the pending events.
func (c *Client) Events() []wlshm.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]wlshm.Event, 0, c.events.Length())
	for c.events.Length() > 0 {
		out = append(out, c.events.Remove().(wlshm.Event))
	}
	return out
}

// Error returns the first protocol error posted against the client, if any.
func (c *Client) Error() *ProtocolError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) isDestroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Destroy disconnects the client, destroying its objects from the highest id down.
func (c *Client) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true

	objs := make([]*object, 0, c.objects.Size())
	it := c.objects.Iterator()
	for it.End(); it.Prev(); {
		objs = append(objs, it.Value().(*object))
	}
	c.mu.Unlock()

	for _, obj := range objs {
		obj.Destroy()
	}
	c.display.removeClient(c)
	logger.Debugf(c, "disconnected, %d objects destroyed", len(objs))
}

func (c *Client) postError(obj *object, code wlshm.ErrorCode, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err == nil {
		c.err = &ProtocolError{
			ObjectID: obj.id,
			Kind:     obj.kind,
			Code:     code,
			Message:  msg,
		}
	}
	c.events.Add(wlshm.ErrorEvent{ObjectID: obj.id, Code: code, Message: msg})
}

func (c *Client) postEvent(ev wlshm.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events.Add(ev)
}

func (c *Client) remove(obj *object) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, found := c.objects.Get(obj.id); found && v == obj {
		c.objects.Remove(obj.id)
	}
}
