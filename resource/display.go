package resource

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ugparu/wlshm"
	"github.com/ugparu/wlshm/utils/logger"
)

type global struct {
	kind    wlshm.ObjectKind
	version uint32
	bind    wlshm.BindFunc
}

// Option configures a Display.
type Option func(*Display)

// WithObjectLimit caps the number of live objects per client. Registration
// beyond the cap fails with wlshm.ErrNoMemory. Zero means unlimited.
func WithObjectLimit(n int) Option {
	return func(d *Display) {
		d.objectLimit = n
	}
}

// Display owns the advertised globals and the connected clients.
type Display struct {
	mu      sync.RWMutex
	globals []global
	clients []*Client

	objectLimit int
}

// NewDisplay creates an empty display.
func NewDisplay(opts ...Option) *Display {
	d := &Display{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Display) String() string {
	return "display"
}

// CreateGlobal advertises kind at version; bind runs for every client that binds it.
func (d *Display) CreateGlobal(kind wlshm.ObjectKind, version uint32, bind wlshm.BindFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, g := range d.globals {
		if g.kind == kind {
			return ErrGlobalExists
		}
	}
	d.globals = append(d.globals, global{kind: kind, version: version, bind: bind})
	logger.Debugf(d, "global %s v%d", kind, version)
	return nil
}

// Globals returns the advertised kinds in registration order.
func (d *Display) Globals() []wlshm.ObjectKind {
	d.mu.RLock()
	defer d.mu.RUnlock()

	kinds := make([]wlshm.ObjectKind, 0, len(d.globals))
	for _, g := range d.globals {
		kinds = append(kinds, g.kind)
	}
	return kinds
}

func (d *Display) global(kind wlshm.ObjectKind) (global, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, g := range d.globals {
		if g.kind == kind {
			return g, true
		}
	}
	return global{}, false
}

// NewClient connects a new client.
func (d *Display) NewClient() *Client {
	c := newClient(d, uuid.New())

	d.mu.Lock()
	d.clients = append(d.clients, c)
	d.mu.Unlock()

	logger.Debugf(c, "connected")
	return c
}

// Clients returns the connected clients in connection order.
func (d *Display) Clients() []*Client {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Client, len(d.clients))
	copy(out, d.clients)
	return out
}

// Client looks a connected client up by id.
func (d *Display) Client(id uuid.UUID) (*Client, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, c := range d.clients {
		if c.id == id {
			return c, true
		}
	}
	return nil, false
}

func (d *Display) removeClient(c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, cur := range d.clients {
		if cur == c {
			d.clients = append(d.clients[:i], d.clients[i+1:]...)
			return
		}
	}
}
