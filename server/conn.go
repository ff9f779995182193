// Package server runs one dispatch loop per client connection so requests
// are handled strictly in arrival order, one at a time.
package server

import (
	"golang.org/x/sys/unix"

	"github.com/ugparu/wlshm"
	"github.com/ugparu/wlshm/resource"
	"github.com/ugparu/wlshm/utils/lifecycle"
	"github.com/ugparu/wlshm/utils/logger"
)

// Message addresses a decoded request to object ID.
type Message struct {
	ID      uint32
	Request wlshm.Request
}

// Conn feeds a client's requests through a single goroutine. Closing the
// connection destroys every object the client still owns.
type Conn struct {
	client   *resource.Client
	requests chan Message
	manager  lifecycle.AsyncManager[*Conn]
}

// NewConn wraps client; bufSize bounds the queue of undelivered requests.
func NewConn(client *resource.Client, bufSize int) *Conn {
	c := &Conn{
		client:   client,
		requests: make(chan Message, bufSize),
	}
	c.manager = lifecycle.NewAsyncManager(c)
	return c
}

// Serve starts the dispatch loop.
func (c *Conn) Serve() error {
	return c.manager.Start(func(*Conn) error { return nil })
}

// Requests accepts messages in the order they must be handled.
func (c *Conn) Requests() chan<- Message {
	return c.requests
}

// Client returns the underlying client.
func (c *Conn) Client() *resource.Client {
	return c.client
}

// Done is closed when the loop has exited.
func (c *Conn) Done() <-chan struct{} {
	return c.manager.Done()
}

// Close stops the loop and tears the client down.
func (c *Conn) Close() {
	c.manager.Close()
}

func (c *Conn) String() string {
	return "conn " + c.client.String()
}

// Step dispatches a single message.
func (c *Conn) Step(stopChan <-chan struct{}) error {
	select {
	case <-stopChan:
		return &lifecycle.BreakError{}
	case msg := <-c.requests:
		if err := c.client.Dispatch(msg.ID, msg.Request); err != nil {
			logger.Debugf(c, "request for %d not delivered: %v", msg.ID, err)
		}
		return nil
	}
}

// Close_ drops undelivered requests, closing any descriptors they carry, and
// destroys the client.
func (c *Conn) Close_() {
	for {
		select {
		case msg := <-c.requests:
			if cp, ok := msg.Request.(wlshm.CreatePool); ok {
				_ = unix.Close(cp.Fd)
			}
		default:
			c.client.Destroy()
			logger.Debug(c, "closed")
			return
		}
	}
}
