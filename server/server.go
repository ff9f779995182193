package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ugparu/wlshm/resource"
	"github.com/ugparu/wlshm/shm"
	"github.com/ugparu/wlshm/utils/logger"
)

const defaultQueueSize = 64

// Server owns a display with the shm global and its live connections.
type Server struct {
	display *resource.Display

	mu    sync.Mutex
	conns map[uuid.UUID]*Conn
}

// New creates a display, advertises shm on it and returns the server.
func New(opts ...resource.Option) (*Server, error) {
	display := resource.NewDisplay(opts...)
	if err := shm.Init(display); err != nil {
		return nil, err
	}
	return &Server{
		display: display,
		conns:   make(map[uuid.UUID]*Conn),
	}, nil
}

func (s *Server) String() string {
	return "server"
}

// Display returns the server's display.
func (s *Server) Display() *resource.Display {
	return s.display
}

// Connect registers a new client and starts its dispatch loop.
func (s *Server) Connect() (*Conn, error) {
	c := NewConn(s.display.NewClient(), defaultQueueSize)
	if err := c.Serve(); err != nil {
		c.Close()
		return nil, err
	}

	s.mu.Lock()
	s.conns[c.client.ID()] = c
	s.mu.Unlock()

	go func() {
		<-c.Done()
		// The loop may end on its own after a handler failure; the client
		// still has to be torn down.
		c.Close()
		s.mu.Lock()
		delete(s.conns, c.client.ID())
		s.mu.Unlock()
	}()
	return c, nil
}

// Close closes every live connection.
func (s *Server) Close() {
	s.mu.Lock()
	conns := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
	logger.Debugf(s, "closed %d connections", len(conns))
}
