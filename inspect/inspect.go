// Package inspect serves a read-only HTTP view of connected clients, their
// pools and buffers, with PNG snapshots of buffer contents.
package inspect

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/ugparu/wlshm/config"
	"github.com/ugparu/wlshm/resource"
	"github.com/ugparu/wlshm/utils/lifecycle"
	"github.com/ugparu/wlshm/utils/logger"
)

const shutdownTimeout = 5 * time.Second

// Inspector is the HTTP server. Start and Close run once each.
type Inspector struct {
	display *resource.Display
	cfg     config.InspectorConfig
	router  *gin.Engine
	manager lifecycle.Manager[*Inspector]

	mu   sync.Mutex
	srv  *http.Server
	addr net.Addr
}

// New builds the router for display.
func New(display *resource.Display, cfg config.InspectorConfig) *Inspector {
	insp := &Inspector{
		display: display,
		cfg:     cfg,
	}
	insp.router = insp.routes()
	insp.manager = lifecycle.NewDefaultManager(insp)
	return insp
}

func (insp *Inspector) String() string {
	return "inspector"
}

// Handler returns the router, for mounting elsewhere or testing.
func (insp *Inspector) Handler() http.Handler {
	return insp.router
}

// Start listens on the configured address and serves in the background.
func (insp *Inspector) Start() error {
	return insp.manager.Start(func(insp *Inspector) error {
		ln, err := net.Listen("tcp", insp.cfg.Listen)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Handler:           insp.router,
			ReadHeaderTimeout: shutdownTimeout,
		}

		insp.mu.Lock()
		insp.srv = srv
		insp.addr = ln.Addr()
		insp.mu.Unlock()

		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf(insp, "serve failed: %v", err)
			}
		}()
		logger.Infof(insp, "listening on %s", ln.Addr())
		return nil
	})
}

// Addr returns the bound address, nil before Start.
func (insp *Inspector) Addr() net.Addr {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	return insp.addr
}

// Close shuts the server down.
func (insp *Inspector) Close() {
	insp.manager.Close()
}

func (insp *Inspector) Close_() {
	insp.mu.Lock()
	srv := insp.srv
	insp.mu.Unlock()
	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warningf(insp, "forced shutdown: %v", err)
	}
}

func (insp *Inspector) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/clients", insp.listClients)
	r.GET("/clients/:client/objects", insp.listObjects)
	r.GET("/clients/:client/buffers/:id/snapshot.png", insp.bufferSnapshot)

	if insp.cfg.Pprof {
		pprof.Register(r)
	}
	return r
}
