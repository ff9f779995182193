// Package resource is an in-memory object system for the shm core: it holds
// globals, per-client object maps and event queues, routes decoded requests
// to object implementations and tears every object down when a client goes
// away. Wire transport is left to the caller.
package resource

import "github.com/ugparu/wlshm"

var (
	_ wlshm.Display = (*Display)(nil)
	_ wlshm.Client  = (*Client)(nil)
	_ wlshm.Object  = (*object)(nil)
)
