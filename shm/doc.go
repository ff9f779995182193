// Package shm implements wl_shm: pools of client shared memory mapped into
// the server, pixel buffers carved out of them, and the endpoint that creates
// pools and announces the supported formats.
//
// A pool's mapping is reference counted. The pool object holds one reference
// and every buffer created from it holds another, so destroying the pool while
// buffers remain keeps the memory mapped until the last buffer goes away.
//
// All client geometry passes Validate before any pixel data is exposed.
package shm

import "github.com/ugparu/wlshm"

var (
	_ wlshm.Implementation = (*Endpoint)(nil)
	_ wlshm.Implementation = (*Pool)(nil)
	_ wlshm.Implementation = (*Buffer)(nil)
	_ ProtocolError        = (*InvalidFormatError)(nil)
	_ ProtocolError        = (*InvalidStrideError)(nil)
	_ ProtocolError        = (*InvalidSizeError)(nil)
	_ ProtocolError        = (*MapError)(nil)
	_ ProtocolError        = (*RemapError)(nil)
)
