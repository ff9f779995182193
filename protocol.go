package wlshm

import "fmt"

// ObjectKind identifies the interface an Object speaks.
type ObjectKind uint8

const (
	KindShm     ObjectKind = iota + 1 // Capability endpoint, one per bind.
	KindShmPool                       // Shared memory pool.
	KindBuffer                        // Pixel buffer.
)

// String returns the interface name of the kind.
func (k ObjectKind) String() string {
	switch k {
	case KindShm:
		return "wl_shm"
	case KindShmPool:
		return "wl_shm_pool"
	case KindBuffer:
		return "wl_buffer"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ErrorCode is a protocol error code posted on the endpoint or pool.
type ErrorCode uint32

const (
	ErrorInvalidFormat ErrorCode = 0 // Buffer format is not whitelisted.
	ErrorInvalidStride ErrorCode = 1 // Geometry, overflow or pool size violation.
	ErrorInvalidFd     ErrorCode = 2 // Mapping the client handle failed.
)

// String returns the human-readable string representation of an ErrorCode.
func (c ErrorCode) String() string {
	switch c {
	case ErrorInvalidFormat:
		return "invalid_format"
	case ErrorInvalidStride:
		return "invalid_stride"
	case ErrorInvalidFd:
		return "invalid_fd"
	default:
		return fmt.Sprintf("error(%d)", uint32(c))
	}
}

// Request is a decoded client request. The set of requests is closed.
type Request interface {
	isRequest()
}

// CreatePool asks the endpoint for a pool backed by Fd of Size bytes.
type CreatePool struct {
	ID   uint32
	Fd   int
	Size int32
}

// CreateBuffer asks a pool for a buffer view.
type CreateBuffer struct {
	ID     uint32
	Offset int32
	Width  int32
	Height int32
	Stride int32
	Format Format
}

// Resize asks a pool to remap to Size bytes.
type Resize struct {
	Size int32
}

// Destroy asks for the addressed pool or buffer to be destroyed.
type Destroy struct{}

func (CreatePool) isRequest()   {}
func (CreateBuffer) isRequest() {}
func (Resize) isRequest()       {}
func (Destroy) isRequest()      {}

// Event is a message queued for a client. The set of events is closed.
type Event interface {
	isEvent()
}

// FormatEvent announces one supported format.
type FormatEvent struct {
	Format Format
}

// ErrorEvent carries a protocol error posted against ObjectID.
type ErrorEvent struct {
	ObjectID uint32
	Code     ErrorCode
	Message  string
}

// NoMemoryEvent signals that the server ran out of memory serving the client.
type NoMemoryEvent struct{}

func (FormatEvent) isEvent()   {}
func (ErrorEvent) isEvent()    {}
func (NoMemoryEvent) isEvent() {}

// Accepts reports whether objects of kind k take req.
func (k ObjectKind) Accepts(req Request) bool {
	switch req.(type) {
	case CreatePool:
		return k == KindShm
	case CreateBuffer, Resize:
		return k == KindShmPool
	case Destroy:
		return k == KindShmPool || k == KindBuffer
	default:
		return false
	}
}
