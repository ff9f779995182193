package shm

import (
	"fmt"
	"sync/atomic"

	"github.com/ugparu/wlshm"
	"github.com/ugparu/wlshm/utils/logger"
)

// Buffer is a rectangular pixel view. It either points into a Pool, sharing
// ownership of the mapping, or owns its storage outright.
//
// Geometry and storage never change after construction, so a Buffer may be
// read from other goroutines while its owner releases it. Pixel data is nil
// once released.
type Buffer struct {
	width, height int32
	stride        int32
	format        wlshm.Format
	offset        int32

	pool    *Pool
	storage []byte

	id       uint32
	released atomic.Bool
}

// NewAnonymousBuffer allocates a buffer with its own stride*height bytes of storage.
func NewAnonymousBuffer(width, height, stride int32, format wlshm.Format) (*Buffer, error) {
	if err := Validate(0, width, height, stride, format, 0, false); err != nil {
		return nil, err
	}
	return &Buffer{
		width:   width,
		height:  height,
		stride:  stride,
		format:  format,
		storage: make([]byte, int(stride)*int(height)),
	}, nil
}

// Kind returns KindBuffer.
func (*Buffer) Kind() wlshm.ObjectKind {
	return wlshm.KindBuffer
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%s#%d", wlshm.KindBuffer, b.id)
}

// ID returns the protocol object id, 0 for buffers not registered with a client.
func (b *Buffer) ID() uint32 { return b.id }

// Width returns the width in pixels.
func (b *Buffer) Width() int32 { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int32 { return b.height }

// Stride returns the row pitch in bytes.
func (b *Buffer) Stride() int32 { return b.stride }

// Format returns the pixel format.
func (b *Buffer) Format() wlshm.Format { return b.format }

// Offset returns the byte offset into the pool, 0 for anonymous buffers.
func (b *Buffer) Offset() int32 { return b.offset }

// Pool returns the backing pool, nil for anonymous buffers.
func (b *Buffer) Pool() *Pool { return b.pool }

// Len returns the size of the pixel region in bytes.
func (b *Buffer) Len() int {
	return int(b.stride) * int(b.height)
}

// Data returns the pixel region. For pool-backed buffers the slice is taken
// from the pool's current mapping on every call and is only valid until the
// pool is resized or unmapped; it is nil when a shrink left the buffer
// outside the mapping. Use WithData to read while the pool is being modified
// from another goroutine.
func (b *Buffer) Data() (data []byte) {
	if b.released.Load() {
		return nil
	}
	if b.pool == nil {
		return b.storage
	}
	_ = b.pool.view(b.offset, int32(b.Len()), func(view []byte) error {
		data = view
		return nil
	})
	return data
}

// WithData calls fn with the pixel region while holding the mapping in place.
func (b *Buffer) WithData(fn func([]byte) error) error {
	if b.released.Load() {
		return fn(nil)
	}
	if b.pool == nil {
		return fn(b.storage)
	}
	return b.pool.view(b.offset, int32(b.Len()), fn)
}

// Released reports whether Release has run.
func (b *Buffer) Released() bool {
	return b.released.Load()
}

// Release drops the pool reference exactly once. Owned storage is left to the
// garbage collector so concurrent readers never see it change.
func (b *Buffer) Release() {
	if !b.released.CompareAndSwap(false, true) {
		return
	}
	if b.pool != nil {
		b.pool.Unref()
	}
	logger.Tracef(b, "released")
}

// Dispatch handles destroy on a buffer object.
func (b *Buffer) Dispatch(obj wlshm.Object, req wlshm.Request) {
	switch req.(type) {
	case wlshm.Destroy:
		obj.Destroy()
	default:
		logger.Warningf(b, "unexpected request %T", req)
	}
}

// BufferFromObject returns the buffer behind obj, or false when obj is not a shm buffer.
func BufferFromObject(obj wlshm.Object) (*Buffer, bool) {
	if obj == nil || obj.Kind() != wlshm.KindBuffer {
		return nil, false
	}
	b, ok := obj.Implementation().(*Buffer)
	return b, ok
}

// PoolFromObject returns the pool behind obj, or false when obj is not a shm pool.
func PoolFromObject(obj wlshm.Object) (*Pool, bool) {
	if obj == nil || obj.Kind() != wlshm.KindShmPool {
		return nil, false
	}
	p, ok := obj.Implementation().(*Pool)
	return p, ok
}

// CreateBuffer registers an anonymous buffer as object id on client. It is
// meant for server-side code and posts nothing to the client on failure.
func CreateBuffer(client wlshm.Client, id uint32, width, height, stride int32, format wlshm.Format) (*Buffer, error) {
	b, err := NewAnonymousBuffer(width, height, stride, format)
	if err != nil {
		return nil, err
	}
	obj, err := client.NewObject(wlshm.KindBuffer, 1, id)
	if err != nil {
		b.Release()
		return nil, err
	}
	b.id = id
	obj.SetImplementation(b, func(wlshm.Object) { b.Release() })
	return b, nil
}

func createBufferObject(poolObj wlshm.Object, p *Pool, req wlshm.CreateBuffer) {
	b, err := p.CreateBuffer(req.Offset, req.Width, req.Height, req.Stride, req.Format)
	if err != nil {
		logger.Debugf(p, "rejected buffer %d: %v", req.ID, err)
		postError(poolObj, err)
		return
	}

	obj, err := poolObj.Client().NewObject(wlshm.KindBuffer, 1, req.ID)
	if err != nil {
		poolObj.Client().PostNoMemory()
		b.Release()
		return
	}
	b.id = req.ID
	obj.SetImplementation(b, func(wlshm.Object) { b.Release() })
	logger.Debugf(b, "%dx%d stride %d %s at %d in %s", b.width, b.height, b.stride, b.format, b.offset, p)
}
