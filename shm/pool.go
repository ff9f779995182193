package shm

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/ugparu/wlshm"
	"github.com/ugparu/wlshm/utils/logger"
)

// Pool is a client's shared memory region mapped read/write into the server.
//
// The mapping is shared by the pool object and every buffer carved from it.
// Each holds one reference; the region is unmapped when the last one is
// released. Resize may move the mapping, so nothing outside the pool keeps a
// slice of it across calls.
type Pool struct {
	mu   sync.RWMutex
	data []byte
	size int32

	refs atomic.Int32
	id   uint32

	// released runs after the region is unmapped.
	released func()
}

// NewPool maps size bytes of fd. The descriptor is closed whatever the outcome.
func NewPool(fd int, size int32) (*Pool, error) {
	defer func() {
		if err := closeFd(fd); err != nil {
			logger.Warningf("shm", "failed to close pool fd %d: %v", fd, err)
		}
	}()

	if err := ValidatePoolSize(size); err != nil {
		return nil, err
	}

	data, err := mapShared(fd, int(size))
	if err != nil {
		return nil, &MapError{Fd: fd, Err: errors.Wrapf(err, "mmap %d bytes", size)}
	}

	p := &Pool{
		data: data,
		size: size,
	}
	p.refs.Store(1)
	logger.Debugf(p, "mapped %d bytes from fd %d", size, fd)
	return p, nil
}

// Kind returns KindShmPool.
func (*Pool) Kind() wlshm.ObjectKind {
	return wlshm.KindShmPool
}

func (p *Pool) String() string {
	return fmt.Sprintf("%s#%d", wlshm.KindShmPool, p.id)
}

// ID returns the protocol object id, 0 for pools created outside a client.
func (p *Pool) ID() uint32 {
	return p.id
}

// Size returns the current mapping size in bytes.
func (p *Pool) Size() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.size
}

// Refs returns the number of live references.
func (p *Pool) Refs() int32 {
	return p.refs.Load()
}

// Mapped reports whether the region is still mapped.
func (p *Pool) Mapped() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data != nil
}

// Resize remaps the region to size bytes. On failure the previous mapping and
// size stay in place, as far as the platform's mremap leaves them intact.
func (p *Pool) Resize(size int32) error {
	if size <= 0 {
		return &RemapError{Size: size, Err: errors.Wrapf(unix.EINVAL, "mremap to %d bytes", size)}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.data == nil {
		return &RemapError{Size: size, Err: errors.New("pool is unmapped")}
	}

	data, err := remap(p.data, int(size))
	if err != nil {
		return &RemapError{Size: size, Err: errors.Wrapf(err, "mremap %d -> %d bytes", p.size, size)}
	}

	logger.Debugf(p, "resized %d -> %d", p.size, size)
	p.data = data
	p.size = size
	return nil
}

// CreateBuffer validates the geometry against the current size and returns a
// buffer holding a new reference to the pool.
func (p *Pool) CreateBuffer(offset, width, height, stride int32, format wlshm.Format) (*Buffer, error) {
	if err := Validate(offset, width, height, stride, format, p.Size(), true); err != nil {
		return nil, err
	}
	if !p.ref() {
		return nil, errors.Errorf("%s is already released", p)
	}
	return &Buffer{
		width:  width,
		height: height,
		stride: stride,
		format: format,
		offset: offset,
		pool:   p,
	}, nil
}

// ref takes a reference unless the pool has already dropped to zero.
func (p *Pool) ref() bool {
	for {
		n := p.refs.Load()
		if n <= 0 {
			return false
		}
		if p.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Unref drops one reference and unmaps the region when none remain.
func (p *Pool) Unref() {
	n := p.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		logger.Errorf(p, "reference count dropped below zero (%d)", n)
		return
	}

	p.mu.Lock()
	data := p.data
	p.data = nil
	p.mu.Unlock()

	if err := unmap(data); err != nil {
		logger.Errorf(p, "failed to unmap %d bytes: %v", len(data), err)
	}
	logger.Debugf(p, "unmapped %d bytes", len(data))
	if p.released != nil {
		p.released()
	}
}

// view runs fn over length bytes at offset, holding the mapping in place.
// fn sees nil when the range no longer fits the current mapping.
func (p *Pool) view(offset, length int32, fn func([]byte) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	end := int64(offset) + int64(length)
	if p.data == nil || end > int64(len(p.data)) {
		return fn(nil)
	}
	return fn(p.data[offset:end:end])
}

// Dispatch handles create_buffer, destroy and resize on a pool object.
func (p *Pool) Dispatch(obj wlshm.Object, req wlshm.Request) {
	switch r := req.(type) {
	case wlshm.CreateBuffer:
		createBufferObject(obj, p, r)
	case wlshm.Resize:
		if err := p.Resize(r.Size); err != nil {
			logger.Debugf(p, "resize to %d failed: %v", r.Size, errors.Unwrap(err))
			postError(obj, err)
		}
	case wlshm.Destroy:
		obj.Destroy()
	default:
		logger.Warningf(p, "unexpected request %T", req)
	}
}
