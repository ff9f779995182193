package shm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ugparu/wlshm"
)

func TestNewPool(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 4096)
	require.Equal(t, int32(4096), p.Size())
	require.Equal(t, int32(1), p.Refs())
	require.True(t, p.Mapped())

	p.Unref()
	require.False(t, p.Mapped())
}

func TestNewPoolInvalidSizeClosesFd(t *testing.T) {
	fd := memfd(t, 64)

	_, err := NewPool(fd, 0)
	var serr *InvalidSizeError
	require.ErrorAs(t, err, &serr)

	_, err = unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	require.ErrorIs(t, err, unix.EBADF)
}

func TestNewPoolMapFailureClosesFd(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	defer unix.Close(fds[1])

	_, err := NewPool(fds[0], 4096)
	var merr *MapError
	require.ErrorAs(t, err, &merr)
	require.Equal(t, fds[0], merr.Fd)
	require.Equal(t, wlshm.ErrorInvalidFd, merr.Code())
	require.ErrorIs(t, err, unix.ENODEV)

	_, err = unix.FcntlInt(uintptr(fds[0]), unix.F_GETFD, 0)
	require.ErrorIs(t, err, unix.EBADF)
}

func TestCreateBufferDataAtOffset(t *testing.T) {
	t.Parallel()

	const size = 1 << 16
	p := newTestPool(t, size)
	defer p.Unref()

	rnd := rand.New(rand.NewSource(1))
	for range 200 {
		width := int32(rnd.Intn(64) + 1)
		stride := width*4 + int32(rnd.Intn(16))
		height := int32(rnd.Intn(64) + 1)
		maxOffset := size - stride*height
		if maxOffset < 0 {
			continue
		}
		offset := int32(rnd.Intn(int(maxOffset) + 1))

		b, err := p.CreateBuffer(offset, width, height, stride, wlshm.FormatXRGB8888)
		require.NoError(t, err)

		data := b.Data()
		require.Len(t, data, int(stride*height))
		require.True(t, &data[0] == &p.data[offset])
		b.Release()
	}
	require.Equal(t, int32(1), p.Refs())
}

func TestCreateBufferRejectionLeavesPool(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 400)
	defer p.Unref()

	_, err := p.CreateBuffer(0, 10, 10, 40, wlshm.FormatARGB8888)
	require.NoError(t, err)
	require.Equal(t, int32(2), p.Refs())

	_, err = p.CreateBuffer(4, 10, 10, 40, wlshm.FormatARGB8888)
	var serr *InvalidStrideError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, ReasonBounds, serr.Reason)

	_, err = p.CreateBuffer(0, 1, 32768, 65536, wlshm.FormatARGB8888)
	require.ErrorAs(t, err, &serr)
	require.Equal(t, ReasonOverflow, serr.Reason)

	_, err = p.CreateBuffer(0, 10, 10, 40, wlshm.Format(9))
	var ferr *InvalidFormatError
	require.ErrorAs(t, err, &ferr)

	require.Equal(t, int32(2), p.Refs())
	require.Equal(t, int32(400), p.Size())
}

func TestPoolReleasedOnceAfterLastReference(t *testing.T) {
	t.Parallel()

	const n = 5
	orders := [][]int{
		{0, 1, 2, 3, 4, 5},
		{5, 4, 3, 2, 1, 0},
		{2, 0, 5, 1, 4, 3},
		{1, 2, 3, 4, 5, 0},
	}

	for _, order := range orders {
		p := newTestPool(t, 4096)
		releases := 0
		p.released = func() { releases++ }

		holders := []func(){p.Unref}
		for i := range n {
			b, err := p.CreateBuffer(int32(i*64), 4, 4, 16, wlshm.FormatARGB8888)
			require.NoError(t, err)
			holders = append(holders, b.Release)
		}
		require.Equal(t, int32(n+1), p.Refs())

		for i, idx := range order {
			holders[idx]()
			if i < len(order)-1 {
				require.True(t, p.Mapped(), "order %v step %d", order, i)
				require.Zero(t, releases)
			}
		}
		require.False(t, p.Mapped())
		require.Equal(t, 1, releases)

		// Repeated releases are no-ops.
		for _, release := range holders[1:] {
			release()
		}
		require.Equal(t, 1, releases)
	}
}

func TestUnrefBelowZeroDoesNotUnmapTwice(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 4096)
	releases := 0
	p.released = func() { releases++ }

	p.Unref()
	p.Unref()
	require.Equal(t, 1, releases)
}

func TestCreateBufferOnReleasedPool(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 4096)
	p.Unref()

	_, err := p.CreateBuffer(0, 4, 4, 16, wlshm.FormatARGB8888)
	require.Error(t, err)
	require.LessOrEqual(t, p.Refs(), int32(0))
}

func TestResizeThenCreate(t *testing.T) {
	t.Parallel()

	fd := memfd(t, 4096)
	p, err := NewPool(fd, 100)
	require.NoError(t, err)
	defer p.Unref()

	require.NoError(t, p.Resize(400))
	require.Equal(t, int32(400), p.Size())
	b, err := p.CreateBuffer(0, 10, 10, 40, wlshm.FormatARGB8888)
	require.NoError(t, err)
	b.Release()

	require.NoError(t, p.Resize(399))
	_, err = p.CreateBuffer(0, 10, 10, 40, wlshm.FormatARGB8888)
	var serr *InvalidStrideError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, ReasonBounds, serr.Reason)
}

func TestResizeFailureKeepsMapping(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 4096)
	defer p.Unref()
	before := &p.data[0]

	for _, size := range []int32{0, -1} {
		err := p.Resize(size)
		var rerr *RemapError
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, wlshm.ErrorInvalidFd, rerr.Code())
		require.EqualError(t, err, "failed mremap")
		require.ErrorIs(t, err, unix.EINVAL)
	}
	require.Equal(t, int32(4096), p.Size())
	require.True(t, before == &p.data[0])
}

func TestResizeAfterUnmap(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 4096)
	p.Unref()

	var rerr *RemapError
	require.ErrorAs(t, p.Resize(8192), &rerr)
}

func TestBufferSeesClientWrites(t *testing.T) {
	t.Parallel()

	fd := memfd(t, 4096)
	client, _ := clientMapping(t, fd, 4096)

	p, err := NewPool(fd, 4096)
	require.NoError(t, err)
	defer p.Unref()

	b, err := p.CreateBuffer(256, 2, 2, 8, wlshm.FormatARGB8888)
	require.NoError(t, err)
	defer b.Release()

	copy(client[256:], []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, b.Data()[:8])
}

func TestBufferDataFollowsResize(t *testing.T) {
	t.Parallel()

	fd := memfd(t, 4096)
	client, dup := clientMapping(t, fd, 4096)

	p, err := NewPool(fd, 4096)
	require.NoError(t, err)
	defer p.Unref()

	b, err := p.CreateBuffer(4000, 4, 4, 16, wlshm.FormatXRGB8888)
	require.NoError(t, err)
	defer b.Release()
	client[4000] = 0xab

	require.NoError(t, unix.Ftruncate(dup, 1<<20))
	require.NoError(t, p.Resize(1<<20))
	data := b.Data()
	require.Len(t, data, 64)
	require.Equal(t, byte(0xab), data[0])
	require.True(t, &data[0] == &p.data[4000])

	require.NoError(t, p.Resize(2048))
	require.Nil(t, b.Data())
	require.NoError(t, b.WithData(func(view []byte) error {
		require.Nil(t, view)
		return nil
	}))
}
