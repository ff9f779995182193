package shm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// memfd returns an anonymous shared file of size bytes.
func memfd(t *testing.T, size int) int {
	t.Helper()

	fd, err := unix.MemfdCreate("wlshm-test", unix.MFD_CLOEXEC)
	require.NoError(t, err)
	require.NoError(t, unix.Ftruncate(fd, int64(size)))
	return fd
}

// clientMapping maps fd the way a client would and keeps a descriptor for
// later truncation. Both are cleaned up with the test.
func clientMapping(t *testing.T, fd int, size int) (data []byte, dup int) {
	t.Helper()

	dup, err := unix.Dup(fd)
	require.NoError(t, err)
	data, err = unix.Mmap(dup, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = unix.Munmap(data)
		_ = unix.Close(dup)
	})
	return data, dup
}

func newTestPool(t *testing.T, size int32) *Pool {
	t.Helper()

	p, err := NewPool(memfd(t, int(size)), size)
	require.NoError(t, err)
	return p
}
