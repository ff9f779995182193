//go:build linux

package shm

import "golang.org/x/sys/unix"

// remap may move the mapping; the returned slice replaces data.
func remap(data []byte, size int) ([]byte, error) {
	return unix.Mremap(data, size, unix.MREMAP_MAYMOVE)
}
