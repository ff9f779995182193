//go:build unix && !linux

package shm

import "golang.org/x/sys/unix"

// remap is unsupported where the kernel has no mremap; pools keep their size.
func remap(_ []byte, _ int) ([]byte, error) {
	return nil, unix.ENOTSUP
}
