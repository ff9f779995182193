//go:build unix

package shm

import "golang.org/x/sys/unix"

func mapShared(fd int, size int) ([]byte, error) {
	return unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func unmap(data []byte) error {
	return unix.Munmap(data)
}

func closeFd(fd int) error {
	return unix.Close(fd)
}
