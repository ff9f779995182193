package shm

import (
	"fmt"

	"github.com/ugparu/wlshm"
)

// ProtocolError is an error that maps onto a wire error code.
type ProtocolError interface {
	error
	Code() wlshm.ErrorCode
}

// InvalidFormatError reports a format outside the whitelist.
type InvalidFormatError struct {
	Format wlshm.Format
}

// Error returns the error message for InvalidFormatError.
func (InvalidFormatError) Error() string {
	return "invalid format"
}

// Code returns ErrorInvalidFormat.
func (InvalidFormatError) Code() wlshm.ErrorCode {
	return wlshm.ErrorInvalidFormat
}

// StrideReason tells which geometry check rejected a buffer.
type StrideReason uint8

const (
	ReasonGeometry StrideReason = iota // Negative offset, empty extent or stride narrower than width.
	ReasonOverflow                     // stride*height does not fit in int32.
	ReasonBounds                       // The buffer would end past the pool.
)

// String returns the human-readable string representation of a StrideReason.
func (r StrideReason) String() string {
	switch r {
	case ReasonGeometry:
		return "geometry"
	case ReasonOverflow:
		return "overflow"
	case ReasonBounds:
		return "bounds"
	default:
		return "unknown"
	}
}

// InvalidStrideError reports rejected buffer geometry along with the offending dimensions.
type InvalidStrideError struct {
	Offset, Width, Height, Stride int32
	Reason                        StrideReason
}

// Error returns the error message for InvalidStrideError.
func (e InvalidStrideError) Error() string {
	// The stride is printed unsigned, as clients expect on the wire.
	return fmt.Sprintf("invalid width, height or stride (%dx%d, %d)", e.Width, e.Height, uint32(e.Stride))
}

// Code returns ErrorInvalidStride.
func (InvalidStrideError) Code() wlshm.ErrorCode {
	return wlshm.ErrorInvalidStride
}

// InvalidSizeError reports a non-positive pool size.
type InvalidSizeError struct {
	Size int32
}

// Error returns the error message for InvalidSizeError.
func (e InvalidSizeError) Error() string {
	return fmt.Sprintf("invalid size (%d)", e.Size)
}

// Code returns ErrorInvalidStride, the code the protocol uses for bad pool sizes.
func (InvalidSizeError) Code() wlshm.ErrorCode {
	return wlshm.ErrorInvalidStride
}

// MapError reports that the client handle could not be mapped.
type MapError struct {
	Fd  int
	Err error
}

// Error returns the error message for MapError.
func (e MapError) Error() string {
	return fmt.Sprintf("failed mmap fd %d", e.Fd)
}

// Unwrap returns the underlying syscall failure.
func (e MapError) Unwrap() error {
	return e.Err
}

// Code returns ErrorInvalidFd.
func (MapError) Code() wlshm.ErrorCode {
	return wlshm.ErrorInvalidFd
}

// RemapError reports a failed resize; the pool keeps its previous mapping.
type RemapError struct {
	Size int32
	Err  error
}

// Error returns the error message for RemapError.
func (RemapError) Error() string {
	return "failed mremap"
}

// Unwrap returns the underlying syscall failure.
func (e RemapError) Unwrap() error {
	return e.Err
}

// Code returns ErrorInvalidFd.
func (RemapError) Code() wlshm.ErrorCode {
	return wlshm.ErrorInvalidFd
}
