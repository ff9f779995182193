package shm

import (
	"math"

	"github.com/ugparu/wlshm"
)

// Validate checks client supplied buffer parameters. When pooled is true the
// buffer must also fit inside poolSize bytes. Checks run in a fixed order and
// the first failure is returned; every arithmetic step stays within int32.
func Validate(offset, width, height, stride int32, format wlshm.Format, poolSize int32, pooled bool) error {
	if !format.Supported() {
		return &InvalidFormatError{Format: format}
	}

	reject := func(reason StrideReason) error {
		return &InvalidStrideError{
			Offset: offset,
			Width:  width,
			Height: height,
			Stride: stride,
			Reason: reason,
		}
	}

	if offset < 0 || width <= 0 || height <= 0 || stride < width {
		return reject(ReasonGeometry)
	}
	if math.MaxInt32/stride <= height {
		return reject(ReasonOverflow)
	}
	if pooled && offset > poolSize-stride*height {
		return reject(ReasonBounds)
	}
	return nil
}

// ValidatePoolSize rejects non-positive pool sizes.
func ValidatePoolSize(size int32) error {
	if size <= 0 {
		return &InvalidSizeError{Size: size}
	}
	return nil
}
