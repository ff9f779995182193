// Package snapshot copies a buffer's pixels out of client memory and renders
// them as a scaled image.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"runtime/debug"

	"golang.org/x/image/draw"

	"github.com/ugparu/wlshm/frame/argb"
	"github.com/ugparu/wlshm/shm"
	"github.com/ugparu/wlshm/utils/logger"
)

var (
	// ErrFault is returned when reading client memory faulted, typically because
	// the client truncated the file behind its pool.
	ErrFault = errors.New("memory fault reading buffer")
	// ErrOutsidePool is returned when a resize left the buffer outside its pool.
	ErrOutsidePool = errors.New("buffer lies outside its pool")
	// ErrReleased is returned when the buffer was destroyed before the copy.
	ErrReleased = errors.New("buffer is released")
)

// Capture copies buf and scales the copy so neither side exceeds maxDim.
// A non-positive maxDim keeps the buffer size.
func Capture(buf *shm.Buffer, maxDim int) (image.Image, error) {
	width := min(int(buf.Width()), int(buf.Stride())/4)
	height := int(buf.Height())
	if width <= 0 {
		return nil, fmt.Errorf("stride %d holds no whole pixel", buf.Stride())
	}

	var pix []byte
	err := buf.WithData(func(data []byte) (err error) {
		if data == nil {
			if buf.Released() {
				return ErrReleased
			}
			return ErrOutsidePool
		}
		pix, err = copyGuarded(data)
		return err
	})
	if err != nil {
		logger.Debugf(buf, "snapshot failed: %v", err)
		return nil, err
	}

	src, err := argb.Wrap(pix, width, height, int(buf.Stride()), buf.Format().HasAlpha())
	if err != nil {
		return nil, err
	}
	if maxDim <= 0 || (width <= maxDim && height <= maxDim) {
		return src, nil
	}

	dst := image.NewRGBA(fit(width, height, maxDim))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// PNG captures buf and encodes it as PNG.
func PNG(buf *shm.Buffer, maxDim int) ([]byte, error) {
	img, err := Capture(buf, maxDim)
	if err != nil {
		return nil, err
	}
	out := new(bytes.Buffer)
	if err = png.Encode(out, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return out.Bytes(), nil
}

// fit scales width x height down to fit a maxDim square, keeping the aspect ratio.
func fit(width, height, maxDim int) image.Rectangle {
	if width >= height {
		return image.Rect(0, 0, maxDim, max(1, height*maxDim/width))
	}
	return image.Rect(0, 0, max(1, width*maxDim/height), maxDim)
}

// copyGuarded copies src, turning a fault on the mapping into ErrFault.
func copyGuarded(src []byte) (dst []byte, err error) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if r := recover(); r != nil {
			dst = nil
			err = fmt.Errorf("%w: %v", ErrFault, r)
		}
	}()

	dst = make([]byte, len(src))
	copy(dst, src)
	return dst, nil
}
