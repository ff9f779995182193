// Package argb views 32-bit little-endian ARGB and XRGB pixel rows as an image.Image.
package argb

import (
	"fmt"
	"image"
	"image/color"
)

const bytesPerPix = 4

// Byte positions of each channel within a little-endian pixel.
const (
	offB = iota
	offG
	offR
	offA
)

// Image is an ARGB8888 (premultiplied alpha) or XRGB8888 pixel grid.
// For XRGB the fourth byte is padding and every pixel reads as opaque.
type Image struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
	Alpha  bool
}

// Wrap views pix as a width x height image with the given row pitch without copying.
func Wrap(pix []byte, width, height, stride int, alpha bool) (*Image, error) {
	if width <= 0 || height <= 0 || stride < width*bytesPerPix {
		return nil, fmt.Errorf("invalid geometry %dx%d stride %d", width, height, stride)
	}
	if need := stride*(height-1) + width*bytesPerPix; len(pix) < need {
		return nil, fmt.Errorf("pixel data too short: got %d bytes, need %d", len(pix), need)
	}
	return &Image{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
		Alpha:  alpha,
	}, nil
}

// ColorModel returns color.RGBAModel; stored pixels are premultiplied.
func (*Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds returns the rectangle of the image.
func (img *Image) Bounds() image.Rectangle {
	return img.Rect
}

// PixOffset returns the index into Pix of the pixel at (x, y).
func (img *Image) PixOffset(x, y int) int {
	return (y-img.Rect.Min.Y)*img.Stride + (x-img.Rect.Min.X)*bytesPerPix
}

// Opaque reports whether every pixel is fully opaque.
func (img *Image) Opaque() bool {
	if !img.Alpha {
		return true
	}
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		i := img.PixOffset(img.Rect.Min.X, y)
		for x := 0; x < img.Rect.Dx(); x++ {
			if img.Pix[i+x*bytesPerPix+offA] != 0xff {
				return false
			}
		}
	}
	return true
}

// At returns the color at (x, y).
func (img *Image) At(x, y int) color.Color {
	return img.RGBAAt(x, y)
}

// RGBAAt returns the premultiplied color at (x, y), transparent black outside the bounds.
func (img *Image) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(img.Rect)) {
		return color.RGBA{}
	}
	i := img.PixOffset(x, y)
	s := img.Pix[i : i+bytesPerPix : i+bytesPerPix]
	a := byte(0xff)
	if img.Alpha {
		a = s[offA]
	}
	return color.RGBA{R: s[offR], G: s[offG], B: s[offB], A: a}
}

// Set stores c at (x, y).
func (img *Image) Set(x, y int, c color.Color) {
	c1, _ := color.RGBAModel.Convert(c).(color.RGBA)
	img.SetRGBA(x, y, c1)
}

// SetRGBA stores a premultiplied color at (x, y). XRGB images store 0xff in the padding byte.
func (img *Image) SetRGBA(x, y int, c color.RGBA) {
	if !(image.Point{x, y}.In(img.Rect)) {
		return
	}
	i := img.PixOffset(x, y)
	s := img.Pix[i : i+bytesPerPix : i+bytesPerPix]
	s[offB] = c.B
	s[offG] = c.G
	s[offR] = c.R
	if img.Alpha {
		s[offA] = c.A
	} else {
		s[offA] = 0xff
	}
}

// SubImage returns the portion of the image within r, sharing pixels.
func (img *Image) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(img.Rect)
	if r.Empty() {
		return &Image{Alpha: img.Alpha}
	}
	i := img.PixOffset(r.Min.X, r.Min.Y)
	return &Image{
		Pix:    img.Pix[i:],
		Stride: img.Stride,
		Rect:   r,
		Alpha:  img.Alpha,
	}
}
