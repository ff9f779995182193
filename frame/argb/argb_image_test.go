package argb

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLittleEndianLayout(t *testing.T) {
	t.Parallel()

	img, err := Wrap(make([]byte, 8), 2, 1, 8, true)
	require.NoError(t, err)
	img.SetRGBA(1, 0, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44})
	require.Equal(t, []byte{0, 0, 0, 0, 0x33, 0x22, 0x11, 0x44}, img.Pix)
	require.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, img.At(1, 0))
	require.False(t, img.Opaque())
}

func TestXRGBIgnoresPadding(t *testing.T) {
	t.Parallel()

	img, err := Wrap([]byte{1, 2, 3, 0}, 1, 1, 4, false)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 3, G: 2, B: 1, A: 0xff}, img.RGBAAt(0, 0))
	require.True(t, img.Opaque())

	img.SetRGBA(0, 0, color.RGBA{R: 9, A: 0x10})
	require.Equal(t, byte(0xff), img.Pix[3])
}

func TestWrapHonoursStride(t *testing.T) {
	t.Parallel()

	pix := make([]byte, 16*2)
	pix[16+4] = 0xaa
	img, err := Wrap(pix, 2, 2, 16, true)
	require.NoError(t, err)
	require.Equal(t, uint8(0xaa), img.RGBAAt(1, 1).B)
}

func TestWrapRejects(t *testing.T) {
	t.Parallel()

	_, err := Wrap(make([]byte, 8), 2, 2, 8, true)
	require.Error(t, err)
	_, err = Wrap(make([]byte, 64), 4, 2, 8, true)
	require.Error(t, err)
	_, err = Wrap(nil, 0, 1, 4, true)
	require.Error(t, err)
}

func TestSubImageAndBounds(t *testing.T) {
	t.Parallel()

	img, err := Wrap(make([]byte, 64), 4, 4, 16, false)
	require.NoError(t, err)
	img.Set(2, 2, color.White)
	sub, ok := img.SubImage(image.Rect(2, 2, 8, 8)).(*Image)
	require.True(t, ok)
	require.Equal(t, image.Rect(2, 2, 4, 4), sub.Bounds())
	require.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, sub.At(2, 2))
	require.Equal(t, color.RGBA{}, img.At(-1, 0))
	require.True(t, img.SubImage(image.Rect(10, 10, 12, 12)).Bounds().Empty())
}
