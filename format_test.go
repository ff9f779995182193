package wlshm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSupportedFormatsOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Format{FormatARGB8888, FormatXRGB8888}, SupportedFormats)
}

func TestFormatSupported(t *testing.T) {
	t.Parallel()

	require.True(t, FormatARGB8888.Supported())
	require.True(t, FormatXRGB8888.Supported())
	require.False(t, Format(0x34324752).Supported())
	require.Equal(t, 4, FormatXRGB8888.BytesPerPixel())
	require.Zero(t, Format(7).BytesPerPixel())
	require.True(t, FormatARGB8888.HasAlpha())
	require.False(t, FormatXRGB8888.HasAlpha())
	require.Equal(t, "UNKNOWN", Format(7).String())
}

func TestKindAndCodeStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "wl_shm_pool", KindShmPool.String())
	require.Equal(t, "kind(9)", ObjectKind(9).String())
	require.Equal(t, "invalid_fd", ErrorInvalidFd.String())
}

func TestKindAccepts(t *testing.T) {
	t.Parallel()

	require.True(t, KindShm.Accepts(CreatePool{}))
	require.False(t, KindShm.Accepts(Destroy{}))
	require.True(t, KindShmPool.Accepts(Resize{}))
	require.True(t, KindShmPool.Accepts(CreateBuffer{}))
	require.True(t, KindBuffer.Accepts(Destroy{}))
	require.False(t, KindBuffer.Accepts(Resize{}))
}
