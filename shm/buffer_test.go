package shm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ugparu/wlshm"
)

func TestAnonymousBuffer(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 4096)
	defer p.Unref()

	b, err := NewAnonymousBuffer(8, 4, 32, wlshm.FormatARGB8888)
	require.NoError(t, err)
	require.Nil(t, b.Pool())
	require.Zero(t, b.Offset())
	require.Equal(t, int32(8), b.Width())
	require.Equal(t, int32(4), b.Height())
	require.Equal(t, int32(32), b.Stride())
	require.Equal(t, wlshm.FormatARGB8888, b.Format())

	data := b.Data()
	require.Len(t, data, 128)
	for i := range p.data {
		require.False(t, &data[0] == &p.data[i])
	}

	b.Release()
	b.Release()
	require.True(t, b.Released())
	require.Nil(t, b.Data())
	require.Equal(t, int32(1), p.Refs())
}

func TestAnonymousBufferRejects(t *testing.T) {
	t.Parallel()

	_, err := NewAnonymousBuffer(8, 4, 32, wlshm.Format(0x20203859))
	var ferr *InvalidFormatError
	require.ErrorAs(t, err, &ferr)

	_, err = NewAnonymousBuffer(8, 4, 4, wlshm.FormatXRGB8888)
	var serr *InvalidStrideError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, ReasonGeometry, serr.Reason)

	_, err = NewAnonymousBuffer(1, 40000, 65536, wlshm.FormatXRGB8888)
	require.ErrorAs(t, err, &serr)
	require.Equal(t, ReasonOverflow, serr.Reason)
}

func TestBufferWithData(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 4096)
	defer p.Unref()

	b, err := p.CreateBuffer(64, 4, 4, 16, wlshm.FormatXRGB8888)
	require.NoError(t, err)
	defer b.Release()

	require.NoError(t, b.WithData(func(data []byte) error {
		require.Len(t, data, 64)
		require.Equal(t, 64, cap(data))
		data[0] = 0x7f
		return nil
	}))
	require.Equal(t, byte(0x7f), p.data[64])
	require.Equal(t, 64, b.Len())
}

func TestBufferString(t *testing.T) {
	t.Parallel()

	b, err := NewAnonymousBuffer(1, 1, 4, wlshm.FormatXRGB8888)
	require.NoError(t, err)
	b.id = 12
	require.Equal(t, "wl_buffer#12", b.String())
	require.Equal(t, wlshm.KindBuffer, b.Kind())
}

func TestBufferReleaseWhileReading(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 4096)
	defer p.Unref()

	anon, err := NewAnonymousBuffer(16, 16, 64, wlshm.FormatXRGB8888)
	require.NoError(t, err)
	pooled, err := p.CreateBuffer(0, 16, 16, 64, wlshm.FormatXRGB8888)
	require.NoError(t, err)

	for _, b := range []*Buffer{anon, pooled} {
		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					_ = b.WithData(func(data []byte) error {
						if data != nil && len(data) != b.Len() {
							t.Errorf("got %d bytes, want %d", len(data), b.Len())
						}
						return nil
					})
					_ = b.Data()
				}
			}()
		}
		b.Release()
		wg.Wait()

		require.NoError(t, b.WithData(func(data []byte) error {
			require.Nil(t, data)
			return nil
		}))
	}
	require.Equal(t, int32(1), p.Refs())
}
