package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeClass(t *testing.T) {
	assert.Equal(t, 1024, sizeClass(1))
	assert.Equal(t, 1024, sizeClass(1024))
	assert.Equal(t, 2048, sizeClass(1025))
	assert.Equal(t, 3072, sizeClass(2049))
}

func TestGetFloat32Length(t *testing.T) {
	buf := GetFloat32(640 * 480)
	defer PutFloat32(buf)
	assert.Len(t, buf, 640*480)
	assert.GreaterOrEqual(t, cap(buf), 640*480)
}

func TestFloat32Reuse(t *testing.T) {
	first := GetFloat32(2000)
	for i := range first {
		first[i] = 1
	}
	PutFloat32(first)

	// The pooled buffer comes back dirty; callers overwrite their plane.
	second := GetFloat32(2000)
	defer PutFloat32(second)
	assert.Len(t, second, 2000)
}

func TestGetBoolIsCleared(t *testing.T) {
	mask := GetBool(4096)
	for i := range mask {
		mask[i] = true
	}
	PutBool(mask)

	fresh := GetBool(4096)
	defer PutBool(fresh)
	for i, v := range fresh {
		require.False(t, v, "mask index %d not cleared", i)
	}
}

func TestPutNilIsSafe(t *testing.T) {
	PutFloat32(nil)
	PutBool(nil)
}

// TestDetectorPlaneLifecycle exercises the pool the way the shape fallback
// detector does: a luminance plane, an edge plane, and a mask plane per
// image, acquired and released together.
func TestDetectorPlaneLifecycle(t *testing.T) {
	const w, h = 320, 240

	for range 50 {
		lum := GetFloat32(w * h)
		edges := GetFloat32(w * h)
		mask := GetBool(w * h)

		require.Len(t, lum, w*h)
		require.Len(t, edges, w*h)
		require.Len(t, mask, w*h)

		for i := range lum {
			lum[i] = float32(i%255) / 255
		}
		for i := 1; i < w*h-1; i++ {
			edges[i] = lum[i+1] - lum[i-1]
			mask[i] = edges[i] > 0.5
		}

		PutBool(mask)
		PutFloat32(edges)
		PutFloat32(lum)
	}
}

func TestConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				buf := GetFloat32(1500)
				buf[0] = 42
				PutFloat32(buf)

				mask := GetBool(1500)
				mask[0] = true
				PutBool(mask)
			}
		}()
	}
	wg.Wait()
}
