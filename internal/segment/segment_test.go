package segment

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/mapscan/internal/utils"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	return img
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStoreRejectsTraversalNames(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{
		"../escape.png",
		"a/b.png",
		`a\b.png`,
		"..",
		"",
		"/etc/passwd",
	} {
		_, err := store.Path(name)
		assert.Error(t, err, "name %q must be rejected", name)
	}

	path, err := store.Path("segment_abc_12345678.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "segment_abc_12345678.png"), path)
}

func TestStoreSaveAndExists(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SavePNG("seg.png", testImage(10, 10)))
	assert.True(t, store.Exists("seg.png"))
	assert.False(t, store.Exists("missing.png"))
	assert.False(t, store.Exists("../seg.png"))
}

func TestExtractValidRegion(t *testing.T) {
	store := newTestStore(t)
	e := NewExtractor(store, 0, nil)

	seg := e.Extract(testImage(400, 300), utils.NewBox(50, 60, 150, 120), "job1")

	assert.True(t, strings.HasPrefix(seg.Name, "segment_job1_"))
	assert.True(t, strings.HasSuffix(seg.Name, ".png"))
	assert.Equal(t, 100, seg.Width)
	assert.Equal(t, 60, seg.Height)
	assert.True(t, store.Exists(seg.Name))
}

func TestExtractInvalidRegionUsesDefaultCrop(t *testing.T) {
	store := newTestStore(t)
	e := NewExtractor(store, 0, nil)

	tests := []struct {
		name string
		box  utils.Box
	}{
		{"outside image", utils.NewBox(500, 500, 600, 600)},
		{"degenerate", utils.NewBox(10, 10, 10, 10)},
		{"negative origin", utils.Box{MinX: -5, MinY: -5, MaxX: 50, MaxY: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := e.Extract(testImage(400, 300), tt.box, "job2")
			assert.Equal(t, DefaultSegmentSize, seg.Width)
			assert.Equal(t, DefaultSegmentSize, seg.Height)
			assert.InDelta(t, 0, seg.Box.MinX, 1e-9)
			assert.InDelta(t, 0, seg.Box.MinY, 1e-9)
		})
	}
}

func TestExtractDefaultCropOnSmallImage(t *testing.T) {
	store := newTestStore(t)
	e := NewExtractor(store, 0, nil)

	seg := e.Extract(testImage(40, 30), utils.NewBox(500, 500, 600, 600), "job3")
	assert.Equal(t, 40, seg.Width)
	assert.Equal(t, 30, seg.Height)
}

func TestExtractNamesAreUnique(t *testing.T) {
	store := newTestStore(t)
	e := NewExtractor(store, 0, nil)
	img := testImage(200, 200)

	a := e.Extract(img, utils.NewBox(0, 0, 50, 50), "job4")
	b := e.Extract(img, utils.NewBox(0, 0, 50, 50), "job4")
	assert.NotEqual(t, a.Name, b.Name)
}

func TestExtractFallbackSize(t *testing.T) {
	store := newTestStore(t)
	e := NewExtractor(store, 64, nil)

	seg := e.Extract(testImage(400, 300), utils.NewBox(10, 10, 10, 10), "job5")
	assert.Equal(t, 64, seg.Width)
	assert.Equal(t, 64, seg.Height)
}

func TestExtractWriteFailureYieldsErrorMarkerName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	e := NewExtractor(store, 0, nil)

	// Remove the output directory so every write fails.
	require.NoError(t, os.RemoveAll(dir))

	seg := e.Extract(testImage(400, 300), utils.NewBox(50, 60, 150, 120), "job6")
	assert.Equal(t, "segment_error_job6.png", seg.Name)
	assert.Equal(t, 100, seg.Width)
	assert.Equal(t, 60, seg.Height)
}
