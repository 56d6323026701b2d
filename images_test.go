package staticpress

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestProcessImageResizesWideImages(t *testing.T) {
	for name, data := range map[string][]byte{
		"wide.png": pngBytes(t, 400, 200),
		"wide.jpg": jpegBytes(t, 400, 200),
	} {
		t.Run(name, func(t *testing.T) {
			out, err := processImage(name, data, 100)
			require.NoError(t, err)
			assert.True(t, out.Resized)
			assert.Equal(t, 100, out.Width)
			assert.Equal(t, 50, out.Height)

			cfg, _, err := image.DecodeConfig(bytes.NewReader(out.Data))
			require.NoError(t, err)
			assert.Equal(t, 100, cfg.Width)
			assert.Equal(t, 50, cfg.Height)
		})
	}
}

func TestProcessImageKeepsSmallImages(t *testing.T) {
	data := pngBytes(t, 80, 60)
	out, err := processImage("small.png", data, 100)
	require.NoError(t, err)
	assert.False(t, out.Resized)
	assert.Equal(t, data, out.Data)
	assert.Equal(t, 80, out.Width)
	assert.Equal(t, 60, out.Height)
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	_, err := processImage("broken.png", []byte("not an image"), 100)
	assert.Error(t, err)
}

func TestLoadAssets(t *testing.T) {
	fsys := fstest.MapFS{
		"images/me.png": {Data: pngBytes(t, 300, 150)},
		"icons/go.svg":  {Data: []byte("<svg/>")},
		"broken.jpg":    {Data: []byte("nope")},
		".git/config":   {Data: []byte("[core]")},
		"robots.txt":    {Data: []byte("User-agent: *\n")},
	}
	assets, err := loadAssets(fsys, 100, quietLogger())
	require.NoError(t, err)

	var paths []string
	for _, f := range assets.Files() {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"broken.jpg", "icons/go.svg", "images/me.png", "robots.txt"}, paths)

	me, ok := assets.Get("/images/me.png")
	require.True(t, ok)
	assert.Equal(t, 100, me.Width)
	assert.Equal(t, 50, me.Height)

	broken, ok := assets.Get("broken.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("nope"), broken.Data)

	_, ok = assets.Get(".git/config")
	assert.False(t, ok)
}

func TestLoadAssetsNil(t *testing.T) {
	assets, err := loadAssets(nil, 100, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, assets.Files())

	var none *Assets
	_, ok := none.Get("x")
	assert.False(t, ok)
}
