package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerateThumbnailFitsBox(t *testing.T) {
	p := NewImageProcessor()

	r, err := p.GenerateThumbnail(bytes.NewReader(pngOf(t, 800, 400)), 200, 200)
	require.NoError(t, err)

	img, format, err := image.Decode(r)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestResizeRejectsNonImages(t *testing.T) {
	_, err := NewImageProcessor().Resize(strings.NewReader("not an image"), 10, 10)
	assert.Error(t, err)
}
