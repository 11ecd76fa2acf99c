package board

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

func TestDataURIRoundTrip(t *testing.T) {
	raw := pngBytes(t, 64, 32)

	uri, err := EncodeDataURI(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	mime, data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, raw, data)

	w, h, err := ImageSize(uri)
	require.NoError(t, err)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)

	img, err := DecodeImage(uri)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())
}

func TestEncodeDataURIRejectsNonImages(t *testing.T) {
	_, err := EncodeDataURI([]byte(`{"items": {}}`))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestDecodeDataURIPlain(t *testing.T) {
	mime, data, err := DecodeDataURI("data:,hello%20map")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime)
	assert.Equal(t, "hello map", string(data))
}

func TestDecodeDataURIMalformed(t *testing.T) {
	for _, uri := range []string{"", "http://example.com/map.png", "data:image/png;base64", "data:image/png;base64,!!!"} {
		_, _, err := DecodeDataURI(uri)
		assert.ErrorIs(t, err, ErrBadDataURI, uri)
	}

	_, err := DecodeImage("data:text/plain,hello")
	assert.Error(t, err)
}
