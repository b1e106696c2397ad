package ocr

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "nld", cfg.Language)
	assert.Equal(t, gosseract.PSM_SINGLE_BLOCK, cfg.PageSegMode)
	assert.Empty(t, cfg.Whitelist)
}

func TestEncodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	data, err := EncodePNG(img)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.Bounds().Dx())
}

func TestEncodePNG_NilImage(t *testing.T) {
	_, err := EncodePNG(nil)
	assert.Error(t, err)
}
