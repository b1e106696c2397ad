package cmd

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openwob/wobkit/internal/pdf"
)

func TestPageImageIndex_MissingPageYieldsNil(t *testing.T) {
	raster := image.NewGray(image.Rect(0, 0, 10, 10))
	images := pageImageIndex([]pdf.PageImage{
		{Page: 1, Image: raster},
		{Page: 3, Image: raster},
	})

	assert.NotNil(t, images[1])
	assert.NotNil(t, images[3])
	// Page 2 has no embedded scan; the next page's raster must not stand in
	// for it.
	assert.Nil(t, images[2])
}

func TestPageImageIndex_Empty(t *testing.T) {
	images := pageImageIndex(nil)
	assert.Empty(t, images)
	assert.Nil(t, images[1])
}
