package infra

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 140, B: 70, A: 255})
		}
	}
	return img
}

func TestDecodeImageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(16, 12)))

	img, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 12, img.Bounds().Dy())

	_, err = DecodeImage([]byte("not an image"))
	require.Error(t, err)
}

func TestDownscalePreservesAspectRatio(t *testing.T) {
	small := Downscale(testImage(200, 100), 300)
	assert.Equal(t, 200, small.Bounds().Dx(), "images under the limit are untouched")

	scaled := Downscale(testImage(600, 400), 300)
	assert.Equal(t, 300, scaled.Bounds().Dx())
	assert.Equal(t, 200, scaled.Bounds().Dy())
}

func TestEncodePNGBase64KeepsResolution(t *testing.T) {
	b64, err := EncodePNGBase64(testImage(640, 480))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	img, err := DecodeImage(raw)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
}

func TestFullRepaintMaskIsAllBlack(t *testing.T) {
	mask := FullRepaintMask(testImage(10, 10))
	gray, ok := mask.(*image.Gray)
	require.True(t, ok)
	for _, px := range gray.Pix {
		require.Equal(t, uint8(0), px)
	}
}

func TestMaskFromBBoxPaintsRegionBlack(t *testing.T) {
	mask := MaskFromBBox(testImage(100, 100), [4]float64{0.25, 0.25, 0.75, 0.75})
	gray := mask.(*image.Gray)

	assert.Equal(t, uint8(255), gray.GrayAt(10, 10).Y, "outside the box stays white")
	assert.Equal(t, uint8(0), gray.GrayAt(50, 50).Y, "inside the box is black")
	assert.Equal(t, uint8(255), gray.GrayAt(90, 90).Y)
}
