package infra

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	"golang.org/x/image/draw"
)

// visionMaxWidth bounds images sent to the vision model; large uploads are
// downscaled first to keep token cost and latency down.
const visionMaxWidth = 300

// DecodeImage parses an uploaded JPEG/PNG/GIF photo.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	return img, nil
}

// Downscale resizes img so its width is at most maxWidth, preserving aspect
// ratio. Images already small enough are returned unchanged.
func Downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// EncodeJPEGBase64 returns the image as base64 JPEG, downscaled for vision
// calls.
func EncodeJPEGBase64(img image.Image) (string, error) {
	small := Downscale(img, visionMaxWidth)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("imaging: encode jpeg: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodePNGBase64 returns the image as base64 PNG at full resolution, the
// form the inpainting model expects.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("imaging: encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// FullRepaintMask builds a mask the size of img with every pixel black, i.e.
// the whole garden area is eligible for repainting. Inpainting treats black
// as "replace" and white as "keep".
func FullRepaintMask(img image.Image) image.Image {
	b := img.Bounds()
	// NewGray zeroes the pixel buffer: all black.
	return image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
}

// MaskFromBBox builds a mask that repaints only the normalized [x1,y1,x2,y2]
// region: white background, black box.
func MaskFromBBox(img image.Image, bbox [4]float64) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))
	white := color.Gray{Y: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mask.SetGray(x, y, white)
		}
	}
	x1, y1 := int(bbox[0]*float64(w)), int(bbox[1]*float64(h))
	x2, y2 := int(bbox[2]*float64(w)), int(bbox[3]*float64(h))
	for y := y1; y < y2 && y < h; y++ {
		for x := x1; x < x2 && x < w; x++ {
			mask.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	return mask
}
