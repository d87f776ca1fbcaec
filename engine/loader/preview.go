package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/anthonynsimon/bild/clone"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// previewFormat pairs a decoder with the magic prefix that selects it.
// TGA has no magic number, so it is tried last and only when nothing else matched.
type previewFormat struct {
	name   string
	match  func(header []byte) bool
	decode func(r io.Reader) (image.Image, error)
}

// The tga package registers itself with image.RegisterFormat under an empty magic string,
// which makes image.Decode hand every input to it. Dispatch on the header here instead.
var previewFormats = []previewFormat{
	{name: "png", match: hasPrefix("\x89PNG\r\n\x1a\n"), decode: png.Decode},
	{name: "jpeg", match: hasPrefix("\xff\xd8"), decode: jpeg.Decode},
	{name: "webp", match: isWebP, decode: nativewebp.Decode},
}

var errEmptyPreview = errors.New("empty preview data")

func hasPrefix(magic string) func([]byte) bool {
	return func(header []byte) bool {
		return bytes.HasPrefix(header, []byte(magic))
	}
}

func isWebP(header []byte) bool {
	return len(header) >= 12 && string(header[:4]) == "RIFF" && string(header[8:12]) == "WEBP"
}

// DecodePreview decodes a preview render. PNG, JPEG and WebP are recognised by their
// header; anything else is decoded as TGA.
//
// Parameters:
//   - data: the encoded image
//
// Returns:
//   - image.Image: the decoded image
//   - string: the format name
//   - error: error if the data is empty or the selected decoder rejects it
func DecodePreview(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("decode preview: %w", errEmptyPreview)
	}
	for _, f := range previewFormats {
		if !f.match(data) {
			continue
		}
		img, err := f.decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("decode preview (%s): %w", f.name, err)
		}
		return img, f.name, nil
	}
	img, err := tga.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode preview (tga): %w", err)
	}
	return img, "tga", nil
}

// FitWithin downscales img so neither side exceeds maxSize, keeping the aspect ratio.
// Images already small enough, or a maxSize of 0, are returned as RGBA copies.
//
// Parameters:
//   - img: the source image
//   - maxSize: the largest allowed width or height
//
// Returns:
//   - *image.RGBA: the fitted image, origin at (0, 0)
func FitWithin(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return clone.AsRGBA(img)
	}

	scale := float64(maxSize) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale+0.5))
	dh := max(1, int(float64(h)*scale+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// AddBorder surrounds img with an opaque black outline of px pixels on every side.
// The result is 2*px wider and taller than the source, which is drawn unscaled at (px, px).
//
// Parameters:
//   - img: the source image
//   - px: outline width on each side
//
// Returns:
//   - *image.RGBA: a new image with the outline applied, origin at (0, 0)
func AddBorder(img image.Image, px int) *image.RGBA {
	if px <= 0 {
		return clone.AsRGBA(img)
	}

	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*px, b.Dy()+2*px))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(px, px, px+b.Dx(), px+b.Dy()), img, b.Min, draw.Over)
	return out
}
