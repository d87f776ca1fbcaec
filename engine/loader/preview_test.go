package loader_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader/loadertest"
)

func TestDecodePreviewPNG(t *testing.T) {
	img, format, err := loader.DecodePreview(loadertest.PNG(3, 5, color.Black))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Pt(3, 5), img.Bounds().Size())

	_, _, err = loader.DecodePreview([]byte("nope"))
	assert.Error(t, err)
	_, _, err = loader.DecodePreview(nil)
	assert.Error(t, err)
}

// tga is linked into this test binary and registers an empty magic string with the
// image package; every other format must still be routed to its own decoder.
func TestDecodePreviewFormatsAlongsideTGA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 10, A: 0xff})
		}
	}

	var jpg, webp, targa bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, src, nil))
	require.NoError(t, nativewebp.Encode(&webp, src, nil))
	require.NoError(t, tga.Encode(&targa, src))

	cases := []struct {
		name string
		data []byte
	}{
		{"png", loadertest.PNG(4, 2, color.White)},
		{"jpeg", jpg.Bytes()},
		{"webp", webp.Bytes()},
		{"tga", targa.Bytes()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img, format, err := loader.DecodePreview(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.name, format)
			assert.Equal(t, image.Pt(4, 2), img.Bounds().Size())
		})
	}

	r, _, _, a := mustDecode(t, targa.Bytes()).At(1, 1).RGBA()
	assert.Equal(t, uint32(200)<<8|200, r)
	assert.Equal(t, uint32(0xffff), a)
}

func TestDecodePreviewReportsCorruptPNG(t *testing.T) {
	data := loadertest.PNG(2, 2, color.Black)
	_, _, err := loader.DecodePreview(data[:len(data)/2])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "png")
}

func mustDecode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, _, err := loader.DecodePreview(data)
	require.NoError(t, err)
	return img
}

func TestFitWithinKeepsAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	out := loader.FitWithin(src, 200)
	assert.Equal(t, image.Pt(200, 50), out.Bounds().Size())

	same := loader.FitWithin(src, 0)
	assert.Equal(t, image.Pt(400, 100), same.Bounds().Size())
}

func TestAddBorderPadsWithBlack(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 12))
	for y := 10; y < 12; y++ {
		for x := 10; x < 12; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 200, A: 0xff})
		}
	}

	out := loader.AddBorder(src, 3)
	assert.Equal(t, image.Rect(0, 0, 8, 8), out.Bounds())
	assert.Equal(t, color.RGBA{A: 0xff}, out.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{R: 200, A: 0xff}, out.RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{R: 200, A: 0xff}, out.RGBAAt(4, 4))
	assert.Equal(t, color.RGBA{A: 0xff}, out.RGBAAt(5, 5))

	assert.Equal(t, src.Bounds().Size(), loader.AddBorder(src, 0).Bounds().Size())
}
