package tiles

import (
	"image"

	"golang.org/x/image/draw"
)

// rgbaBytes flattens img into tightly packed, non-premultiplied RGBA rows.
func rgbaBytes(img image.Image) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rowBytes := w * ChannelsPerPixel

	if src, ok := img.(*image.NRGBA); ok {
		if src.Stride == rowBytes && src.Rect.Min == (image.Point{}) {
			out := make([]byte, len(src.Pix))
			copy(out, src.Pix)
			return out
		}
		out := make([]byte, rowBytes*h)
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out[y*rowBytes:(y+1)*rowBytes], src.Pix[off:off+rowBytes])
		}
		return out
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst.Pix
}
