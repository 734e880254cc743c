// Package tiles turns tile atlases and tile grids into upload-ready data:
// RGBA textures, layer-ordered atlas bytes and per-cell triangle meshes.
package tiles

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"tileforge/internal/core"
)

// ChannelsPerPixel is the number of bytes per RGBA pixel.
const ChannelsPerPixel = 4

// Texture is an immutable RGBA pixel buffer, row-major and top-to-bottom.
// Copies share the pixel slice, which must never be written to.
type Texture struct {
	dims   core.GridDimensions2d
	pixels []byte
}

// NewTexture builds a texture from a copy of rgba, which must hold exactly
// width*height*4 bytes.
func NewTexture(dims core.GridDimensions2d, rgba []byte) (Texture, error) {
	if dims.NColumns <= 0 || dims.NRows <= 0 {
		return Texture{}, core.Errorf(core.KindPrecondition, "texture.new", "texture dimensions must be positive, got %s", dims)
	}
	if want := dims.Area() * ChannelsPerPixel; len(rgba) != want {
		return Texture{}, core.Errorf(core.KindPrecondition, "texture.new",
			"%s texture needs %d RGBA bytes, got %d", dims, want, len(rgba))
	}
	return Texture{dims: dims, pixels: bytes.Clone(rgba)}, nil
}

// DecodeTexture decodes an encoded image (PNG, BMP, WebP, GIF or JPEG) into
// straight-alpha RGBA bytes.
func DecodeTexture(encoded []byte) (Texture, error) {
	img, format, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return Texture{}, core.Wrap(core.KindAsset, "texture.decode", err, "failed to decode image as RGBA texture")
	}
	b := img.Bounds()
	if b.Empty() {
		return Texture{}, core.Errorf(core.KindAsset, "texture.decode", "decoded %s image is empty", format)
	}
	return Texture{
		dims:   core.GridDimensions2d{NColumns: b.Dx(), NRows: b.Dy()},
		pixels: rgbaBytes(img),
	}, nil
}

// Dimensions returns the texture size in pixels.
func (t Texture) Dimensions() core.GridDimensions2d { return t.dims }

// Pixels exposes the RGBA bytes. Callers must treat them as read-only.
func (t Texture) Pixels() []byte { return t.pixels }

// At returns the pixel at idx. It panics when idx is outside the texture.
func (t Texture) At(idx core.Index2d) color.RGBA {
	if !t.dims.Contains(idx) {
		panic("texture pixel " + idx.String() + " out of range for " + t.dims.String() + " texture")
	}
	base := core.Index1d(idx, t.dims) * ChannelsPerPixel
	p := t.pixels[base : base+ChannelsPerPixel]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}
