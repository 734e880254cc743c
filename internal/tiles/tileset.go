package tiles

import "tileforge/internal/core"

// Tileset is an atlas texture cut into a grid of equally sized tiles.
type Tileset struct {
	tileSize core.GridDimensions2d
	dims     core.GridDimensions2d
	texture  Texture
}

// NewTileset checks that texture is exactly tileSize*dims pixels and returns
// the tileset.
func NewTileset(tileSize, dims core.GridDimensions2d, texture Texture) (Tileset, error) {
	if tileSize.NColumns <= 0 || tileSize.NRows <= 0 {
		return Tileset{}, core.Errorf(core.KindPrecondition, "tileset.new", "tile size must be positive, got %s", tileSize)
	}
	if dims.NColumns <= 0 || dims.NRows <= 0 {
		return Tileset{}, core.Errorf(core.KindPrecondition, "tileset.new", "tileset dimensions must be positive, got %s", dims)
	}
	if want := tileSize.Mul(dims); texture.Dimensions() != want {
		return Tileset{}, core.Errorf(core.KindPrecondition, "tileset.new",
			"atlas is %s pixels but %s tiles of %s pixels need %s",
			texture.Dimensions(), dims, tileSize, want)
	}
	return Tileset{tileSize: tileSize, dims: dims, texture: texture}, nil
}

// TileSize returns the pixel size of one tile.
func (ts Tileset) TileSize() core.GridDimensions2d { return ts.tileSize }

// Dimensions returns the number of tile columns and rows in the atlas.
func (ts Tileset) Dimensions() core.GridDimensions2d { return ts.dims }

// Texture returns the atlas texture.
func (ts Tileset) Texture() Texture { return ts.texture }

// TileCount returns the number of tiles in the atlas.
func (ts Tileset) TileCount() int { return ts.dims.Area() }

// Contains reports whether tile addresses a tile of this atlas.
func (ts Tileset) Contains(tile core.Index2d) bool { return ts.dims.Contains(tile) }

// LayerOf returns the array-texture layer holding tile.
func (ts Tileset) LayerOf(tile core.Index2d) int { return core.Index1d(tile, ts.dims) }

// LinearBytes reorders the atlas so that every tile's rows are contiguous and
// tiles follow each other in row-major tile order:
//
//	+----+----+      +----+
//	| 11 | 22 |      | 11 |
//	| 11 | 22 |      | 11 |
//	+----+----+  =>  +----+
//	| 33 | 44 |      | 22 |
//	| 33 | 44 |      | 22 |
//	+----+----+      +----+
//	                 | 33 | ...
//
// Each source pixel row is cut into one row per tile column and copied to its
// offset inside the destination tile.
func (ts Tileset) LinearBytes() []byte {
	src := ts.texture.Pixels()
	dst := make([]byte, len(src))

	atlas := ts.texture.Dimensions()
	bytesPerAtlasRow := atlas.NColumns * ChannelsPerPixel
	bytesPerTileRow := ts.tileSize.NColumns * ChannelsPerPixel
	bytesPerTile := ts.tileSize.Area() * ChannelsPerPixel

	for pxRow := 0; pxRow < atlas.NRows; pxRow++ {
		rowOffset := pxRow * bytesPerAtlasRow
		tileRow := pxRow / ts.tileSize.NRows
		tilePxRow := pxRow % ts.tileSize.NRows
		for tileCol := 0; tileCol < ts.dims.NColumns; tileCol++ {
			start := rowOffset + tileCol*bytesPerTileRow
			destTile := core.Index1d(core.Index2d{I: tileCol, J: tileRow}, ts.dims)
			destOffset := destTile*bytesPerTile + tilePxRow*bytesPerTileRow
			copy(dst[destOffset:destOffset+bytesPerTileRow], src[start:start+bytesPerTileRow])
		}
	}
	return dst
}
