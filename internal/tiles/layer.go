package tiles

import "tileforge/internal/core"

// TileLayer maps every cell of a grid to a tile of a shared Tileset.
type TileLayer struct {
	dims    core.GridDimensions2d
	tileset Tileset
	tiles   *core.GridContainer[core.Index2d]
}

// NewTileLayer builds a layer whose cells reference tiles, given in row-major
// order. Every reference must lie inside the tileset's tile grid.
func NewTileLayer(dims core.GridDimensions2d, tileset Tileset, tiles []core.Index2d) (*TileLayer, error) {
	grid, err := core.NewGridContainerFrom(dims, tiles)
	if err != nil {
		return nil, err
	}
	for k, tile := range tiles {
		if !tileset.Contains(tile) {
			return nil, core.Errorf(core.KindPrecondition, "layer.new",
				"cell %d references tile %s outside %s tileset", k, tile, tileset.Dimensions())
		}
	}
	return &TileLayer{dims: dims, tileset: tileset, tiles: grid}, nil
}

// NewFilledTileLayer builds a layer whose cells all reference tile (0,0).
func NewFilledTileLayer(dims core.GridDimensions2d, tileset Tileset) (*TileLayer, error) {
	grid, err := core.NewGridContainer[core.Index2d](dims)
	if err != nil {
		return nil, err
	}
	return &TileLayer{dims: dims, tileset: tileset, tiles: grid}, nil
}

// Dimensions returns the layer size in cells.
func (l *TileLayer) Dimensions() core.GridDimensions2d { return l.dims }

// Tileset returns the tileset the layer draws from.
func (l *TileLayer) Tileset() Tileset { return l.tileset }

// TileAt returns the tile referenced by cell. It panics when cell is out of range.
func (l *TileLayer) TileAt(cell core.Index2d) core.Index2d { return l.tiles.At(cell) }

// SetTile points cell at tile.
func (l *TileLayer) SetTile(cell, tile core.Index2d) error {
	if !l.dims.Contains(cell) {
		return core.Errorf(core.KindPrecondition, "layer.set", "cell %s out of range for %s layer", cell, l.dims)
	}
	if !l.tileset.Contains(tile) {
		return core.Errorf(core.KindPrecondition, "layer.set", "tile %s outside %s tileset", tile, l.tileset.Dimensions())
	}
	l.tiles.Set(cell, tile)
	return nil
}

// Clone returns a copy with its own cell grid. The tileset is shared.
func (l *TileLayer) Clone() *TileLayer {
	return &TileLayer{dims: l.dims, tileset: l.tileset, tiles: l.tiles.Clone()}
}
