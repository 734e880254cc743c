package tiles

import (
	"testing"

	"tileforge/internal/core"
)

func testTileset(t *testing.T, grid core.GridDimensions2d) Tileset {
	t.Helper()
	tileSize := dims(2, 2)
	atlas := tileSize.Mul(grid)
	ts, err := NewTileset(tileSize, grid, pixelAtlas(t, atlas.NColumns, atlas.NRows))
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestMeshSingleCell(t *testing.T) {
	layer, err := NewFilledTileLayer(dims(1, 1), testTileset(t, dims(2, 2)))
	if err != nil {
		t.Fatal(err)
	}
	m := layer.Mesh()
	if m.VertexCount() != 6 {
		t.Fatalf("vertex count = %d, want 6", m.VertexCount())
	}
	want := [][2]float32{{0, 0}, {0, 1}, {1, 0}, {0, 1}, {1, 1}, {1, 0}}
	for k, v := range m.Vertices {
		if v.U != want[k][0] || v.V != want[k][1] {
			t.Fatalf("vertex %d uv = (%v,%v), want %v", k, v.U, v.V, want[k])
		}
		if v.X != want[k][0] || v.Y != want[k][1] {
			t.Fatalf("vertex %d pos = (%v,%v), want %v", k, v.X, v.Y, want[k])
		}
		if m.Layers[k] != 0 {
			t.Fatalf("vertex %d layer = %d, want 0", k, m.Layers[k])
		}
	}
}

func TestMeshPositionsAndLayers(t *testing.T) {
	ts := testTileset(t, dims(3, 2))
	tilesIn := []core.Index2d{
		{I: 0, J: 0}, {I: 2, J: 0}, {I: 1, J: 1},
		{I: 2, J: 1}, {I: 0, J: 1}, {I: 1, J: 0},
	}
	layer, err := NewTileLayer(dims(3, 2), ts, tilesIn)
	if err != nil {
		t.Fatalf("NewTileLayer: %v", err)
	}
	m := layer.Mesh()
	if m.VertexCount() != 6*3*2 || len(m.Layers) != m.VertexCount() {
		t.Fatalf("vertex count = %d layers = %d", m.VertexCount(), len(m.Layers))
	}
	for cellIdx, tile := range tilesIn {
		i, j := cellIdx%3, cellIdx/3
		for k := 0; k < VerticesPerCell; k++ {
			v := m.Vertices[cellIdx*VerticesPerCell+k]
			if v.X < float32(i) || v.X > float32(i+1) || v.Y < float32(j) || v.Y > float32(j+1) {
				t.Fatalf("cell (%d,%d) vertex %d at (%v,%v) outside its cell", i, j, k, v.X, v.Y)
			}
			if got, want := m.Layers[cellIdx*VerticesPerCell+k], uint32(core.Index1d(tile, ts.Dimensions())); got != want {
				t.Fatalf("cell (%d,%d) layer = %d, want %d", i, j, got, want)
			}
		}
	}
}

func TestTileLayerValidatesReferences(t *testing.T) {
	ts := testTileset(t, dims(2, 2))
	if _, err := NewTileLayer(dims(2, 1), ts, []core.Index2d{{I: 0, J: 0}, {I: 1, J: 2}}); err == nil {
		t.Fatal("accepted tile outside the tileset")
	}
	if _, err := NewTileLayer(dims(2, 2), ts, []core.Index2d{{I: 0, J: 0}}); err == nil {
		t.Fatal("accepted wrong tile count")
	}

	layer, err := NewFilledTileLayer(dims(2, 2), ts)
	if err != nil {
		t.Fatal(err)
	}
	if err := layer.SetTile(core.Index2d{I: 1, J: 1}, core.Index2d{I: 1, J: 0}); err != nil {
		t.Fatalf("SetTile: %v", err)
	}
	if got := layer.TileAt(core.Index2d{I: 1, J: 1}); got != (core.Index2d{I: 1, J: 0}) {
		t.Fatalf("TileAt = %s", got)
	}
	if err := layer.SetTile(core.Index2d{I: 2, J: 0}, core.Index2d{}); err == nil {
		t.Fatal("SetTile accepted cell out of range")
	}
	if err := layer.SetTile(core.Index2d{}, core.Index2d{I: -1, J: 0}); err == nil {
		t.Fatal("SetTile accepted tile out of range")
	}

	clone := layer.Clone()
	_ = layer.SetTile(core.Index2d{I: 1, J: 1}, core.Index2d{I: 0, J: 1})
	if got := clone.TileAt(core.Index2d{I: 1, J: 1}); got != (core.Index2d{I: 1, J: 0}) {
		t.Fatalf("clone changed with original: %s", got)
	}
}
