package scene

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"strings"
	"testing"

	"tileforge/internal/core"
)

type memReader map[string][]byte

func (m memReader) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func atlasPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

const testManifest = `
tilesets:
  terrain:
    image: tilesets/terrain.png
    tileSize: [2, 2]
    dimensions: [2, 2]
layers:
  - index: 1
    tileset: terrain
    dimensions: [2, 1]
    tiles: [[1, 0], [1, 1]]
  - index: 0
    tileset: terrain
    dimensions: [3, 2]
    fill: [0, 1]
`

func TestLoadComposesLayersInIndexOrder(t *testing.T) {
	r := memReader{
		"scenes/test.yaml":     []byte(testManifest),
		"tilesets/terrain.png": atlasPNG(t, 4, 4),
	}
	s, err := Load(r, "scenes/test.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Layers) != 2 || s.Layers[0].Index != 0 || s.Layers[1].Index != 1 {
		t.Fatalf("layers not sorted by index: %+v", s.Layers)
	}
	fill := s.Layers[0].Tiles
	if got := fill.Dimensions(); got.NColumns != 3 || got.NRows != 2 {
		t.Fatalf("fill layer dimensions = %s", got)
	}
	for j := 0; j < 2; j++ {
		for i := 0; i < 3; i++ {
			if got := fill.TileAt(core.Index2d{I: i, J: j}); got != (core.Index2d{I: 0, J: 1}) {
				t.Fatalf("fill tile at (%d,%d) = %s", i, j, got)
			}
		}
	}
	explicit := s.Layers[1].Tiles
	if got := explicit.TileAt(core.Index2d{I: 1, J: 0}); got != (core.Index2d{I: 1, J: 1}) {
		t.Fatalf("explicit tile = %s", got)
	}
	if got := s.Tilesets["terrain"].TileCount(); got != 4 {
		t.Fatalf("tile count = %d", got)
	}
}

func TestParseRejectsInvalidManifests(t *testing.T) {
	cases := map[string]string{
		"no layers":      "tilesets: {}\n",
		"unknown set":    "layers:\n  - index: 0\n    tileset: nope\n    dimensions: [1, 1]\n",
		"duplicate":      "tilesets:\n  a: {image: a.png, tileSize: [1, 1], dimensions: [1, 1]}\nlayers:\n  - {index: 0, tileset: a, dimensions: [1, 1]}\n  - {index: 0, tileset: a, dimensions: [1, 1]}\n",
		"tiles and fill": "tilesets:\n  a: {image: a.png, tileSize: [1, 1], dimensions: [1, 1]}\nlayers:\n  - {index: 0, tileset: a, dimensions: [1, 1], tiles: [[0, 0]], fill: [0, 0]}\n",
		"bad rule":       "tilesets:\n  a: {image: a.png, tileSize: [1, 1], dimensions: [1, 1]}\nlayers:\n  - {index: 0, tileset: a, dimensions: [1, 1], generate: {rule: B9/S1}}\n",
		"bad density":    "tilesets:\n  a: {image: a.png, tileSize: [1, 1], dimensions: [1, 1]}\nlayers:\n  - {index: 0, tileset: a, dimensions: [1, 1], generate: {density: 2}}\n",
		"not yaml":       "layers: [\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			if err == nil {
				t.Fatalf("expected error")
			}
			if kind, _ := core.KindOf(err); kind != core.KindAsset {
				t.Fatalf("kind = %v, want asset", kind)
			}
		})
	}
}

func TestLoadReportsOutOfRangeTiles(t *testing.T) {
	manifest := strings.Replace(testManifest, "[[1, 0], [1, 1]]", "[[1, 0], [1, 2]]", 1)
	r := memReader{
		"scenes/test.yaml":     []byte(manifest),
		"tilesets/terrain.png": atlasPNG(t, 4, 4),
	}
	_, err := Load(r, "scenes/test.yaml")
	if err == nil {
		t.Fatalf("expected out-of-range tile to fail")
	}
	if !strings.Contains(core.FormatError(err), "failed to set up tile layer 1") {
		t.Fatalf("unexpected error chain:\n%s", core.FormatError(err))
	}
}

func TestLoadMissingAtlas(t *testing.T) {
	r := memReader{"scenes/test.yaml": []byte(testManifest)}
	_, err := Load(r, "scenes/test.yaml")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestLoadRejectsMismatchedAtlas(t *testing.T) {
	r := memReader{
		"scenes/test.yaml":     []byte(testManifest),
		"tilesets/terrain.png": atlasPNG(t, 5, 4),
	}
	if _, err := Load(r, "scenes/test.yaml"); err == nil {
		t.Fatalf("expected atlas size mismatch to fail")
	}
}

func TestBuildGeneratedLayerRejectsNegativeDimensions(t *testing.T) {
	m, err := Parse([]byte(`
tilesets:
  terrain:
    image: tilesets/terrain.png
    tileSize: [2, 2]
    dimensions: [2, 2]
layers:
  - index: 0
    tileset: terrain
    dimensions: [-1, 2]
    generate: {seed: 1, density: 0.5, steps: 1}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = m.Build(memReader{"tilesets/terrain.png": atlasPNG(t, 4, 4)})
	if kind, _ := core.KindOf(err); kind != core.KindPrecondition {
		t.Fatalf("err = %v, kind %v, want precondition", err, kind)
	}
}

func TestLoadGeneratedLayer(t *testing.T) {
	manifest := `
tilesets:
  terrain:
    image: tilesets/terrain.png
    tileSize: [2, 2]
    dimensions: [2, 2]
layers:
  - index: 0
    tileset: terrain
    dimensions: [12, 8]
    generate: {seed: 3, density: 0.5, steps: 2, rule: B5678/S45678, alive: [1, 1], dead: [0, 0]}
`
	r := memReader{
		"scenes/gen.yaml":      []byte(manifest),
		"tilesets/terrain.png": atlasPNG(t, 4, 4),
	}
	a, err := Load(r, "scenes/gen.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := Load(r, "scenes/gen.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	la, lb := a.Layers[0].Tiles, b.Layers[0].Tiles
	for j := 0; j < 8; j++ {
		for i := 0; i < 12; i++ {
			cell := core.Index2d{I: i, J: j}
			tile := la.TileAt(cell)
			if tile != (core.Index2d{}) && tile != (core.Index2d{I: 1, J: 1}) {
				t.Fatalf("cell %s uses tile %s", cell, tile)
			}
			if tile != lb.TileAt(cell) {
				t.Fatalf("generated layer is not deterministic at %s", cell)
			}
		}
	}
}
