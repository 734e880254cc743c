// Package scene loads a YAML manifest describing tilesets and tile layers.
package scene

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"tileforge/internal/core"
	"tileforge/internal/procgen"
	"tileforge/internal/tiles"
)

// DefaultPath is the manifest loaded when none is configured.
const DefaultPath = "scenes/default.yaml"

// Manifest is the on-disk scene description.
type Manifest struct {
	Tilesets map[string]TilesetSpec `yaml:"tilesets"`
	Layers   []LayerSpec            `yaml:"layers"`
}

// TilesetSpec names an atlas image and how it is cut into tiles.
type TilesetSpec struct {
	Image      string `yaml:"image"`
	TileSize   [2]int `yaml:"tileSize"`
	Dimensions [2]int `yaml:"dimensions"`
}

// LayerSpec places a grid of tile references at a layer index.
type LayerSpec struct {
	Index      uint     `yaml:"index"`
	Tileset    string   `yaml:"tileset"`
	Dimensions [2]int   `yaml:"dimensions"`
	Tiles      [][2]int `yaml:"tiles,omitempty"`
	Fill       *[2]int  `yaml:"fill,omitempty"`
	Generate   *GenSpec `yaml:"generate,omitempty"`
}

// GenSpec grows a layer with a cellular automaton: live cells use Alive,
// dead cells use Dead.
type GenSpec struct {
	Seed    int64   `yaml:"seed"`
	Density float64 `yaml:"density"`
	Steps   int     `yaml:"steps"`
	Rule    string  `yaml:"rule"`
	Alive   [2]int  `yaml:"alive"`
	Dead    [2]int  `yaml:"dead"`
}

// Layer is a composed tile layer and the slot it belongs in.
type Layer struct {
	Index uint
	Tiles *tiles.TileLayer
}

// Scene is a loaded manifest with its layers sorted by index.
type Scene struct {
	Tilesets map[string]tiles.Tileset
	Layers   []Layer
}

// Reader reads asset bytes by slash-separated relative path.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// Parse decodes a manifest and checks its structure.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, core.Wrap(core.KindAsset, "scene.parse", err, "parse scene manifest")
	}
	if len(m.Layers) == 0 {
		return Manifest{}, core.Errorf(core.KindAsset, "scene.parse", "scene manifest declares no layers")
	}
	seen := make(map[uint]bool, len(m.Layers))
	for _, l := range m.Layers {
		if seen[l.Index] {
			return Manifest{}, core.Errorf(core.KindAsset, "scene.parse", "layer index %d declared twice", l.Index)
		}
		seen[l.Index] = true
		if _, ok := m.Tilesets[l.Tileset]; !ok {
			return Manifest{}, core.Errorf(core.KindAsset, "scene.parse", "layer %d uses unknown tileset %q", l.Index, l.Tileset)
		}
		sources := 0
		for _, set := range []bool{len(l.Tiles) > 0, l.Fill != nil, l.Generate != nil} {
			if set {
				sources++
			}
		}
		if sources > 1 {
			return Manifest{}, core.Errorf(core.KindAsset, "scene.parse", "layer %d sets more than one of tiles, fill and generate", l.Index)
		}
		if g := l.Generate; g != nil {
			if g.Steps < 0 || g.Density < 0 || g.Density > 1 {
				return Manifest{}, core.Errorf(core.KindAsset, "scene.parse", "layer %d: generate needs steps >= 0 and density in [0,1]", l.Index)
			}
			if _, err := procgen.ParseRule(g.ruleOrDefault()); err != nil {
				return Manifest{}, core.Wrap(core.KindAsset, "scene.parse", err, fmt.Sprintf("layer %d has an invalid rule", l.Index))
			}
		}
	}
	return m, nil
}

// Load reads the manifest at path and composes every tileset and layer it
// names.
func Load(r Reader, path string) (*Scene, error) {
	data, err := r.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", path, err)
	}
	return m.Build(r)
}

// Build decodes the manifest's atlases and composes its layers.
func (m Manifest) Build(r Reader) (*Scene, error) {
	s := &Scene{Tilesets: make(map[string]tiles.Tileset, len(m.Tilesets))}

	names := make([]string, 0, len(m.Tilesets))
	for name := range m.Tilesets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ts, err := loadTileset(r, m.Tilesets[name])
		if err != nil {
			return nil, fmt.Errorf("failed to set up tileset %q: %w", name, err)
		}
		s.Tilesets[name] = ts
	}

	specs := append([]LayerSpec(nil), m.Layers...)
	sort.Slice(specs, func(i, j int) bool { return specs[i].Index < specs[j].Index })
	for _, spec := range specs {
		ts, ok := s.Tilesets[spec.Tileset]
		if !ok {
			return nil, core.Errorf(core.KindAsset, "scene.build", "layer %d uses unknown tileset %q", spec.Index, spec.Tileset)
		}
		layer, err := buildLayer(spec, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to set up tile layer %d: %w", spec.Index, err)
		}
		s.Layers = append(s.Layers, Layer{Index: spec.Index, Tiles: layer})
	}
	return s, nil
}

func loadTileset(r Reader, spec TilesetSpec) (tiles.Tileset, error) {
	data, err := r.ReadFile(spec.Image)
	if err != nil {
		return tiles.Tileset{}, err
	}
	tex, err := tiles.DecodeTexture(data)
	if err != nil {
		return tiles.Tileset{}, fmt.Errorf("failed to decode %s: %w", spec.Image, err)
	}
	return tiles.NewTileset(toDims(spec.TileSize), toDims(spec.Dimensions), tex)
}

func (g *GenSpec) ruleOrDefault() string {
	if g.Rule == "" {
		return "B3/S23"
	}
	return g.Rule
}

func buildLayer(spec LayerSpec, ts tiles.Tileset) (*tiles.TileLayer, error) {
	dims := toDims(spec.Dimensions)
	if spec.Generate != nil {
		return generateLayer(dims, ts, spec.Generate)
	}
	if len(spec.Tiles) == 0 {
		layer, err := tiles.NewFilledTileLayer(dims, ts)
		if err != nil {
			return nil, err
		}
		if spec.Fill != nil && *spec.Fill != [2]int{} {
			fill := toIndex(*spec.Fill)
			for j := 0; j < dims.NRows; j++ {
				for i := 0; i < dims.NColumns; i++ {
					if err := layer.SetTile(core.Index2d{I: i, J: j}, fill); err != nil {
						return nil, err
					}
				}
			}
		}
		return layer, nil
	}
	refs := make([]core.Index2d, len(spec.Tiles))
	for k, t := range spec.Tiles {
		refs[k] = toIndex(t)
	}
	return tiles.NewTileLayer(dims, ts, refs)
}

func generateLayer(dims core.GridDimensions2d, ts tiles.Tileset, g *GenSpec) (*tiles.TileLayer, error) {
	rule, err := procgen.ParseRule(g.ruleOrDefault())
	if err != nil {
		return nil, err
	}
	layer, err := tiles.NewFilledTileLayer(dims, ts)
	if err != nil {
		return nil, err
	}
	grid, err := procgen.Generate(dims, procgen.Params{Seed: g.Seed, Density: g.Density, Steps: g.Steps, Rule: rule})
	if err != nil {
		return nil, err
	}
	alive, dead := toIndex(g.Alive), toIndex(g.Dead)
	for j := 0; j < dims.NRows; j++ {
		for i := 0; i < dims.NColumns; i++ {
			cell := core.Index2d{I: i, J: j}
			tile := dead
			if grid.Alive(cell) {
				tile = alive
			}
			if err := layer.SetTile(cell, tile); err != nil {
				return nil, err
			}
		}
	}
	return layer, nil
}

func toDims(v [2]int) core.GridDimensions2d {
	return core.GridDimensions2d{NColumns: v[0], NRows: v[1]}
}

func toIndex(v [2]int) core.Index2d { return core.Index2d{I: v[0], J: v[1]} }
