package tiles

import "tileforge/internal/core"

// VerticesPerCell is the number of vertices emitted for one grid cell.
const VerticesPerCell = 6

// Vertex is a mesh corner: position in grid units and the corner's
// normalized coordinate inside its tile.
type Vertex struct {
	X, Y float32
	U, V float32
}

// Mesh is an unindexed triangle list. Layers[k] is the array-texture layer
// sampled by Vertices[k].
type Mesh struct {
	Vertices []Vertex
	Layers   []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int { return len(m.Vertices) }

// quad corners in emission order: a b c, b d c, counter-clockwise.
//
//	a(i,j) ---- c(i+1,j)
//	  |       /   |
//	  |    /      |
//	b(i,j+1) -- d(i+1,j+1)
var quad = [VerticesPerCell]Vertex{
	{X: 0, Y: 0, U: 0, V: 0}, // a
	{X: 0, Y: 1, U: 0, V: 1}, // b
	{X: 1, Y: 0, U: 1, V: 0}, // c
	{X: 0, Y: 1, U: 0, V: 1}, // b
	{X: 1, Y: 1, U: 1, V: 1}, // d
	{X: 1, Y: 0, U: 1, V: 0}, // c
}

// Mesh emits two triangles per cell, cells in row-major order.
func (l *TileLayer) Mesh() Mesh {
	n := l.dims.Area() * VerticesPerCell
	m := Mesh{Vertices: make([]Vertex, 0, n), Layers: make([]uint32, 0, n)}
	for j := 0; j < l.dims.NRows; j++ {
		for i := 0; i < l.dims.NColumns; i++ {
			cell := core.Index2d{I: i, J: j}
			layer := uint32(l.tileset.LayerOf(l.tiles.At(cell)))
			for _, c := range quad {
				m.Vertices = append(m.Vertices, Vertex{
					X: float32(i) + c.X,
					Y: float32(j) + c.Y,
					U: c.U,
					V: c.V,
				})
				m.Layers = append(m.Layers, layer)
			}
		}
	}
	return m
}
