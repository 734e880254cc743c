package core

import "fmt"

// Index2d addresses a cell by column (I) and row (J).
type Index2d struct {
	I, J int
}

// GridDimensions2d describes the extent of a grid in columns and rows.
type GridDimensions2d struct {
	NColumns, NRows int
}

// Area returns the number of cells in the grid.
func (d GridDimensions2d) Area() int { return d.NColumns * d.NRows }

// Contains reports whether idx lies inside [0,NColumns)x[0,NRows).
func (d GridDimensions2d) Contains(idx Index2d) bool {
	return idx.I >= 0 && idx.J >= 0 && idx.I < d.NColumns && idx.J < d.NRows
}

// Mul multiplies the dimensions componentwise.
func (d GridDimensions2d) Mul(o GridDimensions2d) GridDimensions2d {
	return GridDimensions2d{NColumns: d.NColumns * o.NColumns, NRows: d.NRows * o.NRows}
}

func (d GridDimensions2d) String() string { return fmt.Sprintf("%dx%d", d.NColumns, d.NRows) }

func (idx Index2d) String() string { return fmt.Sprintf("(%d,%d)", idx.I, idx.J) }

// Index1d returns the row-major slice index of idx within a grid of size dims.
// Every flat buffer in the module is addressed through this function.
func Index1d(idx Index2d, dims GridDimensions2d) int {
	return dims.NColumns*idx.J + idx.I
}

// GridContainer stores a fixed-size 2D grid of values in row-major order.
type GridContainer[T any] struct {
	dims GridDimensions2d
	data []T
}

// NewGridContainer allocates a zero-filled grid with the given dimensions.
func NewGridContainer[T any](dims GridDimensions2d) (*GridContainer[T], error) {
	if dims.NColumns < 0 || dims.NRows < 0 {
		return nil, Errorf(KindPrecondition, "grid.new", "negative grid dimensions %s", dims)
	}
	return &GridContainer[T]{dims: dims, data: make([]T, dims.Area())}, nil
}

// NewGridContainerFrom builds a grid over a copy of elements, which must hold
// exactly NColumns*NRows values in row-major order.
func NewGridContainerFrom[T any](dims GridDimensions2d, elements []T) (*GridContainer[T], error) {
	g, err := NewGridContainer[T](dims)
	if err != nil {
		return nil, err
	}
	if len(elements) != dims.Area() {
		return nil, Errorf(KindPrecondition, "grid.new",
			"grid %s needs %d elements, got %d", dims, dims.Area(), len(elements))
	}
	copy(g.data, elements)
	return g, nil
}

// Dimensions returns the grid extent.
func (g *GridContainer[T]) Dimensions() GridDimensions2d { return g.dims }

// At returns the value stored at idx. It panics when idx is out of range.
func (g *GridContainer[T]) At(idx Index2d) T {
	g.mustContain(idx)
	return g.data[Index1d(idx, g.dims)]
}

// Set stores v at idx. It panics when idx is out of range.
func (g *GridContainer[T]) Set(idx Index2d, v T) {
	g.mustContain(idx)
	g.data[Index1d(idx, g.dims)] = v
}

// Fill assigns v to every cell.
func (g *GridContainer[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Clone returns a deep copy of the grid.
func (g *GridContainer[T]) Clone() *GridContainer[T] {
	data := make([]T, len(g.data))
	copy(data, g.data)
	return &GridContainer[T]{dims: g.dims, data: data}
}

func (g *GridContainer[T]) mustContain(idx Index2d) {
	if !g.dims.Contains(idx) {
		panic(fmt.Sprintf("grid index %s out of range for %s grid", idx, g.dims))
	}
}
