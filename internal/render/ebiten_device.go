//go:build ebiten

package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tileforge/internal/tiles"
)

// maxBatchVertices keeps every batch addressable by uint16 indices while
// holding whole cells.
const maxBatchVertices = (65535 / tiles.VerticesPerCell) * tiles.VerticesPerCell

// maxTextureHeight bounds the stacked tile image.
const maxTextureHeight = 8192

// EbitenDevice renders through ebiten. Array textures are stored as a single
// image with the tiles stacked vertically; the fragment stage offsets its
// sample by the vertex's layer. Ebiten exposes no programmable vertex stage,
// so the view transform is applied to vertex positions on the CPU.
type EbitenDevice struct {
	// UnitSize is the number of screen pixels per grid unit.
	UnitSize float32

	target *ebiten.Image

	next     Handle
	shaders  map[Handle]*ebitenProgram
	buffers  map[Handle]tiles.Mesh
	textures map[Handle]*ebitenTexture

	viewport  [2]int
	wireframe bool
	errs      []GPUError

	scratch []ebiten.Vertex
	indices []uint16
}

type ebitenProgram struct {
	shader *ebiten.Shader
	view   mgl32.Mat4
}

type ebitenTexture struct {
	img      *ebiten.Image
	tileSize [2]float32
}

// NewEbitenDevice returns a device drawing unitSize pixels per grid unit.
func NewEbitenDevice(unitSize float32) *EbitenDevice {
	if unitSize <= 0 {
		unitSize = 32
	}
	idx := make([]uint16, maxBatchVertices)
	for i := range idx {
		idx[i] = uint16(i)
	}
	return &EbitenDevice{
		UnitSize: unitSize,
		shaders:  make(map[Handle]*ebitenProgram),
		buffers:  make(map[Handle]tiles.Mesh),
		textures: make(map[Handle]*ebitenTexture),
		indices:  idx,
	}
}

// SetTarget selects the image subsequent frames draw into.
func (d *EbitenDevice) SetTarget(img *ebiten.Image) { d.target = img }

func (d *EbitenDevice) alloc() Handle {
	d.next++
	return d.next
}

func (d *EbitenDevice) raise(code ErrorCode, op, format string, args ...any) {
	d.errs = append(d.errs, GPUError{Code: code, Op: op, Detail: fmt.Sprintf(format, args...)})
}

// linkKage joins the two stages into one Kage unit: the vertex stage carries
// the directives, package clause and uniforms; the fragment stage carries the
// Fragment entry point.
func linkKage(src ProgramSource) []byte {
	var b strings.Builder
	b.WriteString(src.Vertex)
	if !strings.HasSuffix(src.Vertex, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(src.Fragment)
	return []byte(b.String())
}

// CreateProgram compiles the linked Kage source.
func (d *EbitenDevice) CreateProgram(src ProgramSource) (Handle, error) {
	shader, err := ebiten.NewShader(linkKage(src))
	if err != nil {
		return 0, fmt.Errorf("compile kage program: %w", err)
	}
	h := d.alloc()
	d.shaders[h] = &ebitenProgram{shader: shader, view: mgl32.Ident4()}
	return h, nil
}

// CreateMeshBuffer keeps a copy of the mesh for per-frame transformation.
func (d *EbitenDevice) CreateMeshBuffer(mesh tiles.Mesh) (Handle, error) {
	if len(mesh.Layers) != len(mesh.Vertices) {
		return 0, fmt.Errorf("mesh has %d vertices but %d layer indices", len(mesh.Vertices), len(mesh.Layers))
	}
	h := d.alloc()
	d.buffers[h] = tiles.Mesh{
		Vertices: append([]tiles.Vertex(nil), mesh.Vertices...),
		Layers:   append([]uint32(nil), mesh.Layers...),
	}
	return h, nil
}

// CreateArrayTexture uploads the tiles as one vertical strip.
func (d *EbitenDevice) CreateArrayTexture(tex ArrayTexture) (Handle, error) {
	w, h := tex.TileSize.NColumns, tex.TileSize.NRows*tex.Layers
	if want := w * h * tiles.ChannelsPerPixel; tex.Layers <= 0 || len(tex.Pixels) != want {
		return 0, fmt.Errorf("array texture of %d %s layers needs %d bytes, got %d", tex.Layers, tex.TileSize, want, len(tex.Pixels))
	}
	if h > maxTextureHeight || w > maxTextureHeight {
		d.raise(ErrorOutOfMemory, "tex image 3d", "%dx%d strip exceeds %d pixels", w, h, maxTextureHeight)
		return 0, nil
	}
	img := ebiten.NewImage(w, h)
	img.WritePixels(tex.Pixels)
	handle := d.alloc()
	d.textures[handle] = &ebitenTexture{
		img:      img,
		tileSize: [2]float32{float32(tex.TileSize.NColumns), float32(tex.TileSize.NRows)},
	}
	return handle, nil
}

// DeleteProgram releases the compiled shader.
func (d *EbitenDevice) DeleteProgram(h Handle) {
	if p, ok := d.shaders[h]; ok {
		p.shader.Deallocate()
		delete(d.shaders, h)
	}
}

// DeleteBuffer drops the mesh copy.
func (d *EbitenDevice) DeleteBuffer(h Handle) { delete(d.buffers, h) }

// DeleteTexture releases the strip image.
func (d *EbitenDevice) DeleteTexture(h Handle) {
	if t, ok := d.textures[h]; ok {
		t.img.Deallocate()
		delete(d.textures, h)
	}
}

// SetUniformMat4 stores the view transform used when vertices are placed.
func (d *EbitenDevice) SetUniformMat4(program Handle, name string, m mgl32.Mat4) {
	p, ok := d.shaders[program]
	if !ok {
		d.raise(ErrorInvalidOperation, "uniform matrix", "program %d", program)
		return
	}
	if name == ViewMatrixUniform {
		p.view = m
	}
}

// SetViewport records the drawable size.
func (d *EbitenDevice) SetViewport(width, height int) { d.viewport = [2]int{width, height} }

// SetWireframe switches between filled triangles and stroked edges.
func (d *EbitenDevice) SetWireframe(enabled bool) { d.wireframe = enabled }

// Clear fills the target.
func (d *EbitenDevice) Clear(c color.RGBA) {
	if d.target == nil {
		d.raise(ErrorInvalidOperation, "clear", "no render target")
		return
	}
	d.target.Fill(c)
}

// Draw renders one layer.
func (d *EbitenDevice) Draw(call DrawCall) {
	if d.target == nil {
		d.raise(ErrorInvalidOperation, "draw arrays", "no render target")
		return
	}
	p, ok := d.shaders[call.Program]
	if !ok {
		d.raise(ErrorInvalidHandle, "draw arrays", "program %d", call.Program)
		return
	}
	mesh, ok := d.buffers[call.Buffer]
	if !ok {
		d.raise(ErrorInvalidHandle, "draw arrays", "buffer %d", call.Buffer)
		return
	}
	tex, ok := d.textures[call.Texture]
	if !ok {
		d.raise(ErrorInvalidHandle, "draw arrays", "texture %d", call.Texture)
		return
	}
	if call.VertexCount > len(mesh.Vertices) {
		d.raise(ErrorInvalidValue, "draw arrays", "%d vertices requested from a %d vertex buffer", call.VertexCount, len(mesh.Vertices))
		return
	}

	d.place(mesh, call.VertexCount, p.view, tex.tileSize)
	if d.wireframe {
		d.strokeTriangles()
		return
	}
	opts := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: map[string]any{
			"TileHeight": tex.tileSize[1],
			"ViewMatrix": p.view[:],
		},
		Images: [4]*ebiten.Image{tex.img},
	}
	for start := 0; start < len(d.scratch); start += maxBatchVertices {
		end := min(start+maxBatchVertices, len(d.scratch))
		d.target.DrawTrianglesShader(d.scratch[start:end], d.indices[:end-start], p.shader, opts)
	}
}

// place fills scratch with screen-space vertices. Source coordinates are
// texel positions inside a single tile; Custom0 carries the layer.
func (d *EbitenDevice) place(mesh tiles.Mesh, n int, view mgl32.Mat4, tileSize [2]float32) {
	d.scratch = d.scratch[:0]
	for k := 0; k < n; k++ {
		v := mesh.Vertices[k]
		pos := view.Mul4x1(mgl32.Vec4{v.X, v.Y, 0, 1})
		d.scratch = append(d.scratch, ebiten.Vertex{
			DstX:    pos.X() * d.UnitSize,
			DstY:    pos.Y() * d.UnitSize,
			SrcX:    v.U * tileSize[0],
			SrcY:    v.V * tileSize[1],
			ColorR:  1,
			ColorG:  1,
			ColorB:  1,
			ColorA:  1,
			Custom0: float32(mesh.Layers[k]),
		})
	}
}

var wireColor = color.RGBA{R: 230, G: 230, B: 230, A: 255}

func (d *EbitenDevice) strokeTriangles() {
	for k := 0; k+2 < len(d.scratch); k += 3 {
		a, b, c := d.scratch[k], d.scratch[k+1], d.scratch[k+2]
		vector.StrokeLine(d.target, a.DstX, a.DstY, b.DstX, b.DstY, 1, wireColor, false)
		vector.StrokeLine(d.target, b.DstX, b.DstY, c.DstX, c.DstY, 1, wireColor, false)
		vector.StrokeLine(d.target, c.DstX, c.DstY, a.DstX, a.DstY, 1, wireColor, false)
	}
}

// PollErrors drains the error queue.
func (d *EbitenDevice) PollErrors() []GPUError {
	errs := d.errs
	d.errs = nil
	return errs
}
