package render

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"tileforge/internal/core"
	"tileforge/internal/tiles"
)

// Shader asset paths, relative to the resources root.
const (
	VertexShaderPath   = "shaders/default.vert"
	FragmentShaderPath = "shaders/default.frag"
)

// ViewMatrixUniform is the program uniform receiving the camera transform.
const ViewMatrixUniform = "viewMatrix"

// State is the renderer lifecycle stage.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LayerIndex identifies a layer slot. Layers draw in ascending index order.
type LayerIndex uint

// TextSource supplies shader sources.
type TextSource interface {
	ReadTextFile(path string) (string, error)
}

// Options tune a Renderer.
type Options struct {
	// Debug turns unexpected GPU errors into panics instead of warnings.
	Debug bool
	// ClearColor fills the frame before layers are drawn.
	ClearColor color.RGBA
}

// DefaultClearColor is the background used when Options.ClearColor is zero.
var DefaultClearColor = color.RGBA{R: 51, G: 77, B: 77, A: 255}

type layerResources struct {
	buffer      Handle
	texture     Handle
	vertexCount int
}

// Renderer owns the shader program and one resource set per layer slot.
type Renderer struct {
	dev     Device
	opts    Options
	state   State
	program Handle

	layers map[LayerIndex]layerResources
	order  []LayerIndex

	view      mgl32.Mat4
	wireframe bool
	width     int
	height    int
}

// Stats summarizes the renderer for diagnostics.
type Stats struct {
	State     State
	Layers    int
	Vertices  int
	Wireframe bool
	Width     int
	Height    int
}

// NewRenderer loads the default program from src and returns a ready renderer.
func NewRenderer(dev Device, src TextSource, opts Options) (*Renderer, error) {
	if opts.ClearColor == (color.RGBA{}) {
		opts.ClearColor = DefaultClearColor
	}
	r := &Renderer{
		dev:    dev,
		opts:   opts,
		state:  StateUninitialized,
		layers: make(map[LayerIndex]layerResources),
		view:   mgl32.Ident4(),
	}

	vert, err := src.ReadTextFile(VertexShaderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vertex shader: %w", err)
	}
	frag, err := src.ReadTextFile(FragmentShaderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load fragment shader: %w", err)
	}
	program, err := dev.CreateProgram(ProgramSource{Vertex: vert, Fragment: frag})
	if err != nil {
		return nil, core.Wrap(core.KindAsset, "renderer.new", err, "failed to build shader program")
	}
	if err := r.checkGPU("create program"); err != nil {
		dev.DeleteProgram(program)
		return nil, err
	}
	r.program = program
	dev.SetUniformMat4(program, ViewMatrixUniform, r.view)
	r.state = StateReady
	Logger().Info("renderer ready", "program", program)
	return r, nil
}

// State returns the lifecycle stage.
func (r *Renderer) State() State { return r.state }

// SetLayer builds layer's mesh, uploads it together with the tileset as an
// array texture and stores the result at idx, releasing whatever idx held.
func (r *Renderer) SetLayer(idx LayerIndex, layer *tiles.TileLayer) error {
	if err := r.ensureReady(); err != nil {
		return err
	}
	mesh := layer.Mesh()
	ts := layer.Tileset()

	buffer, err := r.dev.CreateMeshBuffer(mesh)
	if err != nil {
		return core.Wrap(core.KindGPU, "renderer.set_layer", err, fmt.Sprintf("failed to upload mesh for layer %d", idx))
	}
	texture, err := r.dev.CreateArrayTexture(ArrayTexture{
		TileSize: ts.TileSize(),
		Layers:   ts.TileCount(),
		Pixels:   ts.LinearBytes(),
	})
	if err != nil {
		r.dev.DeleteBuffer(buffer)
		return core.Wrap(core.KindGPU, "renderer.set_layer", err, fmt.Sprintf("failed to upload tileset for layer %d", idx))
	}
	if err := r.checkGPU(fmt.Sprintf("set layer %d", idx)); err != nil {
		r.dev.DeleteTexture(texture)
		r.dev.DeleteBuffer(buffer)
		return err
	}

	if old, ok := r.layers[idx]; ok {
		r.release(old)
		Logger().Debug("replaced layer", "index", idx)
	} else {
		r.order = append(r.order, idx)
		slices.Sort(r.order)
	}
	r.layers[idx] = layerResources{buffer: buffer, texture: texture, vertexCount: mesh.VertexCount()}
	Logger().Debug("uploaded layer", "index", idx, "vertices", mesh.VertexCount(),
		"tiles", ts.TileCount(), "tileSize", ts.TileSize().String())
	return nil
}

// UpdateCamera uploads the camera's view matrix.
func (r *Renderer) UpdateCamera(cam *Camera) error {
	return r.UpdateViewMatrix(cam.ViewMatrix())
}

// UpdateViewMatrix uploads m as the program's view transform.
func (r *Renderer) UpdateViewMatrix(m mgl32.Mat4) error {
	if err := r.ensureReady(); err != nil {
		return err
	}
	r.view = m
	r.dev.SetUniformMat4(r.program, ViewMatrixUniform, m)
	return r.checkGPU("update view matrix")
}

// ToggleWireframeMode flips between filled and outlined triangles.
func (r *Renderer) ToggleWireframeMode() {
	if r.state != StateReady {
		return
	}
	r.wireframe = !r.wireframe
	r.dev.SetWireframe(r.wireframe)
}

// Wireframe reports whether triangles are drawn as outlines.
func (r *Renderer) Wireframe() bool { return r.wireframe }

// DrawFrame clears the frame and draws every layer in ascending index order.
func (r *Renderer) DrawFrame() error {
	if err := r.ensureReady(); err != nil {
		return err
	}
	r.dev.Clear(r.opts.ClearColor)
	for _, idx := range r.order {
		res := r.layers[idx]
		r.dev.Draw(DrawCall{
			Program:     r.program,
			Buffer:      res.buffer,
			Texture:     res.texture,
			VertexCount: res.vertexCount,
		})
	}
	return r.checkGPU("draw frame")
}

// Resize sets the viewport used by subsequent frames.
func (r *Renderer) Resize(width, height int) {
	if r.state != StateReady {
		return
	}
	r.width, r.height = width, height
	r.dev.SetViewport(width, height)
}

// Stats reports the current renderer state.
func (r *Renderer) Stats() Stats {
	s := Stats{State: r.state, Layers: len(r.order), Wireframe: r.wireframe, Width: r.width, Height: r.height}
	for _, res := range r.layers {
		s.Vertices += res.vertexCount
	}
	return s
}

// Close releases every layer and the program. The renderer is unusable
// afterwards; Close on a destroyed renderer is a no-op.
func (r *Renderer) Close() error {
	if r.state == StateDestroyed {
		return nil
	}
	for _, idx := range r.order {
		r.release(r.layers[idx])
	}
	r.layers = make(map[LayerIndex]layerResources)
	r.order = nil
	r.dev.DeleteProgram(r.program)
	r.program = 0
	r.state = StateDestroyed
	Logger().Info("renderer destroyed")
	return r.checkGPU("destroy renderer")
}

func (r *Renderer) release(res layerResources) {
	r.dev.DeleteBuffer(res.buffer)
	r.dev.DeleteTexture(res.texture)
}

func (r *Renderer) ensureReady() error {
	if r.state != StateReady {
		return core.Wrap(core.KindPrecondition, "renderer", ErrRendererClosed, "renderer is "+r.state.String())
	}
	return nil
}

// checkGPU drains the device error queue. Out-of-memory is returned to the
// caller. Anything else is a bug: it panics in debug mode and is logged
// otherwise.
func (r *Renderer) checkGPU(op string) error {
	var oom error
	for _, e := range r.dev.PollErrors() {
		if e.Code == ErrorOutOfMemory {
			if oom == nil {
				oom = core.Wrap(core.KindGPU, "renderer", fmt.Errorf("%w: %v", ErrOutOfMemory, e), "failed to "+op)
			}
			continue
		}
		if r.opts.Debug {
			panic(fmt.Sprintf("unexpected GPU error during %s: %v", op, e))
		}
		Logger().Warn("ignoring GPU error", "op", op, "code", e.Code.String(), "detail", e.Detail)
	}
	return oom
}
