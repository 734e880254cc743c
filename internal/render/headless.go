package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"tileforge/internal/tiles"
)

// vertexBytes approximates the upload size of one vertex: position, UV and
// layer index.
const vertexBytes = 4*4 + 4

// HeadlessDevice is a CPU-side Device. It validates every call the way a
// driver would, tracks allocations and records draw calls, so the renderer
// can run without a display.
type HeadlessDevice struct {
	// MemoryLimit caps the bytes held by buffers and textures. Zero means
	// unlimited.
	MemoryLimit int

	next     Handle
	programs map[Handle]*headlessProgram
	buffers  map[Handle]int
	textures map[Handle]ArrayTexture
	sizes    map[Handle]int
	used     int

	viewport   [2]int
	wireframe  bool
	clearColor color.RGBA
	frames     int
	draws      []DrawCall
	errs       []GPUError
}

type headlessProgram struct {
	uniforms map[string]mgl32.Mat4
}

// NewHeadlessDevice returns an empty device.
func NewHeadlessDevice() *HeadlessDevice {
	return &HeadlessDevice{
		programs: make(map[Handle]*headlessProgram),
		buffers:  make(map[Handle]int),
		textures: make(map[Handle]ArrayTexture),
		sizes:    make(map[Handle]int),
	}
}

func (d *HeadlessDevice) alloc() Handle {
	d.next++
	return d.next
}

func (d *HeadlessDevice) raise(code ErrorCode, op, format string, args ...any) {
	d.errs = append(d.errs, GPUError{Code: code, Op: op, Detail: fmt.Sprintf(format, args...)})
}

// charge books n bytes for h, raising out-of-memory when the limit is hit.
func (d *HeadlessDevice) charge(h Handle, n int, op string) {
	if d.MemoryLimit > 0 && d.used+n > d.MemoryLimit {
		d.raise(ErrorOutOfMemory, op, "%d bytes requested, %d of %d in use", n, d.used, d.MemoryLimit)
		return
	}
	d.used += n
	d.sizes[h] = n
}

func (d *HeadlessDevice) refund(h Handle) {
	d.used -= d.sizes[h]
	delete(d.sizes, h)
}

// CreateProgram accepts any pair of non-empty stages; the fragment stage must
// declare a Fragment entry point.
func (d *HeadlessDevice) CreateProgram(src ProgramSource) (Handle, error) {
	if strings.TrimSpace(src.Vertex) == "" {
		return 0, fmt.Errorf("vertex stage is empty")
	}
	if !strings.Contains(src.Fragment, "Fragment") {
		return 0, fmt.Errorf("fragment stage has no Fragment entry point")
	}
	h := d.alloc()
	d.programs[h] = &headlessProgram{uniforms: make(map[string]mgl32.Mat4)}
	return h, nil
}

// CreateMeshBuffer records the vertex count of mesh.
func (d *HeadlessDevice) CreateMeshBuffer(mesh tiles.Mesh) (Handle, error) {
	if len(mesh.Layers) != len(mesh.Vertices) {
		return 0, fmt.Errorf("mesh has %d vertices but %d layer indices", len(mesh.Vertices), len(mesh.Layers))
	}
	h := d.alloc()
	d.buffers[h] = len(mesh.Vertices)
	d.charge(h, len(mesh.Vertices)*vertexBytes, "buffer data")
	return h, nil
}

// CreateArrayTexture checks the pixel payload against the declared layout.
func (d *HeadlessDevice) CreateArrayTexture(tex ArrayTexture) (Handle, error) {
	want := tex.TileSize.Area() * tiles.ChannelsPerPixel * tex.Layers
	if tex.Layers <= 0 || len(tex.Pixels) != want {
		return 0, fmt.Errorf("array texture of %d %s layers needs %d bytes, got %d",
			tex.Layers, tex.TileSize, want, len(tex.Pixels))
	}
	h := d.alloc()
	d.textures[h] = ArrayTexture{TileSize: tex.TileSize, Layers: tex.Layers}
	d.charge(h, len(tex.Pixels), "tex image 3d")
	return h, nil
}

// DeleteProgram releases a program. Deleting handle zero is a no-op.
func (d *HeadlessDevice) DeleteProgram(h Handle) {
	if h == 0 {
		return
	}
	if _, ok := d.programs[h]; !ok {
		d.raise(ErrorInvalidHandle, "delete program", "program %d", h)
		return
	}
	delete(d.programs, h)
}

// DeleteBuffer releases a mesh buffer. Deleting handle zero is a no-op.
func (d *HeadlessDevice) DeleteBuffer(h Handle) {
	if h == 0 {
		return
	}
	if _, ok := d.buffers[h]; !ok {
		d.raise(ErrorInvalidHandle, "delete buffer", "buffer %d", h)
		return
	}
	delete(d.buffers, h)
	d.refund(h)
}

// DeleteTexture releases a texture. Deleting handle zero is a no-op.
func (d *HeadlessDevice) DeleteTexture(h Handle) {
	if h == 0 {
		return
	}
	if _, ok := d.textures[h]; !ok {
		d.raise(ErrorInvalidHandle, "delete texture", "texture %d", h)
		return
	}
	delete(d.textures, h)
	d.refund(h)
}

// SetUniformMat4 stores m on program.
func (d *HeadlessDevice) SetUniformMat4(program Handle, name string, m mgl32.Mat4) {
	p, ok := d.programs[program]
	if !ok {
		d.raise(ErrorInvalidOperation, "uniform matrix", "program %d", program)
		return
	}
	p.uniforms[name] = m
}

// SetViewport records the viewport size.
func (d *HeadlessDevice) SetViewport(width, height int) {
	if width < 0 || height < 0 {
		d.raise(ErrorInvalidValue, "viewport", "%dx%d", width, height)
		return
	}
	d.viewport = [2]int{width, height}
}

// SetWireframe records the polygon mode.
func (d *HeadlessDevice) SetWireframe(enabled bool) { d.wireframe = enabled }

// Clear starts a new frame.
func (d *HeadlessDevice) Clear(c color.RGBA) {
	d.clearColor = c
	d.frames++
	d.draws = d.draws[:0]
}

// Draw validates call and records it for the current frame.
func (d *HeadlessDevice) Draw(call DrawCall) {
	if _, ok := d.programs[call.Program]; !ok {
		d.raise(ErrorInvalidHandle, "draw arrays", "program %d", call.Program)
		return
	}
	n, ok := d.buffers[call.Buffer]
	if !ok {
		d.raise(ErrorInvalidHandle, "draw arrays", "buffer %d", call.Buffer)
		return
	}
	if _, ok := d.textures[call.Texture]; !ok {
		d.raise(ErrorInvalidHandle, "draw arrays", "texture %d", call.Texture)
		return
	}
	if call.VertexCount > n {
		d.raise(ErrorInvalidValue, "draw arrays", "%d vertices requested from a %d vertex buffer", call.VertexCount, n)
		return
	}
	d.draws = append(d.draws, call)
}

// PollErrors drains the error queue.
func (d *HeadlessDevice) PollErrors() []GPUError {
	errs := d.errs
	d.errs = nil
	return errs
}

// Live returns the number of live programs, buffers and textures.
func (d *HeadlessDevice) Live() (programs, buffers, textures int) {
	return len(d.programs), len(d.buffers), len(d.textures)
}

// UsedBytes returns the bytes held by live buffers and textures.
func (d *HeadlessDevice) UsedBytes() int { return d.used }

// Frames returns the number of cleared frames.
func (d *HeadlessDevice) Frames() int { return d.frames }

// Draws returns the draw calls issued since the last Clear.
func (d *HeadlessDevice) Draws() []DrawCall { return append([]DrawCall(nil), d.draws...) }

// Texture returns the layout of a live texture.
func (d *HeadlessDevice) Texture(h Handle) (ArrayTexture, bool) {
	t, ok := d.textures[h]
	return t, ok
}

// Uniform returns the matrix last stored under name on program.
func (d *HeadlessDevice) Uniform(program Handle, name string) (mgl32.Mat4, bool) {
	p, ok := d.programs[program]
	if !ok {
		return mgl32.Mat4{}, false
	}
	m, ok := p.uniforms[name]
	return m, ok
}

// Viewport returns the last viewport size.
func (d *HeadlessDevice) Viewport() (width, height int) { return d.viewport[0], d.viewport[1] }

// Wireframe reports the polygon mode.
func (d *HeadlessDevice) Wireframe() bool { return d.wireframe }
