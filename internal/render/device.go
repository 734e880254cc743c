package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"tileforge/internal/core"
	"tileforge/internal/tiles"
)

// Handle names a GPU object owned by a Device. Zero is never a live handle.
type Handle uint32

// ProgramSource holds the two shader stages of a program.
type ProgramSource struct {
	Vertex   string
	Fragment string
}

// ArrayTexture describes a stack of equally sized RGBA images, one per
// tile, laid out back to back in Pixels.
type ArrayTexture struct {
	TileSize core.GridDimensions2d
	Layers   int
	Pixels   []byte
}

// DrawCall names every resource a draw needs. Devices bind exactly these
// for the call and unbind them afterwards.
type DrawCall struct {
	Program     Handle
	Buffer      Handle
	Texture     Handle
	VertexCount int
}

// Device is the graphics backend the Renderer drives. All methods must be
// called from the goroutine that owns the graphics context.
type Device interface {
	CreateProgram(src ProgramSource) (Handle, error)
	CreateMeshBuffer(mesh tiles.Mesh) (Handle, error)
	CreateArrayTexture(tex ArrayTexture) (Handle, error)
	DeleteProgram(h Handle)
	DeleteBuffer(h Handle)
	DeleteTexture(h Handle)

	SetUniformMat4(program Handle, name string, m mgl32.Mat4)
	SetViewport(width, height int)
	SetWireframe(enabled bool)
	Clear(c color.RGBA)
	Draw(call DrawCall)

	// PollErrors drains the errors raised since the previous poll.
	PollErrors() []GPUError
}

// ErrorCode classifies a GPUError.
type ErrorCode int

const (
	ErrorOutOfMemory ErrorCode = iota + 1
	ErrorInvalidOperation
	ErrorInvalidValue
	ErrorInvalidHandle
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorOutOfMemory:
		return "out of memory"
	case ErrorInvalidOperation:
		return "invalid operation"
	case ErrorInvalidValue:
		return "invalid value"
	case ErrorInvalidHandle:
		return "invalid handle"
	default:
		return fmt.Sprintf("error code %d", int(c))
	}
}

// GPUError is an asynchronous error reported by a Device.
type GPUError struct {
	Code   ErrorCode
	Op     string
	Detail string
}

func (e GPUError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Detail)
}

var (
	// ErrOutOfMemory is wrapped by every error caused by GPU memory exhaustion.
	ErrOutOfMemory = errors.New("gpu out of memory")
	// ErrRendererClosed is returned by calls made after Close.
	ErrRendererClosed = errors.New("renderer is destroyed")
)
