package render

import "github.com/go-gl/mathgl/mgl32"

// Camera accumulates translations into a view transform.
type Camera struct {
	transform mgl32.Mat4
}

// NewCamera returns a camera at the identity transform.
func NewCamera() *Camera {
	return &Camera{transform: mgl32.Ident4()}
}

// TranslateBy moves the view by t grid units.
func (c *Camera) TranslateBy(t mgl32.Vec2) {
	c.transform = c.transform.Mul4(mgl32.Translate3D(t.X(), t.Y(), 0))
}

// ViewMatrix returns the current view transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 { return c.transform }

// Offset returns the accumulated translation.
func (c *Camera) Offset() mgl32.Vec2 {
	return mgl32.Vec2{c.transform[12], c.transform[13]}
}
