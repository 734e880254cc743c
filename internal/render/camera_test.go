package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraAccumulatesTranslation(t *testing.T) {
	cam := NewCamera()
	if cam.ViewMatrix() != mgl32.Ident4() {
		t.Fatalf("new camera is not identity")
	}
	cam.TranslateBy(mgl32.Vec2{1, 2})
	cam.TranslateBy(mgl32.Vec2{0.5, -3})
	if got := cam.Offset(); !got.ApproxEqual(mgl32.Vec2{1.5, -1}) {
		t.Fatalf("offset = %v", got)
	}
	p := cam.ViewMatrix().Mul4x1(mgl32.Vec4{2, 2, 0, 1})
	if !p.ApproxEqual(mgl32.Vec4{3.5, 1, 0, 1}) {
		t.Fatalf("transformed point = %v", p)
	}
}
