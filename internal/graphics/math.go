package graphics

import "github.com/go-gl/mathgl/mgl32"

// Color is a non-premultiplied 8-bit RGBA value.
type Color struct {
	R, G, B, A uint8
}

var (
	White       = Color{255, 255, 255, 255}
	Black       = Color{0, 0, 0, 255}
	Transparent = Color{}
)

// ColorFromPacked decodes the packed ABGR layout content files use.
func ColorFromPacked(v uint32) Color {
	return Color{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: uint8(v >> 24)}
}

// ColorFromARGB decodes a D3DCOLOR value.
func ColorFromARGB(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: uint8(v >> 24)}
}

func (c Color) Packed() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// Vec4 returns the color scaled to [0,1].
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

type Point struct {
	X, Y int32
}

type Rectangle struct {
	X, Y, Width, Height int32
}

func (r Rectangle) Empty() bool { return r.Width == 0 && r.Height == 0 }

type BoundingSphere struct {
	Center mgl32.Vec3
	Radius float32
}

type BoundingBox struct {
	Min, Max mgl32.Vec3
}

// Contains reports whether p lies inside or on the box.
func (b BoundingBox) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}
