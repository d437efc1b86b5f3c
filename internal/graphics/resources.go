package graphics

import (
	"fmt"
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture is any texture resource that can be bound to a sampler slot.
type Texture interface {
	Format() SurfaceFormat
	LevelCount() int
}

type Texture2D struct {
	Name          string
	SurfaceFormat SurfaceFormat
	Width, Height int
	Levels        [][]byte
}

func (t *Texture2D) Format() SurfaceFormat { return t.SurfaceFormat }
func (t *Texture2D) LevelCount() int       { return len(t.Levels) }

// Image returns the top mip level as an image. Only the Color format is
// supported.
func (t *Texture2D) Image() (*image.NRGBA, error) {
	if t.SurfaceFormat != SurfaceColor {
		return nil, fmt.Errorf("texture %q: cannot convert %s surface to image", t.Name, t.SurfaceFormat)
	}
	if len(t.Levels) == 0 || len(t.Levels[0]) < t.Width*t.Height*4 {
		return nil, fmt.Errorf("texture %q: missing level data", t.Name)
	}
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	copy(img.Pix, t.Levels[0][:t.Width*t.Height*4])
	return img, nil
}

// TextureFromImage converts img into a single-level Color texture.
func TextureFromImage(name string, img image.Image) *Texture2D {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return &Texture2D{
		Name:          name,
		SurfaceFormat: SurfaceColor,
		Width:         b.Dx(),
		Height:        b.Dy(),
		Levels:        [][]byte{dst.Pix},
	}
}

type Texture3D struct {
	SurfaceFormat        SurfaceFormat
	Width, Height, Depth int
	Levels               [][]byte
}

func (t *Texture3D) Format() SurfaceFormat { return t.SurfaceFormat }
func (t *Texture3D) LevelCount() int       { return len(t.Levels) }

type TextureCube struct {
	SurfaceFormat SurfaceFormat
	Size          int
	// Faces holds the mip levels of each face in +X -X +Y -Y +Z -Z order.
	Faces [6][][]byte
}

func (t *TextureCube) Format() SurfaceFormat { return t.SurfaceFormat }
func (t *TextureCube) LevelCount() int       { return len(t.Faces[0]) }

type VertexElementFormat int32

const (
	VertexSingle VertexElementFormat = iota
	VertexVector2
	VertexVector3
	VertexVector4
	VertexColor
	VertexByte4
	VertexShort2
	VertexShort4
	VertexNormalizedShort2
	VertexNormalizedShort4
	VertexHalfVector2
	VertexHalfVector4
)

type VertexElementUsage int32

const (
	UsagePosition VertexElementUsage = iota
	UsageColor
	UsageTextureCoordinate
	UsageNormal
	UsageBinormal
	UsageTangent
	UsageBlendIndices
	UsageBlendWeight
	UsageDepth
	UsageFog
	UsagePointSize
	UsageSample
	UsageTessellateFactor
)

type VertexElement struct {
	Offset     int32
	Format     VertexElementFormat
	Usage      VertexElementUsage
	UsageIndex int32
}

type VertexDeclaration struct {
	Stride   int32
	Elements []VertexElement
}

type VertexBuffer struct {
	Declaration *VertexDeclaration
	VertexCount int
	Data        []byte
}

type IndexBuffer struct {
	SixteenBit bool
	Data       []byte
}

func (b *IndexBuffer) IndexCount() int {
	if b.SixteenBit {
		return len(b.Data) / 2
	}
	return len(b.Data) / 4
}

type SpriteFont struct {
	Texture          *Texture2D
	Glyphs           []Rectangle
	Cropping         []Rectangle
	Characters       []rune
	LineSpacing      int32
	Spacing          float32
	Kerning          []mgl32.Vec3
	DefaultCharacter *rune
}

// Glyph returns the glyph index of r, falling back to the default
// character.
func (f *SpriteFont) Glyph(r rune) (int, bool) {
	for i, c := range f.Characters {
		if c == r {
			return i, true
		}
	}
	if f.DefaultCharacter != nil && *f.DefaultCharacter != r {
		return f.Glyph(*f.DefaultCharacter)
	}
	return 0, false
}

// WaveFormat mirrors the WAVEFORMATEX header.
type WaveFormat struct {
	FormatTag      uint16
	Channels       uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
}

type SoundEffect struct {
	Format     WaveFormat
	Data       []byte
	LoopStart  int32
	LoopLength int32
	DurationMs int32
}

// Duration is the declared duration, or one computed from the data size
// when none was declared.
func (s *SoundEffect) Duration() time.Duration {
	if s.DurationMs > 0 {
		return time.Duration(s.DurationMs) * time.Millisecond
	}
	if s.Format.AvgBytesPerSec == 0 {
		return 0
	}
	return time.Duration(len(s.Data)) * time.Second / time.Duration(s.Format.AvgBytesPerSec)
}

type ModelBone struct {
	Name      string
	Index     int
	Transform mgl32.Mat4
	Parent    *ModelBone
	Children  []*ModelBone
}

type ModelMeshPart struct {
	VertexOffset   int32
	NumVertices    int32
	StartIndex     int32
	PrimitiveCount int32
	Tag            any

	VertexBuffer *VertexBuffer
	IndexBuffer  *IndexBuffer
	// Effect is the effect instance the part draws with, typically an
	// *effect.Effect.
	Effect any
}

type ModelMesh struct {
	Name       string
	ParentBone *ModelBone
	Bounds     BoundingSphere
	Tag        any
	Parts      []*ModelMeshPart
}

type Model struct {
	Bones  []*ModelBone
	Meshes []*ModelMesh
	Root   *ModelBone
	Tag    any
}
