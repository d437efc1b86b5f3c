package graphics

import "fmt"

func enumName(names []string, v int, kind string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

type Blend int

const (
	BlendOne Blend = iota
	BlendZero
	BlendSourceColor
	BlendInverseSourceColor
	BlendSourceAlpha
	BlendInverseSourceAlpha
	BlendDestinationColor
	BlendInverseDestinationColor
	BlendDestinationAlpha
	BlendInverseDestinationAlpha
	BlendBlendFactor
	BlendInverseBlendFactor
	BlendSourceAlphaSaturation
)

var blendNames = []string{
	"One", "Zero", "SourceColor", "InverseSourceColor", "SourceAlpha", "InverseSourceAlpha",
	"DestinationColor", "InverseDestinationColor", "DestinationAlpha", "InverseDestinationAlpha",
	"BlendFactor", "InverseBlendFactor", "SourceAlphaSaturation",
}

func (b Blend) String() string { return enumName(blendNames, int(b), "Blend") }

type BlendFunction int

const (
	BlendFunctionAdd BlendFunction = iota
	BlendFunctionSubtract
	BlendFunctionReverseSubtract
	BlendFunctionMin
	BlendFunctionMax
)

var blendFunctionNames = []string{"Add", "Subtract", "ReverseSubtract", "Min", "Max"}

func (f BlendFunction) String() string { return enumName(blendFunctionNames, int(f), "BlendFunction") }

// ColorWriteChannels is a bit set of writable render target channels.
type ColorWriteChannels int

const (
	ColorWriteNone  ColorWriteChannels = 0
	ColorWriteRed   ColorWriteChannels = 1
	ColorWriteGreen ColorWriteChannels = 2
	ColorWriteBlue  ColorWriteChannels = 4
	ColorWriteAlpha ColorWriteChannels = 8
	ColorWriteAll   ColorWriteChannels = 15
)

func (c ColorWriteChannels) String() string {
	if c == ColorWriteNone {
		return "None"
	}
	if c == ColorWriteAll {
		return "All"
	}
	s := ""
	for i, name := range []string{"Red", "Green", "Blue", "Alpha"} {
		if c&(1<<i) != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	return s
}

type CompareFunction int

const (
	CompareAlways CompareFunction = iota
	CompareNever
	CompareLess
	CompareLessEqual
	CompareEqual
	CompareGreaterEqual
	CompareGreater
	CompareNotEqual
)

var compareNames = []string{"Always", "Never", "Less", "LessEqual", "Equal", "GreaterEqual", "Greater", "NotEqual"}

func (f CompareFunction) String() string { return enumName(compareNames, int(f), "CompareFunction") }

type StencilOperation int

const (
	StencilKeep StencilOperation = iota
	StencilZero
	StencilReplace
	StencilIncrement
	StencilDecrement
	StencilIncrementSaturation
	StencilDecrementSaturation
	StencilInvert
)

var stencilNames = []string{
	"Keep", "Zero", "Replace", "Increment", "Decrement", "IncrementSaturation", "DecrementSaturation", "Invert",
}

func (s StencilOperation) String() string { return enumName(stencilNames, int(s), "StencilOperation") }

type CullMode int

const (
	CullNone CullMode = iota
	CullClockwiseFace
	CullCounterClockwiseFace
)

var cullNames = []string{"None", "CullClockwiseFace", "CullCounterClockwiseFace"}

func (c CullMode) String() string { return enumName(cullNames, int(c), "CullMode") }

type FillMode int

const (
	FillSolid FillMode = iota
	FillWireFrame
)

var fillNames = []string{"Solid", "WireFrame"}

func (f FillMode) String() string { return enumName(fillNames, int(f), "FillMode") }

type TextureAddressMode int

const (
	AddressWrap TextureAddressMode = iota
	AddressClamp
	AddressMirror
	AddressBorder
)

var addressNames = []string{"Wrap", "Clamp", "Mirror", "Border"}

func (a TextureAddressMode) String() string {
	return enumName(addressNames, int(a), "TextureAddressMode")
}

// TextureFilter is the combined min/mag/mip filter a sampler exposes.
type TextureFilter int

const (
	FilterLinear TextureFilter = iota
	FilterPoint
	FilterAnisotropic
	FilterLinearMipPoint
	FilterPointMipLinear
	FilterMinLinearMagPointMipLinear
	FilterMinLinearMagPointMipPoint
	FilterMinPointMagLinearMipLinear
	FilterMinPointMagLinearMipPoint
)

var filterNames = []string{
	"Linear", "Point", "Anisotropic", "LinearMipPoint", "PointMipLinear",
	"MinLinearMagPointMipLinear", "MinLinearMagPointMipPoint",
	"MinPointMagLinearMipLinear", "MinPointMagLinearMipPoint",
}

func (f TextureFilter) String() string { return enumName(filterNames, int(f), "TextureFilter") }

type SurfaceFormat int

const (
	SurfaceColor SurfaceFormat = iota
	SurfaceBgr565
	SurfaceBgra5551
	SurfaceBgra4444
	SurfaceDxt1
	SurfaceDxt3
	SurfaceDxt5
	SurfaceNormalizedByte2
	SurfaceNormalizedByte4
	SurfaceRgba1010102
	SurfaceRg32
	SurfaceRgba64
	SurfaceAlpha8
	SurfaceSingle
	SurfaceVector2
	SurfaceVector4
	SurfaceHalfSingle
	SurfaceHalfVector2
	SurfaceHalfVector4
	SurfaceHdrBlendable
)

var surfaceNames = []string{
	"Color", "Bgr565", "Bgra5551", "Bgra4444", "Dxt1", "Dxt3", "Dxt5", "NormalizedByte2",
	"NormalizedByte4", "Rgba1010102", "Rg32", "Rgba64", "Alpha8", "Single", "Vector2", "Vector4",
	"HalfSingle", "HalfVector2", "HalfVector4", "HdrBlendable",
}

func (f SurfaceFormat) String() string { return enumName(surfaceNames, int(f), "SurfaceFormat") }

// Size returns the byte size of one pixel, or of one 4x4 block for the
// compressed formats.
func (f SurfaceFormat) Size() int {
	switch f {
	case SurfaceDxt1:
		return 8
	case SurfaceDxt3, SurfaceDxt5:
		return 16
	case SurfaceAlpha8:
		return 1
	case SurfaceBgr565, SurfaceBgra5551, SurfaceBgra4444, SurfaceNormalizedByte2, SurfaceHalfSingle:
		return 2
	case SurfaceRgba64, SurfaceVector2, SurfaceHalfVector4, SurfaceHdrBlendable:
		return 8
	case SurfaceVector4:
		return 16
	default:
		return 4
	}
}

// Compressed reports whether the format is block compressed.
func (f SurfaceFormat) Compressed() bool {
	return f == SurfaceDxt1 || f == SurfaceDxt3 || f == SurfaceDxt5
}
