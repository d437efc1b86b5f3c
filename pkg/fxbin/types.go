package fxbin

import "fmt"

// ParameterClass is the D3D symbol class of a parameter.
type ParameterClass uint32

const (
	ClassScalar ParameterClass = iota
	ClassVector
	ClassMatrixRows
	ClassMatrixColumns
	ClassObject
	ClassStruct
)

func (c ParameterClass) String() string {
	switch c {
	case ClassScalar:
		return "scalar"
	case ClassVector:
		return "vector"
	case ClassMatrixRows:
		return "matrix_rows"
	case ClassMatrixColumns:
		return "matrix_columns"
	case ClassObject:
		return "object"
	case ClassStruct:
		return "struct"
	default:
		return fmt.Sprintf("class(%d)", uint32(c))
	}
}

// ParameterType is the D3D symbol type of a parameter.
type ParameterType uint32

const (
	TypeVoid ParameterType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeTexture
	TypeTexture1D
	TypeTexture2D
	TypeTexture3D
	TypeTextureCube
	TypeSampler
	TypeSampler1D
	TypeSampler2D
	TypeSampler3D
	TypeSamplerCube
	TypePixelShader
	TypeVertexShader
	TypePixelFragment
	TypeVertexFragment
	TypeUnsupported
)

var parameterTypeNames = [...]string{
	TypeVoid:           "void",
	TypeBool:           "bool",
	TypeInt:            "int",
	TypeFloat:          "float",
	TypeString:         "string",
	TypeTexture:        "texture",
	TypeTexture1D:      "texture1d",
	TypeTexture2D:      "texture2d",
	TypeTexture3D:      "texture3d",
	TypeTextureCube:    "texturecube",
	TypeSampler:        "sampler",
	TypeSampler1D:      "sampler1d",
	TypeSampler2D:      "sampler2d",
	TypeSampler3D:      "sampler3d",
	TypeSamplerCube:    "samplercube",
	TypePixelShader:    "pixelshader",
	TypeVertexShader:   "vertexshader",
	TypePixelFragment:  "pixelfragment",
	TypeVertexFragment: "vertexfragment",
	TypeUnsupported:    "unsupported",
}

func (t ParameterType) String() string {
	if int(t) < len(parameterTypeNames) {
		return parameterTypeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint32(t))
}

func (t ParameterType) IsSampler() bool {
	return t >= TypeSampler && t <= TypeSamplerCube
}

func (t ParameterType) IsShader() bool {
	return t >= TypePixelShader && t <= TypeVertexFragment
}

func (t ParameterType) IsTexture() bool {
	return t >= TypeTexture && t <= TypeTextureCube
}

// RenderStateType identifies one render state assignment in a pass.
type RenderStateType uint32

const (
	RSZEnable RenderStateType = iota
	RSFillMode
	RSShadeMode
	RSZWriteEnable
	RSAlphaTestEnable
	RSLastPixel
	RSSrcBlend
	RSDestBlend
	RSCullMode
	RSZFunc
	RSAlphaRef
	RSAlphaFunc
	RSDitherEnable
	RSAlphaBlendEnable
	RSFogEnable
	RSSpecularEnable
	RSFogColor
	RSFogTableMode
	RSFogStart
	RSFogEnd
	RSFogDensity
	RSRangeFogEnable
	RSStencilEnable
	RSStencilFail
	RSStencilZFail
	RSStencilPass
	RSStencilFunc
	RSStencilRef
	RSStencilMask
	RSStencilWriteMask
	RSTextureFactor
	RSWrap0
	RSWrap1
	RSWrap2
	RSWrap3
	RSWrap4
	RSWrap5
	RSWrap6
	RSWrap7
	RSWrap8
	RSWrap9
	RSWrap10
	RSWrap11
	RSWrap12
	RSWrap13
	RSWrap14
	RSWrap15
	RSClipping
	RSLighting
	RSAmbient
	RSFogVertexMode
	RSColorVertex
	RSLocalViewer
	RSNormalizeNormals
	RSDiffuseMaterialSource
	RSSpecularMaterialSource
	RSAmbientMaterialSource
	RSEmissiveMaterialSource
	RSVertexBlend
	RSClipPlaneEnable
	RSPointSize
	RSPointSizeMin
	RSPointSpriteEnable
	RSPointScaleEnable
	RSPointScaleA
	RSPointScaleB
	RSPointScaleC
	RSMultiSampleAntiAlias
	RSMultiSampleMask
	RSPatchEdgeStyle
	RSDebugMonitorToken
	RSPointSizeMax
	RSIndexedVertexBlendEnable
	RSColorWriteEnable
	RSTweenFactor
	RSBlendOp
	RSPositionDegree
	RSNormalDegree
	RSScissorTestEnable
	RSSlopeScaleDepthBias
	RSAntialiasedLineEnable
	RSMinTessellationLevel
	RSMaxTessellationLevel
	RSAdaptiveTessX
	RSAdaptiveTessY
	RSAdaptiveTessZ
	RSAdaptiveTessW
	RSEnableAdaptiveTessellation
	RSTwoSidedStencilMode
	RSCCWStencilFail
	RSCCWStencilZFail
	RSCCWStencilPass
	RSCCWStencilFunc
	RSColorWriteEnable1
	RSColorWriteEnable2
	RSColorWriteEnable3
	RSBlendFactor
	RSSRGBWriteEnable
	RSDepthBias
	RSSeparateAlphaBlendEnable
	RSSrcBlendAlpha
	RSDestBlendAlpha
	RSBlendOpAlpha

	RSVertexShader RenderStateType = 146
	RSPixelShader  RenderStateType = 147
)

var renderStateNames = map[RenderStateType]string{
	RSZEnable:                  "ZENABLE",
	RSFillMode:                 "FILLMODE",
	RSShadeMode:                "SHADEMODE",
	RSZWriteEnable:             "ZWRITEENABLE",
	RSAlphaTestEnable:          "ALPHATESTENABLE",
	RSLastPixel:                "LASTPIXEL",
	RSSrcBlend:                 "SRCBLEND",
	RSDestBlend:                "DESTBLEND",
	RSCullMode:                 "CULLMODE",
	RSZFunc:                    "ZFUNC",
	RSAlphaRef:                 "ALPHAREF",
	RSAlphaFunc:                "ALPHAFUNC",
	RSDitherEnable:             "DITHERENABLE",
	RSAlphaBlendEnable:         "ALPHABLENDENABLE",
	RSFogEnable:                "FOGENABLE",
	RSStencilEnable:            "STENCILENABLE",
	RSStencilFail:              "STENCILFAIL",
	RSStencilZFail:             "STENCILZFAIL",
	RSStencilPass:              "STENCILPASS",
	RSStencilFunc:              "STENCILFUNC",
	RSStencilRef:               "STENCILREF",
	RSStencilMask:              "STENCILMASK",
	RSStencilWriteMask:         "STENCILWRITEMASK",
	RSLighting:                 "LIGHTING",
	RSMultiSampleAntiAlias:     "MULTISAMPLEANTIALIAS",
	RSMultiSampleMask:          "MULTISAMPLEMASK",
	RSColorWriteEnable:         "COLORWRITEENABLE",
	RSBlendOp:                  "BLENDOP",
	RSScissorTestEnable:        "SCISSORTESTENABLE",
	RSSlopeScaleDepthBias:      "SLOPESCALEDEPTHBIAS",
	RSTwoSidedStencilMode:      "TWOSIDEDSTENCILMODE",
	RSCCWStencilFail:           "CCW_STENCILFAIL",
	RSCCWStencilZFail:          "CCW_STENCILZFAIL",
	RSCCWStencilPass:           "CCW_STENCILPASS",
	RSCCWStencilFunc:           "CCW_STENCILFUNC",
	RSColorWriteEnable1:        "COLORWRITEENABLE1",
	RSColorWriteEnable2:        "COLORWRITEENABLE2",
	RSColorWriteEnable3:        "COLORWRITEENABLE3",
	RSBlendFactor:              "BLENDFACTOR",
	RSSRGBWriteEnable:          "SRGBWRITEENABLE",
	RSDepthBias:                "DEPTHBIAS",
	RSSeparateAlphaBlendEnable: "SEPARATEALPHABLENDENABLE",
	RSSrcBlendAlpha:            "SRCBLENDALPHA",
	RSDestBlendAlpha:           "DESTBLENDALPHA",
	RSBlendOpAlpha:             "BLENDOPALPHA",
	RSVertexShader:             "VERTEXSHADER",
	RSPixelShader:              "PIXELSHADER",
}

func (t RenderStateType) String() string {
	if name, ok := renderStateNames[t]; ok {
		return name
	}
	return fmt.Sprintf("renderstate(%d)", uint32(t))
}

// SamplerStateType identifies one sampler state assignment.
type SamplerStateType uint32

const (
	SSUnknown0 SamplerStateType = iota
	SSUnknown1
	SSUnknown2
	SSUnknown3
	SSTexture
	SSAddressU
	SSAddressV
	SSAddressW
	SSBorderColor
	SSMagFilter
	SSMinFilter
	SSMipFilter
	SSMipMapLODBias
	SSMaxMipLevel
	SSMaxAnisotropy
	SSSRGBTexture
	SSElementIndex
	SSDMapOffset
)

var samplerStateNames = [...]string{
	SSUnknown0:      "UNKNOWN0",
	SSUnknown1:      "UNKNOWN1",
	SSUnknown2:      "UNKNOWN2",
	SSUnknown3:      "UNKNOWN3",
	SSTexture:       "TEXTURE",
	SSAddressU:      "ADDRESSU",
	SSAddressV:      "ADDRESSV",
	SSAddressW:      "ADDRESSW",
	SSBorderColor:   "BORDERCOLOR",
	SSMagFilter:     "MAGFILTER",
	SSMinFilter:     "MINFILTER",
	SSMipFilter:     "MIPFILTER",
	SSMipMapLODBias: "MIPMAPLODBIAS",
	SSMaxMipLevel:   "MAXMIPLEVEL",
	SSMaxAnisotropy: "MAXANISOTROPY",
	SSSRGBTexture:   "SRGBTEXTURE",
	SSElementIndex:  "ELEMENTINDEX",
	SSDMapOffset:    "DMAPOFFSET",
}

func (t SamplerStateType) String() string {
	if int(t) < len(samplerStateNames) {
		return samplerStateNames[t]
	}
	return fmt.Sprintf("samplerstate(%d)", uint32(t))
}

// Raw render and sampler state values, as D3D9 defines them.
const (
	ZBFalse uint32 = 0
	ZBTrue  uint32 = 1
	ZBUseW  uint32 = 2

	FillPoint     uint32 = 1
	FillWireframe uint32 = 2
	FillSolid     uint32 = 3

	BlendZero            uint32 = 1
	BlendOne             uint32 = 2
	BlendSrcColor        uint32 = 3
	BlendInvSrcColor     uint32 = 4
	BlendSrcAlpha        uint32 = 5
	BlendInvSrcAlpha     uint32 = 6
	BlendDestAlpha       uint32 = 7
	BlendInvDestAlpha    uint32 = 8
	BlendDestColor       uint32 = 9
	BlendInvDestColor    uint32 = 10
	BlendSrcAlphaSat     uint32 = 11
	BlendBothSrcAlpha    uint32 = 12
	BlendBothInvSrcAlpha uint32 = 13
	BlendBlendFactor     uint32 = 14
	BlendInvBlendFactor  uint32 = 15
	BlendSrcColor2       uint32 = 16
	BlendInvSrcColor2    uint32 = 17

	BlendOpAdd         uint32 = 1
	BlendOpSubtract    uint32 = 2
	BlendOpRevSubtract uint32 = 3
	BlendOpMin         uint32 = 4
	BlendOpMax         uint32 = 5

	CullNone uint32 = 1
	CullCW   uint32 = 2
	CullCCW  uint32 = 3

	CmpNever        uint32 = 1
	CmpLess         uint32 = 2
	CmpEqual        uint32 = 3
	CmpLessEqual    uint32 = 4
	CmpGreater      uint32 = 5
	CmpNotEqual     uint32 = 6
	CmpGreaterEqual uint32 = 7
	CmpAlways       uint32 = 8

	StencilKeep    uint32 = 1
	StencilZero    uint32 = 2
	StencilReplace uint32 = 3
	StencilIncrSat uint32 = 4
	StencilDecrSat uint32 = 5
	StencilInvert  uint32 = 6
	StencilIncr    uint32 = 7
	StencilDecr    uint32 = 8

	AddressWrap       uint32 = 1
	AddressMirror     uint32 = 2
	AddressClamp      uint32 = 3
	AddressBorder     uint32 = 4
	AddressMirrorOnce uint32 = 5
)

// TextureFilterType is a D3D9 texture filter value for MAGFILTER, MINFILTER
// and MIPFILTER.
type TextureFilterType uint32

const (
	FilterNone            TextureFilterType = 0
	FilterPoint           TextureFilterType = 1
	FilterLinear          TextureFilterType = 2
	FilterAnisotropic     TextureFilterType = 3
	FilterPyramidalQuad   TextureFilterType = 6
	FilterGaussianQuad    TextureFilterType = 7
	FilterConvolutionMono TextureFilterType = 8
)

func (f TextureFilterType) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterPoint:
		return "point"
	case FilterLinear:
		return "linear"
	case FilterAnisotropic:
		return "anisotropic"
	case FilterPyramidalQuad:
		return "pyramidalquad"
	case FilterGaussianQuad:
		return "gaussianquad"
	case FilterConvolutionMono:
		return "convolutionmono"
	default:
		return fmt.Sprintf("filter(%d)", uint32(f))
	}
}

// ObjectKind tags an entry of the object table.
type ObjectKind uint32

const (
	ObjectNone ObjectKind = iota
	ObjectString
	ObjectMapping
	ObjectShader
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectNone:
		return "none"
	case ObjectString:
		return "string"
	case ObjectMapping:
		return "mapping"
	case ObjectShader:
		return "shader"
	default:
		return fmt.Sprintf("object(%d)", uint32(k))
	}
}

// ShaderStage selects the sampler register bank a shader binds.
type ShaderStage uint32

const (
	StageVertex ShaderStage = iota
	StagePixel
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StagePixel:
		return "pixel"
	default:
		return fmt.Sprintf("stage(%d)", uint32(s))
	}
}
