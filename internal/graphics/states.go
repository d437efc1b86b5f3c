package graphics

// State objects are plain comparable values. Once published on a Device an
// instance must not be mutated except by the owner that published it.

type BlendState struct {
	ColorSourceBlend      Blend
	ColorDestinationBlend Blend
	ColorBlendFunction    BlendFunction
	AlphaSourceBlend      Blend
	AlphaDestinationBlend Blend
	AlphaBlendFunction    BlendFunction
	ColorWriteChannels    ColorWriteChannels
	ColorWriteChannels1   ColorWriteChannels
	ColorWriteChannels2   ColorWriteChannels
	ColorWriteChannels3   ColorWriteChannels
	BlendFactor           Color
	MultiSampleMask       int32
}

func newBlendState(src, dst Blend) *BlendState {
	return &BlendState{
		ColorSourceBlend:      src,
		ColorDestinationBlend: dst,
		AlphaSourceBlend:      src,
		AlphaDestinationBlend: dst,
		ColorWriteChannels:    ColorWriteAll,
		ColorWriteChannels1:   ColorWriteAll,
		ColorWriteChannels2:   ColorWriteAll,
		ColorWriteChannels3:   ColorWriteAll,
		BlendFactor:           White,
		MultiSampleMask:       -1,
	}
}

func BlendOpaque() *BlendState     { return newBlendState(BlendOne, BlendZero) }
func BlendAlphaBlend() *BlendState { return newBlendState(BlendOne, BlendInverseSourceAlpha) }
func BlendAdditive() *BlendState   { return newBlendState(BlendSourceAlpha, BlendOne) }
func BlendNonPremultiplied() *BlendState {
	return newBlendState(BlendSourceAlpha, BlendInverseSourceAlpha)
}

type DepthStencilState struct {
	DepthBufferEnable      bool
	DepthBufferWriteEnable bool
	DepthBufferFunction    CompareFunction

	StencilEnable          bool
	StencilFunction        CompareFunction
	StencilPass            StencilOperation
	StencilFail            StencilOperation
	StencilDepthBufferFail StencilOperation

	TwoSidedStencilMode                    bool
	CounterClockwiseStencilFunction        CompareFunction
	CounterClockwiseStencilPass            StencilOperation
	CounterClockwiseStencilFail            StencilOperation
	CounterClockwiseStencilDepthBufferFail StencilOperation

	StencilMask      int32
	StencilWriteMask int32
	ReferenceStencil int32
}

func newDepthStencilState(enable, write bool) *DepthStencilState {
	return &DepthStencilState{
		DepthBufferEnable:               enable,
		DepthBufferWriteEnable:          write,
		DepthBufferFunction:             CompareLessEqual,
		StencilFunction:                 CompareAlways,
		CounterClockwiseStencilFunction: CompareAlways,
		StencilMask:                     -1,
		StencilWriteMask:                -1,
	}
}

func DepthDefault() *DepthStencilState { return newDepthStencilState(true, true) }
func DepthRead() *DepthStencilState    { return newDepthStencilState(true, false) }
func DepthNone() *DepthStencilState    { return newDepthStencilState(false, false) }

type RasterizerState struct {
	CullMode             CullMode
	FillMode             FillMode
	DepthBias            float32
	SlopeScaleDepthBias  float32
	ScissorTestEnable    bool
	MultiSampleAntiAlias bool
}

func newRasterizerState(cull CullMode) *RasterizerState {
	return &RasterizerState{CullMode: cull, FillMode: FillSolid, MultiSampleAntiAlias: true}
}

func CullNoneState() *RasterizerState      { return newRasterizerState(CullNone) }
func CullClockwiseState() *RasterizerState { return newRasterizerState(CullClockwiseFace) }
func CullCounterClockwiseState() *RasterizerState {
	return newRasterizerState(CullCounterClockwiseFace)
}

type SamplerState struct {
	Filter                  TextureFilter
	AddressU                TextureAddressMode
	AddressV                TextureAddressMode
	AddressW                TextureAddressMode
	MaxAnisotropy           int32
	MaxMipLevel             int32
	MipMapLevelOfDetailBias float32
}

func newSamplerState(filter TextureFilter, address TextureAddressMode) *SamplerState {
	return &SamplerState{
		Filter:        filter,
		AddressU:      address,
		AddressV:      address,
		AddressW:      address,
		MaxAnisotropy: 4,
	}
}

func SamplerPointWrap() *SamplerState        { return newSamplerState(FilterPoint, AddressWrap) }
func SamplerPointClamp() *SamplerState       { return newSamplerState(FilterPoint, AddressClamp) }
func SamplerLinearWrap() *SamplerState       { return newSamplerState(FilterLinear, AddressWrap) }
func SamplerLinearClamp() *SamplerState      { return newSamplerState(FilterLinear, AddressClamp) }
func SamplerAnisotropicWrap() *SamplerState  { return newSamplerState(FilterAnisotropic, AddressWrap) }
func SamplerAnisotropicClamp() *SamplerState { return newSamplerState(FilterAnisotropic, AddressClamp) }
