// Package graphics holds the device state model: immutable-once-published
// state objects, texture and buffer resources, and the Device that tracks
// which of them are currently bound.
package graphics

const (
	MaxTextureSlots       = 16
	MaxVertexTextureSlots = 4
)

// EffectBinding records the native effect pass currently begun on the
// device. Native is nil when no effect has been applied.
type EffectBinding struct {
	Native    any
	Technique int
	Pass      int
}

// Stats counts state publications since the device was created.
type Stats struct {
	Blend         int
	DepthStencil  int
	Rasterizer    int
	Sampler       int
	VertexSampler int
	Texture       int
}

// Device is the live state of a graphics device. It forwards nothing to a
// GPU; renderers read the bound state from it. Not safe for concurrent use.
type Device struct {
	blend        *BlendState
	depthStencil *DepthStencilState
	rasterizer   *RasterizerState

	textures       [MaxTextureSlots]Texture
	samplers       [MaxTextureSlots]*SamplerState
	vertexTextures [MaxVertexTextureSlots]Texture
	vertexSamplers [MaxVertexTextureSlots]*SamplerState

	effect EffectBinding
	stats  Stats
}

// NewDevice returns a device bound to the XNA default states: opaque
// blending, default depth, counter-clockwise culling and linear-wrap
// sampling.
func NewDevice() *Device {
	d := &Device{
		blend:        BlendOpaque(),
		depthStencil: DepthDefault(),
		rasterizer:   CullCounterClockwiseState(),
	}
	for i := range d.samplers {
		d.samplers[i] = SamplerLinearWrap()
	}
	for i := range d.vertexSamplers {
		d.vertexSamplers[i] = SamplerLinearWrap()
	}
	return d
}

func (d *Device) BlendState() *BlendState               { return d.blend }
func (d *Device) DepthStencilState() *DepthStencilState { return d.depthStencil }
func (d *Device) RasterizerState() *RasterizerState     { return d.rasterizer }

// SetBlendState binds s. Nil binds BlendOpaque, the default.
func (d *Device) SetBlendState(s *BlendState) {
	if s == nil {
		s = BlendOpaque()
	}
	d.blend = s
	d.stats.Blend++
}

// SetDepthStencilState binds s. Nil binds DepthDefault.
func (d *Device) SetDepthStencilState(s *DepthStencilState) {
	if s == nil {
		s = DepthDefault()
	}
	d.depthStencil = s
	d.stats.DepthStencil++
}

// SetRasterizerState binds s. Nil binds CullCounterClockwiseState.
func (d *Device) SetRasterizerState(s *RasterizerState) {
	if s == nil {
		s = CullCounterClockwiseState()
	}
	d.rasterizer = s
	d.stats.Rasterizer++
}

// SamplerState returns the sampler bound to a pixel register, or nil when
// the register is out of range.
func (d *Device) SamplerState(register int) *SamplerState {
	if register < 0 || register >= MaxTextureSlots {
		return nil
	}
	return d.samplers[register]
}

// SetSamplerState binds s to a pixel register. Nil binds SamplerLinearWrap.
func (d *Device) SetSamplerState(register int, s *SamplerState) {
	if register < 0 || register >= MaxTextureSlots {
		return
	}
	if s == nil {
		s = SamplerLinearWrap()
	}
	d.samplers[register] = s
	d.stats.Sampler++
}

func (d *Device) VertexSamplerState(register int) *SamplerState {
	if register < 0 || register >= MaxVertexTextureSlots {
		return nil
	}
	return d.vertexSamplers[register]
}

func (d *Device) SetVertexSamplerState(register int, s *SamplerState) {
	if register < 0 || register >= MaxVertexTextureSlots {
		return
	}
	if s == nil {
		s = SamplerLinearWrap()
	}
	d.vertexSamplers[register] = s
	d.stats.VertexSampler++
}

func (d *Device) Texture(register int) Texture {
	if register < 0 || register >= MaxTextureSlots {
		return nil
	}
	return d.textures[register]
}

func (d *Device) SetTexture(register int, t Texture) {
	if register < 0 || register >= MaxTextureSlots {
		return
	}
	d.textures[register] = t
	d.stats.Texture++
}

func (d *Device) VertexTexture(register int) Texture {
	if register < 0 || register >= MaxVertexTextureSlots {
		return nil
	}
	return d.vertexTextures[register]
}

func (d *Device) SetVertexTexture(register int, t Texture) {
	if register < 0 || register >= MaxVertexTextureSlots {
		return
	}
	d.vertexTextures[register] = t
	d.stats.Texture++
}

func (d *Device) EffectBinding() EffectBinding     { return d.effect }
func (d *Device) SetEffectBinding(b EffectBinding) { d.effect = b }
func (d *Device) Stats() Stats                     { return d.stats }
