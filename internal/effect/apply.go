package effect

import (
	"fmt"
	"math"

	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/pkg/fxbin"
)

// statePool holds the two instances of a state category an effect
// alternates between. At most one of them is live on the device.
type statePool[T comparable] struct {
	slots [2]*T
}

func newStatePool[T comparable]() statePool[T] {
	return statePool[T]{slots: [2]*T{new(T), new(T)}}
}

// publish copies v into whichever slot is not live and returns it.
func (p *statePool[T]) publish(live *T, v T) *T {
	dst := p.slots[0]
	if live == dst {
		dst = p.slots[1]
	}
	*dst = v
	return dst
}

// owns reports whether s is one of the pool's instances.
func (p *statePool[T]) owns(s *T) bool {
	return s == p.slots[0] || s == p.slots[1]
}

// samplerWork is the working copy for one sampler register. Every
// SamplerChanges entry naming the register folds into the same copy.
type samplerWork struct {
	register int
	vertex   bool
	state    graphics.SamplerState
	current  *graphics.SamplerState
	texture  graphics.Texture
	rebind   bool

	filter        filterKey
	filterChanged bool
}

func (e *Effect) applyPass(t *Technique, p *Pass) error {
	if e.closed {
		return ErrClosed
	}
	changes, err := e.begin(t, p)
	if err != nil {
		return err
	}
	if err := e.applyChanges(p, changes); err != nil {
		// Leave no half-begun pass behind, so the next Apply starts over.
		e.native.EndPass()
		e.device.SetEffectBinding(graphics.EffectBinding{})
		return err
	}
	return nil
}

// begin asks the native engine for the pass's state changes. Re-applying
// the pass already in progress only commits parameter changes.
func (e *Effect) begin(t *Technique, p *Pass) (*fxbin.StateChanges, error) {
	cur := e.device.EffectBinding()
	if cur.Native == e.native {
		if cur.Technique == t.index && cur.Pass == p.index {
			return e.native.CommitChanges()
		}
		e.native.EndPass()
	} else if prev, ok := cur.Native.(*fxbin.Effect); ok && prev != nil {
		prev.EndPass()
	}
	changes, err := e.native.BeginPass(t.index, p.index)
	if err != nil {
		return nil, fmt.Errorf("effect: technique %q pass %q: %w", t.Name, p.Name, err)
	}
	e.device.SetEffectBinding(graphics.EffectBinding{Native: e.native, Technique: t.index, Pass: p.index})
	return changes, nil
}

func (e *Effect) applyChanges(p *Pass, changes *fxbin.StateChanges) error {
	dev := e.device
	curBlend := dev.BlendState()
	curDepth := dev.DepthStencilState()
	curRaster := dev.RasterizerState()

	blend := *curBlend
	depth := *curDepth
	raster := *curRaster
	err := applyRenderStates(p.Name, changes.Render, &blend, &depth, &raster)
	if err != nil {
		return err
	}

	work := make([]*samplerWork, 0, len(changes.PixelSamplers)+len(changes.VertexSamplers))
	for _, sc := range changes.PixelSamplers {
		if work, err = e.foldSampler(work, sc, false); err != nil {
			return err
		}
	}
	for _, sc := range changes.VertexSamplers {
		if work, err = e.foldSampler(work, sc, true); err != nil {
			return err
		}
	}
	for _, w := range work {
		if !w.filterChanged {
			continue
		}
		if w.state.Filter, err = combineFilter(w.filter.mag, w.filter.min, w.filter.mip); err != nil {
			return err
		}
	}

	// Every change is validated; publish.
	var published int
	if blend != *curBlend {
		dev.SetBlendState(e.blendPool.publish(curBlend, blend))
		published++
	}
	if depth != *curDepth {
		dev.SetDepthStencilState(e.depthStencilPool.publish(curDepth, depth))
		published++
	}
	if raster != *curRaster {
		dev.SetRasterizerState(e.rasterizerPool.publish(curRaster, raster))
		published++
	}
	for _, w := range work {
		if w.vertex {
			if w.state != *w.current {
				dev.SetVertexSamplerState(w.register, e.vertexSamplerPools[w.register].publish(w.current, w.state))
				published++
			}
			if w.rebind && dev.VertexTexture(w.register) != w.texture {
				dev.SetVertexTexture(w.register, w.texture)
			}
			continue
		}
		if w.state != *w.current {
			dev.SetSamplerState(w.register, e.samplerPools[w.register].publish(w.current, w.state))
			published++
		}
		if w.rebind && dev.Texture(w.register) != w.texture {
			dev.SetTexture(w.register, w.texture)
		}
	}
	e.log.Debug("effect pass applied",
		"technique", p.technique.Name,
		"pass", p.Name,
		"render_states", len(changes.Render),
		"samplers", len(work),
		"published", published,
	)
	return nil
}

// applyRenderStates folds render state assignments into working copies
// seeded from the bound device state.
func applyRenderStates(pass string, states []fxbin.RenderState, blend *graphics.BlendState, depth *graphics.DepthStencilState, raster *graphics.RasterizerState) error {
	separateAlpha := false
	for _, s := range states {
		v := s.Value
		bad := func() error { return &UnhandledRenderStateError{Pass: pass, State: s.Type, Value: v} }
		ok := true
		switch s.Type {
		case fxbin.RSZEnable:
			depth.DepthBufferEnable = v != fxbin.ZBFalse
		case fxbin.RSZWriteEnable:
			depth.DepthBufferWriteEnable = v != 0
		case fxbin.RSZFunc:
			depth.DepthBufferFunction, ok = compareTable[v]
		case fxbin.RSStencilEnable:
			depth.StencilEnable = v != 0
		case fxbin.RSStencilFail:
			depth.StencilFail, ok = stencilTable[v]
		case fxbin.RSStencilZFail:
			depth.StencilDepthBufferFail, ok = stencilTable[v]
		case fxbin.RSStencilPass:
			depth.StencilPass, ok = stencilTable[v]
		case fxbin.RSStencilFunc:
			depth.StencilFunction, ok = compareTable[v]
		case fxbin.RSStencilRef:
			depth.ReferenceStencil = int32(v)
		case fxbin.RSStencilMask:
			depth.StencilMask = int32(v)
		case fxbin.RSStencilWriteMask:
			depth.StencilWriteMask = int32(v)
		case fxbin.RSTwoSidedStencilMode:
			depth.TwoSidedStencilMode = v != 0
		case fxbin.RSCCWStencilFail:
			depth.CounterClockwiseStencilFail, ok = stencilTable[v]
		case fxbin.RSCCWStencilZFail:
			depth.CounterClockwiseStencilDepthBufferFail, ok = stencilTable[v]
		case fxbin.RSCCWStencilPass:
			depth.CounterClockwiseStencilPass, ok = stencilTable[v]
		case fxbin.RSCCWStencilFunc:
			depth.CounterClockwiseStencilFunction, ok = compareTable[v]

		case fxbin.RSFillMode:
			raster.FillMode, ok = fillTable[v]
		case fxbin.RSCullMode:
			raster.CullMode, ok = cullTable[v]
		case fxbin.RSDepthBias:
			raster.DepthBias = math.Float32frombits(v)
		case fxbin.RSSlopeScaleDepthBias:
			raster.SlopeScaleDepthBias = math.Float32frombits(v)
		case fxbin.RSScissorTestEnable:
			raster.ScissorTestEnable = v != 0
		case fxbin.RSMultiSampleAntiAlias:
			raster.MultiSampleAntiAlias = v != 0

		case fxbin.RSAlphaBlendEnable:
			// Disabling blending is expressed as an opaque blend.
			if v == 0 {
				blend.ColorSourceBlend = graphics.BlendOne
				blend.ColorDestinationBlend = graphics.BlendZero
				blend.AlphaSourceBlend = graphics.BlendOne
				blend.AlphaDestinationBlend = graphics.BlendZero
			}
		case fxbin.RSSeparateAlphaBlendEnable:
			separateAlpha = v != 0
		case fxbin.RSSrcBlend:
			blend.ColorSourceBlend, ok = blendTable[v]
			if !separateAlpha {
				blend.AlphaSourceBlend = blend.ColorSourceBlend
			}
		case fxbin.RSDestBlend:
			blend.ColorDestinationBlend, ok = blendTable[v]
			if !separateAlpha {
				blend.AlphaDestinationBlend = blend.ColorDestinationBlend
			}
		case fxbin.RSBlendOp:
			blend.ColorBlendFunction, ok = blendOpTable[v]
			if !separateAlpha {
				blend.AlphaBlendFunction = blend.ColorBlendFunction
			}
		case fxbin.RSSrcBlendAlpha:
			blend.AlphaSourceBlend, ok = blendTable[v]
		case fxbin.RSDestBlendAlpha:
			blend.AlphaDestinationBlend, ok = blendTable[v]
		case fxbin.RSBlendOpAlpha:
			blend.AlphaBlendFunction, ok = blendOpTable[v]
		case fxbin.RSColorWriteEnable:
			blend.ColorWriteChannels = graphics.ColorWriteChannels(v & 0xF)
		case fxbin.RSColorWriteEnable1:
			blend.ColorWriteChannels1 = graphics.ColorWriteChannels(v & 0xF)
		case fxbin.RSColorWriteEnable2:
			blend.ColorWriteChannels2 = graphics.ColorWriteChannels(v & 0xF)
		case fxbin.RSColorWriteEnable3:
			blend.ColorWriteChannels3 = graphics.ColorWriteChannels(v & 0xF)
		case fxbin.RSBlendFactor:
			blend.BlendFactor = graphics.ColorFromARGB(v)
		case fxbin.RSMultiSampleMask:
			blend.MultiSampleMask = int32(v)

		case fxbin.RSVertexShader, fxbin.RSPixelShader:
			// Shaders are bound by the native engine.
		default:
			return bad()
		}
		if !ok {
			return bad()
		}
	}
	return nil
}

// foldSampler folds sc into the working copy for its register, seeding one
// from the sampler currently bound there on first use.
func (e *Effect) foldSampler(work []*samplerWork, sc fxbin.SamplerChanges, vertex bool) ([]*samplerWork, error) {
	reg := int(sc.Register)
	for _, w := range work {
		if w.register == reg && w.vertex == vertex {
			return work, e.samplerChanges(w, sc)
		}
	}

	limit := graphics.MaxTextureSlots
	current := e.device.SamplerState(reg)
	if vertex {
		limit = graphics.MaxVertexTextureSlots
		current = e.device.VertexSamplerState(reg)
	}
	if reg >= limit || current == nil {
		return work, fmt.Errorf("%w: sampler %q register %d out of range", ErrUnhandledState, sc.Sampler, reg)
	}
	w := &samplerWork{register: reg, vertex: vertex, state: *current, current: current, filter: filterParts[current.Filter]}
	return append(work, w), e.samplerChanges(w, sc)
}

// samplerChanges applies one entry's sampler states to w.
func (e *Effect) samplerChanges(w *samplerWork, sc fxbin.SamplerChanges) error {
	reg := w.register
	for _, s := range sc.States {
		v := s.Value
		ok := true
		switch s.Type {
		case fxbin.SSTexture:
			if tp := e.samplerMap[sc.Sampler]; tp != nil && tp.texture != nil {
				w.texture = tp.texture
				w.rebind = true
			}
		case fxbin.SSAddressU:
			w.state.AddressU, ok = addressTable[v]
		case fxbin.SSAddressV:
			w.state.AddressV, ok = addressTable[v]
		case fxbin.SSAddressW:
			w.state.AddressW, ok = addressTable[v]
		case fxbin.SSMagFilter:
			w.filter.mag = fxbin.TextureFilterType(v)
			w.filterChanged = true
		case fxbin.SSMinFilter:
			w.filter.min = fxbin.TextureFilterType(v)
			w.filterChanged = true
		case fxbin.SSMipFilter:
			w.filter.mip = fxbin.TextureFilterType(v)
			w.filterChanged = true
		case fxbin.SSMipMapLODBias:
			w.state.MipMapLevelOfDetailBias = math.Float32frombits(v)
		case fxbin.SSMaxMipLevel:
			w.state.MaxMipLevel = int32(v)
		case fxbin.SSMaxAnisotropy:
			w.state.MaxAnisotropy = int32(v)
		default:
			ok = false
		}
		if !ok {
			return &UnhandledSamplerStateError{Register: reg, Sampler: sc.Sampler, State: s.Type, Value: v}
		}
	}
	return nil
}
