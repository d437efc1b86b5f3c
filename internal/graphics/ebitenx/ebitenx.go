// Package ebitenx draws with ebiten using the state an effect published on
// a graphics.Device: blend state, sampler filter and address modes, bound
// textures and effect parameter values as Kage uniforms.
package ebitenx

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/samcharles93/xnacore/internal/effect"
	"github.com/samcharles93/xnacore/internal/graphics"
)

// ErrUnsupported is returned for device state ebiten cannot express.
var ErrUnsupported = errors.New("ebitenx: unsupported state")

var blendFactors = map[graphics.Blend]ebiten.BlendFactor{
	graphics.BlendZero:                    ebiten.BlendFactorZero,
	graphics.BlendOne:                     ebiten.BlendFactorOne,
	graphics.BlendSourceColor:             ebiten.BlendFactorSourceColor,
	graphics.BlendInverseSourceColor:      ebiten.BlendFactorOneMinusSourceColor,
	graphics.BlendSourceAlpha:             ebiten.BlendFactorSourceAlpha,
	graphics.BlendInverseSourceAlpha:      ebiten.BlendFactorOneMinusSourceAlpha,
	graphics.BlendDestinationColor:        ebiten.BlendFactorDestinationColor,
	graphics.BlendInverseDestinationColor: ebiten.BlendFactorOneMinusDestinationColor,
	graphics.BlendDestinationAlpha:        ebiten.BlendFactorDestinationAlpha,
	graphics.BlendInverseDestinationAlpha: ebiten.BlendFactorOneMinusDestinationAlpha,
}

var blendOps = map[graphics.BlendFunction]ebiten.BlendOperation{
	graphics.BlendFunctionAdd:             ebiten.BlendOperationAdd,
	graphics.BlendFunctionSubtract:        ebiten.BlendOperationSubtract,
	graphics.BlendFunctionReverseSubtract: ebiten.BlendOperationReverseSubtract,
	graphics.BlendFunctionMin:             ebiten.BlendOperationMin,
	graphics.BlendFunctionMax:             ebiten.BlendOperationMax,
}

// Blend converts a blend state. Blend-factor colours have no ebiten
// equivalent.
func Blend(b *graphics.BlendState) (ebiten.Blend, error) {
	var out ebiten.Blend
	factors := []struct {
		src graphics.Blend
		dst *ebiten.BlendFactor
	}{
		{b.ColorSourceBlend, &out.BlendFactorSourceRGB},
		{b.AlphaSourceBlend, &out.BlendFactorSourceAlpha},
		{b.ColorDestinationBlend, &out.BlendFactorDestinationRGB},
		{b.AlphaDestinationBlend, &out.BlendFactorDestinationAlpha},
	}
	for _, f := range factors {
		v, ok := blendFactors[f.src]
		if !ok {
			return ebiten.Blend{}, fmt.Errorf("%w: blend %s", ErrUnsupported, f.src)
		}
		*f.dst = v
	}
	var ok bool
	if out.BlendOperationRGB, ok = blendOps[b.ColorBlendFunction]; !ok {
		return ebiten.Blend{}, fmt.Errorf("%w: blend function %s", ErrUnsupported, b.ColorBlendFunction)
	}
	if out.BlendOperationAlpha, ok = blendOps[b.AlphaBlendFunction]; !ok {
		return ebiten.Blend{}, fmt.Errorf("%w: blend function %s", ErrUnsupported, b.AlphaBlendFunction)
	}
	return out, nil
}

// Filter picks the ebiten filter for a sampler. Ebiten filters once, so
// the magnification component decides.
func Filter(s *graphics.SamplerState) ebiten.Filter {
	switch s.Filter {
	case graphics.FilterPoint, graphics.FilterPointMipLinear,
		graphics.FilterMinLinearMagPointMipLinear, graphics.FilterMinLinearMagPointMipPoint:
		return ebiten.FilterNearest
	}
	return ebiten.FilterLinear
}

// Address converts the U address mode; ebiten has one mode for both axes.
func Address(s *graphics.SamplerState) (ebiten.Address, error) {
	if s.AddressU != s.AddressV {
		return 0, fmt.Errorf("%w: address modes %s/%s differ", ErrUnsupported, s.AddressU, s.AddressV)
	}
	switch s.AddressU {
	case graphics.AddressWrap:
		return ebiten.AddressRepeat, nil
	case graphics.AddressBorder:
		return ebiten.AddressClampToZero, nil
	case graphics.AddressClamp:
		return ebiten.AddressUnsafe, nil
	}
	return 0, fmt.Errorf("%w: address mode %s", ErrUnsupported, s.AddressU)
}

// Uniforms converts effect parameters to Kage uniform values. Matrices
// are passed column-major as Kage expects. Textures, strings, booleans
// and structs have no uniform form and are skipped.
func Uniforms(params effect.Parameters) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for _, p := range params {
		v, ok, err := uniform(p)
		if err != nil {
			return nil, fmt.Errorf("ebitenx: parameter %q: %w", p.Name, err)
		}
		if ok {
			out[p.Name] = v
		}
	}
	return out, nil
}

func uniform(p *effect.Parameter) (any, bool, error) {
	if len(p.Elements) > 0 {
		var flat []float32
		for _, e := range p.Elements {
			v, ok, err := uniform(e)
			if err != nil || !ok {
				return nil, false, err
			}
			switch v := v.(type) {
			case float32:
				flat = append(flat, v)
			case []float32:
				flat = append(flat, v...)
			default:
				return nil, false, nil
			}
		}
		return flat, true, nil
	}

	switch p.Class {
	case effect.ClassScalar:
		switch p.Type {
		case effect.TypeSingle:
			v, err := p.Float32()
			return v, err == nil, err
		case effect.TypeInt32:
			v, err := p.Int32()
			return v, err == nil, err
		}
	case effect.ClassVector:
		if p.Type != effect.TypeSingle {
			return nil, false, nil
		}
		v, err := vectorFloats(p)
		return v, err == nil, err
	case effect.ClassMatrix:
		if p.Type != effect.TypeSingle {
			return nil, false, nil
		}
		m, err := p.Matrix()
		if err != nil {
			return nil, false, err
		}
		out := make([]float32, 0, p.RowCount*p.ColumnCount)
		for c := 0; c < p.ColumnCount; c++ {
			for r := 0; r < p.RowCount; r++ {
				out = append(out, m.At(r, c))
			}
		}
		return out, true, nil
	}
	return nil, false, nil
}

func vectorFloats(p *effect.Parameter) ([]float32, error) {
	switch p.ColumnCount {
	case 1:
		f, err := p.Float32()
		return []float32{f}, err
	case 2:
		v, err := p.Vector2()
		return v[:], err
	case 3:
		v, err := p.Vector3()
		return v[:], err
	case 4:
		v, err := p.Vector4()
		return v[:], err
	}
	return nil, fmt.Errorf("%w: vector of %d components", ErrUnsupported, p.ColumnCount)
}

// ImageSource returns the ebiten image for a bound texture, or nil.
type ImageSource func(graphics.Texture) *ebiten.Image

// ShaderOptions builds draw options from the device's live state: its
// blend state, the first four bound textures and fx's parameters.
func ShaderOptions(dev *graphics.Device, fx *effect.Effect, images ImageSource) (*ebiten.DrawRectShaderOptions, error) {
	blend, err := Blend(dev.BlendState())
	if err != nil {
		return nil, err
	}
	op := &ebiten.DrawRectShaderOptions{Blend: blend}
	if fx != nil {
		if op.Uniforms, err = Uniforms(fx.Parameters); err != nil {
			return nil, err
		}
	}
	if images != nil {
		for i := range op.Images {
			if t := dev.Texture(i); t != nil {
				op.Images[i] = images(t)
			}
		}
	}
	return op, nil
}

// ImageOptions builds options for a plain image draw using the blend state
// and the sampler bound to register 0.
func ImageOptions(dev *graphics.Device) (*ebiten.DrawImageOptions, error) {
	blend, err := Blend(dev.BlendState())
	if err != nil {
		return nil, err
	}
	return &ebiten.DrawImageOptions{Blend: blend, Filter: Filter(dev.SamplerState(0))}, nil
}

// Images caches ebiten images for textures.
type Images struct {
	cache map[*graphics.Texture2D]*ebiten.Image
}

func NewImages() *Images {
	return &Images{cache: make(map[*graphics.Texture2D]*ebiten.Image)}
}

// Image returns the cached image for t, creating it from the top mip level.
func (c *Images) Image(t *graphics.Texture2D) (*ebiten.Image, error) {
	if img, ok := c.cache[t]; ok {
		return img, nil
	}
	src, err := t.Image()
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(src)
	c.cache[t] = img
	return img, nil
}

// Source adapts the cache to ShaderOptions. Textures that cannot be
// converted are left unbound.
func (c *Images) Source() ImageSource {
	return func(t graphics.Texture) *ebiten.Image {
		t2, ok := t.(*graphics.Texture2D)
		if !ok {
			return nil
		}
		img, err := c.Image(t2)
		if err != nil {
			return nil
		}
		return img
	}
}

// Invalidate drops a texture's image, e.g. after the content manager
// reloaded it in place.
func (c *Images) Invalidate(t *graphics.Texture2D) {
	if img, ok := c.cache[t]; ok {
		img.Deallocate()
		delete(c.cache, t)
	}
}
