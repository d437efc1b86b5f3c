package effect

import (
	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/pkg/fxbin"
)

var blendTable = map[uint32]graphics.Blend{
	fxbin.BlendZero:           graphics.BlendZero,
	fxbin.BlendOne:            graphics.BlendOne,
	fxbin.BlendSrcColor:       graphics.BlendSourceColor,
	fxbin.BlendInvSrcColor:    graphics.BlendInverseSourceColor,
	fxbin.BlendSrcAlpha:       graphics.BlendSourceAlpha,
	fxbin.BlendInvSrcAlpha:    graphics.BlendInverseSourceAlpha,
	fxbin.BlendDestAlpha:      graphics.BlendDestinationAlpha,
	fxbin.BlendInvDestAlpha:   graphics.BlendInverseDestinationAlpha,
	fxbin.BlendDestColor:      graphics.BlendDestinationColor,
	fxbin.BlendInvDestColor:   graphics.BlendInverseDestinationColor,
	fxbin.BlendSrcAlphaSat:    graphics.BlendSourceAlphaSaturation,
	fxbin.BlendBlendFactor:    graphics.BlendBlendFactor,
	fxbin.BlendInvBlendFactor: graphics.BlendInverseBlendFactor,
}

var blendOpTable = map[uint32]graphics.BlendFunction{
	fxbin.BlendOpAdd:         graphics.BlendFunctionAdd,
	fxbin.BlendOpSubtract:    graphics.BlendFunctionSubtract,
	fxbin.BlendOpRevSubtract: graphics.BlendFunctionReverseSubtract,
	fxbin.BlendOpMin:         graphics.BlendFunctionMin,
	fxbin.BlendOpMax:         graphics.BlendFunctionMax,
}

var compareTable = map[uint32]graphics.CompareFunction{
	fxbin.CmpNever:        graphics.CompareNever,
	fxbin.CmpLess:         graphics.CompareLess,
	fxbin.CmpEqual:        graphics.CompareEqual,
	fxbin.CmpLessEqual:    graphics.CompareLessEqual,
	fxbin.CmpGreater:      graphics.CompareGreater,
	fxbin.CmpNotEqual:     graphics.CompareNotEqual,
	fxbin.CmpGreaterEqual: graphics.CompareGreaterEqual,
	fxbin.CmpAlways:       graphics.CompareAlways,
}

var stencilTable = map[uint32]graphics.StencilOperation{
	fxbin.StencilKeep:    graphics.StencilKeep,
	fxbin.StencilZero:    graphics.StencilZero,
	fxbin.StencilReplace: graphics.StencilReplace,
	fxbin.StencilIncrSat: graphics.StencilIncrementSaturation,
	fxbin.StencilDecrSat: graphics.StencilDecrementSaturation,
	fxbin.StencilInvert:  graphics.StencilInvert,
	fxbin.StencilIncr:    graphics.StencilIncrement,
	fxbin.StencilDecr:    graphics.StencilDecrement,
}

var cullTable = map[uint32]graphics.CullMode{
	fxbin.CullNone: graphics.CullNone,
	fxbin.CullCW:   graphics.CullClockwiseFace,
	fxbin.CullCCW:  graphics.CullCounterClockwiseFace,
}

var fillTable = map[uint32]graphics.FillMode{
	fxbin.FillWireframe: graphics.FillWireFrame,
	fxbin.FillSolid:     graphics.FillSolid,
}

var addressTable = map[uint32]graphics.TextureAddressMode{
	fxbin.AddressWrap:   graphics.AddressWrap,
	fxbin.AddressMirror: graphics.AddressMirror,
	fxbin.AddressClamp:  graphics.AddressClamp,
	fxbin.AddressBorder: graphics.AddressBorder,
}

var classTable = map[fxbin.ParameterClass]ParameterClass{
	fxbin.ClassScalar:        ClassScalar,
	fxbin.ClassVector:        ClassVector,
	fxbin.ClassMatrixRows:    ClassMatrix,
	fxbin.ClassMatrixColumns: ClassMatrix,
	fxbin.ClassObject:        ClassObject,
	fxbin.ClassStruct:        ClassStruct,
}

var typeTable = map[fxbin.ParameterType]ParameterType{
	fxbin.TypeVoid:        TypeVoid,
	fxbin.TypeBool:        TypeBool,
	fxbin.TypeInt:         TypeInt32,
	fxbin.TypeFloat:       TypeSingle,
	fxbin.TypeString:      TypeString,
	fxbin.TypeTexture:     TypeTexture,
	fxbin.TypeTexture1D:   TypeTexture1D,
	fxbin.TypeTexture2D:   TypeTexture2D,
	fxbin.TypeTexture3D:   TypeTexture3D,
	fxbin.TypeTextureCube: TypeTextureCube,
}

type filterKey struct {
	mag, min, mip fxbin.TextureFilterType
}

// filterParts splits a combined filter back into mag, min and mip so a
// single declared sub-filter can be recombined with the current sampler.
var filterParts = map[graphics.TextureFilter]filterKey{
	graphics.FilterPoint:                      {fxbin.FilterPoint, fxbin.FilterPoint, fxbin.FilterPoint},
	graphics.FilterPointMipLinear:             {fxbin.FilterPoint, fxbin.FilterPoint, fxbin.FilterLinear},
	graphics.FilterMinLinearMagPointMipPoint:  {fxbin.FilterPoint, fxbin.FilterLinear, fxbin.FilterPoint},
	graphics.FilterMinLinearMagPointMipLinear: {fxbin.FilterPoint, fxbin.FilterLinear, fxbin.FilterLinear},
	graphics.FilterMinPointMagLinearMipPoint:  {fxbin.FilterLinear, fxbin.FilterPoint, fxbin.FilterPoint},
	graphics.FilterMinPointMagLinearMipLinear: {fxbin.FilterLinear, fxbin.FilterPoint, fxbin.FilterLinear},
	graphics.FilterLinearMipPoint:             {fxbin.FilterLinear, fxbin.FilterLinear, fxbin.FilterPoint},
	graphics.FilterLinear:                     {fxbin.FilterLinear, fxbin.FilterLinear, fxbin.FilterLinear},
	graphics.FilterAnisotropic:                {fxbin.FilterAnisotropic, fxbin.FilterAnisotropic, fxbin.FilterAnisotropic},
}

// combineFilter maps independent mag, min and mip filters onto the single
// filter a sampler state exposes. Any anisotropic component wins.
func combineFilter(mag, min, mip fxbin.TextureFilterType) (graphics.TextureFilter, error) {
	if mag == fxbin.FilterAnisotropic || min == fxbin.FilterAnisotropic || mip == fxbin.FilterAnisotropic {
		return graphics.FilterAnisotropic, nil
	}
	var mipLinear bool
	switch mip {
	case fxbin.FilterNone, fxbin.FilterPoint:
	case fxbin.FilterLinear:
		mipLinear = true
	default:
		return 0, &UnhandledFilterError{Mag: mag, Min: min, Mip: mip}
	}

	pick := func(point, linear graphics.TextureFilter) graphics.TextureFilter {
		if mipLinear {
			return linear
		}
		return point
	}
	switch {
	case mag == fxbin.FilterPoint && min == fxbin.FilterPoint:
		return pick(graphics.FilterPoint, graphics.FilterPointMipLinear), nil
	case mag == fxbin.FilterPoint && min == fxbin.FilterLinear:
		return pick(graphics.FilterMinLinearMagPointMipPoint, graphics.FilterMinLinearMagPointMipLinear), nil
	case mag == fxbin.FilterLinear && min == fxbin.FilterPoint:
		return pick(graphics.FilterMinPointMagLinearMipPoint, graphics.FilterMinPointMagLinearMipLinear), nil
	case mag == fxbin.FilterLinear && min == fxbin.FilterLinear:
		return pick(graphics.FilterLinearMipPoint, graphics.FilterLinear), nil
	}
	return 0, &UnhandledFilterError{Mag: mag, Min: min, Mip: mip}
}
