package ebitenx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/xnacore/internal/effect"
	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/pkg/fxbin"
)

func TestBlend_Presets(t *testing.T) {
	alpha, err := Blend(graphics.BlendAlphaBlend())
	require.NoError(t, err)
	assert.Equal(t, ebiten.BlendFactorOne, alpha.BlendFactorSourceRGB)
	assert.Equal(t, ebiten.BlendFactorOneMinusSourceAlpha, alpha.BlendFactorDestinationRGB)
	assert.Equal(t, ebiten.BlendOperationAdd, alpha.BlendOperationRGB)

	opaque, err := Blend(graphics.BlendOpaque())
	require.NoError(t, err)
	assert.Equal(t, ebiten.BlendCopy, opaque)

	additive, err := Blend(graphics.BlendAdditive())
	require.NoError(t, err)
	assert.Equal(t, ebiten.BlendFactorSourceAlpha, additive.BlendFactorSourceAlpha)
	assert.Equal(t, ebiten.BlendFactorOne, additive.BlendFactorDestinationAlpha)
}

func TestBlend_Unsupported(t *testing.T) {
	b := graphics.BlendAlphaBlend()
	b.ColorSourceBlend = graphics.BlendBlendFactor
	_, err := Blend(b)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFilterAndAddress(t *testing.T) {
	assert.Equal(t, ebiten.FilterNearest, Filter(graphics.SamplerPointClamp()))
	assert.Equal(t, ebiten.FilterLinear, Filter(graphics.SamplerLinearWrap()))
	assert.Equal(t, ebiten.FilterLinear, Filter(graphics.SamplerAnisotropicWrap()))

	addr, err := Address(graphics.SamplerLinearWrap())
	require.NoError(t, err)
	assert.Equal(t, ebiten.AddressRepeat, addr)

	mixed := graphics.SamplerLinearWrap()
	mixed.AddressV = graphics.AddressClamp
	_, err = Address(mixed)
	assert.ErrorIs(t, err, ErrUnsupported)

	mirror := graphics.SamplerLinearWrap()
	mirror.AddressU, mirror.AddressV = graphics.AddressMirror, graphics.AddressMirror
	_, err = Address(mirror)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func newEffect(t *testing.T, dev *graphics.Device) *effect.Effect {
	t.Helper()
	mat := fxbin.TypeInfo{Class: fxbin.ClassMatrixColumns, Type: fxbin.TypeFloat, Rows: 4, Columns: 4}
	img := &fxbin.Image{
		Objects: []fxbin.Object{{Kind: fxbin.ObjectMapping, Mapping: "Sprite"}},
		Params: []fxbin.Param{
			fxbin.Float("Time", fxbin.ClassScalar, 1, 1, 2.5),
			fxbin.Float("Tint", fxbin.ClassVector, 1, 3, 1, 0.5, 0),
			{Name: "Projection", TypeInfo: mat, Values: make([]uint32, mat.SlotCount())},
			{Name: "Sprite", TypeInfo: fxbin.TypeInfo{Class: fxbin.ClassObject, Type: fxbin.TypeTexture2D}, Values: []uint32{0}},
		},
		Techniques: []fxbin.Technique{{
			Name: "Main",
			Passes: []fxbin.Pass{{Name: "P0", States: []fxbin.RenderState{
				{Type: fxbin.RSSrcBlend, Value: fxbin.BlendSrcAlpha},
				{Type: fxbin.RSDestBlend, Value: fxbin.BlendInvSrcAlpha},
			}}},
		}},
	}
	code, err := fxbin.Encode(img)
	require.NoError(t, err)
	fx, err := effect.New(dev, code)
	require.NoError(t, err)
	return fx
}

func TestUniforms(t *testing.T) {
	fx := newEffect(t, graphics.NewDevice())
	require.NoError(t, fx.Parameters.ByName("Projection").SetMatrix(mgl32.Translate3D(3, 4, 5)))

	u, err := Uniforms(fx.Parameters)
	require.NoError(t, err)

	assert.Equal(t, float32(2.5), u["Time"])
	assert.Equal(t, []float32{1, 0.5, 0}, u["Tint"])
	proj, ok := u["Projection"].([]float32)
	require.True(t, ok)
	require.Len(t, proj, 16)
	assert.Equal(t, []float32{3, 4, 5, 1}, proj[12:])
	assert.NotContains(t, u, "Sprite")
}

func TestShaderOptionsFollowAppliedPass(t *testing.T) {
	dev := graphics.NewDevice()
	fx := newEffect(t, dev)
	require.NoError(t, fx.Techniques[0].Passes[0].Apply())

	op, err := ShaderOptions(dev, fx, nil)
	require.NoError(t, err)
	assert.Equal(t, ebiten.BlendFactorSourceAlpha, op.Blend.BlendFactorSourceRGB)
	assert.Equal(t, ebiten.BlendFactorOneMinusSourceAlpha, op.Blend.BlendFactorDestinationRGB)
	assert.Equal(t, float32(2.5), op.Uniforms["Time"])

	img, err := ImageOptions(dev)
	require.NoError(t, err)
	assert.Equal(t, op.Blend, img.Blend)
	assert.Equal(t, ebiten.FilterLinear, img.Filter)
}

func TestTranslate(t *testing.T) {
	dev := graphics.NewDevice()
	fx := newEffect(t, dev)

	before := Translate(dev, nil)
	assert.Equal(t, "copy", before.Blend)
	assert.Equal(t, "linear", before.Filter)
	assert.Equal(t, "repeat", before.Address)
	assert.Nil(t, before.Uniforms)

	require.NoError(t, fx.Techniques[0].Passes[0].Apply())
	after := Translate(dev, fx)
	assert.Equal(t, "rgb src-alpha*src add 1-src-alpha*dst, alpha src-alpha*src add 1-src-alpha*dst", after.Blend)
	assert.Equal(t, float32(2.5), after.Uniforms["Time"])
	assert.Empty(t, after.Unsupported)

	dev.SetSamplerState(0, &graphics.SamplerState{Filter: graphics.FilterPoint, AddressU: graphics.AddressMirror, AddressV: graphics.AddressMirror})
	mirrored := Translate(dev, nil)
	assert.Equal(t, "nearest", mirrored.Filter)
	assert.Empty(t, mirrored.Address)
	require.Len(t, mirrored.Unsupported, 1)
	assert.Contains(t, mirrored.Unsupported[0], "address mode")
}

func TestBlendName(t *testing.T) {
	assert.Equal(t, "source-over", BlendName(ebiten.BlendSourceOver))
	assert.Equal(t, "lighter", BlendName(ebiten.BlendLighter))
}
