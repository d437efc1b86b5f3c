package effect

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/pkg/fxbin"
)

func pass(name string, states ...fxbin.RenderState) fxbin.Pass {
	return fxbin.Pass{Name: name, States: states}
}

func rs(t fxbin.RenderStateType, v uint32) fxbin.RenderState {
	return fxbin.RenderState{Type: t, Value: v}
}

func pixelShader(register uint32, sampler string) fxbin.Object {
	return fxbin.Object{Kind: fxbin.ObjectShader, Shader: &fxbin.Shader{
		Stage:    fxbin.StagePixel,
		Samplers: []fxbin.SamplerBinding{{Register: register, Name: sampler}},
	}}
}

func sampler(name string, states ...fxbin.SamplerState) fxbin.Param {
	return fxbin.Param{
		Name:          name,
		TypeInfo:      fxbin.TypeInfo{Class: fxbin.ClassObject, Type: fxbin.TypeSampler2D},
		SamplerStates: states,
	}
}

func texture(name string, mapping uint32) fxbin.Param {
	return fxbin.Param{Name: name, TypeInfo: fxbin.TypeInfo{Class: fxbin.ClassObject, Type: fxbin.TypeTexture2D}, Values: []uint32{mapping}}
}

func testImage() *fxbin.Image {
	world := fxbin.TypeInfo{Class: fxbin.ClassMatrixColumns, Type: fxbin.TypeFloat, Rows: 4, Columns: 4}
	ident := make([]float32, 16)
	for i := 0; i < 4; i++ {
		ident[i*4+i] = 1
	}
	tint := fxbin.TypeInfo{Class: fxbin.ClassVector, Type: fxbin.TypeFloat, Rows: 1, Columns: 4}
	light := fxbin.TypeInfo{Class: fxbin.ClassStruct, Type: fxbin.TypeVoid, Members: []fxbin.Member{
		{Name: "Direction", TypeInfo: fxbin.TypeInfo{Class: fxbin.ClassVector, Type: fxbin.TypeFloat, Rows: 1, Columns: 3}},
		{Name: "Enabled", TypeInfo: fxbin.TypeInfo{Class: fxbin.ClassScalar, Type: fxbin.TypeBool, Rows: 1, Columns: 1}},
	}}
	diffuse := texture("DiffuseTexture", 0)
	diffuse.Annotations = []fxbin.Param{{
		Name:     "UIName",
		TypeInfo: fxbin.TypeInfo{Class: fxbin.ClassObject, Type: fxbin.TypeString},
		Values:   []uint32{4},
	}}

	return &fxbin.Image{
		Objects: []fxbin.Object{
			{Kind: fxbin.ObjectMapping, Mapping: "DiffuseTexture"},
			pixelShader(2, "DiffuseSampler"),
			{Kind: fxbin.ObjectShader, Shader: &fxbin.Shader{
				Stage:    fxbin.StageVertex,
				Samplers: []fxbin.SamplerBinding{{Register: 0, Name: "HeightSampler"}},
			}},
			{Kind: fxbin.ObjectMapping, Mapping: "HeightTexture"},
			{Kind: fxbin.ObjectString, String: "Diffuse Map"},
			pixelShader(1, "MagSampler"),
			pixelShader(3, "QuadSampler"),
		},
		Params: []fxbin.Param{
			{Name: "World", Semantic: "WORLD", TypeInfo: world, Values: fxbin.PackFloats(world, ident)},
			diffuse,
			sampler("DiffuseSampler",
				fxbin.SamplerState{Type: fxbin.SSTexture, Value: 0},
				fxbin.SamplerState{Type: fxbin.SSMagFilter, Value: uint32(fxbin.FilterPoint)},
				fxbin.SamplerState{Type: fxbin.SSMinFilter, Value: uint32(fxbin.FilterPoint)},
				fxbin.SamplerState{Type: fxbin.SSMipFilter, Value: uint32(fxbin.FilterLinear)},
				fxbin.SamplerState{Type: fxbin.SSAddressU, Value: fxbin.AddressClamp},
			),
			texture("HeightTexture", 3),
			sampler("HeightSampler",
				fxbin.SamplerState{Type: fxbin.SSTexture, Value: 3},
				fxbin.SamplerState{Type: fxbin.SSAddressV, Value: fxbin.AddressMirror},
			),
			sampler("MagSampler", fxbin.SamplerState{Type: fxbin.SSMagFilter, Value: uint32(fxbin.FilterPoint)}),
			sampler("QuadSampler", fxbin.SamplerState{Type: fxbin.SSMinFilter, Value: uint32(fxbin.FilterPyramidalQuad)}),
			{Name: "VS", TypeInfo: fxbin.TypeInfo{Class: fxbin.ClassObject, Type: fxbin.TypeVertexShader}, Values: []uint32{2}},
			{Name: "Tint", TypeInfo: tint, Values: fxbin.PackFloats(tint, []float32{1, 0.5, 0.25, 1})},
			{Name: "Bones", TypeInfo: fxbin.TypeInfo{Class: fxbin.ClassMatrixRows, Type: fxbin.TypeFloat, Rows: 4, Columns: 3, Elements: 2}, Values: make([]uint32, 32)},
			{Name: "Light", TypeInfo: light, Values: []uint32{0, math.Float32bits(-1), 0, 0, 1, 0, 0, 0}},
			{Name: "Count", TypeInfo: fxbin.TypeInfo{Class: fxbin.ClassScalar, Type: fxbin.TypeInt, Rows: 1, Columns: 1}, Values: []uint32{3, 0, 0, 0}},
		},
		Techniques: []fxbin.Technique{
			{
				Name:        "Blend",
				Annotations: []fxbin.Param{fxbin.Float("Priority", fxbin.ClassScalar, 1, 1, 2)},
				Passes: []fxbin.Pass{
					pass("SrcOnly", rs(fxbin.RSSrcBlend, fxbin.BlendSrcAlpha)),
					pass("AltA", rs(fxbin.RSDestBlend, fxbin.BlendOne)),
					pass("AltB", rs(fxbin.RSDestBlend, fxbin.BlendInvSrcAlpha)),
					pass("Opaque", rs(fxbin.RSAlphaBlendEnable, 0)),
					pass("Separate",
						rs(fxbin.RSSeparateAlphaBlendEnable, 1),
						rs(fxbin.RSSrcBlend, fxbin.BlendSrcColor),
						rs(fxbin.RSSrcBlendAlpha, fxbin.BlendZero),
					),
					pass("Fog", rs(fxbin.RSCullMode, fxbin.CullNone), rs(fxbin.RSFogEnable, 1)),
					pass("Shaded", rs(fxbin.RSVertexShader, 2), rs(fxbin.RSPixelShader, 1), rs(fxbin.RSCullMode, fxbin.CullNone)),
				},
			},
			{Name: "Textured", Passes: []fxbin.Pass{pass("P0", rs(fxbin.RSVertexShader, 2), rs(fxbin.RSPixelShader, 1))}},
			{Name: "MagOnly", Passes: []fxbin.Pass{pass("P0", rs(fxbin.RSPixelShader, 5))}},
			{Name: "BadFilter", Passes: []fxbin.Pass{pass("P0", rs(fxbin.RSPixelShader, 6))}},
		},
	}
}

func newTestEffect(t *testing.T, img *fxbin.Image) (*Effect, *graphics.Device) {
	t.Helper()
	data, err := fxbin.Encode(img)
	if err != nil {
		t.Fatalf("encode image: %v", err)
	}
	dev := graphics.NewDevice()
	fx, err := New(dev, data)
	if err != nil {
		t.Fatalf("new effect: %v", err)
	}
	return fx, dev
}

func applyPass(t *testing.T, fx *Effect, technique, pass string) {
	t.Helper()
	tech := fx.Techniques.ByName(technique)
	if tech == nil {
		t.Fatalf("missing technique %q", technique)
	}
	p := tech.Passes.ByName(pass)
	if p == nil {
		t.Fatalf("missing pass %q", pass)
	}
	if err := p.Apply(); err != nil {
		t.Fatalf("apply %s/%s: %v", technique, pass, err)
	}
}

func TestParseSkipsShadersAndMapsSamplers(t *testing.T) {
	t.Parallel()

	fx, _ := newTestEffect(t, testImage())
	var names []string
	for _, p := range fx.Parameters {
		names = append(names, p.Name)
	}
	want := []string{"World", "DiffuseTexture", "HeightTexture", "Tint", "Bones", "Light", "Count"}
	if len(names) != len(want) {
		t.Fatalf("parameters: got %v want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("parameter %d: got %q want %q", i, names[i], want[i])
		}
	}
	if fx.SamplerTexture("DiffuseSampler") != fx.Parameters.ByName("DiffuseTexture") {
		t.Fatalf("DiffuseSampler should resolve to DiffuseTexture")
	}
	if fx.SamplerTexture("MagSampler") != nil {
		t.Fatalf("sampler without a texture state should not be mapped")
	}
	if fx.CurrentTechnique() != fx.Techniques[0] {
		t.Fatalf("current technique should default to the first")
	}
	if got := fx.Techniques.ByName("Blend").Passes.ByName("Fog").index; got != 5 {
		t.Fatalf("pass index: got %d want 5", got)
	}
}

func TestSamplerBeforeTextureFails(t *testing.T) {
	t.Parallel()

	img := testImage()
	// Move DiffuseSampler ahead of DiffuseTexture.
	img.Params[1], img.Params[2] = img.Params[2], img.Params[1]
	data, err := fxbin.Encode(img)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := New(graphics.NewDevice(), data); !errors.Is(err, ErrSamplerTextureMissing) {
		t.Fatalf("expected ErrSamplerTextureMissing, got %v", err)
	}
}

func TestUnhandledParameterType(t *testing.T) {
	t.Parallel()

	img := testImage()
	img.Params = append(img.Params, fxbin.Param{
		Name:     "Weird",
		TypeInfo: fxbin.TypeInfo{Class: fxbin.ClassObject, Type: fxbin.TypeUnsupported},
		Values:   []uint32{0},
	})
	data, err := fxbin.Encode(img)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err = New(graphics.NewDevice(), data)
	var ute *UnhandledTypeError
	if !errors.As(err, &ute) || ute.Name != "Weird" {
		t.Fatalf("expected UnhandledTypeError for Weird, got %v", err)
	}
}

func TestApplySrcBlendOnlyReplacesBlend(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	blend, depth, raster := dev.BlendState(), dev.DepthStencilState(), dev.RasterizerState()

	applyPass(t, fx, "Blend", "SrcOnly")

	if dev.BlendState() == blend {
		t.Fatalf("blend state should have been replaced")
	}
	if dev.DepthStencilState() != depth || dev.RasterizerState() != raster {
		t.Fatalf("depth stencil and rasterizer states should be untouched")
	}
	got := dev.BlendState()
	if got.ColorSourceBlend != graphics.BlendSourceAlpha || got.AlphaSourceBlend != graphics.BlendSourceAlpha {
		t.Fatalf("source blends: got %v/%v", got.ColorSourceBlend, got.AlphaSourceBlend)
	}
	if got.ColorDestinationBlend != blend.ColorDestinationBlend {
		t.Fatalf("destination blend should be seeded from the bound state")
	}
	if st := dev.Stats(); st.Blend != 1 || st.DepthStencil != 0 || st.Rasterizer != 0 {
		t.Fatalf("publications: got %+v", st)
	}
}

func TestApplyPingPongUsesTwoInstances(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	seen := map[*graphics.BlendState]bool{}
	for i := 0; i < 10; i++ {
		name := "AltA"
		if i%2 == 1 {
			name = "AltB"
		}
		applyPass(t, fx, "Blend", name)
		b := dev.BlendState()
		if !fx.blendPool.owns(b) {
			t.Fatalf("apply %d: bound blend state is not from the pool", i)
		}
		seen[b] = true
	}
	if len(seen) != 2 {
		t.Fatalf("distinct blend instances: got %d want 2", len(seen))
	}
	if dev.Stats().Blend != 10 {
		t.Fatalf("blend publications: got %d want 10", dev.Stats().Blend)
	}
}

func TestApplySeedsFromBoundState(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	custom := graphics.BlendAdditive()
	custom.ColorWriteChannels = graphics.ColorWriteRed
	dev.SetBlendState(custom)

	applyPass(t, fx, "Blend", "AltB")
	if got := dev.BlendState().ColorWriteChannels; got != graphics.ColorWriteRed {
		t.Fatalf("color write channels: got %v want Red", got)
	}
	if got := dev.BlendState().ColorSourceBlend; got != graphics.BlendSourceAlpha {
		t.Fatalf("source blend: got %v", got)
	}
	if dev.BlendState() == custom || custom.ColorDestinationBlend != graphics.BlendOne || custom.ColorWriteChannels != graphics.ColorWriteRed {
		t.Fatalf("application state object was reused or mutated")
	}
}

func TestApplyAlphaBlendDisableForcesOpaque(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	dev.SetBlendState(graphics.BlendNonPremultiplied())
	applyPass(t, fx, "Blend", "Opaque")

	b := dev.BlendState()
	if b.ColorSourceBlend != graphics.BlendOne || b.ColorDestinationBlend != graphics.BlendZero ||
		b.AlphaSourceBlend != graphics.BlendOne || b.AlphaDestinationBlend != graphics.BlendZero {
		t.Fatalf("blend: got %+v", *b)
	}
}

func TestApplySeparateAlphaBlend(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	applyPass(t, fx, "Blend", "Separate")
	b := dev.BlendState()
	if b.ColorSourceBlend != graphics.BlendSourceColor {
		t.Fatalf("color source: got %v", b.ColorSourceBlend)
	}
	if b.AlphaSourceBlend != graphics.BlendZero {
		t.Fatalf("alpha source: got %v", b.AlphaSourceBlend)
	}
}

func TestApplyUnhandledRenderState(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	raster := dev.RasterizerState()

	err := fx.Techniques.ByName("Blend").Passes.ByName("Fog").Apply()
	var urs *UnhandledRenderStateError
	if !errors.As(err, &urs) || urs.State != fxbin.RSFogEnable {
		t.Fatalf("expected unhandled FOGENABLE, got %v", err)
	}
	if !errors.Is(err, ErrUnhandledState) {
		t.Fatalf("error should match ErrUnhandledState")
	}
	if dev.RasterizerState() != raster {
		t.Fatalf("a failed apply must not publish earlier changes")
	}
	if dev.EffectBinding().Native != nil {
		t.Fatalf("a failed apply should leave no pass in progress")
	}
}

func TestApplyIgnoresShaderStates(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	applyPass(t, fx, "Blend", "Shaded")
	if dev.RasterizerState().CullMode != graphics.CullNone {
		t.Fatalf("cull mode: got %v", dev.RasterizerState().CullMode)
	}
}

func TestApplySamplerStatesAndTextures(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	diffuse := &graphics.Texture2D{Name: "diffuse"}
	height := &graphics.Texture2D{Name: "height"}
	if err := fx.Parameters.ByName("DiffuseTexture").SetTexture(diffuse); err != nil {
		t.Fatalf("set diffuse: %v", err)
	}
	if err := fx.Parameters.ByName("HeightTexture").SetTexture(height); err != nil {
		t.Fatalf("set height: %v", err)
	}
	untouched := dev.SamplerState(0)

	applyPass(t, fx, "Textured", "P0")

	s := dev.SamplerState(2)
	if s.Filter != graphics.FilterPointMipLinear || s.AddressU != graphics.AddressClamp || s.AddressV != graphics.AddressWrap {
		t.Fatalf("pixel sampler 2: got %+v", *s)
	}
	if dev.Texture(2) != diffuse {
		t.Fatalf("pixel texture 2 not bound")
	}
	if vs := dev.VertexSamplerState(0); vs.AddressV != graphics.AddressMirror || vs.Filter != graphics.FilterLinear {
		t.Fatalf("vertex sampler 0: got %+v", *vs)
	}
	if dev.VertexTexture(0) != height {
		t.Fatalf("vertex texture 0 not bound")
	}
	if dev.SamplerState(0) != untouched {
		t.Fatalf("undeclared register should be untouched")
	}

	// Re-applying the same pass commits parameters only.
	before := dev.Stats()
	other := &graphics.Texture2D{Name: "other"}
	if err := fx.Parameters.ByName("DiffuseTexture").SetTexture(other); err != nil {
		t.Fatalf("set other: %v", err)
	}
	applyPass(t, fx, "Textured", "P0")
	after := dev.Stats()
	if after.Sampler != before.Sampler || after.VertexSampler != before.VertexSampler || after.Blend != before.Blend {
		t.Fatalf("re-apply published state: before %+v after %+v", before, after)
	}
	if dev.Texture(2) != other {
		t.Fatalf("re-apply should rebind the new texture")
	}
}

func TestApplyMagFilterRecombinesWithBoundSampler(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	applyPass(t, fx, "MagOnly", "P0")
	if got := dev.SamplerState(1).Filter; got != graphics.FilterMinLinearMagPointMipLinear {
		t.Fatalf("filter: got %v", got)
	}
}

func TestApplyFoldsSamplerEntriesPerRegister(t *testing.T) {
	t.Parallel()

	img := &fxbin.Image{
		Objects: []fxbin.Object{{Kind: fxbin.ObjectShader, Shader: &fxbin.Shader{
			Stage: fxbin.StagePixel,
			Samplers: []fxbin.SamplerBinding{
				{Register: 1, Name: "MagSampler"},
				{Register: 1, Name: "ClampSampler"},
			},
		}}},
		Params: []fxbin.Param{
			sampler("MagSampler", fxbin.SamplerState{Type: fxbin.SSMagFilter, Value: uint32(fxbin.FilterPoint)}),
			sampler("ClampSampler",
				fxbin.SamplerState{Type: fxbin.SSMinFilter, Value: uint32(fxbin.FilterPoint)},
				fxbin.SamplerState{Type: fxbin.SSAddressU, Value: fxbin.AddressClamp},
			),
		},
		Techniques: []fxbin.Technique{{Name: "Shared", Passes: []fxbin.Pass{pass("P0", rs(fxbin.RSPixelShader, 0))}}},
	}
	fx, dev := newTestEffect(t, img)
	applyPass(t, fx, "Shared", "P0")

	if got := dev.Stats().Sampler; got != 1 {
		t.Fatalf("sampler publications: got %d want 1", got)
	}
	s := dev.SamplerState(1)
	if s.Filter != graphics.FilterPointMipLinear || s.AddressU != graphics.AddressClamp {
		t.Fatalf("sampler 1: got %+v", *s)
	}
}

func TestApplyAfterNilStates(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	dev.SetBlendState(nil)
	dev.SetDepthStencilState(nil)
	dev.SetRasterizerState(nil)
	applyPass(t, fx, "Blend", "SrcOnly")
	if got := dev.BlendState().ColorSourceBlend; got != graphics.BlendSourceAlpha {
		t.Fatalf("source blend: got %v", got)
	}
}

func TestApplyUnhandledFilter(t *testing.T) {
	t.Parallel()

	fx, _ := newTestEffect(t, testImage())
	err := fx.Techniques.ByName("BadFilter").Passes[0].Apply()
	var ufe *UnhandledFilterError
	if !errors.As(err, &ufe) || ufe.Min != fxbin.FilterPyramidalQuad {
		t.Fatalf("expected UnhandledFilterError, got %v", err)
	}
}

func TestCombineFilter(t *testing.T) {
	t.Parallel()

	P, L, A, N := fxbin.FilterPoint, fxbin.FilterLinear, fxbin.FilterAnisotropic, fxbin.FilterNone
	cases := []struct {
		mag, min, mip fxbin.TextureFilterType
		want          graphics.TextureFilter
	}{
		{P, P, N, graphics.FilterPoint},
		{P, P, P, graphics.FilterPoint},
		{P, P, L, graphics.FilterPointMipLinear},
		{P, L, P, graphics.FilterMinLinearMagPointMipPoint},
		{P, L, L, graphics.FilterMinLinearMagPointMipLinear},
		{L, P, N, graphics.FilterMinPointMagLinearMipPoint},
		{L, P, L, graphics.FilterMinPointMagLinearMipLinear},
		{L, L, P, graphics.FilterLinearMipPoint},
		{L, L, L, graphics.FilterLinear},
		{A, P, N, graphics.FilterAnisotropic},
		{P, A, L, graphics.FilterAnisotropic},
		{L, L, A, graphics.FilterAnisotropic},
	}
	for _, tc := range cases {
		got, err := combineFilter(tc.mag, tc.min, tc.mip)
		if err != nil {
			t.Fatalf("%v/%v/%v: %v", tc.mag, tc.min, tc.mip, err)
		}
		if got != tc.want {
			t.Fatalf("%v/%v/%v: got %v want %v", tc.mag, tc.min, tc.mip, got, tc.want)
		}
	}

	for _, bad := range [][3]fxbin.TextureFilterType{{N, P, P}, {P, fxbin.FilterGaussianQuad, P}, {L, L, fxbin.FilterConvolutionMono}} {
		if _, err := combineFilter(bad[0], bad[1], bad[2]); !errors.Is(err, ErrUnhandledState) {
			t.Fatalf("%v: expected unhandled filter, got %v", bad, err)
		}
	}
}

func TestParameterValues(t *testing.T) {
	t.Parallel()

	fx, _ := newTestEffect(t, testImage())

	world := fx.Parameters.BySemantic("WORLD")
	m, err := world.Matrix()
	if err != nil {
		t.Fatalf("world matrix: %v", err)
	}
	if m != mgl32.Ident4() {
		t.Fatalf("world: got %v", m)
	}
	tr := mgl32.Translate3D(1, 2, 3)
	if err := world.SetMatrix(tr); err != nil {
		t.Fatalf("set world: %v", err)
	}
	if m, _ = world.Matrix(); m != tr {
		t.Fatalf("world round trip: got %v", m)
	}
	if _, err := world.Vector4(); err == nil {
		t.Fatalf("reading a matrix as a vector4 should fail")
	}

	tint, err := fx.Parameters.ByName("Tint").Vector4()
	if err != nil || tint != (mgl32.Vec4{1, 0.5, 0.25, 1}) {
		t.Fatalf("tint: %v %v", tint, err)
	}

	count := fx.Parameters.ByName("Count")
	if n, err := count.Int32(); err != nil || n != 3 {
		t.Fatalf("count: %d %v", n, err)
	}
	if f, err := count.Float32(); err != nil || f != 3 {
		t.Fatalf("count as single: %v %v", f, err)
	}
	if err := count.SetTexture(&graphics.Texture2D{}); !errors.Is(err, ErrInvalidCast) {
		t.Fatalf("expected ErrInvalidCast, got %v", err)
	}

	light := fx.Parameters.ByName("Light")
	if len(light.StructureMembers) != 2 {
		t.Fatalf("light members: %d", len(light.StructureMembers))
	}
	dir, err := light.StructureMembers.ByName("Direction").Vector3()
	if err != nil || dir != (mgl32.Vec3{0, -1, 0}) {
		t.Fatalf("direction: %v %v", dir, err)
	}
	if on, err := light.StructureMembers.ByName("Enabled").Bool(); err != nil || !on {
		t.Fatalf("enabled: %v %v", on, err)
	}

	bones := fx.Parameters.ByName("Bones")
	if len(bones.Elements) != 2 {
		t.Fatalf("bone elements: %d", len(bones.Elements))
	}
	palette := []mgl32.Mat4{mgl32.Translate3D(1, 0, 0), mgl32.Scale3D(2, 2, 2)}
	if err := bones.SetMatrixArray(palette); err != nil {
		t.Fatalf("set bones: %v", err)
	}
	got, err := bones.MatrixArray(-1)
	if err != nil {
		t.Fatalf("read bones: %v", err)
	}
	// A 4x3 matrix keeps rows 0..3 and columns 0..2.
	if got[0].At(0, 0) != 1 || got[0].At(3, 3) != 0 || got[1].At(1, 1) != 2 {
		t.Fatalf("bones: got %v", got)
	}

	ann := fx.Parameters.ByName("DiffuseTexture").Annotations.ByName("UIName")
	if s, err := ann.StringValue(); err != nil || s != "Diffuse Map" {
		t.Fatalf("annotation: %q %v", s, err)
	}
	if p, err := fx.Techniques.ByName("Blend").Annotations.ByName("Priority").Float32(); err != nil || p != 2 {
		t.Fatalf("technique annotation: %v %v", p, err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	tex := &graphics.Texture2D{Name: "shared"}
	if err := fx.Parameters.ByName("DiffuseTexture").SetTexture(tex); err != nil {
		t.Fatalf("set texture: %v", err)
	}
	if err := fx.SetCurrentTechnique(fx.Techniques.ByName("Textured")); err != nil {
		t.Fatalf("set technique: %v", err)
	}

	cl, err := fx.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if cl.CurrentTechnique().Name != "Textured" {
		t.Fatalf("clone technique: %q", cl.CurrentTechnique().Name)
	}
	if got, _ := cl.Parameters.ByName("DiffuseTexture").Texture(); got != tex {
		t.Fatalf("clone should copy texture bindings")
	}
	if err := cl.Parameters.ByName("Tint").SetVector4(mgl32.Vec4{0, 0, 0, 0}); err != nil {
		t.Fatalf("set clone tint: %v", err)
	}
	if v, _ := fx.Parameters.ByName("Tint").Vector4(); v != (mgl32.Vec4{1, 0.5, 0.25, 1}) {
		t.Fatalf("original tint changed: %v", v)
	}
	if err := fx.SetCurrentTechnique(cl.Techniques[0]); !errors.Is(err, ErrForeignTechnique) {
		t.Fatalf("expected ErrForeignTechnique, got %v", err)
	}

	applyPass(t, fx, "Blend", "SrcOnly")
	applyPass(t, cl, "Blend", "AltA")
	if fx.blendPool.owns(dev.BlendState()) || !cl.blendPool.owns(dev.BlendState()) {
		t.Fatalf("clone must publish from its own pool")
	}
	if _, _, ok := fx.native.ActivePass(); ok {
		t.Fatalf("switching effects should end the previous effect's pass")
	}
}

func TestCloseEndsPass(t *testing.T) {
	t.Parallel()

	fx, dev := newTestEffect(t, testImage())
	applyPass(t, fx, "Blend", "SrcOnly")
	if err := fx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if dev.EffectBinding().Native != nil {
		t.Fatalf("close should clear the device binding")
	}
	if err := fx.Techniques[0].Passes[0].Apply(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := fx.Clone(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from clone, got %v", err)
	}
}
