package content

import (
	"encoding/binary"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/samcharles93/xnacore/internal/effect"
	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/pkg/xnb"
)

func registerGraphics(t *TypeReaders) {
	simple(t, "Texture2D", false, func(r *Reader, _ any) (any, error) { return readTexture2D(r) })
	simple(t, "Texture3D", false, func(r *Reader, _ any) (any, error) { return readTexture3D(r) })
	simple(t, "TextureCube", false, func(r *Reader, _ any) (any, error) { return readTextureCube(r) })
	simple(t, "VertexDeclaration", false, func(r *Reader, _ any) (any, error) { return readVertexDeclaration(r) })
	simple(t, "VertexBuffer", false, func(r *Reader, _ any) (any, error) { return readVertexBuffer(r) })
	simple(t, "IndexBuffer", false, func(r *Reader, _ any) (any, error) { return readIndexBuffer(r) })
	simple(t, "Model", false, func(r *Reader, _ any) (any, error) { return readModel(r) })
	simple(t, "SpriteFont", false, func(r *Reader, _ any) (any, error) { return readSpriteFont(r) })
	simple(t, "SoundEffect", false, func(r *Reader, _ any) (any, error) { return readSoundEffect(r) })
	simple(t, "Effect", false, func(r *Reader, _ any) (any, error) { return readEffect(r) })
	simple(t, "EffectMaterial", false, func(r *Reader, _ any) (any, error) { return readEffectMaterial(r) })
}

// legacySurfaceFormats maps version 4 surface format values.
var legacySurfaceFormats = map[int32]graphics.SurfaceFormat{
	1:  graphics.SurfaceColor,
	6:  graphics.SurfaceRgba1010102,
	7:  graphics.SurfaceRg32,
	8:  graphics.SurfaceRgba64,
	9:  graphics.SurfaceBgr565,
	10: graphics.SurfaceBgra5551,
	12: graphics.SurfaceBgra4444,
	15: graphics.SurfaceAlpha8,
	18: graphics.SurfaceNormalizedByte2,
	19: graphics.SurfaceNormalizedByte4,
	22: graphics.SurfaceSingle,
	23: graphics.SurfaceVector2,
	24: graphics.SurfaceVector4,
	25: graphics.SurfaceHalfSingle,
	26: graphics.SurfaceHalfVector2,
	27: graphics.SurfaceHalfVector4,
	28: graphics.SurfaceDxt1,
	30: graphics.SurfaceDxt3,
	32: graphics.SurfaceDxt5,
}

func readSurfaceFormat(r *Reader) (graphics.SurfaceFormat, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if r.Version() == xnb.VersionXNA31 {
		f, ok := legacySurfaceFormats[v]
		if !ok {
			return 0, fmt.Errorf("%w: legacy surface format %d", ErrCorrupt, v)
		}
		return f, nil
	}
	if v < 0 || v > int32(graphics.SurfaceHdrBlendable) {
		return 0, fmt.Errorf("%w: surface format %d", ErrCorrupt, v)
	}
	return graphics.SurfaceFormat(v), nil
}

func readSized(r *Reader) ([]byte, error) {
	n, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	if int64(n) > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: block of %d bytes, %d left", ErrTruncated, n, r.Remaining())
	}
	return r.readOwned(int(n))
}

func readLevels(r *Reader) ([][]byte, error) {
	n, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	if int64(n) > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: %d mip levels", ErrCorrupt, n)
	}
	levels := make([][]byte, n)
	for i := range levels {
		if levels[i], err = readSized(r); err != nil {
			return nil, err
		}
	}
	return levels, nil
}

func readDims(r *Reader, dims ...*int) error {
	for _, d := range dims {
		v, err := r.ReadUInt32()
		if err != nil {
			return err
		}
		*d = int(v)
	}
	return nil
}

func readTexture2D(r *Reader) (*graphics.Texture2D, error) {
	t := &graphics.Texture2D{Name: r.AssetName()}
	var err error
	if t.SurfaceFormat, err = readSurfaceFormat(r); err != nil {
		return nil, err
	}
	if err := readDims(r, &t.Width, &t.Height); err != nil {
		return nil, err
	}
	if t.Levels, err = readLevels(r); err != nil {
		return nil, err
	}
	return t, nil
}

func readTexture3D(r *Reader) (*graphics.Texture3D, error) {
	t := &graphics.Texture3D{}
	var err error
	if t.SurfaceFormat, err = readSurfaceFormat(r); err != nil {
		return nil, err
	}
	if err := readDims(r, &t.Width, &t.Height, &t.Depth); err != nil {
		return nil, err
	}
	if t.Levels, err = readLevels(r); err != nil {
		return nil, err
	}
	return t, nil
}

func readTextureCube(r *Reader) (*graphics.TextureCube, error) {
	t := &graphics.TextureCube{}
	var err error
	if t.SurfaceFormat, err = readSurfaceFormat(r); err != nil {
		return nil, err
	}
	if err := readDims(r, &t.Size); err != nil {
		return nil, err
	}
	levels, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	if int64(levels) > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: %d mip levels", ErrCorrupt, levels)
	}
	for face := range t.Faces {
		t.Faces[face] = make([][]byte, levels)
		for i := range t.Faces[face] {
			if t.Faces[face][i], err = readSized(r); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func readVertexDeclaration(r *Reader) (*graphics.VertexDeclaration, error) {
	stride, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	n, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	if int64(n)*16 > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: %d vertex elements", ErrCorrupt, n)
	}
	d := &graphics.VertexDeclaration{Stride: int32(stride), Elements: make([]graphics.VertexElement, n)}
	for i := range d.Elements {
		var f [4]int32
		for j := range f {
			if f[j], err = r.ReadInt32(); err != nil {
				return nil, err
			}
		}
		d.Elements[i] = graphics.VertexElement{
			Offset:     f[0],
			Format:     graphics.VertexElementFormat(f[1]),
			Usage:      graphics.VertexElementUsage(f[2]),
			UsageIndex: f[3],
		}
	}
	return d, nil
}

func readVertexBuffer(r *Reader) (*graphics.VertexBuffer, error) {
	decl, err := readVertexDeclaration(r)
	if err != nil {
		return nil, err
	}
	count, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	size := int64(count) * int64(decl.Stride)
	if size > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: %d vertices of %d bytes", ErrTruncated, count, decl.Stride)
	}
	data, err := r.readOwned(int(size))
	if err != nil {
		return nil, err
	}
	return &graphics.VertexBuffer{Declaration: decl, VertexCount: int(count), Data: data}, nil
}

func readIndexBuffer(r *Reader) (*graphics.IndexBuffer, error) {
	sixteen, err := r.ReadBoolean()
	if err != nil {
		return nil, err
	}
	data, err := readSized(r)
	if err != nil {
		return nil, err
	}
	return &graphics.IndexBuffer{SixteenBit: sixteen, Data: data}, nil
}

func readModel(r *Reader) (*graphics.Model, error) {
	n, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	if int64(n) > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: %d bones", ErrCorrupt, n)
	}
	m := &graphics.Model{Bones: make([]*graphics.ModelBone, n)}
	for i := range m.Bones {
		name, err := readOptionalString(r)
		if err != nil {
			return nil, err
		}
		xf, err := r.ReadMatrix()
		if err != nil {
			return nil, err
		}
		m.Bones[i] = &graphics.ModelBone{Name: name, Index: i, Transform: xf}
	}

	// Bone references are one byte while the bone count fits.
	boneRef := func() (*graphics.ModelBone, error) {
		var idx uint32
		if len(m.Bones) < 255 {
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			idx = uint32(b)
		} else if idx, err = r.ReadUInt32(); err != nil {
			return nil, err
		}
		if idx == 0 {
			return nil, nil
		}
		if int(idx) > len(m.Bones) {
			return nil, fmt.Errorf("%w: bone reference %d of %d", ErrCorrupt, idx, len(m.Bones))
		}
		return m.Bones[idx-1], nil
	}

	for _, bone := range m.Bones {
		if bone.Parent, err = boneRef(); err != nil {
			return nil, err
		}
		children, err := r.ReadUInt32()
		if err != nil {
			return nil, err
		}
		if int64(children) > int64(r.Remaining()) {
			return nil, fmt.Errorf("%w: bone %q has %d children", ErrCorrupt, bone.Name, children)
		}
		for range children {
			c, err := boneRef()
			if err != nil {
				return nil, err
			}
			if c != nil {
				bone.Children = append(bone.Children, c)
			}
		}
	}

	meshes, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	if int64(meshes) > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: %d meshes", ErrCorrupt, meshes)
	}
	for range meshes {
		mesh := &graphics.ModelMesh{}
		if mesh.Name, err = readOptionalString(r); err != nil {
			return nil, err
		}
		if mesh.ParentBone, err = boneRef(); err != nil {
			return nil, err
		}
		if mesh.Bounds, err = readBoundingSphere(r); err != nil {
			return nil, err
		}
		if mesh.Tag, err = r.ReadObject(); err != nil {
			return nil, err
		}
		parts, err := r.ReadUInt32()
		if err != nil {
			return nil, err
		}
		if int64(parts) > int64(r.Remaining()) {
			return nil, fmt.Errorf("%w: mesh %q has %d parts", ErrCorrupt, mesh.Name, parts)
		}
		for range parts {
			part, err := readMeshPart(r)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: %w", mesh.Name, err)
			}
			mesh.Parts = append(mesh.Parts, part)
		}
		m.Meshes = append(m.Meshes, mesh)
	}

	if m.Root, err = boneRef(); err != nil {
		return nil, err
	}
	if m.Tag, err = r.ReadObject(); err != nil {
		return nil, err
	}
	return m, nil
}

func readMeshPart(r *Reader) (*graphics.ModelMeshPart, error) {
	p := &graphics.ModelMeshPart{}
	var f [4]uint32
	for i := range f {
		v, err := r.ReadUInt32()
		if err != nil {
			return nil, err
		}
		f[i] = v
	}
	p.VertexOffset, p.NumVertices, p.StartIndex, p.PrimitiveCount = int32(f[0]), int32(f[1]), int32(f[2]), int32(f[3])

	var err error
	if p.Tag, err = r.ReadObject(); err != nil {
		return nil, err
	}
	// Buffers and effects are shared between parts; they arrive after the
	// root object and are patched in place.
	if err := r.ReadSharedResource(func(v any) { p.VertexBuffer, _ = v.(*graphics.VertexBuffer) }); err != nil {
		return nil, err
	}
	if err := r.ReadSharedResource(func(v any) { p.IndexBuffer, _ = v.(*graphics.IndexBuffer) }); err != nil {
		return nil, err
	}
	if err := r.ReadSharedResource(func(v any) { p.Effect = v }); err != nil {
		return nil, err
	}
	return p, nil
}

func readOptionalString(r *Reader) (string, error) {
	v, err := r.ReadObject()
	if err != nil || v == nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrCorrupt, v)
	}
	return s, nil
}

func readSpriteFont(r *Reader) (*graphics.SpriteFont, error) {
	f := &graphics.SpriteFont{}
	tex, err := r.ReadObject()
	if err != nil {
		return nil, err
	}
	if tex != nil {
		t, ok := tex.(*graphics.Texture2D)
		if !ok {
			return nil, fmt.Errorf("%w: sprite font texture is %T", ErrCorrupt, tex)
		}
		f.Texture = t
	}
	lists := []struct {
		what string
		dst  *[]graphics.Rectangle
	}{
		{"glyphs", &f.Glyphs},
		{"cropping", &f.Cropping},
	}
	for _, l := range lists {
		v, err := r.ReadObject()
		if err != nil {
			return nil, err
		}
		if *l.dst, err = listOf[graphics.Rectangle](v, l.what); err != nil {
			return nil, err
		}
	}
	chars, err := r.ReadObject()
	if err != nil {
		return nil, err
	}
	if f.Characters, err = listOf[rune](chars, "character map"); err != nil {
		return nil, err
	}
	if f.LineSpacing, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if f.Spacing, err = r.ReadSingle(); err != nil {
		return nil, err
	}
	kerning, err := r.ReadObject()
	if err != nil {
		return nil, err
	}
	if f.Kerning, err = listOf[mgl32.Vec3](kerning, "kerning"); err != nil {
		return nil, err
	}
	has, err := r.ReadBoolean()
	if err != nil {
		return nil, err
	}
	if has {
		c, err := r.ReadChar()
		if err != nil {
			return nil, err
		}
		f.DefaultCharacter = &c
	}
	return f, nil
}

func readSoundEffect(r *Reader) (*graphics.SoundEffect, error) {
	format, err := readSized(r)
	if err != nil {
		return nil, err
	}
	s := &graphics.SoundEffect{}
	if s.Format, err = parseWaveFormat(format); err != nil {
		return nil, err
	}
	if s.Data, err = readSized(r); err != nil {
		return nil, err
	}
	for _, dst := range []*int32{&s.LoopStart, &s.LoopLength, &s.DurationMs} {
		if *dst, err = r.ReadInt32(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// parseWaveFormat decodes the fixed part of a WAVEFORMATEX block.
func parseWaveFormat(b []byte) (graphics.WaveFormat, error) {
	if len(b) < 16 {
		return graphics.WaveFormat{}, fmt.Errorf("%w: wave format of %d bytes", ErrCorrupt, len(b))
	}
	le := binary.LittleEndian
	return graphics.WaveFormat{
		FormatTag:      le.Uint16(b[0:]),
		Channels:       le.Uint16(b[2:]),
		SampleRate:     le.Uint32(b[4:]),
		AvgBytesPerSec: le.Uint32(b[8:]),
		BlockAlign:     le.Uint16(b[12:]),
		BitsPerSample:  le.Uint16(b[14:]),
	}, nil
}

func readEffect(r *Reader) (*effect.Effect, error) {
	code, err := readSized(r)
	if err != nil {
		return nil, err
	}
	return r.manager.newEffect(code)
}

// readEffectMaterial loads the referenced effect, clones it and applies
// the stored parameter values to the clone.
func readEffectMaterial(r *Reader) (*effect.Effect, error) {
	ref, err := r.ReadExternalReference()
	if err != nil {
		return nil, err
	}
	base, ok := ref.(*effect.Effect)
	if !ok {
		return nil, fmt.Errorf("%w: material effect is %T", ErrCorrupt, ref)
	}
	params, err := r.ReadObject()
	if err != nil {
		return nil, err
	}
	fx, err := base.Clone()
	if err != nil {
		return nil, err
	}
	values, _ := params.(map[any]any)
	for k, v := range values {
		name, _ := k.(string)
		p := fx.Parameters.ByName(name)
		if p == nil {
			continue
		}
		if err := setParameter(p, v); err != nil {
			return nil, fmt.Errorf("material parameter %q: %w", name, err)
		}
	}
	return fx, nil
}

func setParameter(p *effect.Parameter, v any) error {
	switch v := v.(type) {
	case bool:
		return p.SetBool(v)
	case int32:
		return p.SetInt32(v)
	case float32:
		return p.SetFloat32(v)
	case mgl32.Vec2:
		return p.SetVector2(v)
	case mgl32.Vec3:
		return p.SetVector3(v)
	case mgl32.Vec4:
		return p.SetVector4(v)
	case mgl32.Quat:
		return p.SetQuaternion(v)
	case mgl32.Mat4:
		return p.SetMatrix(v)
	case graphics.Texture:
		return p.SetTexture(v)
	case []any:
		floats, err := listOf[float32](v, p.Name)
		if err == nil {
			return p.SetFloat32Array(floats)
		}
		vecs, err := listOf[mgl32.Vec4](v, p.Name)
		if err == nil {
			return p.SetVector4Array(vecs)
		}
		mats, err := listOf[mgl32.Mat4](v, p.Name)
		if err != nil {
			return err
		}
		return p.SetMatrixArray(mats)
	case nil:
		return nil
	}
	return fmt.Errorf("%w: unsupported value %T", effect.ErrInvalidCast, v)
}
