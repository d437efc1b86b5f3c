package fxbin

import (
	"encoding/binary"
	"fmt"
)

// cursor is a bounds-checked little-endian reader over an image. The first
// failed read sets err and all later reads return zero values.
type cursor struct {
	data []byte
	off  int
	err  error
}

func (c *cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.off+n > len(c.data) || c.off+n < c.off {
		c.err = fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrTruncated, n, c.off, len(c.data))
		return nil
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b
}

func (c *cursor) u32() uint32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (c *cursor) str() string {
	return string(c.take(int(c.u32())))
}

// count reads an element count and rejects counts that cannot possibly fit
// in the remaining bytes given a minimum per-element size.
func (c *cursor) count(minSize int) int {
	n := c.u32()
	if c.err != nil {
		return 0
	}
	if minSize > 0 && int64(n)*int64(minSize) > int64(len(c.data)-c.off) {
		c.err = fmt.Errorf("%w: count %d at offset %d exceeds remaining data", ErrTruncated, n, c.off-4)
		return 0
	}
	return int(n)
}

// DecodeImage parses an effect image without building the runtime state.
func DecodeImage(data []byte) (*Image, error) {
	c := &cursor{data: data}
	if string(c.take(4)) != Magic {
		if c.err != nil {
			return nil, c.err
		}
		return nil, ErrBadMagic
	}
	if v := c.u32(); c.err == nil && v != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}

	img := &Image{}
	for c.err == nil && c.off < len(c.data) {
		tag := c.u32()
		body := c.take(int(c.u32()))
		if c.err != nil {
			break
		}
		rc := &cursor{data: body}
		switch tag {
		case recordObjects:
			img.Objects = decodeObjects(rc)
		case recordParameters:
			n := rc.count(4)
			img.Params = make([]Param, 0, n)
			for i := 0; i < n && rc.err == nil; i++ {
				img.Params = append(img.Params, decodeParam(rc))
			}
		case recordTechniques:
			img.Techniques = decodeTechniques(rc)
		default:
			continue
		}
		if rc.err != nil {
			return nil, fmt.Errorf("record %d: %w", tag, rc.err)
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	if err := img.validate(); err != nil {
		return nil, err
	}
	return img, nil
}

func decodeObjects(c *cursor) []Object {
	n := c.count(4)
	objs := make([]Object, 0, n)
	for i := 0; i < n && c.err == nil; i++ {
		o := Object{Kind: ObjectKind(c.u32())}
		switch o.Kind {
		case ObjectNone:
		case ObjectString:
			o.String = c.str()
		case ObjectMapping:
			o.Mapping = c.str()
		case ObjectShader:
			s := &Shader{Stage: ShaderStage(c.u32())}
			ns := c.count(8)
			for j := 0; j < ns && c.err == nil; j++ {
				s.Samplers = append(s.Samplers, SamplerBinding{Register: c.u32(), Name: c.str()})
			}
			s.Bytecode = append([]byte(nil), c.take(int(c.u32()))...)
			o.Shader = s
		default:
			if c.err == nil {
				c.err = fmt.Errorf("%w: object %d has unknown kind %d", ErrBadReference, i, o.Kind)
			}
		}
		objs = append(objs, o)
	}
	return objs
}

func decodeTypeInfo(c *cursor, depth int) TypeInfo {
	t := TypeInfo{
		Class:    ParameterClass(c.u32()),
		Type:     ParameterType(c.u32()),
		Rows:     c.u32(),
		Columns:  c.u32(),
		Elements: c.u32(),
	}
	n := c.count(8)
	if n > 0 && depth > 8 && c.err == nil {
		c.err = fmt.Errorf("%w: struct nesting too deep", ErrTruncated)
		return t
	}
	for i := 0; i < n && c.err == nil; i++ {
		m := Member{Name: c.str(), Semantic: c.str()}
		m.TypeInfo = decodeTypeInfo(c, depth+1)
		t.Members = append(t.Members, m)
	}
	return t
}

func decodeAnnotations(c *cursor) []Param {
	n := c.count(4)
	if n == 0 {
		return nil
	}
	out := make([]Param, 0, n)
	for i := 0; i < n && c.err == nil; i++ {
		out = append(out, decodeParam(c))
	}
	return out
}

func decodeParam(c *cursor) Param {
	p := Param{Name: c.str(), Semantic: c.str()}
	p.TypeInfo = decodeTypeInfo(c, 0)
	p.Annotations = decodeAnnotations(c)
	if p.Type.IsSampler() {
		n := c.count(8)
		for i := 0; i < n && c.err == nil; i++ {
			p.SamplerStates = append(p.SamplerStates, SamplerState{Type: SamplerStateType(c.u32()), Value: c.u32()})
		}
		return p
	}
	n := c.count(4)
	raw := c.take(n * 4)
	if raw == nil {
		return p
	}
	p.Values = make([]uint32, n)
	for i := range p.Values {
		p.Values[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return p
}

func decodeTechniques(c *cursor) []Technique {
	n := c.count(4)
	out := make([]Technique, 0, n)
	for i := 0; i < n && c.err == nil; i++ {
		t := Technique{Name: c.str()}
		t.Annotations = decodeAnnotations(c)
		np := c.count(4)
		for j := 0; j < np && c.err == nil; j++ {
			p := Pass{Name: c.str()}
			p.Annotations = decodeAnnotations(c)
			ns := c.count(8)
			for k := 0; k < ns && c.err == nil; k++ {
				p.States = append(p.States, RenderState{Type: RenderStateType(c.u32()), Value: c.u32()})
			}
			t.Passes = append(t.Passes, p)
		}
		out = append(out, t)
	}
	return out
}

// validate checks slot counts and object references.
func (img *Image) validate() error {
	var check func(p *Param, where string) error
	check = func(p *Param, where string) error {
		if !p.Type.IsSampler() && len(p.Values) != p.SlotCount() {
			return fmt.Errorf("%w: %s %q has %d slots, type needs %d", ErrSlotCount, where, p.Name, len(p.Values), p.SlotCount())
		}
		for _, s := range p.SamplerStates {
			if s.Type == SSTexture {
				if err := img.checkObject(s.Value, ObjectMapping); err != nil {
					return fmt.Errorf("sampler %q: %w", p.Name, err)
				}
			}
		}
		if p.Type == TypeString {
			for _, v := range p.Values {
				if err := img.checkObject(v, ObjectString); err != nil {
					return fmt.Errorf("%s %q: %w", where, p.Name, err)
				}
			}
		}
		for i := range p.Annotations {
			if err := check(&p.Annotations[i], "annotation"); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range img.Params {
		if err := check(&img.Params[i], "parameter"); err != nil {
			return err
		}
	}
	for ti := range img.Techniques {
		t := &img.Techniques[ti]
		for i := range t.Annotations {
			if err := check(&t.Annotations[i], "annotation"); err != nil {
				return err
			}
		}
		for pi := range t.Passes {
			p := &t.Passes[pi]
			for i := range p.Annotations {
				if err := check(&p.Annotations[i], "annotation"); err != nil {
					return err
				}
			}
			for _, s := range p.States {
				if s.Type == RSVertexShader || s.Type == RSPixelShader {
					if err := img.checkObject(s.Value, ObjectShader); err != nil {
						return fmt.Errorf("pass %q: %w", p.Name, err)
					}
				}
			}
		}
	}
	return nil
}

func (img *Image) checkObject(index uint32, kind ObjectKind) error {
	if int(index) >= len(img.Objects) {
		return fmt.Errorf("%w: index %d of %d", ErrBadReference, index, len(img.Objects))
	}
	if got := img.Objects[index].Kind; got != kind {
		return fmt.Errorf("%w: object %d is %s, want %s", ErrBadReference, index, got, kind)
	}
	return nil
}
