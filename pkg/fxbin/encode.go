package fxbin

import "encoding/binary"

type encoder struct {
	buf []byte
}

func (e *encoder) u32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) record(tag uint32, body func(*encoder)) {
	sub := &encoder{}
	body(sub)
	e.u32(tag)
	e.u32(uint32(len(sub.buf)))
	e.buf = append(e.buf, sub.buf...)
}

// Encode serializes img. The result decodes back to an equivalent image.
func Encode(img *Image) ([]byte, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	e := &encoder{}
	e.buf = append(e.buf, Magic...)
	e.u32(Version)

	e.record(recordObjects, func(e *encoder) {
		e.u32(uint32(len(img.Objects)))
		for _, o := range img.Objects {
			e.u32(uint32(o.Kind))
			switch o.Kind {
			case ObjectString:
				e.str(o.String)
			case ObjectMapping:
				e.str(o.Mapping)
			case ObjectShader:
				s := o.Shader
				if s == nil {
					s = &Shader{}
				}
				e.u32(uint32(s.Stage))
				e.u32(uint32(len(s.Samplers)))
				for _, b := range s.Samplers {
					e.u32(b.Register)
					e.str(b.Name)
				}
				e.u32(uint32(len(s.Bytecode)))
				e.buf = append(e.buf, s.Bytecode...)
			}
		}
	})
	e.record(recordParameters, func(e *encoder) {
		e.u32(uint32(len(img.Params)))
		for i := range img.Params {
			e.param(&img.Params[i])
		}
	})
	e.record(recordTechniques, func(e *encoder) {
		e.u32(uint32(len(img.Techniques)))
		for _, t := range img.Techniques {
			e.str(t.Name)
			e.annotations(t.Annotations)
			e.u32(uint32(len(t.Passes)))
			for _, p := range t.Passes {
				e.str(p.Name)
				e.annotations(p.Annotations)
				e.u32(uint32(len(p.States)))
				for _, s := range p.States {
					e.u32(uint32(s.Type))
					e.u32(s.Value)
				}
			}
		}
	})
	return e.buf, nil
}

func (e *encoder) typeInfo(t TypeInfo) {
	e.u32(uint32(t.Class))
	e.u32(uint32(t.Type))
	e.u32(t.Rows)
	e.u32(t.Columns)
	e.u32(t.Elements)
	e.u32(uint32(len(t.Members)))
	for _, m := range t.Members {
		e.str(m.Name)
		e.str(m.Semantic)
		e.typeInfo(m.TypeInfo)
	}
}

func (e *encoder) annotations(as []Param) {
	e.u32(uint32(len(as)))
	for i := range as {
		e.param(&as[i])
	}
}

func (e *encoder) param(p *Param) {
	e.str(p.Name)
	e.str(p.Semantic)
	e.typeInfo(p.TypeInfo)
	e.annotations(p.Annotations)
	if p.Type.IsSampler() {
		e.u32(uint32(len(p.SamplerStates)))
		for _, s := range p.SamplerStates {
			e.u32(uint32(s.Type))
			e.u32(s.Value)
		}
		return
	}
	e.u32(uint32(len(p.Values)))
	for _, v := range p.Values {
		e.u32(v)
	}
}
