// Package effect exposes a compiled effect image as parameters, techniques
// and passes, and applies a pass by diffing its declared states against the
// device.
package effect

import (
	"fmt"

	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/internal/logger"
	"github.com/samcharles93/xnacore/pkg/fxbin"
)

// Effect is a compiled shader bundle bound to one device. It is not safe
// for concurrent use, and its state pools are never shared with clones.
type Effect struct {
	Parameters Parameters
	Techniques Techniques

	device     *graphics.Device
	native     *fxbin.Effect
	current    *Technique
	samplerMap map[string]*Parameter
	log        logger.Logger
	closed     bool

	blendPool          statePool[graphics.BlendState]
	depthStencilPool   statePool[graphics.DepthStencilState]
	rasterizerPool     statePool[graphics.RasterizerState]
	samplerPools       [graphics.MaxTextureSlots]statePool[graphics.SamplerState]
	vertexSamplerPools [graphics.MaxVertexTextureSlots]statePool[graphics.SamplerState]
}

type Option func(*Effect)

func WithLogger(l logger.Logger) Option {
	return func(e *Effect) {
		if l != nil {
			e.log = l
		}
	}
}

// New decodes an effect image and builds its object model.
func New(device *graphics.Device, code []byte, opts ...Option) (*Effect, error) {
	native, err := fxbin.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("effect: decode image: %w", err)
	}
	return newEffect(device, native, opts...)
}

func newEffect(device *graphics.Device, native *fxbin.Effect, opts ...Option) (*Effect, error) {
	e := &Effect{
		device:     device,
		native:     native,
		samplerMap: make(map[string]*Parameter),
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.blendPool = newStatePool[graphics.BlendState]()
	e.depthStencilPool = newStatePool[graphics.DepthStencilState]()
	e.rasterizerPool = newStatePool[graphics.RasterizerState]()
	for i := range e.samplerPools {
		e.samplerPools[i] = newStatePool[graphics.SamplerState]()
	}
	for i := range e.vertexSamplerPools {
		e.vertexSamplerPools[i] = newStatePool[graphics.SamplerState]()
	}

	if err := e.parseParameters(); err != nil {
		return nil, err
	}
	if err := e.parseTechniques(); err != nil {
		return nil, err
	}
	if len(e.Techniques) > 0 {
		e.current = e.Techniques[0]
	}
	return e, nil
}

// parseParameters walks the native parameter table once. Shader parameters
// are skipped and samplers only populate the sampler map.
func (e *Effect) parseParameters() error {
	for i := range e.native.Params {
		np := &e.native.Params[i]
		switch {
		case np.Type.IsShader():
			continue
		case np.Type.IsSampler():
			if err := e.mapSampler(np); err != nil {
				return err
			}
			continue
		}
		p, err := e.newParameter(np.Name, np.Semantic, np.TypeInfo, np.Values)
		if err != nil {
			return err
		}
		if p.Annotations, err = e.parseAnnotations(np.Annotations); err != nil {
			return err
		}
		e.Parameters = append(e.Parameters, p)
	}
	return nil
}

// mapSampler links a sampler name to the texture parameter its TEXTURE
// state points at. The texture must already have been parsed.
func (e *Effect) mapSampler(np *fxbin.Param) error {
	for _, s := range np.SamplerStates {
		if s.Type != fxbin.SSTexture {
			continue
		}
		if int(s.Value) >= len(e.native.Objects) {
			return fmt.Errorf("effect: sampler %q: %w", np.Name, fxbin.ErrBadReference)
		}
		texName := e.native.Objects[s.Value].Mapping
		var tex *Parameter
		for _, p := range e.Parameters {
			if p.Name == texName {
				tex = p
				break
			}
		}
		if tex == nil {
			return fmt.Errorf("%w: sampler %q texture %q", ErrSamplerTextureMissing, np.Name, texName)
		}
		e.samplerMap[np.Name] = tex
		return nil
	}
	return nil
}

func (e *Effect) newValue(name string, t fxbin.TypeInfo, slots []uint32) value {
	return value{
		name:    name,
		class:   t.Class,
		typ:     t.Type,
		rows:    int(t.Rows),
		cols:    int(t.Columns),
		slots:   slots,
		objects: e.native.Objects,
	}
}

func convertType(name string, t fxbin.TypeInfo) (ParameterClass, ParameterType, error) {
	class, okc := classTable[t.Class]
	typ, okt := typeTable[t.Type]
	if !okc || !okt {
		return 0, 0, &UnhandledTypeError{Name: name, Class: t.Class, Type: t.Type}
	}
	return class, typ, nil
}

func (e *Effect) newParameter(name, semantic string, t fxbin.TypeInfo, slots []uint32) (*Parameter, error) {
	class, typ, err := convertType(name, t)
	if err != nil {
		return nil, err
	}
	p := &Parameter{
		Name:        name,
		Semantic:    semantic,
		Class:       class,
		Type:        typ,
		RowCount:    int(t.Rows),
		ColumnCount: int(t.Columns),
		value:       e.newValue(name, t, slots),
	}

	if t.Elements > 0 {
		elem := t
		elem.Elements = 0
		stride := elem.SlotCount()
		for i := 0; i < int(t.Elements); i++ {
			ep, err := e.newParameter("", "", elem, slots[i*stride:(i+1)*stride])
			if err != nil {
				return nil, err
			}
			p.Elements = append(p.Elements, ep)
		}
		return p, nil
	}

	if t.Class == fxbin.ClassStruct {
		off := 0
		for _, m := range t.Members {
			n := m.SlotCount()
			mp, err := e.newParameter(m.Name, m.Semantic, m.TypeInfo, slots[off:off+n])
			if err != nil {
				return nil, err
			}
			p.StructureMembers = append(p.StructureMembers, mp)
			off += n
		}
	}
	return p, nil
}

// parseAnnotations is shared by parameters, techniques and passes.
func (e *Effect) parseAnnotations(src []fxbin.Param) (Annotations, error) {
	if len(src) == 0 {
		return nil, nil
	}
	out := make(Annotations, 0, len(src))
	for i := range src {
		a := &src[i]
		class, typ, err := convertType(a.Name, a.TypeInfo)
		if err != nil {
			return nil, err
		}
		out = append(out, &Annotation{
			Name:        a.Name,
			Semantic:    a.Semantic,
			Class:       class,
			Type:        typ,
			RowCount:    int(a.Rows),
			ColumnCount: int(a.Columns),
			value:       e.newValue(a.Name, a.TypeInfo, a.Values),
		})
	}
	return out, nil
}

func (e *Effect) parseTechniques() error {
	for ti := range e.native.Techniques {
		nt := &e.native.Techniques[ti]
		t := &Technique{Name: nt.Name, index: ti, effect: e}
		var err error
		if t.Annotations, err = e.parseAnnotations(nt.Annotations); err != nil {
			return err
		}
		for pi := range nt.Passes {
			np := &nt.Passes[pi]
			p := &Pass{Name: np.Name, index: pi, technique: t}
			if p.Annotations, err = e.parseAnnotations(np.Annotations); err != nil {
				return err
			}
			t.Passes = append(t.Passes, p)
		}
		e.Techniques = append(e.Techniques, t)
	}
	return nil
}

// CurrentTechnique is the technique drawing code applies by default.
func (e *Effect) CurrentTechnique() *Technique { return e.current }

func (e *Effect) SetCurrentTechnique(t *Technique) error {
	if t == nil || t.effect != e {
		return ErrForeignTechnique
	}
	e.current = t
	return nil
}

// Device returns the device the effect applies state to.
func (e *Effect) Device() *graphics.Device { return e.device }

// SamplerTexture returns the texture parameter a sampler name resolves to.
func (e *Effect) SamplerTexture(sampler string) *Parameter { return e.samplerMap[sampler] }

// Clone returns an independent effect: its own native values, its own
// state pools, and the same texture bindings and current technique.
func (e *Effect) Clone() (*Effect, error) {
	if e.closed {
		return nil, ErrClosed
	}
	c, err := newEffect(e.device, e.native.Clone(), WithLogger(e.log))
	if err != nil {
		return nil, err
	}
	copyTextures(e.Parameters, c.Parameters)
	if e.current != nil {
		c.current = c.Techniques[e.current.index]
	}
	return c, nil
}

func copyTextures(src, dst Parameters) {
	for i := range src {
		if i >= len(dst) {
			return
		}
		dst[i].texture = src[i].texture
		copyTextures(src[i].Elements, dst[i].Elements)
		copyTextures(src[i].StructureMembers, dst[i].StructureMembers)
	}
}

// Close ends any pass the effect has in progress on the device. A closed
// effect cannot be applied or cloned.
func (e *Effect) Close() error {
	if e.closed {
		return nil
	}
	if e.device.EffectBinding().Native == e.native {
		e.native.EndPass()
		e.device.SetEffectBinding(graphics.EffectBinding{})
	}
	e.closed = true
	return nil
}

// Technique is a named group of passes.
type Technique struct {
	Name        string
	Passes      Passes
	Annotations Annotations

	index  int
	effect *Effect
}

type Techniques []*Technique

func (ts Techniques) ByName(name string) *Technique {
	for _, t := range ts {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Pass is one pass of a technique. Its index is what the native engine
// begins.
type Pass struct {
	Name        string
	Annotations Annotations

	index     int
	technique *Technique
}

// Apply binds the pass's declared states on the effect's device.
func (p *Pass) Apply() error {
	return p.technique.effect.applyPass(p.technique, p)
}

type Passes []*Pass

func (ps Passes) ByName(name string) *Pass {
	for _, p := range ps {
		if p.Name == name {
			return p
		}
	}
	return nil
}
