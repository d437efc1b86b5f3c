package fxbin

import "fmt"

// SamplerChanges are the sampler states a pass declares for one register.
type SamplerChanges struct {
	Register uint32
	Sampler  string
	States   []SamplerState
}

// StateChanges is what beginning or committing a pass asks the device to do.
type StateChanges struct {
	Render         []RenderState
	PixelSamplers  []SamplerChanges
	VertexSamplers []SamplerChanges
}

// Empty reports whether there is nothing to apply.
func (c *StateChanges) Empty() bool {
	return c == nil || len(c.Render) == 0 && len(c.PixelSamplers) == 0 && len(c.VertexSamplers) == 0
}

// Effect is a decoded image that owns its parameter values and tracks the
// pass currently in progress. Param.Values are views into one arena owned by
// the Effect. An Effect is not safe for concurrent use.
type Effect struct {
	Objects    []Object
	Params     []Param
	Techniques []Technique

	arena     []uint32
	samplers  map[string]*Param
	technique int
	pass      int
}

// Decode parses an effect image into a runnable Effect.
func Decode(data []byte) (*Effect, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return newEffect(img.Objects, img.Params, img.Techniques), nil
}

func newEffect(objects []Object, params []Param, techniques []Technique) *Effect {
	e := &Effect{
		Objects:    objects,
		Params:     params,
		Techniques: techniques,
		samplers:   make(map[string]*Param),
		technique:  -1,
		pass:       -1,
	}
	for i := range e.Params {
		if e.Params[i].Type.IsSampler() {
			e.samplers[e.Params[i].Name] = &e.Params[i]
		}
	}
	e.bindArena()
	return e
}

// walk visits every parameter and annotation in a fixed order.
func (e *Effect) walk(fn func(p *Param)) {
	var visit func(ps []Param)
	visit = func(ps []Param) {
		for i := range ps {
			fn(&ps[i])
			visit(ps[i].Annotations)
		}
	}
	visit(e.Params)
	for ti := range e.Techniques {
		t := &e.Techniques[ti]
		visit(t.Annotations)
		for pi := range t.Passes {
			visit(t.Passes[pi].Annotations)
		}
	}
}

// bindArena copies every value slice into one contiguous arena and
// repoints the params at it.
func (e *Effect) bindArena() {
	total := 0
	e.walk(func(p *Param) { total += len(p.Values) })
	e.arena = make([]uint32, total)
	off := 0
	e.walk(func(p *Param) {
		n := len(p.Values)
		if p.Values == nil {
			return
		}
		copy(e.arena[off:off+n], p.Values)
		p.Values = e.arena[off : off+n : off+n]
		off += n
	})
}

// Clone returns an independent copy with its own value arena and no pass in
// progress. Objects and sampler state lists are shared read-only.
func (e *Effect) Clone() *Effect {
	techniques := make([]Technique, len(e.Techniques))
	for i, t := range e.Techniques {
		t.Annotations = cloneParams(t.Annotations)
		passes := make([]Pass, len(t.Passes))
		for j, p := range t.Passes {
			p.Annotations = cloneParams(p.Annotations)
			passes[j] = p
		}
		t.Passes = passes
		techniques[i] = t
	}
	return newEffect(e.Objects, cloneParams(e.Params), techniques)
}

func cloneParams(ps []Param) []Param {
	if ps == nil {
		return nil
	}
	out := make([]Param, len(ps))
	for i, p := range ps {
		p.Annotations = cloneParams(p.Annotations)
		out[i] = p
	}
	return out
}

// ArenaSize is the number of value slots owned by the effect.
func (e *Effect) ArenaSize() int { return len(e.arena) }

// Param returns the named top-level parameter, or nil.
func (e *Effect) Param(name string) *Param {
	for i := range e.Params {
		if e.Params[i].Name == name {
			return &e.Params[i]
		}
	}
	return nil
}

// ActivePass reports the pass begun and not yet ended, if any.
func (e *Effect) ActivePass() (technique, pass int, ok bool) {
	return e.technique, e.pass, e.technique >= 0
}

// BeginPass starts a pass and returns every render and sampler state it
// declares. A pass already in progress is ended first.
func (e *Effect) BeginPass(technique, pass int) (*StateChanges, error) {
	if technique < 0 || technique >= len(e.Techniques) {
		return nil, fmt.Errorf("%w: technique %d", ErrNoSuchPass, technique)
	}
	t := &e.Techniques[technique]
	if pass < 0 || pass >= len(t.Passes) {
		return nil, fmt.Errorf("%w: technique %q pass %d", ErrNoSuchPass, t.Name, pass)
	}
	p := &t.Passes[pass]

	changes := &StateChanges{Render: append([]RenderState(nil), p.States...)}
	err := e.eachSampler(p, func(stage ShaderStage, b SamplerBinding, sp *Param) {
		sc := SamplerChanges{Register: b.Register, Sampler: b.Name, States: sp.SamplerStates}
		if stage == StageVertex {
			changes.VertexSamplers = append(changes.VertexSamplers, sc)
		} else {
			changes.PixelSamplers = append(changes.PixelSamplers, sc)
		}
	})
	if err != nil {
		return nil, err
	}
	e.technique, e.pass = technique, pass
	return changes, nil
}

// CommitChanges re-emits the texture bindings of the pass in progress so
// parameter changes made since BeginPass reach the device. Render states
// are not repeated.
func (e *Effect) CommitChanges() (*StateChanges, error) {
	if e.technique < 0 {
		return nil, ErrPassNotStarted
	}
	p := &e.Techniques[e.technique].Passes[e.pass]
	changes := &StateChanges{}
	err := e.eachSampler(p, func(stage ShaderStage, b SamplerBinding, sp *Param) {
		for _, s := range sp.SamplerStates {
			if s.Type != SSTexture {
				continue
			}
			sc := SamplerChanges{Register: b.Register, Sampler: b.Name, States: []SamplerState{s}}
			if stage == StageVertex {
				changes.VertexSamplers = append(changes.VertexSamplers, sc)
			} else {
				changes.PixelSamplers = append(changes.PixelSamplers, sc)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// EndPass ends the pass in progress. Ending with no pass is a no-op.
func (e *Effect) EndPass() {
	e.technique, e.pass = -1, -1
}

func (e *Effect) eachSampler(p *Pass, fn func(ShaderStage, SamplerBinding, *Param)) error {
	for _, s := range p.States {
		if s.Type != RSVertexShader && s.Type != RSPixelShader {
			continue
		}
		if int(s.Value) >= len(e.Objects) || e.Objects[s.Value].Shader == nil {
			return fmt.Errorf("%w: pass %q shader object %d", ErrBadReference, p.Name, s.Value)
		}
		sh := e.Objects[s.Value].Shader
		for _, b := range sh.Samplers {
			sp, ok := e.samplers[b.Name]
			if !ok {
				return fmt.Errorf("%w: pass %q binds unknown sampler %q", ErrBadReference, p.Name, b.Name)
			}
			fn(sh.Stage, b, sp)
		}
	}
	return nil
}
