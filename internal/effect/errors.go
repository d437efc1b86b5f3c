package effect

import (
	"errors"
	"fmt"

	"github.com/samcharles93/xnacore/pkg/fxbin"
)

var (
	ErrUnhandledState        = errors.New("effect: unhandled state")
	ErrUnhandledType         = errors.New("effect: unhandled parameter type")
	ErrInvalidCast           = errors.New("effect: invalid parameter cast")
	ErrSamplerTextureMissing = errors.New("effect: sampler declared before its texture")
	ErrForeignTechnique      = errors.New("effect: technique belongs to another effect")
	ErrClosed                = errors.New("effect: closed")
)

// UnhandledTypeError reports a parameter, annotation or member whose class
// or type the runtime has no mapping for.
type UnhandledTypeError struct {
	Name  string
	Class fxbin.ParameterClass
	Type  fxbin.ParameterType
}

func (e *UnhandledTypeError) Error() string {
	return fmt.Sprintf("effect: %q has unhandled class %s type %s", e.Name, e.Class, e.Type)
}

func (e *UnhandledTypeError) Unwrap() error { return ErrUnhandledType }

// UnhandledRenderStateError reports a render state tag, or a value for a
// known tag, that Apply cannot translate.
type UnhandledRenderStateError struct {
	Pass  string
	State fxbin.RenderStateType
	Value uint32
}

func (e *UnhandledRenderStateError) Error() string {
	return fmt.Sprintf("effect: pass %q: unhandled render state %s = %d", e.Pass, e.State, e.Value)
}

func (e *UnhandledRenderStateError) Unwrap() error { return ErrUnhandledState }

type UnhandledSamplerStateError struct {
	Register int
	Sampler  string
	State    fxbin.SamplerStateType
	Value    uint32
}

func (e *UnhandledSamplerStateError) Error() string {
	return fmt.Sprintf("effect: sampler %q register %d: unhandled sampler state %s = %d", e.Sampler, e.Register, e.State, e.Value)
}

func (e *UnhandledSamplerStateError) Unwrap() error { return ErrUnhandledState }

// UnhandledFilterError reports a min/mag/mip combination with no combined
// texture filter.
type UnhandledFilterError struct {
	Mag, Min, Mip fxbin.TextureFilterType
}

func (e *UnhandledFilterError) Error() string {
	return fmt.Sprintf("effect: unhandled filter combination mag=%s min=%s mip=%s", e.Mag, e.Min, e.Mip)
}

func (e *UnhandledFilterError) Unwrap() error { return ErrUnhandledState }
