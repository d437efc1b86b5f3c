// Package fxbin reads and writes compiled effect images and runs their pass
// state machine.
//
// An image is the magic "FXIM", a uint32 format version and a sequence of
// records. Each record is a uint32 tag, a uint32 body length and the body.
// Unknown tags are skipped. All integers are little-endian and strings are
// a uint32 byte length followed by UTF-8 bytes.
//
//	tag 1 objects:    count, then per object: kind, kind-specific body
//	tag 2 parameters: count, then per parameter: a parameter entry
//	tag 3 techniques: count, then per technique: name, annotations, passes
//
// A parameter entry is name, semantic, type info, annotations and either a
// sampler state list (sampler types) or a slot array. Numeric values are
// stored in four-slot registers, the layout the shader constant file uses.
package fxbin

import (
	"errors"
	"math"
)

const (
	Magic   = "FXIM"
	Version = 1

	recordObjects    uint32 = 1
	recordParameters uint32 = 2
	recordTechniques uint32 = 3
)

var (
	ErrBadMagic       = errors.New("fxbin: bad magic")
	ErrBadVersion     = errors.New("fxbin: unsupported version")
	ErrTruncated      = errors.New("fxbin: truncated image")
	ErrBadReference   = errors.New("fxbin: bad object reference")
	ErrSlotCount      = errors.New("fxbin: slot count mismatch")
	ErrNoSuchPass     = errors.New("fxbin: no such technique or pass")
	ErrPassNotStarted = errors.New("fxbin: no pass in progress")
)

// TypeInfo describes the shape of a parameter, annotation or struct member.
type TypeInfo struct {
	Class    ParameterClass
	Type     ParameterType
	Rows     uint32
	Columns  uint32
	Elements uint32
	Members  []Member
}

// Member is one field of a struct parameter.
type Member struct {
	Name     string
	Semantic string
	TypeInfo
}

// Param is a parameter or annotation. Values is nil for samplers, which
// carry SamplerStates instead.
type Param struct {
	Name     string
	Semantic string
	TypeInfo
	Annotations []Param

	Values        []uint32
	SamplerStates []SamplerState
}

type SamplerState struct {
	Type  SamplerStateType
	Value uint32
}

type RenderState struct {
	Type  RenderStateType
	Value uint32
}

type Pass struct {
	Name        string
	Annotations []Param
	States      []RenderState
}

type Technique struct {
	Name        string
	Annotations []Param
	Passes      []Pass
}

// SamplerBinding ties a shader sampler register to a sampler parameter.
type SamplerBinding struct {
	Register uint32
	Name     string
}

type Shader struct {
	Stage    ShaderStage
	Samplers []SamplerBinding
	Bytecode []byte
}

// Object is an entry of the object table. String holds the text of a
// string object and Mapping the texture parameter name of a mapping.
type Object struct {
	Kind    ObjectKind
	String  string
	Mapping string
	Shader  *Shader
}

// Image is the decoded content of an effect image.
type Image struct {
	Objects    []Object
	Params     []Param
	Techniques []Technique
}

// Registers is the number of four-slot registers one element of t occupies.
func (t TypeInfo) Registers() uint32 {
	switch t.Class {
	case ClassScalar, ClassVector:
		return 1
	case ClassMatrixRows:
		return t.Rows
	case ClassMatrixColumns:
		return t.Columns
	default:
		return 0
	}
}

// ElementSlots is the slot count of a single element.
func (t TypeInfo) ElementSlots() int {
	switch t.Class {
	case ClassScalar, ClassVector, ClassMatrixRows, ClassMatrixColumns:
		return int(t.Registers()) * 4
	case ClassObject:
		return 1
	case ClassStruct:
		n := 0
		for _, m := range t.Members {
			n += m.SlotCount()
		}
		return n
	default:
		return 0
	}
}

// SlotCount is the total slot count, all elements included.
func (t TypeInfo) SlotCount() int {
	n := t.ElementSlots()
	if t.Elements > 0 {
		n *= int(t.Elements)
	}
	return n
}

// PackFloats lays out row-major element values into padded registers.
// values holds Rows*Columns floats per element.
func PackFloats(t TypeInfo, values []float32) []uint32 {
	slots := make([]uint32, t.SlotCount())
	per := int(t.Rows * t.Columns)
	stride := t.ElementSlots()
	for e := 0; per > 0 && e*per < len(values); e++ {
		base := e * stride
		for r := 0; r < int(t.Rows); r++ {
			for c := 0; c < int(t.Columns); c++ {
				i := e*per + r*int(t.Columns) + c
				if i >= len(values) {
					return slots
				}
				slot := r*4 + c
				if t.Class == ClassMatrixColumns {
					slot = c*4 + r
				}
				if base+slot < len(slots) {
					slots[base+slot] = math.Float32bits(values[i])
				}
			}
		}
	}
	return slots
}

// Float is a convenience constructor for a float parameter or annotation.
func Float(name string, class ParameterClass, rows, cols uint32, values ...float32) Param {
	t := TypeInfo{Class: class, Type: TypeFloat, Rows: rows, Columns: cols}
	return Param{Name: name, TypeInfo: t, Values: PackFloats(t, values)}
}
