package effect

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/pkg/fxbin"
)

type ParameterClass int

const (
	ClassScalar ParameterClass = iota
	ClassVector
	ClassMatrix
	ClassObject
	ClassStruct
)

func (c ParameterClass) String() string {
	switch c {
	case ClassScalar:
		return "Scalar"
	case ClassVector:
		return "Vector"
	case ClassMatrix:
		return "Matrix"
	case ClassObject:
		return "Object"
	case ClassStruct:
		return "Struct"
	default:
		return fmt.Sprintf("ParameterClass(%d)", int(c))
	}
}

type ParameterType int

const (
	TypeVoid ParameterType = iota
	TypeBool
	TypeInt32
	TypeSingle
	TypeString
	TypeTexture
	TypeTexture1D
	TypeTexture2D
	TypeTexture3D
	TypeTextureCube
)

var parameterTypeNames = []string{
	"Void", "Bool", "Int32", "Single", "String", "Texture", "Texture1D", "Texture2D", "Texture3D", "TextureCube",
}

func (t ParameterType) String() string {
	if int(t) >= 0 && int(t) < len(parameterTypeNames) {
		return parameterTypeNames[t]
	}
	return fmt.Sprintf("ParameterType(%d)", int(t))
}

func (t ParameterType) isTexture() bool { return t >= TypeTexture && t <= TypeTextureCube }

// value is a typed view over a run of native value slots. The slots belong
// to the native effect.
type value struct {
	name    string
	class   fxbin.ParameterClass
	typ     fxbin.ParameterType
	rows    int
	cols    int
	slots   []uint32
	objects []fxbin.Object
}

func (v *value) castError(want string) error {
	return fmt.Errorf("%w: %q is %s %s, not %s", ErrInvalidCast, v.name, v.class, v.typ, want)
}

func (v *value) numeric() bool {
	switch v.class {
	case fxbin.ClassScalar, fxbin.ClassVector, fxbin.ClassMatrixRows, fxbin.ClassMatrixColumns:
	default:
		return false
	}
	return v.typ == fxbin.TypeBool || v.typ == fxbin.TypeInt || v.typ == fxbin.TypeFloat
}

func (v *value) slot0(want string) (uint32, error) {
	if !v.numeric() || len(v.slots) == 0 {
		return 0, v.castError(want)
	}
	return v.slots[0], nil
}

func (v *value) Bool() (bool, error) {
	s, err := v.slot0("bool")
	if err != nil {
		return false, err
	}
	if v.typ == fxbin.TypeFloat {
		return math.Float32frombits(s) != 0, nil
	}
	return s != 0, nil
}

func (v *value) Int32() (int32, error) {
	s, err := v.slot0("int32")
	if err != nil {
		return 0, err
	}
	if v.typ == fxbin.TypeFloat {
		return int32(math.Float32frombits(s)), nil
	}
	return int32(s), nil
}

func (v *value) Float32() (float32, error) {
	s, err := v.slot0("single")
	if err != nil {
		return 0, err
	}
	if v.typ == fxbin.TypeFloat {
		return math.Float32frombits(s), nil
	}
	return float32(int32(s)), nil
}

func (v *value) floats(n int, want string) ([]float32, error) {
	if v.typ != fxbin.TypeFloat || !v.numeric() || v.rows*v.cols < n || len(v.slots) < n {
		return nil, v.castError(want)
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(v.slots[i])
	}
	return out, nil
}

func (v *value) Vector2() (mgl32.Vec2, error) {
	f, err := v.floats(2, "vector2")
	if err != nil {
		return mgl32.Vec2{}, err
	}
	return mgl32.Vec2{f[0], f[1]}, nil
}

func (v *value) Vector3() (mgl32.Vec3, error) {
	f, err := v.floats(3, "vector3")
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{f[0], f[1], f[2]}, nil
}

func (v *value) Vector4() (mgl32.Vec4, error) {
	f, err := v.floats(4, "vector4")
	if err != nil {
		return mgl32.Vec4{}, err
	}
	return mgl32.Vec4{f[0], f[1], f[2], f[3]}, nil
}

// Quaternion reads a float4 as (x, y, z, w).
func (v *value) Quaternion() (mgl32.Quat, error) {
	f, err := v.floats(4, "quaternion")
	if err != nil {
		return mgl32.Quat{}, err
	}
	return mgl32.Quat{W: f[3], V: mgl32.Vec3{f[0], f[1], f[2]}}, nil
}

// slotIndex is where element (r, c) of a matrix lives.
func (v *value) slotIndex(r, c int) int {
	if v.class == fxbin.ClassMatrixColumns {
		return c*4 + r
	}
	return r*4 + c
}

// Matrix reads a matrix parameter. Element (r, c) of the result is row r,
// column c of the declared matrix; missing rows and columns are zero.
func (v *value) Matrix() (mgl32.Mat4, error) {
	var m mgl32.Mat4
	if v.typ != fxbin.TypeFloat || (v.class != fxbin.ClassMatrixRows && v.class != fxbin.ClassMatrixColumns) {
		return m, v.castError("matrix")
	}
	for r := 0; r < v.rows && r < 4; r++ {
		for c := 0; c < v.cols && c < 4; c++ {
			if i := v.slotIndex(r, c); i < len(v.slots) {
				m.Set(r, c, math.Float32frombits(v.slots[i]))
			}
		}
	}
	return m, nil
}

func (v *value) StringValue() (string, error) {
	if v.typ != fxbin.TypeString || len(v.slots) == 0 {
		return "", v.castError("string")
	}
	idx := v.slots[0]
	if int(idx) >= len(v.objects) {
		return "", fmt.Errorf("%w: %q string object %d", ErrInvalidCast, v.name, idx)
	}
	return v.objects[idx].String, nil
}

func (v *value) setFloats(want string, f ...float32) error {
	if v.typ != fxbin.TypeFloat || !v.numeric() || v.rows*v.cols < len(f) || len(v.slots) < len(f) {
		return v.castError(want)
	}
	for i, x := range f {
		v.slots[i] = math.Float32bits(x)
	}
	return nil
}

// Parameter is one user-visible effect parameter. Array parameters expose
// their elements through Elements and struct parameters their fields
// through StructureMembers; both are views onto the same native values.
type Parameter struct {
	Name             string
	Semantic         string
	Class            ParameterClass
	Type             ParameterType
	RowCount         int
	ColumnCount      int
	Elements         Parameters
	StructureMembers Parameters
	Annotations      Annotations

	value
	texture graphics.Texture
}

func (p *Parameter) SetBool(b bool) error {
	if !p.numeric() || len(p.slots) == 0 {
		return p.castError("bool")
	}
	var s uint32
	if b {
		s = 1
		if p.typ == fxbin.TypeFloat {
			s = math.Float32bits(1)
		}
	}
	p.slots[0] = s
	return nil
}

func (p *Parameter) SetInt32(i int32) error {
	if !p.numeric() || len(p.slots) == 0 {
		return p.castError("int32")
	}
	if p.typ == fxbin.TypeFloat {
		p.slots[0] = math.Float32bits(float32(i))
	} else {
		p.slots[0] = uint32(i)
	}
	return nil
}

func (p *Parameter) SetFloat32(f float32) error {
	if !p.numeric() || len(p.slots) == 0 {
		return p.castError("single")
	}
	if p.typ == fxbin.TypeFloat {
		p.slots[0] = math.Float32bits(f)
	} else {
		p.slots[0] = uint32(int32(f))
	}
	return nil
}

func (p *Parameter) SetVector2(v mgl32.Vec2) error { return p.setFloats("vector2", v[:]...) }
func (p *Parameter) SetVector3(v mgl32.Vec3) error { return p.setFloats("vector3", v[:]...) }
func (p *Parameter) SetVector4(v mgl32.Vec4) error { return p.setFloats("vector4", v[:]...) }

func (p *Parameter) SetQuaternion(q mgl32.Quat) error {
	return p.setFloats("quaternion", q.V[0], q.V[1], q.V[2], q.W)
}

// SetMatrix writes the declared rows and columns of m.
func (p *Parameter) SetMatrix(m mgl32.Mat4) error {
	if p.typ != fxbin.TypeFloat || (p.class != fxbin.ClassMatrixRows && p.class != fxbin.ClassMatrixColumns) {
		return p.castError("matrix")
	}
	for r := 0; r < p.rows && r < 4; r++ {
		for c := 0; c < p.cols && c < 4; c++ {
			if i := p.slotIndex(r, c); i < len(p.slots) {
				p.slots[i] = math.Float32bits(m.At(r, c))
			}
		}
	}
	return nil
}

func (p *Parameter) SetMatrixTranspose(m mgl32.Mat4) error { return p.SetMatrix(m.Transpose()) }

// Texture returns the texture bound to a texture parameter.
func (p *Parameter) Texture() (graphics.Texture, error) {
	if !p.Type.isTexture() {
		return nil, p.castError("texture")
	}
	return p.texture, nil
}

func (p *Parameter) SetTexture(t graphics.Texture) error {
	if !p.Type.isTexture() {
		return p.castError("texture")
	}
	p.texture = t
	return nil
}

func (p *Parameter) arrayElements(n int, want string) (Parameters, error) {
	if len(p.Elements) == 0 {
		return nil, p.castError(want + " array")
	}
	if n < 0 || n > len(p.Elements) {
		n = len(p.Elements)
	}
	return p.Elements[:n], nil
}

// Float32Array reads the first n elements; n < 0 reads all.
func (p *Parameter) Float32Array(n int) ([]float32, error) {
	elems, err := p.arrayElements(n, "single")
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(elems))
	for i, e := range elems {
		if out[i], err = e.Float32(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *Parameter) SetFloat32Array(vals []float32) error {
	elems, err := p.arrayElements(len(vals), "single")
	if err != nil {
		return err
	}
	for i, e := range elems {
		if err := e.SetFloat32(vals[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parameter) Vector4Array(n int) ([]mgl32.Vec4, error) {
	elems, err := p.arrayElements(n, "vector4")
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Vec4, len(elems))
	for i, e := range elems {
		if out[i], err = e.Vector4(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *Parameter) SetVector4Array(vals []mgl32.Vec4) error {
	elems, err := p.arrayElements(len(vals), "vector4")
	if err != nil {
		return err
	}
	for i, e := range elems {
		if err := e.SetVector4(vals[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parameter) MatrixArray(n int) ([]mgl32.Mat4, error) {
	elems, err := p.arrayElements(n, "matrix")
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Mat4, len(elems))
	for i, e := range elems {
		if out[i], err = e.Matrix(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetMatrixArray writes len(ms) matrices, as skinning palettes do.
func (p *Parameter) SetMatrixArray(ms []mgl32.Mat4) error {
	elems, err := p.arrayElements(len(ms), "matrix")
	if err != nil {
		return err
	}
	for i, e := range elems {
		if err := e.SetMatrix(ms[i]); err != nil {
			return err
		}
	}
	return nil
}

// Parameters is an ordered parameter collection.
type Parameters []*Parameter

// ByName returns the first parameter named name, or nil.
func (ps Parameters) ByName(name string) *Parameter {
	for _, p := range ps {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (ps Parameters) BySemantic(semantic string) *Parameter {
	for _, p := range ps {
		if p.Semantic == semantic {
			return p
		}
	}
	return nil
}

// Annotation is a read-only typed key/value attached to a parameter,
// technique or pass.
type Annotation struct {
	Name        string
	Semantic    string
	Class       ParameterClass
	Type        ParameterType
	RowCount    int
	ColumnCount int

	value
}

type Annotations []*Annotation

func (as Annotations) ByName(name string) *Annotation {
	for _, a := range as {
		if a.Name == name {
			return a
		}
	}
	return nil
}
