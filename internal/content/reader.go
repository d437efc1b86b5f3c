package content

import (
	"encoding/binary"
	"fmt"
	"math"
	"path"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/pkg/xnb"
)

// Reader walks the decompressed payload of one asset. It resolves the
// type reader table, reads the root object and then the shared resource
// section, patching every recorded reference.
type Reader struct {
	asset   string
	header  xnb.Header
	manager *Manager
	types   *TypeReaders

	buf []byte
	off int

	readers []TypeReader
	shared  [][]func(any)
}

func newReader(m *Manager, types *TypeReaders, asset string, h xnb.Header, payload []byte) *Reader {
	return &Reader{asset: asset, header: h, manager: m, types: types, buf: payload}
}

// AssetName is the normalized name of the asset being read.
func (r *Reader) AssetName() string { return r.asset }

// Version is the container version, which decides some legacy layouts.
func (r *Reader) Version() uint8 { return r.header.Version }

func (r *Reader) Manager() *Manager { return r.manager }

// Remaining is the number of unread payload bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// ReadAsset reads the type reader table, the root object and the shared
// resources.
func (r *Reader) ReadAsset() (any, error) {
	if err := r.readTypeReaders(); err != nil {
		return nil, err
	}
	n, err := r.Read7BitEncodedInt()
	if err != nil {
		return nil, err
	}
	if n < 0 || n > r.Remaining() {
		return nil, fmt.Errorf("%w: %d shared resources", ErrCorrupt, n)
	}
	r.shared = make([][]func(any), n)

	root, err := r.ReadObject()
	if err != nil {
		return nil, err
	}
	// Shared resources may reference each other in any order, so every
	// fixup waits until the whole section has been read.
	objs := make([]any, n)
	for i := range objs {
		if objs[i], err = r.ReadObject(); err != nil {
			return nil, fmt.Errorf("shared resource %d: %w", i+1, err)
		}
	}
	for i, fixups := range r.shared {
		for _, fix := range fixups {
			fix(objs[i])
		}
	}
	r.shared = nil
	return root, nil
}

func (r *Reader) readTypeReaders() error {
	n, err := r.Read7BitEncodedInt()
	if err != nil {
		return err
	}
	if n < 0 || n > r.Remaining() {
		return fmt.Errorf("%w: %d type readers", ErrCorrupt, n)
	}
	r.readers = make([]TypeReader, n)
	for i := range r.readers {
		name, err := r.ReadString()
		if err != nil {
			return err
		}
		if _, err := r.ReadInt32(); err != nil {
			return err
		}
		if r.readers[i], err = r.types.Resolve(name); err != nil {
			return err
		}
	}
	return nil
}

// ReadObject reads a type reader index and, unless it is zero (null),
// the object that reader produces.
func (r *Reader) ReadObject() (any, error) {
	idx, err := r.Read7BitEncodedInt()
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, nil
	}
	if idx < 0 || idx > len(r.readers) {
		return nil, fmt.Errorf("%w: %d of %d", ErrBadReaderIndex, idx, len(r.readers))
	}
	return r.readers[idx-1].Read(r, nil)
}

// ReadRawObject runs tr directly, without a type reader index in front.
func (r *Reader) ReadRawObject(tr TypeReader, existing any) (any, error) {
	return tr.Read(r, existing)
}

// ReadElement reads a value the way collections store it: value types are
// stored raw and everything else as a full object.
func (r *Reader) ReadElement(tr TypeReader) (any, error) {
	if tr.ValueType() {
		return tr.Read(r, nil)
	}
	return r.ReadObject()
}

// ReadSharedResource records fixup to run with the shared resource the
// next index names, once the shared section has been read. Index zero is
// a null reference and fixup is never called.
func (r *Reader) ReadSharedResource(fixup func(any)) error {
	idx, err := r.Read7BitEncodedInt()
	if err != nil {
		return err
	}
	if idx == 0 {
		return nil
	}
	if idx < 0 || idx > len(r.shared) {
		return fmt.Errorf("%w: %d of %d", ErrSharedResourceRange, idx, len(r.shared))
	}
	r.shared[idx-1] = append(r.shared[idx-1], fixup)
	return nil
}

// ReadExternalReference loads the asset named relative to this one. An
// empty name is a null reference.
func (r *Reader) ReadExternalReference() (any, error) {
	name, err := r.ReadString()
	if err != nil || name == "" {
		return nil, err
	}
	if r.manager == nil {
		return nil, fmt.Errorf("content: external reference %q without a manager", name)
	}
	return r.manager.Load(path.Join(path.Dir(r.asset), name))
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrTruncated, n, r.off, r.Remaining())
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

// readOwned copies the bytes out so the result outlives the payload.
func (r *Reader) readOwned(n int) ([]byte, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadSByte() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

func (r *Reader) ReadBoolean() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

func (r *Reader) ReadUInt16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUInt16()
	return int16(v), err
}

func (r *Reader) ReadUInt32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUInt32()
	return int32(v), err
}

func (r *Reader) ReadUInt64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUInt64()
	return int64(v), err
}

func (r *Reader) ReadSingle() (float32, error) {
	v, err := r.ReadUInt32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadDouble() (float64, error) {
	v, err := r.ReadUInt64()
	return math.Float64frombits(v), err
}

// Read7BitEncodedInt reads a little-endian base-128 int32.
func (r *Reader) Read7BitEncodedInt() (int, error) {
	var v uint32
	for shift := 0; shift < 35; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return int(int32(v)), nil
		}
	}
	return 0, fmt.Errorf("%w: 7-bit integer longer than 5 bytes at %d", ErrCorrupt, r.off)
}

// ReadString reads a 7-bit length prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.Read7BitEncodedInt()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadChar reads one UTF-8 encoded character.
func (r *Reader) ReadChar() (rune, error) {
	b0, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	n := 1
	switch {
	case b0 < 0x80:
		return rune(b0), nil
	case b0>>5 == 0x6:
		n = 2
	case b0>>4 == 0xE:
		n = 3
	case b0>>3 == 0x1E:
		n = 4
	}
	rest, err := r.ReadBytes(n - 1)
	if err != nil {
		return 0, err
	}
	c, size := utf8.DecodeRune(append([]byte{b0}, rest...))
	if c == utf8.RuneError && size <= 1 {
		return 0, fmt.Errorf("%w: invalid UTF-8 character at %d", ErrCorrupt, r.off-n)
	}
	return c, nil
}

func (r *Reader) readFloats(dst []float32) error {
	for i := range dst {
		v, err := r.ReadSingle()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func (r *Reader) ReadVector2() (mgl32.Vec2, error) {
	var v mgl32.Vec2
	err := r.readFloats(v[:])
	return v, err
}

func (r *Reader) ReadVector3() (mgl32.Vec3, error) {
	var v mgl32.Vec3
	err := r.readFloats(v[:])
	return v, err
}

func (r *Reader) ReadVector4() (mgl32.Vec4, error) {
	var v mgl32.Vec4
	err := r.readFloats(v[:])
	return v, err
}

// ReadQuaternion reads x, y, z, w.
func (r *Reader) ReadQuaternion() (mgl32.Quat, error) {
	var f [4]float32
	if err := r.readFloats(f[:]); err != nil {
		return mgl32.Quat{}, err
	}
	return mgl32.Quat{W: f[3], V: mgl32.Vec3{f[0], f[1], f[2]}}, nil
}

// ReadMatrix reads sixteen floats in row order (M11, M12, ... M44).
func (r *Reader) ReadMatrix() (mgl32.Mat4, error) {
	var f [16]float32
	var m mgl32.Mat4
	if err := r.readFloats(f[:]); err != nil {
		return m, err
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m.Set(row, col, f[row*4+col])
		}
	}
	return m, nil
}

func (r *Reader) ReadColor() (graphics.Color, error) {
	v, err := r.ReadUInt32()
	return graphics.ColorFromPacked(v), err
}
