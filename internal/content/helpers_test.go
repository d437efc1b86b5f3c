package content

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/samcharles93/xnacore/pkg/xnb"
)

// stream assembles an object stream the way the content pipeline writes
// one.
type stream struct {
	b []byte
}

func (s *stream) u8(v byte) *stream {
	s.b = append(s.b, v)
	return s
}

func (s *stream) bool(v bool) *stream {
	if v {
		return s.u8(1)
	}
	return s.u8(0)
}

func (s *stream) int7(v int) *stream {
	u := uint32(v)
	for u >= 0x80 {
		s.b = append(s.b, byte(u)|0x80)
		u >>= 7
	}
	s.b = append(s.b, byte(u))
	return s
}

func (s *stream) str(v string) *stream {
	s.int7(len(v))
	s.b = append(s.b, v...)
	return s
}

func (s *stream) u32(v uint32) *stream {
	s.b = binary.LittleEndian.AppendUint32(s.b, v)
	return s
}

func (s *stream) i32(v int32) *stream { return s.u32(uint32(v)) }

func (s *stream) f32(vs ...float32) *stream {
	for _, v := range vs {
		s.u32(math.Float32bits(v))
	}
	return s
}

func (s *stream) raw(b []byte) *stream {
	s.b = append(s.b, b...)
	return s
}

// sized writes a u32 length followed by b.
func (s *stream) sized(b []byte) *stream {
	return s.u32(uint32(len(b))).raw(b)
}

// header writes the type reader table and shared resource count.
func (s *stream) header(shared int, readers ...string) *stream {
	s.int7(len(readers))
	for _, r := range readers {
		s.str(r).i32(0)
	}
	return s.int7(shared)
}

func identity(s *stream) *stream {
	return s.f32(1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1)
}

// texture writes the body of a width x height Color texture with one level.
func texture(s *stream, width, height int, fill byte) *stream {
	level := make([]byte, width*height*4)
	for i := range level {
		level[i] = fill
	}
	return s.i32(0).u32(uint32(width)).u32(uint32(height)).u32(1).sized(level)
}

func container(t *testing.T, payload []byte, flags byte) []byte {
	t.Helper()
	data, err := xnb.Encode(xnb.Header{Platform: xnb.PlatformWindows, Version: xnb.VersionXNA40, Flags: flags}, payload)
	if err != nil {
		t.Fatalf("encode container: %v", err)
	}
	return data
}

func decode(t *testing.T, payload []byte) (any, error) {
	t.Helper()
	m := NewManager(nil, "", nil)
	return m.Decode("test", container(t, payload, 0))
}

func testHeader() xnb.Header {
	return xnb.Header{Platform: xnb.PlatformWindows, Version: xnb.VersionXNA40}
}

func legacyHeader() xnb.Header {
	return xnb.Header{Platform: xnb.PlatformWindows, Version: xnb.VersionXNA31}
}
