package content

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/samcharles93/xnacore/internal/graphics"
)

const (
	listOfInt32 = "Microsoft.Xna.Framework.Content.ListReader`1[[System.Int32, mscorlib, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089]]"
	texReader   = "Microsoft.Xna.Framework.Content.Texture2DReader, Microsoft.Xna.Framework.Graphics, Version=4.0.0.0, Culture=neutral, PublicKeyToken=842cf8be1de50553"
	stringRdr   = "Microsoft.Xna.Framework.Content.StringReader"
	int32Rdr    = "Microsoft.Xna.Framework.Content.Int32Reader"
)

func TestParseTypeName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		short string
		args  []string
		array bool
	}{
		{in: listOfInt32, short: "ListReader`1", args: []string{"System.Int32"}},
		{in: texReader, short: "Texture2DReader"},
		{
			in:    "Microsoft.Xna.Framework.Content.DictionaryReader`2[[System.String, mscorlib],[System.Object, mscorlib]]",
			short: "DictionaryReader`2",
			args:  []string{"System.String", "System.Object"},
		},
		{
			in:    "Microsoft.Xna.Framework.Content.ListReader`1[[System.Collections.Generic.List`1[[System.Single, mscorlib]], mscorlib]]",
			short: "ListReader`1",
			args:  []string{"System.Collections.Generic.List`1[[System.Single]]"},
		},
		{in: "System.Int32[]", short: "Int32", array: true},
		{in: "Game.Outer+Inner", short: "Inner"},
	}
	for _, tc := range cases {
		tn, err := ParseTypeName(tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if tn.Short() != tc.short || tn.Array != tc.array {
			t.Fatalf("%s: got short %q array %v", tc.in, tn.Short(), tn.Array)
		}
		if len(tn.Args) != len(tc.args) {
			t.Fatalf("%s: got %d args want %d", tc.in, len(tn.Args), len(tc.args))
		}
		for i, a := range tc.args {
			if got := tn.Args[i].String(); got != a {
				t.Fatalf("%s: arg %d: got %q want %q", tc.in, i, got, a)
			}
		}
	}

	for _, bad := range []string{"", "ListReader`1[[System.Int32]", "DictionaryReader`2[[System.String]]", "A[[B]]x"} {
		if _, err := ParseTypeName(bad); !errors.Is(err, ErrBadTypeName) {
			t.Fatalf("%q: expected ErrBadTypeName, got %v", bad, err)
		}
	}
}

func TestReaderPrimitives(t *testing.T) {
	t.Parallel()

	s := &stream{}
	for _, v := range []int{0, 127, 128, 300, 1 << 28} {
		s.int7(v)
	}
	s.str("héllo").raw([]byte("é€A")).bool(true)
	r := newReader(nil, DefaultTypeReaders(), "t", testHeader(), s.b)

	for _, want := range []int{0, 127, 128, 300, 1 << 28} {
		got, err := r.Read7BitEncodedInt()
		if err != nil || got != want {
			t.Fatalf("7-bit int: got %d, %v want %d", got, err, want)
		}
	}
	if got, err := r.ReadString(); err != nil || got != "héllo" {
		t.Fatalf("string: got %q, %v", got, err)
	}
	for _, want := range []rune{'é', '€', 'A'} {
		if got, err := r.ReadChar(); err != nil || got != want {
			t.Fatalf("char: got %q, %v want %q", got, err, want)
		}
	}
	if b, err := r.ReadBoolean(); err != nil || !b {
		t.Fatalf("bool: got %v, %v", b, err)
	}
	if _, err := r.ReadInt32(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated at end, got %v", err)
	}

	long := newReader(nil, nil, "t", testHeader(), []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01})
	if _, err := long.Read7BitEncodedInt(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for overlong 7-bit int, got %v", err)
	}
}

func TestReadMatrixIsRowOrder(t *testing.T) {
	t.Parallel()

	s := (&stream{}).f32(1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5, 6, 7, 1)
	r := newReader(nil, nil, "t", testHeader(), s.b)
	m, err := r.ReadMatrix()
	if err != nil {
		t.Fatalf("read matrix: %v", err)
	}
	// The fourth row holds the translation, so M41 is row 3 column 0.
	if m.At(3, 0) != 5 || m.At(3, 1) != 6 || m.At(3, 2) != 7 {
		t.Fatalf("matrix: got %v", m)
	}
}

// pair holds two shared references.
type pair struct {
	a, b any
}

func pairReaders() *TypeReaders {
	types := DefaultTypeReaders()
	types.Register("PairReader", func(*TypeReaders, []TypeName) (TypeReader, error) {
		return &readerFunc{target: "Pair", read: func(r *Reader, _ any) (any, error) {
			p := &pair{}
			if err := r.ReadSharedResource(func(v any) { p.a = v }); err != nil {
				return nil, err
			}
			if err := r.ReadSharedResource(func(v any) { p.b = v }); err != nil {
				return nil, err
			}
			return p, nil
		}}, nil
	})
	return types
}

func TestSharedResourcesResolveToOneInstance(t *testing.T) {
	t.Parallel()

	s := (&stream{}).header(1, "Game.PairReader", texReader)
	s.int7(1).int7(1).int7(1)
	texture(s.int7(2), 1, 1, 0xFF)

	m := NewManager(nil, "", nil, WithTypeReaders(pairReaders()))
	v, err := m.Decode("pair", container(t, s.b, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := v.(*pair)
	tex, ok := p.a.(*graphics.Texture2D)
	if !ok || tex == nil {
		t.Fatalf("first reference: got %T", p.a)
	}
	if p.b != p.a {
		t.Fatalf("both references should hold the same instance")
	}
}

// node holds one shared reference.
type node struct {
	next any
}

func TestSharedResourcesReferenceEachOther(t *testing.T) {
	t.Parallel()

	types := DefaultTypeReaders()
	types.Register("NodeReader", func(*TypeReaders, []TypeName) (TypeReader, error) {
		return &readerFunc{target: "Node", read: func(r *Reader, _ any) (any, error) {
			n := &node{}
			if err := r.ReadSharedResource(func(v any) { n.next = v }); err != nil {
				return nil, err
			}
			return n, nil
		}}, nil
	})

	// root -> #1, #1 -> #2, #2 -> #1
	s := (&stream{}).header(2, "Game.NodeReader")
	s.int7(1).int7(1)
	s.int7(1).int7(2)
	s.int7(1).int7(1)

	m := NewManager(nil, "", nil, WithTypeReaders(types))
	v, err := m.Decode("nodes", container(t, s.b, 0))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	first, ok := v.(*node).next.(*node)
	if !ok || first == nil {
		t.Fatalf("root.next: got %T", v.(*node).next)
	}
	second, ok := first.next.(*node)
	if !ok || second == nil {
		t.Fatalf("shared 1 next: got %T", first.next)
	}
	if second.next != any(first) {
		t.Fatalf("shared 2 next: got %v want %p", second.next, first)
	}
}

func TestSharedResourceOutOfRange(t *testing.T) {
	t.Parallel()

	s := (&stream{}).header(1, "PairReader", texReader)
	s.int7(1).int7(1).int7(2)
	texture(s.int7(2), 1, 1, 0)

	m := NewManager(nil, "", nil, WithTypeReaders(pairReaders()))
	if _, err := m.Decode("pair", container(t, s.b, 0)); !errors.Is(err, ErrSharedResourceRange) {
		t.Fatalf("expected ErrSharedResourceRange, got %v", err)
	}
}

func TestReaderTableErrors(t *testing.T) {
	t.Parallel()

	unknown := (&stream{}).header(0, "Game.WidgetReader").int7(1)
	if _, err := decode(t, unknown.b); !errors.Is(err, ErrUnknownReader) {
		t.Fatalf("expected ErrUnknownReader, got %v", err)
	}

	badIndex := (&stream{}).header(0, int32Rdr).int7(2)
	if _, err := decode(t, badIndex.b); !errors.Is(err, ErrBadReaderIndex) {
		t.Fatalf("expected ErrBadReaderIndex, got %v", err)
	}

	null := (&stream{}).header(0, int32Rdr).int7(0)
	if v, err := decode(t, null.b); err != nil || v != nil {
		t.Fatalf("null root: got %v, %v", v, err)
	}
}

func TestCollectionReaders(t *testing.T) {
	t.Parallel()

	list := (&stream{}).header(0, listOfInt32).int7(1).u32(3).i32(4).i32(-5).i32(6)
	v, err := decode(t, list.b)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ints, err := listOf[int32](v, "list")
	if err != nil || len(ints) != 3 || ints[1] != -5 {
		t.Fatalf("list: got %v, %v", ints, err)
	}

	dict := (&stream{}).header(0,
		"Microsoft.Xna.Framework.Content.DictionaryReader`2[[System.String, mscorlib],[System.Object, mscorlib]]",
		stringRdr, int32Rdr, "Microsoft.Xna.Framework.Content.TimeSpanReader",
	)
	dict.int7(1).u32(2)
	dict.int7(2).str("lives").int7(3).i32(3)
	dict.int7(2).str("delay").int7(4).raw([]byte{0x80, 0x96, 0x98, 0, 0, 0, 0, 0})
	v, err = decode(t, dict.b)
	if err != nil {
		t.Fatalf("dictionary: %v", err)
	}
	d := v.(map[any]any)
	if d["lives"] != int32(3) || d["delay"] != time.Second {
		t.Fatalf("dictionary: got %v", d)
	}

	arr := (&stream{}).header(0, "Microsoft.Xna.Framework.Content.ArrayReader`1[[Microsoft.Xna.Framework.Vector3, Microsoft.Xna.Framework]]")
	arr.int7(1).u32(2).f32(1, 2, 3).f32(4, 5, 6)
	v, err = decode(t, arr.b)
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	vecs, err := listOf[mgl32.Vec3](v, "array")
	if err != nil || vecs[1] != (mgl32.Vec3{4, 5, 6}) {
		t.Fatalf("array: got %v, %v", vecs, err)
	}

	nullable := (&stream{}).header(0,
		"Microsoft.Xna.Framework.Content.ListReader`1[[System.Nullable`1[[Microsoft.Xna.Framework.Rectangle, Microsoft.Xna.Framework]], mscorlib]]",
	)
	nullable.int7(1).u32(2).bool(false).bool(true).i32(1).i32(2).i32(3).i32(4)
	v, err = decode(t, nullable.b)
	if err != nil {
		t.Fatalf("nullable: %v", err)
	}
	items := v.([]any)
	if items[0] != nil || items[1] != (graphics.Rectangle{X: 1, Y: 2, Width: 3, Height: 4}) {
		t.Fatalf("nullable: got %v", items)
	}
}

func TestModelPartsShareBuffers(t *testing.T) {
	t.Parallel()

	s := (&stream{}).header(2,
		"Microsoft.Xna.Framework.Content.ModelReader",
		stringRdr,
		"Microsoft.Xna.Framework.Content.VertexBufferReader",
		"Microsoft.Xna.Framework.Content.IndexBufferReader",
	)
	s.int7(1)
	s.u32(1)
	identity(s.int7(2).str("Root"))
	s.u8(0).u32(0)
	s.u32(1)
	s.int7(2).str("Hull").u8(1).f32(0, 0, 0, 2).int7(0)
	s.u32(2)
	for i := 0; i < 2; i++ {
		s.u32(0).u32(3).u32(uint32(i * 3)).u32(1).int7(0)
		s.int7(1).int7(2).int7(0)
	}
	s.u8(1).int7(0)

	s.int7(3).u32(12).u32(1).i32(0).i32(int32(graphics.VertexVector3)).i32(int32(graphics.UsagePosition)).i32(0)
	s.u32(3).raw(make([]byte, 36))
	s.int7(4).bool(true).sized(make([]byte, 12))

	v, err := decode(t, s.b)
	if err != nil {
		t.Fatalf("decode model: %v", err)
	}
	model := v.(*graphics.Model)
	if len(model.Meshes) != 1 || len(model.Meshes[0].Parts) != 2 {
		t.Fatalf("model shape: %+v", model)
	}
	parts := model.Meshes[0].Parts
	if parts[0].VertexBuffer == nil || parts[0].VertexBuffer != parts[1].VertexBuffer {
		t.Fatalf("parts should share one vertex buffer")
	}
	if parts[0].IndexBuffer != parts[1].IndexBuffer || parts[0].IndexBuffer.IndexCount() != 6 {
		t.Fatalf("parts should share one 16-bit index buffer")
	}
	if model.Root != model.Bones[0] || model.Meshes[0].ParentBone != model.Root {
		t.Fatalf("bone references not resolved")
	}
	if model.Meshes[0].Bounds.Radius != 2 || parts[1].StartIndex != 3 {
		t.Fatalf("mesh data: %+v %+v", model.Meshes[0].Bounds, *parts[1])
	}
}

func TestSpriteFontReader(t *testing.T) {
	t.Parallel()

	rects := "Microsoft.Xna.Framework.Content.ListReader`1[[Microsoft.Xna.Framework.Rectangle]]"
	s := (&stream{}).header(0,
		"Microsoft.Xna.Framework.Content.SpriteFontReader",
		texReader,
		rects,
		"Microsoft.Xna.Framework.Content.ListReader`1[[System.Char]]",
		"Microsoft.Xna.Framework.Content.ListReader`1[[Microsoft.Xna.Framework.Vector3]]",
	)
	s.int7(1)
	texture(s.int7(2), 2, 2, 0)
	s.int7(3).u32(2).i32(0).i32(0).i32(1).i32(2).i32(1).i32(0).i32(1).i32(2)
	s.int7(3).u32(2).i32(0).i32(0).i32(1).i32(2).i32(0).i32(0).i32(1).i32(2)
	s.int7(4).u32(2).raw([]byte("a?"))
	s.i32(12).f32(1.5)
	s.int7(5).u32(2).f32(0, 1, 0).f32(0, 1, 0)
	s.bool(true).raw([]byte("?"))

	v, err := decode(t, s.b)
	if err != nil {
		t.Fatalf("decode font: %v", err)
	}
	f := v.(*graphics.SpriteFont)
	if f.Texture == nil || f.LineSpacing != 12 || f.Spacing != 1.5 || len(f.Glyphs) != 2 {
		t.Fatalf("font: %+v", f)
	}
	if i, ok := f.Glyph('z'); !ok || i != 1 {
		t.Fatalf("default character glyph: got %d, %v", i, ok)
	}
}

func TestTextureLegacySurfaceFormat(t *testing.T) {
	t.Parallel()

	payload := (&stream{}).header(0, texReader).int7(1).i32(28).u32(4).u32(4).u32(1).sized(make([]byte, 8))
	m := NewManager(nil, "", nil)
	r := newReader(m, m.types, "legacy", legacyHeader(), payload.b)
	v, err := r.ReadAsset()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if f := v.(*graphics.Texture2D).SurfaceFormat; f != graphics.SurfaceDxt1 {
		t.Fatalf("format: got %v", f)
	}
}
