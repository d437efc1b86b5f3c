package content

import (
	"errors"
	"testing"

	"github.com/samcharles93/xnacore/pkg/xnb"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	data := textureAsset(t, 16, 16, xnb.FlagCompressedLZX)
	in, err := NewManager(nil, "", nil).Inspect("Textures/Grass", data)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if in.Compression != "lzx" || in.Platform != xnb.PlatformWindows.String() || in.Version != xnb.VersionXNA40 {
		t.Fatalf("unexpected header fields %+v", in)
	}
	if in.FileSize != len(data) {
		t.Fatalf("file size: got %d want %d", in.FileSize, len(data))
	}
	if in.RootType != "*graphics.Texture2D" || in.DecodeError != "" {
		t.Fatalf("root: got %q (%s)", in.RootType, in.DecodeError)
	}
	if len(in.Readers) != 1 || in.Readers[0].Name != texReader || in.SharedResources != 0 {
		t.Fatalf("table: got %+v shared %d", in.Readers, in.SharedResources)
	}
	if in.Ratio <= 0 || in.Ratio > 1.1 {
		t.Fatalf("ratio: got %v", in.Ratio)
	}

	f, err := xnb.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.Digest != Digest(f.Payload) {
		t.Fatalf("digest does not cover the decompressed payload")
	}
}

func TestInspectKeepsTableOnDecodeFailure(t *testing.T) {
	t.Parallel()

	s := (&stream{}).header(2, stringRdr, "Acme.GizmoReader").int7(1).str("x")
	in, err := NewManager(nil, "", nil).Inspect("gizmo", container(t, s.b, 0))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(in.Readers) != 2 || in.SharedResources != 2 {
		t.Fatalf("table: got %+v shared %d", in.Readers, in.SharedResources)
	}
	if in.DecodeError == "" || in.RootType != "" {
		t.Fatalf("expected a decode error, got %+v", in)
	}
}

func TestInspectContainerError(t *testing.T) {
	t.Parallel()

	_, err := NewManager(nil, "", nil).Inspect("bad", []byte("XNBz\x05\x00\x0a\x00\x00\x00"))
	if !errors.Is(err, xnb.ErrUnknownPlatform) {
		t.Fatalf("got %v want %v", err, xnb.ErrUnknownPlatform)
	}
}
