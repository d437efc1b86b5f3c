package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samcharles93/xnacore/internal/content"
	"github.com/samcharles93/xnacore/internal/logger"
	"github.com/samcharles93/xnacore/pkg/fxbin"
	"github.com/samcharles93/xnacore/pkg/xnb"
)

const stringReader = "Microsoft.Xna.Framework.Content.StringReader"

func stringPayload(s string) []byte {
	b := []byte{1, byte(len(stringReader))}
	b = append(b, stringReader...)
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = append(b, 0, 1, byte(len(s)))
	return append(b, s...)
}

func writeContainer(t *testing.T, dir, name string, flags byte, payload []byte) string {
	t.Helper()
	data, err := xnb.Encode(xnb.Header{Platform: xnb.PlatformWindows, Version: xnb.VersionXNA40, Flags: flags}, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestExtract(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	payload := stringPayload(strings.Repeat("content ", 64))
	src := writeContainer(t, dir, "Text.xnb", xnb.FlagCompressedLZX, payload)

	bin := filepath.Join(dir, "out", "Text.bin")
	if _, err := extract(src, bin, false); err != nil {
		t.Fatalf("extract: %v", err)
	}
	got, err := os.ReadFile(bin)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %d bytes want %d", len(got), len(payload))
	}

	raw := filepath.Join(dir, "Text.raw.xnb")
	if _, err := extract(src, raw, true); err != nil {
		t.Fatalf("rewrap: %v", err)
	}
	f, err := xnb.Open(raw)
	if err != nil {
		t.Fatalf("open rewrapped: %v", err)
	}
	defer func() { _ = f.Close() }()
	if f.Header.Compression() != xnb.CompressionNone || !bytes.Equal(f.Payload, payload) {
		t.Fatalf("rewrapped container: compression %s, %d payload bytes", f.Header.Compression(), len(f.Payload))
	}

	if _, err := extract(src, src, false); err == nil {
		t.Fatalf("expected an error when the output is the input")
	}
}

func TestWriteInspection(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeContainer(t, dir, "Greeting.xnb", 0, stringPayload("hi"))
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	in, err := content.NewManager(nil, "", nil).Inspect("Greeting", data)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var text bytes.Buffer
	if err := writeInspection(&text, in, false); err != nil {
		t.Fatalf("write text: %v", err)
	}
	for _, want := range []string{"asset:        Greeting", "compression:  none", "[1] " + stringReader, "root:         string"} {
		if !strings.Contains(text.String(), want) {
			t.Fatalf("text output missing %q:\n%s", want, text.String())
		}
	}

	var js bytes.Buffer
	if err := writeInspection(&js, in, true); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if !strings.Contains(js.String(), `"root_type": "string"`) {
		t.Fatalf("json output missing root type:\n%s", js.String())
	}
}

func effectFile(t *testing.T, dir string) string {
	t.Helper()
	img := &fxbin.Image{
		Params: []fxbin.Param{
			fxbin.Float("Tint", fxbin.ClassVector, 1, 3, 1, 0.5, 0.25),
			fxbin.Float("Alpha", fxbin.ClassScalar, 1, 1, 0.75),
		},
		Techniques: []fxbin.Technique{{
			Name: "Glow",
			Passes: []fxbin.Pass{{Name: "P0", States: []fxbin.RenderState{
				{Type: fxbin.RSCullMode, Value: fxbin.CullNone},
			}}},
		}},
	}
	code, err := fxbin.Encode(img)
	if err != nil {
		t.Fatalf("encode effect: %v", err)
	}
	path := filepath.Join(dir, "Glow.fxb")
	if err := os.WriteFile(path, code, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestEffectReport(t *testing.T) {
	t.Parallel()

	fx, closeFn, err := loadEffect(effectFile(t, t.TempDir()), logger.Discard())
	if err != nil {
		t.Fatalf("load effect: %v", err)
	}
	defer closeFn()

	rep := effectReport{Effect: reportEffect(fx)}
	if len(rep.Effect.Techniques) != 1 || rep.Effect.Techniques[0].Passes[0].Name != "P0" {
		t.Fatalf("techniques: got %+v", rep.Effect.Techniques)
	}
	dev, err := applyPass(fx, "Glow/P0")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	d := reportDevice(dev, fx)
	rep.Device = &d

	var out bytes.Buffer
	if err := writeEffect(&out, rep, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, want := range []string{"Tint", "[1 0.5 0.25]", "Alpha", "= 0.75", "cull=None",
		"ebiten:        blend=copy filter=linear address=repeat uniforms=2"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
	if d.Ebiten.Uniforms["Alpha"] != float32(0.75) || len(d.Ebiten.Unsupported) != 0 {
		t.Fatalf("ebiten translation: got %+v", d.Ebiten)
	}
	if d.Stats.Rasterizer != 1 {
		t.Fatalf("rasterizer publications: got %d want 1", d.Stats.Rasterizer)
	}

	for _, bad := range []string{"Glow", "Missing/P0", "Glow/P9"} {
		if _, err := applyPass(fx, bad); err == nil {
			t.Fatalf("%s: expected error", bad)
		}
	}
}
