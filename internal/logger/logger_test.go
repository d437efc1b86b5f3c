package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func prettyTo(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(NewPrettyHandler(buf, &PrettyOptions{Level: level, NoColor: true}))
}

func TestForFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"loaded"`},
		{"text", "msg=loaded"},
		{"pretty", "INFO  loaded"},
		{"", "INFO  loaded"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		ForFormat(tc.format, &buf, slog.LevelInfo).Info("loaded", "asset", "Hero")
		if !strings.Contains(buf.String(), tc.want) {
			t.Fatalf("format %q: output %q missing %q", tc.format, buf.String(), tc.want)
		}
		if !strings.Contains(buf.String(), "Hero") {
			t.Fatalf("format %q: output %q missing attribute", tc.format, buf.String())
		}
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("dropped")
	log.Debug("dropped")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("kept")
	if !strings.Contains(buf.String(), `"level":"WARN"`) {
		t.Fatalf("expected a warn record, got: %s", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard().With("k", "v").WithGroup("g")
	log.Error("nothing happens")
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), JSON(&buf, slog.LevelInfo))
	FromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Fatalf("logger lost in context, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a default logger")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"loud":    slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q): got %v want %v", in, got, want)
		}
	}
}

func TestPrettyLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &PrettyOptions{NoColor: true, TimeFormat: time.DateTime})
	r := slog.NewRecord(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), slog.LevelWarn, "content load failed", 0)
	r.AddAttrs(
		slog.String("asset", "Textures/Grass"),
		slog.Any("error", errors.New("file does not exist")),
		slog.Duration("took", 1500*time.Millisecond),
	)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}
	want := `2024-03-01 12:30:00 WARN  content load failed asset=Textures/Grass error="file does not exist" took=1.5s` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Error("boom")
	if !strings.Contains(buf.String(), ansiRed) || !strings.Contains(buf.String(), ansiReset) {
		t.Fatalf("expected ANSI colour codes, got %q", buf.String())
	}

	buf.Reset()
	prettyTo(&buf, slog.LevelInfo).Error("boom")
	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("NoColor output contains escapes: %q", buf.String())
	}
}

func TestPrettyLevelFiltering(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &PrettyOptions{Level: slog.LevelWarn})
	ctx := context.Background()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("info enabled at warn level")
	}
	if !h.Enabled(ctx, slog.LevelWarn) || !h.Enabled(ctx, slog.LevelError) {
		t.Fatal("warn and error must be enabled at warn level")
	}
	if NewPrettyHandler(&bytes.Buffer{}, nil).Enabled(ctx, slog.LevelDebug) {
		t.Fatal("debug enabled by default")
	}
}

func TestPrettyGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := prettyTo(&buf, slog.LevelInfo)

	log.With("manager", "main").WithGroup("effect").With("pass", "P0").WithGroup("state").Info("applied", "kind", "blend")
	got := buf.String()
	for _, want := range []string{" manager=main", " effect.pass=P0", " effect.state.kind=blend"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}

	buf.Reset()
	log.Info("inline", slog.Group("header", slog.Int("version", 5), slog.String("platform", "w")))
	if !strings.Contains(buf.String(), " header.version=5 header.platform=w") {
		t.Fatalf("group value not flattened: %q", buf.String())
	}
}

func TestPrettyWithGroupEmpty(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, nil)
	if h.WithGroup("") != slog.Handler(h) {
		t.Fatal("WithGroup(\"\") should return the receiver")
	}
	if h.WithAttrs(nil) != slog.Handler(h) {
		t.Fatal("WithAttrs(nil) should return the receiver")
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want bool
	}{
		{"Textures/Grass", false},
		{"*graphics.Texture2D", false},
		{"has space", true},
		{"tab\there", true},
		{"line\nbreak", true},
		{`quote"d`, true},
		{"k=v", true},
		{"", true},
		{"bell\a", true},
	}
	for _, tc := range cases {
		if got := needsQuoting(tc.in); got != tc.want {
			t.Fatalf("needsQuoting(%q): got %v want %v", tc.in, got, tc.want)
		}
	}
}
