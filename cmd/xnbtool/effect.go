package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xnacore/internal/content"
	"github.com/samcharles93/xnacore/internal/effect"
	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/internal/graphics/ebitenx"
	"github.com/samcharles93/xnacore/internal/logger"
)

func effectCmd() *cli.Command {
	var apply string

	return &cli.Command{
		Name:      "effect",
		Usage:     "List the techniques and parameters of a compiled effect",
		ArgsUsage: "<file.xnb|file.fxb>",
		Flags: []cli.Flag{
			jsonFlag(),
			&cli.StringFlag{
				Name:        "apply",
				Usage:       "apply technique/pass on a fresh device and print the resulting state",
				Destination: &apply,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			file := cmd.Args().First()
			if file == "" {
				return errors.New("effect: missing input file")
			}
			fx, closeFn, err := loadEffect(file, log)
			if err != nil {
				return err
			}
			defer closeFn()

			rep := effectReport{Effect: reportEffect(fx)}
			if apply != "" {
				dev, err := applyPass(fx, apply)
				if err != nil {
					return err
				}
				d := reportDevice(dev, fx)
				rep.Device = &d
			}
			return writeEffect(os.Stdout, rep, jsonOutput)
		},
	}
}

// loadEffect reads a raw effect image or an effect container.
func loadEffect(file string, log logger.Logger) (*effect.Effect, func(), error) {
	if strings.EqualFold(filepath.Ext(file), ".fxb") {
		code, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, err
		}
		fx, err := effect.New(graphics.NewDevice(), code, effect.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return fx, func() { _ = fx.Close() }, nil
	}
	m, asset, err := openContent(file, log)
	if err != nil {
		return nil, nil, err
	}
	fx, err := content.Load[*effect.Effect](m, asset)
	if err != nil {
		_ = m.Close()
		return nil, nil, err
	}
	return fx, func() { _ = m.Close() }, nil
}

func applyPass(fx *effect.Effect, spec string) (*graphics.Device, error) {
	techName, passName, ok := strings.Cut(spec, "/")
	if !ok {
		return nil, fmt.Errorf("--apply wants technique/pass, got %q", spec)
	}
	t := fx.Techniques.ByName(techName)
	if t == nil {
		return nil, fmt.Errorf("no technique %q", techName)
	}
	p := t.Passes.ByName(passName)
	if p == nil {
		return nil, fmt.Errorf("technique %q has no pass %q", techName, passName)
	}
	if err := fx.SetCurrentTechnique(t); err != nil {
		return nil, err
	}
	if err := p.Apply(); err != nil {
		return nil, err
	}
	return fx.Device(), nil
}

type annotationReport struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

type parameterReport struct {
	Name        string             `json:"name"`
	Semantic    string             `json:"semantic,omitempty"`
	Class       string             `json:"class"`
	Type        string             `json:"type"`
	Rows        int                `json:"rows"`
	Columns     int                `json:"columns"`
	Elements    int                `json:"elements,omitempty"`
	Members     int                `json:"members,omitempty"`
	Value       any                `json:"value,omitempty"`
	Annotations []annotationReport `json:"annotations,omitempty"`
}

type passReport struct {
	Name        string             `json:"name"`
	Annotations []annotationReport `json:"annotations,omitempty"`
}

type techniqueReport struct {
	Name        string             `json:"name"`
	Annotations []annotationReport `json:"annotations,omitempty"`
	Passes      []passReport       `json:"passes"`
}

type effectSummary struct {
	Techniques []techniqueReport `json:"techniques"`
	Parameters []parameterReport `json:"parameters"`
}

type samplerReport struct {
	Register int    `json:"register"`
	Vertex   bool   `json:"vertex,omitempty"`
	State    string `json:"state"`
	Texture  string `json:"texture,omitempty"`
}

type deviceReport struct {
	Blend        string              `json:"blend"`
	DepthStencil string              `json:"depth_stencil"`
	Rasterizer   string              `json:"rasterizer"`
	Samplers     []samplerReport     `json:"samplers,omitempty"`
	Stats        graphics.Stats      `json:"stats"`
	Ebiten       ebitenx.Translation `json:"ebiten"`
}

type effectReport struct {
	Effect effectSummary `json:"effect"`
	Device *deviceReport `json:"device,omitempty"`
}

// valuer is the typed read side shared by parameters and annotations.
type valuer interface {
	Bool() (bool, error)
	Int32() (int32, error)
	Float32() (float32, error)
	Vector2() (mgl32.Vec2, error)
	Vector3() (mgl32.Vec3, error)
	Vector4() (mgl32.Vec4, error)
	Matrix() (mgl32.Mat4, error)
	StringValue() (string, error)
}

func valueOf(class effect.ParameterClass, typ effect.ParameterType, rows, cols int, v valuer) any {
	switch {
	case typ == effect.TypeString:
		s, _ := v.StringValue()
		return s
	case class == effect.ClassScalar && typ == effect.TypeBool:
		b, _ := v.Bool()
		return b
	case class == effect.ClassScalar && typ == effect.TypeInt32:
		i, _ := v.Int32()
		return i
	case class == effect.ClassScalar:
		f, _ := v.Float32()
		return f
	case class == effect.ClassVector && typ == effect.TypeSingle:
		switch cols {
		case 1:
			f, _ := v.Float32()
			return []float32{f}
		case 2:
			vec, _ := v.Vector2()
			return vec[:]
		case 3:
			vec, _ := v.Vector3()
			return vec[:]
		}
		vec, _ := v.Vector4()
		return vec[:]
	case class == effect.ClassMatrix && typ == effect.TypeSingle:
		m, _ := v.Matrix()
		out := make([][]float32, rows)
		for r := range out {
			out[r] = make([]float32, cols)
			for c := range out[r] {
				out[r][c] = m.At(r, c)
			}
		}
		return out
	}
	return nil
}

func reportAnnotations(as effect.Annotations) []annotationReport {
	out := make([]annotationReport, 0, len(as))
	for _, a := range as {
		out = append(out, annotationReport{
			Name:  a.Name,
			Type:  a.Type.String(),
			Value: valueOf(a.Class, a.Type, a.RowCount, a.ColumnCount, a),
		})
	}
	return out
}

func reportEffect(fx *effect.Effect) effectSummary {
	var rep effectSummary
	for _, t := range fx.Techniques {
		tr := techniqueReport{Name: t.Name, Annotations: reportAnnotations(t.Annotations)}
		for _, p := range t.Passes {
			tr.Passes = append(tr.Passes, passReport{Name: p.Name, Annotations: reportAnnotations(p.Annotations)})
		}
		rep.Techniques = append(rep.Techniques, tr)
	}
	for _, p := range fx.Parameters {
		pr := parameterReport{
			Name:        p.Name,
			Semantic:    p.Semantic,
			Class:       p.Class.String(),
			Type:        p.Type.String(),
			Rows:        p.RowCount,
			Columns:     p.ColumnCount,
			Elements:    len(p.Elements),
			Members:     len(p.StructureMembers),
			Annotations: reportAnnotations(p.Annotations),
		}
		if len(p.Elements) == 0 && len(p.StructureMembers) == 0 {
			pr.Value = valueOf(p.Class, p.Type, p.RowCount, p.ColumnCount, p)
		}
		rep.Parameters = append(rep.Parameters, pr)
	}
	return rep
}

func blendString(b *graphics.BlendState) string {
	return fmt.Sprintf("color %s*src %s %s*dst, alpha %s*src %s %s*dst, write %s",
		b.ColorSourceBlend, b.ColorBlendFunction, b.ColorDestinationBlend,
		b.AlphaSourceBlend, b.AlphaBlendFunction, b.AlphaDestinationBlend,
		b.ColorWriteChannels)
}

func depthString(d *graphics.DepthStencilState) string {
	s := fmt.Sprintf("depth enable=%t write=%t func=%s", d.DepthBufferEnable, d.DepthBufferWriteEnable, d.DepthBufferFunction)
	if d.StencilEnable {
		s += fmt.Sprintf(", stencil func=%s pass=%s fail=%s zfail=%s ref=%d",
			d.StencilFunction, d.StencilPass, d.StencilFail, d.StencilDepthBufferFail, d.ReferenceStencil)
	}
	return s
}

func rasterizerString(r *graphics.RasterizerState) string {
	return fmt.Sprintf("cull=%s fill=%s bias=%g slope=%g scissor=%t msaa=%t",
		r.CullMode, r.FillMode, r.DepthBias, r.SlopeScaleDepthBias, r.ScissorTestEnable, r.MultiSampleAntiAlias)
}

func samplerString(s *graphics.SamplerState) string {
	return fmt.Sprintf("filter=%s address=%s/%s/%s aniso=%d maxmip=%d",
		s.Filter, s.AddressU, s.AddressV, s.AddressW, s.MaxAnisotropy, s.MaxMipLevel)
}

func textureName(t graphics.Texture) string {
	switch t := t.(type) {
	case nil:
		return ""
	case *graphics.Texture2D:
		if t.Name != "" {
			return t.Name
		}
	}
	return fmt.Sprintf("%T", t)
}

// reportDevice lists the global states, every sampler slot that is no
// longer at its default or has a texture bound, and how ebiten would draw
// with them.
func reportDevice(dev *graphics.Device, fx *effect.Effect) deviceReport {
	rep := deviceReport{
		Blend:        blendString(dev.BlendState()),
		DepthStencil: depthString(dev.DepthStencilState()),
		Rasterizer:   rasterizerString(dev.RasterizerState()),
		Stats:        dev.Stats(),
		Ebiten:       ebitenx.Translate(dev, fx),
	}
	def := *graphics.SamplerLinearWrap()
	for i := range graphics.MaxTextureSlots {
		s, t := dev.SamplerState(i), dev.Texture(i)
		if *s != def || t != nil {
			rep.Samplers = append(rep.Samplers, samplerReport{Register: i, State: samplerString(s), Texture: textureName(t)})
		}
	}
	for i := range graphics.MaxVertexTextureSlots {
		s, t := dev.VertexSamplerState(i), dev.VertexTexture(i)
		if *s != def || t != nil {
			rep.Samplers = append(rep.Samplers, samplerReport{Register: i, Vertex: true, State: samplerString(s), Texture: textureName(t)})
		}
	}
	return rep
}

func writeAnnotations(w io.Writer, indent string, as []annotationReport) {
	for _, a := range as {
		fmt.Fprintf(w, "%s@%s %s = %v\n", indent, a.Name, a.Type, a.Value)
	}
}

func writeEffect(w io.Writer, rep effectReport, asJSON bool) error {
	if asJSON {
		b, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	fmt.Fprintf(w, "techniques: %d\n", len(rep.Effect.Techniques))
	for _, t := range rep.Effect.Techniques {
		fmt.Fprintf(w, "  %s\n", t.Name)
		writeAnnotations(w, "    ", t.Annotations)
		for _, p := range t.Passes {
			fmt.Fprintf(w, "    pass %s\n", p.Name)
			writeAnnotations(w, "      ", p.Annotations)
		}
	}
	fmt.Fprintf(w, "parameters: %d\n", len(rep.Effect.Parameters))
	for _, p := range rep.Effect.Parameters {
		shape := fmt.Sprintf("%s %s %dx%d", p.Class, p.Type, p.Rows, p.Columns)
		switch {
		case p.Elements > 0:
			shape += fmt.Sprintf("[%d]", p.Elements)
		case p.Members > 0:
			shape += fmt.Sprintf("{%d}", p.Members)
		}
		fmt.Fprintf(w, "  %-24s %s", p.Name, shape)
		if p.Semantic != "" {
			fmt.Fprintf(w, " : %s", p.Semantic)
		}
		if p.Value != nil {
			fmt.Fprintf(w, " = %v", p.Value)
		}
		fmt.Fprintln(w)
		writeAnnotations(w, "    ", p.Annotations)
	}

	if d := rep.Device; d != nil {
		fmt.Fprintln(w, "device:")
		fmt.Fprintf(w, "  blend:         %s\n", d.Blend)
		fmt.Fprintf(w, "  depth/stencil: %s\n", d.DepthStencil)
		fmt.Fprintf(w, "  rasterizer:    %s\n", d.Rasterizer)
		for _, s := range d.Samplers {
			kind := "sampler"
			if s.Vertex {
				kind = "vsampler"
			}
			fmt.Fprintf(w, "  %s[%d]:    %s", kind, s.Register, s.State)
			if s.Texture != "" {
				fmt.Fprintf(w, " texture=%s", s.Texture)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "  published:     %+v\n", d.Stats)
		e := d.Ebiten
		fmt.Fprintf(w, "  ebiten:        blend=%s filter=%s", e.Blend, e.Filter)
		if e.Address != "" {
			fmt.Fprintf(w, " address=%s", e.Address)
		}
		fmt.Fprintf(w, " uniforms=%d\n", len(e.Uniforms))
		for _, u := range e.Unsupported {
			fmt.Fprintf(w, "    unsupported: %s\n", u)
		}
	}
	return nil
}
