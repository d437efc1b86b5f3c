package ebitenx

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/samcharles93/xnacore/internal/effect"
	"github.com/samcharles93/xnacore/internal/graphics"
)

// Translation describes how ebiten would draw with a device's live state.
// State ebiten cannot express is listed in Unsupported instead of failing
// the whole translation.
type Translation struct {
	Blend       string         `json:"blend"`
	Filter      string         `json:"filter"`
	Address     string         `json:"address,omitempty"`
	Uniforms    map[string]any `json:"uniforms,omitempty"`
	Unsupported []string       `json:"unsupported,omitempty"`
}

var blendPresets = []struct {
	name  string
	blend ebiten.Blend
}{
	{"source-over", ebiten.BlendSourceOver},
	{"copy", ebiten.BlendCopy},
	{"lighter", ebiten.BlendLighter},
	{"clear", ebiten.BlendClear},
}

var factorNames = map[ebiten.BlendFactor]string{
	ebiten.BlendFactorZero:                     "zero",
	ebiten.BlendFactorOne:                      "one",
	ebiten.BlendFactorSourceColor:              "src-color",
	ebiten.BlendFactorOneMinusSourceColor:      "1-src-color",
	ebiten.BlendFactorSourceAlpha:              "src-alpha",
	ebiten.BlendFactorOneMinusSourceAlpha:      "1-src-alpha",
	ebiten.BlendFactorDestinationColor:         "dst-color",
	ebiten.BlendFactorOneMinusDestinationColor: "1-dst-color",
	ebiten.BlendFactorDestinationAlpha:         "dst-alpha",
	ebiten.BlendFactorOneMinusDestinationAlpha: "1-dst-alpha",
}

var opNames = map[ebiten.BlendOperation]string{
	ebiten.BlendOperationAdd:             "add",
	ebiten.BlendOperationSubtract:        "sub",
	ebiten.BlendOperationReverseSubtract: "rsub",
	ebiten.BlendOperationMin:             "min",
	ebiten.BlendOperationMax:             "max",
}

// BlendName names b after the ebiten preset it equals, or spells out its
// factors and operations.
func BlendName(b ebiten.Blend) string {
	for _, p := range blendPresets {
		if p.blend == b {
			return p.name
		}
	}
	return fmt.Sprintf("rgb %s*src %s %s*dst, alpha %s*src %s %s*dst",
		factorNames[b.BlendFactorSourceRGB], opNames[b.BlendOperationRGB], factorNames[b.BlendFactorDestinationRGB],
		factorNames[b.BlendFactorSourceAlpha], opNames[b.BlendOperationAlpha], factorNames[b.BlendFactorDestinationAlpha])
}

func filterName(f ebiten.Filter) string {
	if f == ebiten.FilterNearest {
		return "nearest"
	}
	return "linear"
}

func addressName(a ebiten.Address) string {
	switch a {
	case ebiten.AddressRepeat:
		return "repeat"
	case ebiten.AddressClampToZero:
		return "clamp-to-zero"
	}
	return "unsafe"
}

// Translate converts the device's blend state, the sampler on register 0
// and fx's parameters. fx may be nil.
func Translate(dev *graphics.Device, fx *effect.Effect) Translation {
	var tr Translation

	if b, err := Blend(dev.BlendState()); err != nil {
		tr.Blend = "unsupported"
		tr.Unsupported = append(tr.Unsupported, err.Error())
	} else {
		tr.Blend = BlendName(b)
	}

	s := dev.SamplerState(0)
	tr.Filter = filterName(Filter(s))
	if a, err := Address(s); err != nil {
		tr.Unsupported = append(tr.Unsupported, err.Error())
	} else {
		tr.Address = addressName(a)
	}

	if fx != nil {
		u, err := Uniforms(fx.Parameters)
		if err != nil {
			tr.Unsupported = append(tr.Unsupported, err.Error())
		} else if len(u) > 0 {
			tr.Uniforms = u
		}
	}
	return tr
}
