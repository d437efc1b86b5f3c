package api

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/xnacore/internal/effect"
	"github.com/samcharles93/xnacore/internal/graphics"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{Message: msg, Type: errType},
	})
}

// describe picks the fields worth showing for a loaded asset.
func describe(v any) map[string]any {
	switch v := v.(type) {
	case *graphics.Texture2D:
		return map[string]any{
			"format": v.SurfaceFormat.String(),
			"width":  v.Width,
			"height": v.Height,
			"levels": v.LevelCount(),
		}
	case *graphics.Texture3D:
		return map[string]any{
			"format": v.SurfaceFormat.String(),
			"width":  v.Width,
			"height": v.Height,
			"depth":  v.Depth,
			"levels": v.LevelCount(),
		}
	case *graphics.TextureCube:
		return map[string]any{
			"format": v.SurfaceFormat.String(),
			"size":   v.Size,
			"levels": v.LevelCount(),
		}
	case *graphics.VertexBuffer:
		d := map[string]any{"vertices": v.VertexCount}
		if v.Declaration != nil {
			d["stride"] = v.Declaration.Stride
		}
		return d
	case *graphics.IndexBuffer:
		return map[string]any{"indices": v.IndexCount(), "sixteen_bit": v.SixteenBit}
	case *graphics.Model:
		parts := 0
		for _, m := range v.Meshes {
			parts += len(m.Parts)
		}
		return map[string]any{"bones": len(v.Bones), "meshes": len(v.Meshes), "parts": parts}
	case *graphics.SpriteFont:
		return map[string]any{"characters": len(v.Characters), "line_spacing": v.LineSpacing}
	case *graphics.SoundEffect:
		return map[string]any{
			"channels":    v.Format.Channels,
			"sample_rate": v.Format.SampleRate,
			"bits":        v.Format.BitsPerSample,
			"duration_ms": v.DurationMs,
		}
	case *effect.Effect:
		techniques := make([]string, 0, len(v.Techniques))
		for _, t := range v.Techniques {
			techniques = append(techniques, t.Name)
		}
		params := make([]string, 0, len(v.Parameters))
		for _, p := range v.Parameters {
			params = append(params, p.Name)
		}
		return map[string]any{"techniques": techniques, "parameters": params}
	case string:
		return map[string]any{"length": len(v)}
	case []any:
		return map[string]any{"count": len(v)}
	case map[any]any:
		return map[string]any{"count": len(v)}
	}
	return nil
}
