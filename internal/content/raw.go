package content

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/samcharles93/xnacore/internal/graphics"
)

// rawLoader reads an asset from a file that was never compiled.
type rawLoader struct {
	exts []string
	load func(m *Manager, asset string, data []byte) (any, error)
}

var rawLoaders = []rawLoader{
	{exts: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}, load: loadRawImage},
	{exts: []string{".wav"}, load: loadRawWave},
	{exts: []string{".fxb"}, load: func(m *Manager, _ string, data []byte) (any, error) { return m.newEffect(data) }},
}

// errNoRawForm means no raw file exists for the asset.
var errNoRawForm = errors.New("content: no raw asset")

// readRaw finds a raw file for asset. A name that already carries a known
// extension is used directly; otherwise each extension is probed in turn.
func (m *Manager) readRaw(asset string) (any, error) {
	if ext := strings.ToLower(path.Ext(asset)); ext != "" {
		for _, l := range rawLoaders {
			for _, e := range l.exts {
				if e == ext {
					data, err := fs.ReadFile(m.fsys, m.filePath(asset))
					if err != nil {
						return nil, err
					}
					return l.load(m, asset, data)
				}
			}
		}
	}
	for _, l := range rawLoaders {
		for _, e := range l.exts {
			data, err := fs.ReadFile(m.fsys, m.filePath(asset+e))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			m.log.Debug("content raw fallback", "asset", asset, "file", asset+e)
			return l.load(m, asset, data)
		}
	}
	return nil, fmt.Errorf("%w: %q", errNoRawForm, asset)
}

func loadRawImage(_ *Manager, asset string, data []byte) (any, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("content: decode image %q: %w", asset, err)
	}
	return graphics.TextureFromImage(asset, img), nil
}

// loadRawWave reads a RIFF WAVE file, keeping its sample format as is.
func loadRawWave(_ *Manager, asset string, data []byte) (any, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: %q is not a RIFF WAVE file", ErrCorrupt, asset)
	}
	s := &graphics.SoundEffect{}
	var haveFormat, haveData bool
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4:]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return nil, fmt.Errorf("%w: %q chunk %q overruns file", ErrCorrupt, asset, id)
		}
		switch id {
		case "fmt ":
			f, err := parseWaveFormat(data[body : body+size])
			if err != nil {
				return nil, err
			}
			s.Format = f
			haveFormat = true
		case "data":
			s.Data = append([]byte(nil), data[body:body+size]...)
			haveData = true
		}
		// Chunks are padded to an even size.
		off = body + size + size&1
	}
	if !haveFormat || !haveData {
		return nil, fmt.Errorf("%w: %q lacks fmt or data chunk", ErrCorrupt, asset)
	}
	return s, nil
}
