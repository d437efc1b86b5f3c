// Package content loads compiled assets. A Manager opens an asset's
// container, resolves the type readers its payload names and reads the
// object graph, caching each asset by its normalized name.
package content

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"reflect"
	"sort"
	"strings"

	"github.com/samcharles93/xnacore/internal/effect"
	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/internal/logger"
	"github.com/samcharles93/xnacore/pkg/xnb"
)

// Manager loads and caches assets below a root directory of an fs.FS. It
// is not safe for concurrent use.
type Manager struct {
	fsys   fs.FS
	root   string
	device *graphics.Device
	types  *TypeReaders
	log    logger.Logger

	assets   map[string]any
	names    map[string]string
	loading  map[string]bool
	registry *Registry
	closed   bool
}

type Option func(*Manager)

func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithTypeReaders replaces the built-in reader set.
func WithTypeReaders(t *TypeReaders) Option {
	return func(m *Manager) {
		if t != nil {
			m.types = t
		}
	}
}

func NewManager(fsys fs.FS, root string, device *graphics.Device, opts ...Option) *Manager {
	m := &Manager{
		fsys:    fsys,
		root:    NormalizeAssetName(root),
		device:  device,
		log:     logger.Discard(),
		assets:  make(map[string]any),
		names:   make(map[string]string),
		loading: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.types == nil {
		m.types = DefaultTypeReaders()
	}
	return m
}

func (m *Manager) RootDirectory() string    { return m.root }
func (m *Manager) Device() *graphics.Device { return m.device }

// NormalizeAssetName cleans name into a forward-slash path relative to the
// manager root, without the compiled extension.
func NormalizeAssetName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)[1:]
	if ext := path.Ext(name); strings.EqualFold(ext, xnb.Extension) {
		name = name[:len(name)-len(ext)]
	}
	if name == "" {
		return "."
	}
	return name
}

func cacheKey(asset string) string { return strings.ToLower(asset) }

// Load returns the asset named name, reading it on first use.
func (m *Manager) Load(name string) (any, error) {
	if m.closed {
		return nil, ErrManagerClosed
	}
	asset := NormalizeAssetName(name)
	key := cacheKey(asset)
	if v, ok := m.assets[key]; ok {
		return v, nil
	}
	if m.loading[key] {
		return nil, fmt.Errorf("%w: %q", ErrCyclicReference, asset)
	}
	m.loading[key] = true
	defer delete(m.loading, key)

	v, err := m.read(asset)
	if err != nil {
		m.log.Warn("content load failed", "asset", asset, "error", err)
		return nil, err
	}
	m.assets[key] = v
	m.names[key] = asset
	m.log.Debug("content loaded", "asset", asset, "type", fmt.Sprintf("%T", v))
	return v, nil
}

// Load returns the asset named name as a T.
func Load[T any](m *Manager, name string) (T, error) {
	var zero T
	v, err := m.Load(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Asset: NormalizeAssetName(name),
			Want:  reflect.TypeFor[T]().String(),
			Got:   fmt.Sprintf("%T", v),
		}
	}
	return t, nil
}

func (m *Manager) filePath(asset string) string {
	if m.root == "." {
		return asset
	}
	return path.Join(m.root, asset)
}

// read opens the compiled form, falling back to a raw file only when the
// compiled form does not exist.
func (m *Manager) read(asset string) (any, error) {
	data, err := fs.ReadFile(m.fsys, m.filePath(asset+xnb.Extension))
	if err != nil {
		openErr := &LoadError{Asset: asset, Err: err}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, openErr
		}
		v, rawErr := m.readRaw(asset)
		if rawErr != nil {
			m.log.Debug("raw fallback failed", "asset", asset, "error", rawErr)
			return nil, openErr
		}
		return v, nil
	}
	return m.Decode(asset, data)
}

// Decode reads an asset from the bytes of a compiled container.
func (m *Manager) Decode(asset string, data []byte) (any, error) {
	f, err := xnb.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content: %q: %w", asset, err)
	}
	v, err := newReader(m, m.types, asset, f.Header, f.Payload).ReadAsset()
	if err != nil {
		return nil, fmt.Errorf("content: %q: %w", asset, err)
	}
	return v, nil
}

func (m *Manager) newEffect(code []byte) (*effect.Effect, error) {
	if m == nil || m.device == nil {
		return nil, ErrNoDevice
	}
	return effect.New(m.device, code, effect.WithLogger(m.log))
}

// Loaded returns the normalized names of every cached asset, sorted.
func (m *Manager) Loaded() []string {
	out := make([]string, 0, len(m.names))
	for _, n := range m.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Unload drops every cached asset, closing those that hold resources.
func (m *Manager) Unload() error {
	var errs []error
	for key, v := range m.assets {
		if c, ok := v.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %q: %w", m.names[key], err))
			}
		}
	}
	clear(m.assets)
	clear(m.names)
	return errors.Join(errs...)
}

// Close unloads everything and leaves the registry the manager is in.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	err := m.Unload()
	if m.registry != nil {
		m.registry.Unregister(m)
	}
	m.closed = true
	return err
}

// ReloadGraphicsAssets re-reads every cached texture and buffer from disk
// and overwrites the cached object in place, so references held by
// callers see the new data.
func (m *Manager) ReloadGraphicsAssets() error {
	if m.closed {
		return ErrManagerClosed
	}
	var errs []error
	reloaded := 0
	for key, v := range m.assets {
		if !reloadable(v) {
			continue
		}
		asset := m.names[key]
		fresh, err := m.read(asset)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := replaceInPlace(v, fresh); err != nil {
			errs = append(errs, fmt.Errorf("content: reload %q: %w", asset, err))
			continue
		}
		reloaded++
	}
	m.log.Info("graphics assets reloaded", "root", m.root, "count", reloaded, "failed", len(errs))
	return errors.Join(errs...)
}

func reloadable(v any) bool {
	switch v.(type) {
	case *graphics.Texture2D, *graphics.Texture3D, *graphics.TextureCube, *graphics.VertexBuffer, *graphics.IndexBuffer:
		return true
	}
	return false
}

func replaceInPlace(dst, src any) error {
	switch d := dst.(type) {
	case *graphics.Texture2D:
		if s, ok := src.(*graphics.Texture2D); ok {
			*d = *s
			return nil
		}
	case *graphics.Texture3D:
		if s, ok := src.(*graphics.Texture3D); ok {
			*d = *s
			return nil
		}
	case *graphics.TextureCube:
		if s, ok := src.(*graphics.TextureCube); ok {
			*d = *s
			return nil
		}
	case *graphics.VertexBuffer:
		if s, ok := src.(*graphics.VertexBuffer); ok {
			*d = *s
			return nil
		}
	case *graphics.IndexBuffer:
		if s, ok := src.(*graphics.IndexBuffer); ok {
			*d = *s
			return nil
		}
	}
	return fmt.Errorf("asset changed type from %T to %T", dst, src)
}
