package content

import (
	"fmt"
	"sync"
)

// TypeReader materializes one runtime object from the payload.
type TypeReader interface {
	// TargetType is the unqualified name of the produced type, such as
	// "Vector3" or "List`1".
	TargetType() string
	// ValueType reports whether collections store the value raw rather
	// than as a full object with a reader index.
	ValueType() bool
	Read(r *Reader, existing any) (any, error)
}

// ReaderFactory builds a reader for the given generic arguments. Non
// generic readers ignore args.
type ReaderFactory func(types *TypeReaders, args []TypeName) (TypeReader, error)

// TypeReaders resolves reader names from an asset's type reader table. It
// is keyed by unqualified reader name ("Texture2DReader", "ListReader`1").
type TypeReaders struct {
	mu        sync.RWMutex
	factories map[string]ReaderFactory
}

func NewTypeReaders() *TypeReaders {
	return &TypeReaders{factories: make(map[string]ReaderFactory)}
}

// DefaultTypeReaders returns a set holding every built-in reader.
func DefaultTypeReaders() *TypeReaders {
	t := NewTypeReaders()
	registerPrimitives(t)
	registerMath(t)
	registerCollections(t)
	registerGraphics(t)
	return t
}

// Register adds or replaces the factory for a reader name.
func (t *TypeReaders) Register(name string, f ReaderFactory) {
	t.mu.Lock()
	t.factories[name] = f
	t.mu.Unlock()
}

// Resolve parses a reader name from a type reader table and builds it.
func (t *TypeReaders) Resolve(name string) (TypeReader, error) {
	tn, err := ParseTypeName(name)
	if err != nil {
		return nil, err
	}
	return t.resolve(tn)
}

func (t *TypeReaders) resolve(tn TypeName) (TypeReader, error) {
	t.mu.RLock()
	f, ok := t.factories[tn.Short()]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReader, tn)
	}
	return f(t, tn.Args)
}

// ForType finds the reader for a target type named as a generic argument:
// System.Int32 resolves through Int32Reader, List`1[[T]] through
// ListReader`1[[T]] and T[] through ArrayReader`1[[T]].
func (t *TypeReaders) ForType(tn TypeName) (TypeReader, error) {
	if tn.Array {
		elem := tn
		elem.Array = false
		return t.resolve(TypeName{Name: "ArrayReader`1", Args: []TypeName{elem}})
	}
	short := tn.Short()
	name := short + "Reader"
	if tn.arity() > 0 {
		for i := len(short) - 1; i >= 0; i-- {
			if short[i] == '`' {
				name = short[:i] + "Reader" + short[i:]
				break
			}
		}
	}
	return t.resolve(TypeName{Name: name, Args: tn.Args})
}

func (t *TypeReaders) forArgs(reader string, args []TypeName, want int) ([]TypeReader, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%w: %s wants %d type arguments, got %d", ErrBadTypeName, reader, want, len(args))
	}
	out := make([]TypeReader, len(args))
	for i, a := range args {
		tr, err := t.ForType(a)
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", reader, i, err)
		}
		out[i] = tr
	}
	return out, nil
}

// readerFunc adapts a function to TypeReader.
type readerFunc struct {
	target string
	value  bool
	read   func(r *Reader, existing any) (any, error)
}

func (f *readerFunc) TargetType() string { return f.target }
func (f *readerFunc) ValueType() bool    { return f.value }
func (f *readerFunc) Read(r *Reader, existing any) (any, error) {
	return f.read(r, existing)
}

// simple registers a non-generic reader named target+"Reader".
func simple(t *TypeReaders, target string, value bool, read func(r *Reader, existing any) (any, error)) {
	tr := &readerFunc{target: target, value: value, read: read}
	t.Register(target+"Reader", func(*TypeReaders, []TypeName) (TypeReader, error) { return tr, nil })
}
