package content

import (
	"fmt"
	"time"

	"github.com/samcharles93/xnacore/internal/graphics"
)

func registerPrimitives(t *TypeReaders) {
	simple(t, "Boolean", true, func(r *Reader, _ any) (any, error) { return r.ReadBoolean() })
	simple(t, "Byte", true, func(r *Reader, _ any) (any, error) { return r.ReadByte() })
	simple(t, "SByte", true, func(r *Reader, _ any) (any, error) { return r.ReadSByte() })
	simple(t, "Char", true, func(r *Reader, _ any) (any, error) { return r.ReadChar() })
	simple(t, "Int16", true, func(r *Reader, _ any) (any, error) { return r.ReadInt16() })
	simple(t, "UInt16", true, func(r *Reader, _ any) (any, error) { return r.ReadUInt16() })
	simple(t, "Int32", true, func(r *Reader, _ any) (any, error) { return r.ReadInt32() })
	simple(t, "UInt32", true, func(r *Reader, _ any) (any, error) { return r.ReadUInt32() })
	simple(t, "Int64", true, func(r *Reader, _ any) (any, error) { return r.ReadInt64() })
	simple(t, "UInt64", true, func(r *Reader, _ any) (any, error) { return r.ReadUInt64() })
	simple(t, "Single", true, func(r *Reader, _ any) (any, error) { return r.ReadSingle() })
	simple(t, "Double", true, func(r *Reader, _ any) (any, error) { return r.ReadDouble() })
	simple(t, "String", false, func(r *Reader, _ any) (any, error) { return r.ReadString() })
	simple(t, "TimeSpan", true, func(r *Reader, _ any) (any, error) {
		ticks, err := r.ReadInt64()
		return time.Duration(ticks) * 100, err
	})
	// Object is only ever named as a generic argument; its elements always
	// carry their own reader index.
	simple(t, "Object", false, func(r *Reader, _ any) (any, error) { return r.ReadObject() })
	simple(t, "ExternalReference", false, func(r *Reader, _ any) (any, error) { return r.ReadExternalReference() })
}

func registerMath(t *TypeReaders) {
	simple(t, "Vector2", true, func(r *Reader, _ any) (any, error) { return r.ReadVector2() })
	simple(t, "Vector3", true, func(r *Reader, _ any) (any, error) { return r.ReadVector3() })
	simple(t, "Vector4", true, func(r *Reader, _ any) (any, error) { return r.ReadVector4() })
	simple(t, "Quaternion", true, func(r *Reader, _ any) (any, error) { return r.ReadQuaternion() })
	simple(t, "Matrix", true, func(r *Reader, _ any) (any, error) { return r.ReadMatrix() })
	simple(t, "Color", true, func(r *Reader, _ any) (any, error) { return r.ReadColor() })
	simple(t, "Point", true, func(r *Reader, _ any) (any, error) { return readPoint(r) })
	simple(t, "Rectangle", true, func(r *Reader, _ any) (any, error) { return readRectangle(r) })
	simple(t, "BoundingSphere", true, func(r *Reader, _ any) (any, error) { return readBoundingSphere(r) })
	simple(t, "BoundingBox", true, func(r *Reader, _ any) (any, error) {
		min, err := r.ReadVector3()
		if err != nil {
			return nil, err
		}
		max, err := r.ReadVector3()
		return graphics.BoundingBox{Min: min, Max: max}, err
	})
}

func readPoint(r *Reader) (graphics.Point, error) {
	var v [2]int32
	for i := range v {
		n, err := r.ReadInt32()
		if err != nil {
			return graphics.Point{}, err
		}
		v[i] = n
	}
	return graphics.Point{X: v[0], Y: v[1]}, nil
}

func readRectangle(r *Reader) (graphics.Rectangle, error) {
	var v [4]int32
	for i := range v {
		n, err := r.ReadInt32()
		if err != nil {
			return graphics.Rectangle{}, err
		}
		v[i] = n
	}
	return graphics.Rectangle{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func readBoundingSphere(r *Reader) (graphics.BoundingSphere, error) {
	c, err := r.ReadVector3()
	if err != nil {
		return graphics.BoundingSphere{}, err
	}
	radius, err := r.ReadSingle()
	return graphics.BoundingSphere{Center: c, Radius: radius}, err
}

func registerCollections(t *TypeReaders) {
	// Enums are stored as their Int32 underlying value.
	t.Register("EnumReader`1", func(_ *TypeReaders, args []TypeName) (TypeReader, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: EnumReader`1 wants 1 type argument", ErrBadTypeName)
		}
		return &readerFunc{target: "Enum`1", value: true, read: func(r *Reader, _ any) (any, error) {
			return r.ReadInt32()
		}}, nil
	})

	t.Register("NullableReader`1", func(types *TypeReaders, args []TypeName) (TypeReader, error) {
		elems, err := types.forArgs("NullableReader`1", args, 1)
		if err != nil {
			return nil, err
		}
		elem := elems[0]
		return &readerFunc{target: "Nullable`1", value: true, read: func(r *Reader, _ any) (any, error) {
			has, err := r.ReadBoolean()
			if err != nil || !has {
				return nil, err
			}
			return r.ReadRawObject(elem, nil)
		}}, nil
	})

	list := func(name, target string) {
		t.Register(name, func(types *TypeReaders, args []TypeName) (TypeReader, error) {
			elems, err := types.forArgs(name, args, 1)
			if err != nil {
				return nil, err
			}
			elem := elems[0]
			return &readerFunc{target: target, read: func(r *Reader, _ any) (any, error) {
				return readList(r, elem)
			}}, nil
		})
	}
	list("ListReader`1", "List`1")
	list("ArrayReader`1", "Array`1")

	t.Register("DictionaryReader`2", func(types *TypeReaders, args []TypeName) (TypeReader, error) {
		kv, err := types.forArgs("DictionaryReader`2", args, 2)
		if err != nil {
			return nil, err
		}
		return &readerFunc{target: "Dictionary`2", read: func(r *Reader, _ any) (any, error) {
			n, err := r.ReadUInt32()
			if err != nil {
				return nil, err
			}
			if int64(n) > int64(r.Remaining()) {
				return nil, fmt.Errorf("%w: dictionary of %d entries", ErrCorrupt, n)
			}
			out := make(map[any]any, n)
			for i := uint32(0); i < n; i++ {
				k, err := r.ReadElement(kv[0])
				if err != nil {
					return nil, err
				}
				v, err := r.ReadElement(kv[1])
				if err != nil {
					return nil, err
				}
				out[k] = v
			}
			return out, nil
		}}, nil
	})
}

func readList(r *Reader, elem TypeReader) ([]any, error) {
	n, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	if int64(n) > int64(r.Remaining()) {
		return nil, fmt.Errorf("%w: list of %d elements", ErrCorrupt, n)
	}
	out := make([]any, n)
	for i := range out {
		if out[i], err = r.ReadElement(elem); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// listOf converts a decoded list to a typed slice.
func listOf[T any](v any, what string) ([]T, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not a list", ErrCorrupt, what, v)
	}
	out := make([]T, len(items))
	for i, it := range items {
		t, ok := it.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %s element %d is %T", ErrCorrupt, what, i, it)
		}
		out[i] = t
	}
	return out, nil
}
