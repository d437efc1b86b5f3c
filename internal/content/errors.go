package content

import (
	"errors"
	"fmt"
)

var (
	ErrContentLoad         = errors.New("content: load failed")
	ErrUnknownReader       = errors.New("content: unknown type reader")
	ErrBadTypeName         = errors.New("content: malformed type name")
	ErrBadReaderIndex      = errors.New("content: type reader index out of range")
	ErrSharedResourceRange = errors.New("content: shared resource index out of range")
	ErrTruncated           = errors.New("content: unexpected end of data")
	ErrCorrupt             = errors.New("content: corrupt object stream")
	ErrCyclicReference     = errors.New("content: cyclic external reference")
	ErrNoDevice            = errors.New("content: no graphics device")
	ErrManagerClosed       = errors.New("content: manager closed")
)

// LoadError reports an I/O failure at the point an asset is opened. Every
// such failure matches ErrContentLoad.
type LoadError struct {
	Asset string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("content: load %q: %v", e.Asset, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrContentLoad, e.Err} }

// TypeMismatchError is returned when the root object of an asset is not
// the type the caller asked for.
type TypeMismatchError struct {
	Asset string
	Want  string
	Got   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("content: asset %q is %s, not %s", e.Asset, e.Got, e.Want)
}

func (e *TypeMismatchError) Unwrap() error { return ErrContentLoad }
