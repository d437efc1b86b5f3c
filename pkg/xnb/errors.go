package xnb

import "errors"

var (
	ErrInvalidSignature       = errors.New("xnb: invalid signature")
	ErrUnknownPlatform        = errors.New("xnb: unknown platform")
	ErrUnsupportedVersion     = errors.New("xnb: unsupported version")
	ErrUnsupportedCompression = errors.New("xnb: unsupported compression")
	ErrCorruptPayload         = errors.New("xnb: corrupt payload")
)
