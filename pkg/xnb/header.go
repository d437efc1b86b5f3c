package xnb

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Compression identifies the payload codec selected by the header flags.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionLZX
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZX:
		return "lzx"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Header is the decoded fixed prefix of an XNB file.
type Header struct {
	Platform Platform
	Version  byte
	Flags    byte

	// FileSize is the total container length, header included.
	FileSize uint32
	// DecompressedSize is only present when the payload is compressed.
	DecompressedSize uint32
}

func (h Header) HiDef() bool { return h.Flags&FlagHiDef != 0 }

func (h Header) Compression() Compression {
	switch {
	case h.Flags&FlagCompressedLZX != 0:
		return CompressionLZX
	case h.Flags&FlagCompressedLZ4 != 0:
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Size is the number of header bytes preceding the payload.
func (h Header) Size() int {
	if h.Compression() != CompressionNone {
		return compressedHeaderSize
	}
	return headerSize
}

// PayloadSize is the size of the payload as stored, before decompression.
func (h Header) PayloadSize() int {
	return int(h.FileSize) - h.Size()
}

// ReadHeader reads and validates the header field by field. A field that
// fails validation stops reading, so nothing after it is consumed.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	var buf [4]byte

	if _, err := io.ReadFull(r, buf[:3]); err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if string(buf[:3]) != Signature {
		return h, fmt.Errorf("%w: %q", ErrInvalidSignature, buf[:3])
	}

	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return h, fmt.Errorf("%w: %v", ErrUnknownPlatform, err)
	}
	h.Platform = Platform(buf[0])
	if !h.Platform.Known() {
		return h, fmt.Errorf("%w: %q", ErrUnknownPlatform, buf[0])
	}

	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return h, fmt.Errorf("%w: %v", ErrUnsupportedVersion, err)
	}
	h.Version = buf[0]
	if h.Version != VersionXNA31 && h.Version != VersionXNA40 {
		return h, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return h, fmt.Errorf("%w: flags: %v", ErrCorruptPayload, err)
	}
	h.Flags = buf[0]
	if h.Flags&FlagCompressedLZX != 0 && h.Flags&FlagCompressedLZ4 != 0 {
		return h, fmt.Errorf("%w: both lzx and lz4 flags set", ErrUnsupportedCompression)
	}

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return h, fmt.Errorf("%w: file size: %v", ErrCorruptPayload, err)
	}
	h.FileSize = binary.LittleEndian.Uint32(buf[:4])

	if h.Compression() != CompressionNone {
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return h, fmt.Errorf("%w: decompressed size: %v", ErrCorruptPayload, err)
		}
		h.DecompressedSize = binary.LittleEndian.Uint32(buf[:4])
	}

	if int32(h.FileSize) < int32(h.Size()) {
		return h, fmt.Errorf("%w: file size %d smaller than header", ErrCorruptPayload, int32(h.FileSize))
	}
	if int32(h.DecompressedSize) < 0 {
		return h, fmt.Errorf("%w: negative decompressed size", ErrCorruptPayload)
	}
	return h, nil
}

// AppendHeader encodes h. Sizes are written as given.
func AppendHeader(dst []byte, h Header) []byte {
	dst = append(dst, Signature...)
	dst = append(dst, byte(h.Platform), h.Version, h.Flags)
	dst = binary.LittleEndian.AppendUint32(dst, h.FileSize)
	if h.Compression() != CompressionNone {
		dst = binary.LittleEndian.AppendUint32(dst, h.DecompressedSize)
	}
	return dst
}
