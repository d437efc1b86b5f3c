package xnb

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/sys/unix"

	"github.com/samcharles93/xnacore/pkg/lzx"
)

// File is a decoded XNB container. Payload is the decompressed content
// stream.
type File struct {
	Header  Header
	Payload []byte

	mapping []byte
}

// Close releases the file mapping, if any. Payload must not be used after
// Close when the file was opened uncompressed through Open.
func (f *File) Close() error {
	if f == nil || f.mapping == nil {
		return nil
	}
	m := f.mapping
	f.mapping = nil
	f.Payload = nil
	return unix.Munmap(m)
}

// Read decodes a container from a stream. Exactly Header.FileSize bytes are
// consumed on success.
func Read(r io.Reader) (*File, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	stored, err := io.ReadAll(io.LimitReader(r, int64(h.PayloadSize())))
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrCorruptPayload, err)
	}
	if len(stored) != h.PayloadSize() {
		return nil, fmt.Errorf("%w: payload: got %d of %d bytes", ErrCorruptPayload, len(stored), h.PayloadSize())
	}
	payload, err := decodePayload(h, stored)
	if err != nil {
		return nil, err
	}
	return &File{Header: h, Payload: payload}, nil
}

// Parse decodes an in-memory container. Uncompressed payloads alias data.
func Parse(data []byte) (*File, error) {
	h, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if int(h.FileSize) > len(data) {
		return nil, fmt.Errorf("%w: file size %d exceeds %d available bytes", ErrCorruptPayload, h.FileSize, len(data))
	}
	payload, err := decodePayload(h, data[h.Size():h.FileSize])
	if err != nil {
		return nil, err
	}
	return &File{Header: h, Payload: payload}, nil
}

// Open maps path read-only and decodes it. If mmap is unavailable the file
// is read into memory instead. The returned file must be closed.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 < int64(headerSize) || size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: %s: file size %d", ErrCorruptPayload, path, size64)
	}
	size := int(size64)

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return Read(f)
	}
	xf, err := Parse(data)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}
	if xf.Header.Compression() != CompressionNone {
		// Decompressed payloads live on the heap; the mapping is not needed.
		_ = unix.Munmap(data)
		return xf, nil
	}
	xf.mapping = data
	return xf, nil
}

// maxLZ4Ratio bounds how far one LZ4 block byte can expand.
const maxLZ4Ratio = 255

func decodePayload(h Header, stored []byte) ([]byte, error) {
	size := int(h.DecompressedSize)
	switch h.Compression() {
	case CompressionNone:
		return stored, nil
	case CompressionLZX:
		out, produced, err := lzx.DecompressFrames(stored, size)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
		}
		if produced != size {
			return nil, fmt.Errorf("%w: decompressed %d bytes, header declares %d", ErrCorruptPayload, produced, size)
		}
		return out, nil
	case CompressionLZ4:
		if size > len(stored)*maxLZ4Ratio {
			return nil, fmt.Errorf("%w: %d stored bytes cannot produce %d", ErrCorruptPayload, len(stored), size)
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCorruptPayload, err)
		}
		if n != size {
			return nil, fmt.Errorf("%w: decompressed %d bytes, header declares %d", ErrCorruptPayload, n, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: flags 0x%02x", ErrUnsupportedCompression, h.Flags)
	}
}
