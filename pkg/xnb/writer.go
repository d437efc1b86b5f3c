package xnb

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/samcharles93/xnacore/pkg/lzx"
)

// Encode builds a container around payload. The compression flags of h
// select the codec; sizes are filled in. LZX output uses stored blocks. An
// LZ4 payload that does not shrink is written uncompressed.
func Encode(h Header, payload []byte) ([]byte, error) {
	if !h.Platform.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, byte(h.Platform))
	}
	if h.Version != VersionXNA31 && h.Version != VersionXNA40 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	stored := payload
	switch h.Compression() {
	case CompressionNone:
	case CompressionLZX:
		if h.Flags&FlagCompressedLZ4 != 0 {
			return nil, fmt.Errorf("%w: both lzx and lz4 flags set", ErrUnsupportedCompression)
		}
		stored = lzx.StoreFrames(payload)
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(payload) {
			h.Flags &^= FlagCompressedLZ4
		} else {
			stored = dst[:n]
		}
	}

	h.DecompressedSize = 0
	if h.Compression() != CompressionNone {
		h.DecompressedSize = uint32(len(payload))
	}
	total := h.Size() + len(stored)
	if total > int(^uint32(0)>>1) {
		return nil, fmt.Errorf("%w: container of %d bytes too large", ErrCorruptPayload, total)
	}
	h.FileSize = uint32(total)

	out := make([]byte, 0, total)
	out = AppendHeader(out, h)
	out = append(out, stored...)
	return out, nil
}

// Write encodes payload and writes the container to w.
func Write(w io.Writer, h Header, payload []byte) error {
	data, err := Encode(h, payload)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
