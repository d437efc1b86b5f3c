package lzx

import "fmt"

// DefaultFrameSize is the decompressed size of a frame whose header does
// not carry one.
const DefaultFrameSize = 0x8000

// MaxOutput is the most a frame sequence of n stored bytes can produce.
// Every frame costs at least a 2-byte header and one block byte and yields
// at most 0xFFFF bytes.
func MaxOutput(n int) int { return n / 3 * 0xFFFF }

// DecompressFrames decodes the frame sequence of a compressed XNB payload
// into a buffer of exactly decompressedSize bytes.
//
// Each frame starts with a big-endian block size. A first byte of 0xFF
// instead introduces an explicit big-endian frame size followed by the
// block size. A zero block or frame size ends decoding early. The number of
// bytes actually produced is returned so the caller can check it against
// the declared size.
func DecompressFrames(src []byte, decompressedSize int) ([]byte, int, error) {
	if decompressedSize < 0 {
		return nil, 0, fmt.Errorf("%w: negative output size %d", ErrCorruptStream, decompressedSize)
	}
	if decompressedSize > MaxOutput(len(src)) {
		return nil, 0, fmt.Errorf("%w: %d stored bytes cannot produce %d", ErrCorruptStream, len(src), decompressedSize)
	}
	dec, err := NewDecoder(XNBWindowBits)
	if err != nil {
		return nil, 0, err
	}

	out := make([]byte, decompressedSize)
	pos, produced := 0, 0
	for pos < len(src) {
		if pos+2 > len(src) {
			return nil, produced, fmt.Errorf("%w: truncated frame header at %d", ErrCorruptStream, pos)
		}
		hi, lo := src[pos], src[pos+1]
		blockSize := int(hi)<<8 | int(lo)
		frameSize := DefaultFrameSize
		if hi == 0xFF {
			if pos+5 > len(src) {
				return nil, produced, fmt.Errorf("%w: truncated frame header at %d", ErrCorruptStream, pos)
			}
			frameSize = int(src[pos+1])<<8 | int(src[pos+2])
			blockSize = int(src[pos+3])<<8 | int(src[pos+4])
			pos += 5
		} else {
			pos += 2
		}

		if blockSize == 0 || frameSize == 0 {
			break
		}
		if pos+blockSize > len(src) {
			return nil, produced, fmt.Errorf("%w: block of %d bytes at %d runs past payload", ErrCorruptStream, blockSize, pos)
		}
		if produced+frameSize > len(out) {
			return nil, produced, fmt.Errorf("%w: frame overruns declared size %d", ErrCorruptStream, decompressedSize)
		}

		if err := dec.Decompress(src[pos:pos+blockSize], out[produced:produced+frameSize]); err != nil {
			return nil, produced, fmt.Errorf("frame at %d: %w", pos, err)
		}
		produced += frameSize
		pos += blockSize
	}
	return out, produced, nil
}
