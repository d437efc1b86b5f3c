// Package lzx implements the LZX decompressor used by compressed XNB
// containers.
//
// LZX is a windowed LZ77 variant with Huffman-coded literals, match lengths
// and aligned offset bits. XNB payloads are split into frames of at most
// 32 KB of output; each frame is decoded independently at the bit level but
// shares the sliding window, the repeated-offset queue and the Huffman
// length tables with every frame before it. A Decoder therefore has to see
// the frames of one payload in order.
package lzx

import "errors"

// Block types.
type blockType uint8

const (
	blockInvalid      blockType = 0
	blockVerbatim     blockType = 1
	blockAligned      blockType = 2
	blockUncompressed blockType = 3
)

func (t blockType) String() string {
	switch t {
	case blockVerbatim:
		return "verbatim"
	case blockAligned:
		return "aligned"
	case blockUncompressed:
		return "uncompressed"
	default:
		return "invalid"
	}
}

const (
	minMatch            = 2
	numChars            = 256
	numPrimaryLengths   = 7
	numSecondaryLengths = 249

	pretreeNumElements = 20
	alignedNumElements = 8

	pretreeMaxSymbols  = pretreeNumElements
	pretreeTableBits   = 6
	mainTreeMaxSymbols = numChars + 50*8
	mainTreeTableBits  = 12
	lengthMaxSymbols   = numSecondaryLengths + 1
	lengthTableBits    = 12
	alignedMaxSymbols  = alignedNumElements
	alignedTableBits   = 7

	lenTableSafety = 64
)

// XNBWindowBits is the window size used by every XNB encoder (64 KB).
const XNBWindowBits = 16

var (
	// ErrCorruptStream reports a bitstream that cannot be decoded.
	ErrCorruptStream = errors.New("lzx: corrupt stream")
	// ErrWindowSize reports a window size outside 2^15..2^21.
	ErrWindowSize = errors.New("lzx: unsupported window size")
)

var (
	extraBits    [52]uint32
	positionBase [51]uint32
)

func init() {
	j := uint32(0)
	for i := 0; i <= 50; i += 2 {
		extraBits[i] = j
		extraBits[i+1] = j
		if i != 0 && j < 17 {
			j++
		}
	}
	j = 0
	for i := 0; i <= 50; i++ {
		positionBase[i] = j
		j += 1 << extraBits[i]
	}
}
