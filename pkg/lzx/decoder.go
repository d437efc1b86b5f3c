package lzx

import (
	"encoding/binary"
	"fmt"
)

// Decoder holds the state LZX carries from one frame to the next.
type Decoder struct {
	window     []byte
	windowSize uint32
	windowPosn uint32

	r0, r1, r2 uint32

	mainElements   uint
	headerRead     bool
	blockType      blockType
	blockLength    uint32
	blockRemaining uint32
	framesRead     int

	intelFileSize int32
	intelCurPos   int32
	intelStarted  bool

	pretreeTable  []uint16
	pretreeLen    []byte
	mainTreeTable []uint16
	mainTreeLen   []byte
	lengthTable   []uint16
	lengthLen     []byte
	alignedTable  []uint16
	alignedLen    []byte
}

// NewDecoder returns a decoder for a window of 1<<windowBits bytes.
func NewDecoder(windowBits int) (*Decoder, error) {
	if windowBits < 15 || windowBits > 21 {
		return nil, fmt.Errorf("%w: %d bits", ErrWindowSize, windowBits)
	}
	size := uint32(1) << windowBits

	var posnSlots int
	switch windowBits {
	case 20:
		posnSlots = 42
	case 21:
		posnSlots = 50
	default:
		posnSlots = windowBits << 1
	}

	window := make([]byte, size)
	for i := range window {
		window[i] = 0xDC
	}

	return &Decoder{
		window:        window,
		windowSize:    size,
		r0:            1,
		r1:            1,
		r2:            1,
		mainElements:  uint(numChars + posnSlots<<3),
		blockType:     blockInvalid,
		pretreeTable:  make([]uint16, (1<<pretreeTableBits)+(pretreeMaxSymbols<<1)),
		pretreeLen:    make([]byte, pretreeMaxSymbols+lenTableSafety),
		mainTreeTable: make([]uint16, (1<<mainTreeTableBits)+(mainTreeMaxSymbols<<1)),
		mainTreeLen:   make([]byte, mainTreeMaxSymbols+lenTableSafety),
		lengthTable:   make([]uint16, (1<<lengthTableBits)+(lengthMaxSymbols<<1)),
		lengthLen:     make([]byte, lengthMaxSymbols+lenTableSafety),
		alignedTable:  make([]uint16, (1<<alignedTableBits)+(alignedMaxSymbols<<1)),
		alignedLen:    make([]byte, alignedMaxSymbols+lenTableSafety),
	}, nil
}

// Decompress decodes one frame. in holds exactly the frame's compressed
// bytes; out is filled completely.
func (d *Decoder) Decompress(in, out []byte) error {
	br := &bitReader{src: in}
	togo := int(len(out))
	if uint32(togo) > d.windowSize {
		return fmt.Errorf("%w: frame of %d bytes exceeds window", ErrCorruptStream, togo)
	}

	if !d.headerRead {
		if br.read(1) != 0 {
			hi := br.read(16)
			lo := br.read(16)
			d.intelFileSize = int32(hi<<16 | lo)
		}
		d.headerRead = true
	}

	for togo > 0 {
		if d.blockRemaining == 0 {
			if err := d.readBlockHeader(br); err != nil {
				return err
			}
		}

		for d.blockRemaining > 0 && togo > 0 {
			run := int(d.blockRemaining)
			if run > togo {
				run = togo
			}
			togo -= run
			d.blockRemaining -= uint32(run)

			d.windowPosn &= d.windowSize - 1
			if d.windowPosn+uint32(run) > d.windowSize {
				return fmt.Errorf("%w: run straddles window wrap", ErrCorruptStream)
			}

			var err error
			switch d.blockType {
			case blockVerbatim, blockAligned:
				err = d.decodeMatches(br, run)
			case blockUncompressed:
				err = d.copyRaw(br, run)
			default:
				err = fmt.Errorf("%w: block type %d", ErrCorruptStream, d.blockType)
			}
			if err != nil {
				return err
			}
		}
	}

	if br.pos > len(in)+2 {
		return fmt.Errorf("%w: frame read past its block", ErrCorruptStream)
	}

	start := int(d.windowPosn)
	if start == 0 {
		start = int(d.windowSize)
	}
	start -= len(out)
	copy(out, d.window[start:start+len(out)])

	d.translateE8(out)
	return nil
}

func (d *Decoder) readBlockHeader(br *bitReader) error {
	if d.blockType == blockUncompressed {
		// Uncompressed blocks are padded to a 16-bit boundary.
		if d.blockLength&1 == 1 {
			br.pos++
		}
		br.reset()
	}

	d.blockType = blockType(br.read(3))
	hi := br.read(16)
	lo := br.read(8)
	d.blockLength = hi<<8 | lo
	d.blockRemaining = d.blockLength

	switch d.blockType {
	case blockAligned:
		for i := 0; i < alignedNumElements; i++ {
			d.alignedLen[i] = byte(br.read(3))
		}
		if err := makeDecodeTable(alignedMaxSymbols, alignedTableBits, d.alignedLen, d.alignedTable); err != nil {
			return err
		}
		fallthrough
	case blockVerbatim:
		if err := d.readLengths(br, d.mainTreeLen, 0, numChars); err != nil {
			return err
		}
		if err := d.readLengths(br, d.mainTreeLen, numChars, d.mainElements); err != nil {
			return err
		}
		if err := makeDecodeTable(mainTreeMaxSymbols, mainTreeTableBits, d.mainTreeLen, d.mainTreeTable); err != nil {
			return err
		}
		if d.mainTreeLen[0xE8] != 0 {
			d.intelStarted = true
		}
		if err := d.readLengths(br, d.lengthLen, 0, numSecondaryLengths); err != nil {
			return err
		}
		if err := makeDecodeTable(lengthMaxSymbols, lengthTableBits, d.lengthLen, d.lengthTable); err != nil {
			return err
		}
	case blockUncompressed:
		d.intelStarted = true
		pos := br.alignedRaw()
		if pos+12 > len(br.src) {
			return fmt.Errorf("%w: truncated uncompressed block header", ErrCorruptStream)
		}
		d.r0 = binary.LittleEndian.Uint32(br.src[pos:])
		d.r1 = binary.LittleEndian.Uint32(br.src[pos+4:])
		d.r2 = binary.LittleEndian.Uint32(br.src[pos+8:])
		br.pos = pos + 12
	default:
		return fmt.Errorf("%w: block type %d", ErrCorruptStream, d.blockType)
	}
	return nil
}

func (d *Decoder) copyRaw(br *bitReader, run int) error {
	if br.pos+run > len(br.src) {
		return fmt.Errorf("%w: truncated uncompressed block", ErrCorruptStream)
	}
	copy(d.window[d.windowPosn:], br.src[br.pos:br.pos+run])
	br.pos += run
	d.windowPosn += uint32(run)
	return nil
}

func (d *Decoder) decodeMatches(br *bitReader, run int) error {
	aligned := d.blockType == blockAligned
	for run > 0 {
		mainElement, err := br.readHuffSym(d.mainTreeTable, d.mainTreeLen, mainTreeMaxSymbols, mainTreeTableBits)
		if err != nil {
			return err
		}
		if mainElement < numChars {
			d.window[d.windowPosn] = byte(mainElement)
			d.windowPosn++
			run--
			continue
		}

		mainElement -= numChars
		matchLength := mainElement & numPrimaryLengths
		if matchLength == numPrimaryLengths {
			footer, err := br.readHuffSym(d.lengthTable, d.lengthLen, lengthMaxSymbols, lengthTableBits)
			if err != nil {
				return err
			}
			matchLength += footer
		}
		matchLength += minMatch

		slot := mainElement >> 3
		var matchOffset uint32
		switch {
		case slot > 2:
			matchOffset, err = d.readOffset(br, slot, aligned)
			if err != nil {
				return err
			}
			d.r2, d.r1, d.r0 = d.r1, d.r0, matchOffset
		case slot == 0:
			matchOffset = d.r0
		case slot == 1:
			matchOffset = d.r1
			d.r1, d.r0 = d.r0, matchOffset
		default:
			matchOffset = d.r2
			d.r2, d.r0 = d.r0, matchOffset
		}

		if int(matchLength) > run {
			return fmt.Errorf("%w: match crosses frame boundary", ErrCorruptStream)
		}
		if matchOffset == 0 || matchOffset > d.windowSize {
			return fmt.Errorf("%w: match offset %d", ErrCorruptStream, matchOffset)
		}
		run -= int(matchLength)
		d.copyMatch(matchOffset, matchLength)
	}
	return nil
}

func (d *Decoder) readOffset(br *bitReader, slot uint32, aligned bool) (uint32, error) {
	if int(slot) >= len(positionBase) {
		return 0, fmt.Errorf("%w: position slot %d", ErrCorruptStream, slot)
	}
	extra := extraBits[slot]
	if !aligned {
		if slot == 3 {
			return 1, nil
		}
		return positionBase[slot] - 2 + br.read(uint(extra)), nil
	}

	offset := positionBase[slot] - 2
	switch {
	case extra > 3:
		offset += br.read(uint(extra-3)) << 3
		bits, err := br.readHuffSym(d.alignedTable, d.alignedLen, alignedMaxSymbols, alignedTableBits)
		if err != nil {
			return 0, err
		}
		offset += bits
	case extra == 3:
		bits, err := br.readHuffSym(d.alignedTable, d.alignedLen, alignedMaxSymbols, alignedTableBits)
		if err != nil {
			return 0, err
		}
		offset += bits
	case extra > 0:
		offset += br.read(uint(extra))
	default:
		offset = 1
	}
	return offset, nil
}

// copyMatch copies a back-reference inside the window, following the
// source across the wrap point when the offset reaches behind position 0.
func (d *Decoder) copyMatch(offset, length uint32) {
	dest := d.windowPosn
	var src uint32
	if d.windowPosn >= offset {
		src = dest - offset
	} else {
		src = dest + d.windowSize - offset
		wrapped := offset - d.windowPosn
		if wrapped < length {
			length -= wrapped
			d.windowPosn += wrapped
			for ; wrapped > 0; wrapped-- {
				d.window[dest] = d.window[src]
				dest++
				src++
			}
			src = 0
		}
	}
	d.windowPosn += length
	for ; length > 0; length-- {
		d.window[dest] = d.window[src]
		dest++
		src++
	}
}

// translateE8 undoes the x86 CALL translation for frames when the stream
// header enabled it.
func (d *Decoder) translateE8(out []byte) {
	d.framesRead++
	if d.intelFileSize == 0 {
		return
	}
	if !d.intelStarted || d.framesRead > 32768 || len(out) <= 10 {
		d.intelCurPos += int32(len(out))
		return
	}

	cur := d.intelCurPos
	end := len(out) - 10
	for i := 0; i < end; {
		if out[i] != 0xE8 {
			i++
			cur++
			continue
		}
		i++
		abs := int32(binary.LittleEndian.Uint32(out[i:]))
		if abs >= -cur && abs < d.intelFileSize {
			rel := abs + d.intelFileSize
			if abs >= 0 {
				rel = abs - cur
			}
			binary.LittleEndian.PutUint32(out[i:], uint32(rel))
		}
		i += 4
		cur += 5
	}
	d.intelCurPos += int32(len(out))
}
