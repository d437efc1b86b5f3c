package lzx

// bitReader reads the LZX bitstream: 16-bit little-endian words consumed
// most significant bit first. Reads past the end of src yield zero bits;
// the decoder peeks ahead while building symbols and never consumes them.
type bitReader struct {
	src  []byte
	pos  int
	buf  uint32
	left uint
}

func (b *bitReader) reset() {
	b.buf = 0
	b.left = 0
}

func (b *bitReader) nextByte() uint32 {
	if b.pos >= len(b.src) {
		b.pos++
		return 0
	}
	v := b.src[b.pos]
	b.pos++
	return uint32(v)
}

func (b *bitReader) ensure(n uint) {
	for b.left < n {
		lo := b.nextByte()
		hi := b.nextByte()
		b.buf |= (hi<<8 | lo) << (32 - 16 - b.left)
		b.left += 16
	}
}

func (b *bitReader) peek(n uint) uint32 {
	return b.buf >> (32 - n)
}

func (b *bitReader) remove(n uint) {
	b.buf <<= n
	b.left -= n
}

func (b *bitReader) read(n uint) uint32 {
	if n == 0 {
		return 0
	}
	b.ensure(n)
	v := b.peek(n)
	b.remove(n)
	return v
}

// readHuffSym decodes one symbol using a table built by makeDecodeTable.
func (b *bitReader) readHuffSym(table []uint16, lengths []byte, nsyms, nbits uint) (uint32, error) {
	b.ensure(16)
	i := uint32(table[b.peek(nbits)])
	if i >= uint32(nsyms) {
		j := uint32(1) << (32 - nbits)
		for {
			j >>= 1
			if j == 0 {
				return 0, ErrCorruptStream
			}
			i <<= 1
			if b.buf&j != 0 {
				i |= 1
			}
			if int(i) >= len(table) {
				return 0, ErrCorruptStream
			}
			i = uint32(table[i])
			if i < uint32(nsyms) {
				break
			}
		}
	}
	n := uint(lengths[i])
	if n == 0 || n > b.left {
		return 0, ErrCorruptStream
	}
	b.remove(n)
	return i, nil
}

// alignedRaw returns the byte offset of the first whole byte following the
// bits already consumed, discarding 1 to 16 padding bits.
func (b *bitReader) alignedRaw() int {
	b.ensure(16)
	if b.left > 16 {
		b.pos -= 2
	}
	b.reset()
	return b.pos
}
