package lzx

import "fmt"

// makeDecodeTable builds a fast lookup table for canonical Huffman codes.
// Codes up to nbits long resolve with a single table lookup; longer codes
// continue through a binary tree stored after the direct entries.
func makeDecodeTable(nsyms, nbits uint, length []byte, table []uint16) error {
	var pos uint32
	tableMask := uint32(1) << nbits
	bitMask := tableMask >> 1
	nextSymbol := bitMask
	bitNum := uint(1)

	for ; bitNum <= nbits; bitNum++ {
		for sym := uint(0); sym < nsyms; sym++ {
			if uint(length[sym]) != bitNum {
				continue
			}
			leaf := pos
			pos += bitMask
			if pos > tableMask {
				return fmt.Errorf("%w: huffman table overrun", ErrCorruptStream)
			}
			for fill := bitMask; fill > 0; fill-- {
				table[leaf] = uint16(sym)
				leaf++
			}
		}
		bitMask >>= 1
	}

	if pos != tableMask {
		for sym := pos; sym < tableMask; sym++ {
			table[sym] = 0
		}

		pos <<= 16
		tableMask <<= 16
		bitMask = 1 << 15

		for ; bitNum <= 16; bitNum++ {
			for sym := uint(0); sym < nsyms; sym++ {
				if uint(length[sym]) != bitNum {
					continue
				}
				leaf := pos >> 16
				for fill := uint(0); fill < bitNum-nbits; fill++ {
					if table[leaf] == 0 {
						node := nextSymbol << 1
						if int(node)+1 >= len(table) {
							return fmt.Errorf("%w: huffman tree overflow", ErrCorruptStream)
						}
						table[node] = 0
						table[node+1] = 0
						table[leaf] = uint16(nextSymbol)
						nextSymbol++
					}
					leaf = uint32(table[leaf]) << 1
					if (pos>>(15-fill))&1 == 1 {
						leaf++
					}
				}
				table[leaf] = uint16(sym)
				pos += bitMask
				if pos > tableMask {
					return fmt.Errorf("%w: huffman table overrun", ErrCorruptStream)
				}
			}
			bitMask >>= 1
		}
	}

	if pos == tableMask {
		return nil
	}

	// An incomplete table is only legal when every length is zero.
	for sym := uint(0); sym < nsyms; sym++ {
		if length[sym] != 0 {
			return fmt.Errorf("%w: incomplete huffman table", ErrCorruptStream)
		}
	}
	return nil
}

// readLengths reads the code lengths for lens[first:last] as deltas against
// the lengths of the previous block, using a freshly transmitted pretree.
func (d *Decoder) readLengths(br *bitReader, lens []byte, first, last uint) error {
	for x := 0; x < pretreeNumElements; x++ {
		d.pretreeLen[x] = byte(br.read(4))
	}
	if err := makeDecodeTable(pretreeMaxSymbols, pretreeTableBits, d.pretreeLen, d.pretreeTable); err != nil {
		return err
	}

	for x := first; x < last; {
		z, err := br.readHuffSym(d.pretreeTable, d.pretreeLen, pretreeMaxSymbols, pretreeTableBits)
		if err != nil {
			return err
		}
		switch z {
		case 17:
			run := br.read(4) + 4
			if x+uint(run) > uint(len(lens)) {
				return fmt.Errorf("%w: length run overflow", ErrCorruptStream)
			}
			for ; run > 0; run-- {
				lens[x] = 0
				x++
			}
		case 18:
			run := br.read(5) + 20
			if x+uint(run) > uint(len(lens)) {
				return fmt.Errorf("%w: length run overflow", ErrCorruptStream)
			}
			for ; run > 0; run-- {
				lens[x] = 0
				x++
			}
		case 19:
			run := br.read(1) + 4
			sym, err := br.readHuffSym(d.pretreeTable, d.pretreeLen, pretreeMaxSymbols, pretreeTableBits)
			if err != nil {
				return err
			}
			if x+uint(run) > uint(len(lens)) {
				return fmt.Errorf("%w: length run overflow", ErrCorruptStream)
			}
			v := deltaLength(lens[x], sym)
			for ; run > 0; run-- {
				lens[x] = v
				x++
			}
		default:
			lens[x] = deltaLength(lens[x], z)
			x++
		}
	}
	return nil
}

func deltaLength(prev byte, z uint32) byte {
	v := int(prev) - int(z)
	if v < 0 {
		v += 17
	}
	return byte(v)
}
