package lzx

import "encoding/binary"

// bitWriter produces the LZX bit order: bits are packed most significant
// first into 16-bit words that are stored little-endian.
type bitWriter struct {
	out []byte
	acc uint32
	n   uint
}

func (w *bitWriter) write(v uint32, bits uint) {
	for i := int(bits) - 1; i >= 0; i-- {
		w.acc = w.acc<<1 | (v>>uint(i))&1
		w.n++
		if w.n == 16 {
			w.out = append(w.out, byte(w.acc), byte(w.acc>>8))
			w.acc = 0
			w.n = 0
		}
	}
}

// align pads to the next word boundary. An already aligned stream gets a
// whole padding word, which is what uncompressed block headers require.
func (w *bitWriter) align() {
	if w.n == 0 {
		w.write(0, 16)
		return
	}
	w.write(0, 16-w.n)
}

// flush pads the final partial word, if any.
func (w *bitWriter) flush() {
	if w.n > 0 {
		w.write(0, 16-w.n)
	}
}

// StoreFrames wraps data in XNB frames holding uncompressed LZX blocks, one
// block per frame. The result decodes with DecompressFrames.
func StoreFrames(data []byte) []byte {
	var out []byte
	first := true
	for off := 0; off < len(data); off += DefaultFrameSize {
		end := min(off+DefaultFrameSize, len(data))
		frame := data[off:end]

		w := &bitWriter{}
		if first {
			w.write(0, 1) // no E8 translation
			first = false
		}
		w.write(uint32(blockUncompressed), 3)
		w.write(uint32(len(frame))>>8, 16)
		w.write(uint32(len(frame))&0xFF, 8)
		w.align()
		var regs [12]byte
		binary.LittleEndian.PutUint32(regs[0:], 1)
		binary.LittleEndian.PutUint32(regs[4:], 1)
		binary.LittleEndian.PutUint32(regs[8:], 1)
		block := append(w.out, regs[:]...)
		block = append(block, frame...)

		if len(frame) == DefaultFrameSize {
			out = append(out, byte(len(block)>>8), byte(len(block)))
		} else {
			out = append(out, 0xFF, byte(len(frame)>>8), byte(len(frame)), byte(len(block)>>8), byte(len(block)))
		}
		out = append(out, block...)
	}
	return out
}
