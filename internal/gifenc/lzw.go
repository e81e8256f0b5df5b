package gifenc

// maxCode is the largest code a GIF LZW stream may use (12-bit codes).
const maxCode = 1<<12 - 1

// bitWriter packs variable-width codes least significant bit first.
type bitWriter struct {
	out   []byte
	bits  uint32
	nBits uint
}

func (w *bitWriter) write(code uint32, width uint) {
	w.bits |= code << w.nBits
	w.nBits += width
	for w.nBits >= 8 {
		w.out = append(w.out, byte(w.bits))
		w.bits >>= 8
		w.nBits -= 8
	}
}

func (w *bitWriter) flush() []byte {
	if w.nBits > 0 {
		w.out = append(w.out, byte(w.bits))
		w.bits, w.nBits = 0, 0
	}
	return w.out
}

// lzwState tracks the growing code space.
type lzwState struct {
	litWidth uint
	width    uint
	hi       uint32
	overflow uint32
	table    map[uint32]uint32
}

func newLZWState(litWidth uint) *lzwState {
	s := &lzwState{litWidth: litWidth}
	s.reset()
	return s
}

func (s *lzwState) clearCode() uint32 { return 1 << s.litWidth }
func (s *lzwState) eoiCode() uint32   { return s.clearCode() + 1 }

func (s *lzwState) reset() {
	s.width = s.litWidth + 1
	s.hi = s.eoiCode()
	s.overflow = s.clearCode() << 1
	s.table = make(map[uint32]uint32)
}

// incHi claims the next code. When the 12-bit space runs out it emits a
// clear code, resets and reports false: no dictionary entry may be added.
func (s *lzwState) incHi(w *bitWriter) bool {
	s.hi++
	if s.hi == s.overflow {
		s.width++
		s.overflow <<= 1
	}
	if s.hi == maxCode {
		w.write(s.clearCode(), s.width)
		s.reset()
		return false
	}
	return true
}

// Compress LZW-encodes palette indices for a GIF image block. Codes start
// at minCodeSize+1 bits and grow to 12; the stream opens with a clear code
// and ends with the end-of-information code. Indices must be below
// 1<<minCodeSize; larger values are masked.
func Compress(indices []byte, minCodeSize int) []byte {
	if minCodeSize < 2 {
		minCodeSize = 2
	}
	if minCodeSize > 8 {
		minCodeSize = 8
	}
	s := newLZWState(uint(minCodeSize))
	mask := s.clearCode() - 1
	w := &bitWriter{}

	w.write(s.clearCode(), s.width)
	if len(indices) == 0 {
		w.write(s.eoiCode(), s.width)
		return w.flush()
	}

	code := uint32(indices[0]) & mask
	for _, x := range indices[1:] {
		lit := uint32(x) & mask
		key := code<<8 | lit
		if next, ok := s.table[key]; ok {
			code = next
			continue
		}
		w.write(code, s.width)
		code = lit
		if s.incHi(w) {
			s.table[key] = s.hi
		}
	}
	w.write(code, s.width)
	s.incHi(w)
	w.write(s.eoiCode(), s.width)
	return w.flush()
}

// SubBlocks splits data into length-prefixed runs of at most 255 bytes and
// appends the zero-length terminator.
func SubBlocks(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/255+2)
	for len(data) > 0 {
		n := min(len(data), 255)
		out = append(out, byte(n))
		out = append(out, data[:n]...)
		data = data[n:]
	}
	return append(out, 0)
}
