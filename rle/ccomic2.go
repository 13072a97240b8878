package rle

// Decoder2 is the Captain Comic II RLE expansion filter (spec §4.E.2),
// ported directly from filter-ccomic2.cpp's filter_ccomic2_unrle. A
// caller-chosen header length passes through unchanged (the 3x16-bit
// tile-classification header ahead of the pixel stream); after that:
//   - a byte with the MSB set means "emit 256-c copies of the next byte"
//     (a run of length 128..256);
//   - a 0x00 byte is a scanline reset: discard and continue, which is how
//     the stream partitions itself into PlaneLen-byte planes;
//   - any other byte c (1..0x7F) means "the next c bytes are literal".
type Decoder2 struct {
	lenHeader int
	escape    int // literal bytes still owed to the caller
	repeat    int
	val       byte
}

// NewDecoder2 returns a decoder that passes lenHeader bytes through
// unchanged before interpreting RLE commands.
func NewDecoder2(lenHeader int) *Decoder2 {
	return &Decoder2{lenHeader: lenHeader, escape: lenHeader}
}

func (d *Decoder2) Reset(totalInputLen int64) {
	d.repeat = 0
	d.escape = d.lenHeader
}

// Transform mirrors filter_ccomic2_unrle::transform exactly, including
// its one-byte negative lookahead (it never treats the very last
// available input byte as a fresh command byte, since a command may need
// a second byte that hasn't arrived yet).
func (d *Decoder2) Transform(in, out []byte) (consumed, produced int) {
	r, w := 0, 0
	lenIn, lenOut := len(in), len(out)

	for (w < lenOut) && ((r+1 < lenIn) || (d.repeat > 0) || (d.escape > 0 && r < lenIn)) {
		for w < lenOut && d.repeat > 0 {
			out[w] = d.val
			w++
			d.repeat--
		}

		for r < lenIn && w < lenOut && d.escape > 0 {
			out[w] = in[r]
			r++
			w++
			d.escape--
		}

		for d.repeat == 0 && d.escape == 0 && r < lenIn-1 {
			if in[r]&0x80 != 0 {
				d.repeat = 256 - int(in[r])
				r++
				d.val = in[r]
				r++
			} else if in[r] == 0 {
				r++
			} else {
				d.escape = int(in[r])
				r++
			}
		}
	}
	return r, w
}

// Encoder2 is the Captain Comic II RLE compression filter, ported from
// filter_ccomic2_rle. It tracks column position modulo PlaneLen to split
// any run that would cross a scanline-reset boundary, and prefers
// absorbing a short (length-2) run into an active literal buffer when
// that shrinks the output, exactly as the original does.
type Encoder2 struct {
	lenHeader    int
	totalWritten int
	val          byte
	count        int
	escapeBuf    []byte
	col          int
}

const (
	maxRLECount  = 0x80
	maxEscapeLen = 0x7F
)

// NewEncoder2 returns an encoder that passes lenHeader bytes through
// unchanged before applying RLE compression.
func NewEncoder2(lenHeader int) *Encoder2 {
	return &Encoder2{lenHeader: lenHeader}
}

func (e *Encoder2) Reset(totalInputLen int64) {
	e.totalWritten, e.val, e.count, e.col = 0, 0, 0, 0
	e.escapeBuf = nil
}

// writeEscapeBuf flushes e.escapeBuf as one or more literal commands,
// splitting at PlaneLen boundaries, at maxEscapeLen and at the room left
// in out. It returns false if out fills before the buffer is empty.
func (e *Encoder2) writeEscapeBuf(out []byte, w *int) bool {
	for len(e.escapeBuf) > 0 {
		l := len(e.escapeBuf)
		if l > maxEscapeLen {
			l = maxEscapeLen
		}
		if (e.col%PlaneLen)+l > PlaneLen {
			l = PlaneLen - (e.col % PlaneLen)
		}
		if room := len(out) - *w - 1; l > room {
			if room < 1 {
				return false
			}
			l = room
		}
		out[*w] = byte(l)
		*w++
		copy(out[*w:], e.escapeBuf[:l])
		*w += l
		e.col += l
		e.escapeBuf = e.escapeBuf[l:]
	}
	return true
}

// Transform mirrors filter_ccomic2_rle::transform.
func (e *Encoder2) Transform(in, out []byte) (consumed, produced int) {
	r, w := 0, 0
	lenIn, lenOut := len(in), len(out)

	for e.totalWritten < e.lenHeader && w < lenOut && r < lenIn {
		out[w] = in[r]
		r++
		w++
		e.totalWritten++
	}

	for (w+3 < lenOut) && ((r < lenIn) || (lenIn == 0 && (e.count > 0 || len(e.escapeBuf) > 0))) {
		if r < lenIn && in[r] == e.val && e.count < maxRLECount {
			e.count++
			r++
			continue
		}

		if e.count == 2 && len(e.escapeBuf) > 0 {
			e.escapeBuf = append(e.escapeBuf, e.val, e.val)
			e.count = 0
		} else if e.count > 1 {
			if !e.writeEscapeBuf(out, &w) {
				break
			}
			if lenOut-w < 2 {
				break
			}
			if (e.col%PlaneLen)+e.count > PlaneLen {
				first := maxRLECount
				if rem := PlaneLen - (e.col % PlaneLen); rem < first {
					first = rem
				}
				out[w] = byte(256 - first)
				out[w+1] = e.val
				w += 2
				e.col += first
				e.count -= first
				continue
			}
			amt := maxRLECount
			if e.count < amt {
				amt = e.count
			}
			out[w] = byte(256 - amt)
			out[w+1] = e.val
			w += 2
			e.col += amt
			e.count -= amt
		}

		if e.count > 0 {
			e.escapeBuf = append(e.escapeBuf, e.val)
		}
		if r < lenIn {
			e.val = in[r]
			e.count = 1
			r++
		} else {
			e.count = 0
		}

		if lenIn == 0 {
			if !e.writeEscapeBuf(out, &w) {
				break
			}
		}
	}

	return r, w
}
