// Package rle implements spec §4.E: the two stateful, chunked, push-style
// RLE filters used by Captain Comic and Captain Comic II. Both filters
// are restartable — callers may hand over input and output in small
// increments and the filter resumes a partially emitted run or literal
// on the next call — and must never read past the supplied input nor
// write past the supplied output.
package rle

// PlaneLen is the fixed decoded size of one Captain Comic EGA plane
// (320x200 screen, 1 bit per pixel per plane: 200 rows * 40 bytes).
const PlaneLen = 8000

type comicState int

const (
	stPlaneLenLo comicState = iota
	stPlaneLenHi
	stCommand
	stRepeatValue
	stLiteral
)

// ComicDecoder expands the Captain Comic (not II) per-plane RLE stream
// (spec §4.E.1): each plane begins with a 2-byte little-endian plane
// length followed by a run of commands — a byte with the MSB set means
// "repeat = byte&0x7F copies of the next byte"; a byte with the MSB clear
// means "the next byte bytes pass through literally".
type ComicDecoder struct {
	state    comicState
	lenLo    byte
	planeLen int // decoded bytes in the plane currently being read
	produced int // decoded bytes produced so far in this plane
	literal  int // literal bytes remaining to copy through
	repeat   int // repeat copies remaining
	repeatV  byte
}

// NewComicDecoder returns a decoder ready to decode from the start of a
// stream (the first thing it expects is a plane-length prefix).
func NewComicDecoder() *ComicDecoder { return &ComicDecoder{state: stPlaneLenLo} }

// Reset restarts the state machine, per spec §4.E. totalInputLen is
// accepted for interface symmetry with ComicDecoder2 but unused: Captain
// Comic's framing is entirely self-describing via its plane-length
// prefixes.
func (d *ComicDecoder) Reset(totalInputLen int64) {
	*d = ComicDecoder{state: stPlaneLenLo}
}

// Transform consumes as much of in and produces as much of out as it can
// without exceeding either buffer, and returns how much of each it used.
// Calling it again with fresh buffers resumes exactly where it left off.
func (d *ComicDecoder) Transform(in, out []byte) (consumed, produced int) {
	var r, w int
	for w < len(out) {
		switch d.state {
		case stPlaneLenLo:
			if r >= len(in) {
				return r, w
			}
			d.lenLo = in[r]
			r++
			d.state = stPlaneLenHi
		case stPlaneLenHi:
			if r >= len(in) {
				return r, w
			}
			hi := in[r]
			r++
			d.planeLen = int(d.lenLo) | int(hi)<<8
			d.produced = 0
			d.state = stCommand
		case stCommand:
			if d.produced >= d.planeLen {
				d.state = stPlaneLenLo
				continue
			}
			if r >= len(in) {
				return r, w
			}
			c := in[r]
			r++
			if c&0x80 != 0 {
				d.repeat = int(c & 0x7F)
				d.state = stRepeatValue
			} else {
				d.literal = int(c)
				if d.literal == 0 {
					// zero-length literal command, nothing to do
					continue
				}
				d.state = stLiteral
			}
		case stRepeatValue:
			if r >= len(in) {
				return r, w
			}
			d.repeatV = in[r]
			r++
			// drained below; if out fills first, the next call resumes
			// the drain through the default case like a literal does
			d.state = stLiteral
			fallthrough
		default:
			// drain pending repeat/literal bytes into out
			for d.repeat > 0 && w < len(out) && d.produced < d.planeLen {
				out[w] = d.repeatV
				w++
				d.repeat--
				d.produced++
			}
			if d.repeat > 0 {
				return r, w
			}
			for d.literal > 0 && w < len(out) {
				if r >= len(in) {
					return r, w
				}
				out[w] = in[r]
				r++
				w++
				d.literal--
				d.produced++
			}
			if d.literal > 0 {
				return r, w
			}
			if d.state == stLiteral {
				d.state = stCommand
			}
		}
	}
	return r, w
}

// comicMaxRun is the largest repeat count a single command byte can carry
// (the MSB is reserved for the repeat/literal flag, leaving 7 bits).
const comicMaxRun = 0x7F

// ComicEncoder is the inverse of ComicDecoder: it scans raw decoded bytes
// for runs and emits repeat codes for runs of 2 or more, literal runs
// otherwise, one PlaneLen-sized plane at a time. Finding runs needs
// lookahead across the whole plane, so unlike ComicDecoder it buffers a
// full plane of input before it can emit anything, but it still honors
// Transform's chunked contract: callers may feed and drain it in whatever
// increments they like and it resumes exactly where it left off.
type ComicEncoder struct {
	window []byte // raw bytes of the plane being accumulated
	cmdOut []byte // encoded bytes ready to be copied to the caller's out
}

// NewComicEncoder returns an encoder starting at the beginning of a plane.
func NewComicEncoder() *ComicEncoder { return &ComicEncoder{} }

func (e *ComicEncoder) Reset(totalInputLen int64) { *e = ComicEncoder{} }

// Transform mirrors ComicDecoder.Transform's shape: it consumes as much of
// in and produces as much of out as it can, returning how much of each it
// used. The total bytes fed across all calls must be a multiple of
// PlaneLen; Transform buffers until it has a full plane, encodes it, and
// drains the result before buffering the next one.
func (e *ComicEncoder) Transform(in, out []byte) (consumed, produced int) {
	var r, w int
	for w < len(out) {
		if len(e.cmdOut) > 0 {
			n := copy(out[w:], e.cmdOut)
			w += n
			e.cmdOut = e.cmdOut[n:]
			continue
		}
		need := PlaneLen - len(e.window)
		n := len(in) - r
		if n > need {
			n = need
		}
		if n > 0 {
			e.window = append(e.window, in[r:r+n]...)
			r += n
		}
		if len(e.window) < PlaneLen {
			return r, w
		}
		e.cmdOut = encodeComicPlaneBytes(e.window)
		e.window = e.window[:0]
	}
	return r, w
}

// encodeComicPlaneBytes encodes exactly one PlaneLen-byte plane, returning
// the 2-byte length prefix plus command bytes.
func encodeComicPlaneBytes(plane []byte) []byte {
	var cmds []byte
	col := 0
	for col < len(plane) {
		runStart := col
		v := plane[col]
		run := 1
		for col+run < len(plane) && plane[col+run] == v && run < comicMaxRun {
			run++
		}
		if run >= 2 {
			cmds = append(cmds, byte(0x80|run), v)
			col += run
			continue
		}
		// literal run: gather consecutive non-repeating bytes
		lit := 1
		for runStart+lit < len(plane) && lit < comicMaxRun {
			// stop if the next 2+ bytes form a repeat worth encoding
			nv := plane[runStart+lit]
			cnt := 1
			for runStart+lit+cnt < len(plane) && plane[runStart+lit+cnt] == nv && cnt < comicMaxRun {
				cnt++
			}
			if cnt >= 2 {
				break
			}
			lit++
		}
		cmds = append(cmds, byte(lit))
		cmds = append(cmds, plane[runStart:runStart+lit]...)
		col += lit
	}
	out := make([]byte, 2, 2+len(cmds))
	out[0] = byte(PlaneLen & 0xFF)
	out[1] = byte(PlaneLen >> 8)
	out = append(out, cmds...)
	return out
}
