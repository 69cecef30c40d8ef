package gif

// GIF-variant LZW decoder.
//
// GIF uses an LZW variant that differs from the TIFF/PDF format: codes are
// packed least-significant-bit first, the root code size is taken from the
// file (2..11 bits), and the code width grows as soon as the entry that
// fills the current width is assigned. Go's compress/lzw hides the
// dictionary behind an io.Reader, but the decoder here must emit pixels as
// (palette index, pixel offset) pairs and stop on a per-image pixel budget,
// so the dictionary is implemented directly.
//
// The code table is a forest: each entry references its parent, and a code
// is decoded by walking the chain to its root. Because every entry caches
// its run length, each step can compute the absolute pixel offset of the
// byte it emits, which produces the run in correct left-to-right order
// without a reversal buffer.

import "errors"

const (
	lzwTableSize    = 4096
	lzwMaxCodeWidth = 12
)

// errInvalidCode marks a stream that references a code which cannot be
// resolved. The container parser maps it to ErrDecode.
var errInvalidCode = errors.New("lzw: reference to unresolvable code")

type lzwEntry struct {
	parent    uint16 // index of the parent entry (roots reference entry 0)
	length    uint16 // run length minus one (0 for roots)
	value     byte   // the byte this entry appends to its parent's run
	firstChar byte   // cached first byte of the whole run
}

// pixelSink receives decoded palette indexes. pix is the absolute
// image-local pixel offset, in raster order of the decoded stream.
type pixelSink interface {
	recordPixel(index byte, pix int)
}

type lzwDecoder struct {
	rootWidth int
	width     int  // current code width in bits
	clearCode int
	eoiCode   int
	numRoots  int
	used      int  // entries assigned in the table
	prev      int  // previous code register
	fresh     bool // next code is the first after a clear

	decoded int  // pixels decoded so far
	limit   int  // pixel budget for the image
	done    bool

	sink  pixelSink
	table [lzwTableSize]lzwEntry
}

// newLZWDecoder initializes the dictionary for the given root code size
// (must already be validated to [2,11]) and pixel budget.
func newLZWDecoder(rootWidth int, sink pixelSink, limit int) *lzwDecoder {
	z := &lzwDecoder{
		rootWidth: rootWidth,
		numRoots:  1 << rootWidth,
		sink:      sink,
		limit:     limit,
	}
	z.clearCode = z.numRoots
	z.eoiCode = z.numRoots + 1
	for i := 0; i < z.numRoots; i++ {
		z.table[i] = lzwEntry{value: byte(i), firstChar: byte(i)}
	}
	z.reset()
	if limit <= 0 {
		z.done = true
	}
	return z
}

// reset handles a clear code: the table shrinks back to the root codes
// plus the two reserved codes, the width returns to its initial value, and
// the next code is treated as a first code (emitted without insertion).
func (z *lzwDecoder) reset() {
	z.used = z.numRoots + 2
	z.width = z.rootWidth + 1
	z.prev = 0
	z.fresh = true
}

// run pulls codes from the cursor until an end-of-information code, the
// pixel budget, or the subblock terminator ends the stream.
func (z *lzwDecoder) run(cur *blockCursor) error {
	for !z.done {
		code, ok, err := cur.readCode(z.width)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := z.processCode(code); err != nil {
			return err
		}
	}
	return nil
}

func (z *lzwDecoder) processCode(code int) error {
	if code == z.eoiCode {
		z.done = true
		return nil
	}
	if code == z.clearCode {
		z.reset()
		return nil
	}

	if z.fresh {
		// First code after a reset: emit directly, no insertion.
		z.fresh = false
		z.emit(code)
		z.prev = code
		return nil
	}

	if code < z.used {
		z.emit(code)
		z.add(z.prev, z.table[code].firstChar)
	} else {
		// Code is not in the table yet, so it can only be the entry the
		// encoder just created from the previous code (the KwKwK case).
		// Synthesize it, then emit the synthesized run.
		if z.prev >= z.used {
			return errInvalidCode
		}
		pos := z.add(z.prev, z.table[z.prev].firstChar)
		if pos >= 0 {
			z.emit(pos)
		}
	}
	z.prev = code
	return nil
}

// add appends an entry referencing parent and returns its index, or -1 if
// the table is full. The code width grows immediately after the entry that
// fills the current width is assigned; at 4096 entries the width stays
// frozen at 12 bits and insertions stop.
func (z *lzwDecoder) add(parent int, value byte) int {
	if z.used >= lzwTableSize {
		return -1
	}
	pos := z.used
	z.used++

	z.table[pos] = lzwEntry{
		parent:    uint16(parent),
		value:     value,
		firstChar: z.table[parent].firstChar,
		length:    z.table[parent].length + 1,
	}

	switch pos {
	case 7, 15, 31, 63, 127, 255, 511, 1023, 2047:
		z.width++
	}
	return pos
}

// emit decodes one code into its pixel run. The chain from the entry to
// its root yields the run back to front; offsets are computed from each
// entry's cached length, so pixels land at their correct positions without
// an explicit reversal.
func (z *lzwDecoder) emit(code int) {
	c := code
	for {
		e := &z.table[c]
		z.sink.recordPixel(e.value, z.decoded+int(e.length))
		if e.length == 0 {
			break
		}
		c = int(e.parent)
	}
	z.decoded += int(z.table[code].length) + 1
	if z.decoded >= z.limit {
		z.done = true
	}
}

// blockCursor is a bit-level cursor over the concatenation of an image's
// length-prefixed data subblocks. Subblock framing is invisible to the
// caller: when the current chunk is exhausted the cursor pulls the next
// one from the source. A zero-length subblock ends the stream.
type blockCursor struct {
	src interface {
		readFull(buf []byte) error
	}
	buf [255]byte
	n   int // bytes in the current chunk
	pos int // byte position within the chunk
	bit int // bit position within buf[pos], least significant first
	eof bool
}

// readCode reads the next code of the given width. ok is false once the
// terminator subblock has been reached; any bits of a partially assembled
// code are discarded at that point.
func (c *blockCursor) readCode(width int) (code int, ok bool, err error) {
	for got := 0; got < width; got++ {
		if c.pos >= c.n {
			if err := c.refill(); err != nil {
				return 0, false, err
			}
			if c.eof {
				return 0, false, nil
			}
		}
		if c.buf[c.pos]&(1<<c.bit) != 0 {
			code |= 1 << got
		}
		c.bit++
		if c.bit == 8 {
			c.bit = 0
			c.pos++
		}
	}
	return code, true, nil
}

func (c *blockCursor) refill() error {
	var size [1]byte
	if err := c.src.readFull(size[:]); err != nil {
		return err
	}
	if size[0] == 0 {
		c.eof = true
		return nil
	}
	if err := c.src.readFull(c.buf[:size[0]]); err != nil {
		return err
	}
	c.n = int(size[0])
	c.pos = 0
	c.bit = 0
	return nil
}
