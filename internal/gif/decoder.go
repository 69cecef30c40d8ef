// Package gif decodes a single still image from a GIF container.
//
// The decoder supports exactly one image per file: it parses the block
// structure up to and including the first image descriptor, decompresses
// that image's LZW pixel stream, and stops. Animated GIFs and files whose
// main image is assembled from multiple sub-images are out of scope; for
// those only the first frame is returned.
package gif

import (
	"io"
	"os"
)

// Block introducers and the extension sub-type the decoder cares about.
const (
	blockExtension = 0x21
	blockImage     = 0x2C
	blockTrailer   = 0x3B

	extGraphicsControl = 0xF9
)

// DefaultMaxDimension caps the logical screen size when Options supplies
// no policy of its own.
const DefaultMaxDimension = 40000

// Options configures a decode call. The zero value applies the default
// dimension cap and English diagnostics.
type Options struct {
	// MaxWidth and MaxHeight bound the logical screen. Zero means
	// DefaultMaxDimension.
	MaxWidth  int
	MaxHeight int

	// Messages overrides the diagnostic table. Missing codes fall back
	// to DefaultMessages.
	Messages map[ErrorCode]string
}

type paletteEntry struct {
	r, g, b, a uint8
}

// palette is a color table of up to 256 entries. Reading a table fills
// only the RGB components: alpha starts opaque and is owned by the
// transparency extension, so a local table replacing the global one keeps
// an already-declared transparent index transparent.
type palette struct {
	numEntries int
	entry      [256]paletteEntry
}

type decoder struct {
	r        io.Reader
	messages map[ErrorCode]string

	maxWidth  int
	maxHeight int

	screenWidth  int
	screenHeight int
	imageWidth   int
	imageHeight  int
	imageLeft    int
	imageTop     int

	screenReady     bool
	interlaced      bool
	channels        int
	hasTransparency bool
	transIndex      int
	hasBackground   bool
	bgIndex         int

	colortable palette
	img        *Image

	// rowOffset maps a decoded row index to the byte offset of that row's
	// first in-image pixel within img.Pix, honoring interlace order.
	// Rows falling outside the logical screen hold -1.
	rowOffset []int

	// The largest fixed-size chunk read at once is a 256-color table.
	rbuf [768]byte
}

// Decode reads one GIF image from r. Any structural or stream error aborts
// the whole decode; there are no partial results.
func Decode(r io.Reader, opts *Options) (*Image, error) {
	d := &decoder{
		r:         r,
		maxWidth:  DefaultMaxDimension,
		maxHeight: DefaultMaxDimension,
		img: &Image{
			Colorspace: ColorspaceSRGB,
			Intent:     IntentPerceptual,
		},
	}
	if opts != nil {
		if opts.MaxWidth > 0 {
			d.maxWidth = opts.MaxWidth
		}
		if opts.MaxHeight > 0 {
			d.maxHeight = opts.MaxHeight
		}
		d.messages = opts.Messages
	}

	// All colors are opaque until a graphics control extension says
	// otherwise.
	for i := range d.colortable.entry {
		d.colortable.entry[i].a = 255
	}

	if err := d.readMain(); err != nil {
		return nil, err
	}
	return d.img, nil
}

// DecodeFile decodes the GIF image stored at path.
func DecodeFile(path string, opts *Options) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, opts)
}

func (d *decoder) message(code ErrorCode) string {
	if d.messages != nil {
		if s, ok := d.messages[code]; ok {
			return s
		}
	}
	return DefaultMessages[code]
}

func (d *decoder) fail(code ErrorCode) error {
	return &Error{Code: code, msg: d.message(code)}
}

// readFull reads exactly len(buf) bytes. A short read is always fatal.
func (d *decoder) readFull(buf []byte) error {
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return d.fail(ErrRead)
	}
	return nil
}

func readUint16LE(buf []byte) int {
	return int(buf[0]) | int(buf[1])<<8
}

func (d *decoder) readMain() error {
	if err := d.readFileHeader(); err != nil {
		return err
	}
	if err := d.readScreenDescriptor(); err != nil {
		return err
	}
	if err := d.readColorTable(); err != nil {
		return err
	}

	// Surface the background color as a label for the downstream
	// pipeline. The canvas itself stays zero-filled.
	if d.hasBackground {
		e := &d.colortable.entry[d.bgIndex]
		d.img.HasBackground = true
		d.img.Background = [3]float64{
			float64(e.r) / 255.0,
			float64(e.g) / 255.0,
			float64(e.b) / 255.0,
		}
	}

	// The remainder of the file is a sequence of blocks identified by
	// their introducer byte. Decoding stops after the first image.
	for {
		if err := d.readFull(d.rbuf[:1]); err != nil {
			return err
		}
		switch d.rbuf[0] {
		case blockExtension:
			if err := d.readExtension(); err != nil {
				return err
			}
		case blockImage:
			return d.readImage()
		case blockTrailer:
			return d.fail(ErrNoImage)
		default:
			return d.fail(ErrUnsupportedBlock)
		}
	}
}

func (d *decoder) readFileHeader() error {
	if err := d.readFull(d.rbuf[:6]); err != nil {
		return err
	}
	if d.rbuf[0] != 'G' || d.rbuf[1] != 'I' || d.rbuf[2] != 'F' {
		return d.fail(ErrNotAGIF)
	}
	return nil
}

func (d *decoder) readScreenDescriptor() error {
	// The logical screen descriptor is always 7 bytes.
	if err := d.readFull(d.rbuf[:7]); err != nil {
		return err
	}
	d.screenWidth = readUint16LE(d.rbuf[0:2])
	d.screenHeight = readUint16LE(d.rbuf[2:4])
	if d.screenWidth < 1 || d.screenHeight < 1 ||
		d.screenWidth > d.maxWidth || d.screenHeight > d.maxHeight {
		return d.fail(ErrInvalidDimensions)
	}
	d.img.Width = d.screenWidth
	d.img.Height = d.screenHeight

	hasGlobalTable := d.rbuf[4]&0x80 != 0
	if hasGlobalTable {
		d.colortable.numEntries = 1 << (1 + d.rbuf[4]&0x07)
		d.bgIndex = int(d.rbuf[5])
		if d.bgIndex < d.colortable.numEntries {
			d.hasBackground = true
		}
	}

	// A non-zero aspect-ratio byte encodes pixel width / pixel height.
	if code := int(d.rbuf[6]); code != 0 {
		d.img.HasDensity = true
		d.img.DensityX = 64000.0 / float64(code+15)
		d.img.DensityY = 1000.0
	}
	return nil
}

// readColorTable reads d.colortable.numEntries RGB triples into the color
// table. Alpha is deliberately left alone.
func (d *decoder) readColorTable() error {
	n := d.colortable.numEntries
	if n < 1 {
		return nil
	}
	if err := d.readFull(d.rbuf[:3*n]); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		d.colortable.entry[i].r = d.rbuf[3*i+0]
		d.colortable.entry[i].g = d.rbuf[3*i+1]
		d.colortable.entry[i].b = d.rbuf[3*i+2]
	}
	return nil
}

func (d *decoder) readExtension() error {
	if err := d.readFull(d.rbuf[:1]); err != nil {
		return err
	}
	switch d.rbuf[0] {
	case extGraphicsControl:
		return d.readGraphicsControlExt()
	default:
		return d.skipSubblocks()
	}
}

// readGraphicsControlExt extracts the transparency declaration. A payload
// with the wrong size or a missing terminator is tolerated without error:
// the extension is abandoned and the file decoded as if it were absent.
func (d *decoder) readGraphicsControlExt() error {
	// Size byte (must be 4), 4 payload bytes, block terminator.
	if err := d.readFull(d.rbuf[:6]); err != nil {
		return err
	}
	if d.rbuf[0] != 4 || d.rbuf[5] != 0 {
		return nil
	}
	d.hasTransparency = d.rbuf[1]&0x01 != 0
	if d.hasTransparency {
		d.transIndex = int(d.rbuf[4])
		d.colortable.entry[d.transIndex].a = 0
	}
	return nil
}

// skipSubblocks consumes length-prefixed subblocks up to and including the
// zero-length terminator.
func (d *decoder) skipSubblocks() error {
	for {
		if err := d.readFull(d.rbuf[:1]); err != nil {
			return err
		}
		size := d.rbuf[0]
		if size == 0 {
			return nil
		}
		if err := d.readFull(d.rbuf[:size]); err != nil {
			return err
		}
	}
}

// initScreen allocates the output canvas. Allocation is deferred to the
// image block so that a transparency declaration, which arrives in an
// extension before the image, can decide the channel count.
func (d *decoder) initScreen() {
	if d.screenReady {
		return
	}
	d.screenReady = true

	if d.hasTransparency {
		d.channels = 4
	} else {
		d.channels = 3
	}
	d.img.Channels = d.channels
	// Zero-filled. Compositing onto the background color is deliberately
	// not done; the background is surfaced as a label only.
	d.img.Pix = make([]byte, d.channels*d.screenWidth*d.screenHeight)
}

// buildRowOffsets precomputes, for each decoded row of the image, the byte
// offset of that row's first pixel within the canvas. Interlaced images
// store rows in four passes; the table maps sequential decoded rows to
// their true screen rows. Rows outside the logical screen get -1 and are
// dropped at write time.
func (d *decoder) buildRowOffsets() {
	d.rowOffset = make([]int, d.imageHeight)
	bpr := d.channels * d.screenWidth

	offsetFor := func(row int) int {
		ys := d.imageTop + row
		if ys >= d.screenHeight {
			return -1
		}
		return ys*bpr + d.imageLeft*d.channels
	}

	if d.interlaced {
		passes := [4]struct{ start, step int }{
			{0, 8}, {4, 8}, {2, 4}, {1, 2},
		}
		i := 0
		for _, p := range passes {
			for row := p.start; row < d.imageHeight; row += p.step {
				d.rowOffset[i] = offsetFor(row)
				i++
			}
		}
	} else {
		for row := 0; row < d.imageHeight; row++ {
			d.rowOffset[row] = offsetFor(row)
		}
	}
}

// recordPixel writes the pixel at image-local offset pix using palette
// entry index. Positions outside the logical screen and indexes beyond
// the palette are dropped silently.
func (d *decoder) recordPixel(index byte, pix int) {
	xi := pix % d.imageWidth
	yi := pix / d.imageWidth
	if yi >= len(d.rowOffset) {
		return
	}
	off := d.rowOffset[yi]
	if off < 0 || d.imageLeft+xi >= d.screenWidth {
		return
	}
	if int(index) >= d.colortable.numEntries {
		return
	}

	e := &d.colortable.entry[index]
	p := off + xi*d.channels
	d.img.Pix[p+0] = e.r
	d.img.Pix[p+1] = e.g
	d.img.Pix[p+2] = e.b
	if d.channels == 4 {
		d.img.Pix[p+3] = e.a
	}
}

func (d *decoder) readImage() error {
	// 9-byte image descriptor: left, top, width, height as four distinct
	// little-endian fields, then the packed flags byte.
	if err := d.readFull(d.rbuf[:9]); err != nil {
		return err
	}
	d.imageLeft = readUint16LE(d.rbuf[0:2])
	d.imageTop = readUint16LE(d.rbuf[2:4])
	d.imageWidth = readUint16LE(d.rbuf[4:6])
	d.imageHeight = readUint16LE(d.rbuf[6:8])

	flags := d.rbuf[8]
	d.interlaced = flags&0x40 != 0

	if flags&0x80 != 0 {
		// Only one image is ever decoded, so a local color table simply
		// replaces the global one.
		d.colortable.numEntries = 1 << (1 + flags&0x07)
		if err := d.readColorTable(); err != nil {
			return err
		}
	}

	// The minimum code size byte follows the local color table. Sizes
	// below 2 leave no room for the two reserved codes; sizes above 11
	// cannot fit the 12-bit code limit.
	if err := d.readFull(d.rbuf[:1]); err != nil {
		return err
	}
	rootCodeSize := int(d.rbuf[0])
	if rootCodeSize < 2 || rootCodeSize > 11 {
		return d.fail(ErrInvalidLZWMinCodeSize)
	}

	d.initScreen()
	d.buildRowOffsets()

	lz := newLZWDecoder(rootCodeSize, d, d.imageWidth*d.imageHeight)
	cur := &blockCursor{src: d}
	if err := lz.run(cur); err != nil {
		if err == errInvalidCode {
			return d.fail(ErrDecode)
		}
		return err
	}
	// Decoding stopped on the end-of-information code, the terminator
	// subblock, or the image's pixel budget. This is the only image, so
	// nothing after it is read.
	return nil
}
