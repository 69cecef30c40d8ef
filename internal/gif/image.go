package gif

import "image"

// Colorspace identifies the interpretation of decoded sample values.
// GIF has no colorspace metadata, so decoded images are always declared
// as sRGB with perceptual intent.
type Colorspace int

const (
	ColorspaceSRGB Colorspace = iota
)

// RenderingIntent is the sRGB rendering intent attached to the image.
type RenderingIntent int

const (
	IntentPerceptual RenderingIntent = iota
)

// Image is the decoded pixel buffer plus the metadata the downstream
// pipeline needs. Pix is row-major, 8 bits per channel, Channels (3 or 4)
// bytes per pixel, sized to the logical screen. The channel count is fixed
// when the canvas is allocated: 4 if a transparency index was declared
// before the image block, otherwise 3.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte

	// Pixel density derived from the screen descriptor's aspect-ratio
	// byte. The units are unknown; only the X:Y ratio is meaningful.
	HasDensity bool
	DensityX   float64
	DensityY   float64

	Colorspace Colorspace
	Intent     RenderingIntent

	// Background color label from the screen descriptor, as fractional
	// RGB in [0,1]. It is a label only: the canvas is zero-filled, never
	// composited onto the background.
	HasBackground bool
	Background    [3]float64
}

// Stride returns the number of bytes per row.
func (m *Image) Stride() int {
	return m.Width * m.Channels
}

// Opaque reports whether the image carries no alpha channel.
func (m *Image) Opaque() bool {
	return m.Channels == 3
}

// NRGBA converts the decoded buffer to a non-premultiplied stdlib image
// for the resize/encode pipeline. Three-channel images get alpha 255.
func (m *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	if m.Channels == 4 {
		copy(dst.Pix, m.Pix)
		return dst
	}
	si := 0
	for di := 0; di < len(dst.Pix); di += 4 {
		dst.Pix[di+0] = m.Pix[si+0]
		dst.Pix[di+1] = m.Pix[si+1]
		dst.Pix[di+2] = m.Pix[si+2]
		dst.Pix[di+3] = 255
		si += 3
	}
	return dst
}
