package resize

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParseResampling(t *testing.T) {
	tests := []struct {
		in      string
		want    Resampling
		wantErr bool
	}{
		{"nearest", ResamplingNearest, false},
		{"bilinear", ResamplingBilinear, false},
		{"bicubic", ResamplingBicubic, false},
		{"lanczos", ResamplingLanczos, false},
		{"", ResamplingBilinear, false},
		{"cubic", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseResampling(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseResampling(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseResampling(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseResampling(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name               string
		srcW, srcH         int
		reqW, reqH, maxDim int
		wantW, wantH       int
	}{
		{"unchanged", 640, 480, 0, 0, 0, 640, 480},
		{"width only", 640, 480, 320, 0, 0, 320, 240},
		{"height only", 640, 480, 0, 240, 0, 320, 240},
		{"both given", 640, 480, 100, 100, 0, 100, 100},
		{"capped", 640, 480, 0, 0, 320, 320, 240},
		{"cap respects aspect", 480, 640, 0, 0, 320, 240, 320},
		{"tiny never zero", 1000, 1, 10, 0, 0, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitDimensions(tt.srcW, tt.srcH, tt.reqW, tt.reqH, tt.maxDim)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitDimensions = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResizeIdentity(t *testing.T) {
	src := solidImage(16, 16, color.NRGBA{10, 20, 30, 255})
	got := Resize(src, 16, 16, ResamplingLanczos)
	if got != src {
		t.Error("resizing to the source size should return the source image")
	}
}

func TestResizeNearestDoubling(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	colors := [4]color.NRGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
	}
	src.SetNRGBA(0, 0, colors[0])
	src.SetNRGBA(1, 0, colors[1])
	src.SetNRGBA(0, 1, colors[2])
	src.SetNRGBA(1, 1, colors[3])

	dst := Resize(src, 4, 4, ResamplingNearest)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := colors[(y/2)*2+x/2]
			if got := dst.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestResizeUniformStaysUniform(t *testing.T) {
	c := color.NRGBA{37, 142, 209, 255}
	src := solidImage(17, 11, c)

	for _, mode := range []Resampling{ResamplingNearest, ResamplingBilinear, ResamplingBicubic, ResamplingLanczos} {
		t.Run(mode.String(), func(t *testing.T) {
			for _, size := range [][2]int{{5, 3}, {34, 22}} {
				dst := Resize(src, size[0], size[1], mode)
				for y := 0; y < size[1]; y++ {
					for x := 0; x < size[0]; x++ {
						if got := dst.NRGBAAt(x, y); got != c {
							t.Fatalf("%dx%d pixel (%d,%d) = %v, want %v", size[0], size[1], x, y, got, c)
						}
					}
				}
			}
		})
	}
}

func TestResizeBilinearAverage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 255})

	dst := Resize(src, 1, 1, ResamplingBilinear)
	got := dst.NRGBAAt(0, 0)
	if got.R != 128 || got.G != 128 || got.B != 128 {
		t.Errorf("pixel = %v, want mid gray 128", got)
	}
	if got.A != 255 {
		t.Errorf("alpha = %d, want 255", got.A)
	}
}

func TestResizeTransparentNeighborsExcluded(t *testing.T) {
	// One opaque red pixel next to a transparent one: the RGB result must
	// stay pure red (the transparent neighbor contributes no color), while
	// alpha blends toward zero.
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{200, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 0})

	dst := Resize(src, 1, 1, ResamplingBilinear)
	got := dst.NRGBAAt(0, 0)
	if got.R != 200 || got.G != 0 || got.B != 0 {
		t.Errorf("rgb = (%d,%d,%d), want (200,0,0)", got.R, got.G, got.B)
	}
	if got.A != 128 {
		t.Errorf("alpha = %d, want 128", got.A)
	}
}

func TestResizeAllTransparentStaysTransparent(t *testing.T) {
	src := solidImage(8, 8, color.NRGBA{0, 0, 0, 0})
	for _, mode := range []Resampling{ResamplingBilinear, ResamplingBicubic, ResamplingLanczos} {
		dst := Resize(src, 4, 4, mode)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				if got := dst.NRGBAAt(x, y); got.A != 0 {
					t.Errorf("%s: pixel (%d,%d) alpha = %d, want 0", mode, x, y, got.A)
				}
			}
		}
	}
}

func TestResizeKernelDownscaleAverages(t *testing.T) {
	// An 8x8 checkerboard downscaled to 1x1: the stretched kernel must
	// take the whole footprint into account, yielding a mid gray rather
	// than one of the extremes.
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			src.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}

	for _, mode := range []Resampling{ResamplingBicubic, ResamplingLanczos} {
		dst := Resize(src, 1, 1, mode)
		got := dst.NRGBAAt(0, 0)
		if got.R < 96 || got.R > 160 {
			t.Errorf("%s: downscaled checkerboard = %d, want mid gray", mode, got.R)
		}
	}
}
