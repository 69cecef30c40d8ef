package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// testImage creates a size x size RGBA image with a gradient pattern.
func testImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestNewEncoder(t *testing.T) {
	tests := []struct {
		format  string
		wantFmt string
		wantExt string
		wantErr bool
	}{
		{"jpeg", "jpeg", ".jpg", false},
		{"jpg", "jpeg", ".jpg", false},
		{"png", "png", ".png", false},
		{"webp", "webp", ".webp", false},
		{"bmp", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			enc, err := NewEncoder(tt.format, 85)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if enc.Format() != tt.wantFmt {
				t.Errorf("Format() = %q, want %q", enc.Format(), tt.wantFmt)
			}
			if enc.FileExtension() != tt.wantExt {
				t.Errorf("FileExtension() = %q, want %q", enc.FileExtension(), tt.wantExt)
			}
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out.png", "png", false},
		{"out.PNG", "png", false},
		{"photo.jpg", "jpeg", false},
		{"photo.jpeg", "jpeg", false},
		{"dir/tile.webp", "webp", false},
		{"archive.gif", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := FormatForPath(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("FormatForPath(%q): expected error, got %q", tt.path, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("FormatForPath(%q): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPNGEncoder_RoundTrip(t *testing.T) {
	enc := &PNGEncoder{}
	img := testImage(256)

	data, err := enc.Encode(img)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("Encode produced empty data")
	}

	// Verify it's valid PNG.
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}

	// PNG is lossless, pixels should be identical.
	bounds := decoded.Bounds()
	if bounds.Dx() != 256 || bounds.Dy() != 256 {
		t.Errorf("decoded size = %dx%d, want 256x256", bounds.Dx(), bounds.Dy())
	}

	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			or, og, ob, oa := img.At(x, y).RGBA()
			dr, dg, db, da := decoded.At(x, y).RGBA()
			if or != dr || og != dg || ob != db || oa != da {
				t.Fatalf("pixel mismatch at (%d,%d): orig=(%d,%d,%d,%d) decoded=(%d,%d,%d,%d)",
					x, y, or>>8, og>>8, ob>>8, oa>>8, dr>>8, dg>>8, db>>8, da>>8)
			}
		}
	}
}

func TestJPEGEncoder_Encode(t *testing.T) {
	enc := &JPEGEncoder{Quality: 85}
	img := testImage(256)

	data, err := enc.Encode(img)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("Encode produced empty data")
	}

	// Verify it's valid JPEG.
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("jpeg.Decode: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 256 || bounds.Dy() != 256 {
		t.Errorf("decoded size = %dx%d, want 256x256", bounds.Dx(), bounds.Dy())
	}

	// JPEG is lossy, check that pixels are close but not necessarily identical.
	maxDiff := 0
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			or, _, _, _ := img.At(x, y).RGBA()
			dr, _, _, _ := decoded.At(x, y).RGBA()
			diff := int(or>>8) - int(dr>>8)
			if diff < 0 {
				diff = -diff
			}
			if diff > maxDiff {
				maxDiff = diff
			}
		}
	}
	// At quality 85, max diff should be small (JPEG compression artifacts).
	if maxDiff > 30 {
		t.Errorf("JPEG max pixel diff = %d, want <= 30 for quality 85", maxDiff)
	}
}

func TestWebPEncoder_RoundTrip(t *testing.T) {
	enc, err := NewEncoder("webp", 90)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	img := testImage(64)

	data, err := enc.Encode(img)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Encode produced empty data")
	}

	decoded, err := DecodeImage(data, "webp")
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 64 || bounds.Dy() != 64 {
		t.Errorf("decoded size = %dx%d, want 64x64", bounds.Dx(), bounds.Dy())
	}
}

func TestPNGEncoder_TransparentImage(t *testing.T) {
	// Ensure PNG preserves transparency.
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 32 {
				img.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 0}) // transparent
			}
		}
	}

	enc := &PNGEncoder{}
	data, err := enc.Encode(img)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}

	// Check opaque pixel.
	r, g, b, a := decoded.At(10, 10).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 || a>>8 != 255 {
		t.Errorf("opaque pixel = (%d,%d,%d,%d), want (255,0,0,255)", r>>8, g>>8, b>>8, a>>8)
	}

	// Check transparent pixel.
	_, _, _, a = decoded.At(50, 10).RGBA()
	if a>>8 != 0 {
		t.Errorf("transparent pixel alpha = %d, want 0", a>>8)
	}
}
