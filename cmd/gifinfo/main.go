package main

import (
	"fmt"
	"os"

	"github.com/fumiama/imgsz"

	"github.com/pspoerri/gifconv/internal/gif"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: gifinfo <file.gif>\n")
		os.Exit(1)
	}
	path := os.Args[1]

	// Sniff the container first so a mistyped PNG/JPEG/WebP gets a precise
	// message instead of a generic decode failure.
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sz, detected, err := imgsz.DecodeSize(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: unrecognized image format\n", path)
		os.Exit(1)
	}
	if detected != "gif" {
		fmt.Fprintf(os.Stderr, "Error: %s is a %s image (%dx%d), not a GIF\n", path, detected, sz.Width, sz.Height)
		os.Exit(1)
	}

	img, err := gif.DecodeFile(path, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Size: %d x %d\n", img.Width, img.Height)
	fmt.Printf("Channels: %d", img.Channels)
	if img.Opaque() {
		fmt.Printf(" (opaque)\n")
	} else {
		fmt.Printf(" (with alpha)\n")
	}
	fmt.Printf("Colorspace: sRGB (perceptual)\n")

	if img.HasDensity {
		fmt.Printf("Pixel density: X=%.1f, Y=%.1f (ratio %.3f)\n",
			img.DensityX, img.DensityY, img.DensityX/img.DensityY)
	} else {
		fmt.Printf("Pixel density: not specified\n")
	}

	if img.HasBackground {
		fmt.Printf("Background: R=%.3f, G=%.3f, B=%.3f\n",
			img.Background[0], img.Background[1], img.Background[2])
	} else {
		fmt.Printf("Background: none\n")
	}

	samplePixels(img, 5)
}

func samplePixels(img *gif.Image, count int) {
	step := img.Width / (count + 1)
	if step < 1 {
		step = 1
	}
	fmt.Printf("Sample pixels (diagonal):\n")
	for i := 0; i < count; i++ {
		x := (i + 1) * step
		y := (i + 1) * step
		if x >= img.Width || y >= img.Height {
			break
		}
		off := (y*img.Width + x) * img.Channels
		p := img.Pix[off : off+img.Channels]
		if img.Channels == 4 {
			fmt.Printf("  (%d,%d): R=%d G=%d B=%d A=%d\n", x, y, p[0], p[1], p[2], p[3])
		} else {
			fmt.Printf("  (%d,%d): R=%d G=%d B=%d\n", x, y, p[0], p[1], p[2])
		}
	}
}
