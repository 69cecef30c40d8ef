package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pspoerri/gifconv/internal/encode"
	"github.com/pspoerri/gifconv/internal/gif"
	"github.com/pspoerri/gifconv/internal/resize"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		format      string
		quality     int
		width       int
		height      int
		filter      string
		maxDim      int
		verbose     bool
		showVersion bool
	)

	flag.StringVar(&format, "format", "", "Output encoding: jpeg, png, webp (default: from output extension)")
	flag.IntVar(&quality, "quality", 85, "JPEG/WebP quality 1-100")
	flag.IntVar(&width, "width", 0, "Output width in pixels (0 = keep aspect ratio)")
	flag.IntVar(&height, "height", 0, "Output height in pixels (0 = keep aspect ratio)")
	flag.StringVar(&filter, "filter", "bilinear", "Interpolation method: nearest, bilinear, bicubic, lanczos")
	flag.IntVar(&maxDim, "max-dim", gif.DefaultMaxDimension, "Reject inputs wider or taller than this many pixels")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gifconv [flags] <input.gif> <output.{png,jpg,webp}>\n\n")
		fmt.Fprintf(os.Stderr, "Convert a GIF image to PNG, JPEG or WebP, optionally resizing it.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("gifconv %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath := args[0]
	outputPath := args[1]

	if format == "" {
		f, err := encode.FormatForPath(outputPath)
		if err != nil {
			log.Fatalf("Output format: %v", err)
		}
		format = f
	}
	enc, err := encode.NewEncoder(format, quality)
	if err != nil {
		log.Fatalf("Encoder: %v", err)
	}

	mode, err := resize.ParseResampling(filter)
	if err != nil {
		log.Fatalf("Filter: %v", err)
	}

	start := time.Now()
	src, err := gif.DecodeFile(inputPath, &gif.Options{MaxWidth: maxDim, MaxHeight: maxDim})
	if err != nil {
		log.Fatalf("Decoding %s: %v", inputPath, err)
	}
	if verbose {
		log.Printf("Decoded %s: %dx%d, %d channels (%v)",
			inputPath, src.Width, src.Height, src.Channels, time.Since(start).Round(time.Millisecond))
	}

	img := src.NRGBA()
	outW, outH := resize.FitDimensions(src.Width, src.Height, width, height, maxDim)
	if outW != src.Width || outH != src.Height {
		rs := time.Now()
		img = resize.Resize(img, outW, outH, mode)
		if verbose {
			log.Printf("Resized to %dx%d with %s (%v)", outW, outH, mode, time.Since(rs).Round(time.Millisecond))
		}
	}

	data, err := enc.Encode(img)
	if err != nil {
		log.Fatalf("Encoding %s: %v", format, err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		log.Fatalf("Writing %s: %v", outputPath, err)
	}

	if verbose {
		log.Printf("Wrote %s: %d bytes (total %v)", outputPath, len(data), time.Since(start).Round(time.Millisecond))
	}
}
