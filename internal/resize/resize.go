// Package resize scales decoded images to a requested size.
//
// The resamplers operate on non-premultiplied RGBA buffers. Pixels with
// alpha == 0 are treated as nodata and excluded from RGB interpolation so
// they don't bleed dark colors into the result; alpha itself is interpolated
// with the full kernel weights so edges fade smoothly.
package resize

import (
	"fmt"
	"image"
	"math"
)

// Resampling selects the interpolation kernel.
type Resampling int

const (
	ResamplingBilinear Resampling = iota
	ResamplingNearest
	ResamplingBicubic
	ResamplingLanczos
)

// ParseResampling maps a user-facing filter name to a Resampling mode.
func ParseResampling(s string) (Resampling, error) {
	switch s {
	case "bilinear", "":
		return ResamplingBilinear, nil
	case "nearest":
		return ResamplingNearest, nil
	case "bicubic":
		return ResamplingBicubic, nil
	case "lanczos":
		return ResamplingLanczos, nil
	default:
		return 0, fmt.Errorf("unknown resampling mode: %q (supported: nearest, bilinear, bicubic, lanczos)", s)
	}
}

func (r Resampling) String() string {
	switch r {
	case ResamplingNearest:
		return "nearest"
	case ResamplingBicubic:
		return "bicubic"
	case ResamplingLanczos:
		return "lanczos"
	default:
		return "bilinear"
	}
}

// FitDimensions resolves the requested output size against the source size.
// A zero width or height is derived from the other dimension preserving the
// aspect ratio; both zero means the source size. If maxDim > 0 and either
// resolved dimension exceeds it, both are scaled down proportionally.
// Results are always at least 1.
func FitDimensions(srcW, srcH, reqW, reqH, maxDim int) (int, int) {
	w, h := reqW, reqH
	switch {
	case w <= 0 && h <= 0:
		w, h = srcW, srcH
	case w <= 0:
		w = int(math.Round(float64(h) * float64(srcW) / float64(srcH)))
	case h <= 0:
		h = int(math.Round(float64(w) * float64(srcH) / float64(srcW)))
	}
	if maxDim > 0 && (w > maxDim || h > maxDim) {
		scale := float64(maxDim) / float64(w)
		if s := float64(maxDim) / float64(h); s < scale {
			scale = s
		}
		w = int(math.Round(float64(w) * scale))
		h = int(math.Round(float64(h) * scale))
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Resize scales src to w x h using the given resampling mode. When the
// target matches the source size the source is returned unchanged.
func Resize(src *image.NRGBA, w, h int, mode Resampling) *image.NRGBA {
	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()
	if w == srcW && h == srcH {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	scaleX := float64(srcW) / float64(w)
	scaleY := float64(srcH) / float64(h)

	switch mode {
	case ResamplingNearest:
		resizeNearest(dst, src, scaleX, scaleY)
	case ResamplingBicubic:
		resizeKernel(dst, src, scaleX, scaleY, 2, bicubicLUT)
	case ResamplingLanczos:
		resizeKernel(dst, src, scaleX, scaleY, 3, lanczos3LUT)
	default:
		resizeBilinear(dst, src, scaleX, scaleY)
	}
	return dst
}

func resizeNearest(dst, src *image.NRGBA, scaleX, scaleY float64) {
	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()
	for dy := 0; dy < dst.Rect.Dy(); dy++ {
		sy := clamp(int((float64(dy)+0.5)*scaleY), 0, srcH-1)
		srcRow := sy * src.Stride
		dstRow := dy * dst.Stride
		for dx := 0; dx < dst.Rect.Dx(); dx++ {
			sx := clamp(int((float64(dx)+0.5)*scaleX), 0, srcW-1)
			copy(dst.Pix[dstRow+dx*4:dstRow+dx*4+4], src.Pix[srcRow+sx*4:srcRow+sx*4+4])
		}
	}
}

func resizeBilinear(dst, src *image.NRGBA, scaleX, scaleY float64) {
	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()
	pix := src.Pix
	stride := src.Stride

	for dy := 0; dy < dst.Rect.Dy(); dy++ {
		fy := (float64(dy)+0.5)*scaleY - 0.5
		y0 := clamp(int(math.Floor(fy)), 0, srcH-1)
		y1 := clamp(y0+1, 0, srcH-1)
		wy := fy - math.Floor(fy)
		dstRow := dy * dst.Stride

		for dx := 0; dx < dst.Rect.Dx(); dx++ {
			fx := (float64(dx)+0.5)*scaleX - 0.5
			x0 := clamp(int(math.Floor(fx)), 0, srcW-1)
			x1 := clamp(x0+1, 0, srcW-1)
			wx := fx - math.Floor(fx)

			offs := [4]int{
				y0*stride + x0*4,
				y0*stride + x1*4,
				y1*stride + x0*4,
				y1*stride + x1*4,
			}
			weights := [4]float64{
				(1 - wx) * (1 - wy),
				wx * (1 - wy),
				(1 - wx) * wy,
				wx * wy,
			}

			var rSum, gSum, bSum, aSum, wRGB float64
			for i, off := range offs {
				wt := weights[i]
				a := pix[off+3]
				aSum += float64(a) * wt
				if a > 0 {
					rSum += float64(pix[off+0]) * wt
					gSum += float64(pix[off+1]) * wt
					bSum += float64(pix[off+2]) * wt
					wRGB += wt
				}
			}

			d := dstRow + dx*4
			if wRGB == 0 {
				// All neighbors are nodata.
				dst.Pix[d+0] = 0
				dst.Pix[d+1] = 0
				dst.Pix[d+2] = 0
				dst.Pix[d+3] = 0
				continue
			}
			dst.Pix[d+0] = clampByte(rSum / wRGB)
			dst.Pix[d+1] = clampByte(gSum / wRGB)
			dst.Pix[d+2] = clampByte(bSum / wRGB)
			dst.Pix[d+3] = clampByte(aSum)
		}
	}
}

// resizeKernel is the shared accumulation loop for the bicubic and Lanczos
// kernels. When downscaling, the kernel support is stretched by the scale
// factor so every source pixel under the footprint contributes (otherwise a
// large downscale degenerates into point sampling).
func resizeKernel(dst, src *image.NRGBA, scaleX, scaleY float64, radius int, kernel func(float64) float64) {
	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()
	pix := src.Pix
	stride := src.Stride

	fscaleX := math.Max(scaleX, 1)
	fscaleY := math.Max(scaleY, 1)
	supportX := float64(radius) * fscaleX
	supportY := float64(radius) * fscaleY

	for dy := 0; dy < dst.Rect.Dy(); dy++ {
		fy := (float64(dy)+0.5)*scaleY - 0.5
		sy0 := int(math.Ceil(fy - supportY))
		sy1 := int(math.Floor(fy + supportY))
		dstRow := dy * dst.Stride

		for dx := 0; dx < dst.Rect.Dx(); dx++ {
			fx := (float64(dx)+0.5)*scaleX - 0.5
			sx0 := int(math.Ceil(fx - supportX))
			sx1 := int(math.Floor(fx + supportX))

			var rSum, gSum, bSum, aSum, wTotal, wRGB float64

			for sy := sy0; sy <= sy1; sy++ {
				wyVal := kernel((fy - float64(sy)) / fscaleY)
				if wyVal == 0 {
					continue
				}
				rowOff := clamp(sy, 0, srcH-1) * stride

				for sx := sx0; sx <= sx1; sx++ {
					wt := kernel((fx-float64(sx))/fscaleX) * wyVal
					if wt == 0 {
						continue
					}
					off := rowOff + clamp(sx, 0, srcW-1)*4
					a := pix[off+3]
					aSum += float64(a) * wt
					wTotal += wt
					if a > 0 {
						rSum += float64(pix[off+0]) * wt
						gSum += float64(pix[off+1]) * wt
						bSum += float64(pix[off+2]) * wt
						wRGB += wt
					}
				}
			}

			d := dstRow + dx*4
			if wRGB == 0 || wTotal == 0 {
				dst.Pix[d+0] = 0
				dst.Pix[d+1] = 0
				dst.Pix[d+2] = 0
				dst.Pix[d+3] = 0
				continue
			}
			dst.Pix[d+0] = clampByte(rSum / wRGB)
			dst.Pix[d+1] = clampByte(gSum / wRGB)
			dst.Pix[d+2] = clampByte(bSum / wRGB)
			dst.Pix[d+3] = clampByte(aSum / wTotal)
		}
	}
}
