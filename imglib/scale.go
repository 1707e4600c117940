package imglib

import (
	"image"
	"math"
	"sync"
)

// ScaledSize returns the dimensions of a w x h image enlarged by rate, and
// false if those dimensions or the RGB buffer holding them would overflow an
// int.
func ScaledSize(w, h, rate int) (int, int, bool) {
	if w < 0 || h < 0 || rate < 1 {
		return 0, 0, false
	}
	if w > math.MaxInt/rate || h > math.MaxInt/rate {
		return 0, 0, false
	}
	sw, sh := w*rate, h*rate
	if sh != 0 && sw > math.MaxInt/rgbBpp/sh {
		return 0, 0, false
	}
	return sw, sh, true
}

// scaleUpRowTriple copies byte-triples from src to dest, putting rate
// consecutive copies of each in dest, so with rate 2 if src is abcdefghi,
// dest is abcabcdefdefghighi.
func scaleUpRowTriple(src, dest []byte, rate int) {
	d := 0
	for i := 0; i+2 < len(src); i += 3 {
		r, g, b := src[i+0], src[i+1], src[i+2]
		for k := 0; k < rate; k++ {
			dest[d+0] = r
			dest[d+1] = g
			dest[d+2] = b
			d += 3
		}
	}
}

// scaleUpRows fills the destination rows belonging to source rows [lo,hi),
// counted from src.Rect.Min.Y.  The first destination row of each block is
// built from the source row and the remaining rate-1 are copies of it.
func scaleUpRows(dst, src *RGB, rate, lo, hi int) {
	for sy := lo; sy < hi; sy++ {
		first := dst.Row(sy * rate)
		scaleUpRowTriple(src.Row(src.Rect.Min.Y+sy), first, rate)
		for k := 1; k < rate; k++ {
			copy(dst.Row(sy*rate+k), first)
		}
	}
}

// ScaleUp returns a new RGB, with bounds at the origin, of src enlarged by
// rate in both directions so that every source pixel becomes a rate x rate
// block.  The work is split into bands of consecutive source rows, at most
// one goroutine per band and no more than workers bands.  Bands never share
// a destination row, and ScaleUp returns only after all of them are done.
//
// ScaleUp panics if rate < 1.  Callers wanting an error should check with
// ScaledSize first.
func ScaleUp(src *RGB, rate, workers int) *RGB {
	if rate < 1 {
		panic("imglib: ScaleUp rate must be positive")
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := NewRGB(image.Rect(0, 0, w*rate, h*rate))
	if workers > h {
		workers = h
	}
	if workers <= 1 {
		scaleUpRows(dst, src, rate, 0, h)
		return dst
	}

	band := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < h; lo += band {
		hi := lo + band
		if hi > h {
			hi = h
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			scaleUpRows(dst, src, rate, lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return dst
}
