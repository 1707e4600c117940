// Package upscaler enlarges images by an integer factor with nearest
// neighbor sampling: destination pixel (i,j) is source pixel
// (i/rate, j/rate), so every source pixel becomes a rate x rate block.
package upscaler

import (
	"context"
	"errors"
	"image"
	"runtime"
	"strconv"
	"time"

	"github.com/ncabatoff/pixup/imglib"
)

// DefaultRate is the scale factor used when none is given.
const DefaultRate = 8

// Options control UpscaleFile.
type Options struct {
	// Rate is the scale factor, at least 1.
	Rate int

	// Workers is the number of goroutines filling the destination.  Zero or
	// less means runtime.NumCPU().
	Workers int

	// AutoRotate applies the EXIF orientation of JPEG sources before scaling.
	AutoRotate bool

	// JPEGQuality is used for .jpg/.jpeg output, 1-100.  Zero means
	// imglib.DefaultJPEGQuality.
	JPEGQuality int
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// ParseRate parses a scale factor given as text, e.g. on the command line.
func ParseRate(s string) (int, error) {
	rate, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidArg(StageArgs, "rate "+strconv.Quote(s), "not an integer")
	}
	if err := checkRate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}

func checkRate(rate int) error {
	if rate < 1 {
		return invalidArg(StageArgs, "rate "+strconv.Itoa(rate), "must be a positive integer")
	}
	return nil
}

// Upscale returns src converted to RGB and enlarged by rate.  src is only
// read.  The result has bounds (0,0)-(w*rate,h*rate) where w and h are the
// dimensions of src, and every one of its pixels is a copy of a src pixel.
func Upscale(src image.Image, rate, workers int) (*imglib.RGB, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	b := src.Bounds()
	w, h, ok := imglib.ScaledSize(b.Dx(), b.Dy(), rate)
	if !ok {
		return nil, invalidArg(StageCompute, "", "%dx%d image scaled by %d is too large", b.Dx(), b.Dy(), rate)
	}
	dbg("scaling %dx%d by %d to %dx%d with %d workers", b.Dx(), b.Dy(), rate, w, h, workers)
	return imglib.ScaleUp(imglib.NewRGBFromImage(src), rate, workers), nil
}

// UpscaleFile decodes the image at srcPath, enlarges it by opts.Rate and
// writes the result to dstPath in the format named by its extension.  It
// writes dstPath and nothing else, and leaves it untouched on failure.
//
// Arguments are checked before anything is read.  ctx is checked between
// stages and while the output is written; a cancelled run leaves dstPath
// alone and returns an *Error wrapping ctx.Err().
func UpscaleFile(ctx context.Context, srcPath, dstPath string, opts Options) error {
	if err := checkRate(opts.Rate); err != nil {
		return err
	}
	if opts.JPEGQuality < 0 || opts.JPEGQuality > 100 {
		return invalidArg(StageArgs, "quality "+strconv.Itoa(opts.JPEGQuality), "must be 0 (default) or 1-100")
	}
	if _, err := imglib.FormatFromPath(dstPath); err != nil {
		return &Error{StageArgs, ErrInvalidArgument, dstPath, err}
	}

	if err := ctx.Err(); err != nil {
		return &Error{StageDecode, nil, srcPath, err}
	}
	start := time.Now()
	src, format, err := imglib.LoadImage(srcPath, imglib.LoadOptions{AutoRotate: opts.AutoRotate})
	if err != nil {
		return &Error{StageDecode, ErrDecode, srcPath, err}
	}
	b := src.Bounds()
	logsince(start, "decoded %s: %s %dx%d", srcPath, format, b.Dx(), b.Dy())

	if err := ctx.Err(); err != nil {
		return &Error{StageCompute, nil, srcPath, err}
	}
	start = time.Now()
	dst, err := Upscale(src, opts.Rate, opts.workers())
	if err != nil {
		if e, ok := err.(*Error); ok && e.Subject == "" {
			e.Subject = srcPath
		}
		return err
	}
	logsince(start, "scaled by %d to %dx%d", opts.Rate, dst.Rect.Dx(), dst.Rect.Dy())

	if err := ctx.Err(); err != nil {
		return &Error{StageEncode, nil, dstPath, err}
	}
	start = time.Now()
	err = imglib.SaveImageContext(ctx, dstPath, dst, imglib.EncodeOptions{JPEGQuality: opts.JPEGQuality})
	if err != nil {
		return saveError(dstPath, err)
	}
	logsince(start, "wrote %s", dstPath)
	return nil
}

func saveError(path string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{StageEncode, nil, path, err}
	}
	var se *imglib.SaveError
	if !errors.As(err, &se) {
		return &Error{StageWrite, ErrWrite, path, err}
	}
	if se.Op == "encode" {
		return &Error{StageEncode, ErrEncode, path, se.Err}
	}
	return &Error{StageWrite, ErrWrite, path, se.Err}
}
