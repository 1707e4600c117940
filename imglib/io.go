package imglib

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/jpegn"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnknownFormat is returned for output paths whose extension has no encoder.
	ErrUnknownFormat = errors.New("unknown image format")

	// ErrEmptyImage is returned when asked to encode an image with no pixels.
	// None of the supported formats can represent one.
	ErrEmptyImage = errors.New("image has zero width or height")
)

const jpegMagic = "\xff\xd8"

// DefaultJPEGQuality is used when EncodeOptions.JPEGQuality is zero.
const DefaultJPEGQuality = 95

// LoadOptions tweak LoadImage.
type LoadOptions struct {
	// AutoRotate applies the EXIF orientation of JPEG files.
	AutoRotate bool
}

// LoadImage reads and decodes the file at path.  JPEG files go through
// github.com/gen2brain/jpegn; everything else through image.Decode, which
// knows PNG, GIF, BMP, TIFF and WebP.  The returned string names the format.
func LoadImage(path string, opts LoadOptions) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if magic, err := br.Peek(len(jpegMagic)); err == nil && string(magic) == jpegMagic {
		img, err := jpegn.Decode(br, &jpegn.Options{AutoRotate: opts.AutoRotate})
		return img, "jpeg", err
	}
	return image.Decode(br)
}

// Format is an output image encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	GIF
	BMP
	TIFF
)

var formatNames = []string{"png", "jpeg", "gif", "bmp", "tiff"}

var formatExts = map[string]Format{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".gif":  GIF,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// FormatFromPath picks the output format from the extension of path,
// ignoring case.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatExts[ext]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
}

// EncodeOptions tweak the encoders that take options.
type EncodeOptions struct {
	// JPEGQuality is 1-100; 0 means DefaultJPEGQuality.
	JPEGQuality int
}

// Encode writes img to w in format f.
func (f Format) Encode(w io.Writer, img image.Image, opts EncodeOptions) error {
	if img.Bounds().Empty() {
		return ErrEmptyImage
	}
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		q := opts.JPEGQuality
		if q == 0 {
			q = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case GIF:
		// draw.Src maps each pixel to its nearest palette entry without
		// dithering, so replicated blocks stay uniform.
		return gif.Encode(w, img, &gif.Options{NumColors: 256, Drawer: draw.Src})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// A SaveError reports a failure of SaveImage.  Op is "encode" when the
// encoder rejected the image and "write" when the filesystem failed.
type SaveError struct {
	Op   string
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *SaveError) Unwrap() error { return e.Err }

// errWriter remembers the first error of the underlying writer, so that an
// encoder failure can be told apart from a write failure.  Once ctx is done
// every Write fails, which stops the encoder.
type errWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if err := ew.ctx.Err(); err != nil {
		if ew.err == nil {
			ew.err = err
		}
		return 0, err
	}
	n, err := ew.w.Write(p)
	if err != nil && ew.err == nil {
		ew.err = err
	}
	return n, err
}

// SaveImage encodes img into path, in the format given by the extension of
// path.  The data goes to a temporary file in the same directory which is
// renamed to path once complete, so on failure path is left as it was.
func SaveImage(path string, img image.Image, opts EncodeOptions) error {
	return SaveImageContext(context.Background(), path, img, opts)
}

// SaveImageContext is SaveImage that gives up as soon as ctx is done.  The
// encoder is stopped at its next write and path is not touched; the error
// returned is then ctx.Err() itself rather than a *SaveError.
func SaveImageContext(ctx context.Context, path string, img image.Image, opts EncodeOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return &SaveError{"encode", path, err}
	}
	if img.Bounds().Empty() {
		return &SaveError{"encode", path, ErrEmptyImage}
	}

	tmp := filepath.Join(filepath.Dir(path),
		"."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return &SaveError{"write", path, err}
	}
	closed, done := false, false
	defer func() {
		if !done {
			if !closed {
				file.Close()
			}
			os.Remove(tmp)
		}
	}()
	fail := func(op string, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		return &SaveError{op, path, err}
	}

	ew := &errWriter{ctx: ctx, w: file}
	bw := bufio.NewWriter(ew)
	if err := format.Encode(bw, img, opts); err != nil {
		if ew.err != nil {
			return fail("write", ew.err)
		}
		return fail("encode", err)
	}
	if err := bw.Flush(); err != nil {
		return fail("write", err)
	}
	closed = true
	if err := file.Close(); err != nil {
		return fail("write", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fail("write", err)
	}
	done = true
	glog.V(2).Infof("wrote %s as %v, %dx%d", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
