package imglib

import "image"
import "image/color"

const rgbBpp = 3

// A RGB is a packed image format with one byte per color channel,
// the colors ordered by (R,G,B).  It's an image.RGBA without the 'A'.
// *RGB implements draw.Image.
type RGB struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewRGB returns a new black RGB with the given bounds.
func NewRGB(r image.Rectangle) *RGB {
	w, h := r.Dx(), r.Dy()
	buf := make([]uint8, rgbBpp*w*h)
	return &RGB{buf, rgbBpp * w, r}
}

// ColorModel returns image/color.RGBAModel.  Every RGB pixel is opaque so
// converting through RGBA loses nothing.
func (img *RGB) ColorModel() color.Model { return color.RGBAModel }

// Bounds returns the bounding rectangle.
func (img *RGB) Bounds() image.Rectangle { return img.Rect }

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (img *RGB) PixOffset(x, y int) int {
	return (y-img.Rect.Min.Y)*img.Stride + (x-img.Rect.Min.X)*rgbBpp
}

// At returns the pixel at (x,y).  Reading a large number of pixels is better
// done using Row() or by looking at the Pix array directly.
func (img *RGB) At(x, y int) color.Color {
	return img.RGBAt(x, y)
}

// RGBAt is like At but returns the concrete color.RGBA, with A always 0xFF.
// Points outside the image are transparent black.
func (img *RGB) RGBAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(img.Rect)) {
		return color.RGBA{}
	}
	i := img.PixOffset(x, y)
	return color.RGBA{img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], 0xFF}
}

// Set assigns the pixel at (x,y) the color c, dropping any alpha.
func (img *RGB) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(img.Rect)) {
		return
	}
	i := img.PixOffset(x, y)
	c1 := color.NRGBAModel.Convert(c).(color.NRGBA)
	img.Pix[i+0] = c1.R
	img.Pix[i+1] = c1.G
	img.Pix[i+2] = c1.B
}

// SetRGB assigns the pixel at (x,y) the color c.  This is faster than
// Set since it doesn't need to do a colorspace conversion.  c.A is ignored.
func (img *RGB) SetRGB(x, y int, c color.RGBA) {
	if !(image.Point{x, y}.In(img.Rect)) {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
}

// Row returns the bytes of row y, exactly 3*Rect.Dx() long.  The slice
// shares memory with Pix.
func (img *RGB) Row(y int) []uint8 {
	start := img.PixOffset(img.Rect.Min.X, y)
	return img.Pix[start : start+rgbBpp*img.Rect.Dx()]
}

// SubImage returns an image representing the portion of the image visible
// through r. The returned value shares pixels with the original image.
func (img *RGB) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(img.Rect)
	// If r1 and r2 are Rectangles, r1.Intersect(r2) is not guaranteed to be inside
	// either r1 or r2 if the intersection is empty. Without explicitly checking for
	// this, the Pix[i:] expression below can panic.
	if r.Empty() {
		return &RGB{}
	}
	i := img.PixOffset(r.Min.X, r.Min.Y)
	return &RGB{
		Pix:    img.Pix[i:],
		Stride: img.Stride,
		Rect:   r,
	}
}

// Opaque always returns true.  Encoders use this to pick an alpha-free
// output format.
func (img *RGB) Opaque() bool {
	return true
}

// ToRGBA returns an RGBA image built from RGB by providing 0xFF for the alpha channel.
func (img *RGB) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	po := 0
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		row := img.Row(y)
		for pi := 0; pi < len(row); pi += rgbBpp {
			rgba.Pix[po+0] = row[pi+0]
			rgba.Pix[po+1] = row[pi+1]
			rgba.Pix[po+2] = row[pi+2]
			rgba.Pix[po+3] = 0xFF
			po += 4
		}
	}
	return rgba
}
