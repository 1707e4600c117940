package imglib

import (
	"image"
	"image/color"
)

const (
	rgbaBpp  = 4
	nrgbaBpp = 4
)

// NewRGBFromImage returns a new RGB holding the pixels of src, its bounds
// translated to start at the origin.  Alpha is discarded: the straight
// (non-premultiplied) color of each pixel is kept, which is what you'd see
// if the image were drawn with no background.
func NewRGBFromImage(src image.Image) *RGB {
	b := src.Bounds()
	dest := NewRGB(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch concrete := src.(type) {
	case *RGB:
		convertRGB(dest, concrete)
	case *image.RGBA:
		convertRGBA(dest, concrete)
	case *image.NRGBA:
		convertNRGBA(dest, concrete)
	case *image.YCbCr:
		convertYCbCr(dest, concrete)
	case *image.Gray:
		convertGray(dest, concrete)
	case *image.Paletted:
		convertPaletted(dest, concrete)
	default:
		convertImageWithAt(dest, src)
	}
	return dest
}

// convertImageWithAt converts any image implementing the image.Image interface.
// This is *slow*, and is the reference the other conversions are tested against.
func convertImageWithAt(dest *RGB, src image.Image) {
	i := 0
	for y := src.Bounds().Min.Y; y < src.Bounds().Max.Y; y++ {
		for x := src.Bounds().Min.X; x < src.Bounds().Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dest.Pix[i+0] = c.R
			dest.Pix[i+1] = c.G
			dest.Pix[i+2] = c.B
			i += rgbBpp
		}
	}
}

func convertRGB(dest *RGB, src *RGB) {
	di := 0
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		di += copy(dest.Pix[di:], src.Row(y))
	}
}

// unpremultiply matches the rounding of color.NRGBAModel so that the fast
// path and convertImageWithAt agree on translucent pixels.
func unpremultiply(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	c16, a16 := uint32(c)*0x101, uint32(a)*0x101
	return uint8((c16 * 0xffff / a16) >> 8)
}

func convertRGBA(dest *RGB, src *image.RGBA) {
	di := 0
	si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y)
	skip := src.Stride - rgbaBpp*(src.Rect.Dx())
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		endi := si + rgbaBpp*src.Rect.Dx()
		for si < endi {
			if a := src.Pix[si+3]; a == 0xff {
				dest.Pix[di+0] = src.Pix[si+0]
				dest.Pix[di+1] = src.Pix[si+1]
				dest.Pix[di+2] = src.Pix[si+2]
			} else {
				dest.Pix[di+0] = unpremultiply(src.Pix[si+0], a)
				dest.Pix[di+1] = unpremultiply(src.Pix[si+1], a)
				dest.Pix[di+2] = unpremultiply(src.Pix[si+2], a)
			}
			di += rgbBpp
			si += rgbaBpp
		}
		si += skip
	}
}

// convertNRGBA just drops the alpha byte, NRGBA already stores straight color.
func convertNRGBA(dest *RGB, src *image.NRGBA) {
	di := 0
	si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y)
	skip := src.Stride - nrgbaBpp*(src.Rect.Dx())
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		endi := si + nrgbaBpp*src.Rect.Dx()
		for si < endi {
			dest.Pix[di+0] = src.Pix[si+0]
			dest.Pix[di+1] = src.Pix[si+1]
			dest.Pix[di+2] = src.Pix[si+2]
			di += rgbBpp
			si += nrgbaBpp
		}
		si += skip
	}
}

// convertYCbCr works for any subsample ratio since it asks the image for the
// chroma offset of every pixel.
func convertYCbCr(dest *RGB, src *image.YCbCr) {
	di := 0
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		for x := src.Rect.Min.X; x < src.Rect.Max.X; x++ {
			yi := src.YOffset(x, y)
			ci := src.COffset(x, y)
			r, g, b := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
			dest.Pix[di+0] = r
			dest.Pix[di+1] = g
			dest.Pix[di+2] = b
			di += rgbBpp
		}
	}
}

func convertGray(dest *RGB, src *image.Gray) {
	di := 0
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		si := src.PixOffset(src.Rect.Min.X, y)
		for _, v := range src.Pix[si : si+src.Rect.Dx()] {
			dest.Pix[di+0] = v
			dest.Pix[di+1] = v
			dest.Pix[di+2] = v
			di += rgbBpp
		}
	}
}

// convertPaletted converts the palette once and then does a table lookup per
// pixel.  Indexes past the end of the palette come out black.
func convertPaletted(dest *RGB, src *image.Paletted) {
	var table [256 * rgbBpp]uint8
	for i, c := range src.Palette {
		if i >= 256 {
			break
		}
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		table[i*rgbBpp+0] = n.R
		table[i*rgbBpp+1] = n.G
		table[i*rgbBpp+2] = n.B
	}
	di := 0
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		si := src.PixOffset(src.Rect.Min.X, y)
		for _, idx := range src.Pix[si : si+src.Rect.Dx()] {
			copy(dest.Pix[di:di+rgbBpp], table[int(idx)*rgbBpp:])
			di += rgbBpp
		}
	}
}
