package imglib

import . "gopkg.in/check.v1"
import "image"
import "image/color"
import "image/draw"
import "math"

import xdraw "golang.org/x/image/draw"

var (
	red   = color.RGBA{0xFF, 0, 0, 0xFF}
	green = color.RGBA{0, 0xFF, 0, 0xFF}
	blue  = color.RGBA{0, 0, 0xFF, 0xFF}
	white = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// scaleNearest sets every pixel (i,j) of the src.Bounds() enlarged by rate,
// relative to dst.Bounds().Min, to the source pixel at (i/rate, j/rate)
// relative to src.Bounds().Min.  Pixels falling outside dst are skipped.
// It is the slow, obvious statement of what ScaleUp computes.
func scaleNearest(dst draw.Image, src image.Image, rate int) {
	if rate < 1 {
		panic("imglib: scaleNearest rate must be positive")
	}
	sb, db := src.Bounds(), dst.Bounds()
	w, h := sb.Dx()*rate, sb.Dy()*rate
	if w > db.Dx() {
		w = db.Dx()
	}
	if h > db.Dy() {
		h = db.Dy()
	}
	drgb, dok := dst.(*RGB)
	srgb, sok := src.(*RGB)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			sx, sy := sb.Min.X+i/rate, sb.Min.Y+j/rate
			if dok && sok {
				drgb.SetRGB(db.Min.X+i, db.Min.Y+j, srgb.RGBAt(sx, sy))
			} else {
				dst.Set(db.Min.X+i, db.Min.Y+j, src.At(sx, sy))
			}
		}
	}
}

func nearestRGB(src image.Image, rate int) *RGB {
	b := src.Bounds()
	dst := NewRGB(image.Rect(0, 0, b.Dx()*rate, b.Dy()*rate))
	scaleNearest(dst, src, rate)
	return dst
}

func (s *MySuite) TestScaleUpDimensions(c *C) {
	for _, dim := range []image.Point{{0, 0}, {0, 3}, {3, 0}, {1, 1}, {7, 5}} {
		for rate := 1; rate <= 5; rate++ {
			dst := ScaleUp(getTestRgbImage(dim), rate, 4)
			c.Check(dst.Bounds(), Equals, image.Rect(0, 0, dim.X*rate, dim.Y*rate))
			c.Check(dst.Pix, HasLen, 3*dim.X*rate*dim.Y*rate)
		}
	}
}

func (s *MySuite) TestScaleUpTwoByTwo(c *C) {
	src := NewRGB(image.Rect(0, 0, 2, 2))
	src.SetRGB(0, 0, red)
	src.SetRGB(1, 0, green)
	src.SetRGB(0, 1, blue)
	src.SetRGB(1, 1, white)

	dst := ScaleUp(src, 2, 1)
	c.Assert(dst.Bounds(), Equals, image.Rect(0, 0, 4, 4))
	want := [4][4]color.RGBA{
		{red, red, green, green},
		{red, red, green, green},
		{blue, blue, white, white},
		{blue, blue, white, white},
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c.Check(dst.RGBAt(x, y), Equals, want[y][x], Commentf("(%d,%d)", x, y))
		}
	}
}

func (s *MySuite) TestScaleUpIdentity(c *C) {
	src := getTestRgbImage(image.Point{13, 9})
	dst := ScaleUp(src, 1, 3)
	c.Check(dst, DeepEquals, src)
	c.Check(&dst.Pix[0] == &src.Pix[0], Equals, false)
}

func (s *MySuite) TestScaleUpReplication(c *C) {
	src := getTestRgbImage(image.Point{11, 6})
	for rate := 1; rate <= 4; rate++ {
		dst := ScaleUp(src, rate, 2)
		for j := 0; j < dst.Rect.Dy(); j++ {
			for i := 0; i < dst.Rect.Dx(); i++ {
				if dst.RGBAt(i, j) != src.RGBAt(i/rate, j/rate) {
					c.Fatalf("rate %d: pix at (%d,%d): got %v, want %v",
						rate, i, j, dst.RGBAt(i, j), src.RGBAt(i/rate, j/rate))
				}
			}
		}
	}
}

func (s *MySuite) TestScaleUpBlocksUniform(c *C) {
	const rate = 3
	src := getTestRgbImage(image.Point{5, 4})
	dst := ScaleUp(src, rate, 2)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			block := dst.SubImage(image.Rect(x*rate, y*rate, (x+1)*rate, (y+1)*rate)).(*RGB)
			for j := block.Rect.Min.Y; j < block.Rect.Max.Y; j++ {
				for i := block.Rect.Min.X; i < block.Rect.Max.X; i++ {
					c.Check(block.RGBAt(i, j), Equals, src.RGBAt(x, y))
				}
			}
		}
	}
}

func (s *MySuite) TestScaleUpWorkers(c *C) {
	src := getTestRgbImage(image.Point{19, 23})
	for rate := 1; rate <= 4; rate++ {
		want := nearestRGB(src, rate)
		for _, workers := range []int{-1, 0, 1, 2, 3, 7, 23, 64} {
			c.Check(ScaleUp(src, rate, workers), DeepEquals, want, Commentf("rate %d, workers %d", rate, workers))
		}
	}
}

func (s *MySuite) TestScaleUpSubImage(c *C) {
	src := getTestRgbImage(image.Point{10, 10}).SubImage(image.Rect(3, 2, 8, 9)).(*RGB)
	c.Check(ScaleUp(src, 3, 2), DeepEquals, nearestRGB(src, 3))
}

func (s *MySuite) TestScaleUpMatchesXDraw(c *C) {
	src := getTestRgbImage(image.Point{21, 14})
	for rate := 1; rate <= 6; rate++ {
		want := image.NewRGBA(image.Rect(0, 0, 21*rate, 14*rate))
		xdraw.NearestNeighbor.Scale(want, want.Rect, src.ToRGBA(), src.Rect, xdraw.Src, nil)
		c.Check(ScaleUp(src, rate, 4).ToRGBA(), DeepEquals, want, Commentf("rate %d", rate))
	}
}

func (s *MySuite) TestScaleNearestReference(c *C) {
	src := getTestNrgbaImage(image.Point{6, 5})
	dst := image.NewNRGBA(image.Rect(10, 10, 22, 20))
	scaleNearest(dst, src, 2)
	for j := 0; j < 10; j++ {
		for i := 0; i < 12; i++ {
			c.Check(dst.At(10+i, 10+j), Equals, src.At(i/2, j/2))
		}
	}

	// A destination smaller than the scaled source is clipped.
	small := NewRGB(image.Rect(0, 0, 3, 3))
	scaleNearest(small, getTestRgbImage(image.Point{4, 4}), 2)
	c.Check(small.RGBAt(2, 2), Equals, color.RGBA{1, 1, 2, 0xFF})
}

func (s *MySuite) TestScaleBadRate(c *C) {
	src := getTestRgbImage(image.Point{2, 2})
	c.Check(func() { ScaleUp(src, 0, 1) }, PanicMatches, ".*rate must be positive")
	c.Check(func() { scaleNearest(NewRGB(src.Rect), src, -1) }, PanicMatches, ".*rate must be positive")
}

func (s *MySuite) TestScaledSize(c *C) {
	w, h, ok := ScaledSize(640, 480, 8)
	c.Check(ok, Equals, true)
	c.Check(w, Equals, 5120)
	c.Check(h, Equals, 3840)

	_, _, ok = ScaledSize(0, 480, 8)
	c.Check(ok, Equals, true)
	_, _, ok = ScaledSize(10, 10, 0)
	c.Check(ok, Equals, false)
	_, _, ok = ScaledSize(math.MaxInt/2, 1, 3)
	c.Check(ok, Equals, false)
	_, _, ok = ScaledSize(1<<20, 1<<20, 1<<12)
	c.Check(ok, Equals, false)
}

func (s *MySuite) BenchmarkScaleUp(c *C) {
	src := getTestRgbImage(image.Point{320, 240})
	c.ResetTimer()
	for i := 0; i < c.N; i++ {
		ScaleUp(src, 8, 1)
	}
}

func (s *MySuite) BenchmarkScaleUpParallel(c *C) {
	src := getTestRgbImage(image.Point{320, 240})
	c.ResetTimer()
	for i := 0; i < c.N; i++ {
		ScaleUp(src, 8, 8)
	}
}

func (s *MySuite) BenchmarkscaleNearest(c *C) {
	src := getTestRgbImage(image.Point{320, 240})
	dst := NewRGB(image.Rect(0, 0, 320*8, 240*8))
	c.ResetTimer()
	for i := 0; i < c.N; i++ {
		scaleNearest(dst, src, 8)
	}
}
